package statement

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Dan9191/statement-analyzer/internal/generator"
	"github.com/Dan9191/statement-analyzer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("should sort rows and derive balances", func(t *testing.T) {
		input := `Date,Description,Amount,Category
2024-01-03,"Whole Foods, Market",-45.10,Groceries
2024-01-01,Salary Deposit,"1,500.00",Income
01/02/2024,Uber,-12.5,Transport
`
		ledger, err := Load(strings.NewReader(input), models.Personal, 100)
		require.NoError(t, err)
		require.Len(t, ledger.Transactions, 3)

		assert.Equal(t, "Salary Deposit", ledger.Transactions[0].Description)
		assert.Equal(t, models.Credit, ledger.Transactions[0].Type)
		assert.Equal(t, 1600.0, ledger.Transactions[0].Balance)

		assert.Equal(t, time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC), ledger.Transactions[1].Date)
		assert.Equal(t, models.Transport, ledger.Transactions[1].Category)
		assert.Equal(t, 1587.5, ledger.Transactions[1].Balance)

		assert.Equal(t, "Whole Foods, Market", ledger.Transactions[2].Description)
		assert.Equal(t, models.Debit, ledger.Transactions[2].Type)
		assert.InDelta(t, 1542.4, ledger.Transactions[2].Balance, 1e-9)
	})

	t.Run("should keep a supplied balance column", func(t *testing.T) {
		input := `date,description,amount,category,balance
2024-01-01,Coffee,-3.50,Dining,42.00
2024-01-02,Refund,10,Shopping,7.00
`
		ledger, err := Load(strings.NewReader(input), models.Personal, 0)
		require.NoError(t, err)
		require.Len(t, ledger.Transactions, 2)
		assert.Equal(t, 42.0, ledger.Transactions[0].Balance)
		assert.Equal(t, 7.0, ledger.Transactions[1].Balance)
		assert.Equal(t, 45.5, ledger.OpeningBalance)
	})

	t.Run("should normalize the operating alias and read subcategories", func(t *testing.T) {
		input := `Date,Description,Amount,Category,Subcategory
2024-01-01,Delta Airlines,-640.00,Operating,Travel
`
		ledger, err := Load(strings.NewReader(input), models.Company, 250000)
		require.NoError(t, err)
		require.Len(t, ledger.Transactions, 1)
		assert.Equal(t, models.OperatingExpenses, ledger.Transactions[0].Category)
		assert.Equal(t, "Travel", ledger.Transactions[0].Subcategory)
		assert.Equal(t, 249360.0, ledger.Transactions[0].Balance)
	})

	t.Run("should accept a header without rows", func(t *testing.T) {
		ledger, err := Load(strings.NewReader("Date,Description,Amount,Category\n"), models.Personal, 0)
		require.NoError(t, err)
		assert.Empty(t, ledger.Transactions)
		assert.Equal(t, 0.0, ledger.CurrentBalance())
	})

	t.Run("should skip blank lines", func(t *testing.T) {
		input := "Date,Description,Amount,Category\n2024-01-01,A,-1,Dining\n,,,\n2024-01-02,B,-2,Dining\n"
		ledger, err := Load(strings.NewReader(input), models.Personal, 0)
		require.NoError(t, err)
		assert.Len(t, ledger.Transactions, 2)
	})
}

func TestLoadRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		profile models.Profile
		line    int
		column  string
	}{
		{"should reject an empty file", "", models.Personal, 1, ""},
		{"should require every personal column", "Date,Description,Amount\n", models.Personal, 1, ColCategory},
		{"should require a company subcategory", "Date,Description,Amount,Category\n", models.Company, 1, ColSubcategory},
		{"should reject an unparseable amount",
			"Date,Description,Amount,Category\n2024-01-01,A,-1,Dining\n2024-01-02,B,twelve,Dining\n",
			models.Personal, 3, ColAmount},
		{"should reject an unparseable date",
			"Date,Description,Amount,Category\nyesterday,A,-1,Dining\n",
			models.Personal, 2, ColDate},
		{"should reject a short row",
			"Date,Description,Amount,Category\n2024-01-01,A,-1\n",
			models.Personal, 2, ColCategory},
		{"should reject a bad supplied balance",
			"Date,Description,Amount,Category,Balance\n2024-01-01,A,-1,Dining,n/a\n",
			models.Personal, 2, ColBalance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger, err := Load(strings.NewReader(tt.input), tt.profile, 0)
			require.Error(t, err)
			assert.Empty(t, ledger.Transactions)
			assert.True(t, errors.Is(err, ErrInvalidInput))

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.line, pe.Line)
			assert.Equal(t, tt.column, pe.Column)
		})
	}
}

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount(" $1,234.567 ")
	require.NoError(t, err)
	assert.Equal(t, 1234.57, v)

	v, err = ParseAmount("-0.1")
	require.NoError(t, err)
	assert.Equal(t, -0.1, v)

	_, err = ParseAmount("")
	assert.Error(t, err)
}

func generated(profile models.Profile) models.Ledger {
	anchor := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
	return generator.Generate(generator.DefaultParams(7, 60, profile, anchor))
}

func TestWriteCSV(t *testing.T) {
	t.Run("should load back what it writes", func(t *testing.T) {
		ledger := generated(models.Company)

		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, ledger))

		loaded, err := Load(&buf, models.Company, 0)
		require.NoError(t, err)
		assert.Equal(t, ledger, loaded)
	})

	t.Run("should write a header for an empty ledger", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, models.Ledger{}))
		assert.Equal(t, "Date,Description,Amount,Category,Subcategory,Type,Balance\n", buf.String())
	})

	t.Run("should fix amounts to two decimals", func(t *testing.T) {
		ledger := models.NewLedger([]models.Transaction{
			{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Description: "Gym", Amount: -30, Category: models.Fitness},
		}, 100)

		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, ledger))
		assert.Contains(t, buf.String(), "2024-01-01,Gym,-30.00,Fitness,,Debit,70.00\n")
	})
}

func TestXML(t *testing.T) {
	t.Run("should describe the statement in the root element", func(t *testing.T) {
		ledger := models.NewLedger([]models.Transaction{
			{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Description: "AT&T", Amount: -80, Category: models.Utilities},
			{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Description: "Salary", Amount: 500, Category: models.Income},
		}, 1000)

		var buf bytes.Buffer
		require.NoError(t, WriteXML(&buf, ledger, models.Personal))
		out := buf.String()

		assert.Contains(t, out, `<?xml version="1.0" encoding="UTF-8"?>`)
		assert.Contains(t, out, `<Statement profile="personal" count="2" from="2024-01-01" to="2024-01-02" opening_balance="1000.00" closing_balance="1420.00">`)
		assert.Contains(t, out, `<Description>AT&amp;T</Description>`)
		assert.Contains(t, out, `<Transaction date="2024-01-02" type="Credit">`)
	})

	t.Run("should keep the opening balance of an empty statement", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteXML(&buf, models.NewLedger(nil, 3000), models.Personal))
		assert.Contains(t, buf.String(), `<Statement profile="personal" count="0" opening_balance="3000.00" closing_balance="3000.00"/>`)

		loaded, err := ReadXML(&buf, 0)
		require.NoError(t, err)
		assert.Empty(t, loaded.Transactions)
		assert.Equal(t, 3000.0, loaded.CurrentBalance())
	})

	t.Run("should read back what it writes", func(t *testing.T) {
		ledger := generated(models.Company)

		var buf bytes.Buffer
		require.NoError(t, WriteXML(&buf, ledger, models.Company))

		loaded, err := ReadXML(&buf, 0)
		require.NoError(t, err)
		assert.Equal(t, ledger, loaded)
	})

	t.Run("should reject malformed documents", func(t *testing.T) {
		inputs := []string{
			"<Statement><Transaction",
			"<Other/>",
			`<Statement><Transaction date="2024-01-01"><Amount>lots</Amount></Transaction></Statement>`,
			`<Statement><Transaction date="soon"><Amount>1</Amount></Transaction></Statement>`,
			`<Statement><Transaction date="2024-01-01"></Transaction></Statement>`,
		}
		for _, input := range inputs {
			_, err := ReadXML(strings.NewReader(input), 0)
			assert.True(t, errors.Is(err, ErrInvalidInput), "input %q", input)
		}
	})
}
