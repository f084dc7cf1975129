package report

import (
	"net/url"
	"testing"
	"time"

	"github.com/Dan9191/statement-analyzer/internal/generator"
	"github.com/Dan9191/statement-analyzer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func fixture() models.Ledger {
	return models.NewLedger([]models.Transaction{
		{Date: day("2024-01-01"), Description: "Salary", Amount: 5000, Category: models.Income},
		{Date: day("2024-01-02"), Description: "Whole Foods", Amount: -80, Category: models.Groceries},
		{Date: day("2024-01-03"), Description: "Adjustment", Amount: 0, Category: models.Bills},
		{Date: day("2024-01-04"), Description: "Safeway", Amount: -20, Category: models.Groceries},
		{Date: day("2024-01-05"), Description: "Rent", Amount: -1800, Category: models.Bills},
	}, 3000)
}

func descriptions(l models.Ledger) []string {
	out := []string{}
	for _, t := range l.Transactions {
		out = append(out, t.Description)
	}
	return out
}

func TestApplyFilters(t *testing.T) {
	ledger := fixture()

	tests := []struct {
		name   string
		filter models.Filter
		want   []string
	}{
		{"should keep everything without predicates", models.Filter{},
			[]string{"Salary", "Whole Foods", "Adjustment", "Safeway", "Rent"}},
		{"should filter by category", models.Filter{Category: models.Groceries},
			[]string{"Whole Foods", "Safeway"}},
		{"should keep only debits and drop zero amounts", models.Filter{Type: models.Debit},
			[]string{"Whole Foods", "Safeway", "Rent"}},
		{"should keep only credits", models.Filter{Type: models.Credit},
			[]string{"Salary"}},
		{"should include both ends of the date range", models.Filter{DateRange: models.DateRange{From: day("2024-01-02"), To: day("2024-01-04")}},
			[]string{"Whole Foods", "Adjustment", "Safeway"}},
		{"should compare dates without time of day", models.Filter{DateRange: models.DateRange{To: day("2024-01-02").Add(30 * time.Minute)}},
			[]string{"Salary", "Whole Foods"}},
		{"should treat the minimum amount as inclusive magnitude", models.Filter{MinAmount: 80},
			[]string{"Salary", "Whole Foods", "Rent"}},
		{"should combine predicates", models.Filter{Category: models.Groceries, Type: models.Debit, MinAmount: 50},
			[]string{"Whole Foods"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, descriptions(ApplyFilters(ledger, tt.filter)))
		})
	}

	t.Run("should keep the original balances", func(t *testing.T) {
		filtered := ApplyFilters(ledger, models.Filter{Category: models.Bills, Type: models.Debit})
		require.Len(t, filtered.Transactions, 1)
		assert.Equal(t, 3000+5000-80-20-1800.0, filtered.Transactions[0].Balance)
		assert.Equal(t, 3000.0, filtered.OpeningBalance)
	})

	t.Run("should not mutate the input", func(t *testing.T) {
		before := append([]models.Transaction(nil), ledger.Transactions...)
		ApplyFilters(ledger, models.Filter{Type: models.Credit})
		assert.Equal(t, before, ledger.Transactions)
	})
}

func TestApplyFiltersIdempotent(t *testing.T) {
	anchor := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
	ledger := generator.Generate(generator.DefaultParams(42, 180, models.Personal, anchor))

	filters := []models.Filter{
		{},
		{Category: models.Dining},
		{Type: models.Debit, MinAmount: 50},
		{Type: models.Credit},
		{DateRange: models.DateRange{From: anchor.AddDate(0, -1, 0), To: anchor}},
	}
	for _, f := range filters {
		once := ApplyFilters(ledger, f)
		assert.Equal(t, once, ApplyFilters(once, f))
	}
}

func TestSummarize(t *testing.T) {
	t.Run("should summarize the view, not the full ledger", func(t *testing.T) {
		view := View(fixture(), models.Filter{Category: models.Groceries})

		assert.Equal(t, models.Summary{
			Count:        2,
			Total:        -100,
			Average:      -50,
			MaxMagnitude: 80,
			MinMagnitude: 20,
		}, view.Summary)
		assert.Len(t, view.Transactions, 2)
	})

	t.Run("should be zero for an empty ledger", func(t *testing.T) {
		assert.Equal(t, models.Summary{}, Summarize(models.Ledger{}))
		assert.Equal(t, models.Summary{}, View(fixture(), models.Filter{Category: models.Fitness}).Summary)
	})
}

func TestParseFilter(t *testing.T) {
	t.Run("should treat All as no restriction", func(t *testing.T) {
		f, err := ParseFilter(url.Values{"category": {"All"}, "type": {"all"}})
		require.NoError(t, err)
		assert.Equal(t, models.Filter{}, f)
	})

	t.Run("should parse every predicate", func(t *testing.T) {
		f, err := ParseFilter(url.Values{
			"category":   {"Operating"},
			"type":       {"debit"},
			"from":       {"2024-01-01"},
			"to":         {"2024-01-31"},
			"min_amount": {"12.5"},
		})
		require.NoError(t, err)
		assert.Equal(t, models.OperatingExpenses, f.Category)
		assert.Equal(t, models.Debit, f.Type)
		assert.Equal(t, day("2024-01-01"), f.DateRange.From)
		assert.Equal(t, day("2024-01-31"), f.DateRange.To)
		assert.Equal(t, 12.5, f.MinAmount)
	})

	invalid := []url.Values{
		{"type": {"Transfer"}},
		{"from": {"01/02/2024"}},
		{"from": {"2024-02-01"}, "to": {"2024-01-01"}},
		{"min_amount": {"-3"}},
		{"min_amount": {"lots"}},
	}
	for _, values := range invalid {
		_, err := ParseFilter(values)
		assert.Error(t, err, "values %v", values)
	}
}

func TestText(t *testing.T) {
	text := Text("Monthly report", day("2024-01-01"), day("2024-01-31"), models.Summary{
		Count:   1234,
		Total:   -4567.891,
		Average: -3.7,
	})

	assert.Contains(t, text, "Monthly report\n")
	assert.Contains(t, text, "Period: 2024-01-01 to 2024-01-31\n")
	assert.Contains(t, text, "Transactions: 1,234\n")
	assert.Contains(t, text, "Total amount: -$4,567.89\n")
	assert.Contains(t, text, "Average amount: -$3.70\n")
}
