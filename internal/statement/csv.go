// Package statement reads and writes ledgers as CSV and XML statements.
package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/Dan9191/statement-analyzer/internal/models"
	"github.com/shopspring/decimal"
)

// ErrInvalidInput is matched by every error caused by a malformed statement
var ErrInvalidInput = errors.New("invalid statement")

// Column names recognized in a CSV header, compared case-insensitively
const (
	ColDate        = "Date"
	ColDescription = "Description"
	ColAmount      = "Amount"
	ColCategory    = "Category"
	ColSubcategory = "Subcategory"
	ColType        = "Type"
	ColBalance     = "Balance"
)

var dateLayouts = []string{
	models.DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
}

// ParseError points at the cell that made a statement unreadable
type ParseError struct {
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line == 0 && e.Column == "":
		return e.Err.Error()
	case e.Line == 0:
		return fmt.Sprintf("column %s: %v", e.Column, e.Err)
	case e.Column == "":
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	default:
		return fmt.Sprintf("line %d, column %s: %v", e.Line, e.Column, e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is makes every ParseError match ErrInvalidInput
func (e *ParseError) Is(target error) bool { return target == ErrInvalidInput }

// RequiredColumns lists the header columns a profile's CSV must carry
func RequiredColumns(p models.Profile) []string {
	cols := []string{ColDate, ColDescription, ColAmount, ColCategory}
	if p == models.Company {
		cols = append(cols, ColSubcategory)
	}
	return cols
}

// Load parses a CSV statement. A Balance column, when present, is kept as
// supplied and the opening balance is read back from the first row; otherwise
// balances are derived from startingBalance. Any malformed row rejects the
// whole file.
func Load(r io.Reader, profile models.Profile, startingBalance float64) (models.Ledger, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return models.Ledger{}, &ParseError{Line: 1, Err: errors.New("missing header row")}
	}
	if err != nil {
		return models.Ledger{}, csvError(err)
	}

	columns := indexHeader(header)
	for _, col := range RequiredColumns(profile) {
		if _, ok := columns[strings.ToLower(col)]; !ok {
			return models.Ledger{}, &ParseError{Line: 1, Column: col, Err: errors.New("required column missing")}
		}
	}
	_, hasBalance := columns[strings.ToLower(ColBalance)]

	var txs []models.Transaction
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.Ledger{}, csvError(err)
		}
		line, _ := reader.FieldPos(0)
		if blank(record) {
			continue
		}
		tx, err := parseRow(record, columns, line, hasBalance)
		if err != nil {
			return models.Ledger{}, err
		}
		txs = append(txs, tx)
	}

	if !hasBalance {
		return models.NewLedger(txs, startingBalance), nil
	}
	for i := range txs {
		txs[i].Type = models.TypeFor(txs[i].Amount)
	}
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.Before(txs[j].Date)
	})
	opening := startingBalance
	if len(txs) > 0 {
		opening = balanceBefore(txs[0])
	}
	return models.Ledger{OpeningBalance: opening, Transactions: txs}, nil
}

func csvError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line, Err: pe.Err}
	}
	return fmt.Errorf("failed to read statement: %w", err)
}

func indexHeader(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	return columns
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func parseRow(record []string, columns map[string]int, line int, hasBalance bool) (models.Transaction, error) {
	cell := func(col string) (string, bool) {
		i, ok := columns[strings.ToLower(col)]
		if !ok || i >= len(record) {
			return "", false
		}
		return strings.TrimSpace(record[i]), true
	}
	fail := func(col string, err error) (models.Transaction, error) {
		return models.Transaction{}, &ParseError{Line: line, Column: col, Err: err}
	}

	var tx models.Transaction

	raw, ok := cell(ColDate)
	if !ok {
		return fail(ColDate, errors.New("value missing"))
	}
	date, err := ParseDate(raw)
	if err != nil {
		return fail(ColDate, err)
	}
	tx.Date = date

	if tx.Description, ok = cell(ColDescription); !ok {
		return fail(ColDescription, errors.New("value missing"))
	}

	if raw, ok = cell(ColAmount); !ok {
		return fail(ColAmount, errors.New("value missing"))
	}
	if tx.Amount, err = ParseAmount(raw); err != nil {
		return fail(ColAmount, err)
	}

	if raw, ok = cell(ColCategory); !ok {
		return fail(ColCategory, errors.New("value missing"))
	}
	tx.Category = models.NormalizeCategory(raw)
	tx.Subcategory, _ = cell(ColSubcategory)

	if hasBalance {
		if raw, ok = cell(ColBalance); !ok {
			return fail(ColBalance, errors.New("value missing"))
		}
		if tx.Balance, err = ParseAmount(raw); err != nil {
			return fail(ColBalance, err)
		}
	}
	return tx, nil
}

// ParseDate accepts ISO dates, ISO timestamps and US style dates and
// truncates the result to a calendar date.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return models.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// ParseAmount reads a decimal amount, tolerating a currency sign and thousands separators
func ParseAmount(raw string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(raw))
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	return d.Round(2).InexactFloat64(), nil
}

// WriteCSV writes the ledger with every column, amounts fixed to two decimals
func WriteCSV(w io.Writer, l models.Ledger) error {
	writer := csv.NewWriter(w)
	header := []string{ColDate, ColDescription, ColAmount, ColCategory, ColSubcategory, ColType, ColBalance}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, t := range l.Transactions {
		row := []string{
			t.Date.Format(models.DateLayout),
			t.Description,
			formatAmount(t.Amount),
			string(t.Category),
			t.Subcategory,
			string(t.Type),
			formatAmount(t.Balance),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// balanceBefore is the balance held just before t was applied
func balanceBefore(t models.Transaction) float64 {
	return decimal.NewFromFloat(t.Balance).Sub(decimal.NewFromFloat(t.Amount)).Round(2).InexactFloat64()
}

func formatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
