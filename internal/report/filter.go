// Package report filters ledgers and summarizes the resulting views.
package report

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Dan9191/statement-analyzer/internal/models"
)

// All is the sentinel that means "no restriction" for category and type
const All = "All"

// ApplyFilters returns a new ledger view holding the transactions that satisfy
// every set predicate of f. Balances and the opening balance are carried over,
// not recomputed.
func ApplyFilters(l models.Ledger, f models.Filter) models.Ledger {
	out := models.Ledger{OpeningBalance: l.OpeningBalance, Transactions: []models.Transaction{}}
	for _, t := range l.Transactions {
		if matches(t, f) {
			out.Transactions = append(out.Transactions, t)
		}
	}
	return out
}

func matches(t models.Transaction, f models.Filter) bool {
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	switch f.Type {
	case models.Debit:
		if t.Amount >= 0 {
			return false
		}
	case models.Credit:
		if t.Amount <= 0 {
			return false
		}
	}
	date := models.Day(t.Date)
	if !f.DateRange.From.IsZero() && date.Before(models.Day(f.DateRange.From)) {
		return false
	}
	if !f.DateRange.To.IsZero() && date.After(models.Day(f.DateRange.To)) {
		return false
	}
	return t.Magnitude() >= f.MinAmount
}

// ParseFilter reads category, type, from, to and min_amount query values.
// Empty values and the All sentinel leave the predicate unset.
func ParseFilter(values url.Values) (models.Filter, error) {
	var f models.Filter

	if c := strings.TrimSpace(values.Get("category")); c != "" && !strings.EqualFold(c, All) {
		f.Category = models.NormalizeCategory(c)
	}

	switch typ := strings.TrimSpace(values.Get("type")); {
	case typ == "" || strings.EqualFold(typ, All):
	case strings.EqualFold(typ, string(models.Debit)):
		f.Type = models.Debit
	case strings.EqualFold(typ, string(models.Credit)):
		f.Type = models.Credit
	default:
		return f, fmt.Errorf("invalid type %q: want Debit, Credit or All", typ)
	}

	var err error
	if f.DateRange.From, err = parseDate(values.Get("from")); err != nil {
		return f, fmt.Errorf("invalid from date: %w", err)
	}
	if f.DateRange.To, err = parseDate(values.Get("to")); err != nil {
		return f, fmt.Errorf("invalid to date: %w", err)
	}
	if !f.DateRange.From.IsZero() && !f.DateRange.To.IsZero() && f.DateRange.To.Before(f.DateRange.From) {
		return f, fmt.Errorf("date range ends before it starts")
	}

	if raw := strings.TrimSpace(values.Get("min_amount")); raw != "" {
		minAmount, err := strconv.ParseFloat(raw, 64)
		if err != nil || minAmount < 0 {
			return f, fmt.Errorf("invalid min_amount %q", raw)
		}
		f.MinAmount = minAmount
	}
	return f, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(models.DateLayout, raw)
}
