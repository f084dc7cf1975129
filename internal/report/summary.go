package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Dan9191/statement-analyzer/internal/models"
	"github.com/dustin/go-humanize"
)

// Summarize computes count, total, mean and magnitude extremes over l.
// An empty ledger yields a zero summary.
func Summarize(l models.Ledger) models.Summary {
	var s models.Summary
	if l.Len() == 0 {
		return s
	}
	s.Count = l.Len()
	s.MinMagnitude = math.Inf(1)
	for _, t := range l.Transactions {
		s.Total += t.Amount
		m := t.Magnitude()
		s.MaxMagnitude = math.Max(s.MaxMagnitude, m)
		s.MinMagnitude = math.Min(s.MinMagnitude, m)
	}
	s.Average = s.Total / float64(s.Count)
	return s
}

// View applies f to l and summarizes the result
func View(l models.Ledger, f models.Filter) models.FilteredView {
	filtered := ApplyFilters(l, f)
	return models.FilteredView{
		Filter:       f,
		Summary:      Summarize(filtered),
		Transactions: filtered.Transactions,
	}
}

// Money formats an amount as $1,234.56 with a leading minus for debits
func Money(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", v)
}

// Text renders a short human readable summary for a reporting period
func Text(title string, from, to time.Time, s models.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", title)
	if !from.IsZero() || !to.IsZero() {
		fmt.Fprintf(&b, "Period: %s to %s\n", from.Format(models.DateLayout), to.Format(models.DateLayout))
	}
	fmt.Fprintf(&b, "Transactions: %s\n", humanize.Comma(int64(s.Count)))
	fmt.Fprintf(&b, "Total amount: %s\n", Money(s.Total))
	fmt.Fprintf(&b, "Average amount: %s\n", Money(s.Average))
	return b.String()
}
