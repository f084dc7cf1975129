// Package analytics derives metrics and forecasts from a ledger.
// Every function is total: an empty ledger yields empty results, never a panic.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/Dan9191/statement-analyzer/internal/models"
)

const (
	// DefaultMinOccurrences is the smallest group FindRecurring reports
	DefaultMinOccurrences = 3
	maxRecurring          = 10
	maxAnomalies          = 10
	// DefaultTopMerchants is the conventional TopMerchants limit
	DefaultTopMerchants = 10
)

var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// CategoryTotals sums expense magnitude per category
func CategoryTotals(l models.Ledger) map[models.Category]float64 {
	totals := make(map[models.Category]float64)
	for _, t := range l.Transactions {
		if t.IsExpense() {
			totals[t.Category] += -t.Amount
		}
	}
	return totals
}

// CategoryBreakdown returns CategoryTotals ordered by total, largest first
func CategoryBreakdown(l models.Ledger) []models.CategoryTotal {
	totals := CategoryTotals(l)
	out := make([]models.CategoryTotal, 0, len(totals))
	for c, v := range totals {
		out = append(out, models.CategoryTotal{Category: c, Total: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out
}

type merchantGroup struct {
	name     string
	count    int
	total    float64
	category models.Category
}

func groupExpensesByMerchant(l models.Ledger) []*merchantGroup {
	index := make(map[string]*merchantGroup)
	var groups []*merchantGroup
	for _, t := range l.Transactions {
		if !t.IsExpense() {
			continue
		}
		g, ok := index[t.Description]
		if !ok {
			g = &merchantGroup{name: t.Description, category: t.Category}
			index[t.Description] = g
			groups = append(groups, g)
		}
		g.count++
		g.total += -t.Amount
	}
	return groups
}

// monthsSpanned is the ledger span in 30-day periods, at least one
func monthsSpanned(l models.Ledger) float64 {
	if l.Len() == 0 {
		return 1
	}
	months := float64(models.DaysBetween(l.FirstDate(), l.LastDate())+1) / 30
	return math.Max(months, 1)
}

// FindRecurring reports merchants debited at least minOccurrences times,
// most frequent first, capped at ten.
func FindRecurring(l models.Ledger, minOccurrences int) []models.RecurringMerchant {
	months := monthsSpanned(l)
	out := []models.RecurringMerchant{}
	for _, g := range groupExpensesByMerchant(l) {
		if g.count < minOccurrences {
			continue
		}
		avg := g.total / float64(g.count)
		out = append(out, models.RecurringMerchant{
			Merchant:             g.name,
			Count:                g.count,
			AvgAmount:            avg,
			Category:             g.category,
			EstimatedMonthlyCost: avg * float64(g.count) / months,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Merchant < out[j].Merchant
	})
	if len(out) > maxRecurring {
		out = out[:maxRecurring]
	}
	return out
}

// RecurringMonthlyTotal sums the average charge of each recurring merchant
func RecurringMonthlyTotal(recurring []models.RecurringMerchant) float64 {
	total := 0.0
	for _, r := range recurring {
		total += r.AvgAmount
	}
	return total
}

// DetectAnomalies returns debits whose magnitude exceeds mean + 2·stddev of all
// expense magnitudes (population stddev), largest first, capped at ten.
func DetectAnomalies(l models.Ledger) []models.Transaction {
	expenses := l.Expenses()
	out := []models.Transaction{}
	if len(expenses) < 2 {
		return out
	}

	n := float64(len(expenses))
	var sum float64
	for _, t := range expenses {
		sum += t.Magnitude()
	}
	mean := sum / n
	var sq float64
	for _, t := range expenses {
		d := t.Magnitude() - mean
		sq += d * d
	}
	threshold := mean + 2*math.Sqrt(sq/n)

	for _, t := range expenses {
		if t.Magnitude() > threshold {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Magnitude() > out[j].Magnitude()
	})
	if len(out) > maxAnomalies {
		out = out[:maxAnomalies]
	}
	return out
}

// SpendingByDayOfWeek sums expense magnitude per weekday, Monday to Sunday,
// always returning all seven days.
func SpendingByDayOfWeek(l models.Ledger) []models.WeekdayTotal {
	var totals [7]float64
	for _, t := range l.Transactions {
		if t.IsExpense() {
			totals[t.Date.Weekday()] += -t.Amount
		}
	}
	out := make([]models.WeekdayTotal, 0, len(weekdayOrder))
	for _, wd := range weekdayOrder {
		out = append(out, models.WeekdayTotal{Weekday: wd.String(), Total: totals[wd]})
	}
	return out
}

// TopMerchants ranks merchants by total spend; n <= 0 returns all of them
func TopMerchants(l models.Ledger, n int) []models.MerchantTotal {
	groups := groupExpensesByMerchant(l)
	out := make([]models.MerchantTotal, 0, len(groups))
	for _, g := range groups {
		out = append(out, models.MerchantTotal{Merchant: g.name, Total: g.total, Count: g.count})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Merchant < out[j].Merchant
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Overview computes headline income, expense and savings figures
func Overview(l models.Ledger) models.IncomeExpenseStats {
	var stats models.IncomeExpenseStats
	for _, t := range l.Transactions {
		if t.Amount > 0 {
			stats.Income += t.Amount
		} else if t.Amount < 0 {
			stats.Expense += -t.Amount
		}
	}
	stats.NetBalance = stats.Income - stats.Expense
	if stats.Income > 0 {
		stats.SavingsRate = stats.NetBalance / stats.Income * 100
	}
	stats.CurrentBalance = l.CurrentBalance()
	return stats
}

// MonthlySpending sums expense magnitude per calendar month, oldest first
func MonthlySpending(l models.Ledger) []models.MonthlyTotal {
	out := []models.MonthlyTotal{}
	for _, t := range l.Transactions {
		if !t.IsExpense() {
			continue
		}
		month := t.Date.Format("2006-01")
		if n := len(out); n > 0 && out[n-1].Month == month {
			out[n-1].Total += -t.Amount
			continue
		}
		out = append(out, models.MonthlyTotal{Month: month, Total: -t.Amount})
	}
	return out
}
