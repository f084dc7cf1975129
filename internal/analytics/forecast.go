package analytics

import (
	"math"
	"sort"

	"github.com/Dan9191/statement-analyzer/internal/models"
)

const (
	// CategoryGrowthFactor is applied to the trailing period to predict the next one
	CategoryGrowthFactor = 1.05
	categoryWindowDays   = 30
	incomeDayOfMonth     = 15

	highRiskBalance   = 500
	mediumRiskBalance = 1000
)

// Overdraft risk levels and balance trends
const (
	RiskHigh   = "HIGH"
	RiskMedium = "MEDIUM"
	RiskLow    = "LOW"

	TrendIncreasing = "Increasing"
	TrendDecreasing = "Decreasing"
	TrendFlat       = "Flat"
)

// ForecastDailySpending fits a line to daily expense magnitude over a dense day
// index and projects it `days` days past the last ledger date.
func ForecastDailySpending(l models.Ledger, days int) []models.ForecastPoint {
	series := denseDaily(l, func(t models.Transaction) float64 {
		if t.IsExpense() {
			return -t.Amount
		}
		return 0
	})
	return projectLine(series, l.LastDate(), days)
}

// ForecastCashFlow is ForecastDailySpending over signed net daily flow
func ForecastCashFlow(l models.Ledger, days int) []models.ForecastPoint {
	series := denseDaily(l, func(t models.Transaction) float64 {
		return t.Amount
	})
	return projectLine(series, l.LastDate(), days)
}

// averageDailyChange is the mean net change over dates that have activity
func averageDailyChange(l models.Ledger) float64 {
	txs := l.Transactions
	if len(txs) == 0 {
		return 0
	}
	var total float64
	days := 0
	for i, t := range txs {
		if i == 0 || !t.Date.Equal(txs[i-1].Date) {
			days++
		}
		total += t.Amount
	}
	return total / float64(days)
}

// averageMonthlyIncome is the mean credit total over calendar months that have credits
func averageMonthlyIncome(l models.Ledger) float64 {
	months := make(map[string]struct{})
	var total float64
	for _, t := range l.Transactions {
		if t.Amount > 0 {
			months[t.Date.Format("2006-01")] = struct{}{}
			total += t.Amount
		}
	}
	if len(months) == 0 {
		return 0
	}
	return total / float64(len(months))
}

// ForecastBalance walks the balance forward one day at a time, adding the
// average daily net change every day and the average monthly income whenever
// the simulated date falls on the 15th.
func ForecastBalance(l models.Ledger, days int) models.BalanceForecast {
	current := l.CurrentBalance()
	fc := models.BalanceForecast{
		InitialBalance: current,
		DailyForecast:  []models.DailyBalance{},
		EndBalance:     current,
		MinBalance:     current,
	}
	if l.Len() == 0 || days <= 0 {
		fc.OverdraftRisk = overdraftRisk(current)
		fc.Trend = TrendFlat
		return fc
	}

	drift := averageDailyChange(l)
	income := averageMonthlyIncome(l)
	last := l.LastDate()
	balance := current
	for i := 1; i <= days; i++ {
		date := last.AddDate(0, 0, i)
		if date.Day() == incomeDayOfMonth {
			balance += income
		}
		balance += drift
		fc.DailyForecast = append(fc.DailyForecast, models.DailyBalance{
			Date:    date.Format(models.DateLayout),
			Balance: balance,
		})
	}

	fc.ForecastedDays = days
	fc.EndBalance = balance
	fc.MinBalance = fc.DailyForecast[0].Balance
	for _, d := range fc.DailyForecast {
		fc.MinBalance = math.Min(fc.MinBalance, d.Balance)
	}
	fc.OverdraftRisk = overdraftRisk(fc.MinBalance)
	fc.Trend = trend(fc.DailyForecast[0].Balance, fc.EndBalance)
	return fc
}

// trend compares the first and last forecast balances
func trend(first, end float64) string {
	switch {
	case end > first:
		return TrendIncreasing
	case end < first:
		return TrendDecreasing
	default:
		return TrendFlat
	}
}

func overdraftRisk(minBalance float64) string {
	switch {
	case minBalance < highRiskBalance:
		return RiskHigh
	case minBalance < mediumRiskBalance:
		return RiskMedium
	default:
		return RiskLow
	}
}

// ForecastCategorySpending totals expenses per category over the trailing
// window ending at the last ledger date and grows them by CategoryGrowthFactor.
func ForecastCategorySpending(l models.Ledger) []models.CategoryForecast {
	out := []models.CategoryForecast{}
	if l.Len() == 0 {
		return out
	}
	cutoff := l.LastDate().AddDate(0, 0, -categoryWindowDays)
	totals := make(map[models.Category]float64)
	for _, t := range l.Transactions {
		if t.IsExpense() && !t.Date.Before(cutoff) {
			totals[t.Category] += -t.Amount
		}
	}
	for c, v := range totals {
		out = append(out, models.CategoryForecast{
			Category:                 c,
			LastPeriodTotal:          v,
			PredictedNextPeriodTotal: v * CategoryGrowthFactor,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PredictedNextPeriodTotal != out[j].PredictedNextPeriodTotal {
			return out[i].PredictedNextPeriodTotal > out[j].PredictedNextPeriodTotal
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// ComputeRunway averages burn and revenue per calendar month and derives how
// many months the current balance lasts. With less than a full month of data
// the estimate is unstable but still defined.
func ComputeRunway(l models.Ledger) models.RunwaySnapshot {
	months := make(map[string]struct{})
	var burn, revenue float64
	for _, t := range l.Transactions {
		months[t.Date.Format("2006-01")] = struct{}{}
		if t.Amount < 0 {
			burn += -t.Amount
		} else {
			revenue += t.Amount
		}
	}
	if len(months) == 0 {
		return RunwayFromFigures(l.CurrentBalance(), 0, 0)
	}
	n := float64(len(months))
	snap := RunwayFromFigures(l.CurrentBalance(), burn/n, revenue/n)
	snap.Months = len(months)
	return snap
}

// RunwayFromFigures computes a runway snapshot from monthly averages. A
// non-negative net change is unbounded (cash-flow positive).
func RunwayFromFigures(balance, monthlyBurn, monthlyRevenue float64) models.RunwaySnapshot {
	snap := models.RunwaySnapshot{
		CurrentBalance:    balance,
		AvgMonthlyBurn:    monthlyBurn,
		AvgMonthlyRevenue: monthlyRevenue,
		NetMonthlyChange:  monthlyRevenue - monthlyBurn,
	}
	if snap.NetMonthlyChange >= 0 {
		snap.Unbounded = true
		snap.RunwayMonths = math.Inf(1)
		return snap
	}
	snap.RunwayMonths = math.Max(balance, 0) / math.Abs(snap.NetMonthlyChange)
	return snap
}
