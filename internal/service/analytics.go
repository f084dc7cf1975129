package service

import (
	"github.com/Dan9191/statement-analyzer/internal/analytics"
	"github.com/Dan9191/statement-analyzer/internal/models"
	"github.com/Dan9191/statement-analyzer/internal/report"
)

// Forecast horizon bounds in days
const (
	DefaultForecastDays = 30
	MinForecastDays     = 15
	MaxForecastDays     = 90
)

// ClampDays keeps a forecast horizon inside [MinForecastDays, MaxForecastDays];
// a non-positive value selects DefaultForecastDays
func ClampDays(days int) int {
	switch {
	case days <= 0:
		return DefaultForecastDays
	case days < MinForecastDays:
		return MinForecastDays
	case days > MaxForecastDays:
		return MaxForecastDays
	}
	return days
}

// Dashboard computes every metric and forecast for the ledger. Company
// ledgers additionally get a cash-flow forecast and a runway snapshot.
func (s *Service) Dashboard(src *Source, days int) models.Dashboard {
	l := src.Ledger
	days = ClampDays(days)
	recurring := analytics.FindRecurring(l, analytics.DefaultMinOccurrences)

	d := models.Dashboard{
		Profile:          src.Profile,
		Overview:         analytics.Overview(l),
		Categories:       analytics.CategoryBreakdown(l),
		MonthlySpending:  analytics.MonthlySpending(l),
		Recurring:        recurring,
		RecurringMonthly: analytics.RecurringMonthlyTotal(recurring),
		Anomalies:        analytics.DetectAnomalies(l),
		Weekdays:         analytics.SpendingByDayOfWeek(l),
		TopMerchants:     analytics.TopMerchants(l, analytics.DefaultTopMerchants),
		Balance:          analytics.ForecastBalance(l, days),
		Spending:         analytics.ForecastDailySpending(l, days),
		CategoryForecast: analytics.ForecastCategorySpending(l),
	}
	if src.Profile == models.Company {
		d.CashFlow = analytics.ForecastCashFlow(l, days)
		runway := analytics.ComputeRunway(l)
		d.Runway = &runway
	}

	s.log.Debugf("Dashboard computed for %s ledger (%d transactions, %d forecast days)", src.Kind(), l.Len(), days)
	return d
}

// Filter applies f to the ledger and summarizes the view
func (s *Service) Filter(src *Source, f models.Filter) models.FilteredView {
	view := report.View(src.Ledger, f)
	s.log.Debugf("Filter kept %d of %d transactions", view.Summary.Count, src.Ledger.Len())
	return view
}
