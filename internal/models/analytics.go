package models

import (
	"encoding/json"
	"math"
)

// IncomeExpenseStats represents headline income and expense statistics
type IncomeExpenseStats struct {
	Income         float64 `json:"income"`
	Expense        float64 `json:"expense"`
	NetBalance     float64 `json:"net_balance"`
	SavingsRate    float64 `json:"savings_rate"` // percent of income kept
	CurrentBalance float64 `json:"current_balance"`
}

// CategoryTotal is the expense magnitude spent in one category
type CategoryTotal struct {
	Category Category `json:"category"`
	Total    float64  `json:"total"`
}

// MonthlyTotal is the expense magnitude for a calendar month (YYYY-MM)
type MonthlyTotal struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// RecurringMerchant describes a merchant charged repeatedly
type RecurringMerchant struct {
	Merchant             string   `json:"merchant"`
	Count                int      `json:"count"`
	AvgAmount            float64  `json:"avg_amount"`
	Category             Category `json:"category"`
	EstimatedMonthlyCost float64  `json:"estimated_monthly_cost"`
}

// MerchantTotal is the spend with one merchant
type MerchantTotal struct {
	Merchant string  `json:"merchant"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// WeekdayTotal is the expense magnitude on one weekday
type WeekdayTotal struct {
	Weekday string  `json:"weekday"`
	Total   float64 `json:"total"`
}

// ForecastPoint is a predicted value for a future day
type ForecastPoint struct {
	Date  string  `json:"date"` // Format: YYYY-MM-DD
	Value float64 `json:"value"`
}

// BalanceForecast represents balance forecast for N days
type BalanceForecast struct {
	InitialBalance float64        `json:"initial_balance"`
	ForecastedDays int            `json:"forecasted_days"`
	DailyForecast  []DailyBalance `json:"daily_forecast"`
	EndBalance     float64        `json:"end_balance"`
	MinBalance     float64        `json:"min_balance"`
	OverdraftRisk  string         `json:"overdraft_risk"`
	Trend          string         `json:"trend"`
}

// DailyBalance represents balance for a specific day
type DailyBalance struct {
	Date    string  `json:"date"` // Format: YYYY-MM-DD
	Balance float64 `json:"balance"`
}

// CategoryForecast compares the trailing period with the next one
type CategoryForecast struct {
	Category                 Category `json:"category"`
	LastPeriodTotal          float64  `json:"last_period_total"`
	PredictedNextPeriodTotal float64  `json:"predicted_next_period_total"`
}

// RunwaySnapshot represents how long the balance lasts at the current net change
type RunwaySnapshot struct {
	CurrentBalance    float64 `json:"current_balance"`
	AvgMonthlyBurn    float64 `json:"avg_monthly_burn"`
	AvgMonthlyRevenue float64 `json:"avg_monthly_revenue"`
	NetMonthlyChange  float64 `json:"net_monthly_change"`
	RunwayMonths      float64 `json:"runway_months"` // +Inf when Unbounded
	Unbounded         bool    `json:"unbounded"`
	Months            int     `json:"months"` // calendar months observed
}

// MarshalJSON encodes an unbounded runway as null
func (r RunwaySnapshot) MarshalJSON() ([]byte, error) {
	type plain RunwaySnapshot
	out := struct {
		plain
		RunwayMonths *float64 `json:"runway_months"`
	}{plain: plain(r)}
	if !math.IsInf(r.RunwayMonths, 0) && !math.IsNaN(r.RunwayMonths) {
		v := r.RunwayMonths
		out.RunwayMonths = &v
	}
	return json.Marshal(out)
}

// Dashboard bundles every metric and forecast for one ledger
type Dashboard struct {
	Profile          Profile             `json:"profile"`
	Overview         IncomeExpenseStats  `json:"overview"`
	Categories       []CategoryTotal     `json:"categories"`
	MonthlySpending  []MonthlyTotal      `json:"monthly_spending"`
	Recurring        []RecurringMerchant `json:"recurring"`
	RecurringMonthly float64             `json:"recurring_monthly"`
	Anomalies        []Transaction       `json:"anomalies"`
	Weekdays         []WeekdayTotal      `json:"weekdays"`
	TopMerchants     []MerchantTotal     `json:"top_merchants"`
	Balance          BalanceForecast     `json:"balance_forecast"`
	Spending         []ForecastPoint     `json:"spending_forecast"`
	CategoryForecast []CategoryForecast  `json:"category_forecast"`
	CashFlow         []ForecastPoint     `json:"cash_flow_forecast,omitempty"`
	Runway           *RunwaySnapshot     `json:"runway,omitempty"`
}
