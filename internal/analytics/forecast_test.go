package analytics

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/Dan9191/statement-analyzer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitLine(t *testing.T) {
	tests := []struct {
		name             string
		ys               []float64
		slope, intercept float64
	}{
		{"should fit a perfect line", []float64{10, 20, 30}, 10, 10},
		{"should fit through zero-filled gaps", []float64{10, 0, 30}, 10, 10.0 / 3},
		{"should be flat for a single point", []float64{42}, 0, 42},
		{"should be zero for no points", nil, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slope, intercept := fitLine(tt.ys)
			assert.InDelta(t, tt.slope, slope, 1e-9)
			assert.InDelta(t, tt.intercept, intercept, 1e-9)
		})
	}
}

func TestForecastDailySpending(t *testing.T) {
	t.Run("should start the day after the last date and match the horizon", func(t *testing.T) {
		ledger := sampleLedger()

		for _, days := range []int{15, 30, 90} {
			forecast := ForecastDailySpending(ledger, days)
			require.Len(t, forecast, days)
			assert.Equal(t, ledger.LastDate().AddDate(0, 0, 1).Format(models.DateLayout), forecast[0].Date)
			assert.Equal(t, ledger.LastDate().AddDate(0, 0, days).Format(models.DateLayout), forecast[days-1].Date)
		}
	})

	t.Run("should count days without expenses as zero", func(t *testing.T) {
		ledger := models.NewLedger([]models.Transaction{
			tx("2024-01-01", "A", -10, models.Dining),
			tx("2024-01-02", "Salary", 500, models.Income),
			tx("2024-01-03", "B", -30, models.Dining),
		}, 0)

		forecast := ForecastDailySpending(ledger, 2)
		require.Len(t, forecast, 2)
		assert.Equal(t, "2024-01-04", forecast[0].Date)
		assert.InDelta(t, 10*3+10.0/3, forecast[0].Value, 1e-9)
		assert.InDelta(t, 10*4+10.0/3, forecast[1].Value, 1e-9)
	})

	t.Run("should return nothing for an empty ledger or horizon", func(t *testing.T) {
		assert.Empty(t, ForecastDailySpending(models.Ledger{}, 30))
		assert.Empty(t, ForecastDailySpending(sampleLedger(), 0))
	})
}

func TestForecastCashFlow(t *testing.T) {
	ledger := models.NewLedger([]models.Transaction{
		tx("2024-01-01", "Revenue", 300, models.Revenue),
		tx("2024-01-02", "Revenue", 300, models.Revenue),
		tx("2024-01-02", "Payroll", -100, models.Payroll),
		tx("2024-01-03", "Revenue", 100, models.Revenue),
	}, 0)

	// daily net flow 300, 200, 100 is a line with slope -100
	forecast := ForecastCashFlow(ledger, 3)
	require.Len(t, forecast, 3)
	assert.Equal(t, "2024-01-04", forecast[0].Date)
	assert.InDelta(t, 0, forecast[0].Value, 1e-9)
	assert.InDelta(t, -100, forecast[1].Value, 1e-9)
	assert.InDelta(t, -200, forecast[2].Value, 1e-9)
}

func TestForecastBalance(t *testing.T) {
	t.Run("should add drift daily and income on the fifteenth", func(t *testing.T) {
		ledger := models.NewLedger([]models.Transaction{
			tx("2024-03-01", "Salary", 100, models.Income),
			tx("2024-03-02", "Cafe", -50, models.Dining),
		}, 1000)

		fc := ForecastBalance(ledger, 14)
		require.Len(t, fc.DailyForecast, 14)
		assert.Equal(t, 1050.0, fc.InitialBalance)
		assert.Equal(t, 14, fc.ForecastedDays)

		assert.Equal(t, models.DailyBalance{Date: "2024-03-03", Balance: 1075}, fc.DailyForecast[0])
		assert.Equal(t, models.DailyBalance{Date: "2024-03-14", Balance: 1350}, fc.DailyForecast[11])
		assert.Equal(t, models.DailyBalance{Date: "2024-03-15", Balance: 1475}, fc.DailyForecast[12])
		assert.Equal(t, models.DailyBalance{Date: "2024-03-16", Balance: 1500}, fc.DailyForecast[13])

		assert.Equal(t, 1500.0, fc.EndBalance)
		assert.Equal(t, 1075.0, fc.MinBalance)
		assert.Equal(t, RiskLow, fc.OverdraftRisk)
		assert.Equal(t, TrendIncreasing, fc.Trend)
	})

	t.Run("should flag overdraft risk for a falling balance", func(t *testing.T) {
		ledger := models.NewLedger([]models.Transaction{
			tx("2024-03-01", "Rent", -200, models.Bills),
		}, 1000)

		fc := ForecastBalance(ledger, 3)
		assert.Equal(t, []float64{600, 400, 200}, balances(fc))
		assert.Equal(t, 200.0, fc.MinBalance)
		assert.Equal(t, RiskHigh, fc.OverdraftRisk)
		assert.Equal(t, TrendDecreasing, fc.Trend)

		fc = ForecastBalance(ledger, 1)
		assert.Equal(t, RiskMedium, fc.OverdraftRisk)
	})

	t.Run("should start the day after the last date", func(t *testing.T) {
		ledger := sampleLedger()
		fc := ForecastBalance(ledger, 30)
		require.Len(t, fc.DailyForecast, 30)
		assert.Equal(t, ledger.LastDate().AddDate(0, 0, 1).Format(models.DateLayout), fc.DailyForecast[0].Date)
		assert.Equal(t, ledger.CurrentBalance(), fc.InitialBalance)
	})

	t.Run("should be empty without data", func(t *testing.T) {
		fc := ForecastBalance(models.Ledger{}, 30)
		assert.Empty(t, fc.DailyForecast)
		assert.Zero(t, fc.EndBalance)
		assert.Equal(t, TrendFlat, fc.Trend)
	})

	t.Run("should start from the opening balance of an empty ledger", func(t *testing.T) {
		fc := ForecastBalance(models.NewLedger(nil, 3000), 30)
		assert.Empty(t, fc.DailyForecast)
		assert.Equal(t, 3000.0, fc.InitialBalance)
		assert.Equal(t, 3000.0, fc.EndBalance)
		assert.Equal(t, 3000.0, fc.MinBalance)
		assert.Equal(t, RiskLow, fc.OverdraftRisk)
		assert.Equal(t, TrendFlat, fc.Trend)
	})

	t.Run("should call a one-day forecast flat", func(t *testing.T) {
		ledger := models.NewLedger([]models.Transaction{
			tx("2024-03-01", "Rent", -200, models.Bills),
		}, 1000)

		fc := ForecastBalance(ledger, 1)
		require.Len(t, fc.DailyForecast, 1)
		assert.Equal(t, TrendFlat, fc.Trend)
	})
}

func balances(fc models.BalanceForecast) []float64 {
	out := make([]float64, 0, len(fc.DailyForecast))
	for _, d := range fc.DailyForecast {
		out = append(out, d.Balance)
	}
	return out
}

func TestForecastCategorySpending(t *testing.T) {
	ledger := models.NewLedger([]models.Transaction{
		tx("2024-01-30", "Old", -999, models.Shopping), // 31 days before the last date
		tx("2024-01-31", "Edge", -100, models.Shopping),
		tx("2024-02-15", "Whole Foods", -300, models.Groceries),
		tx("2024-02-20", "Salary", 5000, models.Income),
		tx("2024-03-01", "Uber", -50, models.Transport),
	}, 0)

	forecast := ForecastCategorySpending(ledger)
	require.Len(t, forecast, 3)

	assert.Equal(t, models.Groceries, forecast[0].Category)
	assert.InDelta(t, 300, forecast[0].LastPeriodTotal, 1e-9)
	assert.InDelta(t, 315, forecast[0].PredictedNextPeriodTotal, 1e-9)

	assert.Equal(t, models.Shopping, forecast[1].Category)
	assert.InDelta(t, 100, forecast[1].LastPeriodTotal, 1e-9)

	assert.Equal(t, models.Transport, forecast[2].Category)
	assert.InDelta(t, 52.5, forecast[2].PredictedNextPeriodTotal, 1e-9)

	assert.Empty(t, ForecastCategorySpending(models.Ledger{}))
}

func TestComputeRunway(t *testing.T) {
	t.Run("should divide the balance by the net monthly loss", func(t *testing.T) {
		snap := RunwayFromFigures(10000, 4000, 1000)
		assert.Equal(t, -3000.0, snap.NetMonthlyChange)
		assert.False(t, snap.Unbounded)
		assert.InDelta(t, 3.3333, snap.RunwayMonths, 1e-3)
	})

	t.Run("should derive monthly averages from the ledger", func(t *testing.T) {
		ledger := models.NewLedger([]models.Transaction{
			tx("2024-05-03", "Client", 1000, models.Revenue),
			tx("2024-05-20", "Payroll", -4000, models.Payroll),
		}, 13000)

		snap := ComputeRunway(ledger)
		assert.Equal(t, 10000.0, snap.CurrentBalance)
		assert.Equal(t, 4000.0, snap.AvgMonthlyBurn)
		assert.Equal(t, 1000.0, snap.AvgMonthlyRevenue)
		assert.Equal(t, 1, snap.Months)
		assert.InDelta(t, 10000.0/3000, snap.RunwayMonths, 1e-9)
	})

	t.Run("should be unbounded when cash-flow positive", func(t *testing.T) {
		ledger := models.NewLedger([]models.Transaction{
			tx("2024-05-03", "Client", 5000, models.Revenue),
			tx("2024-06-03", "Client", 5000, models.Revenue),
			tx("2024-06-20", "Payroll", -4000, models.Payroll),
		}, 0)

		snap := ComputeRunway(ledger)
		assert.Equal(t, 2, snap.Months)
		assert.Equal(t, 2000.0, snap.AvgMonthlyBurn)
		assert.True(t, snap.Unbounded)
		assert.True(t, math.IsInf(snap.RunwayMonths, 1))
	})

	t.Run("should be unbounded without data", func(t *testing.T) {
		snap := ComputeRunway(models.Ledger{})
		assert.True(t, snap.Unbounded)
		assert.Zero(t, snap.Months)
	})

	t.Run("should report the opening balance of an empty ledger", func(t *testing.T) {
		snap := ComputeRunway(models.NewLedger(nil, 250000))
		assert.Equal(t, 250000.0, snap.CurrentBalance)
		assert.True(t, snap.Unbounded)
	})

	t.Run("should encode an unbounded runway as null", func(t *testing.T) {
		raw, err := json.Marshal(RunwayFromFigures(100, 0, 10))
		require.NoError(t, err)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Nil(t, decoded["runway_months"])
		assert.Equal(t, true, decoded["unbounded"])

		raw, err = json.Marshal(RunwayFromFigures(10000, 4000, 1000))
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.InDelta(t, 3.3333, decoded["runway_months"], 1e-3)
	})
}
