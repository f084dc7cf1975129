package analytics

import (
	"time"

	"github.com/Dan9191/statement-analyzer/internal/models"
)

// fitLine computes an ordinary least squares line through ys where x = 0, 1, 2, ...
// Fewer than two points give a flat line through the mean.
func fitLine(ys []float64) (slope, intercept float64) {
	n := float64(len(ys))
	if n == 0 {
		return 0, 0
	}
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}
	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// denseDaily aggregates value(t) per calendar day from the first to the last
// ledger date. Days without contributions are zero.
func denseDaily(l models.Ledger, value func(models.Transaction) float64) []float64 {
	if l.Len() == 0 {
		return nil
	}
	first := l.FirstDate()
	series := make([]float64, models.DaysBetween(first, l.LastDate())+1)
	for _, t := range l.Transactions {
		series[models.DaysBetween(first, t.Date)] += value(t)
	}
	return series
}

// projectLine fits ys and evaluates the line at the next `days` indices,
// dated from the day after last.
func projectLine(ys []float64, last time.Time, days int) []models.ForecastPoint {
	if len(ys) == 0 || days <= 0 {
		return []models.ForecastPoint{}
	}
	slope, intercept := fitLine(ys)
	n := len(ys)
	out := make([]models.ForecastPoint, days)
	for i := 0; i < days; i++ {
		out[i] = models.ForecastPoint{
			Date:  last.AddDate(0, 0, i+1).Format(models.DateLayout),
			Value: slope*float64(n+i) + intercept,
		}
	}
	return out
}
