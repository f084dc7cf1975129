package handler

import (
	"net/http"

	"github.com/Dan9191/statement-analyzer/internal/analytics"
	"github.com/Dan9191/statement-analyzer/internal/service"
	"github.com/gorilla/mux"
)

// GetMetric serves /metrics/{name}
func (h *Handler) GetMetric(w http.ResponseWriter, r *http.Request) {
	src, ok := h.source(w, r)
	if !ok {
		return
	}
	l := src.Ledger

	var result interface{}
	switch name := mux.Vars(r)["name"]; name {
	case "overview":
		result = analytics.Overview(l)
	case "categories":
		result = analytics.CategoryBreakdown(l)
	case "monthly":
		result = analytics.MonthlySpending(l)
	case "recurring":
		minOccurrences, err := intParam(r, "min_occurrences", analytics.DefaultMinOccurrences)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if minOccurrences < 1 {
			h.fail(w, r, badRequest("min_occurrences must be positive"))
			return
		}
		recurring := analytics.FindRecurring(l, minOccurrences)
		result = map[string]interface{}{
			"merchants":     recurring,
			"monthly_total": analytics.RecurringMonthlyTotal(recurring),
		}
	case "anomalies":
		result = analytics.DetectAnomalies(l)
	case "weekdays":
		result = analytics.SpendingByDayOfWeek(l)
	case "merchants":
		limit, err := intParam(r, "limit", analytics.DefaultTopMerchants)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		result = analytics.TopMerchants(l, limit)
	default:
		writeError(w, http.StatusNotFound, "unknown metric "+name)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetForecast serves /forecast/{kind}; days is clamped to the supported range
func (h *Handler) GetForecast(w http.ResponseWriter, r *http.Request) {
	src, ok := h.source(w, r)
	if !ok {
		return
	}
	days, err := intParam(r, "days", service.DefaultForecastDays)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	days = service.ClampDays(days)
	l := src.Ledger

	var result interface{}
	switch kind := mux.Vars(r)["kind"]; kind {
	case "spending":
		result = analytics.ForecastDailySpending(l, days)
	case "balance":
		result = analytics.ForecastBalance(l, days)
	case "categories":
		result = analytics.ForecastCategorySpending(l)
	case "cashflow":
		result = analytics.ForecastCashFlow(l, days)
	default:
		writeError(w, http.StatusNotFound, "unknown forecast "+kind)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetRunway returns the runway snapshot of the ledger
func (h *Handler) GetRunway(w http.ResponseWriter, r *http.Request) {
	src, ok := h.source(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.ComputeRunway(src.Ledger))
}
