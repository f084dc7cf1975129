package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Routes registers every endpoint; auth guards the routes that change state
func (h *Handler) Routes(r *mux.Router, auth mux.MiddlewareFunc) {
	// Public routes
	r.HandleFunc("/token", h.CreateToken).Methods(http.MethodPost)
	r.HandleFunc("/ledger", h.GetLedger).Methods(http.MethodGet)
	r.HandleFunc("/dashboard", h.GetDashboard).Methods(http.MethodGet)
	r.HandleFunc("/metrics/{name}", h.GetMetric).Methods(http.MethodGet)
	r.HandleFunc("/forecast/{kind}", h.GetForecast).Methods(http.MethodGet)
	r.HandleFunc("/runway", h.GetRunway).Methods(http.MethodGet)
	r.HandleFunc("/transactions", h.GetTransactions).Methods(http.MethodGet)
	r.HandleFunc("/export.csv", h.ExportCSV).Methods(http.MethodGet)
	r.HandleFunc("/export.xml", h.ExportXML).Methods(http.MethodGet)
	r.HandleFunc("/report", h.GetReportText).Methods(http.MethodGet)
	r.HandleFunc("/reports", h.ListReports).Methods(http.MethodGet)
	r.HandleFunc("/reports/{id}", h.GetReport).Methods(http.MethodGet)

	// Protected routes
	authRouter := r.NewRoute().Subrouter()
	authRouter.Use(auth)
	authRouter.HandleFunc("/uploads", h.CreateUpload).Methods(http.MethodPost)
	authRouter.HandleFunc("/reports", h.CreateReport).Methods(http.MethodPost)
}
