package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dan9191/statement-analyzer/internal/models"
	"github.com/Dan9191/statement-analyzer/internal/service"
	"github.com/Dan9191/statement-analyzer/internal/statement"
	"github.com/sirupsen/logrus"
)

// MaxHorizonDays bounds generated ledgers requested over HTTP
const MaxHorizonDays = 3660

// errBadRequest marks query parameter errors
var errBadRequest = errors.New("bad request")

type Handler struct {
	svc            *service.Service
	log            *logrus.Logger
	maxUploadBytes int64
}

func NewHandler(svc *service.Service, log *logrus.Logger, maxUploadBytes int64) *Handler {
	return &Handler{svc: svc, log: log, maxUploadBytes: maxUploadBytes}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// fail maps service and statement errors onto HTTP statuses
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, statement.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrLedgerNotFound), errors.Is(err, service.ErrReportNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrPersistenceDisabled):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.log.WithField("path", r.URL.Path).Errorf("Request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func badRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// ledgerQuery reads ledger_id or the generator params seed, horizon_days,
// profile, starting_balance and anchor, starting from the configured defaults
func (h *Handler) ledgerQuery(r *http.Request) (service.LedgerQuery, error) {
	q := r.URL.Query()
	query := service.LedgerQuery{LedgerID: strings.TrimSpace(q.Get("ledger_id"))}
	if query.LedgerID != "" {
		return query, nil
	}

	p := h.svc.DefaultParams()
	if raw := q.Get("profile"); raw != "" {
		profile, err := models.ParseProfile(raw)
		if err != nil {
			return query, badRequest("%v", err)
		}
		p.Profile = profile
		p.StartingBalance = profile.StartingBalance()
	}
	if raw := q.Get("seed"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return query, badRequest("invalid seed %q", raw)
		}
		p.Seed = seed
	}
	if raw := q.Get("horizon_days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 || days > MaxHorizonDays {
			return query, badRequest("horizon_days must be between 0 and %d", MaxHorizonDays)
		}
		p.HorizonDays = days
	}
	if raw := q.Get("starting_balance"); raw != "" {
		balance, err := statement.ParseAmount(raw)
		if err != nil {
			return query, badRequest("invalid starting_balance %q", raw)
		}
		p.StartingBalance = balance
	}
	if raw := q.Get("anchor"); raw != "" {
		anchor, err := statement.ParseDate(raw)
		if err != nil {
			return query, badRequest("invalid anchor %q", raw)
		}
		p.Anchor = anchor
	}
	query.Params = p
	return query, nil
}

func (h *Handler) source(w http.ResponseWriter, r *http.Request) (*service.Source, bool) {
	query, err := h.ledgerQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	src, err := h.svc.ResolveLedger(query)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return src, true
}

// intParam reads an optional integer query value
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("invalid %s %q", name, raw)
	}
	return v, nil
}

type ledgerResponse struct {
	LedgerID        string               `json:"ledger_id,omitempty"`
	Source          string               `json:"source"`
	Profile         models.Profile       `json:"profile"`
	Count           int                  `json:"count"`
	StartingBalance float64              `json:"starting_balance"`
	CurrentBalance  float64              `json:"current_balance"`
	Transactions    []models.Transaction `json:"transactions"`
}

// GetLedger returns the full ledger
func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	src, ok := h.source(w, r)
	if !ok {
		return
	}
	resp := ledgerResponse{
		LedgerID:        src.UploadID,
		Source:          src.Kind(),
		Profile:         src.Profile,
		Count:           src.Ledger.Len(),
		StartingBalance: src.Ledger.OpeningBalance,
		CurrentBalance:  src.Ledger.CurrentBalance(),
		Transactions:    src.Ledger.Transactions,
	}
	if resp.Transactions == nil {
		resp.Transactions = []models.Transaction{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetDashboard returns every metric and forecast at once
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	src, ok := h.source(w, r)
	if !ok {
		return
	}
	days, err := intParam(r, "days", service.DefaultForecastDays)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Dashboard(src, days))
}
