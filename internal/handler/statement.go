package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/Dan9191/statement-analyzer/internal/models"
	"github.com/Dan9191/statement-analyzer/internal/report"
	"github.com/Dan9191/statement-analyzer/internal/service"
	"github.com/Dan9191/statement-analyzer/internal/statement"
	"github.com/gorilla/mux"
)

// filter resolves the ledger and parses the filter query values
func (h *Handler) filter(w http.ResponseWriter, r *http.Request) (*service.Source, models.Filter, bool) {
	src, ok := h.source(w, r)
	if !ok {
		return nil, models.Filter{}, false
	}
	f, err := report.ParseFilter(r.URL.Query())
	if err != nil {
		h.fail(w, r, badRequest("%v", err))
		return nil, models.Filter{}, false
	}
	return src, f, true
}

// GetTransactions returns the filtered view with its summary
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	src, f, ok := h.filter(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Filter(src, f))
}

func attachment(w http.ResponseWriter, contentType, ext string) {
	name := fmt.Sprintf("statement-%s.%s", time.Now().UTC().Format("20060102"), ext)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
}

// ExportCSV downloads the filtered view as CSV
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	src, f, ok := h.filter(w, r)
	if !ok {
		return
	}
	attachment(w, "text/csv", "csv")
	if err := statement.WriteCSV(w, report.ApplyFilters(src.Ledger, f)); err != nil {
		h.log.Errorf("Failed to write CSV export: %v", err)
	}
}

// ExportXML downloads the filtered view as an XML statement
func (h *Handler) ExportXML(w http.ResponseWriter, r *http.Request) {
	src, f, ok := h.filter(w, r)
	if !ok {
		return
	}
	attachment(w, "application/xml", "xml")
	if err := statement.WriteXML(w, report.ApplyFilters(src.Ledger, f), src.Profile); err != nil {
		h.log.Errorf("Failed to write XML export: %v", err)
	}
}

// GetReportText renders the text report without storing it
func (h *Handler) GetReportText(w http.ResponseWriter, r *http.Request) {
	src, ok := h.source(w, r)
	if !ok {
		return
	}
	rep := h.svc.BuildReport(src)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(rep.Text))
}

// CreateUpload accepts a multipart statement file in the "file" field
func (h *Handler) CreateUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "statement file too large")
			return
		}
		h.fail(w, r, badRequest("invalid multipart form: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, badRequest("file field is required"))
		return
	}
	defer file.Close()

	profile, err := models.ParseProfile(r.FormValue("profile"))
	if err != nil {
		h.fail(w, r, badRequest("%v", err))
		return
	}
	startingBalance := profile.StartingBalance()
	if raw := r.FormValue("starting_balance"); raw != "" {
		if startingBalance, err = statement.ParseAmount(raw); err != nil {
			h.fail(w, r, badRequest("invalid starting_balance %q", raw))
			return
		}
	}

	upload, err := h.svc.Upload(filepath.Base(header.Filename), file, profile, startingBalance)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, upload)
}

type tokenRequest struct {
	APIKey string `json:"api_key"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateToken exchanges an API key for a bearer token
func (h *Handler) CreateToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, r, badRequest("invalid JSON body"))
		return
	}
	token, expiresAt, err := h.svc.IssueToken(req.APIKey)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token, ExpiresAt: expiresAt})
}

// CreateReport builds and stores a report for the selected ledger
func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	src, ok := h.source(w, r)
	if !ok {
		return
	}
	rep, err := h.svc.CreateReport(r.Context(), src)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rep)
}

// ListReports returns the latest stored reports
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	reports, err := h.svc.ListReports(r.Context(), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// GetReport returns one stored report
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	rep, err := h.svc.GetReport(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
