package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/vertextoedge/cache-size-report/internal/domain"
	"github.com/vertextoedge/cache-size-report/internal/port"
	"github.com/vertextoedge/cache-size-report/internal/render"
)

// ReportHandler serves the cache size report
type ReportHandler struct {
	reports port.ReportBuilder
	title   string
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports port.ReportBuilder, title string, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		title:   title,
		logger:  logger,
	}
}

// HandlePage renders the report as an HTML page
func (h *ReportHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	report, err := h.reports.BuildReport(r.Context())
	status := http.StatusOK
	if err != nil {
		h.logger.Error("failed to build cache report", zap.Error(err))
		status = statusFor(err)
	}

	// Render fully before writing so a template error never leaves half a page
	var buf bytes.Buffer
	if err := render.WriteHTML(&buf, render.NewPage(h.title, report, err)); err != nil {
		h.logger.Error("failed to render cache report", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// HandleJSON returns the report as JSON
func (h *ReportHandler) HandleJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	report, err := h.reports.BuildReport(r.Context())
	if err != nil {
		h.logger.Error("failed to build cache report", zap.Error(err))
		writeJSON(w, statusFor(err), map[string]string{"error": "error loading cache data"})
		return
	}

	writeJSON(w, http.StatusOK, render.NewJSONReport(report))
}

func statusFor(err error) int {
	if domain.IsDataAccessError(err) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
