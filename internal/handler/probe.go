package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/budgetgate/budgetgate/internal/handler/dto"
	"github.com/budgetgate/budgetgate/internal/repository"
)

// probeTimeout bounds the database round-trips of one probe.
const probeTimeout = 5 * time.Second

// Prober runs the database connectivity probe.
type Prober interface {
	Probe(ctx context.Context) (repository.ProbeResult, error)
}

var _ Prober = (*repository.Repository)(nil)

// ProbeHandler serves the database connectivity probe.
type ProbeHandler struct {
	prober Prober
	logger *slog.Logger
}

// NewProbeHandler creates a new ProbeHandler.
func NewProbeHandler(prober Prober, logger *slog.Logger) *ProbeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProbeHandler{prober: prober, logger: logger}
}

// TestDB handles GET /api/test-db.
func (h *ProbeHandler) TestDB(w http.ResponseWriter, r *http.Request) {
	if h.prober == nil {
		writeJSON(w, http.StatusInternalServerError, dto.ProbeErrorResponse{
			Status: dto.ProbeError,
			Error:  "database not configured",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	result, err := h.prober.Probe(ctx)
	if err != nil {
		h.logger.Warn("db_probe_failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ProbeErrorResponse{
			Status: dto.ProbeError,
			Error:  err.Error(),
		})
		return
	}

	tables := result.Tables
	if tables == nil {
		tables = []string{}
	}
	writeJSON(w, http.StatusOK, dto.ProbeResponse{
		Status:    dto.ProbeConnected,
		Timestamp: result.Timestamp,
		Tables:    tables,
	})
}
