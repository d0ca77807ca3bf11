package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/budgetgate/budgetgate/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "# TYPE budgetgate_upstream_requests_total counter\n")
	writeMetric(w, "budgetgate_upstream_requests_total{op=%q,status=\"success\"} %d\n", metrics.OpListBudgets, snap.BudgetsSuccess)
	writeMetric(w, "budgetgate_upstream_requests_total{op=%q,status=\"failed\"} %d\n", metrics.OpListBudgets, snap.BudgetsFailed)
	writeMetric(w, "budgetgate_upstream_requests_total{op=%q,status=\"success\"} %d\n", metrics.OpListCategories, snap.CategoriesSuccess)
	writeMetric(w, "budgetgate_upstream_requests_total{op=%q,status=\"failed\"} %d\n", metrics.OpListCategories, snap.CategoriesFailed)

	writeMetric(w, "# TYPE budgetgate_upstream_duration_seconds summary\n")
	writeMetric(w, "budgetgate_upstream_duration_seconds_count %d\n", snap.UpstreamDurationCount)
	writeMetric(w, "budgetgate_upstream_duration_seconds_sum %.6f\n", float64(snap.UpstreamDurationTotalNs)/1e9)

	writeMetric(w, "# TYPE budgetgate_requests_rejected_total counter\n")
	writeMetric(w, "budgetgate_requests_rejected_total{reason=%q} %d\n", metrics.RejectTokenMissing, snap.RejectedTokenMissing)
	writeMetric(w, "budgetgate_requests_rejected_total{reason=%q} %d\n", metrics.RejectValidation, snap.RejectedValidation)
	writeMetric(w, "budgetgate_requests_rejected_total{reason=%q} %d\n", metrics.RejectUnauthorized, snap.RejectedUnauthorized)

	writeMetric(w, "# TYPE budgetgate_sign_ins_total counter\n")
	writeMetric(w, "budgetgate_sign_ins_total{outcome=%q} %d\n", metrics.SignInAdmitted, snap.SignInsAdmitted)
	writeMetric(w, "budgetgate_sign_ins_total{outcome=%q} %d\n", metrics.SignInDenied, snap.SignInsDenied)
	writeMetric(w, "budgetgate_sign_ins_total{outcome=%q} %d\n", metrics.SignInFailed, snap.SignInsFailed)
}

func writeMetric(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
