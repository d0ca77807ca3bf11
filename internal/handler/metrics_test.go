package handler

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/budgetgate/budgetgate/internal/metrics"
)

func TestMetricsHandler(t *testing.T) {
	rec := metrics.NewInMemory()
	rec.IncUpstreamRequest(metrics.OpListBudgets, true)
	rec.IncUpstreamRequest(metrics.OpListCategories, false)
	rec.ObserveUpstreamDuration(metrics.OpListBudgets, 1500*time.Millisecond)
	rec.IncRequestRejected(metrics.RejectValidation)
	rec.IncSignIn(metrics.SignInDenied)

	resp := serve(NewMetricsHandler(rec).Metrics, "/metrics")

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	body := resp.Body.String()
	for _, line := range []string{
		`budgetgate_upstream_requests_total{op="list_budgets",status="success"} 1`,
		`budgetgate_upstream_requests_total{op="list_categories",status="failed"} 1`,
		`budgetgate_upstream_duration_seconds_count 1`,
		`budgetgate_upstream_duration_seconds_sum 1.500000`,
		`budgetgate_requests_rejected_total{reason="validation"} 1`,
		`budgetgate_sign_ins_total{outcome="denied"} 1`,
	} {
		if !strings.Contains(body, line) {
			t.Errorf("missing %q in:\n%s", line, body)
		}
	}
}

func TestMetricsHandler_NoSnapshotter(t *testing.T) {
	resp := serve(NewMetricsHandler(nil).Metrics, "/metrics")
	if resp.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.Code)
	}
}
