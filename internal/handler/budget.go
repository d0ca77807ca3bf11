package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/budgetgate/budgetgate/internal/handler/dto"
	"github.com/budgetgate/budgetgate/internal/middleware"
	"github.com/budgetgate/budgetgate/internal/service"
	"github.com/budgetgate/budgetgate/internal/ynab"
)

// Error summaries for upstream failures.
const (
	msgFetchBudgets    = "Failed to fetch budgets"
	msgFetchCategories = "Failed to fetch categories"
)

// BudgetHandler serves the read-only budget proxy endpoints.
type BudgetHandler struct {
	svc    *service.BudgetService
	logger *slog.Logger
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(svc *service.BudgetService, logger *slog.Logger) *BudgetHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BudgetHandler{
		svc:    svc,
		logger: logger,
	}
}

// Budgets handles GET /api/ynab/budgets.
func (h *BudgetHandler) Budgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.svc.ListBudgets(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, msgFetchBudgets)
		return
	}
	writeJSON(w, http.StatusOK, budgets)
}

// Categories handles GET /api/ynab/categories?budgetId=.
func (h *BudgetHandler) Categories(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.ListCategories(r.Context(), r.URL.Query().Get("budgetId"))
	if err != nil {
		h.handleServiceError(w, r, err, msgFetchCategories)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// handleServiceError maps service errors to the normalized error body.
// Anything that is not a configuration or validation error is an upstream
// failure and carries its message as details.
func (h *BudgetHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, summary string) {
	switch {
	case errors.Is(err, service.ErrTokenNotConfigured):
		h.logger.Error("ynab_token_missing", "request_id", middleware.GetRequestID(r.Context()))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrBudgetIDRequired):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	default:
		attrs := []any{
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err.Error(),
		}
		var apiError *ynab.APIError
		if errors.As(err, &apiError) {
			attrs = append(attrs, "upstream_status", apiError.StatusCode, "upstream_error_id", apiError.ID)
		}
		switch {
		case errors.Is(err, context.Canceled):
			h.logger.Info("upstream_call_abandoned", attrs...)
		case ynab.IsUnauthorized(err):
			h.logger.Error("ynab_token_rejected", attrs...)
		case ynab.IsNotFound(err):
			h.logger.Info("upstream_not_found", attrs...)
		case ynab.IsUpstream(err):
			h.logger.Warn("upstream_call_failed", attrs...)
		default:
			h.logger.Error("budget_request_failed", attrs...)
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: summary, Details: err.Error()})
	}
}
