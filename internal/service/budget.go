// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/budgetgate/budgetgate/internal/metrics"
	"github.com/budgetgate/budgetgate/internal/model"
	"github.com/budgetgate/budgetgate/internal/ynab"
)

// Service errors.
var (
	ErrTokenNotConfigured = errors.New("YNAB API token not configured")
	ErrBudgetIDRequired   = ynab.ErrBudgetIDRequired
)

// Upstream is the budgeting API as seen by the service.
type Upstream interface {
	ListBudgets(ctx context.Context, token string) ([]ynab.Budget, error)
	ListCategories(ctx context.Context, budgetID, token string) ([]ynab.CategoryGroup, error)
}

// BudgetService forwards read-only budget queries to the upstream API using
// the server-held token.
type BudgetService struct {
	upstream   Upstream
	credential model.Credential
	metrics    metrics.Recorder
}

// NewBudgetService creates a new BudgetService.
func NewBudgetService(upstream Upstream, credential model.Credential, recorder metrics.Recorder) *BudgetService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &BudgetService{
		upstream:   upstream,
		credential: credential,
		metrics:    recorder,
	}
}

// ListBudgets returns every budget visible to the configured token.
func (s *BudgetService) ListBudgets(ctx context.Context) ([]ynab.Budget, error) {
	if !s.credential.HasToken() {
		s.metrics.IncRequestRejected(metrics.RejectTokenMissing)
		return nil, ErrTokenNotConfigured
	}

	start := time.Now()
	budgets, err := s.upstream.ListBudgets(ctx, s.credential.APIToken)
	s.observe(metrics.OpListBudgets, start, err)
	if err != nil {
		return nil, err
	}
	return budgets, nil
}

// ListCategories returns the category groups of budgetID. The token check
// runs first, then the budgetID check; neither contacts the upstream.
func (s *BudgetService) ListCategories(ctx context.Context, budgetID string) ([]ynab.CategoryGroup, error) {
	if !s.credential.HasToken() {
		s.metrics.IncRequestRejected(metrics.RejectTokenMissing)
		return nil, ErrTokenNotConfigured
	}
	if budgetID == "" {
		s.metrics.IncRequestRejected(metrics.RejectValidation)
		return nil, ErrBudgetIDRequired
	}

	start := time.Now()
	groups, err := s.upstream.ListCategories(ctx, budgetID, s.credential.APIToken)
	s.observe(metrics.OpListCategories, start, err)
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *BudgetService) observe(op string, start time.Time, err error) {
	s.metrics.ObserveUpstreamDuration(op, time.Since(start))
	s.metrics.IncUpstreamRequest(op, err == nil)
}
