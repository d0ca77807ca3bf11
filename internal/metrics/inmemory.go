package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	BudgetsSuccess          uint64
	BudgetsFailed           uint64
	CategoriesSuccess       uint64
	CategoriesFailed        uint64
	UpstreamDurationCount   uint64
	UpstreamDurationTotalNs int64

	RejectedTokenMissing uint64
	RejectedValidation   uint64
	RejectedUnauthorized uint64

	SignInsAdmitted uint64
	SignInsDenied   uint64
	SignInsFailed   uint64
}

// InMemoryRecorder stores metrics in memory. It backs the /metrics endpoint
// and is used directly in tests.
type InMemoryRecorder struct {
	budgetsSuccess          uint64
	budgetsFailed           uint64
	categoriesSuccess       uint64
	categoriesFailed        uint64
	upstreamDurationCount   uint64
	upstreamDurationTotalNs int64

	rejectedTokenMissing uint64
	rejectedValidation   uint64
	rejectedUnauthorized uint64

	signInsAdmitted uint64
	signInsDenied   uint64
	signInsFailed   uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		BudgetsSuccess:          atomic.LoadUint64(&m.budgetsSuccess),
		BudgetsFailed:           atomic.LoadUint64(&m.budgetsFailed),
		CategoriesSuccess:       atomic.LoadUint64(&m.categoriesSuccess),
		CategoriesFailed:        atomic.LoadUint64(&m.categoriesFailed),
		UpstreamDurationCount:   atomic.LoadUint64(&m.upstreamDurationCount),
		UpstreamDurationTotalNs: atomic.LoadInt64(&m.upstreamDurationTotalNs),
		RejectedTokenMissing:    atomic.LoadUint64(&m.rejectedTokenMissing),
		RejectedValidation:      atomic.LoadUint64(&m.rejectedValidation),
		RejectedUnauthorized:    atomic.LoadUint64(&m.rejectedUnauthorized),
		SignInsAdmitted:         atomic.LoadUint64(&m.signInsAdmitted),
		SignInsDenied:           atomic.LoadUint64(&m.signInsDenied),
		SignInsFailed:           atomic.LoadUint64(&m.signInsFailed),
	}
}

// IncUpstreamRequest counts an upstream call by operation and result.
func (m *InMemoryRecorder) IncUpstreamRequest(op string, success bool) {
	switch {
	case op == OpListBudgets && success:
		atomic.AddUint64(&m.budgetsSuccess, 1)
	case op == OpListBudgets:
		atomic.AddUint64(&m.budgetsFailed, 1)
	case op == OpListCategories && success:
		atomic.AddUint64(&m.categoriesSuccess, 1)
	case op == OpListCategories:
		atomic.AddUint64(&m.categoriesFailed, 1)
	}
}

// ObserveUpstreamDuration records upstream call latency.
func (m *InMemoryRecorder) ObserveUpstreamDuration(op string, duration time.Duration) {
	atomic.AddUint64(&m.upstreamDurationCount, 1)
	atomic.AddInt64(&m.upstreamDurationTotalNs, duration.Nanoseconds())
}

// IncRequestRejected counts a request refused before the upstream call.
func (m *InMemoryRecorder) IncRequestRejected(reason string) {
	switch reason {
	case RejectTokenMissing:
		atomic.AddUint64(&m.rejectedTokenMissing, 1)
	case RejectValidation:
		atomic.AddUint64(&m.rejectedValidation, 1)
	case RejectUnauthorized:
		atomic.AddUint64(&m.rejectedUnauthorized, 1)
	}
}

// IncSignIn counts a completed sign-in attempt by outcome.
func (m *InMemoryRecorder) IncSignIn(outcome string) {
	switch outcome {
	case SignInAdmitted:
		atomic.AddUint64(&m.signInsAdmitted, 1)
	case SignInDenied:
		atomic.AddUint64(&m.signInsDenied, 1)
	case SignInFailed:
		atomic.AddUint64(&m.signInsFailed, 1)
	}
}
