package crawler

import "sync/atomic"

// requestBudget bounds outbound page loads across one run. Concurrent
// batches draw from the same counter.
type requestBudget struct {
	unlimited bool
	remaining atomic.Int64
}

func newRequestBudget(max int) *requestBudget {
	b := &requestBudget{unlimited: max <= 0}
	b.remaining.Store(int64(max))
	return b
}

// take consumes one request from the budget. Returns false once the
// budget is exhausted.
func (b *requestBudget) take() bool {
	if b.unlimited {
		return true
	}
	return b.remaining.Add(-1) >= 0
}
