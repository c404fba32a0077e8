package domain

import "sync"

// ProviderHealth tracks consecutive snapshot-fetch failures across cycles.
// The engine keeps scanning through transient failures; this only decides
// when the degradation is persistent enough to warrant a health warning.
type ProviderHealth struct {
	mu          sync.Mutex
	consecutive int
	threshold   int
	warned      bool
}

// NewProviderHealth creates a tracker that warns after threshold
// consecutive failed cycles. threshold <= 0 disables warnings.
func NewProviderHealth(threshold int) *ProviderHealth {
	return &ProviderHealth{threshold: threshold}
}

// RecordFailure counts a fully failed cycle. Returns true exactly once
// per degradation episode, when the streak first reaches the threshold.
func (h *ProviderHealth) RecordFailure() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.threshold <= 0 {
		return false
	}
	h.consecutive++
	if h.consecutive >= h.threshold && !h.warned {
		h.warned = true
		return true
	}
	return false
}

// RecordSuccess resets the streak and re-arms the warning.
func (h *ProviderHealth) RecordSuccess() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.consecutive = 0
	h.warned = false
}

// Consecutive returns the current failure streak.
func (h *ProviderHealth) Consecutive() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.consecutive
}
