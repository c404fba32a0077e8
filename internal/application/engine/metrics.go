package engine

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/domain"
)

// Metrics accumulates the engine's execution counters. The engine owns
// the instance and is the only writer; everyone else reads through
// Snapshot. No global registry.
type Metrics struct {
	mu                 sync.Mutex
	cyclesRun          uint64
	opportunitiesFound uint64
	bundlesAttempted   uint64
	bundlesSent        uint64 // confirmed on-chain
	realizedPnl        int64  // lamports, sum of confirmed net profits
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	CyclesRun          uint64
	OpportunitiesFound uint64
	BundlesAttempted   uint64
	BundlesSent        uint64
	RealizedPnl        int64
}

// RealizedPnlSOL formats the realized profit in SOL.
func (s MetricsSnapshot) RealizedPnlSOL() decimal.Decimal {
	return domain.SignedSOL(s.RealizedPnl)
}

// NewMetrics creates a zeroed counter set.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordCycle counts one finished cycle and its emitted opportunities.
func (m *Metrics) RecordCycle(opportunities int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cyclesRun++
	m.opportunitiesFound += uint64(opportunities)
}

// RecordAttempt counts one bundle handed to the submitter.
func (m *Metrics) RecordAttempt() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bundlesAttempted++
}

// RecordConfirmed counts a landed bundle and realizes its net profit.
// Called only after the submitter reports a confirmed result.
func (m *Metrics) RecordConfirmed(netProfit int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bundlesSent++
	m.realizedPnl += netProfit
}

// Snapshot returns a consistent copy of all counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MetricsSnapshot{
		CyclesRun:          m.cyclesRun,
		OpportunitiesFound: m.opportunitiesFound,
		BundlesAttempted:   m.bundlesAttempted,
		BundlesSent:        m.bundlesSent,
		RealizedPnl:        m.realizedPnl,
	}
}
