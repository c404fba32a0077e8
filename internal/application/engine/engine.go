package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gagliardetto/solana-go"
	"golang.org/x/sync/errgroup"

	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/domain"
	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/ports"
)

// maxConcurrentSubmits bounds how many bundles await confirmation at once.
// Each submission only ever waits on its own bundle, never on another's.
const maxConcurrentSubmits = 4

// cyclePhase is the explicit state a cycle walks through:
// idle → scanning → submitting → idle. Cycles may overlap, so each one
// carries its own phase instead of the engine holding a single global state.
type cyclePhase int

const (
	phaseIdle cyclePhase = iota
	phaseScanning
	phaseSubmitting
)

func (p cyclePhase) String() string {
	switch p {
	case phaseScanning:
		return "scanning"
	case phaseSubmitting:
		return "submitting"
	default:
		return "idle"
	}
}

// PairSource yields the batch of pairs each cycle should scan.
type PairSource interface {
	Next() []domain.Pair
}

// BatchScanner is the minimal seam the engine needs from the scanner.
type BatchScanner interface {
	ScanBatch(ctx context.Context, pairs []domain.Pair) domain.BatchResult
}

// BundleBuilder assembles the atomic bundle for one opportunity.
type BundleBuilder interface {
	Build(opp domain.Opportunity, payer solana.PublicKey) (domain.Bundle, error)
}

// Config holds the engine's runtime parameters.
type Config struct {
	Interval        time.Duration
	SubmitTimeout   time.Duration
	HealthThreshold int  // consecutive failed cycles before alerting
	DryRun          bool // scan and report, never submit
	Payer           solana.PublicKey
}

// Engine drives the scan/submit loop on a fixed timer. A tick starts a
// new cycle whether or not the previous one finished; every cycle works
// on its own immutable snapshots, so overlap is harmless.
type Engine struct {
	cfg       Config
	pairs     PairSource
	scanner   BatchScanner
	builder   BundleBuilder
	submitter ports.BundleSubmitter
	notifier  ports.Notifier
	journal   ports.Journal // nil desactiva la persistencia
	metrics   *Metrics
	health    *domain.ProviderHealth
	cycleSeq  atomic.Uint64
}

// New creates the engine. The metrics object is created and owned here.
func New(
	cfg Config,
	pairs PairSource,
	scanner BatchScanner,
	builder BundleBuilder,
	submitter ports.BundleSubmitter,
	notifier ports.Notifier,
	journal ports.Journal,
) *Engine {
	return &Engine{
		cfg:       cfg,
		pairs:     pairs,
		scanner:   scanner,
		builder:   builder,
		submitter: submitter,
		notifier:  notifier,
		journal:   journal,
		metrics:   NewMetrics(),
		health:    domain.NewProviderHealth(cfg.HealthThreshold),
	}
}

// Metrics exposes the engine's counters for read-only consumers.
func (e *Engine) Metrics() MetricsSnapshot {
	return e.metrics.Snapshot()
}

// Run executes the loop until the context is cancelled. Provider errors,
// empty scans and failed submissions never terminate the loop; only
// cancellation does.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("engine starting",
		"interval", e.cfg.Interval,
		"submit_timeout", e.cfg.SubmitTimeout,
		"dry_run", e.cfg.DryRun,
	)

	var wg sync.WaitGroup
	launch := func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.runCycle(ctx)
		}()
	}

	// primer ciclo inmediato, sin esperar al primer tick
	launch()

	ticker := time.NewTicker(e.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			snap := e.metrics.Snapshot()
			slog.Info("engine stopped",
				"cycles", snap.CyclesRun,
				"bundles_sent", snap.BundlesSent,
				"realized_pnl_sol", snap.RealizedPnlSOL(),
			)
			return nil
		case <-ticker.C:
			launch()
		}
	}
}

// RunOnce executes exactly one cycle and returns its summary.
func (e *Engine) RunOnce(ctx context.Context) domain.CycleSummary {
	return e.runCycle(ctx)
}

// runCycle walks one cycle through its phases and reports the outcome.
func (e *Engine) runCycle(ctx context.Context) domain.CycleSummary {
	id := e.cycleSeq.Add(1)
	start := time.Now()

	phase := phaseScanning
	slog.Debug("cycle phase", "cycle", id, "phase", phase)

	batch := e.pairs.Next()
	summary := domain.CycleSummary{StartedAt: start.UTC()}
	if len(batch) == 0 {
		slog.Warn("cycle has no pairs to scan", "cycle", id)
		return summary
	}

	result := e.scanner.ScanBatch(ctx, batch)
	summary.PairsScanned = result.PairsScanned
	summary.SnapshotFailures = result.SnapshotFailures
	summary.Opportunities = result.Opportunities

	if result.AllSnapshotsFailed() {
		if e.health.RecordFailure() {
			e.alert(ctx, "snapshot provider degraded", fmt.Sprintf(
				"%d consecutive cycles without a single snapshot; scanning continues",
				e.health.Consecutive(),
			))
		}
	} else {
		e.health.RecordSuccess()
	}

	phase = phaseSubmitting
	slog.Debug("cycle phase", "cycle", id, "phase", phase)
	summary.Submissions = e.submitAll(ctx, result.Opportunities)

	for _, sub := range summary.Submissions {
		if sub.Confirmed() {
			e.metrics.RecordConfirmed(sub.Opportunity.NetProfit)
		}
	}
	e.metrics.RecordCycle(len(result.Opportunities))

	summary.Duration = time.Since(start)
	e.persistAndNotify(ctx, summary)

	phase = phaseIdle
	slog.Info("cycle complete",
		"cycle", id,
		"phase", phase,
		"pairs", summary.PairsScanned,
		"snapshot_failures", summary.SnapshotFailures,
		"opportunities", len(summary.Opportunities),
		"confirmed", summary.ConfirmedCount(),
		"duration", summary.Duration.Round(time.Millisecond),
	)
	return summary
}

// submitAll builds and submits every opportunity of the cycle. Bundles
// are independent: submissions run concurrently (bounded) and one
// failure never aborts the others.
func (e *Engine) submitAll(ctx context.Context, opps []domain.Opportunity) []domain.SubmissionResult {
	if len(opps) == 0 {
		return nil
	}

	results := make([]domain.SubmissionResult, len(opps))
	var g errgroup.Group
	g.SetLimit(maxConcurrentSubmits)

	for i, opp := range opps {
		g.Go(func() error {
			results[i] = e.submitOne(ctx, opp)
			return nil
		})
	}
	g.Wait()

	return results
}

// submitOne takes a single opportunity through build and fire-and-await
// submission. The returned result is terminal: confirmed, rejected,
// timed out, or dry-run.
func (e *Engine) submitOne(ctx context.Context, opp domain.Opportunity) domain.SubmissionResult {
	res := domain.SubmissionResult{
		Opportunity: opp,
		BundleID:    opp.ID,
		SubmittedAt: time.Now().UTC(),
	}

	if e.cfg.DryRun {
		res.Status = domain.SubmissionDryRun
		res.Reason = "dry run: not submitted"
		slog.Info("dry run opportunity",
			"pair", opp.Pair.Symbol,
			"route", opp.Route(),
			"net_sol", opp.NetProfitSOL(),
		)
		return res
	}

	bundle, err := e.builder.Build(opp, e.cfg.Payer)
	if err != nil {
		res.Status = domain.SubmissionRejected
		res.Reason = err.Error()
		slog.Warn("bundle build failed", "pair", opp.Pair.Symbol, "err", err)
		return res
	}

	e.metrics.RecordAttempt()

	submitCtx := ctx
	if e.cfg.SubmitTimeout > 0 {
		var cancel context.CancelFunc
		submitCtx, cancel = context.WithTimeout(ctx, e.cfg.SubmitTimeout)
		defer cancel()
	}

	start := time.Now()
	confirmedID, err := e.submitter.Submit(submitCtx, bundle)
	res.Elapsed = time.Since(start)

	switch {
	case err == nil:
		res.Status = domain.SubmissionConfirmed
		res.BundleID = confirmedID
		slog.Info("bundle confirmed",
			"pair", opp.Pair.Symbol,
			"bundle_id", confirmedID,
			"net_sol", opp.NetProfitSOL(),
			"elapsed", res.Elapsed.Round(time.Millisecond),
		)
	case errors.Is(err, context.DeadlineExceeded):
		res.Status = domain.SubmissionTimedOut
		res.Reason = err.Error()
		slog.Warn("bundle confirmation timed out",
			"pair", opp.Pair.Symbol,
			"bundle_id", bundle.ID,
			"elapsed", res.Elapsed.Round(time.Millisecond),
		)
	default:
		res.Status = domain.SubmissionRejected
		res.Reason = err.Error()
		slog.Warn("bundle rejected",
			"pair", opp.Pair.Symbol,
			"bundle_id", bundle.ID,
			"err", err,
		)
	}
	return res
}

// persistAndNotify writes the cycle to the journal and presents it.
// Both are best-effort: their failures are logged and swallowed.
func (e *Engine) persistAndNotify(ctx context.Context, summary domain.CycleSummary) {
	if e.journal != nil {
		if err := e.journal.SaveCycle(ctx, summary); err != nil {
			slog.Warn("journal cycle write failed", "err", err)
		}
		for _, sub := range summary.Submissions {
			if err := e.journal.SaveSubmission(ctx, sub); err != nil {
				slog.Warn("journal submission write failed", "bundle_id", sub.BundleID, "err", err)
			}
		}
	}

	if e.notifier != nil {
		if err := e.notifier.CycleSummary(ctx, summary); err != nil {
			slog.Warn("notifier error", "err", err)
		}
	}
}

// alert pushes a high-priority event through the notifier.
func (e *Engine) alert(ctx context.Context, title, message string) {
	slog.Error(title, "detail", message)
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Alert(ctx, title, message); err != nil {
		slog.Warn("alert delivery failed", "err", err)
	}
}
