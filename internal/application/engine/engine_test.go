package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/domain"
)

func pk(b byte) solana.PublicKey {
	var k solana.PublicKey
	k[0] = b
	return k
}

func testPair() domain.Pair {
	return domain.Pair{
		Symbol:  "TKN/WSOL",
		Base:    pk(0xB0),
		Quote:   pk(0xA0),
		Market:  pk(0x01),
		Pool:    pk(0x02),
		BaseLot: 1,
	}
}

func testOpportunity(net int64) domain.Opportunity {
	return domain.Opportunity{
		ID:        "opp-1",
		Pair:      testPair(),
		Probe:     1000,
		Leg1:      domain.Leg{Venue: domain.VenuePool, AmountIn: 1000, AmountOut: 1100},
		Leg2:      domain.Leg{Venue: domain.VenueBook, AmountIn: 1100, AmountOut: 1100},
		Charges:   domain.Charges{Facility: 3, Tip: 5, Signature: 2},
		NetProfit: net,
		ScannedAt: time.Now().UTC(),
	}
}

type fakeSource struct{ pairs []domain.Pair }

func (f fakeSource) Next() []domain.Pair { return f.pairs }

type fakeScanner struct {
	mu      sync.Mutex
	results []domain.BatchResult
	calls   int
}

func (f *fakeScanner) ScanBatch(_ context.Context, pairs []domain.Pair) domain.BatchResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.results) == 0 {
		return domain.BatchResult{PairsScanned: len(pairs)}
	}
	res := f.results[0]
	if len(f.results) > 1 {
		f.results = f.results[1:]
	}
	return res
}

func (f *fakeScanner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeBuilder struct {
	mu     sync.Mutex
	errFor map[string]error // opportunity ID → error
	builds int
}

func (f *fakeBuilder) Build(opp domain.Opportunity, _ solana.PublicKey) (domain.Bundle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builds++
	if err := f.errFor[opp.ID]; err != nil {
		return domain.Bundle{}, err
	}
	return domain.Bundle{
		ID:          opp.ID,
		Pair:        opp.Pair.Symbol,
		Tip:         opp.Charges.Tip,
		ExpectedNet: opp.NetProfit,
	}, nil
}

type fakeSubmitter struct {
	mu    sync.Mutex
	err   error
	block bool // espera al deadline del contexto
	calls int
}

func (f *fakeSubmitter) Submit(ctx context.Context, bundle domain.Bundle) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	return "jito-" + bundle.ID, nil
}

func (f *fakeSubmitter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeNotifier struct {
	mu        sync.Mutex
	summaries []domain.CycleSummary
	alerts    []string
}

func (f *fakeNotifier) CycleSummary(_ context.Context, s domain.CycleSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaries = append(f.summaries, s)
	return nil
}

func (f *fakeNotifier) Alert(_ context.Context, title, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, title)
	return nil
}

func (f *fakeNotifier) alertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.alerts)
}

type fakeJournal struct {
	mu          sync.Mutex
	cycles      []domain.CycleSummary
	submissions []domain.SubmissionResult
}

func (f *fakeJournal) SaveCycle(_ context.Context, s domain.CycleSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cycles = append(f.cycles, s)
	return nil
}

func (f *fakeJournal) SaveSubmission(_ context.Context, r domain.SubmissionResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submissions = append(f.submissions, r)
	return nil
}

func (f *fakeJournal) RecentSubmissions(context.Context, time.Time, time.Time) ([]domain.SubmissionResult, error) {
	return nil, nil
}

func (f *fakeJournal) Close() error { return nil }

func oneOppBatch(net int64) domain.BatchResult {
	return domain.BatchResult{
		Opportunities: []domain.Opportunity{testOpportunity(net)},
		PairsScanned:  1,
	}
}

func newTestEngine(cfg Config, sc BatchScanner, b BundleBuilder, sub *fakeSubmitter, n *fakeNotifier, j *fakeJournal) *Engine {
	if cfg.Interval == 0 {
		cfg.Interval = time.Hour
	}
	if cfg.SubmitTimeout == 0 {
		cfg.SubmitTimeout = time.Second
	}
	return New(cfg, fakeSource{pairs: []domain.Pair{testPair()}}, sc, b, sub, n, j)
}

func TestEngine_ConfirmedBundleUpdatesMetrics(t *testing.T) {
	scanner := &fakeScanner{results: []domain.BatchResult{oneOppBatch(90)}}
	submitter := &fakeSubmitter{}
	notifier := &fakeNotifier{}
	journal := &fakeJournal{}
	e := newTestEngine(Config{}, scanner, &fakeBuilder{}, submitter, notifier, journal)

	summary := e.RunOnce(context.Background())

	require.Len(t, summary.Submissions, 1)
	sub := summary.Submissions[0]
	assert.Equal(t, domain.SubmissionConfirmed, sub.Status)
	assert.Equal(t, "jito-opp-1", sub.BundleID)
	assert.Empty(t, sub.Reason)

	snap := e.Metrics()
	assert.Equal(t, uint64(1), snap.BundlesSent)
	assert.Equal(t, uint64(1), snap.BundlesAttempted)
	assert.Equal(t, int64(90), snap.RealizedPnl)
	assert.Equal(t, uint64(1), snap.CyclesRun)
	assert.Equal(t, uint64(1), snap.OpportunitiesFound)

	require.Len(t, journal.cycles, 1)
	require.Len(t, journal.submissions, 1)
	require.Len(t, notifier.summaries, 1)
	assert.Equal(t, 1, notifier.summaries[0].ConfirmedCount())
}

func TestEngine_RejectedBundleLeavesPnlUntouched(t *testing.T) {
	scanner := &fakeScanner{results: []domain.BatchResult{oneOppBatch(90)}}
	submitter := &fakeSubmitter{err: errors.New("bundle simulation failed")}
	e := newTestEngine(Config{}, scanner, &fakeBuilder{}, submitter, &fakeNotifier{}, nil)

	summary := e.RunOnce(context.Background())

	require.Len(t, summary.Submissions, 1)
	assert.Equal(t, domain.SubmissionRejected, summary.Submissions[0].Status)
	assert.Contains(t, summary.Submissions[0].Reason, "simulation failed")

	snap := e.Metrics()
	assert.Equal(t, uint64(0), snap.BundlesSent)
	assert.Equal(t, uint64(1), snap.BundlesAttempted)
	assert.Equal(t, int64(0), snap.RealizedPnl)
}

func TestEngine_DryRunNeverSubmits(t *testing.T) {
	scanner := &fakeScanner{results: []domain.BatchResult{oneOppBatch(90)}}
	submitter := &fakeSubmitter{}
	e := newTestEngine(Config{DryRun: true}, scanner, &fakeBuilder{}, submitter, &fakeNotifier{}, nil)

	summary := e.RunOnce(context.Background())

	require.Len(t, summary.Submissions, 1)
	assert.Equal(t, domain.SubmissionDryRun, summary.Submissions[0].Status)
	assert.Equal(t, 0, submitter.callCount())

	snap := e.Metrics()
	assert.Equal(t, uint64(0), snap.BundlesAttempted)
	assert.Equal(t, uint64(0), snap.BundlesSent)
	assert.Equal(t, uint64(1), snap.OpportunitiesFound)
}

func TestEngine_SubmitTimeout(t *testing.T) {
	scanner := &fakeScanner{results: []domain.BatchResult{oneOppBatch(90)}}
	submitter := &fakeSubmitter{block: true}
	e := newTestEngine(Config{SubmitTimeout: 30 * time.Millisecond}, scanner, &fakeBuilder{}, submitter, &fakeNotifier{}, nil)

	summary := e.RunOnce(context.Background())

	require.Len(t, summary.Submissions, 1)
	assert.Equal(t, domain.SubmissionTimedOut, summary.Submissions[0].Status)
	assert.Equal(t, uint64(0), e.Metrics().BundlesSent)
}

func TestEngine_BuildFailureSkipsOnlyThatBundle(t *testing.T) {
	good := testOpportunity(90)
	bad := testOpportunity(40)
	bad.ID = "opp-2"

	scanner := &fakeScanner{results: []domain.BatchResult{{
		Opportunities: []domain.Opportunity{bad, good},
		PairsScanned:  1,
	}}}
	builder := &fakeBuilder{errFor: map[string]error{"opp-2": errors.New("missing venue handle")}}
	e := newTestEngine(Config{}, scanner, builder, &fakeSubmitter{}, &fakeNotifier{}, nil)

	summary := e.RunOnce(context.Background())

	require.Len(t, summary.Submissions, 2)
	byID := map[string]domain.SubmissionResult{}
	for _, s := range summary.Submissions {
		byID[s.Opportunity.ID] = s
	}
	assert.Equal(t, domain.SubmissionRejected, byID["opp-2"].Status)
	assert.Equal(t, domain.SubmissionConfirmed, byID["opp-1"].Status)

	snap := e.Metrics()
	assert.Equal(t, uint64(1), snap.BundlesSent)
	assert.Equal(t, int64(90), snap.RealizedPnl)
}

func TestEngine_HealthAlertAfterConsecutiveFailures(t *testing.T) {
	allFailed := domain.BatchResult{PairsScanned: 1, SnapshotFailures: 1}
	healthy := domain.BatchResult{PairsScanned: 1}

	scanner := &fakeScanner{results: []domain.BatchResult{
		allFailed, allFailed, allFailed, healthy, allFailed, allFailed,
	}}
	notifier := &fakeNotifier{}
	e := newTestEngine(Config{HealthThreshold: 2}, scanner, &fakeBuilder{}, &fakeSubmitter{}, notifier, nil)

	ctx := context.Background()
	e.RunOnce(ctx)
	assert.Equal(t, 0, notifier.alertCount())
	e.RunOnce(ctx)
	assert.Equal(t, 1, notifier.alertCount(), "threshold reached")
	e.RunOnce(ctx)
	assert.Equal(t, 1, notifier.alertCount(), "no repeated alert within the episode")

	e.RunOnce(ctx) // ciclo sano: se rearma
	e.RunOnce(ctx)
	e.RunOnce(ctx)
	assert.Equal(t, 2, notifier.alertCount(), "new episode alerts again")
}

func TestEngine_RunStopsOnCancel(t *testing.T) {
	scanner := &fakeScanner{}
	e := newTestEngine(Config{Interval: 5 * time.Millisecond}, scanner, &fakeBuilder{}, &fakeSubmitter{}, &fakeNotifier{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	time.Sleep(40 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("engine did not stop after cancel")
	}

	assert.GreaterOrEqual(t, scanner.callCount(), 2, "immediate cycle plus at least one tick")
}
