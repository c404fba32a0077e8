package scanner

// concurrent.go: worker pool para escanear el lote de pares en paralelo.
//
// Cada par es independiente: sus snapshots se obtienen y evalúan sin
// compartir estado con los demás, así que el orden de terminación da
// igual. Un par que falla solo se salta a sí mismo.

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/domain"
)

// pairOutcome es el resultado de escanear un solo par del lote.
type pairOutcome struct {
	opp           domain.Opportunity
	found         bool
	snapshotsFail bool
}

// ScanBatch obtiene snapshots y escanea todos los pares del lote en
// paralelo. Devuelve las oportunidades ordenadas por ganancia neta
// descendente.
func (s *Scanner) ScanBatch(ctx context.Context, pairs []domain.Pair) domain.BatchResult {
	result := domain.BatchResult{PairsScanned: len(pairs)}
	if len(pairs) == 0 {
		return result
	}

	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}
	if workers > len(pairs) {
		workers = len(pairs)
	}

	workCh := make(chan domain.Pair, len(pairs))
	resultCh := make(chan pairOutcome, len(pairs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pair := range workCh {
				resultCh <- s.scanPair(ctx, pair)
			}
		}()
	}

	for _, pair := range pairs {
		workCh <- pair
	}
	close(workCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	for out := range resultCh {
		if out.snapshotsFail {
			result.SnapshotFailures++
		}
		if out.found {
			result.Opportunities = append(result.Opportunities, out.opp)
		}
	}

	sort.Slice(result.Opportunities, func(i, j int) bool {
		return result.Opportunities[i].NetProfit > result.Opportunities[j].NetProfit
	})

	return result
}

// scanPair obtiene los dos snapshots de un par y lo evalúa. Los fetch
// comparten un timeout propio para que un proveedor colgado no retenga
// el ciclo entero.
func (s *Scanner) scanPair(ctx context.Context, pair domain.Pair) pairOutcome {
	fetchCtx := ctx
	if s.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.cfg.FetchTimeout)
		defer cancel()
	}

	book, err := s.books.FetchBook(fetchCtx, pair.Market)
	if err != nil {
		slog.Warn("book snapshot failed", "pair", pair.Symbol, "err", err)
		return pairOutcome{snapshotsFail: true}
	}

	pool, err := s.pools.FetchPool(fetchCtx, pair.Pool)
	if err != nil {
		slog.Warn("pool snapshot failed", "pair", pair.Symbol, "err", err)
		return pairOutcome{snapshotsFail: true}
	}

	opp, err := s.Scan(pair, book, pool, s.cfg.Probe)
	if err != nil {
		if errors.Is(err, ErrBelowFloor) || errors.Is(err, domain.ErrInsufficientDepth) {
			slog.Debug("pair skipped", "pair", pair.Symbol, "reason", err)
		} else {
			slog.Warn("scan failed", "pair", pair.Symbol, "err", err)
		}
		return pairOutcome{}
	}

	return pairOutcome{opp: opp, found: true}
}
