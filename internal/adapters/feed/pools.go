package feed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"

	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/domain"
)

const poolsPath = "/v1/pools/"

// FetchPool devuelve el snapshot de reservas del pool AMM dado.
// Implementa ports.PoolProvider.
func (c *Client) FetchPool(ctx context.Context, pool solana.PublicKey) (domain.PoolState, error) {
	var resp poolSnapshotResponse
	url := c.base + poolsPath + pool.String()
	if err := c.get(ctx, c.poolsLimiter, url, &resp); err != nil {
		return domain.PoolState{}, fmt.Errorf("feed.FetchPool: %w", err)
	}

	state, err := mapPool(resp)
	if err != nil {
		return domain.PoolState{}, fmt.Errorf("feed.FetchPool: %w", err)
	}

	slog.Debug("pool snapshot fetched",
		"pool", pool.String(),
		"slot", resp.Slot,
		"base_reserve", state.BaseReserve,
		"quote_reserve", state.QuoteReserve,
	)
	return state, nil
}
