package feed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"

	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/domain"
)

const booksPath = "/v1/books/"

// FetchBook devuelve el snapshot del order book para el market dado.
// Implementa ports.BookProvider.
func (c *Client) FetchBook(ctx context.Context, market solana.PublicKey) (domain.OrderBook, error) {
	var resp bookSnapshotResponse
	url := c.base + booksPath + market.String()
	if err := c.get(ctx, c.booksLimiter, url, &resp); err != nil {
		return domain.OrderBook{}, fmt.Errorf("feed.FetchBook: %w", err)
	}

	book := mapBook(resp)
	slog.Debug("book snapshot fetched",
		"market", market.String(),
		"slot", resp.Slot,
		"bids", len(book.Bids),
		"asks", len(book.Asks),
	)
	return book, nil
}
