package ports

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/domain"
)

// BookProvider obtiene snapshots del orderbook de un mercado CLOB.
type BookProvider interface {
	// FetchBook devuelve el snapshot actual del book para la cuenta de
	// mercado dada. Cada llamada devuelve un snapshot independiente:
	// dos ciclos concurrentes nunca comparten estado mutable.
	FetchBook(ctx context.Context, market solana.PublicKey) (domain.OrderBook, error)
}
