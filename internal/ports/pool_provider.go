package ports

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/domain"
)

// PoolProvider obtiene snapshots del estado de un pool AMM.
type PoolProvider interface {
	// FetchPool devuelve reservas y fee del pool en el momento de la
	// llamada. El snapshot es de solo lectura; cotizar contra él nunca
	// modifica las reservas.
	FetchPool(ctx context.Context, pool solana.PublicKey) (domain.PoolState, error)
}
