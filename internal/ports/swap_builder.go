package ports

import (
	"github.com/gagliardetto/solana-go"

	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/domain"
)

// SwapRequest describe una pata de swap a construir como instrucción.
type SwapRequest struct {
	Pair      domain.Pair
	MintIn    solana.PublicKey
	AmountIn  uint64
	MinOut    uint64 // cantidad mínima aceptada del mint de salida
	Payer     solana.PublicKey
}

// SwapBuilder construye la instrucción de swap para un venue concreto.
// Una implementación por VenueKind; el builder del bundle elige cuál
// usar según la pata.
type SwapBuilder interface {
	// BuildSwap construye la instrucción sin enviarla.
	BuildSwap(req SwapRequest) (solana.Instruction, error)
}
