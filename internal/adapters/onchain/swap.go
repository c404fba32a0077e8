package onchain

// swap.go — venue swap instruction builders.
//
// Both venue legs route through the receiver program, which CPIs into the
// actual venue (DEX order book or AMM pool). The receiver owns the
// order-place/settle dance on the book side, so one instruction per leg is
// enough and the bundle stays four steps.

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/domain"
	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/ports"
)

const (
	// Legacy Orca constant-product pool program (SPL token-swap fork).
	DefaultAMMProgram = "9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP"

	// Serum DEX v3, the order book venue program.
	DefaultDEXProgram = "srmqPvymJeFKQ4zGQed1GFppgkRHL9kaELCbyksJtPX"
)

// Swap builds receiver-routed swap instructions for one venue kind.
// Implements ports.SwapBuilder.
type Swap struct {
	receiver solana.PublicKey // flash receiver program (does the CPI)
	venue    solana.PublicKey // program of the venue being called into
	kind     domain.VenueKind
	method   string
}

// NewBookSwap creates the order book leg builder. venueProgram is the DEX
// program the receiver CPIs into; zero means the default program.
func NewBookSwap(receiver, venueProgram solana.PublicKey) *Swap {
	if venueProgram.IsZero() {
		venueProgram = solana.MustPublicKeyFromBase58(DefaultDEXProgram)
	}
	return &Swap{receiver: receiver, venue: venueProgram, kind: domain.VenueBook, method: "swap_book"}
}

// NewPoolSwap creates the AMM pool leg builder. venueProgram is the
// token-swap program the receiver CPIs into; zero means the default program.
func NewPoolSwap(receiver, venueProgram solana.PublicKey) *Swap {
	if venueProgram.IsZero() {
		venueProgram = solana.MustPublicKeyFromBase58(DefaultAMMProgram)
	}
	return &Swap{receiver: receiver, venue: venueProgram, kind: domain.VenuePool, method: "swap_pool"}
}

// BuildSwap builds one exact-in swap instruction. req.MinOut is the quoted
// output; the receiver aborts the transaction if the venue fills below it.
func (s *Swap) BuildSwap(req ports.SwapRequest) (solana.Instruction, error) {
	if req.AmountIn == 0 {
		return nil, fmt.Errorf("onchain.BuildSwap: zero amount in for %s", req.Pair.Symbol)
	}

	data, err := encodeArgs(s.method, req.AmountIn, req.MinOut)
	if err != nil {
		return nil, fmt.Errorf("onchain.BuildSwap: %w", err)
	}

	mintOut := req.Pair.Base
	if req.MintIn == req.Pair.Base {
		mintOut = req.Pair.Quote
	}

	venueAccount := req.Pair.Pool
	if s.kind == domain.VenueBook {
		venueAccount = req.Pair.Market
	}

	metas := solana.AccountMetaSlice{
		solana.Meta(venueAccount).WRITE(),
		solana.Meta(req.Payer).WRITE().SIGNER(),
		solana.Meta(req.MintIn),
		solana.Meta(mintOut),
		solana.Meta(s.venue),
		solana.Meta(solana.TokenProgramID),
	}

	return solana.NewInstruction(s.receiver, metas, data), nil
}
