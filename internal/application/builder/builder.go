package builder

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/domain"
	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/ports"
)

// ErrMissingVenue indica que la oportunidad referencia un venue para el
// que no hay swap builder configurado.
var ErrMissingVenue = errors.New("no swap builder configured for venue")

// Builder ensambla el bundle atómico de cuatro pasos a partir de una
// oportunidad: borrow del probe, swap de la pata 1, swap de la pata 2 y
// repay terminal. Es una transformación pura: no envía nada, no consulta
// la red y con la misma oportunidad produce el mismo bundle.
type Builder struct {
	facility ports.FlashFacility
	venues   map[domain.VenueKind]ports.SwapBuilder
}

// New crea un Builder. Cualquiera de los swap builders puede ser nil;
// construir una oportunidad que lo necesite falla con ErrMissingVenue.
func New(facility ports.FlashFacility, book, pool ports.SwapBuilder) *Builder {
	venues := make(map[domain.VenueKind]ports.SwapBuilder, 2)
	if book != nil {
		venues[domain.VenueBook] = book
	}
	if pool != nil {
		venues[domain.VenuePool] = pool
	}
	return &Builder{facility: facility, venues: venues}
}

// Build construye el bundle para la oportunidad dada. El orden de los
// pasos es fijo y el repay va siempre al final: si la devolución del
// principal más el fee no se cumple, la secuencia entera revierte.
func (b *Builder) Build(opp domain.Opportunity, payer solana.PublicKey) (domain.Bundle, error) {
	pair := opp.Pair

	borrow, err := b.facility.Borrow(pair.Quote, opp.Probe, payer)
	if err != nil {
		return domain.Bundle{}, fmt.Errorf("builder.Build %s: borrow: %w", pair.Symbol, err)
	}

	leg1, err := b.swapStep(opp, opp.Leg1, pair.Quote, payer)
	if err != nil {
		return domain.Bundle{}, fmt.Errorf("builder.Build %s: leg1: %w", pair.Symbol, err)
	}

	leg2, err := b.swapStep(opp, opp.Leg2, pair.Base, payer)
	if err != nil {
		return domain.Bundle{}, fmt.Errorf("builder.Build %s: leg2: %w", pair.Symbol, err)
	}

	repay, err := b.facility.Repay(pair.Quote, opp.Probe+opp.Charges.Facility, payer)
	if err != nil {
		return domain.Bundle{}, fmt.Errorf("builder.Build %s: repay: %w", pair.Symbol, err)
	}

	return domain.Bundle{
		ID:          opp.ID,
		Pair:        pair.Symbol,
		Tip:         opp.Charges.Tip,
		ExpectedNet: opp.NetProfit,
		Steps: []domain.Step{
			{Kind: domain.StepBorrow, Instruction: borrow},
			{Kind: domain.StepSwapLeg1, Instruction: leg1},
			{Kind: domain.StepSwapLeg2, Instruction: leg2},
			{Kind: domain.StepRepay, Instruction: repay},
		},
	}, nil
}

// swapStep construye la instrucción de una pata usando el builder de su
// venue. MinOut es la cantidad cotizada: si el mercado se movió desde el
// snapshot, la pata falla on-chain y el repay revierte el ciclo entero.
func (b *Builder) swapStep(opp domain.Opportunity, leg domain.Leg, mintIn solana.PublicKey, payer solana.PublicKey) (solana.Instruction, error) {
	venue, ok := b.venues[leg.Venue]
	if !ok {
		return nil, fmt.Errorf("%s: %w", leg.Venue, ErrMissingVenue)
	}
	return venue.BuildSwap(ports.SwapRequest{
		Pair:     opp.Pair,
		MintIn:   mintIn,
		AmountIn: leg.AmountIn,
		MinOut:   leg.AmountOut,
		Payer:    payer,
	})
}
