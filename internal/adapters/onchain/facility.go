package onchain

// facility.go — flash loan instruction builder.
//
// The facility is an Anchor program that lends quote (WSOL) from its vault
// for the duration of one transaction. Borrow hands the lamports to the
// payer, repay returns principal plus the bps fee. Both legs must land in
// the same bundle or the whole transaction reverts.

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Facility builds borrow/repay instructions against the configured flash
// loan program. Implements ports.FlashFacility.
type Facility struct {
	program solana.PublicKey
	vault   solana.PublicKey
	feeBps  uint32
}

// NewFacility creates a Facility for the given program, liquidity vault and
// fee schedule.
func NewFacility(program, vault solana.PublicKey, feeBps uint32) *Facility {
	return &Facility{program: program, vault: vault, feeBps: feeBps}
}

// FeeBps returns the facility fee in basis points of the borrowed amount.
func (f *Facility) FeeBps() uint32 { return f.feeBps }

// Borrow builds the instruction that lends amount of mint to the payer.
func (f *Facility) Borrow(mint solana.PublicKey, amount uint64, payer solana.PublicKey) (solana.Instruction, error) {
	data, err := encodeArgs("borrow", amount)
	if err != nil {
		return nil, fmt.Errorf("onchain.Borrow: %w", err)
	}
	return solana.NewInstruction(f.program, f.metas(mint, payer), data), nil
}

// Repay builds the instruction that returns amount of mint to the vault.
// The caller is responsible for including the facility fee in amount.
func (f *Facility) Repay(mint solana.PublicKey, amount uint64, payer solana.PublicKey) (solana.Instruction, error) {
	data, err := encodeArgs("repay", amount)
	if err != nil {
		return nil, fmt.Errorf("onchain.Repay: %w", err)
	}
	return solana.NewInstruction(f.program, f.metas(mint, payer), data), nil
}

// metas is the shared account list of both facility methods.
func (f *Facility) metas(mint, payer solana.PublicKey) solana.AccountMetaSlice {
	return solana.AccountMetaSlice{
		solana.Meta(f.vault).WRITE(),
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(mint),
		solana.Meta(solana.TokenProgramID),
	}
}
