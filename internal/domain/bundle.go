package domain

import "github.com/gagliardetto/solana-go"

// StepKind clasifica cada instrucción dentro del bundle atómico.
type StepKind int

const (
	StepBorrow StepKind = iota
	StepSwapLeg1
	StepSwapLeg2
	StepRepay
)

func (k StepKind) String() string {
	switch k {
	case StepBorrow:
		return "BORROW"
	case StepSwapLeg1:
		return "SWAP_LEG1"
	case StepSwapLeg2:
		return "SWAP_LEG2"
	case StepRepay:
		return "REPAY"
	default:
		return "UNKNOWN"
	}
}

// Step es una instrucción ya construida con su rol dentro del ciclo.
type Step struct {
	Kind        StepKind
	Instruction solana.Instruction
}

// Bundle es la secuencia atómica lista para enviar: exactamente cuatro
// pasos ordenados (borrow, swap, swap, repay). El repay va siempre al
// final; si no devuelve el principal, toda la secuencia revierte on-chain.
type Bundle struct {
	ID          string
	Pair        string // símbolo del par, para journal y logs
	Steps       []Step
	Tip         uint64 // lamports
	ExpectedNet int64  // lamports, ganancia neta estimada al construir
}

// Instructions devuelve las instrucciones en orden de ejecución.
func (b Bundle) Instructions() []solana.Instruction {
	out := make([]solana.Instruction, 0, len(b.Steps))
	for _, s := range b.Steps {
		out = append(out, s.Instruction)
	}
	return out
}
