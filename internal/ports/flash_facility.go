package ports

import "github.com/gagliardetto/solana-go"

// FlashFacility construye las instrucciones de préstamo intra-transacción.
// El facility presta el principal al inicio del bundle y lo exige de vuelta
// al final; si el repay no cubre principal más fee, la secuencia entera
// revierte on-chain. Las builders son puras: no envían nada.
type FlashFacility interface {
	// Borrow construye la instrucción que transfiere amount unidades del
	// mint al payer al inicio del bundle.
	Borrow(mint solana.PublicKey, amount uint64, payer solana.PublicKey) (solana.Instruction, error)

	// Repay construye la instrucción terminal que devuelve principal más
	// fee al facility y verifica el balance.
	Repay(mint solana.PublicKey, amount uint64, payer solana.PublicKey) (solana.Instruction, error)

	// FeeBps devuelve el fee del facility en basis points sobre el principal.
	FeeBps() uint32
}
