package domain

import (
	"errors"
	"math/big"

	"github.com/gagliardetto/solana-go"
)

// ErrUnknownMint indica que el mint pedido no pertenece al pool.
var ErrUnknownMint = errors.New("mint does not belong to pool")

// PoolState es un snapshot inmutable de un pool AMM de producto constante.
// Las reservas son unidades base de cada mint; FeeBps es el fee del pool
// en basis points, descontado del input antes de aplicar la curva.
type PoolState struct {
	Address      solana.PublicKey
	BaseMint     solana.PublicKey
	QuoteMint    solana.PublicKey
	BaseReserve  uint64
	QuoteReserve uint64
	FeeBps       uint32
}

// PoolQuote es el resultado de cotizar un swap contra el snapshot.
type PoolQuote struct {
	AmountOut uint64 // unidades del mint de salida
	FeePaid   uint64 // fee retenido por el pool, en unidades del mint de entrada
}

// Quote cotiza un swap de amountIn unidades del mint de entrada contra el
// snapshot, sin mutarlo. El fee se descuenta primero:
//
//	fee    = floor(amountIn × FeeBps / 10_000)
//	netIn  = amountIn - fee
//	out    = floor(reserveOut × netIn / (reserveIn + netIn))
//
// Los productos intermedios exceden 64 bits, así que la curva se evalúa
// en big.Int. El resultado siempre cabe en uint64 porque out < reserveOut.
func (p PoolState) Quote(amountIn uint64, mintIn solana.PublicKey) (PoolQuote, error) {
	var reserveIn, reserveOut uint64
	switch mintIn {
	case p.BaseMint:
		reserveIn, reserveOut = p.BaseReserve, p.QuoteReserve
	case p.QuoteMint:
		reserveIn, reserveOut = p.QuoteReserve, p.BaseReserve
	default:
		return PoolQuote{}, ErrUnknownMint
	}

	if amountIn == 0 || reserveIn == 0 || reserveOut == 0 {
		return PoolQuote{}, nil
	}

	fee := BpsOf(amountIn, p.FeeBps)
	netIn := new(big.Int).SetUint64(amountIn - fee)
	if netIn.Sign() == 0 {
		return PoolQuote{FeePaid: fee}, nil
	}

	num := new(big.Int).Mul(new(big.Int).SetUint64(reserveOut), netIn)
	den := new(big.Int).Add(new(big.Int).SetUint64(reserveIn), netIn)
	out := num.Div(num, den)

	return PoolQuote{AmountOut: out.Uint64(), FeePaid: fee}, nil
}
