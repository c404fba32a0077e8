package domain

import (
	"fmt"
	"math"
	"math/big"
	"math/bits"

	"github.com/shopspring/decimal"
)

// LamportsPerSOL es el número de unidades base (lamports) por SOL.
const LamportsPerSOL = 1_000_000_000

// MaxBps es la base de los basis points: 10_000 bps = 100%.
const MaxBps = 10_000

// Dec convierte un uint64 a decimal sin pasar por float.
func Dec(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}

// SOL formatea lamports como SOL con 9 decimales.
func SOL(lamports uint64) decimal.Decimal {
	return Dec(lamports).Shift(-9)
}

// SignedSOL formatea lamports con signo como SOL. Usado para PnL.
func SignedSOL(lamports int64) decimal.Decimal {
	return decimal.NewFromInt(lamports).Shift(-9)
}

// LamportsFromSOL convierte una cantidad en SOL (decimal) a lamports.
// Falla si la cantidad es negativa o no cabe en uint64.
func LamportsFromSOL(sol decimal.Decimal) (uint64, error) {
	if sol.IsNegative() {
		return 0, fmt.Errorf("domain.LamportsFromSOL: negative amount %s", sol)
	}
	scaled := sol.Shift(9)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("domain.LamportsFromSOL: %s has sub-lamport precision", sol)
	}
	bi := scaled.BigInt()
	if !bi.IsUint64() {
		return 0, fmt.Errorf("domain.LamportsFromSOL: %s overflows uint64", sol)
	}
	return bi.Uint64(), nil
}

// BpsOf devuelve floor(amount × bps / 10_000) en aritmética entera exacta.
// Con bps ≤ 10_000 el cociente de 128 bits siempre cabe en uint64.
func BpsOf(amount uint64, bps uint32) uint64 {
	if bps == 0 || amount == 0 {
		return 0
	}
	if bps > MaxBps {
		bps = MaxBps
	}
	hi, lo := bits.Mul64(amount, uint64(bps))
	q, _ := bits.Div64(hi, lo, MaxBps)
	return q
}

// SignedDiff devuelve a - b como int64 con saturación en los extremos.
// Evita el wraparound de restar uint64 cuando b > a.
func SignedDiff(a, b uint64) int64 {
	if a >= b {
		d := a - b
		if d > math.MaxInt64 {
			return math.MaxInt64
		}
		return int64(d)
	}
	d := b - a
	if d > math.MaxInt64 {
		return math.MinInt64
	}
	return -int64(d)
}
