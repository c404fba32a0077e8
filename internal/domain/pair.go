package domain

import "github.com/gagliardetto/solana-go"

// VenueKind identifica el tipo de venue donde ejecuta una pata.
type VenueKind int

const (
	VenueBook VenueKind = iota // mercado limit order book (CLOB)
	VenuePool                  // pool AMM de producto constante
)

func (k VenueKind) String() string {
	switch k {
	case VenueBook:
		return "BOOK"
	case VenuePool:
		return "POOL"
	default:
		return "????"
	}
}

// Pair es un par TOKEN/WSOL operable en ambos venues. Base es el mint del
// token, Quote el mint de WSOL. Market y Pool son las cuentas on-chain de
// cada venue; BaseLot son las unidades base del token por lote del book,
// necesario para convertir cantidades entre el book y el pool.
type Pair struct {
	Symbol  string
	Base    solana.PublicKey
	Quote   solana.PublicKey
	Market  solana.PublicKey
	Pool    solana.PublicKey
	BaseLot uint64
}

// LotsToUnits convierte lotes del book a unidades base del token.
func (p Pair) LotsToUnits(lots uint64) uint64 {
	if p.BaseLot == 0 {
		return lots
	}
	return lots * p.BaseLot
}

// UnitsToLots convierte unidades base a lotes del book, con floor.
// El residuo que no completa un lote se pierde para la pata del book.
func (p Pair) UnitsToLots(units uint64) uint64 {
	if p.BaseLot == 0 {
		return units
	}
	return units / p.BaseLot
}
