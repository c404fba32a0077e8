package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Charges agrupa los costes fijos del ciclo que NO van embebidos en las
// patas: el fee del facility sobre el principal, el tip de prioridad y el
// fee base de la transacción. Todo en lamports.
type Charges struct {
	Facility  uint64
	Tip       uint64
	Signature uint64
}

// Total suma todos los costes fijos.
func (c Charges) Total() uint64 {
	return c.Facility + c.Tip + c.Signature
}

// Leg describe una pata del ciclo en un venue concreto. AmountIn y
// AmountOut están en unidades base del mint que entra y sale. FeePaid es
// el fee del venue: para pools ya viene descontado de AmountOut, para el
// book es el coste implícito del spread (informativo, no se resta dos veces).
type Leg struct {
	Venue     VenueKind
	AmountIn  uint64
	AmountOut uint64
	FeePaid   uint64
}

// Opportunity es un ciclo de dos patas sobre un par con ganancia neta
// positiva estimada: pedir Probe al facility, comprar base en Leg1,
// venderla en Leg2 y devolver el principal.
//
//	GrossProfit = Leg2.AmountOut - Probe
//	NetProfit   = GrossProfit - Charges.Total()
type Opportunity struct {
	ID          string
	Pair        Pair
	Probe       uint64 // principal en lamports pedido al facility
	Leg1        Leg    // quote → base
	Leg2        Leg    // base → quote
	Charges     Charges
	GrossProfit int64
	NetProfit   int64
	ScannedAt   time.Time
}

// Route devuelve la dirección del ciclo, ej. "POOL→BOOK".
func (o Opportunity) Route() string {
	return fmt.Sprintf("%s→%s", o.Leg1.Venue, o.Leg2.Venue)
}

// FeesPaid suma todos los costes del ciclo: fees de venue más cargos fijos.
func (o Opportunity) FeesPaid() uint64 {
	return o.Leg1.FeePaid + o.Leg2.FeePaid + o.Charges.Total()
}

// NetProfitSOL devuelve la ganancia neta formateada en SOL.
func (o Opportunity) NetProfitSOL() decimal.Decimal {
	return SignedSOL(o.NetProfit)
}
