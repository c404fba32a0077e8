package domain

import (
	"errors"
	"math/bits"

	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientDepth indica que el book no puede absorber la cantidad
	// pedida dentro del límite de precio.
	ErrInsufficientDepth = errors.New("insufficient book depth within limit")

	// ErrAmountOverflow indica que la suma quote del fill no cabe en uint64.
	ErrAmountOverflow = errors.New("quote amount overflows uint64")
)

// Side es el lado taker de una orden contra el book.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// Order es un nivel de precio del book. Price son unidades quote (lamports)
// por lote base; Size son lotes base. Todo entero, nunca floats.
type Order struct {
	Price uint64
	Size  uint64
}

// OrderBook es un snapshot inmutable de dos lados de un mercado CLOB.
// Bids ordenados de mayor a menor precio, asks de menor a mayor.
// Niveles con el mismo precio conservan el orden de llegada del snapshot.
type OrderBook struct {
	Bids []Order
	Asks []Order
}

// BestBid devuelve el mejor precio de compra. 0 si no hay bids.
func (b OrderBook) BestBid() uint64 {
	if len(b.Bids) == 0 {
		return 0
	}
	return b.Bids[0].Price
}

// BestAsk devuelve el mejor precio de venta. 0 si no hay asks.
func (b OrderBook) BestAsk() uint64 {
	if len(b.Asks) == 0 {
		return 0
	}
	return b.Asks[0].Price
}

// Fill resume el cruce de una orden taker contra el snapshot.
type Fill struct {
	AvgPrice  decimal.Decimal // quote por lote, cero si no se ejecutó nada
	Filled    uint64          // lotes base ejecutados
	Quote     uint64          // unidades quote intercambiadas en total
	Remaining uint64          // lotes base que no se pudieron ejecutar
}

// BudgetFill resume una compra limitada por presupuesto quote en vez de tamaño.
type BudgetFill struct {
	AvgPrice decimal.Decimal // quote por lote, cero si no se ejecutó nada
	Bought   uint64          // lotes base comprados
	Spent    uint64          // unidades quote gastadas
	Leftover uint64          // presupuesto quote sin gastar
}

// Match cruza una orden taker de wantedSize lotes contra el snapshot sin
// mutarlo. Buy consume asks mientras price ≤ limit; Sell consume bids
// mientras price ≥ limit. Cada nivel aporta min(size, restante). La suma
// quote se acumula en enteros; el precio medio es la única división y se
// hace en decimal. Remaining > 0 no es un error: el caller decide si la
// profundidad parcial le sirve.
func (b OrderBook) Match(side Side, wantedSize, limitPrice uint64) (Fill, error) {
	fill := Fill{Remaining: wantedSize}
	if wantedSize == 0 {
		return fill, nil
	}

	levels := b.Asks
	if side == Sell {
		levels = b.Bids
	}

	var quote uint64
	for _, lvl := range levels {
		if fill.Remaining == 0 {
			break
		}
		if side == Buy && lvl.Price > limitPrice {
			break
		}
		if side == Sell && lvl.Price < limitPrice {
			break
		}
		take := lvl.Size
		if take > fill.Remaining {
			take = fill.Remaining
		}
		if take == 0 {
			continue
		}

		hi, lo := bits.Mul64(lvl.Price, take)
		if hi != 0 {
			return Fill{Remaining: wantedSize}, ErrAmountOverflow
		}
		var carry uint64
		quote, carry = bits.Add64(quote, lo, 0)
		if carry != 0 {
			return Fill{Remaining: wantedSize}, ErrAmountOverflow
		}

		fill.Filled += take
		fill.Remaining -= take
	}

	fill.Quote = quote
	if fill.Filled > 0 {
		fill.AvgPrice = Dec(quote).Div(Dec(fill.Filled))
	}
	return fill, nil
}

// BuyWithQuote compra lotes base gastando hasta budget unidades quote,
// recorriendo los asks mientras price ≤ limit. El último nivel puede
// llenarse parcial: lotes = floor(presupuesto restante / precio). Quote
// sobrante por redondeo queda en Leftover. Nunca desborda: lo gastado
// está acotado por el presupuesto.
func (b OrderBook) BuyWithQuote(budget, limitPrice uint64) BudgetFill {
	fill := BudgetFill{Leftover: budget}
	if budget == 0 {
		return fill
	}

	for _, lvl := range b.Asks {
		if fill.Leftover == 0 {
			break
		}
		if lvl.Price > limitPrice {
			break
		}
		if lvl.Price == 0 || lvl.Size == 0 {
			continue
		}

		hi, levelCost := bits.Mul64(lvl.Price, lvl.Size)
		take := lvl.Size
		cost := levelCost
		if hi != 0 || levelCost > fill.Leftover {
			// Fill parcial de este nivel
			take = fill.Leftover / lvl.Price
			if take == 0 {
				break
			}
			cost = take * lvl.Price
		}

		fill.Bought += take
		fill.Spent += cost
		fill.Leftover -= cost
	}

	if fill.Bought > 0 {
		fill.AvgPrice = Dec(fill.Spent).Div(Dec(fill.Bought))
	}
	return fill
}
