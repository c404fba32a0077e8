package scanner

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/domain"
	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/ports"
)

// ErrBelowFloor indica que el ciclo existe pero su ganancia neta no llega
// al umbral configurado.
var ErrBelowFloor = errors.New("net profit below configured floor")

// Config contiene los parámetros de escaneo.
type Config struct {
	Probe          uint64 // principal en lamports que se pide al facility
	MinProfit      uint64 // umbral absoluto de ganancia neta en lamports (primario)
	MinProfitBps   uint32 // umbral relativo al probe en bps (secundario, 0 = off)
	SlippageBps    uint32 // ensanche del límite de precio sobre el mejor nivel
	FacilityFeeBps uint32 // fee del flash facility sobre el principal
	TipLamports    uint64 // tip de prioridad por bundle
	SignatureFee   uint64 // fee base de la transacción
	Workers        int    // goroutines para el escaneo paralelo (0 = NumCPU×2)
	FetchTimeout   time.Duration
}

// Scanner evalúa pares contra snapshots de ambos venues y emite
// oportunidades cuya ganancia neta supera el umbral.
type Scanner struct {
	cfg   Config
	books ports.BookProvider
	pools ports.PoolProvider
}

// New crea un Scanner con los providers inyectados.
func New(cfg Config, books ports.BookProvider, pools ports.PoolProvider) *Scanner {
	return &Scanner{cfg: cfg, books: books, pools: pools}
}

// leg1Quote es el resultado de cotizar la primera pata en un venue.
type leg1Quote struct {
	leg   domain.Leg
	units uint64 // unidades base obtenidas
}

// Scan evalúa un par con snapshots ya obtenidos: cotiza la compra del
// probe en ambos venues, elige el que da más base, cotiza la venta en el
// otro y aplica el umbral de ganancia neta. El fallo de un par nunca es
// fatal: el caller decide si sigue con el resto del lote.
func (s *Scanner) Scan(pair domain.Pair, book domain.OrderBook, pool domain.PoolState, probe uint64) (domain.Opportunity, error) {
	if probe == 0 {
		return domain.Opportunity{}, fmt.Errorf("scanner.Scan %s: probe must be positive", pair.Symbol)
	}

	bookBuy, bookErr := s.bookLeg1(pair, book, probe)
	poolBuy, poolErr := s.poolLeg1(pair, pool, probe)
	if poolErr != nil {
		// mint mal configurado: problema del registry, no del mercado
		return domain.Opportunity{}, fmt.Errorf("scanner.Scan %s: quote pool leg: %w", pair.Symbol, poolErr)
	}

	venue, ok := chooseVenue(bookBuy.units, poolBuy.units)
	if !ok {
		if bookErr != nil {
			return domain.Opportunity{}, fmt.Errorf("scanner.Scan %s: leg1: %w", pair.Symbol, bookErr)
		}
		return domain.Opportunity{}, fmt.Errorf("scanner.Scan %s: leg1: %w", pair.Symbol, domain.ErrInsufficientDepth)
	}

	var (
		leg1 = poolBuy
		leg2 domain.Leg
		err  error
	)
	if venue == domain.VenueBook {
		leg1 = bookBuy
		leg2, err = s.poolLeg2(pair, pool, leg1.units)
	} else {
		leg2, err = s.bookLeg2(pair, book, leg1.units)
	}
	if err != nil {
		return domain.Opportunity{}, fmt.Errorf("scanner.Scan %s: leg2: %w", pair.Symbol, err)
	}

	charges := domain.Charges{
		Facility:  domain.BpsOf(probe, s.cfg.FacilityFeeBps),
		Tip:       s.cfg.TipLamports,
		Signature: s.cfg.SignatureFee,
	}

	gross := domain.SignedDiff(leg2.AmountOut, probe)
	net := gross - int64(charges.Total())

	if net <= 0 || net < int64(s.cfg.MinProfit) {
		return domain.Opportunity{}, fmt.Errorf(
			"scanner.Scan %s: net %d below floor %d: %w",
			pair.Symbol, net, s.cfg.MinProfit, ErrBelowFloor,
		)
	}
	if s.cfg.MinProfitBps > 0 {
		if relFloor := domain.BpsOf(probe, s.cfg.MinProfitBps); net < int64(relFloor) {
			return domain.Opportunity{}, fmt.Errorf(
				"scanner.Scan %s: net %d below %d bps of probe: %w",
				pair.Symbol, net, s.cfg.MinProfitBps, ErrBelowFloor,
			)
		}
	}

	return domain.Opportunity{
		ID:          uuid.NewString(),
		Pair:        pair,
		Probe:       probe,
		Leg1:        leg1.leg,
		Leg2:        leg2,
		Charges:     charges,
		GrossProfit: gross,
		NetProfit:   net,
		ScannedAt:   time.Now().UTC(),
	}, nil
}

// bookLeg1 cotiza gastar el probe completo en los asks del book. El probe
// tiene que gastarse entero: un fill parcial dentro del límite cuenta como
// profundidad insuficiente.
func (s *Scanner) bookLeg1(pair domain.Pair, book domain.OrderBook, probe uint64) (leg1Quote, error) {
	best := book.BestAsk()
	if best == 0 {
		return leg1Quote{}, domain.ErrInsufficientDepth
	}
	limit := best + domain.BpsOf(best, s.cfg.SlippageBps)

	fill := book.BuyWithQuote(probe, limit)
	if fill.Bought == 0 || fill.Leftover > 0 {
		return leg1Quote{}, domain.ErrInsufficientDepth
	}

	units := pair.LotsToUnits(fill.Bought)
	return leg1Quote{
		leg: domain.Leg{
			Venue:     domain.VenueBook,
			AmountIn:  fill.Spent,
			AmountOut: units,
		},
		units: units,
	}, nil
}

// poolLeg1 cotiza comprar base con el probe contra la curva del pool.
func (s *Scanner) poolLeg1(pair domain.Pair, pool domain.PoolState, probe uint64) (leg1Quote, error) {
	q, err := pool.Quote(probe, pair.Quote)
	if err != nil {
		return leg1Quote{}, err
	}
	return leg1Quote{
		leg: domain.Leg{
			Venue:     domain.VenuePool,
			AmountIn:  probe,
			AmountOut: q.AmountOut,
			FeePaid:   q.FeePaid,
		},
		units: q.AmountOut,
	}, nil
}

// poolLeg2 cotiza vender las unidades base obtenidas en leg1 contra el pool.
func (s *Scanner) poolLeg2(pair domain.Pair, pool domain.PoolState, units uint64) (domain.Leg, error) {
	q, err := pool.Quote(units, pair.Base)
	if err != nil {
		return domain.Leg{}, err
	}
	if q.AmountOut == 0 {
		return domain.Leg{}, domain.ErrInsufficientDepth
	}
	return domain.Leg{
		Venue:     domain.VenuePool,
		AmountIn:  units,
		AmountOut: q.AmountOut,
		FeePaid:   q.FeePaid,
	}, nil
}

// bookLeg2 cotiza vender las unidades base contra los bids del book. La
// cantidad se convierte a lotes con floor; el residuo que no completa un
// lote no se vende. El book tiene que absorber todos los lotes dentro del
// límite.
func (s *Scanner) bookLeg2(pair domain.Pair, book domain.OrderBook, units uint64) (domain.Leg, error) {
	lots := pair.UnitsToLots(units)
	if lots == 0 {
		return domain.Leg{}, domain.ErrInsufficientDepth
	}

	best := book.BestBid()
	if best == 0 {
		return domain.Leg{}, domain.ErrInsufficientDepth
	}
	limit := best - domain.BpsOf(best, s.cfg.SlippageBps)

	fill, err := book.Match(domain.Sell, lots, limit)
	if err != nil {
		return domain.Leg{}, err
	}
	if fill.Remaining > 0 {
		return domain.Leg{}, domain.ErrInsufficientDepth
	}

	return domain.Leg{
		Venue:     domain.VenueBook,
		AmountIn:  pair.LotsToUnits(lots),
		AmountOut: fill.Quote,
	}, nil
}

// chooseVenue elige el venue de la primera pata: gana el que entrega más
// base por el mismo probe; en empate gana el book. Devuelve false si
// ninguno entrega nada.
func chooseVenue(bookUnits, poolUnits uint64) (domain.VenueKind, bool) {
	if bookUnits == 0 && poolUnits == 0 {
		return domain.VenueBook, false
	}
	if poolUnits > bookUnits {
		return domain.VenuePool, true
	}
	return domain.VenueBook, true
}
