package feed

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/gagliardetto/solana-go"

	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/domain"
)

// mapBook convierte el DTO del indexer a domain.OrderBook.
func mapBook(r bookSnapshotResponse) domain.OrderBook {
	return domain.OrderBook{
		Bids: mapBookLevels(r.Bids, false),
		Asks: mapBookLevels(r.Asks, true),
	}
}

// mapBookLevels convierte niveles raw a domain.Order y los ordena.
// ascending=true → menor a mayor (asks), ascending=false → mayor a menor (bids).
// El sort es estable: niveles al mismo precio conservan su orden de llegada.
func mapBookLevels(raw []bookLevelRaw, ascending bool) []domain.Order {
	levels := make([]domain.Order, 0, len(raw))
	for _, r := range raw {
		price, errP := strconv.ParseUint(r.Price, 10, 64)
		size, errS := strconv.ParseUint(r.Size, 10, 64)
		if errP != nil || errS != nil || price == 0 || size == 0 {
			continue
		}
		levels = append(levels, domain.Order{Price: price, Size: size})
	}

	sort.SliceStable(levels, func(i, j int) bool {
		if ascending {
			return levels[i].Price < levels[j].Price
		}
		return levels[i].Price > levels[j].Price
	})

	return levels
}

// mapPool convierte el DTO del indexer a domain.PoolState.
func mapPool(r poolSnapshotResponse) (domain.PoolState, error) {
	address, err := solana.PublicKeyFromBase58(r.Address)
	if err != nil {
		return domain.PoolState{}, fmt.Errorf("parse address %q: %w", r.Address, err)
	}
	baseMint, err := solana.PublicKeyFromBase58(r.BaseMint)
	if err != nil {
		return domain.PoolState{}, fmt.Errorf("parse base_mint %q: %w", r.BaseMint, err)
	}
	quoteMint, err := solana.PublicKeyFromBase58(r.QuoteMint)
	if err != nil {
		return domain.PoolState{}, fmt.Errorf("parse quote_mint %q: %w", r.QuoteMint, err)
	}
	baseReserve, err := strconv.ParseUint(r.BaseReserve, 10, 64)
	if err != nil {
		return domain.PoolState{}, fmt.Errorf("parse base_reserve %q: %w", r.BaseReserve, err)
	}
	quoteReserve, err := strconv.ParseUint(r.QuoteReserve, 10, 64)
	if err != nil {
		return domain.PoolState{}, fmt.Errorf("parse quote_reserve %q: %w", r.QuoteReserve, err)
	}

	return domain.PoolState{
		Address:      address,
		BaseMint:     baseMint,
		QuoteMint:    quoteMint,
		BaseReserve:  baseReserve,
		QuoteReserve: quoteReserve,
		FeeBps:       r.FeeBps,
	}, nil
}
