package registry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/gagliardetto/solana-go"

	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/domain"
)

// tokenEntry es una entrada raw de tokens.json.
type tokenEntry struct {
	Address string `json:"address"`
	Market  string `json:"market"`
	Pool    string `json:"pool"`
	BaseLot uint64 `json:"base_lot"`
}

// Load lee el universo de pares token/WSOL desde un tokens.json.
//
// Cada entrada necesita el mint del token y las cuentas de ambos venues
// (market del order book y pool del AMM). Las entradas inválidas se saltan
// con un warning; solo falla si el archivo no se puede leer o no queda
// ningún par válido.
func Load(path string) ([]domain.Pair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry.Load: read %s: %w", path, err)
	}

	var raw map[string]tokenEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("registry.Load: parse %s: %w", path, err)
	}

	pairs := make([]domain.Pair, 0, len(raw))
	for symbol, entry := range raw {
		pair, err := mapEntry(symbol, entry)
		if err != nil {
			slog.Warn("skipping token entry", "symbol", symbol, "err", err)
			continue
		}
		pairs = append(pairs, pair)
	}

	if len(pairs) == 0 {
		return nil, fmt.Errorf("registry.Load: no valid pairs in %s", path)
	}

	// Orden determinista para la rotación del scanner.
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Symbol < pairs[j].Symbol })

	slog.Info("token registry loaded",
		"path", path,
		"pairs", len(pairs),
		"skipped", len(raw)-len(pairs),
	)
	return pairs, nil
}

// mapEntry valida una entrada y la convierte a domain.Pair.
func mapEntry(symbol string, e tokenEntry) (domain.Pair, error) {
	base, err := solana.PublicKeyFromBase58(e.Address)
	if err != nil {
		return domain.Pair{}, fmt.Errorf("address %q: %w", e.Address, err)
	}
	market, err := solana.PublicKeyFromBase58(e.Market)
	if err != nil {
		return domain.Pair{}, fmt.Errorf("market %q: %w", e.Market, err)
	}
	pool, err := solana.PublicKeyFromBase58(e.Pool)
	if err != nil {
		return domain.Pair{}, fmt.Errorf("pool %q: %w", e.Pool, err)
	}

	return domain.Pair{
		Symbol:  symbol + "/WSOL",
		Base:    base,
		Quote:   solana.WrappedSol,
		Market:  market,
		Pool:    pool,
		BaseLot: e.BaseLot,
	}, nil
}
