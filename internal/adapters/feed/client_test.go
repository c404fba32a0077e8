package feed_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/adapters/feed"
)

// Direcciones reales de mainnet para que el parseo base58 sea válido.
const (
	raydiumPool = "58oQChx4yWmvK6LfBM2H9GcUb9c4HW7cMc6x64q7ahfk"
	usdcMint    = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	wsolMint    = "So11111111111111111111111111111111111111112"
)

func pk(b byte) solana.PublicKey {
	var k solana.PublicKey
	k[0] = b
	return k
}

func TestFetchBook_MapsAndSortsLevels(t *testing.T) {
	market := pk(0x01)

	// Niveles desordenados, con un nivel inválido (size 0) y uno no numérico.
	fixture := `{
		"market": "` + market.String() + `",
		"slot": 12345,
		"bids": [
			{"price": "98", "size": "10"},
			{"price": "99", "size": "5"},
			{"price": "97", "size": "0"},
			{"price": "x", "size": "3"}
		],
		"asks": [
			{"price": "101", "size": "10"},
			{"price": "100", "size": "5"}
		]
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/books/"+market.String(), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, fixture)
	}))
	defer srv.Close()

	client := feed.NewClient(srv.URL)
	book, err := client.FetchBook(context.Background(), market)

	require.NoError(t, err)
	require.Len(t, book.Bids, 2, "niveles inválidos descartados")
	require.Len(t, book.Asks, 2)

	assert.Equal(t, uint64(99), book.Bids[0].Price, "bids de mayor a menor")
	assert.Equal(t, uint64(98), book.Bids[1].Price)
	assert.Equal(t, uint64(100), book.Asks[0].Price, "asks de menor a mayor")
	assert.Equal(t, uint64(101), book.Asks[1].Price)
}

func TestFetchBook_TieLevelsKeepArrivalOrder(t *testing.T) {
	market := pk(0x02)

	fixture := `{
		"market": "` + market.String() + `",
		"slot": 1,
		"bids": [],
		"asks": [
			{"price": "100", "size": "7"},
			{"price": "100", "size": "3"}
		]
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, fixture)
	}))
	defer srv.Close()

	client := feed.NewClient(srv.URL)
	book, err := client.FetchBook(context.Background(), market)

	require.NoError(t, err)
	require.Len(t, book.Asks, 2)
	assert.Equal(t, uint64(7), book.Asks[0].Size, "mismo precio conserva orden de llegada")
	assert.Equal(t, uint64(3), book.Asks[1].Size)
}

func TestFetchBook_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := feed.NewClient(srv.URL)
	_, err := client.FetchBook(context.Background(), pk(0x03))
	assert.Error(t, err)
}

func TestFetchBook_ClientErrorNoRetry(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := feed.NewClient(srv.URL)
	_, err := client.FetchBook(context.Background(), pk(0x04))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "client error 404")
	assert.Equal(t, int64(1), calls.Load(), "los errores 4xx no se reintentan")
}

func TestFetchPool_Success(t *testing.T) {
	pool := solana.MustPublicKeyFromBase58(raydiumPool)

	fixture := `{
		"address": "` + raydiumPool + `",
		"base_mint": "` + usdcMint + `",
		"quote_mint": "` + wsolMint + `",
		"base_reserve": "2000000",
		"quote_reserve": "1000000",
		"fee_bps": 30,
		"slot": 99887
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/pools/"+raydiumPool, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, fixture)
	}))
	defer srv.Close()

	client := feed.NewClient(srv.URL)
	state, err := client.FetchPool(context.Background(), pool)

	require.NoError(t, err)
	assert.Equal(t, pool, state.Address)
	assert.Equal(t, solana.MustPublicKeyFromBase58(usdcMint), state.BaseMint)
	assert.Equal(t, solana.MustPublicKeyFromBase58(wsolMint), state.QuoteMint)
	assert.Equal(t, uint64(2000000), state.BaseReserve)
	assert.Equal(t, uint64(1000000), state.QuoteReserve)
	assert.Equal(t, uint32(30), state.FeeBps)
}

func TestFetchPool_BadPayload(t *testing.T) {
	fixture := `{
		"address": "not-base58!!",
		"base_mint": "` + usdcMint + `",
		"quote_mint": "` + wsolMint + `",
		"base_reserve": "1",
		"quote_reserve": "1",
		"fee_bps": 30
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, fixture)
	}))
	defer srv.Close()

	client := feed.NewClient(srv.URL)
	_, err := client.FetchPool(context.Background(), pk(0x05))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse address")
}
