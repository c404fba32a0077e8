package domain

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testBaseMint  = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	testQuoteMint = solana.SolMint
)

func testPool(baseReserve, quoteReserve uint64, feeBps uint32) PoolState {
	return PoolState{
		BaseMint:     testBaseMint,
		QuoteMint:    testQuoteMint,
		BaseReserve:  baseReserve,
		QuoteReserve: quoteReserve,
		FeeBps:       feeBps,
	}
}

func TestPoolQuote_FeeThenCurve(t *testing.T) {
	// fee = floor(1000 × 30 / 10000) = 3, netIn = 997
	// out = floor(20000 × 997 / (10000 + 997)) = 1813
	pool := testPool(20_000, 10_000, 30)

	q, err := pool.Quote(1000, testQuoteMint)
	require.NoError(t, err)

	assert.Equal(t, uint64(3), q.FeePaid)
	assert.Equal(t, uint64(1813), q.AmountOut)
}

func TestPoolQuote_SmallInputFeeFloorsToZero(t *testing.T) {
	// input tan chico que el fee todavía no llega a una unidad:
	// fee = floor(100 × 30 / 10000) = 0, netIn = 100
	// out = floor(2000 × 100 / (1000 + 100)) = 181
	pool := testPool(2000, 1000, 30)

	q, err := pool.Quote(100, testQuoteMint)
	require.NoError(t, err)

	assert.Equal(t, uint64(0), q.FeePaid)
	assert.Equal(t, uint64(181), q.AmountOut)
}

func TestPoolQuote_ZeroFee(t *testing.T) {
	pool := testPool(2000, 1000, 0)

	q, err := pool.Quote(1000, testQuoteMint)
	require.NoError(t, err)

	assert.Equal(t, uint64(0), q.FeePaid)
	assert.Equal(t, uint64(1000), q.AmountOut)
}

func TestPoolQuote_BothDirections(t *testing.T) {
	pool := testPool(2000, 1000, 0)

	// quote → base usa (QuoteReserve, BaseReserve)
	toBase, err := pool.Quote(500, testQuoteMint)
	require.NoError(t, err)
	assert.Equal(t, uint64(666), toBase.AmountOut) // floor(2000×500/1500)

	// base → quote usa (BaseReserve, QuoteReserve)
	toQuote, err := pool.Quote(500, testBaseMint)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), toQuote.AmountOut) // floor(1000×500/2500)
}

func TestPoolQuote_UnknownMint(t *testing.T) {
	pool := testPool(2000, 1000, 30)

	_, err := pool.Quote(1000, solana.TokenProgramID)
	assert.ErrorIs(t, err, ErrUnknownMint)
}

func TestPoolQuote_HigherFeeLowerOutput(t *testing.T) {
	withFee, err := testPool(20_000, 10_000, 30).Quote(1000, testQuoteMint)
	require.NoError(t, err)
	noFee, err := testPool(20_000, 10_000, 0).Quote(1000, testQuoteMint)
	require.NoError(t, err)

	assert.Less(t, withFee.AmountOut, noFee.AmountOut)
}

func TestPoolQuote_DoesNotMutateReserves(t *testing.T) {
	pool := testPool(20_000, 10_000, 30)

	first, err := pool.Quote(1000, testQuoteMint)
	require.NoError(t, err)
	second, err := pool.Quote(1000, testQuoteMint)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, uint64(20_000), pool.BaseReserve)
	assert.Equal(t, uint64(10_000), pool.QuoteReserve)
}

func TestPoolQuote_Edges(t *testing.T) {
	pool := testPool(2000, 1000, 30)

	q, err := pool.Quote(0, testQuoteMint)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), q.AmountOut)

	empty := testPool(0, 1000, 30)
	q, err = empty.Quote(1000, testQuoteMint)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), q.AmountOut)

	// fee del 100%: todo el input se va en fee, no sale nada
	confiscatory := testPool(2000, 1000, 10_000)
	q, err = confiscatory.Quote(5, testQuoteMint)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), q.FeePaid)
	assert.Equal(t, uint64(0), q.AmountOut)
}

func TestPoolQuote_LargeReservesNoOverflow(t *testing.T) {
	// productos intermedios > 64 bits: reservas cercanas al máximo
	pool := testPool(1<<62, 1<<62, 30)

	q, err := pool.Quote(1<<40, testQuoteMint)
	require.NoError(t, err)
	assert.Greater(t, q.AmountOut, uint64(0))
	assert.Less(t, q.AmountOut, uint64(1)<<62)
}
