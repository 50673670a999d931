package pool

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whale-guru-dev/uniswap-v3-sdk/entities"
	"github.com/whale-guru-dev/uniswap-v3-sdk/pool/ticklist"
	"github.com/whale-guru-dev/uniswap-v3-sdk/pool/tickmath"
)

var (
	tokenA = entities.NewToken(1, common.HexToAddress("0x0000000000000000000000000000000000000001"), 18, "AAA")
	tokenB = entities.NewToken(1, common.HexToAddress("0x0000000000000000000000000000000000000002"), 18, "BBB")
	tokenC = entities.NewToken(1, common.HexToAddress("0x0000000000000000000000000000000000000003"), 18, "CCC")
)

// encodePriceSqrt returns sqrt(reserve1/reserve0) in Q64.96.
func encodePriceSqrt(reserve1, reserve0 *big.Int) *big.Int {
	num := new(big.Int).Mul(reserve1, new(big.Int).Lsh(big.NewInt(1), 192))
	ratio := new(big.Int).Div(num, reserve0)
	return new(big.Int).Sqrt(ratio)
}

// fullRangeTicks brackets the whole tick range with liquidity on both ends.
func fullRangeTicks(t *testing.T, liquidity *big.Int) ticklist.TickList {
	t.Helper()
	ticks, err := ticklist.New([]ticklist.Tick{
		{Index: tickmath.MinTick, LiquidityNet: new(big.Int).Set(liquidity), LiquidityGross: new(big.Int).Set(liquidity)},
		{Index: tickmath.MaxTick, LiquidityNet: new(big.Int).Neg(liquidity), LiquidityGross: new(big.Int).Set(liquidity)},
	})
	require.NoError(t, err)
	return ticks
}

// fullRangePool builds a pool whose entire liquidity sits in one range
// spanning every tick, priced off the given reserves.
func fullRangePool(t *testing.T, token0, token1 *entities.Token, reserve0, reserve1 int64, fee uint64) *Pool {
	t.Helper()
	r0, r1 := big.NewInt(reserve0), big.NewInt(reserve1)
	liquidity := new(big.Int).Sqrt(new(big.Int).Mul(r0, r1))

	p, err := New(
		entities.MustCurrencyAmount(token0, r0),
		entities.MustCurrencyAmount(token1, r1),
		fee,
		encodePriceSqrt(r1, r0),
		liquidity,
		fullRangeTicks(t, liquidity),
	)
	require.NoError(t, err)
	return p
}

func TestNewCanonicalOrdering(t *testing.T) {
	// Arguments reversed: token1's amount first.
	liquidity := big.NewInt(1414)
	p, err := New(
		entities.MustCurrencyAmount(tokenB, big.NewInt(2000)),
		entities.MustCurrencyAmount(tokenA, big.NewInt(1000)),
		FeeMedium,
		encodePriceSqrt(big.NewInt(2000), big.NewInt(1000)),
		liquidity,
		fullRangeTicks(t, liquidity),
	)
	require.NoError(t, err)

	assert.True(t, p.Token0().Equal(tokenA))
	assert.True(t, p.Token1().Equal(tokenB))
	assert.Equal(t, int64(1000), p.Reserve0().Raw().Int64())
	assert.Equal(t, int64(2000), p.Reserve1().Raw().Int64())
}

func TestNewValidation(t *testing.T) {
	amountA := entities.MustCurrencyAmount(tokenA, big.NewInt(1000))
	amountB := entities.MustCurrencyAmount(tokenB, big.NewInt(1000))
	ticks := fullRangeTicks(t, big.NewInt(1000))

	t.Run("fee at 100%", func(t *testing.T) {
		_, err := New(amountA, amountB, 1_000_000, encodePriceSqrt(big.NewInt(1), big.NewInt(1)), big.NewInt(1000), ticks)
		assert.ErrorIs(t, err, ErrInvalidFee)
	})

	t.Run("no ticks", func(t *testing.T) {
		_, err := New(amountA, amountB, FeeMedium, encodePriceSqrt(big.NewInt(1), big.NewInt(1)), big.NewInt(1000), ticklist.TickList{})
		assert.ErrorIs(t, err, ticklist.ErrEmptyTickList)
	})

	t.Run("same token", func(t *testing.T) {
		_, err := New(amountA, entities.MustCurrencyAmount(tokenA, big.NewInt(1)), FeeMedium, encodePriceSqrt(big.NewInt(1), big.NewInt(1)), big.NewInt(1000), ticks)
		assert.ErrorIs(t, err, entities.ErrSameToken)
	})
}

func TestInvolvesAndReserveOf(t *testing.T) {
	p := fullRangePool(t, tokenA, tokenB, 1000, 1000, FeeMedium)

	assert.True(t, p.Involves(tokenA))
	assert.True(t, p.Involves(tokenB))
	assert.False(t, p.Involves(tokenC))

	r, err := p.ReserveOf(tokenB)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), r.Raw().Int64())

	_, err = p.ReserveOf(tokenC)
	assert.ErrorIs(t, err, ErrTokenNotInPool)
}

func TestPriceOf(t *testing.T) {
	p := fullRangePool(t, tokenA, tokenB, 1000, 2000, FeeMedium)

	priceA, err := p.PriceOf(tokenA)
	require.NoError(t, err)
	// 2000 token1 per 1000 token0.
	assert.Equal(t, "2", priceA.ToDecimal(4).String())

	priceB, err := p.PriceOf(tokenB)
	require.NoError(t, err)
	assert.Equal(t, "0.5", priceB.ToDecimal(4).String())

	_, err = p.PriceOf(tokenC)
	assert.ErrorIs(t, err, ErrTokenNotInPool)
}

func TestGetOutputAmount(t *testing.T) {
	p := fullRangePool(t, tokenA, tokenB, 1000, 1000, FeeMedium)
	in := entities.MustCurrencyAmount(tokenA, big.NewInt(100))

	out, next, err := p.GetOutputAmount(in)
	require.NoError(t, err)

	assert.True(t, out.Currency().Equal(tokenB))
	// Fee and rounding both cut into the proceeds: strictly less than the
	// feeless constant-product value, but in its neighborhood.
	assert.Less(t, out.Raw().Int64(), int64(100))
	assert.Greater(t, out.Raw().Int64(), int64(85))

	// The snapshot we traded against is untouched; the returned one has
	// shifted reserves.
	assert.Equal(t, int64(1000), p.Reserve0().Raw().Int64())
	assert.Equal(t, int64(1100), next.Reserve0().Raw().Int64())
	assert.Equal(t, 1000-out.Raw().Int64(), next.Reserve1().Raw().Int64())
	assert.True(t, next.SqrtPriceX96().Cmp(p.SqrtPriceX96()) < 0)
}

func TestGetInputAmount(t *testing.T) {
	p := fullRangePool(t, tokenA, tokenB, 1000, 1000, FeeMedium)
	want := entities.MustCurrencyAmount(tokenB, big.NewInt(90))

	in, next, err := p.GetInputAmount(want)
	require.NoError(t, err)

	assert.True(t, in.Currency().Equal(tokenA))
	// Buying 90 out of a balanced 1000/1000 pool costs more than 90 once the
	// fee and price impact are paid.
	assert.Greater(t, in.Raw().Int64(), int64(90))
	assert.Less(t, in.Raw().Int64(), int64(110))
	assert.Equal(t, int64(910), next.Reserve1().Raw().Int64())
}

func TestSwapRoundTripNeverFavorsTrader(t *testing.T) {
	p := fullRangePool(t, tokenA, tokenB, 1_000_000, 1_000_000, FeeMedium)
	in := entities.MustCurrencyAmount(tokenA, big.NewInt(10_000))

	out, _, err := p.GetOutputAmount(in)
	require.NoError(t, err)

	// Asking the original pool for exactly that output must cost at least
	// as much as we nominally paid, less only rounding slack.
	needed, _, err := p.GetInputAmount(out)
	require.NoError(t, err)
	assert.True(t, needed.Raw().Cmp(in.Raw()) <= 0)

	// And swapping the proceeds back can never return more than went in.
	back, _, err := p.GetOutputAmount(out)
	require.NoError(t, err)
	assert.True(t, back.Raw().Cmp(in.Raw()) < 0)
}

func TestSwapErrors(t *testing.T) {
	p := fullRangePool(t, tokenA, tokenB, 1000, 1000, FeeMedium)

	t.Run("zero amount", func(t *testing.T) {
		_, _, err := p.GetOutputAmount(entities.MustCurrencyAmount(tokenA, big.NewInt(0)))
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("foreign token", func(t *testing.T) {
		_, _, err := p.GetOutputAmount(entities.MustCurrencyAmount(tokenC, big.NewInt(10)))
		assert.ErrorIs(t, err, ErrTokenNotInPool)
	})

	t.Run("output exceeds reserve", func(t *testing.T) {
		_, _, err := p.GetInputAmount(entities.MustCurrencyAmount(tokenB, big.NewInt(1000)))
		assert.ErrorIs(t, err, ErrInsufficientLiquidity)
	})

	t.Run("no liquidity", func(t *testing.T) {
		drained, err := New(
			entities.MustCurrencyAmount(tokenA, big.NewInt(1000)),
			entities.MustCurrencyAmount(tokenB, big.NewInt(1000)),
			FeeMedium,
			encodePriceSqrt(big.NewInt(1), big.NewInt(1)),
			big.NewInt(0),
			fullRangeTicks(t, big.NewInt(0)),
		)
		require.NoError(t, err)
		_, _, err = drained.GetOutputAmount(entities.MustCurrencyAmount(tokenA, big.NewInt(10)))
		assert.ErrorIs(t, err, ErrInsufficientLiquidity)
	})

	t.Run("uninitialized price", func(t *testing.T) {
		unpriced, err := New(
			entities.MustCurrencyAmount(tokenA, big.NewInt(1000)),
			entities.MustCurrencyAmount(tokenB, big.NewInt(1000)),
			FeeMedium,
			nil,
			big.NewInt(1000),
			fullRangeTicks(t, big.NewInt(1000)),
		)
		require.NoError(t, err)
		_, _, err = unpriced.GetOutputAmount(entities.MustCurrencyAmount(tokenA, big.NewInt(10)))
		assert.ErrorIs(t, err, ErrInsufficientLiquidity)
	})
}

func TestSwapCrossesInitializedTick(t *testing.T) {
	// Liquidity thins out below tick -1000: a large enough sale of token0
	// crosses the boundary and keeps trading at reduced depth.
	inner := big.NewInt(500_000)
	total := big.NewInt(1_000_000)
	ticks, err := ticklist.New([]ticklist.Tick{
		{Index: tickmath.MinTick, LiquidityNet: new(big.Int).Set(inner), LiquidityGross: new(big.Int).Set(inner)},
		{Index: -1000, LiquidityNet: new(big.Int).Set(inner), LiquidityGross: new(big.Int).Set(inner)},
		{Index: tickmath.MaxTick, LiquidityNet: new(big.Int).Neg(total), LiquidityGross: new(big.Int).Set(total)},
	})
	require.NoError(t, err)

	p, err := New(
		entities.MustCurrencyAmount(tokenA, big.NewInt(1_000_000)),
		entities.MustCurrencyAmount(tokenB, big.NewInt(1_000_000)),
		FeeMedium,
		encodePriceSqrt(big.NewInt(1), big.NewInt(1)),
		total,
		ticks,
	)
	require.NoError(t, err)

	in := entities.MustCurrencyAmount(tokenA, big.NewInt(120_000))
	out, next, err := p.GetOutputAmount(in)
	require.NoError(t, err)

	assert.Greater(t, out.Raw().Int64(), int64(0))
	// The price ended below the -1000 boundary, so the active liquidity
	// dropped to the thinner range.
	assert.Less(t, next.Tick(), int64(-1000))
	assert.Zero(t, next.Liquidity().Cmp(inner))
}

func TestAddressDerivation(t *testing.T) {
	usdc := entities.NewToken(1, common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"), 6, "USDC")
	weth := entities.NewToken(1, common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"), 18, "WETH")

	p, err := New(
		entities.MustCurrencyAmount(usdc, big.NewInt(1)),
		entities.MustCurrencyAmount(weth, big.NewInt(1)),
		FeeLow,
		encodePriceSqrt(big.NewInt(1), big.NewInt(1)),
		big.NewInt(1),
		fullRangeTicks(t, big.NewInt(1)),
	)
	require.NoError(t, err)

	// The mainnet USDC/WETH 0.05% pool.
	assert.Equal(t,
		common.HexToAddress("0x88e6A0c2dDD26FEEb64F039a2c41296FcB3f5640"),
		p.Address(DefaultFactory),
	)

	// Same pair and fee from fresh snapshots derives identically.
	q := fullRangePool(t, usdc, weth, 5000, 5000, FeeLow)
	assert.Equal(t, p.Address(DefaultFactory), q.Address(DefaultFactory))
}
