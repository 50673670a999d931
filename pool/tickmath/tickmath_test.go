package tickmath

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to create a big.Int from a string for tests.
func fromString(s string) *big.Int {
	n, _ := new(big.Int).SetString(s, 10)
	return n
}

// encodePriceSqrt returns sqrt(reserve1/reserve0) in Q64.96.
func encodePriceSqrt(reserve1, reserve0 *big.Int) *big.Int {
	num := new(big.Int).Mul(reserve1, new(big.Int).Lsh(big.NewInt(1), 192))
	ratio := new(big.Int).Div(num, reserve0)
	return new(big.Int).Sqrt(ratio)
}

func TestSqrtRatioAtTick(t *testing.T) {
	t.Run("throws for too low", func(t *testing.T) {
		_, err := SqrtRatioAtTick(MinTick - 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTickOutOfRange)
	})

	t.Run("throws for too high", func(t *testing.T) {
		_, err := SqrtRatioAtTick(MaxTick + 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTickOutOfRange)
	})

	t.Run("min tick", func(t *testing.T) {
		sqrtP, err := SqrtRatioAtTick(MinTick)
		require.NoError(t, err)
		assert.Zero(t, fromString("4295128739").Cmp(sqrtP))
	})

	t.Run("max tick", func(t *testing.T) {
		sqrtP, err := SqrtRatioAtTick(MaxTick)
		require.NoError(t, err)
		assert.Zero(t, fromString("1461446703485210103287273052203988822378723970342").Cmp(sqrtP))
	})

	t.Run("tick zero is one", func(t *testing.T) {
		sqrtP, err := SqrtRatioAtTick(0)
		require.NoError(t, err)
		assert.Zero(t, new(big.Int).Lsh(big.NewInt(1), 96).Cmp(sqrtP))
	})
}

func TestTickAtSqrtRatio(t *testing.T) {
	t.Run("throws for too low", func(t *testing.T) {
		_, err := TickAtSqrtRatio(new(big.Int).Sub(MinSqrtRatio, big.NewInt(1)))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSqrtPriceOutOfRange)
	})

	t.Run("throws for too high", func(t *testing.T) {
		_, err := TickAtSqrtRatio(MaxSqrtRatio)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSqrtPriceOutOfRange)
	})

	t.Run("ratio of min tick", func(t *testing.T) {
		tick, err := TickAtSqrtRatio(MinSqrtRatio)
		require.NoError(t, err)
		assert.Equal(t, MinTick, tick)
	})

	t.Run("ratio closest to max tick", func(t *testing.T) {
		tick, err := TickAtSqrtRatio(new(big.Int).Sub(MaxSqrtRatio, big.NewInt(1)))
		require.NoError(t, err)
		assert.Equal(t, MaxTick-1, tick)
	})

	ratios := []struct {
		name  string
		ratio *big.Int
	}{
		{"MinSqrtRatio", MinSqrtRatio},
		{"1e12:1", encodePriceSqrt(new(big.Int).Exp(big.NewInt(10), big.NewInt(12), nil), big.NewInt(1))},
		{"1e6:1", encodePriceSqrt(new(big.Int).Exp(big.NewInt(10), big.NewInt(6), nil), big.NewInt(1))},
		{"1:64", encodePriceSqrt(big.NewInt(1), big.NewInt(64))},
		{"1:8", encodePriceSqrt(big.NewInt(1), big.NewInt(8))},
		{"1:2", encodePriceSqrt(big.NewInt(1), big.NewInt(2))},
		{"1:1", encodePriceSqrt(big.NewInt(1), big.NewInt(1))},
		{"2:1", encodePriceSqrt(big.NewInt(2), big.NewInt(1))},
		{"8:1", encodePriceSqrt(big.NewInt(8), big.NewInt(1))},
		{"64:1", encodePriceSqrt(big.NewInt(64), big.NewInt(1))},
		{"1:1e6", encodePriceSqrt(big.NewInt(1), new(big.Int).Exp(big.NewInt(10), big.NewInt(6), nil))},
		{"1:1e12", encodePriceSqrt(big.NewInt(1), new(big.Int).Exp(big.NewInt(10), big.NewInt(12), nil))},
		{"MaxSqrtRatio-1", new(big.Int).Sub(MaxSqrtRatio, big.NewInt(1))},
	}

	for _, tc := range ratios {
		t.Run(tc.name, func(t *testing.T) {
			tick, err := TickAtSqrtRatio(tc.ratio)
			require.NoError(t, err)
			ratioOfTick, err := SqrtRatioAtTick(tick)
			require.NoError(t, err)
			ratioOfTickPlusOne, err := SqrtRatioAtTick(tick + 1)
			require.NoError(t, err)

			// Invariant: ratioOfTick <= ratio < ratioOfTickPlusOne
			assert.True(t, tc.ratio.Cmp(ratioOfTick) >= 0)
			assert.True(t, tc.ratio.Cmp(ratioOfTickPlusOne) < 0)
		})
	}
}

// TestInverseFunctions checks that TickAtSqrtRatio inverts SqrtRatioAtTick.
func TestInverseFunctions(t *testing.T) {
	for i := 0; i < 1000; i++ {
		tickRange := big.NewInt(MaxTick - MinTick)
		randomOffset, _ := rand.Int(rand.Reader, tickRange)
		tick := MinTick + randomOffset.Int64()

		sqrtP, err := SqrtRatioAtTick(tick)
		require.NoError(t, err)

		tickCalculated, err := TickAtSqrtRatio(sqrtP)
		require.NoError(t, err)

		assert.Equal(t, tick, tickCalculated, "tick %d -> sqrtP %s -> tick %d", tick, sqrtP.String(), tickCalculated)
	}
}
