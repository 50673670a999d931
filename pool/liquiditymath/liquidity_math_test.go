package liquiditymath

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDelta(t *testing.T) {
	t.Run("adds positive", func(t *testing.T) {
		got, err := AddDelta(big.NewInt(100), big.NewInt(50))
		require.NoError(t, err)
		assert.Equal(t, int64(150), got.Int64())
	})

	t.Run("applies negative", func(t *testing.T) {
		got, err := AddDelta(big.NewInt(100), big.NewInt(-100))
		require.NoError(t, err)
		assert.Zero(t, got.Sign())
	})

	t.Run("underflow", func(t *testing.T) {
		_, err := AddDelta(big.NewInt(100), big.NewInt(-101))
		assert.ErrorIs(t, err, ErrLiquidityUnderflow)
	})

	t.Run("overflow past uint128", func(t *testing.T) {
		max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
		_, err := AddDelta(max, big.NewInt(1))
		assert.ErrorIs(t, err, ErrLiquidityOverflow)
	})

	t.Run("result is a fresh value", func(t *testing.T) {
		x := big.NewInt(10)
		got, err := AddDelta(x, big.NewInt(5))
		require.NoError(t, err)
		got.SetInt64(0)
		assert.Equal(t, int64(10), x.Int64())
	})
}
