package ticklist

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tick(index int64, net int64) Tick {
	return Tick{
		Index:          index,
		LiquidityNet:   big.NewInt(net),
		LiquidityGross: big.NewInt(net),
	}
}

func TestNew(t *testing.T) {
	t.Run("rejects empty", func(t *testing.T) {
		_, err := New(nil)
		assert.ErrorIs(t, err, ErrEmptyTickList)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		_, err := New([]Tick{tick(10, 1), tick(10, -1)})
		assert.ErrorIs(t, err, ErrDuplicateTick)
	})

	t.Run("sorts on construction", func(t *testing.T) {
		l, err := New([]Tick{tick(50, -1), tick(-50, 1), tick(0, 2)})
		require.NoError(t, err)
		ticks := l.Ticks()
		require.Len(t, ticks, 3)
		assert.Equal(t, int64(-50), ticks[0].Index)
		assert.Equal(t, int64(0), ticks[1].Index)
		assert.Equal(t, int64(50), ticks[2].Index)
	})
}

func TestNextInitializedTick(t *testing.T) {
	l, err := New([]Tick{tick(-200, 5), tick(0, 0), tick(100, -5)})
	require.NoError(t, err)

	cases := []struct {
		name  string
		tick  int64
		lte   bool
		want  int64
		found bool
	}{
		{"lte exact hit", 0, true, 0, true},
		{"lte between", 50, true, 0, true},
		{"lte above all", 500, true, 100, true},
		{"lte below all", -201, true, 0, false},
		{"gt between", 0, false, 100, true},
		{"gt below all", -500, false, -200, true},
		{"gt exact is strict", 100, false, 0, false},
		{"gt above all", 200, false, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, found := l.NextInitializedTick(tc.tick, tc.lte)
			assert.Equal(t, tc.found, found)
			if tc.found {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestLiquidityNetAt(t *testing.T) {
	l, err := New([]Tick{tick(-10, 7), tick(10, -7)})
	require.NoError(t, err)

	net, ok := l.LiquidityNetAt(-10)
	require.True(t, ok)
	assert.Equal(t, int64(7), net.Int64())

	_, ok = l.LiquidityNetAt(0)
	assert.False(t, ok)

	// Returned value is a copy.
	net.SetInt64(99)
	again, ok := l.LiquidityNetAt(-10)
	require.True(t, ok)
	assert.Equal(t, int64(7), again.Int64())
}
