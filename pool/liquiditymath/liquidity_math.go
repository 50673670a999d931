// Package liquiditymath applies signed liquidity deltas to a pool's active
// liquidity, guarding the uint128 range the on-chain representation uses.
package liquiditymath

import (
	"errors"
	"math/big"
)

var (
	maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

	ErrLiquidityOverflow  = errors.New("liquidity overflow")
	ErrLiquidityUnderflow = errors.New("liquidity underflow")
)

// AddDelta returns x + y where x is unsigned liquidity and y a signed delta.
func AddDelta(x, y *big.Int) (*big.Int, error) {
	sum := new(big.Int).Add(x, y)
	if sum.Sign() < 0 {
		return nil, ErrLiquidityUnderflow
	}
	if sum.Cmp(maxUint128) > 0 {
		return nil, ErrLiquidityOverflow
	}
	return sum, nil
}
