// Package tickmath converts between tick indices and Q64.96 square-root
// prices. A tick i corresponds to a price of 1.0001^i.
package tickmath

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"
)

const (
	// MinTick is the lowest tick that maps to a representable sqrt price.
	MinTick = int64(-887272)
	// MaxTick is the highest tick that maps to a representable sqrt price.
	MaxTick = int64(887272)
)

var (
	// MinSqrtRatio is the sqrt price at MinTick.
	MinSqrtRatio = big.NewInt(4295128739)
	// MaxSqrtRatio is the sqrt price at MaxTick.
	MaxSqrtRatio, _ = new(big.Int).SetString("1461446703485210103287273052203988822378723970342", 10)

	ErrTickOutOfRange      = errors.New("tick out of range")
	ErrSqrtPriceOutOfRange = errors.New("sqrt price out of range")

	one        = uint256.NewInt(1)
	maxUint256 = uint256.MustFromBig(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)))

	// Pre-parsed UQ128.128 multipliers: sqrt(1.0001^(2^k)) for each bit of
	// the tick, plus the identity and the 32-bit rounding mask.
	sqrtMultipliers = [22]*uint256.Int{
		mustHex("0xfffcb933bd6fad37aa2d162d1a594001"),  // 2^0
		mustHex("0x100000000000000000000000000000000"), // identity
		mustHex("0xfff97272373d413259a46990580e213a"),  // 2^1
		mustHex("0xfff2e50f5f656932ef12357cf3c7fdcc"),  // 2^2
		mustHex("0xffe5caca7e10e4e61c3624eaa0941cd0"),  // 2^3
		mustHex("0xffcb9843d60f6159c9db58835c926644"),  // 2^4
		mustHex("0xff973b41fa98c081472e6896dfb254c0"),  // 2^5
		mustHex("0xff2ea16466c96a3843ec78b326b52861"),  // 2^6
		mustHex("0xfe5dee046a99a2a811c461f1969c3053"),  // 2^7
		mustHex("0xfcbe86c7900a88aedcffc83b479aa3a4"),  // 2^8
		mustHex("0xf987a7253ac413176f2b074cf7815e54"),  // 2^9
		mustHex("0xf3392b0822b70005940c7a398e4b70f3"),  // 2^10
		mustHex("0xe7159475a2c29b7443b29c7fa6e889d9"),  // 2^11
		mustHex("0xd097f3bdfd2022b8845ad8f792aa5825"),  // 2^12
		mustHex("0xa9f746462d870fdf8a65dc1f90e061e5"),  // 2^13
		mustHex("0x70d869a156d2a1b890bb3df62baf32f7"),  // 2^14
		mustHex("0x31be135f97d08fd981231505542fcfa6"),  // 2^15
		mustHex("0x9aa508b5b7a84e1c677de54f3e99bc9"),   // 2^16
		mustHex("0x5d6af8dedb81196699c329225ee604"),    // 2^17
		mustHex("0x2216e584f5fa1ea926041bedfe98"),      // 2^18
		mustHex("0x48a170391f7dc42444e8fa2"),           // 2^19
		mustHex("0xffffffff"),                          // rounding mask
	}
)

func mustHex(s string) *uint256.Int {
	v, err := uint256.FromHex(s)
	if err != nil {
		panic(err)
	}
	return v
}

// SqrtRatioAtTick returns sqrt(1.0001^tick) * 2^96.
func SqrtRatioAtTick(tick int64) (*big.Int, error) {
	if tick < MinTick || tick > MaxTick {
		return nil, ErrTickOutOfRange
	}

	absTick := tick
	if absTick < 0 {
		absTick = -absTick
	}

	ratio := new(uint256.Int)
	if absTick&1 != 0 {
		ratio.Set(sqrtMultipliers[0])
	} else {
		ratio.Set(sqrtMultipliers[1])
	}
	for k := 2; k < 21; k++ {
		if absTick&(1<<(k-1)) != 0 {
			ratio.Mul(ratio, sqrtMultipliers[k]).Rsh(ratio, 128)
		}
	}

	// Positive ticks are the reciprocal of the negative-tick product.
	if tick > 0 {
		ratio.Div(maxUint256, ratio)
	}

	// Narrow UQ128.128 to Q64.96, rounding up.
	rem := new(uint256.Int).And(ratio, sqrtMultipliers[21])
	ratio.Rsh(ratio, 32)
	if rem.Sign() > 0 {
		ratio.Add(ratio, one)
	}

	return ratio.ToBig(), nil
}

// TickAtSqrtRatio returns the largest tick whose sqrt price is at most
// sqrtPriceX96, by binary search over the valid tick range.
func TickAtSqrtRatio(sqrtPriceX96 *big.Int) (int64, error) {
	if sqrtPriceX96.Cmp(MinSqrtRatio) < 0 || sqrtPriceX96.Cmp(MaxSqrtRatio) >= 0 {
		return 0, ErrSqrtPriceOutOfRange
	}

	low, high := MinTick, MaxTick
	var tick int64
	for low <= high {
		mid := (low + high) / 2
		ratio, err := SqrtRatioAtTick(mid)
		if err != nil {
			return 0, err
		}
		if ratio.Cmp(sqrtPriceX96) <= 0 {
			tick = mid
			low = mid + 1
		} else {
			high = mid - 1
		}
	}
	return tick, nil
}
