// Package sqrtpricemath computes price movements and token deltas in the
// Q64.96 square-root price space. Rounding always works against the trader.
package sqrtpricemath

import (
	"errors"
	"math/big"
)

const resolution = 96

var (
	// Q96 is 2^96, one in Q64.96.
	Q96 = new(big.Int).Lsh(big.NewInt(1), resolution)

	ErrZeroLiquidity = errors.New("liquidity must be greater than zero")
	ErrZeroSqrtPrice = errors.New("sqrt price must be greater than zero")
	// ErrPriceExhausted is returned when the requested amount would push the
	// price past what the current range's liquidity can provide.
	ErrPriceExhausted = errors.New("amount exhausts range liquidity")

	one = big.NewInt(1)
)

func mulDiv(a, b, c *big.Int) *big.Int {
	p := new(big.Int).Mul(a, b)
	return p.Div(p, c)
}

func mulDivRoundingUp(a, b, c *big.Int) *big.Int {
	p := new(big.Int).Mul(a, b)
	q, r := new(big.Int).QuoRem(p, c, new(big.Int))
	if r.Sign() > 0 {
		q.Add(q, one)
	}
	return q
}

func divRoundingUp(a, b *big.Int) *big.Int {
	q, r := new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() > 0 {
		q.Add(q, one)
	}
	return q
}

// NextSqrtPriceFromInput returns the sqrt price after spending amountIn on
// top of the current price, given the range liquidity. Rounds so the trader
// never gets a better price than exact arithmetic would give.
func NextSqrtPriceFromInput(sqrtPX96, liquidity, amountIn *big.Int, zeroForOne bool) (*big.Int, error) {
	if sqrtPX96.Sign() <= 0 {
		return nil, ErrZeroSqrtPrice
	}
	if liquidity.Sign() <= 0 {
		return nil, ErrZeroLiquidity
	}
	if zeroForOne {
		return nextSqrtPriceFromAmount0RoundingUp(sqrtPX96, liquidity, amountIn, true)
	}
	return nextSqrtPriceFromAmount1RoundingDown(sqrtPX96, liquidity, amountIn, true)
}

// NextSqrtPriceFromOutput returns the sqrt price after withdrawing amountOut,
// given the range liquidity. Errors with ErrPriceExhausted when the range
// cannot source that much output.
func NextSqrtPriceFromOutput(sqrtPX96, liquidity, amountOut *big.Int, zeroForOne bool) (*big.Int, error) {
	if sqrtPX96.Sign() <= 0 {
		return nil, ErrZeroSqrtPrice
	}
	if liquidity.Sign() <= 0 {
		return nil, ErrZeroLiquidity
	}
	if zeroForOne {
		return nextSqrtPriceFromAmount1RoundingDown(sqrtPX96, liquidity, amountOut, false)
	}
	return nextSqrtPriceFromAmount0RoundingUp(sqrtPX96, liquidity, amountOut, false)
}

func nextSqrtPriceFromAmount0RoundingUp(sqrtPX96, liquidity, amount *big.Int, add bool) (*big.Int, error) {
	if amount.Sign() == 0 {
		return new(big.Int).Set(sqrtPX96), nil
	}

	numerator1 := new(big.Int).Lsh(liquidity, resolution)
	product := new(big.Int).Mul(amount, sqrtPX96)

	if add {
		// Prefer the precise formula when amount*sqrtP does not overflow the
		// working precision of the denominator sum.
		if new(big.Int).Div(product, amount).Cmp(sqrtPX96) == 0 {
			denominator := new(big.Int).Add(numerator1, product)
			if denominator.Cmp(numerator1) >= 0 {
				return mulDivRoundingUp(numerator1, sqrtPX96, denominator), nil
			}
		}
		denominator := new(big.Int).Div(numerator1, sqrtPX96)
		denominator.Add(denominator, amount)
		return divRoundingUp(numerator1, denominator), nil
	}

	if new(big.Int).Div(product, amount).Cmp(sqrtPX96) != 0 || numerator1.Cmp(product) <= 0 {
		return nil, ErrPriceExhausted
	}
	denominator := new(big.Int).Sub(numerator1, product)
	return mulDivRoundingUp(numerator1, sqrtPX96, denominator), nil
}

func nextSqrtPriceFromAmount1RoundingDown(sqrtPX96, liquidity, amount *big.Int, add bool) (*big.Int, error) {
	if add {
		quotient := mulDiv(amount, Q96, liquidity)
		return new(big.Int).Add(sqrtPX96, quotient), nil
	}

	quotient := mulDivRoundingUp(amount, Q96, liquidity)
	if sqrtPX96.Cmp(quotient) <= 0 {
		return nil, ErrPriceExhausted
	}
	return new(big.Int).Sub(sqrtPX96, quotient), nil
}

// Amount0Delta returns the token0 amount covered between two sqrt prices at
// the given liquidity: liquidity * (sqrtB - sqrtA) / (sqrtA * sqrtB).
func Amount0Delta(sqrtRatioAX96, sqrtRatioBX96, liquidity *big.Int, roundUp bool) (*big.Int, error) {
	if sqrtRatioAX96.Cmp(sqrtRatioBX96) > 0 {
		sqrtRatioAX96, sqrtRatioBX96 = sqrtRatioBX96, sqrtRatioAX96
	}
	if sqrtRatioAX96.Sign() <= 0 {
		return nil, ErrZeroSqrtPrice
	}

	numerator1 := new(big.Int).Lsh(liquidity, resolution)
	numerator2 := new(big.Int).Sub(sqrtRatioBX96, sqrtRatioAX96)

	if roundUp {
		return divRoundingUp(mulDivRoundingUp(numerator1, numerator2, sqrtRatioBX96), sqrtRatioAX96), nil
	}
	return new(big.Int).Div(mulDiv(numerator1, numerator2, sqrtRatioBX96), sqrtRatioAX96), nil
}

// Amount1Delta returns the token1 amount covered between two sqrt prices at
// the given liquidity: liquidity * (sqrtB - sqrtA).
func Amount1Delta(sqrtRatioAX96, sqrtRatioBX96, liquidity *big.Int, roundUp bool) *big.Int {
	if sqrtRatioAX96.Cmp(sqrtRatioBX96) > 0 {
		sqrtRatioAX96, sqrtRatioBX96 = sqrtRatioBX96, sqrtRatioAX96
	}

	diff := new(big.Int).Sub(sqrtRatioBX96, sqrtRatioAX96)
	if roundUp {
		return mulDivRoundingUp(liquidity, diff, Q96)
	}
	return mulDiv(liquidity, diff, Q96)
}
