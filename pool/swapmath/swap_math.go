// Package swapmath computes one swap step: how far the price moves within a
// single tick range for a given remaining amount, and the fee taken.
package swapmath

import (
	"math/big"

	"github.com/whale-guru-dev/uniswap-v3-sdk/pool/sqrtpricemath"
)

var (
	// feeDenominator represents 100% in parts-per-million.
	feeDenominator = big.NewInt(1_000_000)
	one            = big.NewInt(1)
)

// StepResult is the outcome of a single swap step within one tick range.
type StepResult struct {
	// SqrtRatioNextX96 is the price after the step.
	SqrtRatioNextX96 *big.Int
	// AmountIn is the input consumed by the step, excluding the fee.
	AmountIn *big.Int
	// AmountOut is the output produced by the step.
	AmountOut *big.Int
	// FeeAmount is the input taken as fee.
	FeeAmount *big.Int
}

// ComputeSwapStep advances the price from sqrtRatioCurrentX96 toward
// sqrtRatioTargetX96 given the active liquidity and the amount remaining to
// be swapped. A non-negative amountRemaining means exact input; a negative
// one means exact output. feePips is the fee in parts-per-million.
func ComputeSwapStep(
	sqrtRatioCurrentX96, sqrtRatioTargetX96, liquidity, amountRemaining *big.Int,
	feePips uint64,
) (StepResult, error) {
	zeroForOne := sqrtRatioCurrentX96.Cmp(sqrtRatioTargetX96) >= 0
	exactIn := amountRemaining.Sign() >= 0
	fee := new(big.Int).SetUint64(feePips)

	res := StepResult{
		AmountIn:  new(big.Int),
		AmountOut: new(big.Int),
		FeeAmount: new(big.Int),
	}
	var (
		err          error
		remainingAbs *big.Int
	)

	if exactIn {
		remainingLessFee := mulDiv(amountRemaining, new(big.Int).Sub(feeDenominator, fee), feeDenominator)

		if zeroForOne {
			res.AmountIn, err = sqrtpricemath.Amount0Delta(sqrtRatioTargetX96, sqrtRatioCurrentX96, liquidity, true)
		} else {
			res.AmountIn = sqrtpricemath.Amount1Delta(sqrtRatioCurrentX96, sqrtRatioTargetX96, liquidity, true)
		}
		if err != nil {
			return StepResult{}, err
		}

		if remainingLessFee.Cmp(res.AmountIn) >= 0 {
			// Enough input to reach the target price.
			res.SqrtRatioNextX96 = new(big.Int).Set(sqrtRatioTargetX96)
		} else {
			res.SqrtRatioNextX96, err = sqrtpricemath.NextSqrtPriceFromInput(sqrtRatioCurrentX96, liquidity, remainingLessFee, zeroForOne)
			if err != nil {
				return StepResult{}, err
			}
		}
	} else {
		remainingAbs = new(big.Int).Neg(amountRemaining)

		if zeroForOne {
			res.AmountOut = sqrtpricemath.Amount1Delta(sqrtRatioTargetX96, sqrtRatioCurrentX96, liquidity, false)
		} else {
			res.AmountOut, err = sqrtpricemath.Amount0Delta(sqrtRatioCurrentX96, sqrtRatioTargetX96, liquidity, false)
			if err != nil {
				return StepResult{}, err
			}
		}

		if remainingAbs.Cmp(res.AmountOut) >= 0 {
			res.SqrtRatioNextX96 = new(big.Int).Set(sqrtRatioTargetX96)
		} else {
			res.SqrtRatioNextX96, err = sqrtpricemath.NextSqrtPriceFromOutput(sqrtRatioCurrentX96, liquidity, remainingAbs, zeroForOne)
			if err != nil {
				return StepResult{}, err
			}
		}

	}

	max := sqrtRatioTargetX96.Cmp(res.SqrtRatioNextX96) == 0

	if zeroForOne {
		if !(max && exactIn) {
			res.AmountIn, err = sqrtpricemath.Amount0Delta(res.SqrtRatioNextX96, sqrtRatioCurrentX96, liquidity, true)
			if err != nil {
				return StepResult{}, err
			}
		}
		if !(max && !exactIn) {
			res.AmountOut = sqrtpricemath.Amount1Delta(res.SqrtRatioNextX96, sqrtRatioCurrentX96, liquidity, false)
		}
	} else {
		if !(max && exactIn) {
			res.AmountIn = sqrtpricemath.Amount1Delta(sqrtRatioCurrentX96, res.SqrtRatioNextX96, liquidity, true)
		}
		if !(max && !exactIn) {
			res.AmountOut, err = sqrtpricemath.Amount0Delta(sqrtRatioCurrentX96, res.SqrtRatioNextX96, liquidity, false)
			if err != nil {
				return StepResult{}, err
			}
		}
	}

	// An exact-output step must never hand out more than requested; rounding
	// in the recomputation above can overshoot by one.
	if !exactIn && res.AmountOut.Cmp(remainingAbs) > 0 {
		res.AmountOut.Set(remainingAbs)
	}

	if exactIn && res.SqrtRatioNextX96.Cmp(sqrtRatioTargetX96) != 0 {
		// Target not reached: the leftover input is all fee.
		res.FeeAmount = new(big.Int).Sub(amountRemaining, res.AmountIn)
	} else {
		res.FeeAmount = mulDivRoundingUp(res.AmountIn, fee, new(big.Int).Sub(feeDenominator, fee))
	}

	return res, nil
}

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
