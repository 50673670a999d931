package pool

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/whale-guru-dev/uniswap-v3-sdk/entities"
	"github.com/whale-guru-dev/uniswap-v3-sdk/pool/liquiditymath"
	"github.com/whale-guru-dev/uniswap-v3-sdk/pool/swapmath"
	"github.com/whale-guru-dev/uniswap-v3-sdk/pool/tickmath"
)

const maxSwapIterations = 1024

// swapState carries the running simulation state across tick ranges.
type swapState struct {
	amountRemaining  *big.Int // positive for exact input, negative for exact output
	amountCalculated *big.Int
	sqrtPriceX96     *big.Int
	tick             int64
	liquidity        *big.Int
}

// GetOutputAmount simulates swapping inputAmount into the pool and returns
// the resulting output together with the post-trade pool snapshot. The
// receiver is never modified.
//
// The simulation is constant-product within each tick range on the pool's
// virtual reserves (liquidity, sqrt price), with the fee deducted from the
// input before the price moves and net liquidity applied at each crossed
// boundary. A request the tracked liquidity cannot fill reports
// ErrInsufficientLiquidity.
func (p *Pool) GetOutputAmount(inputAmount entities.CurrencyAmount) (entities.CurrencyAmount, *Pool, error) {
	inToken := inputAmount.Currency().Wrapped()
	if !p.Involves(inToken) {
		return entities.CurrencyAmount{}, nil, fmt.Errorf("%w: %s", ErrTokenNotInPool, inToken)
	}
	if inputAmount.Sign() <= 0 {
		return entities.CurrencyAmount{}, nil, ErrInvalidAmount
	}

	zeroForOne := inToken.Equal(p.token0)
	outToken := p.token1
	if !zeroForOne {
		outToken = p.token0
	}

	if p.liquidity.Sign() == 0 || p.sqrtPriceX96.Sign() == 0 {
		return entities.CurrencyAmount{}, nil, ErrInsufficientLiquidity
	}

	state, err := p.swap(inputAmount.Raw(), zeroForOne)
	if err != nil {
		return entities.CurrencyAmount{}, nil, err
	}
	if state.amountRemaining.Sign() != 0 {
		// Ran off the tracked ticks before consuming the whole input.
		return entities.CurrencyAmount{}, nil, ErrInsufficientLiquidity
	}

	amountOut := state.amountCalculated
	outReserve, _ := p.ReserveOf(outToken)
	if amountOut.Sign() == 0 || amountOut.Cmp(outReserve.Raw()) > 0 {
		return entities.CurrencyAmount{}, nil, ErrInsufficientLiquidity
	}

	output, err := entities.NewCurrencyAmount(outToken, amountOut)
	if err != nil {
		return entities.CurrencyAmount{}, nil, err
	}

	next, err := p.after(state, inToken, inputAmount.Raw(), amountOut)
	if err != nil {
		return entities.CurrencyAmount{}, nil, err
	}
	return output, next, nil
}

// GetInputAmount simulates backward: the input required to withdraw
// outputAmount from the pool, with the post-trade snapshot. Same failure
// contract as GetOutputAmount.
func (p *Pool) GetInputAmount(outputAmount entities.CurrencyAmount) (entities.CurrencyAmount, *Pool, error) {
	outToken := outputAmount.Currency().Wrapped()
	if !p.Involves(outToken) {
		return entities.CurrencyAmount{}, nil, fmt.Errorf("%w: %s", ErrTokenNotInPool, outToken)
	}
	if outputAmount.Sign() <= 0 {
		return entities.CurrencyAmount{}, nil, ErrInvalidAmount
	}

	zeroForOne := outToken.Equal(p.token1)
	inToken := p.token0
	if !zeroForOne {
		inToken = p.token1
	}

	outReserve, _ := p.ReserveOf(outToken)
	if p.liquidity.Sign() == 0 || p.sqrtPriceX96.Sign() == 0 ||
		outputAmount.Raw().Cmp(outReserve.Raw()) >= 0 {
		return entities.CurrencyAmount{}, nil, ErrInsufficientLiquidity
	}

	state, err := p.swap(new(big.Int).Neg(outputAmount.Raw()), zeroForOne)
	if err != nil {
		return entities.CurrencyAmount{}, nil, err
	}
	if state.amountRemaining.Sign() != 0 {
		return entities.CurrencyAmount{}, nil, ErrInsufficientLiquidity
	}

	amountIn := state.amountCalculated
	input, err := entities.NewCurrencyAmount(inToken, amountIn)
	if err != nil {
		return entities.CurrencyAmount{}, nil, err
	}

	next, err := p.after(state, inToken, amountIn, outputAmount.Raw())
	if err != nil {
		return entities.CurrencyAmount{}, nil, err
	}
	return input, next, nil
}

// swap walks the price across tick ranges until the specified amount is
// settled or the tracked liquidity runs out. A positive amountSpecified
// fixes the input, a negative one the output. Math failures mean the price
// cannot move far enough and surface as ErrInsufficientLiquidity.
func (p *Pool) swap(amountSpecified *big.Int, zeroForOne bool) (swapState, error) {
	var limit *big.Int
	if zeroForOne {
		limit = new(big.Int).Add(tickmath.MinSqrtRatio, big.NewInt(1))
	} else {
		limit = new(big.Int).Sub(tickmath.MaxSqrtRatio, big.NewInt(1))
	}

	exactInput := amountSpecified.Sign() > 0
	state := swapState{
		amountRemaining:  new(big.Int).Set(amountSpecified),
		amountCalculated: new(big.Int),
		sqrtPriceX96:     new(big.Int).Set(p.sqrtPriceX96),
		tick:             p.tick,
		liquidity:        new(big.Int).Set(p.liquidity),
	}

	// Each iteration either settles part of the amount or crosses a tick;
	// the cap only trips on degenerate dust-liquidity pools, which then
	// read as insufficient liquidity.
	for iter := 0; state.amountRemaining.Sign() != 0 && state.sqrtPriceX96.Cmp(limit) != 0; iter++ {
		if iter >= maxSwapIterations {
			break
		}
		sqrtPriceStart := new(big.Int).Set(state.sqrtPriceX96)

		tickNext, ok := p.ticks.NextInitializedTick(state.tick, zeroForOne)
		if !ok {
			// Price moved outside every tracked boundary.
			break
		}
		if tickNext < tickmath.MinTick {
			tickNext = tickmath.MinTick
		} else if tickNext > tickmath.MaxTick {
			tickNext = tickmath.MaxTick
		}

		sqrtPriceNext, err := tickmath.SqrtRatioAtTick(tickNext)
		if err != nil {
			return swapState{}, fmt.Errorf("%w: %s", ErrInsufficientLiquidity, err)
		}

		target := sqrtPriceNext
		if (zeroForOne && sqrtPriceNext.Cmp(limit) < 0) || (!zeroForOne && sqrtPriceNext.Cmp(limit) > 0) {
			target = limit
		}

		step, err := swapmath.ComputeSwapStep(state.sqrtPriceX96, target, state.liquidity, state.amountRemaining, p.fee)
		if err != nil {
			// The current range cannot move the price far enough.
			break
		}
		state.sqrtPriceX96 = step.SqrtRatioNextX96

		if exactInput {
			spent := new(big.Int).Add(step.AmountIn, step.FeeAmount)
			state.amountRemaining.Sub(state.amountRemaining, spent)
			state.amountCalculated.Add(state.amountCalculated, step.AmountOut)
		} else {
			state.amountRemaining.Add(state.amountRemaining, step.AmountOut)
			state.amountCalculated.Add(state.amountCalculated, new(big.Int).Add(step.AmountIn, step.FeeAmount))
		}

		if state.sqrtPriceX96.Cmp(sqrtPriceNext) == 0 {
			// Crossed an initialized boundary: shift the active liquidity.
			if liquidityNet, initialized := p.ticks.LiquidityNetAt(tickNext); initialized {
				if zeroForOne {
					liquidityNet = new(big.Int).Neg(liquidityNet)
				}
				state.liquidity, err = liquiditymath.AddDelta(state.liquidity, liquidityNet)
				if err != nil {
					if errors.Is(err, liquiditymath.ErrLiquidityUnderflow) {
						break
					}
					return swapState{}, err
				}
			}
			if zeroForOne {
				state.tick = tickNext - 1
			} else {
				state.tick = tickNext
			}
		} else if state.sqrtPriceX96.Cmp(sqrtPriceStart) != 0 {
			state.tick, err = tickmath.TickAtSqrtRatio(state.sqrtPriceX96)
			if err != nil {
				return swapState{}, fmt.Errorf("%w: %s", ErrInsufficientLiquidity, err)
			}
		}
	}

	return state, nil
}

// after builds the post-trade snapshot: new price marker, tick and
// liquidity from the simulation, reserves shifted by the traded amounts.
func (p *Pool) after(state swapState, inToken *entities.Token, amountIn, amountOut *big.Int) (*Pool, error) {
	inIsToken0 := inToken.Equal(p.token0)

	reserveIn, reserveOut := p.reserve0, p.reserve1
	if !inIsToken0 {
		reserveIn, reserveOut = p.reserve1, p.reserve0
	}

	inAmount, err := entities.NewCurrencyAmount(reserveIn.Currency(), amountIn)
	if err != nil {
		return nil, err
	}
	outAmount, err := entities.NewCurrencyAmount(reserveOut.Currency(), amountOut)
	if err != nil {
		return nil, err
	}
	newReserveIn, err := reserveIn.Add(inAmount)
	if err != nil {
		return nil, err
	}
	newReserveOut, err := reserveOut.Sub(outAmount)
	if err != nil {
		return nil, err
	}

	next := &Pool{
		token0:       p.token0,
		token1:       p.token1,
		fee:          p.fee,
		sqrtPriceX96: state.sqrtPriceX96,
		tick:         state.tick,
		liquidity:    state.liquidity,
		ticks:        p.ticks,
	}
	if inIsToken0 {
		next.reserve0, next.reserve1 = newReserveIn, newReserveOut
	} else {
		next.reserve0, next.reserve1 = newReserveOut, newReserveIn
	}
	return next, nil
}
