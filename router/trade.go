package router

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/whale-guru-dev/uniswap-v3-sdk/entities"
)

// TradeType discriminates which side of a trade is fixed.
type TradeType int

const (
	// ExactInput fixes the amount spent; the output is simulated.
	ExactInput TradeType = iota
	// ExactOutput fixes the amount received; the input is simulated.
	ExactOutput
)

func (t TradeType) String() string {
	switch t {
	case ExactInput:
		return "exact_input"
	case ExactOutput:
		return "exact_output"
	default:
		return fmt.Sprintf("trade_type(%d)", int(t))
	}
}

var (
	// ErrInvalidTradeType is returned for a trade type outside the known set.
	ErrInvalidTradeType = errors.New("invalid trade type")
	// ErrNegativeSlippage is returned when a slippage tolerance is negative.
	ErrNegativeSlippage = errors.New("slippage tolerance must be non-negative")
)

// Trade is the valuation of a route for a specific amount: both side amounts
// after simulating every hop, plus slippage-bounded worst cases. Immutable.
type Trade struct {
	route        *Route
	tradeType    TradeType
	inputAmount  entities.CurrencyAmount
	outputAmount entities.CurrencyAmount
}

// NewTrade simulates amount through every hop of route. For ExactInput the
// amount is the spend at the route's head and the pools are walked forward;
// for ExactOutput it is the target at the route's tail and the pools are
// walked backward. Simulation uses each pool's current snapshot; pools are
// not mutated.
func NewTrade(route *Route, amount entities.CurrencyAmount, tradeType TradeType) (*Trade, error) {
	if route == nil {
		return nil, ErrEmptyRoute
	}

	t := &Trade{route: route, tradeType: tradeType}
	pools := route.pools

	switch tradeType {
	case ExactInput:
		if !amount.Currency().Wrapped().Equal(route.input.Wrapped()) {
			return nil, fmt.Errorf("%w: trade amount is %s, route starts at %s",
				entities.ErrCurrencyMismatch, amount.Currency().Symbol(), route.input.Symbol())
		}
		running := amount
		for _, pl := range pools {
			out, _, err := pl.GetOutputAmount(running)
			if err != nil {
				return nil, err
			}
			running = out
		}
		in, err := entities.NewCurrencyAmount(route.input, amount.Raw())
		if err != nil {
			return nil, err
		}
		out, err := entities.NewCurrencyAmount(route.output, running.Raw())
		if err != nil {
			return nil, err
		}
		t.inputAmount, t.outputAmount = in, out

	case ExactOutput:
		if !amount.Currency().Wrapped().Equal(route.output.Wrapped()) {
			return nil, fmt.Errorf("%w: trade amount is %s, route ends at %s",
				entities.ErrCurrencyMismatch, amount.Currency().Symbol(), route.output.Symbol())
		}
		running := amount
		for i := len(pools) - 1; i >= 0; i-- {
			in, _, err := pools[i].GetInputAmount(running)
			if err != nil {
				return nil, err
			}
			running = in
		}
		in, err := entities.NewCurrencyAmount(route.input, running.Raw())
		if err != nil {
			return nil, err
		}
		out, err := entities.NewCurrencyAmount(route.output, amount.Raw())
		if err != nil {
			return nil, err
		}
		t.inputAmount, t.outputAmount = in, out

	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidTradeType, int(tradeType))
	}

	return t, nil
}

// Route returns the route this trade was valued over.
func (t *Trade) Route() *Route { return t.route }

// Type returns which side of the trade is fixed.
func (t *Trade) Type() TradeType { return t.tradeType }

// InputAmount returns the simulated or fixed spend, denominated in the
// route's input currency.
func (t *Trade) InputAmount() entities.CurrencyAmount { return t.inputAmount }

// OutputAmount returns the simulated or fixed proceeds, denominated in the
// route's output currency.
func (t *Trade) OutputAmount() entities.CurrencyAmount { return t.outputAmount }

// ExecutionPrice returns the realized output-per-input price of the trade.
func (t *Trade) ExecutionPrice() (entities.Price, error) {
	return entities.NewPrice(t.inputAmount, t.outputAmount)
}

// MaximumAmountIn bounds the spend under the given slippage tolerance. For
// ExactInput trades the spend is fixed and returned unchanged. Otherwise the
// simulated input is scaled by (1 + tolerance), rounding up so the bound is
// never optimistic.
func (t *Trade) MaximumAmountIn(tolerance entities.Percent) (entities.CurrencyAmount, error) {
	if tolerance.Sign() < 0 {
		return entities.CurrencyAmount{}, ErrNegativeSlippage
	}
	if t.tradeType == ExactInput {
		return t.inputAmount, nil
	}
	num, den := normalizedTolerance(tolerance)
	// ceil(raw * (den + num) / den)
	scaled := new(big.Int).Add(den, num)
	scaled.Mul(scaled, t.inputAmount.Raw())
	q, r := new(big.Int).QuoRem(scaled, den, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return entities.NewCurrencyAmount(t.inputAmount.Currency(), q)
}

// MinimumAmountOut bounds the proceeds under the given slippage tolerance.
// For ExactOutput trades the proceeds are fixed and returned unchanged.
// Otherwise the simulated output is scaled by 1/(1 + tolerance), rounding
// down so the bound is never optimistic.
func (t *Trade) MinimumAmountOut(tolerance entities.Percent) (entities.CurrencyAmount, error) {
	if tolerance.Sign() < 0 {
		return entities.CurrencyAmount{}, ErrNegativeSlippage
	}
	if t.tradeType == ExactOutput {
		return t.outputAmount, nil
	}
	num, den := normalizedTolerance(tolerance)
	// floor(raw * den / (den + num))
	scaled := new(big.Int).Mul(t.outputAmount.Raw(), den)
	divisor := new(big.Int).Add(den, num)
	scaled.Quo(scaled, divisor)
	return entities.NewCurrencyAmount(t.outputAmount.Currency(), scaled)
}

// normalizedTolerance returns the tolerance as numerator/denominator with a
// positive denominator, so quotient rounding behaves predictably.
func normalizedTolerance(tolerance entities.Percent) (*big.Int, *big.Int) {
	num := tolerance.Numerator()
	den := tolerance.Denominator()
	if den.Sign() < 0 {
		num.Neg(num)
		den.Neg(den)
	}
	return num, den
}
