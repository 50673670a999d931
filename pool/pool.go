// Package pool models an immutable snapshot of a two-asset liquidity pool
// and simulates trades against it. Trading returns a new snapshot; a Pool is
// never mutated after construction, which is what lets the route search
// explore many candidate paths over one pool set safely.
package pool

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/whale-guru-dev/uniswap-v3-sdk/entities"
	"github.com/whale-guru-dev/uniswap-v3-sdk/pool/ticklist"
	"github.com/whale-guru-dev/uniswap-v3-sdk/pool/tickmath"
)

// Fee tiers in parts-per-million.
const (
	FeeLow    uint64 = 500
	FeeMedium uint64 = 3000
	FeeHigh   uint64 = 10000

	// feeDenominator represents 100% in parts-per-million.
	feeDenominator uint64 = 1_000_000
)

var (
	// ErrInvalidFee is returned when the fee tier is at or above 100%.
	ErrInvalidFee = errors.New("fee must be below 100% in parts-per-million")
	// ErrTokenNotInPool is returned when an operation references an asset the pool does not hold.
	ErrTokenNotInPool = errors.New("token not in pool")
	// ErrInvalidAmount is returned when a simulation is given a non-positive amount.
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrInsufficientLiquidity signals that the pool cannot satisfy the
	// requested trade. It is expected, recoverable data: the route search
	// prunes the branch and moves on.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
)

// Pool is an immutable snapshot of one liquidity pool: canonical token pair,
// reserves, fee tier, current sqrt price, in-range liquidity, and the pool's
// initialized tick boundaries.
type Pool struct {
	token0, token1     *entities.Token
	reserve0, reserve1 entities.CurrencyAmount
	fee                uint64
	sqrtPriceX96       *big.Int
	tick               int64
	liquidity          *big.Int
	ticks              ticklist.TickList
}

// New constructs a pool snapshot from two reserve amounts, a fee tier in
// parts-per-million, the current sqrt price (Q64.96), the in-range
// liquidity, and the pool's initialized ticks. The pair is canonicalized so
// token0 sorts before token1 regardless of argument order. Native-currency
// amounts are stored in their wrapped token form.
func New(
	amountA, amountB entities.CurrencyAmount,
	fee uint64,
	sqrtPriceX96 *big.Int,
	liquidity *big.Int,
	ticks ticklist.TickList,
) (*Pool, error) {
	if fee >= feeDenominator {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFee, fee)
	}
	if ticks.Len() == 0 {
		return nil, ticklist.ErrEmptyTickList
	}

	tokenA := amountA.Currency().Wrapped()
	tokenB := amountB.Currency().Wrapped()
	aFirst, err := tokenA.SortsBefore(tokenB)
	if err != nil {
		return nil, err
	}
	if !aFirst {
		tokenA, tokenB = tokenB, tokenA
		amountA, amountB = amountB, amountA
	}

	reserve0, err := entities.NewCurrencyAmount(tokenA, amountA.Raw())
	if err != nil {
		return nil, err
	}
	reserve1, err := entities.NewCurrencyAmount(tokenB, amountB.Raw())
	if err != nil {
		return nil, err
	}

	price := new(big.Int)
	if sqrtPriceX96 != nil {
		price.Set(sqrtPriceX96)
	}
	liq := new(big.Int)
	if liquidity != nil {
		liq.Set(liquidity)
	}

	// An uninitialized price leaves the pool constructible but untradeable;
	// simulations report ErrInsufficientLiquidity instead of failing here.
	var tick int64
	if price.Cmp(tickmath.MinSqrtRatio) >= 0 && price.Cmp(tickmath.MaxSqrtRatio) < 0 {
		tick, err = tickmath.TickAtSqrtRatio(price)
		if err != nil {
			return nil, err
		}
	}

	return &Pool{
		token0:       tokenA,
		token1:       tokenB,
		reserve0:     reserve0,
		reserve1:     reserve1,
		fee:          fee,
		sqrtPriceX96: price,
		tick:         tick,
		liquidity:    liq,
		ticks:        ticks,
	}, nil
}

func (p *Pool) Token0() *entities.Token { return p.token0 }
func (p *Pool) Token1() *entities.Token { return p.token1 }
func (p *Pool) Fee() uint64             { return p.fee }
func (p *Pool) Tick() int64             { return p.tick }

// SqrtPriceX96 returns a copy of the current sqrt price marker.
func (p *Pool) SqrtPriceX96() *big.Int { return new(big.Int).Set(p.sqrtPriceX96) }

// Liquidity returns a copy of the in-range liquidity.
func (p *Pool) Liquidity() *big.Int { return new(big.Int).Set(p.liquidity) }

// Ticks returns the pool's tick collection.
func (p *Pool) Ticks() ticklist.TickList { return p.ticks }

func (p *Pool) Reserve0() entities.CurrencyAmount { return p.reserve0 }
func (p *Pool) Reserve1() entities.CurrencyAmount { return p.reserve1 }

// Involves reports whether the currency (in wrapped form) is one of the
// pool's two tokens.
func (p *Pool) Involves(currency entities.Currency) bool {
	tok := currency.Wrapped()
	return tok.Equal(p.token0) || tok.Equal(p.token1)
}

// ReserveOf returns the reserve denominated in the given currency's token.
func (p *Pool) ReserveOf(currency entities.Currency) (entities.CurrencyAmount, error) {
	tok := currency.Wrapped()
	switch {
	case tok.Equal(p.token0):
		return p.reserve0, nil
	case tok.Equal(p.token1):
		return p.reserve1, nil
	default:
		return entities.CurrencyAmount{}, fmt.Errorf("%w: %s", ErrTokenNotInPool, tok)
	}
}

// PriceOf returns the marginal price of the given currency in terms of the
// pool's other token, derived from the reserve ratio of this snapshot.
func (p *Pool) PriceOf(currency entities.Currency) (entities.Price, error) {
	tok := currency.Wrapped()
	switch {
	case tok.Equal(p.token0):
		return entities.NewPrice(p.reserve0, p.reserve1)
	case tok.Equal(p.token1):
		return entities.NewPrice(p.reserve1, p.reserve0)
	default:
		return entities.Price{}, fmt.Errorf("%w: %s", ErrTokenNotInPool, tok)
	}
}

// Token0Price returns the price of token0 in terms of token1.
func (p *Pool) Token0Price() (entities.Price, error) { return p.PriceOf(p.token0) }

// Token1Price returns the price of token1 in terms of token0.
func (p *Pool) Token1Price() (entities.Price, error) { return p.PriceOf(p.token1) }

func (p *Pool) String() string {
	return fmt.Sprintf("Pool(%s/%s fee=%d)", p.token0.Symbol(), p.token1.Symbol(), p.fee)
}
