// Package router builds routes over a pool set, values trades along them,
// and searches the pool graph for the best trades between two assets.
package router

import (
	"errors"
	"fmt"

	"github.com/whale-guru-dev/uniswap-v3-sdk/entities"
	"github.com/whale-guru-dev/uniswap-v3-sdk/pool"
)

var (
	// ErrEmptyRoute is returned when a route is built without pools.
	ErrEmptyRoute = errors.New("route requires at least one pool")
	// ErrDisjointRoute is returned when consecutive pools share no common token.
	ErrDisjointRoute = errors.New("pools do not form a connected path")
	// ErrNilCurrency is returned when a required endpoint currency is missing.
	ErrNilCurrency = errors.New("currency must not be nil")
)

// Route is a validated, ordered sequence of pools connecting an input asset
// to an output asset. The endpoints may be native currencies; the pools
// themselves always operate on the wrapped form. Immutable once built.
type Route struct {
	pools     []*pool.Pool
	input     entities.Currency
	output    entities.Currency
	tokenPath []*entities.Token
}

// NewRoute validates the pool sequence and reconciles the endpoints. The
// input currency is required and must match (or wrap into) a token of the
// first pool. The output currency may be nil, in which case it is inferred
// as the token the path terminates on; when given, it must reconcile with
// that terminal token the same way.
func NewRoute(pools []*pool.Pool, input, output entities.Currency) (*Route, error) {
	if len(pools) == 0 {
		return nil, ErrEmptyRoute
	}
	if input == nil {
		return nil, fmt.Errorf("%w: input", ErrNilCurrency)
	}

	current := input.Wrapped()
	if !pools[0].Involves(current) {
		return nil, fmt.Errorf("%w: input %s", pool.ErrTokenNotInPool, current)
	}

	tokenPath := make([]*entities.Token, 0, len(pools)+1)
	tokenPath = append(tokenPath, current)
	for i, pl := range pools {
		if !pl.Involves(current) {
			return nil, fmt.Errorf("%w: pool %d does not involve %s", ErrDisjointRoute, i, current)
		}
		if current.Equal(pl.Token0()) {
			current = pl.Token1()
		} else {
			current = pl.Token0()
		}
		tokenPath = append(tokenPath, current)
	}

	if output == nil {
		output = current
	} else if !output.Wrapped().Equal(current) {
		return nil, fmt.Errorf("%w: output %s, path ends at %s", pool.ErrTokenNotInPool, output.Wrapped(), current)
	}

	owned := make([]*pool.Pool, len(pools))
	copy(owned, pools)

	return &Route{
		pools:     owned,
		input:     input,
		output:    output,
		tokenPath: tokenPath,
	}, nil
}

// Pools returns a copy of the route's pool sequence.
func (r *Route) Pools() []*pool.Pool {
	out := make([]*pool.Pool, len(r.pools))
	copy(out, r.pools)
	return out
}

// Hops returns the number of pools traversed.
func (r *Route) Hops() int { return len(r.pools) }

// Input returns the route's logical input currency, possibly native.
func (r *Route) Input() entities.Currency { return r.input }

// Output returns the route's logical output currency, possibly native.
func (r *Route) Output() entities.Currency { return r.output }

// TokenPath returns the ordered tokens the route visits, in wrapped form.
// Its length is always Hops()+1.
func (r *Route) TokenPath() []*entities.Token {
	out := make([]*entities.Token, len(r.tokenPath))
	copy(out, r.tokenPath)
	return out
}
