package router

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"

	"github.com/whale-guru-dev/uniswap-v3-sdk/entities"
	"github.com/whale-guru-dev/uniswap-v3-sdk/pool"
)

var (
	// ErrEmptyPools is returned when a search is given no pools.
	ErrEmptyPools = errors.New("pool set must not be empty")
	// ErrInvalidMaxHops is returned when the hop limit is below one.
	ErrInvalidMaxHops = errors.New("max hops must be at least one")
)

const (
	defaultMaxHops       = 3
	defaultMaxNumResults = 3
)

// BestTradeOptions bounds a best-trade search. The zero MaxNumResults falls
// back to the default; MaxHops must be positive when options are supplied.
type BestTradeOptions struct {
	// MaxHops caps the number of pools a single route may traverse.
	MaxHops int
	// MaxNumResults caps how many ranked trades are returned.
	MaxNumResults int
	// Metrics, when set, records search counters and timings.
	Metrics *Metrics
}

func resolveOptions(opts *BestTradeOptions) (BestTradeOptions, error) {
	if opts == nil {
		return BestTradeOptions{MaxHops: defaultMaxHops, MaxNumResults: defaultMaxNumResults}, nil
	}
	o := *opts
	if o.MaxHops < 1 {
		return BestTradeOptions{}, fmt.Errorf("%w: got %d", ErrInvalidMaxHops, o.MaxHops)
	}
	if o.MaxNumResults < 1 {
		o.MaxNumResults = defaultMaxNumResults
	}
	return o, nil
}

// BestTradeExactIn searches the pool graph for the best ways to spend
// exactly amountIn and receive currencyOut. It explores every simple path
// (no pool used twice) up to the hop limit, simulating the running amount
// hop by hop, and returns up to MaxNumResults trades ordered best first.
// Branches a pool cannot serve are pruned, not reported; a graph with no
// viable path yields an empty, non-nil slice.
func BestTradeExactIn(pools []*pool.Pool, amountIn entities.CurrencyAmount, currencyOut entities.Currency, opts *BestTradeOptions) ([]*Trade, error) {
	if len(pools) == 0 {
		return nil, ErrEmptyPools
	}
	if currencyOut == nil {
		return nil, fmt.Errorf("%w: output", ErrNilCurrency)
	}
	o, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	o.Metrics.searchStarted(ExactInput)
	defer o.Metrics.observeSearchDuration(time.Now())

	s := &search{
		pools:   dedupePools(pools),
		opts:    o,
		visited: mapset.NewThreadUnsafeSet[common.Address](),
	}
	if err := s.exactIn(amountIn, currencyOut, nil, amountIn); err != nil {
		return nil, err
	}
	return s.ranked(ExactInput), nil
}

// BestTradeExactOut searches the pool graph for the best ways to receive
// exactly amountOut by spending currencyIn, walking paths backward from the
// output asset. Ranking and pruning mirror BestTradeExactIn.
func BestTradeExactOut(pools []*pool.Pool, currencyIn entities.Currency, amountOut entities.CurrencyAmount, opts *BestTradeOptions) ([]*Trade, error) {
	if len(pools) == 0 {
		return nil, ErrEmptyPools
	}
	if currencyIn == nil {
		return nil, fmt.Errorf("%w: input", ErrNilCurrency)
	}
	o, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	o.Metrics.searchStarted(ExactOutput)
	defer o.Metrics.observeSearchDuration(time.Now())

	s := &search{
		pools:   dedupePools(pools),
		opts:    o,
		visited: mapset.NewThreadUnsafeSet[common.Address](),
	}
	if err := s.exactOut(currencyIn, amountOut, nil, amountOut); err != nil {
		return nil, err
	}
	return s.ranked(ExactOutput), nil
}

// search carries the shared state of one best-trade traversal. Pools already
// on the current path are tracked by their derived address so a pool is
// never crossed twice.
type search struct {
	pools   []*pool.Pool
	opts    BestTradeOptions
	visited mapset.Set[common.Address]
	trades  []*Trade
}

// exactIn extends the current forward path by one pool. frontier is the
// simulated amount arriving at the path's tip; hops remaining is MaxHops
// minus len(current).
func (s *search) exactIn(amountIn entities.CurrencyAmount, currencyOut entities.Currency, current []*pool.Pool, frontier entities.CurrencyAmount) error {
	for _, pl := range s.pools {
		key := pl.Address(pool.DefaultFactory)
		if s.visited.Contains(key) {
			continue
		}
		if !pl.Involves(frontier.Currency()) {
			continue
		}

		out, _, err := pl.GetOutputAmount(frontier)
		if err != nil {
			if prunable(err) {
				s.opts.Metrics.branchPruned()
				continue
			}
			return err
		}

		path := appendPool(current, pl)
		if out.Currency().Equal(currencyOut.Wrapped()) {
			route, err := NewRoute(path, amountIn.Currency(), currencyOut)
			if err != nil {
				return err
			}
			trade, err := NewTrade(route, amountIn, ExactInput)
			if err != nil {
				if prunable(err) {
					s.opts.Metrics.branchPruned()
					continue
				}
				return err
			}
			s.opts.Metrics.pathFound()
			s.trades = append(s.trades, trade)
		} else if len(path) < s.opts.MaxHops && len(s.pools) > 1 {
			s.visited.Add(key)
			err := s.exactIn(amountIn, currencyOut, path, out)
			s.visited.Remove(key)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// exactOut extends the current backward path by one pool; current is the
// path suffix already fixed, frontier the amount that must leave its head.
func (s *search) exactOut(currencyIn entities.Currency, amountOut entities.CurrencyAmount, current []*pool.Pool, frontier entities.CurrencyAmount) error {
	for _, pl := range s.pools {
		key := pl.Address(pool.DefaultFactory)
		if s.visited.Contains(key) {
			continue
		}
		if !pl.Involves(frontier.Currency()) {
			continue
		}

		in, _, err := pl.GetInputAmount(frontier)
		if err != nil {
			if prunable(err) {
				s.opts.Metrics.branchPruned()
				continue
			}
			return err
		}

		path := prependPool(pl, current)
		if in.Currency().Equal(currencyIn.Wrapped()) {
			route, err := NewRoute(path, currencyIn, amountOut.Currency())
			if err != nil {
				return err
			}
			trade, err := NewTrade(route, amountOut, ExactOutput)
			if err != nil {
				if prunable(err) {
					s.opts.Metrics.branchPruned()
					continue
				}
				return err
			}
			s.opts.Metrics.pathFound()
			s.trades = append(s.trades, trade)
		} else if len(path) < s.opts.MaxHops && len(s.pools) > 1 {
			s.visited.Add(key)
			err := s.exactOut(currencyIn, amountOut, path, in)
			s.visited.Remove(key)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// ranked sorts the collected trades best first and truncates them to the
// result cap. Never returns nil.
func (s *search) ranked(tradeType TradeType) []*Trade {
	trades := s.trades
	if trades == nil {
		trades = []*Trade{}
	}
	sort.SliceStable(trades, func(i, j int) bool {
		return betterThan(trades[i], trades[j], tradeType)
	})
	if len(trades) > s.opts.MaxNumResults {
		trades = trades[:s.opts.MaxNumResults]
	}
	return trades
}

// betterThan ranks a strictly ahead of b: more output (or less input for
// exact-output trades), then fewer hops, then the lexicographically smaller
// token path as a deterministic tiebreak.
func betterThan(a, b *Trade, tradeType TradeType) bool {
	// All trades in one search share input and output currencies, so raw
	// quantities compare directly.
	var cmp int
	if tradeType == ExactOutput {
		cmp = -a.InputAmount().Raw().Cmp(b.InputAmount().Raw())
	} else {
		cmp = a.OutputAmount().Raw().Cmp(b.OutputAmount().Raw())
	}
	if cmp != 0 {
		return cmp > 0
	}
	if a.Route().Hops() != b.Route().Hops() {
		return a.Route().Hops() < b.Route().Hops()
	}
	return pathCompare(a.Route(), b.Route()) < 0
}

func pathCompare(a, b *Route) int {
	ap, bp := a.TokenPath(), b.TokenPath()
	for i := 0; i < len(ap) && i < len(bp); i++ {
		if c := bytes.Compare(ap[i].Address().Bytes(), bp[i].Address().Bytes()); c != 0 {
			return c
		}
	}
	return len(ap) - len(bp)
}

// prunable reports whether a simulation failure just disqualifies the
// branch rather than the whole search.
func prunable(err error) bool {
	return errors.Is(err, pool.ErrInsufficientLiquidity) || errors.Is(err, pool.ErrInvalidAmount)
}

// dedupePools drops pools that derive to the same address, keeping the
// first occurrence, so identical snapshots do not produce duplicate routes.
func dedupePools(pools []*pool.Pool) []*pool.Pool {
	seen := mapset.NewThreadUnsafeSetWithSize[common.Address](len(pools))
	out := make([]*pool.Pool, 0, len(pools))
	for _, pl := range pools {
		if seen.Add(pl.Address(pool.DefaultFactory)) {
			out = append(out, pl)
		}
	}
	return out
}

func appendPool(path []*pool.Pool, pl *pool.Pool) []*pool.Pool {
	out := make([]*pool.Pool, 0, len(path)+1)
	out = append(out, path...)
	return append(out, pl)
}

func prependPool(pl *pool.Pool, path []*pool.Pool) []*pool.Pool {
	out := make([]*pool.Pool, 0, len(path)+1)
	out = append(out, pl)
	return append(out, path...)
}
