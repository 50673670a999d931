// Package ticklist holds the ordered set of initialized price boundaries for
// a single pool and the neighbor lookups the swap loop needs.
package ticklist

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
)

var (
	// ErrEmptyTickList is returned when a pool is built without any initialized ticks.
	ErrEmptyTickList = errors.New("tick list must not be empty")
	// ErrDuplicateTick is returned when two tick records share an index.
	ErrDuplicateTick = errors.New("duplicate tick index")
)

// Tick is an immutable record of one initialized price boundary.
type Tick struct {
	Index                 int64
	LiquidityNet          *big.Int
	LiquidityGross        *big.Int
	FeeGrowthOutside0X128 *big.Int
	FeeGrowthOutside1X128 *big.Int
}

// TickList is the ordered, read-only collection of a pool's initialized
// ticks. It is built once at pool construction and shared by every snapshot
// derived from that pool.
type TickList struct {
	ticks []Tick
}

// New validates and sorts the given tick records into a TickList. The set
// must be non-empty and free of duplicate indices.
func New(ticks []Tick) (TickList, error) {
	if len(ticks) == 0 {
		return TickList{}, ErrEmptyTickList
	}

	sorted := make([]Tick, len(ticks))
	copy(sorted, ticks)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Index < sorted[j].Index
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Index == sorted[i-1].Index {
			return TickList{}, fmt.Errorf("%w: %d", ErrDuplicateTick, sorted[i].Index)
		}
	}

	return TickList{ticks: sorted}, nil
}

// Len returns the number of initialized ticks.
func (l TickList) Len() int { return len(l.ticks) }

// Ticks returns a copy of the underlying records in ascending index order.
func (l TickList) Ticks() []Tick {
	out := make([]Tick, len(l.ticks))
	copy(out, l.ticks)
	return out
}

// NextInitializedTick finds the neighboring initialized tick for a swap step.
//
// With lte it returns the largest initialized tick at or below the given
// tick; otherwise the smallest initialized tick strictly above it. The
// second return value is false when no such tick exists, meaning the price
// has moved outside all tracked boundaries; the swap loop treats that as the
// end of available liquidity, not as an error.
func (l TickList) NextInitializedTick(tick int64, lte bool) (int64, bool) {
	if len(l.ticks) == 0 {
		return 0, false
	}

	if lte {
		// Smallest i with ticks[i].Index >= tick; the answer is at i or i-1.
		i := sort.Search(len(l.ticks), func(i int) bool {
			return l.ticks[i].Index >= tick
		})
		if i < len(l.ticks) && l.ticks[i].Index == tick {
			return tick, true
		}
		if i == 0 {
			return 0, false
		}
		return l.ticks[i-1].Index, true
	}

	i := sort.Search(len(l.ticks), func(i int) bool {
		return l.ticks[i].Index > tick
	})
	if i >= len(l.ticks) {
		return 0, false
	}
	return l.ticks[i].Index, true
}

// LiquidityNetAt returns the net liquidity change at an initialized tick
// index, or false if the index is not initialized.
func (l TickList) LiquidityNetAt(index int64) (*big.Int, bool) {
	i := sort.Search(len(l.ticks), func(i int) bool {
		return l.ticks[i].Index >= index
	})
	if i >= len(l.ticks) || l.ticks[i].Index != index {
		return nil, false
	}
	if l.ticks[i].LiquidityNet == nil {
		return new(big.Int), true
	}
	return new(big.Int).Set(l.ticks[i].LiquidityNet), true
}
