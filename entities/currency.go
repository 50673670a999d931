package entities

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrSameToken is returned when a token is ordered against itself.
	ErrSameToken = errors.New("tokens must be distinct")
	// ErrDifferentChains is returned when two currencies from different chains are compared or ordered.
	ErrDifferentChains = errors.New("currencies are on different chains")
)

// Currency is any asset a trade can be denominated in: either a chain's
// native currency or an ERC-20 token. Pool math always operates on tokens;
// a native currency participates through its wrapped form.
type Currency interface {
	ChainID() uint64
	Decimals() uint8
	Symbol() string
	IsNative() bool
	// Wrapped returns the token this currency trades as inside pools.
	// For a Token it is the token itself.
	Wrapped() *Token
	Equal(other Currency) bool
}

// Token identifies an ERC-20 token by chain and contract address.
type Token struct {
	chainID  uint64
	address  common.Address
	decimals uint8
	symbol   string
}

// NewToken constructs a token identity.
func NewToken(chainID uint64, address common.Address, decimals uint8, symbol string) *Token {
	return &Token{
		chainID:  chainID,
		address:  address,
		decimals: decimals,
		symbol:   symbol,
	}
}

func (t *Token) ChainID() uint64 { return t.chainID }
func (t *Token) Decimals() uint8 { return t.decimals }
func (t *Token) Symbol() string  { return t.symbol }
func (t *Token) IsNative() bool  { return false }
func (t *Token) Wrapped() *Token { return t }

// Address returns the token's contract address.
func (t *Token) Address() common.Address { return t.address }

// Equal reports whether other is the same token (same chain and address).
func (t *Token) Equal(other Currency) bool {
	o, ok := other.(*Token)
	if !ok || o == nil {
		return false
	}
	return t.chainID == o.chainID && t.address == o.address
}

// SortsBefore reports whether this token's address orders before other's.
// This is the canonical pool pair ordering. Comparing a token to itself or
// across chains is a usage error.
func (t *Token) SortsBefore(other *Token) (bool, error) {
	if t.chainID != other.chainID {
		return false, fmt.Errorf("%w: %d vs %d", ErrDifferentChains, t.chainID, other.chainID)
	}
	if t.address == other.address {
		return false, fmt.Errorf("%w: %s", ErrSameToken, t.address)
	}
	return bytes.Compare(t.address.Bytes(), other.address.Bytes()) < 0, nil
}

func (t *Token) String() string {
	return fmt.Sprintf("%s(%s)", t.symbol, t.address.Hex())
}

// Native is a chain's intrinsic currency. It cannot sit in a pool directly;
// Wrapped points at the canonical wrapped token it converts to.
type Native struct {
	chainID uint64
	symbol  string
	wrapped *Token
}

// NewNative constructs the native currency for a chain, bound to its
// canonical wrapped token. The wrapped token must be non-nil and on the
// same chain.
func NewNative(chainID uint64, symbol string, wrapped *Token) (*Native, error) {
	if wrapped == nil {
		return nil, errors.New("native currency requires a wrapped token")
	}
	if wrapped.ChainID() != chainID {
		return nil, fmt.Errorf("%w: wrapped token on chain %d", ErrDifferentChains, wrapped.ChainID())
	}
	return &Native{chainID: chainID, symbol: symbol, wrapped: wrapped}, nil
}

func (n *Native) ChainID() uint64 { return n.chainID }
func (n *Native) Decimals() uint8 { return n.wrapped.Decimals() }
func (n *Native) Symbol() string  { return n.symbol }
func (n *Native) IsNative() bool  { return true }
func (n *Native) Wrapped() *Token { return n.wrapped }

// Equal reports whether other is the native currency of the same chain.
func (n *Native) Equal(other Currency) bool {
	o, ok := other.(*Native)
	if !ok || o == nil {
		return false
	}
	return n.chainID == o.chainID
}

func (n *Native) String() string {
	return fmt.Sprintf("%s(native)", n.symbol)
}
