package entities

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

var (
	// ErrCurrencyMismatch is returned when arithmetic mixes amounts of different currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")
	// ErrNegativeAmount is returned when a negative quantity is supplied where only
	// non-negative quantities make sense.
	ErrNegativeAmount = errors.New("amount must be non-negative")
)

// CurrencyAmount is a raw integer quantity tagged with the currency it
// denominates. The raw quantity is in the currency's smallest unit.
type CurrencyAmount struct {
	currency Currency
	raw      *big.Int
}

// NewCurrencyAmount tags raw with currency. Negative quantities are rejected;
// pool and trade math only ever deals in non-negative amounts.
func NewCurrencyAmount(currency Currency, raw *big.Int) (CurrencyAmount, error) {
	if raw == nil || raw.Sign() < 0 {
		return CurrencyAmount{}, fmt.Errorf("%w: %s", ErrNegativeAmount, raw)
	}
	return CurrencyAmount{currency: currency, raw: new(big.Int).Set(raw)}, nil
}

// MustCurrencyAmount is NewCurrencyAmount panicking on error, for fixtures and tests.
func MustCurrencyAmount(currency Currency, raw *big.Int) CurrencyAmount {
	a, err := NewCurrencyAmount(currency, raw)
	if err != nil {
		panic(err)
	}
	return a
}

func (a CurrencyAmount) Currency() Currency { return a.currency }

// Raw returns a copy of the underlying quantity.
func (a CurrencyAmount) Raw() *big.Int {
	if a.raw == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a.raw)
}

// Sign returns the sign of the quantity; the zero value reads as zero.
func (a CurrencyAmount) Sign() int {
	if a.raw == nil {
		return 0
	}
	return a.raw.Sign()
}

// Add returns a + other. Both amounts must share a currency.
func (a CurrencyAmount) Add(other CurrencyAmount) (CurrencyAmount, error) {
	if !a.currency.Equal(other.currency) {
		return CurrencyAmount{}, fmt.Errorf("%w: %s + %s", ErrCurrencyMismatch, a.currency.Symbol(), other.currency.Symbol())
	}
	return CurrencyAmount{currency: a.currency, raw: new(big.Int).Add(a.raw, other.raw)}, nil
}

// Sub returns a - other. Both amounts must share a currency and the result
// must be non-negative.
func (a CurrencyAmount) Sub(other CurrencyAmount) (CurrencyAmount, error) {
	if !a.currency.Equal(other.currency) {
		return CurrencyAmount{}, fmt.Errorf("%w: %s - %s", ErrCurrencyMismatch, a.currency.Symbol(), other.currency.Symbol())
	}
	diff := new(big.Int).Sub(a.raw, other.raw)
	if diff.Sign() < 0 {
		return CurrencyAmount{}, fmt.Errorf("%w: %s - %s", ErrNegativeAmount, a.raw, other.raw)
	}
	return CurrencyAmount{currency: a.currency, raw: diff}, nil
}

// Cmp compares the quantities of two amounts of the same currency.
func (a CurrencyAmount) Cmp(other CurrencyAmount) (int, error) {
	if !a.currency.Equal(other.currency) {
		return 0, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, a.currency.Symbol(), other.currency.Symbol())
	}
	return a.raw.Cmp(other.raw), nil
}

// ToDecimal renders the amount scaled by the currency's decimals.
func (a CurrencyAmount) ToDecimal() decimal.Decimal {
	return decimal.NewFromBigInt(a.Raw(), -int32(a.currency.Decimals()))
}

func (a CurrencyAmount) String() string {
	return fmt.Sprintf("%s %s", a.ToDecimal(), a.currency.Symbol())
}
