package entities

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
)

// ErrZeroDenominator is returned when a fraction is built with a zero denominator.
var ErrZeroDenominator = errors.New("fraction denominator must be non-zero")

// Fraction is an exact rational number backed by big.Int. All operations
// return new fractions; receivers are never mutated.
type Fraction struct {
	numerator   *big.Int
	denominator *big.Int
}

// NewFraction builds numerator/denominator. Denominator must be non-zero.
func NewFraction(numerator, denominator *big.Int) (Fraction, error) {
	if denominator.Sign() == 0 {
		return Fraction{}, ErrZeroDenominator
	}
	return Fraction{
		numerator:   new(big.Int).Set(numerator),
		denominator: new(big.Int).Set(denominator),
	}, nil
}

// NewFractionFromInt builds numerator/1.
func NewFractionFromInt(numerator int64) Fraction {
	return Fraction{numerator: big.NewInt(numerator), denominator: big.NewInt(1)}
}

func (f Fraction) Numerator() *big.Int {
	if f.numerator == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(f.numerator)
}

func (f Fraction) Denominator() *big.Int {
	if f.denominator == nil {
		return big.NewInt(1)
	}
	return new(big.Int).Set(f.denominator)
}

// Sign returns -1, 0 or 1 depending on the sign of the fraction.
// The zero value reads as zero.
func (f Fraction) Sign() int {
	if f.numerator == nil || f.denominator == nil {
		return 0
	}
	return f.numerator.Sign() * f.denominator.Sign()
}

// Add returns f + other.
func (f Fraction) Add(other Fraction) Fraction {
	num := new(big.Int).Mul(f.numerator, other.denominator)
	num.Add(num, new(big.Int).Mul(other.numerator, f.denominator))
	return Fraction{numerator: num, denominator: new(big.Int).Mul(f.denominator, other.denominator)}
}

// Sub returns f - other.
func (f Fraction) Sub(other Fraction) Fraction {
	num := new(big.Int).Mul(f.numerator, other.denominator)
	num.Sub(num, new(big.Int).Mul(other.numerator, f.denominator))
	return Fraction{numerator: num, denominator: new(big.Int).Mul(f.denominator, other.denominator)}
}

// Mul returns f * other.
func (f Fraction) Mul(other Fraction) Fraction {
	return Fraction{
		numerator:   new(big.Int).Mul(f.numerator, other.numerator),
		denominator: new(big.Int).Mul(f.denominator, other.denominator),
	}
}

// Div returns f / other. Dividing by a zero fraction returns ErrZeroDenominator.
func (f Fraction) Div(other Fraction) (Fraction, error) {
	if other.numerator.Sign() == 0 {
		return Fraction{}, ErrZeroDenominator
	}
	return Fraction{
		numerator:   new(big.Int).Mul(f.numerator, other.denominator),
		denominator: new(big.Int).Mul(f.denominator, other.numerator),
	}, nil
}

// Invert returns 1/f. Inverting a zero fraction returns ErrZeroDenominator.
func (f Fraction) Invert() (Fraction, error) {
	if f.numerator.Sign() == 0 {
		return Fraction{}, ErrZeroDenominator
	}
	return Fraction{
		numerator:   new(big.Int).Set(f.denominator),
		denominator: new(big.Int).Set(f.numerator),
	}, nil
}

// Cmp compares f and other, returning -1, 0 or 1.
func (f Fraction) Cmp(other Fraction) int {
	// a/b vs c/d  ==  a*d vs c*b, normalizing for denominator signs.
	left := new(big.Int).Mul(f.numerator, other.denominator)
	right := new(big.Int).Mul(other.numerator, f.denominator)
	sign := f.denominator.Sign() * other.denominator.Sign()
	if sign < 0 {
		return -left.Cmp(right)
	}
	return left.Cmp(right)
}

// Quotient returns the integer part of the fraction, truncated toward zero.
func (f Fraction) Quotient() *big.Int {
	return new(big.Int).Quo(f.numerator, f.denominator)
}

// ToDecimal renders the fraction at the given number of decimal places.
func (f Fraction) ToDecimal(places int32) decimal.Decimal {
	num := decimal.NewFromBigInt(f.numerator, 0)
	den := decimal.NewFromBigInt(f.denominator, 0)
	return num.DivRound(den, places)
}

// Percent is a fraction used for slippage tolerances: 1/100 is 1%.
type Percent struct {
	Fraction
}

// NewPercent builds numerator/denominator as a percent-semantics fraction.
func NewPercent(numerator, denominator int64) Percent {
	return Percent{Fraction{numerator: big.NewInt(numerator), denominator: big.NewInt(denominator)}}
}

// NewPercentFromFraction wraps an existing fraction.
func NewPercentFromFraction(f Fraction) Percent {
	return Percent{f}
}
