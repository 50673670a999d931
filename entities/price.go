package entities

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Price is the exchange rate between a base and a quote currency: how much
// of the quote currency one raw unit of the base currency buys.
type Price struct {
	base  Currency
	quote Currency
	ratio Fraction // quote units per base unit, in raw terms
}

// NewPrice builds the price from a base amount and the quote amount it
// exchanges for.
func NewPrice(baseAmount, quoteAmount CurrencyAmount) (Price, error) {
	ratio, err := NewFraction(quoteAmount.Raw(), baseAmount.Raw())
	if err != nil {
		return Price{}, fmt.Errorf("price of %s: %w", baseAmount.Currency().Symbol(), err)
	}
	return Price{base: baseAmount.Currency(), quote: quoteAmount.Currency(), ratio: ratio}, nil
}

func (p Price) Base() Currency  { return p.base }
func (p Price) Quote() Currency { return p.quote }

// Ratio returns the raw quote-per-base fraction.
func (p Price) Ratio() Fraction { return p.ratio }

// Invert flips base and quote.
func (p Price) Invert() (Price, error) {
	inv, err := p.ratio.Invert()
	if err != nil {
		return Price{}, err
	}
	return Price{base: p.quote, quote: p.base, ratio: inv}, nil
}

// QuoteAmount converts an amount of the base currency into the quote
// currency at this price, truncating toward zero.
func (p Price) QuoteAmount(amount CurrencyAmount) (CurrencyAmount, error) {
	if !amount.Currency().Equal(p.base) {
		return CurrencyAmount{}, fmt.Errorf("%w: quoting %s at a %s price", ErrCurrencyMismatch, amount.Currency().Symbol(), p.base.Symbol())
	}
	scaled := Fraction{
		numerator:   new(big.Int).Mul(p.ratio.numerator, amount.Raw()),
		denominator: new(big.Int).Set(p.ratio.denominator),
	}
	return NewCurrencyAmount(p.quote, scaled.Quotient())
}

// ToDecimal renders the price adjusted for both currencies' decimals.
func (p Price) ToDecimal(places int32) decimal.Decimal {
	num := decimal.NewFromBigInt(p.ratio.Numerator(), -int32(p.quote.Decimals()))
	den := decimal.NewFromBigInt(p.ratio.Denominator(), -int32(p.base.Decimals()))
	return num.DivRound(den, places)
}

func (p Price) String() string {
	return fmt.Sprintf("%s %s/%s", p.ToDecimal(8), p.quote.Symbol(), p.base.Symbol())
}
