package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// Add keeps the receiver's currency unless it is the zero value,
// so summing a slice of Money can start from Money{}.
func (m Money) Add(other Money) Money {
	unit := m.Currency
	if unit == (currency.Unit{}) {
		unit = other.Currency
	}

	return Money{
		Amount:   m.Amount.Add(other.Amount),
		Currency: unit,
	}
}

func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{
		Amount:   m.Amount.Mul(factor),
		Currency: m.Currency,
	}
}

func (m Money) Equal(other Money) bool {
	return m.Amount.Equal(other.Amount) && m.Currency.String() == other.Currency.String()
}
