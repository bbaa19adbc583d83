package repository

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/nikolayk812/storefront/internal/domain"
)

// Numeric columns travel as text on both sides, so no precision is lost to
// float conversion.

func parseMoney(amount, code string) (domain.Money, error) {
	parsedAmount, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.Money{}, fmt.Errorf("decimal.NewFromString[%s]: %w", amount, err)
	}

	if code == "" {
		return domain.Money{Amount: parsedAmount}, nil
	}

	parsedCurrency, err := currency.ParseISO(code)
	if err != nil {
		return domain.Money{}, fmt.Errorf("currency[%s] is not valid: %w", code, err)
	}

	return domain.Money{Amount: parsedAmount, Currency: parsedCurrency}, nil
}

func moneyAmount(m domain.Money) string {
	return m.Amount.String()
}

func moneyCurrency(m domain.Money) string {
	if m.Currency == (currency.Unit{}) {
		return ""
	}
	return m.Currency.String()
}
