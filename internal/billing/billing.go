// Package billing computes cart and order totals. It is pure: the same
// calculation backs the live cart bill and the checkout corroboration of
// the buyer-supplied total.
package billing

import (
	"github.com/shopspring/decimal"

	"github.com/nikolayk812/storefront/internal/domain"
)

// Total sums price × quantity over all lines. Malformed lines are coerced
// rather than rejected: a negative quantity or price contributes zero, so
// Total never fails.
func Total(lines []domain.CartLine) domain.Money {
	var total domain.Money

	for _, line := range lines {
		price := line.Price
		if price.Amount.IsNegative() {
			price.Amount = decimal.Zero
		}

		quantity := line.Quantity
		if quantity < 0 {
			quantity = 0
		}

		total = total.Add(price.Mul(decimal.NewFromInt32(quantity)))
	}

	return total
}

// OrderLines mirrors Total for the frozen copies an order carries.
func OrderLines(lines []domain.OrderLine) domain.Money {
	cartLines := make([]domain.CartLine, 0, len(lines))
	for _, line := range lines {
		cartLines = append(cartLines, domain.CartLine{
			ProductID: line.ProductID,
			Price:     line.Price,
			Quantity:  line.Quantity,
		})
	}

	return Total(cartLines)
}
