package repository_test

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/currency"

	"github.com/nikolayk812/storefront/internal/domain"
)

func fakeMoney() domain.Money {
	return domain.Money{
		Amount:   decimal.NewFromFloat(gofakeit.Price(1, 100)),
		Currency: currency.MustParseISO("EUR"),
	}
}

func fakeCartLine() domain.CartLine {
	return domain.CartLine{
		ProductID: uuid.New(),
		Name:      gofakeit.ProductName(),
		Price:     fakeMoney(),
		Quantity:  int32(gofakeit.IntRange(1, 5)),
		Color:     gofakeit.Color(),
		Image:     gofakeit.URL(),
	}
}

func fakeProduct() domain.Product {
	return domain.Product{
		ID:           uuid.New(),
		Name:         gofakeit.ProductName(),
		Price:        fakeMoney(),
		Image:        gofakeit.URL(),
		CountInStock: int32(gofakeit.IntRange(1, 50)),
	}
}

func fakeUser() domain.User {
	return domain.User{
		ID:        gofakeit.UUID(),
		Email:     gofakeit.Email(),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
	}
}

func fakeAddress() domain.Address {
	return domain.Address{
		FullName:   gofakeit.Name(),
		Line1:      gofakeit.Street(),
		City:       gofakeit.City(),
		PostalCode: gofakeit.Zip(),
		Country:    gofakeit.Country(),
		Phone:      gofakeit.Phone(),
	}
}

func fakeOrder(ownerID string) domain.Order {
	line := fakeCartLine()

	return domain.Order{
		OwnerID: ownerID,
		Lines: []domain.OrderLine{{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
			Color:     line.Color,
			Image:     line.Image,
		}},
		Amount:           line.Price.Mul(decimal.NewFromInt32(line.Quantity)),
		ShippingCharges:  domain.Money{Amount: decimal.NewFromInt(5), Currency: line.Price.Currency},
		Address:          fakeAddress(),
		PaymentMethod:    domain.PaymentMethodCashOnDelivery,
		DeliveryDate:     time.Now().AddDate(0, 0, 5).UTC(),
		DeliveryTimeSlot: "10:00-12:00",
		Status:           domain.OrderStatusPlaced,
		StatusHistory: []domain.StatusChange{
			{Status: domain.OrderStatusPlaced, Timestamp: time.Now().UTC()},
		},
	}
}

// moneyOpts compares decimals by value and currencies by code, since neither
// type survives a round trip through the database bit-for-bit.
func moneyOpts() cmp.Options {
	return cmp.Options{
		cmp.Comparer(func(x, y decimal.Decimal) bool {
			return x.Equal(y)
		}),
		cmp.Comparer(func(x, y currency.Unit) bool {
			return x.String() == y.String()
		}),
		cmpopts.EquateEmpty(),
	}
}

func assertCart(t *testing.T, expected, actual domain.Cart) {
	t.Helper()

	diff := cmp.Diff(expected, actual, moneyOpts())
	assert.Empty(t, diff)
}

func assertOrder(t *testing.T, expected, actual domain.Order) {
	t.Helper()

	opts := cmp.Options{
		moneyOpts(),
		cmpopts.IgnoreFields(domain.Order{}, "ID", "CreatedAt", "UpdatedAt"),
		cmpopts.IgnoreFields(domain.StatusChange{}, "Timestamp"),
		cmpopts.EquateApproxTime(time.Second),
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)
}
