package httpapi

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/nikolayk812/storefront/internal/domain"
)

// moneyPayload tolerates an absent amount so optional fields like shipping
// fees can be omitted; an empty payload maps to zero money.
type moneyPayload struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency" validate:"omitempty,iso4217"`
}

func (p moneyPayload) toDomain() (domain.Money, error) {
	if p.Amount == "" {
		return domain.Money{}, nil
	}

	amount, err := decimal.NewFromString(p.Amount)
	if err != nil {
		return domain.Money{}, domain.ValidationError{Field: "amount", Reason: "is not a valid number"}
	}

	if p.Currency == "" {
		return domain.Money{Amount: amount}, nil
	}

	unit, err := currency.ParseISO(p.Currency)
	if err != nil {
		return domain.Money{}, domain.ValidationError{Field: "currency", Reason: "is not a valid ISO code"}
	}

	return domain.Money{Amount: amount, Currency: unit}, nil
}

type addCartItemRequest struct {
	UserID    string `json:"userId" validate:"required"`
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int32  `json:"quantity" validate:"required,gt=0"`
	Color     string `json:"color" validate:"required"`
}

type updateCartItemRequest struct {
	UserID    string `json:"userId" validate:"required"`
	ProductID string `json:"productId" validate:"required,uuid"`
	Color     string `json:"color" validate:"required"`

	// Zero or negative removes the line.
	Quantity int32 `json:"quantity"`
}

type removeCartItemRequest struct {
	UserID    string `json:"userId" validate:"required"`
	ProductID string `json:"productId" validate:"required,uuid"`
	Color     string `json:"color" validate:"required"`
}

type clearCartRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type addressPayload struct {
	FullName   string `json:"fullName" validate:"required"`
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
	Phone      string `json:"phone"`
}

func (p addressPayload) toDomain() domain.Address {
	return domain.Address(p)
}

type placeOrderRequest struct {
	UserID           string         `json:"userId" validate:"required"`
	CheckedBill      moneyPayload   `json:"checkedBill" validate:"required"`
	ShippingFees     moneyPayload   `json:"shippingFees"`
	Address          addressPayload `json:"address" validate:"required"`
	PaymentMethod    string         `json:"paymentMethod" validate:"required,oneof=cash_on_delivery credit_card"`
	DeliveryDate     time.Time      `json:"deliveryDate" validate:"required"`
	DeliveryTimeSlot string         `json:"deliveryTimeSlot" validate:"required"`
}

type updateOrderStatusRequest struct {
	OrderID string `json:"orderId" validate:"required,uuid"`
	Status  string `json:"status" validate:"required"`
}
