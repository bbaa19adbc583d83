package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// Delivery must be scheduled at least this many days ahead...
	minDeliveryLeadDays = 3
	// ...and at most this many days ahead, both evaluated at order creation.
	maxDeliveryLeadDays = 10
)

type PaymentMethod string

const (
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentMethodCreditCard     PaymentMethod = "credit_card"
)

var validPaymentMethods = map[PaymentMethod]struct{}{
	PaymentMethodCashOnDelivery: {},
	PaymentMethodCreditCard:     {},
}

func ToPaymentMethod(s string) (PaymentMethod, error) {
	method := PaymentMethod(s)
	if _, ok := validPaymentMethods[method]; ok {
		return method, nil
	}

	return "", ValidationError{Field: "paymentMethod", Reason: "unknown payment method"}
}

// Paid is derived from the method: only cash on delivery remains unpaid
// at checkout, card payments are captured up front.
func (m PaymentMethod) Paid() bool {
	return m != PaymentMethodCashOnDelivery
}

type Address struct {
	FullName   string
	Line1      string
	Line2      string
	City       string
	PostalCode string
	Country    string
	Phone      string
}

// OrderLine is an immutable copy of a cart line frozen at checkout time.
type OrderLine struct {
	ProductID uuid.UUID
	Name      string
	Price     Money
	Quantity  int32
	Color     string
	Image     string
}

type StatusChange struct {
	Status    OrderStatus
	Timestamp time.Time
}

type Order struct {
	ID               uuid.UUID
	OwnerID          string
	Lines            []OrderLine
	Amount           Money
	ShippingCharges  Money
	Address          Address
	PaymentMethod    PaymentMethod
	Paid             bool
	DeliveryDate     time.Time
	DeliveryTimeSlot string
	Status           OrderStatus
	StatusHistory    []StatusChange

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateDeliveryDate checks the [now+3d, now+10d] scheduling window.
// Bounds are day-granular: midnight at the near edge, end of day at the far
// edge, so any slot on the boundary days is accepted.
func ValidateDeliveryDate(date, now time.Time) error {
	min := startOfDay(now.AddDate(0, 0, minDeliveryLeadDays))
	max := endOfDay(now.AddDate(0, 0, maxDeliveryLeadDays))

	if date.Before(min) || date.After(max) {
		return ValidationError{
			Field:  "deliveryDate",
			Reason: "must be between 3 and 10 days from the order date",
		}
	}

	return nil
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
