package httpapi

import (
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
)

type moneyResponse struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency,omitempty"`
}

func mapMoney(m domain.Money) moneyResponse {
	resp := moneyResponse{Amount: m.Amount.String()}
	if code := m.Currency.String(); code != "XXX" {
		resp.Currency = code
	}
	return resp
}

type cartLineResponse struct {
	ProductID string        `json:"productId"`
	Name      string        `json:"name"`
	Price     moneyResponse `json:"price"`
	Quantity  int32         `json:"quantity"`
	Color     string        `json:"color"`
	Image     string        `json:"image,omitempty"`
}

type cartResponse struct {
	OwnerID string             `json:"ownerId"`
	Items   []cartLineResponse `json:"items"`
	Bill    moneyResponse      `json:"bill"`
}

func mapCart(cart domain.Cart) cartResponse {
	items := make([]cartLineResponse, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		items = append(items, cartLineResponse{
			ProductID: line.ProductID.String(),
			Name:      line.Name,
			Price:     mapMoney(line.Price),
			Quantity:  line.Quantity,
			Color:     line.Color,
			Image:     line.Image,
		})
	}

	return cartResponse{
		OwnerID: cart.OwnerID,
		Items:   items,
		Bill:    mapMoney(cart.Bill),
	}
}

type statusChangeResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type orderResponse struct {
	ID               string                 `json:"id"`
	OwnerID          string                 `json:"ownerId"`
	Items            []cartLineResponse     `json:"items"`
	Amount           moneyResponse          `json:"amount"`
	ShippingCharges  moneyResponse          `json:"shippingCharges"`
	Address          addressPayload         `json:"address"`
	PaymentMethod    string                 `json:"paymentMethod"`
	Paid             bool                   `json:"paid"`
	DeliveryDate     time.Time              `json:"deliveryDate"`
	DeliveryTimeSlot string                 `json:"deliveryTimeSlot"`
	Status           string                 `json:"status"`
	StatusHistory    []statusChangeResponse `json:"statusHistory"`
	CreatedAt        time.Time              `json:"createdAt"`
}

func mapOrder(order domain.Order) orderResponse {
	items := make([]cartLineResponse, 0, len(order.Lines))
	for _, line := range order.Lines {
		items = append(items, cartLineResponse{
			ProductID: line.ProductID.String(),
			Name:      line.Name,
			Price:     mapMoney(line.Price),
			Quantity:  line.Quantity,
			Color:     line.Color,
			Image:     line.Image,
		})
	}

	history := make([]statusChangeResponse, 0, len(order.StatusHistory))
	for _, change := range order.StatusHistory {
		history = append(history, statusChangeResponse{
			Status:    string(change.Status),
			Timestamp: change.Timestamp,
		})
	}

	return orderResponse{
		ID:               order.ID.String(),
		OwnerID:          order.OwnerID,
		Items:            items,
		Amount:           mapMoney(order.Amount),
		ShippingCharges:  mapMoney(order.ShippingCharges),
		Address:          addressPayload(order.Address),
		PaymentMethod:    string(order.PaymentMethod),
		Paid:             order.Paid,
		DeliveryDate:     order.DeliveryDate,
		DeliveryTimeSlot: order.DeliveryTimeSlot,
		Status:           string(order.Status),
		StatusHistory:    history,
		CreatedAt:        order.CreatedAt,
	}
}

func mapOrders(orders []domain.Order) []orderResponse {
	result := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		result = append(result, mapOrder(order))
	}
	return result
}
