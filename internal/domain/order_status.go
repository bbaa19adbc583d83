package domain

type OrderStatus string

// remember to add new statuses to the validOrderStatuses map
const (
	OrderStatusPlaced         OrderStatus = "Order Placed"
	OrderStatusConfirmed      OrderStatus = "Order Confirmed"
	OrderStatusPacked         OrderStatus = "Order Packed"
	OrderStatusReadyToShip    OrderStatus = "Ready To Ship"
	OrderStatusShipped        OrderStatus = "Shipped"
	OrderStatusOutForDelivery OrderStatus = "Out For Delivery"
	OrderStatusDelivered      OrderStatus = "Delivered"
	OrderStatusCancelled      OrderStatus = "Cancelled"
)

var validOrderStatuses = map[OrderStatus]struct{}{
	OrderStatusPlaced:         {},
	OrderStatusConfirmed:      {},
	OrderStatusPacked:         {},
	OrderStatusReadyToShip:    {},
	OrderStatusShipped:        {},
	OrderStatusOutForDelivery: {},
	OrderStatusDelivered:      {},
	OrderStatusCancelled:      {},
}

func ToOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := validOrderStatuses[status]; ok {
		return status, nil
	}

	return "", ValidationError{Field: "status", Reason: "unknown order status"}
}

func OrderStatuses() []OrderStatus {
	result := make([]OrderStatus, 0, len(validOrderStatuses))
	for status := range validOrderStatuses {
		result = append(result, status)
	}
	return result
}

// CanTransition reports whether an order in status from may move to status to.
// Cancellation is only allowed while the order is still in Order Placed;
// every other move between known statuses is permitted.
func CanTransition(from, to OrderStatus) bool {
	if _, ok := validOrderStatuses[to]; !ok {
		return false
	}

	if to == OrderStatusCancelled {
		return from == OrderStatusPlaced
	}

	return true
}
