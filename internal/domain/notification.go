package domain

type NotificationKind string

const (
	NotificationOrderPlaced    NotificationKind = "order_placed"
	NotificationOrderShipped   NotificationKind = "order_shipped"
	NotificationOrderDelivered NotificationKind = "order_delivered"
)

// Notification is a best-effort event handed to the external sink.
// Delivery failures never affect the transaction that produced it.
type Notification struct {
	Kind      NotificationKind
	Recipient string
	Payload   map[string]string
}
