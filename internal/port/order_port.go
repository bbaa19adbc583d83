package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

type OrderRepository interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)

	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListOrdersByOwner(ctx context.Context, ownerID string) ([]domain.Order, error)

	InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error)

	// UpdateOrderStatus sets the status and appends a history entry unless the
	// order already holds the status, in which case it reports changed=false
	// and leaves the history untouched.
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (order domain.Order, changed bool, err error)
}
