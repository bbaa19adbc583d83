package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

const notifyTimeout = 5 * time.Second

// OrderService creates immutable order snapshots and drives the status state
// machine with its append-only history.
type OrderService struct {
	orders port.OrderRepository
	users  port.UserDirectory
	sink   port.NotificationSink
	logger *slog.Logger

	now func() time.Time
}

func NewOrder(orders port.OrderRepository, users port.UserDirectory, sink port.NotificationSink, logger *slog.Logger) *OrderService {
	if logger == nil {
		logger = slog.Default()
	}

	return &OrderService{
		orders: orders,
		users:  users,
		sink:   sink,
		logger: logger,
		now:    time.Now,
	}
}

type CreateOrderParams struct {
	OwnerID          string
	Lines            []domain.OrderLine
	Amount           domain.Money
	ShippingCharges  domain.Money
	Address          domain.Address
	PaymentMethod    domain.PaymentMethod
	DeliveryDate     time.Time
	DeliveryTimeSlot string
}

// Create materializes an order in status Order Placed with a one-entry
// history. Amount and lines are frozen here and never recomputed afterwards.
func (s *OrderService) Create(ctx context.Context, params CreateOrderParams) (domain.Order, error) {
	if len(params.Lines) == 0 {
		return domain.Order{}, domain.ValidationError{Field: "lines", Reason: "no items in order"}
	}
	if params.DeliveryTimeSlot == "" {
		return domain.Order{}, domain.ValidationError{Field: "deliveryTimeSlot", Reason: "is required"}
	}
	if _, err := domain.ToPaymentMethod(string(params.PaymentMethod)); err != nil {
		return domain.Order{}, err
	}

	now := s.now()
	if err := domain.ValidateDeliveryDate(params.DeliveryDate, now); err != nil {
		return domain.Order{}, err
	}

	order := domain.Order{
		OwnerID:          params.OwnerID,
		Lines:            params.Lines,
		Amount:           params.Amount,
		ShippingCharges:  params.ShippingCharges,
		Address:          params.Address,
		PaymentMethod:    params.PaymentMethod,
		Paid:             params.PaymentMethod.Paid(),
		DeliveryDate:     params.DeliveryDate,
		DeliveryTimeSlot: params.DeliveryTimeSlot,
		Status:           domain.OrderStatusPlaced,
		StatusHistory: []domain.StatusChange{
			{Status: domain.OrderStatusPlaced, Timestamp: now},
		},
	}

	orderID, err := s.orders.InsertOrder(ctx, order)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.InsertOrder: %w", err)
	}

	created, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.GetOrder: %w", err)
	}

	return created, nil
}

// Transition moves the order to newStatus. Re-applying the current status is
// a no-op which still returns the order. Entering Shipped or Delivered fires
// a notification whose outcome never affects the transition.
func (s *OrderService) Transition(ctx context.Context, orderID uuid.UUID, newStatus domain.OrderStatus) (domain.Order, error) {
	order, changed, err := s.orders.UpdateOrderStatus(ctx, orderID, newStatus)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.UpdateOrderStatus: %w", err)
	}

	if changed {
		switch newStatus {
		case domain.OrderStatusShipped:
			s.notifyAsync(order, domain.NotificationOrderShipped)
		case domain.OrderStatusDelivered:
			s.notifyAsync(order, domain.NotificationOrderDelivered)
		}
	}

	return order, nil
}

func (s *OrderService) Get(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.GetOrder: %w", err)
	}

	return order, nil
}

func (s *OrderService) ListForOwner(ctx context.Context, ownerID string) ([]domain.Order, error) {
	orders, err := s.orders.ListOrdersByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("orders.ListOrdersByOwner: %w", err)
	}

	return orders, nil
}

func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("orders.ListOrders: %w", err)
	}

	return orders, nil
}

// notifyAsync delivers the event outside the critical path with its own
// timeout. Failures are logged and swallowed.
func (s *OrderService) notifyAsync(order domain.Order, kind domain.NotificationKind) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := notifyOrderEvent(ctx, s.users, s.sink, order, kind); err != nil {
			s.logger.Warn("order notification failed",
				"order_id", order.ID.String(),
				"kind", string(kind),
				"error", err)
		}
	}()
}

func notifyOrderEvent(ctx context.Context, users port.UserDirectory, sink port.NotificationSink, order domain.Order, kind domain.NotificationKind) error {
	user, err := users.FindByID(ctx, order.OwnerID)
	if err != nil {
		return fmt.Errorf("users.FindByID: %w", err)
	}

	notification := domain.Notification{
		Kind:      kind,
		Recipient: user.Email,
		Payload: map[string]string{
			"order_id": order.ID.String(),
			"status":   string(order.Status),
			"amount":   order.Amount.Amount.String(),
			"name":     user.FirstName,
		},
	}

	if err := sink.Notify(ctx, notification); err != nil {
		return fmt.Errorf("sink.Notify: %w", err)
	}

	return nil
}
