package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/nikolayk812/storefront/internal/billing"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

// CheckoutService turns a cart into a durable order as one logical
// transaction: validate, reserve stock, materialize the order, clear the
// cart, notify. A failure after reservation restores the reserved stock
// before the error is returned.
type CheckoutService struct {
	carts     *CartService
	inventory *InventoryService
	orders    *OrderService
	users     port.UserDirectory
	sink      port.NotificationSink
	logger    *slog.Logger
}

func NewCheckout(carts *CartService, inventory *InventoryService, orders *OrderService,
	users port.UserDirectory, sink port.NotificationSink, logger *slog.Logger) *CheckoutService {
	if logger == nil {
		logger = slog.Default()
	}

	return &CheckoutService{
		carts:     carts,
		inventory: inventory,
		orders:    orders,
		users:     users,
		sink:      sink,
		logger:    logger,
	}
}

type CheckoutRequest struct {
	OwnerID string

	// CheckedBill is the cart total the buyer saw; it must match the
	// recomputed total exactly, a mismatch is rejected rather than corrected.
	CheckedBill  domain.Money
	ShippingFees domain.Money

	Address          domain.Address
	PaymentMethod    domain.PaymentMethod
	DeliveryDate     time.Time
	DeliveryTimeSlot string
}

type CheckoutResult struct {
	OrderID uuid.UUID
	Amount  domain.Money

	// CartCleared is false when the order committed but emptying the cart
	// failed; the buyer got their order, the cart needs manual clearing.
	CartCleared bool
}

func (s *CheckoutService) PlaceOrder(ctx context.Context, req CheckoutRequest) (CheckoutResult, error) {
	var result CheckoutResult

	// Step 1: validate, before any write.
	cart, err := s.validate(ctx, req)
	if err != nil {
		return result, err
	}

	finalBill := billing.Total(cart.Lines).Add(req.ShippingFees)

	stockLines := lo.Map(cart.Lines, func(line domain.CartLine, _ int) domain.StockLine {
		return domain.StockLine{ProductID: line.ProductID, Quantity: line.Quantity}
	})

	// Step 2: reserve stock for every line, all-or-nothing.
	if err := s.inventory.ValidateAndReserve(ctx, stockLines); err != nil {
		return result, fmt.Errorf("inventory.ValidateAndReserve: %w", err)
	}

	// Step 3: materialize the order; on failure hand the reservation back.
	order, err := s.orders.Create(ctx, CreateOrderParams{
		OwnerID:          req.OwnerID,
		Lines:            orderLinesFromCart(cart.Lines),
		Amount:           finalBill,
		ShippingCharges:  req.ShippingFees,
		Address:          req.Address,
		PaymentMethod:    req.PaymentMethod,
		DeliveryDate:     req.DeliveryDate,
		DeliveryTimeSlot: req.DeliveryTimeSlot,
	})
	if err != nil {
		if restoreErr := s.inventory.Restore(ctx, stockLines); restoreErr != nil {
			s.logger.Error("stock restore after failed order creation",
				"owner_id", req.OwnerID,
				"error", restoreErr)
		}
		return result, fmt.Errorf("orders.Create: %w", err)
	}

	result.OrderID = order.ID
	result.Amount = order.Amount

	// Step 4: clear the cart. The order and stock decrement stay committed
	// even if this fails; the inconsistency is recoverable.
	result.CartCleared = true
	if err := s.carts.Clear(ctx, req.OwnerID); err != nil {
		s.logger.Warn("cart clear after checkout failed",
			"owner_id", req.OwnerID,
			"order_id", order.ID.String(),
			"error", err)
		result.CartCleared = false
	}

	// Step 5: confirmation notification, fire-and-forget.
	s.notifyPlaced(order)

	return result, nil
}

func (s *CheckoutService) validate(ctx context.Context, req CheckoutRequest) (domain.Cart, error) {
	var cart domain.Cart

	if _, err := s.users.FindByID(ctx, req.OwnerID); err != nil {
		return cart, fmt.Errorf("users.FindByID: %w", err)
	}

	if req.Address.Line1 == "" || req.Address.City == "" {
		return cart, domain.ValidationError{Field: "address", Reason: "line1 and city are required"}
	}
	if _, err := domain.ToPaymentMethod(string(req.PaymentMethod)); err != nil {
		return cart, err
	}
	if req.DeliveryDate.IsZero() {
		return cart, domain.ValidationError{Field: "deliveryDate", Reason: "is required"}
	}
	if req.DeliveryTimeSlot == "" {
		return cart, domain.ValidationError{Field: "deliveryTimeSlot", Reason: "is required"}
	}

	cart, err := s.carts.Snapshot(ctx, req.OwnerID)
	if err != nil {
		return cart, fmt.Errorf("carts.Snapshot: %w", err)
	}
	if cart.IsEmpty() {
		return cart, domain.ValidationError{Field: "cart", Reason: "cart is empty"}
	}

	if !billing.Total(cart.Lines).Equal(req.CheckedBill) {
		return cart, domain.ValidationError{Field: "checkedBill", Reason: "does not match cart total"}
	}

	return cart, nil
}

func (s *CheckoutService) notifyPlaced(order domain.Order) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := notifyOrderEvent(ctx, s.users, s.sink, order, domain.NotificationOrderPlaced); err != nil {
			s.logger.Warn("order confirmation notification failed",
				"order_id", order.ID.String(),
				"error", err)
		}
	}()
}

func orderLinesFromCart(lines []domain.CartLine) []domain.OrderLine {
	return lo.Map(lines, func(line domain.CartLine, _ int) domain.OrderLine {
		return domain.OrderLine{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
			Color:     line.Color,
			Image:     line.Image,
		}
	})
}
