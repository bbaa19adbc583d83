// Package service holds the storefront core: cart upkeep, stock
// reservation, the order lifecycle and the checkout transaction.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nikolayk812/storefront/internal/billing"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

// CartService maintains one cart per buyer. Every mutation recomputes the
// bill from the resulting line set before anything is persisted, so the
// stored total can never drift from the lines.
type CartService struct {
	carts port.CartRepository
}

func NewCart(carts port.CartRepository) *CartService {
	return &CartService{carts: carts}
}

// AddItem merges the line into the owner's cart: quantity accumulates when
// the same product and color is already present, otherwise the line is added
// with the caller-supplied catalog snapshot.
func (s *CartService) AddItem(ctx context.Context, ownerID string, line domain.CartLine) (domain.Cart, error) {
	if line.ProductID == uuid.Nil {
		return domain.Cart{}, domain.ValidationError{Field: "productId", Reason: "is required"}
	}
	if line.Quantity <= 0 {
		return domain.Cart{}, domain.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if line.Color == "" {
		return domain.Cart{}, domain.ValidationError{Field: "color", Reason: "is required"}
	}

	cart, err := s.carts.UpdateCart(ctx, ownerID, func(cart domain.Cart) (domain.Cart, error) {
		cart.Merge(line)
		cart.Bill = billing.Total(cart.Lines)
		return cart, nil
	})
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.UpdateCart: %w", err)
	}

	return cart, nil
}

// SetQuantity replaces (not accumulates) the quantity of an existing line;
// zero or negative removes it.
func (s *CartService) SetQuantity(ctx context.Context, ownerID string, productID uuid.UUID, color string, quantity int32) (domain.Cart, error) {
	cart, err := s.carts.UpdateCart(ctx, ownerID, func(cart domain.Cart) (domain.Cart, error) {
		if err := cart.SetQuantity(productID, color, quantity); err != nil {
			return domain.Cart{}, err
		}
		cart.Bill = billing.Total(cart.Lines)
		return cart, nil
	})
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.UpdateCart: %w", err)
	}

	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, ownerID string, productID uuid.UUID, color string) (domain.Cart, error) {
	cart, err := s.carts.UpdateCart(ctx, ownerID, func(cart domain.Cart) (domain.Cart, error) {
		if err := cart.Remove(productID, color); err != nil {
			return domain.Cart{}, err
		}
		cart.Bill = billing.Total(cart.Lines)
		return cart, nil
	})
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.UpdateCart: %w", err)
	}

	return cart, nil
}

// Clear empties the cart; clearing an absent cart succeeds.
func (s *CartService) Clear(ctx context.Context, ownerID string) error {
	if err := s.carts.ClearCart(ctx, ownerID); err != nil {
		return fmt.Errorf("carts.ClearCart: %w", err)
	}

	return nil
}

// Snapshot returns an empty cart, not an error, for an owner without one.
func (s *CartService) Snapshot(ctx context.Context, ownerID string) (domain.Cart, error) {
	cart, err := s.carts.GetCart(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.GetCart: %w", err)
	}

	return cart, nil
}
