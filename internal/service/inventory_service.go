package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

// InventoryService enforces no-oversell: a multi-line request either
// decrements stock for every line or leaves every counter untouched.
type InventoryService struct {
	inventory port.InventoryRepository
}

func NewInventory(inventory port.InventoryRepository) *InventoryService {
	return &InventoryService{inventory: inventory}
}

// ValidateAndReserve checks and reserves the whole batch all-or-nothing.
// On shortage it returns domain.InsufficientStockError listing every failing
// line and guarantees no stock was mutated.
func (s *InventoryService) ValidateAndReserve(ctx context.Context, lines []domain.StockLine) error {
	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return domain.ValidationError{Field: "productId", Reason: "is required"}
		}
		if line.Quantity <= 0 {
			return domain.ValidationError{Field: "quantity", Reason: "must be positive"}
		}
	}

	if err := s.inventory.Reserve(ctx, lines); err != nil {
		return fmt.Errorf("inventory.Reserve: %w", err)
	}

	return nil
}

// Restore compensates a reservation whose transaction failed later on.
func (s *InventoryService) Restore(ctx context.Context, lines []domain.StockLine) error {
	if err := s.inventory.Restore(ctx, lines); err != nil {
		return fmt.Errorf("inventory.Restore: %w", err)
	}

	return nil
}
