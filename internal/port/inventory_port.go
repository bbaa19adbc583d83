package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

// InventoryRepository guards the per-product stock counters.
type InventoryRepository interface {
	// Reserve decrements stock for every line or for none of them.
	// When any line cannot be covered it returns domain.InsufficientStockError
	// listing every failing line, with no stock mutated. Counters for the
	// involved products are locked in canonical (sorted by product ID) order.
	Reserve(ctx context.Context, lines []domain.StockLine) error

	// Restore is the compensating increment for a previously reserved batch.
	Restore(ctx context.Context, lines []domain.StockLine) error

	StockLevel(ctx context.Context, productID uuid.UUID) (int32, error)
}

// ProductStore is the catalog collaborator's storage side: snapshot lookups
// for the cart plus the stock counters the reservation logic adjusts.
type ProductStore interface {
	ProductCatalog
	InventoryRepository

	CreateProduct(ctx context.Context, product domain.Product) error
}
