package port

import (
	"context"

	"github.com/nikolayk812/storefront/internal/domain"
)

// CartRepository persists one cart per owner.
//
// UpdateCart runs mutate inside a per-owner critical section: two concurrent
// mutations for the same owner never interleave, mutations for different
// owners never block each other. The cart returned by mutate replaces the
// stored one atomically, bill included.
type CartRepository interface {
	GetCart(ctx context.Context, ownerID string) (domain.Cart, error)

	UpdateCart(ctx context.Context, ownerID string, mutate func(domain.Cart) (domain.Cart, error)) (domain.Cart, error)

	ClearCart(ctx context.Context, ownerID string) error
}
