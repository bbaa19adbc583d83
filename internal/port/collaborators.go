package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

// ProductCatalog is the catalog collaborator: the storefront reads product
// snapshots from it but never manages the catalog itself.
type ProductCatalog interface {
	Lookup(ctx context.Context, productID uuid.UUID) (domain.Product, error)
}

// UserDirectory is the identity collaborator; authentication mechanics stay
// outside this system.
type UserDirectory interface {
	FindByID(ctx context.Context, userID string) (domain.User, error)
}

// NotificationSink delivers events best-effort in its own failure domain.
type NotificationSink interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// UserStore backs the user directory.
type UserStore interface {
	UserDirectory

	CreateUser(ctx context.Context, user domain.User) error
}
