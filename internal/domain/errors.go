package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ValidationError rejects malformed or out-of-range input before any write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

type NotFoundError struct {
	Entity string
	Key    string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s[%s] not found", e.Entity, e.Key)
}

// StockShortfall reports one product which cannot cover a requested quantity.
type StockShortfall struct {
	ProductID uuid.UUID
	Requested int32
	Available int32
}

// InsufficientStockError carries a shortfall entry for every failing line of
// a reservation batch; no stock has been mutated when it is returned.
type InsufficientStockError struct {
	Shortfalls []StockShortfall
}

func (e InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		parts = append(parts, fmt.Sprintf("product[%s] requested %d available %d", s.ProductID, s.Requested, s.Available))
	}
	return "insufficient stock: " + strings.Join(parts, ", ")
}

// StateConflictError signals a concurrent mutation lost its race after
// retries were exhausted.
type StateConflictError struct {
	Entity string
	Key    string
}

func (e StateConflictError) Error() string {
	return fmt.Sprintf("%s[%s]: concurrent modification", e.Entity, e.Key)
}
