package domain

import "github.com/google/uuid"

// Product is catalog data plus the shared stock counter the reservation
// logic decrements. The storefront adjusts CountInStock, it never creates
// or prices products.
type Product struct {
	ID           uuid.UUID
	Name         string
	Price        Money
	Image        string
	CountInStock int32
}

// StockLine is one entry of a reservation batch.
type StockLine struct {
	ProductID uuid.UUID
	Quantity  int32
}
