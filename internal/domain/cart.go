package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// CartLine is a buyer's intent to purchase a product in a given color.
// Name, Price and Image are snapshots taken from the catalog when the line
// was first added and are never re-synced to later catalog changes.
type CartLine struct {
	ProductID uuid.UUID
	Name      string
	Price     Money
	Quantity  int32
	Color     string
	Image     string
}

// Key identifies a line within a cart: the same product in two colors
// is two distinct lines.
func (l CartLine) Key() string {
	return fmt.Sprintf("%s_%s", l.ProductID, l.Color)
}

type Cart struct {
	OwnerID string
	Lines   []CartLine
	Bill    Money
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c Cart) Line(productID uuid.UUID, color string) (CartLine, bool) {
	for _, line := range c.Lines {
		if line.ProductID == productID && line.Color == color {
			return line, true
		}
	}
	return CartLine{}, false
}

// Merge adds the line to the cart, accumulating quantity when a line with
// the same product and color already exists. The existing snapshot fields win.
func (c *Cart) Merge(line CartLine) {
	for i := range c.Lines {
		if c.Lines[i].Key() == line.Key() {
			c.Lines[i].Quantity += line.Quantity
			return
		}
	}

	c.Lines = append(c.Lines, line)
}

// SetQuantity replaces the quantity of an existing line, removing the line
// entirely when quantity drops to zero or below.
func (c *Cart) SetQuantity(productID uuid.UUID, color string, quantity int32) error {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID && c.Lines[i].Color == color {
			if quantity <= 0 {
				c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			} else {
				c.Lines[i].Quantity = quantity
			}
			return nil
		}
	}

	return NotFoundError{Entity: "cart line", Key: CartLine{ProductID: productID, Color: color}.Key()}
}

func (c *Cart) Remove(productID uuid.UUID, color string) error {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID && c.Lines[i].Color == color {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return nil
		}
	}

	return NotFoundError{Entity: "cart line", Key: CartLine{ProductID: productID, Color: color}.Key()}
}
