package cart

import (
	"github.com/shopspring/decimal"
)

const defaultVariant = "default"

// Line is a single product entry in a session cart. Lines are keyed by
// product and variant, so the same product in two sizes occupies two lines.
type Line struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Variant   *string         `json:"variant,omitempty"`
	ImageURL  *string         `json:"image_url,omitempty"`
}

// Key identifies the line within its cart.
func (l Line) Key() string {
	variant := defaultVariant
	if l.Variant != nil && *l.Variant != "" {
		variant = *l.Variant
	}
	return l.ProductID + "-" + variant
}

// Subtotal is unit price times quantity for this line.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds the lines for one storefront session. Lines keep their
// insertion order; adding an existing product+variant increments the
// original line in place.
type Cart struct {
	Lines []Line `json:"lines"`
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{Lines: []Line{}}
}

// AddLine merges the given line into the cart. An existing line with the
// same product and variant gains the new quantity; otherwise the line is
// appended.
func (c *Cart) AddLine(line Line) {
	key := line.Key()
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			c.Lines[i].Quantity += line.Quantity
			return
		}
	}
	c.Lines = append(c.Lines, line)
}

// SetQuantity updates the quantity for the identified line. A quantity of
// zero or less removes the line. Returns false when no line matches.
func (c *Cart) SetQuantity(key string, quantity int) bool {
	for i := range c.Lines {
		if c.Lines[i].Key() != key {
			continue
		}
		if quantity <= 0 {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		} else {
			c.Lines[i].Quantity = quantity
		}
		return true
	}
	return false
}

// RemoveLine drops the identified line. Returns false when no line matches.
func (c *Cart) RemoveLine(key string) bool {
	return c.SetQuantity(key, 0)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = c.Lines[:0]
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ItemCount is the sum of quantities across all lines.
func (c *Cart) ItemCount() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

// Total is the sum of line subtotals.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Subtotal())
	}
	return total
}
