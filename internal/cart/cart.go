// Package cart prices a point-of-sale basket.
//
// A Cart maps (product, variation) pairs to quantities. Each line sells at
// the variation's retail price unless it was switched to wholesale ("grosir"),
// which is only allowed while the quantity reaches the variation's wholesale
// threshold. Tax is applied once to the subtotal.
//
// A Cart is not safe for concurrent use.
package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"umkm-pos/internal/model"
)

// DefaultTaxRate is the Indonesian PPN rate.
var DefaultTaxRate = decimal.NewFromFloat(0.11)

type key struct {
	productID   uuid.UUID
	variationID uuid.UUID
}

// Line is one entry of the cart.
type Line struct {
	ProductID   uuid.UUID
	ProductName string
	Variation   model.ProductVariation
	Quantity    int
	IsWholesale bool
}

// WholesaleEligible reports whether the line may be sold at the wholesale price.
func (l Line) WholesaleEligible() bool {
	return l.Variation.WholesaleEligible(l.Quantity)
}

// UnitPrice is the wholesale price when the line is wholesale, the retail price otherwise.
func (l Line) UnitPrice() decimal.Decimal {
	if l.IsWholesale && l.Variation.WholesalePrice.Valid {
		return l.Variation.WholesalePrice.Decimal
	}
	return l.Variation.Price
}

// Total is UnitPrice times Quantity.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	taxRate decimal.Decimal
	lines   []*Line
	index   map[key]*Line
}

// New returns an empty cart that charges taxRate on the subtotal.
func New(taxRate decimal.Decimal) *Cart {
	return &Cart{
		taxRate: taxRate,
		index:   make(map[key]*Line),
	}
}

func (c *Cart) TaxRate() decimal.Decimal {
	return c.taxRate
}

// AddLine adds one unit of the variation. An existing line is incremented,
// otherwise a new retail line with quantity 1 is appended.
func (c *Cart) AddLine(product *model.Product, variation model.ProductVariation) {
	k := key{product.ID, variation.ID}
	if l, ok := c.index[k]; ok {
		l.Quantity++
		return
	}
	l := &Line{
		ProductID:   product.ID,
		ProductName: product.Name,
		Variation:   variation,
		Quantity:    1,
	}
	c.lines = append(c.lines, l)
	c.index[k] = l
}

// SetQuantity sets a line's quantity; qty <= 0 removes the line. A wholesale
// line that no longer qualifies falls back to retail. It returns false when
// the line does not exist.
func (c *Cart) SetQuantity(productID, variationID uuid.UUID, qty int) bool {
	l, ok := c.index[key{productID, variationID}]
	if !ok {
		return false
	}
	if qty <= 0 {
		c.Remove(productID, variationID)
		return true
	}
	l.Quantity = qty
	if l.IsWholesale && !l.WholesaleEligible() {
		l.IsWholesale = false
	}
	return true
}

// ToggleWholesale flips a line between retail and wholesale pricing. Switching
// to wholesale requires eligibility; otherwise nothing changes and false is
// returned.
func (c *Cart) ToggleWholesale(productID, variationID uuid.UUID) bool {
	l, ok := c.index[key{productID, variationID}]
	if !ok {
		return false
	}
	if !l.IsWholesale && !l.WholesaleEligible() {
		return false
	}
	l.IsWholesale = !l.IsWholesale
	return true
}

func (c *Cart) Remove(productID, variationID uuid.UUID) {
	k := key{productID, variationID}
	if _, ok := c.index[k]; !ok {
		return
	}
	delete(c.index, k)
	for i, l := range c.lines {
		if l.ProductID == productID && l.Variation.ID == variationID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			break
		}
	}
}

func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[key]*Line)
}

// Lines returns copies of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	for i, l := range c.lines {
		out[i] = *l
	}
	return out
}

// Line looks up a single line.
func (c *Cart) Line(productID, variationID uuid.UUID) (Line, bool) {
	l, ok := c.index[key{productID, variationID}]
	if !ok {
		return Line{}, false
	}
	return *l, true
}

// ItemCount is the total number of units in the cart.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.Total())
	}
	return sum
}

// Tax is the subtotal times the tax rate, unrounded.
func (c *Cart) Tax() decimal.Decimal {
	return c.Subtotal().Mul(c.taxRate)
}

func (c *Cart) Total() decimal.Decimal {
	subtotal := c.Subtotal()
	return subtotal.Add(subtotal.Mul(c.taxRate))
}
