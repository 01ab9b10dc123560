package cart

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"umkm-pos/internal/model"
)

var (
	ErrUnknownItem          = errors.New("product or variation not found")
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
	ErrWholesaleNotEligible = errors.New("quantity below wholesale minimum")
)

// Item is a requested cart line, as sent by a client.
type Item struct {
	ProductID   uuid.UUID `json:"product_id" validate:"uuid_required"`
	VariationID uuid.UUID `json:"variation_id" validate:"uuid_required"`
	Quantity    int       `json:"quantity" validate:"gte=1"`
	Wholesale   bool      `json:"wholesale"`
}

// Build prices items against the given catalog rows. Repeated items are
// merged. Requesting wholesale for an ineligible line is an error.
func Build(taxRate decimal.Decimal, products []model.Product, items []Item) (*Cart, error) {
	catalog := make(map[uuid.UUID]*model.Product, len(products))
	for i := range products {
		catalog[products[i].ID] = &products[i]
	}

	c := New(taxRate)
	wholesale := make(map[key]bool)
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		p, ok := catalog[it.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %s", ErrUnknownItem, it.ProductID)
		}
		v, ok := p.FindVariation(it.VariationID)
		if !ok {
			return nil, fmt.Errorf("%w: variation %s", ErrUnknownItem, it.VariationID)
		}

		qty := it.Quantity
		if existing, ok := c.Line(p.ID, v.ID); ok {
			qty += existing.Quantity
		} else {
			c.AddLine(p, v)
		}
		c.SetQuantity(p.ID, v.ID, qty)
		if it.Wholesale {
			wholesale[key{p.ID, v.ID}] = true
		}
	}

	for k := range wholesale {
		if !c.ToggleWholesale(k.productID, k.variationID) {
			l, _ := c.Line(k.productID, k.variationID)
			return nil, fmt.Errorf("%w: %s needs %d, has %d",
				ErrWholesaleNotEligible, l.ProductName, l.Variation.WholesaleThreshold(), l.Quantity)
		}
	}
	return c, nil
}
