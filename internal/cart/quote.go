package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteLine is a priced cart line.
type QuoteLine struct {
	ProductID         uuid.UUID       `json:"product_id"`
	VariationID       uuid.UUID       `json:"variation_id"`
	ProductName       string          `json:"product_name"`
	VariationName     string          `json:"variation_name"`
	Quantity          int             `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	IsWholesale       bool            `json:"is_wholesale"`
	WholesaleEligible bool            `json:"wholesale_eligible"`
	LineTotal         decimal.Decimal `json:"line_total"`
}

// PriceLabel is "Grosir" for wholesale lines and "Retail" otherwise.
func (l QuoteLine) PriceLabel() string {
	if l.IsWholesale {
		return "Grosir"
	}
	return "Retail"
}

// Quote is an immutable summary of a cart.
type Quote struct {
	Lines     []QuoteLine     `json:"lines"`
	ItemCount int             `json:"item_count"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
}

func (c *Cart) Quote() Quote {
	q := Quote{
		Lines:     make([]QuoteLine, 0, len(c.lines)),
		ItemCount: c.ItemCount(),
		TaxRate:   c.taxRate,
		Subtotal:  c.Subtotal(),
	}
	for _, l := range c.lines {
		q.Lines = append(q.Lines, QuoteLine{
			ProductID:         l.ProductID,
			VariationID:       l.Variation.ID,
			ProductName:       l.ProductName,
			VariationName:     l.Variation.Name,
			Quantity:          l.Quantity,
			UnitPrice:         l.UnitPrice(),
			IsWholesale:       l.IsWholesale,
			WholesaleEligible: l.WholesaleEligible(),
			LineTotal:         l.Total(),
		})
	}
	q.Tax = q.Subtotal.Mul(c.taxRate)
	q.Total = q.Subtotal.Add(q.Tax)
	return q
}
