package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultVariationName labels the implicit variation of a product sold without variations.
const DefaultVariationName = "Default"

type Product struct {
	BaseModel
	CompanyID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"company_id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name" validate:"required,max=255"`
	Description *string         `gorm:"type:text" json:"description,omitempty"`
	Price       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"price"`
	Cost        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"cost"`
	SKU         *string         `gorm:"type:varchar(50)" json:"sku,omitempty"`
	Barcode     *string         `gorm:"type:varchar(64)" json:"barcode,omitempty"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Category    *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	ImageURL    *string         `gorm:"type:text" json:"image_url,omitempty"`
	IsActive    bool            `gorm:"default:true" json:"is_active"`

	Variations []ProductVariation `gorm:"foreignKey:ProductID" json:"variations"`
}

// ProductVariation is a sellable sub-unit of a product with its own price and stock.
type ProductVariation struct {
	BaseModel
	ProductID       uuid.UUID           `gorm:"type:uuid;not null;index" json:"product_id"`
	Name            string              `gorm:"type:varchar(100);not null" json:"name"`
	SKU             *string             `gorm:"type:varchar(50)" json:"sku,omitempty"`
	Barcode         *string             `gorm:"type:varchar(64)" json:"barcode,omitempty"`
	Price           decimal.Decimal     `gorm:"type:numeric(14,2);not null;default:0" json:"price"`
	WholesalePrice  decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"wholesale_price"`
	MinWholesaleQty *int                `json:"min_wholesale_qty,omitempty"`
	IsActive        bool                `gorm:"default:true" json:"is_active"`
}

// WholesaleThreshold is the minimum quantity that unlocks the wholesale price.
// An unset threshold means any quantity.
func (v *ProductVariation) WholesaleThreshold() int {
	if v.MinWholesaleQty == nil || *v.MinWholesaleQty < 1 {
		return 1
	}
	return *v.MinWholesaleQty
}

// WholesaleEligible reports whether qty units may be sold at the wholesale price.
func (v *ProductVariation) WholesaleEligible(qty int) bool {
	return v.WholesalePrice.Valid && qty >= v.WholesaleThreshold()
}

// SellableVariations returns the active variations, or the implicit default
// variation (same id as the product, product price) when there are none.
func (p *Product) SellableVariations() []ProductVariation {
	out := make([]ProductVariation, 0, len(p.Variations))
	for _, v := range p.Variations {
		if v.IsActive {
			out = append(out, v)
		}
	}
	if len(out) > 0 {
		return out
	}
	return []ProductVariation{p.DefaultVariation()}
}

func (p *Product) DefaultVariation() ProductVariation {
	v := ProductVariation{
		ProductID: p.ID,
		Name:      DefaultVariationName,
		SKU:       p.SKU,
		Barcode:   p.Barcode,
		Price:     p.Price,
		IsActive:  true,
	}
	v.ID = p.ID
	return v
}

// FindVariation looks up a sellable variation by id.
func (p *Product) FindVariation(id uuid.UUID) (ProductVariation, bool) {
	for _, v := range p.SellableVariations() {
		if v.ID == id {
			return v, true
		}
	}
	return ProductVariation{}, false
}
