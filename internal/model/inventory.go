package model

import (
	"github.com/google/uuid"
)

type LocationType string

const (
	LocationWarehouse LocationType = "warehouse"
	LocationStore     LocationType = "store"
)

func (t LocationType) Valid() bool {
	return t == LocationWarehouse || t == LocationStore
}

// InventoryRecord is the stock of one variation at one physical location.
type InventoryRecord struct {
	BaseModel
	CompanyID    uuid.UUID    `gorm:"type:uuid;not null;index;uniqueIndex:idx_inventory_location,priority:1" json:"company_id"`
	ProductID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"product_id"`
	VariationID  uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_location,priority:2" json:"variation_id"`
	LocationType LocationType `gorm:"type:varchar(20);not null;uniqueIndex:idx_inventory_location,priority:3" json:"location_type"`
	LocationName string       `gorm:"type:varchar(100);not null;uniqueIndex:idx_inventory_location,priority:4" json:"location_name"`
	Quantity     int          `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`
	MinStock     *int         `json:"min_stock,omitempty"`
	MaxStock     *int         `json:"max_stock,omitempty"`
}

func (InventoryRecord) TableName() string {
	return "inventory"
}

type InventoryTxType string

const (
	InvTxIn         InventoryTxType = "in"
	InvTxOut        InventoryTxType = "out"
	InvTxAdjustment InventoryTxType = "adjustment"
	InvTxSale       InventoryTxType = "sale"
)

// InventoryTransaction is the audit trail of every stock movement.
type InventoryTransaction struct {
	BaseModel
	CompanyID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"company_id"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	VariationID      uuid.UUID       `gorm:"type:uuid;not null" json:"variation_id"`
	LocationType     LocationType    `gorm:"type:varchar(20);not null" json:"location_type"`
	LocationName     string          `gorm:"type:varchar(100);not null" json:"location_name"`
	TransactionType  InventoryTxType `gorm:"type:varchar(20);not null" json:"transaction_type"`
	Quantity         int             `gorm:"not null" json:"quantity"`
	PreviousQuantity int             `gorm:"not null" json:"previous_quantity"`
	ReferenceID      *uuid.UUID      `gorm:"type:uuid" json:"reference_id,omitempty"`
	Notes            *string         `gorm:"type:text" json:"notes,omitempty"`
}

// StockStatus classifies total stock against a minimum.
type StockStatus string

const (
	StockHabis    StockStatus = "habis"
	StockRendah   StockStatus = "stok_rendah"
	StockTersedia StockStatus = "tersedia"
)

// ClassifyStock returns habis at zero, stok_rendah below minStock, tersedia otherwise.
func ClassifyStock(total, minStock int) StockStatus {
	switch {
	case total <= 0:
		return StockHabis
	case total < minStock:
		return StockRendah
	default:
		return StockTersedia
	}
}

// TotalQuantity sums quantities across records.
func TotalQuantity(records []InventoryRecord) int {
	total := 0
	for _, r := range records {
		total += r.Quantity
	}
	return total
}

// Label is the Indonesian status shown in stock lists.
func (s StockStatus) Label() string {
	switch s {
	case StockHabis:
		return "Habis"
	case StockRendah:
		return "Stok Rendah"
	}
	return "Tersedia"
}
