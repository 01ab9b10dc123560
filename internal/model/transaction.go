package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentTransfer PaymentMethod = "TRANSFER"
	PaymentQRIS     PaymentMethod = "QRIS"
	PaymentCard     PaymentMethod = "CARD"
)

type PaymentStatus string

const (
	PaymentPaid PaymentStatus = "paid"
	// PaymentHeld marks a saved ("simpan") cart that has not been paid yet.
	PaymentHeld PaymentStatus = "held"
)

// Transaction is a completed or held sale.
type Transaction struct {
	BaseModel
	CompanyID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"company_id"`
	UserID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User              *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TransactionNumber string          `gorm:"type:varchar(40);uniqueIndex;not null" json:"transaction_number"`
	PaymentMethod     PaymentMethod   `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentStatus     PaymentStatus   `gorm:"type:varchar(20);not null;default:'paid'" json:"payment_status"`
	LocationName      *string         `gorm:"type:varchar(100)" json:"location_name,omitempty"`
	Subtotal          decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"subtotal"`
	TaxAmount         decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"tax_amount"`
	DiscountAmount    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"discount_amount"`
	TotalAmount       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_amount"`
	Notes             *string         `gorm:"type:text" json:"notes,omitempty"`

	Items []TransactionItem `gorm:"foreignKey:TransactionID" json:"items"`
}

type TransactionItem struct {
	BaseModel
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	VariationID   uuid.UUID       `gorm:"type:uuid;not null" json:"variation_id"`
	ProductName   string          `gorm:"type:varchar(255)" json:"product_name"`
	VariationName string          `gorm:"type:varchar(100)" json:"variation_name"`
	Quantity      int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"unit_price"`
	IsWholesale   bool            `gorm:"default:false" json:"is_wholesale"`
	TotalPrice    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_price"`
}
