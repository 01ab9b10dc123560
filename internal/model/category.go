package model

import "github.com/google/uuid"

type Category struct {
	BaseModel
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Icon        *string   `gorm:"type:varchar(16)" json:"icon,omitempty"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
}
