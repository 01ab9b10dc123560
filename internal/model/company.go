package model

import "github.com/google/uuid"

// Company is the tenant boundary. Every other row carries a company_id.
type Company struct {
	BaseModel
	Name             string  `gorm:"type:varchar(255);not null" json:"name"`
	Slug             string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	Address          *string `gorm:"type:text" json:"address,omitempty"`
	Phone            *string `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Email            *string `gorm:"type:varchar(255)" json:"email,omitempty"`
	LogoURL          *string `gorm:"type:text" json:"logo_url,omitempty"`
	SubscriptionPlan string  `gorm:"type:varchar(30);default:'free'" json:"subscription_plan"`
	IsActive         bool    `gorm:"default:true" json:"is_active"`
}

// CompanyRef is the slice of a company embedded in a user profile.
type CompanyRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

func (c *Company) Ref() *CompanyRef {
	if c == nil {
		return nil
	}
	return &CompanyRef{ID: c.ID, Name: c.Name, Slug: c.Slug}
}
