package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// forCompany restricts a query to one tenant's rows.
func forCompany(companyID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}
