package repository

import (
	"context"

	"umkm-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompanyRepository interface {
	Create(ctx context.Context, company *model.Company) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Company, error)
	FindBySlug(ctx context.Context, slug string) (*model.Company, error)
	FindActive(ctx context.Context) ([]model.Company, error)
	Update(ctx context.Context, company *model.Company) error
	WithTx(tx *gorm.DB) CompanyRepository
}

type companyRepo struct {
	db *gorm.DB
}

func NewCompanyRepo(db *gorm.DB) CompanyRepository {
	return &companyRepo{db}
}

func (r *companyRepo) WithTx(tx *gorm.DB) CompanyRepository {
	return &companyRepo{tx}
}

func (r *companyRepo) Create(ctx context.Context, company *model.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

func (r *companyRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	var company model.Company
	if err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepo) FindBySlug(ctx context.Context, slug string) (*model.Company, error) {
	var company model.Company
	if err := r.db.WithContext(ctx).First(&company, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// FindActive lists the companies a new user may join.
func (r *companyRepo) FindActive(ctx context.Context) ([]model.Company, error) {
	var companies []model.Company
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&companies).Error
	return companies, err
}

func (r *companyRepo) Update(ctx context.Context, company *model.Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}
