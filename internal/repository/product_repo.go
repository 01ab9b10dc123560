package repository

import (
	"context"
	"strings"

	"umkm-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductFilter narrows a product listing.
type ProductFilter struct {
	Search          string
	CategoryID      *uuid.UUID
	IncludeInactive bool
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context, companyID uuid.UUID, filter ProductFilter) ([]model.Product, error)
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Product, error)
	FindByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]model.Product, error)
	FindBySKU(ctx context.Context, companyID uuid.UUID, sku string) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Deactivate(ctx context.Context, companyID, id uuid.UUID, updatedBy string) error
	WithTx(tx *gorm.DB) ProductRepository
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{tx}
}

func activeVariations(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true).Order("created_at ASC")
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepo) FindAll(ctx context.Context, companyID uuid.UUID, filter ProductFilter) ([]model.Product, error) {
	q := r.db.WithContext(ctx).
		Scopes(forCompany(companyID)).
		Preload("Category").
		Preload("Variations", activeVariations)

	if !filter.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(sku) LIKE ? OR barcode = ?)", like, like, s)
	}

	var products []model.Product
	err := q.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Scopes(forCompany(companyID)).
		Preload("Category").
		Preload("Variations", activeVariations).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).
		Scopes(forCompany(companyID)).
		Preload("Variations", activeVariations).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&products).Error
	return products, err
}

func (r *productRepo) FindBySKU(ctx context.Context, companyID uuid.UUID, sku string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Scopes(forCompany(companyID)).First(&product, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Update saves the product row and upserts its variations. Variations that
// are no longer listed are soft-deleted.
func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Variations", "Category").Save(product).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, 0, len(product.Variations))
		for i := range product.Variations {
			v := &product.Variations[i]
			v.ProductID = product.ID
			v.UpdatedBy = product.UpdatedBy
			if v.ID == uuid.Nil {
				v.CreatedBy = product.UpdatedBy
				if err := tx.Create(v).Error; err != nil {
					return err
				}
			} else {
				res := tx.Model(&model.ProductVariation{}).
					Where("id = ? AND product_id = ?", v.ID, product.ID).
					Updates(map[string]interface{}{
						"name":              v.Name,
						"sku":               v.SKU,
						"barcode":           v.Barcode,
						"price":             v.Price,
						"wholesale_price":   v.WholesalePrice,
						"min_wholesale_qty": v.MinWholesaleQty,
						"is_active":         true,
						"updated_by":        v.UpdatedBy,
					})
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return gorm.ErrRecordNotFound
				}
			}
			keep = append(keep, v.ID)
		}

		stale := tx.Model(&model.ProductVariation{}).Where("product_id = ?", product.ID)
		if len(keep) > 0 {
			stale = stale.Where("id NOT IN ?", keep)
		}
		return stale.Updates(map[string]interface{}{
			"is_active":  false,
			"updated_by": product.UpdatedBy,
		}).Error
	})
}

func (r *productRepo) Deactivate(ctx context.Context, companyID, id uuid.UUID, updatedBy string) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Scopes(forCompany(companyID)).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": false, "updated_by": updatedBy})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
