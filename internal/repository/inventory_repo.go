package repository

import (
	"context"

	"umkm-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryFilter narrows an inventory listing. Zero values match everything.
type InventoryFilter struct {
	LocationType model.LocationType
	LocationName string
	ProductID    *uuid.UUID
}

// LocationSummary aggregates the stock held at one warehouse or store.
type LocationSummary struct {
	LocationType model.LocationType `json:"location_type"`
	LocationName string             `json:"location_name"`
	Items        int                `json:"items"`
	Quantity     int                `json:"quantity"`
}

// StockLevel is the total stock of one variation across all locations.
type StockLevel struct {
	ProductID     uuid.UUID `json:"product_id"`
	VariationID   uuid.UUID `json:"variation_id"`
	ProductName   string    `json:"product_name"`
	VariationName string    `json:"variation_name"`
	Total         int       `json:"total"`
	MinStock      int       `json:"min_stock"`
}

type InventoryRepository interface {
	FindAll(ctx context.Context, companyID uuid.UUID, filter InventoryFilter) ([]model.InventoryRecord, error)
	Locations(ctx context.Context, companyID uuid.UUID, locType model.LocationType) ([]LocationSummary, error)
	// LockRecords selects matching rows FOR UPDATE. An empty locName matches any location.
	LockRecords(ctx context.Context, companyID, variationID uuid.UUID, locType model.LocationType, locName string) ([]model.InventoryRecord, error)
	Save(ctx context.Context, record *model.InventoryRecord) error
	CreateMovement(ctx context.Context, movement *model.InventoryTransaction) error
	FindMovements(ctx context.Context, companyID uuid.UUID, productID *uuid.UUID, limit int) ([]model.InventoryTransaction, error)
	StockLevels(ctx context.Context, companyID uuid.UUID) ([]StockLevel, error)
	WithTx(tx *gorm.DB) InventoryRepository
}

type inventoryRepo struct {
	db *gorm.DB
}

func NewInventoryRepo(db *gorm.DB) InventoryRepository {
	return &inventoryRepo{db}
}

func (r *inventoryRepo) WithTx(tx *gorm.DB) InventoryRepository {
	return &inventoryRepo{tx}
}

func (r *inventoryRepo) FindAll(ctx context.Context, companyID uuid.UUID, filter InventoryFilter) ([]model.InventoryRecord, error) {
	q := r.db.WithContext(ctx).Scopes(forCompany(companyID))
	if filter.LocationType != "" {
		q = q.Where("location_type = ?", filter.LocationType)
	}
	if filter.LocationName != "" {
		q = q.Where("location_name = ?", filter.LocationName)
	}
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}

	var records []model.InventoryRecord
	err := q.Order("location_type ASC, location_name ASC").Find(&records).Error
	return records, err
}

func (r *inventoryRepo) Locations(ctx context.Context, companyID uuid.UUID, locType model.LocationType) ([]LocationSummary, error) {
	q := r.db.WithContext(ctx).Model(&model.InventoryRecord{}).
		Select(`location_type, location_name,
			COUNT(*) as items,
			COALESCE(SUM(quantity), 0) as quantity`).
		Scopes(forCompany(companyID))
	if locType != "" {
		q = q.Where("location_type = ?", locType)
	}

	var out []LocationSummary
	err := q.Group("location_type, location_name").
		Order("location_type ASC, location_name ASC").
		Scan(&out).Error
	return out, err
}

func (r *inventoryRepo) LockRecords(ctx context.Context, companyID, variationID uuid.UUID, locType model.LocationType, locName string) ([]model.InventoryRecord, error) {
	q := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(forCompany(companyID)).
		Where("variation_id = ? AND location_type = ?", variationID, locType)
	if locName != "" {
		q = q.Where("location_name = ?", locName)
	}

	var records []model.InventoryRecord
	err := q.Order("quantity DESC").Find(&records).Error
	return records, err
}

func (r *inventoryRepo) Save(ctx context.Context, record *model.InventoryRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *inventoryRepo) CreateMovement(ctx context.Context, movement *model.InventoryTransaction) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *inventoryRepo) FindMovements(ctx context.Context, companyID uuid.UUID, productID *uuid.UUID, limit int) ([]model.InventoryTransaction, error) {
	q := r.db.WithContext(ctx).Scopes(forCompany(companyID))
	if productID != nil {
		q = q.Where("product_id = ?", *productID)
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var movements []model.InventoryTransaction
	err := q.Order("created_at DESC").Limit(limit).Find(&movements).Error
	return movements, err
}

func (r *inventoryRepo) StockLevels(ctx context.Context, companyID uuid.UUID) ([]StockLevel, error) {
	rows, err := r.db.WithContext(ctx).
		Table("inventory AS i").
		Select(`i.product_id, i.variation_id, p.name,
			COALESCE(v.name, ?) as variation_name,
			COALESCE(SUM(i.quantity), 0) as total,
			COALESCE(MAX(i.min_stock), 0) as min_stock`, model.DefaultVariationName).
		Joins("JOIN products p ON p.id = i.product_id").
		Joins("LEFT JOIN product_variations v ON v.id = i.variation_id").
		Where("i.company_id = ? AND p.is_active = ?", companyID, true).
		Group("i.product_id, i.variation_id, p.name, v.name").
		Order("total ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []StockLevel
	for rows.Next() {
		var l StockLevel
		if err := rows.Scan(&l.ProductID, &l.VariationID, &l.ProductName, &l.VariationName, &l.Total, &l.MinStock); err != nil {
			return nil, err
		}
		levels = append(levels, l)
	}
	return levels, rows.Err()
}
