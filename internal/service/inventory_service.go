package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"umkm-pos/internal/model"
	"umkm-pos/internal/repository"
	"umkm-pos/internal/ws"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock remaining")
	ErrVariationNotFound = errors.New("variation not found")
	ErrInvalidAdjustment = errors.New("invalid stock adjustment")
)

// DefaultMinStock is the low-stock threshold for records without one.
const DefaultMinStock = 10

type AdjustRequest struct {
	ProductID    uuid.UUID             `json:"product_id" validate:"uuid_required"`
	VariationID  uuid.UUID             `json:"variation_id" validate:"uuid_required"`
	LocationType model.LocationType    `json:"location_type" validate:"required,oneof=warehouse store"`
	LocationName string                `json:"location_name" validate:"required,max=100"`
	Type         model.InventoryTxType `json:"type" validate:"required,oneof=in out adjustment"`
	Quantity     int                   `json:"quantity" validate:"gte=0"`
	MinStock     *int                  `json:"min_stock,omitempty" validate:"omitempty,gte=0"`
	MaxStock     *int                  `json:"max_stock,omitempty" validate:"omitempty,gte=0"`
	Notes        *string               `json:"notes,omitempty"`
}

// StockSummary is the total stock of a variation with its status.
type StockSummary struct {
	repository.StockLevel
	Status      model.StockStatus `json:"status"`
	StatusLabel string            `json:"status_label"`
}

func newStockSummary(l repository.StockLevel) StockSummary {
	threshold := l.MinStock
	if threshold <= 0 {
		threshold = DefaultMinStock
	}
	status := model.ClassifyStock(l.Total, threshold)
	return StockSummary{StockLevel: l, Status: status, StatusLabel: status.Label()}
}

type InventoryService interface {
	List(ctx context.Context, actor Actor, filter repository.InventoryFilter) ([]model.InventoryRecord, error)
	Summary(ctx context.Context, actor Actor) ([]StockSummary, error)
	Locations(ctx context.Context, actor Actor, locType model.LocationType) ([]repository.LocationSummary, error)
	Adjust(ctx context.Context, actor Actor, req *AdjustRequest) (*model.InventoryRecord, error)
	Movements(ctx context.Context, actor Actor, productID *uuid.UUID, limit int) ([]model.InventoryTransaction, error)
}

type inventoryService struct {
	db            *gorm.DB
	inventoryRepo repository.InventoryRepository
	productRepo   repository.ProductRepository
	hub           Broadcaster
	log           zerolog.Logger
}

func NewInventoryService(db *gorm.DB, inventoryRepo repository.InventoryRepository, productRepo repository.ProductRepository, hub Broadcaster, log zerolog.Logger) InventoryService {
	return &inventoryService{
		db:            db,
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
		hub:           hub,
		log:           log.With().Str("service", "inventory").Logger(),
	}
}

func (s *inventoryService) List(ctx context.Context, actor Actor, filter repository.InventoryFilter) ([]model.InventoryRecord, error) {
	return s.inventoryRepo.FindAll(ctx, actor.CompanyID, filter)
}

func (s *inventoryService) Summary(ctx context.Context, actor Actor) ([]StockSummary, error) {
	levels, err := s.inventoryRepo.StockLevels(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]StockSummary, 0, len(levels))
	for _, l := range levels {
		out = append(out, newStockSummary(l))
	}
	return out, nil
}

func (s *inventoryService) Locations(ctx context.Context, actor Actor, locType model.LocationType) ([]repository.LocationSummary, error) {
	if locType != "" && !locType.Valid() {
		return nil, ErrInvalidAdjustment
	}
	return s.inventoryRepo.Locations(ctx, actor.CompanyID, locType)
}

func (s *inventoryService) Movements(ctx context.Context, actor Actor, productID *uuid.UUID, limit int) ([]model.InventoryTransaction, error) {
	return s.inventoryRepo.FindMovements(ctx, actor.CompanyID, productID, limit)
}

// Adjust applies a stock movement at one location. "in" and "out" move by
// Quantity, "adjustment" sets the count to Quantity. A record is created the
// first time a location receives the variation.
func (s *inventoryService) Adjust(ctx context.Context, actor Actor, req *AdjustRequest) (*model.InventoryRecord, error) {
	req.LocationName = strings.TrimSpace(req.LocationName)
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.Type != model.InvTxAdjustment && req.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidAdjustment)
	}

	var (
		record   model.InventoryRecord
		previous int
		product  *model.Product
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		product, err = s.productRepo.WithTx(tx).FindByID(ctx, actor.CompanyID, req.ProductID)
		if err != nil {
			return notFound(err, ErrProductNotFound)
		}
		if _, ok := product.FindVariation(req.VariationID); !ok {
			return ErrVariationNotFound
		}

		inv := s.inventoryRepo.WithTx(tx)
		records, err := inv.LockRecords(ctx, actor.CompanyID, req.VariationID, req.LocationType, req.LocationName)
		if err != nil {
			return err
		}
		if len(records) > 0 {
			record = records[0]
		} else {
			record = model.InventoryRecord{
				CompanyID:    actor.CompanyID,
				ProductID:    product.ID,
				VariationID:  req.VariationID,
				LocationType: req.LocationType,
				LocationName: req.LocationName,
			}
			record.CreatedBy = actor.audit()
		}

		previous = record.Quantity
		switch req.Type {
		case model.InvTxIn:
			record.Quantity += req.Quantity
		case model.InvTxOut:
			if record.Quantity < req.Quantity {
				return ErrInsufficientStock
			}
			record.Quantity -= req.Quantity
		case model.InvTxAdjustment:
			record.Quantity = req.Quantity
		}
		if req.MinStock != nil {
			record.MinStock = req.MinStock
		}
		if req.MaxStock != nil {
			record.MaxStock = req.MaxStock
		}
		record.UpdatedBy = actor.audit()

		if err := inv.Save(ctx, &record); err != nil {
			return err
		}

		movement := &model.InventoryTransaction{
			CompanyID:        actor.CompanyID,
			ProductID:        product.ID,
			VariationID:      req.VariationID,
			LocationType:     req.LocationType,
			LocationName:     req.LocationName,
			TransactionType:  req.Type,
			Quantity:         req.Quantity,
			PreviousQuantity: previous,
			Notes:            req.Notes,
		}
		movement.CreatedBy = actor.audit()
		movement.UpdatedBy = actor.audit()
		return inv.CreateMovement(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", actor.UserID.String()).
		Str("variation_id", req.VariationID.String()).
		Str("type", string(req.Type)).
		Int("previous", previous).
		Int("quantity", record.Quantity).
		Msg("Stock adjusted")

	s.hub.Publish(actor.CompanyID, ws.Event{
		Type:   ws.EventStockUpdate,
		Action: "stock_" + string(req.Type),
		Data: map[string]interface{}{
			"product_id":    product.ID,
			"variation_id":  req.VariationID,
			"location_type": req.LocationType,
			"location_name": req.LocationName,
			"old_stock":     previous,
			"new_stock":     record.Quantity,
		},
		User:    actor.eventUser(),
		Message: fmt.Sprintf("%s: stok '%s' di %s %d → %d", actor.Email, product.Name, req.LocationName, previous, record.Quantity),
	})
	return &record, nil
}
