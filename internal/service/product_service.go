package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"umkm-pos/internal/model"
	"umkm-pos/internal/repository"
	"umkm-pos/internal/ws"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSKUTaken        = errors.New("SKU already exists")
	ErrInvalidPrice    = errors.New("prices must not be negative")
)

type VariationInput struct {
	ID              *uuid.UUID       `json:"id,omitempty"`
	Name            string           `json:"name" validate:"required,max=100"`
	SKU             *string          `json:"sku" validate:"omitempty,max=50"`
	Barcode         *string          `json:"barcode" validate:"omitempty,max=64"`
	Price           decimal.Decimal  `json:"price"`
	WholesalePrice  *decimal.Decimal `json:"wholesale_price,omitempty"`
	MinWholesaleQty *int             `json:"min_wholesale_qty,omitempty" validate:"omitempty,gte=1"`
}

type ProductRequest struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Description *string          `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	Cost        decimal.Decimal  `json:"cost"`
	SKU         *string          `json:"sku" validate:"omitempty,max=50"`
	Barcode     *string          `json:"barcode" validate:"omitempty,max=64"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	ImageURL    *string          `json:"image_url" validate:"omitempty,url"`
	Variations  []VariationInput `json:"variations" validate:"dive"`
}

func (r *ProductRequest) checkPrices() error {
	if r.Price.IsNegative() || r.Cost.IsNegative() {
		return ErrInvalidPrice
	}
	for _, v := range r.Variations {
		if v.Price.IsNegative() || (v.WholesalePrice != nil && v.WholesalePrice.IsNegative()) {
			return ErrInvalidPrice
		}
	}
	return nil
}

func (v VariationInput) toModel(productID uuid.UUID, audit string) model.ProductVariation {
	out := model.ProductVariation{
		ProductID:       productID,
		Name:            strings.TrimSpace(v.Name),
		SKU:             v.SKU,
		Barcode:         v.Barcode,
		Price:           v.Price,
		MinWholesaleQty: v.MinWholesaleQty,
		IsActive:        true,
	}
	if v.ID != nil {
		out.ID = *v.ID
	}
	if v.WholesalePrice != nil {
		out.WholesalePrice = decimal.NewNullDecimal(*v.WholesalePrice)
	}
	out.CreatedBy = audit
	out.UpdatedBy = audit
	return out
}

type ProductService interface {
	List(ctx context.Context, actor Actor, filter repository.ProductFilter) ([]model.Product, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*model.Product, error)
	Create(ctx context.Context, actor Actor, req *ProductRequest) (*model.Product, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req *ProductRequest) (*model.Product, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	hub          Broadcaster
}

func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, hub Broadcaster) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		hub:          hub,
	}
}

func (s *productService) List(ctx context.Context, actor Actor, filter repository.ProductFilter) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx, actor.CompanyID, filter)
}

func (s *productService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	return product, nil
}

func (s *productService) checkRequest(ctx context.Context, actor Actor, req *ProductRequest, self uuid.UUID) error {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(req); err != nil {
		return err
	}
	if err := req.checkPrices(); err != nil {
		return err
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, actor.CompanyID, *req.CategoryID); err != nil {
			return notFound(err, ErrCategoryNotFound)
		}
	}
	if req.SKU != nil && *req.SKU != "" {
		existing, err := s.productRepo.FindBySKU(ctx, actor.CompanyID, *req.SKU)
		if err == nil && existing.ID != self {
			return ErrSKUTaken
		}
	}
	return nil
}

func (s *productService) Create(ctx context.Context, actor Actor, req *ProductRequest) (*model.Product, error) {
	if err := s.checkRequest(ctx, actor, req, uuid.Nil); err != nil {
		return nil, err
	}

	product := &model.Product{
		CompanyID:   actor.CompanyID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Cost:        req.Cost,
		SKU:         req.SKU,
		Barcode:     req.Barcode,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
		IsActive:    true,
	}
	product.CreatedBy = actor.audit()
	product.UpdatedBy = actor.audit()
	for _, v := range req.Variations {
		mv := v.toModel(uuid.Nil, actor.audit())
		mv.ID = uuid.Nil
		product.Variations = append(product.Variations, mv)
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.hub.Publish(actor.CompanyID, ws.Event{
		Type:    ws.EventCatalogUpdate,
		Action:  "product_created",
		Data:    productEventData(product),
		User:    actor.eventUser(),
		Message: fmt.Sprintf("%s menambahkan produk '%s'", actor.Email, product.Name),
	})
	return product, nil
}

func (s *productService) Update(ctx context.Context, actor Actor, id uuid.UUID, req *ProductRequest) (*model.Product, error) {
	existing, err := s.productRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	if err := s.checkRequest(ctx, actor, req, existing.ID); err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Price = req.Price
	existing.Cost = req.Cost
	existing.SKU = req.SKU
	existing.Barcode = req.Barcode
	existing.CategoryID = req.CategoryID
	existing.Category = nil
	existing.ImageURL = req.ImageURL
	existing.UpdatedBy = actor.audit()

	variations := make([]model.ProductVariation, 0, len(req.Variations))
	for _, v := range req.Variations {
		variations = append(variations, v.toModel(existing.ID, actor.audit()))
	}
	existing.Variations = variations

	if err := s.productRepo.Update(ctx, existing); err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}

	updated, err := s.productRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}

	s.hub.Publish(actor.CompanyID, ws.Event{
		Type:    ws.EventCatalogUpdate,
		Action:  "product_updated",
		Data:    productEventData(updated),
		User:    actor.eventUser(),
		Message: fmt.Sprintf("%s mengubah produk '%s'", actor.Email, updated.Name),
	})
	return updated, nil
}

// Delete hides the product; sales history keeps referring to it.
func (s *productService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := s.productRepo.Deactivate(ctx, actor.CompanyID, id, actor.audit()); err != nil {
		return notFound(err, ErrProductNotFound)
	}
	s.hub.Publish(actor.CompanyID, ws.Event{
		Type:   ws.EventCatalogUpdate,
		Action: "product_deleted",
		Data:   map[string]interface{}{"id": id},
		User:   actor.eventUser(),
	})
	return nil
}

func productEventData(p *model.Product) map[string]interface{} {
	return map[string]interface{}{
		"id":    p.ID,
		"sku":   p.SKU,
		"name":  p.Name,
		"price": p.Price,
	}
}
