package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"umkm-pos/internal/model"
	"umkm-pos/internal/repository"
)

var ErrCategoryNotFound = errors.New("category not found")

type CategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description"`
	Icon        *string `json:"icon" validate:"omitempty,max=16"`
}

type CategoryService interface {
	List(ctx context.Context, actor Actor) ([]model.Category, error)
	Create(ctx context.Context, actor Actor, req *CategoryRequest) (*model.Category, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req *CategoryRequest) (*model.Category, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(ctx context.Context, actor Actor) ([]model.Category, error) {
	return s.categoryRepo.FindAll(ctx, actor.CompanyID)
}

func (s *categoryService) Create(ctx context.Context, actor Actor, req *CategoryRequest) (*model.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(req); err != nil {
		return nil, err
	}
	category := &model.Category{
		CompanyID:   actor.CompanyID,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		IsActive:    true,
	}
	category.CreatedBy = actor.audit()
	category.UpdatedBy = actor.audit()
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, actor Actor, id uuid.UUID, req *CategoryRequest) (*model.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(req); err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, notFound(err, ErrCategoryNotFound)
	}
	category.Name = req.Name
	category.Description = req.Description
	category.Icon = req.Icon
	category.UpdatedBy = actor.audit()
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	return notFound(s.categoryRepo.Deactivate(ctx, actor.CompanyID, id, actor.audit()), ErrCategoryNotFound)
}
