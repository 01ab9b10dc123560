package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"umkm-pos/internal/model"
	"umkm-pos/internal/repository"
)

type UpdateCompanyRequest struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Address *string `json:"address"`
	Phone   *string `json:"phone" validate:"omitempty,max=30"`
	Email   *string `json:"email" validate:"omitempty,email"`
	LogoURL *string `json:"logo_url" validate:"omitempty,url"`
}

type CompanyService interface {
	// Directory lists the active companies a new user can join.
	Directory(ctx context.Context) ([]model.CompanyRef, error)
	GetCompany(ctx context.Context, actor Actor, id uuid.UUID) (*model.Company, error)
	UpdateCurrent(ctx context.Context, actor Actor, req *UpdateCompanyRequest) (*model.Company, error)
}

type companyService struct {
	companyRepo repository.CompanyRepository
	profiles    ProfileCache
}

func NewCompanyService(companyRepo repository.CompanyRepository, profiles ProfileCache) CompanyService {
	return &companyService{companyRepo: companyRepo, profiles: profiles}
}

func (s *companyService) Directory(ctx context.Context) ([]model.CompanyRef, error) {
	companies, err := s.companyRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.CompanyRef, 0, len(companies))
	for i := range companies {
		out = append(out, *companies[i].Ref())
	}
	return out, nil
}

// GetCompany only ever returns the caller's own company.
func (s *companyService) GetCompany(ctx context.Context, actor Actor, id uuid.UUID) (*model.Company, error) {
	if id != actor.CompanyID {
		return nil, ErrCompanyNotFound
	}
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCompanyNotFound)
	}
	return company, nil
}

func (s *companyService) UpdateCurrent(ctx context.Context, actor Actor, req *UpdateCompanyRequest) (*model.Company, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(req); err != nil {
		return nil, err
	}

	company, err := s.companyRepo.FindByID(ctx, actor.CompanyID)
	if err != nil {
		return nil, notFound(err, ErrCompanyNotFound)
	}
	company.Name = req.Name
	company.Address = req.Address
	company.Phone = req.Phone
	company.Email = req.Email
	company.LogoURL = req.LogoURL
	company.UpdatedBy = actor.audit()

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}
	// Profiles embed the company name.
	s.profiles.Clear()
	return company, nil
}
