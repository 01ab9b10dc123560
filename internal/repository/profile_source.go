package repository

import (
	"context"

	"github.com/google/uuid"

	"umkm-pos/internal/model"
)

// ProfileSource reads the user and company rows a profile is built from.
type ProfileSource struct {
	users     UserRepository
	companies CompanyRepository
}

func NewProfileSource(users UserRepository, companies CompanyRepository) *ProfileSource {
	return &ProfileSource{users: users, companies: companies}
}

func (s *ProfileSource) FindUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *ProfileSource) FindCompany(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	return s.companies.FindByID(ctx, id)
}
