package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"umkm-pos/internal/model"
	"umkm-pos/internal/repository"
	"umkm-pos/pkg/database"
)

var (
	ErrRoleNotAllowed = errors.New("role cannot be assigned by this user")
	ErrCannotEditSelf = errors.New("users cannot change their own role or status")
	ErrInvalidRole    = errors.New("unknown role")
)

type UserService interface {
	GetAllUsers(ctx context.Context, actor Actor) ([]model.UserResponse, error)
	GetUserByID(ctx context.Context, actor Actor, id uuid.UUID) (*model.UserResponse, error)
	// GetSelf reads the caller's own user, with or without a company.
	GetSelf(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)
	CreateUser(ctx context.Context, actor Actor, req *CreateUserRequest) (*model.User, error)
	UpdateUser(ctx context.Context, actor Actor, id uuid.UUID, req *UpdateUserRequest) (*model.User, error)
	DeleteUser(ctx context.Context, actor Actor, id uuid.UUID) error
}

type CreateUserRequest struct {
	Email    string     `json:"email" validate:"required,email,max=255"`
	Password string     `json:"password" validate:"required,min=6"`
	Nama     string     `json:"nama" validate:"required,max=255"`
	Role     model.Role `json:"role" validate:"required"`
}

type UpdateUserRequest struct {
	Nama     *string     `json:"nama,omitempty" validate:"omitempty,max=255"`
	Password *string     `json:"password,omitempty" validate:"omitempty,min=6"`
	Role     *model.Role `json:"role,omitempty"`
	IsActive *bool       `json:"is_active,omitempty"`
}

type userService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	profiles    ProfileCache
	now         func() time.Time
}

func NewUserService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, profiles ProfileCache) UserService {
	return &userService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		profiles:    profiles,
		now:         time.Now,
	}
}

// canAssign reports whether actor may give a user the role. Only the owner
// hands out the owner role.
func canAssign(actor Actor, role model.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	if role == model.RolePemilik && actor.Role != model.RolePemilik {
		return ErrRoleNotAllowed
	}
	return nil
}

func (s *userService) GetAllUsers(ctx context.Context, actor Actor) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindByCompany(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]model.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToResponse())
	}
	return out, nil
}

func (s *userService) GetUserByID(ctx context.Context, actor Actor, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindInCompany(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) GetSelf(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) CreateUser(ctx context.Context, actor Actor, req *CreateUserRequest) (*model.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := canAssign(actor, req.Role); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !database.IsNotFound(err) {
		return nil, err
	}

	companyID := actor.CompanyID
	nama := strings.TrimSpace(req.Nama)
	user := &model.User{
		Email:     req.Email,
		Nama:      &nama,
		Role:      req.Role,
		CompanyID: &companyID,
		IsActive:  true,
	}
	user.CreatedBy = actor.audit()
	user.UpdatedBy = actor.audit()
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, actor Actor, id uuid.UUID, req *UpdateUserRequest) (*model.User, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindInCompany(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	if id == actor.UserID && (req.Role != nil || req.IsActive != nil) {
		return nil, ErrCannotEditSelf
	}
	// Only the owner may touch another owner's account.
	if user.Role == model.RolePemilik && actor.Role != model.RolePemilik {
		return nil, ErrRoleNotAllowed
	}

	if req.Nama != nil {
		nama := strings.TrimSpace(*req.Nama)
		user.Nama = &nama
	}
	if req.Role != nil {
		if err := canAssign(actor, *req.Role); err != nil {
			return nil, err
		}
		user.Role = *req.Role
	}
	if req.Password != nil {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}
	deactivated := false
	if req.IsActive != nil {
		deactivated = user.IsActive && !*req.IsActive
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = actor.audit()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.profiles.Invalidate(user.ID)
	if deactivated || req.Password != nil {
		if err := s.sessionRepo.RevokeAllForUser(ctx, user.ID, s.now()); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// DeleteUser deactivates a user and ends their sessions.
func (s *userService) DeleteUser(ctx context.Context, actor Actor, id uuid.UUID) error {
	if id == actor.UserID {
		return ErrCannotEditSelf
	}
	user, err := s.userRepo.FindInCompany(ctx, actor.CompanyID, id)
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}
	if user.Role == model.RolePemilik && actor.Role != model.RolePemilik {
		return ErrRoleNotAllowed
	}

	if err := s.userRepo.Deactivate(ctx, actor.CompanyID, id, actor.audit()); err != nil {
		return notFound(err, ErrUserNotFound)
	}
	s.profiles.Invalidate(id)
	return s.sessionRepo.RevokeAllForUser(ctx, id, s.now())
}
