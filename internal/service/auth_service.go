package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"umkm-pos/internal/model"
	"umkm-pos/internal/repository"
	"umkm-pos/internal/session"
	"umkm-pos/pkg/database"
	"umkm-pos/pkg/jwt"
	"umkm-pos/pkg/validator"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrSessionInvalid     = errors.New("session expired or revoked")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSlugTaken          = errors.New("company slug already in use")
	ErrCompanyNotFound    = errors.New("company not found")
	ErrPasswordMismatch   = errors.New("passwords do not match")
)

const (
	SignupNew  = "new"
	SignupJoin = "join"
)

type RegisterRequest struct {
	Email           string     `json:"email" validate:"required,email,max=255"`
	Password        string     `json:"password" validate:"required,min=6"`
	ConfirmPassword string     `json:"confirm_password" validate:"required"`
	Nama            string     `json:"nama" validate:"required,max=255"`
	SignupType      string     `json:"signup_type" validate:"required,oneof=new join"`
	CompanyName     string     `json:"company_name" validate:"required_if=SignupType new,max=255"`
	CompanySlug     string     `json:"company_slug" validate:"omitempty,slug,max=100"`
	CompanyAddress  string     `json:"company_address"`
	CompanyPhone    string     `json:"company_phone" validate:"max=30"`
	CompanyID       *uuid.UUID `json:"company_id" validate:"required_if=SignupType join"`
}

type ChangePasswordRequest struct {
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// SessionResponse is the credential handed to clients.
type SessionResponse struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresAt   time.Time        `json:"expires_at"`
	ExpiresIn   int64            `json:"expires_in"`
	User        session.AuthUser `json:"user"`
}

type AuthResult struct {
	Session SessionResponse    `json:"session"`
	Profile *model.UserProfile `json:"profile"`
}

type AuthService interface {
	Login(ctx context.Context, email, password, userAgent string) (*AuthResult, error)
	Register(ctx context.Context, req *RegisterRequest, userAgent string) (*AuthResult, error)
	// Authenticate validates a bearer token against its server-side session.
	Authenticate(ctx context.Context, token string) (*jwt.Claims, error)
	Refresh(ctx context.Context, claims *jwt.Claims, userAgent string) (*SessionResponse, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
	ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error
}

type authService struct {
	db          *gorm.DB
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	sessionRepo repository.SessionRepository
	signer      *jwt.Signer
	resolver    *session.Resolver
	log         zerolog.Logger
	now         func() time.Time
}

func NewAuthService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	companyRepo repository.CompanyRepository,
	sessionRepo repository.SessionRepository,
	signer *jwt.Signer,
	resolver *session.Resolver,
	log zerolog.Logger,
) AuthService {
	return &authService{
		db:          db,
		userRepo:    userRepo,
		companyRepo: companyRepo,
		sessionRepo: sessionRepo,
		signer:      signer,
		resolver:    resolver,
		log:         log.With().Str("service", "auth").Logger(),
		now:         time.Now,
	}
}

func (s *authService) Login(ctx context.Context, email, password, userAgent string) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return s.signIn(ctx, user, userAgent)
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest, userAgent string) (*AuthResult, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Nama = strings.TrimSpace(req.Nama)
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	if req.SignupType == SignupNew && req.CompanySlug == "" {
		req.CompanySlug = validator.Slugify(req.CompanyName)
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !database.IsNotFound(err) {
		return nil, err
	}

	nama := req.Nama
	user := &model.User{
		Email:    req.Email,
		Nama:     &nama,
		IsActive: true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// Company and owner are created together so a failed user insert never
	// leaves an orphaned company behind.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		companies := s.companyRepo.WithTx(tx)
		users := s.userRepo.WithTx(tx)

		switch req.SignupType {
		case SignupNew:
			company := &model.Company{
				Name:             req.CompanyName,
				Slug:             req.CompanySlug,
				Address:          strPtr(req.CompanyAddress),
				Phone:            strPtr(req.CompanyPhone),
				Email:            &req.Email,
				SubscriptionPlan: "free",
				IsActive:         true,
			}
			company.CreatedBy = req.Email
			company.UpdatedBy = req.Email
			if err := companies.Create(ctx, company); err != nil {
				if database.IsUniqueViolation(err) {
					return ErrSlugTaken
				}
				return err
			}
			user.CompanyID = &company.ID
			user.Role = model.RolePemilik

		case SignupJoin:
			company, err := companies.FindByID(ctx, *req.CompanyID)
			if err != nil {
				return notFound(err, ErrCompanyNotFound)
			}
			if !company.IsActive {
				return ErrCompanyNotFound
			}
			user.CompanyID = &company.ID
			user.Role = model.RoleUser
		}

		user.CreatedBy = req.Email
		user.UpdatedBy = req.Email
		if err := users.Create(ctx, user); err != nil {
			if database.IsUniqueViolation(err) {
				return ErrEmailTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", user.ID.String()).
		Str("signup_type", req.SignupType).
		Msg("User registered")

	return s.signIn(ctx, user, userAgent)
}

func (s *authService) signIn(ctx context.Context, user *model.User, userAgent string) (*AuthResult, error) {
	sess, err := s.issue(ctx, user, userAgent)
	if err != nil {
		return nil, err
	}

	// Login always re-reads the profile so role changes show up immediately.
	s.resolver.Invalidate(user.ID)
	profile, err := s.resolver.GetCurrentProfile(ctx, user.ID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("Profile unavailable at sign in")
		profile = nil
	}
	return &AuthResult{Session: *sess, Profile: profile}, nil
}

func (s *authService) issue(ctx context.Context, user *model.User, userAgent string) (*SessionResponse, error) {
	now := s.now()
	row := &model.AuthSession{
		ID:        uuid.New(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.signer.TTL()),
		UserAgent: truncate(userAgent, 255),
	}

	token, expiresAt, err := s.signer.GenerateToken(user.ID, user.Email, user.CompanyID, row.ID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	row.ExpiresAt = expiresAt
	if err := s.sessionRepo.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return &SessionResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		ExpiresIn:   int64(expiresAt.Sub(now).Seconds()),
		User:        session.AuthUser{ID: user.ID, Email: user.Email},
	}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.signer.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	sid, err := claims.SessionID()
	if err != nil {
		return nil, jwt.ErrInvalidToken
	}

	row, err := s.sessionRepo.FindByID(ctx, sid)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrSessionInvalid
		}
		return nil, err
	}
	if row.UserID != claims.UserID || !row.Active(s.now()) {
		return nil, ErrSessionInvalid
	}
	return claims, nil
}

func (s *authService) Refresh(ctx context.Context, claims *jwt.Claims, userAgent string) (*SessionResponse, error) {
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	sess, err := s.issue(ctx, user, userAgent)
	if err != nil {
		return nil, err
	}
	if sid, err := claims.SessionID(); err == nil {
		if err := s.sessionRepo.Revoke(ctx, sid, s.now()); err != nil {
			s.log.Error().Err(err).Str("session_id", sid.String()).Msg("Failed to revoke refreshed session")
		}
	}
	return sess, nil
}

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	sid, err := claims.SessionID()
	if err != nil {
		return jwt.ErrInvalidToken
	}
	if err := s.sessionRepo.Revoke(ctx, sid, s.now()); err != nil {
		return err
	}
	s.resolver.Invalidate(claims.UserID)
	return nil
}

// ChangePassword replaces the password of userID. Existing sessions stay valid.
func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	if req.Password != req.ConfirmPassword {
		return ErrPasswordMismatch
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}
	if err := user.SetPassword(req.Password); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return err
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
