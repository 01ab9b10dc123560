package client

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"umkm-pos/internal/model"
	"umkm-pos/internal/session"
)

// LoginResult is the body of a successful sign in.
type LoginResult struct {
	Session session.Session    `json:"session"`
	Profile *model.UserProfile `json:"profile"`
}

// Login signs in and persists the credential.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var result LoginResult
	body := fiber.Map{"email": email, "password": password}
	if err := c.do(ctx, fiber.MethodPost, "/auth/login", "", body, &result); err != nil {
		return nil, err
	}
	if err := c.store.Set(map[string]string{
		session.KeyAccessToken: result.Session.AccessToken,
		session.KeyExpiresAt:   result.Session.ExpiresAt.Format(time.RFC3339),
		session.KeyUserID:      result.Session.User.ID.String(),
		session.KeyUserEmail:   result.Session.User.Email,
	}); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetSession returns the stored session after checking it with the server.
// It returns nil without error when there is no usable credential.
func (c *Client) GetSession(ctx context.Context) (*session.Session, error) {
	token := c.token()
	if token == "" {
		return nil, nil
	}
	if raw, ok := c.store.Get(session.KeyExpiresAt); ok {
		if exp, err := time.Parse(time.RFC3339, raw); err == nil && !time.Now().Before(exp) {
			return nil, nil
		}
	}

	var resp struct {
		User    session.AuthUser `json:"user"`
		Session struct {
			ExpiresAt time.Time `json:"expires_at"`
		} `json:"session"`
	}
	if err := c.do(ctx, fiber.MethodGet, "/auth/session", token, nil, &resp); err != nil {
		if IsUnauthorized(err) {
			return nil, nil
		}
		return nil, err
	}
	return &session.Session{
		AccessToken: token,
		ExpiresAt:   resp.Session.ExpiresAt,
		User:        resp.User,
	}, nil
}

// SignOut revokes accessToken on the server. It does not touch the store.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return ErrNotSignedIn
	}
	return c.do(ctx, fiber.MethodPost, "/auth/logout", accessToken, nil, nil)
}

// ProfileSource resolves profiles through the API with the stored credential.
type ProfileSource struct {
	client *Client
}

func NewProfileSource(c *Client) *ProfileSource {
	return &ProfileSource{client: c}
}

func (s *ProfileSource) FindUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	token := s.client.token()
	if token == "" {
		return nil, ErrNotSignedIn
	}
	var resp model.UserResponse
	if err := s.client.do(ctx, fiber.MethodGet, "/users/"+id.String(), token, nil, &resp); err != nil {
		return nil, err
	}
	user := &model.User{
		Email:     resp.Email,
		Nama:      resp.Nama,
		Role:      resp.Role,
		CompanyID: resp.CompanyID,
		IsActive:  resp.IsActive,
	}
	user.ID = resp.ID
	return user, nil
}

func (s *ProfileSource) FindCompany(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	token := s.client.token()
	if token == "" {
		return nil, ErrNotSignedIn
	}
	var company model.Company
	if err := s.client.do(ctx, fiber.MethodGet, "/companies/"+id.String(), token, nil, &company); err != nil {
		return nil, err
	}
	return &company, nil
}
