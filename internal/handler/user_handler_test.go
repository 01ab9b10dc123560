package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"umkm-pos/internal/middleware"
	"umkm-pos/internal/model"
	"umkm-pos/internal/service"
)

type fakeUserService struct {
	service.UserService
	users map[uuid.UUID]*model.User
}

func (f *fakeUserService) GetSelf(_ context.Context, id uuid.UUID) (*model.UserResponse, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, service.ErrUserNotFound
	}
	resp := u.ToResponse()
	return &resp, nil
}

func newUserApp(profile *model.UserProfile, users *fakeUserService) *fiber.App {
	app := fiber.New()
	app.Get("/users/:id", func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalProfile, profile)
		return c.Next()
	}, NewUserHandler(users).GetUser)
	return app
}

func TestGetUserSelfWithoutCompany(t *testing.T) {
	c := qt.New(t)

	u := &model.User{Email: "baru@toko.id", Role: model.RoleUser, IsActive: true}
	u.ID = uuid.New()
	users := &fakeUserService{users: map[uuid.UUID]*model.User{u.ID: u}}
	app := newUserApp(model.NewUserProfile(u, nil), users)

	resp, err := app.Test(httptest.NewRequest("GET", "/users/"+u.ID.String(), nil))
	c.Assert(err, qt.IsNil)
	c.Assert(resp.StatusCode, qt.Equals, fiber.StatusOK)

	var body model.UserResponse
	c.Assert(json.NewDecoder(resp.Body).Decode(&body), qt.IsNil)
	c.Assert(body.ID, qt.Equals, u.ID)
	c.Assert(body.CompanyID, qt.IsNil)
}

func TestGetUserOtherWithoutCompanyIsForbidden(t *testing.T) {
	c := qt.New(t)

	u := &model.User{Email: "baru@toko.id", Role: model.RoleUser, IsActive: true}
	u.ID = uuid.New()
	app := newUserApp(model.NewUserProfile(u, nil), &fakeUserService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/users/"+uuid.New().String(), nil))
	c.Assert(err, qt.IsNil)
	c.Assert(resp.StatusCode, qt.Equals, fiber.StatusForbidden)
}
