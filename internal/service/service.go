package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"umkm-pos/internal/model"
	"umkm-pos/internal/ws"
	"umkm-pos/pkg/database"
	"umkm-pos/pkg/validator"
)

var (
	ErrNoCompany = errors.New("user is not assigned to a company")
	ErrForbidden = errors.New("operation not permitted")
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID    uuid.UUID
	Email     string
	Role      model.Role
	CompanyID uuid.UUID
}

// ActorFromProfile builds an Actor. Users without a company cannot act on
// company data.
func ActorFromProfile(p *model.UserProfile) (Actor, error) {
	if !p.HasCompany() {
		return Actor{}, ErrNoCompany
	}
	return Actor{
		UserID:    p.ID,
		Email:     p.Email,
		Role:      p.Role,
		CompanyID: *p.CompanyID,
	}, nil
}

func (a Actor) audit() string {
	return a.UserID.String()
}

func (a Actor) eventUser() *ws.EventUser {
	return &ws.EventUser{ID: a.UserID, Email: a.Email}
}

// ValidationError carries field-level validation failures.
type ValidationError struct {
	Errors []*validator.ErrorResponse
}

func (e *ValidationError) Error() string {
	return validator.Summary(e.Errors)
}

func validate(v interface{}) error {
	if errs := validator.ValidateStruct(v); len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// ProfileCache is the part of the profile resolver services need to keep it fresh.
type ProfileCache interface {
	Invalidate(userID uuid.UUID)
	Clear()
}

// Broadcaster delivers realtime events to one company's connected clients.
type Broadcaster interface {
	Publish(companyID uuid.UUID, event ws.Event)
}

// notFound maps a missing row to sentinel, passing other errors through.
func notFound(err, sentinel error) error {
	if database.IsNotFound(err) {
		return sentinel
	}
	return err
}

var jakarta = loadJakarta()

func loadJakarta() *time.Location {
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		return time.FixedZone("WIB", 7*60*60)
	}
	return loc
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
