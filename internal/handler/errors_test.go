package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/gofiber/fiber/v2"

	"umkm-pos/internal/cart"
	"umkm-pos/internal/service"
	"umkm-pos/pkg/apperror"
	"umkm-pos/pkg/validator"
)

func TestFailMapsErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"credentials", service.ErrInvalidCredentials, fiber.StatusUnauthorized, apperror.CodeUnauthorized},
		{"no company", service.ErrNoCompany, fiber.StatusForbidden, apperror.CodeForbidden},
		{"pemilik role", service.ErrRoleNotAllowed, fiber.StatusForbidden, apperror.CodeForbidden},
		{"email taken", service.ErrEmailTaken, fiber.StatusConflict, apperror.CodeConflict},
		{"stock", fmt.Errorf("%w: Beras", service.ErrInsufficientStock), fiber.StatusConflict, apperror.CodeConflict},
		{"unknown item", fmt.Errorf("%w: product x", cart.ErrUnknownItem), fiber.StatusNotFound, apperror.CodeNotFound},
		{"grosir", cart.ErrWholesaleNotEligible, fiber.StatusBadRequest, apperror.CodeBadRequest},
		{"range", service.ErrInvalidRange, fiber.StatusBadRequest, apperror.CodeBadRequest},
		{"validation", &service.ValidationError{Errors: []*validator.ErrorResponse{{FailedField: "Items", Tag: "min"}}}, fiber.StatusBadRequest, apperror.CodeValidationFailed},
		{"api error passthrough", apperror.BadRequest("Invalid id"), fiber.StatusBadRequest, apperror.CodeBadRequest},
		{"unexpected", errors.New("connection reset"), fiber.StatusInternalServerError, apperror.CodeInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			app := fiber.New()
			app.Get("/", func(ctx *fiber.Ctx) error { return fail(ctx, tt.err) })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			c.Assert(err, qt.IsNil)
			c.Assert(resp.StatusCode, qt.Equals, tt.status)

			var body struct {
				Error apperror.APIError `json:"error"`
			}
			c.Assert(json.NewDecoder(resp.Body).Decode(&body), qt.IsNil)
			c.Assert(body.Error.Code, qt.Equals, tt.code)
			c.Assert(body.Error.Message, qt.Not(qt.Equals), "")
		})
	}
}

func TestHandlersRequireCompany(t *testing.T) {
	c := qt.New(t)
	app := fiber.New()
	// No profile in Locals: the actor cannot be built.
	app.Get("/transactions", NewSalesHandler(nil).GetTransactions)

	resp, err := app.Test(httptest.NewRequest("GET", "/transactions", nil))
	c.Assert(err, qt.IsNil)
	c.Assert(resp.StatusCode, qt.Equals, fiber.StatusForbidden)
}
