package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"umkm-pos/internal/cart"
	"umkm-pos/internal/middleware"
	"umkm-pos/internal/service"
	"umkm-pos/pkg/apperror"
	"umkm-pos/pkg/jwt"
)

// toAPIError maps service errors onto the API error envelope. Unknown errors
// become a logged 500.
func toAPIError(c *fiber.Ctx, err error) *apperror.APIError {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return apperror.Validation(verr.Error())
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return apperror.Unauthorized("Email atau password salah")
	case errors.Is(err, service.ErrUserInactive):
		return apperror.Unauthorized("Akun Anda tidak aktif, hubungi pemilik toko")
	case errors.Is(err, service.ErrSessionInvalid), errors.Is(err, jwt.ErrInvalidToken):
		return apperror.Unauthorized("Sesi tidak valid atau sudah berakhir, silakan masuk kembali")

	case errors.Is(err, service.ErrNoCompany),
		errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrRoleNotAllowed),
		errors.Is(err, service.ErrCannotEditSelf):
		return apperror.Forbidden(err.Error())

	case errors.Is(err, service.ErrEmailTaken):
		return apperror.Conflict("Email sudah terdaftar")
	case errors.Is(err, service.ErrSlugTaken):
		return apperror.Conflict("Slug perusahaan sudah digunakan, silakan gunakan yang lain")
	case errors.Is(err, service.ErrSKUTaken):
		return apperror.Conflict("SKU sudah digunakan produk lain")
	case errors.Is(err, service.ErrInsufficientStock):
		return apperror.New(fiber.StatusConflict, apperror.CodeConflict, "Stok tidak mencukupi", err.Error())

	case errors.Is(err, service.ErrUserNotFound):
		return apperror.NotFound("Pengguna tidak ditemukan")
	case errors.Is(err, service.ErrCompanyNotFound):
		return apperror.NotFound("Perusahaan tidak ditemukan")
	case errors.Is(err, service.ErrCategoryNotFound):
		return apperror.NotFound("Kategori tidak ditemukan")
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrVariationNotFound),
		errors.Is(err, cart.ErrUnknownItem):
		return apperror.New(fiber.StatusNotFound, apperror.CodeNotFound, "Produk tidak ditemukan", err.Error())
	case errors.Is(err, service.ErrTransactionNotFound):
		return apperror.NotFound("Transaksi tidak ditemukan")

	case errors.Is(err, service.ErrPasswordMismatch):
		return apperror.BadRequest("Password tidak cocok")
	case errors.Is(err, cart.ErrWholesaleNotEligible):
		return apperror.New(fiber.StatusBadRequest, apperror.CodeBadRequest, "Jumlah belum memenuhi minimum grosir", err.Error())
	case errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidAdjustment),
		errors.Is(err, service.ErrPaymentMethod),
		errors.Is(err, service.ErrInvalidRange),
		errors.Is(err, cart.ErrInvalidQuantity):
		return apperror.BadRequest(err.Error())
	}

	event := log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path())
	if uid, ok := c.Locals(middleware.LocalUserID).(string); ok {
		event = event.Str("user_id", uid)
	}
	event.Msg("Request failed")
	return apperror.Internal()
}

func respondError(c *fiber.Ctx, err error) error {
	return apperror.Respond(c, toAPIError(c, err))
}

func invalidJSON(c *fiber.Ctx) error {
	return apperror.Respond(c, apperror.BadRequest("Invalid JSON"))
}

// actor builds the service caller from the resolved profile.
func actor(c *fiber.Ctx) (service.Actor, error) {
	return service.ActorFromProfile(middleware.ProfileFrom(c))
}

// paramID parses a uuid route parameter.
func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperror.BadRequest("Invalid " + name)
	}
	return id, nil
}

// queryID parses an optional uuid query parameter.
func queryID(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.BadRequest("Invalid " + name)
	}
	return &id, nil
}

// fail writes err, passing through errors that already are API errors.
func fail(c *fiber.Ctx, err error) error {
	var apiErr *apperror.APIError
	if errors.As(err, &apiErr) {
		return apperror.Respond(c, apiErr)
	}
	return respondError(c, err)
}
