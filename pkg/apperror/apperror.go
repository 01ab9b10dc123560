package apperror

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Common error codes.
const (
	CodeBadRequest          = "BAD_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeInternalServerError = "INTERNAL_SERVER_ERROR"
	CodeValidationFailed    = "VALIDATION_FAILED"
)

// APIError is the error body returned by every endpoint.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
}

func New(statusCode int, code, message, details string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Details:    details,
	}
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

func BadRequest(message string) *APIError {
	return New(http.StatusBadRequest, CodeBadRequest, message, "")
}

func Validation(details string) *APIError {
	return New(http.StatusBadRequest, CodeValidationFailed, "Data yang dikirim tidak valid", details)
}

func Unauthorized(message string) *APIError {
	return New(http.StatusUnauthorized, CodeUnauthorized, message, "")
}

func Forbidden(details string) *APIError {
	return New(http.StatusForbidden, CodeForbidden, "Anda tidak memiliki akses ke fitur ini", details)
}

func NotFound(message string) *APIError {
	return New(http.StatusNotFound, CodeNotFound, message, "")
}

func Conflict(message string) *APIError {
	return New(http.StatusConflict, CodeConflict, message, "")
}

func Internal() *APIError {
	return New(http.StatusInternalServerError, CodeInternalServerError, "Terjadi kesalahan pada server, silakan coba lagi", "")
}

// Respond writes err as {"error": {...}} with its status code.
func Respond(c *fiber.Ctx, err *APIError) error {
	return c.Status(err.StatusCode).JSON(fiber.Map{"error": err})
}
