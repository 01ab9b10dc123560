// Package client talks to the POS API on behalf of posctl. It provides the
// auth provider and profile source the session manager runs on.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog"

	"umkm-pos/internal/session"
	"umkm-pos/pkg/apperror"
)

// ErrNotSignedIn is returned by calls that need a stored access token.
var ErrNotSignedIn = errors.New("not signed in")

// Client is a thin JSON client for /api/v1.
type Client struct {
	baseURL string
	timeout time.Duration
	store   session.CredentialStore
	log     zerolog.Logger
}

func New(baseURL string, timeout time.Duration, store session.CredentialStore, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		timeout: timeout,
		store:   store,
		log:     log.With().Str("component", "api_client").Logger(),
	}
}

// Store is the credential store the client reads its token from.
func (c *Client) Store() session.CredentialStore {
	return c.store
}

func (c *Client) token() string {
	t, _ := c.store.Get(session.KeyAccessToken)
	return t
}

// do sends one request. A non-empty token is sent as a bearer credential.
// Error responses are returned as *apperror.APIError.
func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	a.Timeout(timeout)
	if token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	if body != nil {
		a.JSON(body)
	}
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	start := time.Now()
	var (
		code int
		resp []byte
		errs []error
	)
	if out != nil {
		code, resp, errs = a.Struct(out)
	} else {
		code, resp, errs = a.Bytes()
	}
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status_code", code).
		Dur("latency", time.Since(start)).
		Msg("API call")

	// Error envelopes do not match out; the status decides first.
	if code >= fiber.StatusBadRequest {
		return decodeError(code, resp)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w", method, path, errors.Join(errs...))
	}
	return nil
}

func decodeError(code int, body []byte) error {
	var envelope struct {
		Error *apperror.APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error == nil {
		return apperror.New(code, "", utils.StatusMessage(code), string(body))
	}
	envelope.Error.StatusCode = code
	return envelope.Error
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *apperror.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == fiber.StatusUnauthorized
}
