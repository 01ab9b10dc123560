package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"umkm-pos/internal/model"
	"umkm-pos/pkg/apperror"
	"umkm-pos/pkg/jwt"
)

// Keys under which RequireAuth stores request identity in fiber Locals.
const (
	LocalUserID    = "user_id"
	LocalUserEmail = "user_email"
	LocalClaims    = "claims"
	LocalProfile   = "profile"
)

// Authenticator validates a bearer token against its server-side session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*jwt.Claims, error)
}

// ProfileResolver resolves the profile of an authenticated user.
type ProfileResolver interface {
	GetCurrentProfile(ctx context.Context, userID uuid.UUID) (*model.UserProfile, error)
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		// Browsers cannot set headers on websocket upgrades.
		if t := c.Query("token"); t != "" {
			return t, true
		}
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth rejects requests without a valid session with 401. The user's
// profile is resolved and stored in Locals; when it cannot be resolved the
// request proceeds without one and every privilege check fails.
func RequireAuth(auth Authenticator, profiles ProfileResolver, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return apperror.Respond(c, apperror.Unauthorized("Missing authorization token. Use: Bearer <token>"))
		}

		claims, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			return apperror.Respond(c, apperror.Unauthorized("Sesi tidak valid atau sudah berakhir, silakan masuk kembali"))
		}

		c.Locals(LocalUserID, claims.UserID.String())
		c.Locals(LocalUserEmail, claims.Email)
		c.Locals(LocalClaims, claims)

		profile, err := profiles.GetCurrentProfile(c.UserContext(), claims.UserID)
		if err != nil {
			log.Warn().Err(err).
				Str("user_id", claims.UserID.String()).
				Msg("Profile unavailable, request continues without privileges")
			profile = nil
		}
		c.Locals(LocalProfile, profile)

		return c.Next()
	}
}

// ProfileFrom returns the profile stored by RequireAuth, or nil.
func ProfileFrom(c *fiber.Ctx) *model.UserProfile {
	p, _ := c.Locals(LocalProfile).(*model.UserProfile)
	return p
}

// ClaimsFrom returns the token claims stored by RequireAuth, or nil.
func ClaimsFrom(c *fiber.Ctx) *jwt.Claims {
	cl, _ := c.Locals(LocalClaims).(*jwt.Claims)
	return cl
}

// RequirePrivilege checks if the authenticated user has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ProfileFrom(c).Can(requiredPrivilege) {
			return c.Next()
		}
		return apperror.Respond(c, apperror.Forbidden("requires '"+requiredPrivilege+"' privilege"))
	}
}

// RequireAnyPrivilege checks if the user has at least one of the specified privileges
func RequireAnyPrivilege(requiredPrivileges ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		profile := ProfileFrom(c)
		for _, p := range requiredPrivileges {
			if profile.Can(p) {
				return c.Next()
			}
		}
		return apperror.Respond(c, apperror.Forbidden("requires one of "+strings.Join(requiredPrivileges, ", ")+" privileges"))
	}
}

// RequireCompany rejects users that are not bound to a company.
func RequireCompany() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ProfileFrom(c).HasCompany() {
			return c.Next()
		}
		return apperror.Respond(c, apperror.Forbidden("user is not assigned to a company"))
	}
}
