package jwt

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestGenerateAndValidate(t *testing.T) {
	c := qt.New(t)
	s := NewSigner("secret", time.Hour)
	userID, companyID, sessionID := uuid.New(), uuid.New(), uuid.New()

	token, expiresAt, err := s.GenerateToken(userID, "kasir@toko.id", &companyID, sessionID)
	c.Assert(err, qt.IsNil)
	c.Assert(time.Until(expiresAt) > 59*time.Minute, qt.IsTrue)

	claims, err := s.ValidateToken(token)
	c.Assert(err, qt.IsNil)
	c.Assert(claims.UserID, qt.Equals, userID)
	c.Assert(claims.Email, qt.Equals, "kasir@toko.id")
	c.Assert(*claims.CompanyID, qt.Equals, companyID)
	sid, err := claims.SessionID()
	c.Assert(err, qt.IsNil)
	c.Assert(sid, qt.Equals, sessionID)
}

func TestValidateRejects(t *testing.T) {
	c := qt.New(t)
	s := NewSigner("secret", time.Hour)
	token, _, err := s.GenerateToken(uuid.New(), "a@b.id", nil, uuid.New())
	c.Assert(err, qt.IsNil)

	_, err = s.ValidateToken("")
	c.Assert(err, qt.ErrorIs, ErrMissingToken)

	_, err = NewSigner("other", time.Hour).ValidateToken(token)
	c.Assert(err, qt.ErrorIs, ErrInvalidToken)

	expired := NewSigner("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = expired.ValidateToken(token)
	c.Assert(err, qt.ErrorIs, ErrInvalidToken)

	none, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{Issuer: issuer},
	}).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	c.Assert(err, qt.IsNil)
	_, err = s.ValidateToken(none)
	c.Assert(err, qt.ErrorIs, ErrInvalidToken)
}

func TestDefaultTTL(t *testing.T) {
	qt.Assert(t, NewSigner("x", 0).TTL(), qt.Equals, 24*time.Hour)
}
