package config

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestLoadDefaults(t *testing.T) {
	c := qt.New(t)
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.App.Port, qt.Equals, "3000")
	c.Assert(cfg.Sales.TaxRate.String(), qt.Equals, "0.11")
	c.Assert(cfg.Auth.TokenTTL, qt.Equals, 24*time.Hour)
	c.Assert(cfg.Database.DSN(), qt.Contains, "dbname=umkm_pos")
}

func TestLoadOverrides(t *testing.T) {
	c := qt.New(t)
	t.Setenv("PORT", "8080")
	t.Setenv("TAX_RATE", "0")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://kasir.example, ,https://admin.example")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/pos")

	cfg, err := Load()
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.App.Port, qt.Equals, "8080")
	c.Assert(cfg.Sales.TaxRate.IsZero(), qt.IsTrue)
	c.Assert(cfg.Auth.TokenTTL, qt.Equals, 2*time.Hour)
	c.Assert(cfg.App.CORSOrigins, qt.DeepEquals, []string{"https://kasir.example", "https://admin.example"})
	c.Assert(cfg.Database.DSN(), qt.Equals, "postgres://u:p@db:5432/pos")
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name, key, value, err string
	}{
		{"tax not a number", "TAX_RATE", "sebelas", `invalid TAX_RATE "sebelas".*`},
		{"tax above one", "TAX_RATE", "11", "TAX_RATE must be between 0 and 1, got 11"},
		{"bad ttl", "JWT_TTL", "sehari", `invalid JWT_TTL "sehari"`},
		{"default secret in production", "APP_ENV", "production", "JWT_SECRET must be set in production"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			qt.Assert(t, err, qt.ErrorMatches, tt.err)
		})
	}
}

func TestLoadClient(t *testing.T) {
	c := qt.New(t)
	t.Setenv("POSCTL_API_URL", "https://pos.example/api/v1/")
	t.Setenv("POSCTL_TIMEOUT", "5s")

	cfg, err := LoadClient()
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.APIURL, qt.Equals, "https://pos.example/api/v1")
	c.Assert(cfg.Timeout, qt.Equals, 5*time.Second)
}
