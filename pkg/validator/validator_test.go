package validator

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/uuid"
)

type sample struct {
	ID    uuid.UUID `validate:"uuid_required"`
	Slug  string    `validate:"omitempty,slug"`
	Email string    `validate:"required,email"`
}

func TestValidateStruct(t *testing.T) {
	c := qt.New(t)

	errs := ValidateStruct(sample{ID: uuid.New(), Slug: "toko-makmur", Email: "a@b.id"})
	c.Assert(errs, qt.HasLen, 0)

	errs = ValidateStruct(sample{Slug: "Toko Makmur", Email: "x"})
	c.Assert(errs, qt.HasLen, 3)
	c.Assert(errs[0].FailedField, qt.Equals, "sample.ID")
	c.Assert(errs[0].Tag, qt.Equals, "uuid_required")
	c.Assert(Summary(errs), qt.Contains, "field 'sample.Slug' failed on tag 'slug'")
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Toko Makmur":        "toko-makmur",
		"  Warung  Bu Sri! ": "warung-bu-sri",
		"UD. Sumber Rejeki":  "ud-sumber-rejeki",
		"---":                "",
		"Toko 99":            "toko-99",
	}
	for in, want := range tests {
		qt.Assert(t, Slugify(in), qt.Equals, want, qt.Commentf("input %q", in))
	}
}
