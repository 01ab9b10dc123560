package main

import (
	"bytes"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"umkm-pos/internal/cart"
)

func TestParseItem(t *testing.T) {
	pid, vid := uuid.New(), uuid.New()

	tests := []struct {
		name    string
		in      string
		want    cart.Item
		wantErr string
	}{
		{
			name: "retail",
			in:   pid.String() + ":" + vid.String() + ":3",
			want: cart.Item{ProductID: pid, VariationID: vid, Quantity: 3},
		},
		{
			name: "grosir",
			in:   pid.String() + ":" + vid.String() + ":12:grosir",
			want: cart.Item{ProductID: pid, VariationID: vid, Quantity: 12, Wholesale: true},
		},
		{
			name: "default variation",
			in:   pid.String() + "::1",
			want: cart.Item{ProductID: pid, VariationID: pid, Quantity: 1},
		},
		{name: "zero quantity", in: pid.String() + "::0", wantErr: ".*quantity must be a positive number"},
		{name: "missing quantity", in: pid.String(), wantErr: ".*want product_id:variation_id:qty.*"},
		{name: "bad product", in: "abc::1", wantErr: ".*bad product id.*"},
		{name: "bad price type", in: pid.String() + "::1:diskon", wantErr: `.*unknown price type "diskon"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			got, err := parseItem(tt.in)
			if tt.wantErr != "" {
				c.Assert(err, qt.ErrorMatches, tt.wantErr)
				return
			}
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.Equals, tt.want)
		})
	}
}

func TestParseItemsRequiresOne(t *testing.T) {
	c := qt.New(t)
	_, err := parseItems(nil)
	c.Assert(err, qt.ErrorMatches, "at least one --item is required")
}

func TestPrintQuote(t *testing.T) {
	c := qt.New(t)
	q := &cart.Quote{
		Lines: []cart.QuoteLine{{
			ProductName:   "Beras Premium",
			VariationName: "5 kg",
			Quantity:      1,
			UnitPrice:     decimal.NewFromInt(75000),
			LineTotal:     decimal.NewFromInt(75000),
		}},
		ItemCount: 1,
		TaxRate:   decimal.RequireFromString("0.11"),
		Subtotal:  decimal.NewFromInt(75000),
		Tax:       decimal.NewFromInt(8250),
		Total:     decimal.NewFromInt(83250),
	}

	var buf bytes.Buffer
	printQuote(&buf, q)
	out := buf.String()
	c.Assert(out, qt.Contains, "Beras Premium (5 kg)")
	c.Assert(out, qt.Contains, "Retail")
	c.Assert(out, qt.Contains, "PPN 11%")
	c.Assert(out, qt.Contains, "Rp 83.250")
}
