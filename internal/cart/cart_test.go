package cart

import (
	"math/rand"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"umkm-pos/internal/model"
)

func intPtr(n int) *int { return &n }

func newProduct(name string, price int64, wholesale *int64, minQty *int) (*model.Product, model.ProductVariation) {
	p := &model.Product{Name: name, Price: decimal.NewFromInt(price), IsActive: true}
	p.ID = uuid.New()
	v := model.ProductVariation{
		ProductID:       p.ID,
		Name:            "Pcs",
		Price:           decimal.NewFromInt(price),
		MinWholesaleQty: minQty,
		IsActive:        true,
	}
	v.ID = uuid.New()
	if wholesale != nil {
		v.WholesalePrice = decimal.NewNullDecimal(decimal.NewFromInt(*wholesale))
	}
	p.Variations = []model.ProductVariation{v}
	return p, v
}

func TestWholesaleScenario(t *testing.T) {
	c := qt.New(t)

	wp := int64(12000)
	p, v := newProduct("Kopi Sachet", 15000, &wp, intPtr(10))
	cart := New(DefaultTaxRate)

	cart.AddLine(p, v)
	c.Assert(cart.SetQuantity(p.ID, v.ID, 5), qt.IsTrue)

	c.Assert(cart.ToggleWholesale(p.ID, v.ID), qt.IsFalse)
	line, ok := cart.Line(p.ID, v.ID)
	c.Assert(ok, qt.IsTrue)
	c.Assert(line.IsWholesale, qt.IsFalse)
	c.Assert(cart.Subtotal().String(), qt.Equals, "75000")
	c.Assert(cart.Tax().String(), qt.Equals, "8250")
	c.Assert(cart.Total().String(), qt.Equals, "83250")

	cart.SetQuantity(p.ID, v.ID, 10)
	c.Assert(cart.ToggleWholesale(p.ID, v.ID), qt.IsTrue)
	line, _ = cart.Line(p.ID, v.ID)
	c.Assert(line.IsWholesale, qt.IsTrue)
	c.Assert(line.UnitPrice().String(), qt.Equals, "12000")
	c.Assert(cart.Subtotal().String(), qt.Equals, "120000")
	c.Assert(cart.Total().String(), qt.Equals, "133200")
}

func TestSetQuantityRevertsWholesale(t *testing.T) {
	c := qt.New(t)

	wp := int64(12000)
	p, v := newProduct("Kopi Sachet", 15000, &wp, intPtr(10))
	cart := New(DefaultTaxRate)
	cart.AddLine(p, v)
	cart.SetQuantity(p.ID, v.ID, 12)
	c.Assert(cart.ToggleWholesale(p.ID, v.ID), qt.IsTrue)

	cart.SetQuantity(p.ID, v.ID, 9)
	line, _ := cart.Line(p.ID, v.ID)
	c.Assert(line.IsWholesale, qt.IsFalse)

	// Raising the quantity again never re-enables wholesale on its own.
	cart.SetQuantity(p.ID, v.ID, 20)
	line, _ = cart.Line(p.ID, v.ID)
	c.Assert(line.IsWholesale, qt.IsFalse)
}

func TestToggleWholesaleNoop(t *testing.T) {
	tests := []struct {
		name      string
		wholesale *int64
		minQty    *int
		qty       int
	}{
		{name: "no wholesale price", wholesale: nil, minQty: intPtr(1), qty: 50},
		{name: "below minimum", wholesale: func() *int64 { n := int64(9000); return &n }(), minQty: intPtr(6), qty: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			p, v := newProduct("Teh", 10000, tt.wholesale, tt.minQty)
			cart := New(DefaultTaxRate)
			cart.AddLine(p, v)
			cart.SetQuantity(p.ID, v.ID, tt.qty)

			before := cart.Total()
			c.Assert(cart.ToggleWholesale(p.ID, v.ID), qt.IsFalse)
			c.Assert(cart.Total().Equal(before), qt.IsTrue)
		})
	}
}

func TestMinWholesaleDefaultsToOne(t *testing.T) {
	c := qt.New(t)

	wp := int64(4000)
	p, v := newProduct("Roti", 5000, &wp, nil)
	cart := New(DefaultTaxRate)
	cart.AddLine(p, v)
	c.Assert(cart.ToggleWholesale(p.ID, v.ID), qt.IsTrue)

	// Switching back to retail is always allowed.
	c.Assert(cart.ToggleWholesale(p.ID, v.ID), qt.IsTrue)
	line, _ := cart.Line(p.ID, v.ID)
	c.Assert(line.IsWholesale, qt.IsFalse)
}

func TestAddLineIncrements(t *testing.T) {
	c := qt.New(t)

	p, v := newProduct("Gula", 18000, nil, nil)
	cart := New(DefaultTaxRate)
	cart.AddLine(p, v)
	cart.AddLine(p, v)
	cart.AddLine(p, v)

	c.Assert(cart.Lines(), qt.HasLen, 1)
	c.Assert(cart.ItemCount(), qt.Equals, 3)
	c.Assert(cart.Subtotal().String(), qt.Equals, "54000")
}

func TestRemoveLastLineEmptiesCart(t *testing.T) {
	c := qt.New(t)

	p, v := newProduct("Gula", 18000, nil, nil)
	cart := New(DefaultTaxRate)
	cart.AddLine(p, v)
	cart.SetQuantity(p.ID, v.ID, 0)

	c.Assert(cart.IsEmpty(), qt.IsTrue)
	c.Assert(cart.ItemCount(), qt.Equals, 0)
	c.Assert(cart.Subtotal().IsZero(), qt.IsTrue)
	c.Assert(cart.Total().IsZero(), qt.IsTrue)
}

func TestTaxRate(t *testing.T) {
	tests := []struct {
		rate string
		want string
	}{
		{rate: "0", want: "0"},
		{rate: "0.11", want: "2200"},
		{rate: "0.1", want: "2000"},
	}

	for _, tt := range tests {
		t.Run(tt.rate, func(t *testing.T) {
			c := qt.New(t)
			p, v := newProduct("Minyak", 20000, nil, nil)
			cart := New(decimal.RequireFromString(tt.rate))
			cart.AddLine(p, v)

			c.Assert(cart.Tax().String(), qt.Equals, tt.want)
			c.Assert(cart.Total().Equal(cart.Subtotal().Add(cart.Tax())), qt.IsTrue)
		})
	}
}

func TestSubtotalMatchesRecomputation(t *testing.T) {
	c := qt.New(t)

	rng := rand.New(rand.NewSource(42))
	wp := int64(7000)
	products := make([]*model.Product, 0, 4)
	variations := make([]model.ProductVariation, 0, 4)
	for i := 0; i < 4; i++ {
		p, v := newProduct("Item", int64(5000+i*2500), &wp, intPtr(3))
		products = append(products, p)
		variations = append(variations, v)
	}

	cart := New(DefaultTaxRate)
	for step := 0; step < 200; step++ {
		i := rng.Intn(len(products))
		p, v := products[i], variations[i]
		switch rng.Intn(3) {
		case 0:
			cart.AddLine(p, v)
		case 1:
			cart.SetQuantity(p.ID, v.ID, rng.Intn(15)-2)
		case 2:
			cart.ToggleWholesale(p.ID, v.ID)
		}

		want := decimal.Zero
		for _, l := range cart.Lines() {
			c.Assert(l.Quantity >= 1, qt.IsTrue)
			if l.IsWholesale {
				c.Assert(l.Quantity >= 3, qt.IsTrue)
			}
			price := l.Variation.Price
			if l.IsWholesale {
				price = l.Variation.WholesalePrice.Decimal
			}
			want = want.Add(price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
		c.Assert(cart.Subtotal().Equal(want), qt.IsTrue, qt.Commentf("step %d", step))
	}
}

func TestQuote(t *testing.T) {
	c := qt.New(t)

	wp := int64(12000)
	p, v := newProduct("Kopi Sachet", 15000, &wp, intPtr(10))
	cart := New(DefaultTaxRate)
	cart.AddLine(p, v)
	cart.SetQuantity(p.ID, v.ID, 10)
	cart.ToggleWholesale(p.ID, v.ID)

	q := cart.Quote()
	c.Assert(q.Lines, qt.HasLen, 1)
	c.Assert(q.Lines[0].PriceLabel(), qt.Equals, "Grosir")
	c.Assert(q.Lines[0].LineTotal.String(), qt.Equals, "120000")
	c.Assert(q.ItemCount, qt.Equals, 10)
	c.Assert(q.Total.String(), qt.Equals, "133200")

	// The quote does not follow later cart changes.
	cart.Clear()
	c.Assert(q.Lines, qt.HasLen, 1)
	c.Assert(cart.Quote().Lines, qt.HasLen, 0)
}

func TestBuild(t *testing.T) {
	c := qt.New(t)

	wp := int64(12000)
	p, v := newProduct("Kopi Sachet", 15000, &wp, intPtr(10))

	cart, err := Build(DefaultTaxRate, []model.Product{*p}, []Item{
		{ProductID: p.ID, VariationID: v.ID, Quantity: 4},
		{ProductID: p.ID, VariationID: v.ID, Quantity: 6, Wholesale: true},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(cart.Total().String(), qt.Equals, "133200")

	_, err = Build(DefaultTaxRate, []model.Product{*p}, []Item{
		{ProductID: p.ID, VariationID: v.ID, Quantity: 5, Wholesale: true},
	})
	c.Assert(err, qt.ErrorIs, ErrWholesaleNotEligible)

	_, err = Build(DefaultTaxRate, []model.Product{*p}, []Item{
		{ProductID: p.ID, VariationID: uuid.New(), Quantity: 1},
	})
	c.Assert(err, qt.ErrorIs, ErrUnknownItem)

	_, err = Build(DefaultTaxRate, nil, []Item{{ProductID: p.ID, VariationID: v.ID}})
	c.Assert(err, qt.ErrorIs, ErrInvalidQuantity)
}

func TestBuildDefaultVariation(t *testing.T) {
	c := qt.New(t)

	p := &model.Product{Name: "Es Batu", Price: decimal.NewFromInt(2000), IsActive: true}
	p.ID = uuid.New()

	cart, err := Build(decimal.Zero, []model.Product{*p}, []Item{
		{ProductID: p.ID, VariationID: p.ID, Quantity: 3},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(cart.Lines()[0].Variation.Name, qt.Equals, model.DefaultVariationName)
	c.Assert(cart.Total().String(), qt.Equals, "6000")
}
