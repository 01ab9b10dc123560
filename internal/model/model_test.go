package model

import (
	"encoding/json"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestRolePrivileges(t *testing.T) {
	c := qt.New(t)

	for _, p := range AllPrivileges {
		c.Assert(RolePemilik.Can(p), qt.IsTrue, qt.Commentf("pemilik lacks %s", p))
	}
	c.Assert(RoleAdmin.Can(PrivCompanyUpdate), qt.IsFalse)
	c.Assert(RoleAdmin.Can(PrivUserCreate), qt.IsTrue)
	c.Assert(RoleUser.Can(PrivTransactionCreate), qt.IsTrue)
	c.Assert(RoleUser.Can(PrivInventoryAdjust), qt.IsFalse)
	c.Assert(RoleAdminGudang.Can(PrivInventoryAdjust), qt.IsTrue)
	c.Assert(RoleAdminGudang.Can(PrivTransactionCreate), qt.IsFalse)
	c.Assert(Role("tamu").Can(PrivProductView), qt.IsFalse)
	c.Assert(Role("tamu").Valid(), qt.IsFalse)
	c.Assert(RoleUser.Label(), qt.Equals, "Kasir")
}

func TestNilProfileGrantsNothing(t *testing.T) {
	c := qt.New(t)
	var p *UserProfile
	c.Assert(p.Can(PrivProductView), qt.IsFalse)
	c.Assert(p.Privileges(), qt.IsNil)
	c.Assert(p.HasCompany(), qt.IsFalse)

	nilID := uuid.Nil
	c.Assert((&UserProfile{CompanyID: &nilID}).HasCompany(), qt.IsFalse)
}

func TestNewUserProfile(t *testing.T) {
	c := qt.New(t)
	company := &Company{Name: "Toko Makmur", Slug: "toko-makmur"}
	company.ID = uuid.New()
	u := &User{Email: "kasir@toko.id", Role: RoleManajer, CompanyID: &company.ID}
	u.ID = uuid.New()

	p := NewUserProfile(u, company)
	c.Assert(p.ID, qt.Equals, u.ID)
	c.Assert(p.Company, qt.DeepEquals, &CompanyRef{ID: company.ID, Name: "Toko Makmur", Slug: "toko-makmur"})
	c.Assert(NewUserProfile(u, nil).Company, qt.IsNil)
}

func TestUserPassword(t *testing.T) {
	c := qt.New(t)
	u := &User{Email: "sri@warung.id"}
	c.Assert(u.SetPassword("rahasia"), qt.IsNil)
	c.Assert(u.CheckPassword("rahasia"), qt.IsTrue)
	c.Assert(u.CheckPassword("salah"), qt.IsFalse)
	c.Assert(u.DisplayName(), qt.Equals, "sri")

	nama := "Bu Sri"
	u.Nama = &nama
	c.Assert(u.DisplayName(), qt.Equals, "Bu Sri")
}

func TestSellableVariations(t *testing.T) {
	c := qt.New(t)
	p := &Product{Name: "Minyak", Price: decimal.NewFromInt(18000)}
	p.ID = uuid.New()

	vs := p.SellableVariations()
	c.Assert(vs, qt.HasLen, 1)
	c.Assert(vs[0].ID, qt.Equals, p.ID)
	c.Assert(vs[0].Name, qt.Equals, DefaultVariationName)
	c.Assert(vs[0].Price.Equal(p.Price), qt.IsTrue)

	active := ProductVariation{Name: "1L", IsActive: true}
	active.ID = uuid.New()
	inactive := ProductVariation{Name: "2L"}
	inactive.ID = uuid.New()
	p.Variations = []ProductVariation{active, inactive}

	c.Assert(p.SellableVariations(), qt.HasLen, 1)
	_, ok := p.FindVariation(inactive.ID)
	c.Assert(ok, qt.IsFalse)
	_, ok = p.FindVariation(p.ID)
	c.Assert(ok, qt.IsFalse)
	got, ok := p.FindVariation(active.ID)
	c.Assert(ok, qt.IsTrue)
	c.Assert(got.Name, qt.Equals, "1L")
}

func TestWholesaleEligible(t *testing.T) {
	c := qt.New(t)
	v := ProductVariation{Price: decimal.NewFromInt(75000)}
	c.Assert(v.WholesaleEligible(100), qt.IsFalse)

	v.WholesalePrice = decimal.NewNullDecimal(decimal.NewFromInt(70000))
	c.Assert(v.WholesaleThreshold(), qt.Equals, 1)
	c.Assert(v.WholesaleEligible(1), qt.IsTrue)

	ten := 10
	v.MinWholesaleQty = &ten
	c.Assert(v.WholesaleEligible(9), qt.IsFalse)
	c.Assert(v.WholesaleEligible(10), qt.IsTrue)
}

func TestClassifyStock(t *testing.T) {
	tests := []struct {
		total, min int
		want       StockStatus
		label      string
	}{
		{0, 10, StockHabis, "Habis"},
		{-1, 10, StockHabis, "Habis"},
		{9, 10, StockRendah, "Stok Rendah"},
		{10, 10, StockTersedia, "Tersedia"},
		{1, 0, StockTersedia, "Tersedia"},
	}
	for _, tt := range tests {
		got := ClassifyStock(tt.total, tt.min)
		qt.Assert(t, got, qt.Equals, tt.want, qt.Commentf("total=%d min=%d", tt.total, tt.min))
		qt.Assert(t, got.Label(), qt.Equals, tt.label)
	}

	recs := []InventoryRecord{{Quantity: 3}, {Quantity: 4}}
	qt.Assert(t, TotalQuantity(recs), qt.Equals, 7)
}

func TestPricesMarshalAsNumbers(t *testing.T) {
	c := qt.New(t)
	data, err := json.Marshal(TransactionItem{UnitPrice: decimal.RequireFromString("18000.5")})
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Contains, `"unit_price":18000.5`)
}
