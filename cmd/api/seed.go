package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"umkm-pos/internal/model"
	"umkm-pos/internal/repository"
)

const (
	demoSlug     = "toko-demo"
	demoEmail    = "pemilik@demo.id"
	demoPassword = "demo12345"
	demoStore    = "Toko Utama"
)

// seedDemo creates a demo company with an owner, a small catalog and store
// stock. It does nothing when the demo company already exists.
func seedDemo(ctx context.Context, db *gorm.DB, log zerolog.Logger) {
	companyRepo := repository.NewCompanyRepo(db)
	if _, err := companyRepo.FindBySlug(ctx, demoSlug); err == nil {
		return
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		company := &model.Company{Name: "Toko Demo", Slug: demoSlug, IsActive: true}
		company.CreatedBy = "system"
		if err := companyRepo.WithTx(tx).Create(ctx, company); err != nil {
			return err
		}

		nama := "Pemilik Demo"
		owner := &model.User{
			Email:     demoEmail,
			Nama:      &nama,
			Role:      model.RolePemilik,
			CompanyID: &company.ID,
			IsActive:  true,
		}
		owner.CreatedBy = "system"
		if err := owner.SetPassword(demoPassword); err != nil {
			return err
		}
		if err := repository.NewUserRepo(tx).Create(ctx, owner); err != nil {
			return err
		}

		category := &model.Category{CompanyID: company.ID, Name: "Sembako", IsActive: true}
		category.CreatedBy = "system"
		if err := repository.NewCategoryRepo(tx).Create(ctx, category); err != nil {
			return err
		}

		grosirQty := 10
		products := []*model.Product{
			{
				Name:  "Beras Premium",
				Price: decimal.NewFromInt(75000),
				Cost:  decimal.NewFromInt(65000),
				Variations: []model.ProductVariation{
					{Name: "5 kg", Price: decimal.NewFromInt(75000), WholesalePrice: decimal.NewNullDecimal(decimal.NewFromInt(70000)), MinWholesaleQty: &grosirQty, IsActive: true},
					{Name: "10 kg", Price: decimal.NewFromInt(145000), IsActive: true},
				},
			},
			{
				Name:  "Minyak Goreng 1L",
				Price: decimal.NewFromInt(18000),
				Cost:  decimal.NewFromInt(15500),
			},
		}

		productRepo := repository.NewProductRepo(tx)
		inventory := repository.NewInventoryRepo(tx)
		for _, p := range products {
			p.CompanyID = company.ID
			p.CategoryID = &category.ID
			p.IsActive = true
			p.CreatedBy = "system"
			if err := productRepo.Create(ctx, p); err != nil {
				return err
			}
			for _, v := range p.SellableVariations() {
				rec := &model.InventoryRecord{
					CompanyID:    company.ID,
					ProductID:    p.ID,
					VariationID:  v.ID,
					LocationType: model.LocationStore,
					LocationName: demoStore,
					Quantity:     50,
				}
				rec.CreatedBy = "system"
				if err := inventory.Save(ctx, rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to seed demo store")
		return
	}
	log.Info().Str("email", demoEmail).Str("password", demoPassword).Msg("Demo store created")
}
