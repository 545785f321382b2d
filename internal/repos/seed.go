package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"printshop/internal/domain"
	applog "printshop/internal/log"
)

// Seed inserts a demo catalog when the products table is empty. Safe to run on every start.
func Seed(ctx context.Context, db *sqlx.DB) error {
	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM products`); err != nil {
		return storeErr(err, "product", "seed: count")
	}
	if n > 0 {
		return nil
	}
	applog.L().Info("seeding demo catalog")

	cats := NewCategoryRepo(db)
	products := NewProductRepo(db)
	services := NewServiceRepo(db)

	printing := &domain.Category{ID: uuid.NewString(), Name: "Printing", Slug: "printing", Active: true}
	if err := cats.Create(ctx, printing); err != nil {
		return err
	}
	for i, c := range []struct{ name, slug string }{
		{"Business cards", "business-cards"},
		{"Flyers & posters", "flyers-posters"},
		{"Banners", "banners"},
	} {
		child := &domain.Category{ID: uuid.NewString(), Name: c.name, Slug: c.slug, ParentID: &printing.ID, SortOrder: i, Active: true}
		if err := cats.Create(ctx, child); err != nil {
			return err
		}
	}

	demo := []domain.Product{
		{Name: "Standard business cards (100 pcs)", Slug: "standard-business-cards-100-pcs", Category: domain.CatBusinessCards, Price: decimal.NewFromInt(45000), Stock: 50, Featured: true},
		{Name: "A5 flyer (500 pcs)", Slug: "a5-flyer-500-pcs", Category: domain.CatFlyers, Price: decimal.NewFromInt(120000), Stock: 20},
		{Name: "Roll-up banner 85x200", Slug: "roll-up-banner-85x200", Category: domain.CatBanners, Price: decimal.NewFromInt(185000), Stock: 8},
		{Name: "Vinyl stickers (sheet)", Slug: "vinyl-stickers-sheet", Category: domain.CatStickers, Price: decimal.NewFromInt(15000), Stock: 3},
	}
	for i := range demo {
		p := demo[i]
		p.ID = uuid.NewString()
		p.Active = true
		p.Images = domain.Strings{}
		p.Features = domain.Strings{}
		if err := products.Create(ctx, &p); err != nil {
			return err
		}
	}

	for i, s := range []domain.MarketingService{
		{Name: "Social media management", Slug: "social-media-management", Category: domain.SvcSMM, Price: decimal.NewFromInt(800000), PriceUnit: "month"},
		{Name: "Logo and brand identity", Slug: "logo-and-brand-identity", Category: domain.SvcBranding, Price: decimal.NewFromInt(1500000), PriceUnit: "project"},
	} {
		s.ID = uuid.NewString()
		s.Description = s.Name
		s.Active = true
		s.SortOrder = i
		s.Features = domain.Strings{}
		if err := services.Create(ctx, &s); err != nil {
			return err
		}
	}
	return nil
}
