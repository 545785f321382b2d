package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"printshop/internal/domain"
	applog "printshop/internal/log"
	"printshop/internal/repos"
	"printshop/internal/services"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

func decimalQuery(c *fiber.Ctx, key string) (decimal.NullDecimal, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, domain.Invalid("%s must be a number", key)
	}
	return decimal.NewNullDecimal(d), nil
}

// List serves GET /api/products. Admins may pass ?all=true to include drafts.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	f := repos.ProductFilter{
		Search:       c.Query("search"),
		Category:     domain.ProductCategory(c.Query("category")),
		Featured:     c.QueryBool("featured"),
		Sort:         c.Query("sort"),
		IncludeDraft: c.QueryBool("all") && currentUser(c).IsAdmin(),
	}
	var err error
	if f.MinPrice, err = decimalQuery(c, "minPrice"); err != nil {
		return err
	}
	if f.MaxPrice, err = decimalQuery(c, "maxPrice"); err != nil {
		return err
	}
	p := pageOf(c)
	items, total, err := h.Catalog.ListProducts(c.UserContext(), f, p)
	if err != nil {
		return err
	}
	return paged(c, items, p, total)
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	p, err := h.Catalog.GetProduct(c.UserContext(), c.Params("id"), currentUser(c).IsAdmin())
	if err != nil {
		return err
	}
	return ok(c, p)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := bind(c, &in); err != nil {
		return err
	}
	p, err := h.Catalog.CreateProduct(c.UserContext(), in)
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.product.create", map[string]any{"product_id": p.ID, "slug": p.Slug})
	return created(c, "Product created", p)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := bind(c, &in); err != nil {
		return err
	}
	p, err := h.Catalog.UpdateProduct(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.product.update", map[string]any{"product_id": p.ID})
	return ok(c, p)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Catalog.DeleteProduct(c.UserContext(), id); err != nil {
		return err
	}
	applog.Audit(c, "admin.product.delete", map[string]any{"product_id": id})
	return done(c, "Product deleted")
}
