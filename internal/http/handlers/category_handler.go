package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "printshop/internal/log"
	"printshop/internal/services"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

// List returns categories flat, or nested with ?tree=true.
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	all := c.QueryBool("all") && currentUser(c).IsAdmin()
	if c.QueryBool("tree") {
		tree, err := h.Catalog.CategoryTree(c.UserContext(), all)
		if err != nil {
			return err
		}
		return ok(c, tree)
	}
	cats, err := h.Catalog.ListCategories(c.UserContext(), all)
	if err != nil {
		return err
	}
	return ok(c, cats)
}

func (h *CategoryHandler) Detail(c *fiber.Ctx) error {
	cat, err := h.Catalog.GetCategory(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, cat)
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in services.CategoryInput
	if err := bind(c, &in); err != nil {
		return err
	}
	cat, err := h.Catalog.CreateCategory(c.UserContext(), in)
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.category.create", map[string]any{"category_id": cat.ID})
	return created(c, "Category created", cat)
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	var in services.CategoryInput
	if err := bind(c, &in); err != nil {
		return err
	}
	cat, err := h.Catalog.UpdateCategory(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.category.update", map[string]any{"category_id": cat.ID})
	return ok(c, cat)
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Catalog.DeleteCategory(c.UserContext(), id); err != nil {
		return err
	}
	applog.Audit(c, "admin.category.delete", map[string]any{"category_id": id})
	return done(c, "Category deleted")
}
