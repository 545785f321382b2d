package handlers

import (
	"github.com/gofiber/fiber/v2"

	"printshop/internal/services"
)

type SearchHandler struct {
	Search *services.SearchService
}

func (h *SearchHandler) All(c *fiber.Ctx) error {
	res, err := h.Search.Search(c.UserContext(), c.Query("q"), c.QueryInt("limit"))
	if err != nil {
		return err
	}
	return ok(c, res)
}
