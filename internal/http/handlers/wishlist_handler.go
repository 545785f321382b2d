package handlers

import (
	"github.com/gofiber/fiber/v2"

	"printshop/internal/services"
)

type WishlistHandler struct {
	Wish *services.WishlistService
}

func (h *WishlistHandler) List(c *fiber.Ctx) error {
	w, err := h.Wish.Get(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return err
	}
	return ok(c, w)
}

func (h *WishlistHandler) Save(c *fiber.Ctx) error {
	w, err := h.Wish.Save(c.UserContext(), currentUser(c).ID, c.Params("productId"))
	if err != nil {
		return err
	}
	return ok(c, w)
}

func (h *WishlistHandler) Unsave(c *fiber.Ctx) error {
	w, err := h.Wish.Unsave(c.UserContext(), currentUser(c).ID, c.Params("productId"))
	if err != nil {
		return err
	}
	return ok(c, w)
}

func (h *WishlistHandler) Clear(c *fiber.Ctx) error {
	if err := h.Wish.Clear(c.UserContext(), currentUser(c).ID); err != nil {
		return err
	}
	return done(c, "Wishlist cleared")
}

func (h *WishlistHandler) Check(c *fiber.Ctx) error {
	in, err := h.Wish.Contains(c.UserContext(), currentUser(c).ID, c.Params("productId"))
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"inWishlist": in})
}
