package handlers

import (
	"github.com/gofiber/fiber/v2"

	"printshop/internal/domain"
	applog "printshop/internal/log"
	"printshop/internal/services"
)

type AdminHandler struct {
	Dashboard *services.DashboardService
	Users     *services.UserService
}

// GET /api/admin/dashboard
func (h *AdminHandler) Overview(c *fiber.Ctx) error {
	d, err := h.Dashboard.Load(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, d)
}

// GET /api/admin/users
func (h *AdminHandler) UsersPage(c *fiber.Ctx) error {
	p := pageOf(c)
	users, total, err := h.Users.List(c.UserContext(), c.Query("search"), p)
	if err != nil {
		return err
	}
	return paged(c, users, p, total)
}

// PUT /api/admin/users/:id/role
func (h *AdminHandler) SetRole(c *fiber.Ctx) error {
	var in struct {
		Role domain.Role `json:"role"`
	}
	if err := bind(c, &in); err != nil {
		return err
	}
	u, err := h.Users.SetRole(c.UserContext(), currentUser(c), c.Params("id"), in.Role)
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.users.role", map[string]any{"target_id": u.ID, "role": u.Role})
	return ok(c, u)
}

// DELETE /api/admin/users/:id cancels the account's pending orders and keeps
// its order history.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Users.Delete(c.UserContext(), currentUser(c), id); err != nil {
		return err
	}
	applog.Audit(c, "admin.users.delete", map[string]any{"target_id": id})
	return done(c, "User deleted")
}
