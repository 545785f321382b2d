package handlers

import (
	"github.com/gofiber/fiber/v2"

	"printshop/internal/domain"
	applog "printshop/internal/log"
	"printshop/internal/services"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := bind(c, &in); err != nil {
		return err
	}
	u, tok, err := h.Auth.Register(c.UserContext(), in)
	if err != nil {
		return err
	}
	c.Locals("user_id", u.ID)
	applog.Audit(c, "auth.register", map[string]any{"email": u.Email})
	return created(c, "Registered", authResponse{Token: tok, User: u})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := bind(c, &in); err != nil {
		return err
	}
	u, tok, err := h.Auth.Login(c.UserContext(), in.Email, in.Password)
	if err != nil {
		if domain.KindOf(err) == domain.KindUnauthorized {
			applog.Security(c, "auth.login.fail", map[string]any{"email": in.Email})
		}
		return err
	}
	c.Locals("user_id", u.ID)
	applog.Audit(c, "auth.login.success", map[string]any{"email": u.Email})
	return ok(c, authResponse{Token: tok, User: u})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return ok(c, currentUser(c))
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var in services.ProfileInput
	if err := bind(c, &in); err != nil {
		return err
	}
	u, err := h.Auth.UpdateProfile(c.UserContext(), currentUser(c).ID, in)
	if err != nil {
		return err
	}
	return ok(c, u)
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var in struct {
		Current string `json:"currentPassword"`
		New     string `json:"newPassword"`
	}
	if err := bind(c, &in); err != nil {
		return err
	}
	if err := h.Auth.ChangePassword(c.UserContext(), currentUser(c).ID, in.Current, in.New); err != nil {
		return err
	}
	applog.Audit(c, "auth.password.change", nil)
	return done(c, "Password updated")
}
