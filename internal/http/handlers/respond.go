package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"printshop/internal/domain"
	applog "printshop/internal/log"
	"printshop/internal/repos"
)

// Pagination accompanies list responses.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(envelope{Success: true, Data: data})
}

func created(c *fiber.Ctx, msg string, data any) error {
	return c.Status(fiber.StatusCreated).JSON(envelope{Success: true, Message: msg, Data: data})
}

func done(c *fiber.Ctx, msg string) error {
	return c.JSON(envelope{Success: true, Message: msg})
}

func paged(c *fiber.Ctx, data any, p repos.Page, total int) error {
	p = p.Normalize()
	return c.JSON(envelope{
		Success:    true,
		Data:       data,
		Pagination: &Pagination{Page: p.Page, Limit: p.Limit, Total: total, Pages: p.Pages(total)},
	})
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(envelope{Success: false, Message: msg})
}

// pageOf reads ?page= and ?limit=; junk values fall back to the defaults.
func pageOf(c *fiber.Ctx) repos.Page {
	p := repos.Page{}
	p.Page, _ = strconv.Atoi(c.Query("page"))
	p.Limit, _ = strconv.Atoi(c.Query("limit"))
	return p.Normalize()
}

func bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return domain.Invalid("malformed request body")
	}
	return nil
}

const genericMessage = "Something went wrong. Please try again."

// StatusOf maps an error to the status the error handler will send.
func StatusOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	switch domain.KindOf(err) {
	case domain.KindValidation, domain.KindConflict:
		return fiber.StatusBadRequest
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindUnauthorized:
		return fiber.StatusUnauthorized
	case domain.KindForbidden:
		return fiber.StatusForbidden
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler renders every error as the failure envelope. Only messages of
// client-facing kinds leave the process; everything else is logged and
// replaced by a generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := StatusOf(err)
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if status >= fiber.StatusInternalServerError {
			applog.Error(c, "server.error", err, nil)
			return fail(c, status, genericMessage)
		}
		return fail(c, status, fe.Message)
	}

	var de *domain.Error
	if status < fiber.StatusInternalServerError && errors.As(err, &de) {
		if status == fiber.StatusForbidden {
			applog.Security(c, "access.denied", map[string]any{"reason": de.Message})
		}
		return fail(c, status, de.Message)
	}

	if domain.KindOf(err) == domain.KindGateway && errors.As(err, &de) {
		applog.Error(c, "gateway.error", err, nil)
		return fail(c, status, de.Message)
	}
	applog.Error(c, "server.error", err, nil)
	return fail(c, status, genericMessage)
}
