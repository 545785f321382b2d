package handlers

import (
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"printshop/internal/domain"
	applog "printshop/internal/log"
	"printshop/internal/repos"
	"printshop/internal/services"
)

type QuotationHandler struct {
	Quotes *services.QuotationService
}

// Submit accepts JSON or a multipart form with an optional designFile.
func (h *QuotationHandler) Submit(c *fiber.Ctx) error {
	var in services.QuotationInput
	if err := bind(c, &in); err != nil {
		return err
	}
	var design *multipart.FileHeader
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if fh, err := c.FormFile("designFile"); err == nil {
			design = fh
		}
	}
	q, err := h.Quotes.Submit(c.UserContext(), currentUser(c), in, design)
	if err != nil {
		return err
	}
	applog.Audit(c, "quotation.submit", map[string]any{"quotation_id": q.ID, "with_file": design != nil})
	return created(c, "Quotation submitted", q)
}

func (h *QuotationHandler) Mine(c *fiber.Ctx) error {
	p := pageOf(c)
	qs, total, err := h.Quotes.ListMine(c.UserContext(), currentUser(c).ID, p)
	if err != nil {
		return err
	}
	return paged(c, qs, p, total)
}

func (h *QuotationHandler) View(c *fiber.Ctx) error {
	q, err := h.Quotes.Get(c.UserContext(), c.Params("id"), currentUser(c))
	if err != nil {
		return err
	}
	return ok(c, q)
}

func (h *QuotationHandler) All(c *fiber.Ctx) error {
	p := pageOf(c)
	f := repos.QuotationFilter{Status: domain.QuotationStatus(c.Query("status"))}
	qs, total, err := h.Quotes.ListAll(c.UserContext(), f, p)
	if err != nil {
		return err
	}
	return paged(c, qs, p, total)
}

func (h *QuotationHandler) Reply(c *fiber.Ctx) error {
	var in services.ReplyInput
	if err := bind(c, &in); err != nil {
		return err
	}
	q, err := h.Quotes.Reply(c.UserContext(), c.Params("id"), currentUser(c), in)
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.quotation.reply", map[string]any{"quotation_id": q.ID, "price": in.Price.String()})
	return ok(c, q)
}

func (h *QuotationHandler) UpdateStatus(c *fiber.Ctx) error {
	var in struct {
		Status domain.QuotationStatus `json:"status"`
	}
	if err := bind(c, &in); err != nil {
		return err
	}
	q, err := h.Quotes.UpdateStatus(c.UserContext(), c.Params("id"), currentUser(c), in.Status)
	if err != nil {
		return err
	}
	applog.Audit(c, "quotation.status", map[string]any{"quotation_id": q.ID, "status": q.Status})
	return ok(c, q)
}

func (h *QuotationHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Quotes.Delete(c.UserContext(), id); err != nil {
		return err
	}
	applog.Audit(c, "admin.quotation.delete", map[string]any{"quotation_id": id})
	return done(c, "Quotation deleted")
}
