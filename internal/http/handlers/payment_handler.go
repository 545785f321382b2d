package handlers

import (
	"github.com/gofiber/fiber/v2"

	"printshop/internal/gateway/qpay"
	applog "printshop/internal/log"
	"printshop/internal/services"
)

type PaymentHandler struct {
	Payments *services.PaymentService
}

func (h *PaymentHandler) CreateInvoice(c *fiber.Ctx) error {
	inv, err := h.Payments.CreateOrderInvoice(c.UserContext(), c.Params("orderId"), currentUser(c))
	if err != nil {
		return err
	}
	applog.Audit(c, "payment.invoice.create", map[string]any{"order_id": inv.OrderID, "invoice_id": inv.InvoiceID})
	return created(c, "Invoice created", inv)
}

func (h *PaymentHandler) Check(c *fiber.Ctx) error {
	st, err := h.Payments.CheckOrderPayment(c.UserContext(), c.Params("orderId"), currentUser(c))
	if err != nil {
		return err
	}
	return ok(c, st)
}

func (h *PaymentHandler) CancelInvoice(c *fiber.Ctx) error {
	id := c.Params("orderId")
	if err := h.Payments.CancelOrderInvoice(c.UserContext(), id, currentUser(c)); err != nil {
		return err
	}
	applog.Audit(c, "payment.invoice.cancel", map[string]any{"order_id": id})
	return done(c, "Invoice cancelled")
}

// Callback is the public provider webhook. Unsigned deliveries are logged as
// a security event and only trigger a confirmation check.
func (h *PaymentHandler) Callback(c *fiber.Ctx) error {
	res, err := h.Payments.HandleCallback(c.UserContext(), c.Body(), c.Get(qpay.SignatureHeader))
	if err != nil {
		return err
	}
	fields := map[string]any{"invoice_id": res.InvoiceID, "paid": res.Paid, "verified": res.Verified}
	if !res.Verified {
		applog.Security(c, "payment.callback.unverified", fields)
	} else {
		applog.Audit(c, "payment.callback", fields)
	}
	return ok(c, res)
}
