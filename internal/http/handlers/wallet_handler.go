package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	applog "printshop/internal/log"
	"printshop/internal/services"
)

type WalletHandler struct {
	Wallet *services.WalletService
}

type amountInput struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *WalletHandler) Balance(c *fiber.Ctx) error {
	bal, err := h.Wallet.Balance(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"balance": bal})
}

func (h *WalletHandler) Topup(c *fiber.Ctx) error {
	var in amountInput
	if err := bind(c, &in); err != nil {
		return err
	}
	t, err := h.Wallet.Topup(c.UserContext(), currentUser(c).ID, in.Amount)
	if err != nil {
		return err
	}
	applog.Audit(c, "wallet.topup", map[string]any{"amount": t.Amount.String(), "reference": t.Reference})
	return ok(c, fiber.Map{"balance": t.BalanceAfter, "transaction": t})
}

func (h *WalletHandler) TopupQPay(c *fiber.Ctx) error {
	var in amountInput
	if err := bind(c, &in); err != nil {
		return err
	}
	inv, err := h.Wallet.TopupQPay(c.UserContext(), currentUser(c).ID, in.Amount)
	if err != nil {
		return err
	}
	applog.Audit(c, "wallet.topup.invoice", map[string]any{"amount": in.Amount.String(), "invoice_id": inv.InvoiceID})
	return created(c, "Invoice created", inv)
}

func (h *WalletHandler) CheckTopup(c *fiber.Ctx) error {
	t, err := h.Wallet.CheckTopup(c.UserContext(), currentUser(c).ID, c.Params("invoiceId"))
	if err != nil {
		return err
	}
	return ok(c, t)
}

func (h *WalletHandler) Transactions(c *fiber.Ctx) error {
	p := pageOf(c)
	txs, total, err := h.Wallet.Transactions(c.UserContext(), currentUser(c).ID, p)
	if err != nil {
		return err
	}
	return paged(c, txs, p, total)
}
