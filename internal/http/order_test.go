package handlers_test

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"printshop/internal/domain"
)

func shippingInfo() map[string]string {
	return map[string]string{"name": "Bat", "phone": "+976 99112233", "address": "Peace Ave 1"}
}

func TestWalletOrderUsesServerPrices(t *testing.T) {
	a := newTestApp(t)
	adminTok := a.admin(t)
	p := a.product(t, adminTok, "A5 Flyer", 45000, 50)
	_, tok := a.register(t, "dorj@printshop.test")

	if status, res := a.call(t, "POST", "/api/wallet/topup", map[string]any{"amount": 100000}, tok); status != http.StatusOK {
		t.Fatalf("topup: %d %s", status, res.Message)
	}

	status, res := a.call(t, "POST", "/api/orders", map[string]any{
		"items":         []map[string]any{{"product": p.ID, "quantity": 2, "price": 1}},
		"shippingInfo":  shippingInfo(),
		"paymentMethod": "wallet",
		"totalAmount":   2,
	}, tok)
	if status != http.StatusCreated {
		t.Fatalf("place order: %d %s", status, res.Message)
	}
	var o domain.Order
	decode(t, res, &o)
	if !o.Total.Equal(decimal.NewFromInt(90000)) {
		t.Fatalf("expected total 90000 from catalog prices, got %s", o.Total)
	}
	if o.Status != domain.OrderPaid || o.PaidAt == nil || o.TransactionID == "" {
		t.Fatalf("wallet order should be paid with payment metadata: %+v", o)
	}

	_, res = a.call(t, "GET", "/api/wallet/balance", nil, tok)
	var bal struct {
		Balance decimal.Decimal `json:"balance"`
	}
	decode(t, res, &bal)
	if !bal.Balance.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("expected balance 10000, got %s", bal.Balance)
	}

	status, res = a.call(t, "GET", "/api/wallet/transactions", nil, tok)
	if status != http.StatusOK || res.Pagination == nil || res.Pagination.Total != 2 {
		t.Fatalf("expected topup and payment in the ledger, got %d %+v", status, res.Pagination)
	}
}

func TestWalletOrderRejectedOnInsufficientBalance(t *testing.T) {
	a := newTestApp(t)
	adminTok := a.admin(t)
	p := a.product(t, adminTok, "A5 Flyer", 45000, 50)
	_, tok := a.register(t, "enkh@printshop.test")
	a.call(t, "POST", "/api/wallet/topup", map[string]any{"amount": 50000}, tok)

	status, res := a.call(t, "POST", "/api/orders", map[string]any{
		"items":         []map[string]any{{"product": p.ID, "quantity": 2}},
		"shippingInfo":  shippingInfo(),
		"paymentMethod": "wallet",
	}, tok)
	if status != http.StatusBadRequest || res.Message != "insufficient wallet balance" {
		t.Fatalf("expected 400 insufficient balance, got %d %q", status, res.Message)
	}

	var orders int
	if err := a.db.Get(&orders, `SELECT COUNT(*) FROM orders`); err != nil {
		t.Fatal(err)
	}
	if orders != 0 {
		t.Fatalf("no order should be stored, found %d", orders)
	}
	_, res = a.call(t, "GET", "/api/wallet/balance", nil, tok)
	var bal struct {
		Balance decimal.Decimal `json:"balance"`
	}
	decode(t, res, &bal)
	if !bal.Balance.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("balance must be unchanged, got %s", bal.Balance)
	}
}

func TestOrderVisibleToOwnerAndAdminOnly(t *testing.T) {
	a := newTestApp(t)
	adminTok := a.admin(t)
	p := a.product(t, adminTok, "Sticker pack", 3000, 50)
	_, owner := a.register(t, "owner@printshop.test")
	_, other := a.register(t, "other@printshop.test")

	_, res := a.call(t, "POST", "/api/orders", map[string]any{
		"items":         []map[string]any{{"product": p.ID, "quantity": 1}},
		"shippingInfo":  shippingInfo(),
		"paymentMethod": "cash",
	}, owner)
	var o domain.Order
	decode(t, res, &o)
	if o.Status != domain.OrderPending {
		t.Fatalf("cash orders start pending, got %s", o.Status)
	}

	if status, _ := a.call(t, "GET", "/api/orders/"+o.ID, nil, owner); status != http.StatusOK {
		t.Fatalf("owner: expected 200, got %d", status)
	}
	if status, _ := a.call(t, "GET", "/api/orders/"+o.ID, nil, other); status != http.StatusForbidden {
		t.Fatalf("other customer: expected 403, got %d", status)
	}
	if status, _ := a.call(t, "GET", "/api/orders/"+o.ID, nil, adminTok); status != http.StatusOK {
		t.Fatalf("admin: expected 200, got %d", status)
	}
	if status, _ := a.call(t, "GET", "/api/orders/not-a-uuid", nil, owner); status != http.StatusNotFound {
		t.Fatalf("malformed id: expected 404, got %d", status)
	}

	status, res := a.call(t, "PUT", "/api/orders/"+o.ID+"/status", map[string]string{"status": "completed"}, adminTok)
	if status != http.StatusBadRequest || res.Message != "invalid status transition from pending to completed" {
		t.Fatalf("expected transition error, got %d %q", status, res.Message)
	}

	if status, _ := a.call(t, "PUT", "/api/orders/"+o.ID+"/cancel", nil, other); status != http.StatusForbidden {
		t.Fatalf("other customer cancel: expected 403, got %d", status)
	}
	status, res = a.call(t, "PUT", "/api/orders/"+o.ID+"/cancel", nil, owner)
	if status != http.StatusOK {
		t.Fatalf("owner cancel: %d %s", status, res.Message)
	}
	decode(t, res, &o)
	if o.Status != domain.OrderCancelled {
		t.Fatalf("expected cancelled, got %s", o.Status)
	}
}

func TestMissingProductFailsWholeOrder(t *testing.T) {
	a := newTestApp(t)
	adminTok := a.admin(t)
	p := a.product(t, adminTok, "Poster", 12000, 5)
	_, tok := a.register(t, "gan@printshop.test")

	status, _ := a.call(t, "POST", "/api/orders", map[string]any{
		"items": []map[string]any{
			{"product": p.ID, "quantity": 1},
			{"product": "6f1c1a52-8a0e-4d5b-9a53-5f0a1c2b3d4e", "quantity": 1},
		},
		"shippingInfo":  shippingInfo(),
		"paymentMethod": "cash",
	}, tok)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for a missing product, got %d", status)
	}
	_, res := a.call(t, "GET", "/api/orders/my", nil, tok)
	if res.Pagination == nil || res.Pagination.Total != 0 {
		t.Fatalf("no partial order should exist: %+v", res.Pagination)
	}
}
