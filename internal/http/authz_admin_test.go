package handlers_test

import (
	"net/http"
	"testing"
)

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	a := newTestApp(t)
	_, userTok := a.register(t, "carol@printshop.test")
	adminTok := a.admin(t)

	denied := []struct{ method, path string }{
		{"GET", "/api/admin/dashboard"},
		{"GET", "/api/admin/users"},
		{"GET", "/api/orders"},
		{"POST", "/api/products"},
		{"GET", "/api/contact"},
		{"GET", "/api/blogs/admin/all"},
	}
	for _, d := range denied {
		status, res := a.call(t, d.method, d.path, map[string]any{}, userTok)
		if status != http.StatusForbidden {
			t.Fatalf("%s %s as customer: expected 403, got %d", d.method, d.path, status)
		}
		if res.Message != "not authorized as admin" {
			t.Fatalf("%s %s: unexpected message %q", d.method, d.path, res.Message)
		}
	}
	if got := len(a.logged("access.denied.admin")); got != len(denied) {
		t.Fatalf("expected %d access.denied.admin entries, got %d", len(denied), got)
	}

	status, res := a.call(t, "GET", "/api/admin/dashboard", nil, adminTok)
	if status != http.StatusOK {
		t.Fatalf("dashboard as admin: %d %s", status, res.Message)
	}
	var d struct {
		TotalUsers int `json:"totalUsers"`
	}
	decode(t, res, &d)
	if d.TotalUsers != 2 {
		t.Fatalf("expected 2 users on the dashboard, got %d", d.TotalUsers)
	}
}

func TestAdminCannotDemoteSelf(t *testing.T) {
	a := newTestApp(t)
	adminTok := a.admin(t)
	_, res := a.call(t, "GET", "/api/auth/me", nil, adminTok)
	var me struct {
		ID string `json:"id"`
	}
	decode(t, res, &me)

	status, res := a.call(t, "PUT", "/api/admin/users/"+me.ID+"/role", map[string]string{"role": "user"}, adminTok)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", status, res.Message)
	}
}
