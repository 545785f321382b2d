package handlers_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	perrors "github.com/pkg/errors"

	"printshop/internal/domain"
	"printshop/internal/http/handlers"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.Invalid("bad"), http.StatusBadRequest},
		{domain.Conflict("email"), http.StatusBadRequest},
		{domain.NotFound("order"), http.StatusNotFound},
		{domain.Unauthorized("no"), http.StatusUnauthorized},
		{domain.ErrNotOwner, http.StatusForbidden},
		{perrors.Wrap(domain.ErrInsufficientBalance, "debit"), http.StatusBadRequest},
		{fiber.ErrRequestEntityTooLarge, http.StatusRequestEntityTooLarge},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := handlers.StatusOf(tc.err); got != tc.want {
			t.Errorf("StatusOf(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestInternalErrorsAreHidden(t *testing.T) {
	a := newTestApp(t)
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Get("/explode", func(c *fiber.Ctx) error {
		return errors.New("no such table: orders_secret")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/explode", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	body := string(raw)
	if strings.Contains(body, "orders_secret") {
		t.Fatalf("internal detail leaked: %s", body)
	}
	if !strings.Contains(body, "Something went wrong") {
		t.Fatalf("expected the generic message, got %s", body)
	}
	if len(a.logged("server.error")) != 1 {
		t.Fatalf("expected the failure to be logged")
	}
}

func TestUnknownRouteAndMalformedBody(t *testing.T) {
	a := newTestApp(t)

	status, res := a.call(t, "GET", "/api/nope", nil, "")
	if status != http.StatusNotFound || res.Success || res.Message != "route not found" {
		t.Fatalf("unknown route: %d %+v", status, res)
	}

	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"email":`))
	req.Header.Set("Content-Type", "application/json")
	status, res = a.send(t, req, "")
	if status != http.StatusBadRequest || res.Message != "malformed request body" {
		t.Fatalf("malformed body: %d %q", status, res.Message)
	}
}
