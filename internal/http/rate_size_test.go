package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestBodyLimit(t *testing.T) {
	a := newTestApp(t)
	big := `{"name":"x","email":"big@printshop.test","message":"` + strings.Repeat("a", 2<<20) + `"}`
	req := httptest.NewRequest("POST", "/api/contact", bytes.NewBufferString(big))
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.app.Test(req, -1)
	if err != nil {
		// fasthttp may drop the connection before a response is written.
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", resp.StatusCode)
	}
}

func TestContactThrottle(t *testing.T) {
	a := newTestApp(t)
	msg := map[string]string{"name": "Oyun", "email": "oyun@printshop.test", "message": "Do you print on canvas?"}

	for i := 0; i < 5; i++ {
		if status, res := a.call(t, "POST", "/api/contact", msg, ""); status != http.StatusCreated {
			t.Fatalf("message %d: %d %s", i+1, status, res.Message)
		}
	}
	status, res := a.call(t, "POST", "/api/contact", msg, "")
	if status != http.StatusTooManyRequests || res.Success {
		t.Fatalf("expected 429, got %d %+v", status, res)
	}
	if len(a.logged("rate.contact.hit")) != 1 {
		t.Fatalf("expected the throttle to be logged")
	}
}

func TestGlobalLimiterSkipsHealth(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimitMax = 2
	cfg.RateLimitWindow = time.Minute
	a := newTestAppWith(t, cfg)

	for i := 0; i < 2; i++ {
		if status, _ := a.call(t, "GET", "/api/categories", nil, ""); status != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, status)
		}
	}
	if status, _ := a.call(t, "GET", "/api/categories", nil, ""); status != http.StatusTooManyRequests {
		t.Fatalf("expected the global limit to trip, got %d", status)
	}
	resp, err := a.app.Test(httptest.NewRequest("GET", "/health", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health must bypass the limiter, got %d", resp.StatusCode)
	}
	if len(a.logged("rate.global.hit")) != 1 {
		t.Fatalf("expected one global limit log")
	}
}
