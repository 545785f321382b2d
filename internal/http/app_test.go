package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"printshop/internal/config"
	"printshop/internal/domain"
	"printshop/internal/gateway/qpay"
	"printshop/internal/http/handlers"
	applog "printshop/internal/log"
	"printshop/internal/repos"
)

const callbackSecret = "cb-secret"

// stubGateway records invoices and reports the ones marked paid.
type stubGateway struct {
	mu     sync.Mutex
	next   int
	paid   map[string]bool
	checks int
}

func (g *stubGateway) CreateInvoice(_ context.Context, in qpay.InvoiceRequest) (*qpay.Invoice, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	id := "inv-" + strconv.Itoa(g.next)
	return &qpay.Invoice{InvoiceID: id, QRText: "qr:" + id, QRImage: "img"}, nil
}

func (g *stubGateway) CheckPayment(_ context.Context, id string) (*qpay.PaymentCheck, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.checks++
	pc := &qpay.PaymentCheck{}
	if g.paid[id] {
		pc.Count = 1
		pc.Rows = []qpay.PaymentRow{{PaymentID: "pay-" + id, PaymentStatus: qpay.StatusPaid}}
	}
	return pc, nil
}

func (g *stubGateway) CancelInvoice(context.Context, string) error { return nil }

func (g *stubGateway) markPaid(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.paid[id] = true
}

type testApp struct {
	app  *fiber.App
	db   *sqlx.DB
	deps *handlers.Deps
	gw   *stubGateway
	logs *observer.ObservedLogs
}

func testConfig(t *testing.T) config.Config {
	return config.Config{
		Env:         "test",
		JWTSecret:   "test-secret",
		JWTTTL:      time.Hour,
		UploadDir:   t.TempDir(),
		CORSOrigins: []string{"http://localhost:3000"},
		BodyLimitMB: 1,
		QPay:        config.QPay{CallbackURL: "http://shop/cb", CallbackSecret: callbackSecret},
	}
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWith(t, testConfig(t))
}

func newTestAppWith(t *testing.T, cfg config.Config) *testApp {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	applog.SetLogger(zap.New(core))
	t.Cleanup(func() { applog.SetLogger(zap.NewNop()) })

	db, err := repos.OpenDB(repos.MemoryDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	gw := &stubGateway{paid: map[string]bool{}}
	deps := handlers.NewDeps(db, cfg, gw)
	return &testApp{app: handlers.NewApp(cfg, deps), db: db, deps: deps, gw: gw, logs: logs}
}

type apiResponse struct {
	Success    bool                 `json:"success"`
	Message    string               `json:"message"`
	Data       json.RawMessage      `json:"data"`
	Pagination *handlers.Pagination `json:"pagination"`
}

func (a *testApp) send(t *testing.T, req *http.Request, token string) (int, apiResponse) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	var out apiResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("%s %s: body is not the envelope: %s", req.Method, req.URL.Path, raw)
		}
	}
	return resp.StatusCode, out
}

func (a *testApp) call(t *testing.T, method, path string, body any, token string) (int, apiResponse) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.send(t, req, token)
}

// fetch issues a plain GET and reports only the status; the body may be a file.
func (a *testApp) fetch(t *testing.T, path string) int {
	t.Helper()
	resp, err := a.app.Test(httptest.NewRequest("GET", path, nil), -1)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode
}

func decode(t *testing.T, r apiResponse, out any) {
	t.Helper()
	if err := json.Unmarshal(r.Data, out); err != nil {
		t.Fatalf("decode data %s: %v", r.Data, err)
	}
}

// register creates a customer and returns its id and token.
func (a *testApp) register(t *testing.T, email string) (string, string) {
	t.Helper()
	status, res := a.call(t, "POST", "/api/auth/register", map[string]string{
		"name": "Customer", "email": email, "password": "Passw0rd!",
	}, "")
	if status != http.StatusCreated {
		t.Fatalf("register %s: %d %s", email, status, res.Message)
	}
	var out struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}
	decode(t, res, &out)
	return out.User.ID, out.Token
}

func (a *testApp) admin(t *testing.T) string {
	t.Helper()
	u, err := a.deps.Auth.EnsureAdmin(context.Background(), "Admin", "admin@printshop.test", "Adm1nPass!")
	if err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	tok, err := a.deps.Auth.IssueToken(u)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func (a *testApp) product(t *testing.T, adminTok, name string, price, stock int) domain.Product {
	t.Helper()
	status, res := a.call(t, "POST", "/api/products", map[string]any{
		"name": name, "category": "flyers", "price": price, "stock": stock,
	}, adminTok)
	if status != http.StatusCreated {
		t.Fatalf("create product: %d %s", status, res.Message)
	}
	var p domain.Product
	decode(t, res, &p)
	return p
}

func (a *testApp) logged(action string) []observer.LoggedEntry {
	return a.logs.FilterMessage(action).All()
}
