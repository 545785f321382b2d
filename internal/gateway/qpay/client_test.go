package qpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printshop/internal/domain"
)

type fakeProvider struct {
	tokens   atomic.Int32
	invoices atomic.Int32
	paid     atomic.Bool
	failAll  atomic.Bool
	lastBody map[string]any
}

func (f *fakeProvider) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/token", func(w http.ResponseWriter, r *http.Request) {
		if f.failAll.Load() {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "merchant" || pass != "secret" {
			http.Error(w, "bad creds", http.StatusUnauthorized)
			return
		}
		n := f.tokens.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok-" + string(rune('0'+n)), "expires_in": 3600})
	})
	mux.HandleFunc("POST /invoice", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		f.lastBody = map[string]any{}
		_ = json.NewDecoder(r.Body).Decode(&f.lastBody)
		f.invoices.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"invoice_id":    "inv-1",
			"qr_text":       "qr-text",
			"qr_image":      "base64png",
			"qPay_shortUrl": "https://qpay.mn/s/abc",
			"urls":          []map[string]string{{"name": "Khan bank", "link": "khanbank://q?qPay_QRcode=qr-text"}},
		})
	})
	mux.HandleFunc("POST /payment/check", func(w http.ResponseWriter, r *http.Request) {
		var body checkBody
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "INVOICE", body.ObjectType)
		rows := []map[string]any{}
		if f.paid.Load() {
			rows = append(rows, map[string]any{"payment_id": "pay-9", "payment_status": "PAID", "payment_amount": 90000})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"count": len(rows), "paid_amount": 90000, "rows": rows})
	})
	mux.HandleFunc("DELETE /invoice/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "inv-1" {
			http.Error(w, "unknown invoice", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func newTestClient(t *testing.T) (*Client, *fakeProvider) {
	t.Helper()
	fp := &fakeProvider{}
	srv := httptest.NewServer(fp.handler(t))
	t.Cleanup(srv.Close)
	c := NewClient(Config{BaseURL: srv.URL, Username: "merchant", Password: "secret", InvoiceCode: "SHOP_INVOICE"}, nil)
	return c, fp
}

func TestCreateInvoiceReusesToken(t *testing.T) {
	c, fp := newTestClient(t)
	ctx := context.Background()

	req := InvoiceRequest{SenderInvoiceNo: "PS-1", InvoiceReceiverCode: "u1", Description: "Order PS-1", Amount: decimal.NewFromInt(90000), CallbackURL: "http://shop/cb"}
	inv, err := c.CreateInvoice(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "inv-1", inv.InvoiceID)
	assert.Equal(t, "https://qpay.mn/s/abc", inv.ShortURL)
	require.Len(t, inv.URLs, 1)

	assert.Equal(t, "SHOP_INVOICE", fp.lastBody["invoice_code"])
	assert.Equal(t, float64(90000), fp.lastBody["amount"])
	assert.Equal(t, "http://shop/cb", fp.lastBody["callback_url"])

	_, err = c.CreateInvoice(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int32(1), fp.tokens.Load(), "token fetched once")
	assert.Equal(t, int32(2), fp.invoices.Load())
}

func TestTokenRefreshesAfterTTL(t *testing.T) {
	c, fp := newTestClient(t)
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	first, err := c.Token(context.Background())
	require.NoError(t, err)

	c.now = func() time.Time { return base.Add(49 * time.Minute) }
	again, err := c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, again)

	c.now = func() time.Time { return base.Add(51 * time.Minute) }
	fresh, err := c.Token(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first, fresh)
	assert.Equal(t, int32(2), fp.tokens.Load())
}

func TestCheckPayment(t *testing.T) {
	c, fp := newTestClient(t)

	pc, err := c.CheckPayment(context.Background(), "inv-1")
	require.NoError(t, err)
	_, paid := pc.Paid()
	assert.False(t, paid)

	fp.paid.Store(true)
	pc, err = c.CheckPayment(context.Background(), "inv-1")
	require.NoError(t, err)
	id, paid := pc.Paid()
	assert.True(t, paid)
	assert.Equal(t, "pay-9", id)
}

func TestCancelInvoice(t *testing.T) {
	c, _ := newTestClient(t)
	require.NoError(t, c.CancelInvoice(context.Background(), "inv-1"))

	err := c.CancelInvoice(context.Background(), "missing")
	require.Error(t, err)
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.KindGateway, de.Kind)
	assert.Equal(t, msgCancel, de.Message)
}

func TestProviderOutageIsGatewayError(t *testing.T) {
	c, fp := newTestClient(t)
	fp.failAll.Store(true)

	_, err := c.CreateInvoice(context.Background(), InvoiceRequest{SenderInvoiceNo: "PS-2", Amount: decimal.NewFromInt(1)})
	require.Error(t, err)
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.KindGateway, de.Kind)
	assert.Equal(t, msgConnect, de.Message)
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"invoice_id":"inv-1","payment_status":"PAID"}`)
	sig := Sign("s3cret", body)

	assert.True(t, Verify("s3cret", body, sig))
	assert.True(t, Verify("s3cret", body, "sha256="+sig))
	assert.False(t, Verify("other", body, sig))
	assert.False(t, Verify("s3cret", []byte(`{"invoice_id":"inv-2"}`), sig))
	assert.False(t, Verify("", body, sig))
	assert.False(t, Verify("s3cret", body, "zz"))
}
