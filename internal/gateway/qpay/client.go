package qpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"printshop/internal/domain"
	"printshop/internal/metrics"
)

// TokenTTL is how long a token is reused. Provider tokens live 60 minutes.
const TokenTTL = 50 * time.Minute

const (
	msgConnect = "payment gateway connection failed"
	msgInvoice = "failed to create payment invoice"
	msgCheck   = "failed to check payment status"
	msgCancel  = "failed to cancel payment invoice"
)

type Config struct {
	BaseURL     string
	Username    string
	Password    string
	InvoiceCode string
	Timeout     time.Duration
}

// Client talks to the QPay merchant API. One instance is shared by the
// process; its token cache is guarded by mu.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger

	mu        sync.Mutex
	token     string
	fetchedAt time.Time
	now       func() time.Time
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger.Named("qpay"),
		now:    time.Now,
	}
}

// Token returns a cached bearer token, fetching a new one once the cached
// token is older than TokenTTL.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Sub(c.fetchedAt) < TokenTTL {
		return c.token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/auth/token", nil)
	if err != nil {
		return "", domain.Gateway(msgConnect, err)
	}
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)

	var tr tokenResponse
	err = c.do(req, &tr)
	metrics.GatewayOutcome("token", err)
	if err != nil {
		c.logger.Error("token request failed", zap.Error(err))
		return "", domain.Gateway(msgConnect, err)
	}
	if tr.AccessToken == "" {
		return "", domain.Gateway(msgConnect, fmt.Errorf("empty access token"))
	}
	c.token = tr.AccessToken
	c.fetchedAt = c.now()
	return c.token, nil
}

func (c *Client) CreateInvoice(ctx context.Context, in InvoiceRequest) (*Invoice, error) {
	body := invoiceBody{InvoiceCode: c.cfg.InvoiceCode, InvoiceRequest: in}
	var inv Invoice
	err := c.authed(ctx, http.MethodPost, "/invoice", body, &inv)
	metrics.GatewayOutcome("create_invoice", err)
	if err != nil {
		c.logger.Error("create invoice failed", zap.String("sender_invoice_no", in.SenderInvoiceNo), zap.Error(err))
		return nil, wrap(msgInvoice, err)
	}
	c.logger.Info("invoice created", zap.String("invoice_id", inv.InvoiceID), zap.String("sender_invoice_no", in.SenderInvoiceNo))
	return &inv, nil
}

func (c *Client) CheckPayment(ctx context.Context, invoiceID string) (*PaymentCheck, error) {
	body := checkBody{
		ObjectType: "INVOICE",
		ObjectID:   invoiceID,
		Offset:     checkOffset{PageNumber: 1, PageLimit: 100},
	}
	var pc PaymentCheck
	err := c.authed(ctx, http.MethodPost, "/payment/check", body, &pc)
	metrics.GatewayOutcome("check_payment", err)
	if err != nil {
		c.logger.Error("payment check failed", zap.String("invoice_id", invoiceID), zap.Error(err))
		return nil, wrap(msgCheck, err)
	}
	return &pc, nil
}

func (c *Client) CancelInvoice(ctx context.Context, invoiceID string) error {
	err := c.authed(ctx, http.MethodDelete, "/invoice/"+url.PathEscape(invoiceID), nil, nil)
	metrics.GatewayOutcome("cancel_invoice", err)
	if err != nil {
		c.logger.Error("cancel invoice failed", zap.String("invoice_id", invoiceID), zap.Error(err))
		return wrap(msgCancel, err)
	}
	return nil
}

func (c *Client) authed(ctx context.Context, method, path string, in, out any) error {
	token, err := c.Token(ctx)
	if err != nil {
		return err
	}
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("qpay %s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if out == nil || len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, out)
}

// wrap keeps an already classified gateway error and classifies the rest.
func wrap(msg string, err error) error {
	if domain.KindOf(err) == domain.KindGateway {
		return err
	}
	return domain.Gateway(msg, err)
}
