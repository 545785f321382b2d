package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"printshop/internal/domain"
	"printshop/internal/gateway/qpay"
	applog "printshop/internal/log"
	"printshop/internal/metrics"
	"printshop/internal/repos"
	"printshop/internal/validate"
)

// Gateway is the part of the QPay client the shop depends on.
type Gateway interface {
	CreateInvoice(ctx context.Context, in qpay.InvoiceRequest) (*qpay.Invoice, error)
	CheckPayment(ctx context.Context, invoiceID string) (*qpay.PaymentCheck, error)
	CancelInvoice(ctx context.Context, invoiceID string) error
}

const (
	SourcePoll    = "poll"
	SourceWebhook = "webhook"
)

type PaymentService struct {
	DB             *sqlx.DB
	Orders         *repos.OrderRepo
	Gateway        Gateway
	Wallet         *WalletService
	CallbackURL    string
	CallbackSecret string
	now            func() time.Time
}

func NewPaymentService(db *sqlx.DB, orders *repos.OrderRepo, gw Gateway, wallet *WalletService, callbackURL, secret string) *PaymentService {
	return &PaymentService{
		DB:             db,
		Orders:         orders,
		Gateway:        gw,
		Wallet:         wallet,
		CallbackURL:    callbackURL,
		CallbackSecret: secret,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// OrderInvoice is what a customer needs to pay an order through QPay.
type OrderInvoice struct {
	OrderID   string          `json:"orderId"`
	InvoiceID string          `json:"invoiceId"`
	QRText    string          `json:"qrText"`
	QRImage   string          `json:"qrImage"`
	ShortURL  string          `json:"shortUrl"`
	URLs      []qpay.DeepLink `json:"urls"`
}

// PaymentStatus is the outcome of a payment check.
type PaymentStatus struct {
	OrderID string             `json:"orderId"`
	Paid    bool               `json:"paid"`
	Status  domain.OrderStatus `json:"status"`
	Order   *domain.Order      `json:"order,omitempty"`
}

func (s *PaymentService) ownedOrder(ctx context.Context, id string, viewer *domain.User) (*domain.Order, error) {
	oid, ok := validate.ID(id)
	if !ok {
		return nil, domain.NotFound("order")
	}
	o, err := s.Orders.Get(ctx, oid)
	if err != nil {
		return nil, err
	}
	if !viewer.IsAdmin() && !o.OwnedBy(viewer.ID) {
		return nil, domain.ErrNotOwner
	}
	return o, nil
}

// CreateOrderInvoice opens a gateway invoice for a pending order. Opening a
// second invoice replaces the first on the order.
func (s *PaymentService) CreateOrderInvoice(ctx context.Context, orderID string, viewer *domain.User) (*OrderInvoice, error) {
	o, err := s.ownedOrder(ctx, orderID, viewer)
	if err != nil {
		return nil, err
	}
	if o.Status != domain.OrderPending {
		return nil, domain.Invalid("order is not awaiting payment")
	}
	if o.PaymentMethod == domain.PayWallet {
		return nil, domain.Invalid("order is paid from the wallet")
	}
	receiver := viewer.ID
	if o.UserID != nil {
		receiver = *o.UserID
	}
	inv, err := s.Gateway.CreateInvoice(ctx, qpay.InvoiceRequest{
		SenderInvoiceNo:     o.OrderNumber,
		InvoiceReceiverCode: receiver,
		Description:         "Order " + o.OrderNumber,
		Amount:              o.Total,
		CallbackURL:         s.CallbackURL,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Orders.SetInvoice(ctx, o.ID, inv.InvoiceID, inv.QRText, inv.QRImage); err != nil {
		return nil, err
	}
	return &OrderInvoice{
		OrderID:   o.ID,
		InvoiceID: inv.InvoiceID,
		QRText:    inv.QRText,
		QRImage:   inv.QRImage,
		ShortURL:  inv.ShortURL,
		URLs:      inv.URLs,
	}, nil
}

// CancelOrderInvoice voids the order's open invoice and clears it locally.
func (s *PaymentService) CancelOrderInvoice(ctx context.Context, orderID string, viewer *domain.User) error {
	o, err := s.ownedOrder(ctx, orderID, viewer)
	if err != nil {
		return err
	}
	if o.QPayInvoiceID == "" {
		return domain.ErrNoInvoice
	}
	if err := s.Gateway.CancelInvoice(ctx, o.QPayInvoiceID); err != nil {
		return err
	}
	return s.Orders.ClearInvoice(ctx, o.ID)
}

// CheckOrderPayment asks the gateway whether the order's invoice has been
// paid and settles the order when it has.
func (s *PaymentService) CheckOrderPayment(ctx context.Context, orderID string, viewer *domain.User) (*PaymentStatus, error) {
	o, err := s.ownedOrder(ctx, orderID, viewer)
	if err != nil {
		return nil, err
	}
	if o.Status != domain.OrderPending {
		return statusOf(o), nil
	}
	if o.QPayInvoiceID == "" {
		return nil, domain.ErrNoInvoice
	}
	pc, err := s.Gateway.CheckPayment(ctx, o.QPayInvoiceID)
	if err != nil {
		return nil, err
	}
	if paymentID, ok := pc.Paid(); ok {
		if err := s.settle(ctx, o, paymentID, SourcePoll); err != nil {
			return nil, err
		}
	}
	o, err = s.Orders.Get(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	return statusOf(o), nil
}

// CallbackResult reports what a provider callback settled.
type CallbackResult struct {
	InvoiceID string `json:"invoiceId"`
	OrderID   string `json:"orderId,omitempty"`
	TopupID   string `json:"topupId,omitempty"`
	Paid      bool   `json:"paid"`
	Verified  bool   `json:"verified"`
}

// HandleCallback processes a provider notification. A signed PAID callback
// settles directly; anything unsigned is only a hint and is confirmed with a
// payment check first. The invoice may belong to an order or to a wallet
// top-up.
func (s *PaymentService) HandleCallback(ctx context.Context, body []byte, signature string) (*CallbackResult, error) {
	var cb qpay.Callback
	if err := json.Unmarshal(body, &cb); err != nil {
		return nil, domain.Invalid("malformed callback body")
	}
	if cb.InvoiceID == "" {
		return nil, domain.Invalid("invoice_id is required")
	}
	res := &CallbackResult{InvoiceID: cb.InvoiceID, Verified: qpay.Verify(s.CallbackSecret, body, signature)}

	o, err := s.Orders.ByInvoice(ctx, cb.InvoiceID)
	if err != nil && !domain.IsNotFound(err) {
		return nil, err
	}
	if o == nil {
		if s.Wallet == nil {
			return nil, err
		}
		t, terr := s.Wallet.settleTopupInvoice(ctx, cb, res.Verified)
		if domain.IsNotFound(terr) {
			return nil, err
		}
		if terr != nil {
			return nil, terr
		}
		res.TopupID, res.Paid = t.ID, t.Status == domain.TxCompleted
		return res, nil
	}
	res.OrderID = o.ID

	if o.Status == domain.OrderPending {
		paymentID, paid := s.confirm(ctx, cb, res.Verified)
		if paid {
			if err := s.settle(ctx, o, paymentID, SourceWebhook); err != nil {
				return nil, err
			}
		}
		if o, err = s.Orders.Get(ctx, o.ID); err != nil {
			return nil, err
		}
	}
	res.Paid = statusOf(o).Paid
	return res, nil
}

// confirm decides whether a callback means the invoice is paid.
func (s *PaymentService) confirm(ctx context.Context, cb qpay.Callback, verified bool) (string, bool) {
	if verified {
		return cb.PaymentID, cb.PaymentStatus == qpay.StatusPaid
	}
	pc, err := s.Gateway.CheckPayment(ctx, cb.InvoiceID)
	if err != nil {
		applog.L().Warn("callback confirmation failed", zap.String("invoice_id", cb.InvoiceID), zap.Error(err))
		return "", false
	}
	return pc.Paid()
}

// settle flips a pending order to paid. Repeated confirmations are no-ops.
// A provider payment without an id is recorded under the invoice id.
func (s *PaymentService) settle(ctx context.Context, o *domain.Order, paymentID, source string) error {
	if paymentID == "" {
		paymentID = "QPAY-" + o.QPayInvoiceID
	}
	flipped, err := s.Orders.MarkPaid(ctx, s.DB, o.ID, paymentID, s.now())
	if err != nil {
		return err
	}
	if flipped {
		metrics.PaymentsReconciled.WithLabelValues(source).Inc()
		applog.L().Info("order paid", zap.String("order_id", o.ID), zap.String("order_number", o.OrderNumber),
			zap.String("payment_id", paymentID), zap.String("source", source))
	}
	return nil
}

func statusOf(o *domain.Order) *PaymentStatus {
	paid := o.Status == domain.OrderPaid || o.Status == domain.OrderProcessing || o.Status == domain.OrderCompleted
	return &PaymentStatus{OrderID: o.ID, Paid: paid, Status: o.Status, Order: o}
}
