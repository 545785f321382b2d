package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"printshop/internal/domain"
	"printshop/internal/gateway/qpay"
	applog "printshop/internal/log"
	"printshop/internal/metrics"
	"printshop/internal/repos"
)

const (
	MethodManual = "manual"
	MethodQPay   = "qpay"
)

var errSettled = errors.New("top-up already settled")

type WalletService struct {
	DB          *sqlx.DB
	Wallet      *repos.WalletRepo
	Gateway     Gateway
	CallbackURL string
}

func NewWalletService(db *sqlx.DB, wallet *repos.WalletRepo, gw Gateway, callbackURL string) *WalletService {
	return &WalletService{DB: db, Wallet: wallet, Gateway: gw, CallbackURL: callbackURL}
}

func checkTopupAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.Invalid("amount must be greater than zero")
	}
	if amount.GreaterThan(domain.MaxTopup) {
		return domain.Invalid("amount must not exceed %s", domain.MaxTopup.String())
	}
	return nil
}

func (s *WalletService) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	return s.Wallet.Balance(ctx, s.DB, userID)
}

// Topup credits the wallet directly and records the ledger entry in the same transaction.
func (s *WalletService) Topup(ctx context.Context, userID string, amount decimal.Decimal) (*domain.WalletTransaction, error) {
	if err := checkTopupAmount(amount); err != nil {
		return nil, err
	}
	t := &domain.WalletTransaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      domain.TxTopup,
		Method:    MethodManual,
		Amount:    amount,
		Reference: "TOPUP-" + shortRef(),
		Status:    domain.TxCompleted,
	}
	err := repos.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		bal, err := s.Wallet.Credit(ctx, tx, userID, amount)
		if err != nil {
			return err
		}
		t.BalanceAfter = bal
		return s.Wallet.InsertTx(ctx, tx, t)
	})
	if err != nil {
		return nil, err
	}
	metrics.WalletCredits.WithLabelValues(MethodManual).Inc()
	return t, nil
}

func (s *WalletService) Transactions(ctx context.Context, userID string, p repos.Page) ([]domain.WalletTransaction, int, error) {
	return s.Wallet.List(ctx, userID, p)
}

// TopupInvoice pairs the gateway invoice with its pending ledger entry.
type TopupInvoice struct {
	Transaction *domain.WalletTransaction `json:"transaction"`
	InvoiceID   string                    `json:"invoiceId"`
	QRText      string                    `json:"qrText"`
	QRImage     string                    `json:"qrImage"`
	ShortURL    string                    `json:"shortUrl"`
	URLs        []qpay.DeepLink           `json:"urls"`
}

// TopupQPay opens a gateway invoice for amount. The wallet is credited once
// the provider reports the invoice paid.
func (s *WalletService) TopupQPay(ctx context.Context, userID string, amount decimal.Decimal) (*TopupInvoice, error) {
	if err := checkTopupAmount(amount); err != nil {
		return nil, err
	}
	ref := "TOPUP-" + shortRef()
	inv, err := s.Gateway.CreateInvoice(ctx, qpay.InvoiceRequest{
		SenderInvoiceNo:     ref,
		InvoiceReceiverCode: userID,
		Description:         "Wallet top-up " + ref,
		Amount:              amount,
		CallbackURL:         s.CallbackURL,
	})
	if err != nil {
		return nil, err
	}
	t := &domain.WalletTransaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      domain.TxTopup,
		Method:    MethodQPay,
		Amount:    amount,
		Reference: inv.InvoiceID,
		Status:    domain.TxPending,
	}
	if err := s.Wallet.InsertTx(ctx, s.DB, t); err != nil {
		return nil, err
	}
	return &TopupInvoice{
		Transaction: t,
		InvoiceID:   inv.InvoiceID,
		QRText:      inv.QRText,
		QRImage:     inv.QRImage,
		ShortURL:    inv.ShortURL,
		URLs:        inv.URLs,
	}, nil
}

// CheckTopup polls the gateway for a top-up invoice and credits the wallet
// the first time it is reported paid.
func (s *WalletService) CheckTopup(ctx context.Context, userID, invoiceID string) (*domain.WalletTransaction, error) {
	t, err := s.Wallet.ByReference(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}
	if t.Type != domain.TxTopup || t.Method != MethodQPay {
		return nil, domain.NotFound("wallet transaction")
	}
	if t.Status != domain.TxPending {
		return t, nil
	}
	pc, err := s.Gateway.CheckPayment(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if _, ok := pc.Paid(); ok {
		if err := s.complete(ctx, t); err != nil {
			return nil, err
		}
	}
	return s.Wallet.ByReference(ctx, userID, invoiceID)
}

// settleTopupInvoice handles a provider callback for a top-up invoice.
func (s *WalletService) settleTopupInvoice(ctx context.Context, cb qpay.Callback, verified bool) (*domain.WalletTransaction, error) {
	t, err := s.Wallet.TopupByReference(ctx, cb.InvoiceID)
	if err != nil {
		return nil, err
	}
	if t.Status != domain.TxPending {
		return t, nil
	}
	paid := verified && cb.PaymentStatus == qpay.StatusPaid
	if !verified {
		pc, err := s.Gateway.CheckPayment(ctx, cb.InvoiceID)
		if err != nil {
			applog.L().Warn("top-up confirmation failed", zap.String("invoice_id", cb.InvoiceID), zap.Error(err))
			return t, nil
		}
		_, paid = pc.Paid()
	}
	if !paid {
		return t, nil
	}
	if err := s.complete(ctx, t); err != nil {
		return nil, err
	}
	return s.Wallet.TopupByReference(ctx, cb.InvoiceID)
}

// complete credits a pending top-up exactly once.
func (s *WalletService) complete(ctx context.Context, t *domain.WalletTransaction) error {
	err := repos.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		bal, err := s.Wallet.Credit(ctx, tx, t.UserID, t.Amount)
		if err != nil {
			return err
		}
		done, err := s.Wallet.CompletePending(ctx, tx, t.ID, bal)
		if err != nil {
			return err
		}
		if !done {
			return errSettled
		}
		return nil
	})
	if errors.Is(err, errSettled) {
		return nil
	}
	if err != nil {
		return err
	}
	metrics.WalletCredits.WithLabelValues(MethodQPay).Inc()
	applog.L().Info("wallet top-up settled", zap.String("user_id", t.UserID), zap.String("invoice_id", t.Reference))
	return nil
}

func shortRef() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}
