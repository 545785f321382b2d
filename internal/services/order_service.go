package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"printshop/internal/domain"
	applog "printshop/internal/log"
	"printshop/internal/metrics"
	"printshop/internal/repos"
	"printshop/internal/validate"
)

type OrderService struct {
	DB      *sqlx.DB
	Orders  *repos.OrderRepo
	Prods   *repos.ProductRepo
	Wallet  *repos.WalletRepo
	Gateway Gateway // optional; used to void open invoices on cancel
	now     func() time.Time
}

func NewOrderService(db *sqlx.DB, orders *repos.OrderRepo, prods *repos.ProductRepo, wallet *repos.WalletRepo, gw Gateway) *OrderService {
	return &OrderService{DB: db, Orders: orders, Prods: prods, Wallet: wallet, Gateway: gw, now: func() time.Time { return time.Now().UTC() }}
}

type OrderLine struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type PlaceOrderInput struct {
	Items         []OrderLine          `json:"items"`
	Shipping      domain.Shipping      `json:"shippingInfo"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
	Notes         string               `json:"notes"`
}

func newOrderNumber() string {
	return "PS-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// Place prices the order from the catalog and stores it. Wallet orders are
// paid in the same transaction that debits the balance; other methods start
// out pending.
func (s *OrderService) Place(ctx context.Context, userID string, in PlaceOrderInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, domain.Invalid("order must contain at least one item")
	}
	if !in.PaymentMethod.Valid() {
		return nil, domain.Invalid("payment method must be one of wallet, qpay, cash")
	}
	ship, err := checkShipping(in.Shipping)
	if err != nil {
		return nil, err
	}
	notes, ok := validate.Optional(in.Notes, 1000)
	if !ok {
		return nil, domain.Invalid("notes are too long")
	}

	ids := make([]string, 0, len(in.Items))
	for _, line := range in.Items {
		id, ok := validate.ID(line.Product)
		if !ok {
			return nil, domain.NotFound("product")
		}
		if !validate.Qty(line.Quantity) {
			return nil, domain.Invalid("quantity must be between 1 and %d", validate.MaxQty)
		}
		ids = append(ids, id)
	}
	products, err := s.Prods.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make(domain.OrderItems, 0, len(in.Items))
	for i, line := range in.Items {
		p, ok := products[ids[i]]
		if !ok {
			return nil, domain.NotFound("product")
		}
		if !p.Active {
			return nil, domain.Invalid("product %q is not available", p.Name)
		}
		items = append(items, domain.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  line.Quantity,
			Image:     p.Image(),
		})
	}

	uid := userID
	o := &domain.Order{
		ID:            uuid.NewString(),
		OrderNumber:   newOrderNumber(),
		UserID:        &uid,
		Items:         items,
		Total:         items.Total(),
		Status:        domain.OrderPending,
		PaymentMethod: in.PaymentMethod,
		Shipping:      ship,
		Notes:         notes,
	}

	if in.PaymentMethod == domain.PayWallet {
		err = repos.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
			bal, err := s.Wallet.Debit(ctx, tx, userID, o.Total)
			if err != nil {
				return err
			}
			paidAt := s.now()
			o.Status = domain.OrderPaid
			o.PaidAt = &paidAt
			o.TransactionID = "WALLET-" + uuid.NewString()
			if err := s.Orders.Insert(ctx, tx, o); err != nil {
				return err
			}
			return s.Wallet.InsertTx(ctx, tx, &domain.WalletTransaction{
				ID:           uuid.NewString(),
				UserID:       userID,
				Type:         domain.TxPayment,
				Method:       string(domain.PayWallet),
				Amount:       o.Total,
				BalanceAfter: bal,
				Reference:    o.OrderNumber,
				Status:       domain.TxCompleted,
			})
		})
	} else {
		err = s.Orders.Insert(ctx, s.DB, o)
	}
	if err != nil {
		return nil, err
	}
	metrics.OrdersCreated.WithLabelValues(string(o.PaymentMethod)).Inc()
	return o, nil
}

func checkShipping(in domain.Shipping) (domain.Shipping, error) {
	var ok bool
	out := in
	if out.Name, ok = validate.Name(in.Name); !ok {
		return out, domain.Invalid("shipping name is required")
	}
	if out.Phone, ok = validate.Phone(in.Phone); !ok {
		return out, domain.Invalid("a valid shipping phone is required")
	}
	if out.Address, ok = validate.Text(in.Address, 300); !ok {
		return out, domain.Invalid("shipping address is required")
	}
	if out.City, ok = validate.Optional(in.City, 100); !ok {
		return out, domain.Invalid("city is too long")
	}
	if out.Note, ok = validate.Optional(in.Note, 500); !ok {
		return out, domain.Invalid("shipping note is too long")
	}
	return out, nil
}

// Get loads an order for viewer. Only the owner or an admin may see it.
func (s *OrderService) Get(ctx context.Context, id string, viewer *domain.User) (*domain.Order, error) {
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

func (s *OrderService) ListMine(ctx context.Context, userID string, p repos.Page) ([]domain.Order, int, error) {
	return s.Orders.List(ctx, repos.OrderFilter{UserID: userID}, p)
}

func (s *OrderService) ListAll(ctx context.Context, f repos.OrderFilter, p repos.Page) ([]domain.Order, int, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, domain.Invalid("unknown order status %q", f.Status)
	}
	f.Search = validate.Q(f.Search)
	return s.Orders.List(ctx, f, p)
}

// Cancel lets the owner withdraw an order that has not been paid yet.
func (s *OrderService) Cancel(ctx context.Context, id string, user *domain.User) (*domain.Order, error) {
	o, err := s.Get(ctx, id, user)
	if err != nil {
		return nil, err
	}
	if !o.OwnedBy(user.ID) {
		return nil, domain.ErrNotOwner
	}
	if o.Status != domain.OrderPending {
		return nil, domain.Invalid("only pending orders can be cancelled")
	}
	return s.UpdateStatus(ctx, o.ID, domain.OrderCancelled)
}

// UpdateStatus applies one step of the order lifecycle. Cancelling an order
// that was paid from the wallet puts the money back.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, to domain.OrderStatus) (*domain.Order, error) {
	oid, ok := validate.ID(id)
	if !ok {
		return nil, domain.NotFound("order")
	}
	if !to.Valid() {
		return nil, domain.Invalid("unknown order status %q", to)
	}
	o, err := s.Orders.Get(ctx, oid)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanMoveTo(to) {
		return nil, domain.ErrTransition(o.Status, to)
	}

	var paidAt *time.Time
	if to == domain.OrderPaid {
		ts := s.now()
		paidAt = &ts
	}
	refund := to == domain.OrderCancelled && o.PaymentMethod == domain.PayWallet &&
		o.PaidAt != nil && o.UserID != nil

	err = repos.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		moved, err := s.Orders.SetStatus(ctx, tx, o.ID, o.Status, to, paidAt)
		if err != nil {
			return err
		}
		if !moved {
			return domain.Conflict("order status changed concurrently, retry")
		}
		if !refund {
			return nil
		}
		bal, err := s.Wallet.Credit(ctx, tx, *o.UserID, o.Total)
		if err != nil {
			return err
		}
		return s.Wallet.InsertTx(ctx, tx, &domain.WalletTransaction{
			ID:           uuid.NewString(),
			UserID:       *o.UserID,
			Type:         domain.TxRefund,
			Method:       string(domain.PayWallet),
			Amount:       o.Total,
			BalanceAfter: bal,
			Reference:    o.OrderNumber,
			Status:       domain.TxCompleted,
		})
	})
	if err != nil {
		return nil, err
	}

	if to == domain.OrderCancelled && o.QPayInvoiceID != "" {
		s.voidInvoice(ctx, o)
	}
	return s.Orders.Get(ctx, o.ID)
}

// voidInvoice cancels the order's open invoice. Provider failures are
// logged and otherwise ignored; the order is already cancelled locally.
func (s *OrderService) voidInvoice(ctx context.Context, o *domain.Order) {
	if s.Gateway != nil {
		if err := s.Gateway.CancelInvoice(ctx, o.QPayInvoiceID); err != nil {
			applog.L().Warn("invoice cancel failed", zap.String("order_id", o.ID),
				zap.String("invoice_id", o.QPayInvoiceID), zap.Error(err))
		}
	}
	if err := s.Orders.ClearInvoice(ctx, o.ID); err != nil {
		applog.L().Warn("clear invoice failed", zap.String("order_id", o.ID), zap.Error(err))
	}
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	oid, ok := validate.ID(id)
	if !ok {
		return domain.NotFound("order")
	}
	return s.Orders.Delete(ctx, oid)
}
