package repos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"printshop/internal/domain"
)

const orderCols = `id,order_number,user_id,items,total,status,payment_method,shipping,notes,transaction_id,paid_at,qpay_invoice_id,qpay_qr_text,qpay_qr_image,created_at,updated_at`

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// Insert writes a new order through ex, which may be the pool or a transaction.
func (r *OrderRepo) Insert(ctx context.Context, ex sqlx.ExecerContext, o *domain.Order) error {
	ts := now()
	o.CreatedAt, o.UpdatedAt = ts, ts
	_, err := ex.ExecContext(ctx, `INSERT INTO orders(`+orderCols+`) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		o.ID, o.OrderNumber, o.UserID, o.Items, o.Total, o.Status, o.PaymentMethod, o.Shipping, o.Notes,
		o.TransactionID, o.PaidAt, o.QPayInvoiceID, o.QPayQRText, o.QPayQRImage, o.CreatedAt, o.UpdatedAt)
	return storeErr(err, "order", "orders: insert")
}

func (r *OrderRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.GetContext(ctx, &o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, id); err != nil {
		return nil, storeErr(err, "order", "orders: get")
	}
	return &o, nil
}

// ByInvoice finds the order currently bound to a gateway invoice.
func (r *OrderRepo) ByInvoice(ctx context.Context, invoiceID string) (*domain.Order, error) {
	if invoiceID == "" {
		return nil, domain.NotFound("order")
	}
	var o domain.Order
	if err := r.db.GetContext(ctx, &o, `SELECT `+orderCols+` FROM orders WHERE qpay_invoice_id = ?`, invoiceID); err != nil {
		return nil, storeErr(err, "order", "orders: by invoice")
	}
	return &o, nil
}

type OrderFilter struct {
	UserID string
	Status domain.OrderStatus
	Search string
}

func (r *OrderRepo) List(ctx context.Context, f OrderFilter, p Page) ([]domain.Order, int, error) {
	p = p.Normalize()
	var w where
	if f.UserID != "" {
		w.add(`user_id = ?`, f.UserID)
	}
	if f.Status != "" {
		w.add(`status = ?`, f.Status)
	}
	if f.Search != "" {
		w.add(`LOWER(order_number) LIKE ? ESCAPE '\'`, likePattern(f.Search))
	}
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM orders`+w.String(), w.args...); err != nil {
		return nil, 0, storeErr(err, "order", "orders: count")
	}
	out := []domain.Order{}
	args := append(append([]any{}, w.args...), p.Limit, p.Offset())
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+orderCols+` FROM orders`+w.String()+` ORDER BY created_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, storeErr(err, "order", "orders: list")
	}
	return out, total, nil
}

// MarkPaid flips a pending order to paid. It reports false when the order
// was no longer pending, which makes repeated confirmations no-ops.
func (r *OrderRepo) MarkPaid(ctx context.Context, ex sqlx.ExecerContext, id, transactionID string, paidAt time.Time) (bool, error) {
	res, err := ex.ExecContext(ctx, `
		UPDATE orders SET status=?, transaction_id=?, paid_at=?, updated_at=?
		WHERE id=? AND status=?`,
		domain.OrderPaid, transactionID, paidAt, now(), id, domain.OrderPending)
	if err != nil {
		return false, storeErr(err, "order", "orders: mark paid")
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SetStatus moves an order from one status to another; it reports false if
// the order was not in from anymore.
func (r *OrderRepo) SetStatus(ctx context.Context, ex sqlx.ExecerContext, id string, from, to domain.OrderStatus, paidAt *time.Time) (bool, error) {
	res, err := ex.ExecContext(ctx, `
		UPDATE orders SET status=?, paid_at=COALESCE(?, paid_at), updated_at=?
		WHERE id=? AND status=?`,
		to, paidAt, now(), id, from)
	if err != nil {
		return false, storeErr(err, "order", "orders: set status")
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *OrderRepo) SetInvoice(ctx context.Context, id, invoiceID, qrText, qrImage string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET qpay_invoice_id=?, qpay_qr_text=?, qpay_qr_image=?, updated_at=?
		WHERE id=?`, invoiceID, qrText, qrImage, now(), id)
	if err != nil {
		return storeErr(err, "order", "orders: set invoice")
	}
	return mustAffect(res, "order")
}

func (r *OrderRepo) ClearInvoice(ctx context.Context, id string) error {
	return r.SetInvoice(ctx, id, "", "", "")
}

func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id=?`, id)
	if err != nil {
		return storeErr(err, "order", "orders: delete")
	}
	return mustAffect(res, "order")
}
