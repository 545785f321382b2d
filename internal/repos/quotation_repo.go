package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"printshop/internal/domain"
)

const quotationCols = `id,user_id,name,email,phone,company,service_type,quantity,size,material,description,deadline,design_file,status,admin_reply,created_at,updated_at`

type QuotationRepo struct{ db *sqlx.DB }

func NewQuotationRepo(db *sqlx.DB) *QuotationRepo { return &QuotationRepo{db: db} }

func (r *QuotationRepo) Create(ctx context.Context, q *domain.Quotation) error {
	ts := now()
	q.CreatedAt, q.UpdatedAt = ts, ts
	_, err := r.db.ExecContext(ctx, `INSERT INTO quotations(`+quotationCols+`) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		q.ID, q.UserID, q.Name, q.Email, q.Phone, q.Company, q.ServiceType, q.Quantity, q.Size, q.Material,
		q.Description, q.Deadline, q.DesignFile, q.Status, q.AdminReply, q.CreatedAt, q.UpdatedAt)
	return storeErr(err, "quotation", "quotations: insert")
}

func (r *QuotationRepo) Get(ctx context.Context, id string) (*domain.Quotation, error) {
	var q domain.Quotation
	if err := r.db.GetContext(ctx, &q, `SELECT `+quotationCols+` FROM quotations WHERE id=?`, id); err != nil {
		return nil, storeErr(err, "quotation", "quotations: get")
	}
	return &q, nil
}

type QuotationFilter struct {
	UserID string
	Status domain.QuotationStatus
}

func (r *QuotationRepo) List(ctx context.Context, f QuotationFilter, p Page) ([]domain.Quotation, int, error) {
	p = p.Normalize()
	var w where
	if f.UserID != "" {
		w.add(`user_id = ?`, f.UserID)
	}
	if f.Status != "" {
		w.add(`status = ?`, f.Status)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM quotations`+w.String(), w.args...); err != nil {
		return nil, 0, storeErr(err, "quotation", "quotations: count")
	}
	out := []domain.Quotation{}
	args := append(append([]any{}, w.args...), p.Limit, p.Offset())
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+quotationCols+` FROM quotations`+w.String()+` ORDER BY created_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, storeErr(err, "quotation", "quotations: list")
	}
	return out, total, nil
}

// SaveReply stores the admin reply and status as long as the quotation is still in from.
func (r *QuotationRepo) SaveReply(ctx context.Context, id string, from domain.QuotationStatus, reply domain.Reply) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE quotations SET admin_reply=?, status=?, updated_at=?
		WHERE id=? AND status=?`,
		reply, domain.QuotationReplied, now(), id, from)
	if err != nil {
		return false, storeErr(err, "quotation", "quotations: reply")
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *QuotationRepo) SetStatus(ctx context.Context, id string, from, to domain.QuotationStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE quotations SET status=?, updated_at=? WHERE id=? AND status=?`,
		to, now(), id, from)
	if err != nil {
		return false, storeErr(err, "quotation", "quotations: set status")
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *QuotationRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM quotations WHERE id=?`, id)
	if err != nil {
		return storeErr(err, "quotation", "quotations: delete")
	}
	return mustAffect(res, "quotation")
}

func (r *QuotationRepo) CountByStatus(ctx context.Context, status domain.QuotationStatus) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM quotations WHERE status=?`, status)
	return n, storeErr(err, "quotation", "quotations: count")
}
