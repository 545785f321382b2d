package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"printshop/internal/domain"
)

const contactCols = `id,name,email,phone,subject,message,status,created_at,updated_at`

type ContactRepo struct{ db *sqlx.DB }

func NewContactRepo(db *sqlx.DB) *ContactRepo { return &ContactRepo{db: db} }

func (r *ContactRepo) Create(ctx context.Context, m *domain.ContactMessage) error {
	ts := now()
	m.CreatedAt, m.UpdatedAt = ts, ts
	_, err := r.db.ExecContext(ctx, `INSERT INTO contact_messages(`+contactCols+`) VALUES(?,?,?,?,?,?,?,?,?)`,
		m.ID, m.Name, m.Email, m.Phone, m.Subject, m.Message, m.Status, m.CreatedAt, m.UpdatedAt)
	return storeErr(err, "message", "contact: insert")
}

func (r *ContactRepo) Get(ctx context.Context, id string) (*domain.ContactMessage, error) {
	var m domain.ContactMessage
	if err := r.db.GetContext(ctx, &m, `SELECT `+contactCols+` FROM contact_messages WHERE id=?`, id); err != nil {
		return nil, storeErr(err, "message", "contact: get")
	}
	return &m, nil
}

func (r *ContactRepo) List(ctx context.Context, status domain.MessageStatus, p Page) ([]domain.ContactMessage, int, error) {
	p = p.Normalize()
	var w where
	if status != "" {
		w.add(`status = ?`, status)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM contact_messages`+w.String(), w.args...); err != nil {
		return nil, 0, storeErr(err, "message", "contact: count")
	}
	out := []domain.ContactMessage{}
	args := append(append([]any{}, w.args...), p.Limit, p.Offset())
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+contactCols+` FROM contact_messages`+w.String()+` ORDER BY created_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, storeErr(err, "message", "contact: list")
	}
	return out, total, nil
}

func (r *ContactRepo) SetStatus(ctx context.Context, id string, from, to domain.MessageStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE contact_messages SET status=?, updated_at=? WHERE id=? AND status=?`,
		to, now(), id, from)
	if err != nil {
		return false, storeErr(err, "message", "contact: set status")
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *ContactRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id=?`, id)
	if err != nil {
		return storeErr(err, "message", "contact: delete")
	}
	return mustAffect(res, "message")
}

func (r *ContactRepo) CountByStatus(ctx context.Context, status domain.MessageStatus) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM contact_messages WHERE status=?`, status)
	return n, storeErr(err, "message", "contact: count")
}
