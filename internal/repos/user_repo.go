package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"printshop/internal/domain"
)

const userCols = `id,email,name,password_hash,phone,address,role,balance,created_at,updated_at`

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	ts := now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = ts
	}
	u.UpdatedAt = ts
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users(`+userCols+`)
		VALUES(?,?,?,?,?,?,?,?,?,?)`,
		u.ID, u.Email, u.Name, u.Hash, u.Phone, u.Address, u.Role, u.Balance, u.CreatedAt, u.UpdatedAt)
	return storeErr(err, "user with this email", "users: insert")
}

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, storeErr(err, "user", "users: by email")
	}
	return &u, nil
}

func (r *UserRepo) ByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, storeErr(err, "user", "users: by id")
	}
	return &u, nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id, name, phone, address string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE users SET name=?, phone=?, address=?, updated_at=? WHERE id=?`,
		name, phone, address, now(), id)
	if err != nil {
		return storeErr(err, "user", "users: update profile")
	}
	return mustAffect(res, "user")
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE users SET password_hash=?, updated_at=? WHERE id=?`, hash, now(), id)
	if err != nil {
		return storeErr(err, "user", "users: update password")
	}
	return mustAffect(res, "user")
}

func (r *UserRepo) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE users SET role=?, updated_at=? WHERE id=?`, role, now(), id)
	if err != nil {
		return storeErr(err, "user", "users: update role")
	}
	return mustAffect(res, "user")
}

// List pages through accounts, newest first, optionally matching name or email.
func (r *UserRepo) List(ctx context.Context, search string, p Page) ([]domain.User, int, error) {
	p = p.Normalize()
	var w where
	if search != "" {
		pat := likePattern(search)
		w.add(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')`, pat, pat)
	}
	var total int
	if err := r.DB.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`+w.String(), w.args...); err != nil {
		return nil, 0, storeErr(err, "user", "users: count")
	}
	users := []domain.User{}
	args := append(append([]any{}, w.args...), p.Limit, p.Offset())
	err := r.DB.SelectContext(ctx, &users,
		`SELECT `+userCols+` FROM users`+w.String()+` ORDER BY created_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, storeErr(err, "user", "users: list")
	}
	return users, total, nil
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`)
	return n, storeErr(err, "user", "users: count")
}

// DeleteUserCascade cancels the account's pending orders and removes the account.
// Orders and quotations stay for audit with their user reference cleared.
func (r *UserRepo) DeleteUserCascade(ctx context.Context, userID string) error {
	return InTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE orders SET status=?, updated_at=? WHERE user_id=? AND status=?`,
			domain.OrderCancelled, now(), userID, domain.OrderPending); err != nil {
			return storeErr(err, "order", "users: cancel orders")
		}
		// wishlist items cascade from wishlists
		if _, err := tx.ExecContext(ctx, `DELETE FROM wishlists WHERE user_id=?`, userID); err != nil {
			return storeErr(err, "wishlist", "users: delete wishlist")
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id=?`, userID)
		if err != nil {
			return storeErr(err, "user", "users: delete")
		}
		return mustAffect(res, "user")
	})
}
