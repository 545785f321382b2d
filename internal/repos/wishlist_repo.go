package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"printshop/internal/domain"
)

type WishlistRepo struct{ db *sqlx.DB }

func NewWishlistRepo(db *sqlx.DB) *WishlistRepo { return &WishlistRepo{db: db} }

// Ensure returns the account's wishlist id, creating the list on first use.
func (r *WishlistRepo) Ensure(ctx context.Context, userID string) (string, error) {
	var id string
	err := r.db.GetContext(ctx, &id, `SELECT id FROM wishlists WHERE user_id=?`, userID)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", storeErr(err, "wishlist", "wishlist: lookup")
	}
	id = uuid.NewString()
	ts := now()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO wishlists(id,user_id,created_at,updated_at) VALUES(?,?,?,?)
		ON CONFLICT(user_id) DO NOTHING`, id, userID, ts, ts)
	if err != nil {
		return "", storeErr(err, "wishlist", "wishlist: create")
	}
	if err := r.db.GetContext(ctx, &id, `SELECT id FROM wishlists WHERE user_id=?`, userID); err != nil {
		return "", storeErr(err, "wishlist", "wishlist: lookup")
	}
	return id, nil
}

// Add is idempotent: re-adding keeps the original position.
func (r *WishlistRepo) Add(ctx context.Context, wishlistID, productID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO wishlist_items(wishlist_id, product_id, added_at)
		VALUES(?, ?, ?)
		ON CONFLICT(wishlist_id, product_id) DO NOTHING
	`, wishlistID, productID, now())
	if err != nil {
		return storeErr(err, "product", "wishlist: add")
	}
	return r.touch(ctx, wishlistID)
}

func (r *WishlistRepo) Remove(ctx context.Context, wishlistID, productID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM wishlist_items WHERE wishlist_id=? AND product_id=?`, wishlistID, productID); err != nil {
		return storeErr(err, "wishlist item", "wishlist: remove")
	}
	return r.touch(ctx, wishlistID)
}

func (r *WishlistRepo) Clear(ctx context.Context, wishlistID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM wishlist_items WHERE wishlist_id=?`, wishlistID); err != nil {
		return storeErr(err, "wishlist", "wishlist: clear")
	}
	return r.touch(ctx, wishlistID)
}

func (r *WishlistRepo) Contains(ctx context.Context, wishlistID, productID string) (bool, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM wishlist_items WHERE wishlist_id=? AND product_id=?`, wishlistID, productID)
	return n > 0, storeErr(err, "wishlist", "wishlist: contains")
}

// Items lists saved products in the order they were added.
func (r *WishlistRepo) Items(ctx context.Context, wishlistID string) ([]domain.WishlistItem, error) {
	out := []domain.WishlistItem{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT p.id AS product_id, p.name, p.slug, p.price, p.images, p.active, wi.added_at
		FROM wishlist_items wi
		JOIN products p ON p.id = wi.product_id
		WHERE wi.wishlist_id = ?
		ORDER BY wi.added_at, wi.rowid
	`, wishlistID)
	if err != nil {
		return nil, storeErr(err, "wishlist", "wishlist: items")
	}
	return out, nil
}

func (r *WishlistRepo) touch(ctx context.Context, wishlistID string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE wishlists SET updated_at=? WHERE id=?`, now(), wishlistID)
	return storeErr(err, "wishlist", "wishlist: touch")
}
