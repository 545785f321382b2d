package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// InventoryRepo works on the stock column of products.
type InventoryRepo struct{ db *sqlx.DB }

func NewInventoryRepo(db *sqlx.DB) *InventoryRepo { return &InventoryRepo{db: db} }

type StockRow struct {
	ProductID string `db:"product_id" json:"productId"`
	Name      string `db:"name" json:"name"`
	Stock     int    `db:"stock" json:"stock"`
}

// Qty returns the current stock for a product.
func (r *InventoryRepo) Qty(ctx context.Context, productID string) (int, error) {
	var qty int
	if err := r.db.GetContext(ctx, &qty, `SELECT stock FROM products WHERE id = ?`, productID); err != nil {
		return 0, storeErr(err, "product", "inventory: qty")
	}
	return qty, nil
}

// SetQty overwrites the stock level.
func (r *InventoryRepo) SetQty(ctx context.Context, productID string, qty int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE products SET stock = ?, updated_at = ? WHERE id = ?`, qty, now(), productID)
	if err != nil {
		return storeErr(err, "product", "inventory: set")
	}
	return mustAffect(res, "product")
}

// Low lists active products at or below threshold units, lowest first.
func (r *InventoryRepo) Low(ctx context.Context, threshold, limit int) ([]StockRow, error) {
	rows := []StockRow{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id AS product_id, name, stock
		FROM products
		WHERE active = 1 AND stock <= ?
		ORDER BY stock, LOWER(name)
		LIMIT ?
	`, threshold, limit)
	return rows, storeErr(err, "product", "inventory: low")
}
