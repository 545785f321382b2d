package repos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"printshop/internal/domain"
)

// StatsRepo runs the aggregate queries behind the admin dashboard.
type StatsRepo struct{ db *sqlx.DB }

func NewStatsRepo(db *sqlx.DB) *StatsRepo { return &StatsRepo{db: db} }

// revenueStatuses are the order states that represent money received.
var revenueStatuses = []domain.OrderStatus{domain.OrderPaid, domain.OrderProcessing, domain.OrderCompleted}

type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int    `db:"count" json:"count"`
}

type MonthRevenue struct {
	Month   string          `db:"month" json:"month"`
	Revenue decimal.Decimal `db:"revenue" json:"revenue"`
	Orders  int             `db:"orders" json:"orders"`
}

func (r *StatsRepo) OrdersByStatus(ctx context.Context) ([]StatusCount, error) {
	out := []StatusCount{}
	err := r.db.SelectContext(ctx, &out, `SELECT status, COUNT(*) AS count FROM orders GROUP BY status ORDER BY status`)
	return out, storeErr(err, "order", "stats: by status")
}

func (r *StatsRepo) Revenue(ctx context.Context) (decimal.Decimal, error) {
	q, args, err := sqlx.In(`SELECT COALESCE(SUM(total), 0) FROM orders WHERE status IN (?)`, revenueStatuses)
	if err != nil {
		return decimal.Zero, storeErr(err, "order", "stats: revenue")
	}
	var total decimal.Decimal
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(q), args...); err != nil {
		return decimal.Zero, storeErr(err, "order", "stats: revenue")
	}
	return total, nil
}

// RevenueByMonth groups received money by YYYY-MM for orders created at or after since.
func (r *StatsRepo) RevenueByMonth(ctx context.Context, since time.Time) ([]MonthRevenue, error) {
	q, args, err := sqlx.In(`
		SELECT substr(created_at, 1, 7) AS month, COALESCE(SUM(total), 0) AS revenue, COUNT(*) AS orders
		FROM orders
		WHERE status IN (?) AND created_at >= ?
		GROUP BY month
		ORDER BY month`, revenueStatuses, since.UTC())
	if err != nil {
		return nil, storeErr(err, "order", "stats: monthly")
	}
	out := []MonthRevenue{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), args...); err != nil {
		return nil, storeErr(err, "order", "stats: monthly")
	}
	return out, nil
}

func (r *StatsRepo) CountOrders(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM orders`)
	return n, storeErr(err, "order", "stats: orders")
}
