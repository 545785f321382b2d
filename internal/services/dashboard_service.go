package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"printshop/internal/domain"
	"printshop/internal/repos"
)

// Dashboard is the admin overview.
type Dashboard struct {
	Users            int                  `json:"totalUsers"`
	Products         int                  `json:"totalProducts"`
	Orders           int                  `json:"totalOrders"`
	Revenue          decimal.Decimal      `json:"totalRevenue"`
	PendingQuotes    int                  `json:"pendingQuotations"`
	NewMessages      int                  `json:"newMessages"`
	OrdersByStatus   []repos.StatusCount  `json:"ordersByStatus"`
	RecentOrders     []domain.Order       `json:"recentOrders"`
	RevenueByMonth   []repos.MonthRevenue `json:"revenueByMonth"`
	LowStockProducts []repos.StockRow     `json:"lowStockProducts"`
}

type DashboardService struct {
	Users    *repos.UserRepo
	Products *repos.ProductRepo
	Orders   *repos.OrderRepo
	Quotes   *repos.QuotationRepo
	Contact  *repos.ContactRepo
	Stats    *repos.StatsRepo
	Inv      *InventoryService
	now      func() time.Time
}

func NewDashboardService(users *repos.UserRepo, prods *repos.ProductRepo, orders *repos.OrderRepo,
	quotes *repos.QuotationRepo, contact *repos.ContactRepo, stats *repos.StatsRepo, inv *InventoryService) *DashboardService {
	return &DashboardService{
		Users: users, Products: prods, Orders: orders, Quotes: quotes, Contact: contact, Stats: stats, Inv: inv,
		now: time.Now,
	}
}

// Load gathers the independent aggregates concurrently. Each goroutine
// writes its own field, so no locking is needed.
func (s *DashboardService) Load(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) { d.Users, err = s.Users.Count(ctx); return })
	g.Go(func() (err error) { d.Products, err = s.Products.Count(ctx); return })
	g.Go(func() (err error) { d.Orders, err = s.Stats.CountOrders(ctx); return })
	g.Go(func() (err error) { d.Revenue, err = s.Stats.Revenue(ctx); return })
	g.Go(func() (err error) {
		d.PendingQuotes, err = s.Quotes.CountByStatus(ctx, domain.QuotationPending)
		return
	})
	g.Go(func() (err error) {
		d.NewMessages, err = s.Contact.CountByStatus(ctx, domain.MessageNew)
		return
	})
	g.Go(func() (err error) { d.OrdersByStatus, err = s.Stats.OrdersByStatus(ctx); return })
	g.Go(func() (err error) {
		d.RecentOrders, _, err = s.Orders.List(ctx, repos.OrderFilter{}, repos.Page{Page: 1, Limit: 5})
		return
	})
	g.Go(func() (err error) {
		d.RevenueByMonth, err = s.Stats.RevenueByMonth(ctx, monthsBack(s.now(), 6))
		return
	})
	g.Go(func() (err error) { d.LowStockProducts, err = s.Inv.Low(ctx, 10); return })

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

// monthsBack returns the first instant of the month n-1 months before t, so
// the window covers n calendar months including the current one.
func monthsBack(t time.Time, n int) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month()-time.Month(n-1), 1, 0, 0, 0, 0, time.UTC)
}
