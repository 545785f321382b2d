package services_test

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"printshop/internal/domain"
	"printshop/internal/gateway/qpay"
	"printshop/internal/media"
	"printshop/internal/repos"
	"printshop/internal/services"
)

// fakeGateway stands in for the QPay client.
type fakeGateway struct {
	mu        sync.Mutex
	paid      map[string]string // invoice id -> payment id
	cancelled map[string]bool
	checks    int
	next      int
	failWith  error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{paid: map[string]string{}, cancelled: map[string]bool{}}
}

func (g *fakeGateway) CreateInvoice(_ context.Context, in qpay.InvoiceRequest) (*qpay.Invoice, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failWith != nil {
		return nil, g.failWith
	}
	g.next++
	id := "inv-" + in.SenderInvoiceNo + "-" + strconv.Itoa(g.next)
	return &qpay.Invoice{InvoiceID: id, QRText: "qr:" + id, QRImage: "img", ShortURL: "https://qpay.mn/s/" + id}, nil
}

func (g *fakeGateway) CheckPayment(_ context.Context, invoiceID string) (*qpay.PaymentCheck, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.checks++
	if g.failWith != nil {
		return nil, g.failWith
	}
	pc := &qpay.PaymentCheck{}
	if pid, ok := g.paid[invoiceID]; ok && !g.cancelled[invoiceID] {
		pc.Count = 1
		pc.Rows = []qpay.PaymentRow{{PaymentID: pid, PaymentStatus: qpay.StatusPaid}}
	}
	return pc, nil
}

func (g *fakeGateway) CancelInvoice(_ context.Context, invoiceID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failWith != nil {
		return g.failWith
	}
	g.cancelled[invoiceID] = true
	return nil
}

func (g *fakeGateway) markPaid(invoiceID, paymentID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.paid[invoiceID] = paymentID
}

func (g *fakeGateway) checkCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.checks
}

const callbackSecret = "cb-secret"

type env struct {
	db        *sqlx.DB
	gw        *fakeGateway
	users     *repos.UserRepo
	products  *repos.ProductRepo
	orders    *repos.OrderRepo
	walletRp  *repos.WalletRepo
	catalog   *services.CatalogService
	orderSvc  *services.OrderService
	wallet    *services.WalletService
	payments  *services.PaymentService
	quotes    *services.QuotationService
	content   *services.ContentService
	contact   *services.ContactService
	wishlist  *services.WishlistService
	inventory *services.InventoryService
	dashboard *services.DashboardService
	search    *services.SearchService
	accounts  *services.UserService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := repos.OpenDB(repos.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	e := &env{db: db, gw: newFakeGateway()}
	e.users = repos.NewUserRepo(db)
	e.products = repos.NewProductRepo(db)
	e.orders = repos.NewOrderRepo(db)
	e.walletRp = repos.NewWalletRepo(db)
	cats := repos.NewCategoryRepo(db)
	blogs := repos.NewBlogRepo(db)
	svcs := repos.NewServiceRepo(db)
	quotes := repos.NewQuotationRepo(db)
	contact := repos.NewContactRepo(db)

	e.catalog = services.NewCatalogService(cats, e.products)
	e.orderSvc = services.NewOrderService(db, e.orders, e.products, e.walletRp, e.gw)
	e.wallet = services.NewWalletService(db, e.walletRp, e.gw, "http://shop/cb")
	e.payments = services.NewPaymentService(db, e.orders, e.gw, e.wallet, "http://shop/cb", callbackSecret)
	e.quotes = services.NewQuotationService(quotes, media.NewStore(t.TempDir(), "/uploads"))
	e.content = services.NewContentService(blogs, svcs)
	e.contact = services.NewContactService(contact)
	e.wishlist = services.NewWishlistService(repos.NewWishlistRepo(db), e.products)
	e.inventory = services.NewInventoryService(repos.NewInventoryRepo(db))
	e.dashboard = services.NewDashboardService(e.users, e.products, e.orders, quotes, contact, repos.NewStatsRepo(db), e.inventory)
	e.search = services.NewSearchService(e.products, blogs, svcs)
	e.accounts = services.NewUserService(e.users)
	return e
}

func (e *env) account(t *testing.T, balance int64, role domain.Role) *domain.User {
	t.Helper()
	id := uuid.NewString()
	u := &domain.User{
		ID:      id,
		Email:   id[:8] + "@example.com",
		Name:    "Tester " + id[:4],
		Hash:    "x",
		Phone:   "+976 99112233",
		Role:    role,
		Balance: decimal.NewFromInt(balance),
	}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func (e *env) product(t *testing.T, name string, price int64, stock int) *domain.Product {
	t.Helper()
	cat := domain.CatFlyers
	pr := decimal.NewFromInt(price)
	p, err := e.catalog.CreateProduct(context.Background(), services.ProductInput{
		Name:     &name,
		Category: &cat,
		Price:    &pr,
		Stock:    &stock,
		Images:   []string{"/uploads/images/" + name + ".jpg"},
	})
	require.NoError(t, err)
	return p
}

func (e *env) balance(t *testing.T, userID string) decimal.Decimal {
	t.Helper()
	bal, err := e.wallet.Balance(context.Background(), userID)
	require.NoError(t, err)
	return bal
}

func (e *env) countOrders(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.Get(&n, `SELECT COUNT(*) FROM orders`))
	return n
}

func shipping() domain.Shipping {
	return domain.Shipping{Name: "Bat", Phone: "+976 99112233", Address: "Peace Ave 1", City: "Ulaanbaatar"}
}

func kindOf(t *testing.T, err error) domain.Kind {
	t.Helper()
	require.Error(t, err)
	return domain.KindOf(err)
}
