package handlers

import (
	"github.com/jmoiron/sqlx"

	"printshop/internal/config"
	"printshop/internal/media"
	"printshop/internal/repos"
	"printshop/internal/services"
)

// UploadPrefix is the URL prefix uploaded files are served under.
const UploadPrefix = "/uploads"

type Deps struct {
	Auth *services.AuthService

	AuthHandler      *AuthHandler
	CategoryHandler  *CategoryHandler
	ProductHandler   *ProductHandler
	InventoryHandler *InventoryHandler
	SearchHandler    *SearchHandler
	OrderHandler     *OrderHandler
	PaymentHandler   *PaymentHandler
	WalletHandler    *WalletHandler
	QuotationHandler *QuotationHandler
	WishlistHandler  *WishlistHandler
	BlogHandler      *BlogHandler
	ServiceHandler   *ServiceHandler
	ContactHandler   *ContactHandler
	AdminHandler     *AdminHandler
	UploadHandler    *UploadHandler
}

// NewDeps wires repositories, services and handlers around one database and
// one gateway client.
func NewDeps(db *sqlx.DB, cfg config.Config, gw services.Gateway) *Deps {
	userRepo := repos.NewUserRepo(db)
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	invRepo := repos.NewInventoryRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	walletRepo := repos.NewWalletRepo(db)
	wishRepo := repos.NewWishlistRepo(db)
	quoteRepo := repos.NewQuotationRepo(db)
	blogRepo := repos.NewBlogRepo(db)
	svcRepo := repos.NewServiceRepo(db)
	contactRepo := repos.NewContactRepo(db)
	store := media.NewStore(cfg.UploadDir, UploadPrefix)

	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	invSvc := services.NewInventoryService(invRepo)
	orderSvc := services.NewOrderService(db, orderRepo, prodRepo, walletRepo, gw)
	walletSvc := services.NewWalletService(db, walletRepo, gw, cfg.QPay.CallbackURL)
	paySvc := services.NewPaymentService(db, orderRepo, gw, walletSvc, cfg.QPay.CallbackURL, cfg.QPay.CallbackSecret)
	contentSvc := services.NewContentService(blogRepo, svcRepo)
	dashSvc := services.NewDashboardService(userRepo, prodRepo, orderRepo, quoteRepo, contactRepo, repos.NewStatsRepo(db), invSvc)

	return &Deps{
		Auth:             authSvc,
		AuthHandler:      &AuthHandler{Auth: authSvc},
		CategoryHandler:  &CategoryHandler{Catalog: catalogSvc},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc},
		InventoryHandler: &InventoryHandler{Inv: invSvc},
		SearchHandler:    &SearchHandler{Search: services.NewSearchService(prodRepo, blogRepo, svcRepo)},
		OrderHandler:     &OrderHandler{Order: orderSvc},
		PaymentHandler:   &PaymentHandler{Payments: paySvc},
		WalletHandler:    &WalletHandler{Wallet: walletSvc},
		QuotationHandler: &QuotationHandler{Quotes: services.NewQuotationService(quoteRepo, store)},
		WishlistHandler:  &WishlistHandler{Wish: services.NewWishlistService(wishRepo, prodRepo)},
		BlogHandler:      &BlogHandler{Content: contentSvc},
		ServiceHandler:   &ServiceHandler{Content: contentSvc},
		ContactHandler:   &ContactHandler{Contact: services.NewContactService(contactRepo)},
		AdminHandler:     &AdminHandler{Dashboard: dashSvc, Users: services.NewUserService(userRepo)},
		UploadHandler:    &UploadHandler{Store: store},
	}
}
