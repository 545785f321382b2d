package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"printshop/internal/config"
	"printshop/internal/domain"
	applog "printshop/internal/log"
	"printshop/internal/metrics"
)

const (
	CallbackPath = "/api/payments/qpay/callback"

	loginMax      = 10
	loginWindow   = 15 * time.Minute
	contactMax    = 5
	contactWindow = time.Hour
)

func throttle(max int, window time.Duration, action, msg string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, action, nil)
			return fail(c, fiber.StatusTooManyRequests, msg)
		},
	})
}

// NewApp builds the HTTP API around d.
func NewApp(cfg config.Config, d *Deps) *fiber.App {
	bodyLimit := cfg.BodyLimitMB << 20
	if bodyLimit <= 0 {
		bodyLimit = fiber.DefaultBodyLimit
	}
	app := fiber.New(fiber.Config{
		AppName:      "printshop",
		ErrorHandler: ErrorHandler,
		BodyLimit:    bodyLimit,
	})

	// ---------- Middlewares ----------
	app.Use(metrics.Middleware(StatusOf))
	app.Use(recover.New())
	app.Use(requestid.New())
	if !cfg.Production() {
		app.Use(logger.New())
	}
	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORSOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	if cfg.RateLimitMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimitMax,
			Expiration: cfg.RateLimitWindow,
			Next: func(c *fiber.Ctx) bool {
				p := c.Path()
				return p == CallbackPath || p == "/health" || p == "/metrics" || strings.HasPrefix(p, UploadPrefix+"/")
			},
			LimitReached: func(c *fiber.Ctx) error {
				applog.Security(c, "rate.global.hit", nil)
				return fail(c, fiber.StatusTooManyRequests, "Too many requests, please try again later.")
			},
		}))
	}

	// ---------- Infrastructure ----------
	app.Get("/health", func(c *fiber.Ctx) error {
		return ok(c, fiber.Map{"status": "ok", "time": time.Now().UTC()})
	})
	app.Get("/metrics", metrics.Handler())
	app.Get(UploadPrefix+"/*", d.UploadHandler.Serve)

	protect := Protect(d.Auth)
	optional := Optional(d.Auth)
	admin := AdminOnly()
	api := app.Group("/api")

	// Auth
	a := api.Group("/auth")
	a.Post("/register", d.AuthHandler.Register)
	a.Post("/login", throttle(loginMax, loginWindow, "rate.login.hit", "Too many login attempts. Please try again later."), d.AuthHandler.Login)
	a.Get("/me", protect, d.AuthHandler.Me)
	a.Put("/profile", protect, d.AuthHandler.UpdateProfile)
	a.Put("/password", protect, d.AuthHandler.ChangePassword)

	// Catalog
	p := api.Group("/products")
	p.Get("/", optional, d.ProductHandler.List)
	p.Get("/:id/availability", d.InventoryHandler.Check)
	p.Get("/:id", optional, d.ProductHandler.Detail)
	p.Post("/", protect, admin, d.ProductHandler.Create)
	p.Put("/:id", protect, admin, d.ProductHandler.Update)
	p.Patch("/:id/stock", protect, admin, d.InventoryHandler.SetStock)
	p.Delete("/:id", protect, admin, d.ProductHandler.Delete)

	cat := api.Group("/categories")
	cat.Get("/", optional, d.CategoryHandler.List)
	cat.Get("/:id", d.CategoryHandler.Detail)
	cat.Post("/", protect, admin, d.CategoryHandler.Create)
	cat.Put("/:id", protect, admin, d.CategoryHandler.Update)
	cat.Delete("/:id", protect, admin, d.CategoryHandler.Delete)

	api.Get("/search", d.SearchHandler.All)

	// Orders & payments
	o := api.Group("/orders", protect)
	o.Post("/", d.OrderHandler.Place)
	o.Get("/my", d.OrderHandler.Mine)
	o.Get("/", admin, d.OrderHandler.All)
	o.Get("/:id", d.OrderHandler.View)
	o.Put("/:id/cancel", d.OrderHandler.Cancel)
	o.Put("/:id/status", admin, d.OrderHandler.UpdateStatus)
	o.Delete("/:id", admin, d.OrderHandler.Delete)

	pay := api.Group("/payments/qpay")
	pay.Post("/callback", d.PaymentHandler.Callback)
	pay.Post("/invoice/:orderId", protect, d.PaymentHandler.CreateInvoice)
	pay.Delete("/invoice/:orderId", protect, d.PaymentHandler.CancelInvoice)
	pay.Get("/check/:orderId", protect, d.PaymentHandler.Check)

	w := api.Group("/wallet", protect)
	w.Get("/balance", d.WalletHandler.Balance)
	w.Post("/topup", d.WalletHandler.Topup)
	w.Post("/topup/qpay", d.WalletHandler.TopupQPay)
	w.Post("/topup/qpay/:invoiceId/check", d.WalletHandler.CheckTopup)
	w.Get("/transactions", d.WalletHandler.Transactions)

	// Quotations
	q := api.Group("/quotations", protect)
	q.Post("/", d.QuotationHandler.Submit)
	q.Get("/my", d.QuotationHandler.Mine)
	q.Get("/", admin, d.QuotationHandler.All)
	q.Get("/:id", d.QuotationHandler.View)
	q.Put("/:id/reply", admin, d.QuotationHandler.Reply)
	q.Put("/:id/status", d.QuotationHandler.UpdateStatus)
	q.Delete("/:id", admin, d.QuotationHandler.Delete)

	// Wishlist
	wl := api.Group("/wishlist", protect)
	wl.Get("/", d.WishlistHandler.List)
	wl.Delete("/", d.WishlistHandler.Clear)
	wl.Get("/check/:productId", d.WishlistHandler.Check)
	wl.Post("/:productId", d.WishlistHandler.Save)
	wl.Delete("/:productId", d.WishlistHandler.Unsave)

	// Content
	b := api.Group("/blogs")
	b.Get("/", d.BlogHandler.List)
	b.Get("/admin/all", protect, admin, d.BlogHandler.AdminList)
	b.Get("/:slug", d.BlogHandler.Read)
	b.Post("/", protect, admin, d.BlogHandler.Create)
	b.Put("/:id", protect, admin, d.BlogHandler.Update)
	b.Put("/:id/status", protect, admin, d.BlogHandler.SetStatus)
	b.Delete("/:id", protect, admin, d.BlogHandler.Delete)

	s := api.Group("/services")
	s.Get("/", optional, d.ServiceHandler.List)
	s.Get("/:slug", optional, d.ServiceHandler.Detail)
	s.Post("/", protect, admin, d.ServiceHandler.Create)
	s.Put("/:id", protect, admin, d.ServiceHandler.Update)
	s.Delete("/:id", protect, admin, d.ServiceHandler.Delete)

	ct := api.Group("/contact")
	ct.Post("/", throttle(contactMax, contactWindow, "rate.contact.hit", "Too many messages. Please try again later."), d.ContactHandler.Submit)
	ct.Get("/", protect, admin, d.ContactHandler.List)
	ct.Put("/:id/status", protect, admin, d.ContactHandler.SetStatus)
	ct.Delete("/:id", protect, admin, d.ContactHandler.Delete)

	// Admin
	ad := api.Group("/admin", protect, admin)
	ad.Get("/dashboard", d.AdminHandler.Overview)
	ad.Get("/users", d.AdminHandler.UsersPage)
	ad.Put("/users/:id/role", d.AdminHandler.SetRole)
	ad.Delete("/users/:id", d.AdminHandler.DeleteUser)
	api.Post("/uploads", protect, admin, d.UploadHandler.Upload)

	app.Use(func(c *fiber.Ctx) error {
		return domain.NotFound("route")
	})
	return app
}
