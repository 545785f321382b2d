package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"printshop/internal/config"
	"printshop/internal/gateway/qpay"
	"printshop/internal/http/handlers"
	applog "printshop/internal/log"
	"printshop/internal/repos"
	"printshop/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app := &cli.App{
		Name:  "printshop",
		Usage: "print shop storefront API",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "seed", Usage: "load the demo catalog into an empty database"},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP API (default)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "seed", Usage: "load the demo catalog into an empty database"},
				},
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply pending database migrations and exit",
				Action: migrate,
			},
			{
				Name:   "seed",
				Usage:  "load the demo catalog into an empty database",
				Action: seed,
			},
			{
				Name:  "create-admin",
				Usage: "create an admin account, or promote an existing one",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"ADMIN_PASSWORD"}},
					&cli.StringFlag{Name: "name", Value: "Administrator"},
				},
				Action: createAdmin,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		applog.L().Error("printshop exited", zap.Error(err))
		log.Fatal(err)
	}
}

// setup loads configuration, builds the logger and opens the migrated database.
func setup() (config.Config, *sqlx.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, err
	}
	if _, err := applog.Init(cfg.LogLevel, cfg.Env, cfg.LogFile); err != nil {
		return cfg, nil, err
	}
	cfg.LogSummary()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, db, nil
}

func serve(c *cli.Context) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer applog.Sync()
	defer db.Close()

	if c.Bool("seed") {
		if err := repos.Seed(c.Context, db); err != nil {
			return err
		}
	}

	gw := qpay.NewClient(qpay.Config{
		BaseURL:     cfg.QPay.BaseURL,
		Username:    cfg.QPay.Username,
		Password:    cfg.QPay.Password,
		InvoiceCode: cfg.QPay.InvoiceCode,
		Timeout:     cfg.QPay.Timeout,
	}, applog.L())
	if cfg.QPay.CallbackSecret == "" {
		applog.L().Warn("QPAY_CALLBACK_SECRET is empty; every callback will be confirmed with the gateway")
	}

	deps := handlers.NewDeps(db, cfg, gw)
	app := handlers.NewApp(cfg, deps)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		applog.L().Info("listening", zap.String("addr", cfg.Addr()))
		return app.Listen(cfg.Addr())
	})
	g.Go(func() error {
		<-ctx.Done()
		applog.L().Info("shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})
	return g.Wait()
}

func migrate(*cli.Context) error {
	_, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()
	applog.L().Info("migrations applied")
	return nil
}

func seed(c *cli.Context) error {
	_, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()
	return repos.Seed(c.Context, db)
}

func createAdmin(c *cli.Context) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	auth := services.NewAuthService(repos.NewUserRepo(db), cfg.JWTSecret, cfg.JWTTTL)
	u, err := auth.EnsureAdmin(context.Background(), c.String("name"), c.String("email"), c.String("password"))
	if err != nil {
		return err
	}
	applog.L().Info("admin ready", zap.String("user_id", u.ID), zap.String("email", u.Email))
	return nil
}
