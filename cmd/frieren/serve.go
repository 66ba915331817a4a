package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2/middleware/logger"
	html "github.com/gofiber/template/html/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"frieren/internal/config"
	"frieren/internal/http/handlers"
	applog "frieren/internal/log"
	"frieren/internal/pricing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(ctx context.Context) error {
	cfg := config.Load()
	zl := applog.Setup(cfg.LogMode, cfg.LogFile)
	defer func() { _ = zl.Sync() }()

	if err := pricing.Default.Check(); err != nil {
		return err
	}

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	lim, closeLim, err := openLimiter(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLim()

	engine := html.New(cfg.TemplatesDir, ".html")
	engine.Reload(cfg.LogMode != "production")

	deps := handlers.NewDeps(cfg, st.Orders, st.Admins, lim)
	app := handlers.NewApp(engine, deps)
	app.Use(logger.New())
	app.Static("/static", "./web/static")
	handlers.Mount(app, deps)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		zl.Info("shutting down")
		_ = app.Shutdown()
	}()

	zl.Info("listening", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver), zap.String("limiter", cfg.RateLimiter))
	return app.Listen(":" + cfg.Port)
}
