// Command devserver runs the interpret endpoint on a local HTTP port. Model
// keys come from configuration instead of the parameter store, and the
// caller identity from the X-Authenticated-User header.
package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"canvas-agent/internal/app"
	"canvas-agent/internal/config"
	"canvas-agent/internal/httpserver"
	"canvas-agent/internal/logger"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		zap.NewExample().Fatal("failed to build logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := app.NewCatalog(ctx, nil)
	if err != nil {
		log.Fatal("failed to build template catalog", zap.Error(err))
	}
	model, err := app.NewModelInvoker(ctx, cfg, app.StaticKeys(cfg))
	if err != nil {
		log.Fatal("failed to create model client", zap.Error(err), zap.String("provider", cfg.Provider))
	}
	h, err := app.NewHandler(cfg, model, catalog, log)
	if err != nil {
		log.Fatal("failed to create handler", zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)
	router := httpserver.NewRouter(cfg.RateLimit, h, log)

	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		log.Fatal("failed to listen", zap.Error(err), zap.String("addr", cfg.HTTPAddr))
	}
	if err := httpserver.Serve(ctx, ln, router, log); err != nil {
		log.Error("http server stopped", zap.Error(err))
		os.Exit(1)
	}
}
