// The media-upload gateway: authenticates callers against the external auth
// service, stores uploaded videos, queues conversion jobs for the downstream
// converter and serves converted mp3s back.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/mediabridge/gateway/cmd/gateway/container"
	"github.com/mediabridge/gateway/cmd/gateway/repository"
	"github.com/mediabridge/gateway/cmd/gateway/routes"
	"github.com/mediabridge/gateway/common/bootstrap"
	"github.com/mediabridge/gateway/common/config"
	"github.com/mediabridge/gateway/common/server"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load("gateway")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Bootstrap common components (logger, DB, redis, queue, telemetry)
	opts := []bootstrap.Option{bootstrap.WithConfig(cfg)}
	if cfg.Storage.Backend == "postgres" {
		opts = append(opts, bootstrap.WithDBInitHook(repository.InitSchema))
	} else {
		// S3 backend needs no relational store
		opts = append(opts, bootstrap.WithoutDB())
	}

	components, err := bootstrap.Setup(ctx, "gateway", opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap gateway: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(ctx)

	// Initialize service container (all services created once)
	ctn, err := container.New(ctx, components)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize service container: %v\n", err)
		os.Exit(1)
	}

	e := setupEcho(cfg)
	routes.Register(e, ctn)

	// Start with graceful shutdown
	srv := server.New("gateway", cfg.Service.Port, e, components.Logger)
	if err := srv.Start(); err != nil {
		components.Logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// setupEcho initializes the Echo server with shared middleware
func setupEcho(cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.BodyLimitWithConfig(echomw.BodyLimitConfig{
		Limit: fmt.Sprintf("%dM", cfg.Storage.MaxUploadBytes>>20),
	}))

	return e
}
