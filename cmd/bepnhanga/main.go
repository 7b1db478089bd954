package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bizzon-vn/bepnhanga/internal/admin"
	"github.com/bizzon-vn/bepnhanga/internal/config"
	"github.com/bizzon-vn/bepnhanga/internal/store"
	"github.com/bizzon-vn/bepnhanga/internal/storefront"
	"github.com/bizzon-vn/bepnhanga/internal/widget"
	"github.com/bizzon-vn/bepnhanga/internal/ws"
	"github.com/bizzon-vn/bepnhanga/pkg/accesslog"
	"github.com/bizzon-vn/bepnhanga/pkg/logger"
	"github.com/bizzon-vn/bepnhanga/pkg/unzip"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nanmu42/gzip"
)

// Version indicates the current version of the application.
var Version = "1.0.0"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Server run context.
	serverCtx, serverStopCtx := context.WithCancel(context.Background())
	defer serverStopCtx()

	// Load application configurations.
	cfg := config.MustLoad()

	// Create root logger tagged with server version.
	logger := logger.New(cfg).With(serverCtx, "version", Version)
	defer func() { _ = logger.Sync() }()

	// Resolve the order store backend once at startup.
	orderStore, err := store.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to init order store: %w", err)
	}
	logger.Infof("Order store backend: %s", cfg.Store.Backend)

	// The admin feed hub.
	hub := ws.NewHub(logger)
	go hub.Run(serverCtx)

	// The widget state machine with its carousel ticker.
	controller := widget.NewController(
		cfg.Product.UnitPrice, cfg.Product.ImageCount, cfg.Product.SlideInterval)
	go controller.Run(serverCtx)

	// Init storefront service.
	storefrontService := storefront.New(orderStore, controller, hub, cfg, logger)

	// Init admin service.
	adminService := admin.New(orderStore, hub, logger)

	// Create root router.
	router := initRootRouter(cfg, logger)

	// Group handlers for storefront routes on the root router.
	storefront.HandlerWithOptions(storefrontService, storefront.ChiServerOptions{
		BaseURL:          "/api",
		BaseRouter:       router,
		ErrorHandlerFunc: storefront.ErrorHandlerFunc,
	})

	// Group handlers for admin routes on the root router.
	admin.HandlerWithOptions(adminService, admin.ChiServerOptions{
		BaseURL:          "/api/admin",
		BaseRouter:       router,
		Middlewares:      []admin.MiddlewareFunc{admin.BearerAuth(cfg.Admin.Token)},
		ErrorHandlerFunc: admin.ErrorHandlerFunc,
	})

	// Build HTTP server.
	hs := &http.Server{
		Addr:              cfg.HTTPServer.Address,
		ReadHeaderTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:       cfg.HTTPServer.IdleTimeout,
		Handler:           router,
	}

	// Graceful shutdown.
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT,
			syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)

		signal := <-sig

		logger.With(serverCtx, "signal", signal.String()).
			Infof("Shutting down server with %s timeout",
				cfg.HTTPServer.ShutdownTimeout)

		if err = hs.Shutdown(serverCtx); err != nil {
			logger.Errorf("graceful shutdown failed: %s", err)
		}
		serverStopCtx()
	}()

	// Start the HTTP server with graceful shutdown.
	logger.Infof("Server %v is running at %v", Version, cfg.HTTPServer.Address)
	if err = hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("run server failed: %w", err)
	}

	// Wait for server context to be stopped or force exit if timeout exceeded.
	select {
	case <-serverCtx.Done():
	case <-time.After(cfg.HTTPServer.ShutdownTimeout):
		return errors.New("graceful shutdown timed out.. forcing exit")
	}

	return nil
}

func initRootRouter(cfg *config.Config, logger logger.Logger) *chi.Mux {
	router := chi.NewRouter()
	router.Use(accesslog.Handler(logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.HTTPServer.WidgetOrigin},
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Content-Encoding"},
		MaxAge:         300,
	}))
	router.Use(gzip.DefaultHandler().WrapHandler)
	router.Use(unzip.Middleware(logger))

	return router
}
