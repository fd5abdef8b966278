package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"craftopia-api/internal/config"
	"craftopia-api/internal/handler"
	"craftopia-api/internal/metrics"
	"craftopia-api/internal/middleware"
	"craftopia-api/internal/repository"
	"craftopia-api/internal/router"
	"craftopia-api/internal/service"
	"craftopia-api/internal/store"
)

type App struct {
	cfg    *config.Config
	server *http.Server
	store  store.Store
}

func New(cfg *config.Config) (*App, error) {
	st, err := openStore(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.StoreDriver, err)
	}

	appHandler, err := newHandler(cfg, st, metrics.New())
	if err != nil {
		_ = st.Close(context.Background())
		return nil, err
	}

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appHandler,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{cfg: cfg, server: server, store: st}, nil
}

// newHandler wires repositories, the token service, the auth gates and the
// handlers over st. Every collection reports to m.
func newHandler(cfg *config.Config, st store.Store, m *metrics.Metrics) (http.Handler, error) {
	collection := func(name string) store.Collection {
		return store.Instrument(st.Collection(name), m)
	}

	userRepo := repository.NewUserRepository(collection(store.UsersCollection), cfg.AdminEmails...)
	classRepo := repository.NewClassRepository(collection(store.ClassesCollection))
	selectionRepo := repository.NewSelectionRepository(collection(store.SelectionsCollection))

	tokenService, err := service.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService, userRepo)

	return router.New(cfg, m, authMiddleware, router.Handlers{
		Health:    handler.NewHealthHandler(st, cfg.StoreDriver),
		Docs:      handler.NewDocsHandler(),
		Auth:      handler.NewAuthHandler(tokenService),
		Users:     handler.NewUserHandler(userRepo),
		Classes:   handler.NewClassHandler(classRepo),
		Selection: handler.NewSelectionHandler(selectionRepo),
	}), nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr, "store", a.cfg.StoreDriver)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	if err := a.store.Close(ctx); err != nil {
		slog.Warn("store close failed", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
