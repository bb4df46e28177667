// Package server initializes and runs the authentication service: it loads
// the configuration, selects the storage backend, wires the auth service,
// and serves HTTP until an OS signal arrives.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/swappo/authsvc/internal/logging"
	"github.com/swappo/authsvc/internal/server/auth"
	"github.com/swappo/authsvc/internal/server/config"
	"github.com/swappo/authsvc/internal/server/rest"
	"github.com/swappo/authsvc/internal/server/services"
	"github.com/swappo/authsvc/internal/server/storage"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	store       storage.RepositoryManager
	authService *services.AuthService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	store, err := newRepositoryManager(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	codec := auth.NewCodec(c.AccessSecret, c.RefreshSecret, c.AccessTokenTTL, c.RefreshTokenTTL)
	as := services.NewAuthService(store.Users(), store.Sessions(), codec, logger)

	return &App{config: c, logger: logger, store: store, authService: as}, nil
}

func newRepositoryManager(ctx context.Context, c *config.Config) (storage.RepositoryManager, error) {
	switch c.StorageMode {
	case storage.ModeEphemeral:
		return storage.NewInMemoryRepositoryManager(), nil
	case storage.ModeDurable:
		return storage.NewPostgresRepositoryManager(ctx, c.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unknown storage mode: %s", c.StorageMode)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := rest.NewServer(app.config.RunAddr, app.authService, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "mode", app.config.StorageMode)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.store.Close(); err != nil {
		app.logger.Error(ctx, "storage close error", "error", err.Error())
	}
}
