// ABOUTME: Gateway wiring: store, sessions, decision engine, and HTTP server lifecycle
// ABOUTME: Assembles the middleware chain and handles startup and graceful shutdown

package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/selectgate/selectgate/internal/auth"
	"github.com/selectgate/selectgate/internal/config"
	"github.com/selectgate/selectgate/internal/session"
	"github.com/selectgate/selectgate/internal/store"
)

// Gateway ties the candidate store, session server, and decision engine to
// an HTTP server.
type Gateway struct {
	cfg        *config.Config
	store      *store.SQLiteStore
	sessions   *session.Manager
	engine     *auth.Engine
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a Gateway from configuration. The SQLite store is opened (and
// its schema created) here; Close releases it.
func New(cfg *config.Config, logger *slog.Logger) (*Gateway, error) {
	if logger == nil {
		logger = slog.Default()
	}

	sqlStore, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	g := &Gateway{
		cfg:      cfg,
		store:    sqlStore,
		sessions: session.NewManager(session.NewRAMServer(cfg.Sessions.TTL)),
		engine:   auth.NewEngine(sqlStore, cfg.Auth.LoginPath),
		logger:   logger.With("component", "gateway"),
	}

	g.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           g.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return g, nil
}

// Handler builds the full HTTP handler: health unauthenticated, everything
// else behind the session and auth middleware.
func (g *Gateway) Handler() http.Handler {
	app := http.NewServeMux()
	app.HandleFunc(g.cfg.Auth.LoginPath, g.handleLogin)
	app.HandleFunc("/", g.handleApp)

	authed := g.sessions.Middleware(
		auth.Middleware(g.engine, g.store, g.cfg.Auth.ExternalIDHeader)(app),
	)

	root := http.NewServeMux()
	root.HandleFunc("/health", g.handleHealth)
	root.Handle("/", authed)
	return root
}

// Run starts the HTTP server and blocks until ctx is canceled or the server
// fails, then shuts down gracefully.
func (g *Gateway) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		g.logger.Info("HTTP server listening", "addr", g.httpServer.Addr)
		if err := g.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		g.logger.Info("shutdown signal received")
	case serverErr = <-errCh:
		g.logger.Error("HTTP server failed", "error", serverErr)
	}

	shutdownErr := g.gracefulShutdown()

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// Uses context.Background() intentionally since the original context is
// already canceled.
func (g *Gateway) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return g.Shutdown(ctx)
}

// Shutdown stops the HTTP server and closes the store.
func (g *Gateway) Shutdown(ctx context.Context) error {
	var firstErr error

	if err := g.httpServer.Shutdown(ctx); err != nil {
		firstErr = fmt.Errorf("shutting down HTTP server: %w", err)
	}

	if err := g.store.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing store: %w", err)
	}

	return firstErr
}

// Store exposes the underlying store for CLI provisioning commands.
func (g *Gateway) Store() *store.SQLiteStore {
	return g.store
}

// handleHealth reports liveness.
func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"status":"ok"}`)
}
