package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/storage"
	"github.com/vovakirdan/tui-2048/internal/transport/api"
	"github.com/vovakirdan/tui-2048/internal/transport/websocket"
)

var (
	flagWebAddr    string
	flagSessionTTL time.Duration
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the REST + WebSocket server",
	Long: `Serve 2048 sessions over HTTP.

REST endpoints live under /api/sessions. Clients subscribe to a session at
/ws?session=<id> and receive the new state after every move.

Examples:
  t2048 web                     # Listen on web.address (:8080)
  t2048 web --addr :9000
  t2048 web --session-ttl 10m   # Drop sessions idle for 10 minutes`,
	Args: cobra.NoArgs,
	Run:  runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", "", "HTTP listen address (overrides web.address)")
	webCmd.Flags().DurationVar(&flagSessionTTL, "session-ttl", time.Hour, "Idle time before a session is dropped (0 = never)")
}

func runWeb(_ *cobra.Command, _ []string) {
	logger, logCloser, err := newLogger(cfg, "t2048-web", false)
	exitOnErr("setting up logging", err)
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager, cleanup, err := newManager(ctx)
	exitOnErr("opening storage", err)
	defer cleanup()

	hub := websocket.NewHub(manager, logger.WithPrefix("ws"))
	go hub.Run(ctx)

	if flagSessionTTL > 0 {
		go expireSessions(ctx, manager, flagSessionTTL, logger)
	}

	addr := cfg.Web.Address
	if flagWebAddr != "" {
		addr = flagWebAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(manager, hub, logger.WithPrefix("api")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	fmt.Printf("Serving 2048 on %s\n", addr)
	fmt.Println("Press Ctrl+C to stop")

	select {
	case err := <-errCh:
		exitOnErr("serving", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}

// newManager builds a session manager backed by the configured save slots.
// The returned cleanup closes the stores.
func newManager(ctx context.Context) (*session.Manager, func(), error) {
	var db *storage.Store
	if cfg.Storage.Backend == config.BackendSQLite {
		var err error
		db, err = storage.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
	}

	slots, err := openSlots(ctx, cfg, db)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, nil, err
	}

	manager := session.NewManager(session.Options{
		Slots:      slots.SlotFunc(),
		Spawn4Prob: cfg.SpawnFourProbability,
		Seed:       seedFunc(),
	})
	cleanup := func() {
		slots.Close()
		if db != nil {
			db.Close()
		}
	}
	return manager, cleanup, nil
}

// expireSessions drops idle sessions until ctx is done.
func expireSessions(ctx context.Context, manager *session.Manager, ttl time.Duration, logger *log.Logger) {
	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := manager.CleanupExpired(ttl); n > 0 {
				logger.Info("expired sessions", "count", n)
			}
		}
	}
}
