package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/mobboss/internal/cache"
	"github.com/mcoot/mobboss/internal/config"
	"github.com/mcoot/mobboss/internal/dependencies/clock"
	"github.com/mcoot/mobboss/internal/dependencies/ids"
	"github.com/mcoot/mobboss/internal/host"
	"github.com/mcoot/mobboss/internal/reconcile"
	"github.com/mcoot/mobboss/internal/rpc"
	"github.com/mcoot/mobboss/internal/session"
	"github.com/mcoot/mobboss/internal/storage"
	"github.com/mcoot/mobboss/internal/storage/memory"
	redisstorage "github.com/mcoot/mobboss/internal/storage/redis"
	"github.com/mcoot/mobboss/internal/stream"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock   clock.Clock
	Host    host.Host
	Gateway session.Gateway

	// Bridge is the host implementation in production; nil when Host is a mock
	Bridge *host.Bridge

	// Components
	Session  *session.Manager
	Cache    *cache.Cache
	Sequence *reconcile.Sequence
	Notifier reconcile.Notifier

	Logger *slog.Logger

	closers []func() error
}

// Options holds what the caller supplies beyond the environment config
type Options struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// Notifier receives reconciliation notices (optional)
	// If nil, notices are only logged
	Notifier reconcile.Notifier
}

// New creates a new application with all dependencies wired
func New(cfg config.Config, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var (
		store   storage.Storage
		closers []func() error
	)
	switch cfg.Storage {
	case "", config.StorageMemory:
		store = memory.New()
	case config.StorageRedis:
		redisStore, err := redisstorage.New(cfg.Redis())
		if err != nil {
			return nil, err
		}
		store = redisStore
		closers = append(closers, redisStore.Close)
	default:
		return nil, errors.New("invalid storage: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	bridge := host.NewBridge(store, clk, cfg.Bridge(), logger)
	gateway := rpc.New(cfg.RPC(), ids.New(), logger)

	// Notices also go to whatever shell is reading the bridge stream
	var notifier reconcile.Notifier = streamNotifier(bridge.Stream())
	if opts.Notifier != nil {
		notifier = reconcile.Multi{opts.Notifier, notifier}
	}

	app := newWithDependencies(store, clk, bridge, gateway, cfg, notifier, logger)
	app.Bridge = bridge
	app.closers = append(closers, func() error {
		bridge.Close()
		return nil
	})
	return app, nil
}

func streamNotifier(hub *stream.Hub) reconcile.NotifierFunc {
	return func(_ context.Context, n reconcile.Notice) {
		hub.Publish(stream.EventNotice, n)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	h host.Host,
	gateway session.Gateway,
	cfg config.Config,
	notifier reconcile.Notifier,
	logger *slog.Logger,
) *App {
	logNotifier := reconcile.NewLogNotifier(logger)
	if notifier == nil {
		notifier = logNotifier
	} else {
		notifier = reconcile.Multi{logNotifier, notifier}
	}

	manager := session.NewManager(gateway, h, store, clk, cfg.Session(), logger)
	gameCache := cache.New(gateway, manager, clk, cfg.Cache(), logger)
	sequence := reconcile.NewSequence(gateway, gameCache, notifier, clk, logger)

	manager.SetHooks(session.Hooks{
		OnEstablished: sequence.Hook(),
		OnTerminated: func(context.Context) {
			gameCache.Reset()
		},
	})

	return &App{
		Storage:  store,
		Clock:    clk,
		Host:     h,
		Gateway:  gateway,
		Session:  manager,
		Cache:    gameCache,
		Sequence: sequence,
		Notifier: notifier,
		Logger:   logger,
	}
}

// BridgeServer builds the loopback server the embedding shell talks to
func (a *App) BridgeServer(cfg host.ServerConfig) (*host.Server, error) {
	if a.Bridge == nil {
		return nil, errors.New("no host bridge configured")
	}
	srv := host.NewServer(a.Bridge.Handler(), cfg, a.Logger)
	srv.RegisterOnShutdown(a.Bridge.Close)
	return srv, nil
}

// Close stops background work and releases storage connections
func (a *App) Close() error {
	a.Session.Close()
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
