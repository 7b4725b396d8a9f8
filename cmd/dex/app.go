package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"pokedex/internal/catalog"
	"pokedex/internal/config"
	"pokedex/internal/dex"
	"pokedex/internal/logging"
	"pokedex/internal/notify"
	"pokedex/internal/pokeapi"
	"pokedex/internal/render"
	"pokedex/internal/scan"
	"pokedex/internal/store"
)

// app bundles the components one command run needs. Every command builds
// its own app so the catalog is owned by that run.
type app struct {
	cfg      *config.Config
	client   *pokeapi.Client
	cache    *catalog.Cache
	lookup   *dex.Lookup
	resolver *dex.Resolver
	notifier notify.Notifier
}

func resolveWorkspace() string {
	if workspace != "" {
		return workspace
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath(resolveWorkspace())
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		logging.BootError("Config load failed: %v", err)
		return nil, err
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if err := cfg.Validate(); err != nil {
		logging.BootError("Invalid config %s: %v", resolveConfigPath(), err)
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newApp(n notify.Notifier) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	n = notify.OrDiscard(n)

	client := pokeapi.NewClient(cfg.API.BaseURL,
		pokeapi.WithUserAgent(cfg.API.UserAgent),
		pokeapi.WithTimeout(cfg.GetAPITimeout()),
	)
	cache := catalog.New(client, catalog.WithNotifier(n), catalog.WithLimit(cfg.API.IndexLimit))
	lookup := dex.NewLookup(client, n)

	return &app{
		cfg:      cfg,
		client:   client,
		cache:    cache,
		lookup:   lookup,
		resolver: dex.NewResolver(cache, lookup),
		notifier: n,
	}, nil
}

// newCLIApp builds an app that prints notifications to w.
func newCLIApp(w io.Writer) (*app, error) {
	return newApp(notify.NewWriter(w))
}

func (a *app) scanner(concurrency int, progress scan.ProgressFunc) *scan.Scanner {
	if concurrency <= 0 {
		concurrency = a.cfg.Scan.Concurrency
	}
	return scan.New(a.cache, a.client,
		scan.WithConcurrency(concurrency),
		scan.WithProgress(progress),
		scan.WithNotifier(a.notifier),
	)
}

func (a *app) historyPath() string {
	p := a.cfg.Store.DatabasePath
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(resolveWorkspace(), p)
}

func (a *app) openHistory() (*store.HistoryStore, error) {
	return store.Open(a.historyPath())
}

// commandContext returns a context cancelled on SIGINT/SIGTERM and, when
// --timeout is positive, bounded by it.
func commandContext() (context.Context, context.CancelFunc) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, func() {
		stop()
		cancel()
	}
}

func zlog() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// renderStyle is the glamour style for detail cards.
var renderStyle = render.AutoStyle
