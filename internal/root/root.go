package root

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/drewfead/lunchmap/internal/browser"
	"github.com/drewfead/lunchmap/internal/clock"
	"github.com/drewfead/lunchmap/internal/config"
	"github.com/drewfead/lunchmap/internal/fetch"
	"github.com/drewfead/lunchmap/internal/scraper"
	"github.com/drewfead/lunchmap/internal/server"
	"github.com/drewfead/lunchmap/internal/services"
	"github.com/drewfead/lunchmap/internal/store"
	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v3"
)

const redisPingTimeout = 5 * time.Second

// syncWriter wraps an *os.File and calls Sync after each Write so streamed output
// appears immediately on Windows.
type syncWriter struct {
	f *os.File
}

func (w *syncWriter) Write(p []byte) (n int, err error) {
	n, err = w.f.Write(p)
	if err != nil {
		return n, err
	}
	_ = w.f.Sync()
	return n, nil
}

// RootOption configures the root command (e.g. for tests).
type RootOption func(*rootConfig)

type rootConfig struct {
	registry scraper.Registry
	clock    clock.Clock
	stdout   io.Writer
}

// WithRegistry sets the source registry. Use in tests to inject a registry that uses
// golden HTTP servers or mocks instead of the live restaurant pages.
func WithRegistry(registry scraper.Registry) RootOption {
	return func(c *rootConfig) {
		c.registry = registry
	}
}

// WithClock replaces the wall clock. The scrape --date flag still wins.
func WithClock(c clock.Clock) RootOption {
	return func(rc *rootConfig) {
		rc.clock = c
	}
}

func WithOutput(w io.Writer) RootOption {
	return func(c *rootConfig) {
		c.stdout = w
	}
}

// app holds what the Before hook resolved for the command being run.
type app struct {
	opts    *rootConfig
	cfg     *config.Config
	closers []io.Closer
}

func Root(ctx context.Context, opts ...RootOption) (*cli.Command, error) {
	rc := &rootConfig{stdout: &syncWriter{f: os.Stdout}}
	for _, opt := range opts {
		opt(rc)
	}
	if rc.stdout == nil {
		return nil, errors.New("output writer must not be nil")
	}
	a := &app{opts: rc}

	return &cli.Command{
		Name:  "lunchmap",
		Usage: "today's lunch menus from the restaurants around Dockan",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file",
				Sources: cli.EnvVars(config.ConfigPathEnv),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error (overrides LOG_LEVEL)",
			},
		},
		Before: a.before,
		After:  a.after,
		Commands: []*cli.Command{
			a.serveCommand(),
			a.scrapeCommand(),
			a.sourcesCommand(),
		},
	}, nil
}

func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	if lvl := cmd.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	if err := setupLogging(cfg, os.Stderr); err != nil {
		return ctx, err
	}
	a.cfg = cfg
	return ctx, nil
}

func (a *app) after(context.Context, *cli.Command) error {
	var errs []error
	for _, c := range slices.Backward(a.closers) {
		errs = append(errs, c.Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func setupLogging(cfg *config.Config, w io.Writer) error {
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		h = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		})
	}
	slog.SetDefault(slog.New(h))
	return nil
}

func (a *app) serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the menu API and the client",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "listen address (default :$APP_SERVER_PORT)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			menus, err := a.menuService(ctx, a.clock())
			if err != nil {
				return err
			}
			addr := cmd.String("addr")
			if addr == "" {
				addr = a.cfg.Addr()
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(menus,
				server.WithStaticDir(a.cfg.StaticDir),
				server.WithMapsAPIKey(a.cfg.MapsAPIKey),
			)
			return srv.ListenAndServe(ctx, addr)
		},
	}
}

func (a *app) sourcesCommand() *cli.Command {
	return &cli.Command{
		Name:  "sources",
		Usage: "list the registered source identifiers",
		Action: func(ctx context.Context, _ *cli.Command) error {
			menus, err := a.menuService(ctx, a.clock())
			if err != nil {
				return err
			}
			for _, id := range menus.Sources() {
				if _, err := fmt.Fprintln(a.opts.stdout, id); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) clock() clock.Clock {
	if a.opts.clock != nil {
		return a.opts.clock
	}
	return clock.System(a.cfg.Location())
}

func (a *app) menuService(ctx context.Context, c clock.Clock) (services.MenuService, error) {
	registry := a.opts.registry
	if registry == nil {
		var err error
		registry, err = a.defaultRegistry(ctx)
		if err != nil {
			return nil, err
		}
	}
	return services.MenusService(registry, c), nil
}

// defaultRegistry wires every live source with the configured cache and timeout, and the
// static sources as they are.
func (a *app) defaultRegistry(ctx context.Context) (scraper.Registry, error) {
	st, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	return buildRegistry(a.cfg, st, a.browser)
}

func (a *app) browser() browser.Interface {
	b := browser.Headless()
	a.closers = append(a.closers, b)
	return b
}

func buildRegistry(cfg *config.Config, st store.Store, newBrowser func() browser.Interface) (scraper.Registry, error) {
	known := scraper.ScrapedDescriptors()
	for _, id := range cfg.BrowserSources {
		if !slices.Contains(known, id) {
			return nil, fmt.Errorf("BROWSER_SOURCES: %w: %s", scraper.ErrSourceNotFound, id)
		}
	}

	httpFetcher := fetch.HTTP(fetch.WithTimeout(cfg.SourceTimeout))
	var rendered browser.Interface
	if len(cfg.BrowserSources) > 0 {
		rendered = newBrowser()
	}

	var opts []scraper.RegistryOption
	for _, id := range known {
		var f fetch.Fetcher = httpFetcher
		if slices.Contains(cfg.BrowserSources, id) {
			f = rendered
		}
		src, err := scraper.New(id, scraper.WithFetcher(f))
		if err != nil {
			return nil, err
		}
		opts = append(opts, scraper.WithSource(src, scraper.Timeout(cfg.SourceTimeout), scraper.Cached(st)))
	}
	for _, src := range scraper.Statics() {
		opts = append(opts, scraper.WithSource(src))
	}
	return scraper.NewRegistry(opts...), nil
}

func (a *app) openStore(ctx context.Context) (store.Store, error) {
	c := a.cfg.Cache
	switch c.Backend {
	case config.BackendFile:
		return store.Files(c.Dir)
	case config.BackendRedis:
		rs := store.Redis(store.RedisConfig{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			UseTLS:   c.Redis.TLS,
		})
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := rs.Ping(pingCtx); err != nil {
			_ = rs.Close()
			return nil, fmt.Errorf("redis cache at %s: %w", c.Redis.Addr, err)
		}
		a.closers = append(a.closers, rs)
		return rs, nil
	default:
		return store.Memory(0, 0), nil
	}
}
