package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/kvfile-go/internal/infra/buildinfo"
	"github.com/yndnr/kvfile-go/internal/infra/confloader"
	"github.com/yndnr/kvfile-go/internal/infra/shutdown"
	"github.com/yndnr/kvfile-go/internal/server/config"
	"github.com/yndnr/kvfile-go/internal/server/httpserver"
	"github.com/yndnr/kvfile-go/internal/server/lineserver"
	"github.com/yndnr/kvfile-go/internal/telemetry/logger"
	"github.com/yndnr/kvfile-go/internal/telemetry/metric"
	"github.com/yndnr/kvfile-go/pkg/kvfile"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		storePath   = flag.String("store", "", "Store file path (overrides store.path)")
		addr        = flag.String("addr", "", "Listen address (overrides server.addr)")
		logLevel    = flag.String("log-level", "", "Log level (overrides log.level)")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("kvfile-server %s\n", buildinfo.String())
		return nil
	}

	overrides := map[string]any{
		"store.path":  *storePath,
		"server.addr": *addr,
		"log.level":   *logLevel,
	}
	cfg, err := loadConfig(*configFile, overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	slog.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting kvfile-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", *configFile)

	reg := metric.NewRegistry()

	store, err := openStore(cfg.Store, log, reg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	srv := lineserver.New(serverConfig(cfg, reg), store, log)

	shutdownHandler := shutdown.NewHandler(cfg.Server.ShutdownTimeout, log)

	// Hooks run in reverse: line server, watcher, admin HTTP, then the
	// store's final flush once no connection can touch it.
	shutdownHandler.OnShutdown("store", func(context.Context) error {
		return srv.WithStore(func(s *kvfile.Store) error { return s.Close() })
	})

	var adminServer *httpserver.Server
	if cfg.Metrics.Addr != "" {
		adminServer = httpserver.New(cfg.Metrics.Addr, httpserver.NewRouter(&httpserver.RouterConfig{
			Store:    srv,
			Registry: reg,
			Logger:   log,
		}))
		shutdownHandler.OnShutdown("admin http", adminServer.Shutdown)
	}

	if *configFile != "" {
		w, err := watchConfig(*configFile, overrides, log)
		if err != nil {
			log.Warn("config watcher disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown("config watcher", func(context.Context) error { return w.Stop() })
		}
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	if err := srv.Start(ctx); err != nil {
		shutdownHandler.Shutdown()
		return fmt.Errorf("start server: %w", err)
	}
	shutdownHandler.OnShutdown("line server", srv.Shutdown)
	log.Info("line server listening", "addr", srv.Addr().String())

	if adminServer != nil {
		go func() {
			log.Info("admin http listening", "addr", adminServer.Addr())
			if err := adminServer.ListenAndServe(); err != nil {
				log.Error("admin http server error", "error", err)
				cancel(err)
			}
		}()
	}

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from defaults, file, environment and
// overrides, then validates it.
func loadConfig(configFile string, overrides map[string]any) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{confloader.WithOverrides(overrides)}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openStore loads the configured store file, or starts an empty store
// when the file does not exist yet.
func openStore(sc config.StoreSection, log *slog.Logger, reg prometheus.Registerer) (*kvfile.Store, error) {
	policy, err := sc.DumpPolicy()
	if err != nil {
		return nil, err
	}
	format, err := sc.CodecFormat()
	if err != nil {
		return nil, err
	}
	opts := append(sc.Options(),
		kvfile.WithLogger(log),
		kvfile.WithRegisterer(reg))

	if _, err := os.Stat(sc.Path); errors.Is(err, fs.ErrNotExist) {
		log.Info("store file not found, starting empty", "path", sc.Path)
		return kvfile.New(sc.Path, policy, format, opts...)
	}
	return kvfile.Load(sc.Path, policy, format, opts...)
}

func serverConfig(cfg *config.ServerConfig, reg prometheus.Registerer) *lineserver.Config {
	return &lineserver.Config{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		RateLimit:    cfg.Server.RateLimit,
		RateBurst:    cfg.Server.RateBurst,
		MaxLineBytes: cfg.Server.MaxLineBytes,
		MaxConns:     cfg.Server.MaxConns,
		Registerer:   reg,
	}
}

// watchConfig re-applies the log level whenever the config file changes.
// Other settings need a restart.
func watchConfig(configFile string, overrides map[string]any, log *slog.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(configFile); err != nil {
		w.Stop()
		return nil, err
	}

	w.OnChange(func(string) {
		reloadLogLevel(configFile, overrides, log)
	})
	w.StartAsync()
	return w, nil
}

func reloadLogLevel(configFile string, overrides map[string]any, log *slog.Logger) {
	cfg, err := loadConfig(configFile, overrides)
	if err != nil {
		log.Warn("config reload rejected", "error", err)
		return
	}
	if cfg.Log.Level == logger.GetLevel() {
		return
	}
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		log.Warn("config reload rejected", "error", err)
		return
	}
	log.Info("log level changed", "level", cfg.Log.Level)
}
