package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/camscan/cmd"
	"github.com/smazurov/camscan/internal/api"
	"github.com/smazurov/camscan/internal/config"
	"github.com/smazurov/camscan/internal/daemon"
	"github.com/smazurov/camscan/internal/events"
	"github.com/smazurov/camscan/internal/inventory"
	"github.com/smazurov/camscan/internal/logging"
	"github.com/smazurov/camscan/internal/metrics"
	"github.com/smazurov/camscan/internal/scanner"
	"github.com/smazurov/camscan/internal/systemd"
	"github.com/smazurov/camscan/internal/version"
	"github.com/smazurov/camscan/pkg/linuxav/hotplug"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"camscan.toml"`

	// Server settings
	Port string `help:"Address to listen on" short:"p" default:":8091" toml:"server.port" env:"SERVER_PORT"`
	CORS bool   `help:"Send CORS headers on API responses" default:"false" toml:"server.cors" env:"SERVER_CORS"`

	// Daemon settings
	Hotplug bool `help:"Re-probe devices on hotplug events" default:"true" toml:"daemon.hotplug" env:"DAEMON_HOTPLUG"`

	// Logging settings
	LoggingLevel   string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingScanner string `help:"Scanner logging level" default:"info" toml:"logging.scanner" env:"LOGGING_SCANNER"`
	LoggingDaemon  string `help:"Daemon logging level" default:"info" toml:"logging.daemon" env:"LOGGING_DAEMON"`
	LoggingAPI     string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingHTTP    string `help:"HTTP request logging level" default:"info" toml:"logging.http" env:"LOGGING_HTTP"`
}

func (o *Options) loggingConfig() logging.Config {
	return logging.Config{
		Level:  o.LoggingLevel,
		Format: o.LoggingFormat,
		Modules: map[string]string{
			"scanner": o.LoggingScanner,
			"daemon":  o.LoggingDaemon,
			"api":     o.LoggingAPI,
			"http":    o.LoggingHTTP,
		},
	}
}

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}
		logging.Initialize(opts.loggingConfig())

		logger := logging.GetLogger("main")

		promMetrics := metrics.New()
		eventBus := events.New()
		registry := inventory.New()
		devScanner := scanner.New(scanner.WithObserver(promMetrics))
		notifier := systemd.NewNotifier()

		ctx, cancel := context.WithCancel(context.Background())
		daemonDone := make(chan struct{})
		var (
			monitor       *hotplug.Monitor
			configWatcher *config.Watcher[logging.Config]
			unsubscribe   []func()
		)

		server := api.NewServer(api.Options{
			Devices: registry,
			Metrics: promMetrics.Handler(),
			CORS:    corsConfig(opts.CORS),
		})

		hooks.OnStart(func() {
			logger.Info("Starting camscan", "version", version.String(), "addr", opts.Port)

			unsubscribe = append(unsubscribe,
				registry.Subscribe(eventBus),
				promMetrics.Subscribe(eventBus),
			)

			var source daemon.Source
			if opts.Hotplug {
				m, err := hotplug.NewMonitor(hotplug.SubsystemVideo4Linux)
				if err != nil {
					logger.Warn("Hotplug monitoring unavailable, probing once at startup", "error", err)
				} else {
					monitor = m
					source = m
				}
			}

			go func() {
				defer close(daemonDone)
				if err := daemon.New(devScanner, source, eventBus).Run(ctx); err != nil {
					logger.Error("Device watcher stopped", "error", err)
				}
			}()

			configWatcher = config.NewWatcher(opts.Config, config.LoadLoggingConfig, logging.GetLogger("config"))
			configWatcher.OnReload(func(cfg logging.Config) {
				logging.SetLevels(cfg)
				logger.Info("Logging levels reloaded", "level", cfg.Level)
			})
			if err := configWatcher.Start(); err != nil {
				logger.Warn("Not watching config file", "path", opts.Config, "error", err)
				configWatcher = nil
			}

			go notifier.RunWatchdog(ctx)
			notifier.Status("Serving device inventory on " + opts.Port)
			notifier.Ready()

			if err := server.Start(opts.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", err)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down")
			notifier.Stopping()
			if err := server.Stop(); err != nil {
				logger.Error("Error stopping HTTP server", "error", err)
			}
			if configWatcher != nil {
				_ = configWatcher.Stop()
			}

			cancel()
			<-daemonDone
			if monitor != nil {
				_ = monitor.Close()
			}
			for _, unsub := range unsubscribe {
				unsub()
			}
		})
	})

	root := cli.Root()
	root.Use = "camscan"
	root.Short = "Enumerate V4L2 capture devices and their modes"
	root.Version = version.String()

	root.AddCommand(cmd.CreateListCmd())
	root.AddCommand(cmd.CreateProbeCmd())
	root.AddCommand(cmd.CreateConfigCmd())

	cli.Run()
}

func corsConfig(enabled bool) *api.CORSConfig {
	if !enabled {
		return nil
	}
	c := api.DefaultCORSConfig()
	return &c
}
