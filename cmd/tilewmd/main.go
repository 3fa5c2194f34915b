// Command tilewmd is the window manager daemon: it owns the X11 connection,
// the model, and the single-threaded core.Loop that drives everything else.
// Grounded on the teacher's cmd/termtile runDaemon for the overall startup
// sequence (load config, connect to the display, register hotkeys, start
// the IPC server, wait on signals) adapted from termtile's flag-based
// dispatcher to a cobra root command since tilewmd has no subcommands of
// its own.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tilewm/tilewm/internal/autostart"
	"github.com/tilewm/tilewm/internal/config"
	"github.com/tilewm/tilewm/internal/core"
	"github.com/tilewm/tilewm/internal/hotkeys"
	"github.com/tilewm/tilewm/internal/ipc"
	"github.com/tilewm/tilewm/internal/model"
	"github.com/tilewm/tilewm/internal/reconcile"
	"github.com/tilewm/tilewm/internal/runtimepath"
	"github.com/tilewm/tilewm/internal/x11"
)

func main() {
	var configPath string
	var logLevel string

	root := &cobra.Command{
		Use:   "tilewmd",
		Short: "tilewm daemon: connects to the X server and manages windows",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, logLevel)
		},
	}
	root.Flags().StringVar(&configPath, "config", "", "path to config.yaml (default: ~/.config/tilewm/config.yaml)")
	root.Flags().StringVar(&logLevel, "log-level", "", "override the configured log level (debug|info|warn|error)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, logLevelOverride string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(level)}))
	slog.SetDefault(logger)

	backend, err := x11.NewBackend(logger)
	if err != nil {
		return fmt.Errorf("connect to X server: %w", err)
	}
	defer backend.Shutdown()

	monitors, err := backend.Monitors()
	if err != nil {
		return fmt.Errorf("query monitors: %w", err)
	}
	m := model.New(monitors)
	logger.Info("model initialized", "monitors", len(monitors))

	hotkeyProvider, err := hotkeys.NewProvider(backend, cfg.Keybindings, logger)
	if err != nil {
		return fmt.Errorf("register hotkeys: %w", err)
	}

	autoStart, err := autostart.New()
	if err != nil {
		return fmt.Errorf("init autostart controller: %w", err)
	}

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return fmt.Errorf("resolve socket path: %w", err)
	}

	statusRequests := make(chan ipc.StatusRequest)
	monitorsRequests := make(chan ipc.MonitorsRequest)
	exit := make(chan struct{}, 1)
	reload := make(chan struct{}, 1)
	toggleStatusBar := make(chan struct{}, 1)

	server, err := ipc.NewServer(socketPath, ipc.ServerConfig{
		AutoStart:        autoStart,
		StatusRequests:   statusRequests,
		MonitorsRequests: monitorsRequests,
		Exit:             exit,
		Reload:           reload,
		ToggleStatusBar:  toggleStatusBar,
		Logger:           logger,
	})
	if err != nil {
		return fmt.Errorf("create IPC server: %w", err)
	}
	if err := server.Start(); err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer server.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := core.New(m, backend, core.Config{
		Reconcile: toReconcileConfig(cfg),
		Hotkeys:   hotkeyProvider.Actions(),

		StatusRequests:   statusRequests,
		MonitorsRequests: monitorsRequests,
		Exit:             exit,
		Reload:           reload,
		ToggleStatusBar:  toggleStatusBar,
		// OnReload only validates the file and logs: geometry and
		// keybindings are baked into the reconciler and the X11 key
		// grabs at startup, so picking up a change still needs a
		// restart. This at least catches a bad config before it's
		// acted on.
		OnReload: func() {
			if _, err := loadConfig(configPath); err != nil {
				logger.Error("config reload failed", "error", err)
				return
			}
			logger.Info("config re-validated; restart tilewmd to apply changes")
		},
		Logger: logger,
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGHUP:
				select {
				case reload <- struct{}{}:
				default:
				}
			case os.Interrupt, syscall.SIGTERM:
				cancel()
				return
			}
		}
	}()

	logger.Info("tilewmd entering event loop")
	loop.Run(ctx)
	logger.Info("tilewmd shutting down")
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromPath(path)
}

func toReconcileConfig(cfg *config.Config) reconcile.Config {
	return reconcile.Config{
		Gap:                   cfg.Gap,
		EdgeInset:             cfg.EdgeInset,
		StatusBarHeight:       cfg.StatusBarHeight,
		BorderColorFocused:    cfg.BorderColorFocused,
		BorderColorUnfocused:  cfg.BorderColorUnfocused,
		TransparencyUnfocused: cfg.TransparencyUnfocused,
	}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
