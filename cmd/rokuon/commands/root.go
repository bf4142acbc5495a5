package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	configloader "github.com/foxseedlab/rokuon/external/config"
	engineimpl "github.com/foxseedlab/rokuon/external/engine"
	folderimpl "github.com/foxseedlab/rokuon/external/folder"
	notifyimpl "github.com/foxseedlab/rokuon/external/notify"
	repositoryimpl "github.com/foxseedlab/rokuon/external/repository"
	uisurfaceimpl "github.com/foxseedlab/rokuon/external/uisurface"
	uploadtokenimpl "github.com/foxseedlab/rokuon/external/uploadtoken"
	"github.com/foxseedlab/rokuon/internal/config"
	"github.com/foxseedlab/rokuon/internal/engine"
	"github.com/foxseedlab/rokuon/internal/host"
	"github.com/foxseedlab/rokuon/internal/repository"
	"github.com/foxseedlab/rokuon/internal/uisurface"
	"github.com/gin-gonic/gin"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

const engineConnectTimeout = 20 * time.Second

var configPath string

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rokuon",
		Short:         "Meeting recording host",
		Long:          `rokuon drives the meeting recording engine and keeps the recorder UI in sync.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runHost,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml (default $XDG_CONFIG_HOME/rokuon/config.toml)")
	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewHistoryCommand())

	return rootCmd
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		slog.Error("rokuon exited with error", "error", err)
		os.Exit(1)
	}
}

func runHost(cmd *cobra.Command, _ []string) error {
	slog.Info("startup: loading configuration")
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	initLogger(cfg)
	initGinMode(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bridge, err := do.Invoke[*engineimpl.Bridge](injector)
	if err != nil {
		return fmt.Errorf("failed to resolve engine bridge: %w", err)
	}
	slog.Info("startup: connecting to engine", "url", cfg.EngineURL)
	connectCtx, cancel := context.WithTimeout(ctx, engineConnectTimeout)
	defer cancel()
	if err := bridge.Connect(connectCtx); err != nil {
		return err
	}
	defer func() {
		if err := bridge.Close(); err != nil {
			slog.Error("engine close failed", "error", err)
		}
	}()
	if err := bridge.Init(ctx, engine.InitOptions{Dev: cfg.IsDevelopment(), APIURL: cfg.EngineAPIURL}); err != nil {
		return fmt.Errorf("engine init failed: %w", err)
	}

	manager, err := do.Invoke[*host.Manager](injector)
	if err != nil {
		return fmt.Errorf("failed to resolve lifecycle host: %w", err)
	}
	defer closeSinks(injector)

	surface, err := do.Invoke[uisurface.Surface](injector)
	if err != nil {
		return fmt.Errorf("failed to resolve ui surface: %w", err)
	}
	serveCtx, stopServe := context.WithCancel(ctx)
	serveDone := make(chan struct{})
	go func() {
		defer close(serveDone)
		if err := surface.Serve(serveCtx); err != nil {
			slog.Error("ui server failed", "error", err)
		}
	}()
	defer func() {
		stopServe()
		<-serveDone
	}()

	slog.Info("startup: entering dispatch loop")
	err = manager.Run(ctx)
	if errors.Is(err, context.Canceled) {
		slog.Info("shutting down")
		return nil
	}
	return err
}

func loadConfig() (*config.Config, error) {
	cfg, err := configloader.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func initGinMode(cfg *config.Config) {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	repositoryimpl.RegisterDI(injector)
	engineimpl.RegisterDI(injector)
	uploadtokenimpl.RegisterDI(injector)
	notifyimpl.RegisterDI(injector)
	folderimpl.RegisterDI(injector)
	uisurfaceimpl.RegisterDI(injector)
	host.RegisterDI(injector)

	return injector
}

// closeSinks flushes queued notices and journal writes.
func closeSinks(injector do.Injector) {
	if fanout, err := do.Invoke[*notifyimpl.Fanout](injector); err == nil {
		fanout.Close()
	}
	if repo, err := do.Invoke[repository.Repository](injector); err == nil {
		repo.Close()
	}
}
