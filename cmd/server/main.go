package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/vovakirdan/netchat-server/internal/app"
	"github.com/vovakirdan/netchat-server/internal/config"
	"github.com/vovakirdan/netchat-server/internal/log"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config.yaml")
		addr       = flag.String("addr", "", "chat listen address (overrides config)")
		adminAddr  = flag.String("admin-addr", "", "admin HTTP address (overrides config)")
		logLevel   = flag.String("log-level", "", "debug, info, warn or error (overrides config)")
	)
	flag.Parse()

	bootLogger := log.New("info")
	cfg, path, err := config.Load(bootLogger, *configPath)
	if err != nil {
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *adminAddr != "" {
		cfg.AdminAddr = *adminAddr
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	logger := log.New(cfg.LogLevel)
	logger.Info().Str("config", path).Msg("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize")
	}

	logger.Info().Str("addr", cfg.Addr).Str("admin_addr", cfg.AdminAddr).Msg("starting netchat server")
	if err := application.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
	logger.Info().Msg("server stopped")
}
