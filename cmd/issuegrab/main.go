// Command issuegrab captures a digital newspaper issue from an authenticated
// web viewer and assembles the pages into one PDF.
//
// Usage:
//
//	issuegrab -config issuegrab.yaml            # full run from config
//	issuegrab -config issuegrab.yaml -headless  # force headless Chrome
//
// Credentials come from ISSUEGRAB_USERNAME / ISSUEGRAB_PASSWORD, optionally
// loaded from a .env file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"github.com/chuachunmin/issuegrab/grab"
)

func main() {
	configPath := flag.String("config", "", "path to issuegrab.yaml config file")
	envPath := flag.String("env", "", "path to a .env file with credentials (default: ./.env if present)")
	headless := flag.Bool("headless", false, "force headless Chrome regardless of config")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *envPath, *headless); err != nil {
		logger.Error("issuegrab: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, envPath string, headless bool) error {
	loadEnvFile(logger, envPath)

	var cfg *grab.Config
	if configPath != "" {
		loaded, err := grab.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = grab.DefaultConfig()
	}

	if headless {
		cfg.Browser.Headless = true
	}

	if err := cfg.LoadCredentialsFromEnv(); err != nil {
		return err
	}

	outPath, err := grab.New(cfg, logger).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println(outPath)
	return nil
}

// loadEnvFile loads credentials from a .env file. An explicitly named file
// must exist; the implicit ./.env is optional.
func loadEnvFile(logger *slog.Logger, envPath string) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			logger.Warn("issuegrab: env file load failed", "path", envPath, "error", err)
		}
		return
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Debug("issuegrab: no .env file", "error", err)
	}
}
