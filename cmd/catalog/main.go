// Package main implements the catalog command for managing the product file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/abgdnv/catalog/internal/config"
	"github.com/abgdnv/catalog/internal/product/app"
	"github.com/abgdnv/catalog/internal/product/handler"
	"github.com/abgdnv/catalog/pkg/bootstrap"
	"github.com/abgdnv/catalog/pkg/config/configloader"
	applog "github.com/abgdnv/catalog/pkg/logger"
	"github.com/google/uuid"
)

const serviceName = "catalog"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run parses the flags, loads the configuration, opens the product file and executes one command.
// It returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet(serviceName, flag.ContinueOnError)
	flags.SetOutput(stderr)
	configFile := flags.String("config", "", "YAML configuration file (default config.yaml)")
	envFile := flags.String("env", "", "dotenv file (default .env)")
	productFile := flags.String("file", "", "product file, overrides store.path")
	logLevel := flags.String("log-level", "", "log level: debug, info, warn or error")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return handler.ExitOK
		}
		return handler.ExitUsage
	}

	overrides := make(map[string]any)
	if *productFile != "" {
		overrides["store.path"] = *productFile
	}
	if *logLevel != "" {
		overrides["log.level"] = *logLevel
	}
	cfg, err := configloader.LoadWith[*config.Config](serviceName, configloader.Options{
		ConfigFile: *configFile,
		EnvFile:    *envFile,
		Defaults:   config.Defaults(),
		Overrides:  overrides,
	})
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "failed to load configuration: %v\n", err)
		return handler.ExitUsage
	}

	// Logs go to stderr, stdout carries the command output.
	logger := bootstrap.NewLogger(stderr, cfg.Log.Level)
	ctx = applog.WithRunID(ctx, uuid.NewString())
	logger.DebugContext(ctx, "Configuration loaded", "config", cfg.String())

	deps, err := app.SetupDependencies(ctx, cfg, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to set up application", "error", err)
		return handler.ExitCode(err)
	}

	code := app.SetupHandler(deps).Run(ctx, flags.Args(), stdin, stdout, stderr)

	if cfg.Metrics.Textfile != "" {
		if err := deps.Metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.WarnContext(ctx, "Failed to write metrics", "error", err)
		}
	}
	return code
}
