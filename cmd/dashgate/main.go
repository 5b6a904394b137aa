package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/seclens/dashgate/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting dashgate",
		"addr", cfg.HTTP.Addr(),
		"backend_url", cfg.Backend.URL,
		"multitenancy", cfg.Multitenancy.Enabled)

	services, err := bootstrap.NewServices(ctx, &cfg, bootstrap.ServiceDeps{Logger: logger})
	if err != nil {
		return err
	}

	return bootstrap.RunServer(ctx, cfg.HTTP, services.Handler, logger)
}
