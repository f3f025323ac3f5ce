// Command jadict builds a Japanese-English dictionary for Kobo e-readers
// from JMdict and optional pitch-accent, Yomichan and native Kobo sources.
//
// Usage:
//
//	jadict [flags] OUTPUT
//
// Flags override values from the YAML config (-config or CONFIG_PATH) and
// the environment. Exit codes: 0 = success, 1 = error, 2 = bad usage.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/kobo-jadict/internal/adapter/kobo"
	"github.com/heartmarshall/kobo-jadict/internal/adapter/postgres"
	"github.com/heartmarshall/kobo-jadict/internal/adapter/postgres/dictentry"
	"github.com/heartmarshall/kobo-jadict/internal/adapter/text"
	"github.com/heartmarshall/kobo-jadict/internal/app"
	"github.com/heartmarshall/kobo-jadict/internal/app/builder"
	"github.com/heartmarshall/kobo-jadict/internal/config"
)

// Compile-time interface assertions.
var (
	_ builder.EntryRepo = (*dictentry.Repo)(nil)
	_ builder.TxRunner  = (*postgres.TxManager)(nil)
	_ builder.Sink      = (*kobo.Writer)(nil)
	_ builder.Sink      = (*text.Writer)(nil)
)

func main() {
	cli, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cli.version {
		fmt.Println(app.BuildVersion())
		return
	}

	cfg, err := config.Load(cli.configPath, cli.apply)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)
	logger.Info("starting build",
		slog.String("version", app.BuildVersion()),
		slog.String("output", cfg.Output.Path),
		slog.String("format", cfg.Output.Format),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cli.timeout)
	defer cancel()

	if err := run(ctx, logger, cfg); err != nil {
		logger.Error("build failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("build completed successfully")
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.Config) error {
	pipeline := builder.NewPipeline(logger, *cfg, newSink(logger, cfg.Output))

	if cfg.Database.Export {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()

		if err := postgres.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		pipeline.WithExport(dictentry.New(pool), postgres.NewTxManager(pool))
	}

	if err := pipeline.Run(ctx); err != nil {
		return err
	}
	if pipeline.HasErrors() {
		return fmt.Errorf("pipeline completed with errors")
	}
	return nil
}

func newSink(logger *slog.Logger, out config.OutputConfig) builder.Sink {
	if out.Format == "text" {
		return text.NewWriter(out.Path)
	}
	return kobo.NewWriter(logger, out.Path)
}
