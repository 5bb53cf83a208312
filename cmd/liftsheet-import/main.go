package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/liftsheet/internal/config"
	"github.com/claude/liftsheet/internal/importer"
	"github.com/claude/liftsheet/internal/sheets"
	"github.com/claude/liftsheet/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	setsPath := flag.String("sets", "", "path to a set-log CSV export")
	measurementsPath := flag.String("measurements", "", "path to a body-measurement CSV export")
	caloriesPath := flag.String("calories", "", "path to a calorie CSV export")
	dryRun := flag.Bool("dry-run", false, "report counts without writing to the store")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *setsPath == "" && *measurementsPath == "" && *caloriesPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftsheet-import -config config.yaml [-sets log.csv] [-measurements body.csv] [-calories kcal.csv] [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Storage.Backend == "postgres" {
		if err := storage.RunMigrations(cfg.Storage.Postgres.DSN(), "migrations"); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied")
	}

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode — nothing will be written to the store")
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Error("failed to open store", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	log.Info("store opened", "backend", cfg.Storage.Backend)

	imp := importer.New(store, log, *dryRun)

	run := func(name, path string, do func(context.Context, string) error) {
		if path == "" {
			return
		}
		if err := do(ctx, path); err != nil {
			log.Error("import failed", "kind", name, "error", err)
			printStats(log, imp.Stats())
			os.Exit(1)
		}
	}
	run("sets", *setsPath, imp.ImportSets)
	run("measurements", *measurementsPath, imp.ImportMeasurements)
	run("calories", *caloriesPath, imp.ImportCalories)

	printStats(log, imp.Stats())
	log.Info("import complete")
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		return storage.OpenSQLite(cfg.Storage.SQLite.Path)
	case "postgres":
		return storage.NewPostgres(ctx, cfg.Storage.Postgres.DSN())
	case "sheets":
		return sheets.New(ctx, cfg.Storage.Sheets)
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

func printStats(log *slog.Logger, stats importer.Stats) {
	log.Info("import stats",
		"sets_imported", stats.SetsImported,
		"measurements_imported", stats.MeasurementsImported,
		"calories_imported", stats.CaloriesImported,
		"rows_skipped", stats.RowsSkipped,
		"rows_errored", stats.RowsErrored,
	)
}
