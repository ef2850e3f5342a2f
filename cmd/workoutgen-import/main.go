package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/workoutgen/internal/config"
	"github.com/claude/workoutgen/internal/importer"
	"github.com/claude/workoutgen/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	libraryPath := flag.String("path", "", "library file or directory of .csv/.yaml files (required)")
	dryRun := flag.Bool("dry-run", false, "parse and report counts without writing to the database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *libraryPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: workoutgen-import -config config.yaml -path exercises.csv [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode: no data will be written to the database")
		stats, err := importer.New(nil, log, true).Import(ctx, *libraryPath)
		printStats(log, stats)
		if err != nil {
			log.Error("import failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if !cfg.Database.Enabled() {
		log.Error("database.host is required to import")
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()

	// Run migrations
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	// Connect database
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	// Run import
	stats, err := importer.New(db, log, false).Import(ctx, *libraryPath)
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("import stats",
		"files_processed", stats.FilesProcessed,
		"files_errored", stats.FilesErrored,
		"exercises_parsed", stats.ExercisesParsed,
		"exercises_inserted", stats.ExercisesInserted,
		"exercises_duplicate", stats.ExercisesDuplicate,
		"rows_skipped", stats.RowsSkipped,
	)
	for _, s := range stats.Skipped {
		log.Info("skipped row", "row", s)
	}
}
