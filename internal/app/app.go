// Package app wires configuration into a ready workout service.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/claude/workoutgen/internal/config"
	"github.com/claude/workoutgen/internal/generator"
	"github.com/claude/workoutgen/internal/library"
	"github.com/claude/workoutgen/internal/localstore"
	"github.com/claude/workoutgen/internal/models"
	"github.com/claude/workoutgen/internal/storage"
	"github.com/claude/workoutgen/internal/templates"
	"github.com/claude/workoutgen/internal/workout"
)

// App holds the opened resources behind a Service.
type App struct {
	Service *workout.Service
	// DB is nil when no database is configured.
	DB *storage.DB

	closers []func()
}

// Open connects storage, loads the library and builds the service.
// Migrations are expected to have been applied already.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	a := &App{}

	if cfg.Database.Enabled() {
		db, err := storage.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("connecting database: %w", err)
		}
		a.DB = db
		a.closers = append(a.closers, db.Close)
		log.Info("database connected")
	}

	exercises, err := a.loadLibrary(ctx, cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	backend, err := a.templateBackend(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	rng := generator.NewLockedRand(generator.NewRand(cfg.Generator.Seed))
	engine := generator.NewEngine(rng, log)
	a.Service = workout.NewService(engine, exercises, templates.NewStore(backend), log)
	return a, nil
}

// Close releases everything Open acquired.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) loadLibrary(ctx context.Context, cfg *config.Config, log *slog.Logger) ([]models.Exercise, error) {
	if cfg.Library.Source == config.SourcePostgres {
		exercises, err := a.DB.ListExercises(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading library: %w", err)
		}
		log.Info("library loaded", "source", "postgres", "exercises", len(exercises))
		return exercises, nil
	}

	lib, err := library.LoadFile(cfg.Library.Path)
	if err != nil {
		return nil, fmt.Errorf("loading library: %w", err)
	}
	for _, s := range lib.Skipped {
		log.Warn("library row skipped", "line", s.Line, "reason", s.Reason)
	}
	log.Info("library loaded", "source", cfg.Library.Path, "exercises", len(lib.Exercises))
	return lib.Exercises, nil
}

func (a *App) templateBackend(cfg *config.Config) (templates.Backend, error) {
	switch cfg.Templates.Backend {
	case config.BackendPostgres:
		return storage.NewTemplateBackend(a.DB, cfg.Templates.MaxBytes), nil
	case config.BackendMemory:
		return &templates.MemoryBackend{MaxBytes: cfg.Templates.MaxBytes}, nil
	default:
		store, err := localstore.Open(cfg.Templates.SQLiteDir, int64(cfg.Templates.MaxBytes))
		if err != nil {
			return nil, fmt.Errorf("opening template store: %w", err)
		}
		a.closers = append(a.closers, func() { store.Close() })
		return store.Templates(), nil
	}
}
