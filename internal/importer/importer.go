// Package importer loads exercise library files into the database.
package importer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/claude/workoutgen/internal/library"
	"github.com/claude/workoutgen/internal/models"
	"github.com/claude/workoutgen/internal/storage"
)

// Store is the subset of storage.DB the importer writes to.
type Store interface {
	ReplaceExercises(ctx context.Context, exercises []models.Exercise) (int64, error)
	InsertImportLog(ctx context.Context, log storage.ImportLog) (int64, error)
	UpdateImportLog(ctx context.Context, id int64, log storage.ImportLog) error
}

// Compile-time check: *storage.DB satisfies Store.
var _ Store = (*storage.DB)(nil)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesErrored   int

	ExercisesParsed    int
	ExercisesInserted  int64
	ExercisesDuplicate int
	RowsSkipped        int

	Skipped []string
}

// Importer reads library files and replaces the stored exercise library.
type Importer struct {
	db     Store
	log    *slog.Logger
	dryRun bool
	stats  Stats
}

// New creates a new Importer. db may be nil in dry-run mode.
func New(db Store, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{db: db, log: log, dryRun: dryRun}
}

// Import parses path, a library file or a directory of them, and replaces
// the stored library with the result. Exercises whose name was already seen
// in an earlier file are dropped.
func (imp *Importer) Import(ctx context.Context, path string) (*Stats, error) {
	start := time.Now()

	files, err := libraryFiles(path)
	if err != nil {
		return &imp.stats, err
	}
	if len(files) == 0 {
		return &imp.stats, fmt.Errorf("no .csv or .yaml files under %s", path)
	}

	var exercises []models.Exercise
	seen := map[string]bool{}
	for _, f := range files {
		lib, err := library.LoadFile(f)
		if err != nil {
			imp.stats.FilesErrored++
			imp.log.Warn("skipping library file", "file", f, "error", err)
			continue
		}
		imp.stats.FilesProcessed++
		imp.stats.RowsSkipped += len(lib.Skipped)
		for _, s := range lib.Skipped {
			imp.stats.Skipped = append(imp.stats.Skipped, fmt.Sprintf("%s:%d: %s", filepath.Base(f), s.Line, s.Reason))
		}
		for _, ex := range lib.Exercises {
			key := strings.ToLower(ex.Name)
			if seen[key] {
				imp.stats.ExercisesDuplicate++
				continue
			}
			seen[key] = true
			exercises = append(exercises, ex)
		}
		imp.log.Debug("parsed library file", "file", f, "exercises", len(lib.Exercises), "skipped", len(lib.Skipped))
	}
	imp.stats.ExercisesParsed = len(exercises)

	if imp.dryRun {
		return &imp.stats, nil
	}
	if len(exercises) == 0 {
		return &imp.stats, fmt.Errorf("no exercises parsed from %s", path)
	}

	entry := storage.ImportLog{
		Source:            path,
		Status:            "running",
		ExercisesReceived: len(exercises),
		RowsSkipped:       imp.stats.RowsSkipped,
	}
	logID, err := imp.db.InsertImportLog(ctx, entry)
	if err != nil {
		imp.log.Warn("import log unavailable", "error", err)
	}

	inserted, importErr := imp.db.ReplaceExercises(ctx, exercises)
	imp.stats.ExercisesInserted = inserted

	if logID != 0 {
		ms := int(time.Since(start).Milliseconds())
		entry.Status = "success"
		entry.ExercisesInserted = inserted
		entry.DurationMs = &ms
		if importErr != nil {
			entry.Status = "error"
			msg := importErr.Error()
			entry.ErrorMessage = &msg
		}
		if err := imp.db.UpdateImportLog(ctx, logID, entry); err != nil {
			imp.log.Warn("updating import log", "id", logID, "error", err)
		}
	}

	if importErr != nil {
		return &imp.stats, fmt.Errorf("storing exercises: %w", importErr)
	}
	return &imp.stats, nil
}

// libraryFiles returns path itself if it is a file, or every library file
// below it in lexical order.
func libraryFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".csv", ".yaml", ".yml":
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", path, err)
	}
	sort.Strings(files)
	return files, nil
}
