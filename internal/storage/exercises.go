package storage

import (
	"context"
	"fmt"

	"github.com/claude/workoutgen/internal/models"
	"github.com/jackc/pgx/v5"
)

// ReplaceExercises swaps the stored library for exercises in one
// transaction. Returns the number of rows written.
func (db *DB) ReplaceExercises(ctx context.Context, exercises []models.Exercise) (int64, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM exercises`); err != nil {
		return 0, fmt.Errorf("clearing exercises: %w", err)
	}

	rows := make([][]any, 0, len(exercises))
	for i, e := range exercises {
		tags := make([]string, len(e.Tags))
		for j, t := range e.Tags {
			tags[j] = string(t)
		}
		rows = append(rows, []any{i, e.Name, tags, e.Sets, e.Reps, e.Weight, e.Rest, e.Equipment})
	}

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"exercises"},
		[]string{"position", "name", "tags", "sets", "reps", "weight", "rest", "equipment"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting exercises: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing exercises: %w", err)
	}
	return n, nil
}

// ListExercises returns the stored library in its original order.
func (db *DB) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT name, tags, sets, reps, weight, rest, equipment
		 FROM exercises
		 ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		var e models.Exercise
		var tags []string
		if err := rows.Scan(&e.Name, &tags, &e.Sets, &e.Reps, &e.Weight, &e.Rest, &e.Equipment); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		for _, t := range tags {
			e.Tags = append(e.Tags, models.Tag(t))
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
