package generator

import (
	"github.com/claude/workoutgen/internal/models"
	"github.com/google/uuid"
)

// Selection is a candidate accepted for a quota tag.
type Selection struct {
	Tag      models.Tag
	Exercise models.Exercise
}

// Assemble turns selections into plan exercises, in order, each with a fresh
// ID from newID.
func Assemble(selections []Selection, newID func() uuid.UUID) []models.PlanExercise {
	out := make([]models.PlanExercise, 0, len(selections))
	for _, s := range selections {
		out = append(out, newPlanExercise(s.Exercise, s.Tag, newID()))
	}
	return out
}

// newPlanExercise copies the presentation fields of a candidate into a new
// plan slot. Tags are copied so later edits never reach the pool.
func newPlanExercise(c models.Exercise, tag models.Tag, id uuid.UUID) models.PlanExercise {
	return models.PlanExercise{
		ID:        id,
		Name:      c.Name,
		Tags:      append([]models.Tag(nil), c.Tags...),
		Sets:      c.Sets,
		Reps:      c.Reps,
		Weight:    c.Weight,
		Rest:      c.Rest,
		SourceTag: tag,
	}
}
