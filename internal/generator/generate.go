package generator

import (
	"fmt"

	"github.com/claude/workoutgen/internal/models"
)

// GenerateResult is the best-effort outcome of Generate. Errors holds one
// message per quota that could not be fully satisfied; the exercises that
// could be drawn are still returned.
type GenerateResult struct {
	Exercises []models.PlanExercise `json:"exercises"`
	Errors    []string              `json:"errors"`
}

// Generate draws a duplicate-free selection for request from pool.
//
// Quotas are processed in request order. Each tag's candidates are shuffled
// and taken front to back, skipping names already accepted for an earlier
// quota, until the count is met. The result is grouped by quota, then by
// draw order within the quota.
func (e *Engine) Generate(request []models.MuscleQuota, pool Pool) GenerateResult {
	var selections []Selection
	errs := []string{}
	used := map[string]bool{}

	for _, q := range request {
		if q.Count < 1 {
			errs = append(errs, fmt.Sprintf("quota must be at least 1 for tag %s", q.Tag))
			continue
		}

		candidates := pool[q.Tag]
		if len(candidates) == 0 {
			errs = append(errs, fmt.Sprintf("no exercises for tag %s", q.Tag))
			continue
		}

		taken := 0
		for _, c := range shuffle(e.rng, candidates) {
			if taken == q.Count {
				break
			}
			if used[c.Name] {
				continue
			}
			used[c.Name] = true
			selections = append(selections, Selection{Tag: q.Tag, Exercise: c})
			taken++
		}

		if taken < q.Count {
			e.log.Debug("quota shortfall", "tag", q.Tag, "need", q.Count, "have", taken)
			errs = append(errs, fmt.Sprintf("insufficient exercises for tag %s: need %d, have %d", q.Tag, q.Count, taken))
		}
	}

	return GenerateResult{
		Exercises: Assemble(selections, e.newID),
		Errors:    errs,
	}
}
