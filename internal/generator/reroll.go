package generator

import (
	"github.com/claude/workoutgen/internal/models"
	"github.com/google/uuid"
)

// RerollResult is the outcome of Reroll. Exercise is nil when the slot has
// no alternative; History is then returned unchanged.
type RerollResult struct {
	Exercise *models.PlanExercise `json:"exercise"`
	History  models.RerollHistory `json:"history"`
}

// Reroll draws a replacement for the slot slotID from the slot's source tag.
//
// The current name and every name used elsewhere in the plan are excluded.
// Names in the slot's history are excluded too, unless that would leave no
// candidate. The replacement gets a new ID; the returned history carries the
// slot's list over to that ID with the previous name appended. Neither plan
// nor history is modified.
func (e *Engine) Reroll(plan models.GeneratedPlan, slotID uuid.UUID, pool Pool, history models.RerollHistory) RerollResult {
	idx := plan.Index(slotID)
	if idx < 0 {
		return RerollResult{History: history}
	}
	current := plan.Exercises[idx]

	elsewhere := make(map[string]bool, len(plan.Exercises))
	for i, ex := range plan.Exercises {
		if i != idx {
			elsewhere[ex.Name] = true
		}
	}
	recent := make(map[string]bool, models.MaxRerollHistory)
	for _, name := range history.Recent(slotID) {
		recent[name] = true
	}

	var fresh, all []models.Exercise
	seen := map[string]bool{}
	for _, c := range pool[current.SourceTag] {
		if c.Name == current.Name || elsewhere[c.Name] || seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		all = append(all, c)
		if !recent[c.Name] {
			fresh = append(fresh, c)
		}
	}

	choices := fresh
	if len(choices) == 0 {
		choices = all
	}
	if len(choices) == 0 {
		e.log.Debug("reroll unavailable", "slot", slotID, "tag", current.SourceTag)
		return RerollResult{History: history}
	}

	pick := choices[e.rng.Intn(len(choices))]
	ex := newPlanExercise(pick, current.SourceTag, e.newID())
	return RerollResult{
		Exercise: &ex,
		History:  history.Advance(slotID, ex.ID, current.Name),
	}
}
