package generator

import (
	"fmt"

	"github.com/claude/workoutgen/internal/models"
)

// RegenerateResult is the outcome of Regenerate.
type RegenerateResult struct {
	Plan     models.GeneratedPlan `json:"plan"`
	Warnings []string             `json:"warnings"`
}

// Regenerate resamples every unpinned slot of plan and keeps pinned slots
// exactly as they are.
//
// Each unpinned slot draws one exercise from its source tag. Pinned names are
// never drawn, and no two unpinned slots share a name whenever the pool
// allows it: slots are matched to shuffled candidates so that a slot with a
// single option is not starved by an earlier slot. A slot that cannot be
// matched keeps its exercise, adds a warning, and its name is withheld from
// the others. Replaced slots get new IDs, so their pin entries and any
// reroll history keyed by the old ID no longer apply.
func (e *Engine) Regenerate(plan models.GeneratedPlan, pool Pool) RegenerateResult {
	out := plan.Clone()
	warnings := []string{}
	if out.AllPinned() {
		return RegenerateResult{Plan: out, Warnings: warnings}
	}

	reserved := make(map[string]bool, len(out.Exercises))
	var open []int
	for i, ex := range out.Exercises {
		if out.IsPinned(ex.ID) {
			reserved[ex.Name] = true
		} else {
			open = append(open, i)
		}
	}

	candidates := make([][]models.Exercise, len(open))
	for k, i := range open {
		candidates[k] = shuffle(e.rng, pool[out.Exercises[i].SourceTag])
	}

	// Kept names are withheld and the matching is redone until every
	// unmatched slot's name is reserved.
	kept := make([]bool, len(open))
	var picks []int
	for {
		picks = matchDistinct(candidates, kept, reserved)
		changed := false
		for k, pick := range picks {
			if pick < 0 && !kept[k] {
				kept[k] = true
				reserved[out.Exercises[open[k]].Name] = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	for k, i := range open {
		ex := out.Exercises[i]
		if kept[k] {
			e.log.Debug("regenerate: slot kept", "slot", ex.ID, "tag", ex.SourceTag)
			warnings = append(warnings, fmt.Sprintf("no alternative for %s (tag %s), kept current exercise", ex.Name, ex.SourceTag))
			continue
		}
		out.Exercises[i] = newPlanExercise(candidates[k][picks[k]], ex.SourceTag, e.newID())
		delete(out.PinStatus, ex.ID)
	}

	return RegenerateResult{Plan: out, Warnings: warnings}
}

// matchDistinct assigns each slot not marked skip a candidate whose name is
// neither reserved nor used by another slot, matching as many slots as
// possible (augmenting paths). The result holds, per slot, the index of the
// chosen candidate or -1.
func matchDistinct(candidates [][]models.Exercise, skip []bool, reserved map[string]bool) []int {
	picks := make([]int, len(candidates))
	for k := range picks {
		picks[k] = -1
	}
	owner := map[string]int{}

	var augment func(k int, visited map[string]bool) bool
	augment = func(k int, visited map[string]bool) bool {
		for c, ex := range candidates[k] {
			if reserved[ex.Name] || visited[ex.Name] {
				continue
			}
			visited[ex.Name] = true
			holder, held := owner[ex.Name]
			if !held || augment(holder, visited) {
				owner[ex.Name] = k
				picks[k] = c
				return true
			}
		}
		return false
	}

	for k := range candidates {
		if !skip[k] {
			augment(k, map[string]bool{})
		}
	}
	return picks
}
