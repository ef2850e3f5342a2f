package models

import "github.com/google/uuid"

// MaxRerollHistory bounds the per-slot list of recently shown names.
const MaxRerollHistory = 3

// GeneratedPlan is an ordered list of generated exercises plus pin flags.
// PinStatus only holds entries for IDs present in Exercises; a missing
// entry means unpinned.
type GeneratedPlan struct {
	Exercises   []PlanExercise     `json:"exercises"`
	PinStatus   map[uuid.UUID]bool `json:"pin_status"`
	IsGenerated bool               `json:"is_generated"`
}

// NewGeneratedPlan wraps freshly generated exercises with no pins.
func NewGeneratedPlan(exercises []PlanExercise) GeneratedPlan {
	return GeneratedPlan{
		Exercises:   exercises,
		PinStatus:   map[uuid.UUID]bool{},
		IsGenerated: true,
	}
}

// IsPinned reports whether the slot with the given ID is pinned.
func (p GeneratedPlan) IsPinned(id uuid.UUID) bool {
	return p.PinStatus[id]
}

// Index returns the position of the slot with the given ID, or -1.
func (p GeneratedPlan) Index(id uuid.UUID) int {
	for i, ex := range p.Exercises {
		if ex.ID == id {
			return i
		}
	}
	return -1
}

// AllPinned reports whether every slot is pinned. An empty plan is not
// considered fully pinned.
func (p GeneratedPlan) AllPinned() bool {
	if len(p.Exercises) == 0 {
		return false
	}
	for _, ex := range p.Exercises {
		if !p.PinStatus[ex.ID] {
			return false
		}
	}
	return true
}

// SetPinned returns a copy of the plan with the slot's pin flag set.
// Unknown IDs are ignored so PinStatus never references absent slots.
func (p GeneratedPlan) SetPinned(id uuid.UUID, pinned bool) GeneratedPlan {
	out := p.Clone()
	if out.Index(id) < 0 {
		return out
	}
	if pinned {
		out.PinStatus[id] = true
	} else {
		delete(out.PinStatus, id)
	}
	return out
}

// ReplaceSlot returns a copy of the plan with the slot oldID replaced by ex.
// The pin flag keyed by oldID is dropped, so a pinned slot becomes unpinned
// after a reroll.
func (p GeneratedPlan) ReplaceSlot(oldID uuid.UUID, ex PlanExercise) GeneratedPlan {
	out := p.Clone()
	i := out.Index(oldID)
	if i < 0 {
		return out
	}
	out.Exercises[i] = ex
	delete(out.PinStatus, oldID)
	return out
}

// Clone returns a deep copy of the plan. Pin entries for IDs that are not in
// Exercises are dropped.
func (p GeneratedPlan) Clone() GeneratedPlan {
	out := GeneratedPlan{
		Exercises:   make([]PlanExercise, len(p.Exercises)),
		PinStatus:   make(map[uuid.UUID]bool, len(p.PinStatus)),
		IsGenerated: p.IsGenerated,
	}
	for i, ex := range p.Exercises {
		ex.Tags = append([]Tag(nil), ex.Tags...)
		out.Exercises[i] = ex
	}
	for id, pinned := range p.PinStatus {
		if pinned && out.Index(id) >= 0 {
			out.PinStatus[id] = true
		}
	}
	return out
}

// RerollHistory holds, per slot ID, the names most recently shown in that
// slot (oldest first, at most MaxRerollHistory entries).
type RerollHistory map[uuid.UUID][]string

// Recent returns the remembered names for a slot.
func (h RerollHistory) Recent(id uuid.UUID) []string {
	return h[id]
}

// Advance returns a new history in which the list for oldID moves to newID
// with shown appended. The receiver is not modified.
func (h RerollHistory) Advance(oldID, newID uuid.UUID, shown string) RerollHistory {
	out := make(RerollHistory, len(h)+1)
	for id, names := range h {
		if id == oldID {
			continue
		}
		out[id] = append([]string(nil), names...)
	}
	names := append(append([]string(nil), h[oldID]...), shown)
	if len(names) > MaxRerollHistory {
		names = names[len(names)-MaxRerollHistory:]
	}
	out[newID] = names
	return out
}

// Prune returns a copy of the history without entries for slots that are no
// longer in the plan.
func (h RerollHistory) Prune(plan GeneratedPlan) RerollHistory {
	out := make(RerollHistory, len(h))
	for _, ex := range plan.Exercises {
		if names, ok := h[ex.ID]; ok {
			out[ex.ID] = append([]string(nil), names...)
		}
	}
	return out
}
