package models

import (
	"time"

	"github.com/google/uuid"
)

// Exercise is a candidate from the exercise library. Sets, reps, weight and
// rest are free-form presentation strings copied into generated plans.
type Exercise struct {
	Name      string `json:"name" yaml:"name"`
	Tags      []Tag  `json:"tags" yaml:"tags"`
	Sets      string `json:"sets" yaml:"sets"`
	Reps      string `json:"reps" yaml:"reps"`
	Weight    string `json:"weight" yaml:"weight"`
	Rest      string `json:"rest" yaml:"rest"`
	Equipment string `json:"equipment,omitempty" yaml:"equipment,omitempty"`
}

// HasTag reports whether the exercise carries tag.
func (e Exercise) HasTag(tag Tag) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// MuscleQuota requests Count exercises for one muscle group.
type MuscleQuota struct {
	Tag   Tag `json:"tag" yaml:"tag"`
	Count int `json:"count" yaml:"count"`
}

// PlanExercise is a generated instance of a candidate. It owns a fresh ID
// and may be edited independently of the library.
type PlanExercise struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Tags      []Tag     `json:"tags"`
	Sets      string    `json:"sets"`
	Reps      string    `json:"reps"`
	Weight    string    `json:"weight"`
	Rest      string    `json:"rest"`
	SourceTag Tag       `json:"source_tag"`
}

// QuotaTemplate is a named, reusable set of quotas.
type QuotaTemplate struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Quotas    []MuscleQuota `json:"quotas"`
	CreatedAt time.Time     `json:"created_at"`
}
