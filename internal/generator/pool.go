package generator

import (
	"sort"

	"github.com/claude/workoutgen/internal/models"
)

// Pool indexes candidate exercises by muscle-group tag. Every candidate in
// pool[tag] carries tag. A Pool is read-only once built.
type Pool map[models.Tag][]models.Exercise

// TagCount is a tag with the number of candidates it has.
type TagCount struct {
	Tag   models.Tag `json:"tag"`
	Count int        `json:"count"`
}

// BuildPool indexes library by tag. An exercise is listed once per distinct
// tag it carries, in library order.
func BuildPool(library []models.Exercise) Pool {
	pool := make(Pool)
	for _, ex := range library {
		seen := make(map[models.Tag]bool, len(ex.Tags))
		for _, tag := range ex.Tags {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			pool[tag] = append(pool[tag], ex)
		}
	}
	return pool
}

// Count returns the number of candidates for tag.
func (p Pool) Count(tag models.Tag) int {
	return len(p[tag])
}

// Names returns the candidate names for tag in pool order.
func (p Pool) Names(tag models.Tag) []string {
	names := make([]string, 0, len(p[tag]))
	for _, ex := range p[tag] {
		names = append(names, ex.Name)
	}
	return names
}

// Tags returns every tag with its candidate count, sorted by tag name.
func (p Pool) Tags() []TagCount {
	out := make([]TagCount, 0, len(p))
	for tag, candidates := range p {
		out = append(out, TagCount{Tag: tag, Count: len(candidates)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}
