// Package generator builds workout plans from muscle-group quotas by
// sampling a tag-indexed exercise pool without replacement, and mutates
// generated plans through single-slot rerolls and pin-preserving
// regeneration.
//
// Every operation is a synchronous call over caller-owned values. The only
// state an Engine holds is its random source and logger.
package generator

import (
	"log/slog"

	"github.com/google/uuid"
)

// Engine runs the sampling operations with an injected random source.
type Engine struct {
	rng   RNG
	newID func() uuid.UUID
	log   *slog.Logger
}

// NewEngine creates an Engine drawing from rng.
func NewEngine(rng RNG, log *slog.Logger) *Engine {
	return &Engine{rng: rng, newID: uuid.New, log: log}
}
