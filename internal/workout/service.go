// Package workout ties the exercise pool, the sampling engine and the
// template store together behind one context-aware API used by the HTTP
// server and the MCP tools.
package workout

import (
	"context"
	"log/slog"

	"github.com/claude/workoutgen/internal/generator"
	"github.com/claude/workoutgen/internal/models"
	"github.com/claude/workoutgen/internal/templates"
	"github.com/google/uuid"
)

// GenerateResponse is a fresh plan plus any quota shortfall messages.
type GenerateResponse struct {
	Plan   models.GeneratedPlan `json:"plan"`
	Errors []string             `json:"errors"`
}

// RerollRequest asks for a replacement of one slot.
type RerollRequest struct {
	Plan    models.GeneratedPlan `json:"plan"`
	SlotID  uuid.UUID            `json:"slot_id"`
	History models.RerollHistory `json:"history"`
}

// RerollResponse carries the replacement (nil when none exists), the
// updated history and the plan with the slot swapped in.
type RerollResponse struct {
	Exercise *models.PlanExercise `json:"exercise"`
	History  models.RerollHistory `json:"history"`
	Plan     models.GeneratedPlan `json:"plan"`
}

// Service runs generator operations against a fixed pool. It is safe for
// concurrent use when the engine's RNG is.
type Service struct {
	engine    *generator.Engine
	pool      generator.Pool
	templates *templates.Store
	log       *slog.Logger
}

// NewService creates a Service over library.
func NewService(engine *generator.Engine, library []models.Exercise, store *templates.Store, log *slog.Logger) *Service {
	pool := generator.BuildPool(library)
	log.Info("exercise pool built", "exercises", len(library), "tags", len(pool))
	return &Service{engine: engine, pool: pool, templates: store, log: log}
}

// ListMuscleGroups returns every tag in the pool with its candidate count.
func (s *Service) ListMuscleGroups(ctx context.Context) ([]generator.TagCount, error) {
	return s.pool.Tags(), nil
}

// Validate checks quotas against the pool.
func (s *Service) Validate(ctx context.Context, quotas []models.MuscleQuota) (generator.ValidationResult, error) {
	return generator.Validate(NormalizeQuotas(quotas), s.pool), nil
}

// Generate draws a new plan for quotas.
func (s *Service) Generate(ctx context.Context, quotas []models.MuscleQuota) (GenerateResponse, error) {
	res := s.engine.Generate(NormalizeQuotas(quotas), s.pool)
	return GenerateResponse{
		Plan:   models.NewGeneratedPlan(res.Exercises),
		Errors: res.Errors,
	}, nil
}

// Reroll replaces one slot of req.Plan.
func (s *Service) Reroll(ctx context.Context, req RerollRequest) (RerollResponse, error) {
	res := s.engine.Reroll(req.Plan, req.SlotID, s.pool, req.History)
	resp := RerollResponse{Exercise: res.Exercise, History: res.History, Plan: req.Plan}
	if res.Exercise != nil {
		resp.Plan = req.Plan.ReplaceSlot(req.SlotID, *res.Exercise)
		resp.History = resp.History.Prune(resp.Plan)
	}
	return resp, nil
}

// Regenerate resamples every unpinned slot of plan.
func (s *Service) Regenerate(ctx context.Context, plan models.GeneratedPlan) (generator.RegenerateResult, error) {
	res := s.engine.Regenerate(plan, s.pool)
	for _, w := range res.Warnings {
		s.log.Debug("regenerate", "warning", w)
	}
	return res, nil
}

// ListTemplates returns saved quota templates, newest first.
func (s *Service) ListTemplates(ctx context.Context) ([]models.QuotaTemplate, error) {
	return s.templates.List(ctx)
}

// SaveTemplate stores quotas under name.
func (s *Service) SaveTemplate(ctx context.Context, name string, quotas []models.MuscleQuota) (models.QuotaTemplate, error) {
	return s.templates.Save(ctx, name, NormalizeQuotas(quotas))
}

// DeleteTemplate removes a saved template.
func (s *Service) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return s.templates.Delete(ctx, id)
}

// NormalizeQuotas maps each quota's tag to its canonical form so aliases
// like "abs" match the pool. Unknown tags pass through trimmed.
func NormalizeQuotas(quotas []models.MuscleQuota) []models.MuscleQuota {
	out := make([]models.MuscleQuota, len(quotas))
	for i, q := range quotas {
		tag, _ := models.NormalizeTag(string(q.Tag))
		out[i] = models.MuscleQuota{Tag: tag, Count: q.Count}
	}
	return out
}
