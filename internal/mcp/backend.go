package mcp

import (
	"context"

	"github.com/claude/workoutgen/internal/generator"
	"github.com/claude/workoutgen/internal/models"
	"github.com/claude/workoutgen/internal/workout"
)

// Backend abstracts the generator for MCP tools. Both *workout.Service
// (local) and HTTPClient (remote via REST API) satisfy this interface.
type Backend interface {
	ListMuscleGroups(ctx context.Context) ([]generator.TagCount, error)
	Validate(ctx context.Context, quotas []models.MuscleQuota) (generator.ValidationResult, error)
	Generate(ctx context.Context, quotas []models.MuscleQuota) (workout.GenerateResponse, error)
	ListTemplates(ctx context.Context) ([]models.QuotaTemplate, error)
	SaveTemplate(ctx context.Context, name string, quotas []models.MuscleQuota) (models.QuotaTemplate, error)
}

// Compile-time check: *workout.Service satisfies Backend.
var _ Backend = (*workout.Service)(nil)
