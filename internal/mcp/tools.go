package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/claude/workoutgen/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// parseQuotas parses "Chest:2, Legs:3" into quotas. Tags are normalized;
// a missing count means 1.
func parseQuotas(s string) ([]models.MuscleQuota, error) {
	var quotas []models.MuscleQuota
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, countStr, hasCount := strings.Cut(part, ":")
		tag, err := models.ParseTag(name)
		if err != nil {
			return nil, fmt.Errorf("quota %q: %w", part, err)
		}
		count := 1
		if hasCount {
			count, err = strconv.Atoi(strings.TrimSpace(countStr))
			if err != nil {
				return nil, fmt.Errorf("quota %q: invalid count", part)
			}
		}
		quotas = append(quotas, models.MuscleQuota{Tag: tag, Count: count})
	}
	if len(quotas) == 0 {
		return nil, fmt.Errorf("no quotas given")
	}
	return quotas, nil
}

// --- Tool definitions ---

var toolListMuscleGroups = mcp.NewTool("list_muscle_groups",
	mcp.WithDescription("List every muscle group in the exercise library with the number of exercises tagged with it."),
)

var toolValidateQuotas = mcp.NewTool("validate_quotas",
	mcp.WithDescription("Check whether the library can satisfy a set of quotas without generating anything. Returns errors (unsatisfiable) and warnings (shared exercises)."),
	mcp.WithString("quotas", mcp.Required(), mcp.Description("Quotas as 'Tag:count' pairs, e.g. 'Chest:2, Legs:3'")),
)

var toolGenerateWorkout = mcp.NewTool("generate_workout",
	mcp.WithDescription("Generate a workout with the requested number of exercises per muscle group. No exercise appears twice. Shortfalls are reported alongside the partial plan."),
	mcp.WithString("quotas", mcp.Description("Quotas as 'Tag:count' pairs, e.g. 'Chest:2, Legs:3'")),
	mcp.WithString("template", mcp.Description("Name of a saved quota template to use instead of quotas")),
)

var toolListQuotaTemplates = mcp.NewTool("list_quota_templates",
	mcp.WithDescription("List saved quota templates, newest first."),
)

var toolSaveQuotaTemplate = mcp.NewTool("save_quota_template",
	mcp.WithDescription("Save a quota configuration under a name for reuse."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Template name, 1 to 50 characters")),
	mcp.WithString("quotas", mcp.Required(), mcp.Description("Quotas as 'Tag:count' pairs, e.g. 'Chest:2, Legs:3'")),
)

// --- Tool handlers ---

func (h *handlers) listMuscleGroups(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags, err := h.b.ListMuscleGroups(ctx)
	if err != nil {
		h.log.Error("mcp list_muscle_groups", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(tags)
}

func (h *handlers) validateQuotas(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("quotas")
	if err != nil {
		return mcp.NewToolResultError("quotas parameter is required"), nil
	}
	quotas, err := parseQuotas(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := h.b.Validate(ctx, quotas)
	if err != nil {
		h.log.Error("mcp validate_quotas", "error", err)
		return mcp.NewToolResultError("validation failed: " + err.Error()), nil
	}
	return jsonResult(result)
}

func (h *handlers) generateWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	quotas, errResult := h.resolveQuotas(ctx, req.GetString("quotas", ""), req.GetString("template", ""))
	if errResult != nil {
		return errResult, nil
	}

	resp, err := h.b.Generate(ctx, quotas)
	if err != nil {
		h.log.Error("mcp generate_workout", "error", err)
		return mcp.NewToolResultError("generation failed: " + err.Error()), nil
	}
	return jsonResult(resp)
}

func (h *handlers) listQuotaTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := h.b.ListTemplates(ctx)
	if err != nil {
		h.log.Error("mcp list_quota_templates", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if list == nil {
		list = []models.QuotaTemplate{}
	}
	return jsonResult(list)
}

func (h *handlers) saveQuotaTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}
	raw, err := req.RequireString("quotas")
	if err != nil {
		return mcp.NewToolResultError("quotas parameter is required"), nil
	}
	quotas, err := parseQuotas(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tmpl, err := h.b.SaveTemplate(ctx, name, quotas)
	if err != nil {
		h.log.Warn("mcp save_quota_template", "error", err)
		return mcp.NewToolResultError("save failed: " + err.Error()), nil
	}
	return jsonResult(tmpl)
}

// resolveQuotas takes quotas from the raw "Tag:count" string, or from the saved template
// with the given name when template is set.
func (h *handlers) resolveQuotas(ctx context.Context, raw, template string) ([]models.MuscleQuota, *mcp.CallToolResult) {
	if template == "" {
		if raw == "" {
			return nil, mcp.NewToolResultError("either quotas or template is required")
		}
		quotas, err := parseQuotas(raw)
		if err != nil {
			return nil, mcp.NewToolResultError(err.Error())
		}
		return quotas, nil
	}

	list, err := h.b.ListTemplates(ctx)
	if err != nil {
		h.log.Error("mcp template lookup", "error", err)
		return nil, mcp.NewToolResultError("template lookup failed: " + err.Error())
	}
	for _, t := range list {
		if strings.EqualFold(t.Name, strings.TrimSpace(template)) {
			return t.Quotas, nil
		}
	}
	return nil, mcp.NewToolResultError(fmt.Sprintf("no template named %q", template))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
