// Package mcp exposes the workout generator as Model Context Protocol tools.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(b Backend, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("workoutgen", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Workout generator. List muscle groups, check quotas, and generate duplicate-free workouts from the exercise library. Quotas are written as 'Tag:count' pairs separated by commas, e.g. 'Chest:2, Legs:3'."),
	)

	h := &handlers{b: b, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolListMuscleGroups, Handler: h.listMuscleGroups},
		server.ServerTool{Tool: toolValidateQuotas, Handler: h.validateQuotas},
		server.ServerTool{Tool: toolGenerateWorkout, Handler: h.generateWorkout},
		server.ServerTool{Tool: toolListQuotaTemplates, Handler: h.listQuotaTemplates},
		server.ServerTool{Tool: toolSaveQuotaTemplate, Handler: h.saveQuotaTemplate},
	)

	s.AddResources(
		server.ServerResource{Resource: resMuscleGroups, Handler: h.muscleGroups},
		server.ServerResource{Resource: resQuotaTemplates, Handler: h.quotaTemplates},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	b   Backend
	log *slog.Logger
}

var resMuscleGroups = mcp.NewResource(
	"workoutgen://muscle_groups",
	"Muscle Groups",
	mcp.WithResourceDescription("Every muscle group in the exercise library with its number of exercises"),
	mcp.WithMIMEType("application/json"),
)

var resQuotaTemplates = mcp.NewResource(
	"workoutgen://quota_templates",
	"Quota Templates",
	mcp.WithResourceDescription("Saved quota configurations, newest first"),
	mcp.WithMIMEType("application/json"),
)
