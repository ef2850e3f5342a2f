// Package library loads exercise libraries from CSV and YAML files.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/claude/workoutgen/internal/models"
)

// SkippedRow records an input row that could not be turned into an exercise.
type SkippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Library is the result of parsing an exercise file.
type Library struct {
	Exercises []models.Exercise `json:"exercises"`
	Skipped   []SkippedRow      `json:"skipped,omitempty"`
}

// LoadFile parses the library at path, choosing the format by extension
// (.csv, .yaml or .yml).
func LoadFile(path string) (*Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening library: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return ParseCSV(f)
	case ".yaml", ".yml":
		return ParseYAML(f)
	default:
		return nil, fmt.Errorf("unsupported library format %q", ext)
	}
}

// parseTags splits a tag list on commas, semicolons or pipes and normalizes
// each entry. Blank and repeated entries are dropped.
func parseTags(s string) []models.Tag {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '|'
	})
	return normalizeTags(fields)
}

func normalizeTags(raw []string) []models.Tag {
	var tags []models.Tag
	seen := map[models.Tag]bool{}
	for _, f := range raw {
		tag, err := models.ParseTag(f)
		if err != nil || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// splitNameEquipment splits "Hack Squats · Machine" into name and equipment.
func splitNameEquipment(s string) (name, equipment string) {
	parts := strings.Split(s, " · ")
	if len(parts) >= 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[len(parts)-1])
	}
	return strings.TrimSpace(s), ""
}
