package library

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/claude/workoutgen/internal/models"
)

// columnAliases maps lowercased header names to canonical columns.
var columnAliases = map[string]string{
	"name":          "name",
	"exercise":      "name",
	"exercise name": "name",
	"tags":          "tags",
	"muscle groups": "tags",
	"muscle group":  "tags",
	"muscles":       "tags",
	"sets":          "sets",
	"reps":          "reps",
	"weight":        "weight",
	"load":          "weight",
	"rest":          "rest",
	"equipment":     "equipment",
}

// ParseCSV reads a header-first CSV library. The name and tags columns are
// required; sets, reps, weight, rest and equipment are optional. Rows with no
// name or no tags are skipped and reported.
func ParseCSV(r io.Reader) (*Library, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &Library{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if canonical, ok := columnAliases[key]; ok {
			if _, dup := cols[canonical]; !dup {
				cols[canonical] = i
			}
		}
	}
	for _, required := range []string{"name", "tags"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	lib := &Library{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		line, _ := reader.FieldPos(0)

		field := func(col string) string {
			i, ok := cols[col]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		if isBlank(record) {
			continue
		}

		name, equipment := field("name"), field("equipment")
		if equipment == "" {
			name, equipment = splitNameEquipment(name)
		}
		if name == "" {
			lib.Skipped = append(lib.Skipped, SkippedRow{Line: line, Reason: "missing name"})
			continue
		}
		tags := parseTags(field("tags"))
		if len(tags) == 0 {
			lib.Skipped = append(lib.Skipped, SkippedRow{Line: line, Reason: fmt.Sprintf("%s has no muscle groups", name)})
			continue
		}

		lib.Exercises = append(lib.Exercises, models.Exercise{
			Name:      name,
			Tags:      tags,
			Sets:      field("sets"),
			Reps:      field("reps"),
			Weight:    field("weight"),
			Rest:      field("rest"),
			Equipment: equipment,
		})
	}

	return lib, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
