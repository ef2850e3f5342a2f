package library

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/claude/workoutgen/internal/models"
	"gopkg.in/yaml.v3"
)

// yamlFile is the on-disk shape of a YAML library:
//
//	exercises:
//	  - name: Bench Press
//	    tags: [Chest, Triceps]
//	    sets: "4"
//	    reps: "8-10"
type yamlFile struct {
	Exercises []yamlExercise `yaml:"exercises"`
}

type yamlExercise struct {
	Name      string   `yaml:"name"`
	Tags      []string `yaml:"tags"`
	Sets      string   `yaml:"sets"`
	Reps      string   `yaml:"reps"`
	Weight    string   `yaml:"weight"`
	Rest      string   `yaml:"rest"`
	Equipment string   `yaml:"equipment"`
	line      int
}

// UnmarshalYAML records the source line for skip reporting.
func (e *yamlExercise) UnmarshalYAML(node *yaml.Node) error {
	type plain yamlExercise
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*e = yamlExercise(p)
	e.line = node.Line
	return nil
}

// ParseYAML reads a YAML library. Entries with no name or no tags are
// skipped and reported.
func ParseYAML(r io.Reader) (*Library, error) {
	var file yamlFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing library: %w", err)
	}

	lib := &Library{}
	for _, e := range file.Exercises {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			lib.Skipped = append(lib.Skipped, SkippedRow{Line: e.line, Reason: "missing name"})
			continue
		}
		tags := normalizeTags(e.Tags)
		if len(tags) == 0 {
			lib.Skipped = append(lib.Skipped, SkippedRow{Line: e.line, Reason: fmt.Sprintf("%s has no muscle groups", name)})
			continue
		}
		lib.Exercises = append(lib.Exercises, models.Exercise{
			Name:      name,
			Tags:      tags,
			Sets:      e.Sets,
			Reps:      e.Reps,
			Weight:    e.Weight,
			Rest:      e.Rest,
			Equipment: strings.TrimSpace(e.Equipment),
		})
	}
	return lib, nil
}
