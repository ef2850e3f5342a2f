package library

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/claude/workoutgen/internal/models"
)

const sampleCSV = `Name,Muscle Groups,Sets,Reps,Weight,Rest,Equipment
Bench Press,Chest;Triceps,4,8-10,80kg,90s,Barbell
Hack Squats · Machine,quads | glutes,3,12,,60s,
,Chest,3,10,,,
Plank,,3,60s,,,
Row,lats,3,10,50kg,60s,Cable
`

// TestParseCSV verifies header mapping, tag normalization and skip reporting.
func TestParseCSV(t *testing.T) {
	lib, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(lib.Exercises) != 3 {
		t.Fatalf("len(Exercises) = %d, want 3", len(lib.Exercises))
	}

	bench := lib.Exercises[0]
	if bench.Name != "Bench Press" || bench.Sets != "4" || bench.Reps != "8-10" || bench.Weight != "80kg" || bench.Rest != "90s" || bench.Equipment != "Barbell" {
		t.Errorf("bench = %+v", bench)
	}
	if len(bench.Tags) != 2 || bench.Tags[0] != models.TagChest || bench.Tags[1] != models.TagTriceps {
		t.Errorf("bench tags = %v", bench.Tags)
	}

	hack := lib.Exercises[1]
	if hack.Name != "Hack Squats" || hack.Equipment != "Machine" {
		t.Errorf("hack name/equipment = %q / %q", hack.Name, hack.Equipment)
	}
	if len(hack.Tags) != 2 || hack.Tags[0] != models.TagQuads || hack.Tags[1] != models.TagGlutes {
		t.Errorf("hack tags = %v", hack.Tags)
	}

	if lib.Exercises[2].Tags[0] != models.TagBack {
		t.Errorf("row tag = %v, want Back", lib.Exercises[2].Tags)
	}

	if len(lib.Skipped) != 2 {
		t.Fatalf("len(Skipped) = %d, want 2: %+v", len(lib.Skipped), lib.Skipped)
	}
	if lib.Skipped[0].Line != 4 || lib.Skipped[0].Reason != "missing name" {
		t.Errorf("skipped[0] = %+v", lib.Skipped[0])
	}
	if lib.Skipped[1].Line != 5 || !strings.Contains(lib.Skipped[1].Reason, "Plank") {
		t.Errorf("skipped[1] = %+v", lib.Skipped[1])
	}
}

// TestParseCSVMissingColumn verifies the name and tags columns are required.
func TestParseCSVMissingColumn(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("Name,Sets\nBench,3\n"))
	if err == nil || !strings.Contains(err.Error(), `"tags"`) {
		t.Errorf("error = %v, want missing tags column", err)
	}
}

// TestParseCSVEmpty verifies an empty file yields an empty library.
func TestParseCSVEmpty(t *testing.T) {
	lib, err := ParseCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(lib.Exercises) != 0 {
		t.Errorf("len(Exercises) = %d, want 0", len(lib.Exercises))
	}
}

const sampleYAML = `exercises:
  - name: Bench Press
    tags: [Chest, triceps, chest]
    sets: "4"
    reps: "8-10"
  - name: Mystery
    tags: [" "]
  - name: Deadlift
    tags: [back, hamstrings]
    equipment: " Barbell "
`

// TestParseYAML verifies tag dedup and the skipped-entry line number.
func TestParseYAML(t *testing.T) {
	lib, err := ParseYAML(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	if len(lib.Exercises) != 2 {
		t.Fatalf("len(Exercises) = %d, want 2", len(lib.Exercises))
	}
	if got := lib.Exercises[0].Tags; len(got) != 2 || got[0] != models.TagChest || got[1] != models.TagTriceps {
		t.Errorf("bench tags = %v", got)
	}
	if lib.Exercises[1].Equipment != "Barbell" {
		t.Errorf("equipment = %q, want trimmed", lib.Exercises[1].Equipment)
	}
	if len(lib.Skipped) != 1 || lib.Skipped[0].Line != 6 {
		t.Errorf("skipped = %+v, want one entry at line 6", lib.Skipped)
	}
}

// TestParseYAMLInvalid verifies malformed documents are rejected.
func TestParseYAMLInvalid(t *testing.T) {
	if _, err := ParseYAML(strings.NewReader("exercises: [\n")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

// TestLoadFile verifies the format is chosen by extension.
func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	lib, err := LoadFile(write("lib.csv", sampleCSV))
	if err != nil || len(lib.Exercises) != 3 {
		t.Errorf("csv: lib=%v err=%v", lib, err)
	}
	lib, err = LoadFile(write("lib.yml", sampleYAML))
	if err != nil || len(lib.Exercises) != 2 {
		t.Errorf("yaml: lib=%v err=%v", lib, err)
	}
	if _, err := LoadFile(write("lib.txt", "x")); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if _, err := LoadFile(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}
