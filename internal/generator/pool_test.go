package generator

import (
	"io"
	"log/slog"
	"reflect"
	"sort"
	"testing"

	"github.com/claude/workoutgen/internal/models"
)

func newTestEngine(seed int64) *Engine {
	return NewEngine(NewRand(seed), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func ex(name string, tags ...models.Tag) models.Exercise {
	return models.Exercise{Name: name, Tags: tags, Sets: "3", Reps: "10", Weight: "20kg", Rest: "60s"}
}

// samplePool is the chest/legs pool used across the engine tests.
func samplePool() Pool {
	return BuildPool([]models.Exercise{
		ex("Bench", models.TagChest),
		ex("Incline", models.TagChest),
		ex("Fly", models.TagChest),
		ex("Squat", models.TagLegs),
		ex("Lunge", models.TagLegs),
	})
}

// TestBuildPoolIndexesEveryTag verifies that a multi-tag exercise appears in
// each of its tags' lists and that every candidate carries the list's tag.
func TestBuildPoolIndexesEveryTag(t *testing.T) {
	pool := BuildPool([]models.Exercise{
		ex("Bench", models.TagChest, models.TagTriceps),
		ex("Dip", models.TagTriceps, models.TagChest, models.TagTriceps),
		ex("Curl", models.TagBiceps),
	})

	if got := pool.Names(models.TagChest); !reflect.DeepEqual(got, []string{"Bench", "Dip"}) {
		t.Errorf("Chest = %v, want [Bench Dip]", got)
	}
	// Dip lists Triceps twice but is indexed once.
	if got := pool.Names(models.TagTriceps); !reflect.DeepEqual(got, []string{"Bench", "Dip"}) {
		t.Errorf("Triceps = %v, want [Bench Dip]", got)
	}
	for tag, candidates := range pool {
		for _, c := range candidates {
			if !c.HasTag(tag) {
				t.Errorf("candidate %q in pool[%s] lacks the tag", c.Name, tag)
			}
		}
	}
}

// TestBuildPoolEmpty verifies that an empty library yields an empty pool.
func TestBuildPoolEmpty(t *testing.T) {
	pool := BuildPool(nil)
	if len(pool) != 0 {
		t.Errorf("len(pool) = %d, want 0", len(pool))
	}
	if pool.Count(models.TagChest) != 0 {
		t.Error("expected zero candidates for missing tag")
	}
}

// TestBuildPoolIdempotent verifies that building twice from the same library
// produces the same tag to name sets.
func TestBuildPoolIdempotent(t *testing.T) {
	lib := []models.Exercise{
		ex("Bench", models.TagChest, models.TagTriceps),
		ex("Squat", models.TagLegs, models.TagGlutes),
		ex("Row", models.TagBack),
	}
	a, b := BuildPool(lib), BuildPool(lib)
	if len(a) != len(b) {
		t.Fatalf("tag counts differ: %d vs %d", len(a), len(b))
	}
	for tag := range a {
		an, bn := a.Names(tag), b.Names(tag)
		sort.Strings(an)
		sort.Strings(bn)
		if !reflect.DeepEqual(an, bn) {
			t.Errorf("pool[%s] = %v vs %v", tag, an, bn)
		}
	}
}

// TestPoolTagsSorted verifies the tag listing used by the pool endpoint.
func TestPoolTagsSorted(t *testing.T) {
	tags := samplePool().Tags()
	want := []TagCount{{Tag: models.TagChest, Count: 3}, {Tag: models.TagLegs, Count: 2}}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("Tags() = %v, want %v", tags, want)
	}
}
