package generator

import (
	"testing"

	"github.com/claude/workoutgen/internal/models"
)

// TestValidate covers each issue kind and the Valid flag.
func TestValidate(t *testing.T) {
	pool := samplePool()

	tests := []struct {
		name      string
		request   []models.MuscleQuota
		wantValid bool
		wantKinds []IssueKind
		wantMsg   string
	}{
		{
			name:      "satisfiable",
			request:   []models.MuscleQuota{{Tag: models.TagChest, Count: 2}, {Tag: models.TagLegs, Count: 1}},
			wantValid: true,
		},
		{
			name:      "missing tag",
			request:   []models.MuscleQuota{{Tag: models.TagBack, Count: 1}},
			wantKinds: []IssueKind{IssueNoExercises},
			wantMsg:   "no exercises for tag Back",
		},
		{
			name:      "insufficient",
			request:   []models.MuscleQuota{{Tag: models.TagLegs, Count: 3}},
			wantKinds: []IssueKind{IssueInsufficient},
			wantMsg:   "insufficient exercises for tag Legs: need 3, have 2",
		},
		{
			name:      "duplicate tag",
			request:   []models.MuscleQuota{{Tag: models.TagChest, Count: 1}, {Tag: models.TagChest, Count: 1}},
			wantKinds: []IssueKind{IssueDuplicateTag},
			wantMsg:   "duplicate tag in request: Chest",
		},
		{
			name:      "zero count",
			request:   []models.MuscleQuota{{Tag: models.TagChest, Count: 0}},
			wantKinds: []IssueKind{IssueInvalidCount},
			wantMsg:   "quota must be at least 1",
		},
		{
			name: "several issues",
			request: []models.MuscleQuota{
				{Tag: models.TagBack, Count: 1},
				{Tag: models.TagLegs, Count: 5},
				{Tag: models.TagLegs, Count: 1},
			},
			wantKinds: []IssueKind{IssueNoExercises, IssueInsufficient, IssueDuplicateTag},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.request, pool)
			if res.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v (issues %+v)", res.Valid, tt.wantValid, res.Issues)
			}
			if len(res.Issues) != len(tt.wantKinds) {
				t.Fatalf("issues = %+v, want kinds %v", res.Issues, tt.wantKinds)
			}
			for i, kind := range tt.wantKinds {
				if res.Issues[i].Kind != kind {
					t.Errorf("issue[%d].Kind = %q, want %q", i, res.Issues[i].Kind, kind)
				}
				if res.Issues[i].Severity != SeverityError {
					t.Errorf("issue[%d].Severity = %q, want error", i, res.Issues[i].Severity)
				}
			}
			if tt.wantMsg != "" && res.Issues[0].Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", res.Issues[0].Message, tt.wantMsg)
			}
		})
	}
}

// TestValidateSharedCandidatesWarning verifies that overlapping tags which
// cannot all be satisfied without repeats produce a warning that does not
// invalidate the request.
func TestValidateSharedCandidatesWarning(t *testing.T) {
	pool := BuildPool([]models.Exercise{
		ex("Bench", models.TagChest, models.TagTriceps),
		ex("Dip", models.TagChest, models.TagTriceps),
	})
	res := Validate([]models.MuscleQuota{
		{Tag: models.TagChest, Count: 2},
		{Tag: models.TagTriceps, Count: 1},
	}, pool)

	if !res.Valid {
		t.Errorf("Valid = false, want true")
	}
	if len(res.Issues) != 1 || res.Issues[0].Kind != IssueSharedCandidates {
		t.Fatalf("issues = %+v, want one shared_candidates warning", res.Issues)
	}
	if res.Issues[0].Severity != SeverityWarning {
		t.Errorf("severity = %q, want warning", res.Issues[0].Severity)
	}
}

// TestValidateDoesNotMutateRequest verifies the validator is read-only.
func TestValidateDoesNotMutateRequest(t *testing.T) {
	req := []models.MuscleQuota{{Tag: models.TagLegs, Count: 9}}
	Validate(req, samplePool())
	if req[0].Count != 9 || req[0].Tag != models.TagLegs {
		t.Errorf("request mutated: %+v", req)
	}
}
