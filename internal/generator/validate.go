package generator

import (
	"fmt"

	"github.com/claude/workoutgen/internal/models"
)

// Severity of a validation issue. Only errors make a request invalid.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// IssueKind identifies what a validation issue is about.
type IssueKind string

const (
	IssueNoExercises      IssueKind = "no_exercises"
	IssueInsufficient     IssueKind = "insufficient"
	IssueDuplicateTag     IssueKind = "duplicate_tag"
	IssueInvalidCount     IssueKind = "invalid_count"
	IssueSharedCandidates IssueKind = "shared_candidates"
)

// Issue is a single finding about a generation request.
type Issue struct {
	Kind     IssueKind  `json:"kind"`
	Severity Severity   `json:"severity"`
	Tag      models.Tag `json:"tag,omitempty"`
	Message  string     `json:"message"`
}

// ValidationResult is the outcome of Validate. Valid is true iff no issue
// has SeverityError.
type ValidationResult struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
}

// Validate checks request against pool availability. It is advisory: the
// caller decides whether to block generation, and request is not modified.
func Validate(request []models.MuscleQuota, pool Pool) ValidationResult {
	issues := []Issue{}
	seen := make(map[models.Tag]bool, len(request))

	needed := 0
	names := map[string]bool{}

	for _, q := range request {
		if seen[q.Tag] {
			issues = append(issues, Issue{
				Kind:     IssueDuplicateTag,
				Severity: SeverityError,
				Tag:      q.Tag,
				Message:  fmt.Sprintf("duplicate tag in request: %s", q.Tag),
			})
			continue
		}
		seen[q.Tag] = true

		if q.Count < 1 {
			issues = append(issues, Issue{
				Kind:     IssueInvalidCount,
				Severity: SeverityError,
				Tag:      q.Tag,
				Message:  "quota must be at least 1",
			})
			continue
		}

		have := pool.Count(q.Tag)
		switch {
		case have == 0:
			issues = append(issues, Issue{
				Kind:     IssueNoExercises,
				Severity: SeverityError,
				Tag:      q.Tag,
				Message:  fmt.Sprintf("no exercises for tag %s", q.Tag),
			})
		case have < q.Count:
			issues = append(issues, Issue{
				Kind:     IssueInsufficient,
				Severity: SeverityError,
				Tag:      q.Tag,
				Message:  fmt.Sprintf("insufficient exercises for tag %s: need %d, have %d", q.Tag, q.Count, have),
			})
		}

		needed += min(q.Count, have)
		for _, ex := range pool[q.Tag] {
			names[ex.Name] = true
		}
	}

	// Per-tag checks pass but exercises tagged with several requested
	// groups can only be used once in the plan.
	if needed > len(names) {
		issues = append(issues, Issue{
			Kind:     IssueSharedCandidates,
			Severity: SeverityWarning,
			Message: fmt.Sprintf("requested %d exercises but only %d distinct exercises exist across the selected tags",
				needed, len(names)),
		})
	}

	valid := true
	for _, is := range issues {
		if is.Severity == SeverityError {
			valid = false
			break
		}
	}
	return ValidationResult{Valid: valid, Issues: issues}
}
