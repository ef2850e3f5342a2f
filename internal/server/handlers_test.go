package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/claude/workoutgen/internal/generator"
	"github.com/claude/workoutgen/internal/models"
	"github.com/claude/workoutgen/internal/storage"
	"github.com/claude/workoutgen/internal/templates"
	"github.com/claude/workoutgen/internal/workout"
	"github.com/google/uuid"
	"tailscale.com/client/tailscale/apitype"
	"tailscale.com/tailcfg"
)

const testAPIKey = "test-key"

func testLibrary() []models.Exercise {
	mk := func(name string, tags ...models.Tag) models.Exercise {
		return models.Exercise{Name: name, Tags: tags, Sets: "3", Reps: "10"}
	}
	return []models.Exercise{
		mk("Bench Press", models.TagChest, models.TagTriceps),
		mk("Incline Press", models.TagChest),
		mk("Cable Fly", models.TagChest),
		mk("Squat", models.TagLegs),
		mk("Lunge", models.TagLegs),
	}
}

type fakeImports struct{ limit int }

func (f *fakeImports) QueryImportLogs(ctx context.Context, limit int) ([]storage.ImportLog, error) {
	f.limit = limit
	return []storage.ImportLog{{ID: 1, Source: "exercises.csv", Status: "success"}}, nil
}

func newTestServer(t *testing.T, backend templates.Backend, imports ImportLogSource) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := generator.NewEngine(generator.NewLockedRand(generator.NewRand(1)), log)
	svc := workout.NewService(engine, testLibrary(), templates.NewStore(backend), log)
	return New(svc, imports, testAPIKey, log)
}

func do(t *testing.T, s *Server, method, path string, body any, apiKey string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return v
}

// TestHandleMeDefault verifies /api/v1/me returns the local identity when
// no Tailscale client is configured.
func TestHandleMeDefault(t *testing.T) {
	s := newTestServer(t, &templates.MemoryBackend{}, nil)
	rec := do(t, s, http.MethodGet, "/api/v1/me", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if info := decode[UserInfo](t, rec); info.Login != "local" {
		t.Errorf("login = %q, want %q", info.Login, "local")
	}
}

// TestHandleMeTailscale verifies that identity installed after New is used:
// a known tailnet peer is reported and an unknown one is rejected.
func TestHandleMeTailscale(t *testing.T) {
	s := newTestServer(t, &templates.MemoryBackend{}, nil)
	s.SetTailscale(fakeWhoIs{resp: &apitype.WhoIsResponse{
		UserProfile: &tailcfg.UserProfile{LoginName: "alice@example.com", DisplayName: "Alice"},
	}})
	rec := do(t, s, http.MethodGet, "/api/v1/me", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if info := decode[UserInfo](t, rec); info.Login != "alice@example.com" {
		t.Errorf("login = %q, want %q", info.Login, "alice@example.com")
	}

	s = newTestServer(t, &templates.MemoryBackend{}, nil)
	s.SetTailscale(fakeWhoIs{err: errors.New("no match for IP:port")})
	rec = do(t, s, http.MethodGet, "/api/v1/me", nil, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unknown peer: status = %d, want 401", rec.Code)
	}
}

// TestHandlePool verifies the pool endpoint lists tags with counts, sorted.
func TestHandlePool(t *testing.T) {
	s := newTestServer(t, &templates.MemoryBackend{}, nil)
	rec := do(t, s, http.MethodGet, "/api/v1/pool", nil, "")
	tags := decode[[]generator.TagCount](t, rec)

	want := []generator.TagCount{
		{Tag: models.TagChest, Count: 3},
		{Tag: models.TagLegs, Count: 2},
		{Tag: models.TagTriceps, Count: 1},
	}
	if len(tags) != len(want) {
		t.Fatalf("tags = %+v, want %+v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags[%d] = %+v, want %+v", i, tags[i], want[i])
		}
	}
}

// TestHandleValidate verifies insufficient quotas are reported as invalid.
func TestHandleValidate(t *testing.T) {
	s := newTestServer(t, &templates.MemoryBackend{}, nil)
	rec := do(t, s, http.MethodPost, "/api/v1/validate", map[string]any{
		"quotas": []models.MuscleQuota{{Tag: models.TagLegs, Count: 3}},
	}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	result := decode[generator.ValidationResult](t, rec)
	if result.Valid {
		t.Error("valid = true, want false")
	}
	if len(result.Issues) != 1 || result.Issues[0].Kind != generator.IssueInsufficient {
		t.Errorf("issues = %+v", result.Issues)
	}
}

// TestHandleGenerate verifies a generated plan satisfies the quotas with
// unique names and no pins.
func TestHandleGenerate(t *testing.T) {
	s := newTestServer(t, &templates.MemoryBackend{}, nil)
	rec := do(t, s, http.MethodPost, "/api/v1/generate", map[string]any{
		"quotas": []models.MuscleQuota{{Tag: "chest", Count: 2}, {Tag: models.TagLegs, Count: 2}},
	}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decode[workout.GenerateResponse](t, rec)
	if len(resp.Plan.Exercises) != 4 {
		t.Fatalf("len(exercises) = %d, want 4", len(resp.Plan.Exercises))
	}
	seen := map[string]bool{}
	for _, ex := range resp.Plan.Exercises {
		if seen[ex.Name] {
			t.Errorf("duplicate exercise %q", ex.Name)
		}
		seen[ex.Name] = true
	}
	if !resp.Plan.IsGenerated || len(resp.Plan.PinStatus) != 0 {
		t.Errorf("plan flags: generated=%v pins=%v", resp.Plan.IsGenerated, resp.Plan.PinStatus)
	}
	if len(resp.Errors) != 0 {
		t.Errorf("errors = %v, want none", resp.Errors)
	}
}

// TestHandleGenerateBadRequest verifies malformed or empty requests get 400.
func TestHandleGenerateBadRequest(t *testing.T) {
	s := newTestServer(t, &templates.MemoryBackend{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed: status = %d, want 400", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/generate", map[string]any{"quotas": []any{}}, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty quotas: status = %d, want 400", rec.Code)
	}
}

// TestHandleRerollAndRegenerate walks a plan through reroll then
// regenerate with one slot pinned.
func TestHandleRerollAndRegenerate(t *testing.T) {
	s := newTestServer(t, &templates.MemoryBackend{}, nil)
	gen := decode[workout.GenerateResponse](t, do(t, s, http.MethodPost, "/api/v1/generate", map[string]any{
		"quotas": []models.MuscleQuota{{Tag: models.TagChest, Count: 1}, {Tag: models.TagLegs, Count: 1}},
	}, ""))

	slot := gen.Plan.Exercises[0]
	rec := do(t, s, http.MethodPost, "/api/v1/reroll", workout.RerollRequest{Plan: gen.Plan, SlotID: slot.ID}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reroll status = %d, want 200", rec.Code)
	}
	rr := decode[workout.RerollResponse](t, rec)
	if rr.Exercise == nil || rr.Exercise.Name == slot.Name {
		t.Fatalf("reroll exercise = %+v, want a different chest exercise", rr.Exercise)
	}
	if rr.Plan.Exercises[0].ID != rr.Exercise.ID {
		t.Error("rerolled plan does not contain the replacement")
	}

	legs := rr.Plan.Exercises[1]
	pinned := rr.Plan.SetPinned(legs.ID, true)
	rec = do(t, s, http.MethodPost, "/api/v1/regenerate", map[string]any{"plan": pinned}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("regenerate status = %d, want 200", rec.Code)
	}
	regen := decode[generator.RegenerateResult](t, rec)
	if got := regen.Plan.Exercises[1]; got.ID != legs.ID || got.Name != legs.Name {
		t.Errorf("pinned slot changed: %+v", got)
	}
	if !regen.Plan.IsPinned(legs.ID) {
		t.Error("pin lost on regenerate")
	}
}

// TestHandleRerollUnknownSlot verifies a slot id outside the plan gets 404.
func TestHandleRerollUnknownSlot(t *testing.T) {
	s := newTestServer(t, &templates.MemoryBackend{}, nil)
	rec := do(t, s, http.MethodPost, "/api/v1/reroll", workout.RerollRequest{
		Plan:   models.NewGeneratedPlan(nil),
		SlotID: uuid.New(),
	}, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// TestTemplateEndpoints covers save, list and delete through HTTP,
// including the API key requirement on writes.
func TestTemplateEndpoints(t *testing.T) {
	s := newTestServer(t, &templates.MemoryBackend{}, nil)
	body := map[string]any{
		"name":   "Push",
		"quotas": []models.MuscleQuota{{Tag: models.TagChest, Count: 2}},
	}

	if rec := do(t, s, http.MethodPost, "/api/v1/templates", body, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("no key: status = %d, want 401", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/v1/templates", body, "wrong"); rec.Code != http.StatusForbidden {
		t.Errorf("wrong key: status = %d, want 403", rec.Code)
	}

	rec := do(t, s, http.MethodPost, "/api/v1/templates", body, testAPIKey)
	if rec.Code != http.StatusCreated {
		t.Fatalf("save status = %d, want 201", rec.Code)
	}
	saved := decode[models.QuotaTemplate](t, rec)

	list := decode[[]models.QuotaTemplate](t, do(t, s, http.MethodGet, "/api/v1/templates", nil, ""))
	if len(list) != 1 || list[0].ID != saved.ID {
		t.Errorf("list = %+v", list)
	}

	if rec := do(t, s, http.MethodDelete, "/api/v1/templates/"+saved.ID.String(), nil, testAPIKey); rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, "/api/v1/templates/"+saved.ID.String(), nil, testAPIKey); rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, "/api/v1/templates/not-a-uuid", nil, testAPIKey); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", rec.Code)
	}
}

// TestTemplateErrors verifies validation failures map to 400 and a full
// store maps to 507.
func TestTemplateErrors(t *testing.T) {
	s := newTestServer(t, &templates.MemoryBackend{}, nil)
	rec := do(t, s, http.MethodPost, "/api/v1/templates", map[string]any{
		"name":   "  ",
		"quotas": []models.MuscleQuota{{Tag: models.TagChest, Count: 2}},
	}, testAPIKey)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank name: status = %d, want 400", rec.Code)
	}

	full := newTestServer(t, &templates.MemoryBackend{MaxBytes: 16}, nil)
	rec = do(t, full, http.MethodPost, "/api/v1/templates", map[string]any{
		"name":   "Push",
		"quotas": []models.MuscleQuota{{Tag: models.TagChest, Count: 2}},
	}, testAPIKey)
	if rec.Code != http.StatusInsufficientStorage {
		t.Errorf("full store: status = %d, want 507", rec.Code)
	}
}

// TestHandleImportLogs verifies the import log route exists only with a
// database and passes the limit through.
func TestHandleImportLogs(t *testing.T) {
	without := newTestServer(t, &templates.MemoryBackend{}, nil)
	if rec := do(t, without, http.MethodGet, "/api/v1/import-logs", nil, ""); rec.Code != http.StatusNotFound {
		t.Errorf("without db: status = %d, want 404", rec.Code)
	}

	imports := &fakeImports{}
	s := newTestServer(t, &templates.MemoryBackend{}, imports)
	rec := do(t, s, http.MethodGet, "/api/v1/import-logs?limit=5", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if imports.limit != 5 {
		t.Errorf("limit = %d, want 5", imports.limit)
	}
	logs := decode[[]storage.ImportLog](t, rec)
	if len(logs) != 1 || logs[0].Source != "exercises.csv" {
		t.Errorf("logs = %+v", logs)
	}
}
