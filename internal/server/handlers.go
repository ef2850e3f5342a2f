package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/claude/workoutgen/internal/models"
	"github.com/claude/workoutgen/internal/templates"
	"github.com/claude/workoutgen/internal/workout"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxBodyBytes bounds request bodies; plans are small.
const maxBodyBytes = 1 << 20

type quotasRequest struct {
	Quotas []models.MuscleQuota `json:"quotas"`
}

type planRequest struct {
	Plan models.GeneratedPlan `json:"plan"`
}

type saveTemplateRequest struct {
	Name   string               `json:"name"`
	Quotas []models.MuscleQuota `json:"quotas"`
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handlePool(w http.ResponseWriter, r *http.Request) {
	tags, err := s.svc.ListMuscleGroups(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req quotasRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := s.svc.Validate(r.Context(), req.Quotas)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req quotasRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Quotas) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quotas required"})
		return
	}
	resp, err := s.svc.Generate(r.Context(), req.Quotas)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReroll(w http.ResponseWriter, r *http.Request) {
	var req workout.RerollRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.SlotID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "slot_id required"})
		return
	}
	if req.Plan.Index(req.SlotID) < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "slot not in plan"})
		return
	}
	resp, err := s.svc.Reroll(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := s.svc.Regenerate(r.Context(), req.Plan)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.ListTemplates(r.Context())
	if err != nil {
		s.log.Error("listing templates", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if list == nil {
		list = []models.QuotaTemplate{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleSaveTemplate(w http.ResponseWriter, r *http.Request) {
	var req saveTemplateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tmpl, err := s.svc.SaveTemplate(r.Context(), req.Name, req.Quotas)
	if err != nil {
		s.writeTemplateError(w, err)
		return
	}
	s.log.Info("template saved", "id", tmpl.ID, "name", tmpl.Name, "by", userInfoFromContext(r).Login)
	writeJSON(w, http.StatusCreated, tmpl)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid template ID"})
		return
	}
	if err := s.svc.DeleteTemplate(r.Context(), id); err != nil {
		s.writeTemplateError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleImportLogs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	logs, err := s.imports.QueryImportLogs(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// writeTemplateError maps template store errors to HTTP status codes.
func (s *Server) writeTemplateError(w http.ResponseWriter, err error) {
	var verr *templates.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Error()})
	case errors.Is(err, templates.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, templates.ErrStorageFull):
		s.log.Warn("template storage full", "error", err)
		writeJSON(w, http.StatusInsufficientStorage, map[string]string{"error": "template storage is full"})
	default:
		s.log.Error("template store error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

// decodeJSON reads the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
