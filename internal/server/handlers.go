package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/feedback-survey/internal/db"
	"github.com/jonathan/feedback-survey/internal/types"
)

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	store := "not_configured"
	switch {
	case s.db != nil:
		store = "connected"
		if err := s.db.Ping(r.Context()); err != nil {
			store = "unreachable"
		}
	case s.store != nil:
		store = "configured"
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"store":    store,
		"sessions": s.sessions.Count(),
	})
}

// handleSurvey returns the static survey definition
func (s *Server) handleSurvey(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, types.NewSurveyDefinition())
}

// handleListResponses lists stored responses, newest first
func (s *Server) handleListResponses(w http.ResponseWriter, r *http.Request) {
	var q types.ListResponsesQuery
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		q.Limit = limit
	}
	if err := q.Validate(); err != nil {
		s.validationErrorResponse(w, err)
		return
	}

	if s.store == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, ErrStoreNotConfigured.Error())
		return
	}

	rows, err := s.store.ListSurveyResponses(r.Context(), q.Limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if rows == nil {
		rows = []db.StoredResponse{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"responses": rows,
		"count":     len(rows),
	})
}

// handleGetResponse returns one stored response by id
func (s *Server) handleGetResponse(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid response ID")
		return
	}

	if s.store == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, ErrStoreNotConfigured.Error())
		return
	}

	stored, err := s.store.GetSurveyResponse(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if stored == nil {
		s.errorResponse(w, http.StatusNotFound, "Response not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, stored)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// validationErrorResponse reports the first failed request constraint as a 400.
func (s *Server) validationErrorResponse(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		verr := &ErrValidation{Field: fe.Field(), Message: describeConstraint(fe)}
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return
	}
	s.errorResponse(w, http.StatusBadRequest, err.Error())
}

func describeConstraint(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "uuid":
		return "must be a UUID"
	case "surveyfield":
		return "is not a survey question"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte", "lte":
		return "must be between 0 and 500"
	default:
		return "is invalid"
	}
}
