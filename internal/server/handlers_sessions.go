package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/feedback-survey/internal/metrics"
	"github.com/jonathan/feedback-survey/internal/survey"
	"github.com/jonathan/feedback-survey/internal/types"
)

// sseKeepAlive is how often an idle event stream gets a comment line.
const sseKeepAlive = 30 * time.Second

// sessionFromPath resolves the {id} path value. It writes the error response
// and returns false when the id is malformed or unknown.
func (s *Server) sessionFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, *survey.Session, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid session ID")
		return uuid.Nil, nil, false
	}

	session, err := s.sessions.Get(id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), "Session not found")
		return uuid.Nil, nil, false
	}
	return id, session, true
}

// sessionView renders a session together with the definition of its current section.
func (s *Server) sessionView(id uuid.UUID, session *survey.Session) *types.SessionResponse {
	snap := session.Snapshot()
	view := &types.SessionResponse{SessionID: id.String(), Snapshot: snap}
	if section, ok := survey.Section(snap.CurrentSection); ok {
		view.Section = &section
	}
	return view
}

func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	id, session := s.sessions.Create()
	s.jsonResponse(w, http.StatusCreated, s.sessionView(id, session))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, session, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, s.sessionView(id, session))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid session ID")
		return
	}
	if err := s.sessions.Delete(id); err != nil {
		s.errorResponse(w, HTTPStatus(err), "Session not found")
		return
	}
	s.hub.CloseKey(id.String())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetField(w http.ResponseWriter, r *http.Request) {
	path := types.FieldPath{SessionID: r.PathValue("id"), FieldID: r.PathValue("field_id")}
	if err := path.Validate(); err != nil {
		s.validationErrorResponse(w, err)
		return
	}

	id, session, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}

	var req types.SetFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.validationErrorResponse(w, err)
		return
	}

	if err := session.SetField(path.FieldID, *req.Value); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, s.sessionView(id, session))
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, (*survey.Session).Advance)
}

func (s *Server) handleRetreat(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, (*survey.Session).Retreat)
}

func (s *Server) navigate(w http.ResponseWriter, r *http.Request, move func(*survey.Session) error) {
	id, session, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}
	if err := move(session); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, s.sessionView(id, session))
}

// handleSubmit runs the submission and reports the outcome. The request blocks
// until the store write resolves.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id, session, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}

	err := session.RequestSubmit(r.Context())
	view := s.sessionView(id, session)

	if err == nil {
		n := survey.SuccessNotification
		s.jsonResponse(w, http.StatusOK, types.SubmitResponse{
			Status:       types.SubmitStatusSucceeded,
			Notification: &n,
			Session:      view,
		})
		return
	}

	var submitErr *survey.SubmissionError
	if errors.As(err, &submitErr) {
		n := survey.FailureNotification
		s.jsonResponse(w, HTTPStatus(err), types.SubmitResponse{
			Status:       types.SubmitStatusFailed,
			Message:      err.Error(),
			Notification: &n,
			Session:      view,
		})
		return
	}

	s.metrics.RecordSubmission(metrics.StatusRejected, 0)
	resp := types.SubmitResponse{
		Status:  types.SubmitStatusRejected,
		Message: err.Error(),
		Session: view,
	}
	var verr *survey.ValidationError
	if errors.As(err, &verr) {
		resp.Errors = verr.Errors
	}
	s.jsonResponse(w, HTTPStatus(err), resp)
}

// handleEvents streams the session's notifications as Server-Sent Events. The
// first event carries the current session view.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	id, session, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}

	events, cancel := s.hub.Subscribe(id.String())
	defer cancel()

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := sse.WriteEvent("session", s.sessionView(id, session)); err != nil {
		return
	}

	keepAlive := time.NewTicker(sseKeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case n, open := <-events:
			if !open {
				sse.WriteClosed("session ended")
				return
			}
			if err := sse.WriteEvent("notification", n); err != nil {
				return
			}
			if err := sse.WriteEvent("session", s.sessionView(id, session)); err != nil {
				return
			}
		case <-keepAlive.C:
			if err := sse.WriteComment("keep-alive"); err != nil {
				return
			}
		}
	}
}
