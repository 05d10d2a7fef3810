package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/training-management/internal/application"
)

type sessionService interface {
	ListSessions(ctx context.Context) ([]application.TrainingSession, error)
	ListSessionsByRequest(ctx context.Context, requestID int) ([]application.TrainingSession, error)
	ListRegisteredSessionsByUser(ctx context.Context, userID int) ([]application.TrainingSession, error)
	GetSession(ctx context.Context, id int) (application.TrainingSession, error)
	CreateSession(ctx context.Context, input application.SessionInput) (application.TrainingSession, error)
	UpdateSession(ctx context.Context, id int, input application.SessionInput) (application.TrainingSession, error)
	DeleteSession(ctx context.Context, id int) error
}

type SessionHandler struct {
	service   sessionService
	responder responder
	logger    *slog.Logger
}

func NewSessionHandler(service sessionService, logger *slog.Logger) *SessionHandler {
	base := defaultLogger(logger)
	return &SessionHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *SessionHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "SessionHandler", operation, attrs...)
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")
	sessions, err := h.service.ListSessions(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "session list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(sessions)).InfoContext(r.Context(), "training sessions listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listSessionsResponse{Sessions: toSessionDTOs(sessions)})
}

func (h *SessionHandler) ListByRequest(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	requestID, ok := pathID(r, "requestId")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	sessions, err := h.service.ListSessionsByRequest(r.Context(), requestID)
	if err != nil {
		h.log(r.Context(), "ListByRequest", "request_id", requestID).ErrorContext(r.Context(), "session list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listSessionsResponse{Sessions: toSessionDTOs(sessions)})
}

func (h *SessionHandler) ListRegisteredByUser(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := pathID(r, "userId")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	sessions, err := h.service.ListRegisteredSessionsByUser(r.Context(), userID)
	if err != nil {
		h.log(r.Context(), "ListRegisteredByUser", "user_id", userID).ErrorContext(r.Context(), "session list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listSessionsResponse{Sessions: toSessionDTOs(sessions)})
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	session, err := h.service.GetSession(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Get", "session_id", id).ErrorContext(r.Context(), "session lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, sessionResponse{Session: toSessionDTO(session)})
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode session request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "trainer", req.Trainer)

	session, err := h.service.CreateSession(r.Context(), req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "session creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("session_id", session.ID).InfoContext(r.Context(), "training session created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, sessionResponse{Session: toSessionDTO(session)})
}

func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "session_id", id, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode session update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "session_id", id)

	session, err := h.service.UpdateSession(r.Context(), id, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "session update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "training session updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, sessionResponse{Session: toSessionDTO(session)})
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	logger := h.log(r.Context(), "Delete", "session_id", id)
	if err := h.service.DeleteSession(r.Context(), id); err != nil {
		logger.ErrorContext(r.Context(), "session delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "training session deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type sessionRequest struct {
	Title           string  `json:"title"`
	Start           string  `json:"start_time"`
	End             string  `json:"end_time"`
	Trainer         string  `json:"trainer"`
	Location        *string `json:"location"`
	Description     *string `json:"description"`
	Status          string  `json:"status"`
	MaxParticipants int     `json:"max_participants"`
}

func (r sessionRequest) toInput() application.SessionInput {
	return application.SessionInput{
		Title:           strings.TrimSpace(r.Title),
		Start:           parseTimestamp(r.Start),
		End:             parseTimestamp(r.End),
		Trainer:         strings.TrimSpace(r.Trainer),
		Location:        r.Location,
		Description:     r.Description,
		Status:          strings.TrimSpace(r.Status),
		MaxParticipants: r.MaxParticipants,
	}
}

func parseTimestamp(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts
	}
	return time.Time{}
}

type sessionResponse struct {
	Session sessionDTO `json:"session"`
}

type listSessionsResponse struct {
	Sessions []sessionDTO `json:"sessions"`
}

type sessionDTO struct {
	ID                  int     `json:"id"`
	Title               string  `json:"title"`
	Start               string  `json:"start_time"`
	End                 string  `json:"end_time"`
	Trainer             string  `json:"trainer"`
	Location            *string `json:"location,omitempty"`
	Description         *string `json:"description,omitempty"`
	Status              string  `json:"status"`
	MaxParticipants     int     `json:"max_participants"`
	CurrentParticipants int     `json:"current_participants"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           *string `json:"updated_at,omitempty"`
}

func toSessionDTO(session application.TrainingSession) sessionDTO {
	return sessionDTO{
		ID:                  session.ID,
		Title:               session.Title,
		Start:               session.Start.UTC().Format(time.RFC3339Nano),
		End:                 session.End.UTC().Format(time.RFC3339Nano),
		Trainer:             session.Trainer,
		Location:            session.Location,
		Description:         session.Description,
		Status:              session.Status,
		MaxParticipants:     session.MaxParticipants,
		CurrentParticipants: session.CurrentParticipants,
		CreatedAt:           session.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:           formatOptionalTime(session.UpdatedAt),
	}
}

func toSessionDTOs(sessions []application.TrainingSession) []sessionDTO {
	if len(sessions) == 0 {
		return nil
	}
	out := make([]sessionDTO, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, toSessionDTO(session))
	}
	return out
}
