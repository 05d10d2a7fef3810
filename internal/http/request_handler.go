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

type requestService interface {
	ListRequests(ctx context.Context) ([]application.TrainingRequest, error)
	ListRequestsByUser(ctx context.Context, userID int) ([]application.TrainingRequest, error)
	ListRequestsByStatus(ctx context.Context, status string) ([]application.TrainingRequest, error)
	GetRequest(ctx context.Context, id int) (application.TrainingRequest, error)
	CreateRequest(ctx context.Context, input application.RequestInput) (application.TrainingRequest, error)
	UpdateRequestStatus(ctx context.Context, id int, status string) (application.TrainingRequest, error)
	LinkSession(ctx context.Context, requestID, sessionID int) (application.TrainingRequest, error)
	DeleteRequest(ctx context.Context, id int) error
}

type RequestHandler struct {
	service   requestService
	responder responder
	logger    *slog.Logger
}

func NewRequestHandler(service requestService, logger *slog.Logger) *RequestHandler {
	base := defaultLogger(logger)
	return &RequestHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *RequestHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "RequestHandler", operation, attrs...)
}

func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")
	requests, err := h.service.ListRequests(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "request list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(requests)).InfoContext(r.Context(), "training requests listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRequestsResponse{Requests: toRequestDTOs(requests)})
}

func (h *RequestHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := pathID(r, "userId")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	requests, err := h.service.ListRequestsByUser(r.Context(), userID)
	if err != nil {
		h.log(r.Context(), "ListByUser", "user_id", userID).ErrorContext(r.Context(), "request list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRequestsResponse{Requests: toRequestDTOs(requests)})
}

func (h *RequestHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	status := strings.TrimSpace(r.PathValue("status"))
	requests, err := h.service.ListRequestsByStatus(r.Context(), status)
	if err != nil {
		h.log(r.Context(), "ListByStatus", "status", status).ErrorContext(r.Context(), "request list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRequestsResponse{Requests: toRequestDTOs(requests)})
}

func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	request, err := h.service.GetRequest(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Get", "request_id", id).ErrorContext(r.Context(), "request lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, requestResponse{Request: toRequestDTO(request)})
}

func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req trainingRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode training request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "requester_id", req.RequesterID)

	request, err := h.service.CreateRequest(r.Context(), req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "request creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("request_id", request.ID).InfoContext(r.Context(), "training request created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, requestResponse{Request: toRequestDTO(request)})
}

func (h *RequestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "UpdateStatus", "request_id", id, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode status update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "UpdateStatus", "request_id", id, "status", req.Status)

	request, err := h.service.UpdateRequestStatus(r.Context(), id, strings.TrimSpace(req.Status))
	if err != nil {
		logger.ErrorContext(r.Context(), "request status update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "training request status updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, requestResponse{Request: toRequestDTO(request)})
}

func (h *RequestHandler) LinkSession(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	var req linkSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "LinkSession", "request_id", id, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode session link", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if req.SessionID <= 0 {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	logger := h.log(r.Context(), "LinkSession", "request_id", id, "session_id", req.SessionID)

	request, err := h.service.LinkSession(r.Context(), id, req.SessionID)
	if err != nil {
		logger.ErrorContext(r.Context(), "session link failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "session linked to training request")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, requestResponse{Request: toRequestDTO(request)})
}

func (h *RequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	logger := h.log(r.Context(), "Delete", "request_id", id)
	if err := h.service.DeleteRequest(r.Context(), id); err != nil {
		logger.ErrorContext(r.Context(), "request delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "training request deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type trainingRequestRequest struct {
	Title        string `json:"title"`
	Department   string `json:"department"`
	TrainingType string `json:"training_type"`
	RequesterID  int    `json:"requester_id"`
}

func (r trainingRequestRequest) toInput() application.RequestInput {
	return application.RequestInput{
		Title:        strings.TrimSpace(r.Title),
		Department:   strings.TrimSpace(r.Department),
		TrainingType: strings.TrimSpace(r.TrainingType),
		RequesterID:  r.RequesterID,
	}
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

type linkSessionRequest struct {
	SessionID int `json:"session_id"`
}

type requestResponse struct {
	Request requestDTO `json:"request"`
}

type listRequestsResponse struct {
	Requests []requestDTO `json:"requests"`
}

type requestDTO struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Department   string  `json:"department"`
	TrainingType string  `json:"training_type"`
	Status       string  `json:"status"`
	RequesterID  int     `json:"requester_id"`
	SessionID    *int    `json:"session_id,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    *string `json:"updated_at,omitempty"`
}

func toRequestDTO(request application.TrainingRequest) requestDTO {
	return requestDTO{
		ID:           request.ID,
		Title:        request.Title,
		Department:   request.Department,
		TrainingType: request.TrainingType,
		Status:       request.Status,
		RequesterID:  request.RequesterID,
		SessionID:    request.SessionID,
		CreatedAt:    request.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:    formatOptionalTime(request.UpdatedAt),
	}
}

func toRequestDTOs(requests []application.TrainingRequest) []requestDTO {
	if len(requests) == 0 {
		return nil
	}
	out := make([]requestDTO, 0, len(requests))
	for _, request := range requests {
		out = append(out, toRequestDTO(request))
	}
	return out
}

func formatOptionalTime(ts *time.Time) *string {
	if ts == nil {
		return nil
	}
	formatted := ts.UTC().Format(time.RFC3339Nano)
	return &formatted
}
