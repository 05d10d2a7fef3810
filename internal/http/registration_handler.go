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

type registrationService interface {
	Register(ctx context.Context, userID, sessionID int) (application.Participant, error)
	Unregister(ctx context.Context, userID, sessionID int) (bool, error)
	UpdateParticipantStatus(ctx context.Context, userID, sessionID int, status string) (application.Participant, error)
	ListSessionParticipants(ctx context.Context, sessionID int) ([]application.Participant, error)
	ListUserRegistrations(ctx context.Context, userID int) ([]application.Participant, error)
}

type attendanceService interface {
	RecordAttendance(ctx context.Context, sessionID, userID int, status string) (application.AttendanceRecord, error)
	ListSessionAttendance(ctx context.Context, sessionID int) ([]application.AttendanceRecord, error)
}

type RegistrationHandler struct {
	registrations registrationService
	attendance    attendanceService
	responder     responder
	logger        *slog.Logger
}

func NewRegistrationHandler(registrations registrationService, attendance attendanceService, logger *slog.Logger) *RegistrationHandler {
	base := defaultLogger(logger)
	return &RegistrationHandler{
		registrations: registrations,
		attendance:    attendance,
		responder:     newResponder(base),
		logger:        base,
	}
}

func (h *RegistrationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "RegistrationHandler", operation, attrs...)
}

// Register adds a user to a session, enforcing the capacity limit.
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.registrations == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sessionID, ok := pathID(r, "sessionId")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}
	userID, ok := pathID(r, "userId")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	logger := h.log(r.Context(), "Register", "session_id", sessionID, "user_id", userID)

	participant, err := h.registrations.Register(r.Context(), userID, sessionID)
	if err != nil {
		logger.ErrorContext(r.Context(), "registration failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("participant_id", participant.ID).InfoContext(r.Context(), "user registered for session")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, participantResponse{Participant: toParticipantDTO(participant)})
}

// Unregister removes a user's registration. Removing a registration
// that does not exist is a no-op.
func (h *RegistrationHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.registrations == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sessionID, ok := pathID(r, "sessionId")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}
	userID, ok := pathID(r, "userId")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	logger := h.log(r.Context(), "Unregister", "session_id", sessionID, "user_id", userID)

	removed, err := h.registrations.Unregister(r.Context(), userID, sessionID)
	if err != nil {
		logger.ErrorContext(r.Context(), "unregistration failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("removed", removed).InfoContext(r.Context(), "user unregistered from session")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, unregisterResponse{Removed: removed})
}

func (h *RegistrationHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.registrations == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sessionID, ok := pathID(r, "sessionId")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	logger := h.log(r.Context(), "ListParticipants", "session_id", sessionID)

	participants, err := h.registrations.ListSessionParticipants(r.Context(), sessionID)
	if err != nil {
		logger.ErrorContext(r.Context(), "participant list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(participants)).InfoContext(r.Context(), "session participants listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listParticipantsResponse{Participants: toParticipantDTOs(participants)})
}

func (h *RegistrationHandler) UpdateParticipantStatus(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.registrations == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sessionID, ok := pathID(r, "sessionId")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}
	userID, ok := pathID(r, "userId")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "UpdateParticipantStatus", "session_id", sessionID, "user_id", userID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode status update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "UpdateParticipantStatus", "session_id", sessionID, "user_id", userID, "status", req.Status)

	participant, err := h.registrations.UpdateParticipantStatus(r.Context(), userID, sessionID, strings.TrimSpace(req.Status))
	if err != nil {
		logger.ErrorContext(r.Context(), "participant status update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "participant status updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, participantResponse{Participant: toParticipantDTO(participant)})
}

func (h *RegistrationHandler) RecordAttendance(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.attendance == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sessionID, ok := pathID(r, "sessionId")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	var req attendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "RecordAttendance", "session_id", sessionID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode attendance record", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "RecordAttendance", "session_id", sessionID, "user_id", req.UserID, "status", req.Status)

	record, err := h.attendance.RecordAttendance(r.Context(), sessionID, req.UserID, strings.TrimSpace(req.Status))
	if err != nil {
		logger.ErrorContext(r.Context(), "attendance recording failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("attendance_id", record.ID).InfoContext(r.Context(), "attendance recorded")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, attendanceResponse{Attendance: toAttendanceDTO(record)})
}

func (h *RegistrationHandler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.attendance == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sessionID, ok := pathID(r, "sessionId")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	records, err := h.attendance.ListSessionAttendance(r.Context(), sessionID)
	if err != nil {
		h.log(r.Context(), "ListAttendance", "session_id", sessionID).ErrorContext(r.Context(), "attendance list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listAttendanceResponse{Attendance: toAttendanceDTOs(records)})
}

type attendanceRequest struct {
	UserID int    `json:"user_id"`
	Status string `json:"status"`
}

type participantResponse struct {
	Participant participantDTO `json:"participant"`
}

type listParticipantsResponse struct {
	Participants []participantDTO `json:"participants"`
}

type unregisterResponse struct {
	Removed bool `json:"removed"`
}

type participantDTO struct {
	ID           int     `json:"id"`
	UserID       int     `json:"user_id"`
	SessionID    int     `json:"session_id"`
	Status       string  `json:"status"`
	RegisteredAt string  `json:"registered_at"`
	AttendedAt   *string `json:"attended_at,omitempty"`
	UserName     string  `json:"user_name,omitempty"`
	UserEmail    string  `json:"user_email,omitempty"`
}

func toParticipantDTO(participant application.Participant) participantDTO {
	return participantDTO{
		ID:           participant.ID,
		UserID:       participant.UserID,
		SessionID:    participant.SessionID,
		Status:       participant.Status,
		RegisteredAt: participant.RegisteredAt.UTC().Format(time.RFC3339Nano),
		AttendedAt:   formatOptionalTime(participant.AttendedAt),
		UserName:     participant.UserName,
		UserEmail:    participant.UserEmail,
	}
}

func toParticipantDTOs(participants []application.Participant) []participantDTO {
	if len(participants) == 0 {
		return nil
	}
	out := make([]participantDTO, 0, len(participants))
	for _, participant := range participants {
		out = append(out, toParticipantDTO(participant))
	}
	return out
}

type attendanceResponse struct {
	Attendance attendanceDTO `json:"attendance"`
}

type listAttendanceResponse struct {
	Attendance []attendanceDTO `json:"attendance"`
}

type attendanceDTO struct {
	ID         int     `json:"id"`
	SessionID  int     `json:"session_id"`
	UserID     int     `json:"user_id"`
	Status     string  `json:"status"`
	AttendedAt *string `json:"attended_at,omitempty"`
}

func toAttendanceDTO(record application.AttendanceRecord) attendanceDTO {
	return attendanceDTO{
		ID:         record.ID,
		SessionID:  record.SessionID,
		UserID:     record.UserID,
		Status:     record.Status,
		AttendedAt: formatOptionalTime(record.AttendedAt),
	}
}

func toAttendanceDTOs(records []application.AttendanceRecord) []attendanceDTO {
	if len(records) == 0 {
		return nil
	}
	out := make([]attendanceDTO, 0, len(records))
	for _, record := range records {
		out = append(out, toAttendanceDTO(record))
	}
	return out
}
