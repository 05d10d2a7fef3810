package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/example/training-management/internal/application"
	"github.com/example/training-management/internal/reporting"
)

type reportService interface {
	TrainingRequestReport(ctx context.Context, from, to *time.Time) ([]reporting.RequestReportRow, error)
	DepartmentReport(ctx context.Context) ([]reporting.DepartmentReportRow, error)
	TrainingSessionReport(ctx context.Context, from, to *time.Time) ([]reporting.SessionReportRow, error)
	UserParticipationReport(ctx context.Context, userID *int) ([]reporting.ParticipationReportRow, error)
	AttendanceReport(ctx context.Context, from, to *time.Time) ([]reporting.AttendanceReportRow, error)
	TrainerPerformanceReport(ctx context.Context) ([]reporting.TrainerReportRow, error)
}

type ReportHandler struct {
	service   reportService
	responder responder
	logger    *slog.Logger
}

func NewReportHandler(service reportService, logger *slog.Logger) *ReportHandler {
	base := defaultLogger(logger)
	return &ReportHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ReportHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ReportHandler", operation, attrs...)
}

func (h *ReportHandler) TrainingRequests(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	from, to := queryDateRange(r.URL.Query())
	logger := h.log(r.Context(), "TrainingRequests")

	rows, err := h.service.TrainingRequestReport(r.Context(), from, to)
	if err != nil {
		logger.ErrorContext(r.Context(), "request report failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(rows)).InfoContext(r.Context(), "request report produced")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, requestReportResponse{Rows: toRequestReportDTOs(rows)})
}

func (h *ReportHandler) Departments(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "Departments")
	rows, err := h.service.DepartmentReport(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "department report failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(rows)).InfoContext(r.Context(), "department report produced")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, departmentReportResponse{Rows: toDepartmentReportDTOs(rows)})
}

func (h *ReportHandler) TrainingSessions(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	from, to := queryDateRange(r.URL.Query())
	logger := h.log(r.Context(), "TrainingSessions")

	rows, err := h.service.TrainingSessionReport(r.Context(), from, to)
	if err != nil {
		logger.ErrorContext(r.Context(), "session report failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(rows)).InfoContext(r.Context(), "session report produced")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, sessionReportResponse{Rows: toSessionReportDTOs(rows)})
}

func (h *ReportHandler) Participation(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var userID *int
	if raw := strings.TrimSpace(r.URL.Query().Get("userId")); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
			return
		}
		userID = &id
	}

	logger := h.log(r.Context(), "Participation")

	rows, err := h.service.UserParticipationReport(r.Context(), userID)
	if err != nil {
		logger.ErrorContext(r.Context(), "participation report failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(rows)).InfoContext(r.Context(), "participation report produced")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, participationReportResponse{Rows: toParticipationReportDTOs(rows)})
}

func (h *ReportHandler) Attendance(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	from, to := queryDateRange(r.URL.Query())
	logger := h.log(r.Context(), "Attendance")

	rows, err := h.service.AttendanceReport(r.Context(), from, to)
	if err != nil {
		logger.ErrorContext(r.Context(), "attendance report failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(rows)).InfoContext(r.Context(), "attendance report produced")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, attendanceReportResponse{Rows: toAttendanceReportDTOs(rows)})
}

func (h *ReportHandler) TrainerPerformance(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "TrainerPerformance")
	rows, err := h.service.TrainerPerformanceReport(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "trainer report failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(rows)).InfoContext(r.Context(), "trainer report produced")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, trainerReportResponse{Rows: toTrainerReportDTOs(rows)})
}

// queryDateRange reads the optional startDate and endDate query
// parameters. Both RFC 3339 timestamps and plain dates are accepted;
// unparseable values are ignored.
func queryDateRange(values url.Values) (from, to *time.Time) {
	if ts, ok := parseQueryDate(values.Get("startDate")); ok {
		from = &ts
	}
	if ts, ok := parseQueryDate(values.Get("endDate")); ok {
		to = &ts
	}
	return from, to
}

func parseQueryDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts, true
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, true
	}
	if ts, err := time.Parse("2006-01-02", value); err == nil {
		return ts, true
	}
	return time.Time{}, false
}

type requestReportResponse struct {
	Rows []requestReportDTO `json:"rows"`
}

type requestReportDTO struct {
	Status        string `json:"status"`
	Department    string `json:"department"`
	TrainingType  string `json:"training_type"`
	Month         string `json:"month"`
	TotalRequests int    `json:"total_requests"`
}

func toRequestReportDTOs(rows []reporting.RequestReportRow) []requestReportDTO {
	if len(rows) == 0 {
		return nil
	}
	out := make([]requestReportDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, requestReportDTO{
			Status:        row.Status,
			Department:    row.Department,
			TrainingType:  row.TrainingType,
			Month:         row.Month,
			TotalRequests: row.TotalRequests,
		})
	}
	return out
}

type departmentReportResponse struct {
	Rows []departmentReportDTO `json:"rows"`
}

type departmentReportDTO struct {
	Department    string `json:"department"`
	UserCount     int    `json:"user_count"`
	ActiveUsers   int    `json:"active_users"`
	RequestCount  int    `json:"request_count"`
	TrainingTypes int    `json:"training_types"`
}

func toDepartmentReportDTOs(rows []reporting.DepartmentReportRow) []departmentReportDTO {
	if len(rows) == 0 {
		return nil
	}
	out := make([]departmentReportDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, departmentReportDTO{
			Department:    row.Department,
			UserCount:     row.UserCount,
			ActiveUsers:   row.ActiveUsers,
			RequestCount:  row.RequestCount,
			TrainingTypes: row.TrainingTypes,
		})
	}
	return out
}

type sessionReportResponse struct {
	Rows []sessionReportDTO `json:"rows"`
}

type sessionReportDTO struct {
	Status              string  `json:"status"`
	Trainer             string  `json:"trainer"`
	TotalSessions       int     `json:"total_sessions"`
	AverageParticipants float64 `json:"average_participants"`
	TotalParticipants   int     `json:"total_participants"`
	UpcomingSessions    int     `json:"upcoming_sessions"`
	CompletedSessions   int     `json:"completed_sessions"`
}

func toSessionReportDTOs(rows []reporting.SessionReportRow) []sessionReportDTO {
	if len(rows) == 0 {
		return nil
	}
	out := make([]sessionReportDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, sessionReportDTO{
			Status:              row.Status,
			Trainer:             row.Trainer,
			TotalSessions:       row.TotalSessions,
			AverageParticipants: row.AverageParticipants,
			TotalParticipants:   row.TotalParticipants,
			UpcomingSessions:    row.UpcomingSessions,
			CompletedSessions:   row.CompletedSessions,
		})
	}
	return out
}

type participationReportResponse struct {
	Rows []participationReportDTO `json:"rows"`
}

type participationReportDTO struct {
	Status            string `json:"status"`
	UserID            int    `json:"user_id"`
	UserName          string `json:"user_name"`
	Department        string `json:"department"`
	RegistrationCount int    `json:"registration_count"`
	AttendedCount     int    `json:"attended_count"`
	RegisteredCount   int    `json:"registered_count"`
}

func toParticipationReportDTOs(rows []reporting.ParticipationReportRow) []participationReportDTO {
	if len(rows) == 0 {
		return nil
	}
	out := make([]participationReportDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, participationReportDTO{
			Status:            row.Status,
			UserID:            row.UserID,
			UserName:          row.UserName,
			Department:        row.Department,
			RegistrationCount: row.RegistrationCount,
			AttendedCount:     row.AttendedCount,
			RegisteredCount:   row.RegisteredCount,
		})
	}
	return out
}

type attendanceReportResponse struct {
	Rows []attendanceReportDTO `json:"rows"`
}

type attendanceReportDTO struct {
	SessionID       int     `json:"session_id"`
	SessionTitle    string  `json:"session_title"`
	Trainer         string  `json:"trainer"`
	TotalAttendance int     `json:"total_attendance"`
	PresentCount    int     `json:"present_count"`
	AbsentCount     int     `json:"absent_count"`
	AttendanceRate  float64 `json:"attendance_rate"`
}

func toAttendanceReportDTOs(rows []reporting.AttendanceReportRow) []attendanceReportDTO {
	if len(rows) == 0 {
		return nil
	}
	out := make([]attendanceReportDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, attendanceReportDTO{
			SessionID:       row.SessionID,
			SessionTitle:    row.SessionTitle,
			Trainer:         row.Trainer,
			TotalAttendance: row.TotalAttendance,
			PresentCount:    row.PresentCount,
			AbsentCount:     row.AbsentCount,
			AttendanceRate:  row.AttendanceRate,
		})
	}
	return out
}

type trainerReportResponse struct {
	Rows []trainerReportDTO `json:"rows"`
}

type trainerReportDTO struct {
	Trainer             string  `json:"trainer"`
	TotalSessions       int     `json:"total_sessions"`
	CompletedSessions   int     `json:"completed_sessions"`
	AverageParticipants float64 `json:"average_participants"`
	TotalParticipants   int     `json:"total_participants"`
}

func toTrainerReportDTOs(rows []reporting.TrainerReportRow) []trainerReportDTO {
	if len(rows) == 0 {
		return nil
	}
	out := make([]trainerReportDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, trainerReportDTO{
			Trainer:             row.Trainer,
			TotalSessions:       row.TotalSessions,
			CompletedSessions:   row.CompletedSessions,
			AverageParticipants: row.AverageParticipants,
			TotalParticipants:   row.TotalParticipants,
		})
	}
	return out
}
