package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/training-management/internal/reporting"
)

// ReportStore captures the whole-collection reads the reporting engine
// consumes.
type ReportStore interface {
	ListUsers(ctx context.Context) ([]User, error)
	ListRequests(ctx context.Context) ([]TrainingRequest, error)
	ListSessions(ctx context.Context) ([]TrainingSession, error)
	ListParticipants(ctx context.Context) ([]Participant, error)
	ListAttendance(ctx context.Context) ([]AttendanceRecord, error)
}

// ReportService bridges stored entities into the pure aggregation
// functions. It never mutates state.
type ReportService struct {
	store  ReportStore
	now    func() time.Time
	logger *slog.Logger
}

// NewReportService wires dependencies for report generation.
func NewReportService(store ReportStore, now func() time.Time) *ReportService {
	return NewReportServiceWithLogger(store, now, nil)
}

// NewReportServiceWithLogger constructs a ReportService with a specified logger.
func NewReportServiceWithLogger(store ReportStore, now func() time.Time, logger *slog.Logger) *ReportService {
	if now == nil {
		now = time.Now
	}
	return &ReportService{
		store:  store,
		now:    now,
		logger: defaultLogger(logger),
	}
}

func (s *ReportService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ReportService", operation, attrs...)
}

func toReportingRequests(requests []TrainingRequest) []reporting.Request {
	out := make([]reporting.Request, 0, len(requests))
	for _, request := range requests {
		out = append(out, reporting.Request{
			ID:           request.ID,
			Department:   request.Department,
			TrainingType: request.TrainingType,
			Status:       request.Status,
			CreatedAt:    request.CreatedAt,
			RequesterID:  request.RequesterID,
		})
	}
	return out
}

func toReportingSessions(sessions []TrainingSession) []reporting.Session {
	out := make([]reporting.Session, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, reporting.Session{
			ID:                  session.ID,
			Title:               session.Title,
			Start:               session.Start,
			End:                 session.End,
			Trainer:             session.Trainer,
			Status:              session.Status,
			MaxParticipants:     session.MaxParticipants,
			CurrentParticipants: session.CurrentParticipants,
		})
	}
	return out
}

func toReportingUsers(users []User) []reporting.User {
	out := make([]reporting.User, 0, len(users))
	for _, user := range users {
		out = append(out, reporting.User{
			ID:         user.ID,
			Name:       user.Name,
			Department: user.Department,
			IsActive:   user.IsActive,
		})
	}
	return out
}

func toReportingParticipants(participants []Participant) []reporting.Participant {
	out := make([]reporting.Participant, 0, len(participants))
	for _, participant := range participants {
		out = append(out, reporting.Participant{
			ID:        participant.ID,
			UserID:    participant.UserID,
			SessionID: participant.SessionID,
			Status:    participant.Status,
		})
	}
	return out
}

func toReportingAttendance(records []AttendanceRecord) []reporting.Attendance {
	out := make([]reporting.Attendance, 0, len(records))
	for _, record := range records {
		out = append(out, reporting.Attendance{
			ID:        record.ID,
			SessionID: record.SessionID,
			UserID:    record.UserID,
			Status:    record.Status,
		})
	}
	return out
}

func toDateRange(from, to *time.Time) reporting.DateRange {
	return reporting.DateRange{From: from, To: to}
}

// TrainingRequestReport aggregates requests by status, department, type
// and creation month inside the optional window.
func (s *ReportService) TrainingRequestReport(ctx context.Context, from, to *time.Time) ([]reporting.RequestReportRow, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("report store not configured")
	}
	logger := s.loggerWith(ctx, "TrainingRequestReport")

	requests, err := s.store.ListRequests(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "report generation failed", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return reporting.RequestReport(toReportingRequests(requests), toDateRange(from, to)), nil
}

// DepartmentReport aggregates users and requests per department.
func (s *ReportService) DepartmentReport(ctx context.Context) ([]reporting.DepartmentReportRow, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("report store not configured")
	}
	logger := s.loggerWith(ctx, "DepartmentReport")

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "report generation failed", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	requests, err := s.store.ListRequests(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "report generation failed", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return reporting.DepartmentReport(toReportingUsers(users), toReportingRequests(requests)), nil
}

// TrainingSessionReport aggregates sessions by status and trainer inside
// the optional window.
func (s *ReportService) TrainingSessionReport(ctx context.Context, from, to *time.Time) ([]reporting.SessionReportRow, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("report store not configured")
	}
	logger := s.loggerWith(ctx, "TrainingSessionReport")

	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "report generation failed", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return reporting.SessionReport(toReportingSessions(sessions), s.now(), toDateRange(from, to)), nil
}

// UserParticipationReport aggregates registration records per user and
// status, optionally narrowed to one user.
func (s *ReportService) UserParticipationReport(ctx context.Context, userID *int) ([]reporting.ParticipationReportRow, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("report store not configured")
	}
	logger := s.loggerWith(ctx, "UserParticipationReport")

	participants, err := s.store.ListParticipants(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "report generation failed", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "report generation failed", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return reporting.ParticipationReport(toReportingParticipants(participants), toReportingUsers(users), userID), nil
}

// AttendanceReport tallies attendance per session inside the optional
// window. Sessions without attendance records appear with a zero rate.
func (s *ReportService) AttendanceReport(ctx context.Context, from, to *time.Time) ([]reporting.AttendanceReportRow, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("report store not configured")
	}
	logger := s.loggerWith(ctx, "AttendanceReport")

	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "report generation failed", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	attendance, err := s.store.ListAttendance(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "report generation failed", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return reporting.AttendanceReport(toReportingSessions(sessions), toReportingAttendance(attendance), toDateRange(from, to)), nil
}

// TrainerPerformanceReport aggregates sessions per trainer name.
func (s *ReportService) TrainerPerformanceReport(ctx context.Context) ([]reporting.TrainerReportRow, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("report store not configured")
	}
	logger := s.loggerWith(ctx, "TrainerPerformanceReport")

	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "report generation failed", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return reporting.TrainerReport(toReportingSessions(sessions)), nil
}
