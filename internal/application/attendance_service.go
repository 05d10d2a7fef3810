package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// AttendanceRepository captures the persistence interactions for
// attendance records.
type AttendanceRepository interface {
	ListAttendanceBySession(ctx context.Context, sessionID int) ([]AttendanceRecord, error)
	InsertAttendance(ctx context.Context, record AttendanceRecord) (int, error)
}

// AttendanceSessionStore looks up the session an attendance record refers to.
type AttendanceSessionStore interface {
	GetTrainingSession(ctx context.Context, id int) (TrainingSession, error)
}

// AttendanceService records who showed up at a session. Records are
// write-once and consumed only by reporting.
type AttendanceService struct {
	attendance AttendanceRepository
	sessions   AttendanceSessionStore
	now        func() time.Time
	logger     *slog.Logger
}

// NewAttendanceService wires dependencies for attendance operations.
func NewAttendanceService(attendance AttendanceRepository, sessions AttendanceSessionStore, now func() time.Time) *AttendanceService {
	return NewAttendanceServiceWithLogger(attendance, sessions, now, nil)
}

// NewAttendanceServiceWithLogger constructs an AttendanceService with a specified logger.
func NewAttendanceServiceWithLogger(attendance AttendanceRepository, sessions AttendanceSessionStore, now func() time.Time, logger *slog.Logger) *AttendanceService {
	if now == nil {
		now = time.Now
	}
	return &AttendanceService{
		attendance: attendance,
		sessions:   sessions,
		now:        now,
		logger:     defaultLogger(logger),
	}
}

func (s *AttendanceService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AttendanceService", operation, attrs...)
}

// RecordAttendance stores whether a user was present at a session. Present
// records are stamped with the current time.
func (s *AttendanceService) RecordAttendance(ctx context.Context, sessionID, userID int, status string) (record AttendanceRecord, err error) {
	if s == nil || s.attendance == nil {
		err = fmt.Errorf("attendance repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "RecordAttendance",
		"session_id", sessionID, "user_id", userID, "status", status)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "attendance recording failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("attendance_id", record.ID).InfoContext(ctx, "attendance recorded")
	}()

	if status != AttendanceStatusPresent && status != AttendanceStatusAbsent {
		vErr := &ValidationError{}
		vErr.add("status", "status must be present or absent")
		err = vErr
		return
	}

	if s.sessions != nil {
		if _, getErr := s.sessions.GetTrainingSession(ctx, sessionID); getErr != nil {
			err = getErr
			return
		}
	}

	record = AttendanceRecord{
		SessionID: sessionID,
		UserID:    userID,
		Status:    status,
	}
	if status == AttendanceStatusPresent {
		now := s.now()
		record.AttendedAt = &now
	}

	id, insertErr := s.attendance.InsertAttendance(ctx, record)
	if insertErr != nil {
		err = insertErr
		record = AttendanceRecord{}
		return
	}
	record.ID = id
	return record, nil
}

// ListSessionAttendance returns the attendance records for a session.
func (s *AttendanceService) ListSessionAttendance(ctx context.Context, sessionID int) ([]AttendanceRecord, error) {
	if s == nil || s.attendance == nil {
		return nil, fmt.Errorf("attendance repository not configured")
	}
	return s.attendance.ListAttendanceBySession(ctx, sessionID)
}
