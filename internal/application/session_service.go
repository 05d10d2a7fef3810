package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// TrainingSessionRepository captures the persistence interactions for
// training sessions.
type TrainingSessionRepository interface {
	ListSessions(ctx context.Context) ([]TrainingSession, error)
	ListSessionsByRequest(ctx context.Context, requestID int) ([]TrainingSession, error)
	GetTrainingSession(ctx context.Context, id int) (TrainingSession, error)
	InsertTrainingSession(ctx context.Context, session TrainingSession) (int, error)
	UpdateTrainingSession(ctx context.Context, session TrainingSession) (bool, error)
	DeleteTrainingSession(ctx context.Context, id int) (bool, error)
}

// SessionUserRegistrations resolves the sessions a user is signed up for.
type SessionUserRegistrations interface {
	ListParticipantsByUser(ctx context.Context, userID int) ([]Participant, error)
}

// TrainingSessionService manages the lifecycle of training sessions.
type TrainingSessionService struct {
	sessions     TrainingSessionRepository
	participants SessionUserRegistrations
	now          func() time.Time
	logger       *slog.Logger
}

// NewTrainingSessionService wires dependencies for session operations.
func NewTrainingSessionService(sessions TrainingSessionRepository, participants SessionUserRegistrations, now func() time.Time) *TrainingSessionService {
	return NewTrainingSessionServiceWithLogger(sessions, participants, now, nil)
}

// NewTrainingSessionServiceWithLogger constructs a TrainingSessionService with a specified logger.
func NewTrainingSessionServiceWithLogger(sessions TrainingSessionRepository, participants SessionUserRegistrations, now func() time.Time, logger *slog.Logger) *TrainingSessionService {
	if now == nil {
		now = time.Now
	}
	return &TrainingSessionService{
		sessions:     sessions,
		participants: participants,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *TrainingSessionService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "TrainingSessionService", operation, attrs...)
}

// ListSessions returns all sessions ordered by start time.
func (s *TrainingSessionService) ListSessions(ctx context.Context) ([]TrainingSession, error) {
	if s == nil || s.sessions == nil {
		return nil, fmt.Errorf("session repository not configured")
	}
	return s.sessions.ListSessions(ctx)
}

// ListSessionsByRequest returns the sessions linked from a training request.
func (s *TrainingSessionService) ListSessionsByRequest(ctx context.Context, requestID int) ([]TrainingSession, error) {
	if s == nil || s.sessions == nil {
		return nil, fmt.Errorf("session repository not configured")
	}
	return s.sessions.ListSessionsByRequest(ctx, requestID)
}

// ListRegisteredSessionsByUser returns the sessions a user holds an active
// registration for, ordered by start time.
func (s *TrainingSessionService) ListRegisteredSessionsByUser(ctx context.Context, userID int) ([]TrainingSession, error) {
	if s == nil || s.sessions == nil {
		return nil, fmt.Errorf("session repository not configured")
	}
	if s.participants == nil {
		return nil, fmt.Errorf("participant repository not configured")
	}

	registrations, err := s.participants.ListParticipantsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var sessions []TrainingSession
	for _, registration := range registrations {
		if !isActiveRegistration(registration.Status) {
			continue
		}
		session, err := s.sessions.GetTrainingSession(ctx, registration.SessionID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		sessions = append(sessions, session)
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		if sessions[i].Start.Equal(sessions[j].Start) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].Start.Before(sessions[j].Start)
	})
	return sessions, nil
}

// GetSession retrieves a training session by id.
func (s *TrainingSessionService) GetSession(ctx context.Context, id int) (TrainingSession, error) {
	if s == nil || s.sessions == nil {
		return TrainingSession{}, fmt.Errorf("session repository not configured")
	}
	return s.sessions.GetTrainingSession(ctx, id)
}

func validateSessionCore(input SessionInput, vErr *ValidationError) {
	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}
	if strings.TrimSpace(input.Trainer) == "" {
		vErr.add("trainer", "trainer is required")
	}
	if input.Start.IsZero() {
		vErr.add("start", "start is required")
	}
	if input.End.IsZero() {
		vErr.add("end", "end is required")
	}
	if !input.Start.IsZero() && !input.End.IsZero() && input.End.Before(input.Start) {
		vErr.add("time", "end must not be before start")
	}
	if input.MaxParticipants < 0 {
		vErr.add("max_participants", "max participants must not be negative")
	}
}

// CreateSession validates and stores a new training session. New sessions
// start scheduled with an empty participant counter.
func (s *TrainingSessionService) CreateSession(ctx context.Context, input SessionInput) (session TrainingSession, err error) {
	if s == nil || s.sessions == nil {
		err = fmt.Errorf("session repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateSession", "trainer", input.Trainer)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "session creation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("session_id", session.ID).InfoContext(ctx, "session created")
	}()

	vErr := &ValidationError{}
	validateSessionCore(input, vErr)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	session = TrainingSession{
		Title:               strings.TrimSpace(input.Title),
		Start:               input.Start,
		End:                 input.End,
		Trainer:             strings.TrimSpace(input.Trainer),
		Location:            input.Location,
		Description:         input.Description,
		Status:              SessionStatusScheduled,
		MaxParticipants:     input.MaxParticipants,
		CurrentParticipants: 0,
		CreatedAt:           s.now(),
	}

	id, insertErr := s.sessions.InsertTrainingSession(ctx, session)
	if insertErr != nil {
		err = insertErr
		session = TrainingSession{}
		return
	}
	session.ID = id
	return session, nil
}

// UpdateSession replaces a session's caller-editable fields and refreshes
// its update time. The participant counter and creation time are owned by
// the registration flow and preserved here.
func (s *TrainingSessionService) UpdateSession(ctx context.Context, id int, input SessionInput) (session TrainingSession, err error) {
	if s == nil || s.sessions == nil {
		err = fmt.Errorf("session repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateSession", "session_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "session update failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "session updated")
	}()

	vErr := &ValidationError{}
	validateSessionCore(input, vErr)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	existing, getErr := s.sessions.GetTrainingSession(ctx, id)
	if getErr != nil {
		err = getErr
		return
	}

	now := s.now()
	existing.Title = strings.TrimSpace(input.Title)
	existing.Start = input.Start
	existing.End = input.End
	existing.Trainer = strings.TrimSpace(input.Trainer)
	existing.Location = input.Location
	existing.Description = input.Description
	if input.Status != "" {
		existing.Status = input.Status
	}
	existing.MaxParticipants = input.MaxParticipants
	existing.UpdatedAt = &now

	ok, updateErr := s.sessions.UpdateTrainingSession(ctx, existing)
	if updateErr != nil {
		err = updateErr
		return
	}
	if !ok {
		err = ErrNotFound
		return
	}
	return existing, nil
}

// DeleteSession removes a training session.
func (s *TrainingSessionService) DeleteSession(ctx context.Context, id int) error {
	if s == nil || s.sessions == nil {
		return fmt.Errorf("session repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteSession", "session_id", id)

	deleted, err := s.sessions.DeleteTrainingSession(ctx, id)
	if err != nil {
		logger.ErrorContext(ctx, "session deletion failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	logger.InfoContext(ctx, "session deleted")
	return nil
}
