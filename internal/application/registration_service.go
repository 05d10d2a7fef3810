package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// SessionStore captures the session lookups and counter updates needed by
// the registration flow.
type SessionStore interface {
	GetTrainingSession(ctx context.Context, id int) (TrainingSession, error)
	UpdateTrainingSession(ctx context.Context, session TrainingSession) (bool, error)
}

// ParticipantRepository captures the persistence interactions for
// registration records.
type ParticipantRepository interface {
	FindParticipant(ctx context.Context, userID, sessionID int) (Participant, error)
	ListParticipantsBySession(ctx context.Context, sessionID int) ([]Participant, error)
	ListParticipantsByUser(ctx context.Context, userID int) ([]Participant, error)
	InsertParticipant(ctx context.Context, participant Participant) (int, error)
	UpdateParticipant(ctx context.Context, participant Participant) (bool, error)
	DeleteParticipant(ctx context.Context, id int) (bool, error)
}

// ParticipantUserDirectory resolves the users behind registration records.
type ParticipantUserDirectory interface {
	GetUser(ctx context.Context, id int) (User, error)
}

// RegistrationService enforces the capacity and duplicate-registration
// rules for session sign-ups and keeps the per-session participant counter
// consistent with the registration records.
type RegistrationService struct {
	sessions     SessionStore
	participants ParticipantRepository
	users        ParticipantUserDirectory
	now          func() time.Time
	logger       *slog.Logger
}

// NewRegistrationService wires dependencies for registration operations.
func NewRegistrationService(sessions SessionStore, participants ParticipantRepository, users ParticipantUserDirectory, now func() time.Time) *RegistrationService {
	return NewRegistrationServiceWithLogger(sessions, participants, users, now, nil)
}

// NewRegistrationServiceWithLogger constructs a RegistrationService with a specified logger.
func NewRegistrationServiceWithLogger(sessions SessionStore, participants ParticipantRepository, users ParticipantUserDirectory, now func() time.Time, logger *slog.Logger) *RegistrationService {
	if now == nil {
		now = time.Now
	}
	return &RegistrationService{
		sessions:     sessions,
		participants: participants,
		users:        users,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *RegistrationService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RegistrationService", operation, attrs...)
}

func isActiveRegistration(status string) bool {
	return status == ParticipantStatusRegistered || status == ParticipantStatusAttended
}

// Register signs a user up for a session. It rejects duplicate active
// registrations with ErrConflict and full sessions with
// ErrCapacityExceeded. A previously cancelled registration for the same
// pair is revived instead of inserting a second row.
func (s *RegistrationService) Register(ctx context.Context, userID, sessionID int) (participant Participant, err error) {
	if s == nil {
		err = fmt.Errorf("RegistrationService is nil")
		return
	}
	if s.sessions == nil || s.participants == nil {
		err = fmt.Errorf("registration stores not configured")
		return
	}

	logger := s.loggerWith(ctx, "Register", "user_id", userID, "session_id", sessionID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "registration failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("participant_id", participant.ID).InfoContext(ctx, "registration succeeded")
	}()

	existing, findErr := s.participants.FindParticipant(ctx, userID, sessionID)
	haveRow := findErr == nil
	if findErr != nil && !errors.Is(findErr, ErrNotFound) {
		err = findErr
		return
	}
	if haveRow && isActiveRegistration(existing.Status) {
		err = ErrConflict
		return
	}

	session, getErr := s.sessions.GetTrainingSession(ctx, sessionID)
	if getErr != nil {
		err = getErr
		return
	}
	if session.CurrentParticipants >= session.MaxParticipants {
		err = ErrCapacityExceeded
		return
	}

	now := s.now()
	original := existing
	if haveRow {
		existing.Status = ParticipantStatusRegistered
		existing.RegisteredAt = now
		existing.AttendedAt = nil
		ok, updateErr := s.participants.UpdateParticipant(ctx, existing)
		if updateErr != nil {
			err = updateErr
			return
		}
		if !ok {
			err = ErrNotFound
			return
		}
		participant = existing
	} else {
		participant = Participant{
			UserID:       userID,
			SessionID:    sessionID,
			Status:       ParticipantStatusRegistered,
			RegisteredAt: now,
		}
		id, insertErr := s.participants.InsertParticipant(ctx, participant)
		if insertErr != nil {
			if errors.Is(insertErr, ErrAlreadyExists) {
				err = ErrConflict
				return
			}
			err = insertErr
			return
		}
		participant.ID = id
	}

	session.CurrentParticipants++
	ok, updateErr := s.sessions.UpdateTrainingSession(ctx, session)
	if updateErr == nil && !ok {
		updateErr = ErrNotFound
	}
	if updateErr != nil {
		// The registration record and the counter must move together, so
		// undo the record when the counter update does not land.
		s.compensateRegister(ctx, logger, participant, haveRow, original)
		err = updateErr
		participant = Participant{}
		return
	}

	return participant, nil
}

func (s *RegistrationService) compensateRegister(ctx context.Context, logger *slog.Logger, participant Participant, revived bool, original Participant) {
	if revived {
		original.Status = ParticipantStatusCancelled
		if _, err := s.participants.UpdateParticipant(ctx, original); err != nil {
			logger.ErrorContext(ctx, "failed to roll back revived registration", "error", err)
		}
		return
	}
	if _, err := s.participants.DeleteParticipant(ctx, participant.ID); err != nil {
		logger.ErrorContext(ctx, "failed to roll back registration record", "error", err)
	}
}

// Unregister removes a user's active registration from a session and
// decrements the participant counter. It reports false without error when
// no active registration exists.
func (s *RegistrationService) Unregister(ctx context.Context, userID, sessionID int) (removed bool, err error) {
	if s == nil {
		err = fmt.Errorf("RegistrationService is nil")
		return
	}
	if s.sessions == nil || s.participants == nil {
		err = fmt.Errorf("registration stores not configured")
		return
	}

	logger := s.loggerWith(ctx, "Unregister", "user_id", userID, "session_id", sessionID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "unregistration failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("removed", removed).InfoContext(ctx, "unregistration finished")
	}()

	existing, findErr := s.participants.FindParticipant(ctx, userID, sessionID)
	if findErr != nil {
		if errors.Is(findErr, ErrNotFound) {
			return false, nil
		}
		err = findErr
		return
	}
	if !isActiveRegistration(existing.Status) {
		return false, nil
	}

	deleted, deleteErr := s.participants.DeleteParticipant(ctx, existing.ID)
	if deleteErr != nil {
		err = deleteErr
		return
	}
	if !deleted {
		return false, nil
	}

	session, getErr := s.sessions.GetTrainingSession(ctx, sessionID)
	if getErr != nil {
		err = s.compensateUnregister(ctx, logger, existing, getErr)
		return
	}
	if session.CurrentParticipants > 0 {
		session.CurrentParticipants--
	}
	ok, updateErr := s.sessions.UpdateTrainingSession(ctx, session)
	if updateErr == nil && !ok {
		updateErr = ErrNotFound
	}
	if updateErr != nil {
		err = s.compensateUnregister(ctx, logger, existing, updateErr)
		return
	}

	return true, nil
}

func (s *RegistrationService) compensateUnregister(ctx context.Context, logger *slog.Logger, participant Participant, cause error) error {
	participant.ID = 0
	if _, err := s.participants.InsertParticipant(ctx, participant); err != nil {
		logger.ErrorContext(ctx, "failed to restore registration record", "error", err)
	}
	return cause
}

// UpdateParticipantStatus changes the registration status for a
// (user, session) pair. A switch to attended stamps the attendance time;
// any other status clears it. The participant counter is untouched.
func (s *RegistrationService) UpdateParticipantStatus(ctx context.Context, userID, sessionID int, status string) (participant Participant, err error) {
	if s == nil {
		err = fmt.Errorf("RegistrationService is nil")
		return
	}
	if s.participants == nil {
		err = fmt.Errorf("participant repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateParticipantStatus",
		"user_id", userID, "session_id", sessionID, "status", status)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "participant status update failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "participant status updated")
	}()

	if status == "" {
		vErr := &ValidationError{}
		vErr.add("status", "status is required")
		err = vErr
		return
	}

	existing, findErr := s.participants.FindParticipant(ctx, userID, sessionID)
	if findErr != nil {
		err = findErr
		return
	}

	existing.Status = status
	if status == ParticipantStatusAttended {
		now := s.now()
		existing.AttendedAt = &now
	} else {
		existing.AttendedAt = nil
	}

	ok, updateErr := s.participants.UpdateParticipant(ctx, existing)
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

// ListSessionParticipants returns a session's registrations ordered by
// registration time, annotated with each user's name and email. Records
// whose user no longer exists are dropped.
func (s *RegistrationService) ListSessionParticipants(ctx context.Context, sessionID int) ([]Participant, error) {
	if s == nil {
		return nil, fmt.Errorf("RegistrationService is nil")
	}
	if s.participants == nil {
		return nil, fmt.Errorf("participant repository not configured")
	}

	participants, err := s.participants.ListParticipantsBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	annotated := make([]Participant, 0, len(participants))
	for _, participant := range participants {
		if s.users != nil {
			user, err := s.users.GetUser(ctx, participant.UserID)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return nil, err
			}
			participant.UserName = user.Name
			participant.UserEmail = user.Email
		}
		annotated = append(annotated, participant)
	}
	return annotated, nil
}

// ListUserRegistrations returns all registration records for a user.
func (s *RegistrationService) ListUserRegistrations(ctx context.Context, userID int) ([]Participant, error) {
	if s == nil {
		return nil, fmt.Errorf("RegistrationService is nil")
	}
	if s.participants == nil {
		return nil, fmt.Errorf("participant repository not configured")
	}
	return s.participants.ListParticipantsByUser(ctx, userID)
}
