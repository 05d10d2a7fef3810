package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

type sessionStoreStub struct {
	sessions  map[int]TrainingSession
	getErr    error
	updateErr error
	updated   int
}

func newSessionStoreStub(sessions ...TrainingSession) *sessionStoreStub {
	stub := &sessionStoreStub{sessions: make(map[int]TrainingSession, len(sessions))}
	for _, session := range sessions {
		stub.sessions[session.ID] = session
	}
	return stub
}

func (s *sessionStoreStub) GetTrainingSession(ctx context.Context, id int) (TrainingSession, error) {
	if s.getErr != nil {
		return TrainingSession{}, s.getErr
	}
	session, ok := s.sessions[id]
	if !ok {
		return TrainingSession{}, ErrNotFound
	}
	return session, nil
}

func (s *sessionStoreStub) UpdateTrainingSession(ctx context.Context, session TrainingSession) (bool, error) {
	if s.updateErr != nil {
		return false, s.updateErr
	}
	if _, ok := s.sessions[session.ID]; !ok {
		return false, nil
	}
	s.sessions[session.ID] = session
	s.updated++
	return true, nil
}

type participantRepoStub struct {
	rows      map[int]Participant
	nextID    int
	insertErr error
	updateErr error
	deleteErr error
}

func newParticipantRepoStub(rows ...Participant) *participantRepoStub {
	stub := &participantRepoStub{rows: make(map[int]Participant, len(rows))}
	for _, row := range rows {
		stub.rows[row.ID] = row
		if row.ID > stub.nextID {
			stub.nextID = row.ID
		}
	}
	return stub
}

func (p *participantRepoStub) FindParticipant(ctx context.Context, userID, sessionID int) (Participant, error) {
	for _, row := range p.rows {
		if row.UserID == userID && row.SessionID == sessionID {
			return row, nil
		}
	}
	return Participant{}, ErrNotFound
}

func (p *participantRepoStub) ListParticipantsBySession(ctx context.Context, sessionID int) ([]Participant, error) {
	var out []Participant
	for _, row := range p.rows {
		if row.SessionID == sessionID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (p *participantRepoStub) ListParticipantsByUser(ctx context.Context, userID int) ([]Participant, error) {
	var out []Participant
	for _, row := range p.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (p *participantRepoStub) InsertParticipant(ctx context.Context, participant Participant) (int, error) {
	if p.insertErr != nil {
		return 0, p.insertErr
	}
	p.nextID++
	participant.ID = p.nextID
	p.rows[participant.ID] = participant
	return participant.ID, nil
}

func (p *participantRepoStub) UpdateParticipant(ctx context.Context, participant Participant) (bool, error) {
	if p.updateErr != nil {
		return false, p.updateErr
	}
	if _, ok := p.rows[participant.ID]; !ok {
		return false, nil
	}
	p.rows[participant.ID] = participant
	return true, nil
}

func (p *participantRepoStub) DeleteParticipant(ctx context.Context, id int) (bool, error) {
	if p.deleteErr != nil {
		return false, p.deleteErr
	}
	if _, ok := p.rows[id]; !ok {
		return false, nil
	}
	delete(p.rows, id)
	return true, nil
}

type participantDirectoryStub struct {
	users map[int]User
}

func (d *participantDirectoryStub) GetUser(ctx context.Context, id int) (User, error) {
	user, ok := d.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func fixedClock(t *testing.T, hour int) func() time.Time {
	t.Helper()
	return func() time.Time {
		return time.Date(2025, 3, 3, hour, 0, 0, 0, time.UTC)
	}
}

func TestRegistrationService_Register_KeepsCounterConsistentAcrossChurn(t *testing.T) {
	t.Parallel()

	sessions := newSessionStoreStub(TrainingSession{
		ID:              1,
		Title:           "Go fundamentals",
		Status:          SessionStatusScheduled,
		MaxParticipants: 2,
	})
	participants := newParticipantRepoStub()
	svc := NewRegistrationService(sessions, participants, nil, fixedClock(t, 9))

	ctx := context.Background()

	if _, err := svc.Register(ctx, 10, 1); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if _, err := svc.Register(ctx, 11, 1); err != nil {
		t.Fatalf("second registration failed: %v", err)
	}
	if sessions.sessions[1].CurrentParticipants != 2 {
		t.Fatalf("expected counter 2, got %d", sessions.sessions[1].CurrentParticipants)
	}

	if _, err := svc.Register(ctx, 12, 1); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded for a full session, got %v", err)
	}
	if sessions.sessions[1].CurrentParticipants != 2 {
		t.Fatalf("rejected registration must not move the counter, got %d", sessions.sessions[1].CurrentParticipants)
	}

	removed, err := svc.Unregister(ctx, 10, 1)
	if err != nil || !removed {
		t.Fatalf("expected unregistration to remove the record, got removed=%v err=%v", removed, err)
	}
	if sessions.sessions[1].CurrentParticipants != 1 {
		t.Fatalf("expected counter 1 after unregistration, got %d", sessions.sessions[1].CurrentParticipants)
	}

	if _, err := svc.Register(ctx, 12, 1); err != nil {
		t.Fatalf("registration into freed capacity failed: %v", err)
	}
	if sessions.sessions[1].CurrentParticipants != 2 {
		t.Fatalf("expected counter 2 after refilling, got %d", sessions.sessions[1].CurrentParticipants)
	}
}

func TestRegistrationService_Register_RejectsDuplicateActiveRegistration(t *testing.T) {
	t.Parallel()

	sessions := newSessionStoreStub(TrainingSession{ID: 1, MaxParticipants: 5, CurrentParticipants: 1})
	participants := newParticipantRepoStub(Participant{
		ID: 1, UserID: 10, SessionID: 1, Status: ParticipantStatusRegistered,
	})
	svc := NewRegistrationService(sessions, participants, nil, fixedClock(t, 9))

	if _, err := svc.Register(context.Background(), 10, 1); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate registration, got %v", err)
	}
}

func TestRegistrationService_Register_RevivesCancelledRegistration(t *testing.T) {
	t.Parallel()

	sessions := newSessionStoreStub(TrainingSession{ID: 1, MaxParticipants: 5})
	participants := newParticipantRepoStub(Participant{
		ID: 7, UserID: 10, SessionID: 1, Status: ParticipantStatusCancelled,
	})
	svc := NewRegistrationService(sessions, participants, nil, fixedClock(t, 9))

	participant, err := svc.Register(context.Background(), 10, 1)
	if err != nil {
		t.Fatalf("expected cancelled registration to be revived, got %v", err)
	}

	if participant.ID != 7 {
		t.Fatalf("expected the existing row to be reused, got ID %d", participant.ID)
	}
	if participant.Status != ParticipantStatusRegistered {
		t.Fatalf("expected status registered, got %q", participant.Status)
	}
	if len(participants.rows) != 1 {
		t.Fatalf("expected a single registration row, got %d", len(participants.rows))
	}
	if sessions.sessions[1].CurrentParticipants != 1 {
		t.Fatalf("expected counter 1, got %d", sessions.sessions[1].CurrentParticipants)
	}
}

func TestRegistrationService_Register_RollsBackRecordWhenCounterUpdateFails(t *testing.T) {
	t.Parallel()

	sessions := newSessionStoreStub(TrainingSession{ID: 1, MaxParticipants: 5})
	sessions.updateErr = errors.New("storage offline")
	participants := newParticipantRepoStub()
	svc := NewRegistrationService(sessions, participants, nil, fixedClock(t, 9))

	_, err := svc.Register(context.Background(), 10, 1)
	if err == nil {
		t.Fatalf("expected registration to surface the counter update failure")
	}
	if len(participants.rows) != 0 {
		t.Fatalf("expected registration record to be rolled back, got %d rows", len(participants.rows))
	}
}

func TestRegistrationService_Register_ReturnsNotFoundForUnknownSession(t *testing.T) {
	t.Parallel()

	svc := NewRegistrationService(newSessionStoreStub(), newParticipantRepoStub(), nil, fixedClock(t, 9))

	if _, err := svc.Register(context.Background(), 10, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRegistrationService_Unregister_ReportsFalseWhenNoActiveRegistration(t *testing.T) {
	t.Parallel()

	sessions := newSessionStoreStub(TrainingSession{ID: 1, MaxParticipants: 5})
	participants := newParticipantRepoStub(Participant{
		ID: 1, UserID: 10, SessionID: 1, Status: ParticipantStatusCancelled,
	})
	svc := NewRegistrationService(sessions, participants, nil, fixedClock(t, 9))

	removed, err := svc.Unregister(context.Background(), 10, 1)
	if err != nil {
		t.Fatalf("expected no error for cancelled registration, got %v", err)
	}
	if removed {
		t.Fatalf("expected removed=false for a cancelled registration")
	}

	removed, err = svc.Unregister(context.Background(), 42, 1)
	if err != nil || removed {
		t.Fatalf("expected removed=false without error for unknown pair, got removed=%v err=%v", removed, err)
	}
}

func TestRegistrationService_Unregister_NeverDrivesCounterNegative(t *testing.T) {
	t.Parallel()

	sessions := newSessionStoreStub(TrainingSession{ID: 1, MaxParticipants: 5, CurrentParticipants: 0})
	participants := newParticipantRepoStub(Participant{
		ID: 1, UserID: 10, SessionID: 1, Status: ParticipantStatusRegistered,
	})
	svc := NewRegistrationService(sessions, participants, nil, fixedClock(t, 9))

	removed, err := svc.Unregister(context.Background(), 10, 1)
	if err != nil || !removed {
		t.Fatalf("expected unregistration to succeed, got removed=%v err=%v", removed, err)
	}
	if sessions.sessions[1].CurrentParticipants != 0 {
		t.Fatalf("counter must not go negative, got %d", sessions.sessions[1].CurrentParticipants)
	}
}

func TestRegistrationService_Unregister_RestoresRecordWhenCounterUpdateFails(t *testing.T) {
	t.Parallel()

	sessions := newSessionStoreStub(TrainingSession{ID: 1, MaxParticipants: 5, CurrentParticipants: 1})
	sessions.updateErr = errors.New("storage offline")
	participants := newParticipantRepoStub(Participant{
		ID: 1, UserID: 10, SessionID: 1, Status: ParticipantStatusRegistered,
	})
	svc := NewRegistrationService(sessions, participants, nil, fixedClock(t, 9))

	_, err := svc.Unregister(context.Background(), 10, 1)
	if err == nil {
		t.Fatalf("expected unregistration to surface the counter update failure")
	}
	if len(participants.rows) != 1 {
		t.Fatalf("expected registration record to be restored, got %d rows", len(participants.rows))
	}
}

func TestRegistrationService_UpdateParticipantStatus_StampsAttendanceTime(t *testing.T) {
	t.Parallel()

	now := fixedClock(t, 14)
	attendedAt := now()
	participants := newParticipantRepoStub(Participant{
		ID: 1, UserID: 10, SessionID: 1, Status: ParticipantStatusRegistered,
	})
	sessions := newSessionStoreStub(TrainingSession{ID: 1, MaxParticipants: 5, CurrentParticipants: 1})
	svc := NewRegistrationService(sessions, participants, nil, now)

	participant, err := svc.UpdateParticipantStatus(context.Background(), 10, 1, ParticipantStatusAttended)
	if err != nil {
		t.Fatalf("status update failed: %v", err)
	}
	if participant.AttendedAt == nil || !participant.AttendedAt.Equal(attendedAt) {
		t.Fatalf("expected attendance time %v, got %v", attendedAt, participant.AttendedAt)
	}
	if sessions.updated != 0 {
		t.Fatalf("status updates must not touch the participant counter")
	}

	participant, err = svc.UpdateParticipantStatus(context.Background(), 10, 1, ParticipantStatusRegistered)
	if err != nil {
		t.Fatalf("status update failed: %v", err)
	}
	if participant.AttendedAt != nil {
		t.Fatalf("expected attendance time to be cleared, got %v", participant.AttendedAt)
	}
}

func TestRegistrationService_UpdateParticipantStatus_MarksNoShowWithoutStamp(t *testing.T) {
	t.Parallel()

	now := fixedClock(t, 14)
	attendedAt := now()
	participants := newParticipantRepoStub(Participant{
		ID: 1, UserID: 10, SessionID: 1, Status: ParticipantStatusAttended, AttendedAt: &attendedAt,
	})
	sessions := newSessionStoreStub(TrainingSession{ID: 1, MaxParticipants: 5, CurrentParticipants: 1})
	svc := NewRegistrationService(sessions, participants, nil, now)

	participant, err := svc.UpdateParticipantStatus(context.Background(), 10, 1, ParticipantStatusNoShow)
	if err != nil {
		t.Fatalf("status update failed: %v", err)
	}
	if participant.Status != ParticipantStatusNoShow {
		t.Fatalf("expected no-show status, got %q", participant.Status)
	}
	if participant.AttendedAt != nil {
		t.Fatalf("expected no attendance stamp for a no-show, got %v", participant.AttendedAt)
	}
}

func TestRegistrationService_UpdateParticipantStatus_RequiresStatus(t *testing.T) {
	t.Parallel()

	svc := NewRegistrationService(newSessionStoreStub(), newParticipantRepoStub(), nil, fixedClock(t, 9))

	_, err := svc.UpdateParticipantStatus(context.Background(), 10, 1, "")

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["status"]; !ok {
		t.Fatalf("expected status validation error, got %v", vErr.FieldErrors)
	}
}

func TestRegistrationService_ListSessionParticipants_AnnotatesUsers(t *testing.T) {
	t.Parallel()

	participants := newParticipantRepoStub(
		Participant{ID: 1, UserID: 10, SessionID: 1, Status: ParticipantStatusRegistered},
		Participant{ID: 2, UserID: 99, SessionID: 1, Status: ParticipantStatusRegistered},
	)
	users := &participantDirectoryStub{users: map[int]User{
		10: {ID: 10, Name: "Aiko Tanaka", Email: "aiko@example.com"},
	}}
	svc := NewRegistrationService(newSessionStoreStub(), participants, users, fixedClock(t, 9))

	listed, err := svc.ListSessionParticipants(context.Background(), 1)
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}

	if len(listed) != 1 {
		t.Fatalf("expected orphaned registration to be dropped, got %d rows", len(listed))
	}
	if listed[0].UserName != "Aiko Tanaka" || listed[0].UserEmail != "aiko@example.com" {
		t.Fatalf("expected user annotation, got %+v", listed[0])
	}
}
