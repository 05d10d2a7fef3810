package jsonfile

import (
	"context"
	"sort"

	"github.com/example/training-management/internal/persistence"
)

func sortParticipantsByRegistration(participants []persistence.TrainingParticipant) {
	sort.Slice(participants, func(i, j int) bool {
		if participants[i].RegisteredAt.Equal(participants[j].RegisteredAt) {
			return participants[i].ID < participants[j].ID
		}
		return participants[i].RegisteredAt.Before(participants[j].RegisteredAt)
	})
}

// ListParticipants returns every participant row ordered by registration time.
func (s *Store) ListParticipants(ctx context.Context) ([]persistence.TrainingParticipant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	participants, err := readList[persistence.TrainingParticipant](s.path(participantsFile))
	if err != nil {
		return nil, err
	}
	sortParticipantsByRegistration(participants)
	return participants, nil
}

// ListParticipantsBySession returns a session's participant rows ordered by
// registration time.
func (s *Store) ListParticipantsBySession(ctx context.Context, sessionID int) ([]persistence.TrainingParticipant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	participants, err := readList[persistence.TrainingParticipant](s.path(participantsFile))
	if err != nil {
		return nil, err
	}
	filtered := participants[:0:0]
	for _, participant := range participants {
		if participant.SessionID == sessionID {
			filtered = append(filtered, participant)
		}
	}
	sortParticipantsByRegistration(filtered)
	return filtered, nil
}

// ListParticipantsByUser returns a user's participant rows ordered by
// registration time.
func (s *Store) ListParticipantsByUser(ctx context.Context, userID int) ([]persistence.TrainingParticipant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	participants, err := readList[persistence.TrainingParticipant](s.path(participantsFile))
	if err != nil {
		return nil, err
	}
	filtered := participants[:0:0]
	for _, participant := range participants {
		if participant.UserID == userID {
			filtered = append(filtered, participant)
		}
	}
	sortParticipantsByRegistration(filtered)
	return filtered, nil
}

// FindParticipant returns the row for the (user, session) pair.
func (s *Store) FindParticipant(ctx context.Context, userID, sessionID int) (persistence.TrainingParticipant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	participants, err := readList[persistence.TrainingParticipant](s.path(participantsFile))
	if err != nil {
		return persistence.TrainingParticipant{}, err
	}
	for _, participant := range participants {
		if participant.UserID == userID && participant.SessionID == sessionID {
			return participant, nil
		}
	}
	return persistence.TrainingParticipant{}, persistence.ErrNotFound
}

// InsertParticipant stores a new participant row and returns the assigned id.
func (s *Store) InsertParticipant(ctx context.Context, participant persistence.TrainingParticipant) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	participants, err := readList[persistence.TrainingParticipant](s.path(participantsFile))
	if err != nil {
		return 0, err
	}
	for _, existing := range participants {
		if existing.UserID == participant.UserID && existing.SessionID == participant.SessionID {
			return 0, persistence.ErrDuplicate
		}
	}

	participant.ID = nextID(participants, func(p persistence.TrainingParticipant) int { return p.ID })
	participants = append(participants, participant)
	if err := writeList(s.path(participantsFile), participants); err != nil {
		return 0, err
	}
	return participant.ID, nil
}

// UpdateParticipant replaces an existing participant row.
func (s *Store) UpdateParticipant(ctx context.Context, participant persistence.TrainingParticipant) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	participants, err := readList[persistence.TrainingParticipant](s.path(participantsFile))
	if err != nil {
		return false, err
	}
	for i, existing := range participants {
		if existing.ID == participant.ID {
			participants[i] = participant
			return true, writeList(s.path(participantsFile), participants)
		}
	}
	return false, nil
}

// DeleteParticipant removes a participant row by id.
func (s *Store) DeleteParticipant(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	participants, err := readList[persistence.TrainingParticipant](s.path(participantsFile))
	if err != nil {
		return false, err
	}
	for i, existing := range participants {
		if existing.ID == id {
			participants = append(participants[:i], participants[i+1:]...)
			return true, writeList(s.path(participantsFile), participants)
		}
	}
	return false, nil
}

// ListAttendance returns every attendance record.
func (s *Store) ListAttendance(ctx context.Context) ([]persistence.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := readList[persistence.Attendance](s.path(attendanceFile))
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

// ListAttendanceBySession returns the attendance records for a session.
func (s *Store) ListAttendanceBySession(ctx context.Context, sessionID int) ([]persistence.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := readList[persistence.Attendance](s.path(attendanceFile))
	if err != nil {
		return nil, err
	}
	filtered := records[:0:0]
	for _, record := range records {
		if record.SessionID == sessionID {
			filtered = append(filtered, record)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].ID < filtered[j].ID })
	return filtered, nil
}

// InsertAttendance stores a new attendance record and returns the assigned id.
func (s *Store) InsertAttendance(ctx context.Context, record persistence.Attendance) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := readList[persistence.Attendance](s.path(attendanceFile))
	if err != nil {
		return 0, err
	}
	record.ID = nextID(records, func(a persistence.Attendance) int { return a.ID })
	records = append(records, record)
	if err := writeList(s.path(attendanceFile), records); err != nil {
		return 0, err
	}
	return record.ID, nil
}

// GetAuthSessionByToken retrieves a bearer session by its token.
func (s *Store) GetAuthSessionByToken(ctx context.Context, token string) (persistence.AuthSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := readList[persistence.AuthSession](s.path(authSessionsFile))
	if err != nil {
		return persistence.AuthSession{}, err
	}
	for _, session := range sessions {
		if session.Token == token {
			return session, nil
		}
	}
	return persistence.AuthSession{}, persistence.ErrNotFound
}

// InsertAuthSession stores a new bearer session and returns the assigned id.
func (s *Store) InsertAuthSession(ctx context.Context, session persistence.AuthSession) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := readList[persistence.AuthSession](s.path(authSessionsFile))
	if err != nil {
		return 0, err
	}
	for _, existing := range sessions {
		if existing.Token == session.Token {
			return 0, persistence.ErrDuplicate
		}
	}
	session.ID = nextID(sessions, func(a persistence.AuthSession) int { return a.ID })
	sessions = append(sessions, session)
	if err := writeList(s.path(authSessionsFile), sessions); err != nil {
		return 0, err
	}
	return session.ID, nil
}

// UpdateAuthSession replaces an existing bearer session row.
func (s *Store) UpdateAuthSession(ctx context.Context, session persistence.AuthSession) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := readList[persistence.AuthSession](s.path(authSessionsFile))
	if err != nil {
		return false, err
	}
	for i, existing := range sessions {
		if existing.ID == session.ID {
			sessions[i] = session
			return true, writeList(s.path(authSessionsFile), sessions)
		}
	}
	return false, nil
}
