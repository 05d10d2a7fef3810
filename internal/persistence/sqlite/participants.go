package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/training-management/internal/persistence"
)

const participantColumns = `id, user_id, session_id, status, registered_at, attended_at`

func scanParticipant(row interface{ Scan(...any) error }) (persistence.TrainingParticipant, error) {
	var participant persistence.TrainingParticipant
	var registeredAt string
	var attendedAt sql.NullString

	err := row.Scan(&participant.ID, &participant.UserID, &participant.SessionID,
		&participant.Status, &registeredAt, &attendedAt)
	if err != nil {
		return persistence.TrainingParticipant{}, err
	}

	if participant.RegisteredAt, err = parseTime(registeredAt); err != nil {
		return persistence.TrainingParticipant{}, err
	}
	if participant.AttendedAt, err = scanNullableTime(attendedAt); err != nil {
		return persistence.TrainingParticipant{}, err
	}
	return participant, nil
}

func (s *Store) queryParticipants(ctx context.Context, query string, args ...any) ([]persistence.TrainingParticipant, error) {
	rows, err := s.pool.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var participants []persistence.TrainingParticipant
	for rows.Next() {
		participant, err := scanParticipant(rows)
		if err != nil {
			return nil, mapError(err)
		}
		participants = append(participants, participant)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return participants, nil
}

// ListParticipants returns every participant row ordered by registration time.
func (s *Store) ListParticipants(ctx context.Context) ([]persistence.TrainingParticipant, error) {
	return s.queryParticipants(ctx,
		`SELECT `+participantColumns+` FROM training_participants ORDER BY registered_at ASC, id ASC`)
}

// ListParticipantsBySession returns a session's participant rows ordered by
// registration time.
func (s *Store) ListParticipantsBySession(ctx context.Context, sessionID int) ([]persistence.TrainingParticipant, error) {
	return s.queryParticipants(ctx,
		`SELECT `+participantColumns+` FROM training_participants WHERE session_id = ? ORDER BY registered_at ASC, id ASC`,
		sessionID)
}

// ListParticipantsByUser returns a user's participant rows ordered by
// registration time.
func (s *Store) ListParticipantsByUser(ctx context.Context, userID int) ([]persistence.TrainingParticipant, error) {
	return s.queryParticipants(ctx,
		`SELECT `+participantColumns+` FROM training_participants WHERE user_id = ? ORDER BY registered_at ASC, id ASC`,
		userID)
}

// FindParticipant returns the row for the (user, session) pair.
func (s *Store) FindParticipant(ctx context.Context, userID, sessionID int) (persistence.TrainingParticipant, error) {
	row := s.pool.DB().QueryRowContext(ctx,
		`SELECT `+participantColumns+` FROM training_participants WHERE user_id = ? AND session_id = ?`,
		userID, sessionID)
	participant, err := scanParticipant(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.TrainingParticipant{}, persistence.ErrNotFound
		}
		return persistence.TrainingParticipant{}, mapError(err)
	}
	return participant, nil
}

// InsertParticipant stores a new participant row and returns the assigned id.
func (s *Store) InsertParticipant(ctx context.Context, participant persistence.TrainingParticipant) (int, error) {
	result, err := s.pool.DB().ExecContext(ctx,
		`INSERT INTO training_participants (user_id, session_id, status, registered_at, attended_at)
		 VALUES (?, ?, ?, ?, ?)`,
		participant.UserID, participant.SessionID, participant.Status,
		formatTime(participant.RegisteredAt), nullableTime(participant.AttendedAt))
	if err != nil {
		return 0, mapError(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, mapError(err)
	}
	return int(id), nil
}

// UpdateParticipant replaces an existing participant row.
func (s *Store) UpdateParticipant(ctx context.Context, participant persistence.TrainingParticipant) (bool, error) {
	result, err := s.pool.DB().ExecContext(ctx,
		`UPDATE training_participants SET user_id = ?, session_id = ?, status = ?,
		 registered_at = ?, attended_at = ? WHERE id = ?`,
		participant.UserID, participant.SessionID, participant.Status,
		formatTime(participant.RegisteredAt), nullableTime(participant.AttendedAt),
		participant.ID)
	if err != nil {
		return false, mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, mapError(err)
	}
	return affected > 0, nil
}

// DeleteParticipant removes a participant row by id.
func (s *Store) DeleteParticipant(ctx context.Context, id int) (bool, error) {
	result, err := s.pool.DB().ExecContext(ctx,
		`DELETE FROM training_participants WHERE id = ?`, id)
	if err != nil {
		return false, mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, mapError(err)
	}
	return affected > 0, nil
}

const attendanceColumns = `id, session_id, user_id, status, attended_at`

func scanAttendance(row interface{ Scan(...any) error }) (persistence.Attendance, error) {
	var record persistence.Attendance
	var attendedAt sql.NullString

	err := row.Scan(&record.ID, &record.SessionID, &record.UserID,
		&record.Status, &attendedAt)
	if err != nil {
		return persistence.Attendance{}, err
	}

	if record.AttendedAt, err = scanNullableTime(attendedAt); err != nil {
		return persistence.Attendance{}, err
	}
	return record, nil
}

func (s *Store) queryAttendance(ctx context.Context, query string, args ...any) ([]persistence.Attendance, error) {
	rows, err := s.pool.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var records []persistence.Attendance
	for rows.Next() {
		record, err := scanAttendance(rows)
		if err != nil {
			return nil, mapError(err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return records, nil
}

// ListAttendance returns every attendance record.
func (s *Store) ListAttendance(ctx context.Context) ([]persistence.Attendance, error) {
	return s.queryAttendance(ctx,
		`SELECT `+attendanceColumns+` FROM attendance ORDER BY id ASC`)
}

// ListAttendanceBySession returns the attendance records for a session.
func (s *Store) ListAttendanceBySession(ctx context.Context, sessionID int) ([]persistence.Attendance, error) {
	return s.queryAttendance(ctx,
		`SELECT `+attendanceColumns+` FROM attendance WHERE session_id = ? ORDER BY id ASC`,
		sessionID)
}

// InsertAttendance stores a new attendance record and returns the assigned id.
func (s *Store) InsertAttendance(ctx context.Context, record persistence.Attendance) (int, error) {
	result, err := s.pool.DB().ExecContext(ctx,
		`INSERT INTO attendance (session_id, user_id, status, attended_at) VALUES (?, ?, ?, ?)`,
		record.SessionID, record.UserID, record.Status, nullableTime(record.AttendedAt))
	if err != nil {
		return 0, mapError(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, mapError(err)
	}
	return int(id), nil
}

const authSessionColumns = `id, user_id, token, expires_at, created_at, revoked_at`

func scanAuthSession(row interface{ Scan(...any) error }) (persistence.AuthSession, error) {
	var session persistence.AuthSession
	var expiresAt, createdAt string
	var revokedAt sql.NullString

	err := row.Scan(&session.ID, &session.UserID, &session.Token,
		&expiresAt, &createdAt, &revokedAt)
	if err != nil {
		return persistence.AuthSession{}, err
	}

	if session.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return persistence.AuthSession{}, err
	}
	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.AuthSession{}, err
	}
	if session.RevokedAt, err = scanNullableTime(revokedAt); err != nil {
		return persistence.AuthSession{}, err
	}
	return session, nil
}

// GetAuthSessionByToken retrieves a bearer session by its token.
func (s *Store) GetAuthSessionByToken(ctx context.Context, token string) (persistence.AuthSession, error) {
	row := s.pool.DB().QueryRowContext(ctx,
		`SELECT `+authSessionColumns+` FROM auth_sessions WHERE token = ?`, token)
	session, err := scanAuthSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.AuthSession{}, persistence.ErrNotFound
		}
		return persistence.AuthSession{}, mapError(err)
	}
	return session, nil
}

// InsertAuthSession stores a new bearer session and returns the assigned id.
func (s *Store) InsertAuthSession(ctx context.Context, session persistence.AuthSession) (int, error) {
	result, err := s.pool.DB().ExecContext(ctx,
		`INSERT INTO auth_sessions (user_id, token, expires_at, created_at, revoked_at)
		 VALUES (?, ?, ?, ?, ?)`,
		session.UserID, session.Token, formatTime(session.ExpiresAt),
		formatTime(session.CreatedAt), nullableTime(session.RevokedAt))
	if err != nil {
		return 0, mapError(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, mapError(err)
	}
	return int(id), nil
}

// UpdateAuthSession replaces an existing bearer session row.
func (s *Store) UpdateAuthSession(ctx context.Context, session persistence.AuthSession) (bool, error) {
	result, err := s.pool.DB().ExecContext(ctx,
		`UPDATE auth_sessions SET user_id = ?, token = ?, expires_at = ?, revoked_at = ? WHERE id = ?`,
		session.UserID, session.Token, formatTime(session.ExpiresAt),
		nullableTime(session.RevokedAt), session.ID)
	if err != nil {
		return false, mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, mapError(err)
	}
	return affected > 0, nil
}
