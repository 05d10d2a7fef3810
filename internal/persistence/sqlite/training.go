package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/training-management/internal/persistence"
)

const requestColumns = `id, title, department, training_type, status, created_at, updated_at, requester_id, session_id`

func scanRequest(row interface{ Scan(...any) error }) (persistence.TrainingRequest, error) {
	var request persistence.TrainingRequest
	var createdAt string
	var updatedAt sql.NullString
	var sessionID sql.NullInt64

	err := row.Scan(&request.ID, &request.Title, &request.Department,
		&request.TrainingType, &request.Status, &createdAt, &updatedAt,
		&request.RequesterID, &sessionID)
	if err != nil {
		return persistence.TrainingRequest{}, err
	}

	if request.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.TrainingRequest{}, err
	}
	if request.UpdatedAt, err = scanNullableTime(updatedAt); err != nil {
		return persistence.TrainingRequest{}, err
	}
	request.SessionID = scanNullableInt(sessionID)
	return request, nil
}

func (s *Store) queryRequests(ctx context.Context, query string, args ...any) ([]persistence.TrainingRequest, error) {
	rows, err := s.pool.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var requests []persistence.TrainingRequest
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, mapError(err)
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return requests, nil
}

// ListRequests returns all training requests, newest first.
func (s *Store) ListRequests(ctx context.Context) ([]persistence.TrainingRequest, error) {
	return s.queryRequests(ctx,
		`SELECT `+requestColumns+` FROM training_requests ORDER BY created_at DESC, id DESC`)
}

// ListRequestsByUser returns the requests created by a user, newest first.
func (s *Store) ListRequestsByUser(ctx context.Context, userID int) ([]persistence.TrainingRequest, error) {
	return s.queryRequests(ctx,
		`SELECT `+requestColumns+` FROM training_requests WHERE requester_id = ? ORDER BY created_at DESC, id DESC`,
		userID)
}

// ListRequestsByStatus returns the requests holding a status, newest first.
func (s *Store) ListRequestsByStatus(ctx context.Context, status string) ([]persistence.TrainingRequest, error) {
	return s.queryRequests(ctx,
		`SELECT `+requestColumns+` FROM training_requests WHERE status = ? ORDER BY created_at DESC, id DESC`,
		status)
}

// GetRequest retrieves a training request by id.
func (s *Store) GetRequest(ctx context.Context, id int) (persistence.TrainingRequest, error) {
	row := s.pool.DB().QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM training_requests WHERE id = ?`, id)
	request, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.TrainingRequest{}, persistence.ErrNotFound
		}
		return persistence.TrainingRequest{}, mapError(err)
	}
	return request, nil
}

// InsertRequest stores a new training request and returns the assigned id.
func (s *Store) InsertRequest(ctx context.Context, request persistence.TrainingRequest) (int, error) {
	result, err := s.pool.DB().ExecContext(ctx,
		`INSERT INTO training_requests (title, department, training_type, status, created_at, updated_at, requester_id, session_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		request.Title, request.Department, request.TrainingType, request.Status,
		formatTime(request.CreatedAt), nullableTime(request.UpdatedAt),
		request.RequesterID, nullableInt(request.SessionID))
	if err != nil {
		return 0, mapError(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, mapError(err)
	}
	return int(id), nil
}

// UpdateRequest replaces an existing training request row.
func (s *Store) UpdateRequest(ctx context.Context, request persistence.TrainingRequest) (bool, error) {
	result, err := s.pool.DB().ExecContext(ctx,
		`UPDATE training_requests SET title = ?, department = ?, training_type = ?,
		 status = ?, updated_at = ?, requester_id = ?, session_id = ? WHERE id = ?`,
		request.Title, request.Department, request.TrainingType, request.Status,
		nullableTime(request.UpdatedAt), request.RequesterID,
		nullableInt(request.SessionID), request.ID)
	if err != nil {
		return false, mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, mapError(err)
	}
	return affected > 0, nil
}

// DeleteRequest removes a training request row by id.
func (s *Store) DeleteRequest(ctx context.Context, id int) (bool, error) {
	result, err := s.pool.DB().ExecContext(ctx,
		`DELETE FROM training_requests WHERE id = ?`, id)
	if err != nil {
		return false, mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, mapError(err)
	}
	return affected > 0, nil
}

const sessionColumns = `id, title, start_time, end_time, trainer, location, description, status, max_participants, current_participants, created_at, updated_at`

func scanSession(row interface{ Scan(...any) error }) (persistence.TrainingSession, error) {
	var session persistence.TrainingSession
	var start, end, createdAt string
	var location, description, updatedAt sql.NullString

	err := row.Scan(&session.ID, &session.Title, &start, &end, &session.Trainer,
		&location, &description, &session.Status, &session.MaxParticipants,
		&session.CurrentParticipants, &createdAt, &updatedAt)
	if err != nil {
		return persistence.TrainingSession{}, err
	}

	if session.Start, err = parseTime(start); err != nil {
		return persistence.TrainingSession{}, err
	}
	if session.End, err = parseTime(end); err != nil {
		return persistence.TrainingSession{}, err
	}
	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.TrainingSession{}, err
	}
	if session.UpdatedAt, err = scanNullableTime(updatedAt); err != nil {
		return persistence.TrainingSession{}, err
	}
	session.Location = scanNullableString(location)
	session.Description = scanNullableString(description)
	return session, nil
}

func (s *Store) querySessions(ctx context.Context, query string, args ...any) ([]persistence.TrainingSession, error) {
	rows, err := s.pool.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var sessions []persistence.TrainingSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, mapError(err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return sessions, nil
}

// ListSessions returns all training sessions ordered by start time.
func (s *Store) ListSessions(ctx context.Context) ([]persistence.TrainingSession, error) {
	return s.querySessions(ctx,
		`SELECT `+sessionColumns+` FROM training_sessions ORDER BY start_time ASC, id ASC`)
}

// ListSessionsByRequest returns the sessions linked from a training request.
func (s *Store) ListSessionsByRequest(ctx context.Context, requestID int) ([]persistence.TrainingSession, error) {
	return s.querySessions(ctx,
		`SELECT s.id, s.title, s.start_time, s.end_time, s.trainer, s.location, s.description,
		        s.status, s.max_participants, s.current_participants, s.created_at, s.updated_at
		 FROM training_sessions s
		 INNER JOIN training_requests r ON s.id = r.session_id
		 WHERE r.id = ?
		 ORDER BY s.start_time ASC, s.id ASC`,
		requestID)
}

// GetSession retrieves a training session by id.
func (s *Store) GetSession(ctx context.Context, id int) (persistence.TrainingSession, error) {
	row := s.pool.DB().QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM training_sessions WHERE id = ?`, id)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.TrainingSession{}, persistence.ErrNotFound
		}
		return persistence.TrainingSession{}, mapError(err)
	}
	return session, nil
}

// InsertSession stores a new training session and returns the assigned id.
func (s *Store) InsertSession(ctx context.Context, session persistence.TrainingSession) (int, error) {
	result, err := s.pool.DB().ExecContext(ctx,
		`INSERT INTO training_sessions (title, start_time, end_time, trainer, location, description,
		 status, max_participants, current_participants, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.Title, formatTime(session.Start), formatTime(session.End),
		session.Trainer, nullableString(session.Location), nullableString(session.Description),
		session.Status, session.MaxParticipants, session.CurrentParticipants,
		formatTime(session.CreatedAt), nullableTime(session.UpdatedAt))
	if err != nil {
		return 0, mapError(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, mapError(err)
	}
	return int(id), nil
}

// UpdateSession replaces an existing training session row.
func (s *Store) UpdateSession(ctx context.Context, session persistence.TrainingSession) (bool, error) {
	result, err := s.pool.DB().ExecContext(ctx,
		`UPDATE training_sessions SET title = ?, start_time = ?, end_time = ?, trainer = ?,
		 location = ?, description = ?, status = ?, max_participants = ?,
		 current_participants = ?, updated_at = ? WHERE id = ?`,
		session.Title, formatTime(session.Start), formatTime(session.End),
		session.Trainer, nullableString(session.Location), nullableString(session.Description),
		session.Status, session.MaxParticipants, session.CurrentParticipants,
		nullableTime(session.UpdatedAt), session.ID)
	if err != nil {
		return false, mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, mapError(err)
	}
	return affected > 0, nil
}

// DeleteSession removes a training session row by id.
func (s *Store) DeleteSession(ctx context.Context, id int) (bool, error) {
	result, err := s.pool.DB().ExecContext(ctx,
		`DELETE FROM training_sessions WHERE id = ?`, id)
	if err != nil {
		return false, mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, mapError(err)
	}
	return affected > 0, nil
}
