package jsonfile

import (
	"context"
	"sort"

	"github.com/example/training-management/internal/persistence"
)

func sortRequestsNewestFirst(requests []persistence.TrainingRequest) {
	sort.Slice(requests, func(i, j int) bool {
		if requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].ID > requests[j].ID
		}
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
}

// ListRequests returns all training requests, newest first.
func (s *Store) ListRequests(ctx context.Context) ([]persistence.TrainingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	requests, err := readList[persistence.TrainingRequest](s.path(requestsFile))
	if err != nil {
		return nil, err
	}
	sortRequestsNewestFirst(requests)
	return requests, nil
}

// ListRequestsByUser returns the requests created by a user, newest first.
func (s *Store) ListRequestsByUser(ctx context.Context, userID int) ([]persistence.TrainingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	requests, err := readList[persistence.TrainingRequest](s.path(requestsFile))
	if err != nil {
		return nil, err
	}
	filtered := requests[:0:0]
	for _, request := range requests {
		if request.RequesterID == userID {
			filtered = append(filtered, request)
		}
	}
	sortRequestsNewestFirst(filtered)
	return filtered, nil
}

// ListRequestsByStatus returns the requests holding a status, newest first.
func (s *Store) ListRequestsByStatus(ctx context.Context, status string) ([]persistence.TrainingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	requests, err := readList[persistence.TrainingRequest](s.path(requestsFile))
	if err != nil {
		return nil, err
	}
	filtered := requests[:0:0]
	for _, request := range requests {
		if request.Status == status {
			filtered = append(filtered, request)
		}
	}
	sortRequestsNewestFirst(filtered)
	return filtered, nil
}

// GetRequest retrieves a training request by id.
func (s *Store) GetRequest(ctx context.Context, id int) (persistence.TrainingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	requests, err := readList[persistence.TrainingRequest](s.path(requestsFile))
	if err != nil {
		return persistence.TrainingRequest{}, err
	}
	for _, request := range requests {
		if request.ID == id {
			return request, nil
		}
	}
	return persistence.TrainingRequest{}, persistence.ErrNotFound
}

// InsertRequest stores a new training request and returns the assigned id.
func (s *Store) InsertRequest(ctx context.Context, request persistence.TrainingRequest) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	requests, err := readList[persistence.TrainingRequest](s.path(requestsFile))
	if err != nil {
		return 0, err
	}
	request.ID = nextID(requests, func(r persistence.TrainingRequest) int { return r.ID })
	requests = append(requests, request)
	if err := writeList(s.path(requestsFile), requests); err != nil {
		return 0, err
	}
	return request.ID, nil
}

// UpdateRequest replaces an existing training request row.
func (s *Store) UpdateRequest(ctx context.Context, request persistence.TrainingRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	requests, err := readList[persistence.TrainingRequest](s.path(requestsFile))
	if err != nil {
		return false, err
	}
	for i, existing := range requests {
		if existing.ID == request.ID {
			requests[i] = request
			return true, writeList(s.path(requestsFile), requests)
		}
	}
	return false, nil
}

// DeleteRequest removes a training request row by id.
func (s *Store) DeleteRequest(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	requests, err := readList[persistence.TrainingRequest](s.path(requestsFile))
	if err != nil {
		return false, err
	}
	for i, existing := range requests {
		if existing.ID == id {
			requests = append(requests[:i], requests[i+1:]...)
			return true, writeList(s.path(requestsFile), requests)
		}
	}
	return false, nil
}

func sortSessionsByStart(sessions []persistence.TrainingSession) {
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].Start.Equal(sessions[j].Start) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].Start.Before(sessions[j].Start)
	})
}

// ListSessions returns all training sessions ordered by start time.
func (s *Store) ListSessions(ctx context.Context) ([]persistence.TrainingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := readList[persistence.TrainingSession](s.path(sessionsFile))
	if err != nil {
		return nil, err
	}
	sortSessionsByStart(sessions)
	return sessions, nil
}

// ListSessionsByRequest returns the sessions linked from a training request.
func (s *Store) ListSessionsByRequest(ctx context.Context, requestID int) ([]persistence.TrainingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	requests, err := readList[persistence.TrainingRequest](s.path(requestsFile))
	if err != nil {
		return nil, err
	}
	sessions, err := readList[persistence.TrainingSession](s.path(sessionsFile))
	if err != nil {
		return nil, err
	}

	linked := make(map[int]struct{})
	for _, request := range requests {
		if request.ID == requestID && request.SessionID != nil {
			linked[*request.SessionID] = struct{}{}
		}
	}

	filtered := sessions[:0:0]
	for _, session := range sessions {
		if _, ok := linked[session.ID]; ok {
			filtered = append(filtered, session)
		}
	}
	sortSessionsByStart(filtered)
	return filtered, nil
}

// GetSession retrieves a training session by id.
func (s *Store) GetSession(ctx context.Context, id int) (persistence.TrainingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := readList[persistence.TrainingSession](s.path(sessionsFile))
	if err != nil {
		return persistence.TrainingSession{}, err
	}
	for _, session := range sessions {
		if session.ID == id {
			return session, nil
		}
	}
	return persistence.TrainingSession{}, persistence.ErrNotFound
}

// InsertSession stores a new training session and returns the assigned id.
func (s *Store) InsertSession(ctx context.Context, session persistence.TrainingSession) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := readList[persistence.TrainingSession](s.path(sessionsFile))
	if err != nil {
		return 0, err
	}
	session.ID = nextID(sessions, func(sess persistence.TrainingSession) int { return sess.ID })
	sessions = append(sessions, session)
	if err := writeList(s.path(sessionsFile), sessions); err != nil {
		return 0, err
	}
	return session.ID, nil
}

// UpdateSession replaces an existing training session row.
func (s *Store) UpdateSession(ctx context.Context, session persistence.TrainingSession) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := readList[persistence.TrainingSession](s.path(sessionsFile))
	if err != nil {
		return false, err
	}
	for i, existing := range sessions {
		if existing.ID == session.ID {
			sessions[i] = session
			return true, writeList(s.path(sessionsFile), sessions)
		}
	}
	return false, nil
}

// DeleteSession removes a training session row by id.
func (s *Store) DeleteSession(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := readList[persistence.TrainingSession](s.path(sessionsFile))
	if err != nil {
		return false, err
	}
	for i, existing := range sessions {
		if existing.ID == id {
			sessions = append(sessions[:i], sessions[i+1:]...)
			return true, writeList(s.path(sessionsFile), sessions)
		}
	}
	return false, nil
}
