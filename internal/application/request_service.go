package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// RequestRepository captures the persistence interactions for training
// requests.
type RequestRepository interface {
	ListRequests(ctx context.Context) ([]TrainingRequest, error)
	ListRequestsByUser(ctx context.Context, userID int) ([]TrainingRequest, error)
	ListRequestsByStatus(ctx context.Context, status string) ([]TrainingRequest, error)
	GetRequest(ctx context.Context, id int) (TrainingRequest, error)
	InsertRequest(ctx context.Context, request TrainingRequest) (int, error)
	UpdateRequest(ctx context.Context, request TrainingRequest) (bool, error)
	DeleteRequest(ctx context.Context, id int) (bool, error)
}

// RequestService manages the lifecycle of training requests.
type RequestService struct {
	requests RequestRepository
	now      func() time.Time
	logger   *slog.Logger
}

// NewRequestService wires dependencies for training request operations.
func NewRequestService(requests RequestRepository, now func() time.Time) *RequestService {
	return NewRequestServiceWithLogger(requests, now, nil)
}

// NewRequestServiceWithLogger constructs a RequestService with a specified logger.
func NewRequestServiceWithLogger(requests RequestRepository, now func() time.Time, logger *slog.Logger) *RequestService {
	if now == nil {
		now = time.Now
	}
	return &RequestService{
		requests: requests,
		now:      now,
		logger:   defaultLogger(logger),
	}
}

func (s *RequestService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RequestService", operation, attrs...)
}

// ListRequests returns all training requests, newest first.
func (s *RequestService) ListRequests(ctx context.Context) ([]TrainingRequest, error) {
	if s == nil || s.requests == nil {
		return nil, fmt.Errorf("request repository not configured")
	}
	return s.requests.ListRequests(ctx)
}

// ListRequestsByUser returns the requests created by a user, newest first.
func (s *RequestService) ListRequestsByUser(ctx context.Context, userID int) ([]TrainingRequest, error) {
	if s == nil || s.requests == nil {
		return nil, fmt.Errorf("request repository not configured")
	}
	return s.requests.ListRequestsByUser(ctx, userID)
}

// ListRequestsByStatus returns the requests holding a status, newest first.
func (s *RequestService) ListRequestsByStatus(ctx context.Context, status string) ([]TrainingRequest, error) {
	if s == nil || s.requests == nil {
		return nil, fmt.Errorf("request repository not configured")
	}
	return s.requests.ListRequestsByStatus(ctx, status)
}

// GetRequest retrieves a training request by id.
func (s *RequestService) GetRequest(ctx context.Context, id int) (TrainingRequest, error) {
	if s == nil || s.requests == nil {
		return TrainingRequest{}, fmt.Errorf("request repository not configured")
	}
	return s.requests.GetRequest(ctx, id)
}

// CreateRequest validates and stores a new training request. New requests
// always start in the pending status.
func (s *RequestService) CreateRequest(ctx context.Context, input RequestInput) (request TrainingRequest, err error) {
	if s == nil || s.requests == nil {
		err = fmt.Errorf("request repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateRequest", "requester_id", input.RequesterID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "request creation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("request_id", request.ID).InfoContext(ctx, "request created")
	}()

	vErr := &ValidationError{}
	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}
	if strings.TrimSpace(input.Department) == "" {
		vErr.add("department", "department is required")
	}
	if strings.TrimSpace(input.TrainingType) == "" {
		vErr.add("training_type", "training type is required")
	}
	if input.RequesterID <= 0 {
		vErr.add("requester_id", "requester is required")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	request = TrainingRequest{
		Title:        strings.TrimSpace(input.Title),
		Department:   strings.TrimSpace(input.Department),
		TrainingType: strings.TrimSpace(input.TrainingType),
		Status:       RequestStatusPending,
		CreatedAt:    s.now(),
		RequesterID:  input.RequesterID,
	}

	id, insertErr := s.requests.InsertRequest(ctx, request)
	if insertErr != nil {
		err = insertErr
		request = TrainingRequest{}
		return
	}
	request.ID = id
	return request, nil
}

// UpdateRequestStatus moves a request to a new status and refreshes its
// update time. Transitions are unconstrained; any status may follow any
// other.
func (s *RequestService) UpdateRequestStatus(ctx context.Context, id int, status string) (request TrainingRequest, err error) {
	if s == nil || s.requests == nil {
		err = fmt.Errorf("request repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateRequestStatus", "request_id", id, "status", status)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "request status update failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "request status updated")
	}()

	if strings.TrimSpace(status) == "" {
		vErr := &ValidationError{}
		vErr.add("status", "status is required")
		err = vErr
		return
	}

	request, err = s.requests.GetRequest(ctx, id)
	if err != nil {
		return
	}

	now := s.now()
	request.Status = status
	request.UpdatedAt = &now

	ok, updateErr := s.requests.UpdateRequest(ctx, request)
	if updateErr != nil {
		err = updateErr
		return
	}
	if !ok {
		err = ErrNotFound
		return
	}
	return request, nil
}

// LinkSession attaches a scheduled session to a request.
func (s *RequestService) LinkSession(ctx context.Context, requestID, sessionID int) (request TrainingRequest, err error) {
	if s == nil || s.requests == nil {
		err = fmt.Errorf("request repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "LinkSession", "request_id", requestID, "session_id", sessionID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "session link failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "session linked to request")
	}()

	request, err = s.requests.GetRequest(ctx, requestID)
	if err != nil {
		return
	}

	now := s.now()
	request.SessionID = &sessionID
	request.UpdatedAt = &now

	ok, updateErr := s.requests.UpdateRequest(ctx, request)
	if updateErr != nil {
		err = updateErr
		return
	}
	if !ok {
		err = ErrNotFound
		return
	}
	return request, nil
}

// DeleteRequest removes a training request.
func (s *RequestService) DeleteRequest(ctx context.Context, id int) error {
	if s == nil || s.requests == nil {
		return fmt.Errorf("request repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteRequest", "request_id", id)

	deleted, err := s.requests.DeleteRequest(ctx, id)
	if err != nil {
		logger.ErrorContext(ctx, "request deletion failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	logger.InfoContext(ctx, "request deleted")
	return nil
}
