package main

import (
	"context"
	"errors"
	"time"

	"github.com/example/training-management/internal/application"
	"github.com/example/training-management/internal/persistence"
)

// mapStoreError translates persistence sentinels into the application
// vocabulary so services and handlers can branch on errors.Is.
func mapStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return application.ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return application.ErrAlreadyExists
	default:
		return err
	}
}

type userRepositoryAdapter struct {
	store persistence.UserRepository
}

func newUserRepositoryAdapter(store persistence.UserRepository) *userRepositoryAdapter {
	return &userRepositoryAdapter{store: store}
}

func (a *userRepositoryAdapter) ListUsers(ctx context.Context) ([]application.User, error) {
	models, err := a.store.ListUsers(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	users := make([]application.User, 0, len(models))
	for _, model := range models {
		users = append(users, toApplicationUser(model))
	}
	return users, nil
}

func (a *userRepositoryAdapter) GetUser(ctx context.Context, id int) (application.User, error) {
	model, err := a.store.GetUser(ctx, id)
	if err != nil {
		return application.User{}, mapStoreError(err)
	}
	return toApplicationUser(model), nil
}

func (a *userRepositoryAdapter) GetUserByEmail(ctx context.Context, email string) (application.User, error) {
	model, err := a.store.GetUserByEmail(ctx, email)
	if err != nil {
		return application.User{}, mapStoreError(err)
	}
	return toApplicationUser(model), nil
}

func (a *userRepositoryAdapter) InsertUser(ctx context.Context, user application.User, passwordHash string) (int, error) {
	id, err := a.store.InsertUser(ctx, toPersistenceUser(user, passwordHash))
	if err != nil {
		return 0, mapStoreError(err)
	}
	return id, nil
}

// UpdateUser carries the stored credential hash forward; the user
// service never sees hashes.
func (a *userRepositoryAdapter) UpdateUser(ctx context.Context, user application.User) (bool, error) {
	current, err := a.store.GetUser(ctx, user.ID)
	if err != nil {
		return false, mapStoreError(err)
	}
	ok, err := a.store.UpdateUser(ctx, toPersistenceUser(user, current.PasswordHash))
	if err != nil {
		return false, mapStoreError(err)
	}
	return ok, nil
}

func (a *userRepositoryAdapter) DeleteUser(ctx context.Context, id int) (bool, error) {
	ok, err := a.store.DeleteUser(ctx, id)
	if err != nil {
		return false, mapStoreError(err)
	}
	return ok, nil
}

type roleCatalogAdapter struct {
	store persistence.RoleRepository
}

func newRoleCatalogAdapter(store persistence.RoleRepository) *roleCatalogAdapter {
	return &roleCatalogAdapter{store: store}
}

func (a *roleCatalogAdapter) ListRoles(ctx context.Context) ([]application.Role, error) {
	models, err := a.store.ListRoles(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	roles := make([]application.Role, 0, len(models))
	for _, model := range models {
		roles = append(roles, application.Role{ID: model.ID, Name: model.Name})
	}
	return roles, nil
}

func (a *roleCatalogAdapter) GetRole(ctx context.Context, id int) (application.Role, error) {
	model, err := a.store.GetRole(ctx, id)
	if err != nil {
		return application.Role{}, mapStoreError(err)
	}
	return application.Role{ID: model.ID, Name: model.Name}, nil
}

type requestRepositoryAdapter struct {
	store persistence.RequestRepository
}

func newRequestRepositoryAdapter(store persistence.RequestRepository) *requestRepositoryAdapter {
	return &requestRepositoryAdapter{store: store}
}

func (a *requestRepositoryAdapter) ListRequests(ctx context.Context) ([]application.TrainingRequest, error) {
	models, err := a.store.ListRequests(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return toApplicationRequests(models), nil
}

func (a *requestRepositoryAdapter) ListRequestsByUser(ctx context.Context, userID int) ([]application.TrainingRequest, error) {
	models, err := a.store.ListRequestsByUser(ctx, userID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return toApplicationRequests(models), nil
}

func (a *requestRepositoryAdapter) ListRequestsByStatus(ctx context.Context, status string) ([]application.TrainingRequest, error) {
	models, err := a.store.ListRequestsByStatus(ctx, status)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return toApplicationRequests(models), nil
}

func (a *requestRepositoryAdapter) GetRequest(ctx context.Context, id int) (application.TrainingRequest, error) {
	model, err := a.store.GetRequest(ctx, id)
	if err != nil {
		return application.TrainingRequest{}, mapStoreError(err)
	}
	return toApplicationRequest(model), nil
}

func (a *requestRepositoryAdapter) InsertRequest(ctx context.Context, request application.TrainingRequest) (int, error) {
	id, err := a.store.InsertRequest(ctx, toPersistenceRequest(request))
	if err != nil {
		return 0, mapStoreError(err)
	}
	return id, nil
}

func (a *requestRepositoryAdapter) UpdateRequest(ctx context.Context, request application.TrainingRequest) (bool, error) {
	ok, err := a.store.UpdateRequest(ctx, toPersistenceRequest(request))
	if err != nil {
		return false, mapStoreError(err)
	}
	return ok, nil
}

func (a *requestRepositoryAdapter) DeleteRequest(ctx context.Context, id int) (bool, error) {
	ok, err := a.store.DeleteRequest(ctx, id)
	if err != nil {
		return false, mapStoreError(err)
	}
	return ok, nil
}

type sessionRepositoryAdapter struct {
	store persistence.SessionRepository
}

func newSessionRepositoryAdapter(store persistence.SessionRepository) *sessionRepositoryAdapter {
	return &sessionRepositoryAdapter{store: store}
}

func (a *sessionRepositoryAdapter) ListSessions(ctx context.Context) ([]application.TrainingSession, error) {
	models, err := a.store.ListSessions(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return toApplicationSessions(models), nil
}

func (a *sessionRepositoryAdapter) ListSessionsByRequest(ctx context.Context, requestID int) ([]application.TrainingSession, error) {
	models, err := a.store.ListSessionsByRequest(ctx, requestID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return toApplicationSessions(models), nil
}

func (a *sessionRepositoryAdapter) GetTrainingSession(ctx context.Context, id int) (application.TrainingSession, error) {
	model, err := a.store.GetSession(ctx, id)
	if err != nil {
		return application.TrainingSession{}, mapStoreError(err)
	}
	return toApplicationSession(model), nil
}

func (a *sessionRepositoryAdapter) InsertTrainingSession(ctx context.Context, session application.TrainingSession) (int, error) {
	id, err := a.store.InsertSession(ctx, toPersistenceSession(session))
	if err != nil {
		return 0, mapStoreError(err)
	}
	return id, nil
}

func (a *sessionRepositoryAdapter) UpdateTrainingSession(ctx context.Context, session application.TrainingSession) (bool, error) {
	ok, err := a.store.UpdateSession(ctx, toPersistenceSession(session))
	if err != nil {
		return false, mapStoreError(err)
	}
	return ok, nil
}

func (a *sessionRepositoryAdapter) DeleteTrainingSession(ctx context.Context, id int) (bool, error) {
	ok, err := a.store.DeleteSession(ctx, id)
	if err != nil {
		return false, mapStoreError(err)
	}
	return ok, nil
}

type participantRepositoryAdapter struct {
	store persistence.ParticipantRepository
}

func newParticipantRepositoryAdapter(store persistence.ParticipantRepository) *participantRepositoryAdapter {
	return &participantRepositoryAdapter{store: store}
}

func (a *participantRepositoryAdapter) FindParticipant(ctx context.Context, userID, sessionID int) (application.Participant, error) {
	model, err := a.store.FindParticipant(ctx, userID, sessionID)
	if err != nil {
		return application.Participant{}, mapStoreError(err)
	}
	return toApplicationParticipant(model), nil
}

func (a *participantRepositoryAdapter) ListParticipantsBySession(ctx context.Context, sessionID int) ([]application.Participant, error) {
	models, err := a.store.ListParticipantsBySession(ctx, sessionID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return toApplicationParticipants(models), nil
}

func (a *participantRepositoryAdapter) ListParticipantsByUser(ctx context.Context, userID int) ([]application.Participant, error) {
	models, err := a.store.ListParticipantsByUser(ctx, userID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return toApplicationParticipants(models), nil
}

func (a *participantRepositoryAdapter) InsertParticipant(ctx context.Context, participant application.Participant) (int, error) {
	id, err := a.store.InsertParticipant(ctx, toPersistenceParticipant(participant))
	if err != nil {
		return 0, mapStoreError(err)
	}
	return id, nil
}

func (a *participantRepositoryAdapter) UpdateParticipant(ctx context.Context, participant application.Participant) (bool, error) {
	ok, err := a.store.UpdateParticipant(ctx, toPersistenceParticipant(participant))
	if err != nil {
		return false, mapStoreError(err)
	}
	return ok, nil
}

func (a *participantRepositoryAdapter) DeleteParticipant(ctx context.Context, id int) (bool, error) {
	ok, err := a.store.DeleteParticipant(ctx, id)
	if err != nil {
		return false, mapStoreError(err)
	}
	return ok, nil
}

type attendanceRepositoryAdapter struct {
	store persistence.AttendanceRepository
}

func newAttendanceRepositoryAdapter(store persistence.AttendanceRepository) *attendanceRepositoryAdapter {
	return &attendanceRepositoryAdapter{store: store}
}

func (a *attendanceRepositoryAdapter) ListAttendanceBySession(ctx context.Context, sessionID int) ([]application.AttendanceRecord, error) {
	models, err := a.store.ListAttendanceBySession(ctx, sessionID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return toApplicationAttendance(models), nil
}

func (a *attendanceRepositoryAdapter) InsertAttendance(ctx context.Context, record application.AttendanceRecord) (int, error) {
	id, err := a.store.InsertAttendance(ctx, toPersistenceAttendance(record))
	if err != nil {
		return 0, mapStoreError(err)
	}
	return id, nil
}

type credentialStoreAdapter struct {
	store persistence.UserRepository
}

func newCredentialStoreAdapter(store persistence.UserRepository) *credentialStoreAdapter {
	return &credentialStoreAdapter{store: store}
}

func (a *credentialStoreAdapter) GetUserCredentialsByEmail(ctx context.Context, email string) (application.UserCredentials, error) {
	model, err := a.store.GetUserByEmail(ctx, email)
	if err != nil {
		return application.UserCredentials{}, mapStoreError(err)
	}
	return application.UserCredentials{
		User:         toApplicationUser(model),
		PasswordHash: model.PasswordHash,
	}, nil
}

func (a *credentialStoreAdapter) GetUser(ctx context.Context, id int) (application.User, error) {
	model, err := a.store.GetUser(ctx, id)
	if err != nil {
		return application.User{}, mapStoreError(err)
	}
	return toApplicationUser(model), nil
}

type authSessionRepositoryAdapter struct {
	store persistence.AuthSessionRepository
}

func newAuthSessionRepositoryAdapter(store persistence.AuthSessionRepository) *authSessionRepositoryAdapter {
	return &authSessionRepositoryAdapter{store: store}
}

func (a *authSessionRepositoryAdapter) GetAuthSessionByToken(ctx context.Context, token string) (application.AuthSession, error) {
	model, err := a.store.GetAuthSessionByToken(ctx, token)
	if err != nil {
		return application.AuthSession{}, mapStoreError(err)
	}
	return toApplicationAuthSession(model), nil
}

func (a *authSessionRepositoryAdapter) InsertAuthSession(ctx context.Context, session application.AuthSession) (int, error) {
	id, err := a.store.InsertAuthSession(ctx, toPersistenceAuthSession(session))
	if err != nil {
		return 0, mapStoreError(err)
	}
	return id, nil
}

func (a *authSessionRepositoryAdapter) UpdateAuthSession(ctx context.Context, session application.AuthSession) (bool, error) {
	ok, err := a.store.UpdateAuthSession(ctx, toPersistenceAuthSession(session))
	if err != nil {
		return false, mapStoreError(err)
	}
	return ok, nil
}

// reportStoreAdapter serves the read-only entity collections the report
// and dashboard services aggregate over.
type reportStoreAdapter struct {
	store entityStore
}

func newReportStoreAdapter(store entityStore) *reportStoreAdapter {
	return &reportStoreAdapter{store: store}
}

func (a *reportStoreAdapter) ListUsers(ctx context.Context) ([]application.User, error) {
	models, err := a.store.ListUsers(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	users := make([]application.User, 0, len(models))
	for _, model := range models {
		users = append(users, toApplicationUser(model))
	}
	return users, nil
}

func (a *reportStoreAdapter) ListRequests(ctx context.Context) ([]application.TrainingRequest, error) {
	models, err := a.store.ListRequests(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return toApplicationRequests(models), nil
}

func (a *reportStoreAdapter) ListSessions(ctx context.Context) ([]application.TrainingSession, error) {
	models, err := a.store.ListSessions(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return toApplicationSessions(models), nil
}

func (a *reportStoreAdapter) ListParticipants(ctx context.Context) ([]application.Participant, error) {
	models, err := a.store.ListParticipants(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return toApplicationParticipants(models), nil
}

func (a *reportStoreAdapter) ListAttendance(ctx context.Context) ([]application.AttendanceRecord, error) {
	models, err := a.store.ListAttendance(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return toApplicationAttendance(models), nil
}

func toApplicationUser(model persistence.User) application.User {
	return application.User{
		ID:         model.ID,
		Name:       model.Name,
		Email:      model.Email,
		Department: model.Department,
		RoleID:     model.RoleID,
		IsActive:   model.IsActive,
		CreatedAt:  model.CreatedAt,
	}
}

func toPersistenceUser(user application.User, passwordHash string) persistence.User {
	return persistence.User{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: passwordHash,
		Department:   user.Department,
		RoleID:       user.RoleID,
		IsActive:     user.IsActive,
		CreatedAt:    user.CreatedAt,
	}
}

func toApplicationRequest(model persistence.TrainingRequest) application.TrainingRequest {
	return application.TrainingRequest{
		ID:           model.ID,
		Title:        model.Title,
		Department:   model.Department,
		TrainingType: model.TrainingType,
		Status:       model.Status,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    cloneTime(model.UpdatedAt),
		RequesterID:  model.RequesterID,
		SessionID:    cloneInt(model.SessionID),
	}
}

func toApplicationRequests(models []persistence.TrainingRequest) []application.TrainingRequest {
	if len(models) == 0 {
		return nil
	}
	requests := make([]application.TrainingRequest, 0, len(models))
	for _, model := range models {
		requests = append(requests, toApplicationRequest(model))
	}
	return requests
}

func toPersistenceRequest(request application.TrainingRequest) persistence.TrainingRequest {
	return persistence.TrainingRequest{
		ID:           request.ID,
		Title:        request.Title,
		Department:   request.Department,
		TrainingType: request.TrainingType,
		Status:       request.Status,
		CreatedAt:    request.CreatedAt,
		UpdatedAt:    cloneTime(request.UpdatedAt),
		RequesterID:  request.RequesterID,
		SessionID:    cloneInt(request.SessionID),
	}
}

func toApplicationSession(model persistence.TrainingSession) application.TrainingSession {
	return application.TrainingSession{
		ID:                  model.ID,
		Title:               model.Title,
		Start:               model.Start,
		End:                 model.End,
		Trainer:             model.Trainer,
		Location:            cloneString(model.Location),
		Description:         cloneString(model.Description),
		Status:              model.Status,
		MaxParticipants:     model.MaxParticipants,
		CurrentParticipants: model.CurrentParticipants,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           cloneTime(model.UpdatedAt),
	}
}

func toApplicationSessions(models []persistence.TrainingSession) []application.TrainingSession {
	if len(models) == 0 {
		return nil
	}
	sessions := make([]application.TrainingSession, 0, len(models))
	for _, model := range models {
		sessions = append(sessions, toApplicationSession(model))
	}
	return sessions
}

func toPersistenceSession(session application.TrainingSession) persistence.TrainingSession {
	return persistence.TrainingSession{
		ID:                  session.ID,
		Title:               session.Title,
		Start:               session.Start,
		End:                 session.End,
		Trainer:             session.Trainer,
		Location:            cloneString(session.Location),
		Description:         cloneString(session.Description),
		Status:              session.Status,
		MaxParticipants:     session.MaxParticipants,
		CurrentParticipants: session.CurrentParticipants,
		CreatedAt:           session.CreatedAt,
		UpdatedAt:           cloneTime(session.UpdatedAt),
	}
}

func toApplicationParticipant(model persistence.TrainingParticipant) application.Participant {
	return application.Participant{
		ID:           model.ID,
		UserID:       model.UserID,
		SessionID:    model.SessionID,
		Status:       model.Status,
		RegisteredAt: model.RegisteredAt,
		AttendedAt:   cloneTime(model.AttendedAt),
	}
}

func toApplicationParticipants(models []persistence.TrainingParticipant) []application.Participant {
	if len(models) == 0 {
		return nil
	}
	participants := make([]application.Participant, 0, len(models))
	for _, model := range models {
		participants = append(participants, toApplicationParticipant(model))
	}
	return participants
}

func toPersistenceParticipant(participant application.Participant) persistence.TrainingParticipant {
	return persistence.TrainingParticipant{
		ID:           participant.ID,
		UserID:       participant.UserID,
		SessionID:    participant.SessionID,
		Status:       participant.Status,
		RegisteredAt: participant.RegisteredAt,
		AttendedAt:   cloneTime(participant.AttendedAt),
	}
}

func toApplicationAttendance(models []persistence.Attendance) []application.AttendanceRecord {
	if len(models) == 0 {
		return nil
	}
	records := make([]application.AttendanceRecord, 0, len(models))
	for _, model := range models {
		records = append(records, application.AttendanceRecord{
			ID:         model.ID,
			SessionID:  model.SessionID,
			UserID:     model.UserID,
			Status:     model.Status,
			AttendedAt: cloneTime(model.AttendedAt),
		})
	}
	return records
}

func toPersistenceAttendance(record application.AttendanceRecord) persistence.Attendance {
	return persistence.Attendance{
		ID:         record.ID,
		SessionID:  record.SessionID,
		UserID:     record.UserID,
		Status:     record.Status,
		AttendedAt: cloneTime(record.AttendedAt),
	}
}

func toApplicationAuthSession(model persistence.AuthSession) application.AuthSession {
	return application.AuthSession{
		ID:        model.ID,
		UserID:    model.UserID,
		Token:     model.Token,
		ExpiresAt: model.ExpiresAt,
		CreatedAt: model.CreatedAt,
		RevokedAt: cloneTime(model.RevokedAt),
	}
}

func toPersistenceAuthSession(session application.AuthSession) persistence.AuthSession {
	return persistence.AuthSession{
		ID:        session.ID,
		UserID:    session.UserID,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
		RevokedAt: cloneTime(session.RevokedAt),
	}
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
