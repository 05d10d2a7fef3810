package persistence

import "context"

// UserRepository exposes entity-store operations for users.
type UserRepository interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	InsertUser(ctx context.Context, user User) (int, error)
	UpdateUser(ctx context.Context, user User) (bool, error)
	DeleteUser(ctx context.Context, id int) (bool, error)
}

// RoleRepository exposes entity-store operations for roles.
type RoleRepository interface {
	ListRoles(ctx context.Context) ([]Role, error)
	GetRole(ctx context.Context, id int) (Role, error)
	InsertRole(ctx context.Context, role Role) (int, error)
}

// RequestRepository exposes entity-store operations for training requests.
type RequestRepository interface {
	ListRequests(ctx context.Context) ([]TrainingRequest, error)
	ListRequestsByUser(ctx context.Context, userID int) ([]TrainingRequest, error)
	ListRequestsByStatus(ctx context.Context, status string) ([]TrainingRequest, error)
	GetRequest(ctx context.Context, id int) (TrainingRequest, error)
	InsertRequest(ctx context.Context, request TrainingRequest) (int, error)
	UpdateRequest(ctx context.Context, request TrainingRequest) (bool, error)
	DeleteRequest(ctx context.Context, id int) (bool, error)
}

// SessionRepository exposes entity-store operations for training sessions.
type SessionRepository interface {
	ListSessions(ctx context.Context) ([]TrainingSession, error)
	ListSessionsByRequest(ctx context.Context, requestID int) ([]TrainingSession, error)
	GetSession(ctx context.Context, id int) (TrainingSession, error)
	InsertSession(ctx context.Context, session TrainingSession) (int, error)
	UpdateSession(ctx context.Context, session TrainingSession) (bool, error)
	DeleteSession(ctx context.Context, id int) (bool, error)
}

// ParticipantRepository exposes entity-store operations for participant rows.
type ParticipantRepository interface {
	ListParticipants(ctx context.Context) ([]TrainingParticipant, error)
	ListParticipantsBySession(ctx context.Context, sessionID int) ([]TrainingParticipant, error)
	ListParticipantsByUser(ctx context.Context, userID int) ([]TrainingParticipant, error)
	// FindParticipant returns the row for the (user, session) pair, or ErrNotFound.
	FindParticipant(ctx context.Context, userID, sessionID int) (TrainingParticipant, error)
	InsertParticipant(ctx context.Context, participant TrainingParticipant) (int, error)
	UpdateParticipant(ctx context.Context, participant TrainingParticipant) (bool, error)
	DeleteParticipant(ctx context.Context, id int) (bool, error)
}

// AttendanceRepository exposes entity-store operations for attendance records.
type AttendanceRepository interface {
	ListAttendance(ctx context.Context) ([]Attendance, error)
	ListAttendanceBySession(ctx context.Context, sessionID int) ([]Attendance, error)
	InsertAttendance(ctx context.Context, record Attendance) (int, error)
}

// AuthSessionRepository stores bearer sessions issued by the auth collaborator.
type AuthSessionRepository interface {
	GetAuthSessionByToken(ctx context.Context, token string) (AuthSession, error)
	InsertAuthSession(ctx context.Context, session AuthSession) (int, error)
	UpdateAuthSession(ctx context.Context, session AuthSession) (bool, error)
}
