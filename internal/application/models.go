package application

import "time"

// Status vocabulary shared across requests, sessions and registrations.
const (
	RequestStatusPending   = "pending"
	RequestStatusApproved  = "approved"
	RequestStatusRejected  = "rejected"
	RequestStatusCompleted = "completed"

	SessionStatusScheduled  = "scheduled"
	SessionStatusInProgress = "in-progress"
	SessionStatusCompleted  = "completed"
	SessionStatusCancelled  = "cancelled"

	ParticipantStatusRegistered = "registered"
	ParticipantStatusAttended   = "attended"
	ParticipantStatusCancelled  = "cancelled"
	ParticipantStatusNoShow     = "no-show"

	AttendanceStatusPresent = "present"
	AttendanceStatusAbsent  = "absent"
)

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID int
	Role   string
}

// User represents an employee account exposed by the application services.
type User struct {
	ID         int
	Name       string
	Email      string
	Department string
	RoleID     int
	IsActive   bool
	CreatedAt  time.Time
}

// Role names a coarse permission group. The set of roles is data, not an
// enum, so deployments can extend it.
type Role struct {
	ID   int
	Name string
}

// UserInput captures caller provided user attributes.
type UserInput struct {
	Name       string
	Email      string
	Password   string
	Department string
	RoleID     int
}

// TrainingRequest is an employee's ask for a training to be organised.
type TrainingRequest struct {
	ID           int
	Title        string
	Department   string
	TrainingType string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	RequesterID  int
	SessionID    *int
}

// RequestInput captures caller provided training request fields.
type RequestInput struct {
	Title        string
	Department   string
	TrainingType string
	RequesterID  int
}

// TrainingSession is a scheduled training event with a capacity.
type TrainingSession struct {
	ID                  int
	Title               string
	Start               time.Time
	End                 time.Time
	Trainer             string
	Location            *string
	Description         *string
	Status              string
	MaxParticipants     int
	CurrentParticipants int
	CreatedAt           time.Time
	UpdatedAt           *time.Time
}

// SessionInput captures caller provided training session fields.
type SessionInput struct {
	Title           string
	Start           time.Time
	End             time.Time
	Trainer         string
	Location        *string
	Description     *string
	Status          string
	MaxParticipants int
}

// Participant is the registration record joining a user to a session.
type Participant struct {
	ID           int
	UserID       int
	SessionID    int
	Status       string
	RegisteredAt time.Time
	AttendedAt   *time.Time
	UserName     string
	UserEmail    string
}

// AttendanceRecord tracks whether a user showed up at a session. It is
// written by the attendance path only and read by reporting.
type AttendanceRecord struct {
	ID         int
	SessionID  int
	UserID     int
	Status     string
	AttendedAt *time.Time
}

// AuthSession represents an authenticated bearer session issued to a user.
type AuthSession struct {
	ID        int
	UserID    int
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// UserCredentials models the authentication attributes persisted for a user.
type UserCredentials struct {
	User         User
	PasswordHash string
}

// AuthenticateParams captures the data required to authenticate a user.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult captures the outcome of a successful authentication attempt.
type AuthenticateResult struct {
	User    User
	Session AuthSession
}
