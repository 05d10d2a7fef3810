package persistence

import "time"

// User is an employee account stored with its credential hash.
type User struct {
	ID           int
	Name         string
	Email        string
	PasswordHash string
	Department   string
	RoleID       int
	IsActive     bool
	CreatedAt    time.Time
}

// Role is a named role row. The seeded vocabulary is employee, ld and admin,
// but the set is data, not an enum.
type Role struct {
	ID   int
	Name string
}

// TrainingRequest is an employee-initiated ask for training.
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

// TrainingSession is a scheduled training event with a capacity and a trainer.
// CurrentParticipants is a derived counter maintained by the registration flow.
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

// TrainingParticipant links a user to a session. At most one row exists per
// (user, session) pair.
type TrainingParticipant struct {
	ID           int
	UserID       int
	SessionID    int
	Status       string
	RegisteredAt time.Time
	AttendedAt   *time.Time
}

// Attendance is a per-session, per-user attendance record consumed only by
// reporting.
type Attendance struct {
	ID         int
	SessionID  int
	UserID     int
	Status     string
	AttendedAt *time.Time
}

// AuthSession is a bearer session issued to an authenticated user.
type AuthSession struct {
	ID        int
	UserID    int
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}
