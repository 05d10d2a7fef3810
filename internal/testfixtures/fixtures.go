package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/training-management/internal/application"
	"github.com/example/training-management/internal/persistence"
)

var (
	userCounter        uint64
	requestCounter     uint64
	sessionCounter     uint64
	participantCounter uint64
)

var referenceTime = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- User fixtures -----------------------------

// UserFixture represents a deterministic user record that can be
// materialised for application or persistence tests.
type UserFixture struct {
	ID           int
	Name         string
	Email        string
	PasswordHash string
	Department   string
	RoleID       int
	IsActive     bool
	CreatedAt    time.Time
}

// UserOption configures the generated user fixture.
type UserOption func(*UserFixture)

// NewUserFixture returns a deterministic user fixture with optional overrides.
func NewUserFixture(opts ...UserOption) UserFixture {
	idx := atomic.AddUint64(&userCounter, 1)
	fixture := UserFixture{
		ID:           int(idx),
		Name:         fmt.Sprintf("User %03d", idx),
		Email:        fmt.Sprintf("user-%03d@example.com", idx),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		Department:   "Engineering",
		RoleID:       1,
		IsActive:     true,
		CreatedAt:    referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithUserID overrides the generated user ID.
func WithUserID(id int) UserOption {
	return func(f *UserFixture) { f.ID = id }
}

// WithUserName overrides the generated display name.
func WithUserName(name string) UserOption {
	return func(f *UserFixture) { f.Name = name }
}

// WithUserEmail overrides the generated email address.
func WithUserEmail(email string) UserOption {
	return func(f *UserFixture) { f.Email = email }
}

// WithUserDepartment overrides the generated department.
func WithUserDepartment(department string) UserOption {
	return func(f *UserFixture) { f.Department = department }
}

// WithUserRole sets the role reference on the fixture.
func WithUserRole(roleID int) UserOption {
	return func(f *UserFixture) { f.RoleID = roleID }
}

// WithUserActive sets the active flag on the fixture.
func WithUserActive(active bool) UserOption {
	return func(f *UserFixture) { f.IsActive = active }
}

// WithUserCreatedAt sets the created timestamp on the fixture.
func WithUserCreatedAt(t time.Time) UserOption {
	return func(f *UserFixture) { f.CreatedAt = t }
}

// Application returns the fixture as an application.User value.
func (f UserFixture) Application() application.User {
	return application.User{
		ID:         f.ID,
		Name:       f.Name,
		Email:      f.Email,
		Department: f.Department,
		RoleID:     f.RoleID,
		IsActive:   f.IsActive,
		CreatedAt:  f.CreatedAt,
	}
}

// Credentials returns the fixture as application.UserCredentials.
func (f UserFixture) Credentials() application.UserCredentials {
	return application.UserCredentials{
		User:         f.Application(),
		PasswordHash: f.PasswordHash,
	}
}

// Persistence returns the fixture as a persistence.User value.
func (f UserFixture) Persistence() persistence.User {
	return persistence.User{
		ID:           f.ID,
		Name:         f.Name,
		Email:        f.Email,
		PasswordHash: f.PasswordHash,
		Department:   f.Department,
		RoleID:       f.RoleID,
		IsActive:     f.IsActive,
		CreatedAt:    f.CreatedAt,
	}
}

// Input returns the fixture as an application.UserInput.
func (f UserFixture) Input() application.UserInput {
	return application.UserInput{
		Name:       f.Name,
		Email:      f.Email,
		Password:   "secret-password",
		Department: f.Department,
		RoleID:     f.RoleID,
	}
}

// ---------------------------- Request fixtures ---------------------------

// RequestFixture represents a deterministic training request record.
type RequestFixture struct {
	ID           int
	Title        string
	Department   string
	TrainingType string
	Status       string
	RequesterID  int
	SessionID    *int
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// RequestOption configures the generated request fixture.
type RequestOption func(*RequestFixture)

// NewRequestFixture returns a deterministic training request fixture with
// optional overrides.
func NewRequestFixture(opts ...RequestOption) RequestFixture {
	idx := atomic.AddUint64(&requestCounter, 1)
	fixture := RequestFixture{
		ID:           int(idx),
		Title:        fmt.Sprintf("Request %03d", idx),
		Department:   "Engineering",
		TrainingType: "technical",
		Status:       application.RequestStatusPending,
		RequesterID:  1,
		CreatedAt:    referenceTime.Add(time.Duration(idx) * time.Hour),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRequestID overrides the generated request ID.
func WithRequestID(id int) RequestOption {
	return func(f *RequestFixture) { f.ID = id }
}

// WithRequestTitle overrides the generated title.
func WithRequestTitle(title string) RequestOption {
	return func(f *RequestFixture) { f.Title = title }
}

// WithRequestDepartment overrides the generated department.
func WithRequestDepartment(department string) RequestOption {
	return func(f *RequestFixture) { f.Department = department }
}

// WithRequestTrainingType overrides the generated training type.
func WithRequestTrainingType(trainingType string) RequestOption {
	return func(f *RequestFixture) { f.TrainingType = trainingType }
}

// WithRequestStatus overrides the generated status.
func WithRequestStatus(status string) RequestOption {
	return func(f *RequestFixture) { f.Status = status }
}

// WithRequestRequester sets the requester on the fixture.
func WithRequestRequester(userID int) RequestOption {
	return func(f *RequestFixture) { f.RequesterID = userID }
}

// WithRequestSession links the request to a session.
func WithRequestSession(sessionID int) RequestOption {
	return func(f *RequestFixture) {
		id := sessionID
		f.SessionID = &id
	}
}

// WithRequestCreatedAt sets the created timestamp on the fixture.
func WithRequestCreatedAt(t time.Time) RequestOption {
	return func(f *RequestFixture) { f.CreatedAt = t }
}

// Application returns the fixture as an application.TrainingRequest value.
func (f RequestFixture) Application() application.TrainingRequest {
	return application.TrainingRequest{
		ID:           f.ID,
		Title:        f.Title,
		Department:   f.Department,
		TrainingType: f.TrainingType,
		Status:       f.Status,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    copyTimePtr(f.UpdatedAt),
		RequesterID:  f.RequesterID,
		SessionID:    copyIntPtr(f.SessionID),
	}
}

// Persistence returns the fixture as a persistence.TrainingRequest value.
func (f RequestFixture) Persistence() persistence.TrainingRequest {
	return persistence.TrainingRequest{
		ID:           f.ID,
		Title:        f.Title,
		Department:   f.Department,
		TrainingType: f.TrainingType,
		Status:       f.Status,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    copyTimePtr(f.UpdatedAt),
		RequesterID:  f.RequesterID,
		SessionID:    copyIntPtr(f.SessionID),
	}
}

// Input returns the fixture as an application.RequestInput.
func (f RequestFixture) Input() application.RequestInput {
	return application.RequestInput{
		Title:        f.Title,
		Department:   f.Department,
		TrainingType: f.TrainingType,
		RequesterID:  f.RequesterID,
	}
}

// ---------------------------- Session fixtures ---------------------------

// SessionFixture represents a deterministic training session record.
type SessionFixture struct {
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

// SessionOption configures the generated session fixture.
type SessionOption func(*SessionFixture)

// NewSessionFixture returns a deterministic training session fixture with
// optional overrides.
func NewSessionFixture(opts ...SessionOption) SessionFixture {
	idx := atomic.AddUint64(&sessionCounter, 1)
	start := referenceTime.Add(time.Duration(idx) * 24 * time.Hour)
	fixture := SessionFixture{
		ID:              int(idx),
		Title:           fmt.Sprintf("Session %03d", idx),
		Start:           start,
		End:             start.Add(2 * time.Hour),
		Trainer:         fmt.Sprintf("Trainer %03d", idx),
		Status:          application.SessionStatusScheduled,
		MaxParticipants: 10,
		CreatedAt:       referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSessionID overrides the generated session ID.
func WithSessionID(id int) SessionOption {
	return func(f *SessionFixture) { f.ID = id }
}

// WithSessionTitle overrides the generated title.
func WithSessionTitle(title string) SessionOption {
	return func(f *SessionFixture) { f.Title = title }
}

// WithSessionStartEnd sets the start and end times.
func WithSessionStartEnd(start, end time.Time) SessionOption {
	return func(f *SessionFixture) {
		f.Start = start
		f.End = end
	}
}

// WithSessionTrainer overrides the generated trainer name.
func WithSessionTrainer(trainer string) SessionOption {
	return func(f *SessionFixture) { f.Trainer = trainer }
}

// WithSessionLocation sets the optional location.
func WithSessionLocation(location string) SessionOption {
	return func(f *SessionFixture) {
		value := location
		f.Location = &value
	}
}

// WithSessionStatus overrides the generated status.
func WithSessionStatus(status string) SessionOption {
	return func(f *SessionFixture) { f.Status = status }
}

// WithSessionCapacity sets the maximum participant count.
func WithSessionCapacity(max int) SessionOption {
	return func(f *SessionFixture) { f.MaxParticipants = max }
}

// WithSessionParticipants sets the derived participant counter.
func WithSessionParticipants(current int) SessionOption {
	return func(f *SessionFixture) { f.CurrentParticipants = current }
}

// Application returns the fixture as an application.TrainingSession value.
func (f SessionFixture) Application() application.TrainingSession {
	return application.TrainingSession{
		ID:                  f.ID,
		Title:               f.Title,
		Start:               f.Start,
		End:                 f.End,
		Trainer:             f.Trainer,
		Location:            copyStringPtr(f.Location),
		Description:         copyStringPtr(f.Description),
		Status:              f.Status,
		MaxParticipants:     f.MaxParticipants,
		CurrentParticipants: f.CurrentParticipants,
		CreatedAt:           f.CreatedAt,
		UpdatedAt:           copyTimePtr(f.UpdatedAt),
	}
}

// Persistence returns the fixture as a persistence.TrainingSession value.
func (f SessionFixture) Persistence() persistence.TrainingSession {
	return persistence.TrainingSession{
		ID:                  f.ID,
		Title:               f.Title,
		Start:               f.Start,
		End:                 f.End,
		Trainer:             f.Trainer,
		Location:            copyStringPtr(f.Location),
		Description:         copyStringPtr(f.Description),
		Status:              f.Status,
		MaxParticipants:     f.MaxParticipants,
		CurrentParticipants: f.CurrentParticipants,
		CreatedAt:           f.CreatedAt,
		UpdatedAt:           copyTimePtr(f.UpdatedAt),
	}
}

// Input returns the fixture as an application.SessionInput.
func (f SessionFixture) Input() application.SessionInput {
	return application.SessionInput{
		Title:           f.Title,
		Start:           f.Start,
		End:             f.End,
		Trainer:         f.Trainer,
		Location:        copyStringPtr(f.Location),
		Description:     copyStringPtr(f.Description),
		Status:          f.Status,
		MaxParticipants: f.MaxParticipants,
	}
}

// -------------------------- Participant fixtures -------------------------

// ParticipantFixture represents a deterministic registration row.
type ParticipantFixture struct {
	ID           int
	UserID       int
	SessionID    int
	Status       string
	RegisteredAt time.Time
	AttendedAt   *time.Time
}

// ParticipantOption configures the generated participant fixture.
type ParticipantOption func(*ParticipantFixture)

// NewParticipantFixture returns a deterministic participant fixture with
// optional overrides.
func NewParticipantFixture(opts ...ParticipantOption) ParticipantFixture {
	idx := atomic.AddUint64(&participantCounter, 1)
	fixture := ParticipantFixture{
		ID:           int(idx),
		UserID:       1,
		SessionID:    1,
		Status:       application.ParticipantStatusRegistered,
		RegisteredAt: referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithParticipantID overrides the generated participant ID.
func WithParticipantID(id int) ParticipantOption {
	return func(f *ParticipantFixture) { f.ID = id }
}

// WithParticipantUser sets the registered user.
func WithParticipantUser(userID int) ParticipantOption {
	return func(f *ParticipantFixture) { f.UserID = userID }
}

// WithParticipantSession sets the session the row belongs to.
func WithParticipantSession(sessionID int) ParticipantOption {
	return func(f *ParticipantFixture) { f.SessionID = sessionID }
}

// WithParticipantStatus overrides the generated status.
func WithParticipantStatus(status string) ParticipantOption {
	return func(f *ParticipantFixture) { f.Status = status }
}

// WithParticipantAttendedAt sets the attendance timestamp.
func WithParticipantAttendedAt(t time.Time) ParticipantOption {
	return func(f *ParticipantFixture) {
		attended := t
		f.AttendedAt = &attended
	}
}

// Application returns the fixture as an application.Participant value.
func (f ParticipantFixture) Application() application.Participant {
	return application.Participant{
		ID:           f.ID,
		UserID:       f.UserID,
		SessionID:    f.SessionID,
		Status:       f.Status,
		RegisteredAt: f.RegisteredAt,
		AttendedAt:   copyTimePtr(f.AttendedAt),
	}
}

// Persistence returns the fixture as a persistence.TrainingParticipant value.
func (f ParticipantFixture) Persistence() persistence.TrainingParticipant {
	return persistence.TrainingParticipant{
		ID:           f.ID,
		UserID:       f.UserID,
		SessionID:    f.SessionID,
		Status:       f.Status,
		RegisteredAt: f.RegisteredAt,
		AttendedAt:   copyTimePtr(f.AttendedAt),
	}
}

// ------------------------------- helpers ---------------------------------

func copyStringPtr(src *string) *string {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}

func copyTimePtr(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}

func copyIntPtr(src *int) *int {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}
