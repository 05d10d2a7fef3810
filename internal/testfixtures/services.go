package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/training-management/internal/application"
)

// ServiceFactory assists tests with constructing application services
// using deterministic clocks and token generators.
type ServiceFactory struct {
	Clock  *Clock
	Tokens *TokenGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:  NewClock(time.Time{}),
		Tokens: NewTokenGenerator("token"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.Tokens == nil {
		factory.Tokens = NewTokenGenerator("token")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithTokenGenerator overrides the token generator used by the factory.
func WithTokenGenerator(tokens *TokenGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Tokens = tokens
	}
}

// RegistrationServiceDeps captures dependencies for constructing a
// registration service.
type RegistrationServiceDeps struct {
	Sessions     application.SessionStore
	Participants application.ParticipantRepository
	Users        application.ParticipantUserDirectory
	Now          func() time.Time
	Logger       *slog.Logger
}

// NewRegistrationService builds a registration service using the supplied
// dependencies combined with the factory defaults.
func (f *ServiceFactory) NewRegistrationService(deps RegistrationServiceDeps) *application.RegistrationService {
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewRegistrationServiceWithLogger(
		deps.Sessions,
		deps.Participants,
		deps.Users,
		now,
		deps.Logger,
	)
}

// RequestServiceDeps captures dependencies for constructing a request service.
type RequestServiceDeps struct {
	Requests application.RequestRepository
	Now      func() time.Time
	Logger   *slog.Logger
}

// NewRequestService builds a request service using the supplied dependencies.
func (f *ServiceFactory) NewRequestService(deps RequestServiceDeps) *application.RequestService {
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewRequestServiceWithLogger(deps.Requests, now, deps.Logger)
}

// SessionServiceDeps captures dependencies for constructing a training
// session service.
type SessionServiceDeps struct {
	Sessions     application.TrainingSessionRepository
	Participants application.SessionUserRegistrations
	Now          func() time.Time
	Logger       *slog.Logger
}

// NewTrainingSessionService builds a training session service using the
// supplied dependencies.
func (f *ServiceFactory) NewTrainingSessionService(deps SessionServiceDeps) *application.TrainingSessionService {
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewTrainingSessionServiceWithLogger(
		deps.Sessions,
		deps.Participants,
		now,
		deps.Logger,
	)
}

// AuthServiceDeps captures dependencies for constructing an auth service.
type AuthServiceDeps struct {
	Credentials    application.CredentialStore
	Sessions       application.AuthSessionRepository
	Roles          application.RoleCatalog
	PasswordVerify application.PasswordVerifier
	TokenGenerator func() string
	Now            func() time.Time
	SessionTTL     time.Duration
	Logger         *slog.Logger
}

// NewAuthService builds an auth service using the supplied dependencies.
func (f *ServiceFactory) NewAuthService(deps AuthServiceDeps) *application.AuthService {
	token := deps.TokenGenerator
	if token == nil {
		token = f.Tokens.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewAuthServiceWithLogger(
		deps.Credentials,
		deps.Sessions,
		deps.Roles,
		deps.PasswordVerify,
		token,
		now,
		deps.SessionTTL,
		deps.Logger,
	)
}

// UserServiceDeps captures dependencies for constructing a user service.
type UserServiceDeps struct {
	Users  application.UserRepository
	Roles  application.RoleCatalog
	Hash   application.PasswordHasher
	Now    func() time.Time
	Logger *slog.Logger
}

// NewUserService builds a user service using the supplied dependencies.
func (f *ServiceFactory) NewUserService(deps UserServiceDeps) *application.UserService {
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewUserServiceWithLogger(
		deps.Users,
		deps.Roles,
		deps.Hash,
		now,
		deps.Logger,
	)
}
