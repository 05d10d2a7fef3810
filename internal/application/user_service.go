package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
)

// UserRepository captures the persistence operations needed by the user service.
type UserRepository interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	InsertUser(ctx context.Context, user User, passwordHash string) (int, error)
	UpdateUser(ctx context.Context, user User) (bool, error)
	DeleteUser(ctx context.Context, id int) (bool, error)
}

// RoleCatalog resolves role references.
type RoleCatalog interface {
	ListRoles(ctx context.Context) ([]Role, error)
	GetRole(ctx context.Context, id int) (Role, error)
}

// PasswordHasher derives a storable hash from a plaintext password.
type PasswordHasher func(password string) (string, error)

// UserService orchestrates validation and persistence for user accounts.
type UserService struct {
	users        UserRepository
	roles        RoleCatalog
	hashPassword PasswordHasher
	now          func() time.Time
	logger       *slog.Logger
}

// NewUserService wires dependencies for the user service.
func NewUserService(users UserRepository, roles RoleCatalog, hash PasswordHasher, now func() time.Time) *UserService {
	return NewUserServiceWithLogger(users, roles, hash, now, nil)
}

// NewUserServiceWithLogger constructs a UserService with a specified logger.
func NewUserServiceWithLogger(users UserRepository, roles RoleCatalog, hash PasswordHasher, now func() time.Time, logger *slog.Logger) *UserService {
	if hash == nil {
		hash = func(password string) (string, error) {
			return CreatePasswordHash(password, DefaultArgon2idParams)
		}
	}
	if now == nil {
		now = time.Now
	}
	return &UserService{
		users:        users,
		roles:        roles,
		hashPassword: hash,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *UserService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "UserService", operation, attrs...)
}

// ListUsers returns all user accounts ordered by creation time.
func (s *UserService) ListUsers(ctx context.Context) ([]User, error) {
	if s == nil || s.users == nil {
		return nil, fmt.Errorf("user repository not configured")
	}
	return s.users.ListUsers(ctx)
}

// GetUser retrieves a user account by id.
func (s *UserService) GetUser(ctx context.Context, id int) (User, error) {
	if s == nil || s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}
	return s.users.GetUser(ctx, id)
}

// GetUserByEmail retrieves a user account by email address,
// case-insensitively.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (User, error) {
	if s == nil || s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}
	return s.users.GetUserByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
}

// ListUsersByRole returns the users whose role name matches the given
// name. An unknown role name yields an empty result.
func (s *UserService) ListUsersByRole(ctx context.Context, roleName string) ([]User, error) {
	if s == nil || s.users == nil {
		return nil, fmt.Errorf("user repository not configured")
	}
	if s.roles == nil {
		return nil, fmt.Errorf("role catalog not configured")
	}

	roles, err := s.roles.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	roleID := 0
	for _, role := range roles {
		if strings.EqualFold(role.Name, strings.TrimSpace(roleName)) {
			roleID = role.ID
			break
		}
	}
	if roleID == 0 {
		return nil, nil
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	var matched []User
	for _, user := range users {
		if user.RoleID == roleID {
			matched = append(matched, user)
		}
	}
	return matched, nil
}

// ListRoles returns the role vocabulary.
func (s *UserService) ListRoles(ctx context.Context) ([]Role, error) {
	if s == nil || s.roles == nil {
		return nil, fmt.Errorf("role catalog not configured")
	}
	return s.roles.ListRoles(ctx)
}

func validateUserInput(input UserInput, requirePassword bool) *ValidationError {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		vErr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		vErr.add("email", "email is invalid")
	}
	if requirePassword && input.Password == "" {
		vErr.add("password", "password is required")
	}
	if strings.TrimSpace(input.Department) == "" {
		vErr.add("department", "department is required")
	}
	return vErr
}

// CreateUser validates input, hashes the password and persists a new
// active account. A duplicate email yields ErrAlreadyExists.
func (s *UserService) CreateUser(ctx context.Context, input UserInput) (user User, err error) {
	if s == nil || s.users == nil {
		err = fmt.Errorf("user repository not configured")
		return
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	logger := s.loggerWith(ctx, "CreateUser", "email", email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "user creation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", user.ID).InfoContext(ctx, "user created")
	}()

	vErr := validateUserInput(input, true)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if s.roles != nil && input.RoleID > 0 {
		if _, roleErr := s.roles.GetRole(ctx, input.RoleID); roleErr != nil {
			if errors.Is(roleErr, ErrNotFound) {
				vErr.add("role_id", "role does not exist")
				err = vErr
				return
			}
			err = roleErr
			return
		}
	}

	hash, hashErr := s.hashPassword(input.Password)
	if hashErr != nil {
		err = hashErr
		return
	}

	user = User{
		Name:       strings.TrimSpace(input.Name),
		Email:      email,
		Department: strings.TrimSpace(input.Department),
		RoleID:     input.RoleID,
		IsActive:   true,
		CreatedAt:  s.now(),
	}

	id, insertErr := s.users.InsertUser(ctx, user, hash)
	if insertErr != nil {
		err = insertErr
		user = User{}
		return
	}
	user.ID = id
	return user, nil
}

// UpdateUser replaces a user's editable attributes. The password is only
// rehashed when a new one is supplied.
func (s *UserService) UpdateUser(ctx context.Context, id int, input UserInput) (user User, err error) {
	if s == nil || s.users == nil {
		err = fmt.Errorf("user repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateUser", "user_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "user update failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "user updated")
	}()

	vErr := validateUserInput(input, false)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	existing, getErr := s.users.GetUser(ctx, id)
	if getErr != nil {
		err = getErr
		return
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Email = strings.TrimSpace(strings.ToLower(input.Email))
	existing.Department = strings.TrimSpace(input.Department)
	if input.RoleID > 0 {
		existing.RoleID = input.RoleID
	}

	ok, updateErr := s.users.UpdateUser(ctx, existing)
	if updateErr != nil {
		err = updateErr
		return
	}
	if !ok {
		err = ErrNotFound
		return
	}
	return existing, nil
}

// DeactivateUser marks an account inactive without deleting its history.
func (s *UserService) DeactivateUser(ctx context.Context, id int) error {
	if s == nil || s.users == nil {
		return fmt.Errorf("user repository not configured")
	}

	logger := s.loggerWith(ctx, "DeactivateUser", "user_id", id)

	existing, err := s.users.GetUser(ctx, id)
	if err != nil {
		logger.ErrorContext(ctx, "user deactivation failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	existing.IsActive = false

	ok, err := s.users.UpdateUser(ctx, existing)
	if err != nil {
		logger.ErrorContext(ctx, "user deactivation failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	if !ok {
		return ErrNotFound
	}
	logger.InfoContext(ctx, "user deactivated")
	return nil
}

// DeleteUser removes a user account.
func (s *UserService) DeleteUser(ctx context.Context, id int) error {
	if s == nil || s.users == nil {
		return fmt.Errorf("user repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteUser", "user_id", id)

	deleted, err := s.users.DeleteUser(ctx, id)
	if err != nil {
		logger.ErrorContext(ctx, "user deletion failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	logger.InfoContext(ctx, "user deleted")
	return nil
}
