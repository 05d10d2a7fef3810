package application

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type userRepoStub struct {
	users     map[int]User
	hashes    map[int]string
	nextID    int
	insertErr error
	updateErr error
	deleteErr error
}

func newUserRepoStub(users ...User) *userRepoStub {
	stub := &userRepoStub{
		users:  make(map[int]User, len(users)),
		hashes: make(map[int]string),
	}
	for _, user := range users {
		stub.users[user.ID] = user
		if user.ID > stub.nextID {
			stub.nextID = user.ID
		}
	}
	return stub
}

func (r *userRepoStub) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

func (r *userRepoStub) GetUser(ctx context.Context, id int) (User, error) {
	user, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (r *userRepoStub) GetUserByEmail(ctx context.Context, email string) (User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *userRepoStub) InsertUser(ctx context.Context, user User, passwordHash string) (int, error) {
	if r.insertErr != nil {
		return 0, r.insertErr
	}
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return 0, ErrAlreadyExists
		}
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = user
	r.hashes[user.ID] = passwordHash
	return user.ID, nil
}

func (r *userRepoStub) UpdateUser(ctx context.Context, user User) (bool, error) {
	if r.updateErr != nil {
		return false, r.updateErr
	}
	if _, ok := r.users[user.ID]; !ok {
		return false, nil
	}
	r.users[user.ID] = user
	return true, nil
}

func (r *userRepoStub) DeleteUser(ctx context.Context, id int) (bool, error) {
	if r.deleteErr != nil {
		return false, r.deleteErr
	}
	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}

type roleCatalogStub struct {
	roles []Role
}

func (r *roleCatalogStub) ListRoles(ctx context.Context) ([]Role, error) {
	return r.roles, nil
}

func (r *roleCatalogStub) GetRole(ctx context.Context, id int) (Role, error) {
	for _, role := range r.roles {
		if role.ID == id {
			return role, nil
		}
	}
	return Role{}, ErrNotFound
}

func defaultRoles() *roleCatalogStub {
	return &roleCatalogStub{roles: []Role{
		{ID: 1, Name: "employee"},
		{ID: 2, Name: "manager"},
	}}
}

func recordingHasher(calls *[]string) PasswordHasher {
	return func(password string) (string, error) {
		*calls = append(*calls, password)
		return "hashed:" + password, nil
	}
}

func TestUserService_CreateUser_HashesPasswordAndNormalizesEmail(t *testing.T) {
	t.Parallel()

	var hashed []string
	repo := newUserRepoStub()
	svc := NewUserService(repo, defaultRoles(), recordingHasher(&hashed), fixedClock(t, 9))

	user, err := svc.CreateUser(context.Background(), UserInput{
		Name:       "Aiko Tanaka",
		Email:      " Aiko.Tanaka@Example.COM ",
		Password:   "secret",
		Department: "Engineering",
		RoleID:     1,
	})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	if user.Email != "aiko.tanaka@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if !user.IsActive {
		t.Fatalf("expected new accounts to be active")
	}
	if len(hashed) != 1 || hashed[0] != "secret" {
		t.Fatalf("expected password to be hashed once, got %v", hashed)
	}
	if repo.hashes[user.ID] != "hashed:secret" {
		t.Fatalf("expected stored hash, got %q", repo.hashes[user.ID])
	}
}

func TestUserService_CreateUser_RejectsUnknownRole(t *testing.T) {
	t.Parallel()

	var hashed []string
	svc := NewUserService(newUserRepoStub(), defaultRoles(), recordingHasher(&hashed), fixedClock(t, 9))

	_, err := svc.CreateUser(context.Background(), UserInput{
		Name:       "Aiko Tanaka",
		Email:      "aiko@example.com",
		Password:   "secret",
		Department: "Engineering",
		RoleID:     99,
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["role_id"]; !ok {
		t.Fatalf("expected role_id validation error, got %v", vErr.FieldErrors)
	}
	if len(hashed) != 0 {
		t.Fatalf("expected no hashing for rejected input")
	}
}

func TestUserService_CreateUser_ValidatesInput(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newUserRepoStub(), defaultRoles(), nil, fixedClock(t, 9))

	_, err := svc.CreateUser(context.Background(), UserInput{Email: "not-an-address"})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"name", "email", "password", "department"} {
		if _, ok := vErr.FieldErrors[field]; !ok {
			t.Fatalf("expected %s validation error, got %v", field, vErr.FieldErrors)
		}
	}
}

func TestUserService_CreateUser_RejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := newUserRepoStub(User{ID: 1, Name: "Aiko", Email: "aiko@example.com", Department: "Engineering", IsActive: true})
	var hashed []string
	svc := NewUserService(repo, defaultRoles(), recordingHasher(&hashed), fixedClock(t, 9))

	_, err := svc.CreateUser(context.Background(), UserInput{
		Name:       "Impostor",
		Email:      "aiko@example.com",
		Password:   "secret",
		Department: "Engineering",
	})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUserService_UpdateUser_DoesNotRequirePassword(t *testing.T) {
	t.Parallel()

	repo := newUserRepoStub(User{
		ID: 1, Name: "Aiko", Email: "aiko@example.com", Department: "Engineering", RoleID: 1, IsActive: true,
	})
	svc := NewUserService(repo, defaultRoles(), nil, fixedClock(t, 9))

	user, err := svc.UpdateUser(context.Background(), 1, UserInput{
		Name:       "Aiko Tanaka",
		Email:      "aiko@example.com",
		Department: "Platform",
		RoleID:     2,
	})
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}

	if user.Department != "Platform" || user.RoleID != 2 {
		t.Fatalf("expected updated attributes, got %+v", user)
	}
	if !user.IsActive {
		t.Fatalf("expected active flag to be preserved")
	}
}

func TestUserService_DeactivateUser_PreservesAccount(t *testing.T) {
	t.Parallel()

	repo := newUserRepoStub(User{
		ID: 1, Name: "Aiko", Email: "aiko@example.com", Department: "Engineering", IsActive: true,
	})
	svc := NewUserService(repo, defaultRoles(), nil, fixedClock(t, 9))

	if err := svc.DeactivateUser(context.Background(), 1); err != nil {
		t.Fatalf("DeactivateUser returned error: %v", err)
	}

	stored := repo.users[1]
	if stored.IsActive {
		t.Fatalf("expected account to be inactive")
	}
	if stored.Name != "Aiko" {
		t.Fatalf("expected account attributes to survive deactivation, got %+v", stored)
	}
}

func TestUserService_ListUsersByRole_MatchesRoleNameCaseInsensitively(t *testing.T) {
	t.Parallel()

	repo := newUserRepoStub(
		User{ID: 1, Name: "Aiko", Email: "aiko@example.com", RoleID: 2, IsActive: true},
		User{ID: 2, Name: "Benjiro", Email: "benjiro@example.com", RoleID: 1, IsActive: true},
	)
	svc := NewUserService(repo, defaultRoles(), nil, fixedClock(t, 9))

	users, err := svc.ListUsersByRole(context.Background(), "Manager")
	if err != nil {
		t.Fatalf("ListUsersByRole returned error: %v", err)
	}
	if len(users) != 1 || users[0].ID != 1 {
		t.Fatalf("expected only the manager account, got %+v", users)
	}

	users, err = svc.ListUsersByRole(context.Background(), "auditor")
	if err != nil {
		t.Fatalf("ListUsersByRole returned error: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected empty result for unknown role, got %+v", users)
	}
}

func TestUserService_GetUserByEmail_NormalizesLookup(t *testing.T) {
	t.Parallel()

	repo := newUserRepoStub(User{ID: 1, Name: "Aiko", Email: "aiko@example.com", IsActive: true})
	svc := NewUserService(repo, defaultRoles(), nil, fixedClock(t, 9))

	user, err := svc.GetUserByEmail(context.Background(), "  AIKO@example.com ")
	if err != nil {
		t.Fatalf("GetUserByEmail returned error: %v", err)
	}
	if user.ID != 1 {
		t.Fatalf("expected user 1, got %+v", user)
	}

	if _, err := svc.GetUserByEmail(context.Background(), strings.ToUpper("missing@example.com")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
