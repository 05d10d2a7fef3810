package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/training-management/internal/application"
	"github.com/example/training-management/internal/persistence"
)

func TestMapStoreError_TranslatesSentinels(t *testing.T) {
	t.Parallel()

	if err := mapStoreError(nil); err != nil {
		t.Fatalf("expected nil to pass through, got %v", err)
	}
	if err := mapStoreError(persistence.ErrNotFound); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected ErrNotFound translation, got %v", err)
	}
	if err := mapStoreError(persistence.ErrDuplicate); !errors.Is(err, application.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists translation, got %v", err)
	}

	storageErr := errors.New("disk full")
	if err := mapStoreError(storageErr); !errors.Is(err, storageErr) {
		t.Fatalf("expected unknown errors to pass through, got %v", err)
	}
}

type userStoreStub struct {
	users map[int]persistence.User
}

func (s *userStoreStub) ListUsers(ctx context.Context) ([]persistence.User, error) {
	list := make([]persistence.User, 0, len(s.users))
	for _, user := range s.users {
		list = append(list, user)
	}
	return list, nil
}

func (s *userStoreStub) GetUser(ctx context.Context, id int) (persistence.User, error) {
	user, ok := s.users[id]
	if !ok {
		return persistence.User{}, persistence.ErrNotFound
	}
	return user, nil
}

func (s *userStoreStub) GetUserByEmail(ctx context.Context, email string) (persistence.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return persistence.User{}, persistence.ErrNotFound
}

func (s *userStoreStub) InsertUser(ctx context.Context, user persistence.User) (int, error) {
	user.ID = len(s.users) + 1
	s.users[user.ID] = user
	return user.ID, nil
}

func (s *userStoreStub) UpdateUser(ctx context.Context, user persistence.User) (bool, error) {
	if _, ok := s.users[user.ID]; !ok {
		return false, nil
	}
	s.users[user.ID] = user
	return true, nil
}

func (s *userStoreStub) DeleteUser(ctx context.Context, id int) (bool, error) {
	if _, ok := s.users[id]; !ok {
		return false, nil
	}
	delete(s.users, id)
	return true, nil
}

func TestUserRepositoryAdapter_UpdateCarriesStoredHashForward(t *testing.T) {
	t.Parallel()

	store := &userStoreStub{users: map[int]persistence.User{
		1: {
			ID: 1, Name: "Aiko", Email: "aiko@example.com", PasswordHash: "stored-hash",
			Department: "Engineering", RoleID: 1, IsActive: true,
			CreatedAt: time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC),
		},
	}}
	adapter := newUserRepositoryAdapter(store)

	ok, err := adapter.UpdateUser(context.Background(), application.User{
		ID: 1, Name: "Aiko Tanaka", Email: "aiko@example.com",
		Department: "Platform", RoleID: 1, IsActive: true,
		CreatedAt: time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if !ok {
		t.Fatal("expected the update to report success")
	}

	stored := store.users[1]
	if stored.PasswordHash != "stored-hash" {
		t.Fatalf("expected the stored credential hash to survive the update, got %q", stored.PasswordHash)
	}
	if stored.Department != "Platform" {
		t.Fatalf("expected the department to change, got %q", stored.Department)
	}
}

func TestCredentialStoreAdapter_ExposesHashAlongsideUser(t *testing.T) {
	t.Parallel()

	store := &userStoreStub{users: map[int]persistence.User{
		1: {ID: 1, Name: "Aiko", Email: "aiko@example.com", PasswordHash: "stored-hash", RoleID: 2, IsActive: true},
	}}
	adapter := newCredentialStoreAdapter(store)

	credentials, err := adapter.GetUserCredentialsByEmail(context.Background(), "aiko@example.com")
	if err != nil {
		t.Fatalf("GetUserCredentialsByEmail failed: %v", err)
	}
	if credentials.PasswordHash != "stored-hash" || credentials.User.ID != 1 {
		t.Fatalf("unexpected credentials: %+v", credentials)
	}

	if _, err := adapter.GetUserCredentialsByEmail(context.Background(), "ghost@example.com"); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected the lookup miss to translate, got %v", err)
	}
}
