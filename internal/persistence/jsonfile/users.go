package jsonfile

import (
	"context"
	"sort"
	"strings"

	"github.com/example/training-management/internal/persistence"
)

// ListUsers returns all users ordered by CreatedAt ascending.
func (s *Store) ListUsers(ctx context.Context) ([]persistence.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := readList[persistence.User](s.path(usersFile))
	if err != nil {
		return nil, err
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})

	return users, nil
}

// GetUser retrieves a user by id.
func (s *Store) GetUser(ctx context.Context, id int) (persistence.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := readList[persistence.User](s.path(usersFile))
	if err != nil {
		return persistence.User{}, err
	}
	for _, user := range users {
		if user.ID == id {
			return user, nil
		}
	}
	return persistence.User{}, persistence.ErrNotFound
}

// GetUserByEmail retrieves a user by email address, case-insensitively.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (persistence.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := readList[persistence.User](s.path(usersFile))
	if err != nil {
		return persistence.User{}, err
	}
	for _, user := range users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return persistence.User{}, persistence.ErrNotFound
}

// InsertUser stores a new user and returns the assigned id.
func (s *Store) InsertUser(ctx context.Context, user persistence.User) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := readList[persistence.User](s.path(usersFile))
	if err != nil {
		return 0, err
	}
	for _, existing := range users {
		if strings.EqualFold(existing.Email, user.Email) {
			return 0, persistence.ErrDuplicate
		}
	}

	user.ID = nextID(users, func(u persistence.User) int { return u.ID })
	users = append(users, user)
	if err := writeList(s.path(usersFile), users); err != nil {
		return 0, err
	}
	return user.ID, nil
}

// UpdateUser replaces an existing user row.
func (s *Store) UpdateUser(ctx context.Context, user persistence.User) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := readList[persistence.User](s.path(usersFile))
	if err != nil {
		return false, err
	}
	for i, existing := range users {
		if existing.ID == user.ID {
			users[i] = user
			return true, writeList(s.path(usersFile), users)
		}
	}
	return false, nil
}

// DeleteUser removes a user row by id.
func (s *Store) DeleteUser(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := readList[persistence.User](s.path(usersFile))
	if err != nil {
		return false, err
	}
	for i, existing := range users {
		if existing.ID == id {
			users = append(users[:i], users[i+1:]...)
			return true, writeList(s.path(usersFile), users)
		}
	}
	return false, nil
}

// ListRoles returns all roles ordered by id.
func (s *Store) ListRoles(ctx context.Context) ([]persistence.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roles, err := readList[persistence.Role](s.path(rolesFile))
	if err != nil {
		return nil, err
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
	return roles, nil
}

// GetRole retrieves a role by id.
func (s *Store) GetRole(ctx context.Context, id int) (persistence.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roles, err := readList[persistence.Role](s.path(rolesFile))
	if err != nil {
		return persistence.Role{}, err
	}
	for _, role := range roles {
		if role.ID == id {
			return role, nil
		}
	}
	return persistence.Role{}, persistence.ErrNotFound
}

// InsertRole stores a new role and returns the assigned id.
func (s *Store) InsertRole(ctx context.Context, role persistence.Role) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roles, err := readList[persistence.Role](s.path(rolesFile))
	if err != nil {
		return 0, err
	}
	for _, existing := range roles {
		if strings.EqualFold(existing.Name, role.Name) {
			return 0, persistence.ErrDuplicate
		}
	}

	role.ID = nextID(roles, func(r persistence.Role) int { return r.ID })
	roles = append(roles, role)
	if err := writeList(s.path(rolesFile), roles); err != nil {
		return 0, err
	}
	return role.ID, nil
}
