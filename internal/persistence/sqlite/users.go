package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/training-management/internal/persistence"
)

const userColumns = `id, name, email, password_hash, department, role_id, is_active, created_at`

func scanUser(row interface{ Scan(...any) error }) (persistence.User, error) {
	var user persistence.User
	var active int
	var createdAt string

	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.Department, &user.RoleID, &active, &createdAt)
	if err != nil {
		return persistence.User{}, err
	}

	user.IsActive = active != 0
	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.User{}, err
	}
	return user, nil
}

// ListUsers returns all users ordered by creation time.
func (s *Store) ListUsers(ctx context.Context) ([]persistence.User, error) {
	rows, err := s.pool.DB().QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var users []persistence.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, mapError(err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return users, nil
}

// GetUser retrieves a user by id.
func (s *Store) GetUser(ctx context.Context, id int) (persistence.User, error) {
	row := s.pool.DB().QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.User{}, persistence.ErrNotFound
		}
		return persistence.User{}, mapError(err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (persistence.User, error) {
	row := s.pool.DB().QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? COLLATE NOCASE`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.User{}, persistence.ErrNotFound
		}
		return persistence.User{}, mapError(err)
	}
	return user, nil
}

// InsertUser stores a new user and returns the assigned id.
func (s *Store) InsertUser(ctx context.Context, user persistence.User) (int, error) {
	active := 0
	if user.IsActive {
		active = 1
	}
	result, err := s.pool.DB().ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, department, role_id, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.Name, user.Email, user.PasswordHash, user.Department, user.RoleID,
		active, formatTime(user.CreatedAt))
	if err != nil {
		return 0, mapError(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, mapError(err)
	}
	return int(id), nil
}

// UpdateUser replaces an existing user row.
func (s *Store) UpdateUser(ctx context.Context, user persistence.User) (bool, error) {
	active := 0
	if user.IsActive {
		active = 1
	}
	result, err := s.pool.DB().ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, password_hash = ?, department = ?,
		 role_id = ?, is_active = ? WHERE id = ?`,
		user.Name, user.Email, user.PasswordHash, user.Department, user.RoleID,
		active, user.ID)
	if err != nil {
		return false, mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, mapError(err)
	}
	return affected > 0, nil
}

// DeleteUser removes a user row by id.
func (s *Store) DeleteUser(ctx context.Context, id int) (bool, error) {
	result, err := s.pool.DB().ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return false, mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, mapError(err)
	}
	return affected > 0, nil
}

// ListRoles returns all roles ordered by id.
func (s *Store) ListRoles(ctx context.Context) ([]persistence.Role, error) {
	rows, err := s.pool.DB().QueryContext(ctx, `SELECT id, name FROM roles ORDER BY id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var roles []persistence.Role
	for rows.Next() {
		var role persistence.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, mapError(err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return roles, nil
}

// GetRole retrieves a role by id.
func (s *Store) GetRole(ctx context.Context, id int) (persistence.Role, error) {
	var role persistence.Role
	err := s.pool.DB().QueryRowContext(ctx,
		`SELECT id, name FROM roles WHERE id = ?`, id).Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Role{}, persistence.ErrNotFound
		}
		return persistence.Role{}, mapError(err)
	}
	return role, nil
}

// InsertRole stores a new role and returns the assigned id.
func (s *Store) InsertRole(ctx context.Context, role persistence.Role) (int, error) {
	result, err := s.pool.DB().ExecContext(ctx,
		`INSERT INTO roles (name) VALUES (?)`, role.Name)
	if err != nil {
		return 0, mapError(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, mapError(err)
	}
	return int(id), nil
}
