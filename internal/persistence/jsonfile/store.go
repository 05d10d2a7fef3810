package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/example/training-management/internal/persistence"
)

// Store persists each entity collection as a JSON file that is read and
// overwritten whole on every operation. A store-wide mutex serializes access,
// which is the only concurrency boundary the file backend provides.
type Store struct {
	mu  sync.Mutex
	dir string
}

// Open prepares a store rooted at dir, creating the directory if needed.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("jsonfile: data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("jsonfile: create data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Close releases resources held by the store. No-op for the file backend.
func (s *Store) Close() error {
	return nil
}

// Migrate initialises the store. The file backend creates collections lazily,
// so only the role vocabulary is seeded.
func (s *Store) Migrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	roles, err := readList[persistence.Role](s.path(rolesFile))
	if err != nil {
		return err
	}
	if len(roles) > 0 {
		return nil
	}
	for i, name := range []string{"employee", "ld", "admin"} {
		roles = append(roles, persistence.Role{ID: i + 1, Name: name})
	}
	return writeList(s.path(rolesFile), roles)
}

const (
	usersFile        = "users.json"
	rolesFile        = "roles.json"
	requestsFile     = "training_requests.json"
	sessionsFile     = "training_sessions.json"
	participantsFile = "training_participants.json"
	attendanceFile   = "attendance.json"
	authSessionsFile = "auth_sessions.json"
)

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// readList loads a whole collection, treating a missing file as empty.
func readList[T any](path string) ([]T, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("jsonfile: read %s: %w", filepath.Base(path), err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var list []T
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("jsonfile: decode %s: %w", filepath.Base(path), err)
	}
	return list, nil
}

// writeList overwrites a whole collection.
func writeList[T any](path string, list []T) error {
	if list == nil {
		list = []T{}
	}
	raw, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("jsonfile: write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// nextID assigns the next integer id for a collection.
func nextID[T any](list []T, id func(T) int) int {
	max := 0
	for _, item := range list {
		if v := id(item); v > max {
			max = v
		}
	}
	return max + 1
}
