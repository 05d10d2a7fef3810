package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

type credentialStoreStub struct {
	credentials map[string]UserCredentials
}

func newCredentialStoreStub(credentials ...UserCredentials) *credentialStoreStub {
	stub := &credentialStoreStub{credentials: make(map[string]UserCredentials, len(credentials))}
	for _, cred := range credentials {
		stub.credentials[cred.User.Email] = cred
	}
	return stub
}

func (c *credentialStoreStub) GetUserCredentialsByEmail(ctx context.Context, email string) (UserCredentials, error) {
	creds, ok := c.credentials[email]
	if !ok {
		return UserCredentials{}, ErrNotFound
	}
	return creds, nil
}

func (c *credentialStoreStub) GetUser(ctx context.Context, id int) (User, error) {
	for _, creds := range c.credentials {
		if creds.User.ID == id {
			return creds.User, nil
		}
	}
	return User{}, ErrNotFound
}

type authSessionRepoStub struct {
	sessions  map[string]AuthSession
	nextID    int
	insertErr error
}

func newAuthSessionRepoStub(sessions ...AuthSession) *authSessionRepoStub {
	stub := &authSessionRepoStub{sessions: make(map[string]AuthSession, len(sessions))}
	for _, session := range sessions {
		stub.sessions[session.Token] = session
		if session.ID > stub.nextID {
			stub.nextID = session.ID
		}
	}
	return stub
}

func (r *authSessionRepoStub) GetAuthSessionByToken(ctx context.Context, token string) (AuthSession, error) {
	session, ok := r.sessions[token]
	if !ok {
		return AuthSession{}, ErrNotFound
	}
	return session, nil
}

func (r *authSessionRepoStub) InsertAuthSession(ctx context.Context, session AuthSession) (int, error) {
	if r.insertErr != nil {
		return 0, r.insertErr
	}
	r.nextID++
	session.ID = r.nextID
	r.sessions[session.Token] = session
	return session.ID, nil
}

func (r *authSessionRepoStub) UpdateAuthSession(ctx context.Context, session AuthSession) (bool, error) {
	if _, ok := r.sessions[session.Token]; !ok {
		return false, nil
	}
	r.sessions[session.Token] = session
	return true, nil
}

func matchingVerifier(hashed, password string) error {
	if hashed != "hash:"+password {
		return errors.New("password mismatch")
	}
	return nil
}

func activeCredentials() UserCredentials {
	return UserCredentials{
		User: User{
			ID:       1,
			Name:     "Aiko Tanaka",
			Email:    "aiko@example.com",
			RoleID:   2,
			IsActive: true,
		},
		PasswordHash: "hash:secret",
	}
}

func TestAuthService_Authenticate_IssuesSessionWithTTL(t *testing.T) {
	t.Parallel()

	now := fixedClock(t, 9)
	sessions := newAuthSessionRepoStub()
	svc := NewAuthService(
		newCredentialStoreStub(activeCredentials()),
		sessions,
		defaultRoles(),
		matchingVerifier,
		func() string { return "token-1" },
		now,
		8*time.Hour,
	)

	result, err := svc.Authenticate(context.Background(), AuthenticateParams{
		Email:    " Aiko@Example.com ",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}

	if result.Session.Token != "token-1" {
		t.Fatalf("expected generated token, got %q", result.Session.Token)
	}
	if !result.Session.ExpiresAt.Equal(now().Add(8 * time.Hour)) {
		t.Fatalf("expected expiry %v, got %v", now().Add(8*time.Hour), result.Session.ExpiresAt)
	}
	if result.User.ID != 1 {
		t.Fatalf("expected authenticated user, got %+v", result.User)
	}
	if _, ok := sessions.sessions["token-1"]; !ok {
		t.Fatalf("expected session to be persisted")
	}
}

func TestAuthService_Authenticate_RejectsWrongPassword(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(
		newCredentialStoreStub(activeCredentials()),
		newAuthSessionRepoStub(),
		defaultRoles(),
		matchingVerifier,
		func() string { return "token-1" },
		fixedClock(t, 9),
		time.Hour,
	)

	_, err := svc.Authenticate(context.Background(), AuthenticateParams{
		Email:    "aiko@example.com",
		Password: "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Authenticate_HidesUnknownAccounts(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(
		newCredentialStoreStub(),
		newAuthSessionRepoStub(),
		defaultRoles(),
		matchingVerifier,
		func() string { return "token-1" },
		fixedClock(t, 9),
		time.Hour,
	)

	_, err := svc.Authenticate(context.Background(), AuthenticateParams{
		Email:    "ghost@example.com",
		Password: "secret",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown account, got %v", err)
	}
}

func TestAuthService_Authenticate_RejectsDisabledAccounts(t *testing.T) {
	t.Parallel()

	creds := activeCredentials()
	creds.User.IsActive = false
	svc := NewAuthService(
		newCredentialStoreStub(creds),
		newAuthSessionRepoStub(),
		defaultRoles(),
		matchingVerifier,
		func() string { return "token-1" },
		fixedClock(t, 9),
		time.Hour,
	)

	_, err := svc.Authenticate(context.Background(), AuthenticateParams{
		Email:    "aiko@example.com",
		Password: "secret",
	})
	if !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestAuthService_ValidateSession_ResolvesPrincipalRole(t *testing.T) {
	t.Parallel()

	now := fixedClock(t, 9)
	sessions := newAuthSessionRepoStub(AuthSession{
		ID:        1,
		UserID:    1,
		Token:     "token-1",
		ExpiresAt: now().Add(time.Hour),
		CreatedAt: now(),
	})
	svc := NewAuthService(
		newCredentialStoreStub(activeCredentials()),
		sessions,
		defaultRoles(),
		matchingVerifier,
		nil,
		now,
		time.Hour,
	)

	principal, err := svc.ValidateSession(context.Background(), "token-1")
	if err != nil {
		t.Fatalf("ValidateSession returned error: %v", err)
	}
	if principal.UserID != 1 || principal.Role != "manager" {
		t.Fatalf("expected manager principal for user 1, got %+v", principal)
	}
}

func TestAuthService_ValidateSession_RejectsExpiredSessions(t *testing.T) {
	t.Parallel()

	now := fixedClock(t, 9)
	sessions := newAuthSessionRepoStub(AuthSession{
		ID:        1,
		UserID:    1,
		Token:     "token-1",
		ExpiresAt: now().Add(-time.Minute),
	})
	svc := NewAuthService(
		newCredentialStoreStub(activeCredentials()),
		sessions,
		defaultRoles(),
		matchingVerifier,
		nil,
		now,
		time.Hour,
	)

	_, err := svc.ValidateSession(context.Background(), "token-1")
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestAuthService_ValidateSession_RejectsRevokedSessions(t *testing.T) {
	t.Parallel()

	now := fixedClock(t, 9)
	revokedAt := now().Add(-time.Minute)
	sessions := newAuthSessionRepoStub(AuthSession{
		ID:        1,
		UserID:    1,
		Token:     "token-1",
		ExpiresAt: now().Add(time.Hour),
		RevokedAt: &revokedAt,
	})
	svc := NewAuthService(
		newCredentialStoreStub(activeCredentials()),
		sessions,
		defaultRoles(),
		matchingVerifier,
		nil,
		now,
		time.Hour,
	)

	_, err := svc.ValidateSession(context.Background(), "token-1")
	if !errors.Is(err, ErrSessionRevoked) {
		t.Fatalf("expected ErrSessionRevoked, got %v", err)
	}
}

func TestAuthService_ValidateSession_RejectsDisabledAccounts(t *testing.T) {
	t.Parallel()

	now := fixedClock(t, 9)
	creds := activeCredentials()
	creds.User.IsActive = false
	sessions := newAuthSessionRepoStub(AuthSession{
		ID:        1,
		UserID:    1,
		Token:     "token-1",
		ExpiresAt: now().Add(time.Hour),
	})
	svc := NewAuthService(
		newCredentialStoreStub(creds),
		sessions,
		defaultRoles(),
		matchingVerifier,
		nil,
		now,
		time.Hour,
	)

	_, err := svc.ValidateSession(context.Background(), "token-1")
	if !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestAuthService_RevokeSession_MarksSessionRevoked(t *testing.T) {
	t.Parallel()

	now := fixedClock(t, 9)
	sessions := newAuthSessionRepoStub(AuthSession{
		ID:        1,
		UserID:    1,
		Token:     "token-1",
		ExpiresAt: now().Add(time.Hour),
	})
	svc := NewAuthService(
		newCredentialStoreStub(activeCredentials()),
		sessions,
		defaultRoles(),
		matchingVerifier,
		nil,
		now,
		time.Hour,
	)

	if err := svc.RevokeSession(context.Background(), "token-1"); err != nil {
		t.Fatalf("RevokeSession returned error: %v", err)
	}

	stored := sessions.sessions["token-1"]
	if stored.RevokedAt == nil || !stored.RevokedAt.Equal(now()) {
		t.Fatalf("expected revocation stamp %v, got %v", now(), stored.RevokedAt)
	}

	if _, err := svc.ValidateSession(context.Background(), "token-1"); !errors.Is(err, ErrSessionRevoked) {
		t.Fatalf("expected ErrSessionRevoked after revocation, got %v", err)
	}
}

func TestAuthService_RevokeSession_RejectsUnknownToken(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(
		newCredentialStoreStub(activeCredentials()),
		newAuthSessionRepoStub(),
		defaultRoles(),
		matchingVerifier,
		nil,
		fixedClock(t, 9),
		time.Hour,
	)

	if err := svc.RevokeSession(context.Background(), "ghost"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
