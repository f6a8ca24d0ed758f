package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"novblog/internal/models"
)

func newSessionFixture(t *testing.T) (*SessionService, *fakeUsers, *fakeSessions) {
	t.Helper()
	users := newFakeUsers()
	sessions := newFakeSessions()
	creds := NewCredentialService(users)
	cfg := Config{
		SessionTTL:  time.Hour,
		RememberTTL: 24 * time.Hour,
		SigningKey:  "test-signing-key",
	}
	if _, err := creds.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "a@x.com", Password: "secret", Role: models.RoleEditor,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return NewSessionService(sessions, users, creds, cfg), users, sessions
}

func TestSessionService_LoginCreatesSession(t *testing.T) {
	s, users, sessions := newSessionFixture(t)
	ctx := context.Background()

	res, err := s.Login(ctx, "alice", "secret", false)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Session.Token == "" {
		t.Fatalf("expected session token")
	}
	if res.RememberToken != "" {
		t.Fatalf("remember token must be empty without remember, got %q", res.RememberToken)
	}
	if len(sessions.byToken) != 1 {
		t.Fatalf("expected one session row, got %d", len(sessions.byToken))
	}
	if got := res.Session.ExpiresAt.Sub(res.Session.CreatedAt); got != time.Hour {
		t.Fatalf("expected session TTL of 1h, got %v", got)
	}

	stored, _ := users.GetByUsername(ctx, "alice")
	if stored.LastSeen.IsZero() {
		t.Fatalf("login must stamp last_seen")
	}
}

func TestSessionService_LoginRememberExtendsTTL(t *testing.T) {
	s, _, _ := newSessionFixture(t)

	res, err := s.Login(context.Background(), "alice", "secret", true)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.RememberToken == "" {
		t.Fatalf("expected remember token")
	}
	if got := res.Session.ExpiresAt.Sub(res.Session.CreatedAt); got != 24*time.Hour {
		t.Fatalf("expected remember TTL of 24h, got %v", got)
	}

	username, err := s.parseRememberToken(res.RememberToken)
	if err != nil || username != "alice" {
		t.Fatalf("remember token must name the user: %q %v", username, err)
	}
}

func TestSessionService_LoginBadCredentials(t *testing.T) {
	s, _, sessions := newSessionFixture(t)
	ctx := context.Background()

	if _, err := s.Login(ctx, "alice", "wrong", false); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	if _, err := s.Login(ctx, "ghost", "secret", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(sessions.byToken) != 0 {
		t.Fatalf("failed logins must not create sessions")
	}
}

func TestSessionService_ResolveLifecycle(t *testing.T) {
	s, _, _ := newSessionFixture(t)
	ctx := context.Background()

	res, err := s.Login(ctx, "alice", "secret", false)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	got, err := s.Resolve(ctx, res.Session.Token, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !got.Principal.IsAuthenticated() || got.Principal.User.Username != "alice" {
		t.Fatalf("expected authenticated alice, got %+v", got.Principal)
	}
	if got.Renewed {
		t.Fatalf("a live session must not be renewed")
	}

	if err := s.Logout(ctx, res.Session.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	got, err = s.Resolve(ctx, res.Session.Token, "")
	if err != nil {
		t.Fatalf("resolve after logout: %v", err)
	}
	if got.Principal.IsAuthenticated() {
		t.Fatalf("logout must unbind the principal")
	}

	// second logout with the same token is a no-op
	if err := s.Logout(ctx, res.Session.Token); err != nil {
		t.Fatalf("logout must be idempotent: %v", err)
	}
}

func TestSessionService_ResolveExpiredFallsBackToRemember(t *testing.T) {
	s, _, sessions := newSessionFixture(t)
	ctx := context.Background()

	res, err := s.Login(ctx, "alice", "secret", true)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// Force the session past its expiry.
	expired := sessions.byToken[res.Session.Token]
	expired.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	sessions.byToken[res.Session.Token] = expired

	got, err := s.Resolve(ctx, res.Session.Token, res.RememberToken)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !got.Principal.IsAuthenticated() {
		t.Fatalf("remember token must re-establish the principal")
	}
	if !got.Renewed {
		t.Fatalf("re-minted session must be flagged as renewed")
	}
	if got.Session.Token == res.Session.Token {
		t.Fatalf("expected a fresh session token")
	}
	if _, ok := sessions.byToken[res.Session.Token]; ok {
		t.Fatalf("expired session row must be deleted lazily")
	}
}

func TestSessionService_ResolveRejectsForgedRememberToken(t *testing.T) {
	s, _, _ := newSessionFixture(t)
	ctx := context.Background()

	got, err := s.Resolve(ctx, "", "not-a-jwt")
	if err != nil {
		t.Fatalf("a stale remember cookie is not an internal failure: %v", err)
	}
	if got.Principal.IsAuthenticated() {
		t.Fatalf("garbage remember token must resolve to anonymous")
	}

	// Token signed with a different key must not be honored.
	other := NewSessionService(newFakeSessions(), newFakeUsers(), nil, Config{
		SessionTTL: time.Hour, RememberTTL: time.Hour, SigningKey: "other-key",
	})
	forged, err := other.issueRememberToken("alice", time.Now().UTC())
	if err != nil {
		t.Fatalf("issue forged token: %v", err)
	}
	got, err = s.Resolve(ctx, "", forged)
	if err != nil {
		t.Fatalf("resolve forged: %v", err)
	}
	if got.Principal.IsAuthenticated() {
		t.Fatalf("token with a foreign signature must resolve to anonymous")
	}
}

func TestSessionService_PurgeExpired(t *testing.T) {
	s, _, sessions := newSessionFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_ = sessions.Create(ctx, models.Session{Token: "live", UserID: 1, ExpiresAt: now.Add(time.Hour)})
	_ = sessions.Create(ctx, models.Session{Token: "dead", UserID: 1, ExpiresAt: now.Add(-time.Hour)})

	n, err := s.PurgeExpired(ctx)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 purged session, got %d", n)
	}
	if _, ok := sessions.byToken["live"]; !ok {
		t.Fatalf("live session must survive the purge")
	}
}
