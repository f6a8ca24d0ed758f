package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"novblog/internal/models"
	"novblog/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers malformed or expired remember tokens.
var ErrInvalidToken = errors.New("invalid token")

// SessionService binds authenticated principals to server-side session
// rows. The cookie only ever carries the opaque token.
type SessionService struct {
	sessions    repository.Sessions
	users       repository.Users
	creds       Credentials
	ttl         time.Duration
	rememberTTL time.Duration
	signingKey  []byte
}

func NewSessionService(sessions repository.Sessions, users repository.Users, creds Credentials, cfg Config) *SessionService {
	return &SessionService{
		sessions:    sessions,
		users:       users,
		creds:       creds,
		ttl:         cfg.SessionTTL,
		rememberTTL: cfg.RememberTTL,
		signingKey:  []byte(cfg.SigningKey),
	}
}

var _ Sessions = (*SessionService)(nil)

// rememberClaims is the payload of the remember-me token. It names the
// user so a fresh session can be minted after the session cookie dies.
type rememberClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// Login verifies credentials, creates a session row and stamps
// last_seen. With remember set, the session lives for the remember TTL
// and a signed remember token is returned alongside.
func (s *SessionService) Login(ctx context.Context, username, password string, remember bool) (*LoginResult, error) {
	u, err := s.creds.Verify(ctx, username, password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ttl := s.ttl
	if remember {
		ttl = s.rememberTTL
	}
	sess := models.Session{
		Token:     uuid.NewString(),
		UserID:    u.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	// Login counts as activity.
	if err := s.users.UpdateLastSeen(ctx, u.ID, now); err == nil {
		u.LastSeen = now
	}

	res := &LoginResult{Session: sess, User: u}
	if remember {
		token, err := s.issueRememberToken(u.Username, now)
		if err != nil {
			return nil, err
		}
		res.RememberToken = token
	}
	return res, nil
}

// Logout unbinds the principal by deleting the session row. Unknown
// tokens are ignored so logout is idempotent.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// Resolve maps the request's cookies to a principal. A live session
// token wins; an expired or missing session falls back to the remember
// token, which mints a replacement session. Anything else is anonymous.
func (s *SessionService) Resolve(ctx context.Context, token, rememberToken string) (Resolution, error) {
	anonymous := Resolution{Principal: models.Anonymous()}
	now := time.Now().UTC()

	if token != "" {
		sess, err := s.sessions.Get(ctx, token)
		if err != nil {
			return anonymous, err
		}
		if sess != nil {
			if sess.Expired(now) {
				// Lazy cleanup; the sweeper catches the rest.
				_ = s.sessions.Delete(ctx, token)
			} else {
				u, err := s.users.GetByID(ctx, sess.UserID)
				if err != nil {
					return anonymous, err
				}
				if u != nil {
					return Resolution{Principal: models.Authenticated(u), Session: sess}, nil
				}
			}
		}
	}

	if rememberToken != "" {
		username, err := s.parseRememberToken(rememberToken)
		if err != nil {
			return anonymous, nil // stale cookie, not an internal failure
		}
		u, err := s.users.GetByUsername(ctx, username)
		if err != nil {
			return anonymous, err
		}
		if u == nil {
			return anonymous, nil
		}
		sess := models.Session{
			Token:     uuid.NewString(),
			UserID:    u.ID,
			CreatedAt: now,
			ExpiresAt: now.Add(s.ttl),
		}
		if err := s.sessions.Create(ctx, sess); err != nil {
			return anonymous, err
		}
		return Resolution{Principal: models.Authenticated(u), Session: &sess, Renewed: true}, nil
	}

	return anonymous, nil
}

// Ping stamps last_seen for an authenticated request. Best-effort: the
// caller logs failures and never fails the request over them.
func (s *SessionService) Ping(ctx context.Context, userID int) error {
	return s.users.UpdateLastSeen(ctx, userID, time.Now().UTC())
}

// PurgeExpired removes sessions past their expiry.
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, time.Now().UTC())
}

func (s *SessionService) issueRememberToken(username string, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &rememberClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.rememberTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Username: username,
	})
	return token.SignedString(s.signingKey)
}

func (s *SessionService) parseRememberToken(accessToken string) (string, error) {
	token, err := jwt.ParseWithClaims(accessToken, &rememberClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*rememberClaims)
	if !ok || !token.Valid || claims.Username == "" {
		return "", ErrInvalidToken
	}
	return claims.Username, nil
}
