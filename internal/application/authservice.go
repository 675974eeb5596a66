package application

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ericfisherdev/folio/internal/domain/port/driven"
)

// ErrAccessDenied is returned by Login for any failure. The cause is logged,
// never shown.
var ErrAccessDenied = errors.New("access denied: invalid credentials")

// sessionTokenBytes is the entropy of a browser session token.
const sessionTokenBytes = 32

// SessionInfo describes the current admin session for display. It is derived
// from the unverified claims of the access token and is informational only.
type SessionInfo struct {
	Authenticated bool
	Persistent    bool
	Subject       string
	ExpiresAt     time.Time
}

// AuthService is the session guard: it answers whether a session exists and
// performs login and logout against the credential store.
type AuthService struct {
	api    driven.PortfolioAPI
	store  *CredentialStore
	logger *slog.Logger
}

// NewAuthService creates an AuthService over the shared credential store.
func NewAuthService(api driven.PortfolioAPI, store *CredentialStore, logger *slog.Logger) *AuthService {
	return &AuthService{
		api:    api,
		store:  store,
		logger: logger,
	}
}

// IsAuthenticated reports whether an access token is held by the process. It
// performs no network call and does not check expiry. It says nothing about
// which browser owns the session; use Authorize for that.
func (s *AuthService) IsAuthenticated() bool {
	return s.store.PeekAccessToken() != ""
}

// Authorize reports whether sessionToken is the cookie of the browser that
// logged in and a token pair is still held.
func (s *AuthService) Authorize(sessionToken string) bool {
	if sessionToken == "" {
		return false
	}
	cred := s.store.snapshot()
	if cred.IsZero() || cred.SessionHash == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(hashSessionToken(sessionToken)), []byte(cred.SessionHash)) == 1
}

// Login exchanges the credentials for a token pair, stores it and returns a
// fresh session token for the caller's browser. Any earlier session is
// replaced. Every failure is reported as ErrAccessDenied.
func (s *AuthService) Login(ctx context.Context, identifier, secret string) (string, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || secret == "" {
		return "", ErrAccessDenied
	}

	cred, err := s.api.ObtainToken(ctx, identifier, secret)
	if err != nil {
		s.logger.Info("admin login rejected", "error", err)
		return "", ErrAccessDenied
	}

	sessionToken, err := newSessionToken()
	if err != nil {
		s.logger.Error("could not create session token", "error", err)
		return "", ErrAccessDenied
	}

	cred.SessionHash = hashSessionToken(sessionToken)
	if err := s.store.Establish(ctx, cred); err != nil {
		// The in-memory session is live; only durability was lost.
		s.logger.Warn("admin session not persisted", "error", err)
	}

	s.logger.Info("admin logged in")
	return sessionToken, nil
}

// Logout discards both tokens. It is idempotent.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// SessionInfo reports the session state and, when the access token is a JWT,
// its subject and expiry. Signatures are not verified.
func (s *AuthService) SessionInfo() SessionInfo {
	info := SessionInfo{
		Authenticated: s.IsAuthenticated(),
		Persistent:    s.store.Persistent(),
	}
	if !info.Authenticated {
		return info
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.store.PeekAccessToken(), claims); err != nil {
		return info
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		info.Subject = sub
	} else if uid, ok := claims["user_id"]; ok {
		info.Subject = fmt.Sprint(uid)
	}

	return info
}

func newSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashSessionToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
