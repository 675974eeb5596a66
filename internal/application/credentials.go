package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/ericfisherdev/folio/internal/domain/model"
	"github.com/ericfisherdev/folio/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.TokenStore = (*CredentialStore)(nil)

// CredentialStore holds the admin's token pair. Reads are served from a
// mutex-protected memory copy; writes go through to the optional persister
// so the session survives restarts.
type CredentialStore struct {
	mu        sync.RWMutex
	cred      model.Credential
	persister driven.CredentialPersister
}

// NewCredentialStore creates an empty store. persister may be nil, in which
// case credentials live only as long as the process.
func NewCredentialStore(persister driven.CredentialPersister) *CredentialStore {
	return &CredentialStore{persister: persister}
}

// Restore loads the persisted pair into memory. It is a no-op without a persister.
func (s *CredentialStore) Restore(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}

	cred, err := s.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("restore credentials: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = cred
	return nil
}

// Save overwrites both tokens and keeps the browser binding. The API client
// calls it when it rotates tokens. The in-memory copy is updated even when
// persisting fails, so the current process stays logged in.
func (s *CredentialStore) Save(ctx context.Context, access, refresh string) error {
	s.mu.Lock()
	s.cred.AccessToken = access
	s.cred.RefreshToken = refresh
	cred := s.cred
	s.mu.Unlock()

	return s.persist(ctx, cred)
}

// Establish replaces the whole session, binding it to a new browser.
func (s *CredentialStore) Establish(ctx context.Context, cred model.Credential) error {
	s.mu.Lock()
	s.cred = cred
	s.mu.Unlock()

	return s.persist(ctx, cred)
}

func (s *CredentialStore) persist(ctx context.Context, cred model.Credential) error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.Save(ctx, cred); err != nil {
		return fmt.Errorf("persist credentials: %w", err)
	}
	return nil
}

// Clear removes both tokens and the binding. Calling it when already empty is a no-op.
func (s *CredentialStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.cred = model.Credential{}
	s.mu.Unlock()

	if s.persister == nil {
		return nil
	}
	if err := s.persister.Clear(ctx); err != nil {
		return fmt.Errorf("clear persisted credentials: %w", err)
	}
	return nil
}

// PeekAccessToken returns the current access token or "".
func (s *CredentialStore) PeekAccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred.AccessToken
}

// PeekRefreshToken returns the current refresh token or "".
func (s *CredentialStore) PeekRefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred.RefreshToken
}

// snapshot returns a consistent copy of the whole session.
func (s *CredentialStore) snapshot() model.Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred
}

// Persistent reports whether writes survive a restart.
func (s *CredentialStore) Persistent() bool {
	return s.persister != nil
}
