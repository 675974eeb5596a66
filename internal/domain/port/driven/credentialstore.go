package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/folio/internal/domain/model"
)

// ErrEncryptionKeyNotSet is returned by CredentialPersister operations when
// FOLIO_SECRET_KEY has not been configured.
var ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set FOLIO_SECRET_KEY")

// CredentialPersister defines the driven port for durable storage of the admin
// token pair. The adapter layer is responsible for encryption/decryption; this
// interface operates on plaintext values at the domain boundary.
type CredentialPersister interface {
	// Load returns the persisted pair, or the zero Credential if none is stored.
	Load(ctx context.Context) (model.Credential, error)

	// Save replaces both tokens.
	Save(ctx context.Context, cred model.Credential) error

	// Clear removes both tokens. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

// TokenSource is the read side of the credential store consulted on every
// outgoing API request.
type TokenSource interface {
	PeekAccessToken() string
	PeekRefreshToken() string
}

// TokenSink receives tokens rotated by the API client.
type TokenSink interface {
	Save(ctx context.Context, access, refresh string) error
	Clear(ctx context.Context) error
}

// TokenStore is the credential store as seen by the API client: it reads the
// current pair on every request and writes rotated tokens back.
type TokenStore interface {
	TokenSource
	TokenSink
}
