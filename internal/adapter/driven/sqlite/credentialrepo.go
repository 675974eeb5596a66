package sqlite

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/ericfisherdev/folio/internal/domain/model"
	"github.com/ericfisherdev/folio/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialPersister = (*CredentialRepo)(nil)

// CredentialRepo persists the admin session in a single row. Token values are
// encrypted with AES-256-GCM before write and decrypted after read.
type CredentialRepo struct {
	db  *DB
	key []byte // 32-byte AES-256 key; nil when encryption is disabled.
}

// NewCredentialRepo creates a new CredentialRepo. key must be 32 bytes for AES-256-GCM,
// or nil to disable credential storage (reads and writes return ErrEncryptionKeyNotSet).
func NewCredentialRepo(db *DB, key []byte) *CredentialRepo {
	return &CredentialRepo{db: db, key: key}
}

// Load returns the stored session. A missing row reads as the zero Credential.
func (r *CredentialRepo) Load(ctx context.Context) (model.Credential, error) {
	if r.key == nil {
		return model.Credential{}, driven.ErrEncryptionKeyNotSet
	}

	const query = `SELECT access_token, refresh_token, session_hash FROM admin_session WHERE id = 1`
	var encAccess, encRefresh, hash string
	err := r.db.conn.QueryRowContext(ctx, query).Scan(&encAccess, &encRefresh, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Credential{}, nil
	}
	if err != nil {
		return model.Credential{}, fmt.Errorf("load admin session: %w", err)
	}

	access, err := r.decrypt(encAccess)
	if err != nil {
		return model.Credential{}, fmt.Errorf("decrypt access token: %w", err)
	}
	refresh, err := r.decrypt(encRefresh)
	if err != nil {
		return model.Credential{}, fmt.Errorf("decrypt refresh token: %w", err)
	}

	return model.Credential{AccessToken: access, RefreshToken: refresh, SessionHash: hash}, nil
}

// Save replaces the stored session. The tokens are encrypted; the session hash
// is already one-way and is stored as is.
func (r *CredentialRepo) Save(ctx context.Context, cred model.Credential) error {
	encAccess, err := r.encrypt(cred.AccessToken)
	if err != nil {
		return err
	}
	encRefresh, err := r.encrypt(cred.RefreshToken)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO admin_session (id, access_token, refresh_token, session_hash, updated_at)
		VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			access_token  = excluded.access_token,
			refresh_token = excluded.refresh_token,
			session_hash  = excluded.session_hash,
			updated_at    = excluded.updated_at`
	if _, err := r.db.conn.ExecContext(ctx, query, encAccess, encRefresh, cred.SessionHash); err != nil {
		return fmt.Errorf("save admin session: %w", err)
	}
	return nil
}

// Clear removes the stored session. Clearing an empty table is not an error.
func (r *CredentialRepo) Clear(ctx context.Context) error {
	if _, err := r.db.conn.ExecContext(ctx, `DELETE FROM admin_session`); err != nil {
		return fmt.Errorf("clear admin session: %w", err)
	}
	return nil
}

// encrypt encrypts plaintext using AES-256-GCM and returns a base64-encoded string
// containing the nonce (12 bytes) prepended to the ciphertext.
func (r *CredentialRepo) encrypt(plaintext string) (string, error) {
	if r.key == nil {
		return "", driven.ErrEncryptionKeyNotSet
	}

	gcm, err := r.aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	// Seal appends the ciphertext to nonce, producing: nonce || ciphertext || tag.
	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// decrypt decrypts a base64-encoded AES-256-GCM ciphertext.
func (r *CredentialRepo) decrypt(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	gcm, err := r.aead()
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("gcm.Open: %w", err)
	}

	return string(plaintext), nil
}

func (r *CredentialRepo) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(r.key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return gcm, nil
}
