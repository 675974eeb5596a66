package portfolioapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/ericfisherdev/folio/internal/domain/model"
)

// ListVaultFiles fetches the vault contents. Requires a bearer token.
func (c *Client) ListVaultFiles(ctx context.Context) ([]model.VaultFile, error) {
	var files listOf[model.VaultFile]
	if err := c.Get(ctx, "/vault/files/", &files); err != nil {
		return nil, fmt.Errorf("listing vault files: %w", err)
	}
	return files.items(), nil
}

// UploadVaultFile stores content in the vault as a multipart upload with the
// fields file, name and category. Requires a bearer token.
func (c *Client) UploadVaultFile(ctx context.Context, name string, category model.VaultCategory, content io.Reader) (*model.VaultFile, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("reading upload content: %w", err)
	}
	if err := w.WriteField("name", name); err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}
	if err := w.WriteField("category", string(category)); err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}

	var file model.VaultFile
	if err := c.Upload(ctx, "/vault/files/", &body, w.FormDataContentType(), &file); err != nil {
		return nil, fmt.Errorf("uploading vault file %q: %w", name, err)
	}
	return &file, nil
}

// DeleteVaultFile removes one vault file. Requires a bearer token.
func (c *Client) DeleteVaultFile(ctx context.Context, id int64) error {
	if err := c.Delete(ctx, "/vault/files/"+strconv.FormatInt(id, 10)+"/"); err != nil {
		return fmt.Errorf("deleting vault file %d: %w", id, err)
	}
	return nil
}
