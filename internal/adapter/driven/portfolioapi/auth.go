package portfolioapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ericfisherdev/folio/internal/domain/model"
)

// errEmptyToken is returned when a token endpoint answers 2xx without an access token.
var errEmptyToken = errors.New("token response carried no access token")

// ObtainToken exchanges admin credentials for a token pair via POST /token/.
func (c *Client) ObtainToken(ctx context.Context, identifier, secret string) (model.Credential, error) {
	req, err := jsonRequest(http.MethodPost, "/token/", map[string]string{
		"username": identifier,
		"password": secret,
	})
	if err != nil {
		return model.Credential{}, err
	}
	req.noRefresh = true

	var out tokenResponse
	if err := c.send(ctx, req, &out); err != nil {
		return model.Credential{}, fmt.Errorf("obtaining token: %w", err)
	}
	if out.Access == "" {
		return model.Credential{}, fmt.Errorf("obtaining token: %w", errEmptyToken)
	}

	return model.Credential{AccessToken: out.Access, RefreshToken: out.Refresh}, nil
}

// RefreshToken exchanges refresh for a new access token via POST /token/refresh/.
func (c *Client) RefreshToken(ctx context.Context, refresh string) (model.Credential, error) {
	req, err := jsonRequest(http.MethodPost, "/token/refresh/", map[string]string{"refresh": refresh})
	if err != nil {
		return model.Credential{}, err
	}
	req.noRefresh = true

	var out tokenResponse
	if err := c.send(ctx, req, &out); err != nil {
		return model.Credential{}, fmt.Errorf("refreshing token: %w", err)
	}
	if out.Access == "" {
		return model.Credential{}, fmt.Errorf("refreshing token: %w", errEmptyToken)
	}

	// The backend only returns a new refresh token when rotation is enabled.
	next := out.Refresh
	if next == "" {
		next = refresh
	}
	return model.Credential{AccessToken: out.Access, RefreshToken: next}, nil
}
