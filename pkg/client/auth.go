package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/darmiel/cftools/pkg/auth"
)

var _ auth.Exchanger = (*Client)(nil)

type registerResponse struct {
	Status bool   `json:"status"`
	Token  string `json:"token"`
}

// Exchange trades the application credential for a bearer token.
// The endpoint is limited to 2 requests per minute; use an auth.Manager to reuse tokens.
// A non-200 answer is returned as *auth.CredentialError.
func (c *Client) Exchange(ctx context.Context, cred auth.Credential) (string, error) {
	form := url.Values{}
	form.Set("application_id", cred.ApplicationID)
	form.Set("secret", cred.Secret)

	req, err := c.newRequest(ctx, http.MethodPost, c.url().
		setPath(AuthRegisterRoute).
		build(), form)
	if err != nil {
		return "", err
	}

	// no Authorization header here, this request creates it
	resp, err := c.send(req)
	if err != nil {
		return "", err
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		credErr := &auth.CredentialError{StatusCode: resp.StatusCode}
		if apiErr, ok := parseErrorResponse(req, resp).(APIError); ok {
			credErr.Message = apiErr.Message
		}
		return "", credErr
	}

	var result registerResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding auth response: %w", err)
	}
	if result.Token == "" {
		return "", fmt.Errorf("%w: auth response did not contain a token", errUnexpectedResponse)
	}
	return result.Token, nil
}
