package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/xid"

	"github.com/darmiel/cftools/pkg/auth"
)

const CorrelationIDHeader = "X-Correlation-ID"

type correlationKey struct{}

// WithCorrelationID makes requests sent with ctx carry id instead of a fresh one.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// NewCorrelationID returns a new random correlation id.
func NewCorrelationID() string {
	return xid.New().String()
}

func correlationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationKey{}).(string); ok && id != "" {
		return id
	}
	return NewCorrelationID()
}

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrRateLimited  = errors.New("rate limited")

	ErrInvalidArgument    = errors.New("invalid argument")
	ErrMissingServerID    = errors.New("server api id not configured")
	ErrMissingBanlistID   = errors.New("banlist id not configured")
	ErrMissingGameServer  = errors.New("game server (identifier, ip, port) not configured")
	errUnexpectedResponse = errors.New("unexpected response")
)

// APIError is returned for every response with a status >= 400,
// except for the authentication exchange which returns *auth.CredentialError.
type APIError struct {
	StatusCode    int
	Message       string
	CorrelationID string
}

func (e APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("api error: '%s' (status %d, correlation: %s)", msg, e.StatusCode, e.CorrelationID)
}

// Is lets callers match status classes with errors.Is(err, ErrNotFound) etc.
func (e APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// errorResponse is the error body returned by the API.
type errorResponse struct {
	Status bool   `json:"status"`
	Error  string `json:"error"`
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func (c *Client) get(ctx context.Context, url string, result any) error {
	req, err := c.newRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return c.do(req, result)
}

func (c *Client) postForm(ctx context.Context, url string, form url.Values) error {
	req, err := c.newRequest(ctx, http.MethodPost, url, form)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) deleteForm(ctx context.Context, url string, form url.Values) error {
	req, err := c.newRequest(ctx, http.MethodDelete, url, form)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// newRequest builds a request with a form encoded body if form is non-nil.
func (c *Client) newRequest(ctx context.Context, method, url string, form url.Values) (*http.Request, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(CorrelationIDHeader, correlationID(ctx))
	return req, nil
}

// do authorizes req with the token source and performs it.
func (c *Client) do(req *http.Request, result any) error {
	if c.tokens != nil {
		header, err := c.tokens.AuthHeader(req.Context())
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", header)
	}

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	if resp.StatusCode >= 400 {
		apiErr := parseErrorResponse(req, resp)
		if resp.StatusCode == http.StatusUnauthorized {
			if inv, ok := c.tokens.(invalidator); ok {
				inv.InvalidateHeader(req.Header.Get("Authorization"))
			}
		}
		return apiErr
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// send performs the request and maps network failures to *auth.TransportError.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	logger := c.logger.With().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("correlation_id", req.Header.Get(CorrelationIDHeader)).
		Logger()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug().Err(err).Msg("request failed")
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &auth.TransportError{Op: req.Method, URL: req.URL.Redacted(), Err: err}
	}
	logger.Debug().Int("status", resp.StatusCode).Msg("request completed")
	return resp, nil
}

func parseErrorResponse(req *http.Request, resp *http.Response) error {
	apiErr := APIError{
		StatusCode:    resp.StatusCode,
		CorrelationID: req.Header.Get(CorrelationIDHeader),
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		apiErr.Message = fmt.Sprintf("unreadable body: %v", err)
		return apiErr
	}
	var errResp errorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		apiErr.Message = errResp.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}
