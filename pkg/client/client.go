package client

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/darmiel/cftools/pkg/auth"
)

const (
	DefaultBaseURL        = "https://data.cftools.cloud"
	DefaultTimeout        = 30 * time.Second
	DefaultConnectTimeout = 10 * time.Second
)

// TokenSource provides the Authorization header value for a request.
// *auth.Manager implements it.
type TokenSource interface {
	AuthHeader(ctx context.Context) (string, error)
}

// invalidator is implemented by token sources that can drop a token the API rejected.
type invalidator interface {
	InvalidateHeader(header string) bool
}

// Client talks to the CFTools Cloud Data API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	userAgent  string
	logger     zerolog.Logger

	serverAPIID  string
	banlistID    string
	gameServerID string
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, including its timeouts.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeouts sets the connect timeout and the overall request timeout.
// Non-positive values keep the defaults.
func WithTimeouts(connect, request time.Duration) Option {
	return func(c *Client) {
		c.httpClient = newHTTPClient(connect, request)
	}
}

// WithTokenSource makes every API call carry the header returned by ts.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithAuthToken uses a fixed bearer token instead of a token manager.
func WithAuthToken(token string) Option {
	return func(c *Client) {
		if token != "" {
			c.tokens = staticToken(token)
		}
	}
}

// WithServerAPIID sets the server API id used by all /v1/server routes.
// It can be found in the server API settings.
func WithServerAPIID(id string) Option {
	return func(c *Client) {
		c.serverAPIID = id
	}
}

// WithBanlistID sets the banlist id used by the ban routes.
func WithBanlistID(id string) Option {
	return func(c *Client) {
		c.banlistID = id
	}
}

// WithGameServer derives the game server id used by GameServerDetails.
func WithGameServer(gameIdentifier, ip, port string) Option {
	return func(c *Client) {
		c.gameServerID = GameServerID(gameIdentifier, ip, port)
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for baseURL, or DefaultBaseURL if empty.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: newHTTPClient(0, 0),
		userAgent:  "cftools-go",
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewAuthenticated creates a client whose requests are authorized by a token
// manager. The client itself performs the credential exchange.
func NewAuthenticated(
	baseURL string,
	cred auth.Credential,
	store auth.Store,
	opts []Option,
	managerOpts ...auth.Option,
) (*Client, *auth.Manager, error) {
	c := New(baseURL, opts...)
	m, err := auth.NewManager(cred, c, store, managerOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("creating token manager: %w", err)
	}
	c.tokens = m
	return c, m, nil
}

// BaseURL returns the API base URL without trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GameServerID returns the id derived by WithGameServer, if any.
func (c *Client) GameServerID() string {
	return c.gameServerID
}

func newHTTPClient(connect, request time.Duration) *http.Client {
	if connect <= 0 {
		connect = DefaultConnectTimeout
	}
	if request <= 0 {
		request = DefaultTimeout
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   connect,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = connect
	return &http.Client{
		Transport: transport,
		Timeout:   request,
	}
}

type staticToken string

func (s staticToken) AuthHeader(context.Context) (string, error) {
	return "Bearer " + string(s), nil
}

// urlBuilder assembles request URLs from a route template.
type urlBuilder struct {
	base   string
	path   string
	params map[string]string
	query  url.Values
}

func (c *Client) url() *urlBuilder {
	return &urlBuilder{
		base:   c.baseURL,
		params: make(map[string]string),
		query:  make(url.Values),
	}
}

func (b *urlBuilder) setPath(path string) *urlBuilder {
	b.path = path
	return b
}

func (b *urlBuilder) setPathParam(key, value string) *urlBuilder {
	b.params[key] = value
	return b
}

func (b *urlBuilder) addQueryParam(key string, value any) *urlBuilder {
	b.query.Add(key, fmt.Sprint(value))
	return b
}

func (b *urlBuilder) build() string {
	path := b.path
	for k, v := range b.params {
		path = strings.ReplaceAll(path, "{"+k+"}", url.PathEscape(v))
	}
	u := b.base + path
	if len(b.query) > 0 {
		u += "?" + b.query.Encode()
	}
	return u
}
