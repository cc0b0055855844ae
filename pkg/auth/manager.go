package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// State is the freshness state of the token held by a Manager.
type State int

const (
	StateNoToken State = iota
	StateAuthenticating
	StateFresh
	StateStale
	StateFatal
)

func (s State) String() string {
	switch s {
	case StateNoToken:
		return "no-token"
	case StateAuthenticating:
		return "authenticating"
	case StateFresh:
		return "fresh"
	case StateStale:
		return "stale"
	case StateFatal:
		return "fatal"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Option configures a Manager.
type Option func(*Manager)

// WithStaleness sets the age after which a token is refreshed.
// Non-positive values keep DefaultStaleness.
func WithStaleness(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.staleness = d
		}
	}
}

// WithClock replaces time.Now, mostly useful for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// Manager makes sure a valid bearer token is available before each API call.
// It loads the persisted token once per process, adopts it while fresh and
// exchanges the credential for a new one when it became stale.
//
// A Manager is safe for concurrent use. If its Store implements Locker, the
// refresh sequence is also serialized between processes sharing the store.
type Manager struct {
	exchanger Exchanger
	store     Store
	staleness time.Duration
	now       func() time.Time
	logger    zerolog.Logger

	// refreshMu serializes EnsureValidToken and Authenticate, including the network exchange.
	refreshMu sync.Mutex

	mu             sync.RWMutex
	cred           Credential
	loaded         bool
	authenticating bool
	token          *AuthToken
	rejected       string
	fatal          *CredentialError
}

func NewManager(cred Credential, exchanger Exchanger, store Store, opts ...Option) (*Manager, error) {
	if err := cred.Validate(); err != nil {
		return nil, err
	}
	if exchanger == nil {
		return nil, fmt.Errorf("token manager requires an exchanger")
	}
	if store == nil {
		return nil, fmt.Errorf("token manager requires a store")
	}
	m := &Manager{
		cred:      cred,
		exchanger: exchanger,
		store:     store,
		staleness: DefaultStaleness,
		now:       time.Now,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Staleness returns the configured staleness delta.
func (m *Manager) Staleness() time.Duration {
	return m.staleness
}

// Store returns the backing token store.
func (m *Manager) Store() Store {
	return m.store
}

// State returns the current state without triggering any I/O.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	switch {
	case m.fatal != nil:
		return StateFatal
	case m.authenticating:
		return StateAuthenticating
	case m.token == nil:
		return StateNoToken
	case m.token.Stale(m.now(), m.staleness):
		return StateStale
	default:
		return StateFresh
	}
}

// Token returns a copy of the in-memory token, if any.
func (m *Manager) Token() (AuthToken, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.token == nil {
		return AuthToken{}, false
	}
	return *m.token, true
}

// EnsureValidToken leaves a fresh token in memory.
// Only the first call per process reads the store; later calls only check
// the in-memory token and do nothing while it is fresh.
func (m *Manager) EnsureValidToken(ctx context.Context) error {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	if err := m.fatalErr(); err != nil {
		return err
	}

	m.mu.RLock()
	loaded := m.loaded
	m.mu.RUnlock()

	if !loaded {
		m.loadPersisted(ctx)
	}

	if tok, ok := m.Token(); ok && !tok.Stale(m.now(), m.staleness) {
		return nil
	}
	return m.refresh(ctx, false)
}

// Authenticate exchanges the credential for a new token regardless of the
// state of the current one, and persists it.
func (m *Manager) Authenticate(ctx context.Context) error {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	if err := m.fatalErr(); err != nil {
		return err
	}

	m.mu.Lock()
	m.loaded = true
	m.mu.Unlock()

	return m.refresh(ctx, true)
}

// CurrentAuthHeader returns the Authorization header value for the in-memory token.
// It never performs I/O, call EnsureValidToken first.
func (m *Manager) CurrentAuthHeader() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.fatal != nil {
		return "", m.fatal
	}
	if m.token == nil {
		return "", ErrNoToken
	}
	return m.token.Header(), nil
}

// AuthHeader ensures a valid token and returns its Authorization header value.
func (m *Manager) AuthHeader(ctx context.Context) (string, error) {
	if err := m.EnsureValidToken(ctx); err != nil {
		return "", err
	}
	return m.CurrentAuthHeader()
}

// Invalidate marks the in-memory token as stale, e.g. after the API rejected it.
// The next EnsureValidToken exchanges the credential again.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token == nil {
		return
	}
	m.invalidateLocked()
}

// InvalidateHeader marks the token stale only if header still carries the current token.
// A rejection of a token that was already replaced leaves the new token alone.
func (m *Manager) InvalidateHeader(header string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token == nil || m.token.Header() != header {
		m.logger.Debug().Msg("ignoring rejection of a replaced bearer token")
		return false
	}
	m.invalidateLocked()
	return true
}

func (m *Manager) invalidateLocked() {
	m.logger.Debug().Msg("invalidating bearer token")
	m.rejected = m.token.Value
	m.token = &AuthToken{Value: m.token.Value}
}

// Reset replaces the credential and leaves the Fatal state.
// The in-memory token is dropped; the next call authenticates with the new credential.
func (m *Manager) Reset(cred Credential) error {
	if err := cred.Validate(); err != nil {
		return err
	}

	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.cred = cred
	m.fatal = nil
	m.token = nil
	m.rejected = ""
	m.loaded = true
	return nil
}

// Forget removes the token from memory and from the store.
func (m *Manager) Forget(ctx context.Context) error {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	m.mu.Lock()
	m.token = nil
	m.loaded = true
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing token store: %w", err)
	}
	return nil
}

func (m *Manager) fatalErr() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.fatal != nil {
		return m.fatal
	}
	return nil
}

// loadPersisted adopts the persisted token, regardless of its age.
// Persistence failures are logged and treated as "no cached token".
func (m *Manager) loadPersisted(ctx context.Context) {
	tok, err := m.store.Load(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded = true

	logger := m.logger.With().Str("store", m.store.Location()).Logger()
	switch {
	case errors.Is(err, ErrNoToken):
		logger.Debug().Msg("no persisted token found")
		return
	case err != nil:
		logger.Warn().Err(err).Msg("could not load persisted token, authenticating again")
		return
	}

	m.token = tok
	if tok.Stale(m.now(), m.staleness) {
		logger.Debug().Time("issued_at", tok.IssuedAt).Msg("persisted token is outdated")
	} else {
		logger.Debug().Time("issued_at", tok.IssuedAt).Msg("adopted persisted token")
	}
}

// refresh must be called with refreshMu held.
func (m *Manager) refresh(ctx context.Context, force bool) error {
	if locker, ok := m.store.(Locker); ok {
		unlock, err := locker.Lock(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			m.logger.Warn().Err(err).Msg("could not lock token store, refreshing without lock")
		} else {
			defer unlock()
			if !force && m.adoptConcurrentRefresh(ctx) {
				return nil
			}
		}
	}

	m.mu.Lock()
	cred := m.cred
	m.authenticating = true
	m.mu.Unlock()

	m.logger.Debug().Str("application_id", cred.ApplicationID).Msg("requesting new bearer token")
	value, err := m.exchanger.Exchange(ctx, cred)

	m.mu.Lock()
	m.authenticating = false
	if err != nil {
		var credErr *CredentialError
		if errors.As(err, &credErr) {
			m.fatal = credErr
			m.token = nil
			m.mu.Unlock()
			m.logger.Error().Int("status", credErr.StatusCode).Msg("authentication rejected")
			return credErr
		}
		m.mu.Unlock()
		return fmt.Errorf("authenticating: %w", err)
	}
	if value == "" {
		m.mu.Unlock()
		return fmt.Errorf("authenticating: response did not contain a token")
	}
	tok := AuthToken{Value: value, IssuedAt: m.now()}
	m.token = &tok
	m.rejected = ""
	m.mu.Unlock()

	m.logger.Info().Time("issued_at", tok.IssuedAt).Msg("received new bearer token")

	if err := m.store.Save(ctx, tok); err != nil {
		// the token is still usable for this process
		m.logger.Error().Err(err).Str("store", m.store.Location()).Msg("could not persist bearer token")
	}
	return nil
}

// adoptConcurrentRefresh re-reads the store while holding its lock, so a token
// refreshed by another process in the meantime is reused instead of exchanging again.
func (m *Manager) adoptConcurrentRefresh(ctx context.Context) bool {
	tok, err := m.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoToken) {
			m.logger.Warn().Err(err).Msg("could not re-read token store")
		}
		return false
	}
	if tok.Stale(m.now(), m.staleness) {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if tok.Value == m.rejected {
		return false
	}
	m.token = tok
	m.logger.Debug().Time("issued_at", tok.IssuedAt).Msg("adopted token refreshed by another process")
	return true
}
