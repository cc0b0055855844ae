package auth

import "context"

// Store persists the current token across process restarts.
type Store interface {
	// Load returns the persisted token, or ErrNoToken if there is none.
	Load(ctx context.Context) (*AuthToken, error)

	// Save replaces the persisted token. Readers never observe a partial write.
	Save(ctx context.Context, token AuthToken) error

	// Clear removes the persisted token. Missing tokens are not an error.
	Clear(ctx context.Context) error

	// Location describes where the token is stored, used for logging.
	Location() string
}

// Locker is implemented by stores that can be shared between processes.
// The returned unlock function releases the lock and must always be called.
type Locker interface {
	Lock(ctx context.Context) (unlock func(), err error)
}

// Exchanger trades a credential for a fresh bearer token.
type Exchanger interface {
	Exchange(ctx context.Context, cred Credential) (string, error)
}

// ExchangerFunc adapts a function to the Exchanger interface.
type ExchangerFunc func(ctx context.Context, cred Credential) (string, error)

func (f ExchangerFunc) Exchange(ctx context.Context, cred Credential) (string, error) {
	return f(ctx, cred)
}
