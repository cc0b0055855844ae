package auth

import (
	"fmt"
	"time"
)

// DefaultStaleness is the age after which a cached token is replaced.
// The auth endpoint allows 2 requests per minute, so tokens are reused for half a day.
const DefaultStaleness = 12 * time.Hour

// Credential identifies an API application.
// Both values can be found on the application dashboard.
type Credential struct {
	ApplicationID string
	Secret        string
}

func (c Credential) Validate() error {
	if c.ApplicationID == "" {
		return fmt.Errorf("application id cannot be empty")
	}
	if c.Secret == "" {
		return fmt.Errorf("application secret cannot be empty")
	}
	return nil
}

// AuthToken is a bearer token together with the time it was obtained.
// It is replaced as a whole on refresh, never patched.
type AuthToken struct {
	Value    string
	IssuedAt time.Time
}

// Stale reports whether the token must be refreshed at now.
// The boundary is inclusive: a token exactly delta old is stale.
func (t AuthToken) Stale(now time.Time, delta time.Duration) bool {
	return !t.IssuedAt.Add(delta).After(now)
}

// Header returns the Authorization header value for the token.
func (t AuthToken) Header() string {
	return "Bearer " + t.Value
}

// Record is the persisted form of an AuthToken.
// Every store backend serializes it as {"token": "...", "timestamp": <unix seconds>}.
type Record struct {
	Token     string `json:"token"`
	Timestamp int64  `json:"timestamp"`
}

func NewRecord(t AuthToken) Record {
	return Record{
		Token:     t.Value,
		Timestamp: t.IssuedAt.Unix(),
	}
}

func (r Record) AuthToken() AuthToken {
	return AuthToken{
		Value:    r.Token,
		IssuedAt: time.Unix(r.Timestamp, 0),
	}
}
