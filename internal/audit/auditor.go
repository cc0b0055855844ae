package audit

import "time"

// Entry records one mutating API call made by the CLI.
type Entry struct {
	Time          time.Time `json:"time" yaml:"time"`
	Action        string    `json:"action" yaml:"action"`
	ServerID      string    `json:"server_id,omitempty" yaml:"server_id,omitempty"`
	Target        string    `json:"target,omitempty" yaml:"target,omitempty"`
	Success       bool      `json:"success" yaml:"success"`
	Error         string    `json:"error,omitempty" yaml:"error,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty" yaml:"correlation_id,omitempty"`
	Token         string    `json:"token_fingerprint,omitempty" yaml:"token_fingerprint,omitempty"`
}

type Auditor interface {
	Log(entry Entry) error
	Close() error
}

// Reader is implemented by auditors that can return past entries.
type Reader interface {
	GetRecent(limit int) ([]Entry, error)
	Find(filter func(entry Entry) bool, limit int) ([]Entry, error)
}

// filterRecent returns the last limit entries matching filter.
// A nil filter matches everything, a non-positive limit returns all matches.
func filterRecent(entries []Entry, filter func(entry Entry) bool, limit int) []Entry {
	var matches []Entry
	for _, entry := range entries {
		if filter == nil || filter(entry) {
			matches = append(matches, entry)
		}
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[len(matches)-limit:]
	}
	return matches
}
