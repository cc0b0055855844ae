package cmd

import (
	"fmt"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/darmiel/cftools/pkg/client"
)

// sessionFilter selects sessions with a boolean expr expression over sessionEnv.
type sessionFilter struct {
	program *vm.Program
}

func sessionEnv(s client.Session) map[string]any {
	return map[string]any{
		"id":         s.ID,
		"name":       s.Name(),
		"cftools_id": s.CFToolsID,
		"steam64":    s.Gamedata.Steam64,
		"ping":       s.Info.Ping,
		"country":    s.Info.Country,
		"loaded":     s.Live.Loaded,
		"online_for": int64(time.Since(s.CreatedAt).Seconds()),
	}
}

func compileSessionFilter(code string) (*sessionFilter, error) {
	if code == "" {
		return nil, nil
	}
	program, err := expr.Compile(code, expr.Env(sessionEnv(client.Session{})), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling filter: %w", err)
	}
	return &sessionFilter{program: program}, nil
}

// apply returns the sessions matching the filter. A nil filter matches all.
func (f *sessionFilter) apply(sessions []client.Session) ([]client.Session, error) {
	if f == nil {
		return sessions, nil
	}
	var matches []client.Session
	for _, s := range sessions {
		ok, err := expr.Run(f.program, sessionEnv(s))
		if err != nil {
			return nil, fmt.Errorf("evaluating filter for session %s: %w", s.ID, err)
		}
		if ok.(bool) {
			matches = append(matches, s)
		}
	}
	return matches, nil
}
