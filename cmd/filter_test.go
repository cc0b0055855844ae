package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darmiel/cftools/pkg/client"
)

func session(id, name string, ping int, country string) client.Session {
	s := client.Session{ID: id, CFToolsID: "cf-" + id, CreatedAt: time.Now().Add(-time.Hour)}
	s.Gamedata.PlayerName = name
	s.Info.Ping = ping
	s.Info.Country = country
	return s
}

func TestSessionFilter(t *testing.T) {
	sessions := []client.Session{
		session("1", "Alice", 40, "DE"),
		session("2", "Bob", 250, "US"),
		session("3", "Carol", 90, "DE"),
	}

	tests := []struct {
		code string
		want []string
	}{
		{"", []string{"1", "2", "3"}},
		{"ping > 100", []string{"2"}},
		{`country == "DE" && ping < 50`, []string{"1"}},
		{`name startsWith "C"`, []string{"3"}},
		{`cftools_id in ["cf-1", "cf-2"]`, []string{"1", "2"}},
		{"online_for >= 3600", []string{"1", "2", "3"}},
		{"ping > 1000", nil},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			filter, err := compileSessionFilter(tt.code)
			require.NoError(t, err)

			got, err := filter.apply(sessions)
			require.NoError(t, err)

			var ids []string
			for _, s := range got {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestSessionFilter_Invalid(t *testing.T) {
	for _, code := range []string{"ping >", "name", "unknown_field == 1"} {
		_, err := compileSessionFilter(code)
		assert.Error(t, err, code)
	}
}
