package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in      string
		want    *time.Time
		wantErr bool
	}{
		{in: ""},
		{in: "72h", want: ptrTime(now.Add(72 * time.Hour))},
		{in: "2026-12-31T23:00:00Z", want: ptrTime(time.Date(2026, 12, 31, 23, 0, 0, 0, time.UTC))},
		{in: "2026-12-31", want: ptrTime(time.Date(2026, 12, 31, 0, 0, 0, 0, time.Local))},
		{in: "-1h", wantErr: true},
		{in: "next week", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseExpiry(tt.in, now)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestFormatExpiry(t *testing.T) {
	assert.Equal(t, "never", formatExpiry(nil))
	assert.Equal(t, "never", formatExpiry(&time.Time{}))
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
