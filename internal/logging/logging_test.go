package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_JSON(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set(LevelKey, "warn")
	viper.Set(FormatKey, "json")

	var buf bytes.Buffer
	Init(&buf)
	t.Cleanup(InitDefault)

	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	log.Info().Msg("hidden")
	log.Warn().Str("store", "file").Msg("visible")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "visible", entry["message"])
	assert.Equal(t, "file", entry["store"])
}

func TestInit_UnknownLevel(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set(LevelKey, "chatty")
	viper.Set(NoColorKey, true)

	var buf bytes.Buffer
	Init(&buf)
	t.Cleanup(InitDefault)

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	assert.Contains(t, buf.String(), "unknown log level")
}

func TestMultiLogger(t *testing.T) {
	var a, b bytes.Buffer
	l := NewMultiLogger(
		NewZLogger(zerolog.New(&a)),
		NewZLogger(zerolog.New(&b)),
	)
	l.Info("refreshed %d token", 1)
	assert.Contains(t, a.String(), "refreshed 1 token")
	assert.Contains(t, b.String(), "refreshed 1 token")
}
