package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreGlobals(t *testing.T) {
	t.Helper()
	prevLogger := log.Logger
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})
}

func TestInitWithWriter_JSON(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer

	InitWithWriter(&buf, "debug", false)
	log.Info().Str("email", "a@x.com").Msg("user created")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "info", rec["level"])
	assert.Equal(t, "user created", rec["message"])
	assert.Equal(t, "a@x.com", rec["email"])
	assert.Contains(t, rec, "caller")
	assert.Contains(t, rec, "time")
}

func TestInitWithWriter_LevelFilter(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer

	InitWithWriter(&buf, "warn", false)
	log.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestInitWithWriter_UnknownLevelDefaultsToInfo(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer

	InitWithWriter(&buf, "chatty", false)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestInitWithWriter_Pretty(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer

	InitWithWriter(&buf, "info", true)
	log.Info().Msg("hello")

	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())), "console writer must not emit JSON")
}
