package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewFallsBackToInfo(t *testing.T) {
	for _, level := range []string{"", "loud", "  "} {
		l := New(level, &bytes.Buffer{})
		require.Equal(t, zerolog.InfoLevel, l.GetLevel(), "level %q", level)
	}
}

func TestNewParsesLevel(t *testing.T) {
	l := New(" DEBUG ", &bytes.Buffer{})
	require.Equal(t, zerolog.DebugLevel, l.GetLevel())
}

func TestComponentAddsField(t *testing.T) {
	var buf bytes.Buffer
	l := Component(New("info", &buf), "guests")
	l.Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "guests", entry["component"])
	require.Equal(t, "hello", entry["message"])
}
