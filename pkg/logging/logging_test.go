package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_WritesConsoleAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	var console bytes.Buffer

	logger, closer, err := New("info", path, &console)
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Str("author", "alice").Msg("flair applied")
	require.NoError(t, closer.Close())

	require.Contains(t, console.String(), "flair applied")
	require.NotContains(t, console.String(), "hidden")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "INFO", entry["level"])
	require.Equal(t, "alice", entry["author"])
	require.Equal(t, "flair applied", entry["message"])
	require.NotEmpty(t, entry["time"])
}

func TestNew_ConsoleOnly(t *testing.T) {
	var console bytes.Buffer

	logger, closer, err := New("debug", "", &console)
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug().Msg("visible")
	require.Contains(t, console.String(), "visible")
}

func TestNew_BadPath(t *testing.T) {
	_, _, err := New("info", filepath.Join(t.TempDir(), "missing", "debug.log"), &bytes.Buffer{})
	require.Error(t, err)
}
