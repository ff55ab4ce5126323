package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileWriter(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "callprod.log")

	w, err := NewFileWriter(logFile)
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, logFile, w.Filename)
	info, err := os.Stat(filepath.Dir(logFile))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestInit_Level(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	tests := map[string]struct {
		level    string
		verbose  bool
		expected zerolog.Level
	}{
		"Default":      {level: "", expected: zerolog.InfoLevel},
		"Warn":         {level: "warn", expected: zerolog.WarnLevel},
		"Invalid":      {level: "loud", expected: zerolog.InfoLevel},
		"VerboseWins":  {level: "error", verbose: true, expected: zerolog.DebugLevel},
		"DebugByLevel": {level: "debug", expected: zerolog.DebugLevel},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, Init(tt.level, tt.verbose, ""))
			assert.Equal(t, tt.expected, zerolog.GlobalLevel())
		})
	}
}
