package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectLevel(t *testing.T) {
	tests := []struct {
		name           string
		verbose, quiet bool
		want           zerolog.Level
	}{
		{"default", false, false, zerolog.InfoLevel},
		{"verbose", true, false, zerolog.DebugLevel},
		{"quiet", false, true, zerolog.WarnLevel},
		{"verbose wins", true, true, zerolog.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectLevel(tt.verbose, tt.quiet))
		})
	}
}

func TestNew_ConsoleAndFile(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer

	logger, err := New(Options{Dir: dir, Console: &buf})
	require.NoError(t, err)
	t.Cleanup(func() { _ = logger.Close() })

	logger.Info().Str("instance_id", "a_1_00000000").Msg("started")
	logger.Debug().Msg("hidden at info level")

	assert.Contains(t, buf.String(), `"event":"started"`)
	assert.Contains(t, buf.String(), `"ts":`)
	assert.NotContains(t, buf.String(), "hidden at info level")

	require.NoError(t, logger.Close())
	data, err := os.ReadFile(filepath.Join(dir, "dayplan.log")) //nolint:gosec // test path
	require.NoError(t, err)
	assert.Contains(t, string(data), `"instance_id":"a_1_00000000"`)
}

func TestNew_NoFileSink(t *testing.T) {
	var buf bytes.Buffer

	logger, err := New(Options{Quiet: true, Console: &buf})
	require.NoError(t, err)

	logger.Info().Msg("dropped")
	logger.Warn().Msg("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
	assert.NoError(t, logger.Close())
}
