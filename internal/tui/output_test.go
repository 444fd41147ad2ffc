package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dperrors "github.com/mrz1836/dayplan/internal/errors"
)

func TestNewOutput(t *testing.T) {
	var buf bytes.Buffer

	assert.IsType(t, &JSONOutput{}, NewOutput(&buf, "json"))
	assert.IsType(t, &TTYOutput{}, NewOutput(&buf, "text"))
	assert.IsType(t, &TTYOutput{}, NewOutput(&buf, ""))
}

func TestTTYOutput_ErrorShowsUserMessageAndAction(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	CheckNoColor()
	var buf bytes.Buffer

	NewTTYOutput(&buf).Error(fmt.Errorf("start: %w", dperrors.ErrFutureDateStart))

	assert.Contains(t, buf.String(), "Tasks on a future date cannot be started.")
	assert.Contains(t, buf.String(), "Switch to today")
}

func TestJSONOutput_Messages(t *testing.T) {
	var buf bytes.Buffer
	out := NewJSONOutput(&buf)

	out.Success("started Email")
	out.Info("ignored")
	out.Error(fmt.Errorf("move: %w", dperrors.ErrMoveNotIdle))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var success map[string]string
	require.NoError(t, json.Unmarshal(lines[0], &success))
	assert.Equal(t, "success", success["type"])
	assert.Equal(t, "started Email", success["message"])

	var failure map[string]string
	require.NoError(t, json.Unmarshal(lines[1], &failure))
	assert.Equal(t, "error", failure["type"])
	assert.Equal(t, "Running or completed tasks cannot be moved.", failure["message"])
	assert.Contains(t, failure["details"], "move:")
	assert.NotEmpty(t, failure["suggestion"])
}

func TestHasColorSupport(t *testing.T) {
	t.Setenv("TERM", "xterm-256color")
	t.Setenv("NO_COLOR", "")
	assert.False(t, HasColorSupport(), "NO_COLOR with an empty value still disables color")
}
