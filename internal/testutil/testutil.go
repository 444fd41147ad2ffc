// Package testutil provides fixtures shared by dayplan tests.
//
// It should only be imported by test files (*_test.go).
package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Mock errors for simulating storage failures.
var (
	// ErrMockDiskFull stands in for a failed write.
	ErrMockDiskFull = errors.New("disk full")

	// ErrMockReadFailed stands in for a failed read.
	ErrMockReadFailed = errors.New("read failed")
)

// OneOff returns the frontmatter of a one-off task created on date.
func OneOff(date string) string {
	return "created: " + date
}

// Daily returns the frontmatter of a daily routine scheduled at hhmm.
func Daily(hhmm string) string {
	return Frontmatter(
		"routine: true",
		"routine_type: daily",
		`scheduled_time: "`+hhmm+`"`,
		"created: 2026-01-01",
	)
}

// Frontmatter joins YAML lines into a frontmatter body.
func Frontmatter(lines ...string) string {
	return strings.Join(lines, "\n")
}

// WriteTemplate writes a template file under tasksDir. name may contain
// folders, which are created.
func WriteTemplate(t testing.TB, tasksDir, name, frontmatter string) string {
	t.Helper()
	path := filepath.Join(tasksDir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("---\n"+frontmatter+"\n---\n"), 0o600))
	return path
}

// ReadFile returns the content of path.
func ReadFile(t testing.TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec // test path
	require.NoError(t, err)
	return string(data)
}
