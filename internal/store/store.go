// Package store persists templates and records as flat files under the data
// directory. Every rewrite holds an advisory lock on a sibling ".lock" file and
// replaces the target with write-tmp, fsync, rename. Concurrent writers are
// not coordinated beyond that: the last writer wins.
//
// Layout:
//
//	<root>/tasks/**/*.md           templates (YAML frontmatter)
//	<root>/logs/YYYY-MM.json       execution entries and daily summaries
//	<root>/running.json            running records
//	<root>/days/YYYY-MM-DD.json    markers and saved orders
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/mrz1836/dayplan/internal/constants"
	dperrors "github.com/mrz1836/dayplan/internal/errors"
	"github.com/mrz1836/dayplan/internal/flock"
)

// Directory and file permission constants.
const (
	dirPerm  = 0o750
	filePerm = 0o600
)

// FileStore implements every persisted record on the local filesystem.
type FileStore struct {
	root        string
	tasksDir    string
	lockTimeout time.Duration
	loc         *time.Location
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithTasksDir overrides the template directory (default <root>/tasks).
func WithTasksDir(dir string) Option {
	return func(s *FileStore) {
		if dir != "" {
			s.tasksDir = dir
		}
	}
}

// WithLockTimeout overrides how long writers wait for a lock.
func WithLockTimeout(d time.Duration) Option {
	return func(s *FileStore) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

// WithLocation sets the location used to derive dates from file times.
func WithLocation(loc *time.Location) Option {
	return func(s *FileStore) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewFileStore creates a FileStore rooted at root.
// If root is empty, uses the default ~/.dayplan directory.
func NewFileStore(root string, opts ...Option) (*FileStore, error) {
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, constants.DataHome)
	}

	s := &FileStore{
		root:        root,
		tasksDir:    filepath.Join(root, constants.TasksDir),
		lockTimeout: constants.DefaultLockTimeout,
		loc:         time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Root returns the data directory.
func (s *FileStore) Root() string {
	return s.root
}

// TasksDir returns the template directory.
func (s *FileStore) TasksDir() string {
	return s.tasksDir
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// withLock runs fn while holding the lock for path.
func (s *FileStore) withLock(ctx context.Context, path string, fn func() error) error {
	lock, err := flock.Acquire(ctx, path+constants.LockExtension, s.lockTimeout)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	return fn()
}

// readJSON decodes path into v. found is false when the file does not exist.
// A file that exists but cannot be decoded yields ErrCorruptRecord.
func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is constructed from validated keys
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("%w: %s: %w", dperrors.ErrCorruptRecord, filepath.Base(path), err)
	}
	return true, nil
}

// writeJSON marshals v with indentation and writes it atomically.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return atomicWrite(path, append(data, '\n'))
}

// atomicWrite writes data to a file atomically using write-then-rename.
func atomicWrite(path string, data []byte) error {
	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm) //#nosec G304 -- path is constructed internally
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write data: %w", err)
	}

	// Data must reach the disk before the rename makes it visible.
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
