//go:build unix

package flock_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dperrors "github.com/mrz1836/dayplan/internal/errors"
	"github.com/mrz1836/dayplan/internal/flock"
)

func TestAcquire(t *testing.T) {
	t.Parallel()

	t.Run("creates missing directory and lock file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "nested", "running.json.lock")

		lock, err := flock.Acquire(context.Background(), path, time.Second)
		require.NoError(t, err)
		assert.FileExists(t, path)
		require.NoError(t, lock.Release())
	})

	t.Run("times out while held", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "day.lock")

		held, err := flock.Acquire(context.Background(), path, time.Second)
		require.NoError(t, err)
		defer func() { _ = held.Release() }()

		_, err = flock.Acquire(context.Background(), path, 120*time.Millisecond)
		require.ErrorIs(t, err, dperrors.ErrLockTimeout)
	})

	t.Run("reacquires after release", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "month.lock")

		first, err := flock.Acquire(context.Background(), path, time.Second)
		require.NoError(t, err)
		require.NoError(t, first.Release())

		second, err := flock.Acquire(context.Background(), path, time.Second)
		require.NoError(t, err)
		require.NoError(t, second.Release())
	})

	t.Run("honors canceled context", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "ctx.lock")

		held, err := flock.Acquire(context.Background(), path, time.Second)
		require.NoError(t, err)
		defer func() { _ = held.Release() }()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = flock.Acquire(ctx, path, time.Second)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestRelease_NilAndTwice(t *testing.T) {
	t.Parallel()

	var nilLock *flock.Lock
	require.NoError(t, nilLock.Release())

	lock, err := flock.Acquire(context.Background(), filepath.Join(t.TempDir(), "x.lock"), time.Second)
	require.NoError(t, err)
	require.NoError(t, lock.Release())
	require.NoError(t, lock.Release())
}
