package signal

import (
	"context"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_InterruptCancelsContext(t *testing.T) {
	for _, sig := range []syscall.Signal{syscall.SIGINT, syscall.SIGTERM} {
		t.Run(sig.String(), func(t *testing.T) {
			h := NewHandler(context.Background())
			defer h.Stop()

			h.handle(sig)

			require.Error(t, h.Context().Err())
			assert.Equal(t, context.Canceled, h.Context().Err())
			select {
			case <-h.Interrupted():
			default:
				t.Fatal("interrupted channel should be closed after signal")
			}
		})
	}
}

func TestHandler_RepeatedInterruptsAreIdempotent(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	h.handle(syscall.SIGINT)
	h.handle(syscall.SIGINT)

	require.Error(t, h.Context().Err())
}

func TestHandler_HangupRequestsReload(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	h.handle(syscall.SIGHUP)
	h.handle(syscall.SIGHUP)

	require.NoError(t, h.Context().Err())
	select {
	case <-h.Reload():
	default:
		t.Fatal("expected a pending reload")
	}
	select {
	case <-h.Reload():
		t.Fatal("pending reloads should be merged")
	default:
	}
}

func TestHandler_StopCancelsContext(t *testing.T) {
	h := NewHandler(context.Background())
	h.Stop()
	h.Stop()

	assert.Error(t, h.Context().Err())
	select {
	case <-h.Interrupted():
		t.Fatal("stop is not an interrupt")
	default:
	}
}

func TestHandler_ParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	h := NewHandler(parent)
	defer h.Stop()

	cancel()

	<-h.Context().Done()
	assert.Error(t, h.Context().Err())
}
