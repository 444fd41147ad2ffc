// Package signal turns process signals into context cancellation and reload
// requests for long-running dayplan commands.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler cancels its context on SIGINT or SIGTERM and reports SIGHUP as a
// reload request.
type Handler struct {
	ctx         context.Context //nolint:containedctx // handler owns the context lifecycle
	cancel      context.CancelFunc
	interrupted chan struct{}
	reload      chan struct{}
	done        chan struct{}
	once        sync.Once
	stopOnce    sync.Once
	sigChan     chan os.Signal
}

// NewHandler starts listening for signals.
//
//	h := signal.NewHandler(ctx)
//	defer h.Stop()
//	for {
//	    select {
//	    case <-h.Context().Done():
//	        return nil
//	    case <-h.Reload():
//	        // reload state
//	    }
//	}
func NewHandler(parent context.Context) *Handler {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		ctx:         ctx,
		cancel:      cancel,
		interrupted: make(chan struct{}),
		reload:      make(chan struct{}, 1),
		done:        make(chan struct{}),
		sigChan:     make(chan os.Signal, 1),
	}

	signal.Notify(h.sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go h.listen()

	return h
}

// Context returns the context canceled on interrupt or Stop.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted is closed when an interrupt signal is received.
func (h *Handler) Interrupted() <-chan struct{} {
	return h.interrupted
}

// Reload receives a value for each SIGHUP. Requests that arrive while one is
// pending are merged.
func (h *Handler) Reload() <-chan struct{} {
	return h.reload
}

// Stop stops listening and cancels the context.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigChan)
		close(h.done)
		h.cancel()
	})
}

func (h *Handler) handle(sig os.Signal) {
	if sig == syscall.SIGHUP {
		h.requestReload()
		return
	}
	h.interrupt()
}

func (h *Handler) interrupt() {
	h.once.Do(func() {
		h.cancel()
		close(h.interrupted)
	})
}

func (h *Handler) requestReload() {
	select {
	case h.reload <- struct{}{}:
	default:
	}
}

func (h *Handler) listen() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.done:
			return
		case sig := <-h.sigChan:
			h.handle(sig)
		}
	}
}
