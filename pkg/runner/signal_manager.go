package runner

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SignalManager turns SIGINT and SIGTERM into context cancellation that can be re-armed
// after each interrupt, so one Ctrl+C aborts the current turn without ending the session.
type SignalManager struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSignalManager creates a manager that is already listening.
func NewSignalManager() *SignalManager {
	sm := &SignalManager{}
	sm.Reset()
	return sm
}

// Context is cancelled when a signal arrives.
func (sm *SignalManager) Context() context.Context {
	return sm.ctx
}

// Interrupted reports whether a signal arrived since the last Reset.
func (sm *SignalManager) Interrupted() bool {
	return sm.ctx.Err() != nil
}

// Reset re-arms the listener after an interrupt was handled.
func (sm *SignalManager) Reset() {
	if sm.cancel != nil {
		sm.cancel()
	}
	sm.ctx, sm.cancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Stop releases the signal registration.
func (sm *SignalManager) Stop() {
	if sm.cancel != nil {
		sm.cancel()
	}
}

// bind derives a context from parent that is also cancelled by the next signal.
func (sm *SignalManager) bind(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(sm.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
