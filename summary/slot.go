package summary

import (
	"context"
	"sync"
)

// Inflight admits at most one running pipeline. Starting a new request
// cancels whichever one is still running; the superseded request observes
// context cancellation and unwinds.
type Inflight struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// Begin cancels the previous in-flight request, if any, and returns a
// context for the new one. The caller must call the returned CancelFunc
// when the request finishes; a superseded request's cleanup leaves the
// newer request untouched.
func (f *Inflight) Begin(parent context.Context) (context.Context, context.CancelFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	f.gen++
	gen := f.gen
	f.cancel = cancel
	return ctx, func() {
		f.mu.Lock()
		if f.gen == gen {
			f.cancel = nil
		}
		f.mu.Unlock()
		cancel()
	}
}
