// Package asyncscript implements the Async Script Coordinator (spec.md
// §4.I): a registry of in-flight "execute async script" calls, each raced
// against its session's script timeout. It is adapted from the teacher's
// UpstreamManager.Subscribe / processHandle done-channel patterns in
// lib/devtoolsproxy and cmd/api/api/process.go — one done channel per
// pending call, closed exactly once by whichever of (callback, timeout,
// cancellation) arrives first.
package asyncscript

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/nrednav/cuid2"

	"github.com/tauri-apps/wry-webdriver/internal/wderrors"
)

// Result is what a pending call resolves to.
type Result struct {
	Value json.RawMessage
	Err   error
}

type pendingEntry struct {
	done chan Result
}

// Coordinator tracks pending async script calls for one session.
type Coordinator struct {
	mu      sync.Mutex
	pending map[string]*pendingEntry
}

// New returns an empty Coordinator.
func New() *Coordinator {
	return &Coordinator{pending: make(map[string]*pendingEntry)}
}

// Register mints a fresh async_id and returns it along with a function the
// caller uses to block for the result, racing the given timeout. A timeout
// of zero or less means "no timeout" (spec.md §3 invariant iv: script=null
// disables the timeout) and the wait blocks until resolved or cancelled. A
// late Resolve call after the timeout (or after CancelAll) is a no-op,
// matching spec.md §4.I.
func (c *Coordinator) Register(ctx context.Context, timeout time.Duration) (asyncID string, wait func() Result) {
	asyncID = cuid2.Generate()
	entry := &pendingEntry{done: make(chan Result, 1)}

	c.mu.Lock()
	c.pending[asyncID] = entry
	c.mu.Unlock()

	wait = func() Result {
		var timerC <-chan time.Time
		if timeout > 0 {
			timer := time.NewTimer(timeout)
			defer timer.Stop()
			timerC = timer.C
		}

		select {
		case r := <-entry.done:
			c.forget(asyncID)
			return r
		case <-timerC:
			c.forget(asyncID)
			return Result{Err: wderrors.New(wderrors.KindScriptTimeout, "async script did not call the completion callback within %s", timeout)}
		case <-ctx.Done():
			c.forget(asyncID)
			return Result{Err: wderrors.Wrap(wderrors.KindUnknownError, ctx.Err())}
		}
	}
	return asyncID, wait
}

// Resolve delivers the eventual value or error for asyncID. Called from the
// bridge's AsyncScriptCallback consumer. A no-op if asyncID is unknown
// (already timed out, already resolved, or the session was torn down).
func (c *Coordinator) Resolve(asyncID string, value json.RawMessage, errMsg string) {
	c.mu.Lock()
	entry, ok := c.pending[asyncID]
	if ok {
		delete(c.pending, asyncID)
	}
	c.mu.Unlock()
	if !ok {
		return
	}

	var result Result
	if errMsg != "" {
		result.Err = wderrors.New(wderrors.KindJavascriptError, "%s", errMsg)
	} else {
		result.Value = value
	}
	entry.done <- result
}

func (c *Coordinator) forget(asyncID string) {
	c.mu.Lock()
	delete(c.pending, asyncID)
	c.mu.Unlock()
}

// CancelAll resolves every pending call with a session_deleted-flavored
// error, used on session teardown (spec.md §4.D/§4.I).
func (c *Coordinator) CancelAll(reason string) {
	c.mu.Lock()
	entries := make([]*pendingEntry, 0, len(c.pending))
	for id, e := range c.pending {
		entries = append(entries, e)
		delete(c.pending, id)
	}
	c.mu.Unlock()

	for _, e := range entries {
		select {
		case e.done <- Result{Err: wderrors.New(wderrors.KindUnknownError, "%s", reason)}:
		default:
		}
	}
}

// Pending returns the count of in-flight calls, for tests.
func (c *Coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
