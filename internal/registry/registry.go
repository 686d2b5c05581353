// Package registry is the server-side mirror of the Injected Script
// Library's handle table (spec.md §4.C): it records which handles were
// minted in which browsing-context epoch, so a handle from a stale context
// (the page navigated, or the session switched frames) is rejected before
// the core even asks the bridge to resolve it.
package registry

import (
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/tauri-apps/wry-webdriver/internal/wderrors"
)

// Kind distinguishes the four handle namespaces the protocol envelope tags
// with distinct W3C magic keys (or, for frames/windows, no magic key at
// all).
type Kind string

const (
	KindElement Kind = "element"
	KindShadow  Kind = "shadow"
	KindFrame   Kind = "frame"
	KindWindow  Kind = "window"
)

// entry is one minted handle's bookkeeping record.
type entry struct {
	handle Kind
	epoch  int
}

// Registry tracks minted handles for a single session. It is not shared
// across sessions.
type Registry struct {
	mu      sync.Mutex
	entries map[string]entry
	epoch   int
}

// New returns a Registry starting at epoch 0.
func New() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Mint records a newly-seen handle (already minted client-side by the
// injected script) against the current epoch and returns it unchanged,
// generating one if the caller didn't supply one.
func (r *Registry) Mint(kind Kind, handle string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if handle == "" {
		handle = uuid.NewString()
	}
	r.entries[handle] = entry{handle: kind, epoch: r.epoch}
	return handle
}

// Resolve validates that handle was minted in the current epoch and is of
// the expected kind, returning the appropriate "no such X" / "stale element
// reference" error otherwise.
func (r *Registry) Resolve(kind Kind, handle string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[handle]
	if !ok {
		return notFoundError(kind, handle)
	}
	if e.handle != kind {
		return notFoundError(kind, handle)
	}
	if e.epoch != r.epoch {
		if kind == KindElement || kind == KindShadow {
			return wderrors.New(wderrors.KindStaleElementReference, "handle %q belongs to a previous context", handle)
		}
		return notFoundError(kind, handle)
	}
	return nil
}

func notFoundError(kind Kind, handle string) error {
	switch kind {
	case KindElement:
		return wderrors.New(wderrors.KindNoSuchElement, "no such element: %q", handle)
	case KindShadow:
		return wderrors.New(wderrors.KindNoSuchShadowRoot, "no such shadow root: %q", handle)
	case KindFrame:
		return wderrors.New(wderrors.KindNoSuchFrame, "no such frame: %q", handle)
	case KindWindow:
		return wderrors.New(wderrors.KindNoSuchWindow, "no such window: %q", handle)
	default:
		return wderrors.New(wderrors.KindUnknownError, "unrecognized handle kind %q", kind)
	}
}

// BumpEpoch advances the current context epoch, as happens on navigation
// (URL change, back/forward/refresh) and frame switch (spec.md §4.C). Every
// handle minted before the bump becomes stale (elements/shadow roots) or
// unresolvable (frames/windows) going forward.
func (r *Registry) BumpEpoch() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.epoch++
}

// Epoch returns the current context epoch, primarily for tests.
func (r *Registry) Epoch() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.epoch
}

// FilterLive returns the subset of handles that still resolve in the
// current epoch for the given kind, used when the core needs to re-tag or
// prune a batch of handles after a frame switch.
func (r *Registry) FilterLive(kind Kind, handles []string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo.Filter(handles, func(h string, _ int) bool {
		e, ok := r.entries[h]
		return ok && e.handle == kind && e.epoch == r.epoch
	})
}

// Retag mints a fresh copy of each handle for the current epoch, used when
// the core needs to carry a set of references forward across a frame switch
// that it already knows are still valid (e.g. re-resolved via a fresh
// locate call).
func (r *Registry) Retag(kind Kind, handles []string) []string {
	return lo.Map(handles, func(h string, _ int) string {
		return r.Mint(kind, h)
	})
}
