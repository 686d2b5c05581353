// Package session implements the Session Manager (spec.md §4.D): session
// lifecycle, default timeouts, capability echo, and per-session input
// state, following the same id-minting-plus-mutex-guarded-map pattern the
// teacher uses for process handles in cmd/api/api/process.go.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/tauri-apps/wry-webdriver/internal/alert"
	"github.com/tauri-apps/wry-webdriver/internal/asyncscript"
	"github.com/tauri-apps/wry-webdriver/internal/bridge"
	"github.com/tauri-apps/wry-webdriver/internal/cookies"
	"github.com/tauri-apps/wry-webdriver/internal/registry"
	"github.com/tauri-apps/wry-webdriver/internal/wderrors"
)

// Timeouts is the session timeout triple (spec.md §4.D), in milliseconds.
// A nil Script disables the script timeout.
type Timeouts struct {
	Implicit int
	PageLoad int
	Script   *int
}

// DefaultTimeouts returns the W3C defaults: implicit=0, page_load=300000,
// script=30000.
func DefaultTimeouts() Timeouts {
	script := 30000
	return Timeouts{Implicit: 0, PageLoad: 300000, Script: &script}
}

// PointerState tracks one input-source's last-known state across actions
// chains, enough to compute relative pointerMove coordinates.
type PointerState struct {
	X, Y    float64
	Pressed map[int]bool
}

// KeyState tracks currently-held modifier keys across actions chains.
type KeyState struct {
	Shift, Ctrl, Alt, Meta bool
}

// Session is one active WebDriver session.
type Session struct {
	ID           string
	Capabilities map[string]any
	Timeouts     Timeouts

	Backend  bridge.Backend
	Registry *registry.Registry
	Alerts   *alert.Coordinator
	Async    *asyncscript.Coordinator
	Cookies  *cookies.Cache

	mu      sync.Mutex
	pointer map[string]*PointerState
	keys    KeyState
}

func newSession(id string, caps map[string]any, backend bridge.Backend, defaults Timeouts) *Session {
	return &Session{
		ID:           id,
		Capabilities: caps,
		Timeouts:     defaults,
		Backend:      backend,
		Registry:     registry.New(),
		Alerts:       alert.New(),
		Async:        asyncscript.New(),
		Cookies:      cookies.New(),
		pointer:      make(map[string]*PointerState),
	}
}

// Pointer returns (creating if needed) the named pointer input source's
// state, defaulting to the origin with no buttons pressed.
func (s *Session) Pointer(sourceID string) *PointerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.pointer[sourceID]
	if !ok {
		st = &PointerState{Pressed: make(map[int]bool)}
		s.pointer[sourceID] = st
	}
	return st
}

// Keys returns a copy of the current modifier-key state.
func (s *Session) Keys() KeyState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys
}

// SetKeys replaces the modifier-key state, as actions chains update it.
func (s *Session) SetKeys(k KeyState) {
	s.mu.Lock()
	s.keys = k
	s.mu.Unlock()
}

// Manager mints and tracks Sessions. Per spec.md §3, one session is active
// at a time unless AllowMultiplexing is set, in which case additional
// sessions are accepted, each with its own backend from newBackend; calls
// are not serialized across sessions.
type Manager struct {
	mu                sync.Mutex
	sessions          map[string]*Session
	defaults          Timeouts
	newBackend        func() (bridge.Backend, error)
	allowMultiplexing bool
}

// NewManager builds a Manager. newBackend constructs a fresh Backend for
// each session; defaults seeds each new session's Timeouts.
func NewManager(newBackend func() (bridge.Backend, error), defaults Timeouts, allowMultiplexing bool) *Manager {
	return &Manager{
		sessions:          make(map[string]*Session),
		defaults:          defaults,
		newBackend:        newBackend,
		allowMultiplexing: allowMultiplexing,
	}
}

// Create mints a new session with a freshly-built backend. Returns
// session_not_created if a session is already active and multiplexing is
// disabled.
func (m *Manager) Create(caps map[string]any) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) > 0 && !m.allowMultiplexing {
		return nil, wderrors.New(wderrors.KindSessionNotCreated, "a session is already active")
	}

	backend, err := m.newBackend()
	if err != nil {
		return nil, wderrors.Wrap(wderrors.KindSessionNotCreated, err)
	}

	id := uuid.NewString()
	sess := newSession(id, caps, backend, m.defaults)
	m.sessions[id] = sess
	go pumpCallbacks(sess)
	return sess, nil
}

// pumpCallbacks delivers every AsyncScriptCallback the backend emits to the
// session's Async Coordinator until the backend closes the channel (Close).
func pumpCallbacks(sess *Session) {
	for cb := range sess.Backend.Callbacks() {
		sess.Async.Resolve(cb.AsyncID, cb.Value, cb.Err)
	}
}

// Get returns the session for id, or invalid_session_id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, wderrors.InvalidSessionID(id)
	}
	return sess, nil
}

// Delete tears down a session: cancels pending async scripts with
// "session deleted", dismisses any pending alert, and closes the backend.
// Cookies are left alone (the default host policy per spec.md §4.D).
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return wderrors.InvalidSessionID(id)
	}

	sess.Async.CancelAll("session deleted")
	sess.Alerts.DismissPending()
	return sess.Backend.Close(context.Background())
}

// Count returns how many sessions are currently active, for tests and
// diagnostics.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Shutdown tears down every active session, mirroring Delete's per-session
// teardown contract, for use during process shutdown.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		_ = m.Delete(id)
	}
}
