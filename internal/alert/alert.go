// Package alert implements the Alert Coordinator (spec.md §4.H/§9): the
// state machine that intercepts native JS dialogs and exposes them as
// WebDriver's dismiss/accept/get-text/set-text commands instead of letting
// the host show a real modal. It is a single-slot rendezvous, adapted from
// the teacher's devtoolsproxy.UpstreamManager atomic-value + latest-wins
// channel pattern: one pending alert at a time, a mutex that is never held
// across the continuation invocation, and subscribers notified on a
// best-effort, non-blocking channel.
package alert

import (
	"sync"
	"sync/atomic"

	"github.com/tauri-apps/wry-webdriver/internal/bridge"
	"github.com/tauri-apps/wry-webdriver/internal/wderrors"
)

// pending is a snapshot of the currently-open dialog.
type pending struct {
	kind        bridge.AlertKind
	message     string
	defaultText string
	accept      func(accepted bool, text string) error
}

// Coordinator tracks at most one open dialog per session.
type Coordinator struct {
	mu      sync.Mutex
	current *pending

	notify atomic.Value // chan struct{}, latest-wins like UpstreamManager
}

// New returns an idle Coordinator.
func New() *Coordinator {
	c := &Coordinator{}
	c.notify.Store(make(chan struct{}))
	return c
}

// OnAlert is installed as the bridge.AlertHandler for a session's backend.
// The host MUST NOT show its own native dialog; this records it as pending
// and wakes any waiter.
func (c *Coordinator) OnAlert(evt bridge.AlertEvent) {
	c.mu.Lock()
	c.current = &pending{
		kind:        evt.Kind,
		message:     evt.Message,
		defaultText: evt.DefaultText,
		accept:      evt.Accept,
	}
	old := c.notify.Swap(make(chan struct{})).(chan struct{})
	c.mu.Unlock()
	close(old)
}

// IsOpen reports whether a dialog is currently pending, for the
// unexpected-alert-open precondition check ahead of every other command.
func (c *Coordinator) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

// Text returns the pending dialog's message, or no_such_alert.
func (c *Coordinator) Text() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return "", wderrors.NoSuchAlert()
	}
	return c.current.message, nil
}

// SetText sets the prompt's response text ahead of Accept. Only valid for
// AlertKindPrompt; anything else is element_not_interactable per spec.md
// §4.H.
func (c *Coordinator) SetText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return wderrors.NoSuchAlert()
	}
	if c.current.kind != bridge.AlertKindPrompt {
		return wderrors.New(wderrors.KindElementNotInteractable, "dialog is not a prompt")
	}
	c.current.defaultText = text
	return nil
}

// Accept resolves the pending dialog as accepted (OK), copy-out-then-
// unlock-then-invoke so the host's continuation never runs under the
// coordinator's lock.
func (c *Coordinator) Accept() error {
	return c.resolve(true)
}

// Dismiss resolves the pending dialog as dismissed (Cancel).
func (c *Coordinator) Dismiss() error {
	return c.resolve(false)
}

func (c *Coordinator) resolve(accepted bool) error {
	c.mu.Lock()
	p := c.current
	if p == nil {
		c.mu.Unlock()
		return wderrors.NoSuchAlert()
	}
	c.current = nil
	text := p.defaultText
	c.mu.Unlock()

	if err := p.accept(accepted, text); err != nil {
		return wderrors.Wrap(wderrors.KindUnknownError, err)
	}
	return nil
}

// DismissPending is called on session teardown: if a dialog is open, it is
// dismissed without surfacing an error, per spec.md §4.D's teardown
// contract.
func (c *Coordinator) DismissPending() {
	c.mu.Lock()
	p := c.current
	c.current = nil
	c.mu.Unlock()
	if p != nil {
		_ = p.accept(false, "")
	}
}

// Wait returns a channel that closes the next time a dialog opens,
// letting callers poll IsOpen without busy-waiting. Resolving a dialog
// does not close it.
func (c *Coordinator) Wait() <-chan struct{} {
	return c.notify.Load().(chan struct{})
}
