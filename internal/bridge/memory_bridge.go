package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryBackend is an in-process fake Backend used by internal/server and
// internal/session tests, so the suite never needs a real browser. It keeps
// enough state to exercise navigation, cookies, windows and alerts, and
// echoes EvaluateSync/EvaluateAsync results from a scriptable stub so tests
// can control exactly what "the page" returns.
type MemoryBackend struct {
	mu sync.Mutex

	url      string
	title    string
	source   string
	rect     Rect
	handles  []string
	current  string
	cookies  map[string][]Cookie // keyed by handle
	handler  AlertHandler
	cbCh     chan AsyncScriptCallback
	closed   bool

	// EvalFunc lets a test control EvaluateSync's return value; defaults to
	// returning JSON null.
	EvalFunc func(script string, args []json.RawMessage) (json.RawMessage, error)
}

// NewMemoryBackend returns a MemoryBackend with one window already open.
func NewMemoryBackend() *MemoryBackend {
	handle := uuid.NewString()
	return &MemoryBackend{
		url:     "about:blank",
		rect:    Rect{Width: 800, Height: 600},
		handles: []string{handle},
		current: handle,
		cookies: map[string][]Cookie{handle: {}},
		cbCh:    make(chan AsyncScriptCallback, 16),
	}
}

func (b *MemoryBackend) EvaluateSync(ctx context.Context, script string, args []json.RawMessage) (json.RawMessage, error) {
	b.mu.Lock()
	fn := b.EvalFunc
	b.mu.Unlock()
	if fn != nil {
		return fn(script, args)
	}
	return json.RawMessage("null"), nil
}

func (b *MemoryBackend) EvaluateAsync(ctx context.Context, script string, args []json.RawMessage, asyncID string) error {
	b.mu.Lock()
	fn := b.EvalFunc
	b.mu.Unlock()
	go func() {
		if fn == nil {
			b.cbCh <- AsyncScriptCallback{AsyncID: asyncID, Value: json.RawMessage("null")}
			return
		}
		value, err := fn(script, args)
		if err != nil {
			b.cbCh <- AsyncScriptCallback{AsyncID: asyncID, Err: err.Error()}
			return
		}
		b.cbCh <- AsyncScriptCallback{AsyncID: asyncID, Value: value}
	}()
	return nil
}

func (b *MemoryBackend) Callbacks() <-chan AsyncScriptCallback { return b.cbCh }

// Snapshot returns a fixed 1x1 PNG so callers have real bytes to base64-encode.
func (b *MemoryBackend) Snapshot(ctx context.Context) ([]byte, error) {
	return onePixelPNG, nil
}

func (b *MemoryBackend) PrintPDF(ctx context.Context, opts PrintOptions) ([]byte, error) {
	return []byte("%PDF-1.4 fake"), nil
}

func (b *MemoryBackend) DispatchTouch(ctx context.Context, action TouchAction) error {
	return nil
}

func (b *MemoryBackend) GetCookies(ctx context.Context, url string) ([]Cookie, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Cookie, len(b.cookies[b.current]))
	copy(out, b.cookies[b.current])
	return out, nil
}

func (b *MemoryBackend) SetCookie(ctx context.Context, url string, c Cookie) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	existing := b.cookies[b.current]
	for i, e := range existing {
		if e.Name == c.Name {
			existing[i] = c
			return nil
		}
	}
	b.cookies[b.current] = append(existing, c)
	return nil
}

func (b *MemoryBackend) DeleteCookie(ctx context.Context, url, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	existing := b.cookies[b.current]
	out := existing[:0]
	for _, e := range existing {
		if e.Name != name {
			out = append(out, e)
		}
	}
	b.cookies[b.current] = out
	return nil
}

func (b *MemoryBackend) DeleteAllCookies(ctx context.Context, url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cookies[b.current] = nil
	return nil
}

func (b *MemoryBackend) ViewportSize(ctx context.Context) (int, int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return int(b.rect.Width), int(b.rect.Height), nil
}

func (b *MemoryBackend) WindowHandle(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current, nil
}

func (b *MemoryBackend) WindowHandles(ctx context.Context) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.handles))
	copy(out, b.handles)
	return out, nil
}

func (b *MemoryBackend) SwitchToWindow(ctx context.Context, handle string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, h := range b.handles {
		if h == handle {
			b.current = handle
			return nil
		}
	}
	return fmt.Errorf("%w: no such window handle %q", ErrBackendUnavailable, handle)
}

func (b *MemoryBackend) NewWindow(ctx context.Context, asTab bool) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	handle := uuid.NewString()
	b.handles = append(b.handles, handle)
	b.cookies[handle] = []Cookie{}
	return handle, nil
}

func (b *MemoryBackend) CloseWindow(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.handles[:0]
	for _, h := range b.handles {
		if h != b.current {
			out = append(out, h)
		}
	}
	b.handles = out
	delete(b.cookies, b.current)
	if len(b.handles) > 0 {
		b.current = b.handles[0]
	} else {
		b.current = ""
	}
	return nil
}

func (b *MemoryBackend) WindowRect(ctx context.Context) (Rect, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rect, nil
}

func (b *MemoryBackend) SetWindowRect(ctx context.Context, r Rect) (Rect, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rect = r
	return b.rect, nil
}

func (b *MemoryBackend) MaximizeWindow(ctx context.Context) (Rect, error) {
	return b.SetWindowRect(ctx, Rect{Width: 1920, Height: 1080})
}

func (b *MemoryBackend) MinimizeWindow(ctx context.Context) (Rect, error) {
	return b.SetWindowRect(ctx, Rect{Width: 0, Height: 0})
}

func (b *MemoryBackend) FullscreenWindow(ctx context.Context) (Rect, error) {
	return b.SetWindowRect(ctx, Rect{Width: 1920, Height: 1080})
}

func (b *MemoryBackend) Navigate(ctx context.Context, url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.url = url
	b.title = ""
	b.source = "<html><head></head><body></body></html>"
	return nil
}

func (b *MemoryBackend) CurrentURL(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.url, nil
}

func (b *MemoryBackend) Title(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.title, nil
}

func (b *MemoryBackend) Back(ctx context.Context) error    { return nil }
func (b *MemoryBackend) Forward(ctx context.Context) error { return nil }
func (b *MemoryBackend) Refresh(ctx context.Context) error { return nil }

func (b *MemoryBackend) PageSource(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.source, nil
}

func (b *MemoryBackend) InstallAlertHandler(handler AlertHandler) {
	b.mu.Lock()
	b.handler = handler
	b.mu.Unlock()
}

// FireAlert lets a test simulate the driven page raising a dialog.
func (b *MemoryBackend) FireAlert(evt AlertEvent) {
	b.mu.Lock()
	handler := b.handler
	b.mu.Unlock()
	if handler != nil {
		handler(evt)
	}
}

func (b *MemoryBackend) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		close(b.cbCh)
		b.closed = true
	}
	return nil
}

var onePixelPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}
