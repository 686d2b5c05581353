package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// RodBackend is the secondary Backend Bridge adapter, demonstrating the
// "variants of this interface exist per host" design note of spec.md §4.A
// with a second concrete CDP-based host, grounded on the go-rod usage in
// Easonliuliang-purify/scraper/page.go. It intentionally does not implement
// every capability (see PrintPDF) — spec.md §9 expects hosts to respond
// "unsupported operation" rather than hang when a capability is missing.
type RodBackend struct {
	browser *rod.Browser
	page    *rod.Page

	mu      sync.Mutex
	handler AlertHandler
	cbCh    chan AsyncScriptCallback
}

// RodOptions configures the launched browser.
type RodOptions struct {
	ControlURL string // connect to an existing browser instead of launching one
	Headful    bool
}

// NewRodBackend connects to (or launches) a browser and opens a single page.
func NewRodBackend(opts RodOptions) (*RodBackend, error) {
	browser := rod.New()
	if opts.ControlURL != "" {
		browser = browser.ControlURL(opts.ControlURL)
	}
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, err)
	}

	b := &RodBackend{browser: browser, page: page, cbCh: make(chan AsyncScriptCallback, 16)}

	go page.EachEvent(func(e *proto.PageJavascriptDialogOpening) {
		b.onDialog(e)
	})()

	return b, nil
}

func (b *RodBackend) onDialog(e *proto.PageJavascriptDialogOpening) {
	b.mu.Lock()
	handler := b.handler
	b.mu.Unlock()
	if handler == nil {
		_ = proto.PageHandleJavaScriptDialog{Accept: false}.Call(b.page)
		return
	}

	kind := AlertKindAlert
	switch e.Type {
	case proto.PageDialogTypeConfirm:
		kind = AlertKindConfirm
	case proto.PageDialogTypePrompt:
		kind = AlertKindPrompt
	}

	handler(AlertEvent{
		Kind:        kind,
		Message:     e.Message,
		DefaultText: e.DefaultPrompt,
		Accept: func(accepted bool, text string) error {
			return proto.PageHandleJavaScriptDialog{Accept: accepted, PromptText: text}.Call(b.page)
		},
	})
}

func (b *RodBackend) EvaluateSync(ctx context.Context, script string, args []json.RawMessage) (json.RawMessage, error) {
	full, err := wrapEvalWithArgs(script, args)
	if err != nil {
		return nil, err
	}
	res, err := b.page.Context(ctx).Eval(full)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, err)
	}
	if res.Value.Nil() {
		return json.RawMessage("null"), nil
	}
	return json.RawMessage(res.Value.Raw), nil
}

func (b *RodBackend) EvaluateAsync(ctx context.Context, script string, args []json.RawMessage, asyncID string) error {
	full, err := wrapEvalWithArgs(script, args)
	if err != nil {
		return err
	}
	go func() {
		if _, err := b.page.Eval(full); err != nil {
			b.cbCh <- AsyncScriptCallback{AsyncID: asyncID, Err: err.Error()}
		}
	}()
	return nil
}

func (b *RodBackend) Callbacks() <-chan AsyncScriptCallback { return b.cbCh }

func (b *RodBackend) Snapshot(ctx context.Context) ([]byte, error) {
	buf, err := b.page.Context(ctx).Screenshot(false, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, err)
	}
	return buf, nil
}

// PrintPDF is not wired for this secondary host; see SPEC_FULL.md Open
// Questions and DESIGN.md for the rationale.
func (b *RodBackend) PrintPDF(ctx context.Context, opts PrintOptions) ([]byte, error) {
	return nil, ErrUnsupportedOperation
}

func (b *RodBackend) DispatchTouch(ctx context.Context, act TouchAction) error {
	var eventType proto.InputDispatchTouchEventType
	switch act.Kind {
	case TouchDown:
		eventType = proto.InputDispatchTouchEventTypeTouchStart
	case TouchUp:
		eventType = proto.InputDispatchTouchEventTypeTouchEnd
	case TouchMove:
		eventType = proto.InputDispatchTouchEventTypeTouchMove
	default:
		return fmt.Errorf("%w: unknown touch kind %q", ErrBackendUnavailable, act.Kind)
	}
	req := proto.InputDispatchTouchEvent{
		Type: eventType,
		TouchPoints: []*proto.InputTouchPoint{
			{X: act.X, Y: act.Y},
		},
	}
	if err := req.Call(b.page); err != nil {
		return fmt.Errorf("%w: %s", ErrBackendUnavailable, err)
	}
	return nil
}

func (b *RodBackend) GetCookies(ctx context.Context, url string) ([]Cookie, error) {
	cookies, err := b.page.Cookies(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, err)
	}
	out := make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, fromRodCookie(c))
	}
	return out, nil
}

func (b *RodBackend) SetCookie(ctx context.Context, url string, c Cookie) error {
	set := proto.NetworkSetCookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		Secure:   c.Secure,
		HTTPOnly: c.HTTPOnly,
		URL:      url,
	}
	if c.Expiry != nil {
		set.Expires = proto.TimeSinceEpoch(float64(*c.Expiry))
	}
	if _, err := set.Call(b.page); err != nil {
		return fmt.Errorf("%w: %s", ErrBackendUnavailable, err)
	}
	return nil
}

func (b *RodBackend) DeleteCookie(ctx context.Context, url, name string) error {
	if _, err := (proto.NetworkDeleteCookies{Name: name, URL: url}).Call(b.page); err != nil {
		return fmt.Errorf("%w: %s", ErrBackendUnavailable, err)
	}
	return nil
}

func (b *RodBackend) DeleteAllCookies(ctx context.Context, url string) error {
	if err := proto.NetworkClearBrowserCookies{}.Call(b.page); err != nil {
		return fmt.Errorf("%w: %s", ErrBackendUnavailable, err)
	}
	return nil
}

func (b *RodBackend) ViewportSize(ctx context.Context) (int, int, error) {
	metrics, err := proto.PageGetLayoutMetrics{}.Call(b.page)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s", ErrBackendUnavailable, err)
	}
	return int(metrics.CSSLayoutViewport.ClientWidth), int(metrics.CSSLayoutViewport.ClientHeight), nil
}

func (b *RodBackend) WindowHandle(ctx context.Context) (string, error) {
	return string(b.page.TargetID), nil
}

func (b *RodBackend) WindowHandles(ctx context.Context) ([]string, error) {
	pages, err := b.browser.Pages()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, err)
	}
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		out = append(out, string(p.TargetID))
	}
	return out, nil
}

func (b *RodBackend) SwitchToWindow(ctx context.Context, handle string) error {
	pages, err := b.browser.Pages()
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBackendUnavailable, err)
	}
	for _, p := range pages {
		if string(p.TargetID) == handle {
			b.page = p
			return nil
		}
	}
	return fmt.Errorf("%w: no such window target %q", ErrBackendUnavailable, handle)
}

func (b *RodBackend) NewWindow(ctx context.Context, asTab bool) (string, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrBackendUnavailable, err)
	}
	return string(page.TargetID), nil
}

func (b *RodBackend) CloseWindow(ctx context.Context) error {
	return b.page.Close()
}

func (b *RodBackend) WindowRect(ctx context.Context) (Rect, error) {
	w, h, err := b.ViewportSize(ctx)
	if err != nil {
		return Rect{}, err
	}
	return Rect{Width: float64(w), Height: float64(h)}, nil
}

func (b *RodBackend) SetWindowRect(ctx context.Context, r Rect) (Rect, error) {
	if err := b.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  int(r.Width),
		Height: int(r.Height),
	}); err != nil {
		return Rect{}, fmt.Errorf("%w: %s", ErrBackendUnavailable, err)
	}
	return r, nil
}

func (b *RodBackend) MaximizeWindow(ctx context.Context) (Rect, error) { return b.WindowRect(ctx) }
func (b *RodBackend) MinimizeWindow(ctx context.Context) (Rect, error) {
	return Rect{}, ErrUnsupportedOperation
}
func (b *RodBackend) FullscreenWindow(ctx context.Context) (Rect, error) { return b.WindowRect(ctx) }

func (b *RodBackend) Navigate(ctx context.Context, url string) error {
	if err := b.page.Context(ctx).Navigate(url); err != nil {
		return fmt.Errorf("%w: %s", ErrBackendUnavailable, err)
	}
	return nil
}

func (b *RodBackend) CurrentURL(ctx context.Context) (string, error) {
	info, err := b.page.Info()
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrBackendUnavailable, err)
	}
	return info.URL, nil
}

func (b *RodBackend) Title(ctx context.Context) (string, error) {
	info, err := b.page.Info()
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrBackendUnavailable, err)
	}
	return info.Title, nil
}

func (b *RodBackend) Back(ctx context.Context) error {
	if err := b.page.NavigateBack(); err != nil {
		return fmt.Errorf("%w: %s", ErrBackendUnavailable, err)
	}
	return nil
}

func (b *RodBackend) Forward(ctx context.Context) error {
	if err := b.page.NavigateForward(); err != nil {
		return fmt.Errorf("%w: %s", ErrBackendUnavailable, err)
	}
	return nil
}

func (b *RodBackend) Refresh(ctx context.Context) error {
	if err := b.page.Reload(); err != nil {
		return fmt.Errorf("%w: %s", ErrBackendUnavailable, err)
	}
	return nil
}

func (b *RodBackend) PageSource(ctx context.Context) (string, error) {
	html, err := b.page.HTML()
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrBackendUnavailable, err)
	}
	return html, nil
}

func (b *RodBackend) InstallAlertHandler(handler AlertHandler) {
	b.mu.Lock()
	b.handler = handler
	b.mu.Unlock()
}

func (b *RodBackend) Close(ctx context.Context) error {
	close(b.cbCh)
	return b.browser.Close()
}

func fromRodCookie(c *proto.NetworkCookie) Cookie {
	out := Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Domain:   c.Domain,
		Secure:   c.Secure,
		HTTPOnly: c.HTTPOnly,
	}
	if c.Expires > 0 {
		e := int64(c.Expires)
		out.Expiry = &e
	}
	ss := SameSite(string(c.SameSite))
	if ss != "" {
		out.SameSite = &ss
	}
	return out
}
