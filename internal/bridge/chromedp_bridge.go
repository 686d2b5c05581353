package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/avast/retry-go/v5"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/tauri-apps/wry-webdriver/lib/chromiumflags"
)

// ChromeDPBackend is the primary Backend Bridge adapter. It drives a real
// Chromium target over CDP, grounded on the chromedp usage in the
// assimelha-surf example (allocator setup, ListenTarget, Evaluate, Run).
type ChromeDPBackend struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc

	mu      sync.Mutex
	handler AlertHandler
	cbCh    chan AsyncScriptCallback
}

// ChromeDPOptions configures browser launch.
type ChromeDPOptions struct {
	ExecPath string
	Headful  bool

	// ExtraFlags carries additional Chromium command-line flags (e.g. from
	// WEBDRIVER_CHROMIUM_FLAGS), merged with the baseline launch flags via
	// chromiumflags.MergeFlags so extension-related flags combine instead of
	// one overwriting the other.
	ExtraFlags []string
}

// NewChromeDPBackend launches (or attaches to) a Chromium target and
// installs the dialog-forwarding listener spec.md §4.A requires.
func NewChromeDPBackend(ctx context.Context, opts ChromeDPOptions) (*ChromeDPBackend, error) {
	baseFlags := []string{"--disable-gpu", "--no-sandbox", "--disable-dev-shm-usage"}
	merged := chromiumflags.MergeFlags(baseFlags, opts.ExtraFlags)

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !opts.Headful),
	)
	allocOpts = append(allocOpts, flagsToExecAllocatorOptions(merged)...)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, err)
	}

	b := &ChromeDPBackend{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		ctx:         browserCtx,
		cancel:      cancel,
		cbCh:        make(chan AsyncScriptCallback, 16),
	}

	chromedp.ListenTarget(browserCtx, func(ev any) {
		switch e := ev.(type) {
		case *page.EventJavascriptDialogOpening:
			b.onDialog(e)
		}
	})

	return b, nil
}

// flagsToExecAllocatorOptions turns chromiumflags-merged "--name" /
// "--name=value" tokens into chromedp.Flag options.
func flagsToExecAllocatorOptions(tokens []string) []chromedp.ExecAllocatorOption {
	opts := make([]chromedp.ExecAllocatorOption, 0, len(tokens))
	for _, tok := range tokens {
		name := strings.TrimPrefix(tok, "--")
		if name == "" {
			continue
		}
		if idx := strings.IndexByte(name, '='); idx >= 0 {
			opts = append(opts, chromedp.Flag(name[:idx], name[idx+1:]))
			continue
		}
		opts = append(opts, chromedp.Flag(name, true))
	}
	return opts
}

func (b *ChromeDPBackend) onDialog(e *page.EventJavascriptDialogOpening) {
	b.mu.Lock()
	handler := b.handler
	b.mu.Unlock()
	if handler == nil {
		// No coordinator installed: dismiss so the target doesn't hang.
		_ = chromedp.Run(b.ctx, page.HandleJavaScriptDialog(false))
		return
	}

	kind := AlertKindAlert
	switch e.Type {
	case page.DialogTypeConfirm:
		kind = AlertKindConfirm
	case page.DialogTypePrompt:
		kind = AlertKindPrompt
	}

	handler(AlertEvent{
		Kind:        kind,
		Message:     e.Message,
		DefaultText: e.DefaultPrompt,
		Accept: func(accepted bool, text string) error {
			action := page.HandleJavaScriptDialog(accepted)
			if text != "" {
				action = action.WithPromptText(text)
			}
			return b.run(context.Background(), action)
		},
	})
}

// run wraps chromedp.Run with the shared retry policy for transient backend failures.
func (b *ChromeDPBackend) run(ctx context.Context, actions ...chromedp.Action) error {
	err := retry.Do(
		func() error { return chromedp.Run(ctx, actions...) },
		retry.Attempts(2),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBackendUnavailable, err)
	}
	return nil
}

func (b *ChromeDPBackend) EvaluateSync(ctx context.Context, script string, args []json.RawMessage) (json.RawMessage, error) {
	full, err := wrapEvalWithArgs(script, args)
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := b.run(ctx, chromedp.Evaluate(full, &raw)); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return json.RawMessage("null"), nil
	}
	return raw, nil
}

func (b *ChromeDPBackend) EvaluateAsync(ctx context.Context, script string, args []json.RawMessage, asyncID string) error {
	full, err := wrapEvalWithArgs(script, args)
	if err != nil {
		return err
	}
	// Fire-and-forget: the wrapper script itself reports back through
	// __done, which the caller bridges to Callbacks() out of band.
	go func() {
		var discard json.RawMessage
		if err := b.run(context.WithoutCancel(ctx), chromedp.Evaluate(full, &discard)); err != nil {
			b.cbCh <- AsyncScriptCallback{AsyncID: asyncID, Err: err.Error()}
		}
	}()
	return nil
}

func (b *ChromeDPBackend) Callbacks() <-chan AsyncScriptCallback { return b.cbCh }

func (b *ChromeDPBackend) Snapshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := b.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, err
	}
	return buf, nil
}

func (b *ChromeDPBackend) PrintPDF(ctx context.Context, opts PrintOptions) ([]byte, error) {
	var buf []byte
	action := chromedp.ActionFunc(func(ctx context.Context) error {
		p := page.PrintToPDF().
			WithLandscape(opts.Orientation == "landscape").
			WithPrintBackground(opts.Background).
			WithScale(nonZeroOr(opts.Scale, 1)).
			WithPaperWidth(nonZeroOr(opts.PageWidth, 8.5)).
			WithPaperHeight(nonZeroOr(opts.PageHeight, 11)).
			WithMarginTop(opts.MarginTop).
			WithMarginBottom(opts.MarginBottom).
			WithMarginLeft(opts.MarginLeft).
			WithMarginRight(opts.MarginRight)
		if opts.PageRanges != "" {
			p = p.WithPageRanges(opts.PageRanges)
		}
		data, _, err := p.Do(ctx)
		if err != nil {
			return err
		}
		buf = data
		return nil
	})
	if err := b.run(ctx, action); err != nil {
		return nil, err
	}
	return buf, nil
}

func nonZeroOr(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return v
}

func (b *ChromeDPBackend) DispatchTouch(ctx context.Context, act TouchAction) error {
	var touchType input.TouchType
	switch act.Kind {
	case TouchDown:
		touchType = input.TouchStart
	case TouchUp:
		touchType = input.TouchEnd
	case TouchMove:
		touchType = input.TouchMove
	default:
		return fmt.Errorf("%w: unknown touch kind %q", ErrBackendUnavailable, act.Kind)
	}
	points := []*input.TouchPoint{{X: act.X, Y: act.Y}}
	if touchType == input.TouchEnd {
		points = nil
	}
	return b.run(ctx, input.DispatchTouchEvent(touchType, points))
}

func (b *ChromeDPBackend) GetCookies(ctx context.Context, url string) ([]Cookie, error) {
	var cdpCookies []*network.Cookie
	action := chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		if url != "" {
			cdpCookies, err = network.GetCookies().WithUrls([]string{url}).Do(ctx)
		} else {
			cdpCookies, err = network.GetCookies().Do(ctx)
		}
		return err
	})
	if err := b.run(ctx, action); err != nil {
		return nil, err
	}
	out := make([]Cookie, 0, len(cdpCookies))
	for _, c := range cdpCookies {
		out = append(out, fromCDPCookie(c))
	}
	return out, nil
}

func (b *ChromeDPBackend) SetCookie(ctx context.Context, url string, c Cookie) error {
	param := network.SetCookie(c.Name, c.Value).
		WithURL(url).
		WithPath(c.Path).
		WithDomain(c.Domain).
		WithSecure(c.Secure).
		WithHTTPOnly(c.HTTPOnly)
	if c.Expiry != nil {
		param = param.WithExpires(cdp.TimeSinceEpoch(float64(*c.Expiry)))
	}
	if c.SameSite != nil {
		param = param.WithSameSite(network.CookieSameSite(*c.SameSite))
	}
	return b.run(ctx, param)
}

func (b *ChromeDPBackend) DeleteCookie(ctx context.Context, url, name string) error {
	return b.run(ctx, network.DeleteCookies(name).WithURL(url))
}

func (b *ChromeDPBackend) DeleteAllCookies(ctx context.Context, url string) error {
	return b.run(ctx, network.ClearBrowserCookies())
}

func (b *ChromeDPBackend) ViewportSize(ctx context.Context) (int, int, error) {
	script := `({w: window.innerWidth, h: window.innerHeight})`
	var res struct {
		W int64 `json:"w"`
		H int64 `json:"h"`
	}
	if err := b.run(ctx, chromedp.Evaluate(script, &res)); err != nil {
		return 0, 0, err
	}
	return int(res.W), int(res.H), nil
}

func (b *ChromeDPBackend) WindowHandle(ctx context.Context) (string, error) {
	return string(chromedp.FromContext(b.ctx).Target.TargetID), nil
}

func (b *ChromeDPBackend) WindowHandles(ctx context.Context) ([]string, error) {
	targets, err := chromedp.Targets(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, err)
	}
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		out = append(out, string(t.TargetID))
	}
	return out, nil
}

func (b *ChromeDPBackend) SwitchToWindow(ctx context.Context, handle string) error {
	return fmt.Errorf("%w: switching targets not implemented for a single-target backend", ErrUnsupportedOperation)
}

func (b *ChromeDPBackend) NewWindow(ctx context.Context, asTab bool) (string, error) {
	return "", fmt.Errorf("%w: opening additional windows not implemented for a single-target backend", ErrUnsupportedOperation)
}

func (b *ChromeDPBackend) CloseWindow(ctx context.Context) error {
	return b.run(ctx, page.Close())
}

func (b *ChromeDPBackend) WindowRect(ctx context.Context) (Rect, error) {
	w, h, err := b.ViewportSize(ctx)
	if err != nil {
		return Rect{}, err
	}
	return Rect{Width: float64(w), Height: float64(h)}, nil
}

func (b *ChromeDPBackend) SetWindowRect(ctx context.Context, r Rect) (Rect, error) {
	if err := b.run(ctx, chromedp.EmulateViewport(int64(r.Width), int64(r.Height))); err != nil {
		return Rect{}, err
	}
	return r, nil
}

func (b *ChromeDPBackend) MaximizeWindow(ctx context.Context) (Rect, error) {
	return b.WindowRect(ctx)
}

func (b *ChromeDPBackend) MinimizeWindow(ctx context.Context) (Rect, error) {
	return Rect{}, fmt.Errorf("%w: minimize not supported headlessly", ErrUnsupportedOperation)
}

func (b *ChromeDPBackend) FullscreenWindow(ctx context.Context) (Rect, error) {
	return b.WindowRect(ctx)
}

func (b *ChromeDPBackend) Navigate(ctx context.Context, url string) error {
	return b.run(ctx, chromedp.Navigate(url))
}

func (b *ChromeDPBackend) CurrentURL(ctx context.Context) (string, error) {
	var url string
	if err := b.run(ctx, chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}

func (b *ChromeDPBackend) Title(ctx context.Context) (string, error) {
	var title string
	if err := b.run(ctx, chromedp.Title(&title)); err != nil {
		return "", err
	}
	return title, nil
}

func (b *ChromeDPBackend) Back(ctx context.Context) error {
	return b.run(ctx, chromedp.NavigateBack())
}

func (b *ChromeDPBackend) Forward(ctx context.Context) error {
	return b.run(ctx, chromedp.NavigateForward())
}

func (b *ChromeDPBackend) Refresh(ctx context.Context) error {
	return b.run(ctx, chromedp.Reload())
}

func (b *ChromeDPBackend) PageSource(ctx context.Context) (string, error) {
	var html string
	if err := b.run(ctx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", err
	}
	return html, nil
}

func (b *ChromeDPBackend) InstallAlertHandler(handler AlertHandler) {
	b.mu.Lock()
	b.handler = handler
	b.mu.Unlock()
}

func (b *ChromeDPBackend) Close(ctx context.Context) error {
	b.cancel()
	b.allocCancel()
	close(b.cbCh)
	return nil
}

func wrapEvalWithArgs(script string, args []json.RawMessage) (string, error) {
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("encoding script arguments: %w", err)
	}
	return fmt.Sprintf("(function(){ var arguments = %s; return (function(){ %s })(); })()", argsJSON, script), nil
}

func fromCDPCookie(c *network.Cookie) Cookie {
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

