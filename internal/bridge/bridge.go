// Package bridge defines the Backend Bridge Interface (spec.md §4.A): the
// single capability set the core talks to, regardless of which native host
// (KitKat WebView, WebView2, WKWebView, WebKitGTK) implements it. Concrete
// adapters live alongside this file; internal/server never imports an
// adapter directly, only this interface.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrBackendUnavailable is returned by any Backend method when the host
// bridge call itself failed (transport error, target gone, etc). Callers
// map it to the "unknown error" wire code per spec.md §7.
var ErrBackendUnavailable = errors.New("backend unavailable")

// ErrUnsupportedOperation is returned by adapters that cannot perform an
// operation their host doesn't expose (e.g. print-to-PDF on a host with no
// printing surface), per spec.md §9.
var ErrUnsupportedOperation = errors.New("unsupported operation")

// JsError is a JavaScript exception surfaced back from an evaluate call.
type JsError struct {
	Message string
	Data    json.RawMessage
}

func (e *JsError) Error() string { return e.Message }

// TouchKind enumerates the touch primitives dispatch_touch accepts.
type TouchKind string

const (
	TouchDown TouchKind = "Down"
	TouchUp   TouchKind = "Up"
	TouchMove TouchKind = "Move"
)

// TouchAction is one primitive in a touch dispatch sequence.
type TouchAction struct {
	Kind TouchKind
	X, Y float64
}

// PrintOptions mirrors the host-plugin ABI's printToPdf parameters (spec.md §6).
type PrintOptions struct {
	Orientation   string // "portrait" | "landscape"
	Scale         float64
	Background    bool
	PageWidth     float64
	PageHeight    float64
	MarginTop     float64
	MarginBottom  float64
	MarginLeft    float64
	MarginRight   float64
	ShrinkToFit   bool
	PageRanges    string
}

// SameSite is the cookie SameSite attribute.
type SameSite string

const (
	SameSiteStrict SameSite = "Strict"
	SameSiteLax    SameSite = "Lax"
	SameSiteNone   SameSite = "None"
)

// Cookie is the wire shape of spec.md §3's Cookie data model.
type Cookie struct {
	Name     string
	Value    string
	Path     string
	Domain   string
	Secure   bool
	HTTPOnly bool
	Expiry   *int64 // unix seconds
	SameSite *SameSite
}

// Rect is a window/element bounding rectangle in CSS pixels.
type Rect struct {
	X, Y, Width, Height float64
}

// AlertKind distinguishes the three JS dialog types a page can raise.
type AlertKind string

const (
	AlertKindAlert   AlertKind = "alert"
	AlertKindConfirm AlertKind = "confirm"
	AlertKindPrompt  AlertKind = "prompt"
)

// AlertEvent is what a host forwards to the Alert Coordinator when a page
// calls alert()/confirm()/prompt(). Accept resolves the browser-native
// dialog; the bool is "accepted", and text is the prompt's returned value
// (ignored for alert/confirm).
type AlertEvent struct {
	Kind        AlertKind
	Message     string
	DefaultText string
	Accept      func(accepted bool, text string) error
}

// AlertHandler is installed once per Backend and invoked for every dialog
// the driven WebView raises, until the Backend is closed.
type AlertHandler func(AlertEvent)

// AsyncScriptCallback is delivered by EvaluateAsync when the injected
// wrapper's __done(value, err) fires.
type AsyncScriptCallback struct {
	AsyncID string
	Value   json.RawMessage
	Err     string
}

// Backend is the capability set spec.md §4.A requires of every host
// adapter. Every operation may fail with ErrBackendUnavailable; callers map
// that to "unknown error" (spec.md §7).
type Backend interface {
	// EvaluateSync runs script in the current browsing context and returns
	// its JSON-serialized completion value.
	EvaluateSync(ctx context.Context, script string, args []json.RawMessage) (json.RawMessage, error)

	// EvaluateAsync injects script (already wrapped so it calls
	// __done(value)/__done(null, err) itself — see internal/asyncscript)
	// and returns once the script has been dispatched; the eventual result
	// arrives out-of-band via the channel from Callbacks().
	EvaluateAsync(ctx context.Context, script string, args []json.RawMessage, asyncID string) error

	// Callbacks returns the channel AsyncScriptCallback values are sent on.
	Callbacks() <-chan AsyncScriptCallback

	// Snapshot captures the current viewport as PNG bytes.
	Snapshot(ctx context.Context) ([]byte, error)

	// PrintPDF renders the current page to PDF bytes. Returns
	// ErrUnsupportedOperation if the host cannot print (spec.md §9).
	PrintPDF(ctx context.Context, opts PrintOptions) ([]byte, error)

	// DispatchTouch injects a single touch primitive at viewport coordinates (x, y).
	DispatchTouch(ctx context.Context, action TouchAction) error

	// GetCookies returns cookies visible to url. url == "" means the
	// current page's cookies.
	GetCookies(ctx context.Context, url string) ([]Cookie, error)
	SetCookie(ctx context.Context, url string, c Cookie) error
	DeleteCookie(ctx context.Context, url, name string) error
	DeleteAllCookies(ctx context.Context, url string) error

	// ViewportSize returns the current viewport size in CSS pixels.
	ViewportSize(ctx context.Context) (width, height int, err error)

	// WindowHandle returns a host-stable identifier for the current
	// top-level window.
	WindowHandle(ctx context.Context) (string, error)
	WindowHandles(ctx context.Context) ([]string, error)
	SwitchToWindow(ctx context.Context, handle string) error
	NewWindow(ctx context.Context, asTab bool) (handle string, err error)
	CloseWindow(ctx context.Context) error

	WindowRect(ctx context.Context) (Rect, error)
	SetWindowRect(ctx context.Context, r Rect) (Rect, error)
	MaximizeWindow(ctx context.Context) (Rect, error)
	MinimizeWindow(ctx context.Context) (Rect, error)
	FullscreenWindow(ctx context.Context) (Rect, error)

	// Navigate changes the top-level browsing context's URL.
	Navigate(ctx context.Context, url string) error
	CurrentURL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
	Back(ctx context.Context) error
	Forward(ctx context.Context) error
	Refresh(ctx context.Context) error

	// PageSource returns the current document's serialized HTML.
	PageSource(ctx context.Context) (string, error)

	// InstallAlertHandler registers the callback invoked for every
	// alert/confirm/prompt dialog the driven WebView raises. The host MUST
	// forward these rather than let the native dialog show (spec.md §4.A).
	InstallAlertHandler(handler AlertHandler)

	// Close releases all resources held by this Backend (browser process,
	// CDP connection, ...).
	Close(ctx context.Context) error
}

// DefaultCallTimeout is a 30-second budget for a single Backend call. No
// code in this module applies it: internal/server passes each request's own
// context to the Backend unchanged.
const DefaultCallTimeout = 30 * time.Second
