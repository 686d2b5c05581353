// Package wderrors implements the W3C WebDriver error taxonomy of spec.md
// §7: an internal error kind, the wire error code it maps to, and the HTTP
// status it is served with.
package wderrors

import "fmt"

// Kind is the internal classification of a failure, independent of how it
// is serialized on the wire.
type Kind string

const (
	KindInvalidSessionID      Kind = "invalid_session_id"
	KindNoSuchElement         Kind = "no_such_element"
	KindNoSuchFrame           Kind = "no_such_frame"
	KindNoSuchWindow          Kind = "no_such_window"
	KindNoSuchShadowRoot      Kind = "no_such_shadow_root"
	KindNoSuchAlert           Kind = "no_such_alert"
	KindNoSuchCookie          Kind = "no_such_cookie"
	KindStaleElementReference Kind = "stale_element_reference"
	KindElementNotInteractable Kind = "element_not_interactable"
	KindElementClickIntercepted Kind = "element_click_intercepted"
	KindInvalidArgument       Kind = "invalid_argument"
	KindInvalidSelector       Kind = "invalid_selector"
	KindJavascriptError       Kind = "javascript_error"
	KindScriptTimeout         Kind = "script_timeout"
	KindTimeout               Kind = "timeout"
	KindUnexpectedAlertOpen   Kind = "unexpected_alert_open"
	KindUnknownCommand        Kind = "unknown_command"
	KindUnknownError          Kind = "unknown_error"
	KindSessionNotCreated     Kind = "session_not_created"
)

// wireInfo is the (W3C error code, HTTP status) pair a Kind maps to.
type wireInfo struct {
	code   string
	status int
}

var wireTable = map[Kind]wireInfo{
	KindInvalidSessionID:        {"invalid session id", 404},
	KindNoSuchElement:           {"no such element", 404},
	KindNoSuchFrame:             {"no such frame", 404},
	KindNoSuchWindow:            {"no such window", 404},
	KindNoSuchShadowRoot:        {"no such shadow root", 404},
	KindNoSuchAlert:             {"no such alert", 404},
	KindNoSuchCookie:            {"no such cookie", 404},
	KindStaleElementReference:   {"stale element reference", 404},
	KindElementNotInteractable:  {"element not interactable", 400},
	KindElementClickIntercepted: {"element click intercepted", 400},
	KindInvalidArgument:         {"invalid argument", 400},
	KindInvalidSelector:         {"invalid selector", 400},
	KindJavascriptError:         {"javascript error", 500},
	KindScriptTimeout:           {"script timeout", 500},
	KindTimeout:                 {"timeout", 500},
	KindUnexpectedAlertOpen:     {"unexpected alert open", 500},
	KindUnknownCommand:          {"unknown command", 404},
	KindUnknownError:            {"unknown error", 500},
	KindSessionNotCreated:       {"session not created", 500},
}

// WebDriverError is the sum type every handler in internal/server returns
// instead of a bare error, so internal/protocol can translate it uniformly.
type WebDriverError struct {
	Kind       Kind
	Message    string
	Stacktrace string
	Data       any
}

func (e *WebDriverError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Code returns the W3C wire error code for this error's Kind.
func (e *WebDriverError) Code() string {
	info, ok := wireTable[e.Kind]
	if !ok {
		return wireTable[KindUnknownError].code
	}
	return info.code
}

// HTTPStatus returns the HTTP status this error is served with.
func (e *WebDriverError) HTTPStatus() int {
	info, ok := wireTable[e.Kind]
	if !ok {
		return wireTable[KindUnknownError].status
	}
	return info.status
}

// New builds a WebDriverError of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *WebDriverError {
	return &WebDriverError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a WebDriverError that carries the original error's text in
// Message/Stacktrace without leaking it into the wire "error" code.
func Wrap(kind Kind, err error) *WebDriverError {
	return &WebDriverError{Kind: kind, Message: err.Error(), Stacktrace: err.Error()}
}

// Convenience constructors for the cases internal/server reaches for most often.

func InvalidSessionID(id string) *WebDriverError {
	return New(KindInvalidSessionID, "no active session with id %q", id)
}

func NoSuchElement(handle string) *WebDriverError {
	return New(KindNoSuchElement, "no element found for handle %q", handle)
}

func StaleElementReference(handle string) *WebDriverError {
	return New(KindStaleElementReference, "element handle %q is stale", handle)
}

func NoSuchAlert() *WebDriverError {
	return New(KindNoSuchAlert, "no user prompt is currently open")
}

func UnexpectedAlertOpen(message string) *WebDriverError {
	return New(KindUnexpectedAlertOpen, "a user prompt is open: %s", message)
}

func UnknownCommand(method, path string) *WebDriverError {
	return New(KindUnknownCommand, "no handler for %s %s", method, path)
}

func InvalidArgument(format string, args ...any) *WebDriverError {
	return New(KindInvalidArgument, format, args...)
}

func InvalidSelector(format string, args ...any) *WebDriverError {
	return New(KindInvalidSelector, format, args...)
}

func BackendUnavailable(err error) *WebDriverError {
	return Wrap(KindUnknownError, err)
}
