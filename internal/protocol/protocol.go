// Package protocol implements the Protocol Envelope (spec.md §4.F): the
// {"value": ...} success shape, the {"value": {"error", "message",
// "stacktrace", "data"}} error shape, the HTTP status mapping of spec.md §7,
// and wrap/unwrap of the W3C element/shadow magic keys. internal/server
// reuses internal/wderrors for the error taxonomy and never writes a raw
// http.ResponseWriter error response itself.
package protocol

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tauri-apps/wry-webdriver/internal/wderrors"
)

// ElementKey and ShadowKey are the W3C magic property names a reference
// object is tagged with on the wire (spec.md §4.F).
const (
	ElementKey = "element-6066-11e4-a52e-4f735466cecf"
	ShadowKey  = "shadow-6066-11e4-a52e-4f735466cecf"
)

// WrapElement returns the wire object for an element reference.
func WrapElement(handle string) map[string]string {
	return map[string]string{ElementKey: handle}
}

// WrapShadow returns the wire object for a shadow root reference.
func WrapShadow(handle string) map[string]string {
	return map[string]string{ShadowKey: handle}
}

// UnwrapElement extracts a handle from a decoded element reference object,
// or reports false if obj doesn't carry the magic key.
func UnwrapElement(obj map[string]any) (string, bool) {
	v, ok := obj[ElementKey]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// UnwrapShadow extracts a handle from a decoded shadow root reference object.
func UnwrapShadow(obj map[string]any) (string, bool) {
	v, ok := obj[ShadowKey]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// successEnvelope is the {"value": ...} wire shape for a successful command.
type successEnvelope struct {
	Value any `json:"value"`
}

// errorBody is nested under "value" in an error response, per the W3C spec.
type errorBody struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	Stacktrace string `json:"stacktrace,omitempty"`
	Data       any    `json:"data,omitempty"`
}

type errorEnvelope struct {
	Value errorBody `json:"value"`
}

// WriteValue writes a successful {"value": value} response with HTTP 200.
func WriteValue(w http.ResponseWriter, value any) {
	writeJSON(w, http.StatusOK, successEnvelope{Value: value})
}

// WriteError writes the error envelope for err, using its WebDriverError
// classification if present and falling back to "unknown error" / 500
// otherwise (e.g. for a bare context-cancellation error that never went
// through wderrors).
func WriteError(w http.ResponseWriter, err error) {
	var wde *wderrors.WebDriverError
	if !errors.As(err, &wde) {
		wde = wderrors.Wrap(wderrors.KindUnknownError, err)
	}

	writeJSON(w, wde.HTTPStatus(), errorEnvelope{
		Value: errorBody{
			Error:      wde.Code(),
			Message:    wde.Message,
			Stacktrace: wde.Stacktrace,
			Data:       wde.Data,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// DecodeBody parses an HTTP request body into dst, returning invalid_argument
// on malformed JSON (spec.md §4.A's failure semantics: "Bad JSON ->
// invalid argument").
func DecodeBody(body []byte, dst any) error {
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return wderrors.InvalidArgument("malformed request body: %s", err)
	}
	return nil
}
