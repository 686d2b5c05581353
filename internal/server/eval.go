package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/tauri-apps/wry-webdriver/internal/bridge"
	"github.com/tauri-apps/wry-webdriver/internal/protocol"
	"github.com/tauri-apps/wry-webdriver/internal/session"
	"github.com/tauri-apps/wry-webdriver/internal/wderrors"
)

// readJSON decodes the request body into dst, mapping malformed JSON to
// invalid_argument per spec.md §4.A's failure semantics.
func readJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return wderrors.InvalidArgument("failed to read request body: %s", err)
	}
	return protocol.DecodeBody(body, dst)
}

// runScript evaluates a builder-produced script against sess's backend and
// decodes the JSON result into dst. JS exceptions thrown by the injected
// library (see internal/scripts/js/*.js) are classified back into the
// matching WebDriverError kind by inspecting the thrown {name, message}
// shape that surfaces in the bridge error text.
func runScript(ctx context.Context, sess *session.Session, script string, dst any) error {
	raw, err := sess.Backend.EvaluateSync(ctx, script, nil)
	if err != nil {
		return classifyJSError(err)
	}
	if dst == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return wderrors.Wrap(wderrors.KindUnknownError, err)
	}
	return nil
}

// jsErrorKinds maps the injected scripts' thrown error names (see
// internal/scripts/js/*.js's `throw { name: ... }` sites) to wire kinds.
var jsErrorKinds = map[string]wderrors.Kind{
	"StaleElementReference": wderrors.KindStaleElementReference,
	"NoSuchShadowRoot":      wderrors.KindNoSuchShadowRoot,
	"NoSuchFrame":           wderrors.KindNoSuchFrame,
	"ElementClickIntercepted": wderrors.KindElementClickIntercepted,
	"ElementNotInteractable":  wderrors.KindElementNotInteractable,
	"InvalidArgument":         wderrors.KindInvalidArgument,
}

func classifyJSError(err error) *wderrors.WebDriverError {
	msg := err.Error()
	for name, kind := range jsErrorKinds {
		if strings.Contains(msg, name) {
			return wderrors.New(kind, "%s", msg)
		}
	}
	return wderrors.New(wderrors.KindJavascriptError, "%s", msg)
}

// classifyBridgeError maps a raw internal/bridge error (rather than a JS
// exception from the injected script library) to its wire kind: an
// unavailable host or an unsupported capability both surface as
// unknown error per spec.md §4.A/§9.
func classifyBridgeError(err error) *wderrors.WebDriverError {
	var wde *wderrors.WebDriverError
	if errors.As(err, &wde) {
		return wde
	}
	if errors.Is(err, bridge.ErrUnsupportedOperation) {
		return wderrors.New(wderrors.KindUnknownError, "unsupported operation: %s", err)
	}
	return wderrors.BackendUnavailable(err)
}
