package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tauri-apps/wry-webdriver/internal/protocol"
	"github.com/tauri-apps/wry-webdriver/internal/session"
)

func marshalArgs(args []argumentValue) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(args))
	for _, a := range args {
		b, err := json.Marshal(a)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// handleExecuteScript implements POST .../execute/sync.
func (s *Server) handleExecuteScript(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	var req scriptRequest
	if err := readJSON(r, &req); err != nil {
		protocol.WriteError(w, err)
		return
	}
	args, err := marshalArgs(req.Args)
	if err != nil {
		protocol.WriteError(w, err)
		return
	}

	raw, err := sess.Backend.EvaluateSync(r.Context(), req.Script, args)
	if err != nil {
		protocol.WriteError(w, classifyJSError(err))
		return
	}
	var value any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &value); err != nil {
			protocol.WriteError(w, classifyBridgeError(err))
			return
		}
	}
	protocol.WriteValue(w, value)
}

// scriptTimeout resolves the session's current script timeout. A nil
// Timeouts.Script means the client explicitly set "script": null, which
// disables the timeout entirely (spec.md §3 invariant iv) — reported here
// as 0, the asyncscript.Coordinator's "no timeout" sentinel.
func scriptTimeout(sess *session.Session) time.Duration {
	if sess.Timeouts.Script == nil {
		return 0
	}
	return time.Duration(*sess.Timeouts.Script) * time.Millisecond
}

// handleExecuteAsyncScript implements POST .../execute/async (spec.md
// §4.I): the script is expected to invoke the completion callback appended
// as its final argument; the Async Coordinator races that completion
// against the session's script timeout.
func (s *Server) handleExecuteAsyncScript(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	var req scriptRequest
	if err := readJSON(r, &req); err != nil {
		protocol.WriteError(w, err)
		return
	}
	args, err := marshalArgs(req.Args)
	if err != nil {
		protocol.WriteError(w, err)
		return
	}

	asyncID, wait := sess.Async.Register(r.Context(), scriptTimeout(sess))
	if err := sess.Backend.EvaluateAsync(r.Context(), req.Script, args, asyncID); err != nil {
		protocol.WriteError(w, classifyJSError(err))
		return
	}

	result := wait()
	if result.Err != nil {
		protocol.WriteError(w, result.Err)
		return
	}
	var value any
	if len(result.Value) > 0 {
		if err := json.Unmarshal(result.Value, &value); err != nil {
			protocol.WriteError(w, classifyBridgeError(err))
			return
		}
	}
	protocol.WriteValue(w, value)
}
