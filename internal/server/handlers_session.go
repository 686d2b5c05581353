package server

import (
	"net/http"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/tauri-apps/wry-webdriver/internal/protocol"
	"github.com/tauri-apps/wry-webdriver/internal/session"
	"github.com/tauri-apps/wry-webdriver/internal/wderrors"
)

// newSessionResponse is the POST /session success body. sessionId is typed
// as openapi_types.UUID (the same wire-id type the teacher's generated oapi
// structs use for process ids) rather than a bare string, since every id
// session.Manager.Create mints is in fact a google/uuid.NewString() value;
// it still marshals to the identical JSON string the W3C wire format wants.
type newSessionResponse struct {
	SessionID    openapi_types.UUID `json:"sessionId"`
	Capabilities map[string]any     `json:"capabilities"`
}

// handleStatus implements GET /status: a minimal readiness probe, always
// "ready" since this module manages exactly one backend process lifecycle
// at a time per session.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	protocol.WriteValue(w, map[string]any{
		"ready":   true,
		"message": "wry-webdriver is ready",
	})
}

// handleNewSession implements POST /session (spec.md §4.D). Capabilities
// are matched permissively: whatever the client sends in alwaysMatch (and
// the first firstMatch entry, per the W3C body shape) is echoed back
// unchanged.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionRequest
	if err := readJSON(r, &req); err != nil {
		protocol.WriteError(w, err)
		return
	}

	sess, err := s.sessions.Create(req.merged())
	if err != nil {
		protocol.WriteError(w, err)
		return
	}

	sess.Backend.InstallAlertHandler(sess.Alerts.OnAlert)

	sessionID, err := uuid.Parse(sess.ID)
	if err != nil {
		protocol.WriteError(w, wderrors.Wrap(wderrors.KindUnknownError, err))
		return
	}
	protocol.WriteValue(w, newSessionResponse{
		SessionID:    openapi_types.UUID(sessionID),
		Capabilities: sess.Capabilities,
	})
}

// handleDeleteSession implements DELETE /session/{session}.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	if err := s.sessions.Delete(sess.ID); err != nil {
		protocol.WriteError(w, err)
		return
	}
	protocol.WriteValue(w, nil)
}

// handleGetTimeouts implements the supplemented GET /session/{session}/timeouts.
func (s *Server) handleGetTimeouts(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	protocol.WriteValue(w, timeoutsResponse(sess))
}

// handleSetTimeouts implements POST /session/{session}/timeouts.
func (s *Server) handleSetTimeouts(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	var req timeoutsRequest
	if err := readJSON(r, &req); err != nil {
		protocol.WriteError(w, err)
		return
	}

	if req.Implicit != nil {
		if *req.Implicit < 0 {
			protocol.WriteError(w, wderrors.InvalidArgument("timeouts.implicit must be non-negative, got %d", *req.Implicit))
			return
		}
		sess.Timeouts.Implicit = *req.Implicit
	}
	if req.PageLoad != nil {
		if *req.PageLoad < 0 {
			protocol.WriteError(w, wderrors.InvalidArgument("timeouts.pageLoad must be non-negative, got %d", *req.PageLoad))
			return
		}
		sess.Timeouts.PageLoad = *req.PageLoad
	}
	if req.Script.present {
		switch {
		case req.Script.isNull:
			sess.Timeouts.Script = nil
		case req.Script.value < 0:
			protocol.WriteError(w, wderrors.InvalidArgument("timeouts.script must be non-negative, got %d", req.Script.value))
			return
		default:
			value := req.Script.value
			sess.Timeouts.Script = &value
		}
	}

	protocol.WriteValue(w, nil)
}

func timeoutsResponse(sess *session.Session) map[string]any {
	out := map[string]any{"implicit": sess.Timeouts.Implicit, "pageLoad": sess.Timeouts.PageLoad}
	if sess.Timeouts.Script != nil {
		out["script"] = *sess.Timeouts.Script
	} else {
		out["script"] = nil
	}
	return out
}
