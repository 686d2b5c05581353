package server

import (
	"net/http"

	"github.com/tauri-apps/wry-webdriver/internal/protocol"
	"github.com/tauri-apps/wry-webdriver/internal/registry"
	"github.com/tauri-apps/wry-webdriver/internal/scripts"
	"github.com/tauri-apps/wry-webdriver/internal/wderrors"
)

// handleSwitchFrame implements POST .../frame (spec.md §3 invariant iv):
// switching frames resets every element handle minted in the previous
// browsing context, since those nodes are no longer reachable from the new
// one.
func (s *Server) handleSwitchFrame(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	var req switchFrameRequest
	if err := readJSON(r, &req); err != nil {
		protocol.WriteError(w, err)
		return
	}

	switch id := req.ID.(type) {
	case nil:
		// top-level frame: nothing to resolve, just reset handles.
	case float64:
		var ok bool
		if err := runScript(r.Context(), sess, scripts.BuildFrameByIndexScript(int(id)), &ok); err != nil {
			protocol.WriteError(w, err)
			return
		}
	case map[string]any:
		handle, isElement := protocol.UnwrapElement(id)
		if !isElement {
			protocol.WriteError(w, wderrors.InvalidArgument("frame id must be an index, element reference, or null"))
			return
		}
		if err := sess.Registry.Resolve(registry.KindElement, handle); err != nil {
			protocol.WriteError(w, err)
			return
		}
		var ok bool
		if err := runScript(r.Context(), sess, scripts.BuildFrameByElementScript(handle), &ok); err != nil {
			protocol.WriteError(w, err)
			return
		}
	default:
		protocol.WriteError(w, wderrors.InvalidArgument("frame id must be an index, element reference, or null"))
		return
	}

	sess.Registry.BumpEpoch()
	protocol.WriteValue(w, nil)
}

// handleSwitchParentFrame implements POST .../frame/parent. Since frame
// navigation here is JS-side (window.frames), returning to the parent is
// equivalent to resetting handles and letting subsequent locates run against
// the top-level document again.
func (s *Server) handleSwitchParentFrame(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	sess.Registry.BumpEpoch()
	protocol.WriteValue(w, nil)
}
