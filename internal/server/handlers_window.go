package server

import (
	"net/http"

	"github.com/tauri-apps/wry-webdriver/internal/protocol"
)

func (s *Server) handleWindowHandle(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	handle, err := sess.Backend.WindowHandle(r.Context())
	if err != nil {
		protocol.WriteError(w, classifyBridgeError(err))
		return
	}
	protocol.WriteValue(w, handle)
}

func (s *Server) handleWindowHandles(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	handles, err := sess.Backend.WindowHandles(r.Context())
	if err != nil {
		protocol.WriteError(w, classifyBridgeError(err))
		return
	}
	protocol.WriteValue(w, handles)
}

// handleSwitchWindow implements POST .../window (spec.md §3 invariant iv):
// switching the top-level browsing context invalidates every element and
// frame handle minted under the previous one.
func (s *Server) handleSwitchWindow(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	var req switchWindowRequest
	if err := readJSON(r, &req); err != nil {
		protocol.WriteError(w, err)
		return
	}
	if err := sess.Backend.SwitchToWindow(r.Context(), req.Handle); err != nil {
		protocol.WriteError(w, classifyBridgeError(err))
		return
	}
	sess.Registry.BumpEpoch()
	protocol.WriteValue(w, nil)
}

func (s *Server) handleNewWindow(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	var req newWindowRequest
	if err := readJSON(r, &req); err != nil {
		protocol.WriteError(w, err)
		return
	}
	asTab := req.Type != "window"
	handle, err := sess.Backend.NewWindow(r.Context(), asTab)
	if err != nil {
		protocol.WriteError(w, classifyBridgeError(err))
		return
	}
	respType := "window"
	if asTab {
		respType = "tab"
	}
	protocol.WriteValue(w, map[string]string{"handle": handle, "type": respType})
}

func (s *Server) handleCloseWindow(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	if err := sess.Backend.CloseWindow(r.Context()); err != nil {
		protocol.WriteError(w, classifyBridgeError(err))
		return
	}
	handles, err := sess.Backend.WindowHandles(r.Context())
	if err != nil {
		protocol.WriteError(w, classifyBridgeError(err))
		return
	}
	protocol.WriteValue(w, handles)
}

func (s *Server) handleGetWindowRect(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	rect, err := sess.Backend.WindowRect(r.Context())
	if err != nil {
		protocol.WriteError(w, classifyBridgeError(err))
		return
	}
	protocol.WriteValue(w, rect)
}

func (s *Server) handleSetWindowRect(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	var req windowRectRequest
	if err := readJSON(r, &req); err != nil {
		protocol.WriteError(w, err)
		return
	}
	current, err := sess.Backend.WindowRect(r.Context())
	if err != nil {
		protocol.WriteError(w, classifyBridgeError(err))
		return
	}
	if req.X != nil {
		current.X = *req.X
	}
	if req.Y != nil {
		current.Y = *req.Y
	}
	if req.Width != nil {
		current.Width = *req.Width
	}
	if req.Height != nil {
		current.Height = *req.Height
	}
	updated, err := sess.Backend.SetWindowRect(r.Context(), current)
	if err != nil {
		protocol.WriteError(w, classifyBridgeError(err))
		return
	}
	protocol.WriteValue(w, updated)
}

func (s *Server) handleMaximizeWindow(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	rect, err := sess.Backend.MaximizeWindow(r.Context())
	if err != nil {
		protocol.WriteError(w, classifyBridgeError(err))
		return
	}
	protocol.WriteValue(w, rect)
}

func (s *Server) handleMinimizeWindow(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	rect, err := sess.Backend.MinimizeWindow(r.Context())
	if err != nil {
		protocol.WriteError(w, classifyBridgeError(err))
		return
	}
	protocol.WriteValue(w, rect)
}

func (s *Server) handleFullscreenWindow(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	rect, err := sess.Backend.FullscreenWindow(r.Context())
	if err != nil {
		protocol.WriteError(w, classifyBridgeError(err))
		return
	}
	protocol.WriteValue(w, rect)
}
