package server

import (
	"net/http"

	"github.com/tauri-apps/wry-webdriver/internal/protocol"
)

func (s *Server) handleSetURL(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	var req urlRequest
	if err := readJSON(r, &req); err != nil {
		protocol.WriteError(w, err)
		return
	}
	if err := sess.Backend.Navigate(r.Context(), req.URL); err != nil {
		protocol.WriteError(w, classifyBridgeError(err))
		return
	}
	sess.Registry.BumpEpoch()
	protocol.WriteValue(w, nil)
}

func (s *Server) handleGetURL(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	url, err := sess.Backend.CurrentURL(r.Context())
	if err != nil {
		protocol.WriteError(w, classifyBridgeError(err))
		return
	}
	protocol.WriteValue(w, url)
}

func (s *Server) handleGetTitle(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	title, err := sess.Backend.Title(r.Context())
	if err != nil {
		protocol.WriteError(w, classifyBridgeError(err))
		return
	}
	protocol.WriteValue(w, title)
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	if err := sess.Backend.Back(r.Context()); err != nil {
		protocol.WriteError(w, classifyBridgeError(err))
		return
	}
	sess.Registry.BumpEpoch()
	protocol.WriteValue(w, nil)
}

func (s *Server) handleForward(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	if err := sess.Backend.Forward(r.Context()); err != nil {
		protocol.WriteError(w, classifyBridgeError(err))
		return
	}
	sess.Registry.BumpEpoch()
	protocol.WriteValue(w, nil)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	if err := sess.Backend.Refresh(r.Context()); err != nil {
		protocol.WriteError(w, classifyBridgeError(err))
		return
	}
	sess.Registry.BumpEpoch()
	protocol.WriteValue(w, nil)
}

func (s *Server) handleSource(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	html, err := sess.Backend.PageSource(r.Context())
	if err != nil {
		protocol.WriteError(w, classifyBridgeError(err))
		return
	}
	protocol.WriteValue(w, html)
}
