package server

import (
	"net/http"

	"github.com/tauri-apps/wry-webdriver/internal/protocol"
)

func (s *Server) handleDismissAlert(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	if err := sess.Alerts.Dismiss(); err != nil {
		protocol.WriteError(w, err)
		return
	}
	protocol.WriteValue(w, nil)
}

func (s *Server) handleAcceptAlert(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	if err := sess.Alerts.Accept(); err != nil {
		protocol.WriteError(w, err)
		return
	}
	protocol.WriteValue(w, nil)
}

func (s *Server) handleGetAlertText(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	text, err := sess.Alerts.Text()
	if err != nil {
		protocol.WriteError(w, err)
		return
	}
	protocol.WriteValue(w, text)
}

func (s *Server) handleSetAlertText(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	var req alertTextRequest
	if err := readJSON(r, &req); err != nil {
		protocol.WriteError(w, err)
		return
	}
	if err := sess.Alerts.SetText(req.Text); err != nil {
		protocol.WriteError(w, err)
		return
	}
	protocol.WriteValue(w, nil)
}
