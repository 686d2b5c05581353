package server

import (
	"net/http"

	"github.com/tauri-apps/wry-webdriver/internal/bridge"
	"github.com/tauri-apps/wry-webdriver/internal/cookies"
	"github.com/tauri-apps/wry-webdriver/internal/protocol"
	"github.com/tauri-apps/wry-webdriver/internal/wderrors"

	"github.com/go-chi/chi/v5"
)

func cookieWireFrom(c bridge.Cookie) cookieWire {
	out := cookieWire{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Domain:   c.Domain,
		Secure:   c.Secure,
		HTTPOnly: c.HTTPOnly,
		Expiry:   c.Expiry,
	}
	if c.SameSite != nil {
		s := string(*c.SameSite)
		out.SameSite = &s
	}
	return out
}

func cookieFromWire(c cookieWire) bridge.Cookie {
	out := bridge.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Domain:   c.Domain,
		Secure:   c.Secure,
		HTTPOnly: c.HTTPOnly,
		Expiry:   c.Expiry,
	}
	if c.Path == "" {
		out.Path = "/"
	}
	if c.SameSite != nil {
		ss := bridge.SameSite(*c.SameSite)
		out.SameSite = &ss
	}
	return out
}

func (s *Server) handleGetAllCookies(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	all, err := sess.Backend.GetCookies(r.Context(), "")
	if err != nil {
		protocol.WriteError(w, classifyBridgeError(err))
		return
	}
	merged := sess.Cookies.Merge(all)
	out := make([]cookieWire, 0, len(merged))
	for _, c := range merged {
		out = append(out, cookieWireFrom(c))
	}
	protocol.WriteValue(w, out)
}

func (s *Server) handleGetNamedCookie(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	name := chi.URLParam(r, "name")
	all, err := sess.Backend.GetCookies(r.Context(), "")
	if err != nil {
		protocol.WriteError(w, classifyBridgeError(err))
		return
	}
	merged := sess.Cookies.Merge(all)
	found, ok := cookies.FindByName(merged, name)
	if !ok {
		protocol.WriteError(w, wderrors.New(wderrors.KindNoSuchCookie, "no cookie named %q", name))
		return
	}
	protocol.WriteValue(w, cookieWireFrom(found))
}

func (s *Server) handleAddCookie(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	var req cookieRequest
	if err := readJSON(r, &req); err != nil {
		protocol.WriteError(w, err)
		return
	}
	if req.Cookie.Name == "" {
		protocol.WriteError(w, wderrors.InvalidArgument("cookie name is required"))
		return
	}
	ck := cookieFromWire(req.Cookie)
	if ck.Domain == "" {
		url, err := sess.Backend.CurrentURL(r.Context())
		if err != nil {
			protocol.WriteError(w, classifyBridgeError(err))
			return
		}
		if err := sess.Backend.SetCookie(r.Context(), url, ck); err != nil {
			protocol.WriteError(w, classifyBridgeError(err))
			return
		}
	} else if err := sess.Backend.SetCookie(r.Context(), "", ck); err != nil {
		protocol.WriteError(w, classifyBridgeError(err))
		return
	}
	sess.Cookies.Remember(ck)
	protocol.WriteValue(w, nil)
}

func (s *Server) handleDeleteCookie(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	name := chi.URLParam(r, "name")
	url, err := sess.Backend.CurrentURL(r.Context())
	if err != nil {
		protocol.WriteError(w, classifyBridgeError(err))
		return
	}
	if err := sess.Backend.DeleteCookie(r.Context(), url, name); err != nil {
		protocol.WriteError(w, classifyBridgeError(err))
		return
	}
	sess.Cookies.Forget("", "/", name)
	protocol.WriteValue(w, nil)
}

func (s *Server) handleDeleteAllCookies(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	url, err := sess.Backend.CurrentURL(r.Context())
	if err != nil {
		protocol.WriteError(w, classifyBridgeError(err))
		return
	}
	if err := sess.Backend.DeleteAllCookies(r.Context(), url); err != nil {
		protocol.WriteError(w, classifyBridgeError(err))
		return
	}
	sess.Cookies.Clear()
	protocol.WriteValue(w, nil)
}
