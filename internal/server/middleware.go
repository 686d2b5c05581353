package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tauri-apps/wry-webdriver/internal/protocol"
	"github.com/tauri-apps/wry-webdriver/internal/session"
	"github.com/tauri-apps/wry-webdriver/internal/wderrors"
)

type ctxKey string

const sessionCtxKey ctxKey = "wry-session"

// withSession resolves {session} into a *session.Session and guards every
// subsequent command with the unexpected-alert-open precondition (spec.md
// §4.E): when a user prompt is open, the session's unhandledPromptBehavior
// capability decides what happens to every command other than the alert
// endpoints themselves.
func (s *Server) withSession(allowWhileAlertOpen bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "session")
			sess, err := s.sessions.Get(id)
			if err != nil {
				protocol.WriteError(w, err)
				return
			}

			if !allowWhileAlertOpen && sess.Alerts.IsOpen() {
				if !applyUnhandledPromptBehavior(sess, w) {
					return
				}
			}

			ctx := context.WithValue(r.Context(), sessionCtxKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// applyUnhandledPromptBehavior resolves a pending alert per the session's
// unhandledPromptBehavior capability (spec.md §4.E), defaulting to "ignore"
// when the capability is absent or unrecognized. It returns false once it
// has written an unexpected_alert_open response, meaning the caller must
// not invoke the wrapped handler.
func applyUnhandledPromptBehavior(sess *session.Session, w http.ResponseWriter) bool {
	msg, _ := sess.Alerts.Text()
	behavior, _ := sess.Capabilities["unhandledPromptBehavior"].(string)

	switch behavior {
	case "accept":
		_ = sess.Alerts.Accept()
		return true
	case "dismiss":
		_ = sess.Alerts.Dismiss()
		return true
	case "accept and notify":
		_ = sess.Alerts.Accept()
		protocol.WriteError(w, wderrors.UnexpectedAlertOpen(msg))
		return false
	case "dismiss and notify":
		_ = sess.Alerts.Dismiss()
		protocol.WriteError(w, wderrors.UnexpectedAlertOpen(msg))
		return false
	default: // "ignore", or unset
		protocol.WriteError(w, wderrors.UnexpectedAlertOpen(msg))
		return false
	}
}

func sessionFromRequest(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(sessionCtxKey).(*session.Session)
	return sess
}
