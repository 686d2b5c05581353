package server

import (
	"context"
	"net/http"
	"time"

	"github.com/tauri-apps/wry-webdriver/internal/protocol"
	"github.com/tauri-apps/wry-webdriver/internal/scripts"
	"github.com/tauri-apps/wry-webdriver/internal/session"
)

// handlePerformActions implements POST .../actions: the W3C actions chain
// dispatch (spec.md's supplemented input-state bookkeeping). Sequences run
// one at a time and in tick order, rather than fully interleaving ticks
// across input sources the way a strict dispatcher would — documented in
// DESIGN.md as a scope simplification, since nothing in this module's
// single-threaded JS execution model benefits from the interleaving.
func (s *Server) handlePerformActions(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	var req actionsRequest
	if err := readJSON(r, &req); err != nil {
		protocol.WriteError(w, err)
		return
	}

	for _, seq := range req.Actions {
		if err := s.runSequence(r.Context(), sess, seq); err != nil {
			protocol.WriteError(w, err)
			return
		}
	}
	protocol.WriteValue(w, nil)
}

func (s *Server) runSequence(ctx context.Context, sess *session.Session, seq actionSequence) error {
	switch seq.Type {
	case "pointer":
		return s.runPointerSequence(ctx, sess, seq)
	case "key":
		return s.runKeySequence(ctx, sess, seq)
	default:
		// "none" and "wheel" sequences only carry pauses in practice here.
		for _, item := range seq.Actions {
			if item.Type == "pause" {
				pause(item.Duration)
			}
		}
		return nil
	}
}

func (s *Server) runPointerSequence(ctx context.Context, sess *session.Session, seq actionSequence) error {
	state := sess.Pointer(seq.ID)
	for _, item := range seq.Actions {
		switch item.Type {
		case "pause":
			pause(item.Duration)
		case "pointerMove":
			state.X, state.Y = item.X, item.Y
			if err := runScript(ctx, sess, scripts.BuildPointerEventScript("mousemove", state.X, state.Y, item.Button), nil); err != nil {
				return err
			}
		case "pointerDown":
			state.Pressed[item.Button] = true
			if err := runScript(ctx, sess, scripts.BuildPointerEventScript("mousedown", state.X, state.Y, item.Button), nil); err != nil {
				return err
			}
		case "pointerUp":
			delete(state.Pressed, item.Button)
			if err := runScript(ctx, sess, scripts.BuildPointerEventScript("mouseup", state.X, state.Y, item.Button), nil); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Server) runKeySequence(ctx context.Context, sess *session.Session, seq actionSequence) error {
	for _, item := range seq.Actions {
		switch item.Type {
		case "pause":
			pause(item.Duration)
		case "keyDown":
			if err := runScript(ctx, sess, scripts.BuildActiveKeyScript(item.Value, "keydown"), nil); err != nil {
				return err
			}
		case "keyUp":
			if err := runScript(ctx, sess, scripts.BuildActiveKeyScript(item.Value, "keyup"), nil); err != nil {
				return err
			}
		}
	}
	return nil
}

func pause(ms int) {
	if ms <= 0 {
		return
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// handleReleaseActions implements DELETE .../actions: resets the session's
// modifier-key state only. Pointer sources keep their position and pressed
// buttons, and no inverse (key-up or pointer-up) events are dispatched.
func (s *Server) handleReleaseActions(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	sess.SetKeys(session.KeyState{})
	protocol.WriteValue(w, nil)
}
