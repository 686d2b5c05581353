package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tauri-apps/wry-webdriver/internal/bridge"
	"github.com/tauri-apps/wry-webdriver/internal/session"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	srv := New(func() (bridge.Backend, error) {
		return bridge.NewMemoryBackend(), nil
	}, session.DefaultTimeouts(), false)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return srv, ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func createSession(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	status, out := doJSON(t, ts, http.MethodPost, "/session", map[string]any{
		"capabilities": map[string]any{"alwaysMatch": map[string]any{}},
	})
	require.Equal(t, http.StatusOK, status)
	value, ok := out["value"].(map[string]any)
	require.True(t, ok, "expected value object, got %#v", out["value"])
	id, ok := value["sessionId"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)
	return id
}

func TestStatusIsReady(t *testing.T) {
	_, ts := newTestServer(t)
	status, out := doJSON(t, ts, http.MethodGet, "/status", nil)
	require.Equal(t, http.StatusOK, status)
	value := out["value"].(map[string]any)
	require.Equal(t, true, value["ready"])
}

func TestSessionLifecycle(t *testing.T) {
	_, ts := newTestServer(t)
	id := createSession(t, ts)

	status, _ := doJSON(t, ts, http.MethodGet, "/session/"+id+"/timeouts", nil)
	require.Equal(t, http.StatusOK, status)

	status, out := doJSON(t, ts, http.MethodDelete, "/session/"+id, nil)
	require.Equal(t, http.StatusOK, status)
	require.Nil(t, out["value"])

	// Deleting again reports invalid_session_id.
	status, out = doJSON(t, ts, http.MethodDelete, "/session/"+id, nil)
	require.Equal(t, http.StatusNotFound, status)
	errBody := out["value"].(map[string]any)
	require.Equal(t, "invalid session id", errBody["error"])
}

func TestSetTimeoutsRejectsNegativeValues(t *testing.T) {
	_, ts := newTestServer(t)
	id := createSession(t, ts)

	status, out := doJSON(t, ts, http.MethodPost, "/session/"+id+"/timeouts", map[string]any{
		"implicit": -1,
	})
	require.Equal(t, http.StatusBadRequest, status)
	errBody := out["value"].(map[string]any)
	require.Equal(t, "invalid argument", errBody["error"])

	status, out = doJSON(t, ts, http.MethodPost, "/session/"+id+"/timeouts", map[string]any{
		"script": -5,
	})
	require.Equal(t, http.StatusBadRequest, status)
	errBody = out["value"].(map[string]any)
	require.Equal(t, "invalid argument", errBody["error"])
}

func TestSetTimeoutsScriptNullDisablesTimeout(t *testing.T) {
	srv, ts := newTestServer(t)
	id := createSession(t, ts)

	status, _ := doJSON(t, ts, http.MethodPost, "/session/"+id+"/timeouts", map[string]any{
		"script": nil,
	})
	require.Equal(t, http.StatusOK, status)

	sess, err := srv.sessions.Get(id)
	require.NoError(t, err)
	require.Nil(t, sess.Timeouts.Script)

	status, out := doJSON(t, ts, http.MethodGet, "/session/"+id+"/timeouts", nil)
	require.Equal(t, http.StatusOK, status)
	value := out["value"].(map[string]any)
	require.Nil(t, value["script"])
}

func TestSetTimeoutsScriptAbsentLeavesTimeoutUnchanged(t *testing.T) {
	srv, ts := newTestServer(t)
	id := createSession(t, ts)

	status, _ := doJSON(t, ts, http.MethodPost, "/session/"+id+"/timeouts", map[string]any{
		"implicit": 10,
	})
	require.Equal(t, http.StatusOK, status)

	sess, err := srv.sessions.Get(id)
	require.NoError(t, err)
	require.NotNil(t, sess.Timeouts.Script)
	require.Equal(t, 30000, *sess.Timeouts.Script)
}

func TestSecondSessionRejectedWithoutMultiplexing(t *testing.T) {
	_, ts := newTestServer(t)
	createSession(t, ts)

	status, out := doJSON(t, ts, http.MethodPost, "/session", map[string]any{
		"capabilities": map[string]any{"alwaysMatch": map[string]any{}},
	})
	require.Equal(t, http.StatusInternalServerError, status)
	errBody := out["value"].(map[string]any)
	require.Equal(t, "session not created", errBody["error"])
}

func TestNavigateAndGetURL(t *testing.T) {
	_, ts := newTestServer(t)
	id := createSession(t, ts)

	status, _ := doJSON(t, ts, http.MethodPost, "/session/"+id+"/url", map[string]any{
		"url": "https://example.test/",
	})
	require.Equal(t, http.StatusOK, status)

	status, out := doJSON(t, ts, http.MethodGet, "/session/"+id+"/url", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "https://example.test/", out["value"])
}

func TestAlertEndpointsWorkWhileOthersAreBlocked(t *testing.T) {
	srv, ts := newTestServer(t)
	id := createSession(t, ts)

	sess, err := srv.sessions.Get(id)
	require.NoError(t, err)
	sess.Alerts.OnAlert(bridge.AlertEvent{
		Kind:    bridge.AlertKindAlert,
		Message: "hi",
		Accept:  func(accepted bool, text string) error { return nil },
	})

	status, out := doJSON(t, ts, http.MethodGet, "/session/"+id+"/title", nil)
	require.Equal(t, http.StatusInternalServerError, status)
	errBody := out["value"].(map[string]any)
	require.Equal(t, "unexpected alert open", errBody["error"])

	status, out = doJSON(t, ts, http.MethodGet, "/session/"+id+"/alert/text", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "hi", out["value"])

	status, _ = doJSON(t, ts, http.MethodPost, "/session/"+id+"/alert/dismiss", nil)
	require.Equal(t, http.StatusOK, status)
}

func TestUnhandledPromptBehaviorDismissSilentlyClearsAlert(t *testing.T) {
	srv, ts := newTestServer(t)
	status, out := doJSON(t, ts, http.MethodPost, "/session", map[string]any{
		"capabilities": map[string]any{
			"alwaysMatch": map[string]any{"unhandledPromptBehavior": "dismiss"},
		},
	})
	require.Equal(t, http.StatusOK, status)
	id := out["value"].(map[string]any)["sessionId"].(string)

	sess, err := srv.sessions.Get(id)
	require.NoError(t, err)

	dismissed := false
	sess.Alerts.OnAlert(bridge.AlertEvent{
		Kind:    bridge.AlertKindAlert,
		Message: "hi",
		Accept:  func(accepted bool, text string) error { dismissed = !accepted; return nil },
	})

	status, _ = doJSON(t, ts, http.MethodGet, "/session/"+id+"/title", nil)
	require.Equal(t, http.StatusOK, status)
	require.True(t, dismissed)
	require.False(t, sess.Alerts.IsOpen())
}

func TestUnhandledPromptBehaviorDismissAndNotify(t *testing.T) {
	srv, ts := newTestServer(t)
	status, out := doJSON(t, ts, http.MethodPost, "/session", map[string]any{
		"capabilities": map[string]any{
			"alwaysMatch": map[string]any{"unhandledPromptBehavior": "dismiss and notify"},
		},
	})
	require.Equal(t, http.StatusOK, status)
	id := out["value"].(map[string]any)["sessionId"].(string)

	sess, err := srv.sessions.Get(id)
	require.NoError(t, err)

	dismissed := false
	sess.Alerts.OnAlert(bridge.AlertEvent{
		Kind:    bridge.AlertKindConfirm,
		Message: "confirm?",
		Accept:  func(accepted bool, text string) error { dismissed = !accepted; return nil },
	})

	status, out = doJSON(t, ts, http.MethodGet, "/session/"+id+"/title", nil)
	require.Equal(t, http.StatusInternalServerError, status)
	errBody := out["value"].(map[string]any)
	require.Equal(t, "unexpected alert open", errBody["error"])
	require.True(t, dismissed)
	require.False(t, sess.Alerts.IsOpen())
}

func TestUnhandledPromptBehaviorAcceptClearsAlertWithoutError(t *testing.T) {
	srv, ts := newTestServer(t)
	status, out := doJSON(t, ts, http.MethodPost, "/session", map[string]any{
		"capabilities": map[string]any{
			"alwaysMatch": map[string]any{"unhandledPromptBehavior": "accept"},
		},
	})
	require.Equal(t, http.StatusOK, status)
	id := out["value"].(map[string]any)["sessionId"].(string)

	sess, err := srv.sessions.Get(id)
	require.NoError(t, err)

	accepted := false
	sess.Alerts.OnAlert(bridge.AlertEvent{
		Kind:    bridge.AlertKindAlert,
		Message: "hi",
		Accept:  func(ok bool, text string) error { accepted = ok; return nil },
	})

	status, _ = doJSON(t, ts, http.MethodGet, "/session/"+id+"/title", nil)
	require.Equal(t, http.StatusOK, status)
	require.True(t, accepted)
	require.False(t, sess.Alerts.IsOpen())
}

func TestElementScreenshotRejectsUnknownHandle(t *testing.T) {
	_, ts := newTestServer(t)
	id := createSession(t, ts)

	status, out := doJSON(t, ts, http.MethodGet, "/session/"+id+"/element/does-not-exist/screenshot", nil)
	require.Equal(t, http.StatusNotFound, status)
	errBody := out["value"].(map[string]any)
	require.Equal(t, "no such element", errBody["error"])
}

func TestCookieRoundTrip(t *testing.T) {
	_, ts := newTestServer(t)
	id := createSession(t, ts)

	status, _ := doJSON(t, ts, http.MethodPost, "/session/"+id+"/cookie", map[string]any{
		"cookie": map[string]any{"name": "a", "value": "1"},
	})
	require.Equal(t, http.StatusOK, status)

	status, out := doJSON(t, ts, http.MethodGet, "/session/"+id+"/cookie/a", nil)
	require.Equal(t, http.StatusOK, status)
	cookie := out["value"].(map[string]any)
	require.Equal(t, "a", cookie["name"])
	require.Equal(t, "1", cookie["value"])

	status, out = doJSON(t, ts, http.MethodGet, "/session/"+id+"/cookie/missing", nil)
	require.Equal(t, http.StatusNotFound, status)
	errBody := out["value"].(map[string]any)
	require.Equal(t, "no such cookie", errBody["error"])
}

func TestPerformActionsDispatchesPointerSequence(t *testing.T) {
	srv, ts := newTestServer(t)
	id := createSession(t, ts)

	status, _ := doJSON(t, ts, http.MethodPost, "/session/"+id+"/actions", map[string]any{
		"actions": []map[string]any{
			{
				"type": "pointer",
				"id":   "mouse",
				"actions": []map[string]any{
					{"type": "pointerMove", "x": 5, "y": 6},
					{"type": "pointerDown", "button": 0},
					{"type": "pointerUp", "button": 0},
				},
			},
		},
	})
	require.Equal(t, http.StatusOK, status)

	sess, err := srv.sessions.Get(id)
	require.NoError(t, err)
	state := sess.Pointer("mouse")
	require.Equal(t, 5.0, state.X)
	require.Equal(t, 6.0, state.Y)

	status, _ = doJSON(t, ts, http.MethodDelete, "/session/"+id+"/actions", nil)
	require.Equal(t, http.StatusOK, status)
}

func TestScreenshotReturnsBase64(t *testing.T) {
	_, ts := newTestServer(t)
	id := createSession(t, ts)

	status, out := doJSON(t, ts, http.MethodGet, "/session/"+id+"/screenshot", nil)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, out["value"])
}
