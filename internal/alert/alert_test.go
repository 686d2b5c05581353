package alert

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tauri-apps/wry-webdriver/internal/bridge"
	"github.com/tauri-apps/wry-webdriver/internal/wderrors"
)

func TestIdleCoordinatorRejectsCommands(t *testing.T) {
	c := New()
	assert.False(t, c.IsOpen())

	_, err := c.Text()
	requireKind(t, err, wderrors.KindNoSuchAlert)

	requireKind(t, c.Accept(), wderrors.KindNoSuchAlert)
	requireKind(t, c.Dismiss(), wderrors.KindNoSuchAlert)
	requireKind(t, c.SetText("x"), wderrors.KindNoSuchAlert)
}

func TestOnAlertThenAccept(t *testing.T) {
	c := New()
	var gotAccepted bool
	var gotText string

	c.OnAlert(bridge.AlertEvent{
		Kind:    bridge.AlertKindConfirm,
		Message: "are you sure?",
		Accept: func(accepted bool, text string) error {
			gotAccepted = accepted
			gotText = text
			return nil
		},
	})

	assert.True(t, c.IsOpen())
	msg, err := c.Text()
	require.NoError(t, err)
	assert.Equal(t, "are you sure?", msg)

	require.NoError(t, c.Accept())
	assert.True(t, gotAccepted)
	assert.Equal(t, "", gotText)
	assert.False(t, c.IsOpen())
}

func TestPromptSetTextThenAccept(t *testing.T) {
	c := New()
	var gotText string

	c.OnAlert(bridge.AlertEvent{
		Kind:    bridge.AlertKindPrompt,
		Message: "enter name",
		Accept: func(accepted bool, text string) error {
			gotText = text
			return nil
		},
	})

	require.NoError(t, c.SetText("ada"))
	require.NoError(t, c.Accept())
	assert.Equal(t, "ada", gotText)
}

func TestSetTextOnNonPromptFails(t *testing.T) {
	c := New()
	c.OnAlert(bridge.AlertEvent{Kind: bridge.AlertKindAlert, Accept: func(bool, string) error { return nil }})
	requireKind(t, c.SetText("x"), wderrors.KindElementNotInteractable)
}

func TestDismissPendingIsNoFailSafe(t *testing.T) {
	c := New()
	var gotAccepted bool
	c.OnAlert(bridge.AlertEvent{
		Kind: bridge.AlertKindAlert,
		Accept: func(accepted bool, text string) error {
			gotAccepted = accepted
			return nil
		},
	})

	c.DismissPending()
	assert.False(t, gotAccepted)
	assert.False(t, c.IsOpen())

	// calling it again when idle is a no-op
	c.DismissPending()
}

func TestResolveWrapsAcceptError(t *testing.T) {
	c := New()
	c.OnAlert(bridge.AlertEvent{
		Kind:   bridge.AlertKindAlert,
		Accept: func(bool, string) error { return errors.New("target gone") },
	})

	err := c.Accept()
	requireKind(t, err, wderrors.KindUnknownError)
}

func TestWaitClosesOnAlertOpen(t *testing.T) {
	c := New()
	ch := c.Wait()

	c.OnAlert(bridge.AlertEvent{Kind: bridge.AlertKindAlert, Accept: func(bool, string) error { return nil }})

	select {
	case <-ch:
	default:
		t.Fatal("expected Wait channel to be closed after OnAlert")
	}
}

func requireKind(t *testing.T, err error, want wderrors.Kind) {
	t.Helper()
	require.Error(t, err)
	var wde *wderrors.WebDriverError
	require.ErrorAs(t, err, &wde)
	assert.Equal(t, want, wde.Kind)
}
