package wderrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWireMapping(t *testing.T) {
	cases := []struct {
		kind       Kind
		code       string
		httpStatus int
	}{
		{KindInvalidSessionID, "invalid session id", 404},
		{KindStaleElementReference, "stale element reference", 404},
		{KindScriptTimeout, "script timeout", 500},
		{KindUnexpectedAlertOpen, "unexpected alert open", 500},
		{KindUnknownCommand, "unknown command", 404},
		{KindNoSuchCookie, "no such cookie", 404},
	}
	for _, c := range cases {
		e := New(c.kind, "boom")
		assert.Equal(t, c.code, e.Code())
		assert.Equal(t, c.httpStatus, e.HTTPStatus())
	}
}

func TestUnknownKindFallsBackToUnknownError(t *testing.T) {
	e := &WebDriverError{Kind: Kind("made-up")}
	assert.Equal(t, "unknown error", e.Code())
	assert.Equal(t, 500, e.HTTPStatus())
}

func TestWrapPreservesOriginalMessage(t *testing.T) {
	orig := errors.New("backend exploded")
	e := Wrap(KindUnknownError, orig)
	assert.Contains(t, e.Message, "backend exploded")
	assert.Contains(t, e.Stacktrace, "backend exploded")
}

func TestInvalidSessionIDHelper(t *testing.T) {
	e := InvalidSessionID("abc-123")
	assert.Equal(t, KindInvalidSessionID, e.Kind)
	assert.Contains(t, e.Message, "abc-123")
}
