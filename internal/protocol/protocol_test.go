package protocol

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tauri-apps/wry-webdriver/internal/wderrors"
)

func TestWriteValueEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteValue(rec, WrapElement("h-1"))

	assert.Equal(t, 200, rec.Code)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	value := decoded["value"].(map[string]any)
	assert.Equal(t, "h-1", value[ElementKey])
}

func TestWriteErrorUsesWireMapping(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, wderrors.New(wderrors.KindNoSuchElement, "gone"))

	assert.Equal(t, 404, rec.Code)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	value := decoded["value"].(map[string]any)
	assert.Equal(t, "no such element", value["error"])
	assert.Equal(t, "gone", value["message"])
}

func TestWriteErrorFallsBackForBareError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("boom"))

	assert.Equal(t, 500, rec.Code)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	value := decoded["value"].(map[string]any)
	assert.Equal(t, "unknown error", value["error"])
}

func TestUnwrapElementRoundTrip(t *testing.T) {
	wrapped := WrapElement("h-9")
	asAny := map[string]any{ElementKey: wrapped[ElementKey]}
	handle, ok := UnwrapElement(asAny)
	require.True(t, ok)
	assert.Equal(t, "h-9", handle)

	_, ok = UnwrapElement(map[string]any{"other": "x"})
	assert.False(t, ok)
}

func TestDecodeBodyRejectsMalformedJSON(t *testing.T) {
	var dst map[string]any
	err := DecodeBody([]byte("{not json"), &dst)
	require.Error(t, err)
	var wde *wderrors.WebDriverError
	require.ErrorAs(t, err, &wde)
	assert.Equal(t, wderrors.KindInvalidArgument, wde.Kind)
}

func TestDecodeBodyEmptyIsNoop(t *testing.T) {
	var dst map[string]any
	require.NoError(t, DecodeBody(nil, &dst))
}
