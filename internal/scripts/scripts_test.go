package scripts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCSSSelector(t *testing.T) {
	assert.NoError(t, ValidateCSSSelector("div.foo > span#bar"))
	assert.Error(t, ValidateCSSSelector(">>>not a selector"))
}

func TestBuildLocateScriptEmbedsArguments(t *testing.T) {
	script := BuildLocateScript("css selector", ".widget", "")
	assert.Contains(t, script, `"css selector"`)
	assert.Contains(t, script, `".widget"`)
	assert.Contains(t, script, "__wry_locate(")
	assert.Contains(t, script, "__wry_handles")
}

func TestBuildSendKeysScriptEscapesText(t *testing.T) {
	script := BuildSendKeysScript("h-1", `hello "world"`)
	assert.True(t, strings.Contains(script, `\"world\"`))
}

func TestBuildClickScriptReferencesHandle(t *testing.T) {
	script := BuildClickScript("h-42")
	assert.Contains(t, script, `"h-42"`)
	assert.Contains(t, script, "__wry_click(")
}

func TestBuildAccessibleNameScript(t *testing.T) {
	script := BuildAccessibleNameScript("h-7")
	assert.Contains(t, script, "__wry_computedName(")
}

func TestBuildPointerEventScript(t *testing.T) {
	script := BuildPointerEventScript("mousedown", 10, 20, 1)
	assert.Contains(t, script, "__wry_dispatchPointerEvent(")
	assert.Contains(t, script, `"mousedown"`)
	assert.Contains(t, script, "10")
	assert.Contains(t, script, "20")
}

func TestBuildActiveKeyScript(t *testing.T) {
	script := BuildActiveKeyScript("a", "keydown")
	assert.Contains(t, script, "__wry_dispatchActiveKey(")
	assert.Contains(t, script, `"a"`)
	assert.Contains(t, script, `"keydown"`)
}
