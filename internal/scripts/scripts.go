// Package scripts holds the Injected Script Library (spec.md §4.B): the
// deterministic JavaScript the core relies on for locating elements,
// checking visibility, synthesizing input, and computing accessibility
// values. Every builder returns a self-contained script string that, once
// evaluated through internal/bridge, installs its prerequisites (the
// handle table) idempotently and then invokes the requested routine.
package scripts

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/andybalholm/cascadia"
)

//go:embed js/handles.js
var handlesJS string

//go:embed js/locate.js
var locateJS string

//go:embed js/visibility.js
var visibilityJS string

//go:embed js/interact.js
var interactJS string

//go:embed js/sendkeys.js
var sendKeysJS string

//go:embed js/attributes.js
var attributesJS string

//go:embed js/accessibility.js
var accessibilityJS string

//go:embed js/frames.js
var framesJS string

// prelude is installed (idempotently, via the guard in handles.js) ahead of
// every call so a builder can assume __wry_handles and friends exist.
var prelude = handlesJS + locateJS + visibilityJS + interactJS + sendKeysJS + attributesJS + accessibilityJS + framesJS

func encode(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		// Builder inputs are Go-side strings/handles the caller controls;
		// a marshal failure here means a programming error, not bad user input.
		panic(fmt.Sprintf("scripts: failed to encode argument: %s", err))
	}
	return string(b)
}

func call(fn string, args ...any) string {
	encoded := make([]string, len(args))
	for i, a := range args {
		encoded[i] = encode(a)
	}
	joined := ""
	for i, e := range encoded {
		if i > 0 {
			joined += ", "
		}
		joined += e
	}
	return fmt.Sprintf("%s return %s(%s);", prelude, fn, joined)
}

// ValidateCSSSelector pre-validates a "css selector" locator value without a
// browser round-trip (spec.md §4.B's locate contract), using cascadia's
// parser. Returns a non-nil error describing the syntax problem on failure.
func ValidateCSSSelector(selector string) error {
	_, err := cascadia.ParseGroup(selector)
	return err
}

// BuildLocateScript finds elements matching strategy/selector under an
// optional context element handle (empty string means document root).
func BuildLocateScript(strategy, selector, contextHandle string) string {
	return call("__wry_locate", strategy, selector, contextHandle)
}

// BuildVisibilityScript reports whether the element at handle passes the
// WebDriver visibility algorithm.
func BuildVisibilityScript(handle string) string {
	return call("__wry_isDisplayed", handle)
}

// BuildClickScript resolves the click point and dispatches a synthetic
// click, or throws ElementClickIntercepted/ElementNotInteractable.
func BuildClickScript(handle string) string {
	return call("__wry_click", handle)
}

// BuildClearScript clears an editable element's value.
func BuildClearScript(handle string) string {
	return call("__wry_clear", handle)
}

// BuildSendKeysScript dispatches a normalized-key text sequence to handle.
func BuildSendKeysScript(handle, text string) string {
	return call("__wry_sendKeys", handle, text)
}

// BuildTextScript returns an element's rendered text content.
func BuildTextScript(handle string) string {
	return call("__wry_text", handle)
}

// BuildAttributeScript returns an element's DOM attribute, or null.
func BuildAttributeScript(handle, name string) string {
	return call("__wry_attribute", handle, name)
}

// BuildPropertyScript returns an element's live JS property.
func BuildPropertyScript(handle, name string) string {
	return call("__wry_property", handle, name)
}

// BuildCSSValueScript returns a single computed CSS property value.
func BuildCSSValueScript(handle, name string) string {
	return call("__wry_cssValue", handle, name)
}

// BuildRectScript returns an element's bounding rectangle.
func BuildRectScript(handle string) string {
	return call("__wry_rect", handle)
}

// BuildSelectedScript reports an option/checkbox/radio's selected state.
func BuildSelectedScript(handle string) string {
	return call("__wry_selected", handle)
}

// BuildEnabledScript reports whether an element is enabled.
func BuildEnabledScript(handle string) string {
	return call("__wry_enabled", handle)
}

// BuildTagNameScript returns an element's lowercase tag name.
func BuildTagNameScript(handle string) string {
	return call("__wry_tagName", handle)
}

// BuildAccessibleRoleScript returns the ARIA computed role.
func BuildAccessibleRoleScript(handle string) string {
	return call("__wry_computedRole", handle)
}

// BuildAccessibleNameScript returns the ARIA computed accessible name.
func BuildAccessibleNameScript(handle string) string {
	return call("__wry_computedName", handle)
}

// BuildFrameByIndexScript validates that window.frames[index] exists.
func BuildFrameByIndexScript(index int) string {
	return call("__wry_frameByIndex", index)
}

// BuildFrameByElementScript validates that handle references a frame-hosting element.
func BuildFrameByElementScript(handle string) string {
	return call("__wry_frameByElement", handle)
}

// BuildShadowRootScript mints a handle for an element's open shadow root,
// or throws NoSuchShadowRoot.
func BuildShadowRootScript(handle string) string {
	return call("__wry_shadowRoot", handle)
}

// BuildPointerEventScript dispatches a synthetic mouse event of the given
// type at viewport coordinates (x, y), for the actions endpoint's pointer
// primitives.
func BuildPointerEventScript(eventType string, x, y float64, button int) string {
	return call("__wry_dispatchPointerEvent", eventType, x, y, button)
}

// BuildActiveKeyScript dispatches a single keydown/keyup of ch on
// document.activeElement, for the actions endpoint's key primitives.
func BuildActiveKeyScript(ch, eventType string) string {
	return call("__wry_dispatchActiveKey", ch, eventType)
}
