package server

import "encoding/json"

// Wire request bodies for the WebDriver command set (spec.md §4.E). Field
// names follow the W3C JSON property names exactly since they're decoded
// straight off the wire.

type newSessionRequest struct {
	Capabilities struct {
		AlwaysMatch map[string]any   `json:"alwaysMatch"`
		FirstMatch  []map[string]any `json:"firstMatch"`
	} `json:"capabilities"`
}

func (r newSessionRequest) merged() map[string]any {
	out := make(map[string]any, len(r.Capabilities.AlwaysMatch))
	for k, v := range r.Capabilities.AlwaysMatch {
		out[k] = v
	}
	if len(r.Capabilities.FirstMatch) > 0 {
		for k, v := range r.Capabilities.FirstMatch[0] {
			out[k] = v
		}
	}
	return out
}

type timeoutsRequest struct {
	Implicit *int            `json:"implicit,omitempty"`
	PageLoad *int            `json:"pageLoad,omitempty"`
	Script   nullableTimeout `json:"script"`
}

// nullableTimeout distinguishes an absent "script" field (left untouched)
// from an explicit JSON null (disables the timeout, spec.md §3 invariant
// iv) from a numeric value, something a bare *int can't do since encoding/
// json maps both "absent" and "null" to a nil pointer.
type nullableTimeout struct {
	present bool
	isNull  bool
	value   int
}

func (n *nullableTimeout) UnmarshalJSON(data []byte) error {
	n.present = true
	if string(data) == "null" {
		n.isNull = true
		return nil
	}
	return json.Unmarshal(data, &n.value)
}

type urlRequest struct {
	URL string `json:"url"`
}

type findElementRequest struct {
	Using string `json:"using"`
	Value string `json:"value"`
}

type elementValueRequest struct {
	Text string `json:"text"`
	// Some clients (legacy alias, spec.md "Supplemented features") send an
	// array of single characters instead of one string.
	Value []string `json:"value"`
}

func (r elementValueRequest) keys() string {
	if r.Text != "" {
		return r.Text
	}
	joined := ""
	for _, v := range r.Value {
		joined += v
	}
	return joined
}

type windowRectRequest struct {
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
}

type switchWindowRequest struct {
	Handle string `json:"handle"`
}

type newWindowRequest struct {
	Type string `json:"type"`
}

type switchFrameRequest struct {
	ID any `json:"id"`
}

type scriptRequest struct {
	Script string          `json:"script"`
	Args   []argumentValue `json:"args"`
}

// argumentValue lets script arguments be either a plain JSON value or an
// element reference object; the raw bytes are preserved so EvaluateSync can
// re-encode them untouched.
type argumentValue = map[string]any

type cookieRequest struct {
	Cookie cookieWire `json:"cookie"`
}

type cookieWire struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Path     string  `json:"path"`
	Domain   string  `json:"domain"`
	Secure   bool    `json:"secure"`
	HTTPOnly bool    `json:"httpOnly"`
	Expiry   *int64  `json:"expiry"`
	SameSite *string `json:"sameSite"`
}

type alertTextRequest struct {
	Text string `json:"text"`
}

// actionsRequest is the W3C actions chain wire shape: one sequence per
// input source, each a list of ticks to perform in lockstep. This module
// executes sequences one at a time rather than interleaving ticks across
// sources, a deliberate simplification documented in DESIGN.md.
type actionsRequest struct {
	Actions []actionSequence `json:"actions"`
}

type actionSequence struct {
	Type       string            `json:"type"` // "key" | "pointer" | "none" | "wheel"
	ID         string            `json:"id"`
	Parameters *actionParameters `json:"parameters,omitempty"`
	Actions    []actionItem      `json:"actions"`
}

type actionParameters struct {
	PointerType string `json:"pointerType"`
}

// actionItem is one tick within a sequence. Fields not relevant to the
// item's "type" are simply left zero.
type actionItem struct {
	Type     string  `json:"type"` // "pause" | "pointerMove" | "pointerDown" | "pointerUp" | "keyDown" | "keyUp"
	Duration int     `json:"duration"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Button   int     `json:"button"`
	Value    string  `json:"value"`
}

type printRequest struct {
	Orientation string   `json:"orientation"`
	Scale       float64  `json:"scale"`
	Background  bool     `json:"background"`
	Width       float64  `json:"width"`
	Height      float64  `json:"height"`
	Margin      *margins `json:"margin"`
	Shrink      bool     `json:"shrinkToFit"`
	PageRanges  []string `json:"pageRanges"`
}

type margins struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}
