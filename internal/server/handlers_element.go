package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tauri-apps/wry-webdriver/internal/protocol"
	"github.com/tauri-apps/wry-webdriver/internal/registry"
	"github.com/tauri-apps/wry-webdriver/internal/scripts"
	"github.com/tauri-apps/wry-webdriver/internal/session"
	"github.com/tauri-apps/wry-webdriver/internal/wderrors"
)

func validateLocator(req findElementRequest) error {
	if req.Using == "css selector" {
		if err := scripts.ValidateCSSSelector(req.Value); err != nil {
			return wderrors.InvalidSelector("malformed css selector %q: %s", req.Value, err)
		}
	}
	return nil
}

// mintFoundElement resolves a minted JS-side handle into the registry under
// its current epoch and returns the wire reference object.
func (s *Server) mintFoundElement(sess *session.Session, jsHandle string) map[string]string {
	handle := sess.Registry.Mint(registry.KindElement, jsHandle)
	return protocol.WrapElement(handle)
}

func (s *Server) handleFindElement(w http.ResponseWriter, r *http.Request) {
	s.findElement(w, r, "")
}

func (s *Server) handleFindElementFromElement(w http.ResponseWriter, r *http.Request) {
	s.findElement(w, r, chi.URLParam(r, "element"))
}

func (s *Server) handleFindElementFromShadow(w http.ResponseWriter, r *http.Request) {
	s.findElement(w, r, chi.URLParam(r, "shadow"))
}

func (s *Server) findElement(w http.ResponseWriter, r *http.Request, contextHandle string) {
	sess := sessionFromRequest(r)
	var req findElementRequest
	if err := readJSON(r, &req); err != nil {
		protocol.WriteError(w, err)
		return
	}
	if err := validateLocator(req); err != nil {
		protocol.WriteError(w, err)
		return
	}
	if contextHandle != "" {
		if err := sess.Registry.Resolve(registry.KindElement, contextHandle); err != nil {
			protocol.WriteError(w, err)
			return
		}
	}

	var handles []string
	script := scripts.BuildLocateScript(req.Using, req.Value, contextHandle)
	if err := runScript(r.Context(), sess, script, &handles); err != nil {
		protocol.WriteError(w, err)
		return
	}
	if len(handles) == 0 {
		protocol.WriteError(w, wderrors.NoSuchElement(req.Value))
		return
	}
	protocol.WriteValue(w, s.mintFoundElement(sess, handles[0]))
}

func (s *Server) handleFindElements(w http.ResponseWriter, r *http.Request) {
	s.findElements(w, r, "")
}

func (s *Server) handleFindElementsFromElement(w http.ResponseWriter, r *http.Request) {
	s.findElements(w, r, chi.URLParam(r, "element"))
}

func (s *Server) handleFindElementsFromShadow(w http.ResponseWriter, r *http.Request) {
	s.findElements(w, r, chi.URLParam(r, "shadow"))
}

func (s *Server) findElements(w http.ResponseWriter, r *http.Request, contextHandle string) {
	sess := sessionFromRequest(r)
	var req findElementRequest
	if err := readJSON(r, &req); err != nil {
		protocol.WriteError(w, err)
		return
	}
	if err := validateLocator(req); err != nil {
		protocol.WriteError(w, err)
		return
	}
	if contextHandle != "" {
		if err := sess.Registry.Resolve(registry.KindElement, contextHandle); err != nil {
			protocol.WriteError(w, err)
			return
		}
	}

	var handles []string
	script := scripts.BuildLocateScript(req.Using, req.Value, contextHandle)
	if err := runScript(r.Context(), sess, script, &handles); err != nil {
		protocol.WriteError(w, err)
		return
	}

	out := make([]map[string]string, 0, len(handles))
	for _, h := range handles {
		out = append(out, s.mintFoundElement(sess, h))
	}
	protocol.WriteValue(w, out)
}

func (s *Server) handleActiveElement(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	var handles []string
	if err := runScript(r.Context(), sess, scripts.BuildLocateScript("css selector", ":focus", ""), &handles); err != nil {
		protocol.WriteError(w, err)
		return
	}
	if len(handles) == 0 {
		protocol.WriteError(w, wderrors.NoSuchElement("document.activeElement"))
		return
	}
	protocol.WriteValue(w, s.mintFoundElement(sess, handles[0]))
}

// resolvedElement validates {element} against the registry and returns its
// handle, writing the appropriate error response and returning ok=false on
// failure.
func (s *Server) resolvedElement(w http.ResponseWriter, r *http.Request) (string, bool) {
	sess := sessionFromRequest(r)
	handle := chi.URLParam(r, "element")
	if err := sess.Registry.Resolve(registry.KindElement, handle); err != nil {
		protocol.WriteError(w, err)
		return "", false
	}
	return handle, true
}

func (s *Server) handleElementClick(w http.ResponseWriter, r *http.Request) {
	handle, ok := s.resolvedElement(w, r)
	if !ok {
		return
	}
	sess := sessionFromRequest(r)
	if err := runScript(r.Context(), sess, scripts.BuildClickScript(handle), nil); err != nil {
		protocol.WriteError(w, err)
		return
	}
	protocol.WriteValue(w, nil)
}

func (s *Server) handleElementClear(w http.ResponseWriter, r *http.Request) {
	handle, ok := s.resolvedElement(w, r)
	if !ok {
		return
	}
	sess := sessionFromRequest(r)
	if err := runScript(r.Context(), sess, scripts.BuildClearScript(handle), nil); err != nil {
		protocol.WriteError(w, err)
		return
	}
	protocol.WriteValue(w, nil)
}

// handleElementValue implements both the modern "send keys to element"
// action endpoint and the legacy value-endpoint alias folded into the same
// handler (spec.md "Supplemented features").
func (s *Server) handleElementValue(w http.ResponseWriter, r *http.Request) {
	handle, ok := s.resolvedElement(w, r)
	if !ok {
		return
	}
	sess := sessionFromRequest(r)
	var req elementValueRequest
	if err := readJSON(r, &req); err != nil {
		protocol.WriteError(w, err)
		return
	}
	if err := runScript(r.Context(), sess, scripts.BuildSendKeysScript(handle, req.keys()), nil); err != nil {
		protocol.WriteError(w, err)
		return
	}
	protocol.WriteValue(w, nil)
}

func (s *Server) handleElementText(w http.ResponseWriter, r *http.Request) {
	handle, ok := s.resolvedElement(w, r)
	if !ok {
		return
	}
	sess := sessionFromRequest(r)
	var text string
	if err := runScript(r.Context(), sess, scripts.BuildTextScript(handle), &text); err != nil {
		protocol.WriteError(w, err)
		return
	}
	protocol.WriteValue(w, text)
}

func (s *Server) handleElementTagName(w http.ResponseWriter, r *http.Request) {
	handle, ok := s.resolvedElement(w, r)
	if !ok {
		return
	}
	sess := sessionFromRequest(r)
	var name string
	if err := runScript(r.Context(), sess, scripts.BuildTagNameScript(handle), &name); err != nil {
		protocol.WriteError(w, err)
		return
	}
	protocol.WriteValue(w, name)
}

func (s *Server) handleElementAttribute(w http.ResponseWriter, r *http.Request) {
	handle, ok := s.resolvedElement(w, r)
	if !ok {
		return
	}
	sess := sessionFromRequest(r)
	name := chi.URLParam(r, "name")
	var value any
	if err := runScript(r.Context(), sess, scripts.BuildAttributeScript(handle, name), &value); err != nil {
		protocol.WriteError(w, err)
		return
	}
	protocol.WriteValue(w, value)
}

func (s *Server) handleElementProperty(w http.ResponseWriter, r *http.Request) {
	handle, ok := s.resolvedElement(w, r)
	if !ok {
		return
	}
	sess := sessionFromRequest(r)
	name := chi.URLParam(r, "property")
	var value any
	if err := runScript(r.Context(), sess, scripts.BuildPropertyScript(handle, name), &value); err != nil {
		protocol.WriteError(w, err)
		return
	}
	protocol.WriteValue(w, value)
}

func (s *Server) handleElementCSSValue(w http.ResponseWriter, r *http.Request) {
	handle, ok := s.resolvedElement(w, r)
	if !ok {
		return
	}
	sess := sessionFromRequest(r)
	name := chi.URLParam(r, "prop")
	var value string
	if err := runScript(r.Context(), sess, scripts.BuildCSSValueScript(handle, name), &value); err != nil {
		protocol.WriteError(w, err)
		return
	}
	protocol.WriteValue(w, value)
}

func (s *Server) handleElementRect(w http.ResponseWriter, r *http.Request) {
	handle, ok := s.resolvedElement(w, r)
	if !ok {
		return
	}
	sess := sessionFromRequest(r)
	var rect struct {
		X, Y, Width, Height float64
	}
	if err := runScript(r.Context(), sess, scripts.BuildRectScript(handle), &rect); err != nil {
		protocol.WriteError(w, err)
		return
	}
	protocol.WriteValue(w, rect)
}

func (s *Server) handleElementSelected(w http.ResponseWriter, r *http.Request) {
	handle, ok := s.resolvedElement(w, r)
	if !ok {
		return
	}
	sess := sessionFromRequest(r)
	var selected bool
	if err := runScript(r.Context(), sess, scripts.BuildSelectedScript(handle), &selected); err != nil {
		protocol.WriteError(w, err)
		return
	}
	protocol.WriteValue(w, selected)
}

func (s *Server) handleElementEnabled(w http.ResponseWriter, r *http.Request) {
	handle, ok := s.resolvedElement(w, r)
	if !ok {
		return
	}
	sess := sessionFromRequest(r)
	var enabled bool
	if err := runScript(r.Context(), sess, scripts.BuildEnabledScript(handle), &enabled); err != nil {
		protocol.WriteError(w, err)
		return
	}
	protocol.WriteValue(w, enabled)
}

func (s *Server) handleElementDisplayed(w http.ResponseWriter, r *http.Request) {
	handle, ok := s.resolvedElement(w, r)
	if !ok {
		return
	}
	sess := sessionFromRequest(r)
	var displayed bool
	if err := runScript(r.Context(), sess, scripts.BuildVisibilityScript(handle), &displayed); err != nil {
		protocol.WriteError(w, err)
		return
	}
	protocol.WriteValue(w, displayed)
}

func (s *Server) handleElementComputedRole(w http.ResponseWriter, r *http.Request) {
	handle, ok := s.resolvedElement(w, r)
	if !ok {
		return
	}
	sess := sessionFromRequest(r)
	var role string
	if err := runScript(r.Context(), sess, scripts.BuildAccessibleRoleScript(handle), &role); err != nil {
		protocol.WriteError(w, err)
		return
	}
	protocol.WriteValue(w, role)
}

func (s *Server) handleElementComputedLabel(w http.ResponseWriter, r *http.Request) {
	handle, ok := s.resolvedElement(w, r)
	if !ok {
		return
	}
	sess := sessionFromRequest(r)
	var label string
	if err := runScript(r.Context(), sess, scripts.BuildAccessibleNameScript(handle), &label); err != nil {
		protocol.WriteError(w, err)
		return
	}
	protocol.WriteValue(w, label)
}

func (s *Server) handleShadowRoot(w http.ResponseWriter, r *http.Request) {
	handle, ok := s.resolvedElement(w, r)
	if !ok {
		return
	}
	sess := sessionFromRequest(r)
	var shadowJSHandle string
	if err := runScript(r.Context(), sess, scripts.BuildShadowRootScript(handle), &shadowJSHandle); err != nil {
		protocol.WriteError(w, err)
		return
	}
	mintedShadow := sess.Registry.Mint(registry.KindShadow, shadowJSHandle)
	protocol.WriteValue(w, protocol.WrapShadow(mintedShadow))
}
