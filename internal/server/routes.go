package server

import (
	"github.com/go-chi/chi/v5"
)

// registerRoutes wires the full WebDriver command set (spec.md §4.E) onto r.
// Every route under /session/{session}/... runs through withSession, which
// resolves the path session id and enforces the unexpected-alert-open
// precondition — except the alert endpoints themselves, which must still
// work while a dialog is pending.
func (s *Server) registerRoutes(r chi.Router) {
	r.Get("/status", s.handleStatus)
	r.Post("/session", s.handleNewSession)

	r.Route("/session/{session}", func(r chi.Router) {
		// Alert endpoints must keep working while a dialog is open; every
		// other command goes through the session's unhandledPromptBehavior
		// policy (by default it fails with unexpected alert open).
		r.Group(func(r chi.Router) {
			r.Use(s.withSession(true))
			r.Post("/alert/dismiss", s.handleDismissAlert)
			r.Post("/alert/accept", s.handleAcceptAlert)
			r.Get("/alert/text", s.handleGetAlertText)
			r.Post("/alert/text", s.handleSetAlertText)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.withSession(false))
			s.registerCommandRoutes(r)
		})
	})
}

// registerCommandRoutes wires every command other than the alert endpoints,
// all guarded by the unexpected-alert-open precondition.
func (s *Server) registerCommandRoutes(r chi.Router) {
	r.Delete("/", s.handleDeleteSession)

	r.Get("/timeouts", s.handleGetTimeouts)
	r.Post("/timeouts", s.handleSetTimeouts)

	r.Post("/url", s.handleSetURL)
	r.Get("/url", s.handleGetURL)
	r.Get("/title", s.handleGetTitle)
	r.Post("/back", s.handleBack)
	r.Post("/forward", s.handleForward)
	r.Post("/refresh", s.handleRefresh)
	r.Get("/source", s.handleSource)

	r.Post("/window/new", s.handleNewWindow)
	r.Get("/window", s.handleWindowHandle)
	r.Delete("/window", s.handleCloseWindow)
	r.Post("/window", s.handleSwitchWindow)
	r.Get("/window/handles", s.handleWindowHandles)
	r.Get("/window/rect", s.handleGetWindowRect)
	r.Post("/window/rect", s.handleSetWindowRect)
	r.Post("/window/maximize", s.handleMaximizeWindow)
	r.Post("/window/minimize", s.handleMinimizeWindow)
	r.Post("/window/fullscreen", s.handleFullscreenWindow)

	r.Post("/frame", s.handleSwitchFrame)
	r.Post("/frame/parent", s.handleSwitchParentFrame)

	r.Post("/element", s.handleFindElement)
	r.Post("/elements", s.handleFindElements)
	r.Get("/element/active", s.handleActiveElement)

	r.Route("/element/{element}", func(r chi.Router) {
		r.Post("/element", s.handleFindElementFromElement)
		r.Post("/elements", s.handleFindElementsFromElement)
		r.Post("/click", s.handleElementClick)
		r.Post("/clear", s.handleElementClear)
		r.Post("/value", s.handleElementValue)
		r.Get("/text", s.handleElementText)
		r.Get("/name", s.handleElementTagName)
		r.Get("/attribute/{name}", s.handleElementAttribute)
		r.Get("/property/{property}", s.handleElementProperty)
		r.Get("/css/{prop}", s.handleElementCSSValue)
		r.Get("/rect", s.handleElementRect)
		r.Get("/selected", s.handleElementSelected)
		r.Get("/enabled", s.handleElementEnabled)
		r.Get("/displayed", s.handleElementDisplayed)
		r.Get("/computedrole", s.handleElementComputedRole)
		r.Get("/computedlabel", s.handleElementComputedLabel)
		r.Get("/screenshot", s.handleElementScreenshot)
		r.Get("/shadow", s.handleShadowRoot)
	})

	r.Route("/shadow/{shadow}", func(r chi.Router) {
		r.Post("/element", s.handleFindElementFromShadow)
		r.Post("/elements", s.handleFindElementsFromShadow)
	})

	r.Post("/execute/sync", s.handleExecuteScript)
	r.Post("/execute/async", s.handleExecuteAsyncScript)

	r.Get("/cookie", s.handleGetAllCookies)
	r.Post("/cookie", s.handleAddCookie)
	r.Get("/cookie/{name}", s.handleGetNamedCookie)
	r.Delete("/cookie/{name}", s.handleDeleteCookie)
	r.Delete("/cookie", s.handleDeleteAllCookies)

	r.Post("/actions", s.handlePerformActions)
	r.Delete("/actions", s.handleReleaseActions)

	r.Get("/screenshot", s.handleScreenshot)
	r.Post("/print", s.handlePrint)
}
