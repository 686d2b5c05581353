// Package config loads the server's configuration from environment
// variables, the way the teacher's cmd/config package does.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// BackendDriver selects which internal/bridge.Backend implementation drives
// the WebView.
type BackendDriver string

const (
	BackendChromeDP BackendDriver = "chromedp"
	BackendRod      BackendDriver = "rod"
)

// Config holds all configuration for the server.
type Config struct {
	// Port the WebDriver HTTP server binds on 127.0.0.1. TauriWebdriverPort
	// overrides this when set; see ResolvedPort for the full precedence
	// order from spec.md §4.G.
	Port int `envconfig:"PORT" default:"4445"`

	// TauriWebdriverPort, when nonzero, takes precedence over Port.
	TauriWebdriverPort int `envconfig:"TAURI_WEBDRIVER_PORT" default:"0"`

	// Backend selects the concrete Backend Bridge adapter.
	Backend BackendDriver `envconfig:"WEBDRIVER_BACKEND" default:"chromedp"`

	// ChromiumExecPath overrides the Chromium/WebView binary the chromedp
	// backend launches. Empty means "let chromedp find one on $PATH".
	ChromiumExecPath string `envconfig:"WEBDRIVER_CHROMIUM_PATH" default:""`

	// ChromiumFlags is a space-delimited string of extra Chromium
	// command-line flags, merged with the baseline launch flags (see
	// lib/chromiumflags). Matches the "--flag" / "--flag=value" grammar the
	// Chromium --load-extension/--disable-extensions handling expects.
	ChromiumFlags string `envconfig:"WEBDRIVER_CHROMIUM_FLAGS" default:""`

	// Headful controls whether the backend's browser window is shown. The
	// protocol itself has no headless mode (spec.md §1 Non-goals); this only
	// controls the *development* convenience of watching the driven WebView.
	Headful bool `envconfig:"WEBDRIVER_HEADFUL" default:"true"`

	// Default session timeouts, in milliseconds, per spec.md §4.D.
	DefaultImplicitTimeoutMs int `envconfig:"WEBDRIVER_IMPLICIT_TIMEOUT_MS" default:"0"`
	DefaultPageLoadTimeoutMs int `envconfig:"WEBDRIVER_PAGE_LOAD_TIMEOUT_MS" default:"300000"`
	DefaultScriptTimeoutMs   int `envconfig:"WEBDRIVER_SCRIPT_TIMEOUT_MS" default:"30000"`

	// AllowMultiplexing, when true, accepts additional sessions instead of
	// rejecting them with "session not created"; each one gets its own
	// freshly built backend, and calls are not serialized across sessions
	// (decided in SPEC_FULL.md Open Questions).
	AllowMultiplexing bool `envconfig:"WEBDRIVER_ALLOW_MULTIPLEXING" default:"false"`
}

// ResolvedPort applies the precedence order TAURI_WEBDRIVER_PORT (when
// nonzero) > PORT > 4445.
func (c *Config) ResolvedPort() int {
	if c.TauriWebdriverPort != 0 {
		return c.TauriWebdriverPort
	}
	if c.Port != 0 {
		return c.Port
	}
	return 4445
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Backend != BackendChromeDP && cfg.Backend != BackendRod {
		return fmt.Errorf("WEBDRIVER_BACKEND must be %q or %q, got %q", BackendChromeDP, BackendRod, cfg.Backend)
	}
	if cfg.DefaultImplicitTimeoutMs < 0 {
		return fmt.Errorf("WEBDRIVER_IMPLICIT_TIMEOUT_MS must be non-negative")
	}
	if cfg.DefaultPageLoadTimeoutMs < 0 {
		return fmt.Errorf("WEBDRIVER_PAGE_LOAD_TIMEOUT_MS must be non-negative")
	}
	if cfg.DefaultScriptTimeoutMs < 0 {
		return fmt.Errorf("WEBDRIVER_SCRIPT_TIMEOUT_MS must be non-negative")
	}
	if p := cfg.ResolvedPort(); p <= 0 || p > 65535 {
		return fmt.Errorf("resolved port %d out of range", p)
	}
	return nil
}
