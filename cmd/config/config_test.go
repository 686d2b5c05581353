package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	testCases := []struct {
		name    string
		env     map[string]string
		wantErr bool
		wantCfg *Config
	}{
		{
			name: "defaults (no env set)",
			env:  map[string]string{},
			wantCfg: &Config{
				Port:                     4445,
				TauriWebdriverPort:       0,
				Backend:                  BackendChromeDP,
				ChromiumExecPath:         "",
				Headful:                  true,
				DefaultImplicitTimeoutMs: 0,
				DefaultPageLoadTimeoutMs: 300000,
				DefaultScriptTimeoutMs:   30000,
				AllowMultiplexing:        false,
			},
		},
		{
			name: "custom valid env",
			env: map[string]string{
				"PORT":                          "9999",
				"TAURI_WEBDRIVER_PORT":          "4545",
				"WEBDRIVER_BACKEND":             "rod",
				"WEBDRIVER_CHROMIUM_PATH":       "/usr/bin/chromium",
				"WEBDRIVER_HEADFUL":             "false",
				"WEBDRIVER_IMPLICIT_TIMEOUT_MS": "500",
				"WEBDRIVER_PAGE_LOAD_TIMEOUT_MS": "60000",
				"WEBDRIVER_SCRIPT_TIMEOUT_MS":    "5000",
				"WEBDRIVER_ALLOW_MULTIPLEXING":   "true",
			},
			wantCfg: &Config{
				Port:                     9999,
				TauriWebdriverPort:       4545,
				Backend:                  BackendRod,
				ChromiumExecPath:         "/usr/bin/chromium",
				Headful:                  false,
				DefaultImplicitTimeoutMs: 500,
				DefaultPageLoadTimeoutMs: 60000,
				DefaultScriptTimeoutMs:   5000,
				AllowMultiplexing:        true,
			},
		},
		{
			name: "unknown backend rejected",
			env: map[string]string{
				"WEBDRIVER_BACKEND": "webview2",
			},
			wantErr: true,
		},
		{
			name: "negative implicit timeout rejected",
			env: map[string]string{
				"WEBDRIVER_IMPLICIT_TIMEOUT_MS": "-1",
			},
			wantErr: true,
		},
		{
			name: "negative script timeout rejected",
			env: map[string]string{
				"WEBDRIVER_SCRIPT_TIMEOUT_MS": "-5",
			},
			wantErr: true,
		},
		{
			name: "port out of range rejected",
			env: map[string]string{
				"PORT": "70000",
			},
			wantErr: true,
		},
	}

	for idx := range testCases {
		tc := testCases[idx]
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()

			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)
				require.Equal(t, tc.wantCfg, cfg)
			}
		})
	}
}

func TestResolvedPortPrecedence(t *testing.T) {
	cfg := &Config{Port: 4445, TauriWebdriverPort: 9000}
	require.Equal(t, 9000, cfg.ResolvedPort())

	cfg = &Config{Port: 4445, TauriWebdriverPort: 0}
	require.Equal(t, 4445, cfg.ResolvedPort())

	cfg = &Config{Port: 0, TauriWebdriverPort: 0}
	require.Equal(t, 4445, cfg.ResolvedPort())
}
