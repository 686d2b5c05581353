// Command webdriverd runs the WebDriver HTTP server in front of an
// in-process WebView, the way the teacher's cmd/api runs its HTTP server in
// front of the supervised Chromium/Neko session.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ghodss/yaml"
	"golang.org/x/sync/errgroup"

	wrywebdriver "github.com/tauri-apps/wry-webdriver"
	"github.com/tauri-apps/wry-webdriver/cmd/config"
	"github.com/tauri-apps/wry-webdriver/internal/bridge"
	"github.com/tauri-apps/wry-webdriver/internal/logger"
	"github.com/tauri-apps/wry-webdriver/internal/server"
	"github.com/tauri-apps/wry-webdriver/internal/session"
)

func main() {
	slogger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		slogger.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}
	slogger.Info("server configuration", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	extraFlags := strings.Fields(cfg.ChromiumFlags)

	newBackend := func() (bridge.Backend, error) {
		switch cfg.Backend {
		case config.BackendRod:
			return bridge.NewRodBackend(bridge.RodOptions{Headful: cfg.Headful})
		default:
			return bridge.NewChromeDPBackend(ctx, bridge.ChromeDPOptions{
				ExecPath:   cfg.ChromiumExecPath,
				Headful:    cfg.Headful,
				ExtraFlags: extraFlags,
			})
		}
	}

	defaults := session.Timeouts{
		Implicit: cfg.DefaultImplicitTimeoutMs,
		PageLoad: cfg.DefaultPageLoadTimeoutMs,
		Script:   &cfg.DefaultScriptTimeoutMs,
	}

	webdriverServer := server.New(newBackend, defaults, cfg.AllowMultiplexing)

	r := webdriverServer.Router()
	r.Get("/spec.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.oai.openapi")
		_, _ = w.Write(wrywebdriver.OpenAPIYAML)
	})
	r.Get("/spec.json", func(w http.ResponseWriter, r *http.Request) {
		jsonData, err := yaml.YAMLToJSON(wrywebdriver.OpenAPIYAML)
		if err != nil {
			http.Error(w, "failed to convert YAML to JSON", http.StatusInternalServerError)
			logger.FromContext(r.Context()).Error("failed to convert YAML to JSON", "err", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(jsonData)
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.ResolvedPort())
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		slogger.Info("webdriver server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slogger.Error("webdriver server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	slogger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	g, _ := errgroup.WithContext(shutdownCtx)

	g.Go(func() error {
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return webdriverServer.Shutdown()
	})

	if err := g.Wait(); err != nil {
		slogger.Error("server failed to shutdown", "err", err)
	}
}
