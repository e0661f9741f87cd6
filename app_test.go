package unison

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/unison-ui/unison/internal/config"
)

func helloApp(t *testing.T, opts ...AppOption) *App {
	t.Helper()
	root := Define("Hello", func(ctx *Ctx) RenderFunc {
		return func() *VNode {
			return Div(H1(Text("hello world")))
		}
	})
	cfg := config.New()
	cfg.Upload.Dir = t.TempDir()
	cfg.Static.Dir = t.TempDir()
	return NewApp(root, append([]AppOption{WithConfig(cfg)}, opts...)...)
}

func TestAppServesSSR(t *testing.T) {
	app := helloApp(t, WithTitle("Test App"))

	handler, err := app.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "hello world") {
		t.Errorf("body missing rendered content:\n%s", body)
	}
	if !strings.Contains(body, "<title>Test App</title>") {
		t.Errorf("body missing title:\n%s", body)
	}
}

func TestAppServesStaticFiles(t *testing.T) {
	app := helloApp(t)
	if err := os.WriteFile(filepath.Join(app.Config().StaticPath(), "site.css"), []byte("body{}"), 0o644); err != nil {
		t.Fatalf("write static file: %v", err)
	}

	handler, err := app.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/static/site.css", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "body{}" {
		t.Errorf("static response = %d %q", rec.Code, rec.Body.String())
	}
}

func TestAppMountsUploadRoute(t *testing.T) {
	app := helloApp(t)
	handler, err := app.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}

	// Wrong method confirms the route exists without building a form
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/_unison/upload", nil))
	if rec.Code == http.StatusNotFound {
		t.Error("upload route not mounted")
	}
}

func TestAppMetricsRoute(t *testing.T) {
	app := helloApp(t)
	app.Config().Server.MetricsEnabled = true

	handler, err := app.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("metrics status = %d", rec.Code)
	}
}

type testPlugin struct {
	installed bool
}

func (p *testPlugin) Name() string { return "test" }

func (p *testPlugin) Install(app *App) error {
	p.installed = true
	app.Server().Router().Get("/plugin-route", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("from plugin"))
	})
	return nil
}

func TestAppInstallsPlugins(t *testing.T) {
	plugin := &testPlugin{}
	app := helloApp(t, WithPlugins(plugin))

	handler, err := app.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !plugin.installed {
		t.Fatal("plugin not installed")
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/plugin-route", nil))
	if rec.Body.String() != "from plugin" {
		t.Errorf("plugin route body = %q", rec.Body.String())
	}
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	if cfg.Server.Port != config.DefaultPort {
		t.Errorf("Port = %d", cfg.Server.Port)
	}
}

func TestConfigFromEnvOverride(t *testing.T) {
	t.Setenv("UNISON_PORT", "4444")
	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if cfg.Server.Port != 4444 {
		t.Errorf("Port = %d", cfg.Server.Port)
	}
}

func TestAppAssetsFromManifest(t *testing.T) {
	root := Define("Hello", func(ctx *Ctx) RenderFunc {
		return func() *VNode { return Div() }
	})
	cfg := config.New()
	cfg.Upload.Dir = t.TempDir()
	cfg.Build.Output = t.TempDir()
	if err := os.WriteFile(filepath.Join(cfg.Build.Output, "manifest.json"),
		[]byte(`{"logo.png": "logo.a1b2c3d4.png"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	app := NewApp(root, WithConfig(cfg))
	if got := app.Assets().Asset("logo.png"); got != "/static/logo.a1b2c3d4.png" {
		t.Errorf("Asset(logo.png) = %q", got)
	}
}

func TestAppAssetsPassthroughWithoutManifest(t *testing.T) {
	app := helloApp(t)
	if got := app.Assets().Asset("app.css"); got != "/static/app.css" {
		t.Errorf("Asset(app.css) = %q", got)
	}
}

func TestAppProvideInject(t *testing.T) {
	app := helloApp(t)

	if _, ok := app.Inject("db"); ok {
		t.Fatal("unexpected value before Provide")
	}
	app.Provide("db", "conn")
	v, ok := app.Inject("db")
	if !ok || v != "conn" {
		t.Errorf("Inject = %v, %v", v, ok)
	}
}

type countingPlugin struct {
	installs int
}

func (p *countingPlugin) Name() string { return "counting" }

func (p *countingPlugin) Install(app *App) error {
	p.installs++
	return nil
}

func TestAppDuplicatePluginInstallsOnce(t *testing.T) {
	plugin := &countingPlugin{}
	app := helloApp(t, WithPlugins(plugin, plugin))

	if _, err := app.Handler(); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if plugin.installs != 1 {
		t.Errorf("installs = %d", plugin.installs)
	}
}

func TestAppRunStopsOnCancel(t *testing.T) {
	root := Define("Hello", func(ctx *Ctx) RenderFunc {
		return func() *VNode { return Div() }
	})
	cfg := config.New()
	cfg.Server.Port = 0 // Any free port
	cfg.Upload.Dir = t.TempDir()
	app := NewApp(root, WithConfig(cfg))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	cancel()

	if err := <-done; err != nil && err != http.ErrServerClosed {
		t.Errorf("run returned %v", err)
	}
}
