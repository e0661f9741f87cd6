package unison

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/unison-ui/unison/internal/config"
	"github.com/unison-ui/unison/pkg/assets"
	"github.com/unison-ui/unison/pkg/component"
	"github.com/unison-ui/unison/pkg/middleware"
	"github.com/unison-ui/unison/pkg/render"
	"github.com/unison-ui/unison/pkg/server"
	"github.com/unison-ui/unison/pkg/upload"
)

// App assembles a Unison application: the live session server, static
// file serving, upload staging, metrics, and any installed plugins.
//
//	app := unison.NewApp(rootComponent,
//	    unison.WithConfig(cfg),
//	    unison.WithTitle("My App"),
//	)
//	log.Fatal(app.Run(ctx))
type App struct {
	config  *config.Config
	logger  *slog.Logger
	page    render.Page
	srv     *server.Server
	uploads upload.Store
	plugins []Plugin
	assets  assets.Resolver

	valuesMu sync.RWMutex
	values   map[string]any

	installed bool
}

// Plugin extends an App during startup. Install runs once, before the
// server starts listening; it may mount routes and provide values.
type Plugin interface {
	// Name identifies the plugin in logs.
	Name() string

	// Install wires the plugin into the app.
	Install(app *App) error
}

// AppOption configures an App.
type AppOption func(*App)

// WithConfig supplies the project configuration. Without it the app
// runs on defaults plus UNISON_* environment variables.
func WithConfig(cfg *config.Config) AppOption {
	return func(a *App) {
		a.config = cfg
	}
}

// WithAppLogger sets the application logger.
func WithAppLogger(logger *slog.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// WithTitle sets the document title for server-rendered pages.
func WithTitle(title string) AppOption {
	return func(a *App) {
		a.page.Title = title
	}
}

// WithStyles adds stylesheet URLs to the document head.
func WithStyles(urls ...string) AppOption {
	return func(a *App) {
		a.page.Styles = append(a.page.Styles, urls...)
	}
}

// WithScripts adds script URLs to the document.
func WithScripts(urls ...string) AppOption {
	return func(a *App) {
		a.page.Scripts = append(a.page.Scripts, urls...)
	}
}

// WithAssets replaces the default asset resolver. Without it the app
// loads the build manifest from the output directory when present and
// falls back to passthrough resolution.
func WithAssets(r assets.Resolver) AppOption {
	return func(a *App) {
		a.assets = r
	}
}

// WithUploadStore replaces the default disk-backed upload store.
func WithUploadStore(store upload.Store) AppOption {
	return func(a *App) {
		a.uploads = store
	}
}

// WithPlugins registers plugins to install at startup.
func WithPlugins(plugins ...Plugin) AppOption {
	return func(a *App) {
		a.plugins = append(a.plugins, plugins...)
	}
}

// NewApp creates an App serving root as the application component.
func NewApp(root *component.Definition, opts ...AppOption) *App {
	a := &App{values: make(map[string]any)}
	for _, opt := range opts {
		opt(a)
	}

	if a.config == nil {
		cfg, err := config.FromEnv()
		if err != nil {
			cfg = config.New()
		}
		a.config = cfg
	}
	if a.logger == nil {
		a.logger = slog.Default().With("app", a.config.Name)
	}
	if a.page.Title == "" {
		a.page.Title = a.config.Name
	}
	if a.assets == nil {
		manifest := filepath.Join(a.config.OutputPath(), "manifest.json")
		if m, err := assets.Load(manifest); err == nil {
			a.assets = assets.NewResolver(m, a.config.Static.Prefix)
		} else {
			a.assets = assets.NewPassthroughResolver(a.config.Static.Prefix)
		}
	}

	a.srv = server.New(a.serverConfig(), root,
		server.WithLogger(a.logger),
		server.WithPage(a.page),
	)
	return a
}

// serverConfig translates the project configuration into the server's.
func (a *App) serverConfig() *server.Config {
	session := server.DefaultSessionConfig()
	session.IdleTimeout = a.config.IdleTimeout()
	session.HeartbeatInterval = a.config.HeartbeatInterval()
	session.Values = a.Inject
	if a.config.Session.WatcherBudget > 0 {
		session.WatcherBudget = a.config.Session.WatcherBudget
	}

	return &server.Config{
		Address:     a.config.Address(),
		Session:     session,
		MaxSessions: a.config.Server.MaxSessions,
	}
}

// Server exposes the underlying session server.
func (a *App) Server() *server.Server {
	return a.srv
}

// Config returns the app's configuration.
func (a *App) Config() *config.Config {
	return a.config
}

// Logger returns the app's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Assets returns the asset resolver for fingerprinted paths.
func (a *App) Assets() assets.Resolver {
	return a.assets
}

// Uploads returns the upload store, creating the configured default on
// first use.
func (a *App) Uploads() (upload.Store, error) {
	if a.uploads == nil {
		store, err := upload.NewDiskStore(a.config.UploadPath(), a.config.Upload.MaxFileSize)
		if err != nil {
			return nil, fmt.Errorf("unison: upload store: %w", err)
		}
		a.uploads = store
	}
	return a.uploads, nil
}

// Use mounts HTTP middleware on the app router. Call before Run.
func (a *App) Use(mw ...func(http.Handler) http.Handler) {
	a.srv.Router().Use(mw...)
}

// Provide stores an app-scoped value under key. Components read it
// through the session environment; plugins typically call this from
// Install.
func (a *App) Provide(key string, value any) {
	a.valuesMu.Lock()
	defer a.valuesMu.Unlock()
	a.values[key] = value
}

// Inject returns the value provided under key.
func (a *App) Inject(key string) (any, bool) {
	a.valuesMu.RLock()
	defer a.valuesMu.RUnlock()
	v, ok := a.values[key]
	return v, ok
}

// install wires middleware, routes, and plugins. Runs once.
func (a *App) install() error {
	if a.installed {
		return nil
	}
	a.installed = true

	router := a.srv.Router()
	router.Use(
		middleware.Recoverer(a.logger),
		middleware.RequestLogger(a.logger),
		middleware.Prometheus(),
	)

	if a.config.Server.MetricsEnabled {
		router.Handle("/metrics", promhttp.Handler())
	}

	if dir := a.config.StaticPath(); dir != "" {
		prefix := a.config.Static.Prefix
		router.Handle(prefix+"*", http.StripPrefix(prefix, http.FileServer(http.Dir(dir))))
	}

	store, err := a.Uploads()
	if err != nil {
		return err
	}
	router.Method(http.MethodPost, "/_unison/upload", upload.HandlerWithConfig(store, &upload.Config{
		MaxFileSize: a.config.Upload.MaxFileSize,
		Logger:      a.logger,
	}))

	// Registering the same plugin name twice installs it once.
	seen := make(map[string]bool, len(a.plugins))
	for _, p := range a.plugins {
		if seen[p.Name()] {
			continue
		}
		seen[p.Name()] = true
		a.logger.Info("installing plugin", "plugin", p.Name())
		if err := p.Install(a); err != nil {
			return fmt.Errorf("unison: plugin %s: %w", p.Name(), err)
		}
	}
	return nil
}

// Handler returns the app as an http.Handler, for embedding in an
// existing server or tests.
func (a *App) Handler() (http.Handler, error) {
	if err := a.install(); err != nil {
		return nil, err
	}
	return a.srv.Handler(), nil
}

// Run installs everything and serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.install(); err != nil {
		return err
	}

	cleanupCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go upload.RunCleanup(cleanupCtx, a.uploads, a.config.IdleTimeout(), a.config.IdleTimeout(), a.logger)

	a.logger.Info("starting", "address", a.config.Address())
	return a.srv.Start(ctx)
}
