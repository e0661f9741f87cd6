package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/unison-ui/unison/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "unison.json"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultOutput is the default build output directory.
	DefaultOutput = "dist"
)

// Config is the complete unison.json configuration. Environment
// variables override file values field by field; see the env tags.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Version is the project version.
	Version string `json:"version,omitempty"`

	// Server contains the HTTP server settings.
	Server ServerConfig `json:"server,omitempty"`

	// Session contains live session settings.
	Session SessionConfig `json:"session,omitempty"`

	// Static contains static file serving settings.
	Static StaticConfig `json:"static,omitempty"`

	// Upload contains file upload settings.
	Upload UploadConfig `json:"upload,omitempty"`

	// Dev contains development server settings.
	Dev DevConfig `json:"dev,omitempty"`

	// Build contains production build settings.
	Build BuildConfig `json:"build,omitempty"`

	// configPath stores the path the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host to bind to.
	Host string `json:"host,omitempty" env:"UNISON_HOST"`

	// Port to listen on.
	Port int `json:"port,omitempty" env:"UNISON_PORT"`

	// MaxSessions caps concurrent live sessions. 0 means no limit.
	MaxSessions int `json:"maxSessions,omitempty" env:"UNISON_MAX_SESSIONS"`

	// MetricsEnabled exposes Prometheus metrics on /metrics.
	MetricsEnabled bool `json:"metrics,omitempty" env:"UNISON_METRICS"`
}

// SessionConfig contains live session settings. Durations are strings
// in time.ParseDuration format.
type SessionConfig struct {
	// IdleTimeout is how long an inactive session lives.
	IdleTimeout string `json:"idleTimeout,omitempty" env:"UNISON_SESSION_IDLE_TIMEOUT"`

	// HeartbeatInterval is the time between keepalive pings.
	HeartbeatInterval string `json:"heartbeatInterval,omitempty" env:"UNISON_SESSION_HEARTBEAT"`

	// WatcherBudget caps watcher runs per update cycle.
	WatcherBudget int `json:"watcherBudget,omitempty" env:"UNISON_WATCHER_BUDGET"`
}

// StaticConfig contains static file serving settings.
type StaticConfig struct {
	// Dir is the directory containing static files.
	Dir string `json:"dir,omitempty" env:"UNISON_STATIC_DIR"`

	// Prefix is the URL prefix for static files (default: "/static/").
	Prefix string `json:"prefix,omitempty"`
}

// UploadConfig contains file upload settings.
type UploadConfig struct {
	// Dir is the local staging directory for uploads.
	Dir string `json:"dir,omitempty" env:"UNISON_UPLOAD_DIR"`

	// MaxFileSize caps uploads in bytes.
	MaxFileSize int64 `json:"maxFileSize,omitempty" env:"UNISON_UPLOAD_MAX_SIZE"`

	// S3Bucket switches staging to S3 when set.
	S3Bucket string `json:"s3Bucket,omitempty" env:"UNISON_UPLOAD_S3_BUCKET"`

	// S3Prefix is the key prefix for staged objects.
	S3Prefix string `json:"s3Prefix,omitempty" env:"UNISON_UPLOAD_S3_PREFIX"`
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Port for the dev server. Falls back to Server.Port.
	Port int `json:"port,omitempty" env:"UNISON_DEV_PORT"`

	// OpenBrowser opens the browser automatically on start.
	OpenBrowser bool `json:"openBrowser,omitempty"`

	// Watch contains paths to rebuild on change.
	Watch []string `json:"watch,omitempty"`
}

// BuildConfig contains production build settings.
type BuildConfig struct {
	// Output is the output directory for builds.
	Output string `json:"output,omitempty"`

	// StripSymbols strips debug symbols from the binary.
	StripSymbols bool `json:"stripSymbols,omitempty"`

	// Target is the Go build target (e.g. "linux/amd64").
	Target string `json:"target,omitempty"`

	// Tags are build tags to pass to go build.
	Tags []string `json:"tags,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Version: "0.1.0",
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Session: SessionConfig{
			IdleTimeout:       "5m",
			HeartbeatInterval: "30s",
			WatcherBudget:     1000,
		},
		Static: StaticConfig{
			Dir:    "public",
			Prefix: "/static/",
		},
		Upload: UploadConfig{
			Dir:         ".unison/uploads",
			MaxFileSize: 10 * 1024 * 1024,
		},
		Dev: DevConfig{
			Port:  DefaultPort,
			Watch: []string{"app", "public"},
		},
		Build: BuildConfig{
			Output:       DefaultOutput,
			StripSymbols: true,
		},
	}
}

// Load reads unison.json from the specified directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path, then
// applies environment overrides.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No unison.json found in " + filepath.Dir(path))
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse unison.json: " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("E121").Wrap(err)
	}
	return cfg, cfg.Validate()
}

// FromEnv builds a Config from defaults and environment variables only,
// for deployments without a unison.json.
func FromEnv() (*Config, error) {
	cfg := New()
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("E121").Wrap(err)
	}
	return cfg, cfg.Validate()
}

// Save writes the configuration back to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("E120").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

func (c *Config) applyDefaults() {
	defaults := New()
	if c.Server.Host == "" {
		c.Server.Host = defaults.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaults.Server.Port
	}
	if c.Session.IdleTimeout == "" {
		c.Session.IdleTimeout = defaults.Session.IdleTimeout
	}
	if c.Session.HeartbeatInterval == "" {
		c.Session.HeartbeatInterval = defaults.Session.HeartbeatInterval
	}
	if c.Session.WatcherBudget == 0 {
		c.Session.WatcherBudget = defaults.Session.WatcherBudget
	}
	if c.Static.Dir == "" {
		c.Static.Dir = defaults.Static.Dir
	}
	if c.Static.Prefix == "" {
		c.Static.Prefix = defaults.Static.Prefix
	}
	if c.Upload.Dir == "" {
		c.Upload.Dir = defaults.Upload.Dir
	}
	if c.Upload.MaxFileSize == 0 {
		c.Upload.MaxFileSize = defaults.Upload.MaxFileSize
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = c.Server.Port
	}
	if c.Dev.Watch == nil {
		c.Dev.Watch = defaults.Dev.Watch
	}
	if c.Build.Output == "" {
		c.Build.Output = defaults.Build.Output
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E122").
			WithDetailf("Port %d is out of range", c.Server.Port)
	}
	if _, err := time.ParseDuration(c.Session.IdleTimeout); err != nil {
		return errors.New("E121").
			WithDetail("session.idleTimeout is not a valid duration: " + c.Session.IdleTimeout)
	}
	if _, err := time.ParseDuration(c.Session.HeartbeatInterval); err != nil {
		return errors.New("E121").
			WithDetail("session.heartbeatInterval is not a valid duration: " + c.Session.HeartbeatInterval)
	}
	return nil
}

// Address returns the host:port string for the server.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// DevAddress returns the host:port string for the dev server.
func (c *Config) DevAddress() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Dev.Port)
}

// IdleTimeout returns the parsed session idle timeout.
func (c *Config) IdleTimeout() time.Duration {
	d, err := time.ParseDuration(c.Session.IdleTimeout)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// HeartbeatInterval returns the parsed heartbeat interval.
func (c *Config) HeartbeatInterval() time.Duration {
	d, err := time.ParseDuration(c.Session.HeartbeatInterval)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// OutputPath returns the absolute path to the build output directory.
func (c *Config) OutputPath() string {
	if filepath.IsAbs(c.Build.Output) {
		return c.Build.Output
	}
	return filepath.Join(c.Dir(), c.Build.Output)
}

// StaticPath returns the absolute path to the static files directory.
func (c *Config) StaticPath() string {
	if filepath.IsAbs(c.Static.Dir) {
		return c.Static.Dir
	}
	return filepath.Join(c.Dir(), c.Static.Dir)
}

// UploadPath returns the absolute path to the upload staging directory.
func (c *Config) UploadPath() string {
	if filepath.IsAbs(c.Upload.Dir) {
		return c.Upload.Dir
	}
	return filepath.Join(c.Dir(), c.Upload.Dir)
}

// Exists reports whether a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up from startDir to the directory containing
// unison.json.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		if Exists(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E141").
				WithDetail("No unison.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration starting at the current
// working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}
	return Load(root)
}
