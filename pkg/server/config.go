package server

import (
	"net/http"
	"time"
)

// SessionConfig tunes individual live sessions.
type SessionConfig struct {
	// ReadTimeout is the maximum time to wait for a client message.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// IdleTimeout is the time after which an inactive session is removed.
	// Default: 5 minutes.
	IdleTimeout time.Duration

	// HeartbeatInterval is the time between keepalive pings.
	// Default: 30 seconds.
	HeartbeatInterval time.Duration

	// MaxMessageSize caps incoming WebSocket messages.
	// Default: 64KB.
	MaxMessageSize int64

	// MaxEventQueue is the outgoing frame channel buffer size.
	// Default: 256.
	MaxEventQueue int

	// WatcherBudget caps watcher runs per update cycle. Watchers over
	// budget are carried into the next cycle.
	// Default: 1000.
	WatcherBudget int

	// Values resolves application-provided values by key. Components
	// reach it through the session environment. May be nil.
	Values func(key string) (any, bool)
}

// DefaultSessionConfig returns a SessionConfig with defaults applied.
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       5 * time.Minute,
		HeartbeatInterval: 30 * time.Second,
		MaxMessageSize:    64 * 1024,
		MaxEventQueue:     256,
		WatcherBudget:     1000,
	}
}

// Config configures the HTTP/WebSocket server.
type Config struct {
	// Address to listen on. Default: ":8080".
	Address string

	// ReadBufferSize is the WebSocket read buffer size. Default: 4096.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size. Default: 4096.
	WriteBufferSize int

	// CheckOrigin validates the Origin header during the WebSocket
	// upgrade. Default allows all origins; set this in production.
	CheckOrigin func(r *http.Request) bool

	// Session is the per-session configuration.
	// Default: DefaultSessionConfig().
	Session *SessionConfig

	// MaxSessions caps concurrent sessions. 0 means no limit.
	MaxSessions int

	// ShutdownTimeout bounds graceful shutdown. Default: 30 seconds.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Address:         ":8080",
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     func(r *http.Request) bool { return true },
		Session:         DefaultSessionConfig(),
		ShutdownTimeout: 30 * time.Second,
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	if c == nil {
		return DefaultConfig()
	}
	defaults := DefaultConfig()
	out := *c
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = defaults.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = defaults.WriteBufferSize
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = defaults.CheckOrigin
	}
	if out.Session == nil {
		out.Session = defaults.Session
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	return &out
}
