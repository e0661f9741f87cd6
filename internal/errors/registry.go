package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
	DocURL     string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Reactive runtime (E001-E019)

	"E001": {
		Category:   CategoryReactive,
		Message:    "Reactive value read outside a tracking context",
		Detail:     "Refs and reactive objects only register dependencies when read inside a component render, a watcher, or a computed.",
		Suggestion: "Move the read into the render closure or a WatchEffect.",
		DocURL:     "https://unison-ui.dev/docs/errors/E001",
	},
	"E002": {
		Category:   CategoryReactive,
		Message:    "Watcher created outside a scope",
		Detail:     "WatchEffect needs an owning scope so the watcher is disposed with its component.",
		Suggestion: "Create the watcher inside a component setup function or wrap the call in reactive.WithScope.",
		DocURL:     "https://unison-ui.dev/docs/errors/E002",
	},
	"E003": {
		Category:   CategoryReactive,
		Message:    "Watcher budget exceeded",
		Detail:     "Watchers kept re-running past the per-cycle budget. Two watchers writing each other's dependencies is the usual cause.",
		Suggestion: "Break the cycle: derive one value from the other with a computed instead of mirroring writes.",
		DocURL:     "https://unison-ui.dev/docs/errors/E003",
	},
	"E004": {
		Category:   CategoryReactive,
		Message:    "Scope already disposed",
		Detail:     "A ref or watcher belonging to a disposed scope was used. This usually means state escaped an unmounted component.",
		DocURL:     "https://unison-ui.dev/docs/errors/E004",
	},

	// Sessions and components (E020-E039)

	"E020": {
		Category: CategorySession,
		Message:  "Session not found",
		Detail:   "The session ID is invalid or the session has expired.",
		DocURL:   "https://unison-ui.dev/docs/errors/E020",
	},
	"E021": {
		Category: CategorySession,
		Message:  "Session limit reached",
		Detail:   "The server is at its configured maximum number of concurrent sessions.",
		DocURL:   "https://unison-ui.dev/docs/errors/E021",
	},
	"E022": {
		Category:   CategorySession,
		Message:    "Handler not found",
		Detail:     "The event's hydration ID has no registered handler. The tree may have re-rendered since the client sent the event.",
		Suggestion: "Stale events are dropped silently in production; a resync brings the client back in step.",
		DocURL:     "https://unison-ui.dev/docs/errors/E022",
	},
	"E023": {
		Category: CategorySession,
		Message:  "Component setup ran twice",
		Detail:   "A component definition's setup function was invoked again for an already-mounted instance.",
		DocURL:   "https://unison-ui.dev/docs/errors/E023",
	},
	"E024": {
		Category: CategorySession,
		Message:  "Root render returned nil",
		Detail:   "The root component's render function returned no tree.",
		DocURL:   "https://unison-ui.dev/docs/errors/E024",
	},

	// Wire protocol (E060-E079)

	"E060": {
		Category: CategoryProtocol,
		Message:  "WebSocket connection failed",
		Detail:   "Unable to establish a WebSocket connection to the server.",
		DocURL:   "https://unison-ui.dev/docs/errors/E060",
	},
	"E061": {
		Category: CategoryProtocol,
		Message:  "Invalid message format",
		Detail:   "The received frame could not be decoded.",
		DocURL:   "https://unison-ui.dev/docs/errors/E061",
	},
	"E062": {
		Category: CategoryProtocol,
		Message:  "Unknown event type",
		Detail:   "The event type byte is not recognized by the server.",
		DocURL:   "https://unison-ui.dev/docs/errors/E062",
	},
	"E063": {
		Category:   CategoryProtocol,
		Message:    "Protocol version mismatch",
		Detail:     "The client and server speak incompatible protocol versions.",
		Suggestion: "Reload the page so the client picks up the current script bundle.",
		DocURL:     "https://unison-ui.dev/docs/errors/E063",
	},
	"E064": {
		Category: CategoryProtocol,
		Message:  "Message too large",
		Detail:   "A frame exceeded the decoder's allocation limit.",
		DocURL:   "https://unison-ui.dev/docs/errors/E064",
	},

	// Uploads (E080-E089)

	"E080": {
		Category: CategoryUpload,
		Message:  "Upload not found",
		Detail:   "The temp ID does not name a staged upload. It may have been claimed already or cleaned up.",
		DocURL:   "https://unison-ui.dev/docs/errors/E080",
	},
	"E081": {
		Category: CategoryUpload,
		Message:  "Upload too large",
		Detail:   "The file exceeds the configured maximum upload size.",
		DocURL:   "https://unison-ui.dev/docs/errors/E081",
	},

	// Configuration (E120-E139)

	"E120": {
		Category:   CategoryConfig,
		Message:    "Invalid unison.json",
		Detail:     "The unison.json configuration file is malformed.",
		Suggestion: "Check for trailing commas and unquoted keys.",
		DocURL:     "https://unison-ui.dev/docs/errors/E120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Missing required configuration",
		Detail:   "A required configuration value is not set.",
		DocURL:   "https://unison-ui.dev/docs/errors/E121",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid listen address",
		Detail:   "The configured address could not be parsed or the port is already in use.",
		DocURL:   "https://unison-ui.dev/docs/errors/E122",
	},

	// CLI (E140-E159)

	"E140": {
		Category: CategoryCLI,
		Message:  "Project directory already exists",
		Detail:   "A directory with this name already exists.",
		DocURL:   "https://unison-ui.dev/docs/errors/E140",
	},
	"E141": {
		Category:   CategoryCLI,
		Message:    "Not a Unison project",
		Detail:     "The current directory has no unison.json.",
		Suggestion: "Run this command from the project root, or create a project with 'unison create'.",
		DocURL:     "https://unison-ui.dev/docs/errors/E141",
	},
	"E142": {
		Category: CategoryCLI,
		Message:  "Build failed",
		Detail:   "The Go build command failed. Check the output for compiler errors.",
		DocURL:   "https://unison-ui.dev/docs/errors/E142",
	},
	"E143": {
		Category: CategoryCLI,
		Message:  "Go not found",
		Detail:   "Go is not installed or not in PATH.",
		DocURL:   "https://unison-ui.dev/docs/errors/E143",
	},
	"E144": {
		Category: CategoryCLI,
		Message:  "Invalid project name",
		Detail:   "Project names must be valid Go module names.",
		DocURL:   "https://unison-ui.dev/docs/errors/E144",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
