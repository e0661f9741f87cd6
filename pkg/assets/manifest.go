// Package assets resolves fingerprinted asset paths at runtime.
//
// "unison build" writes a manifest.json mapping source asset names to
// their content-hashed copies:
//
//	{
//	  "logo.png": "logo.a1b2c3d4.png",
//	  "styles.css": "styles.e5f6g7h8.css"
//	}
//
// Loading that manifest gives components stable source names while the
// served files carry cache-busting hashes:
//
//	manifest, _ := assets.Load("dist/manifest.json")
//	resolver := assets.NewResolver(manifest, "/static/")
//	resolver.Asset("logo.png") // "/static/logo.a1b2c3d4.png"
package assets

import (
	"encoding/json"
	"os"
	"sync"
)

// Manifest maps source asset paths to fingerprinted paths. Safe for
// concurrent use.
type Manifest struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{entries: make(map[string]string)}
}

// Load reads a manifest.json file written by the build.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return &Manifest{entries: entries}, nil
}

// Resolve returns the fingerprinted path for source, or source itself
// when the manifest has no entry for it.
func (m *Manifest) Resolve(source string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if resolved, ok := m.entries[source]; ok {
		return resolved
	}
	return source
}

// Has reports whether the manifest contains source.
func (m *Manifest) Has(source string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[source]
	return ok
}

// Set adds or updates an entry.
func (m *Manifest) Set(source, resolved string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[source] = resolved
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
