// Package build produces production builds of a Unison project: the
// compiled server binary, hashed static assets, and the asset manifest
// the server uses to resolve hashed names.
package build
