// Package dev implements the development workflow behind "unison dev":
// a polling file watcher, an incremental compiler, and a process runner
// that restarts the application when source files change. Live sessions
// reconnect on their own after a restart.
package dev
