// Package config loads and validates unison.json, the project
// configuration file. Values resolve in three layers: built-in
// defaults, then the file, then UNISON_* environment variables.
package config
