// Package templates holds the project scaffolds used by
// "unison create". Each scaffold is a set of text/template files
// rendered against the project name and module path.
package templates
