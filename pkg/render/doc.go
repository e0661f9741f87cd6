// Package render serializes vdom trees to HTML for the initial
// server-side response. Text and attribute values are escaped; event
// handlers never appear in markup, only data-hid and data-on-* markers
// the client uses to wire its listeners.
package render
