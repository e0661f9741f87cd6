// Package server runs the live side of a Unison application. Each
// connected client gets a Session holding a mounted component tree; DOM
// events arrive over a WebSocket as binary frames, run their handlers
// inside a batch, and the resulting watcher runs and re-renders are
// diffed into a patch batch streamed back to the client.
//
// The HTTP side serves the initial server-rendered document for any
// path and upgrades /_unison/ws for the session transport.
package server
