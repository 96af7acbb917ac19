// Package server wires and runs the application's transport server.
//
// It owns the HTTP server lifecycle: startup, OS signal handling, and
// graceful shutdown with a bounded drain window.
package server
