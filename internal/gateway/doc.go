// ABOUTME: Package documentation for the gateway package
// ABOUTME: Explains how the pieces are assembled into an HTTP server

// Package gateway assembles selectgate's HTTP server.
//
// The request pipeline is: session middleware (cookie → session), auth
// middleware (the decision engine), then the application handlers. The
// health endpoint sits outside the pipeline. The gateway owns the SQLite
// store's lifecycle and shuts the server down gracefully on signal.
package gateway
