// Package server holds the HTTP server configuration.
//
// The main entry point starts Fiber; this package only defines the listen port, the
// API key protecting the routes and the graceful shutdown budget.
package server
