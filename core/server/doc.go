// Package server holds the HTTP server configuration.
//
// The Config struct defines the listen port, the CORS origin allowed to call the API and
// the push endpoint, the deployment environment name and the graceful shutdown budget.
// It is embedded by core/config and consumed by the start command.
package server
