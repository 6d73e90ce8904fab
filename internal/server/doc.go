// Package server runs the HTTP listener of a proof ledger node together with
// its background workers.
//
// It owns startup, signal handling and graceful shutdown: on SIGTERM, SIGINT
// or SIGQUIT the listener drains in-flight requests within the configured
// shutdown timeout and the workers are stopped before Run returns.
package server
