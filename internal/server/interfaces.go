package server

import "context"

// Server defines the lifecycle contract of a node process.
type Server interface {
	// RunServer serves requests and blocks until ctx is cancelled or a stop
	// signal arrives.
	RunServer(ctx context.Context) error

	// Shutdown gracefully stops the listener and the background workers.
	Shutdown()
}
