// Package workers runs the periodic background jobs of a node: the
// exchange stale sweep and the block chain rebuild.
//
// Each job is a ticker loop started with Start and stopped with Stop. The
// Workers aggregate starts every job whose interval is positive and stops
// them all on shutdown.
package workers

import (
	"context"
	"time"
)

// Worker is a periodic background job.
type Worker interface {
	// Start stops any previous run, then calls the job every interval until
	// ctx is cancelled or Stop is called.
	Start(ctx context.Context, interval time.Duration)

	// Stop cancels the running loop and waits for it to exit. Safe to call
	// when the job is not running.
	Stop()
}
