// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-proof-ledger/internal/logger"
)

const defaultInterval = 5 * time.Minute

type tickerJob struct {
	name   string
	run    func(ctx context.Context) error
	logger *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newTickerJob(name string, run func(ctx context.Context) error, log *logger.Logger) *tickerJob {
	return &tickerJob{name: name, run: run, logger: log}
}

// Start implements Worker. A non-positive interval falls back to five
// minutes; the aggregate never starts a disabled job.
func (j *tickerJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultInterval
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	j.logger.Info().Str("job", j.name).Dur("interval", interval).Msg("background job started")

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.tick(jobCtx)
			}
		}
	}()
}

func (j *tickerJob) tick(ctx context.Context) {
	started := time.Now()
	if err := j.run(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		j.logger.Err(err).Str("job", j.name).Msg("background job failed")
		return
	}
	j.logger.Debug().Str("job", j.name).Dur("took", time.Since(started)).Msg("background job finished")
}

// Stop implements Worker.
func (j *tickerJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
