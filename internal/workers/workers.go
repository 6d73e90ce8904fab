package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-proof-ledger/internal/config"
	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/service"
)

type scheduled struct {
	worker   Worker
	interval time.Duration
}

// Workers owns every enabled background job of a node.
type Workers struct {
	jobs   []scheduled
	logger *logger.Logger
}

// NewWorkers builds the jobs enabled in cfg. A zero interval leaves a job
// out entirely.
func NewWorkers(services *service.Services, cfg config.Workers, log *logger.Logger) *Workers {
	w := &Workers{logger: log}

	if cfg.ExchangeSweepInterval > 0 {
		w.add(NewExchangeSweeper(services.ExchangeService, time.Now, log), cfg.ExchangeSweepInterval)
	}
	if cfg.ChainRebuildInterval > 0 {
		w.add(NewChainRebuilder(services.ChainService, log), cfg.ChainRebuildInterval)
	}

	return w
}

func (w *Workers) add(worker Worker, interval time.Duration) {
	w.jobs = append(w.jobs, scheduled{worker: worker, interval: interval})
}

// Len returns the number of enabled jobs.
func (w *Workers) Len() int {
	return len(w.jobs)
}

// Start launches every job. The jobs exit when ctx is cancelled.
func (w *Workers) Start(ctx context.Context) {
	for _, job := range w.jobs {
		job.worker.Start(ctx, job.interval)
	}
}

// Stop stops the jobs in reverse start order and waits for each one.
func (w *Workers) Stop() {
	for i := len(w.jobs) - 1; i >= 0; i-- {
		w.jobs[i].worker.Stop()
	}
	if len(w.jobs) > 0 {
		w.logger.Info().Int("jobs", len(w.jobs)).Msg("background jobs stopped")
	}
}
