package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/service"
)

// NewExchangeSweeper returns a job that marks exchange bundles stale once
// they sat unverified past the federation stale window.
func NewExchangeSweeper(exchanges service.ExchangeService, now func() time.Time, log *logger.Logger) Worker {
	return newTickerJob("exchange-sweep", func(ctx context.Context) error {
		swept, err := exchanges.SweepStale(ctx, now().UTC())
		if err != nil {
			return err
		}
		for _, bundle := range swept {
			log.Warn().
				Str("bundle_id", bundle.ID).
				Str("target", bundle.TargetNode).
				Msg("exchange bundle marked stale")
		}
		return nil
	}, log)
}
