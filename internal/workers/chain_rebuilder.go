package workers

import (
	"context"

	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/service"
)

// NewChainRebuilder returns a job that rebuilds the block chain so notes
// proven since the last build become chained without an operator call.
func NewChainRebuilder(chain service.ChainService, log *logger.Logger) Worker {
	return newTickerJob("chain-rebuild", func(ctx context.Context) error {
		blocks, err := chain.BuildLedger(ctx)
		if err != nil {
			return err
		}
		log.Debug().Int("blocks", len(blocks)).Msg("chain rebuilt")
		return nil
	}, log)
}
