package service

import (
	"github.com/MKhiriev/go-proof-ledger/internal/adapter"
	"github.com/MKhiriev/go-proof-ledger/internal/config"
	"github.com/MKhiriev/go-proof-ledger/internal/crypto"
	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/store"
)

// Services wires every component of a node in pipeline order.
type Services struct {
	ProofService     ProofService
	EvidenceService  EvidenceService
	LedgerService    LedgerService
	ReportService    ReportService
	ExportService    ExportService
	InsuranceService InsuranceService
	DashboardService DashboardService
	ChainService     ChainService
	ExchangeService  ExchangeService
	PortalService    PortalService
	AppInfoService   AppInfoService
}

func NewServices(
	storages *store.Storages,
	signer crypto.Signer,
	registry *crypto.Registry,
	insurer adapter.InsurerTransport,
	peer adapter.PeerTransport,
	cfg config.StructuredConfig,
	logger *logger.Logger,
) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	proofs := NewProofValidationService().Wrap(NewProofService(storages.ProofRepository, signer, registry, logger))
	evidence := NewEvidenceService(proofs, storages.Artifacts, logger)
	ledger := NewLedgerService(storages.PublicLedger, storages.Artifacts, logger)
	reports := NewReportService(proofs, evidence, ledger, NewSealer(signer, registry), storages.Artifacts, logger)
	exports := NewExportService(proofs, ledger, storages.Artifacts, storages.ValidationLedger, cfg.App.RegulatorName, logger)
	insurance := NewInsuranceService(storages.ValidationLedger, storages.InsuranceLog, insurer, logger)
	dashboard := NewDashboardService(storages.ProofRepository, proofs, reports, storages.Artifacts, storages.ValidationLedger, storages.InsuranceLog, logger)
	chain := NewChainService(dashboard, storages.Chain, signer, logger)
	exchange := NewExchangeService(chain, storages.Artifacts, storages.ExchangeLog, signer, registry, peer, cfg.Federation.StaleAfter, logger)
	portal := NewPortalService(chain, dashboard, exchange, proofs, signer, cfg.Signing.TokenTTL, logger)

	return &Services{
		ProofService:     proofs,
		EvidenceService:  evidence,
		LedgerService:    ledger,
		ReportService:    reports,
		ExportService:    exports,
		InsuranceService: insurance,
		DashboardService: dashboard,
		ChainService:     chain,
		ExchangeService:  exchange,
		PortalService:    portal,
		AppInfoService:   appInfo,
	}, nil
}
