package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/go-proof-ledger/internal/adapter"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging, withGZip)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	router.Get("/api/version", h.getServerVersion)
	router.Get("/api/node", h.getNodeInfo)

	router.Route("/api/notes", func(r chi.Router) {
		r.Post("/", h.generateProof)
		r.Route("/{noteID}", func(r chi.Router) {
			r.Get("/proof", h.getProof)
			r.Post("/evidence", h.createEvidence)
			r.Get("/evidence", h.getEvidence)
			r.Post("/publish", h.publish)
			r.Get("/ledger", h.latestLedgerEntry)
			r.Post("/report", h.generateReport)
			r.Get("/report", h.getReport)
			r.Post("/export", h.createExport)
			r.Post("/validations", h.validateExport)
			r.Get("/validations", h.validationHistory)
		})
	})

	router.Get("/api/ledger", h.ledgerEntries)
	router.Get("/api/ledger/audit", h.auditLedger)
	router.Get("/api/validations", h.validations)

	router.Post("/api/insurance/sync", h.syncInsurance)
	router.Get("/api/insurance/entries", h.insuranceEntries)

	router.Get("/api/dashboard", h.getDashboard)
	router.Post("/api/dashboard", h.buildDashboard)

	router.Get("/api/chain", h.getChain)
	router.Post("/api/chain", h.buildChain)
	router.Get("/api/chain/validation", h.validateChain)

	router.Route("/api/exchanges", func(r chi.Router) {
		r.Get("/", h.exchanges)
		r.Post("/", h.createExchange)
		r.Post("/verify", h.verifyExchange)
		r.Post("/sweep", h.sweepExchanges)
		r.Post("/{bundleID}/deliver", h.deliverExchange)
	})

	// peer ingest
	router.Group(func(r chi.Router) {
		r.Use(h.peerNode, h.bodyHashing)
		r.Post(adapter.ExchangePath, h.receiveExchange)
	})

	router.Get("/portal/regulator", h.regulatorPortal)
	router.Get("/portal/patients/{noteID}", h.patientView)

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
