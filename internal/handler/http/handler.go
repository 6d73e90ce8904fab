package http

import (
	"time"

	"github.com/MKhiriev/go-proof-ledger/internal/config"
	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/service"
	"github.com/MKhiriev/go-proof-ledger/internal/utils"
)

type Handler struct {
	services *service.Services

	// hasher checks the HashSHA256 header of peer requests; nil disables
	// the check.
	hasher         *utils.Hasher
	requestTimeout time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		hasher:         utils.NewHasher(cfg.Federation.HashKey),
		requestTimeout: cfg.Server.RequestTimeout,
		logger:         logger,
	}
}
