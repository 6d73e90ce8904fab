package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-proof-ledger/internal/adapter"
	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/service"
	"github.com/MKhiriev/go-proof-ledger/internal/store"
	"github.com/MKhiriev/go-proof-ledger/internal/utils"
)

// errorStatuses is checked in order; specific sentinels come before the
// class they wrap.
var errorStatuses = []struct {
	target error
	status int
}{
	{service.ErrProofExists, http.StatusConflict},
	{service.ErrBundleNotSendable, http.StatusConflict},
	{ErrPeerMismatch, http.StatusForbidden},
	{ErrIntegrityCheckFailed, http.StatusBadRequest},
	{ErrInvalidJSON, http.StatusBadRequest},
	{ErrEmptyNodeHeader, http.StatusUnauthorized},
	{service.ErrInvalidInput, http.StatusBadRequest},
	{service.ErrVersionIsNotSpecified, http.StatusBadRequest},

	{service.ErrMissingPrerequisite, http.StatusNotFound},
	{store.ErrNotFound, http.StatusNotFound},

	{service.ErrTransport, http.StatusBadGateway},
	{adapter.ErrRetriesExhausted, http.StatusBadGateway},

	{store.ErrLockNotAcquired, http.StatusServiceUnavailable},
	{service.ErrStorage, http.StatusInternalServerError},
	{store.ErrLogCorrupted, http.StatusInternalServerError},
}

func statusFromError(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.target) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// writeError logs err and answers with its mapped status. Server-side
// failures are not echoed to the caller.
func writeError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	status := statusFromError(err)

	log := logger.FromRequest(r)
	if status >= http.StatusInternalServerError {
		log.Err(err).Str("func", funcName).Int("status", status).Msg("request failed")
		utils.WriteError(w, http.StatusText(status), status)
		return
	}

	log.Warn().Err(err).Str("func", funcName).Int("status", status).Msg("request rejected")
	utils.WriteError(w, err.Error(), status)
}
