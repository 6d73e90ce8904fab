package http

import (
	"bytes"
	"io"
	"net/http"

	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/utils"
)

// maxPeerBody bounds the size of an exchange envelope read into memory.
const maxPeerBody = 32 << 20

// bodyHashing checks the HashSHA256 header against an HMAC of the raw
// request body. Peers sign the exact bytes they send, so no re-encoding
// happens before hashing. Without a configured key the check is skipped.
func (h *Handler) bodyHashing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.hasher == nil {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)
		log.Debug().Str("func", "*Handler.bodyHashing").Msg("checking hash begins")

		body, err := io.ReadAll(io.LimitReader(r.Body, maxPeerBody))
		if err != nil {
			log.Err(err).Str("func", "*Handler.bodyHashing").Msg("failed to read request body")
			utils.WriteError(w, "failed to read request body", http.StatusBadRequest)
			return
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		hashFromRequest := r.Header.Get(utils.HashHeader)
		if !h.hasher.Equal(body, hashFromRequest) {
			log.Error().Str("func", "*Handler.bodyHashing").
				Str("hash from request", hashFromRequest).
				Str("hashed body", h.hasher.HashHex(body)).
				Msg("hashes are not equal")
			utils.WriteError(w, ErrIntegrityCheckFailed.Error(), http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}
