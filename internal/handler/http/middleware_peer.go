package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/utils"
)

// peerNode requires the X-Node-ID header on federation requests and stores
// the announced node id in the request context under [utils.PeerNodeCtxKey].
//
// The header alone proves nothing: the envelope signature is checked
// against the registry key of that node by the exchange service, and the
// handler rejects envelopes whose source differs from the header.
func (h *Handler) peerNode(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		nodeID := strings.TrimSpace(r.Header.Get(utils.NodeHeader))
		if nodeID == "" {
			log.Err(ErrEmptyNodeHeader).Str("func", "*Handler.peerNode").Send()
			utils.WriteError(w, ErrEmptyNodeHeader.Error(), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), utils.PeerNodeCtxKey, nodeID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
