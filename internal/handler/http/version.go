package http

import (
	"net/http"

	"github.com/MKhiriev/go-proof-ledger/internal/utils"
)

type nodeInfo struct {
	NodeID  string `json:"node_id"`
	Version string `json:"version"`
}

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	serverVersion := h.services.AppInfoService.GetAppVersion(r.Context())

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(serverVersion))
}

func (h *Handler) getNodeInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	utils.WriteJSON(w, nodeInfo{
		NodeID:  h.services.AppInfoService.GetNodeID(ctx),
		Version: h.services.AppInfoService.GetAppVersion(ctx),
	}, http.StatusOK)
}
