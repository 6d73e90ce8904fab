package http

import (
	"net/http"

	"github.com/MKhiriev/go-proof-ledger/internal/utils"
)

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.services.DashboardService.LoadDashboard(r.Context())
	if err != nil {
		writeError(w, r, "*Handler.getDashboard", err)
		return
	}
	utils.WriteJSON(w, dashboard, http.StatusOK)
}

func (h *Handler) buildDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.services.DashboardService.BuildDashboard(r.Context())
	if err != nil {
		writeError(w, r, "*Handler.buildDashboard", err)
		return
	}
	utils.WriteJSON(w, dashboard, http.StatusOK)
}

func (h *Handler) getChain(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.services.ChainService.Blocks(r.Context())
	if err != nil {
		writeError(w, r, "*Handler.getChain", err)
		return
	}
	utils.WriteJSON(w, blocks, http.StatusOK)
}

func (h *Handler) buildChain(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.services.ChainService.BuildLedger(r.Context())
	if err != nil {
		writeError(w, r, "*Handler.buildChain", err)
		return
	}
	utils.WriteJSON(w, blocks, http.StatusOK)
}

// validateChain answers 200 for a broken chain too; the body says where
// it broke.
func (h *Handler) validateChain(w http.ResponseWriter, r *http.Request) {
	validation, err := h.services.ChainService.ValidateLedger(r.Context())
	if err != nil {
		writeError(w, r, "*Handler.validateChain", err)
		return
	}
	utils.WriteJSON(w, validation, http.StatusOK)
}

func (h *Handler) regulatorPortal(w http.ResponseWriter, r *http.Request) {
	portal, err := h.services.PortalService.Regulator(r.Context())
	if err != nil {
		writeError(w, r, "*Handler.regulatorPortal", err)
		return
	}
	utils.WriteJSON(w, portal, http.StatusOK)
}

func (h *Handler) patientView(w http.ResponseWriter, r *http.Request) {
	view, err := h.services.PortalService.Patient(r.Context(), noteID(r))
	if err != nil {
		writeError(w, r, "*Handler.patientView", err)
		return
	}
	utils.WriteJSON(w, view, http.StatusOK)
}
