package http

import (
	"net/http"

	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/utils"
	"github.com/MKhiriev/go-proof-ledger/models"
)

type evidenceRequest struct {
	AuditTrail []models.AuditEvent `json:"audit_trail"`
}

func (h *Handler) generateProof(w http.ResponseWriter, r *http.Request) {
	var input models.NoteInput
	if err := decodeJSON(r, &input, false); err != nil {
		writeError(w, r, "*Handler.generateProof", err)
		return
	}

	proof, err := h.services.ProofService.GenerateProof(r.Context(), input)
	if err != nil {
		writeError(w, r, "*Handler.generateProof", err)
		return
	}

	logger.FromRequest(r).Debug().Str("note_id", proof.NoteID).Msg("proof generated")
	utils.WriteJSON(w, proof, http.StatusCreated)
}

func (h *Handler) getProof(w http.ResponseWriter, r *http.Request) {
	proof, err := h.services.ProofService.GetProof(r.Context(), noteID(r))
	if err != nil {
		writeError(w, r, "*Handler.getProof", err)
		return
	}
	utils.WriteJSON(w, proof, http.StatusOK)
}

// createEvidence bundles the stored proof of the note with the audit trail
// from the body.
func (h *Handler) createEvidence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req evidenceRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(w, r, "*Handler.createEvidence", err)
		return
	}

	proof, err := h.services.ProofService.GetProof(ctx, noteID(r))
	if err != nil {
		writeError(w, r, "*Handler.createEvidence", err)
		return
	}

	locator, err := h.services.EvidenceService.CreateBundle(ctx, proof, req.AuditTrail)
	if err != nil {
		writeError(w, r, "*Handler.createEvidence", err)
		return
	}
	utils.WriteJSON(w, locator, http.StatusCreated)
}

func (h *Handler) getEvidence(w http.ResponseWriter, r *http.Request) {
	bundle, _, err := h.services.EvidenceService.LoadBundle(r.Context(), noteID(r))
	if err != nil {
		writeError(w, r, "*Handler.getEvidence", err)
		return
	}
	utils.WriteJSON(w, bundle, http.StatusOK)
}

// publish commits the current evidence bundle of the note to the public
// ledger.
func (h *Handler) publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, locator, err := h.services.EvidenceService.LoadBundle(ctx, noteID(r))
	if err != nil {
		writeError(w, r, "*Handler.publish", err)
		return
	}

	entry, err := h.services.LedgerService.Publish(ctx, locator)
	if err != nil {
		writeError(w, r, "*Handler.publish", err)
		return
	}
	utils.WriteJSON(w, entry, http.StatusCreated)
}

func (h *Handler) latestLedgerEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.services.LedgerService.LatestEntry(r.Context(), noteID(r))
	if err != nil {
		writeError(w, r, "*Handler.latestLedgerEntry", err)
		return
	}
	utils.WriteJSON(w, entry, http.StatusOK)
}

func (h *Handler) ledgerEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.services.LedgerService.Entries(r.Context())
	if err != nil {
		writeError(w, r, "*Handler.ledgerEntries", err)
		return
	}
	utils.WriteJSON(w, entries, http.StatusOK)
}

func (h *Handler) auditLedger(w http.ResponseWriter, r *http.Request) {
	audit, err := h.services.LedgerService.VerifyLog(r.Context())
	if err != nil {
		writeError(w, r, "*Handler.auditLedger", err)
		return
	}
	utils.WriteJSON(w, audit, http.StatusOK)
}

func (h *Handler) generateReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.services.ReportService.GenerateReport(r.Context(), noteID(r))
	if err != nil {
		writeError(w, r, "*Handler.generateReport", err)
		return
	}
	utils.WriteJSON(w, report, http.StatusCreated)
}

func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.services.ReportService.LoadReport(r.Context(), noteID(r))
	if err != nil {
		writeError(w, r, "*Handler.getReport", err)
		return
	}
	utils.WriteJSON(w, report, http.StatusOK)
}
