package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-proof-ledger/internal/service"
	"github.com/MKhiriev/go-proof-ledger/internal/utils"
	"github.com/MKhiriev/go-proof-ledger/models"
)

type validationRequest struct {
	RegulatorName string `json:"regulator_name"`
}

type insuranceSyncRequest struct {
	Insurer string `json:"insurer"`
}

// insuranceSyncResponse carries per-record delivery failures next to the
// partial result, so a caller can see what did get through.
type insuranceSyncResponse struct {
	models.InsuranceSyncResult
	Errors []string `json:"errors,omitempty"`
}

func (h *Handler) createExport(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.services.ExportService.CreateExportBundle(r.Context(), noteID(r))
	if err != nil {
		writeError(w, r, "*Handler.createExport", err)
		return
	}
	utils.WriteJSON(w, bundle, http.StatusCreated)
}

// validateExport always answers 200 once validation ran: a failed check is
// a record with verified=false.
func (h *Handler) validateExport(w http.ResponseWriter, r *http.Request) {
	var req validationRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(w, r, "*Handler.validateExport", err)
		return
	}

	record, err := h.services.ExportService.ValidateBundle(r.Context(), noteID(r), req.RegulatorName)
	if err != nil {
		writeError(w, r, "*Handler.validateExport", err)
		return
	}
	utils.WriteJSON(w, record, http.StatusOK)
}

func (h *Handler) validationHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.services.ExportService.History(r.Context(), noteID(r))
	if err != nil {
		writeError(w, r, "*Handler.validationHistory", err)
		return
	}
	utils.WriteJSON(w, records, http.StatusOK)
}

func (h *Handler) validations(w http.ResponseWriter, r *http.Request) {
	records, err := h.services.ExportService.Validations(r.Context())
	if err != nil {
		writeError(w, r, "*Handler.validations", err)
		return
	}
	utils.WriteJSON(w, records, http.StatusOK)
}

func (h *Handler) syncInsurance(w http.ResponseWriter, r *http.Request) {
	var req insuranceSyncRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, r, "*Handler.syncInsurance", err)
		return
	}

	result, err := h.services.InsuranceService.SyncAll(r.Context(), req.Insurer)
	if err == nil {
		utils.WriteJSON(w, insuranceSyncResponse{InsuranceSyncResult: result}, http.StatusOK)
		return
	}
	if !errors.Is(err, service.ErrTransport) || errors.Is(err, service.ErrStorage) {
		writeError(w, r, "*Handler.syncInsurance", err)
		return
	}

	resp := insuranceSyncResponse{InsuranceSyncResult: result}
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			resp.Errors = append(resp.Errors, e.Error())
		}
	} else {
		resp.Errors = []string{err.Error()}
	}
	utils.WriteJSON(w, resp, http.StatusBadGateway)
}

func (h *Handler) insuranceEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.services.InsuranceService.Entries(r.Context())
	if err != nil {
		writeError(w, r, "*Handler.insuranceEntries", err)
		return
	}
	utils.WriteJSON(w, entries, http.StatusOK)
}
