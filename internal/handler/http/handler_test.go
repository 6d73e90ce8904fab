package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-proof-ledger/internal/adapter"
	"github.com/MKhiriev/go-proof-ledger/internal/config"
	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/service"
	"github.com/MKhiriev/go-proof-ledger/internal/utils"
	"github.com/MKhiriev/go-proof-ledger/internal/validators"
	"github.com/MKhiriev/go-proof-ledger/models"
)

type testServices struct {
	proofs    *fakeProofs
	evidence  *fakeEvidence
	ledger    *fakeLedger
	reports   *fakeReports
	exports   *fakeExports
	insurance *fakeInsurance
	chain     *fakeChain
	exchanges *fakeExchanges
	portal    *fakePortal
}

func newTestServices() (*service.Services, *testServices) {
	fakes := &testServices{
		proofs:    &fakeProofs{},
		evidence:  &fakeEvidence{},
		ledger:    &fakeLedger{},
		reports:   &fakeReports{},
		exports:   &fakeExports{},
		insurance: &fakeInsurance{},
		chain:     &fakeChain{},
		exchanges: &fakeExchanges{},
		portal:    &fakePortal{},
	}
	return &service.Services{
		ProofService:     fakes.proofs,
		EvidenceService:  fakes.evidence,
		LedgerService:    fakes.ledger,
		ReportService:    fakes.reports,
		ExportService:    fakes.exports,
		InsuranceService: fakes.insurance,
		DashboardService: fakeDashboard{},
		ChainService:     fakes.chain,
		ExchangeService:  fakes.exchanges,
		PortalService:    fakes.portal,
		AppInfoService:   &fakeAppInfo{version: "1.2.3", nodeID: "clinic-a"},
	}, fakes
}

func newTestRouter(t *testing.T, hashKey string) (http.Handler, *testServices) {
	t.Helper()
	services, fakes := newTestServices()
	cfg := config.StructuredConfig{Federation: config.Federation{HashKey: hashKey}}
	return NewHandler(services, cfg, logger.Nop()).Init(), fakes
}

func do(t *testing.T, router http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestNewHandler(t *testing.T) {
	services, _ := newTestServices()
	log := logger.Nop()

	withKey := NewHandler(services, config.StructuredConfig{Federation: config.Federation{HashKey: "k"}}, log)
	withoutKey := NewHandler(services, config.StructuredConfig{}, log)

	assert.Same(t, services, withKey.services)
	assert.Equal(t, log, withKey.logger)
	assert.NotNil(t, withKey.hasher)
	assert.Nil(t, withoutKey.hasher)
}

func TestInit_RegistersAllRoutes(t *testing.T) {
	router, _ := newTestRouter(t, "")

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/version"},
		{http.MethodGet, "/api/node"},
		{http.MethodPost, "/api/notes"},
		{http.MethodGet, "/api/notes/n1/proof"},
		{http.MethodPost, "/api/notes/n1/evidence"},
		{http.MethodGet, "/api/notes/n1/evidence"},
		{http.MethodPost, "/api/notes/n1/publish"},
		{http.MethodGet, "/api/notes/n1/ledger"},
		{http.MethodPost, "/api/notes/n1/report"},
		{http.MethodGet, "/api/notes/n1/report"},
		{http.MethodPost, "/api/notes/n1/export"},
		{http.MethodPost, "/api/notes/n1/validations"},
		{http.MethodGet, "/api/notes/n1/validations"},
		{http.MethodGet, "/api/ledger"},
		{http.MethodGet, "/api/ledger/audit"},
		{http.MethodGet, "/api/validations"},
		{http.MethodPost, "/api/insurance/sync"},
		{http.MethodGet, "/api/insurance/entries"},
		{http.MethodGet, "/api/dashboard"},
		{http.MethodPost, "/api/dashboard"},
		{http.MethodGet, "/api/chain"},
		{http.MethodPost, "/api/chain"},
		{http.MethodGet, "/api/chain/validation"},
		{http.MethodGet, "/api/exchanges"},
		{http.MethodPost, "/api/exchanges"},
		{http.MethodPost, "/api/exchanges/verify"},
		{http.MethodPost, "/api/exchanges/sweep"},
		{http.MethodPost, "/api/exchanges/b1/deliver"},
		{http.MethodPost, adapter.ExchangePath},
		{http.MethodGet, "/portal/regulator"},
		{http.MethodGet, "/portal/patients/n1"},
	}

	for _, tc := range routes {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := do(t, router, tc.method, tc.path, nil, nil)

			// bad bodies answer 400, missing peer headers 401; both prove
			// the route exists
			assert.NotEqual(t, http.StatusNotFound, rec.Code)
			assert.NotEqual(t, http.StatusMethodNotAllowed, rec.Code)
		})
	}
}

func TestInit_UnknownRouteAndWrongMethod(t *testing.T) {
	router, _ := newTestRouter(t, "")

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/nonexistent", nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodDelete, "/api/chain", nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodPut, "/api/notes/n1/proof", nil, nil).Code)
}

func TestInit_SetsTraceID(t *testing.T) {
	router, _ := newTestRouter(t, "")

	rec := do(t, router, http.MethodGet, "/api/version", nil, nil)

	assert.NotEmpty(t, rec.Header().Get(traceIDHeader))
}

func TestVersionAndNode(t *testing.T) {
	router, _ := newTestRouter(t, "")

	version := do(t, router, http.MethodGet, "/api/version", nil, nil)
	require.Equal(t, http.StatusOK, version.Code)
	assert.Equal(t, "1.2.3", version.Body.String())
	assert.Equal(t, "text/plain", version.Header().Get("Content-Type"))

	node := do(t, router, http.MethodGet, "/api/node", nil, nil)
	require.Equal(t, http.StatusOK, node.Code)
	info := decodeBody[nodeInfo](t, node)
	assert.Equal(t, nodeInfo{NodeID: "clinic-a", Version: "1.2.3"}, info)
}

func TestGenerateProof(t *testing.T) {
	router, fakes := newTestRouter(t, "")
	var got models.NoteInput
	fakes.proofs.GenerateFn = func(_ context.Context, input models.NoteInput) (models.ProofRecord, error) {
		got = input
		return models.ProofRecord{NoteID: input.NoteID, Verified: true}, nil
	}

	input := models.NoteInput{UserID: "u1", NoteID: "n1", IntegrityHash: "h1", ConsentVersion: "1.1"}
	rec := do(t, router, http.MethodPost, "/api/notes", input, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, input, got)
	proof := decodeBody[models.ProofRecord](t, rec)
	assert.True(t, proof.Verified)
}

func TestErrorStatuses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid input", err: fmt.Errorf("%w: %w", service.ErrInvalidInput, validators.ErrEmptyNoteID), want: http.StatusBadRequest},
		{name: "proof exists", err: service.ErrProofExists, want: http.StatusConflict},
		{name: "missing prerequisite", err: service.ErrProofNotFound, want: http.StatusNotFound},
		{name: "transport", err: fmt.Errorf("%w: %w", service.ErrTransport, adapter.ErrBadGateway), want: http.StatusBadGateway},
		{name: "storage", err: fmt.Errorf("%w: disk full", service.ErrStorage), want: http.StatusInternalServerError},
		{name: "unclassified", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, fakes := newTestRouter(t, "")
			fakes.proofs.GenerateFn = func(context.Context, models.NoteInput) (models.ProofRecord, error) {
				return models.ProofRecord{}, tt.err
			}

			rec := do(t, router, http.MethodPost, "/api/notes", models.NoteInput{NoteID: "n1"}, nil)

			assert.Equal(t, tt.want, rec.Code)
			body := decodeBody[utils.ErrorResponse](t, rec)
			if tt.want >= http.StatusInternalServerError {
				assert.Equal(t, http.StatusText(tt.want), body.Error, "server errors are not echoed")
			} else {
				assert.Equal(t, tt.err.Error(), body.Error)
			}
		})
	}
}

func TestGenerateProof_InvalidJSON(t *testing.T) {
	router, _ := newTestRouter(t, "")

	rec := do(t, router, http.MethodPost, "/api/notes", []byte("{"), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateEvidence_UsesStoredProof(t *testing.T) {
	router, fakes := newTestRouter(t, "")
	var (
		gotProof models.ProofRecord
		gotTrail []models.AuditEvent
	)
	fakes.proofs.GetFn = func(_ context.Context, noteID string) (models.ProofRecord, error) {
		return models.ProofRecord{NoteID: noteID, IntegrityHash: "h1"}, nil
	}
	fakes.evidence.CreateFn = func(_ context.Context, proof models.ProofRecord, trail []models.AuditEvent) (models.BundleLocator, error) {
		gotProof, gotTrail = proof, trail
		return models.BundleLocator{NoteID: proof.NoteID, Key: "evidence/n1/bundle.json"}, nil
	}

	rec := do(t, router, http.MethodPost, "/api/notes/n1/evidence", evidenceRequest{
		AuditTrail: []models.AuditEvent{{Action: "note.signed", Actor: "dr-lee"}},
	}, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "h1", gotProof.IntegrityHash)
	require.Len(t, gotTrail, 1)
	assert.Equal(t, "note.signed", gotTrail[0].Action)
}

func TestCreateEvidence_MissingProof(t *testing.T) {
	router, fakes := newTestRouter(t, "")
	fakes.proofs.GetFn = func(context.Context, string) (models.ProofRecord, error) {
		return models.ProofRecord{}, service.ErrProofNotFound
	}

	rec := do(t, router, http.MethodPost, "/api/notes/n1/evidence", nil, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPublish_UsesStoredLocator(t *testing.T) {
	router, fakes := newTestRouter(t, "")
	fakes.evidence.LoadFn = func(_ context.Context, noteID string) (models.EvidenceBundle, models.BundleLocator, error) {
		return models.EvidenceBundle{}, models.BundleLocator{NoteID: noteID, ContentHash: "abc"}, nil
	}
	var got models.BundleLocator
	fakes.ledger.PublishFn = func(_ context.Context, locator models.BundleLocator) (models.LedgerEntry, error) {
		got = locator
		return models.LedgerEntry{NoteID: locator.NoteID}, nil
	}

	rec := do(t, router, http.MethodPost, "/api/notes/n7/publish", nil, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, models.BundleLocator{NoteID: "n7", ContentHash: "abc"}, got)
}

func TestValidateExport_FailedCheckIsStill200(t *testing.T) {
	router, fakes := newTestRouter(t, "")
	fakes.exports.ValidateFn = func(_ context.Context, noteID, regulator string) (models.ValidationRecord, error) {
		return models.ValidationRecord{NoteID: noteID, RegulatorName: regulator, Reasons: []string{"reports/report.txt is listed but not archived"}}, nil
	}

	rec := do(t, router, http.MethodPost, "/api/notes/n1/validations", validationRequest{RegulatorName: "state-board"}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	record := decodeBody[models.ValidationRecord](t, rec)
	assert.False(t, record.Verified)
	assert.Equal(t, "state-board", record.RegulatorName)
	assert.NotEmpty(t, record.Reasons)
}

func TestValidateExport_EmptyBodyUsesDefaultRegulator(t *testing.T) {
	router, fakes := newTestRouter(t, "")
	regulator := "unset"
	fakes.exports.ValidateFn = func(_ context.Context, _ string, name string) (models.ValidationRecord, error) {
		regulator = name
		return models.ValidationRecord{}, nil
	}

	rec := do(t, router, http.MethodPost, "/api/notes/n1/validations", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", regulator)
}

func TestSyncInsurance(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		router, _ := newTestRouter(t, "")

		rec := do(t, router, http.MethodPost, "/api/insurance/sync", insuranceSyncRequest{Insurer: "acme"}, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[insuranceSyncResponse](t, rec)
		assert.Equal(t, "acme", resp.Insurer)
		assert.Empty(t, resp.Errors)
	})

	t.Run("partial transport failure", func(t *testing.T) {
		router, fakes := newTestRouter(t, "")
		fakes.insurance.SyncFn = func(_ context.Context, insurer string) (models.InsuranceSyncResult, error) {
			return models.InsuranceSyncResult{Insurer: insurer, Processed: 3, Failed: 2},
				errors.Join(
					fmt.Errorf("%w: record v1: %w", service.ErrTransport, adapter.ErrRetriesExhausted),
					fmt.Errorf("%w: record v2: %w", service.ErrTransport, adapter.ErrRetriesExhausted),
				)
		}

		rec := do(t, router, http.MethodPost, "/api/insurance/sync", insuranceSyncRequest{Insurer: "acme"}, nil)

		require.Equal(t, http.StatusBadGateway, rec.Code)
		resp := decodeBody[insuranceSyncResponse](t, rec)
		assert.Equal(t, 3, resp.Processed)
		assert.Equal(t, 2, resp.Failed)
		assert.Len(t, resp.Errors, 2)
	})

	t.Run("empty insurer", func(t *testing.T) {
		router, fakes := newTestRouter(t, "")
		fakes.insurance.SyncFn = func(context.Context, string) (models.InsuranceSyncResult, error) {
			return models.InsuranceSyncResult{}, service.ErrEmptyInsurer
		}

		rec := do(t, router, http.MethodPost, "/api/insurance/sync", insuranceSyncRequest{}, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestValidateChain_BrokenChainIs200(t *testing.T) {
	router, fakes := newTestRouter(t, "")
	fakes.chain.ValidateFn = func(context.Context) (models.ChainValidation, error) {
		return models.ChainValidation{Valid: false, Length: 3, FailedIndex: 1, Reason: "block hash does not match its contents"}, nil
	}

	rec := do(t, router, http.MethodGet, "/api/chain/validation", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	validation := decodeBody[models.ChainValidation](t, rec)
	assert.Equal(t, int64(1), validation.FailedIndex)
}

func TestExchangeEndpoints(t *testing.T) {
	router, fakes := newTestRouter(t, "")
	var request models.ExchangeRequest
	fakes.exchanges.CreateFn = func(_ context.Context, r models.ExchangeRequest) (models.ExchangeLocator, error) {
		request = r
		return models.ExchangeLocator{BundleID: "b1", Key: "exchange/outbox/b1/envelope.json"}, nil
	}
	fakes.exchanges.DeliverFn = func(context.Context, string) (models.ExchangeBundle, error) {
		return models.ExchangeBundle{}, fmt.Errorf("%w: b1 is delivered", service.ErrBundleNotSendable)
	}

	created := do(t, router, http.MethodPost, "/api/exchanges", models.ExchangeRequest{
		TargetNode: "clinic-b",
		BlockRange: models.BlockRange{Start: 0, End: 2},
	}, nil)
	require.Equal(t, http.StatusCreated, created.Code)
	assert.Equal(t, "clinic-b", request.TargetNode)
	assert.Equal(t, uint64(2), request.BlockRange.End)

	delivered := do(t, router, http.MethodPost, "/api/exchanges/b1/deliver", nil, nil)
	assert.Equal(t, http.StatusConflict, delivered.Code)
}

func TestPatientView_NotChained(t *testing.T) {
	router, fakes := newTestRouter(t, "")
	fakes.portal.PatientFn = func(context.Context, string) (models.PatientView, error) {
		return models.PatientView{}, service.ErrBlockNotFound
	}

	rec := do(t, router, http.MethodGet, "/portal/patients/n1", nil, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
