// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"github.com/MKhiriev/go-proof-ledger/internal/crypto"
	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/store"
	"github.com/MKhiriev/go-proof-ledger/internal/validators"
	"github.com/MKhiriev/go-proof-ledger/models"
)

// Hashes shown to patients are truncated to this many hex characters.
const patientHashLength = 16

//go:embed templates/*.html.tmpl
var templateFiles embed.FS

var portalTemplates = template.Must(template.New("portal").Funcs(template.FuncMap{
	"short": func(s string) string { return crypto.Short(s, patientHashLength) },
	"stamp": models.FormatTimestamp,
	"check": func(ok bool) string { return checkMark(ok) },
}).ParseFS(templateFiles, "templates/*.html.tmpl"))

// portalService renders read-only views. It never writes to the stores it
// reads from.
type portalService struct {
	chain     ChainService
	dashboard DashboardService
	exchanges ExchangeService
	proofs    ProofService
	signer    crypto.Signer
	tokenTTL  time.Duration
	clock     clock

	logger *logger.Logger
}

func NewPortalService(
	chain ChainService,
	dashboard DashboardService,
	exchanges ExchangeService,
	proofs ProofService,
	signer crypto.Signer,
	tokenTTL time.Duration,
	logger *logger.Logger,
) PortalService {
	return &portalService{
		chain:     chain,
		dashboard: dashboard,
		exchanges: exchanges,
		proofs:    proofs,
		signer:    signer,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

func (p *portalService) Regulator(ctx context.Context) (models.RegulatorPortal, error) {
	blocks, err := p.chain.Blocks(ctx)
	if err != nil {
		return models.RegulatorPortal{}, err
	}
	// validate the snapshot on display, not a second read that a rebuild
	// may have replaced
	validation := validateBlocks(blocks, models.ZeroHash, 0, p.signer.PublicKey())
	dashboard, err := p.dashboard.LoadDashboard(ctx)
	if err != nil {
		return models.RegulatorPortal{}, err
	}
	exchanges, err := p.exchanges.Exchanges(ctx)
	if err != nil {
		return models.RegulatorPortal{}, err
	}

	portal := models.RegulatorPortal{
		NodeID:      p.signer.NodeID(),
		GeneratedAt: p.clock.now(),
		Chain:       validation,
		HeadHash:    models.ZeroHash,
		Blocks:      blocks,
		Dashboard:   dashboard.Entries,
		Exchanges:   exchanges,
	}
	if len(blocks) > 0 {
		portal.HeadHash = blocks[len(blocks)-1].BlockHash
	}
	return portal, nil
}

func (p *portalService) Patient(ctx context.Context, noteID string) (models.PatientView, error) {
	if err := validators.ValidateNoteID(noteID); err != nil {
		return models.PatientView{}, invalidInput(err)
	}

	proof, err := p.proofs.GetProof(ctx, noteID)
	if err != nil {
		return models.PatientView{}, err
	}
	blocks, err := p.chain.Blocks(ctx)
	if err != nil {
		return models.PatientView{}, err
	}

	var block *models.LedgerBlock
	for i := range blocks {
		if blocks[i].NoteID == noteID {
			block = &blocks[i]
			break
		}
	}
	if block == nil {
		return models.PatientView{}, ErrBlockNotFound
	}

	proofHash, err := crypto.CanonicalHash(proof)
	if err != nil {
		return models.PatientView{}, fmt.Errorf("hash proof: %w", err)
	}
	token, err := p.signer.IssueVerificationToken(noteID, block.BlockHash, p.clock.now(), p.tokenTTL)
	if err != nil {
		p.logger.Err(err).Str("func", "*portalService.Patient").Str("note_id", noteID).Msg("failed to issue verification token")
		return models.PatientView{}, fmt.Errorf("issue verification token: %w", err)
	}

	return models.PatientView{
		NoteID:            noteID,
		ConsentVersion:    proof.ConsentVersion,
		ProofHash:         crypto.Short(proofHash, patientHashLength),
		BlockHash:         crypto.Short(block.BlockHash, patientHashLength),
		VerificationToken: token,
	}, nil
}

// RenderStatic writes regulator.html and one patient/<noteId>.html per
// chained note that has a proof. Each file is replaced atomically.
func (p *portalService) RenderStatic(ctx context.Context, dir string) error {
	regulator, err := p.Regulator(ctx)
	if err != nil {
		return err
	}
	if err = renderPage(filepath.Join(dir, "regulator.html"), "regulator.html.tmpl", regulator); err != nil {
		p.logger.Err(err).Str("func", "*portalService.RenderStatic").Msg("failed to render regulator portal")
		return err
	}

	rendered := 0
	for _, block := range regulator.Blocks {
		view, err := p.Patient(ctx, block.NoteID)
		if err != nil {
			// chained notes without a proof have no patient page
			if errors.Is(err, ErrProofNotFound) {
				continue
			}
			return err
		}
		if err = renderPage(filepath.Join(dir, "patient", block.NoteID+".html"), "patient.html.tmpl", view); err != nil {
			p.logger.Err(err).Str("func", "*portalService.RenderStatic").Str("note_id", block.NoteID).Msg("failed to render patient portal")
			return err
		}
		rendered++
	}

	p.logger.Info().Str("dir", dir).Int("patients", rendered).Msg("static portals rendered")
	return nil
}

func renderPage(target, name string, data any) error {
	var buf bytes.Buffer
	if err := portalTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	if err := store.WriteFileAtomic(target, buf.Bytes()); err != nil {
		return storageError("write "+target, err)
	}
	return nil
}
