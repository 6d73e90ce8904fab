// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/MKhiriev/go-proof-ledger/internal/crypto"
	"github.com/MKhiriev/go-proof-ledger/internal/logger"
	"github.com/MKhiriev/go-proof-ledger/internal/store"
	"github.com/MKhiriev/go-proof-ledger/internal/utils"
	"github.com/MKhiriev/go-proof-ledger/internal/validators"
	"github.com/MKhiriev/go-proof-ledger/models"
)

// Names inside an export archive. Payload files keep their artifact
// directory ("evidence/bundle.json", "reports/sealed.json"); the manifest
// sits at the root and is not listed in itself.
const (
	archiveProofFile    = "proof.json"
	archiveManifestFile = "manifest.json"
	archiveBundleFile   = evidenceDir + "/" + bundleFile
)

// exportSources are the artifact directories packed into an export.
var exportSources = []string{evidenceDir, reportsDir}

type packedFile struct {
	name string
	data []byte
}

type exportService struct {
	proofs      ProofService
	ledger      LedgerService
	artifacts   store.ArtifactStore
	validations store.AppendLog
	schema      *jsonschema.Schema
	ids         *utils.UUIDGenerator
	regulator   string
	clock       clock

	logger *logger.Logger
}

func NewExportService(
	proofs ProofService,
	ledger LedgerService,
	artifacts store.ArtifactStore,
	validations store.AppendLog,
	defaultRegulator string,
	logger *logger.Logger,
) ExportService {
	return &exportService{
		proofs:      proofs,
		ledger:      ledger,
		artifacts:   artifacts,
		validations: validations,
		schema:      compileSchema(manifestSchemaFile),
		ids:         utils.NewUUIDGenerator(),
		regulator:   defaultRegulator,
		logger:      logger,
	}
}

func (e *exportService) CreateExportBundle(ctx context.Context, noteID string) (models.ExportBundle, error) {
	if err := validators.ValidateNoteID(noteID); err != nil {
		return models.ExportBundle{}, invalidInput(err)
	}

	proof, err := e.proofs.GetProof(ctx, noteID)
	if err != nil {
		return models.ExportBundle{}, err
	}
	files, err := e.collectFiles(ctx, proof)
	if err != nil {
		return models.ExportBundle{}, err
	}

	createdAt := e.clock.now()
	manifest := models.ExportManifest{NoteID: noteID, CreatedAt: createdAt}
	for _, f := range files {
		manifest.Entries = append(manifest.Entries, models.ExportManifestEntry{
			FileName:    f.name,
			ContentHash: crypto.DigestHex(f.data),
			Size:        int64(len(f.data)),
		})
	}
	manifestRaw, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return models.ExportBundle{}, fmt.Errorf("encode manifest: %w", err)
	}
	if err = validateSchema(e.schema, manifestRaw); err != nil {
		return models.ExportBundle{}, fmt.Errorf("manifest does not match its schema: %w", err)
	}

	archive, err := writeArchive(append(files, packedFile{name: archiveManifestFile, data: manifestRaw}), manifest)
	if err != nil {
		return models.ExportBundle{}, fmt.Errorf("build archive: %w", err)
	}

	export := models.ExportBundle{
		NoteID:      noteID,
		ArchiveKey:  noteKey(exportsDir, noteID, archiveFile),
		ArchiveHash: crypto.DigestHex(archive),
		ManifestKey: noteKey(exportsDir, noteID, manifestFile),
		Manifest:    manifest,
		CreatedAt:   createdAt,
	}

	if err = e.artifacts.Put(ctx, export.ArchiveKey, archive); err != nil {
		e.logger.Err(err).Str("func", "*exportService.CreateExportBundle").Str("note_id", noteID).Msg("failed to write archive")
		return models.ExportBundle{}, storageError("write archive", err)
	}
	if err = e.artifacts.Put(ctx, export.ManifestKey, manifestRaw); err != nil {
		return models.ExportBundle{}, storageError("write manifest", err)
	}
	if _, err = writeArtifactJSON(ctx, e.artifacts, noteKey(exportsDir, noteID, exportFile), export); err != nil {
		return models.ExportBundle{}, err
	}

	e.logger.Info().Str("note_id", noteID).Int("files", len(files)).Str("archive_hash", export.ArchiveHash).Msg("export bundle created")
	return export, nil
}

// collectFiles returns the proof plus every artifact of the note, sorted by
// archive name. The evidence bundle and the compliance report must exist.
func (e *exportService) collectFiles(ctx context.Context, proof models.ProofRecord) ([]packedFile, error) {
	proofRaw, err := crypto.Canonicalize(proof)
	if err != nil {
		return nil, fmt.Errorf("canonicalize proof: %w", err)
	}
	files := []packedFile{{name: archiveProofFile, data: proofRaw}}

	for _, dir := range exportSources {
		prefix := noteKey(dir, proof.NoteID, "") + "/"
		keys, err := e.artifacts.List(ctx, prefix)
		if err != nil {
			return nil, storageError("list "+prefix, err)
		}
		for _, key := range keys {
			data, err := e.artifacts.Get(ctx, key)
			if err != nil {
				return nil, storageError("read "+key, err)
			}
			files = append(files, packedFile{name: dir + "/" + strings.TrimPrefix(key, prefix), data: data})
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })

	names := make(map[string]bool, len(files))
	for _, f := range files {
		names[f.name] = true
	}
	if !names[archiveBundleFile] {
		return nil, ErrBundleNotFound
	}
	if !names[reportsDir+"/"+reportFile] {
		return nil, ErrReportNotFound
	}
	return files, nil
}

func writeArchive(files []packedFile, manifest models.ExportManifest) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, f := range files {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.name,
			Method:   zip.Deflate,
			Modified: manifest.CreatedAt,
		})
		if err != nil {
			return nil, err
		}
		if _, err = w.Write(f.data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func readArchive(raw []byte) (map[string][]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, err
	}

	files := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		files[f.Name] = data
	}
	return files, nil
}

// ValidateBundle re-derives everything from the stored archive: archive
// hash, manifest schema, per-file hashes, coverage and ledger membership of
// the archived evidence bundle. Failures become Reasons on the record.
func (e *exportService) ValidateBundle(ctx context.Context, noteID, regulatorName string) (models.ValidationRecord, error) {
	if err := validators.ValidateNoteID(noteID); err != nil {
		return models.ValidationRecord{}, invalidInput(err)
	}
	if regulatorName == "" {
		regulatorName = e.regulator
	}

	var export models.ExportBundle
	if _, err := readArtifactJSON(ctx, e.artifacts, noteKey(exportsDir, noteID, exportFile), &export); err != nil {
		return models.ValidationRecord{}, e.exportReadError(err)
	}
	archive, err := e.artifacts.Get(ctx, export.ArchiveKey)
	if err != nil {
		return models.ValidationRecord{}, e.exportReadError(err)
	}
	manifestRaw, err := e.artifacts.Get(ctx, export.ManifestKey)
	if err != nil {
		return models.ValidationRecord{}, e.exportReadError(err)
	}

	check := e.checkManifest(export, archive, manifestRaw)

	ledgerOK := false
	if check.bundleHash == "" {
		check.reasons = append(check.reasons, "archive has no evidence bundle")
	} else {
		ledgerOK, err = e.ledger.Contains(ctx, check.bundleHash)
		if err != nil {
			return models.ValidationRecord{}, err
		}
		if !ledgerOK {
			check.reasons = append(check.reasons, "evidence bundle hash is not on the public ledger")
		}
	}

	var record models.ValidationRecord
	_, err = e.validations.Append(ctx, func(index uint64) ([]byte, error) {
		record = models.ValidationRecord{
			ID:            e.ids.Generate(),
			Index:         index,
			NoteID:        noteID,
			BundleHash:    check.bundleHash,
			ManifestOK:    check.ok,
			LedgerOK:      ledgerOK,
			Verified:      check.ok && ledgerOK,
			Reasons:       check.reasons,
			RegulatorName: regulatorName,
			Timestamp:     e.clock.now(),
		}
		return json.Marshal(record)
	})
	if err != nil {
		e.logger.Err(err).Str("func", "*exportService.ValidateBundle").Str("note_id", noteID).Msg("failed to append validation record")
		return models.ValidationRecord{}, storageError("append validation record", err)
	}

	if !record.Verified {
		e.logger.Warn().Str("note_id", noteID).Strs("reasons", record.Reasons).Msg("export failed validation")
	}
	return record, nil
}

type manifestCheck struct {
	ok         bool
	bundleHash string
	reasons    []string
}

func (e *exportService) checkManifest(export models.ExportBundle, archive, manifestRaw []byte) manifestCheck {
	var c manifestCheck
	fail := func(format string, args ...any) {
		c.reasons = append(c.reasons, fmt.Sprintf(format, args...))
	}

	if crypto.DigestHex(archive) != export.ArchiveHash {
		fail("archive hash does not match the export record")
	}
	if err := validateSchema(e.schema, manifestRaw); err != nil {
		fail("manifest does not match its schema: %v", err)
	}

	var manifest models.ExportManifest
	if err := json.Unmarshal(manifestRaw, &manifest); err != nil {
		fail("manifest is not decodable: %v", err)
		return c
	}
	if manifest.NoteID != export.NoteID {
		fail("manifest belongs to note %q", manifest.NoteID)
	}

	files, err := readArchive(archive)
	if err != nil {
		fail("archive is not readable: %v", err)
		return c
	}
	if bundle, ok := files[archiveBundleFile]; ok {
		c.bundleHash = crypto.DigestHex(bundle)
	}
	if embedded, ok := files[archiveManifestFile]; !ok || !bytes.Equal(embedded, manifestRaw) {
		fail("archived manifest differs from the exported manifest")
	}
	delete(files, archiveManifestFile)

	listed := make(map[string]bool, len(manifest.Entries))
	for _, entry := range manifest.Entries {
		listed[entry.FileName] = true
		data, ok := files[entry.FileName]
		switch {
		case !ok:
			fail("%s is listed but not archived", entry.FileName)
		case crypto.DigestHex(data) != entry.ContentHash:
			fail("%s hash mismatch", entry.FileName)
		case int64(len(data)) != entry.Size:
			fail("%s size mismatch", entry.FileName)
		}
	}
	for name := range files {
		if !listed[name] {
			fail("%s is archived but not listed", name)
		}
	}

	sort.Strings(c.reasons)
	c.ok = len(c.reasons) == 0
	return c
}

func (e *exportService) exportReadError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrExportNotFound
	}
	return storageError("read export", err)
}

func (e *exportService) History(ctx context.Context, noteID string) ([]models.ValidationRecord, error) {
	if err := validators.ValidateNoteID(noteID); err != nil {
		return nil, invalidInput(err)
	}

	history := make([]models.ValidationRecord, 0)
	err := scanRecords(ctx, e.validations, func(_ uint64, record models.ValidationRecord) error {
		if record.NoteID == noteID {
			history = append(history, record)
		}
		return nil
	})
	if err != nil {
		return nil, storageError("scan validations", err)
	}
	return history, nil
}

func (e *exportService) Validations(ctx context.Context) ([]models.ValidationRecord, error) {
	return readRecords[models.ValidationRecord](ctx, e.validations)
}
