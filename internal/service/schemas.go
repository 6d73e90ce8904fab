// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

const (
	manifestSchemaFile = "schemas/manifest.schema.json"
	envelopeSchemaFile = "schemas/envelope.schema.json"
)

// compileSchema compiles one embedded schema. The files are part of the
// binary, so a failure is a programming error.
func compileSchema(file string) *jsonschema.Schema {
	raw, err := schemaFiles.ReadFile(file)
	if err != nil {
		panic(fmt.Sprintf("read embedded schema %s: %v", file, err))
	}

	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	url := "https://proof-ledger.schemas.local/" + file
	if err = c.AddResource(url, bytes.NewReader(raw)); err != nil {
		panic(fmt.Sprintf("load embedded schema %s: %v", file, err))
	}
	return c.MustCompile(url)
}

// validateSchema decodes raw with json.Number so integer keywords see the
// exact value, then validates the generic document.
func validateSchema(schema *jsonschema.Schema, raw []byte) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return schema.Validate(doc)
}
