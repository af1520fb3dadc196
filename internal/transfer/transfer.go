// Package transfer moves application data in and out as JSON documents:
// export, schema-validated import, and sample data for development.
package transfer

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"expensetracker/internal/core"
)

// MaxDocumentSize bounds the size of an imported document.
const MaxDocumentSize = 10 << 20

var ErrInvalidDocument = errors.New("invalid import document")

//go:embed schema/appdata.schema.json
var appDataSchema []byte

var loadSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(appDataSchema))
})

// ValidationError lists every schema violation of a rejected document.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidDocument, strings.Join(e.Details, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidDocument }

// Source provides the data to export.
type Source interface {
	Export() core.AppData
}

// Target receives imported or generated data.
type Target interface {
	Source
	ReplaceAll(ctx context.Context, data core.AppData) error
}

// Export writes the full application data as indented JSON.
func Export(w io.Writer, src Source) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(src.Export()); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// Decode validates doc against the export schema and decodes it.
func Decode(doc []byte) (core.AppData, error) {
	schema, err := loadSchema()
	if err != nil {
		return core.AppData{}, fmt.Errorf("load schema: %w", err)
	}

	res, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		// Not JSON at all.
		return core.AppData{}, &ValidationError{Details: []string{err.Error()}}
	}
	if !res.Valid() {
		details := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			details = append(details, e.String())
		}
		return core.AppData{}, &ValidationError{Details: details}
	}

	var data core.AppData
	if err := json.Unmarshal(doc, &data); err != nil {
		return core.AppData{}, &ValidationError{Details: []string{err.Error()}}
	}
	return data, nil
}

// Import reads a document from r, validates it and replaces every
// collection of target with its contents.
func Import(ctx context.Context, target Target, r io.Reader) (core.AppData, error) {
	doc, err := io.ReadAll(io.LimitReader(r, MaxDocumentSize+1))
	if err != nil {
		return core.AppData{}, fmt.Errorf("read import: %w", err)
	}
	if len(doc) > MaxDocumentSize {
		return core.AppData{}, &ValidationError{Details: []string{"document too large"}}
	}

	data, err := Decode(doc)
	if err != nil {
		return core.AppData{}, err
	}
	if err := target.ReplaceAll(ctx, data); err != nil {
		return core.AppData{}, err
	}
	return data, nil
}
