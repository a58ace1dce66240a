// Package docstore persists whole configuration documents (the question
// catalog, the weight document) as opaque byte blobs. Writes replace the
// whole document; the last writer wins and readers never see a torn write.
package docstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read when the document has never been written.
var ErrNotFound = errors.New("document not found")

// Format is the encoding a document is stored in.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is a single named, whole-overwrite document.
type Document interface {
	Name() string
	Format() Format
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, body []byte) error
}
