// Package extractor converts uploaded file payloads into plain UTF-8 text.
//
// Format dispatch is a strategy registry keyed by the classifier's output:
// one Extractor implementation per supported format, all sharing the same
// contract. Extraction failures are *Error values carrying a Kind; they are
// captured per file and never abort sibling files in a batch.
package extractor

import (
	"context"
	"fmt"
	"io"
)

// Extractor produces text from a raw byte stream of a known length.
type Extractor interface {
	Extract(ctx context.Context, r io.Reader, size int64) (string, error)
}

// Registry maps formats to their extraction strategy.
type Registry struct {
	strategies map[Format]Extractor
}

// NewRegistry returns a registry holding the default strategy set.
func NewRegistry() *Registry {
	return &Registry{
		strategies: map[Format]Extractor{
			FormatPlainText: PlainText{},
			FormatPDF:       PDF{},
			FormatDOCX:      DOCX{},
		},
	}
}

// Extract dispatches to the strategy for the given format.
// An unsupported format fails with KindUnsupportedEncoding.
func (g *Registry) Extract(ctx context.Context, format Format, r io.Reader, size int64) (string, error) {
	s, ok := g.strategies[format]
	if !ok {
		return "", newError(KindUnsupportedEncoding, fmt.Errorf("no extractor for format %q", format))
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.Extract(ctx, r, size)
}
