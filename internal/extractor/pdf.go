package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dslipak/pdf"
)

// PDF extracts per-page text in page order, joined with a single newline
// between pages. Password-protected or structurally corrupt documents fail
// with KindCorruptFile.
type PDF struct{}

func (PDF) Extract(ctx context.Context, r io.Reader, size int64) (text string, err error) {
	ra, n, err := readerAt(r, size)
	if err != nil {
		return "", newError(KindCorruptFile, err)
	}

	// The underlying parser panics on some malformed cross-reference tables;
	// treat that the same as a parse error.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = newError(KindCorruptFile, fmt.Errorf("pdf parse: %v", rec))
		}
	}()

	doc, err := pdf.NewReader(ra, n)
	if err != nil {
		return "", newError(KindCorruptFile, fmt.Errorf("pdf open: %w", err))
	}

	var pages []string
	for i := 1; i <= doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := doc.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			return "", newError(KindCorruptFile, fmt.Errorf("pdf page %d: %w", i, err))
		}
		pages = append(pages, strings.TrimRight(content, "\n"))
	}

	out := strings.Join(pages, "\n")
	if strings.TrimSpace(out) == "" {
		return "", newError(KindEmpty, fmt.Errorf("no text content in pdf"))
	}
	return out, nil
}

// readerAt adapts the incoming stream for parsers that need random access.
// Payloads are already bounded by the upload caps, so spooling to memory is
// acceptable when the reader cannot seek.
func readerAt(r io.Reader, size int64) (io.ReaderAt, int64, error) {
	if ra, ok := r.(io.ReaderAt); ok && size >= 0 {
		return ra, size, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("read payload: %w", err)
	}
	return bytes.NewReader(data), int64(len(data)), nil
}
