package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// buildPDF writes a minimal uncompressed PDF with one page per entry in pages,
// tracking byte offsets so the cross-reference table is valid.
func buildPDF(pages []string) []byte {
	var buf bytes.Buffer
	offsets := make([]int, 0, 3+2*len(pages))

	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}

	buf.WriteString("%PDF-1.4\n")

	// Object numbers: 1 catalog, 2 page tree, 3 font, then page/content pairs.
	fontObj := 3
	pageObj := func(i int) int { return 4 + 2*i }
	contentObj := func(i int) int { return 5 + 2*i }

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", pageObj(i))
	}

	writeObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	writeObj(fmt.Sprintf("2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n",
		strings.Join(kids, " "), len(pages)))
	writeObj(fmt.Sprintf("%d 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n", fontObj))

	for i, text := range pages {
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		writeObj(fmt.Sprintf("%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>\nendobj\n",
			pageObj(i), fontObj, contentObj(i)))
		writeObj(fmt.Sprintf("%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n",
			contentObj(i), len(stream), stream))
	}

	xrefStart := buf.Len()
	buf.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)+1))
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		buf.WriteString(fmt.Sprintf("%010d 00000 n \n", off))
	}
	buf.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xrefStart))

	return buf.Bytes()
}

func TestPDFExtract(t *testing.T) {
	ctx := context.Background()

	t.Run("single page", func(t *testing.T) {
		payload := buildPDF([]string{"Hello PDF"})

		text, err := PDF{}.Extract(ctx, bytes.NewReader(payload), int64(len(payload)))

		assert.NoError(t, err)
		assert.Contains(t, text, "Hello PDF")
	})

	t.Run("pages stay in order with newline separators", func(t *testing.T) {
		payload := buildPDF([]string{"alpha", "beta", "gamma"})

		text, err := PDF{}.Extract(ctx, bytes.NewReader(payload), int64(len(payload)))

		assert.NoError(t, err)
		first := strings.Index(text, "alpha")
		second := strings.Index(text, "beta")
		third := strings.Index(text, "gamma")
		assert.GreaterOrEqual(t, first, 0)
		assert.Greater(t, second, first)
		assert.Greater(t, third, second)
		assert.GreaterOrEqual(t, strings.Count(text, "\n"), 2)
	})

	t.Run("garbage payload is corrupt not panic", func(t *testing.T) {
		payload := []byte("%PDF-1.4\nthis is not a real pdf body")

		_, err := PDF{}.Extract(ctx, bytes.NewReader(payload), int64(len(payload)))

		var extErr *Error
		assert.ErrorAs(t, err, &extErr)
		assert.Equal(t, KindCorruptFile, extErr.Kind)
	})

	t.Run("truncated xref is corrupt", func(t *testing.T) {
		payload := buildPDF([]string{"content"})
		payload = payload[:len(payload)/2]

		_, err := PDF{}.Extract(ctx, bytes.NewReader(payload), int64(len(payload)))

		var extErr *Error
		assert.ErrorAs(t, err, &extErr)
		assert.Equal(t, KindCorruptFile, extErr.Kind)
	})
}
