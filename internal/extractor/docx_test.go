package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDocx assembles a minimal OOXML archive containing the given document body.
func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	f, err := w.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`))
	require.NoError(t, err)

	f, err = w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(documentXML))
	require.NoError(t, err)

	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDOCXExtract(t *testing.T) {
	ctx := context.Background()

	t.Run("extracts paragraph text", func(t *testing.T) {
		payload := buildDocx(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`)

		text, err := DOCX{}.Extract(ctx, bytes.NewReader(payload), int64(len(payload)))

		assert.NoError(t, err)
		assert.Equal(t, "First paragraph.\nSecond paragraph.", text)
	})

	t.Run("ignores embedded drawings", func(t *testing.T) {
		payload := buildDocx(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Visible text.</w:t></w:r></w:p>
    <w:p><w:r><w:drawing><w:inline>embedded-object-noise</w:inline></w:drawing></w:r></w:p>
  </w:body>
</w:document>`)

		text, err := DOCX{}.Extract(ctx, bytes.NewReader(payload), int64(len(payload)))

		assert.NoError(t, err)
		assert.Equal(t, "Visible text.", text)
	})

	t.Run("non-zip payload is corrupt", func(t *testing.T) {
		payload := []byte("this is not a zip archive")

		_, err := DOCX{}.Extract(ctx, bytes.NewReader(payload), int64(len(payload)))

		var extErr *Error
		assert.ErrorAs(t, err, &extErr)
		assert.Equal(t, KindCorruptFile, extErr.Kind)
	})

	t.Run("zip without document.xml is corrupt", func(t *testing.T) {
		var buf bytes.Buffer
		w := zip.NewWriter(&buf)
		f, err := w.Create("unrelated.txt")
		require.NoError(t, err)
		_, err = f.Write([]byte("hello"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		_, err = DOCX{}.Extract(ctx, bytes.NewReader(buf.Bytes()), int64(buf.Len()))

		var extErr *Error
		assert.ErrorAs(t, err, &extErr)
		assert.Equal(t, KindCorruptFile, extErr.Kind)
	})

	t.Run("body without text is empty", func(t *testing.T) {
		payload := buildDocx(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body><w:p></w:p></w:body>
</w:document>`)

		_, err := DOCX{}.Extract(ctx, bytes.NewReader(payload), int64(len(payload)))

		var extErr *Error
		assert.ErrorAs(t, err, &extErr)
		assert.Equal(t, KindEmpty, extErr.Kind)
	})

	t.Run("whitespace-only runs are dropped", func(t *testing.T) {
		payload := buildDocx(t, strings.ReplaceAll(`<?xml version="1.0"?>
<w:document xmlns:w="NS"><w:body><w:p><w:r><w:t>   </w:t></w:r></w:p><w:p><w:r><w:t>kept</w:t></w:r></w:p></w:body></w:document>`,
			"NS", "http://schemas.openxmlformats.org/wordprocessingml/2006/main"))

		text, err := DOCX{}.Extract(ctx, bytes.NewReader(payload), int64(len(payload)))

		assert.NoError(t, err)
		assert.Equal(t, "kept", text)
	})
}
