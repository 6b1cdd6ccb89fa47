package extractor

import (
	"path/filepath"
	"strings"
)

// Format identifies a supported document type.
type Format string

const (
	FormatPlainText   Format = "plaintext"
	FormatPDF         Format = "pdf"
	FormatDOCX        Format = "docx"
	FormatUnsupported Format = "unsupported"
)

// Classify maps a file name (and an optional declared content type) to a format.
// The extension wins; the content type is only consulted when the extension says
// nothing. Unrecognized input yields FormatUnsupported, never an error.
func Classify(fileName, contentType string) Format {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".txt", ".text", ".md", ".markdown", ".log", ".csv":
		return FormatPlainText
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	}

	// Strip any media type parameters (e.g. "text/plain; charset=utf-8").
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.IndexByte(ct, ';'); idx >= 0 {
		ct = strings.TrimSpace(ct[:idx])
	}
	switch ct {
	case "application/pdf":
		return FormatPDF
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return FormatDOCX
	}
	if strings.HasPrefix(ct, "text/") {
		return FormatPlainText
	}
	return FormatUnsupported
}
