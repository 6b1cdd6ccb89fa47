package extractor

import "fmt"

// Kind distinguishes the failure modes of text extraction.
type Kind string

const (
	// KindCorruptFile marks payloads the format parser rejected
	// (truncated archives, password-protected or malformed PDFs, ...).
	KindCorruptFile Kind = "corrupt_file"
	// KindUnsupportedEncoding marks formats the registry has no strategy for.
	// This is an expected outcome for arbitrary uploads, not an exceptional one.
	KindUnsupportedEncoding Kind = "unsupported_encoding"
	// KindEmpty marks documents that parsed fine but contain no visible text.
	KindEmpty Kind = "empty"
)

// Error is the structured extraction failure reported per file in a batch.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
