package extractor

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// PlainText decodes the payload as UTF-8. Invalid byte sequences are replaced
// with U+FFFD rather than aborting, so plain text extraction never fails on
// encoding alone.
type PlainText struct{}

func (PlainText) Extract(_ context.Context, r io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", newError(KindCorruptFile, fmt.Errorf("read payload: %w", err))
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}
