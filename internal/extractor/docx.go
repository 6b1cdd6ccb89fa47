package extractor

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// DOCX extracts the visible body text of a Word document by streaming
// word/document.xml out of the OOXML archive. Only text runs (<w:t>) are
// collected, so embedded objects and images are ignored; paragraphs are
// joined with single newlines. A non-zip or non-OOXML payload fails with
// KindCorruptFile.
type DOCX struct{}

func (DOCX) Extract(ctx context.Context, r io.Reader, size int64) (string, error) {
	ra, n, err := readerAt(r, size)
	if err != nil {
		return "", newError(KindCorruptFile, err)
	}

	zr, err := zip.NewReader(ra, n)
	if err != nil {
		return "", newError(KindCorruptFile, fmt.Errorf("open archive: %w", err))
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", newError(KindCorruptFile, fmt.Errorf("word/document.xml not found in archive"))
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", newError(KindCorruptFile, fmt.Errorf("open document.xml: %w", err))
	}
	defer rc.Close()

	text, err := decodeDocumentXML(ctx, rc)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", newError(KindEmpty, fmt.Errorf("no text content in document body"))
	}
	return text, nil
}

func decodeDocumentXML(ctx context.Context, r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var (
		out         strings.Builder
		paragraph   strings.Builder
		inParagraph bool
		inTextRun   bool
	)

	flush := func() {
		text := strings.TrimSpace(paragraph.String())
		paragraph.Reset()
		if text == "" {
			return
		}
		if out.Len() > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(text)
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", newError(KindCorruptFile, fmt.Errorf("decode document.xml: %w", err))
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
			case "t":
				inTextRun = inParagraph
			}
		case xml.CharData:
			if inTextRun {
				paragraph.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inTextRun = false
			case "p":
				inParagraph = false
				flush()
			}
		}
	}
	flush()

	return out.String(), nil
}
