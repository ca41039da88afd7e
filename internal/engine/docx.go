package engine

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"pdf-tools-server/internal/domain"
)

// DocxExtractor implements domain.WordExtractor by reading the
// word/document.xml part of the DOCX archive. Formatting is discarded; only
// run text and paragraph boundaries survive.
type DocxExtractor struct {
	logger domain.Logger
}

// NewDocxExtractor creates a new DOCX raw-text extractor
func NewDocxExtractor(logger domain.Logger) *DocxExtractor {
	return &DocxExtractor{logger: logger}
}

// ExtractText returns the raw text content of the DOCX file at path
func (x *DocxExtractor) ExtractText(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX archive: %w", err)
	}
	defer archive.Close()

	var document *zip.File
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			document = f
			break
		}
	}
	if document == nil {
		return "", fmt.Errorf("not a DOCX file: word/document.xml missing")
	}

	rc, err := document.Open()
	if err != nil {
		return "", fmt.Errorf("failed to read document part: %w", err)
	}
	defer rc.Close()

	return documentText(rc)
}

// documentText streams the WordprocessingML tokens, collecting text runs and
// turning paragraph and tab marks into whitespace.
func documentText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var sb strings.Builder
	inText := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("malformed document XML: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return strings.TrimSpace(sb.String()), nil
}
