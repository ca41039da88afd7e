package engine

import (
	"fmt"
	"strings"

	ledongthuc "github.com/ledongthuc/pdf"

	"pdf-tools-server/internal/domain"
)

// ExtractorName identifies the backing text extraction library for the health endpoint
const ExtractorName = "ledongthuc/pdf"

// PlainTextExtractor implements domain.TextExtractor with a pure Go PDF
// parser. Only the embedded text layer is read; scanned pages yield nothing.
type PlainTextExtractor struct {
	logger domain.Logger
}

// NewPlainTextExtractor creates a new plain-text extractor
func NewPlainTextExtractor(logger domain.Logger) *PlainTextExtractor {
	return &PlainTextExtractor{logger: logger}
}

// ExtractText returns the document's text content page by page, its page
// count and any info-dictionary metadata.
func (x *PlainTextExtractor) ExtractText(path string) (string, int, domain.DocumentMetadata, error) {
	f, reader, err := ledongthuc.Open(path)
	if err != nil {
		return "", 0, domain.DocumentMetadata{}, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	fonts := make(map[string]*ledongthuc.Font)
	var sb strings.Builder

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := page.Font(name)
				fonts[name] = &font
			}
		}

		text, pageErr := page.GetPlainText(fonts)
		if pageErr != nil {
			// Image-only pages are common; keep going.
			x.logger.Warn("Failed to extract text from page", "page", i, "total", numPages, "error", pageErr)
			continue
		}

		if trimmed := strings.TrimSpace(text); trimmed != "" {
			if sb.Len() > 0 {
				sb.WriteString("\n\n")
			}
			sb.WriteString(trimmed)
		}
	}

	return sb.String(), numPages, infoMetadata(reader), nil
}

// infoMetadata walks the trailer's Info dictionary for common fields
func infoMetadata(reader *ledongthuc.Reader) domain.DocumentMetadata {
	info := reader.Trailer().Key("Info")
	if info.IsNull() {
		return domain.DocumentMetadata{}
	}
	return domain.DocumentMetadata{
		Title:   info.Key("Title").Text(),
		Author:  info.Key("Author").Text(),
		Subject: info.Key("Subject").Text(),
		Creator: info.Key("Creator").Text(),
	}
}
