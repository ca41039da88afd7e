package engine

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"pdf-tools-server/internal/domain"
)

// Text layout tuning. Line breaks use an approximate per-character width
// rather than glyph metrics, so wrapped output is stable across fonts.
const (
	composeFontSize  = 12.0
	composeMargin    = 50.0
	composeLineScale = 1.2
	composeCharWidth = 0.6 // fraction of the font size per character
)

// TextComposer implements domain.PageComposer with fpdf, producing A4 pages
// of word-wrapped plain text.
type TextComposer struct {
	logger domain.Logger
}

// NewTextComposer creates a new text page composer
func NewTextComposer(logger domain.Logger) *TextComposer {
	return &TextComposer{logger: logger}
}

// ComposeText writes text to outPath as fixed-size lines inside the page
// margins, appending pages as content overflows. Returns the page count.
func (c *TextComposer) ComposeText(text string, outPath string, meta domain.DocumentMetadata) (int, error) {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	if meta.Title != "" {
		doc.SetTitle(meta.Title, true)
	}
	if meta.Author != "" {
		doc.SetAuthor(meta.Author, true)
	}
	if meta.Creator != "" {
		doc.SetCreator(meta.Creator, true)
	}

	doc.AddPage()
	doc.SetFont("Helvetica", "", composeFontSize)

	pageWidth, pageHeight := doc.GetPageSize()
	maxWidth := pageWidth - composeMargin*2
	lineHeight := composeFontSize * composeLineScale

	y := composeMargin + composeFontSize
	emit := func(line string) {
		if y > pageHeight-composeMargin {
			doc.AddPage()
			y = composeMargin + composeFontSize
		}
		doc.Text(composeMargin, y, line)
		y += lineHeight
	}

	var current string
	for _, word := range strings.Fields(text) {
		test := current
		if test != "" {
			test += " "
		}
		test += word

		if float64(len(test))*composeFontSize*composeCharWidth > maxWidth && current != "" {
			emit(current)
			current = word
		} else {
			current = test
		}
	}
	if current != "" {
		emit(current)
	}

	if err := doc.OutputFileAndClose(outPath); err != nil {
		return 0, fmt.Errorf("failed to write composed document: %w", err)
	}
	return doc.PageCount(), nil
}
