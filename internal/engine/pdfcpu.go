// Package engine adapts the third-party PDF and image libraries to the
// domain interfaces consumed by the operation services.
package engine

import (
	"fmt"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"pdf-tools-server/internal/domain"
)

// EngineName identifies the backing PDF library for the health endpoint
const EngineName = "pdfcpu"

// PDFCPUEngine implements domain.DocumentEngine on top of pdfcpu
type PDFCPUEngine struct {
	logger domain.Logger
}

// NewPDFCPUEngine creates a new pdfcpu-backed document engine
func NewPDFCPUEngine(logger domain.Logger) *PDFCPUEngine {
	return &PDFCPUEngine{logger: logger}
}

// conf returns a fresh default configuration. pdfcpu mutates configuration
// state while processing, so each call gets its own.
func (e *PDFCPUEngine) conf() *model.Configuration {
	return model.NewDefaultConfiguration()
}

// PageCount returns the number of pages of the document at path
func (e *PDFCPUEngine) PageCount(path string) (int, error) {
	n, err := pdfapi.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read page count: %w", err)
	}
	return n, nil
}

// Merge concatenates all pages of the inputs, in order, into outPath
func (e *PDFCPUEngine) Merge(inputs []string, outPath string) error {
	if err := pdfapi.MergeCreateFile(inputs, outPath, false, e.conf()); err != nil {
		return fmt.Errorf("failed to merge documents: %w", err)
	}
	return nil
}

// CopyPages writes the selected pages of inPath into outPath. Selections use
// pdfcpu's 1-indexed syntax, e.g. "3" or "2-5".
func (e *PDFCPUEngine) CopyPages(inPath, outPath string, selection []string) error {
	if err := pdfapi.TrimFile(inPath, outPath, selection, e.conf()); err != nil {
		return fmt.Errorf("failed to copy pages %v: %w", selection, err)
	}
	return nil
}

// Optimize re-serializes the document with the profile's save options
func (e *PDFCPUEngine) Optimize(inPath, outPath string, profile domain.CompressionProfile) error {
	conf := e.conf()
	conf.WriteObjectStream = profile.ObjectStreams
	conf.WriteXRefStream = profile.ObjectStreams
	conf.OptimizeDuplicateContentStreams = profile.DedupStreams
	if err := pdfapi.OptimizeFile(inPath, outPath, conf); err != nil {
		return fmt.Errorf("failed to optimize document: %w", err)
	}
	return nil
}

// ImportImages embeds each image as its own page. Pages use the default form
// size with the image scaled to 90% of the page, centered, aspect preserved.
func (e *PDFCPUEngine) ImportImages(images []string, outPath string) error {
	imp, err := pdfapi.Import("form:A4, pos:c, scalefactor:0.9 rel", types.POINTS)
	if err != nil {
		return fmt.Errorf("failed to build import configuration: %w", err)
	}
	if err := pdfapi.ImportImagesFile(images, outPath, imp, e.conf()); err != nil {
		return fmt.Errorf("failed to import images: %w", err)
	}
	return nil
}

// SetMetadata applies document info fields in place. A zero metadata value
// leaves the document untouched.
func (e *PDFCPUEngine) SetMetadata(path string, meta domain.DocumentMetadata) error {
	if meta == (domain.DocumentMetadata{}) {
		return nil
	}
	ctx, err := pdfapi.ReadContextFile(path)
	if err != nil {
		return fmt.Errorf("failed to load document for metadata update: %w", err)
	}
	if meta.Title != "" {
		ctx.XRefTable.Title = meta.Title
	}
	if meta.Author != "" {
		ctx.XRefTable.Author = meta.Author
	}
	if meta.Subject != "" {
		ctx.XRefTable.Subject = meta.Subject
	}
	if meta.Creator != "" {
		ctx.XRefTable.Creator = meta.Creator
	}
	if err := pdfapi.WriteContextFile(ctx, path); err != nil {
		return fmt.Errorf("failed to write document metadata: %w", err)
	}
	return nil
}
