package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"pdf-tools-server/internal/domain"
	apperrors "pdf-tools-server/pkg/errors"
)

// SplitService splits one PDF document into per-range or per-page documents
type SplitService struct {
	engine domain.DocumentEngine
	logger domain.Logger
}

// NewSplitService creates a new split service
func NewSplitService(engine domain.DocumentEngine, logger domain.Logger) *SplitService {
	return &SplitService{
		engine: engine,
		logger: logger,
	}
}

// Split produces one document per requested unit in outDir. Ranges are
// clamped into the document's bounds and out-of-range page numbers are
// skipped; both adjustments are reported through the result's Warnings
// rather than as errors. With empty options every page becomes its own
// document.
func (s *SplitService) Split(ctx context.Context, inPath, outDir string, opts domain.SplitOptions) (*domain.SplitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	totalPages, err := s.engine.PageCount(inPath)
	if err != nil {
		return nil, apperrors.NewOperationError("PDF split failed: "+err.Error(), err)
	}

	result := &domain.SplitResult{
		TotalPages: totalPages,
		OutputDir:  outDir,
		Files:      []domain.SplitUnit{},
	}

	switch {
	case len(opts.PageRanges) > 0:
		for _, r := range opts.PageRanges {
			clamped := r.Clamp(totalPages)
			if clamped != r {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("page range %d-%d clamped to %d-%d", r.Start, r.End, clamped.Start, clamped.End))
			}
			if clamped.PageCount() == 0 {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("page range %d-%d has no pages in 1-%d; skipped", r.Start, r.End, totalPages))
				continue
			}

			label := fmt.Sprintf("%d-%d", r.Start, r.End)
			outPath := filepath.Join(outDir, fmt.Sprintf("pages_%s.pdf", label))
			selection := []string{fmt.Sprintf("%d-%d", clamped.Start, clamped.End)}
			if err := s.writeUnit(inPath, outPath, selection, label, clamped.PageCount(), result); err != nil {
				return nil, err
			}
		}

	case len(opts.SpecificPages) > 0:
		for _, pageNum := range opts.SpecificPages {
			if pageNum < 1 || pageNum > totalPages {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("page %d out of range (1-%d); skipped", pageNum, totalPages))
				continue
			}

			label := strconv.Itoa(pageNum)
			outPath := filepath.Join(outDir, fmt.Sprintf("page_%s.pdf", label))
			if err := s.writeUnit(inPath, outPath, []string{label}, label, 1, result); err != nil {
				return nil, err
			}
		}

	default:
		for pageNum := 1; pageNum <= totalPages; pageNum++ {
			label := strconv.Itoa(pageNum)
			outPath := filepath.Join(outDir, fmt.Sprintf("page_%s.pdf", label))
			if err := s.writeUnit(inPath, outPath, []string{label}, label, 1, result); err != nil {
				return nil, err
			}
		}
	}

	s.logger.Info("Split document", "totalPages", totalPages, "units", len(result.Files), "warnings", len(result.Warnings))
	return result, nil
}

// ExtractPages copies the valid requested pages, in request order, into a
// single document at outPath. Out-of-range pages are dropped.
func (s *SplitService) ExtractPages(ctx context.Context, inPath, outPath string, pages []int) (*domain.ExtractResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	totalPages, err := s.engine.PageCount(inPath)
	if err != nil {
		return nil, apperrors.NewOperationError("Page extraction failed: "+err.Error(), err)
	}

	var valid []int
	var selection []string
	for _, pageNum := range pages {
		if pageNum >= 1 && pageNum <= totalPages {
			valid = append(valid, pageNum)
			selection = append(selection, strconv.Itoa(pageNum))
		}
	}
	if len(valid) == 0 {
		return nil, apperrors.NewValidationError("no requested pages exist in the document")
	}

	if err := s.engine.CopyPages(inPath, outPath, selection); err != nil {
		return nil, apperrors.NewOperationError("Page extraction failed: "+err.Error(), err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return nil, apperrors.NewOperationError("Page extraction failed: "+err.Error(), err)
	}

	return &domain.ExtractResult{
		OutputPath:     outPath,
		ExtractedPages: valid,
		PageCount:      len(valid),
		FileSize:       info.Size(),
	}, nil
}

// writeUnit copies one selection into its own document and appends the unit
// to the result
func (s *SplitService) writeUnit(inPath, outPath string, selection []string, label string, pageCount int, result *domain.SplitResult) error {
	if err := s.engine.CopyPages(inPath, outPath, selection); err != nil {
		return apperrors.NewOperationError("PDF split failed: "+err.Error(), err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return apperrors.NewOperationError("PDF split failed: "+err.Error(), err)
	}

	result.Files = append(result.Files, domain.SplitUnit{
		OutputPath: outPath,
		Label:      label,
		PageCount:  pageCount,
		FileSize:   info.Size(),
	})
	return nil
}
