// Package service implements the PDF operation services. Each service
// sequences document engine calls for one transformation and wraps any
// engine failure into a single operation-scoped error.
package service

import (
	"context"
	"os"

	"pdf-tools-server/internal/domain"
	apperrors "pdf-tools-server/pkg/errors"
)

// MergeService concatenates multiple PDF documents into one
type MergeService struct {
	engine domain.DocumentEngine
	logger domain.Logger
}

// NewMergeService creates a new merge service
func NewMergeService(engine domain.DocumentEngine, logger domain.Logger) *MergeService {
	return &MergeService{
		engine: engine,
		logger: logger,
	}
}

// Merge combines the inputs in order into outPath without touching metadata
func (s *MergeService) Merge(ctx context.Context, inputs []string, outPath string) (*domain.MergeResult, error) {
	return s.MergeWithMetadata(ctx, inputs, outPath, domain.DocumentMetadata{})
}

// MergeWithMetadata combines the inputs in order into outPath and applies
// the given document info to the result. Any unreadable source aborts the
// whole operation; there is no partial merge.
func (s *MergeService) MergeWithMetadata(ctx context.Context, inputs []string, outPath string, meta domain.DocumentMetadata) (*domain.MergeResult, error) {
	if len(inputs) < 2 {
		return nil, apperrors.NewValidationError(domain.ErrTooFewDocuments.Error())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.engine.Merge(inputs, outPath); err != nil {
		return nil, apperrors.NewOperationError("PDF merge failed: "+err.Error(), err)
	}

	if err := s.engine.SetMetadata(outPath, meta); err != nil {
		return nil, apperrors.NewOperationError("PDF merge failed: "+err.Error(), err)
	}

	pageCount, err := s.engine.PageCount(outPath)
	if err != nil {
		return nil, apperrors.NewOperationError("PDF merge failed: "+err.Error(), err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return nil, apperrors.NewOperationError("PDF merge failed: "+err.Error(), err)
	}

	result := &domain.MergeResult{
		OutputPath: outPath,
		PageCount:  pageCount,
		FileSize:   info.Size(),
	}
	if meta != (domain.DocumentMetadata{}) {
		result.Metadata = &meta
	}

	s.logger.Info("Merged documents", "inputs", len(inputs), "pages", pageCount, "size", info.Size())
	return result, nil
}
