package service

import (
	"context"
	"fmt"
	"math"
	"os"

	"pdf-tools-server/internal/domain"
	apperrors "pdf-tools-server/pkg/errors"
)

// Per-tier fraction-of-original projections used by Estimate. Heuristic
// only; the measured outcome of Compress is authoritative.
var estimateFractions = map[domain.Quality]float64{
	domain.QualityLow:    0.3,
	domain.QualityMedium: 0.5,
	domain.QualityHigh:   0.7,
}

// CompressService re-serializes a document with tier-specific save options.
// Best-effort size reduction; the result may be larger than the input and
// is returned either way with its real ratio.
type CompressService struct {
	engine domain.DocumentEngine
	logger domain.Logger
}

// NewCompressService creates a new compress service
func NewCompressService(engine domain.DocumentEngine, logger domain.Logger) *CompressService {
	return &CompressService{
		engine: engine,
		logger: logger,
	}
}

// Compress writes a re-serialized copy of inPath to outPath using the
// quality tier's profile. Tiers with two-pass enabled run a second
// optimization over the first pass output and keep whichever is smaller.
func (s *CompressService) Compress(ctx context.Context, inPath, outPath string, quality domain.Quality) (*domain.CompressResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	profile := domain.ProfileFor(quality)

	original, err := os.Stat(inPath)
	if err != nil {
		return nil, apperrors.NewOperationError("PDF compression failed: "+err.Error(), err)
	}
	originalSize := original.Size()

	pageCount, err := s.engine.PageCount(inPath)
	if err != nil {
		return nil, apperrors.NewOperationError("PDF compression failed: "+err.Error(), err)
	}

	if err := s.engine.Optimize(inPath, outPath, profile); err != nil {
		return nil, apperrors.NewOperationError("PDF compression failed: "+err.Error(), err)
	}

	compressed, err := os.Stat(outPath)
	if err != nil {
		return nil, apperrors.NewOperationError("PDF compression failed: "+err.Error(), err)
	}
	compressedSize := compressed.Size()
	optimization := "single-pass"

	if profile.TwoPass {
		if secondSize, ok := s.secondPass(outPath, compressedSize); ok {
			compressedSize = secondSize
			optimization = "two-pass"
		}
	}

	result := &domain.CompressResult{
		OutputPath:       outPath,
		OriginalSize:     originalSize,
		CompressedSize:   compressedSize,
		CompressionRatio: formatRatio(originalSize, compressedSize),
		Quality:          quality,
		PageCount:        pageCount,
		Optimization:     optimization,
	}

	s.logger.Info("Compressed document",
		"quality", quality,
		"originalSize", originalSize,
		"compressedSize", compressedSize,
		"ratio", result.CompressionRatio,
		"optimization", optimization,
	)
	return result, nil
}

// secondPass re-optimizes the first pass output with aggressive settings and
// keeps it only when smaller. A failed second pass is logged and ignored.
func (s *CompressService) secondPass(outPath string, firstSize int64) (int64, bool) {
	retryProfile := domain.CompressionProfile{ObjectStreams: true, DedupStreams: true}
	secondOut := outPath + ".pass2"

	if err := s.engine.Optimize(outPath, secondOut, retryProfile); err != nil {
		s.logger.Warn("Second pass optimization failed, using first pass result", "error", err)
		return 0, false
	}

	second, err := os.Stat(secondOut)
	if err != nil || second.Size() >= firstSize {
		os.Remove(secondOut)
		return 0, false
	}

	if err := os.Rename(secondOut, outPath); err != nil {
		s.logger.Warn("Failed to keep second pass output", "error", err)
		os.Remove(secondOut)
		return 0, false
	}
	return second.Size(), true
}

// Estimate projects per-tier output sizes from file size alone and
// recommends a tier based on the input's size.
func (s *CompressService) Estimate(ctx context.Context, inPath string) (*domain.CompressEstimate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(inPath)
	if err != nil {
		return nil, apperrors.NewOperationError("Compression estimate failed: "+err.Error(), err)
	}

	pageCount, err := s.engine.PageCount(inPath)
	if err != nil {
		return nil, apperrors.NewOperationError("Compression estimate failed: "+err.Error(), err)
	}

	fileSize := info.Size()
	estimates := make(map[domain.Quality]int64, len(estimateFractions))
	for quality, fraction := range estimateFractions {
		estimates[quality] = int64(math.Round(float64(fileSize) * fraction))
	}

	return &domain.CompressEstimate{
		OriginalSize:   fileSize,
		PageCount:      pageCount,
		Estimates:      estimates,
		Recommendation: recommend(fileSize),
	}, nil
}

func recommend(fileSize int64) domain.CompressRecommendation {
	sizeMB := float64(fileSize) / (1024 * 1024)
	switch {
	case sizeMB > 10:
		return domain.CompressRecommendation{
			Recommended: domain.QualityLow,
			Reason:      "Large file size - aggressive compression recommended",
		}
	case sizeMB > 5:
		return domain.CompressRecommendation{
			Recommended: domain.QualityMedium,
			Reason:      "Medium file size - balanced compression recommended",
		}
	default:
		return domain.CompressRecommendation{
			Recommended: domain.QualityHigh,
			Reason:      "Small file size - preserve quality",
		}
	}
}

func formatRatio(originalSize, compressedSize int64) string {
	if originalSize == 0 {
		return "0.00%"
	}
	ratio := float64(originalSize-compressedSize) / float64(originalSize) * 100
	return fmt.Sprintf("%.2f%%", ratio)
}
