package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"pdf-tools-server/internal/domain"
)

func writeBytesFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestCompressService_HighQualitySinglePass(t *testing.T) {
	engine := newMockEngine(4)
	engine.optimizeSizes = []int{600}
	svc := NewCompressService(engine, &mockLogger{})

	dir := t.TempDir()
	inPath := writeBytesFile(t, dir, "in.pdf", 1000)
	outPath := filepath.Join(dir, "out.pdf")

	result, err := svc.Compress(context.Background(), inPath, outPath, domain.QualityHigh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Optimization != "single-pass" {
		t.Fatalf("expected single-pass, got %q", result.Optimization)
	}
	if result.OriginalSize != 1000 || result.CompressedSize != 600 {
		t.Fatalf("unexpected sizes %d -> %d", result.OriginalSize, result.CompressedSize)
	}
	if result.CompressionRatio != "40.00%" {
		t.Fatalf("unexpected ratio %q", result.CompressionRatio)
	}
	if result.PageCount != 4 || result.Quality != domain.QualityHigh {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(engine.optimizes) != 1 {
		t.Fatalf("expected one optimize call, got %d", len(engine.optimizes))
	}
	if engine.optimizes[0].profile.ObjectStreams {
		t.Fatal("high quality must not use object streams")
	}
}

func TestCompressService_TwoPassKeepsSmaller(t *testing.T) {
	engine := newMockEngine(4)
	engine.optimizeSizes = []int{500, 300}
	svc := NewCompressService(engine, &mockLogger{})

	dir := t.TempDir()
	inPath := writeBytesFile(t, dir, "in.pdf", 1000)
	outPath := filepath.Join(dir, "out.pdf")

	result, err := svc.Compress(context.Background(), inPath, outPath, domain.QualityLow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Optimization != "two-pass" {
		t.Fatalf("expected two-pass, got %q", result.Optimization)
	}
	if result.CompressedSize != 300 {
		t.Fatalf("expected second pass size 300, got %d", result.CompressedSize)
	}
	if !engine.optimizes[0].profile.DedupStreams {
		t.Fatal("low tier must deduplicate content streams")
	}
	if result.CompressionRatio != "70.00%" {
		t.Fatalf("unexpected ratio %q", result.CompressionRatio)
	}

	// Second pass output replaced the first; no stray intermediate left.
	info, err := os.Stat(outPath)
	if err != nil {
		t.Fatalf("missing output: %v", err)
	}
	if info.Size() != 300 {
		t.Fatalf("expected output rewritten to 300 bytes, got %d", info.Size())
	}
	if _, err := os.Stat(outPath + ".pass2"); !os.IsNotExist(err) {
		t.Fatal("expected intermediate pass file removed")
	}
}

func TestCompressService_TwoPassDiscardsLargerResult(t *testing.T) {
	engine := newMockEngine(4)
	engine.optimizeSizes = []int{500, 900}
	svc := NewCompressService(engine, &mockLogger{})

	dir := t.TempDir()
	inPath := writeBytesFile(t, dir, "in.pdf", 1000)
	outPath := filepath.Join(dir, "out.pdf")

	result, err := svc.Compress(context.Background(), inPath, outPath, domain.QualityMedium)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Optimization != "single-pass" {
		t.Fatalf("expected larger second pass discarded, got %q", result.Optimization)
	}
	if result.CompressedSize != 500 {
		t.Fatalf("expected first pass size 500, got %d", result.CompressedSize)
	}
	if engine.optimizes[0].profile.DedupStreams {
		t.Fatal("medium tier must not deduplicate content streams")
	}
	if _, err := os.Stat(outPath + ".pass2"); !os.IsNotExist(err) {
		t.Fatal("expected rejected pass file removed")
	}
}

func TestCompressService_ReportsGrowth(t *testing.T) {
	engine := newMockEngine(4)
	engine.optimizeSizes = []int{1500}
	svc := NewCompressService(engine, &mockLogger{})

	dir := t.TempDir()
	inPath := writeBytesFile(t, dir, "in.pdf", 1000)

	result, err := svc.Compress(context.Background(), inPath, filepath.Join(dir, "out.pdf"), domain.QualityHigh)
	if err != nil {
		t.Fatalf("expected growth to be reported, not fail: %v", err)
	}
	if result.CompressionRatio != "-50.00%" {
		t.Fatalf("expected negative ratio, got %q", result.CompressionRatio)
	}
}

func TestCompressService_Estimate(t *testing.T) {
	engine := newMockEngine(10)
	svc := NewCompressService(engine, &mockLogger{})

	dir := t.TempDir()
	inPath := writeBytesFile(t, dir, "in.pdf", 1000)

	estimate, err := svc.Estimate(context.Background(), inPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if estimate.OriginalSize != 1000 || estimate.PageCount != 10 {
		t.Fatalf("unexpected estimate %+v", estimate)
	}
	if estimate.Estimates[domain.QualityLow] != 300 {
		t.Fatalf("expected low estimate 300, got %d", estimate.Estimates[domain.QualityLow])
	}
	if estimate.Estimates[domain.QualityMedium] != 500 {
		t.Fatalf("expected medium estimate 500, got %d", estimate.Estimates[domain.QualityMedium])
	}
	if estimate.Estimates[domain.QualityHigh] != 700 {
		t.Fatalf("expected high estimate 700, got %d", estimate.Estimates[domain.QualityHigh])
	}
	// Small files keep quality.
	if estimate.Recommendation.Recommended != domain.QualityHigh {
		t.Fatalf("expected high recommendation, got %s", estimate.Recommendation.Recommended)
	}
}

func TestRecommend(t *testing.T) {
	if r := recommend(12 << 20); r.Recommended != domain.QualityLow {
		t.Fatalf("expected low for large files, got %s", r.Recommended)
	}
	if r := recommend(7 << 20); r.Recommended != domain.QualityMedium {
		t.Fatalf("expected medium for mid-size files, got %s", r.Recommended)
	}
	if r := recommend(1 << 20); r.Recommended != domain.QualityHigh {
		t.Fatalf("expected high for small files, got %s", r.Recommended)
	}
}
