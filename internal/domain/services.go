package domain

import "context"

// MergeService defines the use-case operations for merging documents
type MergeService interface {
	Merge(ctx context.Context, inputs []string, outPath string) (*MergeResult, error)
	MergeWithMetadata(ctx context.Context, inputs []string, outPath string, meta DocumentMetadata) (*MergeResult, error)
}

// SplitService defines the use-case operations for splitting documents
type SplitService interface {
	Split(ctx context.Context, inPath, outDir string, opts SplitOptions) (*SplitResult, error)
	ExtractPages(ctx context.Context, inPath, outPath string, pages []int) (*ExtractResult, error)
}

// CompressService defines the use-case operations for compressing documents
type CompressService interface {
	Compress(ctx context.Context, inPath, outPath string, quality Quality) (*CompressResult, error)
	Estimate(ctx context.Context, inPath string) (*CompressEstimate, error)
}

// ConvertService defines the use-case operations for converting between PDF
// and other formats
type ConvertService interface {
	ImagesToPDF(ctx context.Context, images []*FileInfo, outPath string, meta DocumentMetadata) (*ImagesToPDFResult, error)
	WordToPDF(ctx context.Context, docxPath, outPath string) (*WordToPDFResult, error)
	PDFToImages(ctx context.Context, inPath, outDir string, opts RasterOptions) (*PDFToImagesResult, error)
	PDFToText(ctx context.Context, inPath, outPath string) (*PDFToTextResult, error)
	SupportedFormats() Formats
}
