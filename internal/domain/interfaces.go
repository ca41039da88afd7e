package domain

import (
	"context"
	"mime/multipart"
	"time"
)

// DocumentEngine defines the PDF document operations backed by the PDF library
type DocumentEngine interface {
	// PageCount returns the number of pages of the document at path
	PageCount(path string) (int, error)
	// Merge concatenates all pages of the inputs, in order, into outPath
	Merge(inputs []string, outPath string) error
	// CopyPages writes the pages selected by a 1-indexed page selection
	// (e.g. "3" or "2-5") of inPath into outPath, preserving order
	CopyPages(inPath, outPath string, selection []string) error
	// Optimize re-serializes the document using the given profile's options
	Optimize(inPath, outPath string, profile CompressionProfile) error
	// ImportImages embeds each image as its own page sized to fit the
	// default page dimensions
	ImportImages(images []string, outPath string) error
	// SetMetadata applies document info fields; omitted fields are no-ops
	SetMetadata(path string, meta DocumentMetadata) error
}

// PageRasterizer renders document pages to raster images. Optional
// capability; absence selects the text placeholder fallback.
type PageRasterizer interface {
	// RasterizePages renders every page of the document at inPath into
	// outDir as format ("png", "jpeg" or "gif") at the given density (DPI),
	// returning one entry per page in order
	RasterizePages(ctx context.Context, inPath, outDir string, opts RasterOptions) ([]PageFile, error)
}

// TextExtractor pulls the plain-text layer out of a PDF document
type TextExtractor interface {
	// ExtractText returns the document's text content, its page count and
	// any info-dictionary metadata
	ExtractText(path string) (string, int, DocumentMetadata, error)
}

// WordExtractor pulls raw text out of a word-processing document.
// Formatting is discarded.
type WordExtractor interface {
	ExtractText(path string) (string, error)
}

// PageComposer lays text out as word-wrapped PDF pages
type PageComposer interface {
	// ComposeText writes text as fixed-size, margin-bounded lines to
	// outPath, spilling onto new pages as needed; returns the page count
	ComposeText(text string, outPath string, meta DocumentMetadata) (int, error)
}

// ImageTranscoder converts arbitrary raster formats into one the engine can
// embed natively. Optional capability; absence rejects unsupported formats.
type ImageTranscoder interface {
	// Transcode decodes the image at inPath and writes a PNG next to it,
	// returning the new path
	Transcode(inPath string) (string, error)
}

// Workspace manages a scratch directory tree of request-scoped jobs
type Workspace interface {
	NewJob() (Job, error)
}

// Job is one request's working directory. Inputs are staged under its root,
// outputs under its output directory; Release cleans both per policy.
type Job interface {
	// ID is the unique identifier of this job's directory
	ID() string
	// SaveUpload streams a multipart file to a uniquely named staged path
	SaveUpload(file multipart.File, header *multipart.FileHeader) (*FileInfo, error)
	// OutputPath returns a path for a generated artifact inside the job
	OutputPath(name string) string
	// OutputDir returns the directory generated artifacts are written to
	OutputDir() string
	// Release deletes staged inputs immediately and schedules the job
	// directory for deletion after the cleanup delay. Safe on every exit
	// path and idempotent.
	Release()
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetTempDir() string
	GetMaxFileSize() int64
	GetLogLevel() string
	GetCleanupDelay() time.Duration
	RasterizerEnabled() bool
	ImageTranscodingEnabled() bool
}
