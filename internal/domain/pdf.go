package domain

// Quality represents a compression quality tier
type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
)

// ParseQuality maps a form value onto a known tier, defaulting to medium
func ParseQuality(s string) Quality {
	switch Quality(s) {
	case QualityLow, QualityMedium, QualityHigh:
		return Quality(s)
	default:
		return QualityMedium
	}
}

// CompressionProfile holds the save options applied for one quality tier.
// Lower tiers favor size: object streams for low and medium, duplicate
// content stream elimination for low only. High favors fidelity.
type CompressionProfile struct {
	ObjectStreams bool `json:"objectStreams"`
	DedupStreams  bool `json:"dedupStreams"`
	TwoPass       bool `json:"twoPass"`
}

var compressionProfiles = map[Quality]CompressionProfile{
	QualityLow:    {ObjectStreams: true, DedupStreams: true, TwoPass: true},
	QualityMedium: {ObjectStreams: true, DedupStreams: false, TwoPass: true},
	QualityHigh:   {ObjectStreams: false, DedupStreams: false, TwoPass: false},
}

// ProfileFor returns the static compression profile for a quality tier.
// Unknown tiers fall back to medium.
func ProfileFor(quality Quality) CompressionProfile {
	if p, ok := compressionProfiles[quality]; ok {
		return p
	}
	return compressionProfiles[QualityMedium]
}

// PageRange is a closed interval over 1-indexed page numbers
type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Clamp bounds the range into [1, totalPages]. Ranges are never rejected;
// callers surface the adjustment as a warning when it changes anything.
func (r PageRange) Clamp(totalPages int) PageRange {
	c := r
	if c.Start < 1 {
		c.Start = 1
	}
	if c.End > totalPages {
		c.End = totalPages
	}
	return c
}

// PageCount returns the number of pages covered by the range
func (r PageRange) PageCount() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// DocumentMetadata is the optional info applied to a generated document
type DocumentMetadata struct {
	Title   string `json:"title,omitempty"`
	Author  string `json:"author,omitempty"`
	Subject string `json:"subject,omitempty"`
	Creator string `json:"creator,omitempty"`
}

// FileInfo describes a staged uploaded asset
type FileInfo struct {
	ID           string `json:"id"`
	OriginalName string `json:"originalName"`
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	Extension    string `json:"extension"`
}

// MergeResult is the outcome of merging multiple documents
type MergeResult struct {
	OutputPath string            `json:"outputPath"`
	PageCount  int               `json:"pageCount"`
	FileSize   int64             `json:"fileSize"`
	Metadata   *DocumentMetadata `json:"metadata,omitempty"`
}

// SplitOptions selects the split mode. When both fields are empty the
// source is split into one document per page.
type SplitOptions struct {
	PageRanges    []PageRange `json:"pageRanges,omitempty"`
	SpecificPages []int       `json:"specificPages,omitempty"`
}

// SplitUnit describes one document produced by a split
type SplitUnit struct {
	OutputPath string `json:"outputPath"`
	Label      string `json:"label"`
	PageCount  int    `json:"pageCount"`
	FileSize   int64  `json:"fileSize"`
}

// SplitResult is the outcome of splitting a document. Warnings report
// silently clamped ranges and skipped out-of-range pages.
type SplitResult struct {
	TotalPages int         `json:"totalPages"`
	Files      []SplitUnit `json:"files"`
	OutputDir  string      `json:"outputDirectory"`
	Warnings   []string    `json:"warnings,omitempty"`
}

// ExtractResult is the outcome of extracting selected pages into one document
type ExtractResult struct {
	OutputPath     string `json:"outputPath"`
	ExtractedPages []int  `json:"extractedPages"`
	PageCount      int    `json:"pageCount"`
	FileSize       int64  `json:"fileSize"`
}

// CompressResult is the outcome of a compression pass. The ratio is the
// measured reduction and may be negative for image-heavy documents.
type CompressResult struct {
	OutputPath       string  `json:"outputPath"`
	OriginalSize     int64   `json:"originalSize"`
	CompressedSize   int64   `json:"compressedSize"`
	CompressionRatio string  `json:"compressionRatio"`
	Quality          Quality `json:"quality"`
	PageCount        int     `json:"pageCount"`
	Optimization     string  `json:"optimization"`
}

// CompressRecommendation suggests a tier based on input size
type CompressRecommendation struct {
	Recommended Quality `json:"recommended"`
	Reason      string  `json:"reason"`
}

// CompressEstimate projects per-tier output sizes from file size alone.
// Heuristic only, never measured.
type CompressEstimate struct {
	OriginalSize   int64                  `json:"originalSize"`
	PageCount      int                    `json:"pageCount"`
	Estimates      map[Quality]int64      `json:"estimates"`
	Recommendation CompressRecommendation `json:"recommendations"`
}

// ImagesToPDFResult is the outcome of embedding images as PDF pages
type ImagesToPDFResult struct {
	OutputPath  string `json:"outputPath"`
	PageCount   int    `json:"pageCount"`
	FileSize    int64  `json:"fileSize"`
	InputImages int    `json:"inputImages"`
}

// WordToPDFResult is the outcome of laying DOCX text out as PDF pages
type WordToPDFResult struct {
	OutputPath    string `json:"outputPath"`
	PageCount     int    `json:"pageCount"`
	FileSize      int64  `json:"fileSize"`
	ExtractedText int    `json:"extractedText"`
}

// PageFile describes one per-page output of a PDF-to-images conversion
type PageFile struct {
	Page int    `json:"page"`
	Path string `json:"path"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// RasterOptions configures PDF page rasterization
type RasterOptions struct {
	Format  string `json:"format"`
	Density int    `json:"density"`
}

// PDFToImagesResult is the outcome of rasterizing a document. Method is
// "rasterizer" or "text-fallback"; Warning is set on the fallback path.
type PDFToImagesResult struct {
	OutputDir  string     `json:"outputDirectory"`
	Format     string     `json:"format"`
	TotalPages int        `json:"totalPages"`
	Files      []PageFile `json:"files"`
	Method     string     `json:"method"`
	Warning    string     `json:"warning,omitempty"`
}

// PDFToTextResult is the outcome of extracting a document's text layer
type PDFToTextResult struct {
	OutputPath string           `json:"outputPath"`
	PageCount  int              `json:"pageCount"`
	TextLength int              `json:"textLength"`
	Metadata   DocumentMetadata `json:"metadata"`
}

// Formats lists the supported input and output extensions
type Formats struct {
	Input  FormatGroup `json:"input"`
	Output FormatGroup `json:"output"`
}

// FormatGroup buckets extensions by kind
type FormatGroup struct {
	Images    []string `json:"images"`
	Documents []string `json:"documents"`
	PDF       []string `json:"pdf"`
}

// Capabilities records which optional adapters were resolved at startup.
// Services branch on these explicitly instead of probing for runtime errors.
type Capabilities struct {
	CanRasterizePages  bool `json:"canRasterizePages"`
	CanTranscodeImages bool `json:"canTranscodeImages"`
}
