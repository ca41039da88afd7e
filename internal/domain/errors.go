package domain

import "errors"

// Validation sentinels surfaced as 400s by the handlers
var (
	ErrNoFilesUploaded    = errors.New("no files uploaded")
	ErrTooFewDocuments    = errors.New("at least 2 PDF files are required for merging")
	ErrUnsupportedFormat  = errors.New("unsupported file format")
	ErrInvalidPageRanges  = errors.New("invalid pageRanges JSON")
	ErrInvalidPageNumbers = errors.New("invalid specificPages JSON")
)
