// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"pdf-tools-server/internal/domain"
	"pdf-tools-server/internal/storage"
	apperrors "pdf-tools-server/pkg/errors"
)

// multipartMemory caps how much of a parsed form is held in memory before
// spilling to disk
const multipartMemory = 32 << 20

// PDFHandler runs the request pipeline for every PDF operation: parse the
// multipart upload, validate file counts, stage assets into a job, invoke
// the matching service and stream the result back.
type PDFHandler struct {
	mergeService    domain.MergeService
	splitService    domain.SplitService
	compressService domain.CompressService
	convertService  domain.ConvertService
	workspace       domain.Workspace
	config          domain.Config
	logger          domain.Logger

	version   string
	libraries []string
	startTime time.Time
}

// NewPDFHandler creates a new PDF operations handler
func NewPDFHandler(
	mergeService domain.MergeService,
	splitService domain.SplitService,
	compressService domain.CompressService,
	convertService domain.ConvertService,
	workspace domain.Workspace,
	config domain.Config,
	logger domain.Logger,
	version string,
	libraries []string,
) *PDFHandler {
	return &PDFHandler{
		mergeService:    mergeService,
		splitService:    splitService,
		compressService: compressService,
		convertService:  convertService,
		workspace:       workspace,
		config:          config,
		logger:          logger,
		version:         version,
		libraries:       libraries,
		startTime:       time.Now(),
	}
}

// Index lists the available endpoints
func (h *PDFHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "PDF Tools Server API",
		"version": h.version,
		"endpoints": []string{
			"GET /api/health - Service health and version",
			"GET /api/formats - Supported input/output formats",
			"POST /api/merge - Merge multiple PDF files",
			"POST /api/split - Split a PDF file",
			"POST /api/extract - Extract selected pages into one PDF",
			"POST /api/compress - Compress a PDF file",
			"POST /api/compress/estimate - Estimate compression results",
			"POST /api/convert/to-pdf - Convert images or DOCX to PDF",
			"POST /api/convert/from-pdf - Convert a PDF to images or text",
		},
	})
}

// Health reports liveness, uptime and the backing libraries
func (h *PDFHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"version":   h.version,
		"uptime":    int64(time.Since(h.startTime).Seconds()),
		"libraries": h.libraries,
	})
}

// Formats reports the supported input and output formats
func (h *PDFHandler) Formats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.convertService.SupportedFormats())
}

// Merge handles POST /api/merge: ≥2 PDFs in, one PDF stream out
func (h *PDFHandler) Merge(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	headers := r.MultipartForm.File["pdfs"]
	if len(headers) < 2 {
		writeError(w, http.StatusBadRequest, domain.ErrTooFewDocuments.Error())
		return
	}

	job, files, ok := h.stagePDFs(w, headers)
	if !ok {
		return
	}
	defer job.Release()

	meta := domain.DocumentMetadata{
		Title:  r.FormValue("title"),
		Author: r.FormValue("author"),
	}
	result, err := h.mergeService.MergeWithMetadata(r.Context(), stagedPaths(files), job.OutputPath("merged.pdf"), meta)
	if err != nil {
		h.respondError(w, err, "merge")
		return
	}

	downloadName := storage.SanitizeFilename(meta.Title, "merged") + ".pdf"
	h.streamFile(w, result.OutputPath, downloadName)
}

// Split handles POST /api/split: one PDF in, one PDF or a zip bundle out
func (h *PDFHandler) Split(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	job, file, ok := h.stageSinglePDF(w, r)
	if !ok {
		return
	}
	defer job.Release()

	var opts domain.SplitOptions
	if raw := r.FormValue("pageRanges"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &opts.PageRanges); err != nil {
			writeError(w, http.StatusBadRequest, domain.ErrInvalidPageRanges.Error())
			return
		}
	}
	if raw := r.FormValue("specificPages"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &opts.SpecificPages); err != nil {
			writeError(w, http.StatusBadRequest, domain.ErrInvalidPageNumbers.Error())
			return
		}
	}

	result, err := h.splitService.Split(r.Context(), file.Path, job.OutputDir(), opts)
	if err != nil {
		h.respondError(w, err, "split")
		return
	}

	switch len(result.Files) {
	case 0:
		// Every requested unit was dropped; the warnings say why.
		writeJSON(w, http.StatusOK, result)
	case 1:
		h.streamFile(w, result.Files[0].OutputPath, filepath.Base(result.Files[0].OutputPath))
	default:
		stem := storage.SanitizeFilename(stemOf(file.OriginalName), "split")
		zipPath := job.OutputPath(stem + "_split.zip")
		paths := make([]string, len(result.Files))
		for i, unit := range result.Files {
			paths[i] = unit.OutputPath
		}
		if err := zipFiles(paths, zipPath); err != nil {
			h.respondError(w, apperrors.NewInternalError("failed to bundle split output", err), "split")
			return
		}
		h.streamFile(w, zipPath, filepath.Base(zipPath))
	}
}

// Extract handles POST /api/extract: selected pages of one PDF into one PDF
func (h *PDFHandler) Extract(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	job, file, ok := h.stageSinglePDF(w, r)
	if !ok {
		return
	}
	defer job.Release()

	var pages []int
	raw := r.FormValue("pages")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "pages is required")
		return
	}
	if err := json.Unmarshal([]byte(raw), &pages); err != nil {
		writeError(w, http.StatusBadRequest, "invalid pages JSON")
		return
	}

	result, err := h.splitService.ExtractPages(r.Context(), file.Path, job.OutputPath("extracted.pdf"), pages)
	if err != nil {
		h.respondError(w, err, "extract")
		return
	}

	stem := storage.SanitizeFilename(stemOf(file.OriginalName), "extracted")
	h.streamFile(w, result.OutputPath, stem+"_extracted.pdf")
}

// Compress handles POST /api/compress: one PDF in, compressed PDF out
func (h *PDFHandler) Compress(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	job, file, ok := h.stageSinglePDF(w, r)
	if !ok {
		return
	}
	defer job.Release()

	quality := domain.ParseQuality(r.FormValue("quality"))
	result, err := h.compressService.Compress(r.Context(), file.Path, job.OutputPath("compressed.pdf"), quality)
	if err != nil {
		h.respondError(w, err, "compress")
		return
	}

	h.logger.Info("Compression served", "quality", quality, "ratio", result.CompressionRatio)
	stem := storage.SanitizeFilename(stemOf(file.OriginalName), "compressed")
	h.streamFile(w, result.OutputPath, stem+"_compressed.pdf")
}

// CompressEstimate handles POST /api/compress/estimate: projections only,
// nothing is written
func (h *PDFHandler) CompressEstimate(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	job, file, ok := h.stageSinglePDF(w, r)
	if !ok {
		return
	}
	defer job.Release()

	estimate, err := h.compressService.Estimate(r.Context(), file.Path)
	if err != nil {
		h.respondError(w, err, "compress estimate")
		return
	}
	writeJSON(w, http.StatusOK, estimate)
}

// ConvertToPDF handles POST /api/convert/to-pdf: images or a DOCX file in,
// one PDF out. Dispatches on the first file's extension.
func (h *PDFHandler) ConvertToPDF(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) < 1 {
		writeError(w, http.StatusBadRequest, "At least one file is required")
		return
	}

	job, err := h.workspace.NewJob()
	if err != nil {
		h.respondError(w, apperrors.NewInternalError("failed to create working directory", err), "convert")
		return
	}
	defer job.Release()

	files, ok := h.stageAll(w, job, headers)
	if !ok {
		return
	}

	first := files[0]
	outPath := job.OutputPath("converted.pdf")
	stem := storage.SanitizeFilename(stemOf(first.OriginalName), "converted")

	if first.Extension == ".docx" {
		if len(files) > 1 {
			writeError(w, http.StatusBadRequest, "DOCX conversion accepts a single file")
			return
		}
		result, err := h.convertService.WordToPDF(r.Context(), first.Path, outPath)
		if err != nil {
			h.respondError(w, err, "convert to-pdf")
			return
		}
		h.streamFile(w, result.OutputPath, stem+".pdf")
		return
	}

	meta := domain.DocumentMetadata{
		Title:  r.FormValue("title"),
		Author: r.FormValue("author"),
	}
	result, err := h.convertService.ImagesToPDF(r.Context(), files, outPath, meta)
	if err != nil {
		h.respondError(w, err, "convert to-pdf")
		return
	}
	h.streamFile(w, result.OutputPath, stem+".pdf")
}

// ConvertFromPDF handles POST /api/convert/from-pdf: one PDF in, a text
// file, a single image, or a zip of per-page images out
func (h *PDFHandler) ConvertFromPDF(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	job, file, ok := h.stageSinglePDF(w, r)
	if !ok {
		return
	}
	defer job.Release()

	convertTo := r.FormValue("convertTo")
	if convertTo == "" {
		convertTo = "png"
	}
	stem := storage.SanitizeFilename(stemOf(file.OriginalName), "converted")

	switch convertTo {
	case "txt":
		result, err := h.convertService.PDFToText(r.Context(), file.Path, job.OutputPath(stem+".txt"))
		if err != nil {
			h.respondError(w, err, "convert from-pdf")
			return
		}
		h.streamFile(w, result.OutputPath, stem+".txt")

	case "png", "jpeg", "gif":
		opts := domain.RasterOptions{Format: convertTo, Density: formInt(r, "density")}
		result, err := h.convertService.PDFToImages(r.Context(), file.Path, job.OutputDir(), opts)
		if err != nil {
			h.respondError(w, err, "convert from-pdf")
			return
		}
		if len(result.Files) == 1 {
			h.streamFile(w, result.Files[0].Path, result.Files[0].Name)
			return
		}
		zipPath := job.OutputPath(stem + "_images.zip")
		paths := make([]string, len(result.Files))
		for i, pf := range result.Files {
			paths[i] = pf.Path
		}
		if err := zipFiles(paths, zipPath); err != nil {
			h.respondError(w, apperrors.NewInternalError("failed to bundle converted pages", err), "convert from-pdf")
			return
		}
		h.streamFile(w, zipPath, filepath.Base(zipPath))

	default:
		writeError(w, http.StatusBadRequest, "unsupported convertTo format: "+convertTo)
	}
}

// parseForm parses the multipart body, reporting violations as 400s.
// The body is capped before parsing so an oversized upload is rejected while
// it streams in, not after it has been spooled to disk. Returns false when
// the response has already been written.
func (h *PDFHandler) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.GetMaxFileSize())
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusBadRequest, "File too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return false
	}
	return true
}

// stagePDFs validates and stages a set of PDF uploads into a fresh job.
// On failure the response is written and the job, if created, is released.
func (h *PDFHandler) stagePDFs(w http.ResponseWriter, headers []*multipart.FileHeader) (domain.Job, []*domain.FileInfo, bool) {
	for _, header := range headers {
		if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
			writeError(w, http.StatusBadRequest, "Only PDF files are allowed: "+header.Filename)
			return nil, nil, false
		}
	}

	job, err := h.workspace.NewJob()
	if err != nil {
		h.respondError(w, apperrors.NewInternalError("failed to create working directory", err), "stage")
		return nil, nil, false
	}

	files, ok := h.stageAll(w, job, headers)
	if !ok {
		job.Release()
		return nil, nil, false
	}
	return job, files, true
}

// stageSinglePDF stages the one required "pdf" form file into a fresh job
func (h *PDFHandler) stageSinglePDF(w http.ResponseWriter, r *http.Request) (domain.Job, *domain.FileInfo, bool) {
	headers := r.MultipartForm.File["pdf"]
	if len(headers) != 1 {
		writeError(w, http.StatusBadRequest, "A single PDF file is required")
		return nil, nil, false
	}

	job, files, ok := h.stagePDFs(w, headers)
	if !ok {
		return nil, nil, false
	}
	return job, files[0], true
}

// stageAll copies every upload into the job, enforcing the per-file ceiling
func (h *PDFHandler) stageAll(w http.ResponseWriter, job domain.Job, headers []*multipart.FileHeader) ([]*domain.FileInfo, bool) {
	files := make([]*domain.FileInfo, 0, len(headers))
	for _, header := range headers {
		if header.Size > h.config.GetMaxFileSize() {
			writeError(w, http.StatusBadRequest, "File too large")
			return nil, false
		}

		f, err := header.Open()
		if err != nil {
			h.respondError(w, apperrors.NewInternalError("failed to read upload", err), "stage")
			return nil, false
		}
		info, err := job.SaveUpload(f, header)
		f.Close()
		if err != nil {
			h.respondError(w, apperrors.NewInternalError("failed to stage upload", err), "stage")
			return nil, false
		}
		files = append(files, info)
	}
	return files, true
}

// respondError maps an operation error onto its HTTP status and JSON body
func (h *PDFHandler) respondError(w http.ResponseWriter, err error, operation string) {
	status := apperrors.GetStatusCode(err)
	message := err.Error()
	if appErr, ok := err.(*apperrors.AppError); ok {
		message = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("Operation failed", err, "operation", operation)
	} else {
		h.logger.Warn("Request rejected", "operation", operation, "reason", message)
	}
	writeError(w, status, message)
}

// streamFile sends a generated artifact as a download. If streaming fails
// after headers were written there is nothing useful left to send.
func (h *PDFHandler) streamFile(w http.ResponseWriter, path, downloadName string) {
	if err := sendFile(w, path, downloadName); err != nil {
		h.logger.Error("Failed to stream artifact", err, "path", path)
	}
}

func stagedPaths(files []*domain.FileInfo) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}

func stemOf(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func formInt(r *http.Request, field string) int {
	v, err := strconv.Atoi(r.FormValue(field))
	if err != nil {
		return 0
	}
	return v
}
