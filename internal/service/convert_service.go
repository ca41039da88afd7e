package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pdf-tools-server/internal/domain"
	apperrors "pdf-tools-server/pkg/errors"
)

// serverCreator is stamped into documents generated by conversions
const serverCreator = "PDF Tools Server"

// placeholderPage is written per page when rasterization is unavailable
const placeholderPage = `PDF Page %d

This is a text representation of page %d from the PDF.
Conversion to images is not available because no page rasterizer is enabled
on this server. Enable RASTERIZER_ENABLED to produce real page images.`

// ConvertService handles every conversion between PDF and other formats.
// Optional adapters (rasterizer, transcoder) are resolved at startup; the
// service branches on capabilities instead of probing for runtime errors.
type ConvertService struct {
	engine        domain.DocumentEngine
	rasterizer    domain.PageRasterizer
	textExtractor domain.TextExtractor
	wordExtractor domain.WordExtractor
	composer      domain.PageComposer
	transcoder    domain.ImageTranscoder
	caps          domain.Capabilities
	logger        domain.Logger
}

// NewConvertService creates a new convert service. rasterizer and transcoder
// may be nil; the capabilities must reflect that.
func NewConvertService(
	engine domain.DocumentEngine,
	rasterizer domain.PageRasterizer,
	textExtractor domain.TextExtractor,
	wordExtractor domain.WordExtractor,
	composer domain.PageComposer,
	transcoder domain.ImageTranscoder,
	caps domain.Capabilities,
	logger domain.Logger,
) *ConvertService {
	return &ConvertService{
		engine:        engine,
		rasterizer:    rasterizer,
		textExtractor: textExtractor,
		wordExtractor: wordExtractor,
		composer:      composer,
		transcoder:    transcoder,
		caps:          caps,
		logger:        logger,
	}
}

// ImagesToPDF embeds each input image as its own page of a new document.
// JPEG and PNG embed natively; other raster formats are transcoded when the
// server has that capability and rejected otherwise.
func (s *ConvertService) ImagesToPDF(ctx context.Context, images []*domain.FileInfo, outPath string, meta domain.DocumentMetadata) (*domain.ImagesToPDFResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, apperrors.NewValidationError(domain.ErrNoFilesUploaded.Error())
	}

	paths := make([]string, 0, len(images))
	for _, img := range images {
		switch img.Extension {
		case ".jpg", ".jpeg", ".png":
			paths = append(paths, img.Path)
		default:
			if !s.caps.CanTranscodeImages {
				return nil, apperrors.NewValidationError(
					fmt.Sprintf("Unsupported image format: %s. Please use JPG or PNG files.", img.Extension))
			}
			transcoded, err := s.transcoder.Transcode(img.Path)
			if err != nil {
				return nil, apperrors.NewOperationError("Image to PDF conversion failed: "+err.Error(), err)
			}
			paths = append(paths, transcoded)
		}
	}

	if err := s.engine.ImportImages(paths, outPath); err != nil {
		return nil, apperrors.NewOperationError("Image to PDF conversion failed: "+err.Error(), err)
	}
	if err := s.engine.SetMetadata(outPath, meta); err != nil {
		return nil, apperrors.NewOperationError("Image to PDF conversion failed: "+err.Error(), err)
	}

	pageCount, err := s.engine.PageCount(outPath)
	if err != nil {
		return nil, apperrors.NewOperationError("Image to PDF conversion failed: "+err.Error(), err)
	}
	info, err := os.Stat(outPath)
	if err != nil {
		return nil, apperrors.NewOperationError("Image to PDF conversion failed: "+err.Error(), err)
	}

	s.logger.Info("Converted images to PDF", "images", len(images), "pages", pageCount)
	return &domain.ImagesToPDFResult{
		OutputPath:  outPath,
		PageCount:   pageCount,
		FileSize:    info.Size(),
		InputImages: len(images),
	}, nil
}

// WordToPDF extracts the raw text of a DOCX file and lays it out as
// word-wrapped PDF pages. Formatting is discarded.
func (s *ConvertService) WordToPDF(ctx context.Context, docxPath, outPath string) (*domain.WordToPDFResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, err := s.wordExtractor.ExtractText(docxPath)
	if err != nil {
		return nil, apperrors.NewOperationError("Word to PDF conversion failed: "+err.Error(), err)
	}

	meta := domain.DocumentMetadata{
		Title:   strings.TrimSuffix(filepath.Base(docxPath), filepath.Ext(docxPath)),
		Creator: serverCreator,
	}
	pageCount, err := s.composer.ComposeText(text, outPath, meta)
	if err != nil {
		return nil, apperrors.NewOperationError("Word to PDF conversion failed: "+err.Error(), err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return nil, apperrors.NewOperationError("Word to PDF conversion failed: "+err.Error(), err)
	}

	s.logger.Info("Converted DOCX to PDF", "pages", pageCount, "textLength", len(text))
	return &domain.WordToPDFResult{
		OutputPath:    outPath,
		PageCount:     pageCount,
		FileSize:      info.Size(),
		ExtractedText: len(text),
	}, nil
}

// PDFToImages rasterizes each page into outDir at the requested density and
// format. Without the rasterizer capability it emits one plain-text
// placeholder per page instead of failing the request.
func (s *ConvertService) PDFToImages(ctx context.Context, inPath, outDir string, opts domain.RasterOptions) (*domain.PDFToImagesResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.Format == "" {
		opts.Format = "png"
	}
	switch opts.Format {
	case "png", "jpeg", "gif":
	default:
		return nil, apperrors.NewValidationError("unsupported image output format: " + opts.Format)
	}
	if opts.Density <= 0 {
		opts.Density = 300
	}

	if !s.caps.CanRasterizePages {
		return s.placeholderPages(inPath, outDir)
	}

	files, err := s.rasterizer.RasterizePages(ctx, inPath, outDir, opts)
	if err != nil {
		return nil, apperrors.NewOperationError("PDF to images conversion failed: "+err.Error(), err)
	}

	s.logger.Info("Converted PDF to images", "pages", len(files), "format", opts.Format, "density", opts.Density)
	return &domain.PDFToImagesResult{
		OutputDir:  outDir,
		Format:     opts.Format,
		TotalPages: len(files),
		Files:      files,
		Method:     "rasterizer",
	}, nil
}

// placeholderPages writes one descriptive text file per page when no
// rasterizer is available
func (s *ConvertService) placeholderPages(inPath, outDir string) (*domain.PDFToImagesResult, error) {
	pageCount, err := s.engine.PageCount(inPath)
	if err != nil {
		return nil, apperrors.NewOperationError("PDF to images conversion failed: "+err.Error(), err)
	}

	files := make([]domain.PageFile, 0, pageCount)
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		name := fmt.Sprintf("page_%d.txt", pageNum)
		outPath := filepath.Join(outDir, name)
		content := fmt.Sprintf(placeholderPage, pageNum, pageNum)
		if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
			return nil, apperrors.NewOperationError("PDF to images conversion failed: "+err.Error(), err)
		}
		files = append(files, domain.PageFile{
			Page: pageNum,
			Path: outPath,
			Name: name,
			Size: int64(len(content)),
		})
	}

	s.logger.Warn("Rasterizer unavailable, emitted text placeholders", "pages", pageCount)
	return &domain.PDFToImagesResult{
		OutputDir:  outDir,
		Format:     "txt",
		TotalPages: pageCount,
		Files:      files,
		Method:     "text-fallback",
		Warning:    "Image conversion unavailable - no page rasterizer is enabled",
	}, nil
}

// PDFToText extracts the document's text layer into a UTF-8 file at outPath
func (s *ConvertService) PDFToText(ctx context.Context, inPath, outPath string) (*domain.PDFToTextResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, pageCount, meta, err := s.textExtractor.ExtractText(inPath)
	if err != nil {
		return nil, apperrors.NewOperationError("PDF to text conversion failed: "+err.Error(), err)
	}

	if err := os.WriteFile(outPath, []byte(text), 0o644); err != nil {
		return nil, apperrors.NewOperationError("PDF to text conversion failed: "+err.Error(), err)
	}

	s.logger.Info("Converted PDF to text", "pages", pageCount, "textLength", len(text))
	return &domain.PDFToTextResult{
		OutputPath: outPath,
		PageCount:  pageCount,
		TextLength: len(text),
		Metadata:   meta,
	}, nil
}

// SupportedFormats reports the accepted input and produced output
// extensions, narrowed by the server's capabilities.
func (s *ConvertService) SupportedFormats() domain.Formats {
	formats := domain.Formats{
		Input: domain.FormatGroup{
			Images:    []string{".jpg", ".jpeg", ".png"},
			Documents: []string{".docx"},
			PDF:       []string{".pdf"},
		},
		Output: domain.FormatGroup{
			Images:    []string{"png", "jpeg", "gif"},
			Documents: []string{"txt"},
			PDF:       []string{".pdf"},
		},
	}
	if s.caps.CanTranscodeImages {
		formats.Input.Images = append(formats.Input.Images, ".gif", ".bmp", ".tiff", ".webp")
	}
	return formats
}
