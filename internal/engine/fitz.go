package engine

import (
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"

	"pdf-tools-server/internal/domain"
)

// RasterizerName identifies the backing rendering library for the health endpoint
const RasterizerName = "go-fitz"

const jpegQuality = 90

// FitzRasterizer implements domain.PageRasterizer using MuPDF via go-fitz
type FitzRasterizer struct {
	logger domain.Logger
}

// NewFitzRasterizer creates a new go-fitz page rasterizer
func NewFitzRasterizer(logger domain.Logger) *FitzRasterizer {
	return &FitzRasterizer{logger: logger}
}

// RasterizePages renders every page of the document into outDir, one image
// file per page named page_N.<ext>, in page order.
func (r *FitzRasterizer) RasterizePages(ctx context.Context, inPath, outDir string, opts domain.RasterOptions) ([]domain.PageFile, error) {
	doc, err := fitz.New(inPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer doc.Close()

	density := opts.Density
	if density <= 0 {
		density = 300
	}

	numPages := doc.NumPage()
	files := make([]domain.PageFile, 0, numPages)

	for pageNum := 0; pageNum < numPages; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := doc.ImageDPI(pageNum, float64(density))
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", pageNum+1, err)
		}

		name := fmt.Sprintf("page_%d.%s", pageNum+1, extensionFor(opts.Format))
		outPath := filepath.Join(outDir, name)
		if err := writeImage(outPath, img, opts.Format); err != nil {
			return nil, fmt.Errorf("failed to write page %d: %w", pageNum+1, err)
		}

		info, err := os.Stat(outPath)
		if err != nil {
			return nil, err
		}

		r.logger.Debug("Rasterized page", "page", pageNum+1, "total", numPages, "path", outPath)
		files = append(files, domain.PageFile{
			Page: pageNum + 1,
			Path: outPath,
			Name: name,
			Size: info.Size(),
		})
	}

	return files, nil
}

func extensionFor(format string) string {
	switch format {
	case "jpeg":
		return "jpg"
	case "gif":
		return "gif"
	default:
		return "png"
	}
}

func writeImage(path string, img image.Image, format string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	switch format {
	case "jpeg":
		return jpeg.Encode(out, img, &jpeg.Options{Quality: jpegQuality})
	case "gif":
		return gif.Encode(out, img, nil)
	default:
		return png.Encode(out, img)
	}
}
