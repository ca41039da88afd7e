package engine

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	// Raster formats beyond what the PDF engine embeds natively.
	_ "image/gif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"pdf-tools-server/internal/domain"
)

// RasterTranscoder implements domain.ImageTranscoder by decoding arbitrary
// raster formats and re-encoding them as PNG for native embedding.
type RasterTranscoder struct {
	logger domain.Logger
}

// NewRasterTranscoder creates a new raster transcoder
func NewRasterTranscoder(logger domain.Logger) *RasterTranscoder {
	return &RasterTranscoder{logger: logger}
}

// Transcode decodes the image at inPath and writes a PNG sibling next to it,
// returning the new path.
func (t *RasterTranscoder) Transcode(inPath string) (string, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer in.Close()

	img, format, err := image.Decode(in)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	outPath := strings.TrimSuffix(inPath, filepath.Ext(inPath)) + ".png"
	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("failed to create transcoded image: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return "", fmt.Errorf("failed to encode %s image as PNG: %w", format, err)
	}

	t.logger.Debug("Transcoded image", "from", format, "path", outPath)
	return outPath, nil
}
