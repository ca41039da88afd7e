package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"pdf-tools-server/internal/domain"
)

// mockJob is a real temp directory job that records whether it was released
type mockJob struct {
	id     string
	dir    string
	outDir string

	mu       sync.Mutex
	staged   int
	released bool
}

func (j *mockJob) ID() string { return j.id }

func (j *mockJob) SaveUpload(file multipart.File, header *multipart.FileHeader) (*domain.FileInfo, error) {
	j.mu.Lock()
	j.staged++
	n := j.staged
	j.mu.Unlock()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	path := filepath.Join(j.dir, fmt.Sprintf("staged_%d%s", n, ext))
	out, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer out.Close()
	size, err := io.Copy(out, file)
	if err != nil {
		return nil, err
	}
	return &domain.FileInfo{
		ID:           fmt.Sprintf("staged-%d", n),
		OriginalName: header.Filename,
		Path:         path,
		Size:         size,
		Extension:    ext,
	}, nil
}

func (j *mockJob) OutputPath(name string) string { return filepath.Join(j.outDir, name) }
func (j *mockJob) OutputDir() string             { return j.outDir }

func (j *mockJob) Release() {
	j.mu.Lock()
	j.released = true
	j.mu.Unlock()
}

func (j *mockJob) wasReleased() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.released
}

type mockWorkspace struct {
	root string
	jobs []*mockJob
}

func (w *mockWorkspace) NewJob() (domain.Job, error) {
	job := &mockJob{
		id:     fmt.Sprintf("job-%d", len(w.jobs)+1),
		dir:    filepath.Join(w.root, fmt.Sprintf("job-%d", len(w.jobs)+1)),
		outDir: filepath.Join(w.root, fmt.Sprintf("job-%d", len(w.jobs)+1), "output"),
	}
	if err := os.MkdirAll(job.outDir, 0o755); err != nil {
		return nil, err
	}
	w.jobs = append(w.jobs, job)
	return job, nil
}

type mockConfig struct {
	maxFileSize int64
}

func (c *mockConfig) GetServerPort() string          { return "8080" }
func (c *mockConfig) GetTempDir() string             { return "./temp" }
func (c *mockConfig) GetMaxFileSize() int64          { return c.maxFileSize }
func (c *mockConfig) GetLogLevel() string            { return "info" }
func (c *mockConfig) GetCleanupDelay() time.Duration { return 5 * time.Minute }
func (c *mockConfig) RasterizerEnabled() bool        { return true }
func (c *mockConfig) ImageTranscodingEnabled() bool  { return true }

// Service mocks delegate to function fields so each test supplies only the
// behavior it exercises.

type mockMergeService struct {
	mergeWithMetadataFn func(ctx context.Context, inputs []string, outPath string, meta domain.DocumentMetadata) (*domain.MergeResult, error)
	calls               int
}

func (m *mockMergeService) Merge(ctx context.Context, inputs []string, outPath string) (*domain.MergeResult, error) {
	return m.MergeWithMetadata(ctx, inputs, outPath, domain.DocumentMetadata{})
}

func (m *mockMergeService) MergeWithMetadata(ctx context.Context, inputs []string, outPath string, meta domain.DocumentMetadata) (*domain.MergeResult, error) {
	m.calls++
	return m.mergeWithMetadataFn(ctx, inputs, outPath, meta)
}

type mockSplitService struct {
	splitFn        func(ctx context.Context, inPath, outDir string, opts domain.SplitOptions) (*domain.SplitResult, error)
	extractPagesFn func(ctx context.Context, inPath, outPath string, pages []int) (*domain.ExtractResult, error)
}

func (m *mockSplitService) Split(ctx context.Context, inPath, outDir string, opts domain.SplitOptions) (*domain.SplitResult, error) {
	return m.splitFn(ctx, inPath, outDir, opts)
}

func (m *mockSplitService) ExtractPages(ctx context.Context, inPath, outPath string, pages []int) (*domain.ExtractResult, error) {
	return m.extractPagesFn(ctx, inPath, outPath, pages)
}

type mockCompressService struct {
	compressFn func(ctx context.Context, inPath, outPath string, quality domain.Quality) (*domain.CompressResult, error)
	estimateFn func(ctx context.Context, inPath string) (*domain.CompressEstimate, error)
}

func (m *mockCompressService) Compress(ctx context.Context, inPath, outPath string, quality domain.Quality) (*domain.CompressResult, error) {
	return m.compressFn(ctx, inPath, outPath, quality)
}

func (m *mockCompressService) Estimate(ctx context.Context, inPath string) (*domain.CompressEstimate, error) {
	return m.estimateFn(ctx, inPath)
}

type mockConvertService struct {
	imagesToPDFFn func(ctx context.Context, images []*domain.FileInfo, outPath string, meta domain.DocumentMetadata) (*domain.ImagesToPDFResult, error)
	wordToPDFFn   func(ctx context.Context, docxPath, outPath string) (*domain.WordToPDFResult, error)
	pdfToImagesFn func(ctx context.Context, inPath, outDir string, opts domain.RasterOptions) (*domain.PDFToImagesResult, error)
	pdfToTextFn   func(ctx context.Context, inPath, outPath string) (*domain.PDFToTextResult, error)
	formats       domain.Formats
}

func (m *mockConvertService) ImagesToPDF(ctx context.Context, images []*domain.FileInfo, outPath string, meta domain.DocumentMetadata) (*domain.ImagesToPDFResult, error) {
	return m.imagesToPDFFn(ctx, images, outPath, meta)
}

func (m *mockConvertService) WordToPDF(ctx context.Context, docxPath, outPath string) (*domain.WordToPDFResult, error) {
	return m.wordToPDFFn(ctx, docxPath, outPath)
}

func (m *mockConvertService) PDFToImages(ctx context.Context, inPath, outDir string, opts domain.RasterOptions) (*domain.PDFToImagesResult, error) {
	return m.pdfToImagesFn(ctx, inPath, outDir, opts)
}

func (m *mockConvertService) PDFToText(ctx context.Context, inPath, outPath string) (*domain.PDFToTextResult, error) {
	return m.pdfToTextFn(ctx, inPath, outPath)
}

func (m *mockConvertService) SupportedFormats() domain.Formats { return m.formats }

// handlerFixture wires a PDFHandler with mocks and a temp-dir workspace
type handlerFixture struct {
	merge     *mockMergeService
	split     *mockSplitService
	compress  *mockCompressService
	convert   *mockConvertService
	workspace *mockWorkspace
	handler   *PDFHandler
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	f := &handlerFixture{
		merge:     &mockMergeService{},
		split:     &mockSplitService{},
		compress:  &mockCompressService{},
		convert:   &mockConvertService{},
		workspace: &mockWorkspace{root: t.TempDir()},
	}
	f.handler = NewPDFHandler(
		f.merge,
		f.split,
		f.compress,
		f.convert,
		f.workspace,
		&mockConfig{maxFileSize: 50 * 1024 * 1024},
		NewMockHandlerLogger(),
		"test",
		[]string{"pdfcpu"},
	)
	return f
}

// lastJob returns the most recent job the handler created
func (f *handlerFixture) lastJob(t *testing.T) *mockJob {
	t.Helper()
	if len(f.workspace.jobs) == 0 {
		t.Fatal("expected a job to have been created")
	}
	return f.workspace.jobs[len(f.workspace.jobs)-1]
}

type filePart struct {
	field   string
	name    string
	content string
}

// multipartRequest builds a POST with the given file parts and form fields
func multipartRequest(t *testing.T, target string, parts []filePart, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, part := range parts {
		fw, err := mw.CreateFormFile(part.field, part.name)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := fw.Write([]byte(part.content)); err != nil {
			t.Fatalf("failed to write form file: %v", err)
		}
	}
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			t.Fatalf("failed to write form field: %v", err)
		}
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}
