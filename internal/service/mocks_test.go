package service

import (
	"bytes"
	"os"
	"sync"

	"pdf-tools-server/internal/domain"
)

// mockLogger records nothing; service tests assert on results, not logs
type mockLogger struct{}

func (l *mockLogger) Info(msg string, fields ...interface{})             {}
func (l *mockLogger) Error(msg string, err error, fields ...interface{}) {}
func (l *mockLogger) Debug(msg string, fields ...interface{})            {}
func (l *mockLogger) Warn(msg string, fields ...interface{})             {}

type copyCall struct {
	inPath    string
	outPath   string
	selection []string
}

type optimizeCall struct {
	inPath  string
	outPath string
	profile domain.CompressionProfile
}

// mockEngine is an in-memory DocumentEngine. Every writing operation creates
// a real file at outPath because the services stat their outputs.
type mockEngine struct {
	mu sync.Mutex

	pageCount    int
	pageCountErr error
	mergeErr     error
	copyErr      error
	optimizeErr  error

	// outputSize is the byte length of files written by Merge, CopyPages and
	// ImportImages
	outputSize int

	// optimizeSizes is consumed one entry per Optimize call; when exhausted
	// outputSize is used
	optimizeSizes []int

	mergedInputs [][]string
	copies       []copyCall
	optimizes    []optimizeCall
	imported     [][]string
	metadata     map[string]domain.DocumentMetadata
}

func newMockEngine(pageCount int) *mockEngine {
	return &mockEngine{
		pageCount:  pageCount,
		outputSize: 128,
		metadata:   make(map[string]domain.DocumentMetadata),
	}
}

func (m *mockEngine) write(path string, size int) error {
	return os.WriteFile(path, bytes.Repeat([]byte{'x'}, size), 0o644)
}

func (m *mockEngine) PageCount(path string) (int, error) {
	if m.pageCountErr != nil {
		return 0, m.pageCountErr
	}
	return m.pageCount, nil
}

func (m *mockEngine) Merge(inputs []string, outPath string) error {
	if m.mergeErr != nil {
		return m.mergeErr
	}
	m.mu.Lock()
	m.mergedInputs = append(m.mergedInputs, inputs)
	m.mu.Unlock()
	return m.write(outPath, m.outputSize)
}

func (m *mockEngine) CopyPages(inPath, outPath string, selection []string) error {
	if m.copyErr != nil {
		return m.copyErr
	}
	m.mu.Lock()
	m.copies = append(m.copies, copyCall{inPath: inPath, outPath: outPath, selection: selection})
	m.mu.Unlock()
	return m.write(outPath, m.outputSize)
}

func (m *mockEngine) Optimize(inPath, outPath string, profile domain.CompressionProfile) error {
	if m.optimizeErr != nil {
		return m.optimizeErr
	}
	m.mu.Lock()
	m.optimizes = append(m.optimizes, optimizeCall{inPath: inPath, outPath: outPath, profile: profile})
	size := m.outputSize
	if len(m.optimizeSizes) > 0 {
		size = m.optimizeSizes[0]
		m.optimizeSizes = m.optimizeSizes[1:]
	}
	m.mu.Unlock()
	return m.write(outPath, size)
}

func (m *mockEngine) ImportImages(images []string, outPath string) error {
	m.mu.Lock()
	m.imported = append(m.imported, images)
	m.mu.Unlock()
	return m.write(outPath, m.outputSize)
}

func (m *mockEngine) SetMetadata(path string, meta domain.DocumentMetadata) error {
	m.mu.Lock()
	m.metadata[path] = meta
	m.mu.Unlock()
	return nil
}
