// Package storage manages the scratch directory tree holding staged uploads
// and generated artifacts. Nothing here outlives a request beyond the
// cleanup delay.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pdf-tools-server/internal/domain"
)

// ScratchWorkspace implements domain.Workspace over a local directory tree.
// Each job gets its own uuid-named directory, so concurrent requests never
// share paths.
type ScratchWorkspace struct {
	root   string
	delay  time.Duration
	reaper *Reaper
	logger domain.Logger
}

// NewWorkspace creates the scratch root and returns a workspace whose jobs
// are deleted delay after release.
func NewWorkspace(root string, delay time.Duration, reaper *Reaper, logger domain.Logger) (*ScratchWorkspace, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory %s: %w", root, err)
	}
	return &ScratchWorkspace{
		root:   root,
		delay:  delay,
		reaper: reaper,
		logger: logger,
	}, nil
}

// NewJob creates a request-scoped working directory with an output subdirectory
func (w *ScratchWorkspace) NewJob() (domain.Job, error) {
	id := uuid.NewString()
	dir := filepath.Join(w.root, id)
	outDir := filepath.Join(dir, "output")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create job directory: %w", err)
	}
	return &scratchJob{
		id:     id,
		dir:    dir,
		outDir: outDir,
		ws:     w,
	}, nil
}

type scratchJob struct {
	id     string
	dir    string
	outDir string

	mu       sync.Mutex
	inputs   []string
	released bool

	ws *ScratchWorkspace
}

// ID is the unique identifier of this job's directory
func (j *scratchJob) ID() string {
	return j.id
}

// SaveUpload streams a multipart file into the job directory under a
// uuid-derived name that keeps the original extension.
func (j *scratchJob) SaveUpload(file multipart.File, header *multipart.FileHeader) (*domain.FileInfo, error) {
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(header.Filename))
	staged := filepath.Join(j.dir, id+ext)

	out, err := os.Create(staged)
	if err != nil {
		return nil, fmt.Errorf("failed to create staged file: %w", err)
	}
	defer out.Close()

	size, err := io.Copy(out, file)
	if err != nil {
		os.Remove(staged)
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}

	j.mu.Lock()
	j.inputs = append(j.inputs, staged)
	j.mu.Unlock()

	return &domain.FileInfo{
		ID:           id,
		OriginalName: header.Filename,
		Path:         staged,
		Size:         size,
		Extension:    ext,
	}, nil
}

// OutputPath returns a path for a generated artifact inside the job
func (j *scratchJob) OutputPath(name string) string {
	return filepath.Join(j.outDir, name)
}

// OutputDir returns the directory generated artifacts are written to
func (j *scratchJob) OutputDir() string {
	return j.outDir
}

// Release deletes staged inputs now and hands the whole job directory to the
// reaper. Generated outputs survive the cleanup delay so slow downloads can
// finish. Idempotent.
func (j *scratchJob) Release() {
	j.mu.Lock()
	if j.released {
		j.mu.Unlock()
		return
	}
	j.released = true
	inputs := j.inputs
	j.inputs = nil
	j.mu.Unlock()

	for _, path := range inputs {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			j.ws.logger.Warn("Failed to delete staged input", "path", path, "error", err)
		}
	}

	j.ws.reaper.Schedule(j.dir, time.Now().Add(j.ws.delay))
	j.ws.logger.Debug("Job released", "job", j.id, "delay", j.ws.delay)
}
