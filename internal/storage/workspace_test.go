package storage

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestWorkspace(t *testing.T) (*ScratchWorkspace, *Reaper) {
	t.Helper()
	reaper := NewReaper(time.Hour, &testLogger{})
	ws, err := NewWorkspace(t.TempDir(), time.Hour, reaper, &testLogger{})
	if err != nil {
		t.Fatalf("failed to create workspace: %v", err)
	}
	return ws, reaper
}

func uploadFixture(t *testing.T, filename, content string) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("pdfs", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	mw.Close()

	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("failed to read form: %v", err)
	}
	header := form.File["pdfs"][0]
	file, err := header.Open()
	if err != nil {
		t.Fatalf("failed to open form file: %v", err)
	}
	return file, header
}

func TestWorkspace_JobsAreIsolated(t *testing.T) {
	ws, _ := newTestWorkspace(t)

	first, err := ws.NewJob()
	if err != nil {
		t.Fatalf("failed to create job: %v", err)
	}
	second, err := ws.NewJob()
	if err != nil {
		t.Fatalf("failed to create job: %v", err)
	}

	if first.ID() == second.ID() {
		t.Fatal("expected distinct job ids")
	}
	if first.OutputDir() == second.OutputDir() {
		t.Fatal("expected distinct output directories")
	}
	if _, err := os.Stat(first.OutputDir()); err != nil {
		t.Fatalf("expected output directory to exist: %v", err)
	}
}

func TestWorkspace_SaveUpload(t *testing.T) {
	ws, _ := newTestWorkspace(t)

	job, err := ws.NewJob()
	if err != nil {
		t.Fatalf("failed to create job: %v", err)
	}

	file, header := uploadFixture(t, "My Report.PDF", "%PDF-1.4 fake content")
	defer file.Close()

	info, err := job.SaveUpload(file, header)
	if err != nil {
		t.Fatalf("failed to save upload: %v", err)
	}

	if info.OriginalName != "My Report.PDF" {
		t.Fatalf("expected original name preserved, got %q", info.OriginalName)
	}
	if info.Extension != ".pdf" {
		t.Fatalf("expected lowercased extension .pdf, got %q", info.Extension)
	}
	if strings.Contains(filepath.Base(info.Path), " ") {
		t.Fatalf("expected staged name free of the original filename, got %q", info.Path)
	}
	data, err := os.ReadFile(info.Path)
	if err != nil {
		t.Fatalf("failed to read staged file: %v", err)
	}
	if string(data) != "%PDF-1.4 fake content" {
		t.Fatal("staged content does not match upload")
	}
	if info.Size != int64(len(data)) {
		t.Fatalf("expected size %d, got %d", len(data), info.Size)
	}
}

func TestWorkspace_ReleaseDeletesInputsKeepsOutputs(t *testing.T) {
	ws, reaper := newTestWorkspace(t)

	job, err := ws.NewJob()
	if err != nil {
		t.Fatalf("failed to create job: %v", err)
	}

	file, header := uploadFixture(t, "input.pdf", "staged")
	defer file.Close()
	info, err := job.SaveUpload(file, header)
	if err != nil {
		t.Fatalf("failed to save upload: %v", err)
	}

	outPath := job.OutputPath("merged.pdf")
	if err := os.WriteFile(outPath, []byte("result"), 0o644); err != nil {
		t.Fatalf("failed to write output: %v", err)
	}

	job.Release()
	job.Release() // idempotent

	if _, err := os.Stat(info.Path); !os.IsNotExist(err) {
		t.Fatal("expected staged input to be deleted on release")
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Fatalf("expected output to survive until the cleanup delay: %v", err)
	}
	if n := reaper.Pending(); n != 1 {
		t.Fatalf("expected job directory scheduled for deletion, got %d pending", n)
	}
}
