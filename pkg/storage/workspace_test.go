package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "paper.pdf", "paper.pdf"},
		{"spaces and symbols", "my paper (v2)!.pdf", "my_paper__v2__.pdf"},
		{"path traversal stripped", "../../etc/passwd.pdf", "passwd.pdf"},
		{"empty becomes default", "", "upload.pdf"},
		{"dot becomes default", ".", "upload.pdf"},
		{"unicode replaced", "статья.pdf", strings.Repeat("_", 6) + ".pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFileName(tt.in); got != tt.want {
				t.Fatalf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWorkspaceSaveAndDelete(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	const paperId = "11111111-2222-3333-4444-555555555555"
	content := "%PDF-1.4 fake body"

	path, err := ws.SavePaper(paperId, strings.NewReader(content))
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "paper.pdf" {
		t.Fatalf("stored file name = %q, want paper.pdf", filepath.Base(path))
	}
	if path != ws.PaperPath(paperId) {
		t.Fatalf("SavePaper path %q != PaperPath %q", path, ws.PaperPath(paperId))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != content {
		t.Fatalf("stored content = %q", string(data))
	}

	if !ws.Exists(paperId) {
		t.Fatal("Exists = false after save")
	}

	if err := ws.DeletePaper(paperId); err != nil {
		t.Fatal(err)
	}
	if ws.Exists(paperId) {
		t.Fatal("Exists = true after delete")
	}
}

func TestDeletePaperRejectsTraversal(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := ws.DeletePaper("../outside"); err == nil {
		t.Fatal("expected error for traversal id")
	}
	if err := ws.DeletePaper("a/b"); err == nil {
		t.Fatal("expected error for id with separator")
	}
}

func TestExistsMissingPaper(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if ws.Exists("never-saved") {
		t.Fatal("Exists = true for unknown paper")
	}
}
