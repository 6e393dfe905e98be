package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const paperFileName = "paper.pdf"

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// Workspace stores each paper's artifacts under <root>/<paperID>/.
// The PDF itself always lives at <root>/<paperID>/paper.pdf so lookups
// never depend on the uploaded file name.
type Workspace struct {
	root string
}

func NewWorkspace(root string) (*Workspace, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace root: %w", err)
	}
	return &Workspace{root: root}, nil
}

// SanitizeFileName strips path components and replaces characters that
// are unsafe in file names.
func SanitizeFileName(name string) string {
	name = filepath.Base(name)
	name = unsafeNameChars.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == ".." {
		name = "upload.pdf"
	}
	return name
}

// PaperPath returns the on-disk location of a paper's PDF.
func (w *Workspace) PaperPath(paperID string) string {
	return filepath.Join(w.root, paperID, paperFileName)
}

// SavePaper writes the uploaded PDF into the paper's directory and
// returns its path.
func (w *Workspace) SavePaper(paperID string, r io.Reader) (string, error) {
	dir := filepath.Join(w.root, paperID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create paper dir: %w", err)
	}

	path := filepath.Join(dir, paperFileName)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create paper file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write paper file: %w", err)
	}

	return path, nil
}

// Exists reports whether the paper's PDF is present on disk.
func (w *Workspace) Exists(paperID string) bool {
	_, err := os.Stat(w.PaperPath(paperID))
	return err == nil
}

// DeletePaper removes the paper's directory and everything in it.
func (w *Workspace) DeletePaper(paperID string) error {
	dir := filepath.Join(w.root, paperID)

	// Refuse anything that could escape the root.
	if strings.Contains(paperID, "..") || strings.ContainsRune(paperID, os.PathSeparator) {
		return fmt.Errorf("invalid paper id: %s", paperID)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove paper dir: %w", err)
	}
	return nil
}
