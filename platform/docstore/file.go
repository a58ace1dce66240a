package docstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileDocument stores a document in a single file. The format follows the
// file extension: .yaml and .yml are YAML, anything else JSON.
type FileDocument struct {
	path string
}

// NewFile creates a document backed by path.
func NewFile(path string) *FileDocument {
	return &FileDocument{path: path}
}

func (d *FileDocument) Name() string { return d.path }

func (d *FileDocument) Format() Format {
	switch strings.ToLower(filepath.Ext(d.path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func (d *FileDocument) Read(_ context.Context) ([]byte, error) {
	body, err := os.ReadFile(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.path, err)
	}
	return body, nil
}

// Write replaces the file through a temp file in the same directory and a
// rename, so a crash leaves either the old or the new document.
func (d *FileDocument) Write(_ context.Context, body []byte) error {
	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(d.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, d.path); err != nil {
		return fmt.Errorf("replace %s: %w", d.path, err)
	}
	return nil
}

var _ Document = (*FileDocument)(nil)
