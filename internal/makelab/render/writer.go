package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ehsaniara/makelab/pkg/errors"
)

// DirWriter writes rendered files below Root, creating parent directories.
type DirWriter struct {
	Root string
}

// NewDirWriter creates a writer rooted at dir.
func NewDirWriter(dir string) *DirWriter {
	return &DirWriter{Root: dir}
}

// WriteFile writes data to Root/name. Names that would escape Root are
// rejected.
func (w *DirWriter) WriteFile(name string, data []byte) error {
	local := filepath.FromSlash(name)
	if !filepath.IsLocal(local) {
		return errors.NewFilesystemError(name, "write", fmt.Errorf("path escapes output directory"))
	}

	path := filepath.Join(w.Root, local)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewFilesystemError(path, "mkdir", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewFilesystemError(path, "write", err)
	}
	return nil
}
