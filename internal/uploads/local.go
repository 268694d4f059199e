package uploads

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Local stores uploads in a directory on the local filesystem.
type Local struct {
	dir string
}

// NewLocal returns a store rooted at dir. The directory is created on first save.
func NewLocal(dir string) *Local {
	return &Local{dir: dir}
}

// Save writes data verbatim to dir/<base name>.
func (l *Local) Save(_ context.Context, name, _ string, data []byte) (string, error) {
	base, err := baseName(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	path := filepath.Join(l.dir, base)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return path, nil
}
