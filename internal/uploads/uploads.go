// Package uploads persists uploaded files as received. Stored copies are
// never read back by the service.
package uploads

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
)

// ErrInvalidName is returned for names with no usable base component.
var ErrInvalidName = errors.New("invalid upload name")

// Store writes an upload under its original base name and returns where it
// went. Writing an existing name overwrites it.
type Store interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// baseName strips any directory components a client put in the filename.
func baseName(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(name)
	if base == "." || base == "/" || base == ".." || base == "" {
		return "", ErrInvalidName
	}
	return base, nil
}
