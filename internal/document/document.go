// Package document holds the per-request record that flows through the
// summarization pipeline and the closed set of media types it understands.
package document

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MediaType enumerates the declared upload types the extractor can handle.
// Adding a format means adding a constant here and a case in extract.Extract.
type MediaType int

const (
	MediaTypeUnknown MediaType = iota
	MediaTypePlainText
	MediaTypeWordDocument
)

const (
	MIMEPlainText    = "text/plain"
	MIMEWordDocument = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// SupportedExtensions lists the upload extensions accepted by the shell.
var SupportedExtensions = []string{".txt", ".docx"}

func (m MediaType) String() string {
	switch m {
	case MediaTypePlainText:
		return MIMEPlainText
	case MediaTypeWordDocument:
		return MIMEWordDocument
	default:
		return "unknown"
	}
}

// Document is the transient record for one summarization request. Each
// pipeline stage fills its own field once.
type Document struct {
	ID         uuid.UUID
	Filename   string
	Raw        []byte
	MediaType  MediaType
	Text       string
	Normalized string
	Summary    string
}

// New returns an empty document with a fresh ID.
func New() Document {
	return Document{ID: uuid.New()}
}

// ParseMediaType maps a declared content type to a MediaType. An empty or
// generic binary content type falls back to the filename extension.
func ParseMediaType(contentType, filename string) MediaType {
	mt := strings.TrimSpace(contentType)
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		mt = parsed
	}
	switch strings.ToLower(mt) {
	case MIMEPlainText:
		return MediaTypePlainText
	case MIMEWordDocument:
		return MediaTypeWordDocument
	case "", "application/octet-stream":
		return fromExtension(filename)
	default:
		return MediaTypeUnknown
	}
}

func fromExtension(filename string) MediaType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return MediaTypePlainText
	case ".docx":
		return MediaTypeWordDocument
	default:
		return MediaTypeUnknown
	}
}

// SupportedFilename reports whether filename carries one of SupportedExtensions.
func SupportedFilename(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}
