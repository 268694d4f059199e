// Package extract recovers plain text from uploaded bytes.
package extract

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/nguyenthenguyen/docx"

	"doc-summarizer/internal/document"
)

var (
	// ErrDecode reports plain text that is not valid UTF-8.
	ErrDecode = errors.New("invalid utf-8 text")
	// ErrParse reports a corrupt or unsupported document container.
	ErrParse = errors.New("unreadable word document")
)

// Extract returns the text content of raw for the given media type.
// Unknown media types yield empty text and no error.
func Extract(raw []byte, mt document.MediaType) (string, error) {
	switch mt {
	case document.MediaTypePlainText:
		return extractPlain(raw)
	case document.MediaTypeWordDocument:
		return extractDOCX(raw)
	default:
		return "", nil
	}
}

func extractPlain(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: invalid byte sequence", ErrDecode)
	}
	return string(raw), nil
}

func extractDOCX(raw []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer doc.Close()

	text, err := paragraphText(doc.Editable().GetContent())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}
	return text, nil
}

// paragraphText walks WordprocessingML and returns the text runs, ending
// each paragraph with a newline. Tabs and breaks count only inside runs;
// paragraph properties reuse the tab element name for tab stops.
func paragraphText(body string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(body))
	var b strings.Builder
	inText := false
	runDepth := 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "r":
				runDepth++
			case "t":
				inText = true
			case "tab":
				if runDepth > 0 {
					b.WriteByte('\t')
				}
			case "br", "cr":
				if runDepth > 0 {
					b.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "r":
				runDepth--
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
