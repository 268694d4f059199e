package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doc-summarizer/internal/document"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p>
      <w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr>
      <w:r><w:t>Quarterly</w:t></w:r><w:r><w:t xml:space="preserve"> Report</w:t></w:r>
    </w:p>
    <w:p>
      <w:r><w:t>Revenue</w:t><w:tab/><w:t>up 4%</w:t></w:r>
    </w:p>
    <w:p>
      <w:r><w:t>Line one</w:t><w:br/><w:t>Line two</w:t></w:r>
    </w:p>
  </w:body>
</w:document>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := []struct{ name, content string }{
		{"[Content_Types].xml", contentTypesXML},
		{"word/_rels/document.xml.rels", relsXML},
		{"word/document.xml", body},
	}
	for _, f := range files {
		w, err := zw.Create(f.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractPlainText(t *testing.T) {
	text, err := Extract([]byte("  Hello WORLD! This is great.  "), document.MediaTypePlainText)
	require.NoError(t, err)
	assert.Equal(t, "  Hello WORLD! This is great.  ", text)
}

func TestExtractPlainTextInvalidUTF8(t *testing.T) {
	_, err := Extract([]byte{'o', 'k', 0xff, 0xfe}, document.MediaTypePlainText)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestExtractUnknownMediaType(t *testing.T) {
	text, err := Extract([]byte("some bytes that are not empty"), document.MediaTypeUnknown)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractWordDocument(t *testing.T) {
	text, err := Extract(buildDOCX(t, documentXML), document.MediaTypeWordDocument)
	require.NoError(t, err)
	assert.Equal(t, "Quarterly Report\nRevenue\tup 4%\nLine one\nLine two", text)
}

func TestExtractWordDocumentCorrupt(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"not a zip", []byte("plain text pretending to be docx")},
		{"empty", nil},
		{"zip without document", func() []byte {
			var buf bytes.Buffer
			zw := zip.NewWriter(&buf)
			w, _ := zw.Create("readme.txt")
			_, _ = w.Write([]byte("hi"))
			_ = zw.Close()
			return buf.Bytes()
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.raw, document.MediaTypeWordDocument)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestExtractWordDocumentMalformedXML(t *testing.T) {
	_, err := Extract(buildDOCX(t, `<w:document><w:body><w:p>`), document.MediaTypeWordDocument)
	assert.ErrorIs(t, err, ErrParse)
}
