package pipeline

import "strings"

// Source identifies which input a run uses.
type Source int

const (
	SourceNone Source = iota
	SourceUpload
	SourceText
)

func (s Source) String() string {
	switch s {
	case SourceUpload:
		return "upload"
	case SourceText:
		return "text"
	default:
		return "none"
	}
}

// Upload is a file received from the user.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Input is exactly one of an upload, typed text, or nothing. The zero value
// means no input was provided.
type Input struct {
	Source Source
	Upload Upload
	Text   string
}

// SelectInput picks the input for a run. An upload wins over typed text.
// Typed text is trimmed and whitespace-only text counts as absent.
func SelectInput(upload *Upload, text string) Input {
	if upload != nil {
		return Input{Source: SourceUpload, Upload: *upload}
	}
	if trimmed := strings.TrimSpace(text); trimmed != "" {
		return Input{Source: SourceText, Text: trimmed}
	}
	return Input{}
}
