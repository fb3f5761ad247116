package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// Package extract parses uploaded bytes into plain text for search and
// preview. It is a best-effort collaborator: callers treat any error as "no
// text available" and carry on.

// ErrUnsupported indicates the file type has no extractor.
var ErrUnsupported = errors.New("extract: unsupported file type")

// Extractor parses raw document bytes into plain text. The filename is used
// only to pick a parser by extension.
type Extractor interface {
	Extract(data []byte, filename string) (string, error)
}

type extractor struct{}

// New returns an Extractor handling PDF and plain-text files.
func New() Extractor {
	return extractor{}
}

// textExtensions are the file types read verbatim as UTF-8 text.
var textExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".log":  true,
	".json": true,
	".xml":  true,
	".yaml": true,
	".yml":  true,
}

func (extractor) Extract(data []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case ext == ".pdf":
		return extractPDF(data)
	case textExtensions[ext]:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: %s is not valid UTF-8", ErrUnsupported, ext)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

// extractPDF returns the concatenated plain text of all pages. A PDF with no
// extractable text yields an empty string and no error.
func extractPDF(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	out, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return string(out), nil
}
