// Package pdfextract extracts plain text from PDF bytes.
package pdfextract

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// ExtractText extracts plain text from a PDF and reports its page count.
// Returns an empty string when the PDF carries no extractable text.
func ExtractText(data []byte) (string, int, error) {
	if len(data) == 0 {
		return "", 0, nil
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("pdfextract: open: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", 0, fmt.Errorf("pdfextract: extract: %w", err)
	}
	out, err := io.ReadAll(plain)
	if err != nil {
		return "", 0, fmt.Errorf("pdfextract: read: %w", err)
	}
	return string(out), reader.NumPage(), nil
}
