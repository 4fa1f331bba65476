package parser

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFDecoder extracts the raw text layer of a PDF with ledongthuc/pdf.
// Scanned (image-only) pages yield no text.
type PDFDecoder struct{}

// NewPDFDecoder creates a new PDF decoder.
func NewPDFDecoder() *PDFDecoder {
	return &PDFDecoder{}
}

// Name identifies the decoding library.
func (d *PDFDecoder) Name() string {
	return "ledongthuc/pdf"
}

// Decode returns the plain text of every page of the PDF at path.
func (d *PDFDecoder) Decode(ctx context.Context, path string) (string, error) {
	return await(ctx, func() (string, error) {
		return readPlainText(path)
	})
}

func readPlainText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	textReader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting plain text: %w", err)
	}
	if textReader == nil {
		return "", ErrDecodeFailed
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(textReader); err != nil {
		return "", fmt.Errorf("reading text buffer: %w", err)
	}

	return buf.String(), nil
}
