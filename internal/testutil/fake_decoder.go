// Package testutil provides test doubles shared by package tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
)

// FakeDecoder decodes a file by looking up its contents.
// Contents found in Errors fail with that error, contents found in Texts
// decode to that text, and anything else decodes to the contents verbatim.
type FakeDecoder struct {
	Texts  map[string]string
	Errors map[string]error

	mu    sync.Mutex
	paths []string
}

// NewFakeDecoder creates a FakeDecoder with empty lookup tables.
func NewFakeDecoder() *FakeDecoder {
	return &FakeDecoder{
		Texts:  make(map[string]string),
		Errors: make(map[string]error),
	}
}

// Decode implements parser.Decoder.
func (d *FakeDecoder) Decode(ctx context.Context, path string) (string, error) {
	d.mu.Lock()
	d.paths = append(d.paths, path)
	d.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	content := string(data)

	if err, ok := d.Errors[content]; ok {
		return "", err
	}
	if text, ok := d.Texts[content]; ok {
		return text, nil
	}
	return content, nil
}

// Paths returns every path passed to Decode, in call order.
func (d *FakeDecoder) Paths() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.paths))
	copy(out, d.paths)
	return out
}

// PDFFiles lists the *.pdf files currently in dir.
func PDFFiles(dir string) []string {
	matches, _ := filepath.Glob(filepath.Join(dir, "*.pdf"))
	return matches
}
