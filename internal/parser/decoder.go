package parser

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrDecodeFailed is returned when the decoder fails without reporting a reason.
var ErrDecodeFailed = errors.New("PDF parsing failed")

// Decoder converts a document on disk into plain text.
// Every call resolves exactly once, with either text or an error.
type Decoder interface {
	Decode(ctx context.Context, path string) (string, error)
}

// DecodeFunc adapts a function to the Decoder interface.
type DecodeFunc func(ctx context.Context, path string) (string, error)

// Decode calls f(ctx, path).
func (f DecodeFunc) Decode(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

type decodeResult struct {
	text string
	err  error
}

// await runs fn on its own goroutine and blocks until it settles or ctx is done.
// A panic inside fn is reported as a decode failure. The result channel is
// buffered so an abandoned fn never blocks on send.
func await(ctx context.Context, fn func() (string, error)) (string, error) {
	done := make(chan decodeResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- decodeResult{err: fmt.Errorf("%w: %v", ErrDecodeFailed, r)}
			}
		}()
		text, err := fn()
		done <- decodeResult{text: text, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil && res.err.Error() == "" {
			return "", ErrDecodeFailed
		}
		return res.text, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// IsPDF reports whether a file looks like a PDF from its media type,
// falling back to the extension when the media type is missing or generic.
func IsPDF(mediaType, name string) bool {
	mt := strings.ToLower(mediaType)
	if strings.Contains(mt, "pdf") {
		return true
	}
	if mt == "" || mt == "application/octet-stream" {
		return strings.EqualFold(filepath.Ext(name), ".pdf")
	}
	return false
}
