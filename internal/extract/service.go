// Package extract runs the per-file pipeline behind the parse endpoint:
// write the upload to scratch storage, decode it, delete the scratch file.
package extract

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdf-parse/backend/internal/models"
	"github.com/pdf-parse/backend/internal/parser"
	"github.com/pdf-parse/backend/internal/storage"
)

// Service extracts text from uploaded files.
type Service struct {
	store   storage.Store
	decoder parser.Decoder
	logger  *zap.Logger
	newID   func() string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for pipeline events.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithIDGenerator replaces the artifact identifier generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// NewService creates a new extraction service.
func NewService(store storage.Store, decoder parser.Decoder, opts ...Option) *Service {
	s := &Service{
		store:   store,
		decoder: decoder,
		logger:  zap.NewNop(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extract writes r to a fresh scratch file, decodes it and removes the file.
// The scratch file is removed whether or not decoding succeeds; a failed
// removal is logged and otherwise ignored.
func (s *Service) Extract(ctx context.Context, name string, r io.Reader) (*models.ParsedResult, error) {
	id := s.newID()

	path, err := s.store.Save(id, r)
	if err != nil {
		return nil, err
	}

	text, err := s.decoder.Decode(ctx, path)

	if rmErr := s.store.Remove(path); rmErr != nil {
		s.logger.Debug("temp file cleanup failed",
			zap.String("artifact_id", id),
			zap.String("path", path),
			zap.Error(rmErr),
		)
	}

	if err != nil {
		s.logger.Warn("decode failed",
			zap.String("artifact_id", id),
			zap.String("file", name),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Debug("decode complete",
		zap.String("artifact_id", id),
		zap.String("file", name),
		zap.Int("text_length", len(text)),
	)

	return &models.ParsedResult{ID: id, OriginalName: name, Text: text}, nil
}

// ExtractAll extracts every file in submission order, one at a time.
// The first failure aborts the batch and no partial results are returned.
func (s *Service) ExtractAll(ctx context.Context, files []*multipart.FileHeader) ([]models.ParsedResult, error) {
	results := make([]models.ParsedResult, 0, len(files))

	for _, fh := range files {
		res, err := s.extractPart(ctx, fh)
		if err != nil {
			return nil, err
		}
		results = append(results, *res)
	}

	return results, nil
}

func (s *Service) extractPart(ctx context.Context, fh *multipart.FileHeader) (*models.ParsedResult, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening uploaded file %s: %w", fh.Filename, err)
	}
	defer src.Close()

	return s.Extract(ctx, fh.Filename, src)
}
