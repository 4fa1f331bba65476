// interfaces.go - Handler interface definitions
package api

import (
	"context"
	"mime/multipart"

	"github.com/labstack/echo/v4"

	"github.com/pdf-parse/backend/internal/models"
)

// ParseHandler handles text extraction requests
type ParseHandler interface {
	HandleParseData(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// Extractor turns uploaded file parts into parsed results.
// Implemented by extract.Service; replaced in tests.
type Extractor interface {
	ExtractAll(ctx context.Context, files []*multipart.FileHeader) ([]models.ParsedResult, error)
}
