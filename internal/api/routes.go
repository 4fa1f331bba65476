// routes.go - Route registration helpers
package api

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Extractor   Extractor
	FieldName   string
	MaxDuration time.Duration
	Version     string
	// DecoderName and TempDir are reported by the health check.
	DecoderName string
	TempDir     string
	Logger      *zap.Logger
}

// Handlers holds all handler instances
type Handlers struct {
	Health HealthHandler
	Parse  ParseHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(deps.Version, deps.DecoderName, deps.TempDir),
		Parse:  NewParseHandler(deps.Extractor, deps.FieldName, deps.MaxDuration, deps.Logger),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	apiGroup := e.Group("/api")
	apiGroup.GET("/health", handlers.Health.HandleHealth)
	apiGroup.POST("/parse-data", handlers.Parse.HandleParseData)
}
