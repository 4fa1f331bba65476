// handlers_health.go - Health check handlers
package api

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
)

// HealthHandlerImpl reports whether the service can accept uploads: every
// parse writes a scratch file, so an unwritable temp dir makes it unhealthy.
type HealthHandlerImpl struct {
	version string
	decoder string
	tempDir string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version, decoder, tempDir string) HealthHandler {
	return &HealthHandlerImpl{
		version: version,
		decoder: decoder,
		tempDir: tempDir,
	}
}

// HandleHealth returns 200 when the temp dir is writable, 503 otherwise.
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	status, code := "ok", http.StatusOK
	writable := h.tempDirWritable()
	if !writable {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	return c.JSON(code, map[string]interface{}{
		"status":          status,
		"version":         h.version,
		"decoder":         h.decoder,
		"tempDir":         h.tempDir,
		"tempDirWritable": writable,
	})
}

func (h *HealthHandlerImpl) tempDirWritable() bool {
	if h.tempDir == "" {
		return false
	}
	f, err := os.CreateTemp(h.tempDir, ".health-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	_ = os.Remove(name)
	return true
}
