// Package web serves the embedded drop-zone page.
package web

import (
	"embed"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed dist/index.html
var staticFiles embed.FS

const indexPath = "dist/index.html"

// RegisterStaticRoutes serves the drop-zone page at "/" and "/index.html".
// Any other path falls through to echo's 404.
func RegisterStaticRoutes(e *echo.Echo) error {
	page, err := staticFiles.ReadFile(indexPath)
	if err != nil {
		return fmt.Errorf("reading embedded page: %w", err)
	}

	serve := func(c echo.Context) error {
		return c.HTMLBlob(http.StatusOK, page)
	}
	e.GET("/", serve)
	e.GET("/index.html", serve)
	return nil
}

// HasEmbeddedFiles returns true if the page was embedded.
func HasEmbeddedFiles() bool {
	_, err := staticFiles.ReadFile(indexPath)
	return err == nil
}
