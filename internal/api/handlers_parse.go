// handlers_parse.go - Text extraction handler
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

const (
	// HeaderFileName carries the artifact identifier of a single-file response.
	// The name is kept for wire compatibility; the value is not a file name.
	HeaderFileName = "FileName"

	// MIMEApplicationMsgpack is the alternate encoding for multi-file responses.
	MIMEApplicationMsgpack = "application/msgpack"
)

// ParseHandlerImpl implements the ParseHandler interface
type ParseHandlerImpl struct {
	extractor   Extractor
	fieldName   string
	maxDuration time.Duration
	logger      *zap.Logger
}

// NewParseHandler creates a new parse handler instance
func NewParseHandler(extractor Extractor, fieldName string, maxDuration time.Duration, logger *zap.Logger) ParseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParseHandlerImpl{
		extractor:   extractor,
		fieldName:   fieldName,
		maxDuration: maxDuration,
		logger:      logger,
	}
}

// HandleParseData extracts text from every file part under the configured field.
// One result is returned as a plain text body with its identifier in the
// FileName header; any other count is returned as an array.
func (h *ParseHandlerImpl) HandleParseData(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return NewInternalError(err)
	}

	files := form.File[h.fieldName]
	// Plain-value parts under the field count towards "something was sent"
	// but are never decoded.
	if len(files)+len(form.Value[h.fieldName]) == 0 {
		return NewNotFoundError(MsgNoFileFound)
	}

	ctx := c.Request().Context()
	if h.maxDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.maxDuration)
		defer cancel()
	}

	results, err := h.extractor.ExtractAll(ctx, files)
	if err != nil {
		h.logger.Warn("parse request failed",
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.Int("files", len(files)),
			zap.Error(err),
		)
		return NewInternalError(err)
	}

	if len(results) == 1 {
		c.Response().Header().Set(HeaderFileName, results[0].ID)
		return c.String(http.StatusOK, results[0].Text)
	}

	if acceptsMsgpack(c) {
		data, err := msgpack.Marshal(results)
		if err != nil {
			return NewInternalError(err)
		}
		return c.Blob(http.StatusOK, MIMEApplicationMsgpack, data)
	}

	return c.JSON(http.StatusOK, results)
}

func acceptsMsgpack(c echo.Context) bool {
	accept := strings.ToLower(c.Request().Header.Get(echo.HeaderAccept))
	return strings.Contains(accept, "application/msgpack") || strings.Contains(accept, "application/x-msgpack")
}
