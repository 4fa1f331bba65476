// Package client talks to the parse endpoint over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pdf-parse/backend/internal/models"
	"github.com/pdf-parse/backend/internal/uploader"
)

const (
	parsePath        = "/api/parse-data"
	headerFileName   = "FileName"
	mimeMsgpack      = "application/msgpack"
	defaultFieldName = "FILE"
)

// ErrUploadFailed is matched by every non-2xx response.
var ErrUploadFailed = errors.New("Failed to upload file")

// UploadError describes a non-2xx response. Its message is always
// ErrUploadFailed's; the status and body are kept for logging.
type UploadError struct {
	Status int
	Body   string
}

func (e *UploadError) Error() string { return ErrUploadFailed.Error() }

// Is reports ErrUploadFailed as equal.
func (e *UploadError) Is(target error) bool { return target == ErrUploadFailed }

// Part is one file to send.
type Part struct {
	Name string
	Body io.Reader
}

// Client posts files to a parse server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	fieldName  string
	msgpack    bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithFieldName changes the multipart field name (default "FILE").
func WithFieldName(name string) Option {
	return func(c *Client) { c.fieldName = name }
}

// WithMsgpack asks for msgpack-encoded batch responses.
func WithMsgpack() Option {
	return func(c *Client) { c.msgpack = true }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		fieldName:  defaultFieldName,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Parse uploads one file and returns its text and artifact identifier.
func (c *Client) Parse(ctx context.Context, p Part) (string, string, error) {
	resp, err := c.post(ctx, []Part{p})
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("reading response: %w", err)
	}

	return string(data), resp.Header.Get(headerFileName), nil
}

// ParseBatch uploads all parts in one request. A single-part batch comes
// back as plain text and is normalised to a one-element slice.
func (c *Client) ParseBatch(ctx context.Context, parts []Part) ([]models.ParsedResult, error) {
	resp, err := c.post(ctx, parts)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if len(parts) == 1 {
		return []models.ParsedResult{{
			ID:           resp.Header.Get(headerFileName),
			OriginalName: parts[0].Name,
			Text:         string(data),
		}}, nil
	}

	var results []models.ParsedResult
	if strings.HasPrefix(resp.Header.Get("Content-Type"), mimeMsgpack) {
		err = msgpack.Unmarshal(data, &results)
	} else {
		err = json.Unmarshal(data, &results)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding results: %w", err)
	}

	return results, nil
}

// Upload adapts Parse to the uploader's upload function.
func (c *Client) Upload(ctx context.Context, f *uploader.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer rc.Close()

	text, _, err := c.Parse(ctx, Part{Name: f.Name, Body: rc})
	return text, err
}

func (c *Client) post(ctx context.Context, parts []Part) (*http.Response, error) {
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	for _, p := range parts {
		fw, err := w.CreateFormFile(c.fieldName, p.Name)
		if err != nil {
			return nil, fmt.Errorf("creating form part: %w", err)
		}
		if _, err := io.Copy(fw, p.Body); err != nil {
			return nil, fmt.Errorf("writing form part %s: %w", p.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+parsePath, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if c.msgpack {
		req.Header.Set("Accept", mimeMsgpack)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &UploadError{Status: resp.StatusCode, Body: string(msg)}
	}

	return resp, nil
}
