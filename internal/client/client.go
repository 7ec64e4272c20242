package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Endpoint paths on the page service.
const (
	processPath      = "/api/process"
	convertPath      = "/api/convert"
	extractBlankPath = "/api/extract-blank"
)

// ErrEmptyBaseURL is returned by New when no service URL is given.
var ErrEmptyBaseURL = errors.New("service base URL must not be empty")

// Client talks to the page service HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client. Useful for tests and
// for callers that need their own transport settings.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a Client for the page service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrEmptyBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ProcessResult is the page service's answer to a processing trigger.
type ProcessResult struct {
	Message string `json:"message"`
}

// Process issues the processing trigger: a single POST to /api/process with
// no body and no extra headers. A non-2xx status or a non-JSON body is an
// error; callers are not expected to tell failure causes apart.
func (c *Client) Process(ctx context.Context) (ProcessResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+processPath, nil)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("failed to build process request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("process request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ProcessResult{}, fmt.Errorf("process request returned status %d", resp.StatusCode)
	}

	var result ProcessResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ProcessResult{}, fmt.Errorf("failed to decode process response: %w", err)
	}
	return result, nil
}

// serviceError is the error JSON shape the page service responds with.
type serviceError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Convert uploads the document at path and asks the service to convert it to
// targetFormat ("pdf" or "pptx"). The converted document is written to
// outPath.
func (c *Client) Convert(ctx context.Context, path, targetFormat, outPath string) error {
	fields := map[string]string{"targetFormat": targetFormat}
	resp, err := c.postFile(ctx, convertPath, path, fields)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkAttachmentResponse(resp); err != nil {
		return err
	}
	return writeBody(resp.Body, outPath)
}

// ExtractOptions control a blank-page extraction request.
type ExtractOptions struct {
	// OutputType is "pdf" or "image". Empty means the service default (pdf).
	OutputType string
	// DPI is the rasterization DPI. Zero means the service default.
	DPI int
}

// ExtractBlank uploads the document at path and asks the service for its
// first blank page (or a generated one). The result is written to outPath.
// The returned name is the service-chosen download filename, which encodes
// whether a blank page was found or generated.
func (c *Client) ExtractBlank(ctx context.Context, path string, opts ExtractOptions, outPath string) (name string, err error) {
	fields := map[string]string{}
	if opts.OutputType != "" {
		fields["outputType"] = opts.OutputType
	}
	if opts.DPI != 0 {
		fields["dpi"] = strconv.Itoa(opts.DPI)
	}

	resp, err := c.postFile(ctx, extractBlankPath, path, fields)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkAttachmentResponse(resp); err != nil {
		return "", err
	}
	if err := writeBody(resp.Body, outPath); err != nil {
		return "", err
	}
	return attachmentName(resp), nil
}

// postFile issues a multipart POST with the given file and form fields.
func (c *Client) postFile(ctx context.Context, endpoint, path string, fields map[string]string) (*http.Response, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	var body strings.Builder
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, strings.NewReader(body.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	return resp, nil
}

// checkAttachmentResponse turns the service's error JSON into a Go error.
func checkAttachmentResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var svcErr serviceError
	if err := json.NewDecoder(resp.Body).Decode(&svcErr); err == nil && svcErr.Error != "" {
		if svcErr.Details != "" {
			return fmt.Errorf("service error (status %d): %s: %s", resp.StatusCode, svcErr.Error, svcErr.Details)
		}
		return fmt.Errorf("service error (status %d): %s", resp.StatusCode, svcErr.Error)
	}
	return fmt.Errorf("service returned status %d", resp.StatusCode)
}

// attachmentName extracts the filename from a Content-Disposition header, or
// returns "" when none is present.
func attachmentName(resp *http.Response) string {
	cd := resp.Header.Get("Content-Disposition")
	if cd == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(cd)
	if err != nil {
		return ""
	}
	return params["filename"]
}

func writeBody(body io.Reader, outPath string) error {
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, body); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	return nil
}
