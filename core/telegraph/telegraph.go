// Copyright 2025, the WhizLite contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package telegraph uploads image bytes to a telegra.ph-compatible host and
returns the permanent URL of the hosted file.
*/
package telegraph

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"codeberg.org/whizlite/whizlite/core/audit"
)

var (
	errInvalidJSON        = errors.New("response contained invalid JSON")
	errUploadRejected     = errors.New("upload rejected by host")
	errUnexpectedResponse = errors.New("response did not contain a file source")
)

// UploadError represents an error returned from the image host or internal
// request handling.
type UploadError struct {
	// StatusCode is the HTTP status code from the response.
	// Always >= 400 for host errors.
	StatusCode int

	// Message contains the error message from the host response.
	// Empty for internal request errors.
	Message string

	// Err is the underlying error cause.
	Err error
}

// Error returns a formatted error message including the status code and host message if available.
func (e *UploadError) Error() string {
	var b strings.Builder

	b.WriteString(e.Err.Error())

	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}

	b.WriteString(fmt.Sprintf(" (status code: %d)", e.StatusCode))

	return b.String()
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *UploadError) Unwrap() error {
	return e.Err
}

// Client uploads files to one telegra.ph-compatible endpoint.
type Client struct {
	endpoint *url.URL
	http     *http.Client
}

// NewClient returns a Client posting to rawEndpoint (e.g.
// "https://telegra.ph/upload") with the given per-request timeout.
func NewClient(rawEndpoint string, timeout time.Duration) (*Client, error) {
	endpoint, err := url.Parse(rawEndpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid upload endpoint %q: %w", rawEndpoint, err)
	}

	return &Client{
		endpoint: endpoint,
		http: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}, nil
}

// Upload posts the image bytes as a multipart form and returns the permanent
// URL of the hosted file.
//
// The host answers with a JSON array like `[{"src":"/file/abc.jpg"}]`; the
// returned URL joins the endpoint's origin with that source path.
func (c *Client) Upload(ctx context.Context, filename, contentType string, data []byte) (_ string, err error) {
	body, formContentType, err := createFileForm(filename, contentType, data)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), body)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}

	req.Header.Set("Content-Type", formContentType)

	span := audit.Span{
		Destination: audit.ToTelegraph,
		RequestID:   audit.NewRequestID(),
		Method:      req.Method,
		URL:         req.URL.String(),
	}

	defer func() { span.Error = err }()

	_ = span.Begin(ctx)
	defer span.End() // in case of error

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make upload request: %w", err)
	}
	defer resp.Body.Close()

	span.StatusCode = resp.StatusCode

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload response: %w", err)
	}

	span.Body = respBody

	span.End()
	span.Log()

	return c.processResponse(resp.StatusCode, respBody)
}

// processResponse turns the host's response into a permanent URL or a typed error.
func (c *Client) processResponse(statusCode int, respBody []byte) (string, error) {
	if statusCode >= http.StatusBadRequest {
		// Attempt to extract an error message from the JSON body.
		message := gjson.GetBytes(respBody, "error").String()

		// Fall back to the HTTP status text if no JSON message is found.
		if message == "" {
			message = http.StatusText(statusCode)
		}

		return "", &UploadError{
			StatusCode: statusCode,
			Message:    message,
			Err:        errUploadRejected,
		}
	}

	if !gjson.ValidBytes(respBody) {
		return "", fmt.Errorf("%w: %s", errInvalidJSON, string(respBody))
	}

	// Some hosts signal failure inside a 200 response.
	if message := gjson.GetBytes(respBody, "error").String(); message != "" {
		return "", &UploadError{
			StatusCode: statusCode,
			Message:    message,
			Err:        errUploadRejected,
		}
	}

	src := gjson.GetBytes(respBody, "0.src").String()
	if src == "" {
		return "", fmt.Errorf("%w: %s", errUnexpectedResponse, string(respBody))
	}

	return c.endpoint.Scheme + "://" + c.endpoint.Host + src, nil
}

// createFileForm constructs a single-file multipart form body.
func createFileForm(filename, contentType string, data []byte) (*bytes.Buffer, string, error) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		_ = writer.Close()

		return nil, "", fmt.Errorf("failed to create multipart file part: %w", err)
	}

	if _, err := part.Write(data); err != nil {
		_ = writer.Close()

		return nil, "", fmt.Errorf("failed to write multipart file data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}
