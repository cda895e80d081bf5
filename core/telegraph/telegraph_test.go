// Copyright 2025, the WhizLite contributors
// SPDX-License-Identifier: AGPL-3.0-only

package telegraph

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTimeout = 5 * time.Second

func TestUploadReturnsPermanentURL(t *testing.T) {
	t.Parallel()

	var (
		gotFilename    string
		gotContentType string
		gotData        []byte
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)

		defer file.Close()

		gotFilename = header.Filename
		gotContentType = header.Header.Get("Content-Type")
		gotData, _ = io.ReadAll(file)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"src":"/file/abc123.jpg"}]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL+"/upload", testTimeout)
	require.NoError(t, err)

	url, err := client.Upload(context.Background(), "file.jpg", "image/jpeg", []byte("fake-jpeg-bytes"))
	require.NoError(t, err)

	assert.Equal(t, server.URL+"/file/abc123.jpg", url)
	assert.Equal(t, "file.jpg", gotFilename)
	assert.Equal(t, "image/jpeg", gotContentType)
	assert.Equal(t, []byte("fake-jpeg-bytes"), gotData)
}

func TestUploadHostError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"File type invalid"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, testTimeout)
	require.NoError(t, err)

	_, err = client.Upload(context.Background(), "file.jpg", "image/jpeg", []byte("not-an-image"))
	require.Error(t, err)

	var uploadErr *UploadError

	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, http.StatusBadRequest, uploadErr.StatusCode)
	assert.Equal(t, "File type invalid", uploadErr.Message)
	assert.ErrorIs(t, err, errUploadRejected)
}

func TestUploadErrorInsideOKResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"Internally limited"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, testTimeout)
	require.NoError(t, err)

	_, err = client.Upload(context.Background(), "file.jpg", "image/jpeg", []byte("bytes"))

	var uploadErr *UploadError

	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, http.StatusOK, uploadErr.StatusCode)
	assert.Equal(t, "Internally limited", uploadErr.Message)
}

func TestUploadUnexpectedResponse(t *testing.T) {
	t.Parallel()

	for name, body := range map[string]string{
		"not JSON":      `<html>hi</html>`,
		"empty array":   `[]`,
		"missing src":   `[{"file":"abc"}]`,
		"empty object":  `{}`,
		"src not first": `[{}, {"src":"/file/abc.jpg"}]`,
	} {
		body := body
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer server.Close()

			client, err := NewClient(server.URL, testTimeout)
			require.NoError(t, err)

			_, err = client.Upload(context.Background(), "file.jpg", "image/jpeg", []byte("bytes"))
			assert.Error(t, err)
		})
	}
}

func TestUploadContextCanceled(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"src":"/file/abc.jpg"}]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, testTimeout)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.Upload(ctx, "file.jpg", "image/jpeg", []byte("bytes"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClientRejectsInvalidEndpoint(t *testing.T) {
	t.Parallel()

	_, err := NewClient("://not-a-url", testTimeout)
	assert.Error(t, err)
}

// errors.Is through the wrap chain must still work after formatting.
func TestUploadErrorFormatting(t *testing.T) {
	t.Parallel()

	uploadErr := &UploadError{
		StatusCode: http.StatusTooManyRequests,
		Message:    "Flood control",
		Err:        errUploadRejected,
	}

	assert.Equal(t, "upload rejected by host: Flood control (status code: 429)", uploadErr.Error())
	assert.True(t, errors.Is(uploadErr, errUploadRejected))
}
