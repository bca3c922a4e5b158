package video

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"veostudio/internal/domain"
)

// HTTPDownloader fetches generated videos, authenticating with the API key
// as a query parameter.
type HTTPDownloader struct {
	keys    KeySource
	baseURL string
	client  *http.Client
}

func NewHTTPDownloader(keys KeySource, baseURL string, client *http.Client) *HTTPDownloader {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &HTTPDownloader{
		keys:    keys,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (d *HTTPDownloader) Download(ctx context.Context, uri string) ([]byte, string, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, "", errors.New("download: uri is required")
	}
	target := uri
	if !strings.HasPrefix(uri, "http://") && !strings.HasPrefix(uri, "https://") {
		target = d.baseURL + "/" + strings.TrimLeft(uri, "/")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create download request: %w", err)
	}
	if d.keys != nil {
		key, err := d.keys.APIKey(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("load api key: %w", err)
		}
		if key != "" {
			q := req.URL.Query()
			q.Set("key", key)
			req.URL.RawQuery = q.Encode()
		}
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, "", &domain.GenerationError{
			Kind:    domain.ErrTransportFailure,
			Message: "Failed to download video bytes: " + statusText(resp),
		}
	}

	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read video: %w", err)
	}
	return blob, resp.Header.Get("Content-Type"), nil
}

// statusText mirrors the reason phrase of the response, e.g. "Forbidden".
func statusText(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprint(resp.StatusCode)))
}

var _ Downloader = (*HTTPDownloader)(nil)
