// Package utils provides the fetching, caching and drawing helpers shared by the dashboard packages.
package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

var ErrNotFound = errors.New("file not found on server")

// DefaultUserAgent identifies the dashboard to tile servers, which reject anonymous clients.
const DefaultUserAgent = "hiway-dashboard/1.0 (+https://github.com/sudorandom/hiway)"

// maxBodySize bounds a single download; base map tiles are a few tens of KB.
const maxBodySize = 8 << 20

var defaultClient = &http.Client{Timeout: 20 * time.Second}

// FetchURL downloads url and returns its body.
func FetchURL(ctx context.Context, client *http.Client, url, userAgent string) ([]byte, error) {
	if client == nil {
		client = defaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Error closing response body: %v", err)
		}
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	return data, nil
}
