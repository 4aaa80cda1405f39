package content

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docere/internal/common"
	"github.com/ternarybob/docere/internal/interfaces"
)

// maxDownloadBytes caps source document size. Course PDFs run a few MB; a
// larger response means a misconfigured URL.
const maxDownloadBytes = 50 << 20

// HTTPDownloader implements interfaces.ContentDownloader over plain HTTP.
type HTTPDownloader struct {
	client *http.Client
	logger arbor.ILogger
}

var _ interfaces.ContentDownloader = (*HTTPDownloader)(nil)

// NewHTTPDownloader creates a downloader with the configured timeout.
func NewHTTPDownloader(config *common.Config, logger arbor.ILogger) *HTTPDownloader {
	return &HTTPDownloader{
		client: &http.Client{Timeout: config.DownloadTimeout()},
		logger: logger,
	}
}

// Download fetches the content bytes from its source URL.
func (d *HTTPDownloader) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid content URL: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read content body: %w", err)
	}
	if len(data) > maxDownloadBytes {
		return nil, fmt.Errorf("content exceeds %d byte limit", maxDownloadBytes)
	}

	d.logger.Debug().Str("url", url).Int("bytes", len(data)).Msg("Content downloaded")
	return data, nil
}
