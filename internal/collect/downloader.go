// Package collect fetches many URLs concurrently for offline scoring runs.
// A bounded worker pool shares one HTTP client; each URL gets a per-request
// timeout and linear-backoff retries, and every outcome is recorded rather
// than returned as an error.
package collect

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"score-enricher/internal/common/logging"
	"score-enricher/internal/config"
)

// maxContentBytes bounds how much of a response body is retained per URL.
const maxContentBytes = 2 << 20

// retryBackoffStep is the linear backoff unit between attempts.
const retryBackoffStep = 500 * time.Millisecond

// Result records the outcome of fetching one URL. Exactly one of Content and
// Error is meaningful, selected by Success.
type Result struct {
	URL        string `json:"url"`
	Success    bool   `json:"success"`
	Content    string `json:"content,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Downloader is a bounded-concurrency bulk fetcher.
type Downloader struct {
	client     *http.Client
	workers    int
	timeout    time.Duration
	maxRetries int
	logger     logging.Logger
}

// NewDownloader creates a downloader sized from the configuration. A nil
// client gets a default HTTP client.
func NewDownloader(cfg *config.Config, client *http.Client) *Downloader {
	if client == nil {
		client = &http.Client{}
	}
	return &Downloader{
		client:     client,
		workers:    cfg.DownloadMaxConcurrent,
		timeout:    time.Duration(cfg.DownloadTimeoutSeconds) * time.Second,
		maxRetries: cfg.DownloadMaxRetries,
		logger:     logging.GetGlobalLogger().WithFields(logging.String("component", "downloader")),
	}
}

// Download fetches every URL and returns one Result per input, in input
// order. Individual failures never abort the batch.
func (d *Downloader) Download(ctx context.Context, urls []string) []Result {
	results := make([]Result, len(urls))

	workers := d.workers
	if workers > len(urls) {
		workers = len(urls)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	start := time.Now()

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = d.fetchOne(ctx, urls[i])
			}
		}()
	}

	for i := range urls {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	d.logger.Info("Bulk download finished",
		logging.Int("total", len(urls)),
		logging.Int("succeeded", succeeded),
		logging.Duration("elapsed", time.Since(start)),
	)

	return results
}

// fetchOne fetches a single URL with retries. Network errors and 5xx
// responses are retried with linear backoff; 4xx responses are final.
func (d *Downloader) fetchOne(ctx context.Context, rawURL string) Result {
	start := time.Now()
	result := Result{URL: rawURL}

	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		if attempt > 0 {
			if !sleepCtx(ctx, time.Duration(attempt)*retryBackoffStep) {
				result.Error = ctx.Err().Error()
				break
			}
		}

		status, content, err := d.attempt(ctx, rawURL)
		result.StatusCode = status

		if err != nil {
			result.Error = err.Error()
			continue
		}

		if status >= 500 {
			result.Error = fmt.Sprintf("server error %d", status)
			continue
		}

		if status >= 200 && status < 300 {
			result.Success = true
			result.Content = content
			result.Error = ""
		} else {
			result.Error = fmt.Sprintf("unexpected status %d", status)
		}
		break
	}

	result.DurationMs = time.Since(start).Milliseconds()
	return result
}

// attempt issues one GET under the per-request timeout.
func (d *Downloader) attempt(ctx context.Context, rawURL string) (int, string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, "", err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxContentBytes))
	if err != nil {
		return resp.StatusCode, "", err
	}

	return resp.StatusCode, string(body), nil
}

// sleepCtx sleeps for d or until ctx is done, reporting whether the full
// sleep completed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
