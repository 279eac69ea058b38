// Package media stores the images users attach to their mission submissions.
package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// RefPrefix starts every storage reference returned by Save
const RefPrefix = "entregas/"

// Downloader fetches attachments over HTTP and keeps them under a root directory
type Downloader struct {
	root       string
	httpClient *http.Client
	header     http.Header

	limiter *rate.Limiter

	now func() time.Time
}

// NewDownloader creates a downloader writing below root
func NewDownloader(root string) *Downloader {
	return &Downloader{
		root: root,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		header: make(http.Header),
		// Rate limit: ~20 requests per second (50ms between requests)
		limiter: rate.NewLimiter(rate.Every(50*time.Millisecond), 1),
		now:     time.Now,
	}
}

// SetHeader adds a header to every download request, e.g. credentials
func (d *Downloader) SetHeader(key, value string) {
	d.header.Set(key, value)
}

func (d *Downloader) wait(ctx context.Context) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

// doRequest performs an HTTP request with rate limiting
func (d *Downloader) doRequest(ctx context.Context, url string) (*http.Response, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}

	newRequest := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		for k, v := range d.header {
			req.Header[k] = v
		}
		return req, nil
	}

	req, err := newRequest()
	if err != nil {
		return nil, err
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	// Handle rate limiting (429)
	if resp.StatusCode == http.StatusTooManyRequests {
		resp.Body.Close()
		// Wait and retry once
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(1 * time.Second):
		}
		req, err := newRequest()
		if err != nil {
			return nil, err
		}
		return d.httpClient.Do(req)
	}

	return resp, nil
}

// Save downloads url and stores it as entregas/<team>/<user>_<unixmillis>.<ext>.
// The returned reference is relative to the downloader root.
func (d *Downloader) Save(ctx context.Context, url, team, user, ext string) (string, error) {
	if team == "" || strings.ContainsAny(team, `/\.`) || user == "" || strings.ContainsAny(user, `/\.`) {
		return "", fmt.Errorf("invalid storage location %q/%q", team, user)
	}
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" || strings.ContainsAny(ext, `/\`) {
		ext = "jpg"
	}

	resp, err := d.doRequest(ctx, url)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("download error: status %d, body: %s", resp.StatusCode, string(body))
	}

	ref := path.Join(RefPrefix+team, fmt.Sprintf("%s_%d.%s", user, d.now().UnixMilli(), ext))
	dest := filepath.Join(d.root, filepath.FromSlash(ref))
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", ref, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(dest)
		return "", fmt.Errorf("failed to write %s: %w", ref, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("failed to write %s: %w", ref, err)
	}

	return ref, nil
}

// Open returns the stored file behind a reference
func (d *Downloader) Open(ref string) (*os.File, error) {
	clean := path.Clean(ref)
	if !strings.HasPrefix(clean, RefPrefix) {
		return nil, fmt.Errorf("not a media reference: %q", ref)
	}
	return os.Open(filepath.Join(d.root, filepath.FromSlash(clean)))
}

// ExtFromName guesses a file extension from a filename or URL path
func ExtFromName(name string) string {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	return strings.TrimPrefix(path.Ext(name), ".")
}
