package image

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Loader fetches and decodes the asset behind a URL.
type Loader interface {
	Load(ctx context.Context, url string) (*Bitmap, error)
}

// FileLoader resolves file:// URLs, absolute paths and paths relative to
// Root.
type FileLoader struct {
	Root string
}

// Load implements Loader.
func (l FileLoader) Load(ctx context.Context, rawURL string) (*Bitmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := l.resolve(rawURL)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, format, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Bitmap{URL: rawURL, Format: format, Image: img}, nil
}

// resolve maps a URL to a file path. Root-relative asset paths such as
// "/frames/a.png" are looked up under Root.
func (l FileLoader) resolve(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Scheme == "file" {
		return u.Path
	}
	if l.Root == "" {
		return rawURL
	}
	path := filepath.FromSlash(rawURL)
	if filepath.IsAbs(path) && strings.HasPrefix(path, filepath.Clean(l.Root)+string(filepath.Separator)) {
		return path
	}
	return filepath.Join(l.Root, strings.TrimPrefix(path, string(filepath.Separator)))
}

// HTTPLoader fetches http and https URLs.
type HTTPLoader struct {
	Client *http.Client
	// UserAgent is sent when set.
	UserAgent string
	// MaxBytes caps the response size. Zero means 64 MiB.
	MaxBytes int64
}

// Load implements Loader.
func (l HTTPLoader) Load(ctx context.Context, rawURL string) (*Bitmap, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if l.UserAgent != "" {
		req.Header.Set("User-Agent", l.UserAgent)
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", rawURL, resp.Status)
	}

	limit := l.MaxBytes
	if limit == 0 {
		limit = 64 << 20
	}
	img, format, err := Decode(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rawURL, err)
	}
	return &Bitmap{URL: rawURL, Format: format, Image: img}, nil
}

// SchemeLoader dispatches on the URL scheme: http(s) to HTTP, everything
// else to File.
type SchemeLoader struct {
	File FileLoader
	HTTP HTTPLoader
}

// Load implements Loader.
func (l SchemeLoader) Load(ctx context.Context, rawURL string) (*Bitmap, error) {
	if strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		return l.HTTP.Load(ctx, rawURL)
	}
	return l.File.Load(ctx, rawURL)
}
