// Package upload stores exported rasters and hands back stable URLs.
package upload

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Uploader stores a blob and returns the URL it can be fetched from.
type Uploader interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}

// Key returns a sharded object key for id: the first eight hex characters
// become four two-character directories, e.g. "ab/cd/ef/01/abcdef01-....jpeg".
func Key(id uuid.UUID, contentType string) string {
	s := id.String()
	var b strings.Builder
	for i := 0; i < 8; i += 2 {
		b.WriteString(s[i : i+2])
		b.WriteByte('/')
	}
	b.WriteString(s)
	if ext := Extension(contentType); ext != "" {
		b.WriteByte('.')
		b.WriteString(ext)
	}
	return b.String()
}

// Extension returns the subtype of a MIME type, "image/jpeg" -> "jpeg".
func Extension(contentType string) string {
	ct, _, _ := strings.Cut(contentType, ";")
	_, sub, ok := strings.Cut(strings.TrimSpace(ct), "/")
	if !ok {
		return ""
	}
	return sub
}

// DirUploader writes blobs under Dir and serves them from BaseURL.
type DirUploader struct {
	Dir     string
	BaseURL string
	// NewID defaults to uuid.New.
	NewID func() uuid.UUID
}

// NewDirUploader creates an uploader rooted at dir. An empty baseURL yields
// file:// URLs.
func NewDirUploader(dir, baseURL string) *DirUploader {
	return &DirUploader{Dir: dir, BaseURL: baseURL}
}

// Upload writes data to a fresh sharded key.
func (u *DirUploader) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	newID := u.NewID
	if newID == nil {
		newID = uuid.New
	}
	key := Key(newID(), contentType)

	dst := filepath.Join(u.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	log.Printf("upload: stored %d bytes at %s", len(data), key)
	return u.url(dst, key)
}

func (u *DirUploader) url(dst, key string) (string, error) {
	if u.BaseURL == "" {
		abs, err := filepath.Abs(dst)
		if err != nil {
			return "", err
		}
		return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
	}
	base, err := url.Parse(u.BaseURL)
	if err != nil {
		return "", fmt.Errorf("upload: base url: %w", err)
	}
	base.Path = path.Join(base.Path, key)
	return base.String(), nil
}

// Reporter receives operational failures.
type Reporter interface {
	Report(err error, fields map[string]string)
}

// LogReporter writes reports to the standard logger.
type LogReporter struct{}

func (LogReporter) Report(err error, fields map[string]string) {
	log.Printf("upload: %v %v", err, fields)
}
