package upload

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

var fixedID = uuid.MustParse("abcdef01-2345-6789-abcd-ef0123456789")

func TestKey(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"image/jpeg", "ab/cd/ef/01/abcdef01-2345-6789-abcd-ef0123456789.jpeg"},
		{"image/png; charset=binary", "ab/cd/ef/01/abcdef01-2345-6789-abcd-ef0123456789.png"},
		{"", "ab/cd/ef/01/abcdef01-2345-6789-abcd-ef0123456789"},
	}
	for _, tt := range tests {
		if got := Key(fixedID, tt.contentType); got != tt.want {
			t.Errorf("Key(%q) = %q, want %q", tt.contentType, got, tt.want)
		}
	}
}

func TestDirUploader(t *testing.T) {
	dir := t.TempDir()
	u := NewDirUploader(dir, "https://cdn.example.com/uploads/")
	u.NewID = func() uuid.UUID { return fixedID }

	got, err := u.Upload(context.Background(), []byte("jpeg"), "image/jpeg")
	if err != nil {
		t.Fatal(err)
	}
	want := "https://cdn.example.com/uploads/ab/cd/ef/01/abcdef01-2345-6789-abcd-ef0123456789.jpeg"
	if got != want {
		t.Errorf("url = %q, want %q", got, want)
	}
	data, err := os.ReadFile(filepath.Join(dir, "ab", "cd", "ef", "01", fixedID.String()+".jpeg"))
	if err != nil || string(data) != "jpeg" {
		t.Errorf("stored %q, %v", data, err)
	}
}

func TestDirUploaderFileURL(t *testing.T) {
	u := NewDirUploader(t.TempDir(), "")
	got, err := u.Upload(context.Background(), []byte("x"), "image/jpeg")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "file://") || !strings.HasSuffix(got, ".jpeg") {
		t.Errorf("url = %q", got)
	}
}

func TestDirUploaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewDirUploader(t.TempDir(), "").Upload(ctx, nil, "image/jpeg"); err == nil {
		t.Error("expected error")
	}
}
