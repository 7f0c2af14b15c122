package image

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

// emptyBMP is a 24-bit BMP header declaring a 0x0 image.
func emptyBMP() []byte {
	b := make([]byte, 54)
	copy(b, "BM")
	binary.LittleEndian.PutUint32(b[2:], 54)
	binary.LittleEndian.PutUint32(b[10:], 54)
	binary.LittleEndian.PutUint32(b[14:], 40)
	binary.LittleEndian.PutUint16(b[26:], 1)
	binary.LittleEndian.PutUint16(b[28:], 24)
	return b
}

func TestDecodeRejectsEmptyImage(t *testing.T) {
	if _, _, err := Decode(bytes.NewReader(emptyBMP())); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("Decode(0x0 bmp) err = %v, want ErrEmptyImage", err)
	}

	path := filepath.Join(t.TempDir(), "empty.bmp")
	if err := os.WriteFile(path, emptyBMP(), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (FileLoader{}).Load(context.Background(), path); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("FileLoader err = %v, want ErrEmptyImage", err)
	}
}

type emptyLoader struct{}

func (emptyLoader) Load(_ context.Context, url string) (*Bitmap, error) {
	return &Bitmap{URL: url, Image: image.NewRGBA(image.Rect(0, 0, 0, 5))}, nil
}

func TestCacheFailsEmptyBitmap(t *testing.T) {
	c := NewCache(emptyLoader{}, time.Second)
	if _, err := c.Wait(context.Background(), "e.png"); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("Wait err = %v, want ErrEmptyImage", err)
	}
	if st := c.Get("e.png").Status; st != StatusFailed {
		t.Errorf("status = %s, want failed", st)
	}
}

func TestFileLoaderResolvesUnderRoot(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "frames", "a.png"), 4, 3)

	l := FileLoader{Root: root}
	for _, u := range []string{"/frames/a.png", "frames/a.png", "file://" + filepath.Join(root, "frames", "a.png")} {
		b, err := l.Load(context.Background(), u)
		if err != nil {
			t.Fatalf("Load(%q): %v", u, err)
		}
		if b.Width() != 4 || b.Height() != 3 || b.Format != "png" {
			t.Errorf("Load(%q) = %dx%d %s", u, b.Width(), b.Height(), b.Format)
		}
	}
	if _, err := l.Load(context.Background(), "/missing.png"); err == nil {
		t.Error("expected error for missing file")
	}
}

type countingLoader struct {
	calls atomic.Int32
	fail  bool
	delay time.Duration
}

func (l *countingLoader) Load(ctx context.Context, url string) (*Bitmap, error) {
	l.calls.Add(1)
	time.Sleep(l.delay)
	if l.fail {
		return nil, errors.New("boom")
	}
	return &Bitmap{URL: url, Image: image.NewRGBA(image.Rect(0, 0, 10, 20))}, nil
}

func TestCacheWaitAndReady(t *testing.T) {
	loader := &countingLoader{delay: 10 * time.Millisecond}
	c := NewCache(loader, time.Second)

	if e := c.Request("a"); e.Status != StatusPending {
		t.Errorf("Request status = %s", e.Status)
	}
	b, err := c.Wait(context.Background(), "a")
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if b.Height() != 20 {
		t.Errorf("bitmap height = %d", b.Height())
	}
	if c.Get("a").Status != StatusReady {
		t.Errorf("status = %s", c.Get("a").Status)
	}
	if _, err := c.Wait(context.Background(), "a"); err != nil {
		t.Fatal(err)
	}
	if n := loader.calls.Load(); n != 1 {
		t.Errorf("loader called %d times, want 1", n)
	}
}

func TestCacheFailureNotifiesListener(t *testing.T) {
	c := NewCache(&countingLoader{fail: true}, 0)
	got := make(chan Entry, 1)
	c.OnResolve(func(url string, e Entry) { got <- e })

	c.Request("bad")
	select {
	case e := <-got:
		if e.Status != StatusFailed || e.Err == nil {
			t.Errorf("entry = %+v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("listener not called")
	}
	if _, err := c.Bitmap("bad"); err == nil {
		t.Error("Bitmap should return the load error")
	}
}

func TestCacheBitmapNotLoaded(t *testing.T) {
	c := NewCache(&countingLoader{}, 0)
	if _, err := c.Bitmap("never"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("err = %v, want ErrNotLoaded", err)
	}
}

func TestPreload(t *testing.T) {
	loader := &countingLoader{}
	c := NewCache(loader, 0)
	if err := c.Preload(context.Background(), []string{"a", "b", "", "a"}); err != nil {
		t.Fatalf("Preload: %v", err)
	}
	for _, u := range []string{"a", "b"} {
		if c.Get(u).Status != StatusReady {
			t.Errorf("%s not ready", u)
		}
	}
}

func TestRotate(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	marker := color.RGBA{0, 0, 255, 255}
	src.Set(0, 0, marker) // top-left

	tests := []struct {
		deg        int
		w, h, x, y int
	}{
		{90, 2, 3, 1, 0},
		{180, 3, 2, 2, 1},
		{270, 2, 3, 0, 2},
		{-90, 2, 3, 0, 2},
		{360, 3, 2, 0, 0},
	}
	for _, tt := range tests {
		got, err := Rotate(src, tt.deg)
		if err != nil {
			t.Fatalf("Rotate(%d): %v", tt.deg, err)
		}
		if got.Bounds().Dx() != tt.w || got.Bounds().Dy() != tt.h {
			t.Errorf("Rotate(%d) size = %v", tt.deg, got.Bounds())
		}
		if got.RGBAAt(tt.x, tt.y) != marker {
			t.Errorf("Rotate(%d): marker not at (%d,%d)", tt.deg, tt.x, tt.y)
		}
	}
	if _, err := Rotate(src, 45); err == nil {
		t.Error("expected error for 45 degrees")
	}
}

func TestEncodeJPEGFlattensAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	data, err := JPEGBytes(img, 100)
	if err != nil {
		t.Fatal(err)
	}
	dec, format, err := Decode(bytes.NewReader(data))
	if err != nil || format != "jpeg" {
		t.Fatalf("decode: %v %s", err, format)
	}
	r, g, b, _ := dec.At(4, 4).RGBA()
	if r>>8 < 250 || g>>8 < 250 || b>>8 < 250 {
		t.Errorf("transparent pixel encoded as %d,%d,%d, want white", r>>8, g>>8, b>>8)
	}
	if _, err := JPEGBytes(img, 0); err == nil {
		t.Error("quality 0 should be rejected")
	}
}

func TestResize(t *testing.T) {
	got := Resize(image.NewRGBA(image.Rect(0, 0, 100, 50)), 10, 5)
	if got.Bounds() != image.Rect(0, 0, 10, 5) {
		t.Errorf("Resize bounds = %v", got.Bounds())
	}
}

func TestHTTPLoader(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 5, 2)
	var agent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		if r.URL.Path != "/a.png" {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(dir, "a.png"))
	}))
	defer srv.Close()

	l := HTTPLoader{Client: srv.Client(), UserAgent: "card-editor/test"}
	b, err := l.Load(context.Background(), srv.URL+"/a.png")
	if err != nil {
		t.Fatal(err)
	}
	if b.Width() != 5 || b.Height() != 2 {
		t.Errorf("size = %dx%d", b.Width(), b.Height())
	}
	if agent != "card-editor/test" {
		t.Errorf("user agent = %q", agent)
	}
	if _, err := l.Load(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Error("expected error for 404")
	}
}
