package game

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding %s: %v", path, err)
	}
}

func TestSourceLoaderLocal(t *testing.T) {
	img := fillImage(8, 6, func(int, int) color.NRGBA { return color.NRGBA{R: 10, G: 20, B: 30, A: 255} })
	path := filepath.Join(t.TempDir(), "pattern.png")
	writePNG(t, path, img)

	tests := []struct {
		name string
		ref  string
	}{
		{"path", path},
		{"file url", "file://" + path},
		{"padded", "  " + path + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SourceLoader{}.Load(context.Background(), tt.ref)
			if err != nil {
				t.Fatalf("Load(%q) error: %v", tt.ref, err)
			}
			if got.Bounds().Dx() != 8 || got.Bounds().Dy() != 6 {
				t.Errorf("bounds = %v, want 8x6", got.Bounds())
			}
		})
	}
}

func TestSourceLoaderHTTP(t *testing.T) {
	img := fillImage(4, 4, func(int, int) color.NRGBA { return color.NRGBA{R: 255, A: 255} })
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" || r.Header.Get("Cookie") != "" {
			http.Error(w, "unexpected credentials", http.StatusBadRequest)
			return
		}
		if r.URL.Path != "/pattern.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		png.Encode(w, img)
	}))
	defer srv.Close()

	loader := SourceLoader{Client: srv.Client()}

	got, err := loader.Load(context.Background(), srv.URL+"/pattern.png")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got.Bounds().Dx() != 4 {
		t.Errorf("bounds = %v, want 4x4", got.Bounds())
	}

	if _, err := loader.Load(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Error("expected an error for a 404")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := loader.Load(ctx, srv.URL+"/pattern.png"); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled load err = %v, want context.Canceled", err)
	}
}

func TestSourceLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		ref  string
	}{
		{"empty", "   "},
		{"missing file", filepath.Join(dir, "nope.png")},
		{"undecodable", garbage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := (SourceLoader{}).Load(context.Background(), tt.ref); err == nil {
				t.Errorf("Load(%q) succeeded, want error", tt.ref)
			}
		})
	}

	if _, err := (SourceLoader{}).Load(context.Background(), ""); !errors.Is(err, ErrEmptyRef) {
		t.Errorf("empty ref err = %v, want ErrEmptyRef", err)
	}
}
