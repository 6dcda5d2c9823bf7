package game

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	// Registered decoders for image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// ImageLoader resolves an image reference to decoded pixels.
type ImageLoader interface {
	Load(ctx context.Context, ref string) (image.Image, error)
}

// ErrEmptyRef is returned for a blank image reference.
var ErrEmptyRef = errors.New("empty image reference")

// SourceLoader loads local paths, file:// URLs and http(s) URLs.
// Remote requests carry no credentials.
type SourceLoader struct {
	Client *http.Client
}

// Load fetches and decodes ref.
func (l SourceLoader) Load(ctx context.Context, ref string) (image.Image, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrEmptyRef
	}

	u, err := url.Parse(ref)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			return l.loadHTTP(ctx, u)
		case "file":
			return loadFile(ctx, u.Path)
		}
	}
	return loadFile(ctx, ref)
}

func (l SourceLoader) loadHTTP(ctx context.Context, u *url.URL) (image.Image, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", u.Redacted(), err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", u.Redacted(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: %s", u.Redacted(), resp.Status)
	}
	return decode(resp.Body, u.Redacted())
}

func loadFile(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()
	return decode(f, path)
}

func decode(r io.Reader, name string) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("decoding %s: empty %s image", name, format)
	}
	return img, nil
}
