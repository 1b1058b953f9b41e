// Package upload stores product images. Files are shrunk to MaxWidth and
// written as JPEG; when that fails the caller still gets a usable data URL.
package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

const (
	MaxFileSize    = 5 << 20
	MaxWidth       = 800
	JPEGQuality    = 80
	DefaultTimeout = 5 * time.Second
)

var (
	ErrNotImage = errors.New("file is not an image")
	ErrTooLarge = errors.New("file exceeds 5MB")
)

// File is one uploaded file held in memory
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Validate checks the content type and size limits
func Validate(f File) error {
	if !strings.HasPrefix(f.ContentType, "image/") {
		return fmt.Errorf("%s: %w", f.Name, ErrNotImage)
	}
	if len(f.Data) > MaxFileSize {
		return fmt.Errorf("%s: %w", f.Name, ErrTooLarge)
	}
	return nil
}

// DataURL inlines the file as a base64 data URL
func DataURL(f File) string {
	return "data:" + f.ContentType + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}

type Store struct {
	dir       string
	urlPrefix string
	timeout   time.Duration
}

// NewStore writes files into dir and serves them under urlPrefix
func NewStore(dir, urlPrefix string, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Store{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/"), timeout: timeout}
}

// Save decodes, shrinks and writes the image, returning its public URL
func (s *Store) Save(ctx context.Context, f File) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", f.Name, err)
	}

	if img.Bounds().Dx() > MaxWidth {
		img = resize.Resize(MaxWidth, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return "", fmt.Errorf("encoding %s: %w", f.Name, err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	name := uuid.New().String() + ".jpg"
	if err := os.WriteFile(filepath.Join(s.dir, name), buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return s.urlPrefix + "/" + name, nil
}

// Store saves the file within the store timeout and falls back to a data
// URL when saving fails or takes too long
func (s *Store) Store(ctx context.Context, f File) string {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type result struct {
		url string
		err error
	}
	done := make(chan result, 1)
	go func() {
		url, err := s.Save(ctx, f)
		done <- result{url, err}
	}()

	select {
	case r := <-done:
		if r.err == nil {
			return r.url
		}
		log.Printf("[Upload] Saving %s failed, using data URL: %v", f.Name, r.err)
	case <-ctx.Done():
		log.Printf("[Upload] Saving %s timed out, using data URL", f.Name)
	}
	return DataURL(f)
}
