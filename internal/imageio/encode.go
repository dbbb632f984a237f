package imageio

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
)

// Format is an output encoding.
type Format int

const (
	PNG Format = iota
	JPEG
	WebP
)

func (f Format) String() string {
	switch f {
	case JPEG:
		return "jpeg"
	case WebP:
		return "webp"
	}
	return "png"
}

// Ext is the file extension written for the format.
func (f Format) Ext() string {
	switch f {
	case JPEG:
		return ".jpg"
	case WebP:
		return ".webp"
	}
	return ".png"
}

// ParseFormat accepts png, jpg/jpeg and webp.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "webp":
		return WebP, nil
	}
	return PNG, fmt.Errorf("imageio: unknown format %q", s)
}

// FormatFromPath picks the format from the file extension, PNG by default.
func FormatFromPath(path string) Format {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return PNG
	}
	return f
}

// Encode writes img. Quality applies to JPEG only; PNG always uses the
// best compression and WebP is lossless.
func Encode(w io.Writer, img image.Image, f Format, quality int) error {
	switch f {
	case JPEG:
		if quality <= 0 || quality > 100 {
			quality = 90
		}
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case WebP:
		return nativewebp.Encode(w, img, nil)
	default:
		return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	}
}

// EncodeBytes encodes img into memory.
func EncodeBytes(img image.Image, f Format, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, f, quality); err != nil {
		return nil, fmt.Errorf("imageio: encode %s: %w", f, err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes encoded bytes, creating parent directories.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("imageio: mkdir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("imageio: write %s: %w", path, err)
	}
	return nil
}

// Save encodes img to path and returns the number of bytes written.
func Save(path string, img image.Image, f Format, quality int) (int64, error) {
	data, err := EncodeBytes(img, f, quality)
	if err != nil {
		return 0, err
	}
	if err := WriteFile(path, data); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

// ReplaceExt swaps the extension of path for the format's extension.
func ReplaceExt(path string, f Format) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + f.Ext()
}
