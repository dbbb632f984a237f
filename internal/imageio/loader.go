package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// Info describes a decoded input file.
type Info struct {
	Format string // decoder name: png, jpeg, gif, bmp, webp, tga
	Width  int
	Height int
	Size   int64 // bytes on disk
}

var inputExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".webp": true, ".tga": true,
}

// IsSupported reports whether path has an extension Load can decode.
func IsSupported(path string) bool {
	return inputExts[strings.ToLower(filepath.Ext(path))]
}

// Load reads an image file and returns it as NRGBA with an alpha channel.
// JPEG EXIF orientation is applied.
func Load(path string) (*image.NRGBA, Info, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, Info{}, fmt.Errorf("imageio: read %s: %w", path, err)
	}
	return Decode(raw, path)
}

// Decode decodes raw image bytes. The decoder is picked from the leading
// magic bytes; TGA has none, so it is only tried when name ends in .tga.
// name is also used in error messages.
func Decode(raw []byte, name string) (*image.NRGBA, Info, error) {
	format, decode := sniff(raw, name)
	if decode == nil {
		return nil, Info{}, fmt.Errorf("imageio: decode %s: %w", name, errUnknownFormat)
	}

	img, err := decode(bytes.NewReader(raw))
	if err != nil {
		return nil, Info{}, fmt.Errorf("imageio: decode %s: %w", name, err)
	}

	n := toNRGBA(img)
	if format == "jpeg" {
		n = orient(n, jpegOrientation(raw))
	}
	b := n.Bounds()
	return n, Info{Format: format, Width: b.Dx(), Height: b.Dy(), Size: int64(len(raw))}, nil
}

var errUnknownFormat = errors.New("unknown image format")

type decoder func(io.Reader) (image.Image, error)

func sniff(raw []byte, name string) (string, decoder) {
	switch {
	case bytes.HasPrefix(raw, []byte("\x89PNG\r\n\x1a\n")):
		return "png", png.Decode
	case bytes.HasPrefix(raw, []byte{0xff, 0xd8}):
		return "jpeg", jpeg.Decode
	case bytes.HasPrefix(raw, []byte("GIF87a")), bytes.HasPrefix(raw, []byte("GIF89a")):
		return "gif", gif.Decode
	case bytes.HasPrefix(raw, []byte("BM")):
		return "bmp", bmp.Decode
	case len(raw) >= 12 && string(raw[:4]) == "RIFF" && string(raw[8:12]) == "WEBP":
		return "webp", webp.Decode
	case strings.EqualFold(filepath.Ext(name), ".tga"):
		return "tga", tga.Decode
	}
	return "", nil
}

// toNRGBA converts any image to NRGBA format anchored at the origin.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	switch src.(type) {
	case *image.YCbCr, *image.Gray:
		// No alpha: draw and set alpha to 255
		dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		for i := 3; i < len(dst.Pix); i += 4 {
			dst.Pix[i] = 255
		}
		return dst
	default:
		return imaging.Clone(src)
	}
}
