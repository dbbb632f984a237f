package imageio

import (
	"fmt"
	"image"
	"math"

	"cover-matte/internal/postprocess"
)

// jpegLadder lists the JPEG qualities tried for opaque images, best first.
var jpegLadder = []int{90, 85, 80, 75, 70, 65, 60, 55}

// paletteLadder lists the palette PNG attempts for transparent images.
var paletteLadder = []struct {
	colors int
	dither bool
}{
	{256, true},
	{256, false},
	{128, false},
}

// Compressed is the outcome of CompressToLimit.
type Compressed struct {
	Data    []byte
	Format  Format
	Quality int    // JPEG quality used, 0 otherwise
	Colors  int    // palette size of a palette PNG, 0 otherwise
	Note    string // original, jpeg, png-palette-N, or resized-WxH
	Width   int
	Height  int
}

// Fits reports whether the data is within limit bytes.
func (c Compressed) Fits(limit int64) bool {
	return int64(len(c.Data)) <= limit
}

// CompressToLimit encodes img into at most limit bytes when it can.
// PNG is kept when it already fits. Opaque images then walk the JPEG
// quality ladder; transparent images try palette PNGs at 256 colors
// (dithered, then flat) and 128 colors. As a last resort the image is downscaled by
// sqrt(limit/size)*0.95 and re-encoded as PNG, which may still exceed the
// limit; callers check Fits.
func CompressToLimit(img *image.NRGBA, limit int64, transparent bool) (Compressed, error) {
	b := img.Bounds()
	data, err := EncodeBytes(img, PNG, 0)
	if err != nil {
		return Compressed{}, err
	}
	if limit <= 0 || int64(len(data)) <= limit {
		return Compressed{Data: data, Format: PNG, Note: "original", Width: b.Dx(), Height: b.Dy()}, nil
	}

	if !transparent {
		for _, q := range jpegLadder {
			jpg, err := EncodeBytes(img, JPEG, q)
			if err != nil {
				return Compressed{}, err
			}
			if int64(len(jpg)) <= limit {
				return Compressed{Data: jpg, Format: JPEG, Quality: q, Note: "jpeg", Width: b.Dx(), Height: b.Dy()}, nil
			}
		}
	}

	if transparent {
		for _, step := range paletteLadder {
			pal, err := EncodeBytes(postprocess.Quantize(img, step.colors, step.dither), PNG, 0)
			if err != nil {
				return Compressed{}, err
			}
			if int64(len(pal)) <= limit {
				return Compressed{
					Data:   pal,
					Format: PNG,
					Colors: step.colors,
					Note:   fmt.Sprintf("png-palette-%d", step.colors),
					Width:  b.Dx(),
					Height: b.Dy(),
				}, nil
			}
		}
	}

	scale := math.Sqrt(float64(limit)/float64(len(data))) * 0.95
	small := postprocess.Scale(img, scale)
	sb := small.Bounds()
	out, err := EncodeBytes(small, PNG, 0)
	if err != nil {
		return Compressed{}, err
	}
	return Compressed{
		Data:   out,
		Format: PNG,
		Note:   fmt.Sprintf("resized-%dx%d", sb.Dx(), sb.Dy()),
		Width:  sb.Dx(),
		Height: sb.Dy(),
	}, nil
}
