package postprocess

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Resize scales img to exactly w×h with CatmullRom. The scaler reads the
// NRGBA source premultiplied, so transparent pixels contribute no color and
// edges against transparency keep their own color.
func Resize(img *image.NRGBA, w, h int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	if w <= 0 || h <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	// Back to straight alpha. Filter ringing can leave a channel above
	// alpha, which is capped.
	out := image.NewNRGBA(dst.Rect)
	for i := 0; i < len(dst.Pix); i += 4 {
		a := uint32(dst.Pix[i+3])
		if a == 0 {
			continue
		}
		for c := 0; c < 3; c++ {
			v := min(uint32(dst.Pix[i+c]), a)
			out.Pix[i+c] = uint8((v*255 + a/2) / a)
		}
		out.Pix[i+3] = uint8(a)
	}
	return out
}

// Scale resizes by a factor, keeping at least one pixel per side.
func Scale(img *image.NRGBA, factor float64) *image.NRGBA {
	b := img.Bounds()
	w := int(math.Floor(float64(b.Dx()) * factor))
	h := int(math.Floor(float64(b.Dy()) * factor))
	return Resize(img, max(w, 1), max(h, 1))
}
