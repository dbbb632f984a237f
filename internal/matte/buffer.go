package matte

import (
	"fmt"
	"image"
)

// PixelBuffer holds one image as flat RGBA bytes for cache locality.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8 // RGBA interleaved, row-major, len = W*H*4
}

// NewPixelBuffer allocates a zeroed (fully transparent) buffer.
func NewPixelBuffer(w, h int) *PixelBuffer {
	return &PixelBuffer{
		Width:  w,
		Height: h,
		Pix:    make([]uint8, w*h*4),
	}
}

// FromImage copies an NRGBA image into a tightly packed buffer.
func FromImage(img *image.NRGBA) *PixelBuffer {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	buf := NewPixelBuffer(w, h)
	for y := 0; y < h; y++ {
		src := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(buf.Pix[y*w*4:(y+1)*w*4], img.Pix[src:src+w*4])
	}
	return buf
}

// NRGBA returns a copy of the buffer as an image.
func (p *PixelBuffer) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))
	copy(img.Pix, p.Pix)
	return img
}

// Alpha extracts the current alpha channel as a new mask.
func (p *PixelBuffer) Alpha() AlphaMask {
	n := p.Width * p.Height
	mask := make(AlphaMask, n)
	for i := 0; i < n; i++ {
		mask[i] = p.Pix[i*4+3]
	}
	return mask
}

// At returns the RGBA bytes of pixel (x, y).
func (p *PixelBuffer) At(x, y int) (r, g, b, a uint8) {
	i := (y*p.Width + x) * 4
	return p.Pix[i], p.Pix[i+1], p.Pix[i+2], p.Pix[i+3]
}

// AlphaMask holds one opacity byte per pixel of the whole image.
type AlphaMask []uint8

// Opaque counts pixels above the clustering threshold.
func (m AlphaMask) Opaque() int {
	n := 0
	for _, a := range m {
		if a > opaqueCutoff {
			n++
		}
	}
	return n
}

func mustMatch(mask AlphaMask, w, h int) {
	if len(mask) != w*h {
		panic(fmt.Sprintf("matte: mask length %d does not match %dx%d", len(mask), w, h))
	}
}

// Region is a horizontal strip of rows in which matting may run.
type Region struct {
	Top    int
	Height int
}

// FullImage covers every row of an image of the given height.
func FullImage(height int) Region {
	return Region{Top: 0, Height: height}
}

// Clamp fits the region into an image of the given height.
// A region that ends up with no rows reports Empty.
func (r Region) Clamp(height int) Region {
	top := r.Top
	if top > height-1 {
		top = height - 1
	}
	if top < 0 {
		top = 0
	}
	h := r.Height
	if h > height-top {
		h = height - top
	}
	if h < 0 {
		h = 0
	}
	return Region{Top: top, Height: h}
}

// Empty reports whether the region covers no rows.
func (r Region) Empty() bool {
	return r.Height <= 0
}

// Bottom is the last row index inside the region.
func (r Region) Bottom() int {
	return r.Top + r.Height - 1
}

// Contains reports whether row y lies inside the region.
func (r Region) Contains(y int) bool {
	return y >= r.Top && y < r.Top+r.Height
}
