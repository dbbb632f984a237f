package postprocess

import (
	"image"
	"image/color"
	"image/draw"
	"sort"
)

type bucket struct {
	count      int
	r, g, b, a int
}

// Quantize maps img onto at most colors palette entries, alpha included.
// The palette holds the most populated cells of a 4-bit-per-channel RGBA
// histogram, averaged, plus fully transparent. Dithering uses
// Floyd-Steinberg error diffusion.
func Quantize(img *image.NRGBA, colors int, dither bool) *image.Paletted {
	if colors < 2 {
		colors = 2
	}
	if colors > 256 {
		colors = 256
	}

	b := img.Bounds()
	cells := make(map[uint16]*bucket)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		row := img.Pix[off : off+b.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			r, g, bl, a := row[i], row[i+1], row[i+2], row[i+3]
			if a == 0 {
				continue
			}
			key := uint16(r>>4)<<12 | uint16(g>>4)<<8 | uint16(bl>>4)<<4 | uint16(a>>4)
			c := cells[key]
			if c == nil {
				c = &bucket{}
				cells[key] = c
			}
			c.count++
			c.r += int(r)
			c.g += int(g)
			c.b += int(bl)
			c.a += int(a)
		}
	}

	ranked := make([]*bucket, 0, len(cells))
	for _, c := range cells {
		ranked = append(ranked, c)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		// Stable order for equal counts
		ci, cj := ranked[i], ranked[j]
		if ci.r != cj.r {
			return ci.r < cj.r
		}
		if ci.g != cj.g {
			return ci.g < cj.g
		}
		if ci.b != cj.b {
			return ci.b < cj.b
		}
		return ci.a < cj.a
	})

	pal := color.Palette{color.NRGBA{}}
	for _, c := range ranked {
		if len(pal) >= colors {
			break
		}
		n := c.count
		pal = append(pal, color.NRGBA{
			R: uint8((c.r + n/2) / n),
			G: uint8((c.g + n/2) / n),
			B: uint8((c.b + n/2) / n),
			A: uint8((c.a + n/2) / n),
		})
	}

	dst := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), pal)
	if dither {
		draw.FloydSteinberg.Draw(dst, dst.Bounds(), img, b.Min)
	} else {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	}
	return dst
}
