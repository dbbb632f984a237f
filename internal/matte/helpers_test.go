package matte

var (
	white = RGB{255, 255, 255}
	black = RGB{0, 0, 0}
	red   = RGB{255, 0, 0}
)

// solid returns a fully opaque w×h buffer of one color.
func solid(w, h int, c RGB) *PixelBuffer {
	buf := NewPixelBuffer(w, h)
	fill(buf, 0, 0, w, h, c)
	return buf
}

// fill paints the rectangle [x0,x1)×[y0,y1) opaque.
func fill(buf *PixelBuffer, x0, y0, x1, y1 int, c RGB) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			i := (y*buf.Width + x) * 4
			buf.Pix[i] = c.R
			buf.Pix[i+1] = c.G
			buf.Pix[i+2] = c.B
			buf.Pix[i+3] = 255
		}
	}
}

func alphaAt(buf *PixelBuffer, x, y int) uint8 {
	return buf.Pix[(y*buf.Width+x)*4+3]
}
