package matte

// Composite writes mask values into the alpha channel of buf. Only rows
// inside the given regions are written; with no regions the whole image is.
// Color channels are never modified.
func Composite(buf *PixelBuffer, mask AlphaMask, regions ...Region) {
	mustMatch(mask, buf.Width, buf.Height)

	if len(regions) == 0 {
		regions = []Region{FullImage(buf.Height)}
	}
	for _, r := range regions {
		r = r.Clamp(buf.Height)
		if r.Empty() {
			continue
		}
		for i := r.Top * buf.Width; i < (r.Top+r.Height)*buf.Width; i++ {
			buf.Pix[i*4+3] = mask[i]
		}
	}
}
