package matte

// DefaultFeatherPasses is the box-blur pass count used by the remover tool.
const DefaultFeatherPasses = 3

// Feather softens mask edges with passes of a 3x3 box blur, in place.
// Each pass reads only the previous pass's output. The outermost rows and
// columns have no full neighborhood and keep their values.
func Feather(mask AlphaMask, w, h, passes int) {
	mustMatch(mask, w, h)
	if passes <= 0 || w < 3 || h < 3 {
		return
	}

	src := mask
	dst := make(AlphaMask, len(mask))
	copy(dst, mask)

	for p := 0; p < passes; p++ {
		for y := 1; y < h-1; y++ {
			for x := 1; x < w-1; x++ {
				sum := 0
				for dy := -1; dy <= 1; dy++ {
					row := (y + dy) * w
					sum += int(src[row+x-1]) + int(src[row+x]) + int(src[row+x+1])
				}
				dst[y*w+x] = uint8((sum + 4) / 9)
			}
		}
		src, dst = dst, src
	}

	// After an odd number of swaps the result lives in the scratch buffer
	if &src[0] != &mask[0] {
		copy(mask, src)
	}
}
