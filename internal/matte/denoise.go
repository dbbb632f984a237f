package matte

// Mask values above this count as opaque when grouping components.
const opaqueCutoff = 128

// DefaultMinArea is the smallest component kept by the remover tool.
const DefaultMinArea = 100

// Denoise zeroes 4-connected opaque components smaller than minArea pixels.
// The input mask is not modified. A minArea of zero or less disables the stage.
func Denoise(mask AlphaMask, w, h, minArea int) AlphaMask {
	mustMatch(mask, w, h)

	result := make(AlphaMask, len(mask))
	copy(result, mask)
	if minArea <= 0 {
		return result
	}

	visited := make([]bool, w*h)

	// Explicit worklist; large opaque areas must not recurse
	stack := make([]int, 0, 1024)
	comp := make([]int, 0, 1024)

	for start := range mask {
		if visited[start] || mask[start] <= opaqueCutoff {
			continue
		}

		stack = append(stack[:0], start)
		comp = comp[:0]
		visited[start] = true

		for len(stack) > 0 {
			curr := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, curr)

			cx := curr % w
			if cx > 0 {
				stack = visit(mask, visited, stack, curr-1)
			}
			if cx < w-1 {
				stack = visit(mask, visited, stack, curr+1)
			}
			if curr >= w {
				stack = visit(mask, visited, stack, curr-w)
			}
			if curr+w < w*h {
				stack = visit(mask, visited, stack, curr+w)
			}
		}

		if len(comp) < minArea {
			for _, i := range comp {
				result[i] = 0
			}
		}
	}

	return result
}

func visit(mask AlphaMask, visited []bool, stack []int, i int) []int {
	if visited[i] || mask[i] <= opaqueCutoff {
		return stack
	}
	visited[i] = true
	return append(stack, i)
}
