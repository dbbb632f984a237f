package matte

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an 8-bit opaque color.
type RGB struct {
	R, G, B uint8
}

func (c RGB) String() string {
	return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
}

// Luminance is the perceptual brightness of the color.
func (c RGB) Luminance() float64 {
	return Luminance(c.R, c.G, c.B)
}

// Luminance returns 0.299r + 0.587g + 0.114b.
func Luminance(r, g, b uint8) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

// Distance is the Euclidean distance in RGB space, range [0, ~441.7].
func Distance(r1, g1, b1, r2, g2, b2 uint8) float64 {
	dr := float64(r1) - float64(r2)
	dg := float64(g1) - float64(g2)
	db := float64(b1) - float64(b2)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// distanceTo measures against a fractional color, used for sample means.
func distanceTo(r, g, b uint8, mr, mg, mb float64) float64 {
	dr := float64(r) - mr
	dg := float64(g) - mg
	db := float64(b) - mb
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// ParseRGB reads a hex color such as "#f0f0f0", "f0f0f0" or "#fff".
func ParseRGB(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("matte: parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}
