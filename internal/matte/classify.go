package matte

import (
	"fmt"
	"math"
	"strings"
)

// Classifier turns pixels of one region into mask values given its background.
type Classifier interface {
	Classify(buf *PixelBuffer, mask AlphaMask, r Region, bg Estimate)
}

// RawDistance clears pixels within Tolerance (0-255 RGB distance) of the
// background and ramps the next Band units of distance back to their
// existing alpha. Pixels already transparent are never touched.
type RawDistance struct {
	Tolerance float64
	Band      float64
}

func (c RawDistance) Classify(buf *PixelBuffer, mask AlphaMask, r Region, bg Estimate) {
	mustMatch(mask, buf.Width, buf.Height)
	r = r.Clamp(buf.Height)
	tol := math.Max(0, c.Tolerance)
	band := math.Max(0, c.Band)

	for y := r.Top; y < r.Top+r.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			i := y*buf.Width + x
			a := mask[i]
			if a == 0 {
				continue
			}
			pr, pg, pb, _ := buf.At(x, y)
			d := Distance(pr, pg, pb, bg.R, bg.G, bg.B)

			if d <= tol {
				mask[i] = 0
				continue
			}
			if band > 0 && d < tol+band {
				t := (d - tol) / band
				mask[i] = uint8(math.Round(float64(a) * t))
			}
		}
	}
}

// Mode hints what kind of background to expect.
type Mode int

const (
	ModeAuto Mode = iota
	ModeWhite
	ModeGray
)

func (m Mode) String() string {
	switch m {
	case ModeWhite:
		return "white"
	case ModeGray:
		return "gray"
	}
	return "auto"
}

// ParseMode accepts "auto", "white" or "gray".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "white":
		return ModeWhite, nil
	case "gray", "grey":
		return ModeGray, nil
	}
	return ModeAuto, fmt.Errorf("matte: unknown mode %q (want white, gray or auto)", s)
}

// PercentTolerance converts a 0-100 tolerance to RGB distance units.
func PercentTolerance(p float64) float64 {
	return math.Max(0, math.Min(100, p)) * 2.55
}

// Percent classifies every pixel of the region from scratch. On white and
// gray backgrounds luminance and color distance are judged together; other
// backgrounds use a plain distance ramp. Tolerance is in RGB distance units
// (see PercentTolerance); the luminance tolerance is the same value on the
// 0-100 scale.
type Percent struct {
	Tolerance float64
	Mode      Mode
}

func (c Percent) Classify(buf *PixelBuffer, mask AlphaMask, r Region, bg Estimate) {
	mustMatch(mask, buf.Width, buf.Height)
	r = r.Clamp(buf.Height)

	kind := bg.Kind
	switch c.Mode {
	case ModeWhite:
		kind = KindWhite
	case ModeGray:
		kind = KindGray
	}

	tol := math.Max(0, c.Tolerance)
	lumTol := tol / 2.55

	for y := r.Top; y < r.Top+r.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			pr, pg, pb, _ := buf.At(x, y)
			d := Distance(pr, pg, pb, bg.R, bg.G, bg.B)

			var alpha uint8
			if kind == KindWhite || kind == KindGray {
				lumDiff := math.Abs(Luminance(pr, pg, pb) - bg.Luminance)
				alpha = luminanceAlpha(lumDiff, d, lumTol, tol)
			} else {
				alpha = distanceAlpha(d, tol)
			}
			mask[y*buf.Width+x] = alpha
		}
	}
}

func luminanceAlpha(lumDiff, d, lumTol, tol float64) uint8 {
	if lumDiff < lumTol && d < tol*1.5 {
		return 0
	}
	if lumDiff < lumTol*1.5 || d < tol*2 {
		// Transition band: partially transparent
		f := math.Min(lumDiff/(lumTol*1.5), d/(tol*2))
		return clamp8(255 * math.Max(0, f-0.3) / 0.7)
	}
	return 255
}

func distanceAlpha(d, tol float64) uint8 {
	if d < tol {
		return 0
	}
	if d < tol*1.8 {
		return clamp8(255 * (d - tol) / (tol * 0.8))
	}
	return 255
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
