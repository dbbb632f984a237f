package matte

import (
	"math"

	"github.com/montanaflynn/stats"
)

const (
	// DefaultMaxDispersion is the largest sample spread still treated as a
	// uniform background. Applies to both sampling schemes.
	DefaultMaxDispersion = 35.0

	// MinSamples is the fewest opaque border samples an estimate needs.
	MinSamples = 20

	// Pixels at or below this alpha are not sampled.
	sampleAlphaFloor = 200
)

// Sampling selects where border samples are taken and how their spread is measured.
type Sampling int

const (
	// SampleLines walks the four border lines of the region at a stride of
	// max(4, width/30) and measures spread as the maximum distance from the mean.
	SampleLines Sampling = iota
	// SampleBands scans border bands 5% of the short side wide (at least 5px),
	// stride 5 with sub-stride 2, and measures spread as the mean distance.
	SampleBands
)

func (s Sampling) String() string {
	switch s {
	case SampleLines:
		return "lines"
	case SampleBands:
		return "bands"
	}
	return "unknown"
}

// Kind is the broad class of an estimated background.
type Kind int

const (
	KindMixed Kind = iota
	KindWhite
	KindGray
	KindDark
)

func (k Kind) String() string {
	switch k {
	case KindWhite:
		return "white"
	case KindGray:
		return "gray"
	case KindDark:
		return "dark"
	}
	return "mixed"
}

// Estimate is the background color guessed for one region.
type Estimate struct {
	RGB
	Luminance  float64 // mean luminance of the samples
	Dispersion float64
	Samples    int
	Kind       Kind
	Valid      bool
}

// Estimator samples region borders for a uniform background color.
type Estimator struct {
	Sampling      Sampling
	MaxDispersion float64

	// Fixed, when set, replaces sampling with a known background color.
	Fixed *RGB
}

// NewEstimator returns an estimator using the default dispersion threshold.
func NewEstimator(s Sampling) *Estimator {
	return &Estimator{Sampling: s, MaxDispersion: DefaultMaxDispersion}
}

// Estimate guesses the background of region r. An invalid result means the
// region should be left alone; it is never an error.
func (e *Estimator) Estimate(buf *PixelBuffer, r Region) Estimate {
	r = r.Clamp(buf.Height)
	if r.Empty() || buf.Width == 0 {
		return Estimate{}
	}

	if e.Fixed != nil {
		lum := e.Fixed.Luminance()
		return Estimate{RGB: *e.Fixed, Luminance: lum, Kind: kindOf(lum), Valid: true}
	}

	var rs, gs, bs, lums []float64
	add := func(x, y int) {
		if x < 0 || x >= buf.Width || !r.Contains(y) {
			return
		}
		cr, cg, cb, ca := buf.At(x, y)
		if ca <= sampleAlphaFloor {
			return
		}
		rs = append(rs, float64(cr))
		gs = append(gs, float64(cg))
		bs = append(bs, float64(cb))
		lums = append(lums, Luminance(cr, cg, cb))
	}

	switch e.Sampling {
	case SampleBands:
		sampleBands(buf.Width, r, add)
	default:
		sampleLines(buf.Width, r, add)
	}

	n := len(rs)
	if n < MinSamples {
		return Estimate{Samples: n}
	}

	mr, _ := stats.Mean(rs)
	mg, _ := stats.Mean(gs)
	mb, _ := stats.Mean(bs)
	lum, _ := stats.Mean(lums)

	dists := make([]float64, n)
	for i := range rs {
		dists[i] = distanceTo(uint8(rs[i]), uint8(gs[i]), uint8(bs[i]), mr, mg, mb)
	}
	var spread float64
	if e.Sampling == SampleBands {
		spread, _ = stats.Mean(dists)
	} else {
		spread, _ = stats.Max(dists)
	}

	est := Estimate{
		RGB:        RGB{R: round8(mr), G: round8(mg), B: round8(mb)},
		Luminance:  lum,
		Dispersion: spread,
		Samples:    n,
		Kind:       KindMixed,
	}
	limit := e.MaxDispersion
	if limit <= 0 {
		limit = DefaultMaxDispersion
	}
	if spread <= limit {
		est.Kind = kindOf(lum)
		est.Valid = true
	}
	return est
}

func kindOf(lum float64) Kind {
	switch {
	case lum > 200:
		return KindWhite
	case lum > 100 && lum < 180:
		return KindGray
	}
	return KindDark
}

func sampleLines(width int, r Region, add func(x, y int)) {
	step := width / 30
	if step < 4 {
		step = 4
	}
	top, bottom := r.Top, r.Bottom()
	for x := 0; x < width; x += step {
		add(x, top)
		add(x, bottom)
	}
	for y := top; y <= bottom; y += step {
		add(0, y)
		add(width-1, y)
	}
}

func sampleBands(width int, r Region, add func(x, y int)) {
	short := width
	if r.Height < short {
		short = r.Height
	}
	band := int(float64(short) * 0.05)
	if band < 5 {
		band = 5
	}
	end := r.Top + r.Height

	// Left and right bands
	for y := r.Top; y < end; y += 5 {
		for x := 0; x < band; x += 2 {
			add(x, y)
		}
		for x := width - band; x < width; x += 2 {
			add(x, y)
		}
	}

	// Top and bottom bands, between the side bands
	for x := band; x < width-band; x += 5 {
		for y := r.Top; y < r.Top+band; y += 2 {
			add(x, y)
		}
		for y := end - band; y < end; y += 2 {
			add(x, y)
		}
	}
}

func round8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
