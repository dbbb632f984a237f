package matte

// Pipeline runs Estimate → Classify → Denoise → Feather → Composite over one
// buffer. A zero MinArea or FeatherPasses disables that stage.
type Pipeline struct {
	Estimator     *Estimator
	Classifier    Classifier
	MinArea       int
	FeatherPasses int
}

// RegionReport records the estimate made for one requested region.
type RegionReport struct {
	Region   Region // after clamping
	Estimate Estimate
	Skipped  bool
}

// Report summarizes one pipeline run.
type Report struct {
	Regions []RegionReport
}

// Processed counts regions whose background was removed.
func (r Report) Processed() int {
	n := 0
	for _, rr := range r.Regions {
		if !rr.Skipped {
			n++
		}
	}
	return n
}

// Run mattes buf in place, region by region. Regions without a usable
// background estimate are left exactly as decoded, as are rows outside
// every region. Denoise and Feather see the whole-image mask so their
// sizes are in absolute pixels.
func (p *Pipeline) Run(buf *PixelBuffer, regions []Region) Report {
	var rep Report
	mask := buf.Alpha()
	var done []Region

	for _, req := range regions {
		r := req.Clamp(buf.Height)
		if r.Empty() {
			continue
		}

		est := p.Estimator.Estimate(buf, r)
		if !est.Valid {
			rep.Regions = append(rep.Regions, RegionReport{Region: r, Estimate: est, Skipped: true})
			continue
		}

		p.Classifier.Classify(buf, mask, r, est)
		done = append(done, r)
		rep.Regions = append(rep.Regions, RegionReport{Region: r, Estimate: est})
	}

	if len(done) == 0 {
		return rep
	}

	if p.MinArea > 0 {
		mask = Denoise(mask, buf.Width, buf.Height, p.MinArea)
	}
	if p.FeatherPasses > 0 {
		Feather(mask, buf.Width, buf.Height, p.FeatherPasses)
	}

	Composite(buf, mask, done...)
	return rep
}
