package matte

import "testing"

func TestEstimateUniformBackground(t *testing.T) {
	for _, s := range []Sampling{SampleLines, SampleBands} {
		t.Run(s.String(), func(t *testing.T) {
			buf := solid(120, 80, RGB{240, 240, 240})
			fill(buf, 30, 20, 90, 60, red)

			est := NewEstimator(s).Estimate(buf, FullImage(80))
			if !est.Valid {
				t.Fatalf("estimate invalid: %+v", est)
			}
			if est.RGB != (RGB{240, 240, 240}) {
				t.Errorf("background = %v, want 240,240,240", est.RGB)
			}
			if est.Kind != KindWhite {
				t.Errorf("kind = %v, want white", est.Kind)
			}
			if est.Samples < MinSamples {
				t.Errorf("samples = %d", est.Samples)
			}
		})
	}
}

func TestEstimateRejectsTwoClusters(t *testing.T) {
	for _, s := range []Sampling{SampleLines, SampleBands} {
		t.Run(s.String(), func(t *testing.T) {
			buf := solid(100, 100, white)
			fill(buf, 50, 0, 100, 100, black)

			est := NewEstimator(s).Estimate(buf, FullImage(100))
			if est.Valid {
				t.Fatalf("half white, half black accepted: %+v", est)
			}
			if est.Dispersion <= DefaultMaxDispersion {
				t.Errorf("dispersion = %v, want > %v", est.Dispersion, DefaultMaxDispersion)
			}
		})
	}
}

func TestEstimateNeedsOpaqueSamples(t *testing.T) {
	buf := solid(100, 100, white)
	for i := 3; i < len(buf.Pix); i += 4 {
		buf.Pix[i] = 200 // not above the sampling floor
	}
	est := NewEstimator(SampleLines).Estimate(buf, FullImage(100))
	if est.Valid || est.Samples != 0 {
		t.Errorf("estimate = %+v, want invalid with no samples", est)
	}
}

func TestEstimateUsesOnlyRegionRows(t *testing.T) {
	buf := solid(90, 100, RGB{128, 128, 128})
	fill(buf, 0, 40, 90, 100, RGB{10, 200, 30})

	est := NewEstimator(SampleLines).Estimate(buf, Region{Top: 0, Height: 40})
	if !est.Valid {
		t.Fatalf("estimate invalid: %+v", est)
	}
	if est.RGB != (RGB{128, 128, 128}) || est.Kind != KindGray {
		t.Errorf("estimate = %v (%v), want 128,128,128 gray", est.RGB, est.Kind)
	}
}

func TestEstimateDispersionThresholdIsTunable(t *testing.T) {
	buf := solid(100, 100, RGB{200, 200, 200})
	// Alternate border pixels between two close grays
	for x := 0; x < 100; x += 8 {
		fill(buf, x, 0, x+4, 1, RGB{215, 215, 215})
	}

	strict := &Estimator{Sampling: SampleLines, MaxDispersion: 5}
	if est := strict.Estimate(buf, FullImage(100)); est.Valid {
		t.Errorf("strict estimator accepted dispersion %v", est.Dispersion)
	}
	loose := NewEstimator(SampleLines)
	if est := loose.Estimate(buf, FullImage(100)); !est.Valid {
		t.Errorf("default estimator rejected dispersion %v", est.Dispersion)
	}
}

func TestEstimateFixedColor(t *testing.T) {
	buf := solid(10, 10, black)
	fixed := RGB{250, 250, 250}
	e := &Estimator{Fixed: &fixed}

	est := e.Estimate(buf, FullImage(10))
	if !est.Valid || est.RGB != fixed || est.Kind != KindWhite {
		t.Errorf("estimate = %+v, want fixed white", est)
	}
	if est := e.Estimate(buf, Region{Top: 3, Height: 0}); est.Valid {
		t.Error("empty region must not be valid")
	}
}
