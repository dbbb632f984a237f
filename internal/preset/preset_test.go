package preset

import (
	"image"
	"testing"
)

func TestPresetRegionsFitCanvas(t *testing.T) {
	for _, p := range All() {
		for _, r := range p.Regions() {
			if r.Top < 0 || r.Height <= 0 || r.Top+r.Height > p.Height {
				t.Errorf("%s: region %+v outside %dx%d", p.Name, r, p.Width, p.Height)
			}
			if r.Clamp(p.Height) != r {
				t.Errorf("%s: region %+v changes when clamped", p.Name, r)
			}
		}
	}
}

func TestLookup(t *testing.T) {
	p, err := Lookup("Bubble")
	if err != nil {
		t.Fatal(err)
	}
	if p.Width != 480 || p.Height != 384 || len(p.EditableRegions) != 2 {
		t.Errorf("bubble = %+v", p)
	}
	if p.EditableRegions[1].Top != 312 {
		t.Errorf("bubble bottom region top = %d, want 312", p.EditableRegions[1].Top)
	}
	if _, err := Lookup("poster"); err == nil {
		t.Error("expected error for unknown preset")
	}
	if len(All()) != 4 || All()[0].Name != "cover" {
		t.Error("All() order changed")
	}
}

func TestClipToRegions(t *testing.T) {
	p, _ := Lookup("bubble")
	img := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	p.ClipToRegions(img)

	tests := []struct {
		y    int
		want uint8
	}{
		{0, 255}, {95, 255}, {96, 0}, {200, 0}, {311, 0}, {312, 255}, {383, 255},
	}
	for _, tt := range tests {
		if a := img.NRGBAAt(10, tt.y).A; a != tt.want {
			t.Errorf("row %d alpha = %d, want %d", tt.y, a, tt.want)
		}
	}
	if c := img.NRGBAAt(10, 200); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("clipped pixel keeps color %+v", c)
	}
}

func TestClipWithoutRegionsIsNoop(t *testing.T) {
	p, _ := Lookup("cover")
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 9
	}
	p.ClipToRegions(img)
	for i, v := range img.Pix {
		if v != 9 {
			t.Fatalf("byte %d = %d", i, v)
		}
	}
	if len(p.Regions()) != 1 || p.Regions()[0].Height != p.Height {
		t.Errorf("cover regions = %+v", p.Regions())
	}
}

func TestHints(t *testing.T) {
	for _, name := range []string{"cover", "hang", "bubble", "story"} {
		p, _ := Lookup(name)
		if len(p.Hints()) == 0 {
			t.Errorf("%s has no hints", name)
		}
	}
}
