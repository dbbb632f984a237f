package batch

import (
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"cover-matte/internal/config"
	"cover-matte/internal/imageio"
	"cover-matte/internal/matte"
	"cover-matte/internal/preset"

	"go.uber.org/zap"
)

func writeSquare(t *testing.T, path string, w, h int, bg, fg color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := bg
			if x >= w/4 && x < w*3/4 && y >= h/4 && y < h*3/4 {
				c = fg
			}
			img.SetNRGBA(x, y, c)
		}
	}
	if _, err := imageio.Save(path, img, imageio.PNG, 0); err != nil {
		t.Fatal(err)
	}
}

var (
	white = color.NRGBA{255, 255, 255, 255}
	red   = color.NRGBA{220, 20, 20, 255}
)

func TestRemovePipelineRejectsBadInput(t *testing.T) {
	if _, err := RemovePipeline(config.MatteConfig{Mode: "sepia"}); err == nil {
		t.Error("expected error for unknown mode")
	}
	if _, err := RemovePipeline(config.MatteConfig{Mode: "auto", BgColor: "nope"}); err == nil {
		t.Error("expected error for bad bg color")
	}
	p, err := RemovePipeline(config.MatteConfig{Mode: "white", BgColor: "fff", MaxDispersion: 35})
	if err != nil {
		t.Fatal(err)
	}
	if p.Estimator.Fixed == nil || *p.Estimator.Fixed != (matte.RGB{R: 255, G: 255, B: 255}) {
		t.Errorf("fixed = %v", p.Estimator.Fixed)
	}
}

func TestOutputPaths(t *testing.T) {
	if got := RemoveOutputPath("in/photo.jpg", "", imageio.PNG); got != filepath.Join("in", "photo_transparent.png") {
		t.Errorf("remove path = %q", got)
	}
	if got := RemoveOutputPath("in/photo.jpg", "out", imageio.WebP); got != filepath.Join("out", "photo_transparent.webp") {
		t.Errorf("remove path = %q", got)
	}
	if got := RemoveTarget("in/photo.jpg", "", "out", imageio.PNG); got != filepath.Join("out", "photo_transparent.png") {
		t.Errorf("single-file target with output dir = %q", got)
	}
	if got := RemoveTarget("in/photo.jpg", "custom.webp", "out", imageio.PNG); got != "custom.webp" {
		t.Errorf("explicit target = %q", got)
	}
	if got := CoverOutputPath("in/photo.jpg", "", "hang"); got != filepath.Join("in", "photo_hang.png") {
		t.Errorf("cover path = %q", got)
	}
}

func TestRemoveBackground(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "square.png")
	writeSquare(t, in, 100, 100, white, red)

	p, err := RemovePipeline(config.MatteConfig{Mode: "auto", Tolerance: 30, Feather: 0, MinArea: 100, MaxDispersion: 35})
	if err != nil {
		t.Fatal(err)
	}
	out := RemoveOutputPath(in, "", imageio.PNG)
	res := RemoveBackground(in, out, p, imageio.PNG, 0, zap.NewNop())
	if !res.Success || res.Regions != 1 || res.Bytes == 0 {
		t.Fatalf("result = %+v", res)
	}
	if !strings.Contains(res.Background, "white") {
		t.Errorf("background = %q", res.Background)
	}

	img, _, err := imageio.Load(out)
	if err != nil {
		t.Fatal(err)
	}
	if a := img.NRGBAAt(2, 2).A; a != 0 {
		t.Errorf("corner alpha = %d, want 0", a)
	}
	if a := img.NRGBAAt(50, 50).A; a != 255 {
		t.Errorf("center alpha = %d, want 255", a)
	}
}

func TestRemoveBackgroundMissingInput(t *testing.T) {
	p, _ := RemovePipeline(config.MatteConfig{Mode: "auto", Tolerance: 30, MaxDispersion: 35})
	res := RemoveBackground(filepath.Join(t.TempDir(), "nope.png"), "x.png", p, imageio.PNG, 0, zap.NewNop())
	if res.Success || res.Error == "" {
		t.Errorf("result = %+v", res)
	}
}

func TestCutPresetCover(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "src.png")
	writeSquare(t, in, 120, 160, white, red)

	cover, err := preset.Lookup("cover")
	if err != nil {
		t.Fatal(err)
	}
	res := CutPreset(in, CoverOutputPath(in, dir, cover.Name), cover, nil, zap.NewNop())
	if !res.Success {
		t.Fatalf("result = %+v", res)
	}
	// Flat artwork fits the limit as PNG, so no JPEG fallback.
	if filepath.Ext(res.Output) != ".png" || res.Format != "png" {
		t.Errorf("output = %q format = %q", res.Output, res.Format)
	}
	if res.Width != cover.Width || res.Height != cover.Height || res.OverLimit {
		t.Errorf("result = %+v", res)
	}
}

func TestCutPresetHangMattesEditableRegion(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "src.png")
	writeSquare(t, in, 200, 300, white, red)

	hang, err := preset.Lookup("hang")
	if err != nil {
		t.Fatal(err)
	}
	pipe := CoverPipeline(config.CoverConfig{BgTolerance: 22, BgFeather: 8}, 35)
	res := CutPreset(in, CoverOutputPath(in, dir, hang.Name), hang, pipe, zap.NewNop())
	if !res.Success || res.Regions != 1 {
		t.Fatalf("result = %+v", res)
	}
	if filepath.Ext(res.Output) != ".png" {
		t.Errorf("output = %q", res.Output)
	}

	img, _, err := imageio.Load(res.Output)
	if err != nil {
		t.Fatal(err)
	}
	// The editable band is all white in the source, so it is cleared.
	if a := img.NRGBAAt(hang.Width/2, 100).A; a != 0 {
		t.Errorf("region alpha = %d, want 0", a)
	}
	// Rows outside the editable band are clipped.
	if a := img.NRGBAAt(hang.Width/2, hang.Height/2).A; a != 0 {
		t.Errorf("clipped alpha = %d, want 0", a)
	}
}
