package preset

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"cover-matte/internal/matte"
)

// SafeZone splits the canvas into advisory bands, as fractions of its height.
type SafeZone struct {
	Top    float64
	Middle float64
	Bottom float64
}

// Preset describes one red-envelope cover asset.
type Preset struct {
	Name        string
	Label       string
	Width       int
	Height      int
	Ratio       string
	SizeLimitKB int
	Transparent bool

	// EditableRegions are the only rows allowed to hold visible pixels.
	// Empty means the whole canvas is editable.
	EditableRegions []matte.Region
	SafeZone        SafeZone

	// RemoveBackground turns on matting by default for this preset.
	RemoveBackground bool
}

// SizeLimit is the byte budget of the encoded file.
func (p Preset) SizeLimit() int64 {
	return int64(p.SizeLimitKB) * 1024
}

var presets = map[string]Preset{
	"cover": {
		Name:        "cover",
		Label:       "Cover image",
		Width:       957,
		Height:      1278,
		Ratio:       "3:4",
		SizeLimitKB: 500,
		SafeZone:    SafeZone{Top: 0.25, Middle: 0.50, Bottom: 0.15},
	},
	"hang": {
		Name:             "hang",
		Label:            "Cover pendant",
		Width:            1053,
		Height:           1746,
		Ratio:            "3:5",
		SizeLimitKB:      300,
		Transparent:      true,
		EditableRegions:  []matte.Region{{Top: 0, Height: 324}},
		SafeZone:         SafeZone{Top: 324.0 / 1746, Bottom: 1 - 324.0/1746},
		RemoveBackground: true,
	},
	"bubble": {
		Name:        "bubble",
		Label:       "Bubble pendant",
		Width:       480,
		Height:      384,
		Ratio:       "5:4",
		SizeLimitKB: 300,
		Transparent: true,
		EditableRegions: []matte.Region{
			{Top: 0, Height: 96},
			{Top: 384 - 72, Height: 72},
		},
		RemoveBackground: true,
	},
	"story": {
		Name:        "story",
		Label:       "Cover story",
		Width:       750,
		Height:      1250,
		Ratio:       "3:5",
		SizeLimitKB: 300,
		SafeZone:    SafeZone{Top: 0.10, Middle: 0.80, Bottom: 0.10},
	},
}

// order is the processing order for "all".
var order = []string{"cover", "hang", "bubble", "story"}

// Lookup returns the named preset.
func Lookup(name string) (Preset, error) {
	p, ok := presets[strings.ToLower(name)]
	if !ok {
		names := append([]string(nil), order...)
		sort.Strings(names)
		return Preset{}, fmt.Errorf("preset: unknown type %q (supported: %s)", name, strings.Join(names, ", "))
	}
	return p, nil
}

// All returns every preset in processing order.
func All() []Preset {
	out := make([]Preset, 0, len(order))
	for _, n := range order {
		out = append(out, presets[n])
	}
	return out
}

// Regions returns the editable regions, or the full canvas when unset.
func (p Preset) Regions() []matte.Region {
	if len(p.EditableRegions) == 0 {
		return []matte.Region{matte.FullImage(p.Height)}
	}
	return p.EditableRegions
}

// ClipToRegions makes every pixel outside the editable regions fully
// transparent black. Images without editable regions are returned as is.
func (p Preset) ClipToRegions(img *image.NRGBA) {
	if len(p.EditableRegions) == 0 {
		return
	}
	b := img.Bounds()
	h := b.Dy()
	keep := make([]bool, h)
	for _, r := range p.EditableRegions {
		r = r.Clamp(h)
		for y := r.Top; y < r.Top+r.Height; y++ {
			keep[y] = true
		}
	}
	for y := 0; y < h; y++ {
		if keep[y] {
			continue
		}
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		row := img.Pix[off : off+b.Dx()*4]
		for i := range row {
			row[i] = 0
		}
	}
}

// Hints returns human-readable safe-zone advice for the preset.
func (p Preset) Hints() []string {
	switch {
	case p.Name == "hang" && len(p.EditableRegions) > 0:
		return []string{
			fmt.Sprintf("only the top %dpx may hold elements", p.EditableRegions[0].Height),
			"everything else must stay fully transparent",
		}
	case p.Name == "bubble" && len(p.EditableRegions) == 2:
		top, bottom := p.EditableRegions[0], p.EditableRegions[1]
		middle := p.Height - top.Height - bottom.Height
		return []string{
			fmt.Sprintf("top %dpx may hold elements", top.Height),
			fmt.Sprintf("middle %dpx must stay fully transparent", middle),
			fmt.Sprintf("bottom %dpx may hold elements", bottom.Height),
		}
	case p.SafeZone.Top > 0 && p.SafeZone.Middle > 0 && p.SafeZone.Bottom > 0:
		return []string{
			fmt.Sprintf("top %.0f%%: keep simple so text stays readable", p.SafeZone.Top*100),
			fmt.Sprintf("middle %.0f%%: main visual area", p.SafeZone.Middle*100),
			fmt.Sprintf("bottom %.0f%%: avoid key elements", p.SafeZone.Bottom*100),
		}
	}
	return nil
}
