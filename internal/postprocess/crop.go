package postprocess

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// CenterCrop returns the largest rectangle inside bounds with the aspect
// ratio tw:th, centered.
func CenterCrop(bounds image.Rectangle, tw, th int) image.Rectangle {
	w, h := bounds.Dx(), bounds.Dy()
	target := float64(tw) / float64(th)
	current := float64(w) / float64(h)

	var cw, ch, left, top int
	if current > target {
		ch = h
		cw = int(math.Round(float64(h) * target))
		left = int(math.Round(float64(w-cw) / 2))
	} else {
		cw = w
		ch = int(math.Round(float64(w) / target))
		top = int(math.Round(float64(h-ch) / 2))
	}

	origin := bounds.Min.Add(image.Pt(left, top))
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(cw, ch))}
}

// Fill crops img to the aspect ratio of w×h around its center and resizes
// it to exactly w×h.
func Fill(img *image.NRGBA, w, h int) *image.NRGBA {
	rect := CenterCrop(img.Bounds(), w, h)
	cropped := img
	if rect != img.Bounds() {
		cropped = imaging.Crop(img, rect)
	}
	return Resize(cropped, w, h)
}
