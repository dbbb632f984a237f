package imageio

import (
	"encoding/binary"
	"image"

	"github.com/disintegration/imaging"
)

// EXIF orientation values.
const (
	orientNormal     = 1
	orientFlipH      = 2
	orientRotate180  = 3
	orientFlipV      = 4
	orientTranspose  = 5
	orientRotate270  = 6
	orientTransverse = 7
	orientRotate90   = 8
)

// jpegOrientation returns the EXIF orientation tag of a JPEG file, or 0
// when it is missing or unreadable.
func jpegOrientation(raw []byte) int {
	if len(raw) < 4 || raw[0] != 0xff || raw[1] != 0xd8 {
		return 0
	}

	// Walk markers up to APP1.
	pos := 2
	for {
		if pos+4 > len(raw) || raw[pos] != 0xff {
			return 0
		}
		marker := raw[pos+1]
		size := int(binary.BigEndian.Uint16(raw[pos+2:]))
		if size < 2 || marker == 0xda {
			return 0
		}
		if marker == 0xe1 {
			end := pos + 2 + size
			if end > len(raw) {
				end = len(raw)
			}
			if o := exifOrientation(raw[pos+4 : end]); o != 0 {
				return o
			}
		}
		pos += 2 + size
	}
}

// exifOrientation reads tag 0x0112 from the first IFD of an APP1 payload.
func exifOrientation(app1 []byte) int {
	if len(app1) < 14 || string(app1[:6]) != "Exif\x00\x00" {
		return 0
	}
	tiff := app1[6:]

	var order binary.ByteOrder
	switch string(tiff[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return 0
	}

	ifd := int(order.Uint32(tiff[4:]))
	if ifd < 8 || ifd+2 > len(tiff) {
		return 0
	}
	n := int(order.Uint16(tiff[ifd:]))
	for i := 0; i < n; i++ {
		entry := ifd + 2 + i*12
		if entry+12 > len(tiff) {
			return 0
		}
		if order.Uint16(tiff[entry:]) != 0x0112 {
			continue
		}
		v := int(order.Uint16(tiff[entry+8:]))
		if v < orientNormal || v > orientRotate90 {
			return 0
		}
		return v
	}
	return 0
}

// orient undoes the camera orientation so the image displays upright.
func orient(img *image.NRGBA, o int) *image.NRGBA {
	switch o {
	case orientFlipH:
		return imaging.FlipH(img)
	case orientFlipV:
		return imaging.FlipV(img)
	case orientRotate90:
		return imaging.Rotate90(img)
	case orientRotate180:
		return imaging.Rotate180(img)
	case orientRotate270:
		return imaging.Rotate270(img)
	case orientTranspose:
		return imaging.Transpose(img)
	case orientTransverse:
		return imaging.Transverse(img)
	}
	return img
}
