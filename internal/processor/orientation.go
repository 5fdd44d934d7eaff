package processor

import (
	"image"
	"io"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	exif "github.com/dsoprea/go-exif/v3"
)

// readOrientation extracts the EXIF Orientation tag (values 1-8) from rs.
// Missing or unreadable EXIF yields 1, the identity orientation.
func readOrientation(rs io.ReadSeeker) int {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return 1
	}

	tags, _, err := exif.GetFlatExifDataUniversalSearchWithReadSeeker(rs, nil, true)
	if err != nil {
		return 1
	}

	for _, tag := range tags {
		if tag.TagName != "Orientation" {
			continue
		}
		switch v := tag.Value.(type) {
		case []uint16:
			if len(v) > 0 && v[0] >= 1 && v[0] <= 8 {
				return int(v[0])
			}
		case []uint32:
			if len(v) > 0 && v[0] >= 1 && v[0] <= 8 {
				return int(v[0])
			}
		default:
			if n, err := strconv.Atoi(strings.TrimSpace(tag.FormattedFirst)); err == nil && n >= 1 && n <= 8 {
				return n
			}
		}
	}

	return 1
}

// normalizeOrientation bakes an EXIF orientation into the pixel data so the
// border scan sees the image as displayed. Re-encoded output carries no EXIF,
// so the baked form is also the correct one to write back.
func normalizeOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
