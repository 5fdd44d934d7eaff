// Package letterbox detects and removes uniform dark borders from images.
package letterbox

import (
	"errors"
	"image"
)

// ErrNoContent is returned by Scan when every row and column of the image
// falls under the darkness threshold. Callers should leave such images alone.
var ErrNoContent = errors.New("letterbox: image is entirely dark")

// Bounds describes the content region of an image once letterbox bars are
// stripped. Top and Left are inclusive, Bottom and Right exclusive, all
// relative to the image's top-left corner.
type Bounds struct {
	Top    int
	Bottom int
	Left   int
	Right  int
}

// Width returns the pixel width of the region.
func (b Bounds) Width() int { return b.Right - b.Left }

// Height returns the pixel height of the region.
func (b Bounds) Height() int { return b.Bottom - b.Top }

// Full reports whether the region covers an entire width x height image,
// i.e. no border was detected on any side.
func (b Bounds) Full(width, height int) bool {
	return b.Top == 0 && b.Left == 0 && b.Bottom == height && b.Right == width
}

// Scan locates the content region of img. A row or column is classified as
// letterbox when every one of its pixels has all color channels at or below
// threshold; the scan walks inward from each of the four edges independently
// and stops at the first row or column that fails the test. Alpha never
// participates in the darkness test: a fully opaque black bar is still a bar.
//
// Scan is a pure function over the pixel data and never modifies img.
func Scan(img image.Image, threshold uint8) (Bounds, error) {
	r := img.Bounds()
	width, height := r.Dx(), r.Dy()
	if width == 0 || height == 0 {
		return Bounds{}, ErrNoContent
	}

	dark := darkness(img, threshold)

	rowDark := func(y int) bool {
		for x := 0; x < width; x++ {
			if !dark(x, y) {
				return false
			}
		}
		return true
	}
	colDark := func(x int) bool {
		for y := 0; y < height; y++ {
			if !dark(x, y) {
				return false
			}
		}
		return true
	}

	top := 0
	for top < height && rowDark(top) {
		top++
	}
	if top == height {
		return Bounds{}, ErrNoContent
	}

	bottom := height
	for bottom > top && rowDark(bottom-1) {
		bottom--
	}

	// At least one row holds a bright pixel, so both column scans terminate
	// strictly inside the image.
	left := 0
	for left < width && colDark(left) {
		left++
	}
	right := width
	for right > left && colDark(right-1) {
		right--
	}

	return Bounds{Top: top, Bottom: bottom, Left: left, Right: right}, nil
}

// darkness builds a per-pixel predicate for the image's concrete type.
// Coordinates are zero-based relative to the image's bounds. The common
// decode results get direct Pix access; everything else goes through the
// color interface with the threshold widened to 16-bit channel space.
func darkness(img image.Image, threshold uint8) func(x, y int) bool {
	switch src := img.(type) {
	case *image.NRGBA:
		return func(x, y int) bool {
			i := src.PixOffset(src.Rect.Min.X+x, src.Rect.Min.Y+y)
			return src.Pix[i] <= threshold && src.Pix[i+1] <= threshold && src.Pix[i+2] <= threshold
		}
	case *image.RGBA:
		return func(x, y int) bool {
			i := src.PixOffset(src.Rect.Min.X+x, src.Rect.Min.Y+y)
			return src.Pix[i] <= threshold && src.Pix[i+1] <= threshold && src.Pix[i+2] <= threshold
		}
	case *image.Gray:
		return func(x, y int) bool {
			return src.Pix[src.PixOffset(src.Rect.Min.X+x, src.Rect.Min.Y+y)] <= threshold
		}
	default:
		t := uint32(threshold) * 0x101
		min := img.Bounds().Min
		return func(x, y int) bool {
			cr, cg, cb, _ := img.At(min.X+x, min.Y+y).RGBA()
			return cr <= t && cg <= t && cb <= t
		}
	}
}
