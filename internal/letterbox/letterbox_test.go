package letterbox

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

// solidNRGBA builds a width x height image filled with c.
func solidNRGBA(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// withBorder paints the outer depth rows/columns of img black on the sides
// named by top, bottom, left, right.
func withBorder(img *image.NRGBA, depth int, top, bottom, left, right bool) *image.NRGBA {
	b := img.Bounds()
	black := color.NRGBA{A: 255}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			edge := (top && y < depth) || (bottom && y >= b.Dy()-depth) ||
				(left && x < depth) || (right && x >= b.Dx()-depth)
			if edge {
				img.SetNRGBA(x, y, black)
			}
		}
	}
	return img
}

func TestScanNoBorder(t *testing.T) {
	img := solidNRGBA(40, 30, color.NRGBA{R: 200, G: 200, B: 200, A: 255})

	bounds, err := Scan(img, 10)
	require.NoError(t, err)
	require.Equal(t, Bounds{Top: 0, Bottom: 30, Left: 0, Right: 40}, bounds)
	require.True(t, bounds.Full(40, 30))
}

func TestScanFullyDark(t *testing.T) {
	img := solidNRGBA(20, 20, color.NRGBA{R: 5, G: 5, B: 5, A: 255})

	_, err := Scan(img, 10)
	require.ErrorIs(t, err, ErrNoContent)
}

func TestScanEmptyImage(t *testing.T) {
	_, err := Scan(image.NewNRGBA(image.Rect(0, 0, 0, 0)), 10)
	require.ErrorIs(t, err, ErrNoContent)
}

func TestScanUniformBorder(t *testing.T) {
	img := withBorder(solidNRGBA(50, 40, color.NRGBA{R: 180, G: 180, B: 180, A: 255}), 7, true, true, true, true)

	bounds, err := Scan(img, 10)
	require.NoError(t, err)
	require.Equal(t, Bounds{Top: 7, Bottom: 33, Left: 7, Right: 43}, bounds)
}

func TestScanAsymmetricBorder(t *testing.T) {
	img := withBorder(solidNRGBA(60, 40, color.NRGBA{R: 128, G: 128, B: 128, A: 255}), 5, true, false, false, false)

	bounds, err := Scan(img, 10)
	require.NoError(t, err)
	require.Equal(t, Bounds{Top: 5, Bottom: 40, Left: 0, Right: 60}, bounds)
}

func TestScanTopAndBottomBands(t *testing.T) {
	// 100x100, threshold 10, top and bottom 10 rows pure black.
	img := withBorder(solidNRGBA(100, 100, color.NRGBA{R: 200, G: 200, B: 200, A: 255}), 10, true, true, false, false)

	bounds, err := Scan(img, 10)
	require.NoError(t, err)
	require.Equal(t, Bounds{Top: 10, Bottom: 90, Left: 0, Right: 100}, bounds)
	require.Equal(t, 100, bounds.Width())
	require.Equal(t, 80, bounds.Height())
}

func TestScanThresholdBoundary(t *testing.T) {
	// A channel value equal to the threshold still counts as dark.
	img := solidNRGBA(10, 10, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	for x := 0; x < 10; x++ {
		img.SetNRGBA(x, 0, color.NRGBA{R: 10, G: 10, B: 10, A: 255})
		img.SetNRGBA(x, 1, color.NRGBA{R: 11, G: 11, B: 11, A: 255})
	}

	bounds, err := Scan(img, 10)
	require.NoError(t, err)
	require.Equal(t, 1, bounds.Top)
}

func TestScanIgnoresAlpha(t *testing.T) {
	// Opaque black bars must be detected even though A=255 exceeds any
	// sensible threshold.
	img := withBorder(solidNRGBA(30, 30, color.NRGBA{R: 255, G: 255, B: 255, A: 255}), 4, true, true, true, true)

	bounds, err := Scan(img, 10)
	require.NoError(t, err)
	require.Equal(t, Bounds{Top: 4, Bottom: 26, Left: 4, Right: 26}, bounds)
}

func TestScanSingleBrightPixelHoldsRowAndColumn(t *testing.T) {
	img := solidNRGBA(25, 25, color.NRGBA{A: 255})
	img.SetNRGBA(12, 8, color.NRGBA{R: 250, G: 250, B: 250, A: 255})

	bounds, err := Scan(img, 10)
	require.NoError(t, err)
	require.Equal(t, Bounds{Top: 8, Bottom: 9, Left: 12, Right: 13}, bounds)
}

func TestScanGray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if y >= 3 && y < 17 {
				img.SetGray(x, y, color.Gray{Y: 150})
			}
		}
	}

	bounds, err := Scan(img, 10)
	require.NoError(t, err)
	require.Equal(t, Bounds{Top: 3, Bottom: 17, Left: 0, Right: 20}, bounds)
}

func TestScanGenericFallback(t *testing.T) {
	// Gray16 takes the At().RGBA() path.
	img := image.NewGray16(image.Rect(0, 0, 16, 16))
	for y := 4; y < 12; y++ {
		for x := 0; x < 16; x++ {
			img.SetGray16(x, y, color.Gray16{Y: 0x8000})
		}
	}

	bounds, err := Scan(img, 10)
	require.NoError(t, err)
	require.Equal(t, Bounds{Top: 4, Bottom: 12, Left: 0, Right: 16}, bounds)
}

func TestScanDeterministic(t *testing.T) {
	img := withBorder(solidNRGBA(33, 27, color.NRGBA{R: 90, G: 120, B: 60, A: 255}), 3, true, false, true, true)

	first, err := Scan(img, 15)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Scan(img, 15)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestScanNonZeroOriginBounds(t *testing.T) {
	base := withBorder(solidNRGBA(40, 40, color.NRGBA{R: 200, G: 200, B: 200, A: 255}), 6, true, true, true, true)
	sub, ok := base.SubImage(image.Rect(2, 2, 38, 38)).(*image.NRGBA)
	require.True(t, ok)

	bounds, err := Scan(sub, 10)
	require.NoError(t, err)
	require.Equal(t, Bounds{Top: 4, Bottom: 32, Left: 4, Right: 32}, bounds)
}

func TestScanIdempotentAfterCrop(t *testing.T) {
	img := withBorder(solidNRGBA(64, 48, color.NRGBA{R: 220, G: 210, B: 190, A: 255}), 9, true, true, true, true)

	bounds, err := Scan(img, 10)
	require.NoError(t, err)
	cropped, err := Crop(img, bounds)
	require.NoError(t, err)

	again, err := Scan(cropped, 10)
	require.NoError(t, err)
	require.True(t, again.Full(cropped.Bounds().Dx(), cropped.Bounds().Dy()))
}
