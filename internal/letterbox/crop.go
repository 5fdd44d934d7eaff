package letterbox

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrInvalidBounds is returned by Crop for a rectangle that violates the
// Bounds invariant. Bounds produced by a successful Scan never trigger it;
// seeing this error means the caller built the rectangle by hand.
var ErrInvalidBounds = errors.New("letterbox: invalid crop bounds")

// Crop returns a new image holding only the region b of img. The input is
// never modified. For the common in-memory formats the output keeps the
// source's concrete pixel type and channel values verbatim; other formats
// (notably YCbCr from JPEG decoding) are rendered into NRGBA.
func Crop(img image.Image, b Bounds) (image.Image, error) {
	r := img.Bounds()
	width, height := r.Dx(), r.Dy()
	if b.Top < 0 || b.Left < 0 || b.Top >= b.Bottom || b.Left >= b.Right ||
		b.Bottom > height || b.Right > width {
		return nil, fmt.Errorf("%w: top=%d bottom=%d left=%d right=%d in %dx%d image",
			ErrInvalidBounds, b.Top, b.Bottom, b.Left, b.Right, width, height)
	}

	rect := image.Rect(r.Min.X+b.Left, r.Min.Y+b.Top, r.Min.X+b.Right, r.Min.Y+b.Bottom)

	switch src := img.(type) {
	case *image.NRGBA:
		dst := image.NewNRGBA(image.Rect(0, 0, b.Width(), b.Height()))
		copyRows(dst.Pix, dst.Stride, src.Pix[src.PixOffset(rect.Min.X, rect.Min.Y):], src.Stride, b.Height(), b.Width()*4)
		return dst, nil
	case *image.RGBA:
		dst := image.NewRGBA(image.Rect(0, 0, b.Width(), b.Height()))
		copyRows(dst.Pix, dst.Stride, src.Pix[src.PixOffset(rect.Min.X, rect.Min.Y):], src.Stride, b.Height(), b.Width()*4)
		return dst, nil
	case *image.NRGBA64:
		dst := image.NewNRGBA64(image.Rect(0, 0, b.Width(), b.Height()))
		copyRows(dst.Pix, dst.Stride, src.Pix[src.PixOffset(rect.Min.X, rect.Min.Y):], src.Stride, b.Height(), b.Width()*8)
		return dst, nil
	case *image.RGBA64:
		dst := image.NewRGBA64(image.Rect(0, 0, b.Width(), b.Height()))
		copyRows(dst.Pix, dst.Stride, src.Pix[src.PixOffset(rect.Min.X, rect.Min.Y):], src.Stride, b.Height(), b.Width()*8)
		return dst, nil
	case *image.Gray:
		dst := image.NewGray(image.Rect(0, 0, b.Width(), b.Height()))
		copyRows(dst.Pix, dst.Stride, src.Pix[src.PixOffset(rect.Min.X, rect.Min.Y):], src.Stride, b.Height(), b.Width())
		return dst, nil
	case *image.Gray16:
		dst := image.NewGray16(image.Rect(0, 0, b.Width(), b.Height()))
		copyRows(dst.Pix, dst.Stride, src.Pix[src.PixOffset(rect.Min.X, rect.Min.Y):], src.Stride, b.Height(), b.Width()*2)
		return dst, nil
	case *image.CMYK:
		dst := image.NewCMYK(image.Rect(0, 0, b.Width(), b.Height()))
		copyRows(dst.Pix, dst.Stride, src.Pix[src.PixOffset(rect.Min.X, rect.Min.Y):], src.Stride, b.Height(), b.Width()*4)
		return dst, nil
	case *image.Paletted:
		dst := image.NewPaletted(image.Rect(0, 0, b.Width(), b.Height()), src.Palette)
		copyRows(dst.Pix, dst.Stride, src.Pix[src.PixOffset(rect.Min.X, rect.Min.Y):], src.Stride, b.Height(), b.Width())
		return dst, nil
	default:
		return imaging.Crop(img, rect), nil
	}
}

func copyRows(dst []byte, dstStride int, src []byte, srcStride, rows, rowBytes int) {
	for y := 0; y < rows; y++ {
		copy(dst[y*dstStride:y*dstStride+rowBytes], src[y*srcStride:y*srcStride+rowBytes])
	}
}
