package processor

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/gen2brain/jpegxl"
	_ "golang.org/x/image/webp" // register WebP with image.Decode

	"github.com/rakki194/remove-letterbox/pkg/imgutil"
)

const (
	jpegQuality = 90
	webpQuality = 90
)

// decode reads the whole image from f according to kind. JXL goes through
// its own decoder; everything else is handled by the registered stdlib and
// x/image decoders, with chai2010/webp as a fallback for WebP variants the
// golang.org decoder rejects.
func decode(f *os.File, kind imgutil.Kind) (image.Image, error) {
	switch kind {
	case imgutil.KindJXL:
		return jpegxl.Decode(f)
	case imgutil.KindWebP:
		img, _, err := image.Decode(f)
		if err == nil {
			return img, nil
		}
		if _, serr := f.Seek(0, io.SeekStart); serr != nil {
			return nil, err
		}
		return webp.Decode(f)
	default:
		img, _, err := image.Decode(f)
		return img, err
	}
}

// encode writes img to w in the named format. JXL is decode-only here; JXL
// inputs are always written back as PNG.
func encode(w io.Writer, img image.Image, kind imgutil.Kind) error {
	switch kind {
	case imgutil.KindJPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
	case imgutil.KindPNG:
		return imaging.Encode(w, img, imaging.PNG)
	case imgutil.KindWebP:
		return webp.Encode(w, img, &webp.Options{Quality: webpQuality})
	default:
		return fmt.Errorf("cannot encode %s", kind)
	}
}

// writeImage encodes img into a temporary file next to destPath and renames
// it over the destination, so a failed encode never clobbers an existing
// file.
func writeImage(destPath string, img image.Image, kind imgutil.Kind, mode os.FileMode) error {
	destDir := filepath.Dir(destPath)

	tmpFile, err := os.CreateTemp(destDir, "unletterbox-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile.Name())

	if err := tmpFile.Chmod(mode); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := encode(tmpFile, img, kind); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return replaceFile(tmpFile.Name(), destPath)
}

func replaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err == nil {
		return nil
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}
