package imgutil

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectHeader(t *testing.T) {
	cases := map[string]struct {
		header []byte
		want   Kind
	}{
		"jpeg": {[]byte{0xff, 0xd8, 0xff, 0xe0, 0, 0, 0, 0, 0, 0, 0, 0}, KindJPEG},
		"png":  {[]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}, KindPNG},
		"webp": {[]byte("RIFF\x10\x00\x00\x00WEBP"), KindWebP},
		"jxl codestream": {
			[]byte{0xff, 0x0a, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, KindJXL,
		},
		"jxl container": {
			[]byte{0x00, 0x00, 0x00, 0x0c, 'J', 'X', 'L', ' ', 0x0d, 0x0a, 0x87, 0x0a}, KindJXL,
		},
		"riff non-webp": {[]byte("RIFF\x10\x00\x00\x00WAVE"), KindUnknown},
		"text":          {[]byte("hello world!"), KindUnknown},
	}

	for name, tc := range cases {
		kind, err := DetectHeader(tc.header)
		require.NoError(t, err, name)
		require.Equal(t, tc.want, kind, name)
	}
}

func TestDetectHeaderShort(t *testing.T) {
	_, err := DetectHeader([]byte{0xff, 0xd8})
	require.Error(t, err)
}

func TestSniffFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.png")

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 2, 2))))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	kind, err := SniffFile(path)
	require.NoError(t, err)
	require.Equal(t, KindPNG, kind)
}

func TestKindForPath(t *testing.T) {
	cases := map[string]Kind{
		"a.jpg":        KindJPEG,
		"b.JPEG":       KindJPEG,
		"c.png":        KindPNG,
		"d.PNG":        KindPNG,
		"e.webp":       KindWebP,
		"f.jxl":        KindJXL,
		"g.JXL":        KindJXL,
		"h.gif":        KindUnknown,
		"noext":        KindUnknown,
		"dir/i.jpeg":   KindJPEG,
		"weird.png.gz": KindUnknown,
	}
	for path, want := range cases {
		require.Equal(t, want, KindForPath(path), path)
	}
}
