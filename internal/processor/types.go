package processor

import (
	"github.com/rakki194/remove-letterbox/internal/letterbox"
	"github.com/rakki194/remove-letterbox/pkg/imgutil"
)

type Mode int

const (
	// ModeDetect reports crop rectangles without touching any file.
	ModeDetect Mode = iota
	// ModeCrop rewrites files with their letterbox removed.
	ModeCrop
)

type Options struct {
	Mode      Mode
	Recursive bool
	Threshold uint8
}

type Job struct {
	Path    string
	RelPath string
	Display string
	Kind    imgutil.Kind
}

// Outcome classifies what happened to one supported file.
type Outcome int

const (
	OutcomeNone Outcome = iota
	// OutcomeUnchanged means no letterbox was found; the file keeps its bytes
	// (except JXL inputs, which are still transcoded).
	OutcomeUnchanged
	OutcomeCropped
	// OutcomeDark means every pixel fell under the threshold; the file is
	// skipped untouched.
	OutcomeDark
)

type Result struct {
	Path       string
	RelPath    string
	Display    string
	Err        error
	Outcome    Outcome
	Bounds     letterbox.Bounds
	Width      int
	Height     int
	Trimmed    int64 // pixels removed by the crop
	OutputPath string
	Transcoded bool // JXL input rewritten as PNG
}

type Summary struct {
	Total      int
	Processed  int
	Cropped    int
	Unchanged  int
	Dark       int
	Transcoded int
	Errors     int
	Trimmed    int64
}

type ProgressUpdate struct {
	TotalDelta     int
	ProcessedDelta int
	CroppedDelta   int
	DarkDelta      int
	ErrorDelta     int
	TrimmedDelta   int64
}
