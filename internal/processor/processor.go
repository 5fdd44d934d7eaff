// Package processor walks an input path and runs every supported image
// through the letterbox pipeline: decode, scan, crop, re-encode. Files are
// processed by a pool of workers; one file failing never stops the batch.
package processor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/rakki194/remove-letterbox/internal/letterbox"
	"github.com/rakki194/remove-letterbox/pkg/imgutil"
)

// Run processes root (a file or a directory) according to opts. It returns a
// Summary plus a per-file Result for every discovered image; only failures to
// read root itself are returned as an error. Progress deltas are sent on
// updates while the batch runs, if the channel is non-nil.
func Run(ctx context.Context, root string, opts Options, updates chan<- ProgressUpdate) (Summary, []Result, error) {
	summary := Summary{}
	var reports []Result

	info, err := os.Stat(root)
	if err != nil {
		return summary, nil, err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return summary, nil, err
	}

	jobs := make(chan Job)
	results := make(chan Result)

	workers := runtime.NumCPU()
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			worker(ctx, jobs, results, opts, updates)
		}()
	}

	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for res := range results {
			summary.Total++
			if res.Err != nil {
				summary.Errors++
				send(updates, ProgressUpdate{ErrorDelta: 1})
			} else {
				summary.Processed++
				send(updates, ProgressUpdate{ProcessedDelta: 1})
				switch res.Outcome {
				case OutcomeCropped:
					summary.Cropped++
					summary.Trimmed += res.Trimmed
					send(updates, ProgressUpdate{CroppedDelta: 1, TrimmedDelta: res.Trimmed})
				case OutcomeUnchanged:
					summary.Unchanged++
				case OutcomeDark:
					summary.Dark++
					send(updates, ProgressUpdate{DarkDelta: 1})
				}
				if res.Transcoded {
					summary.Transcoded++
				}
			}
			reports = append(reports, res)
		}
	}()

	producerErr := make(chan error, 1)
	go func() {
		defer close(jobs)
		producerErr <- produce(ctx, absRoot, info.IsDir(), opts.Recursive, jobs)
	}()

	wg.Wait()
	close(results)
	<-collectorDone

	if err := <-producerErr; err != nil {
		return summary, reports, err
	}

	if ctx != nil {
		if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
			return summary, reports, err
		}
	}

	return summary, reports, nil
}

// produce discovers image files under absRoot and feeds them to jobs. Only
// paths with a supported extension become jobs. Non-recursive directory runs
// look at the directory's immediate regular files; recursive runs descend the
// whole subtree.
func produce(ctx context.Context, absRoot string, isDir, recursive bool, jobs chan<- Job) error {
	sendJob := func(job Job) error {
		if ctx == nil {
			jobs <- job
			return nil
		}
		select {
		case jobs <- job:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if !isDir {
		kind := imgutil.KindForPath(absRoot)
		if kind == imgutil.KindUnknown {
			return nil
		}
		return sendJob(Job{
			Path:    absRoot,
			RelPath: filepath.Base(absRoot),
			Display: filepath.Base(absRoot),
			Kind:    kind,
		})
	}

	if !recursive {
		entries, err := os.ReadDir(absRoot)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if !entry.Type().IsRegular() {
				continue
			}
			kind := imgutil.KindForPath(entry.Name())
			if kind == imgutil.KindUnknown {
				continue
			}
			if err := sendJob(Job{
				Path:    filepath.Join(absRoot, entry.Name()),
				RelPath: entry.Name(),
				Display: entry.Name(),
				Kind:    kind,
			}); err != nil {
				return err
			}
		}
		return nil
	}

	fsys := os.DirFS(absRoot)
	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		kind := imgutil.KindForPath(path)
		if kind == imgutil.KindUnknown {
			return nil
		}
		return sendJob(Job{
			Path:    filepath.Join(absRoot, path),
			RelPath: path,
			Display: path,
			Kind:    kind,
		})
	})
}

func worker(ctx context.Context, jobs <-chan Job, results chan<- Result, opts Options, updates chan<- ProgressUpdate) {
	for job := range jobs {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return
			}
		}
		send(updates, ProgressUpdate{TotalDelta: 1})
		results <- processFile(job, opts)
	}
}

// processFile decodes one file and hands it to processImage. JPEG inputs get
// their EXIF orientation baked in first so the scan sees the image as
// displayed.
func processFile(job Job, opts Options) Result {
	res := Result{
		Path:       job.Path,
		RelPath:    job.RelPath,
		Display:    job.Display,
		OutputPath: job.Path,
	}

	f, err := os.Open(job.Path)
	if err != nil {
		res.Err = err
		return res
	}

	// The header wins over the extension when it names a format we know;
	// a mislabeled file still decodes with the right codec.
	kind := job.Kind
	if sniffed, err := imgutil.SniffReader(f); err == nil && sniffed != imgutil.KindUnknown {
		kind = sniffed
	}

	orientation := 1
	if kind == imgutil.KindJPEG {
		orientation = readOrientation(f)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		res.Err = err
		return res
	}

	img, err := decode(f, kind)
	_ = f.Close()
	if err != nil {
		res.Err = fmt.Errorf("decode: %w", err)
		return res
	}

	return processImage(normalizeOrientation(img, orientation), kind, opts, res)
}

// processImage runs the scan/crop pipeline over an already-decoded image and,
// in ModeCrop, writes the output. JXL inputs always become a .png sibling,
// and the original .jxl is removed only after the PNG write succeeded.
func processImage(img image.Image, kind imgutil.Kind, opts Options, res Result) Result {
	b := img.Bounds()
	res.Width, res.Height = b.Dx(), b.Dy()

	bounds, err := letterbox.Scan(img, opts.Threshold)
	if err != nil {
		if errors.Is(err, letterbox.ErrNoContent) {
			res.Outcome = OutcomeDark
			return res
		}
		res.Err = err
		return res
	}
	res.Bounds = bounds

	full := bounds.Full(res.Width, res.Height)
	if full {
		res.Outcome = OutcomeUnchanged
	} else {
		res.Outcome = OutcomeCropped
		res.Trimmed = int64(res.Width)*int64(res.Height) -
			int64(bounds.Width())*int64(bounds.Height())
	}

	if opts.Mode == ModeDetect {
		return res
	}
	if full && kind != imgutil.KindJXL {
		return res
	}

	out := img
	if !full {
		cropped, err := letterbox.Crop(img, bounds)
		if err != nil {
			// Scan and Crop disagreeing on a rectangle is a bug in this
			// program, not a bad input. Keep it loud.
			res.Err = fmt.Errorf("crop rectangle rejected: %w", err)
			return res
		}
		out = cropped
	}

	destKind, destPath := kind, res.Path
	if kind == imgutil.KindJXL {
		destKind = imgutil.KindPNG
		destPath = strings.TrimSuffix(res.Path, filepath.Ext(res.Path)) + ".png"
	}

	srcMode := os.FileMode(0o644)
	if info, err := os.Stat(res.Path); err == nil {
		srcMode = info.Mode()
	}

	if err := writeImage(destPath, out, destKind, srcMode); err != nil {
		res.Err = fmt.Errorf("write %s: %w", filepath.Base(destPath), err)
		return res
	}
	res.OutputPath = destPath

	if kind == imgutil.KindJXL {
		res.Transcoded = true
		if err := os.Remove(res.Path); err != nil {
			res.Err = fmt.Errorf("remove original: %w", err)
		}
	}

	return res
}

func send(updates chan<- ProgressUpdate, update ProgressUpdate) {
	if updates != nil {
		updates <- update
	}
}
