package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/rakki194/remove-letterbox/internal/processor"
	"github.com/rakki194/remove-letterbox/internal/tui"
)

var (
	inputPath string
	recursive bool
	threshold int
)

var rootCmd = &cobra.Command{
	Use:   "remove-letterbox",
	Short: "remove-letterbox - crop uniform dark borders from images",
	Long: `remove-letterbox detects uniform dark borders (letterboxing) in JPG, PNG,
WebP, and JXL images and rewrites each file with the borders cropped away.
JXL inputs are transcoded to a PNG sibling; the original .jxl is removed
only after the PNG has been written successfully.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := buildOptions(processor.ModeCrop)
		if err != nil {
			return err
		}

		summary, reports, err := runBatch(inputPath, opts)
		if err != nil {
			return err
		}

		logReports(reports)
		if summary.Total == 0 {
			logger().Warn("no supported images found", "input", inputPath)
		}

		rows := []tui.SummaryRow{
			{Label: "Files processed", Value: fmt.Sprintf("%d", summary.Processed)},
			{Label: "Cropped", Value: fmt.Sprintf("%d", summary.Cropped)},
			{Label: "No letterbox", Value: fmt.Sprintf("%d", summary.Unchanged)},
			{Label: "Fully dark (skipped)", Value: fmt.Sprintf("%d", summary.Dark)},
			{Label: "JXL transcoded", Value: fmt.Sprintf("%d", summary.Transcoded)},
			{Label: "Failures", Value: fmt.Sprintf("%d", summary.Errors)},
			{Label: "Pixels trimmed", Value: fmt.Sprintf("%d", summary.Trimmed)},
		}
		fmt.Fprintln(os.Stdout, tui.RenderSummary(rows))

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "input file or directory")
	rootCmd.PersistentFlags().BoolVarP(&recursive, "recursive", "r", false, "descend into subdirectories")
	rootCmd.PersistentFlags().IntVarP(&threshold, "threshold", "t", 10, "darkness threshold (0-255); channel values at or below it count as border")
	_ = rootCmd.MarkPersistentFlagRequired("input")
}

// buildOptions validates the shared flags into processor options.
func buildOptions(mode processor.Mode) (processor.Options, error) {
	if threshold < 0 || threshold > 255 {
		return processor.Options{}, fmt.Errorf("threshold must be between 0 and 255, got %d", threshold)
	}
	return processor.Options{
		Mode:      mode,
		Recursive: recursive,
		Threshold: uint8(threshold),
	}, nil
}

// runBatch drives processor.Run with the live progress display attached.
func runBatch(path string, opts processor.Options) (processor.Summary, []processor.Result, error) {
	updates := make(chan processor.ProgressUpdate, 64)
	model := tui.NewModel(updates)
	program := tea.NewProgram(model)

	uiDone := make(chan struct{})
	go func() {
		_, _ = program.Run()
		close(uiDone)
	}()

	summary, reports, err := processor.Run(context.Background(), path, opts, updates)

	close(updates)
	<-uiDone

	return summary, reports, err
}

// logReports surfaces every per-file skip or failure after the progress
// display has shut down.
func logReports(reports []processor.Result) {
	l := logger()
	for _, res := range reports {
		switch {
		case res.Err != nil:
			l.Error("failed", "file", res.Display, "err", res.Err)
		case res.Outcome == processor.OutcomeDark:
			l.Info("fully dark, skipped", "file", res.Display)
		case res.Transcoded:
			l.Info("transcoded", "file", res.Display, "output", res.OutputPath)
		}
	}
}

func logger() *log.Logger {
	return log.New(os.Stderr)
}
