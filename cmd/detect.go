package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rakki194/remove-letterbox/internal/processor"
	"github.com/rakki194/remove-letterbox/internal/tui"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Report crop rectangles without modifying any file",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := buildOptions(processor.ModeDetect)
		if err != nil {
			return err
		}

		_, reports, err := runBatch(inputPath, opts)
		if err != nil {
			return err
		}

		for _, res := range reports {
			fmt.Fprintf(os.Stdout, "%s\n", detectFileStyle.Render(res.Display))
			switch {
			case res.Err != nil:
				fmt.Fprintf(os.Stdout, "  %s %v\n", detectWarnStyle.Render("error:"), res.Err)
			case res.Outcome == processor.OutcomeDark:
				fmt.Fprintf(os.Stdout, "  %s\n", detectDimStyle.Render("fully dark, nothing to keep"))
			case res.Outcome == processor.OutcomeUnchanged:
				fmt.Fprintf(os.Stdout, "  %s\n", detectDimStyle.Render("no letterbox"))
			default:
				b := res.Bounds
				fmt.Fprintf(os.Stdout, "  %s\n", detectValueStyle.Render(fmt.Sprintf(
					"crop to %dx%d (top=%d bottom=%d left=%d right=%d), trimming %d px",
					b.Width(), b.Height(), b.Top, b.Bottom, b.Left, b.Right, res.Trimmed)))
			}
		}

		return nil
	},
}

var (
	detectFileStyle  = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	detectValueStyle = lipgloss.NewStyle().Foreground(tui.ColorInk)
	detectDimStyle   = lipgloss.NewStyle().Foreground(tui.ColorDim)
	detectWarnStyle  = lipgloss.NewStyle().Foreground(tui.ColorWarn)
)

func init() {
	rootCmd.AddCommand(detectCmd)
}
