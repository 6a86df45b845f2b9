package ui

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/uniflow/internal/export"
	"github.com/javiermolinar/uniflow/internal/summary"
)

// writeClipboard is swapped in tests.
var writeClipboard = clipboard.WriteAll

func (a *App) weekCmd() *cobra.Command {
	var copyText bool

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Summarize the week",
		Long: `Show classes and hours per day, placements per course and total credits
against the credit goal.`,
		Example: `  uniflow week
  uniflow week --copy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := summary.SummarizeWeek(a.planner.Store().Events(), a.planner.CreditGoal())
			text := s.Text()
			w := cmd.OutOrStdout()

			printSummary(w, s)

			if copyText {
				if err := writeClipboard(text); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintln(w, formatMuted("Copied to clipboard."))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&copyText, "copy", false, "Copy the summary to the clipboard")

	return cmd
}

// printSummary prints the plain text summary with headers and the credit
// line highlighted.
func printSummary(w io.Writer, s *summary.WeekSummary) {
	for _, line := range strings.Split(strings.TrimRight(s.Text(), "\n"), "\n") {
		switch {
		case line == "Week overview" || line == "Courses":
			fmt.Fprintln(w, formatHeader(line))
		case strings.HasPrefix(line, "Credits "):
			fmt.Fprintln(w, formatStats(line))
		case s.Insight != "" && strings.Contains(s.Insight, line) && line != "":
			fmt.Fprintln(w, formatInsight(line))
		default:
			fmt.Fprintln(w, line)
		}
	}
}

func (a *App) exportCmd() *cobra.Command {
	var (
		formatFlag string
		out        string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the week as an image or spreadsheet",
		Long: `Write the week grid to a PNG image or an XLSX workbook.

The format defaults to the extension of --out, then to png.`,
		Example: `  uniflow export --out week.png
  uniflow export --format xlsx --out ~/Desktop/week.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if formatFlag == "" {
				formatFlag = string(export.FormatPNG)
				if ext := filepath.Ext(out); ext != "" {
					formatFlag = ext
				}
			}
			format, err := export.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			if out == "" {
				out = "week." + string(format)
			}

			var buf bytes.Buffer
			err = export.Write(&buf, format, a.planner.Store().Events(), export.Options{
				OpenHour:  a.planner.OpenHour(),
				CloseHour: a.planner.CloseHour(),
				Now:       a.now(),
			})
			if err != nil {
				return fmt.Errorf("exporting week: %w", err)
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d classes to %s\n", a.planner.Store().Len(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "", "Output format: png or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default week.<format>)")

	return cmd
}
