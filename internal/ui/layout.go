package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/uniflow/internal/dateutil"
	"github.com/javiermolinar/uniflow/internal/layout"
	"github.com/javiermolinar/uniflow/internal/schedule"
)

// minBarWidth keeps the layout bars readable on narrow terminals.
const minBarWidth = 20

func (a *App) layoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout <day>",
		Short: "Show how overlapping classes share a day column",
		Long: `Print the horizontal placement of each class of a day: its width and left
offset in percent of the column, and a bar drawn at terminal width.`,
		Example: `  uniflow layout mon`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := schedule.ParseDay(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			events := a.planner.Store().ByDay(day)
			if len(events) == 0 {
				fmt.Fprintf(w, "No classes on %s.\n", day)
				return nil
			}
			sort.SliceStable(events, func(i, j int) bool {
				return events[i].StartHour < events[j].StartHour
			})

			placements := layout.Day(events)
			barWidth := max(termWidth()-48, minBarWidth)

			fmt.Fprintln(w, formatHeader(fmt.Sprintf("=== %s ===", day)))
			for _, e := range events {
				p := placements[e.ID]
				fmt.Fprintf(w, "  %-9s %s-%s  width %5.1f%%  left %5.1f%%  %s\n",
					courseCode(e.CourseID),
					dateutil.ClockHour(e.StartHour),
					dateutil.ClockHour(e.EndHour()),
					p.Width, p.Left,
					layoutBar(e.CourseID, p, barWidth),
				)
			}
			return nil
		},
	}
}

// layoutBar draws p inside a column of width cells.
func layoutBar(courseID string, p layout.Placement, width int) string {
	start, end := layout.Span(p, width)
	return strings.Repeat("·", start) +
		formatCourse(courseID, strings.Repeat("█", end-start)) +
		strings.Repeat("·", width-end)
}

