package ui

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/uniflow/internal/catalog"
	"github.com/javiermolinar/uniflow/internal/dateutil"
	"github.com/javiermolinar/uniflow/internal/schedule"
)

func (a *App) listCmd() *cobra.Command {
	var dayFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the classes of the week",
		Long: `List every placed class grouped by day.

With --day only that day is shown.`,
		Example: `  uniflow list
  uniflow list --day=wed`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			days := schedule.Days
			if dayFlag != "" {
				day, err := schedule.ParseDay(dayFlag)
				if err != nil {
					return err
				}
				days = []schedule.Day{day}
			}
			w := cmd.OutOrStdout()

			store := a.planner.Store()
			if store.Len() == 0 {
				fmt.Fprintln(w, "No classes scheduled.")
				return nil
			}

			printed := false
			for _, day := range days {
				events := store.ByDay(day)
				if len(events) == 0 {
					continue
				}
				sort.SliceStable(events, func(i, j int) bool {
					return events[i].StartHour < events[j].StartHour
				})

				if printed {
					fmt.Fprintln(w)
				}
				fmt.Fprintln(w, formatHeader(fmt.Sprintf("=== %s ===", day)))
				printed = true

				for _, e := range events {
					fmt.Fprintf(w, "  %s %s-%s %s %s\n",
						formatMuted(fmt.Sprintf("%-12s", e.ID)),
						dateutil.ClockHour(e.StartHour),
						dateutil.ClockHour(e.EndHour()),
						formatCourse(e.CourseID, fmt.Sprintf("%-9s", courseCode(e.CourseID))),
						courseName(e.CourseID),
					)
				}
			}
			if !printed {
				fmt.Fprintf(w, "No classes on %s.\n", days[0])
				return nil
			}

			noun := "classes"
			if store.Len() == 1 {
				noun = "class"
			}
			fmt.Fprintf(w, "\n%s\n", formatStats(fmt.Sprintf("%d %s, %d/%d credits",
				store.Len(), noun, a.planner.TotalCredits(), a.planner.CreditGoal())))
			return nil
		},
	}

	cmd.Flags().StringVar(&dayFlag, "day", "", "Only show this day (Mon..Fri)")

	return cmd
}

func courseCode(id string) string {
	if c, ok := catalog.Lookup(id); ok {
		return c.Code
	}
	return id
}

func courseName(id string) string {
	if c, ok := catalog.Lookup(id); ok {
		return c.Name
	}
	return ""
}
