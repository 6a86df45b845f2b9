package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/uniflow/internal/dateutil"
	"github.com/javiermolinar/uniflow/internal/schedule"
)

func (a *App) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <course> <Day-Hour>",
		Short: "Place a course on the week",
		Long: `Place a new class of a course. The course is given by ID or code and the
slot as <Day>-<Hour>, the way the grid names its cells.

The class must end by the closing hour. Overlaps are allowed.`,
		Example: `  uniflow add c1 Tue-9
  uniflow add PHYS-101 wed-13:30`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, hour, err := parseSlot(args[1])
			if err != nil {
				return err
			}

			e, err := a.planner.Add(context.Background(), args[0], day, hour)
			if err != nil {
				a.planner.Notifications().Clear()
				return err
			}

			w := cmd.OutOrStdout()
			a.flushNotifications(w)
			fmt.Fprintf(w, "  %s %s %s-%s\n", formatMuted(e.ID), e.Day,
				dateutil.ClockHour(e.StartHour), dateutil.ClockHour(e.EndHour()))
			return nil
		},
	}
}

func (a *App) moveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <event> <Day-Hour>",
		Short: "Move a class to another slot",
		Long: `Move a placed class, keeping its duration. Find event IDs with "uniflow list".`,
		Example: `  uniflow move e1 Thu-14`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, hour, err := parseSlot(args[1])
			if err != nil {
				return err
			}

			e, err := a.planner.Move(context.Background(), args[0], day, hour)
			if err != nil {
				a.planner.Notifications().Clear()
				return err
			}

			w := cmd.OutOrStdout()
			a.flushNotifications(w)
			fmt.Fprintf(w, "  %s now %s %s-%s\n", courseCode(e.CourseID), e.Day,
				dateutil.ClockHour(e.StartHour), dateutil.ClockHour(e.EndHour()))
			return nil
		},
	}
}

func (a *App) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <event>",
		Aliases: []string{"rm"},
		Short:   "Remove a class",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.planner.Delete(context.Background(), args[0]); err != nil {
				a.planner.Notifications().Clear()
				return err
			}
			a.flushNotifications(cmd.OutOrStdout())
			return nil
		},
	}
}

func (a *App) clearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every class from the week",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			n := a.planner.Store().Len()
			if n == 0 {
				fmt.Fprintln(w, "Schedule is already empty.")
				return nil
			}
			if !yes && !promptYesNo(cmd.InOrStdin(), w, fmt.Sprintf("Remove all %d classes from the week?", n)) {
				fmt.Fprintln(w, "Clear cancelled.")
				return nil
			}

			a.planner.Clear(context.Background())
			a.flushNotifications(w)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func (a *App) studyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "study",
		Short: "Add a study session in the first free preferred slot",
		Long: `Add a one hour study session. Days are tried Monday to Friday and hours in
the configured preferred order. A slot is taken only when no class touches it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := a.planner.AddStudySession(context.Background())
			if err != nil {
				a.planner.Notifications().Clear()
				return err
			}
			a.flushNotifications(cmd.OutOrStdout())
			return nil
		},
	}
}

// parseSlot reads "<Day>-<Hour>". Days may be spelled out and hours may use
// a clock form, so "wednesday-13:30" equals "Wed-13.5".
func parseSlot(s string) (schedule.Day, float64, error) {
	dayStr, hourStr, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok || dayStr == "" || hourStr == "" {
		return "", 0, fmt.Errorf("%w: %q, want <Day>-<Hour> like Wed-13", schedule.ErrInvalidTarget, s)
	}
	day, err := schedule.ParseDay(dayStr)
	if err != nil {
		return "", 0, err
	}
	hour, err := dateutil.ParseHour(hourStr)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q", schedule.ErrInvalidTarget, s)
	}
	return day, hour, nil
}

func promptYesNo(in io.Reader, out io.Writer, question string) bool {
	reader := bufio.NewReader(in)
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}
