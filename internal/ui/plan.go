package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/uniflow/internal/catalog"
	"github.com/javiermolinar/uniflow/internal/dateutil"
	"github.com/javiermolinar/uniflow/internal/llm"
	"github.com/javiermolinar/uniflow/internal/planner"
	"github.com/javiermolinar/uniflow/internal/summary"
)

func (a *App) planCmd() *cobra.Command {
	var (
		modelFlag string
		apply     bool
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "plan [request]",
		Short: "Ask the advisor where to place courses",
		Long: `Use AI to turn a natural language request into placements on the week.

The advisor sees the catalog, the current week and the teaching hours.
Proposals that name unknown courses, weekend days or end after closing are
sent back with the errors until they are valid or retries run out.

Examples:
  uniflow plan "add physics and calculus, keep fridays free"
  uniflow plan "two study blocks on tuesday" --apply
  uniflow plan "creative writing in the morning" --dry-run

Interactive mode:
  After the advisor proposes placements, you can:
  - [a]ccept: Place the courses on the week
  - [m]odify: Provide feedback to adjust the proposal
  - [c]ancel: Exit without changes`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.Join(args, " ")
			w := cmd.OutOrStdout()

			if modelFlag != "" {
				a.config.LLM.Model = modelFlag
			}
			client, err := a.newClient()
			if err != nil {
				return fmt.Errorf("creating LLM client: %w", err)
			}
			compact := llm.UseCompactPrompt(a.config.LLM.Provider)
			ctx := context.Background()

			fmt.Fprintln(w, "Asking the advisor...")
			advice, err := a.planner.Advise(ctx, client, input, compact, a.config.LLM.MaxRetries)
			if err != nil {
				return fmt.Errorf("planning: %w", err)
			}

			// Interactive loop
			reader := bufio.NewReader(cmd.InOrStdin())
			for {
				printAdvice(w, advice)

				if dryRun {
					fmt.Fprintln(w, "\n(Dry run - nothing placed)")
					return nil
				}
				if apply {
					return a.applyAdvice(ctx, w, advice)
				}

				fmt.Fprint(w, "\n[a]ccept / [m]odify / [c]ancel: ")
				choice, err := reader.ReadString('\n')
				if err != nil && choice == "" {
					return fmt.Errorf("reading input: %w", err)
				}
				choice = strings.TrimSpace(strings.ToLower(choice))

				switch choice {
				case "a", "accept":
					if advice.HasErrors() {
						fmt.Fprintln(w, "Cannot place: there are unresolved validation errors.")
						fmt.Fprintln(w, "Please [m]odify the request or [c]ancel.")
						continue
					}
					return a.applyAdvice(ctx, w, advice)

				case "m", "modify":
					fmt.Fprint(w, "What would you like to change? ")
					modification, _ := reader.ReadString('\n')
					modification = strings.TrimSpace(modification)
					if modification == "" {
						fmt.Fprintln(w, "No modification provided, showing current proposal...")
						continue
					}

					input = input + ". " + modification
					fmt.Fprintln(w, "\nReplanning...")
					advice, err = a.planner.Advise(ctx, client, input, compact, a.config.LLM.MaxRetries)
					if err != nil {
						return fmt.Errorf("replanning: %w", err)
					}

				case "c", "cancel":
					fmt.Fprintln(w, "Planning cancelled.")
					return nil

				default:
					fmt.Fprintln(w, "Invalid choice. Please enter 'a', 'm', or 'c'.")
				}
			}
		},
	}

	cmd.Flags().StringVar(&modelFlag, "model", "", "LLM model (overrides config)")
	cmd.Flags().BoolVar(&apply, "apply", false, "Place the proposal without asking")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the proposal without placing it")
	cmd.MarkFlagsMutuallyExclusive("apply", "dry-run")

	return cmd
}

func (a *App) applyAdvice(ctx context.Context, w io.Writer, advice *planner.Advice) error {
	added, err := a.planner.ApplyAdvice(ctx, advice)
	if err != nil {
		a.planner.Notifications().Clear()
		if errors.Is(err, planner.ErrUnresolvedAdvice) {
			return err
		}
		return fmt.Errorf("placed %d of %d: %w", len(added), len(advice.Placements), err)
	}
	a.flushNotifications(w)
	fmt.Fprintln(w, formatStats(fmt.Sprintf("%d placements applied", len(added))))
	return nil
}

func printAdvice(w io.Writer, advice *planner.Advice) {
	fmt.Fprintln(w)
	if len(advice.Placements) == 0 {
		fmt.Fprintln(w, "The advisor proposed no placements.")
	} else {
		fmt.Fprintln(w, formatHeader("Proposed placements"))
		for _, p := range advice.Placements {
			code, name := p.CourseID, ""
			if c, ok := catalog.Resolve(p.CourseID); ok {
				code, name = c.Code, c.Name
			}
			fmt.Fprintf(w, "  %-3s %s  %-9s %s\n", p.Day, dateutil.ClockHour(p.StartHour), code, formatMuted(name))
		}
	}

	if advice.HasErrors() {
		fmt.Fprintln(w, "\n"+formatError("Validation errors (retry limit reached):"))
		for _, e := range advice.Errors {
			fmt.Fprintf(w, "  - %s\n", e.String())
		}
	}
	if len(advice.Warnings) > 0 {
		fmt.Fprintln(w, "\n"+formatHeader("Warnings"))
		for _, s := range advice.Warnings {
			fmt.Fprintf(w, "  - %s\n", formatInsight(s))
		}
	}
	if len(advice.Suggestions) > 0 {
		fmt.Fprintln(w, "\n"+formatHeader("Suggestions"))
		for _, s := range advice.Suggestions {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
}

func (a *App) reviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "Ask the advisor to critique the week",
		Long: `Summarize the week and add a short critique from the LLM: clashes, how
hours are spread and progress towards the credit goal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.newClient()
			if err != nil {
				return fmt.Errorf("creating LLM client: %w", err)
			}

			s, err := summary.BuildWeekSummary(context.Background(), a.planner.Store().Events(), summary.BuildWeekSummaryOptions{
				CreditGoal:     a.planner.CreditGoal(),
				CloseHour:      a.planner.CloseHour(),
				IncludeInsight: true,
				Client:         client,
			})
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), s)
			return nil
		},
	}
}
