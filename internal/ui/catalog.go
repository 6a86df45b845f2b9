package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/uniflow/internal/catalog"
	"github.com/javiermolinar/uniflow/internal/summary"
)

func (a *App) catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [query]",
		Short: "Show the course catalog",
		Long: `Show the courses that can be placed on the week.

An optional query filters by course name or code, ignoring case.`,
		Example: `  uniflow catalog
  uniflow catalog phys`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{annotationNoStorage: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			w := cmd.OutOrStdout()

			courses := catalog.Search(query)
			if len(courses) == 0 {
				fmt.Fprintf(w, "No courses match %q.\n", query)
				return nil
			}

			for _, c := range courses {
				fmt.Fprintf(w, "%s  %s %-18s %d cr  %-5s %s\n",
					c.ID,
					formatCourse(c.ID, fmt.Sprintf("%-9s", c.Code)),
					c.Name,
					c.Credits,
					summary.FormatHours(c.Duration),
					formatMuted(c.Professor),
				)
				if c.Description != "" {
					fmt.Fprintf(w, "    %s\n", formatMuted(c.Description))
				}
			}
			return nil
		},
	}
}
