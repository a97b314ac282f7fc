package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd(s *session) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:         "history",
		Short:       "List recently journaled API calls",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{needsAnnotation: needsJournal},
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := s.journal.Recent(limit)
			if err != nil {
				return fmt.Errorf("read journal: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No journaled calls.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tMETHOD\tPATH\tSTATUS\tDURATION")
			for _, ex := range entries {
				status := fmt.Sprint(ex.StatusCode)
				if !ex.OK {
					status += " (failed)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					ex.OccurredAt.Local().Format(time.RFC3339),
					ex.Method,
					ex.Path,
					status,
					ex.Duration.Round(time.Millisecond),
				)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries to show (0 for all)")
	return cmd
}
