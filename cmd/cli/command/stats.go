package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show platform statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := opts.client().Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get stats: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Projects: %d\n", stats.TotalProjects)
			fmt.Fprintf(out, "Authors:  %d\n", stats.TotalUsers)

			fmt.Fprintln(out, "\nMost liked:")
			for i, p := range stats.MostLikedProjects {
				fmt.Fprintf(out, "  %d. %s (%d likes)\n", i+1, p.Title, p.LikesCount)
			}
			fmt.Fprintln(out, "\nHighest rated:")
			for i, p := range stats.HighestRatedProjects {
				fmt.Fprintf(out, "  %d. %s (%.1f from %d)\n", i+1, p.Title, p.Rating.Average, p.Rating.Count)
			}
			return nil
		},
	}
}
