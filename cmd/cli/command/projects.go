package command

import (
	"fmt"
	"io"
	"strings"

	"codeconnect/cmd/cli/command/client"
	"codeconnect/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

func newProjectsCmd(opts *rootOptions) *cobra.Command {
	projectsCmd := &cobra.Command{
		Use:   "projects",
		Short: "Browse published projects",
	}

	var filter client.ProjectFilter
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, pagination, err := opts.client().ListProjects(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("failed to list projects: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(projects) == 0 {
				fmt.Fprintln(out, "No projects found.")
				return nil
			}
			for _, p := range projects {
				fmt.Fprintf(out, "%-36s  %-30s  likes:%-4d  rating:%.1f (%d)  %s\n",
					p.ID, truncate(p.Title, 30), p.LikesCount, p.Rating.Average, p.Rating.Count, strings.Join(p.Tags, ","))
			}
			if pagination != nil {
				fmt.Fprintf(out, "\nPage %d of %d (%d projects)\n", pagination.CurrentPage, pagination.TotalPages, pagination.TotalItems)
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&filter.Search, "search", "", "substring of title or description")
	listCmd.Flags().StringVar(&filter.Tags, "tags", "", "comma separated tags, any of")
	listCmd.Flags().StringVar(&filter.SortBy, "sort", "recent", "recent, popular or rated")
	listCmd.Flags().IntVar(&filter.Page, "page", 1, "page number")
	listCmd.Flags().IntVar(&filter.Limit, "limit", dto.DefaultLimit, "projects per page")

	getCmd := &cobra.Command{
		Use:   "get [project-id]",
		Short: "Show one project with its rating distribution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.client()
			project, err := c.GetProject(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get project: %w", err)
			}
			summary, err := c.RatingDistribution(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get ratings: %w", err)
			}
			printProject(cmd.OutOrStdout(), project, summary)
			return nil
		},
	}

	projectsCmd.AddCommand(listCmd, getCmd)
	return projectsCmd
}

func printProject(out io.Writer, p *dto.ProjectResponse, summary *dto.RatingDistributionResponse) {
	fmt.Fprintf(out, "%s\n", p.Title)
	fmt.Fprintf(out, "ID:        %s\n", p.ID)
	fmt.Fprintf(out, "Author:    %s\n", p.AuthorName)
	if len(p.Tags) > 0 {
		fmt.Fprintf(out, "Tags:      %s\n", strings.Join(p.Tags, ", "))
	}
	if p.GithubRepo != "" {
		fmt.Fprintf(out, "GitHub:    %s\n", p.GithubRepo)
	}
	if p.LiveDemo != "" {
		fmt.Fprintf(out, "Demo:      %s\n", p.LiveDemo)
	}
	fmt.Fprintf(out, "Likes:     %d\n", p.LikesCount)
	fmt.Fprintf(out, "Views:     %d\n", p.ViewsCount)
	fmt.Fprintf(out, "Comments:  %d\n", p.CommentsCount)
	fmt.Fprintf(out, "Rating:    %.1f from %d ratings\n", summary.Average, summary.Count)
	for stars := 5; stars >= 1; stars-- {
		fmt.Fprintf(out, "  %d★ %d\n", stars, summary.Distribution[stars])
	}
	fmt.Fprintf(out, "\n%s\n", p.Description)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
