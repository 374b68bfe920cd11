package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linkden/linkden/internal/store"
)

// addOptions holds CLI flags for add.
type addOptions struct {
	title       string
	description string
	category    string
	tags        []string
	readingTime int
}

func newAddCmd() *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Submit a link as a pending draft",
		Long: `Submit a link as a pending draft.

New links stay out of search until confirmed with 'linkden confirm'.

Examples:
  linkden add https://go.dev/blog/pipelines --title "Go Concurrency Patterns"
  linkden add https://react.dev --title "React" --tag frontend --tag javascript`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.title, "title", "t", "", "Link title")
	cmd.Flags().StringVarP(&opts.description, "description", "d", "", "Link description")
	cmd.Flags().StringVarP(&opts.category, "category", "c", "", "Category")
	cmd.Flags().StringSliceVar(&opts.tags, "tag", nil, "Tag (repeatable)")
	cmd.Flags().IntVar(&opts.readingTime, "reading-time", 0, "Estimated reading time in minutes")

	return cmd
}

func runAdd(cmd *cobra.Command, url string, opts addOptions) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	link, err := e.store.AddLink(cmd.Context(), &store.Link{
		URL:         url,
		Title:       opts.title,
		Description: opts.description,
		Category:    opts.category,
		Tags:        opts.tags,
		ReadingTime: opts.readingTime,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added link %d (pending). Confirm with: linkden confirm %d\n",
		link.ID, link.ID)
	return nil
}
