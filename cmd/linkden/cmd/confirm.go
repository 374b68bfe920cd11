package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/linkden/linkden/internal/store"
)

func newConfirmCmd() *cobra.Command {
	var (
		title       string
		description string
		category    string
		tags        []string
		readingTime int
	)

	cmd := &cobra.Command{
		Use:   "confirm <id>",
		Short: "Publish a pending link, optionally editing it first",
		Long: `Publish a pending link, optionally editing it first.

Only flags you pass change the stored values; everything else keeps
what was submitted. Publishing makes the link visible to search.

Examples:
  linkden confirm 7
  linkden confirm 7 --category programming --tag golang --tag concurrency`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("id %q must be an integer", args[0])
			}

			// Only flags explicitly set become updates
			var upd store.LinkUpdate
			if cmd.Flags().Changed("title") {
				upd.Title = &title
			}
			if cmd.Flags().Changed("description") {
				upd.Description = &description
			}
			if cmd.Flags().Changed("category") {
				upd.Category = &category
			}
			if cmd.Flags().Changed("tag") {
				upd.Tags = tags
			}
			if cmd.Flags().Changed("reading-time") {
				upd.ReadingTime = &readingTime
			}

			return runConfirm(cmd, id, upd)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Replace the title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Replace the description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Replace the category")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Replace the tag set (repeatable)")
	cmd.Flags().IntVar(&readingTime, "reading-time", 0, "Replace the reading time in minutes")

	return cmd
}

func runConfirm(cmd *cobra.Command, id int64, upd store.LinkUpdate) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	link, err := e.store.ConfirmLink(cmd.Context(), id, upd)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Published link %d: %s\n", link.ID, link.Title)
	return nil
}
