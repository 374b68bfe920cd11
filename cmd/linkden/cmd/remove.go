package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newRemoveCmd() *cobra.Command {
	var unpublish bool

	cmd := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a link, or unpublish it back to pending",
		Long: `Delete a link and its index entry.

With --unpublish the link is kept but reverted to pending, which
removes it from search without losing the record.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("id %q must be an integer", args[0])
			}
			return runRemove(cmd, id, unpublish)
		},
	}

	cmd.Flags().BoolVar(&unpublish, "unpublish", false, "Revert to pending instead of deleting")

	return cmd
}

func runRemove(cmd *cobra.Command, id int64, unpublish bool) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	if unpublish {
		if err := e.store.UnpublishLink(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Unpublished link %d (now pending)\n", id)
		return nil
	}

	if err := e.store.DeleteLink(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted link %d\n", id)
	return nil
}
