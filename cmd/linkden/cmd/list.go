package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/linkden/linkden/internal/store"
)

// listOptions holds CLI flags for list.
type listOptions struct {
	status string
	limit  int
	offset int
	format string
}

func newListCmd() *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List collected links",
		Long: `List collected links, newest first.

Examples:
  linkden list
  linkden list --status pending
  linkden list --status all --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.status, "status", "s", "published", "Filter by status: pending, published, all")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 50, "Maximum number of links")
	cmd.Flags().IntVar(&opts.offset, "offset", 0, "Number of links to skip")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func runList(cmd *cobra.Command, opts listOptions) error {
	var status store.Status
	switch opts.status {
	case "pending":
		status = store.StatusPending
	case "published":
		status = store.StatusPublished
	case "all":
		status = ""
	default:
		return fmt.Errorf("status %q must be pending, published, or all", opts.status)
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	links, err := e.store.ListLinks(cmd.Context(), status, opts.limit, opts.offset)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(links)
	}

	if len(links) == 0 {
		fmt.Fprintln(out, "No links found.")
		return nil
	}

	for i := range links {
		l := &links[i]
		fmt.Fprintf(out, "%4d  [%s]  %s\n", l.ID, l.Status, l.Title)
		fmt.Fprintf(out, "      %s\n", l.URL)

		details := make([]string, 0, 3)
		if c := l.EffectiveCategory(); c != "" {
			details = append(details, "category: "+c)
		}
		if tags := l.EffectiveTags(); len(tags) > 0 {
			details = append(details, "tags: "+strings.Join(tags, ", "))
		}
		if l.PublishedAt > 0 {
			details = append(details,
				"published: "+time.Unix(l.PublishedAt, 0).UTC().Format("2006-01-02"))
		}
		if len(details) > 0 {
			fmt.Fprintf(out, "      %s\n", strings.Join(details, "  |  "))
		}
	}
	return nil
}
