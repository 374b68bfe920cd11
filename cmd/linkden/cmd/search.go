package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linkden/linkden/internal/search"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	page        int
	limit       int
	category    string
	domain      string
	tags        string
	after       string
	before      string
	sort        string
	format      string
	noHighlight bool
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search published links",
		Long: `Search published links with ranked full-text retrieval.

Facet flags narrow the match set; sparse results trigger did-you-mean
suggestions mined from the corpus.

Examples:
  linkden search "react hooks"
  linkden search golang --category programming --sort newest
  linkden search testing --tags "go,tdd" --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "Result page (1-based)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Results per page")
	cmd.Flags().StringVarP(&opts.category, "category", "c", "", "Filter by category")
	cmd.Flags().StringVar(&opts.domain, "domain", "", "Filter by domain")
	cmd.Flags().StringVar(&opts.tags, "tags", "", "Filter by tags (comma-separated)")
	cmd.Flags().StringVar(&opts.after, "after", "", "Published on or after (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.before, "before", "", "Published on or before (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.sort, "sort", "relevance", "Sort order: relevance, newest, oldest")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	cmd.Flags().BoolVar(&opts.noHighlight, "no-highlight", false, "Skip excerpt generation")

	return cmd
}

func runSearch(cmd *cobra.Command, query string, opts searchOptions) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	q := search.NewSearchQuery(query)
	q.Page = opts.page
	q.Limit = opts.limit
	q.Category = opts.category
	q.Domain = opts.domain
	q.Tags = opts.tags
	q.After = opts.after
	q.Before = opts.before
	q.Sort = search.SortMode(opts.sort)
	q.Highlight = !opts.noHighlight

	resp, err := e.engine.Search(cmd.Context(), q)
	if err != nil {
		return err
	}

	if e.engine.Sparse(resp) {
		if suggestions, err := e.engine.Fallback(cmd.Context(), q); err == nil {
			resp.Suggestions = suggestions
		}
	}

	out := cmd.OutOrStdout()
	if opts.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	if resp.Total == 0 {
		fmt.Fprintf(out, "No results for %q.\n", query)
	} else {
		fmt.Fprintf(out, "%d result(s) for %q (page %d):\n\n", resp.Total, query, resp.Page)
	}

	for i := range resp.Results {
		r := &resp.Results[i]
		fmt.Fprintf(out, "%2d. %s\n", (resp.Page-1)*resp.Limit+i+1, r.Title)
		fmt.Fprintf(out, "    %s\n", r.URL)
		if excerpt := resultExcerpt(r); excerpt != "" {
			fmt.Fprintf(out, "    %s\n", excerpt)
		}
	}

	if len(resp.Suggestions) > 0 {
		fmt.Fprintf(out, "\nDid you mean: %s?\n", strings.Join(resp.Suggestions, ", "))
	}
	if resp.HasNext {
		fmt.Fprintf(out, "\nMore results: --page %d\n", resp.Page+1)
	}
	return nil
}

// resultExcerpt picks the best one-line excerpt, stripping highlight markup
// for terminal output.
func resultExcerpt(r *search.SearchResult) string {
	text := r.Description
	if r.Highlights != nil && r.Highlights.Description != "" {
		text = r.Highlights.Description
	}
	text = strings.ReplaceAll(text, "<mark>", "")
	return strings.ReplaceAll(text, "</mark>", "")
}
