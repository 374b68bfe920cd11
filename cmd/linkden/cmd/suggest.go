package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linkden/linkden/internal/search"
)

func newSuggestCmd() *cobra.Command {
	var (
		typ    string
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "suggest <partial>",
		Short: "Show completion suggestions for a partial query",
		Long: `Show completion suggestions for a partial query.

Candidates come from published titles, tags, categories, and domains,
ranked with prefix matches first.

Examples:
  linkden suggest rea
  linkden suggest go --type tag --limit 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(cmd, args[0], typ, limit, format)
		},
	}

	cmd.Flags().StringVarP(&typ, "type", "t", "", "Restrict to one corpus: title, tag, category, domain")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum suggestions")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func runSuggest(cmd *cobra.Command, partial, typ string, limit int, format string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	suggestions, err := e.engine.Suggest(cmd.Context(),
		partial, search.SuggestionType(typ), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(suggestions)
	}

	if len(suggestions) == 0 {
		fmt.Fprintf(out, "No suggestions for %q.\n", partial)
		return nil
	}
	for _, s := range suggestions {
		fmt.Fprintf(out, "%-40s %s (%d)\n", s.Text, s.Type, s.Count)
	}
	return nil
}
