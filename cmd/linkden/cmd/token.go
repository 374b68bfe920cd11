package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage API tokens",
		Long: `Manage API tokens.

Tokens are minted and stored here for deployments that put an
authenticating proxy in front of the API; linkden itself serves
unauthenticated on localhost.`,
	}

	cmd.AddCommand(newTokenCreateCmd())
	cmd.AddCommand(newTokenListCmd())
	cmd.AddCommand(newTokenRevokeCmd())

	return cmd
}

func newTokenCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Mint a new named token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			token, err := e.store.CreateToken(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Token %d (%s): %s\n",
				token.ID, token.Name, token.Value)
			return nil
		},
	}
}

func newTokenListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tokens",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			tokens, err := e.store.ListTokens(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(tokens) == 0 {
				fmt.Fprintln(out, "No tokens.")
				return nil
			}
			for _, t := range tokens {
				fmt.Fprintf(out, "%4d  %-20s %s  created %s\n",
					t.ID, t.Name, t.Value,
					time.Unix(t.CreatedAt, 0).UTC().Format("2006-01-02"))
			}
			return nil
		},
	}
}

func newTokenRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <id>",
		Short: "Revoke a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("id %q must be an integer", args[0])
			}

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.store.RevokeToken(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Revoked token %d\n", id)
			return nil
		},
	}
}
