// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sparql-search/internal/render"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent keyword searches",
	Long: `History lists keyword searches made with search and browse, newest
first. Only the keyword, endpoint and page are kept; results are always
fetched again when a search is repeated.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of searches to show")
	historyCmd.Flags().Bool("clear", false, "delete the search history")
	addFormatFlags(historyCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	f, err := formatFlag(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	w := cmd.OutOrStdout()
	if wipe, _ := cmd.Flags().GetBool("clear"); wipe {
		n, err := a.store.ClearHistory(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "removed %d searches\n", n)
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	recs, err := a.store.RecentSearches(ctx, limit)
	if err != nil {
		return err
	}
	return emit(w, f, recs, func() { render.History(w, recs) })
}
