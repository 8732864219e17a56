// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/sparql-search/internal/navigate"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the subjects of the endpoint, one page at a time",
	Long: `List returns distinct subjects from the active endpoint in subject order,
labelled with rdfs:label in the configured language where one exists.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	addPageFlags(listCmd)
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	offset, err := pageOffset(cmd, a.cfg.PageSize)
	if err != nil {
		return err
	}
	nav, err := a.navigator()
	if err != nil {
		return err
	}
	page, err := nav.Restore(ctx, navigate.State{Mode: navigate.ModeListingAll, Offset: offset})
	if err != nil {
		return queryFailed(nav, err)
	}
	return emitPage(cmd, page, nav.Limit())
}
