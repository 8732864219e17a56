// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sparql-search/internal/navigate"
)

var searchCmd = &cobra.Command{
	Use:   "search KEYWORD...",
	Short: "Search the endpoint for subjects matching a keyword",
	Long: `Search finds subjects with a literal matching the keyword. Endpoints with
a Virtuoso text index (DBpedia) rank matches by text score and IRI rank;
other endpoints use a case-insensitive substring match ordered by subject.

Multiple arguments are joined with spaces into one keyword.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	addPageFlags(searchCmd)
	searchCmd.Flags().Bool("details", false, "look up name and description for every result")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	keyword := strings.TrimSpace(strings.Join(args, " "))
	if keyword == "" {
		return errors.New("provide a keyword to search for")
	}

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
	page, err := nav.Restore(ctx, navigate.State{Mode: navigate.ModeKeywordSearch, Keyword: keyword, Offset: offset})
	if err != nil {
		return queryFailed(nav, err)
	}
	a.recordSearch(ctx, page)

	if details, _ := cmd.Flags().GetBool("details"); details && len(page.Rows) > 0 {
		cards, err := a.client(page.Endpoint).ResolveCards(ctx, page.Rows, a.cfg.Lang)
		if err != nil {
			return queryFailed(nav, err)
		}
		for i, c := range cards {
			if c.Name != "" {
				page.Rows[i].Label = c.Name
			}
			if c.Description != "" {
				page.Rows[i].Description = c.Description
			}
		}
	}
	return emitPage(cmd, page, nav.Limit())
}

// queryFailed wraps a query error with a message naming the endpoint.
func queryFailed(nav *navigate.Navigator, err error) error {
	return &cliError{msg: explain(nav.Endpoint(), err), err: err}
}

type cliError struct {
	msg string
	err error
}

func (e *cliError) Error() string { return e.msg }
func (e *cliError) Unwrap() error { return e.err }
