// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sparql-search/internal/navigate"
	"github.com/pdiddy/sparql-search/internal/render"
	"github.com/pdiddy/sparql-search/internal/search"
	"github.com/pdiddy/sparql-search/pkg/types"
)

var showCmd = &cobra.Command{
	Use:   "show URI",
	Short: "Show the name, description and outgoing triples of one entity",
	Long: `Show looks up foaf:name, dbo:abstract in the configured language (--lang)
and foaf:isPrimaryTopicOf for the entity, followed by the first page of its
outgoing triples. When the endpoint has no such data the name is derived
from the URI.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

var triplesCmd = &cobra.Command{
	Use:   "triples URI",
	Short: "List the outgoing (predicate, object) pairs of one entity",
	Args:  cobra.ExactArgs(1),
	RunE:  runTriples,
}

func init() {
	showCmd.Flags().String("save", "", "also save the page to a YAML page file")
	addFormatFlags(showCmd)
	triplesCmd.Flags().Int("page", 1, "1-based page number")
	addFormatFlags(triplesCmd)

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(triplesCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	nav, err := a.navigator()
	if err != nil {
		return err
	}
	page, err := nav.Restore(ctx, navigate.State{Mode: navigate.ModeEntityDetail, URI: args[0]})
	if err != nil {
		return queryFailed(nav, err)
	}
	return emitPage(cmd, page, nav.Limit())
}

// triplesPage is the machine-readable form of one page of triples.
type triplesPage struct {
	Endpoint string                  `json:"endpoint" yaml:"endpoint"`
	URI      string                  `json:"uri" yaml:"uri"`
	Offset   int                     `json:"offset" yaml:"offset"`
	Limit    int                     `json:"limit" yaml:"limit"`
	HasMore  bool                    `json:"has_more" yaml:"has_more"`
	Triples  []types.PredicateObject `json:"triples" yaml:"triples"`
}

func runTriples(cmd *cobra.Command, args []string) error {
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

	ep, err := a.active()
	if err != nil {
		return err
	}
	offset, err := pageOffset(cmd, a.cfg.PageSize)
	if err != nil {
		return err
	}
	triples, err := a.client(ep).GetOutgoingTriples(ctx, args[0], a.cfg.PageSize, offset)
	if err != nil {
		return &cliError{msg: explain(ep, err), err: err}
	}

	out := triplesPage{
		Endpoint: ep.ID,
		URI:      args[0],
		Offset:   offset,
		Limit:    a.cfg.PageSize,
		HasMore:  search.HasMore(triples, a.cfg.PageSize),
		Triples:  triples,
	}
	w := cmd.OutOrStdout()
	return emit(w, f, out, func() {
		fmt.Fprintf(w, "%s  <%s> (from %d)\n\n", ep.DisplayName(), out.URI, offset+1)
		render.Triples(w, triples)
		if out.HasMore {
			fmt.Fprintf(w, "\nmore: --page %d\n", offset/a.cfg.PageSize+2)
		}
	})
}
