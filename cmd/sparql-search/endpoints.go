// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sparql-search/internal/endpoint"
	"github.com/pdiddy/sparql-search/internal/render"
	"github.com/pdiddy/sparql-search/pkg/types"
)

var endpointsCmd = &cobra.Command{
	Use:   "endpoints",
	Short: "List, add, and remove SPARQL endpoints",
	Long: `Endpoints manages the catalog of endpoints. Built-in endpoints ship with
the binary; entries in the config file and endpoints added here override
built-ins with the same id. Added endpoints are kept in the local database.`,
}

var endpointsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known endpoints",
	Args:  cobra.NoArgs,
	RunE:  runEndpointsList,
}

var endpointsAddCmd = &cobra.Command{
	Use:   "add ID URL",
	Short: "Add or replace a custom endpoint",
	Args:  cobra.ExactArgs(2),
	RunE:  runEndpointsAdd,
}

var endpointsRemoveCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Remove a custom endpoint",
	Args:  cobra.ExactArgs(1),
	RunE:  runEndpointsRemove,
}

func init() {
	addFormatFlags(endpointsListCmd)
	endpointsAddCmd.Flags().String("name", "", "display name")
	endpointsAddCmd.Flags().String("text-search", string(types.TextSearchNone), "full-text extension: none or virtuoso")

	endpointsCmd.AddCommand(endpointsListCmd)
	endpointsCmd.AddCommand(endpointsAddCmd)
	endpointsCmd.AddCommand(endpointsRemoveCmd)
	rootCmd.AddCommand(endpointsCmd)
}

func runEndpointsList(cmd *cobra.Command, args []string) error {
	f, err := formatFlag(cmd)
	if err != nil {
		return err
	}
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	w := cmd.OutOrStdout()
	eps := a.catalog.All()
	return emit(w, f, eps, func() { render.Endpoints(w, eps, a.cfg.Endpoint) })
}

func runEndpointsAdd(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	ts, _ := cmd.Flags().GetString("text-search")
	ep := endpoint.Normalize(types.Endpoint{
		ID:         args[0],
		Name:       name,
		URL:        args[1],
		TextSearch: types.TextSearch(ts),
	})
	if err := endpoint.Validate(ep); err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.AddEndpoint(ctx, ep); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", ep.ID, ep.URL)
	return nil
}

func runEndpointsRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	id := endpoint.Normalize(types.Endpoint{ID: args[0]}).ID
	if err := a.store.RemoveEndpoint(ctx, id); err != nil {
		return fmt.Errorf("%w (only endpoints added with 'endpoints add' can be removed)", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", id)
	return nil
}
