// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sparql-search CLI: keyword
// search, subject listings and entity views over public SPARQL endpoints,
// either as one-shot commands or in the interactive browse loop.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sparql-search/internal/config"
	"github.com/pdiddy/sparql-search/internal/logging"
	"github.com/pdiddy/sparql-search/internal/secrets"
	"github.com/pdiddy/sparql-search/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// appCfg is the resolved configuration, loaded before every command.
	appCfg types.AppConfig

	// loadedSecrets holds endpoint credentials loaded from .secrets/.
	loadedSecrets secrets.Secrets

	closeLog = func() error { return nil }
)

// rootCmd is the base command for the sparql-search CLI.
var rootCmd = &cobra.Command{
	Use:   "sparql-search",
	Short: "Search and browse public SPARQL endpoints",
	Long: `sparql-search runs keyword searches, subject listings and entity lookups
against public SPARQL endpoints such as DBpedia and Wikidata, one page at a
time. Every page is a live query; nothing is cached.

Use the one-shot commands (list, search, show, triples) from scripts, or
browse for an interactive session with paging, drill-in and back.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./sparql-search.yaml or ~/.config/sparql-search/sparql-search.yaml)")
	pf.StringP("endpoint", "e", "", "endpoint id to query (default dbpedia)")
	pf.Int("page-size", 0, "results per page (default 10)")
	pf.Int("timeout-ms", 0, "per-query timeout in milliseconds (default 30000)")
	pf.String("lang", "", "preferred description language (default en)")
	pf.String("data-dir", "", "directory for the local database")
	pf.String("log-file", "", "also write debug logs as JSON to this file")
	pf.BoolP("verbose", "v", false, "log queries and timings")
}

func setup(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	v, err := config.New(config.Options{File: cfgFile, Flags: cmd.Flags()})
	if err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	appCfg = cfg

	verbose, _ := cmd.Flags().GetBool("verbose")
	closer, err := logging.Init(verbose, cfg.LogFile)
	if err != nil {
		return err
	}
	closeLog = closer
	if used := v.ConfigFileUsed(); used != "" {
		slog.Debug("using config file", "path", used)
	}

	s, err := secrets.Load(secrets.DefaultDir)
	if err != nil {
		return err
	}
	loadedSecrets = s
	if len(s) > 0 {
		slog.Debug("loaded secrets", "keys", s.Keys())
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
