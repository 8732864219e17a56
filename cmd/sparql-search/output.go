// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sparql-search/internal/navigate"
	"github.com/pdiddy/sparql-search/internal/render"
	"github.com/pdiddy/sparql-search/pkg/types"
)

type outputFormat int

const (
	formatText outputFormat = iota
	formatJSON
	formatYAML
)

func addFormatFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "output as JSON")
	cmd.Flags().Bool("yaml", false, "output as YAML")
}

func addPageFlags(cmd *cobra.Command) {
	cmd.Flags().Int("page", 1, "1-based page number")
	cmd.Flags().String("save", "", "also save the page to a YAML page file")
	addFormatFlags(cmd)
}

func formatFlag(cmd *cobra.Command) (outputFormat, error) {
	asJSON, _ := cmd.Flags().GetBool("json")
	asYAML, _ := cmd.Flags().GetBool("yaml")
	switch {
	case asJSON && asYAML:
		return formatText, errors.New("--json and --yaml are mutually exclusive")
	case asJSON:
		return formatJSON, nil
	case asYAML:
		return formatYAML, nil
	default:
		return formatText, nil
	}
}

// pageOffset reads --page and converts it to an offset.
func pageOffset(cmd *cobra.Command, limit int) (int, error) {
	page, _ := cmd.Flags().GetInt("page")
	return types.PageOffset(page, limit)
}

// emit writes v in the requested machine format, or calls text.
func emit(w io.Writer, f outputFormat, v any, text func()) error {
	switch f {
	case formatJSON:
		return render.JSON(w, v)
	case formatYAML:
		return render.YAML(w, v)
	default:
		text()
		return nil
	}
}

// emitPage writes a navigation page and saves it when --save is set.
func emitPage(cmd *cobra.Command, p navigate.Page, limit int) error {
	f, err := formatFlag(cmd)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if err := emit(w, f, render.NewPageFile(p, limit), func() { render.Page(w, p) }); err != nil {
		return err
	}
	if path, _ := cmd.Flags().GetString("save"); path != "" {
		if err := render.WritePageFile(path, p, limit); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "saved %s\n", path)
	}
	return nil
}
