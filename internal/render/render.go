// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render formats navigation pages for the terminal and for
// machine-readable output.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sparql-search/internal/navigate"
	"github.com/pdiddy/sparql-search/pkg/types"
)

const (
	labelWidth = 48
	descWidth  = 96
	predWidth  = 40
	objWidth   = 72
	ruleWidth  = 100
)

// Page writes a listing, search or entity page as text.
func Page(w io.Writer, p navigate.Page) {
	fmt.Fprintf(w, "%s  %s\n", p.Endpoint.DisplayName(), heading(p.State))
	fmt.Fprintln(w, strings.Repeat("-", ruleWidth))

	if p.Notice != "" {
		fmt.Fprintln(w, p.Notice)
	}
	if p.Detail != nil {
		writeDetail(w, *p.Detail)
	} else {
		Cards(w, p.Rows, p.State.Offset)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, Controls(p))
}

func heading(st navigate.State) string {
	switch st.Mode {
	case navigate.ModeKeywordSearch:
		return fmt.Sprintf("search %q (from %d)", st.Keyword, st.Offset+1)
	case navigate.ModeEntityDetail:
		return st.URI
	default:
		return fmt.Sprintf("all subjects (from %d)", st.Offset+1)
	}
}

// Cards writes one card per row, numbered from offset+1. The card number
// is what the browse command's "o N" opens.
func Cards(w io.Writer, rows []types.ResultRow, offset int) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}
	for i, r := range rows {
		fmt.Fprintf(w, "%4d  %-*s", offset+i+1, labelWidth, truncate(r.Label, labelWidth))
		if r.Score != 0 {
			fmt.Fprintf(w, "  %6.2f", r.Score)
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "      %s\n", r.Subject)
		if r.Description != "" {
			fmt.Fprintf(w, "      %s\n", truncate(oneLine(r.Description), descWidth))
		}
	}
	fmt.Fprintf(w, "\n%d results\n", len(rows))
}

// writeDetail writes an entity view: name, description, link and outgoing
// triples.
func writeDetail(w io.Writer, d types.EntityDetail) {
	fmt.Fprintln(w, d.Name)
	fmt.Fprintf(w, "<%s>\n", d.URI)
	if d.Link != "" {
		fmt.Fprintf(w, "link: %s\n", d.Link)
	}
	if d.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, d.Description)
	}
	if len(d.Triples) > 0 {
		fmt.Fprintln(w)
		Triples(w, d.Triples)
	}
}

// Triples writes predicate/object pairs. Linked objects are marked with
// an arrow so they can be opened.
func Triples(w io.Writer, triples []types.PredicateObject) {
	if len(triples) == 0 {
		fmt.Fprintln(w, "No triples found.")
		return
	}
	fmt.Fprintf(w, "%-*s  %s\n", predWidth, "Predicate", "Object")
	fmt.Fprintln(w, strings.Repeat("-", ruleWidth))
	for _, t := range triples {
		obj := oneLine(t.Object)
		switch {
		case t.IsLink():
			obj = "-> " + obj
		case t.Lang != "":
			obj = fmt.Sprintf("%s @%s", obj, t.Lang)
		}
		fmt.Fprintf(w, "%-*s  %s\n", predWidth, truncate(t.Predicate, predWidth), truncate(obj, objWidth))
	}
}

// Controls describes the actions available on p.
func Controls(p navigate.Page) string {
	var parts []string
	if p.State.Mode == navigate.ModeEntityDetail {
		parts = append(parts, "[b]ack")
	} else {
		if p.CanBack {
			parts = append(parts, "[p]revious")
		}
		if p.CanForward {
			parts = append(parts, "[n]ext")
		}
		if len(p.Rows) > 0 {
			parts = append(parts, "[o N] open")
		}
	}
	parts = append(parts, "[s KEYWORD] search", "[h]ome", "[e ID] endpoint", "[q]uit")
	return strings.Join(parts, "  ")
}

// Endpoints writes the endpoint catalog, marking the active one.
func Endpoints(w io.Writer, eps []types.Endpoint, active string) {
	fmt.Fprintf(w, "  %-12s  %-24s  %-10s  %s\n", "ID", "Name", "Search", "URL")
	fmt.Fprintln(w, strings.Repeat("-", ruleWidth))
	for _, ep := range eps {
		mark := " "
		if ep.ID == active {
			mark = "*"
		}
		name := ep.DisplayName()
		if ep.Custom {
			name += " (custom)"
		}
		fmt.Fprintf(w, "%s %-12s  %-24s  %-10s  %s\n",
			mark, truncate(ep.ID, 12), truncate(name, 24), ep.TextSearch, ep.URL)
	}
}

// History writes recent keyword searches, newest first.
func History(w io.Writer, recs []types.SearchRecord) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No searches recorded.")
		return
	}
	fmt.Fprintf(w, "%-19s  %-12s  %-6s  %-4s  %s\n", "When", "Endpoint", "Offset", "Rows", "Keyword")
	fmt.Fprintln(w, strings.Repeat("-", ruleWidth))
	for _, r := range recs {
		fmt.Fprintf(w, "%-19s  %-12s  %-6d  %-4d  %s\n",
			r.SearchedAt.Local().Format("2006-01-02 15:04:05"), truncate(r.EndpointID, 12),
			r.Offset, r.Rows, r.Keyword)
	}
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML writes v as a YAML document.
func YAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// truncate shortens s to max runes, ending in "..." when cut.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
