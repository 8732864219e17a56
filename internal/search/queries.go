// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/knakk/sparql"

	"github.com/pdiddy/sparql-search/pkg/types"
)

// Template keys in queries.sparql.
const (
	queryListSubjects   = "list-subjects"
	querySearchVirtuoso = "search-virtuoso"
	querySearchContains = "search-contains"
	queryEntityDetail   = "entity-detail"
	queryOutgoing       = "outgoing-triples"
)

// virtuosoTextWeight scales the bif:contains score before the IRI rank is
// added to it.
const virtuosoTextWeight = 0.3

//go:embed queries.sparql
var queriesSource string

var bank = sparql.LoadBank(strings.NewReader(queriesSource))

// searchTemplates maps an endpoint's text search capability to the
// keyword query it runs. Capabilities without an entry use the
// substring filter.
var searchTemplates = map[types.TextSearch]string{
	types.TextSearchVirtuoso: querySearchVirtuoso,
}

func searchTemplate(ts types.TextSearch) string {
	if key, ok := searchTemplates[ts]; ok {
		return key
	}
	return querySearchContains
}

// queryParams is the data handed to every template. String fields must be
// escaped for the position they are substituted into before Prepare.
type queryParams struct {
	URI        string
	Keyword    string
	Phrase     string
	Lang       string
	Limit      int
	Offset     int
	TextWeight string
}

func prepare(key string, p queryParams) (string, error) {
	if p.TextWeight == "" {
		p.TextWeight = strconv.FormatFloat(virtuosoTextWeight, 'f', -1, 64)
	}
	if _, ok := bank[key]; !ok {
		return "", fmt.Errorf("unknown query %q", key)
	}
	q, err := bank.Prepare(key, p)
	if err != nil {
		return "", fmt.Errorf("preparing %s query: %w", key, err)
	}
	return q, nil
}
