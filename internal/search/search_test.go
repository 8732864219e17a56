package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sparql-search/pkg/types"
)

// --- SPARQL JSON fixtures ---

type jsonTerm struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Lang     string `json:"xml:lang,omitempty"`
	DataType string `json:"datatype,omitempty"`
}

func uriTerm(v string) jsonTerm { return jsonTerm{Type: "uri", Value: v} }
func litTerm(v string) jsonTerm { return jsonTerm{Type: "literal", Value: v} }
func langTerm(v, lang string) jsonTerm {
	return jsonTerm{Type: "literal", Value: v, Lang: lang}
}
func numTerm(v string) jsonTerm {
	return jsonTerm{Type: "typed-literal", Value: v, DataType: "http://www.w3.org/2001/XMLSchema#double"}
}

func resultsJSON(t *testing.T, vars []string, rows ...map[string]jsonTerm) string {
	t.Helper()
	if rows == nil {
		rows = []map[string]jsonTerm{}
	}
	doc := map[string]any{
		"head":    map[string]any{"vars": vars},
		"results": map[string]any{"bindings": rows},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return string(data)
}

// sparqlServer answers every query with respond and records the query text.
type sparqlServer struct {
	*httptest.Server
	calls   int32
	queries []string
}

func newSPARQLServer(t *testing.T, respond func(query string) (int, string)) *sparqlServer {
	t.Helper()
	s := &sparqlServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.calls, 1)
		q := r.FormValue("query")
		s.queries = append(s.queries, q)
		status, body := respond(q)
		w.Header().Set("Content-Type", resultsMediaType)
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(s.Close)
	return s
}

func testCfg() types.SearchConfig {
	return types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   5 * time.Second,
			UserAgent: "test/0.1",
		},
		PageSize: 10,
		Lang:     "en",
	}
}

func testClient(srv *sparqlServer, ts types.TextSearch) *Client {
	ep := types.Endpoint{ID: "test", Name: "Test", URL: srv.URL, TextSearch: ts}
	return NewClient(ep, testCfg(), WithHTTPClient(srv.Client()))
}

// --- ListAllSubjects ---

func TestListAllSubjects(t *testing.T) {
	srv := newSPARQLServer(t, func(string) (int, string) {
		return http.StatusOK, resultsJSON(t, []string{"s", "label"},
			map[string]jsonTerm{"s": uriTerm("http://example.org/Alpha_One"), "label": langTerm("Alpha", "en")},
			map[string]jsonTerm{"s": uriTerm("http://example.org/Beta-Two#x")},
		)
	})

	rows, err := testClient(srv, types.TextSearchNone).ListAllSubjects(context.Background(), 10, 20)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, types.ResultRow{Subject: "http://example.org/Alpha_One", Label: "Alpha"}, rows[0])
	assert.Equal(t, "Beta Two: x", rows[1].Label, "label falls back to the URI transform")

	require.Len(t, srv.queries, 1)
	assert.Contains(t, srv.queries[0], "LIMIT 10 OFFSET 20")
	assert.Contains(t, srv.queries[0], `LANGMATCHES(LANG(?l), "en")`)
	assert.Contains(t, srv.queries[0], "ORDER BY ?s")
	assert.Contains(t, srv.queries[0], "SELECT DISTINCT ?s WHERE { ?s ?p ?o }")
	assert.Less(t, strings.Index(srv.queries[0], "LIMIT 10 OFFSET 20"), strings.Index(srv.queries[0], "OPTIONAL"),
		"paging applies to the distinct subjects before labels are joined")
}

func TestListAllSubjects_InvalidPage(t *testing.T) {
	srv := newSPARQLServer(t, func(string) (int, string) { return http.StatusOK, "" })
	c := testClient(srv, types.TextSearchNone)

	_, err := c.ListAllSubjects(context.Background(), 0, 0)
	assert.ErrorIs(t, err, types.ErrInvalidPage)

	_, err = c.ListAllSubjects(context.Background(), 10, 5)
	assert.ErrorIs(t, err, types.ErrInvalidPage)

	assert.Equal(t, int32(0), atomic.LoadInt32(&srv.calls))
}

// --- SearchKeyword ---

func TestSearchKeyword_Virtuoso(t *testing.T) {
	srv := newSPARQLServer(t, func(string) (int, string) {
		return http.StatusOK, resultsJSON(t, []string{"c1", "c2", "sc", "rank", "g"},
			map[string]jsonTerm{
				"c1":   uriTerm("http://dbpedia.org/resource/Cat"),
				"c2":   litTerm("The <b>cat</b> is a small carnivorous mammal."),
				"sc":   numTerm("0.9"),
				"rank": numTerm("0.5"),
			},
			map[string]jsonTerm{"c1": uriTerm("http://dbpedia.org/resource/Cat_Stevens")},
		)
	})

	rows, err := testClient(srv, types.TextSearchVirtuoso).SearchKeyword(context.Background(), "cat", 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "http://dbpedia.org/resource/Cat", rows[0].Subject)
	assert.Equal(t, "Cat", rows[0].Label)
	assert.Contains(t, rows[0].Description, "small carnivorous")
	assert.InDelta(t, 1.4, rows[0].Score, 1e-9)
	assert.Equal(t, "Cat Stevens", rows[1].Label)
	assert.Zero(t, rows[1].Score)

	q := srv.queries[0]
	assert.Contains(t, q, `bif:contains '"cat"'`)
	assert.Contains(t, q, "?sc * 0.3")
	assert.Contains(t, q, "LIMIT 10 OFFSET 0")
}

func TestSearchKeyword_GenericEndpointUsesSubstringFilter(t *testing.T) {
	srv := newSPARQLServer(t, func(string) (int, string) {
		return http.StatusOK, resultsJSON(t, []string{"s", "match"},
			map[string]jsonTerm{"s": uriTerm("http://purl.uniprot.org/uniprot/P12345"), "match": litTerm("Catalase")},
		)
	})

	rows, err := testClient(srv, types.TextSearchNone).SearchKeyword(context.Background(), "Cat", 5, 5)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "P12345", rows[0].Label)
	assert.Equal(t, "Catalase", rows[0].Description)

	q := srv.queries[0]
	assert.Contains(t, q, `CONTAINS(LCASE(STR(?o)), LCASE("Cat"))`)
	assert.NotContains(t, q, "bif:contains")
	assert.Contains(t, q, "LIMIT 5 OFFSET 5")
}

func TestSearchKeyword_EmptyKeywordSendsNoQuery(t *testing.T) {
	srv := newSPARQLServer(t, func(string) (int, string) { return http.StatusOK, "" })

	for _, ts := range []types.TextSearch{types.TextSearchNone, types.TextSearchVirtuoso} {
		for _, kw := range []string{"", "   ", "\t\n"} {
			rows, err := testClient(srv, ts).SearchKeyword(context.Background(), kw, 10, 0)
			require.NoError(t, err)
			assert.NotNil(t, rows)
			assert.Empty(t, rows)
		}
	}

	// Punctuation only leaves nothing to search in a Virtuoso phrase.
	rows, err := testClient(srv, types.TextSearchVirtuoso).SearchKeyword(context.Background(), `"'*`, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)

	assert.Equal(t, int32(0), atomic.LoadInt32(&srv.calls))
}

func TestSearchKeyword_InjectionIsNeutralised(t *testing.T) {
	srv := newSPARQLServer(t, func(q string) (int, string) {
		if strings.Contains(q, "bif:contains") {
			return http.StatusOK, resultsJSON(t, []string{"c1", "c2", "sc", "rank", "g"})
		}
		return http.StatusOK, resultsJSON(t, []string{"s", "match"})
	})

	kw := `x")) } DROP ALL #`
	_, err := testClient(srv, types.TextSearchNone).SearchKeyword(context.Background(), kw, 10, 0)
	require.NoError(t, err)
	assert.Contains(t, srv.queries[0], `LCASE("x\")) } DROP ALL #")`)

	_, err = testClient(srv, types.TextSearchVirtuoso).SearchKeyword(context.Background(), `cat"' } #`, 10, 0)
	require.NoError(t, err)
	require.Len(t, srv.queries, 2)
	assert.Contains(t, srv.queries[1], `bif:contains '"cat"'`)
	assert.NotContains(t, srv.queries[1], "} #")
}

// --- GetEntityDetail ---

func TestGetEntityDetail_Found(t *testing.T) {
	srv := newSPARQLServer(t, func(q string) (int, string) {
		if strings.Contains(q, "foaf:name") {
			return http.StatusOK, resultsJSON(t, []string{"name", "wiki", "desc"}, map[string]jsonTerm{
				"name": langTerm("Cat", "en"),
				"wiki": uriTerm("http://en.wikipedia.org/wiki/Cat"),
				"desc": langTerm("The cat is a domestic species.", "en"),
			})
		}
		return http.StatusOK, resultsJSON(t, []string{"p", "o"},
			map[string]jsonTerm{"p": uriTerm("http://www.w3.org/1999/02/22-rdf-syntax-ns#type"), "o": uriTerm("http://dbpedia.org/ontology/Species")},
			map[string]jsonTerm{"p": uriTerm("http://www.w3.org/2000/01/rdf-schema#label"), "o": langTerm("Chat", "fr")},
		)
	})

	d, err := testClient(srv, types.TextSearchVirtuoso).GetEntityDetail(context.Background(), "http://dbpedia.org/resource/Cat", "en")
	require.NoError(t, err)
	assert.Equal(t, "Cat", d.Name)
	assert.Equal(t, "The cat is a domestic species.", d.Description)
	assert.Equal(t, "http://en.wikipedia.org/wiki/Cat", d.Link)
	require.Len(t, d.Triples, 2)
	assert.True(t, d.Triples[0].IsLink())
	assert.Equal(t, "Chat", d.Triples[1].Object)
	assert.Equal(t, "fr", d.Triples[1].Lang)
	assert.False(t, d.Triples[1].IsLink())

	require.Len(t, srv.queries, 2)
	assert.Contains(t, srv.queries[0], "<http://dbpedia.org/resource/Cat> dbo:abstract ?desc")
	assert.Contains(t, srv.queries[0], "OPTIONAL { <http://dbpedia.org/resource/Cat> foaf:isPrimaryTopicOf ?wiki }")
	assert.Contains(t, srv.queries[0], `FILTER(LANG(?desc) = "en")`)
	assert.Contains(t, srv.queries[1], "LIMIT 10 OFFSET 0")
}

func TestGetEntityDetail_NoDescriptionFallsBackToLabel(t *testing.T) {
	tests := []struct {
		name string
		body func(t *testing.T) string
	}{
		{"no rows", func(t *testing.T) string {
			return resultsJSON(t, []string{"name", "wiki", "desc"})
		}},
		{"row without description", func(t *testing.T) string {
			return resultsJSON(t, []string{"name", "wiki", "desc"}, map[string]jsonTerm{"name": litTerm("Foo")})
		}},
		{"empty head", func(t *testing.T) string { return `{"head":{},"results":{"bindings":[]}}` }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newSPARQLServer(t, func(q string) (int, string) {
				if strings.Contains(q, "foaf:name") {
					return http.StatusOK, tt.body(t)
				}
				return http.StatusOK, resultsJSON(t, []string{"p", "o"})
			})

			uri := "http://dbpedia.org/resource/Foo_Bar-Baz#sec"
			d, err := testClient(srv, types.TextSearchVirtuoso).GetEntityDetail(context.Background(), uri, "de")
			require.NoError(t, err)
			assert.Equal(t, uri, d.URI)
			assert.Equal(t, FormatLabel(uri), d.Name)
			assert.Empty(t, d.Description)
			assert.Empty(t, d.Link)
			assert.Empty(t, d.Triples)
			assert.Contains(t, srv.queries[0], `FILTER(LANG(?desc) = "de")`)
		})
	}
}

func TestGetEntityDetail_OptionalNameAndLink(t *testing.T) {
	tests := []struct {
		name     string
		row      map[string]jsonTerm
		wantName string
		wantLink string
	}{
		{"no link", map[string]jsonTerm{
			"name": litTerm("Felis"), "desc": langTerm("Felis is a genus of small cats.", "en"),
		}, "Felis", ""},
		{"no name", map[string]jsonTerm{
			"wiki": uriTerm("http://en.wikipedia.org/wiki/Felis"), "desc": langTerm("Felis is a genus of small cats.", "en"),
		}, "Felis", "http://en.wikipedia.org/wiki/Felis"},
		{"description only", map[string]jsonTerm{
			"desc": langTerm("Felis is a genus of small cats.", "en"),
		}, "Felis", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newSPARQLServer(t, func(q string) (int, string) {
				if strings.Contains(q, "dbo:abstract") {
					return http.StatusOK, resultsJSON(t, []string{"name", "wiki", "desc"}, tt.row)
				}
				return http.StatusOK, resultsJSON(t, []string{"p", "o"})
			})

			d, err := testClient(srv, types.TextSearchVirtuoso).GetEntityDetail(context.Background(), "http://dbpedia.org/resource/Felis", "en")
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, d.Name)
			assert.Equal(t, "Felis is a genus of small cats.", d.Description)
			assert.Equal(t, tt.wantLink, d.Link)
		})
	}
}

func TestGetEntityDetail_EscapesURI(t *testing.T) {
	srv := newSPARQLServer(t, func(q string) (int, string) {
		if strings.Contains(q, "foaf:name") {
			return http.StatusOK, resultsJSON(t, []string{"name", "wiki", "desc"})
		}
		return http.StatusOK, resultsJSON(t, []string{"p", "o"})
	})

	_, err := testClient(srv, types.TextSearchNone).GetEntityDetail(context.Background(), "http://x.org/a> ?p ?o } #", "")
	require.NoError(t, err)
	assert.Contains(t, srv.queries[0], "<http://x.org/a%3E%20?p%20?o%20%7D%20#>")
	assert.Contains(t, srv.queries[0], `= "en"`, "configured language is the default")
}

func TestResolveCards(t *testing.T) {
	srv := newSPARQLServer(t, func(q string) (int, string) {
		if strings.Contains(q, "resource/Cat>") {
			return http.StatusOK, resultsJSON(t, []string{"name", "wiki", "desc"}, map[string]jsonTerm{
				"name": litTerm("Cat"), "wiki": uriTerm("http://en.wikipedia.org/wiki/Cat"), "desc": litTerm("A mammal."),
			})
		}
		return http.StatusOK, resultsJSON(t, []string{"name", "wiki", "desc"})
	})

	rows := []types.ResultRow{
		{Subject: "http://dbpedia.org/resource/Cat"},
		{Subject: "http://dbpedia.org/resource/Cat_(band)"},
	}
	cards, err := testClient(srv, types.TextSearchVirtuoso).ResolveCards(context.Background(), rows, "en")
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "A mammal.", cards[0].Description)
	assert.Equal(t, "Cat (band)", cards[1].Name)
	assert.Len(t, srv.queries, 2, "no triple queries")
}

// --- GetOutgoingTriples ---

func TestGetOutgoingTriples(t *testing.T) {
	srv := newSPARQLServer(t, func(string) (int, string) {
		return http.StatusOK, resultsJSON(t, []string{"p", "o"},
			map[string]jsonTerm{"p": uriTerm("http://xmlns.com/foaf/0.1/name"), "o": langTerm("Asturias", "es")},
		)
	})

	got, err := testClient(srv, types.TextSearchNone).GetOutgoingTriples(context.Background(), "http://dbpedia.org/resource/Asturias", 3, 6)
	require.NoError(t, err)
	assert.Equal(t, []types.PredicateObject{{
		Predicate: "http://xmlns.com/foaf/0.1/name", Object: "Asturias", ObjectType: "literal", Lang: "es",
	}}, got)
	assert.Contains(t, srv.queries[0], "<http://dbpedia.org/resource/Asturias> ?p ?o")
	assert.Contains(t, srv.queries[0], "LIMIT 3 OFFSET 6")
}

// --- failure kinds ---

func TestQueryTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	cfg := testCfg()
	cfg.Timeout = 50 * time.Millisecond
	c := NewClient(types.Endpoint{ID: "slow", URL: ts.URL}, cfg, WithHTTPClient(ts.Client()))

	_, err := c.SearchKeyword(context.Background(), "cat", 10, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQueryTimeout)
	assert.Equal(t, ErrQueryTimeout, KindOf(err))

	var qe *QueryError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, "slow", qe.Endpoint)
	assert.Equal(t, "search", qe.Op)
}

func TestEndpointUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	addr := ts.URL
	ts.Close()

	c := NewClient(types.Endpoint{ID: "gone", URL: addr}, testCfg())
	_, err := c.ListAllSubjects(context.Background(), 10, 0)
	assert.ErrorIs(t, err, ErrEndpointUnreachable)
}

func TestStatusKinds(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, ErrQueryRejected},
		{http.StatusInternalServerError, ErrQueryRejected},
		{http.StatusBadGateway, ErrEndpointUnreachable},
		{http.StatusServiceUnavailable, ErrEndpointUnreachable},
		{http.StatusGatewayTimeout, ErrQueryTimeout},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := newSPARQLServer(t, func(string) (int, string) { return tt.status, "nope" })
			_, err := testClient(srv, types.TextSearchNone).ListAllSubjects(context.Background(), 10, 0)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, int32(1), atomic.LoadInt32(&srv.calls), "no retries")
		})
	}
}

func TestMalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body func(t *testing.T) string
	}{
		{"not json", func(*testing.T) string { return "not json" }},
		{"missing head variable", func(t *testing.T) string {
			return resultsJSON(t, []string{"x"}, map[string]jsonTerm{"x": uriTerm("http://x")})
		}},
		{"unbound required variable", func(t *testing.T) string {
			return resultsJSON(t, []string{"s"}, map[string]jsonTerm{"label": litTerm("x")})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newSPARQLServer(t, func(string) (int, string) { return http.StatusOK, tt.body(t) })
			_, err := testClient(srv, types.TextSearchNone).ListAllSubjects(context.Background(), 10, 0)
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestCancelledContextIsNotClassified(t *testing.T) {
	srv := newSPARQLServer(t, func(string) (int, string) { return http.StatusOK, "" })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(srv, types.TextSearchNone).ListAllSubjects(ctx, 10, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, KindOf(err))
}

func TestHasMore(t *testing.T) {
	assert.True(t, HasMore(make([]types.ResultRow, 10), 10))
	assert.False(t, HasMore(make([]types.ResultRow, 4), 10))
	assert.False(t, HasMore([]types.ResultRow{}, 10))
	assert.False(t, HasMore([]int{}, 0))
}
