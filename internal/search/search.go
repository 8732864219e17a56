// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search builds SPARQL queries from a small set of intents, runs them
// against one endpoint, and turns the result bindings into rows and entity
// views.
//
// Queries come from a template bank (queries.sparql). User text is escaped
// for the position it is substituted into: string literals, Virtuoso
// free-text phrases, or IRIs. Result order is whatever the endpoint returns
// for the query's ORDER BY/LIMIT/OFFSET; the client never re-sorts.
package search

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/knakk/sparql"

	"github.com/pdiddy/sparql-search/internal/httputil"
	"github.com/pdiddy/sparql-search/pkg/types"
)

const (
	resultsMediaType = "application/sparql-results+json"
	defaultLang      = "en"
	defaultPageSize  = 10
)

// Client runs queries against a single endpoint. It is owned by one
// navigator at a time and holds no per-query state.
type Client struct {
	endpoint types.Endpoint
	cfg      types.SearchConfig
	http     *http.Client
	username string
	password string
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCredentials enables HTTP basic auth for every query.
func WithCredentials(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithLogger sets the logger used for query diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a client for ep. cfg.Timeout bounds each query.
func NewClient(ep types.Endpoint, cfg types.SearchConfig, opts ...Option) *Client {
	c := &Client{
		endpoint: ep,
		cfg:      cfg,
		http:     &http.Client{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the endpoint this client queries.
func (c *Client) Endpoint() types.Endpoint { return c.endpoint }

// HasMore reports whether a page of rows suggests a following page. It is
// a heuristic: a full page may still be the last one.
func HasMore[T any](rows []T, limit int) bool {
	return limit > 0 && len(rows) == limit
}

// ListAllSubjects returns one page of the distinct subjects in the store,
// labelled with rdfs:label in the configured language when present.
func (c *Client) ListAllSubjects(ctx context.Context, limit, offset int) ([]types.ResultRow, error) {
	if err := types.ValidatePage(limit, offset); err != nil {
		return nil, err
	}
	q, err := prepare(queryListSubjects, queryParams{
		Lang:   escapeLiteral(c.lang("")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	sols, err := c.run(ctx, "list", q, "s")
	if err != nil {
		return nil, err
	}

	rows := make([]types.ResultRow, 0, len(sols))
	for _, s := range sols {
		subject := s.value("s")
		label := s.value("label")
		if label == "" {
			label = FormatLabel(subject)
		}
		rows = append(rows, types.ResultRow{Subject: subject, Label: label})
	}
	return rows, nil
}

// SearchKeyword returns one page of subjects matching keyword. Endpoints
// with a Virtuoso text index are ranked by a weighted text score plus IRI
// rank; others use a case-insensitive substring filter ordered by subject.
// A keyword with nothing searchable in it returns no rows and sends no query.
func (c *Client) SearchKeyword(ctx context.Context, keyword string, limit, offset int) ([]types.ResultRow, error) {
	if err := types.ValidatePage(limit, offset); err != nil {
		return nil, err
	}
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []types.ResultRow{}, nil
	}

	key := searchTemplate(c.endpoint.TextSearch)
	p := queryParams{Limit: limit, Offset: offset}
	subjectVar := "s"
	if key == querySearchVirtuoso {
		p.Phrase = textPhrase(keyword)
		if p.Phrase == "" {
			return []types.ResultRow{}, nil
		}
		subjectVar = "c1"
	} else {
		p.Keyword = escapeLiteral(keyword)
	}

	q, err := prepare(key, p)
	if err != nil {
		return nil, err
	}
	sols, err := c.run(ctx, "search", q, subjectVar)
	if err != nil {
		return nil, err
	}

	rows := make([]types.ResultRow, 0, len(sols))
	for _, s := range sols {
		subject := s.value(subjectVar)
		row := types.ResultRow{Subject: subject, Label: FormatLabel(subject)}
		if key == querySearchVirtuoso {
			row.Description = s.value("c2")
			row.Score = s.float("sc") + s.float("rank")
		} else {
			row.Description = s.value("match")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// GetEntityDetail resolves uri's name, description and encyclopedia link
// in lang, plus the first page of its outgoing triples. Missing metadata is
// not an error: without a description in lang the detail carries
// FormatLabel(uri) as its name and an empty description. Name and link are
// optional on their own.
func (c *Client) GetEntityDetail(ctx context.Context, uri, lang string) (types.EntityDetail, error) {
	d, err := c.lookup(ctx, uri, lang)
	if err != nil {
		return types.EntityDetail{}, err
	}
	triples, err := c.GetOutgoingTriples(ctx, uri, c.pageSize(), 0)
	if err != nil {
		return types.EntityDetail{}, err
	}
	d.Triples = triples
	return d, nil
}

// ResolveCards looks up name, description and link for each row, in order.
// Triples are not fetched.
func (c *Client) ResolveCards(ctx context.Context, rows []types.ResultRow, lang string) ([]types.EntityDetail, error) {
	cards := make([]types.EntityDetail, 0, len(rows))
	for _, r := range rows {
		d, err := c.lookup(ctx, r.Subject, lang)
		if err != nil {
			return nil, err
		}
		cards = append(cards, d)
	}
	return cards, nil
}

// GetOutgoingTriples returns one page of (predicate, object) pairs for uri.
func (c *Client) GetOutgoingTriples(ctx context.Context, uri string, limit, offset int) ([]types.PredicateObject, error) {
	if err := types.ValidatePage(limit, offset); err != nil {
		return nil, err
	}
	q, err := prepare(queryOutgoing, queryParams{URI: escapeIRI(uri), Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	sols, err := c.run(ctx, "triples", q, "p", "o")
	if err != nil {
		return nil, err
	}

	out := make([]types.PredicateObject, 0, len(sols))
	for _, s := range sols {
		o := s["o"]
		out = append(out, types.PredicateObject{
			Predicate:  s.value("p"),
			Object:     o.Value,
			ObjectType: o.Type,
			Lang:       o.Lang,
		})
	}
	return out, nil
}

func (c *Client) lookup(ctx context.Context, uri, lang string) (types.EntityDetail, error) {
	fallback := types.EntityDetail{URI: uri, Name: FormatLabel(uri)}

	q, err := prepare(queryEntityDetail, queryParams{
		URI:  escapeIRI(uri),
		Lang: escapeLiteral(c.lang(lang)),
	})
	if err != nil {
		return types.EntityDetail{}, err
	}
	sols, err := c.run(ctx, "detail", q)
	if err != nil {
		return types.EntityDetail{}, err
	}
	if len(sols) == 0 {
		return fallback, nil
	}

	first := sols[0]
	desc := first.value("desc")
	if desc == "" {
		return fallback, nil
	}
	d := types.EntityDetail{URI: uri, Name: first.value("name"), Description: desc, Link: first.value("wiki")}
	if d.Name == "" {
		d.Name = fallback.Name
	}
	return d, nil
}

func (c *Client) lang(lang string) string {
	switch {
	case lang != "":
		return lang
	case c.cfg.Lang != "":
		return c.cfg.Lang
	default:
		return defaultLang
	}
}

func (c *Client) pageSize() int {
	if c.cfg.PageSize > 0 {
		return c.cfg.PageSize
	}
	return defaultPageSize
}

func (c *Client) name() string {
	if c.endpoint.ID != "" {
		return c.endpoint.ID
	}
	return c.endpoint.URL
}

// run sends one query and decodes its bindings. Every variable in required
// must appear in the result head and be bound in every row.
func (c *Client) run(ctx context.Context, op, query string, required ...string) ([]solution, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	c.logger.Debug("sparql query", "endpoint", c.name(), "op", op, "query", query)

	resp, err := httputil.PostForm(ctx, c.http, c.endpoint.URL, url.Values{"query": {query}}, httputil.RequestOptions{
		Accept:    resultsMediaType,
		UserAgent: c.cfg.UserAgent,
		Username:  c.username,
		Password:  c.password,
	})
	if err != nil {
		return nil, c.fail(op, classifyTransport(err), err)
	}
	defer resp.Body.Close()

	sols, err := decode(resp.Body, required)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, c.fail(op, classifyTransport(ctxErr), err)
		}
		return nil, c.fail(op, ErrMalformedResponse, err)
	}

	c.logger.Debug("sparql query done", "endpoint", c.name(), "op", op,
		"rows", len(sols), "elapsed", time.Since(start))
	return sols, nil
}

func (c *Client) fail(op string, kind, err error) error {
	if kind == nil {
		return fmt.Errorf("%s on %s: %w", op, c.name(), err)
	}
	c.logger.Warn("sparql query failed", "endpoint", c.name(), "op", op, "kind", kind.Error(), "error", err)
	return &QueryError{Endpoint: c.name(), Op: op, Kind: kind, Err: err}
}

// term is one bound value in a solution.
type term struct {
	Type  string
	Value string
	Lang  string
}

// solution maps variable names to bound values for one result row.
type solution map[string]term

func (s solution) value(name string) string {
	return s[name].Value
}

func (s solution) float(name string) float64 {
	f, err := strconv.ParseFloat(s[name].Value, 64)
	if err != nil {
		return 0
	}
	return f
}

func decode(r io.Reader, required []string) ([]solution, error) {
	res, err := sparql.ParseJSON(r)
	if err != nil {
		return nil, fmt.Errorf("decoding SPARQL results: %w", err)
	}

	head := make(map[string]bool, len(res.Head.Vars))
	for _, v := range res.Head.Vars {
		head[v] = true
	}
	for _, v := range required {
		if !head[v] {
			return nil, fmt.Errorf("result head has no variable ?%s", v)
		}
	}

	out := make([]solution, 0, len(res.Results.Bindings))
	for i, raw := range res.Results.Bindings {
		sol := make(solution, len(raw))
		for name, b := range raw {
			sol[name] = term{Type: b.Type, Value: b.Value, Lang: b.Lang}
		}
		for _, v := range required {
			if _, ok := sol[v]; !ok {
				return nil, fmt.Errorf("row %d leaves ?%s unbound", i, v)
			}
		}
		out = append(out, sol)
	}
	return out, nil
}
