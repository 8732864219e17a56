// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for sparql-search.
// Endpoint configuration, query parameters, and the rows and entity views
// built from SPARQL result bindings live here so that the query layer,
// navigation state, renderer, and CLI agree on one vocabulary.
package types

import (
	"errors"
	"fmt"
	"time"
)

// ResultRow is one summary row returned by a listing or keyword query.
// Subject is the stable identifier the renderer uses as the click target.
type ResultRow struct {
	// Subject is the URI of the matched resource.
	Subject string `json:"subject" yaml:"subject"`

	// Label is a human-readable name, either from the graph or derived from Subject.
	Label string `json:"label" yaml:"label"`

	// Description is an excerpt or description; empty when the endpoint has none.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Score is the relevance score reported by a full-text search extension.
	// Zero for listings and for endpoints without ranking.
	Score float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

// PredicateObject is one outgoing edge of a subject.
type PredicateObject struct {
	Predicate string `json:"predicate" yaml:"predicate"`
	Object    string `json:"object" yaml:"object"`

	// ObjectType is the SPARQL JSON term type: "uri", "literal",
	// "typed-literal" or "bnode".
	ObjectType string `json:"object_type" yaml:"object_type"`

	// Lang is the language tag of a literal object, if any.
	Lang string `json:"lang,omitempty" yaml:"lang,omitempty"`
}

// IsLink reports whether the object refers to another resource.
func (po PredicateObject) IsLink() bool {
	return po.ObjectType == "uri"
}

// EntityDetail is a resolved view of one subject.
type EntityDetail struct {
	URI         string            `json:"uri" yaml:"uri"`
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Link        string            `json:"link,omitempty" yaml:"link,omitempty"`
	Triples     []PredicateObject `json:"triples,omitempty" yaml:"triples,omitempty"`
}

// SearchRequest holds the parameters of one query.
type SearchRequest struct {
	Endpoint Endpoint
	Keyword  string
	Limit    int
	Offset   int
	Timeout  time.Duration
}

// ErrInvalidPage reports a limit/offset pair that breaks whole-page paging.
var ErrInvalidPage = errors.New("invalid page")

// Validate checks that limit is positive and offset is a non-negative
// multiple of limit.
func (r SearchRequest) Validate() error {
	return ValidatePage(r.Limit, r.Offset)
}

// ValidatePage checks the paging invariant shared by every paged query.
func ValidatePage(limit, offset int) error {
	if limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidPage, limit)
	}
	if offset < 0 || offset%limit != 0 {
		return fmt.Errorf("%w: offset %d is not a non-negative multiple of %d", ErrInvalidPage, offset, limit)
	}
	return nil
}

// PageOffset converts a 1-based page number to an offset.
func PageOffset(page, limit int) (int, error) {
	if page < 1 {
		return 0, fmt.Errorf("%w: page must be at least 1, got %d", ErrInvalidPage, page)
	}
	if limit <= 0 {
		return 0, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidPage, limit)
	}
	return (page - 1) * limit, nil
}
