// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package endpoint maintains the catalog of SPARQL endpoints the user can
// switch between. The catalog is built from layers: the embedded built-in
// list, endpoints from the config file, and endpoints saved in the local
// store. A later layer replaces an earlier entry with the same id.
package endpoint

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/elliotchance/pie/v2"
	"github.com/go-playground/validator/v10"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sparql-search/pkg/types"
)

// ErrUnknownEndpoint is returned by Lookup for an id not in the catalog.
var ErrUnknownEndpoint = errors.New("unknown endpoint")

//go:embed builtin.yaml
var builtinYAML []byte

var validate = validator.New(validator.WithRequiredStructEnabled())

// Builtin returns the endpoints shipped with the binary.
func Builtin() ([]types.Endpoint, error) {
	var eps []types.Endpoint
	if err := yaml.Unmarshal(builtinYAML, &eps); err != nil {
		return nil, fmt.Errorf("parsing built-in endpoints: %w", err)
	}
	return eps, nil
}

// Catalog is an ordered, id-unique set of endpoints.
type Catalog struct {
	endpoints []types.Endpoint
}

// New merges layers in order. Every endpoint is normalized and validated;
// the first invalid one aborts construction.
func New(layers ...[]types.Endpoint) (*Catalog, error) {
	c := &Catalog{}
	for _, layer := range layers {
		for _, ep := range layer {
			ep = Normalize(ep)
			if err := Validate(ep); err != nil {
				return nil, err
			}
			c.put(ep)
		}
	}
	return c, nil
}

func (c *Catalog) put(ep types.Endpoint) {
	i := pie.FindFirstUsing(c.endpoints, func(e types.Endpoint) bool { return e.ID == ep.ID })
	if i < 0 {
		c.endpoints = append(c.endpoints, ep)
		return
	}
	c.endpoints[i] = ep
}

// Lookup returns the endpoint with the given id. Ids are case-insensitive.
func (c *Catalog) Lookup(id string) (types.Endpoint, error) {
	id = normalizeID(id)
	i := pie.FindFirstUsing(c.endpoints, func(e types.Endpoint) bool { return e.ID == id })
	if i < 0 {
		return types.Endpoint{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownEndpoint, id, strings.Join(c.IDs(), ", "))
	}
	return c.endpoints[i], nil
}

// All returns the endpoints in catalog order: built-ins first, then
// additions in the order they were layered.
func (c *Catalog) All() []types.Endpoint {
	return append([]types.Endpoint(nil), c.endpoints...)
}

// Custom returns only the user-added endpoints.
func (c *Catalog) Custom() []types.Endpoint {
	return pie.Filter(c.endpoints, func(e types.Endpoint) bool { return e.Custom })
}

// IDs returns the endpoint ids in catalog order.
func (c *Catalog) IDs() []string {
	return pie.Map(c.endpoints, func(e types.Endpoint) string { return e.ID })
}

// Len returns the number of endpoints.
func (c *Catalog) Len() int { return len(c.endpoints) }

// Normalize lowercases the id, trims fields and fills in a missing text
// search capability.
func Normalize(ep types.Endpoint) types.Endpoint {
	ep.ID = normalizeID(ep.ID)
	ep.Name = strings.TrimSpace(ep.Name)
	ep.URL = strings.TrimSpace(ep.URL)
	ep.TextSearch = types.TextSearch(strings.ToLower(strings.TrimSpace(string(ep.TextSearch))))
	if ep.TextSearch == "" {
		ep.TextSearch = types.TextSearchNone
	}
	return ep
}

// Validate checks an endpoint's id, URL and text search capability.
func Validate(ep types.Endpoint) error {
	if err := validate.Struct(ep); err != nil {
		return fmt.Errorf("endpoint %q: %w", ep.ID, err)
	}
	if !strings.HasPrefix(ep.URL, "http://") && !strings.HasPrefix(ep.URL, "https://") {
		return fmt.Errorf("endpoint %q: url must be http or https, got %q", ep.ID, ep.URL)
	}
	if strings.ContainsAny(ep.ID, " \t/") {
		return fmt.Errorf("endpoint %q: id must not contain spaces or slashes", ep.ID)
	}
	return nil
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
