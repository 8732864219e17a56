// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// TextSearch names the full-text search extension an endpoint supports.
type TextSearch string

const (
	// TextSearchNone means keyword search falls back to a substring filter.
	TextSearchNone TextSearch = "none"

	// TextSearchVirtuoso means the endpoint supports bif:contains with
	// scores and IRI rank (DBpedia and other Virtuoso stores).
	TextSearchVirtuoso TextSearch = "virtuoso"
)

// Endpoint is a named remote SPARQL service.
type Endpoint struct {
	// ID is the lookup key (lowercase slug, e.g. "dbpedia").
	ID string `json:"id" yaml:"id" mapstructure:"id" validate:"required,max=64"`

	// Name is the display name.
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// URL is the SPARQL protocol address.
	URL string `json:"url" yaml:"url" mapstructure:"url" validate:"required,url"`

	// TextSearch selects the keyword search strategy.
	TextSearch TextSearch `json:"text_search,omitempty" yaml:"text_search,omitempty" mapstructure:"text_search" validate:"omitempty,oneof=none virtuoso"`

	// Custom marks endpoints added by the user rather than built in.
	Custom bool `json:"custom,omitempty" yaml:"-" mapstructure:"-"`
}

// HasFullText reports whether the endpoint ranks keyword matches itself.
func (e Endpoint) HasFullText() bool {
	return e.TextSearch == TextSearchVirtuoso
}

// DisplayName returns Name, or ID when no name was configured.
func (e Endpoint) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID
}
