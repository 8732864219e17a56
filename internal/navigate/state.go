// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package navigate

import (
	"fmt"
	"strings"

	"github.com/pdiddy/sparql-search/pkg/types"
)

// Mode is what the navigator is showing.
type Mode int

const (
	ModeListingAll Mode = iota
	ModeKeywordSearch
	ModeEntityDetail
)

var modeNames = map[Mode]string{
	ModeListingAll:    "listing-all",
	ModeKeywordSearch: "keyword-search",
	ModeEntityDetail:  "entity-detail",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// MarshalText encodes the mode by name for page files.
func (m Mode) MarshalText() ([]byte, error) {
	if _, ok := modeNames[m]; !ok {
		return nil, fmt.Errorf("unknown mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText parses a mode name.
func (m *Mode) UnmarshalText(text []byte) error {
	name := strings.TrimSpace(string(text))
	for mode, s := range modeNames {
		if s == name {
			*m = mode
			return nil
		}
	}
	return fmt.Errorf("unknown mode %q", name)
}

// State identifies one navigable view. Offset is meaningful for the
// listing and search modes, Keyword for search, URI for the entity view.
type State struct {
	Mode    Mode   `json:"mode" yaml:"mode"`
	Offset  int    `json:"offset" yaml:"offset"`
	Keyword string `json:"keyword,omitempty" yaml:"keyword,omitempty"`
	URI     string `json:"uri,omitempty" yaml:"uri,omitempty"`
}

// Validate checks that st can be navigated to with page size limit.
func (st State) Validate(limit int) error {
	switch st.Mode {
	case ModeListingAll:
		return types.ValidatePage(limit, st.Offset)
	case ModeKeywordSearch:
		if strings.TrimSpace(st.Keyword) == "" {
			return ErrEmptyKeyword
		}
		return types.ValidatePage(limit, st.Offset)
	case ModeEntityDetail:
		if strings.TrimSpace(st.URI) == "" {
			return ErrEmptyURI
		}
		return nil
	default:
		return fmt.Errorf("unknown mode %d", int(st.Mode))
	}
}
