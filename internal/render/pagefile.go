// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sparql-search/internal/navigate"
	"github.com/pdiddy/sparql-search/pkg/types"
)

// PageFile is the on-disk form of a page. It records where the user was
// (endpoint, state and page size) along with the rows that were shown, so
// the view can be reopened later with a fresh query from the same place.
type PageFile struct {
	Endpoint types.Endpoint      `json:"endpoint" yaml:"endpoint"`
	State    navigate.State      `json:"state" yaml:"state"`
	Limit    int                 `json:"limit" yaml:"limit"`
	Rows     []types.ResultRow   `json:"rows,omitempty" yaml:"rows,omitempty"`
	Detail   *types.EntityDetail `json:"detail,omitempty" yaml:"detail,omitempty"`
	Notice   string              `json:"notice,omitempty" yaml:"notice,omitempty"`
	SavedAt  time.Time           `json:"saved_at" yaml:"saved_at"`
}

// NewPageFile captures p, fetched with page size limit.
func NewPageFile(p navigate.Page, limit int) PageFile {
	return PageFile{
		Endpoint: p.Endpoint,
		State:    p.State,
		Limit:    limit,
		Rows:     p.Rows,
		Detail:   p.Detail,
		Notice:   p.Notice,
		SavedAt:  time.Now().UTC().Truncate(time.Second),
	}
}

// WritePageFile saves p to path as YAML.
func WritePageFile(path string, p navigate.Page, limit int) error {
	pf := NewPageFile(p, limit)
	var buf bytes.Buffer
	if err := YAML(&buf, &pf); err != nil {
		return fmt.Errorf("marshaling page file: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// ReadPageFile loads a page file and checks that its state can be restored.
func ReadPageFile(path string) (*PageFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading page file: %w", err)
	}
	var pf PageFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing page file: %w", err)
	}
	if pf.Endpoint.ID == "" {
		return nil, fmt.Errorf("page file %s: missing endpoint id", path)
	}
	if err := pf.State.Validate(pf.Limit); err != nil {
		return nil, fmt.Errorf("page file %s: %w", path, err)
	}
	return &pf, nil
}
