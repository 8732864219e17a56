// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SearchRecord is one keyword search remembered in the local history.
// Only the query is kept; result rows are always fetched live.
type SearchRecord struct {
	ID         string    `json:"id" yaml:"id"`
	EndpointID string    `json:"endpoint" yaml:"endpoint"`
	Keyword    string    `json:"keyword" yaml:"keyword"`
	Offset     int       `json:"offset" yaml:"offset"`
	Rows       int       `json:"rows" yaml:"rows"`
	SearchedAt time.Time `json:"searched_at" yaml:"searched_at"`
}
