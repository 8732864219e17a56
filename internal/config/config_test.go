// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sparql-search/pkg/types"
)

// chdir moves into a fresh directory so no stray config or .env is read.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	chdir(t)
	t.Setenv("HOME", t.TempDir())

	v, err := New(Options{})
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, DefaultPageSize, cfg.PageSize)
	assert.Equal(t, DefaultTimeoutMS, cfg.TimeoutMS)
	assert.Equal(t, DefaultLang, cfg.Lang)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.True(t, filepath.IsAbs(cfg.DataDir), "~ is expanded: %s", cfg.DataDir)
	assert.Equal(t, FileName, filepath.Base(cfg.DataDir))
	assert.Empty(t, cfg.Endpoints)

	sc := cfg.Search()
	assert.Equal(t, "30s", sc.Timeout.String())
	assert.Equal(t, 10, sc.PageSize)
}

func TestConfigFile(t *testing.T) {
	dir := chdir(t)
	writeFile(t, dir, "sparql-search.yaml", `
endpoint: Local
page_size: 25
timeout_ms: 5000
lang: de
data_dir: ./data
endpoints:
  - id: local
    name: Fuseki
    url: http://localhost:3030/ds/sparql
  - id: mirror
    url: http://localhost:8890/sparql
    text_search: virtuoso
`)

	v, err := New(Options{})
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Endpoint)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, 5000, cfg.TimeoutMS)
	assert.Equal(t, "de", cfg.Lang)
	assert.Equal(t, "./data", cfg.DataDir)
	require.Len(t, cfg.Endpoints, 2)
	assert.Equal(t, "Fuseki", cfg.Endpoints[0].Name)
	assert.Equal(t, types.TextSearchVirtuoso, cfg.Endpoints[1].TextSearch)
}

func TestExplicitFileMustExist(t *testing.T) {
	dir := chdir(t)
	_, err := New(Options{File: filepath.Join(dir, "missing.yaml")})
	assert.Error(t, err)
}

func TestEnvAndDotEnv(t *testing.T) {
	dir := chdir(t)
	writeFile(t, dir, "sparql-search.yaml", "page_size: 25\n")
	writeFile(t, dir, ".env", "SPARQL_SEARCH_LANG=fr\n")
	t.Setenv("SPARQL_SEARCH_PAGE_SIZE", "50")
	// godotenv does not unset what it loads; register for cleanup.
	t.Setenv("SPARQL_SEARCH_LANG", "")
	require.NoError(t, os.Unsetenv("SPARQL_SEARCH_LANG"))

	v, err := New(Options{})
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.PageSize, "environment beats the config file")
	assert.Equal(t, "fr", cfg.Lang)
}

func TestFlagsWin(t *testing.T) {
	dir := chdir(t)
	writeFile(t, dir, "sparql-search.yaml", "page_size: 25\nendpoint: wikidata\n")
	t.Setenv("SPARQL_SEARCH_PAGE_SIZE", "50")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("endpoint", "", "")
	fs.Int("page-size", 0, "")
	fs.Int("timeout-ms", 0, "")
	require.NoError(t, fs.Parse([]string{"--page-size", "7"}))

	v, err := New(Options{Flags: fs})
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.PageSize)
	assert.Equal(t, "wikidata", cfg.Endpoint, "unset flags do not override")
	assert.Equal(t, DefaultTimeoutMS, cfg.TimeoutMS)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero page size", "page_size: 0\n"},
		{"huge page size", "page_size: 5000\n"},
		{"negative timeout", "timeout_ms: -1\n"},
		{"empty endpoint", "endpoint: \"\"\n"},
		{"bad endpoint record", "endpoints:\n  - id: broken\n    url: not a url\n"},
		{"bad capability", "endpoints:\n  - id: x\n    url: http://x.org/sparql\n    text_search: lucene\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := chdir(t)
			path := writeFile(t, dir, "custom.yaml", tt.content)
			v, err := New(Options{File: path})
			require.NoError(t, err)
			_, err = Load(v)
			assert.Error(t, err)
		})
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandHome("~/data")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data"), got)

	got, err = expandHome("/abs/data")
	require.NoError(t, err)
	assert.Equal(t, "/abs/data", got)

	got, err = expandHome("~other/data")
	require.NoError(t, err)
	assert.Equal(t, "~other/data", got)
}
