// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves the CLI configuration from defaults, an
// optional sparql-search.yaml, a .env file, SPARQL_SEARCH_* environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/sparql-search/pkg/types"
)

const (
	// FileName is the config file name without extension.
	FileName = "sparql-search"

	// EnvPrefix prefixes every environment variable, e.g. SPARQL_SEARCH_ENDPOINT.
	EnvPrefix = "SPARQL_SEARCH"

	DefaultEndpoint  = "dbpedia"
	DefaultPageSize  = 10
	DefaultTimeoutMS = 30000
	DefaultLang      = "en"
	DefaultUserAgent = "sparql-search/0.1"
)

// flagKeys maps global flag names to config keys.
var flagKeys = map[string]string{
	"endpoint":   "endpoint",
	"page-size":  "page_size",
	"timeout-ms": "timeout_ms",
	"lang":       "lang",
	"data-dir":   "data_dir",
	"log-file":   "log_file",
}

// Options controls where configuration is read from.
type Options struct {
	// File is an explicit config file. When empty, sparql-search.yaml is
	// looked up in the working directory and ~/.config/sparql-search/.
	File string

	// DotEnv is the .env file to load; missing files are ignored.
	// Defaults to ".env".
	DotEnv string

	// Flags, when set, are bound so explicitly set flags win.
	Flags *pflag.FlagSet
}

// New builds a viper instance with defaults, the config file, the .env
// file, environment variables and flags wired in.
func New(opts Options) (*viper.Viper, error) {
	dotenv := opts.DotEnv
	if dotenv == "" {
		dotenv = ".env"
	}
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, oops.Errorf("failed to load %s: %w", dotenv, err)
	}

	v := viper.New()
	SetDefaults(v)

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", FileName))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, oops.Errorf("failed to read config file: %w", err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, oops.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}
	return v, nil
}

// SetDefaults registers the default value of every scalar key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("endpoint", DefaultEndpoint)
	v.SetDefault("page_size", DefaultPageSize)
	v.SetDefault("timeout_ms", DefaultTimeoutMS)
	v.SetDefault("lang", DefaultLang)
	v.SetDefault("user_agent", DefaultUserAgent)
	v.SetDefault("data_dir", filepath.Join("~", ".local", "share", FileName))
	v.SetDefault("log_file", "")
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (types.AppConfig, error) {
	var cfg types.AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return types.AppConfig{}, oops.Errorf("failed to decode config: %w", err)
	}

	cfg.Endpoint = strings.ToLower(strings.TrimSpace(cfg.Endpoint))
	cfg.Lang = strings.TrimSpace(cfg.Lang)
	dir, err := expandHome(cfg.DataDir)
	if err != nil {
		return types.AppConfig{}, oops.Errorf("failed to resolve data_dir: %w", err)
	}
	cfg.DataDir = dir
	if cfg.LogFile, err = expandHome(cfg.LogFile); err != nil {
		return types.AppConfig{}, oops.Errorf("failed to resolve log_file: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return types.AppConfig{}, oops.Errorf("failed to validate config: %w", err)
	}
	return cfg, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
