package types

import "time"

// HTTPConfig holds shared HTTP settings used for every query.
type HTTPConfig struct {
	// Timeout is the per-query timeout handed to the transport.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "sparql-search/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the query layer and navigation.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// PageSize is the number of rows per page (the query LIMIT).
	PageSize int `json:"page_size" yaml:"page_size"`

	// Lang is the language tag used when selecting descriptions (default "en").
	Lang string `json:"lang" yaml:"lang"`
}

// StoreConfig holds settings for the local SQLite store.
type StoreConfig struct {
	// DataDir is the directory holding the database file.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// AppConfig is the fully resolved configuration for one CLI run.
// Field tags follow the keys in sparql-search.yaml.
type AppConfig struct {
	// Endpoint is the id of the endpoint active at startup.
	Endpoint string `mapstructure:"endpoint" validate:"required"`

	// PageSize is the number of results per page.
	PageSize int `mapstructure:"page_size" validate:"gt=0,lte=1000"`

	// TimeoutMS is the query timeout in milliseconds.
	TimeoutMS int `mapstructure:"timeout_ms" validate:"gt=0"`

	// Lang is the preferred description language.
	Lang string `mapstructure:"lang" validate:"required,max=16"`

	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent"`

	// DataDir holds the SQLite database.
	DataDir string `mapstructure:"data_dir" validate:"required"`

	// LogFile, when set, receives JSON logs at debug level.
	LogFile string `mapstructure:"log_file"`

	// Endpoints are extra endpoint records declared in the config file.
	Endpoints []Endpoint `mapstructure:"endpoints" validate:"dive"`
}

// Search returns the query-layer view of the configuration.
func (c AppConfig) Search() SearchConfig {
	return SearchConfig{
		HTTPConfig: HTTPConfig{
			Timeout:   time.Duration(c.TimeoutMS) * time.Millisecond,
			UserAgent: c.UserAgent,
		},
		PageSize: c.PageSize,
		Lang:     c.Lang,
	}
}

// Store returns the store view of the configuration.
func (c AppConfig) Store() StoreConfig {
	return StoreConfig{DataDir: c.DataDir}
}
