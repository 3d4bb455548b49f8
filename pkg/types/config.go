package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "rfc-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for retrieving raw RFC documents.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// XMLMirrors are URL templates for the RFC XML source. Each template
	// contains a single %d verb for the RFC number.
	XMLMirrors []string `json:"xml_mirrors" yaml:"xml_mirrors"`

	// TextMirrors are URL templates for the plain-text rendering.
	TextMirrors []string `json:"text_mirrors" yaml:"text_mirrors"`

	// RequestsPerSecond limits outbound requests across all mirrors (default 5).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// Burst is the limiter bucket size (default 5).
	Burst int `json:"burst" yaml:"burst"`

	// MaxRetries is the number of retries on HTTP 429/503 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// XMLThreshold is the first RFC number published with canonical XML
	// source (default 8650). Lower numbers usually only exist as text.
	XMLThreshold int `json:"xml_threshold" yaml:"xml_threshold"`

	// DataDir is the on-disk mirror (contains raw/, metadata/, markdown/).
	// Empty disables the mirror.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// CacheConfig holds settings for the parsed document cache.
type CacheConfig struct {
	// Size is the maximum number of parsed documents kept (default 50).
	Size int `json:"size" yaml:"size"`
}

// IndexConfig holds settings for the requirement index.
type IndexConfig struct {
	// IndexDir holds the SQLite database (default "index").
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// LogConfig selects the diagnostic logger.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// Format is "console" or "json".
	Format string `json:"format" yaml:"format"`
}

// EngineConfig groups all configuration for the engine.
type EngineConfig struct {
	Fetch FetchConfig `json:"fetch" yaml:"fetch"`
	Cache CacheConfig `json:"cache" yaml:"cache"`
	Index IndexConfig `json:"index" yaml:"index"`
	Log   LogConfig   `json:"log" yaml:"log"`
}
