// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/pdiddy/rfc-engine/internal/acquire"
	"github.com/pdiddy/rfc-engine/internal/cache"
	"github.com/pdiddy/rfc-engine/pkg/types"
)

// Configuration keys. Environment variables use the RFC_ENGINE_ prefix with
// dots replaced by underscores (RFC_ENGINE_FETCH_TIMEOUT).
const (
	keyFetchTimeout      = "fetch.timeout"
	keyFetchUserAgent    = "fetch.user_agent"
	keyFetchXMLMirrors   = "fetch.xml_mirrors"
	keyFetchTextMirrors  = "fetch.text_mirrors"
	keyFetchRPS          = "fetch.requests_per_second"
	keyFetchBurst        = "fetch.burst"
	keyFetchMaxRetries   = "fetch.max_retries"
	keyFetchXMLThreshold = "fetch.xml_threshold"
	keyDataDir           = "data_dir"
	keyCacheSize         = "cache.size"
	keyIndexDir          = "index_dir"
	keyIndexMaxResults   = "index.max_results"
	keyLogLevel          = "log.level"
	keyLogFormat         = "log.format"
	keyOutput            = "output"
)

const (
	defaultDataDir  = "rfcs"
	defaultIndexDir = "index"
)

func setDefaults() {
	viper.SetDefault(keyFetchTimeout, acquire.DefaultTimeout)
	viper.SetDefault(keyFetchUserAgent, acquire.DefaultUserAgent+" ("+version+")")
	viper.SetDefault(keyFetchXMLMirrors, acquire.DefaultXMLMirrors)
	viper.SetDefault(keyFetchTextMirrors, acquire.DefaultTextMirrors)
	viper.SetDefault(keyFetchRPS, acquire.DefaultRequestsPerSecond)
	viper.SetDefault(keyFetchBurst, acquire.DefaultBurst)
	viper.SetDefault(keyFetchMaxRetries, acquire.DefaultMaxRetries)
	viper.SetDefault(keyFetchXMLThreshold, acquire.DefaultXMLThreshold)
	viper.SetDefault(keyDataDir, defaultDataDir)
	viper.SetDefault(keyCacheSize, cache.DefaultSize)
	viper.SetDefault(keyIndexDir, defaultIndexDir)
	viper.SetDefault(keyIndexMaxResults, 20)
	viper.SetDefault(keyLogLevel, "warn")
	viper.SetDefault(keyLogFormat, "console")
	viper.SetDefault(keyOutput, outputJSON)
}

// loadConfig reads the effective configuration from viper, which merges
// flags, environment, config file and defaults in that order.
func loadConfig() types.EngineConfig {
	return types.EngineConfig{
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration(keyFetchTimeout),
				UserAgent: viper.GetString(keyFetchUserAgent),
			},
			XMLMirrors:        viper.GetStringSlice(keyFetchXMLMirrors),
			TextMirrors:       viper.GetStringSlice(keyFetchTextMirrors),
			RequestsPerSecond: viper.GetFloat64(keyFetchRPS),
			Burst:             viper.GetInt(keyFetchBurst),
			MaxRetries:        viper.GetInt(keyFetchMaxRetries),
			XMLThreshold:      viper.GetInt(keyFetchXMLThreshold),
			DataDir:           viper.GetString(keyDataDir),
		},
		Cache: types.CacheConfig{Size: viper.GetInt(keyCacheSize)},
		Index: types.IndexConfig{
			IndexDir:   viper.GetString(keyIndexDir),
			MaxResults: viper.GetInt(keyIndexMaxResults),
		},
		Log: types.LogConfig{
			Level:  viper.GetString(keyLogLevel),
			Format: viper.GetString(keyLogFormat),
		},
	}
}
