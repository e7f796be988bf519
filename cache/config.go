package cache

import (
	"time"

	"github.com/goliatone/go-view-cache/internal/cacheinfra"
)

// Config configures the default CacheService.
type Config struct {
	Capacity             int                 `mapstructure:"capacity" json:"capacity"`
	NumShards            int                 `mapstructure:"num_shards" json:"num_shards"`
	TTL                  time.Duration       `mapstructure:"ttl" json:"ttl"`
	EvictionPercentage   int                 `mapstructure:"eviction_percentage" json:"eviction_percentage"`
	EarlyRefresh         *EarlyRefreshConfig `mapstructure:"early_refresh" json:"early_refresh,omitempty"`
	MissingRecordStorage bool                `mapstructure:"missing_record_storage" json:"missing_record_storage"`
	EvictionInterval     time.Duration       `mapstructure:"eviction_interval" json:"eviction_interval"`
}

// EarlyRefreshConfig mirrors the sturdyc early refresh options.
type EarlyRefreshConfig struct {
	MinAsyncRefreshTime time.Duration `mapstructure:"min_async_refresh_time" json:"min_async_refresh_time"`
	MaxAsyncRefreshTime time.Duration `mapstructure:"max_async_refresh_time" json:"max_async_refresh_time"`
	SyncRefreshTime     time.Duration `mapstructure:"sync_refresh_time" json:"sync_refresh_time"`
	RetryBaseDelay      time.Duration `mapstructure:"retry_base_delay" json:"retry_base_delay"`
}

// DefaultConfig returns the defaults of the sturdyc backed service.
func DefaultConfig() Config {
	return fromInternal(cacheinfra.DefaultConfig())
}

// Validate checks the configuration. Errors are *cacheinfra.ConfigError values.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// NewCacheService creates the default sturdyc backed CacheService.
func NewCacheService(cfg Config) (CacheService, error) {
	svc, err := cacheinfra.NewSturdycService(cfg.toInternal())
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func (c Config) toInternal() cacheinfra.Config {
	out := cacheinfra.Config{
		Capacity:             c.Capacity,
		NumShards:            c.NumShards,
		TTL:                  c.TTL,
		EvictionPercentage:   c.EvictionPercentage,
		MissingRecordStorage: c.MissingRecordStorage,
		EvictionInterval:     c.EvictionInterval,
	}
	if e := c.EarlyRefresh; e != nil {
		out.EarlyRefresh = &cacheinfra.EarlyRefreshConfig{
			MinAsyncRefreshTime: e.MinAsyncRefreshTime,
			MaxAsyncRefreshTime: e.MaxAsyncRefreshTime,
			SyncRefreshTime:     e.SyncRefreshTime,
			RetryBaseDelay:      e.RetryBaseDelay,
		}
	}
	return out
}

func fromInternal(c cacheinfra.Config) Config {
	out := Config{
		Capacity:             c.Capacity,
		NumShards:            c.NumShards,
		TTL:                  c.TTL,
		EvictionPercentage:   c.EvictionPercentage,
		MissingRecordStorage: c.MissingRecordStorage,
		EvictionInterval:     c.EvictionInterval,
	}
	if e := c.EarlyRefresh; e != nil {
		out.EarlyRefresh = &EarlyRefreshConfig{
			MinAsyncRefreshTime: e.MinAsyncRefreshTime,
			MaxAsyncRefreshTime: e.MaxAsyncRefreshTime,
			SyncRefreshTime:     e.SyncRefreshTime,
			RetryBaseDelay:      e.RetryBaseDelay,
		}
	}
	return out
}
