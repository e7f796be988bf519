package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/goliatone/go-view-cache/viewcache"
)

const envPrefix = "VIEWCACHE"

const (
	cfgKeyAllowSorting = "allow_sorting"
	cfgKeyFilterLogic  = "filter_logic"
	cfgKeyPageSize     = "default_page_size"
	cfgKeyLogLevel     = "log_level"
)

// loadConfig reads the view cache configuration from defaults, an optional
// config file, VIEWCACHE_ environment variables and flags, in increasing
// order of precedence.
func loadConfig(path string, flags *pflag.FlagSet) (*viper.Viper, viewcache.Config, error) {
	v := viper.New()
	setDefaults(v, viewcache.DefaultConfig())
	v.SetDefault(cfgKeyLogLevel, "error")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, viewcache.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for key, name := range map[string]string{
			cfgKeyAllowSorting: "allow-sorting",
			cfgKeyFilterLogic:  "logic",
			cfgKeyPageSize:     "page-size",
			cfgKeyLogLevel:     "log-level",
		} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, viewcache.Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg viewcache.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, viewcache.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, viewcache.Config{}, err
	}
	return v, cfg, nil
}

// setDefaults registers every key so environment variables are picked up by
// Unmarshal.
func setDefaults(v *viper.Viper, cfg viewcache.Config) {
	v.SetDefault(cfgKeyAllowSorting, cfg.AllowSorting)
	v.SetDefault(cfgKeyFilterLogic, cfg.FilterLogic)
	v.SetDefault(cfgKeyPageSize, cfg.DefaultPageSize)

	cc := cfg.CatalogCache
	v.SetDefault("catalog_cache.capacity", cc.Capacity)
	v.SetDefault("catalog_cache.num_shards", cc.NumShards)
	v.SetDefault("catalog_cache.ttl", cc.TTL)
	v.SetDefault("catalog_cache.eviction_percentage", cc.EvictionPercentage)
	v.SetDefault("catalog_cache.missing_record_storage", cc.MissingRecordStorage)
	v.SetDefault("catalog_cache.eviction_interval", cc.EvictionInterval)
}

func parseLevel(s string) (viewcache.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return viewcache.LevelDebug, nil
	case "info":
		return viewcache.LevelInfo, nil
	case "", "error":
		return viewcache.LevelError, nil
	case "silent", "none":
		return viewcache.LevelSilent, nil
	}
	return viewcache.LevelError, fmt.Errorf("unknown log level %q", s)
}
