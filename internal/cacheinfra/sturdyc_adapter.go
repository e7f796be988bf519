package cacheinfra

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/viccon/sturdyc"
)

// Config holds the sturdyc settings of a memo cache.
type Config struct {
	// Capacity is the maximum number of entries. Must be greater than 0.
	Capacity int `mapstructure:"capacity"`

	// NumShards is the number of cache shards. Must be greater than 0.
	NumShards int `mapstructure:"num_shards"`

	// TTL is how long an entry stays valid. Must be greater than 0.
	TTL time.Duration `mapstructure:"ttl"`

	// EvictionPercentage is the share of entries evicted when the cache is
	// full, between 1 and 100.
	EvictionPercentage int `mapstructure:"eviction_percentage"`

	// EarlyRefresh enables background refreshes of hot entries. Nil disables it.
	EarlyRefresh *EarlyRefreshConfig `mapstructure:"early_refresh"`

	// MissingRecordStorage remembers keys whose fetch reported a missing record.
	MissingRecordStorage bool `mapstructure:"missing_record_storage"`

	// EvictionInterval is how often expired entries are swept. Zero keeps the
	// sturdyc default.
	EvictionInterval time.Duration `mapstructure:"eviction_interval"`
}

// EarlyRefreshConfig mirrors the sturdyc early refresh options.
type EarlyRefreshConfig struct {
	MinAsyncRefreshTime time.Duration `mapstructure:"min_async_refresh_time"`
	MaxAsyncRefreshTime time.Duration `mapstructure:"max_async_refresh_time"`
	SyncRefreshTime     time.Duration `mapstructure:"sync_refresh_time"`
	RetryBaseDelay      time.Duration `mapstructure:"retry_base_delay"`
}

// DefaultConfig sizes the cache for relationship lookups: one entry per
// entity type, kept until explicitly invalidated in practice.
func DefaultConfig() Config {
	return Config{
		Capacity:             1024,
		NumShards:            16,
		TTL:                  time.Hour,
		EvictionPercentage:   10,
		MissingRecordStorage: false,
	}
}

// ToSturdycOptions maps the optional settings to sturdyc options. Capacity,
// shards, TTL and eviction percentage go to sturdyc.New directly.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option
	if c.EarlyRefresh != nil {
		options = append(options, sturdyc.WithEarlyRefreshes(
			c.EarlyRefresh.MinAsyncRefreshTime,
			c.EarlyRefresh.MaxAsyncRefreshTime,
			c.EarlyRefresh.SyncRefreshTime,
			c.EarlyRefresh.RetryBaseDelay,
		))
	}
	if c.MissingRecordStorage {
		options = append(options, sturdyc.WithMissingRecordStorage())
	}
	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}
	return options
}

// Validate checks the configuration. The first invalid field is reported as
// a *ConfigError.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Capacity, validation.Required.Error("must be greater than 0"), validation.Min(1).Error("must be greater than 0")),
		validation.Field(&c.NumShards, validation.Required.Error("must be greater than 0"), validation.Min(1).Error("must be greater than 0")),
		validation.Field(&c.TTL, validation.Required.Error("must be greater than 0"), validation.Min(time.Nanosecond).Error("must be greater than 0")),
		validation.Field(&c.EvictionPercentage, validation.Required.Error("must be between 1 and 100"), validation.Min(1).Error("must be between 1 and 100"), validation.Max(100).Error("must be between 1 and 100")),
		validation.Field(&c.EvictionInterval, validation.Min(time.Duration(0)).Error("must be non-negative")),
	)
	if err != nil {
		return toConfigError(err, "")
	}
	if c.EarlyRefresh != nil {
		e := c.EarlyRefresh
		nonNegative := validation.Min(time.Duration(0)).Error("must be non-negative")
		err := validation.ValidateStruct(e,
			validation.Field(&e.MinAsyncRefreshTime, nonNegative),
			validation.Field(&e.MaxAsyncRefreshTime, nonNegative),
			validation.Field(&e.SyncRefreshTime, nonNegative),
			validation.Field(&e.RetryBaseDelay, nonNegative),
		)
		if err != nil {
			return toConfigError(err, "EarlyRefresh.")
		}
	}
	return nil
}

// fieldOrder fixes which field is reported when several are invalid.
var fieldOrder = []string{
	"Capacity", "NumShards", "TTL", "EvictionPercentage", "EvictionInterval",
	"MinAsyncRefreshTime", "MaxAsyncRefreshTime", "SyncRefreshTime", "RetryBaseDelay",
}

func toConfigError(err error, prefix string) error {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return &ConfigError{Field: strings.TrimSuffix(prefix, "."), Message: err.Error()}
	}
	for _, name := range fieldOrder {
		if fe, ok := errs[name]; ok {
			return &ConfigError{Field: prefix + name, Message: fe.Error()}
		}
	}
	for name, fe := range errs {
		return &ConfigError{Field: prefix + name, Message: fe.Error()}
	}
	return nil
}

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// Service is a sturdyc backed memo cache.
type Service struct {
	client *sturdyc.Client[any]
}

// NewSturdycService validates cfg and creates the sturdyc client.
func NewSturdycService(cfg Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)
	return &Service{client: client}, nil
}

// validateFetchFn checks that fetchFn has the shape func(context.Context) (T, error).
func validateFetchFn(fetchFn any) error {
	if fetchFn == nil {
		return &ConfigError{Field: "fetchFn", Message: "cannot be nil"}
	}
	fnType := reflect.TypeOf(fetchFn)
	if fnType.Kind() != reflect.Func {
		return &ConfigError{Field: "fetchFn", Message: "must be a function"}
	}
	if fnType.NumIn() != 1 || fnType.NumOut() != 2 {
		return &ConfigError{Field: "fetchFn", Message: "must have signature func(context.Context) (T, error)"}
	}
	if !fnType.In(0).Implements(contextType) {
		return &ConfigError{Field: "fetchFn", Message: "first parameter must be context.Context"}
	}
	if !fnType.Out(1).Implements(errorType) {
		return &ConfigError{Field: "fetchFn", Message: "second return value must be error"}
	}
	return nil
}

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// GetOrFetch implements cache.CacheService. A cached value is returned when
// present; otherwise fetchFn is called and its result stored under key.
func (s *Service) GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error) {
	if err := validateFetchFn(fetchFn); err != nil {
		return nil, err
	}
	// sturdyc replaces a fetch error with ErrInvalidType when the result is
	// nil, so the fetch error is kept aside and returned as is.
	var fetchErr error
	result, err := s.client.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		v, err := callFetch(ctx, fetchFn)
		fetchErr = err
		return v, err
	})
	if fetchErr != nil {
		return nil, fetchErr
	}
	return result, err
}

// callFetch invokes a validated fetch function of any result type.
func callFetch(ctx context.Context, fetchFn any) (any, error) {
	if fn, ok := fetchFn.(func(context.Context) (any, error)); ok {
		return fn(ctx)
	}
	results := reflect.ValueOf(fetchFn).Call([]reflect.Value{reflect.ValueOf(ctx)})

	var result any
	if v := results[0]; v.IsValid() && v.CanInterface() {
		result = v.Interface()
	}
	var err error
	if v := results[1]; v.IsValid() && !v.IsNil() {
		err = v.Interface().(error)
	}
	return result, err
}

// Delete implements cache.CacheService.
func (s *Service) Delete(ctx context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

// DeleteByPrefix implements cache.CacheService.
func (s *Service) DeleteByPrefix(ctx context.Context, prefix string) error {
	for _, key := range s.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			s.client.Delete(key)
		}
	}
	return nil
}

// Len returns the number of cached entries.
func (s *Service) Len() int {
	return s.client.Size()
}
