package cacheinfra

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		Capacity:           100,
		NumShards:          2,
		TTL:                time.Minute,
		EvictionPercentage: 10,
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to be valid, got %v", err)
	}
	if cfg.Capacity != 1024 {
		t.Errorf("expected Capacity to be 1024, got %d", cfg.Capacity)
	}
	if cfg.TTL != time.Hour {
		t.Errorf("expected TTL to be one hour, got %v", cfg.TTL)
	}
	if cfg.EarlyRefresh != nil {
		t.Error("expected early refresh to be disabled by default")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "zero capacity",
			mutate:  func(c *Config) { c.Capacity = 0 },
			wantErr: "config error in field Capacity: must be greater than 0",
		},
		{
			name:    "negative shards",
			mutate:  func(c *Config) { c.NumShards = -2 },
			wantErr: "config error in field NumShards: must be greater than 0",
		},
		{
			name:    "zero ttl",
			mutate:  func(c *Config) { c.TTL = 0 },
			wantErr: "config error in field TTL: must be greater than 0",
		},
		{
			name:    "eviction above 100",
			mutate:  func(c *Config) { c.EvictionPercentage = 101 },
			wantErr: "config error in field EvictionPercentage: must be between 1 and 100",
		},
		{
			name:    "capacity reported before ttl",
			mutate:  func(c *Config) { c.Capacity = 0; c.TTL = 0 },
			wantErr: "config error in field Capacity: must be greater than 0",
		},
		{
			name: "negative early refresh",
			mutate: func(c *Config) {
				c.EarlyRefresh = &EarlyRefreshConfig{SyncRefreshTime: -time.Second}
			},
			wantErr: "config error in field EarlyRefresh.SyncRefreshTime: must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %q, got none", tt.wantErr)
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
			if err.Error() != tt.wantErr {
				t.Errorf("expected error %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestConfig_ToSturdycOptions(t *testing.T) {
	cfg := testConfig()
	if got := len(cfg.ToSturdycOptions()); got != 0 {
		t.Errorf("expected no options for minimal config, got %d", got)
	}

	cfg.MissingRecordStorage = true
	cfg.EvictionInterval = time.Second
	cfg.EarlyRefresh = &EarlyRefreshConfig{
		MinAsyncRefreshTime: time.Second,
		MaxAsyncRefreshTime: 2 * time.Second,
		SyncRefreshTime:     3 * time.Second,
		RetryBaseDelay:      time.Millisecond,
	}
	if got := len(cfg.ToSturdycOptions()); got != 3 {
		t.Errorf("expected 3 options, got %d", got)
	}
}

func TestNewSturdycService_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Capacity = 0

	service, err := NewSturdycService(cfg)
	if err == nil {
		t.Fatal("expected error for zero capacity")
	}
	if service != nil {
		t.Error("expected nil service on error")
	}
}

func TestService_GetOrFetch(t *testing.T) {
	service, err := NewSturdycService(testConfig())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	ctx := context.Background()

	t.Run("fetches once per key", func(t *testing.T) {
		calls := 0
		fetch := func(ctx context.Context) ([]string, error) {
			calls++
			return []string{"orders", "invoices"}, nil
		}

		for i := 0; i < 3; i++ {
			got, err := service.GetOrFetch(ctx, "links::customer", fetch)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			links, ok := got.([]string)
			if !ok || len(links) != 2 {
				t.Fatalf("unexpected result %#v", got)
			}
		}
		if calls != 1 {
			t.Errorf("expected fetch to run once, ran %d times", calls)
		}
	})

	t.Run("fetch error is returned and not cached", func(t *testing.T) {
		boom := errors.New("catalog unavailable")
		calls := 0
		fetch := func(ctx context.Context) (any, error) {
			calls++
			return nil, boom
		}

		for i := 0; i < 2; i++ {
			if _, err := service.GetOrFetch(ctx, "links::broken", fetch); !errors.Is(err, boom) {
				t.Fatalf("expected %v, got %v", boom, err)
			}
		}
		if calls != 2 {
			t.Errorf("expected failed fetches to be retried, got %d calls", calls)
		}
	})

	t.Run("typed fetch error is returned unchanged", func(t *testing.T) {
		boom := errors.New("catalog unavailable")
		fetch := func(ctx context.Context) ([]string, error) {
			return nil, boom
		}
		if _, err := service.GetOrFetch(ctx, "links::typed-broken", fetch); !errors.Is(err, boom) {
			t.Fatalf("expected %v, got %v", boom, err)
		}
	})

	t.Run("rejects malformed fetch functions", func(t *testing.T) {
		bad := []any{
			nil,
			"not a function",
			func() (any, error) { return nil, nil },
			func(s string) (any, error) { return nil, nil },
			func(ctx context.Context) (any, string) { return nil, "" },
		}
		for _, fn := range bad {
			_, err := service.GetOrFetch(ctx, "links::bad", fn)
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("expected *ConfigError for %T, got %v", fn, err)
			}
		}
	})
}

func TestService_DeleteAndPrefix(t *testing.T) {
	service, err := NewSturdycService(testConfig())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	ctx := context.Background()

	keys := []string{"links::customer", "links::order", "labels::customer"}
	for _, key := range keys {
		k := key
		if _, err := service.GetOrFetch(ctx, k, func(ctx context.Context) (string, error) { return k, nil }); err != nil {
			t.Fatalf("failed to seed %s: %v", k, err)
		}
	}
	if service.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", service.Len())
	}

	if err := service.Delete(ctx, "links::order"); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}
	if service.Len() != 2 {
		t.Errorf("expected 2 entries after delete, got %d", service.Len())
	}

	if err := service.DeleteByPrefix(ctx, "links::"); err != nil {
		t.Fatalf("unexpected delete by prefix error: %v", err)
	}
	if service.Len() != 1 {
		t.Errorf("expected only the labels entry to survive, got %d entries", service.Len())
	}

	refetched := false
	if _, err := service.GetOrFetch(ctx, "links::customer", func(ctx context.Context) (string, error) {
		refetched = true
		return "fresh", nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !refetched {
		t.Error("expected deleted key to be fetched again")
	}
}
