package cache

import (
	"context"
	"errors"
	"testing"
)

type stubCacheService struct {
	result any
	err    error
}

func (s *stubCacheService) GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error) {
	return s.result, s.err
}

func (s *stubCacheService) Delete(ctx context.Context, key string) error { return nil }

func (s *stubCacheService) DeleteByPrefix(ctx context.Context, prefix string) error { return nil }

func TestGetOrFetch_NilResult(t *testing.T) {
	type Catalog interface {
		LinksOf(string) []string
	}
	svc := &stubCacheService{}

	result, err := GetOrFetch[Catalog](context.Background(), svc, "key", func(ctx context.Context) (Catalog, error) {
		return nil, nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result, got %v", result)
	}
}

func TestGetOrFetch_TypeMismatch(t *testing.T) {
	svc := &stubCacheService{result: "wrong"}

	result, err := GetOrFetch[int](context.Background(), svc, "key", func(ctx context.Context) (int, error) {
		return 1, nil
	})
	if !errors.Is(err, ErrInvalidResultType) {
		t.Errorf("expected ErrInvalidResultType, got %v", err)
	}
	if result != 0 {
		t.Errorf("expected zero value, got %d", result)
	}
}

func TestGetOrFetch_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	svc := &stubCacheService{err: boom}

	if _, err := GetOrFetch[string](context.Background(), svc, "key", func(ctx context.Context) (string, error) {
		return "", nil
	}); !errors.Is(err, boom) {
		t.Errorf("expected %v, got %v", boom, err)
	}
}

func TestNewCacheService_RoundTrip(t *testing.T) {
	svc, err := NewCacheService(DefaultConfig())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	ctx := context.Background()
	calls := 0
	fetch := func(ctx context.Context) ([]string, error) {
		calls++
		return []string{"orders"}, nil
	}

	for i := 0; i < 2; i++ {
		got, err := GetOrFetch[[]string](ctx, svc, "catalog::LinksOf::customer", fetch)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0] != "orders" {
			t.Fatalf("unexpected result %v", got)
		}
	}
	if calls != 1 {
		t.Errorf("expected one fetch, got %d", calls)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to be valid, got %v", err)
	}
	cfg.NumShards = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero shards")
	}
	if _, err := NewCacheService(cfg); err == nil {
		t.Error("expected NewCacheService to reject an invalid config")
	}
}
