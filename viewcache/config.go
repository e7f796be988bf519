package viewcache

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-view-cache/cache"
	"github.com/goliatone/go-view-cache/viewfilter"
)

// Config holds the knobs shared by providers built from one configuration.
type Config struct {
	// AllowSorting enables in-memory sorting for UI sort requests. When the
	// backing store already orders server side it is left off and sort
	// requests are rejected.
	AllowSorting bool `mapstructure:"allow_sorting" json:"allow_sorting"`
	// FilterLogic is the operator combining quick-match tokens.
	FilterLogic string `mapstructure:"filter_logic" json:"filter_logic"`
	// DefaultPageSize is used when a query has no limit.
	DefaultPageSize int `mapstructure:"default_page_size" json:"default_page_size"`
	// CatalogCache configures the relationship catalog memo.
	CatalogCache cache.Config `mapstructure:"catalog_cache" json:"catalog_cache"`
}

// DefaultConfig returns a Config with sorting enabled, OR matching and pages of
// 50 items.
func DefaultConfig() Config {
	return Config{
		AllowSorting:    true,
		FilterLogic:     viewfilter.OR.String(),
		DefaultPageSize: 50,
		CatalogCache:    cache.DefaultConfig(),
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.FilterLogic, validation.By(func(v any) error {
			_, err := viewfilter.ParseOperator(v.(string))
			return err
		})),
		validation.Field(&c.DefaultPageSize, validation.Required, validation.Min(1)),
		validation.Field(&c.CatalogCache),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid view cache config").
			WithTextCode(CodeInvalidConfig)
	}
	return nil
}

// Logic returns the parsed FilterLogic, falling back to OR.
func (c Config) Logic() viewfilter.LogicalOperator {
	op, err := viewfilter.ParseOperator(c.FilterLogic)
	if err != nil {
		return viewfilter.OR
	}
	return op
}
