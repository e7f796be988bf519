package di

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-view-cache/cache"
	"github.com/goliatone/go-view-cache/catalog"
	"github.com/goliatone/go-view-cache/hierarchy"
	"github.com/goliatone/go-view-cache/internal/metrics"
	"github.com/goliatone/go-view-cache/listcache"
	"github.com/goliatone/go-view-cache/store"
	"github.com/goliatone/go-view-cache/viewcache"
)

// Container provides dependency injection for view cache components.
// It manages singleton instances of the cache service, key serializer,
// metrics recorder and relationship catalog, and provides factory functions
// for caches, providers, list caches and trees wired to them.
type Container struct {
	config        viewcache.Config
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
	recorder      metrics.Recorder
	logger        viewcache.Logger
	registry      *catalog.Registry
	source        catalog.Catalog
	catalog       *catalog.Memo

	registerer prometheus.Registerer
	namespace  string
}

// Option configures a Container.
type Option func(*Container)

// WithPrometheus exports cache activity as counters registered on reg.
func WithPrometheus(reg prometheus.Registerer, namespace string) Option {
	return func(c *Container) {
		c.registerer = reg
		c.namespace = namespace
	}
}

// WithRecorder sets the metrics recorder directly. It takes precedence over
// WithPrometheus.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Container) { c.recorder = r }
}

// WithLogger sets the logger handed to every component.
func WithLogger(l viewcache.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithCatalogSource replaces the registration table as the source of the
// memoized catalog.
func WithCatalogSource(src catalog.Catalog) Option {
	return func(c *Container) { c.source = src }
}

// NewContainer validates config and creates the shared services.
func NewContainer(config viewcache.Config, opts ...Option) (*Container, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		config:   config,
		logger:   viewcache.DefaultLogger,
		registry: catalog.NewRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}

	cacheService, err := cache.NewCacheService(config.CatalogCache)
	if err != nil {
		return nil, err
	}
	c.cacheService = cacheService
	c.keySerializer = cache.NewNamespacedKeySerializer("catalog")

	if c.recorder == nil {
		c.recorder = metrics.Nop{}
		if c.registerer != nil {
			p, err := metrics.NewPrometheus(c.registerer, c.namespace)
			if err != nil {
				return nil, err
			}
			c.recorder = p
		}
	}

	if c.source == nil {
		c.source = c.registry
	}
	c.catalog = catalog.NewMemo(c.source, c.cacheService,
		catalog.WithKeySerializer(c.keySerializer),
		catalog.WithLogger(c.logger),
	)
	return c, nil
}

// NewContainerWithDefaults creates a container using viewcache.DefaultConfig.
func NewContainerWithDefaults(opts ...Option) (*Container, error) {
	return NewContainer(viewcache.DefaultConfig(), opts...)
}

// CacheService returns the singleton cache service instance.
func (c *Container) CacheService() cache.CacheService {
	return c.cacheService
}

// KeySerializer returns the singleton key serializer instance.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() viewcache.Config {
	return c.config
}

// Recorder returns the metrics recorder shared by the caches.
func (c *Container) Recorder() metrics.Recorder {
	return c.recorder
}

// Logger returns the logger shared by the components.
func (c *Container) Logger() viewcache.Logger {
	return c.logger
}

// Registry returns the relationship registration table. It is the catalog
// source unless WithCatalogSource was given.
func (c *Container) Registry() *catalog.Registry {
	return c.registry
}

// Catalog returns the memoized relationship catalog.
func (c *Container) Catalog() *catalog.Memo {
	return c.catalog
}

// NewCache creates a layered view cache over loader.
//
// Since Go methods cannot have type parameters, the factories are
// package-level functions. Example: NewCache[Order](container, loader)
func NewCache[T any](c *Container, loader store.Loader[T], opts ...viewcache.Option[T]) *viewcache.Cache[T] {
	base := []viewcache.Option[T]{
		viewcache.WithLogger[T](c.logger),
		viewcache.WithMetrics[T](c.recorder),
	}
	return viewcache.New[T](store.New[T](loader), append(base, opts...)...)
}

// NewProvider creates a pagination provider over a new cache for loader.
func NewProvider[T any](c *Container, loader store.Loader[T], opts ...viewcache.Option[T]) *viewcache.Provider[T] {
	return viewcache.NewProvider(NewCache(c, loader, opts...), c.config,
		viewcache.WithProviderLogger[T](c.logger))
}

// NewList creates an in-memory list cache using the configured filter logic.
func NewList[T any](c *Container, items []T, opts ...listcache.Option[T]) *listcache.List[T] {
	base := []listcache.Option[T]{
		listcache.WithLogger[T](c.logger),
		listcache.WithMetrics[T](c.recorder),
	}
	l := listcache.New(items, append(base, opts...)...)
	l.SetLogic(c.config.Logic())
	return l
}

// NewTree creates a tree whose roots are loaded by loader and whose links
// come from the memoized catalog.
func NewTree[T any](c *Container, loader store.Loader[T], list hierarchy.LinkLister[T], opts ...hierarchy.Option[T]) *hierarchy.Tree[T] {
	if list == nil {
		list = hierarchy.LoaderLister(loader)
	}
	base := []hierarchy.Option[T]{hierarchy.WithLogger[T](c.logger)}
	return hierarchy.New(NewCache(c, loader), c.catalog, list, append(base, opts...)...)
}
