package pagebind

import (
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/benjaminschreck/go-pagebind/pkg/pagebind/format"
	"github.com/benjaminschreck/go-pagebind/pkg/pagebind/refdata"
)

// Engine binds data records onto page templates and reflows the result.
// An Engine holds no per-render state; Render may be called concurrently.
type Engine struct {
	config     *Config
	cache      *TemplateCache
	formatters *format.Registry
	refs       refdata.Tables
	logger     *Logger
}

// New creates an engine with the global configuration, the built-in
// formatters and empty reference tables.
func New() *Engine {
	return NewWithOptions()
}

// NewWithConfig creates an engine with a custom configuration.
func NewWithConfig(config *Config) *Engine {
	return NewWithOptions(WithConfig(config))
}

// Option represents a configuration option for the engine.
type Option func(*Engine)

// WithConfig returns an option that sets the engine configuration.
// Unset fields take their defaults.
func WithConfig(config *Config) Option {
	return func(e *Engine) {
		e.config = NewConfigWithDefaults(config)
	}
}

// WithCache returns an option that sets the cache size (0 disables caching).
func WithCache(maxSize int) Option {
	return func(e *Engine) {
		e.config.CacheMaxSize = maxSize
	}
}

// WithRegistry returns an option that replaces the formatter registry.
func WithRegistry(r *format.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.formatters = r
		}
	}
}

// WithFormatter returns an option that registers a custom formatter.
// Invalid registrations are logged and ignored.
func WithFormatter(name string, f format.Formatter) Option {
	return func(e *Engine) {
		if err := e.formatters.Register(name, f); err != nil {
			e.logger.Warn("ignoring formatter: %v", err)
		}
	}
}

// WithReferenceTables returns an option that sets the currency and tax-type tables.
func WithReferenceTables(tables refdata.Tables) Option {
	return func(e *Engine) {
		e.refs = tables
	}
}

// WithLogger returns an option that sets the engine's logger.
func WithLogger(l *Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewWithOptions creates a new engine with the specified options.
func NewWithOptions(opts ...Option) *Engine {
	engine := &Engine{
		config:     GetGlobalConfig(),
		formatters: format.DefaultRegistry(),
		logger:     GetLogger(),
	}
	for _, opt := range opts {
		opt(engine)
	}
	engine.cache = NewTemplateCacheWithConfig(CacheConfig{
		MaxSize: engine.config.CacheMaxSize,
		TTL:     engine.config.CacheTTL,
	})
	return engine
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() Config {
	return *e.config
}

// References returns the engine's reference tables.
func (e *Engine) References() refdata.Tables {
	return e.refs
}

// Formatters returns the engine's formatter registry.
func (e *Engine) Formatters() *format.Registry {
	return e.formatters
}

// RegisterFormatter adds or replaces a formatter on this engine.
func (e *Engine) RegisterFormatter(name string, f format.Formatter) error {
	return e.formatters.Register(name, f)
}

// PrepareTemplate returns the template cached under key, parsing r on a miss.
func (e *Engine) PrepareTemplate(key string, r io.Reader) (*Document, error) {
	return e.cache.Prepare(r, key)
}

// ClearCache removes all templates from the cache.
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

// Close releases any resources held by the engine.
func (e *Engine) Close() error {
	e.cache.Clear()
	return nil
}

// RenderOption adjusts a single Render call.
type RenderOption func(*renderSettings)

type renderSettings struct {
	metrics    Metrics
	currencyID int
}

// WithMetrics overrides the row height and header allowance for one render.
func WithMetrics(rowHeight, headerAllowance float64) RenderOption {
	return func(s *renderSettings) {
		s.metrics = Metrics{RowHeight: rowHeight, HeaderAllowance: headerAllowance}
	}
}

// WithCurrencyID overrides the currency id read from the data record.
func WithCurrencyID(id int) RenderOption {
	return func(s *renderSettings) {
		s.currencyID = id
	}
}

// Render validates doc, binds data onto it and reflows the result.
// Structural template problems fail the call with a *ValidationError;
// missing data never does.
func (e *Engine) Render(doc *Document, data TemplateData, opts ...RenderOption) (*BoundDocument, error) {
	settings := renderSettings{metrics: e.config.Metrics()}
	for _, opt := range opts {
		opt(&settings)
	}

	var strict *format.Registry
	if e.config.StrictMode {
		strict = e.formatters
	}
	if err := Validate(doc, strict); err != nil {
		return nil, err
	}

	if settings.currencyID == 0 {
		settings.currencyID = currencyFromData(data, e.config.CurrencyKey)
	}

	logger := e.logger.WithFields(Fields{"items": len(doc.Items), "currency": settings.currencyID})
	bound := Bind(doc, data, BindOptions{
		Formatters: e.formatters,
		Context: format.Context{
			CurrencyID: settings.currencyID,
			Currencies: e.refs.Currencies,
		},
		Logger: logger,
	})

	reflowed, err := Reflow(bound, settings.metrics)
	if err != nil {
		return nil, fmt.Errorf("reflow: %w", err)
	}

	if logger.IsDebugMode() {
		for _, t := range reflowed.Tables {
			logger.WithFields(Fields{
				"table":    t.ID,
				"original": t.OriginalHeight,
				"actual":   t.ActualHeight,
				"delta":    t.Delta,
			}).Debug("table measured")
		}
	}
	return reflowed, nil
}

// RenderTemplate renders the template cached under key, parsing r on a miss.
func (e *Engine) RenderTemplate(key string, r io.Reader, data TemplateData, opts ...RenderOption) (*BoundDocument, error) {
	doc, err := e.PrepareTemplate(key, r)
	if err != nil {
		return nil, err
	}
	return e.Render(doc, data, opts...)
}

func currencyFromData(data TemplateData, key string) int {
	n, ok := format.ToNumber(Resolve(data, key))
	if !ok || n < 1 || n > math.MaxInt32 || n != math.Trunc(n) {
		return refdata.DefaultCurrencyID
	}
	return int(n)
}

var (
	defaultEngine     *Engine
	defaultEngineOnce sync.Once
)

// DefaultEngine returns the shared engine used by the package-level
// functions. It is built from the global configuration on first use.
func DefaultEngine() *Engine {
	defaultEngineOnce.Do(func() {
		defaultEngine = New()
	})
	return defaultEngine
}

// Render renders doc with the default engine.
func Render(doc *Document, data TemplateData, opts ...RenderOption) (*BoundDocument, error) {
	return DefaultEngine().Render(doc, data, opts...)
}

// RegisterGlobalFormatter adds a formatter to the default engine.
func RegisterGlobalFormatter(name string, f format.Formatter) error {
	return DefaultEngine().RegisterFormatter(name, f)
}

// ClearCache clears the default engine's template cache.
func ClearCache() {
	DefaultEngine().ClearCache()
}
