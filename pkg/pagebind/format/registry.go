// Package format provides the formatter registry used when binding values
// into a page template.
//
// A formatter turns a raw value from the data record into a display string.
// Formatters are total: invalid or missing input degrades to a documented
// fallback string and never returns an error or panics past Registry.Apply.
//
// Built-in formatters:
//
//	currency      1234.5      -> "1.234,50"
//	currencyCode  1234.5      -> "1.234,50 TRY"
//	percent       18          -> "%18"
//	date          "2024-03-05T10:00:00Z" -> "05.03.2024"
//	words         165         -> "yüzaltmışbeş lira"
//	text          any         -> raw stringification
package format

import (
	"fmt"
	"sort"
	"sync"

	"github.com/benjaminschreck/go-pagebind/pkg/pagebind/refdata"
)

// Names of the built-in formatters.
const (
	NameCurrency         = "currency"
	NameCurrencyWithCode = "currencyCode"
	NamePercent          = "percent"
	NameDate             = "date"
	NameWords            = "words"
	NameText             = "text"
)

// Context carries the per-render locale and currency information.
type Context struct {
	// CurrencyID selects the record's currency. Zero means refdata.DefaultCurrencyID.
	CurrencyID int
	// Currencies resolves currency codes and names. May be nil.
	Currencies refdata.CurrencyTable
}

// Currency returns the context's effective currency id.
func (c Context) Currency() int {
	if c.CurrencyID == 0 {
		return refdata.DefaultCurrencyID
	}
	return c.CurrencyID
}

func (c Context) lookup() (refdata.Currency, bool) {
	if c.Currencies == nil {
		return refdata.Currency{}, false
	}
	return c.Currencies.Currency(c.Currency())
}

// Formatter converts a raw value into a display string.
type Formatter func(value interface{}, ctx Context) string

// Registry maps formatter names to formatters. It is safe for concurrent use.
type Registry struct {
	formatters map[string]Formatter
	mu         sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
	}
}

// DefaultRegistry creates a registry holding the built-in formatters.
// Each call returns an independent registry.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	registerBuiltins(r)
	return r
}

func registerBuiltins(r *Registry) {
	r.formatters[NameCurrency] = func(v interface{}, _ Context) string {
		return Currency(v)
	}
	r.formatters[NameCurrencyWithCode] = func(v interface{}, ctx Context) string {
		return CurrencyWithCode(v, ctx)
	}
	r.formatters[NamePercent] = func(v interface{}, _ Context) string {
		return Percent(v)
	}
	r.formatters[NameDate] = func(v interface{}, _ Context) string {
		return Date(v)
	}
	r.formatters[NameWords] = func(v interface{}, ctx Context) string {
		return Words(v, ctx)
	}
	r.formatters[NameText] = func(v interface{}, _ Context) string {
		return Stringify(v)
	}
}

// Register adds or replaces a formatter.
func (r *Registry) Register(name string, f Formatter) error {
	if name == "" {
		return fmt.Errorf("formatter name cannot be empty")
	}
	if f == nil {
		return fmt.Errorf("formatter %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.formatters[name] = f
	return nil
}

// Lookup returns the formatter registered under name.
func (r *Registry) Lookup(name string) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.formatters[name]
	return f, ok
}

// Names returns all registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c := NewRegistry()
	for name, f := range r.formatters {
		c.formatters[name] = f
	}
	return c
}

// Apply formats value with the named formatter. An empty or unknown name
// falls back to Stringify, as does a formatter that panics.
func (r *Registry) Apply(name string, value interface{}, ctx Context) (out string) {
	if name == "" {
		return Stringify(value)
	}
	f, ok := r.Lookup(name)
	if !ok {
		return Stringify(value)
	}

	defer func() {
		if rec := recover(); rec != nil {
			out = Stringify(value)
		}
	}()
	return f(value, ctx)
}
