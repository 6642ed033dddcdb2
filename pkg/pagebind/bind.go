package pagebind

import (
	"strings"

	"github.com/benjaminschreck/go-pagebind/pkg/pagebind/format"
)

// BoundDocument is a template with every item's content substituted.
// Geometry is nominal after Bind and corrected after Reflow.
type BoundDocument struct {
	PageSize PageSize
	Items    []BoundItem
	// Tables holds one entry per table item once the document has been
	// reflowed, in processing order.
	Tables []TableReflow
}

// BoundItem is one page item with its content resolved.
type BoundItem struct {
	Kind     ItemKind
	ID       string
	Key      string
	Format   string
	Position Position
	Size     Size
	Style    Style

	// Content is the literal, resolved or formatted text, or the image URL.
	Content string
	// Placeholder is set on images without a URL.
	Placeholder bool

	Columns []Column
	Rows    []BoundRow
}

// BoundRow is one table body row: one formatted cell per column.
type BoundRow struct {
	Cells []string
}

// BindOptions carries the collaborators of a bind pass.
type BindOptions struct {
	// Formatters resolves Format names. Nil means format.DefaultRegistry().
	Formatters *format.Registry
	// Context is handed to every formatter call.
	Context format.Context
	// Logger receives warnings about items that failed to bind. Nil means GetLogger().
	Logger *Logger
}

// Bind substitutes data into every item of doc, in document order. The input
// document is not modified. An item whose binding panics is logged and
// degrades to empty content; the other items are unaffected.
func Bind(doc *Document, data TemplateData, opts BindOptions) *BoundDocument {
	if opts.Formatters == nil {
		opts.Formatters = format.DefaultRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = GetLogger()
	}

	out := &BoundDocument{PageSize: PageSizeA4}
	if doc == nil {
		return out
	}
	if doc.PageSize != "" {
		out.PageSize = doc.PageSize
	}

	out.Items = make([]BoundItem, 0, len(doc.Items))
	for i, item := range doc.Items {
		if item == nil {
			continue
		}
		out.Items = append(out.Items, bindItemSafe(i, item, data, opts))
	}
	return out
}

func bindItemSafe(index int, item PageItem, data TemplateData, opts BindOptions) (bound BoundItem) {
	defer func() {
		if r := recover(); r != nil {
			opts.Logger.WithFields(Fields{
				"index": index,
				"item":  item.Base().ID,
				"type":  item.Kind().String(),
			}).Warn("binding failed, item left empty: %v", RecoverError(r))
			bound = emptyItem(item)
		}
	}()
	return bindItem(item, data, opts)
}

func newBoundItem(item PageItem) BoundItem {
	b := item.Base()
	return BoundItem{
		Kind:     item.Kind(),
		ID:       b.ID,
		Position: b.Position,
		Size:     b.Size,
		Style:    b.Style,
	}
}

func bindItem(item PageItem, data TemplateData, opts BindOptions) BoundItem {
	bound := newBoundItem(item)

	switch it := item.(type) {
	case *TextItem:
		bound.Content = it.Value

	case *DataItem:
		bound.Key = it.Key
		bound.Format = it.Format
		bound.Content = formatValue(Resolve(data, it.Key), it.Format, opts)

	case *ImageItem:
		bound.Key = it.Key
		bound.Content = strings.TrimSpace(format.Stringify(Resolve(data, it.Key)))
		bound.Placeholder = bound.Content == ""

	case *TableItem:
		bound.Key = it.Key
		bound.Columns = it.EffectiveColumns()
		bound.Rows = bindRows(Resolve(data, it.Key), bound.Columns, opts)

	default:
		panic("pagebind: unhandled item type " + item.Kind().String())
	}
	return bound
}

// formatValue leaves missing values empty; formatters only see present ones.
func formatValue(value interface{}, name string, opts BindOptions) string {
	if value == nil {
		return ""
	}
	return opts.Formatters.Apply(name, value, opts.Context)
}

func bindRows(value interface{}, columns []Column, opts BindOptions) []BoundRow {
	records, ok := toRows(value)
	if !ok || len(records) == 0 {
		return []BoundRow{blankRow(columns)}
	}

	rows := make([]BoundRow, len(records))
	for i, record := range records {
		cells := make([]string, len(columns))
		for j, col := range columns {
			cells[j] = formatValue(Resolve(record, col.Key), col.Format, opts)
		}
		rows[i] = BoundRow{Cells: cells}
	}
	return rows
}

func blankRow(columns []Column) BoundRow {
	return BoundRow{Cells: make([]string, len(columns))}
}

// emptyItem is the degraded form of an item whose binding failed.
func emptyItem(item PageItem) BoundItem {
	bound := newBoundItem(item)
	switch it := item.(type) {
	case *DataItem:
		bound.Key = it.Key
		bound.Format = it.Format
	case *ImageItem:
		bound.Key = it.Key
		bound.Placeholder = true
	case *TableItem:
		bound.Key = it.Key
		bound.Columns = it.EffectiveColumns()
		bound.Rows = []BoundRow{blankRow(bound.Columns)}
	}
	return bound
}
