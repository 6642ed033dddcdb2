package pagebind

import (
	"encoding/json"
	"fmt"
	"io"
)

// PageSize names the physical page format of a template.
type PageSize string

// PageSizeA4 is the only page format produced by the template editor.
const PageSizeA4 PageSize = "A4"

// Position is the top-left corner of an item, in pixels.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is the declared box of an item, in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Style holds the typographic attributes of an item.
type Style struct {
	FontFamily string
	FontSize   float64
	Align      string
	Weight     string
	Italic     bool
	Underline  bool
	Color      string
}

// ItemKind identifies the variant of a PageItem.
type ItemKind int

const (
	KindText ItemKind = iota
	KindData
	KindTable
	KindImage
)

func (k ItemKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindData:
		return "data"
	case KindTable:
		return "table"
	case KindImage:
		return "image"
	default:
		return fmt.Sprintf("ItemKind(%d)", int(k))
	}
}

// ItemBase holds the fields shared by every PageItem variant.
type ItemBase struct {
	ID       string
	Position Position
	Size     Size
	Style    Style
}

// Base returns the shared fields.
func (b *ItemBase) Base() *ItemBase { return b }

// PageItem is one positioned placeholder of a template. The set of variants
// is closed: *TextItem, *DataItem, *TableItem and *ImageItem.
type PageItem interface {
	Base() *ItemBase
	Kind() ItemKind
	isPageItem()
}

// TextItem shows a literal string. Its value is never looked up.
type TextItem struct {
	ItemBase
	Value string
}

// DataItem shows the value found at Key in the data record, optionally
// passed through the formatter named by Format.
type DataItem struct {
	ItemBase
	Key    string
	Format string
}

// TableItem expands the array found at Key into one row per element.
type TableItem struct {
	ItemBase
	Key     string
	Columns []Column
}

// ImageItem shows the image whose URL is found at Key.
type ImageItem struct {
	ItemBase
	Key string
}

func (*TextItem) Kind() ItemKind  { return KindText }
func (*DataItem) Kind() ItemKind  { return KindData }
func (*TableItem) Kind() ItemKind { return KindTable }
func (*ImageItem) Kind() ItemKind { return KindImage }

func (*TextItem) isPageItem()  {}
func (*DataItem) isPageItem()  {}
func (*TableItem) isPageItem() {}
func (*ImageItem) isPageItem() {}

// Column declares one table column. Key is read from each row; Format
// optionally names a formatter applied to the cell value.
type Column struct {
	Key    string
	Label  string
	Width  float64
	Align  string
	Format string
}

const defaultColumnWidth = 120

// DefaultColumns is the column set assumed by a table that declares none.
var DefaultColumns = []Column{
	{Key: "productName", Label: "Ürün Adı", Width: defaultColumnWidth, Align: "left"},
	{Key: "unitPrice", Label: "Birim Fiyat", Width: defaultColumnWidth, Align: "left"},
	{Key: "vatRate", Label: "KDV", Width: defaultColumnWidth, Align: "left"},
	{Key: "totalAmount", Label: "Toplam", Width: defaultColumnWidth, Align: "left"},
}

// EffectiveColumns returns a copy of the declared columns, or of
// DefaultColumns when none are declared.
func (t *TableItem) EffectiveColumns() []Column {
	src := t.Columns
	if len(src) == 0 {
		src = DefaultColumns
	}
	cols := make([]Column, len(src))
	copy(cols, src)
	return cols
}

// Document is an absolutely positioned page template. Item order is the
// authoring order; it breaks ties during reflow but does not affect drawing.
type Document struct {
	PageSize PageSize
	Items    []PageItem
}

// ParseTemplate decodes a template in the editor's JSON export format.
func ParseTemplate(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		if IsTemplateError(err) {
			return nil, err
		}
		return nil, NewDocumentError("parse", "template", err)
	}
	return &doc, nil
}

type documentJSON struct {
	PageSize   PageSize   `json:"pageSize"`
	PageItems  []itemJSON `json:"pageItems"`
	ExportDate string     `json:"exportDate,omitempty"`
}

type itemJSON struct {
	ID             string       `json:"id"`
	Type           string       `json:"type"`
	Value          string       `json:"value"`
	Position       Position     `json:"position"`
	Size           Size         `json:"size"`
	FontFamily     string       `json:"fontFamily,omitempty"`
	FontSize       float64      `json:"fontSize,omitempty"`
	TextAlign      string       `json:"textAlign,omitempty"`
	FontWeight     string       `json:"fontWeight,omitempty"`
	FontStyle      string       `json:"fontStyle,omitempty"`
	TextDecoration string       `json:"textDecoration,omitempty"`
	Color          string       `json:"color,omitempty"`
	Format         string       `json:"format,omitempty"`
	DataColumns    []columnJSON `json:"dataColumns,omitempty"`
}

type columnJSON struct {
	Value     string  `json:"value"`
	Label     string  `json:"label"`
	Width     float64 `json:"width,omitempty"`
	TextAlign string  `json:"textAlign,omitempty"`
	Format    string  `json:"format,omitempty"`
}

// UnmarshalJSON decodes the editor export: {"pageSize": ..., "pageItems": [...]}.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw documentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	d.PageSize = raw.PageSize
	if d.PageSize == "" {
		d.PageSize = PageSizeA4
	}
	d.Items = make([]PageItem, 0, len(raw.PageItems))
	for i, ri := range raw.PageItems {
		item, err := ri.toItem()
		if err != nil {
			return &TemplateError{Index: i, ItemID: ri.ID, Message: err.Error()}
		}
		d.Items = append(d.Items, item)
	}
	return nil
}

// MarshalJSON encodes the document in the editor export format.
func (d Document) MarshalJSON() ([]byte, error) {
	raw := documentJSON{PageSize: d.PageSize, PageItems: make([]itemJSON, 0, len(d.Items))}
	for i, item := range d.Items {
		if item == nil {
			return nil, &TemplateError{Index: i, Message: "nil item"}
		}
		raw.PageItems = append(raw.PageItems, itemToJSON(item))
	}
	return json.Marshal(raw)
}

func (ri itemJSON) base() ItemBase {
	return ItemBase{
		ID:       ri.ID,
		Position: ri.Position,
		Size:     ri.Size,
		Style: Style{
			FontFamily: ri.FontFamily,
			FontSize:   ri.FontSize,
			Align:      ri.TextAlign,
			Weight:     ri.FontWeight,
			Italic:     ri.FontStyle == "italic",
			Underline:  ri.TextDecoration == "underline",
			Color:      ri.Color,
		},
	}
}

func (ri itemJSON) toItem() (PageItem, error) {
	switch ri.Type {
	case "", "text":
		return &TextItem{ItemBase: ri.base(), Value: ri.Value}, nil
	case "data":
		return &DataItem{ItemBase: ri.base(), Key: ri.Value, Format: ri.Format}, nil
	case "image":
		return &ImageItem{ItemBase: ri.base(), Key: ri.Value}, nil
	case "table":
		t := &TableItem{ItemBase: ri.base(), Key: ri.Value}
		for _, c := range ri.DataColumns {
			width := c.Width
			if width == 0 {
				width = defaultColumnWidth
			}
			align := c.TextAlign
			if align == "" {
				align = "left"
			}
			t.Columns = append(t.Columns, Column{
				Key:    c.Value,
				Label:  c.Label,
				Width:  width,
				Align:  align,
				Format: c.Format,
			})
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unknown item type %q", ri.Type)
	}
}

func itemToJSON(item PageItem) itemJSON {
	b := item.Base()
	ri := itemJSON{
		ID:         b.ID,
		Type:       item.Kind().String(),
		Position:   b.Position,
		Size:       b.Size,
		FontFamily: b.Style.FontFamily,
		FontSize:   b.Style.FontSize,
		TextAlign:  b.Style.Align,
		FontWeight: b.Style.Weight,
		Color:      b.Style.Color,
	}
	if b.Style.Italic {
		ri.FontStyle = "italic"
	}
	if b.Style.Underline {
		ri.TextDecoration = "underline"
	}

	switch it := item.(type) {
	case *TextItem:
		ri.Value = it.Value
	case *DataItem:
		ri.Value = it.Key
		ri.Format = it.Format
	case *ImageItem:
		ri.Value = it.Key
	case *TableItem:
		ri.Value = it.Key
		for _, c := range it.Columns {
			ri.DataColumns = append(ri.DataColumns, columnJSON{
				Value:     c.Key,
				Label:     c.Label,
				Width:     c.Width,
				TextAlign: c.Align,
				Format:    c.Format,
			})
		}
	}
	return ri
}
