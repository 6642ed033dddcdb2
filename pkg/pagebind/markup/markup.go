// Package markup projects a rendered document into a standalone HTML page:
// one absolutely positioned box per item and a table block per table item.
//
// The page is built as a golang.org/x/net/html node tree from the typed
// geometry of the document and serialized with html.Render, so all text and
// attribute values are escaped by the renderer.
package markup

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/benjaminschreck/go-pagebind/pkg/pagebind"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const pageCSS = `
.preview-container { overflow: auto; padding: 20px; display: flex; justify-content: center; }
.page { width: 210mm; min-height: 297mm; background: white; position: relative; box-shadow: 0 0 10px rgba(0, 0, 0, 0.1); margin: 0 auto; }
.item { position: absolute; line-height: 1.5; }
.item table { border-collapse: collapse; width: 100%; min-width: 100%; }
.item th, .item td { border: 1px solid #d1d5db; padding: 8px; }
@media print {
  .preview-container { padding: 0; }
  .page { margin: 0; padding: 20px; -webkit-print-color-adjust: exact; print-color-adjust: exact; box-shadow: none; }
}
`

// Options adjusts the generated page.
type Options struct {
	// Title is the document title. Defaults to "Invoice".
	Title string
}

// Render returns the HTML page for doc.
func Render(doc *pagebind.BoundDocument) (string, error) {
	var buf bytes.Buffer
	if err := Write(&buf, doc, Options{}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Write serializes doc as an HTML page to w.
func Write(w io.Writer, doc *pagebind.BoundDocument, opts Options) error {
	if doc == nil {
		return fmt.Errorf("markup: nil document")
	}
	root, err := Build(doc, opts)
	if err != nil {
		return err
	}
	if err := html.Render(w, root); err != nil {
		return pagebind.NewDocumentError("render", "html", err)
	}
	return nil
}

// Build returns the page as an html.DocumentNode tree.
func Build(doc *pagebind.BoundDocument, opts Options) (*html.Node, error) {
	if opts.Title == "" {
		opts.Title = "Invoice"
	}

	page := element(atom.Div, attr("class", "page"), attr("data-page-size", string(doc.PageSize)))
	for i := range doc.Items {
		node, err := itemNode(&doc.Items[i])
		if err != nil {
			return nil, err
		}
		page.AppendChild(node)
	}

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, attr("charset", "UTF-8")))
	head.AppendChild(withChildren(element(atom.Title), textNode(opts.Title)))
	head.AppendChild(withChildren(element(atom.Style), textNode(pageCSS)))

	body := withChildren(element(atom.Body),
		withChildren(element(atom.Div, attr("class", "preview-container")), page))

	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	root.AppendChild(withChildren(element(atom.Html), head, body))
	return root, nil
}

func itemNode(item *pagebind.BoundItem) (*html.Node, error) {
	div := element(atom.Div,
		attr("class", "item"),
		attr("data-type", item.Kind.String()),
		attr("data-id", item.ID),
	)
	if item.Key != "" {
		div.Attr = append(div.Attr, attr("data-key", item.Key))
	}
	if item.Format != "" {
		div.Attr = append(div.Attr, attr("data-format", item.Format))
	}
	div.Attr = append(div.Attr, attr("style", boxStyle(item)))

	switch item.Kind {
	case pagebind.KindText, pagebind.KindData:
		div.AppendChild(textNode(item.Content))
	case pagebind.KindImage:
		if item.Placeholder {
			div.AppendChild(placeholderNode())
		} else {
			div.AppendChild(element(atom.Img,
				attr("src", item.Content),
				attr("style", "width:100%;height:100%;object-fit:cover")))
		}
	case pagebind.KindTable:
		div.AppendChild(tableNode(item))
	default:
		return nil, fmt.Errorf("markup: item %q has unknown kind %v", item.ID, item.Kind)
	}
	return div, nil
}

func tableNode(item *pagebind.BoundItem) *html.Node {
	header := element(atom.Tr)
	for _, col := range item.Columns {
		th := element(atom.Th,
			attr("data-key", col.Key),
			attr("style", declarations{
				{"text-align", orDefault(col.Align, "left")},
				{"width", px(col.Width)},
			}.String()))
		th.AppendChild(textNode(col.Label))
		header.AppendChild(th)
	}

	body := element(atom.Tbody)
	for _, row := range item.Rows {
		tr := element(atom.Tr)
		for i, cell := range row.Cells {
			align := "left"
			if i < len(item.Columns) {
				align = orDefault(item.Columns[i].Align, align)
			}
			td := element(atom.Td, attr("style", "text-align:"+align))
			td.AppendChild(textNode(cell))
			tr.AppendChild(td)
		}
		body.AppendChild(tr)
	}

	return withChildren(element(atom.Table),
		withChildren(element(atom.Thead), header),
		body)
}

// placeholderNode is the framed picture icon shown for images without a URL.
func placeholderNode() *html.Node {
	svg := svgElement("svg",
		attr("width", "20"), attr("height", "16"), attr("viewBox", "0 0 24 24"),
		attr("fill", "none"), attr("aria-hidden", "true"))
	svg.AppendChild(svgElement("rect",
		attr("x", "3"), attr("y", "3"), attr("width", "18"), attr("height", "14"), attr("rx", "1.5"),
		attr("stroke", "#6b7280"), attr("stroke-width", "1.2"), attr("fill", "none")))
	svg.AppendChild(svgElement("circle",
		attr("cx", "8"), attr("cy", "8"), attr("r", "1.5"), attr("fill", "#6b7280")))
	svg.AppendChild(svgElement("path",
		attr("d", "M3 17l5-6 4 5 3-4 6 6"), attr("stroke", "#6b7280"), attr("stroke-width", "1.2"),
		attr("fill", "none"), attr("stroke-linecap", "round"), attr("stroke-linejoin", "round")))

	frame := element(atom.Div,
		attr("class", "image-placeholder"),
		attr("style", "width:100%;height:100%;background:#f1f5f9;border:1px dashed #d1d5db;border-radius:6px;"+
			"display:flex;align-items:center;justify-content:center"))
	frame.AppendChild(svg)
	return frame
}

type declaration struct {
	property string
	value    string
}

type declarations []declaration

func (d declarations) String() string {
	var b strings.Builder
	for _, decl := range d {
		if decl.value == "" {
			continue
		}
		b.WriteString(decl.property)
		b.WriteByte(':')
		b.WriteString(decl.value)
		b.WriteByte(';')
	}
	return b.String()
}

func boxStyle(item *pagebind.BoundItem) string {
	s := item.Style
	fontStyle, decoration := "normal", "none"
	if s.Italic {
		fontStyle = "italic"
	}
	if s.Underline {
		decoration = "underline"
	}
	var fontSize string
	if s.FontSize > 0 {
		fontSize = px(s.FontSize)
	}

	return declarations{
		{"position", "absolute"},
		{"left", px(item.Position.X)},
		{"top", px(item.Position.Y)},
		{"width", px(item.Size.Width)},
		{"height", px(item.Size.Height)},
		{"font-family", s.FontFamily},
		{"font-size", fontSize},
		{"color", orDefault(s.Color, "#000")},
		{"text-align", s.Align},
		{"font-weight", s.Weight},
		{"font-style", fontStyle},
		{"text-decoration", decoration},
		{"line-height", "1.5"},
	}.String()
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func svgElement(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag, Namespace: "svg", Attr: attrs}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func withChildren(n *html.Node, children ...*html.Node) *html.Node {
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}
