package markup

import (
	"strings"
	"testing"

	"github.com/benjaminschreck/go-pagebind/pkg/pagebind"
	"golang.org/x/net/html"
)

func sampleDocument() *pagebind.BoundDocument {
	return &pagebind.BoundDocument{
		PageSize: pagebind.PageSizeA4,
		Items: []pagebind.BoundItem{
			{
				Kind:     pagebind.KindText,
				ID:       "title",
				Position: pagebind.Position{X: 20, Y: 10},
				Size:     pagebind.Size{Width: 200, Height: 30},
				Style:    pagebind.Style{FontSize: 18, Weight: "bold"},
				Content:  "Fatura <taslak> & özet",
			},
			{
				Kind:     pagebind.KindTable,
				ID:       "lines",
				Key:      "items",
				Position: pagebind.Position{X: 20, Y: 100},
				Size:     pagebind.Size{Width: 500, Height: 380},
				Columns: []pagebind.Column{
					{Key: "name", Label: "Ürün", Width: 200, Align: "left"},
					{Key: "total", Label: "Toplam", Width: 100, Align: "right"},
				},
				Rows: []pagebind.BoundRow{
					{Cells: []string{"Kalem", "1.500,00"}},
					{Cells: []string{"Defter", "2.250,50"}},
				},
			},
			{
				Kind:     pagebind.KindData,
				ID:       "total",
				Key:      "payableAmount",
				Format:   "currency",
				Position: pagebind.Position{X: 300, Y: 550},
				Size:     pagebind.Size{Width: 120, Height: 24},
				Content:  "3.750,50",
			},
			{
				Kind:     pagebind.KindImage,
				ID:       "logo",
				Key:      "logoUrl",
				Position: pagebind.Position{X: 400, Y: 10},
				Size:     pagebind.Size{Width: 80, Height: 80},
				Content:  "https://example.com/logo.png",
			},
			{
				Kind:        pagebind.KindImage,
				ID:          "stamp",
				Key:         "stampUrl",
				Position:    pagebind.Position{X: 400, Y: 600},
				Size:        pagebind.Size{Width: 80, Height: 80},
				Placeholder: true,
			},
		},
	}
}

// findItem returns the div.item whose data-id is id.
func findItem(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && n.Data == "div" && getAttr(n, "class") == "item" && getAttr(n, "data-id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findItem(c, id); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func renderAndParse(t *testing.T, doc *pagebind.BoundDocument) (string, *html.Node) {
	t.Helper()
	out, err := Render(doc)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	root, err := html.Parse(strings.NewReader(out))
	if err != nil {
		t.Fatalf("output does not parse: %v", err)
	}
	return out, root
}

func TestRenderGeometry(t *testing.T) {
	_, root := renderAndParse(t, sampleDocument())

	tests := []struct {
		id   string
		want []string
	}{
		{"title", []string{"left:20px;", "top:10px;", "font-size:18px;", "font-weight:bold;"}},
		{"lines", []string{"top:100px;", "height:380px;"}},
		{"total", []string{"top:550px;", "width:120px;"}},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			item := findItem(root, tt.id)
			if item == nil {
				t.Fatalf("item %q not found", tt.id)
			}
			style := getAttr(item, "style")
			for _, w := range tt.want {
				if !strings.Contains(style, w) {
					t.Errorf("style %q missing %q", style, w)
				}
			}
		})
	}

	total := findItem(root, "total")
	if got := getAttr(total, "data-format"); got != "currency" {
		t.Errorf("data-format = %q, want currency", got)
	}
	if got := getAttr(total, "data-key"); got != "payableAmount" {
		t.Errorf("data-key = %q, want payableAmount", got)
	}
	if got := getAttr(findItem(root, "title"), "data-key"); got != "" {
		t.Errorf("text item should have no data-key, got %q", got)
	}
}

func TestRenderEscapesContent(t *testing.T) {
	out, root := renderAndParse(t, sampleDocument())

	if strings.Contains(out, "<taslak>") {
		t.Error("content was not escaped")
	}
	if got := textOf(findItem(root, "title")); got != "Fatura <taslak> & özet" {
		t.Errorf("title text = %q", got)
	}
}

func TestRenderTable(t *testing.T) {
	_, root := renderAndParse(t, sampleDocument())
	table := findItem(root, "lines")

	headers := findAll(table, "th")
	if len(headers) != 2 {
		t.Fatalf("expected 2 header cells, got %d", len(headers))
	}
	if getAttr(headers[1], "data-key") != "total" || textOf(headers[1]) != "Toplam" {
		t.Errorf("unexpected header: key=%q label=%q", getAttr(headers[1], "data-key"), textOf(headers[1]))
	}

	rows := findAll(findAll(table, "tbody")[0], "tr")
	if len(rows) != 2 {
		t.Fatalf("expected 2 body rows, got %d", len(rows))
	}
	cells := findAll(rows[1], "td")
	if textOf(cells[0]) != "Defter" || textOf(cells[1]) != "2.250,50" {
		t.Errorf("unexpected row: %q %q", textOf(cells[0]), textOf(cells[1]))
	}
	if getAttr(cells[1], "style") != "text-align:right" {
		t.Errorf("cell alignment = %q", getAttr(cells[1], "style"))
	}
}

func TestRenderImages(t *testing.T) {
	_, root := renderAndParse(t, sampleDocument())

	imgs := findAll(findItem(root, "logo"), "img")
	if len(imgs) != 1 || getAttr(imgs[0], "src") != "https://example.com/logo.png" {
		t.Errorf("logo should render one img with its URL")
	}

	stamp := findItem(root, "stamp")
	if len(findAll(stamp, "img")) != 0 {
		t.Error("placeholder should not render an img")
	}
	if len(findAll(stamp, "svg")) != 1 {
		t.Error("placeholder should render the svg icon")
	}
}

func TestRenderPage(t *testing.T) {
	out, root := renderAndParse(t, sampleDocument())

	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Errorf("missing doctype: %.40q", out)
	}
	titles := findAll(root, "title")
	if len(titles) != 1 || textOf(titles[0]) != "Invoice" {
		t.Error("default title should be Invoice")
	}

	var buf strings.Builder
	if err := Write(&buf, sampleDocument(), Options{Title: "Fatura 42"}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "<title>Fatura 42</title>") {
		t.Error("custom title not used")
	}
}

func TestRenderErrors(t *testing.T) {
	if _, err := Render(nil); err == nil {
		t.Error("expected error for nil document")
	}

	doc := &pagebind.BoundDocument{Items: []pagebind.BoundItem{{Kind: pagebind.ItemKind(42), ID: "x"}}}
	if _, err := Render(doc); err == nil {
		t.Error("expected error for unknown item kind")
	}
}

func TestDeclarations(t *testing.T) {
	tests := []struct {
		name  string
		decls declarations
		want  string
	}{
		{"empty", nil, ""},
		{"skips empty values", declarations{{"color", "#000"}, {"font-family", ""}, {"top", "5px"}}, "color:#000;top:5px;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.decls.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPx(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0px"},
		{34, "34px"},
		{12.5, "12.5px"},
	}
	for _, tt := range tests {
		if got := px(tt.in); got != tt.want {
			t.Errorf("px(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
