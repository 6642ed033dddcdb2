// Package pagebind binds data records onto absolutely positioned page
// templates and corrects the vertical layout after tables grow.
//
// Basic Usage:
//
//	doc, err := pagebind.ParseTemplate(templateJSON)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	engine := pagebind.NewWithOptions(
//	    pagebind.WithReferenceTables(tables),
//	)
//	out, err := engine.Render(doc, pagebind.TemplateData{
//	    "invoiceNo": "INV-001",
//	    "invoiceItems": []interface{}{...},
//	})
//
// Rendering runs in two passes. Bind substitutes each item's content:
// text items keep their literal value, data items read a dot-separated key
// path from the record (optionally through a named formatter), image items
// read a URL, and table items expand an array into one row per element.
// Reflow then measures every table as rows*RowHeight + HeaderAllowance and
// pushes down everything at or below a table that outgrew its declared box.
//
// Missing data never fails a render. Structural template problems such as
// duplicate ids or negative sizes do, with a *ValidationError.
package pagebind
