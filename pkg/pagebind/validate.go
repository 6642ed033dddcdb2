package pagebind

import (
	"fmt"
	"math"

	"github.com/benjaminschreck/go-pagebind/pkg/pagebind/format"
)

// Validate checks the structural invariants of a template: every item has a
// unique non-empty id, and positions and sizes are finite and non-negative.
// When formatters is non-nil, every Format name must be registered in it.
// All problems are reported together in a *ValidationError.
func Validate(doc *Document, formatters *format.Registry) error {
	if doc == nil {
		return &ValidationError{Issues: []ValidationIssue{{Field: "document", Message: "document is nil"}}}
	}

	verr := &ValidationError{}
	seen := make(map[string]int, len(doc.Items))
	for i, item := range doc.Items {
		field := fmt.Sprintf("pageItems[%d]", i)
		if item == nil {
			verr.add(field, "item is nil")
			continue
		}

		b := item.Base()
		if b.ID == "" {
			verr.add(field+".id", "id is empty")
		} else if first, dup := seen[b.ID]; dup {
			verr.add(field+".id", "duplicate id %q (first used by pageItems[%d])", b.ID, first)
		} else {
			seen[b.ID] = i
		}

		checkDimension(verr, field+".position.x", b.Position.X)
		checkDimension(verr, field+".position.y", b.Position.Y)
		checkDimension(verr, field+".size.width", b.Size.Width)
		checkDimension(verr, field+".size.height", b.Size.Height)

		if formatters == nil {
			continue
		}
		switch it := item.(type) {
		case *DataItem:
			checkFormat(verr, formatters, field+".format", it.Format)
		case *TableItem:
			for j, col := range it.Columns {
				checkFormat(verr, formatters, fmt.Sprintf("%s.dataColumns[%d].format", field, j), col.Format)
			}
		case *TextItem, *ImageItem:
		}
	}

	if len(verr.Issues) > 0 {
		return verr
	}
	return nil
}

func checkDimension(verr *ValidationError, field string, v float64) {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		verr.add(field, "must be a finite number")
	case v < 0:
		verr.add(field, "must be non-negative, got %v", v)
	}
}

func checkFormat(verr *ValidationError, formatters *format.Registry, field, name string) {
	if name == "" {
		return
	}
	if _, ok := formatters.Lookup(name); !ok {
		verr.add(field, "unknown formatter %q", name)
	}
}
