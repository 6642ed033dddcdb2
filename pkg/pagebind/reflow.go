package pagebind

import (
	"fmt"
	"math"
	"sort"
)

// Metrics are the fixed measures used to estimate a rendered table's height.
type Metrics struct {
	RowHeight       float64
	HeaderAllowance float64
}

// DefaultMetrics returns the 34px row / 40px header measures.
func DefaultMetrics() Metrics {
	return Metrics{RowHeight: DefaultRowHeight, HeaderAllowance: DefaultHeaderAllowance}
}

// TableHeight is the estimated rendered height of a table with rows body rows.
func (m Metrics) TableHeight(rows int) float64 {
	return float64(rows)*m.RowHeight + m.HeaderAllowance
}

func (m Metrics) validate() error {
	if !(m.RowHeight > 0) || math.IsInf(m.RowHeight, 0) {
		return &ReflowError{Message: fmt.Sprintf("row height must be positive, got %v", m.RowHeight)}
	}
	if !(m.HeaderAllowance >= 0) || math.IsInf(m.HeaderAllowance, 0) {
		return &ReflowError{Message: fmt.Sprintf("header allowance must be non-negative, got %v", m.HeaderAllowance)}
	}
	return nil
}

// TableReflow records how one table was measured.
type TableReflow struct {
	ID             string
	OriginalHeight float64
	ActualHeight   float64
	Delta          float64
}

// Reflow moves items down so that nothing overlaps a table that grew past
// its declared height.
//
// Tables are processed top to bottom (ties keep document order). A table's
// growth shifts every other item whose current y is at or below the table's
// current bottom edge, including tables not processed yet, so deltas cascade.
// Tables never shrink and nothing moves up. The table's box height becomes
// its original height plus its delta.
//
// doc is not modified; row and column storage is shared with the result.
func Reflow(doc *BoundDocument, m Metrics) (*BoundDocument, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	if doc == nil {
		return &BoundDocument{PageSize: PageSizeA4}, nil
	}

	out := &BoundDocument{
		PageSize: doc.PageSize,
		Items:    make([]BoundItem, len(doc.Items)),
	}
	copy(out.Items, doc.Items)

	var tables []int
	for i := range out.Items {
		switch out.Items[i].Kind {
		case KindTable:
			tables = append(tables, i)
		case KindText, KindData, KindImage:
		default:
			return nil, &ReflowError{TableID: out.Items[i].ID, Message: "unknown item kind " + out.Items[i].Kind.String()}
		}
	}
	sort.SliceStable(tables, func(a, b int) bool {
		return doc.Items[tables[a]].Position.Y < doc.Items[tables[b]].Position.Y
	})

	out.Tables = make([]TableReflow, 0, len(tables))
	for _, ti := range tables {
		table := &out.Items[ti]
		original := table.Size.Height
		actual := m.TableHeight(len(table.Rows))
		delta := math.Max(0, actual-original)
		if !(delta >= 0) {
			return nil, &ReflowError{TableID: table.ID, Message: fmt.Sprintf("invalid height delta %v", delta)}
		}

		if delta > 0 {
			bottom := table.Position.Y + original
			for j := range out.Items {
				if j == ti || out.Items[j].ID == table.ID {
					continue
				}
				if out.Items[j].Position.Y >= bottom {
					out.Items[j].Position.Y += delta
				}
			}
			table.Size.Height = original + delta
		}

		out.Tables = append(out.Tables, TableReflow{
			ID:             table.ID,
			OriginalHeight: original,
			ActualHeight:   actual,
			Delta:          delta,
		})
	}
	return out, nil
}
