// Package tax aggregates tax amounts across invoice line items.
//
// Sums are order independent. PercentForCodes and FirstPercent depend on
// entry order, which is the order entries appear on the item.
package tax

import (
	"github.com/benjaminschreck/go-pagebind/pkg/pagebind/format"
	"github.com/benjaminschreck/go-pagebind/pkg/pagebind/refdata"
)

// Tax category codes used by the invoice mapper.
const (
	VATCode           = "0015"
	AccommodationCode = "0059"
)

var (
	// ExciseDutyCodes are the special consumption tax (ÖTV) categories.
	ExciseDutyCodes = []string{"0071", "9077", "0073", "0074", "0075", "0076", "0077"}
	// CommunicationCodes are the communication tax categories.
	CommunicationCodes = []string{"4080", "4081"}
)

// Flags carried by the tax-type reference table.
const (
	FlagStoppage    = "is_stoppage"
	FlagWithholding = "is_withholding"
)

// Entry is one tax line on an item.
type Entry struct {
	Code    string
	Amount  float64
	Percent float64
}

// Withholding describes the withholding (tevkifat) applied to an item.
type Withholding struct {
	TypeCode string
	Ratio    string
	Amount   float64
}

// Item is the tax view of an invoice line item.
type Item struct {
	Taxes       []Entry
	Withholding *Withholding
}

func codeSet(codes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

// SumByCodes sums the amounts of all entries whose code is in codes.
func SumByCodes(items []Item, codes ...string) float64 {
	set := codeSet(codes)
	var total float64
	for _, item := range items {
		for _, e := range item.Taxes {
			if _, ok := set[e.Code]; ok {
				total += e.Amount
			}
		}
	}
	return total
}

// SumByFlag sums the amounts of entries whose code maps, through table, to a
// tax type with the named flag set. Codes absent from the table are skipped.
func SumByFlag(items []Item, table refdata.TaxTable, flag string) float64 {
	if table == nil {
		return 0
	}
	var total float64
	for _, item := range items {
		for _, e := range item.Taxes {
			if tt, ok := table.TaxType(e.Code); ok && tt.Flag(flag) {
				total += e.Amount
			}
		}
	}
	return total
}

// PercentForCodes renders the rate of the first entry on item whose code is
// in codes, or "%0" when none matches.
func PercentForCodes(item Item, codes ...string) string {
	set := codeSet(codes)
	for _, e := range item.Taxes {
		if _, ok := set[e.Code]; ok {
			return format.Percent(e.Percent)
		}
	}
	return format.Percent(nil)
}

// FirstPercent renders the rate of the item's first entry, which carries VAT
// by convention.
func FirstPercent(item Item) string {
	if len(item.Taxes) == 0 {
		return format.Percent(nil)
	}
	return format.Percent(item.Taxes[0].Percent)
}

// WithholdingTotal sums the withholding amounts of all items.
func WithholdingTotal(items []Item) float64 {
	var total float64
	for _, item := range items {
		if item.Withholding != nil {
			total += item.Withholding.Amount
		}
	}
	return total
}

// WithholdingInfo renders "<type>(<ratio>) - <amount> <code>", or only the
// type code when the amount is zero. Items without withholding render "".
func WithholdingInfo(item Item, ctx format.Context) string {
	w := item.Withholding
	if w == nil {
		return ""
	}
	if w.Amount == 0 {
		return w.TypeCode
	}
	return w.TypeCode + "(" + w.Ratio + ") - " + format.CurrencyWithCode(w.Amount, ctx)
}
