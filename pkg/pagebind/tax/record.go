package tax

import (
	"reflect"

	"github.com/benjaminschreck/go-pagebind/pkg/pagebind/format"
)

// Field names of the invoice record shape.
const (
	ItemsKey       = "invoiceItems"
	taxesKey       = "otherTaxes"
	codeKey        = "taxCategoryTypeCode"
	amountKey      = "taxAmount"
	percentKey     = "percent"
	withholdingKey = "withholdingTax"
	typeCodeKey    = "taxTypeCode"
	ratioKey       = "ratio"
)

// ItemsFromRecord extracts the tax view of every line item found under
// itemsKey. Malformed items and entries are skipped.
func ItemsFromRecord(record map[string]interface{}, itemsKey string) []Item {
	var items []Item
	for _, raw := range asSlice(record[itemsKey]) {
		m, ok := asMap(raw)
		if !ok {
			continue
		}
		items = append(items, ItemFromRow(m))
	}
	return items
}

// ItemFromRow extracts the tax view of a single line item.
func ItemFromRow(row map[string]interface{}) Item {
	var item Item
	for _, raw := range asSlice(row[taxesKey]) {
		m, ok := asMap(raw)
		if !ok {
			continue
		}
		code := format.Stringify(m[codeKey])
		if code == "" {
			continue
		}
		amount, _ := format.ToNumber(m[amountKey])
		percent, _ := format.ToNumber(m[percentKey])
		item.Taxes = append(item.Taxes, Entry{Code: code, Amount: amount, Percent: percent})
	}

	if m, ok := asMap(row[withholdingKey]); ok {
		amount, _ := format.ToNumber(m[amountKey])
		item.Withholding = &Withholding{
			TypeCode: format.Stringify(m[typeCodeKey]),
			Ratio:    format.Stringify(m[ratioKey]),
			Amount:   amount,
		}
	}
	return item
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	return m, ok && m != nil
}

func asSlice(v interface{}) []interface{} {
	switch s := v.(type) {
	case nil:
		return nil
	case []interface{}:
		return s
	case []map[string]interface{}:
		out := make([]interface{}, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
