// Package refdata holds the reference tables an embedder supplies to the
// rendering engine: the currency table and the tax-type table.
//
// The tables are plain values. They are loaded once by the caller (from JSON
// files, a database, or literals) and passed explicitly into the engine; the
// package keeps no process-wide state.
package refdata

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

const (
	// DefaultCurrencyID is the currency assumed when a record carries none.
	DefaultCurrencyID = 1
	// DefaultCurrencyCode is printed when a currency id has no table entry.
	DefaultCurrencyCode = "TRY"
)

// Currency is one row of the currency table.
type Currency struct {
	ID   int    `json:"currencyId"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// CurrencyTable looks up currencies by id.
type CurrencyTable interface {
	Currency(id int) (Currency, bool)
}

// Currencies is a CurrencyTable backed by a map. The nil value is an empty table.
type Currencies map[int]Currency

// Currency implements CurrencyTable.
func (c Currencies) Currency(id int) (Currency, bool) {
	cur, ok := c[id]
	return cur, ok
}

// Code returns the short code for id, or DefaultCurrencyCode.
func (c Currencies) Code(id int) string {
	if cur, ok := c[id]; ok && cur.Code != "" {
		return cur.Code
	}
	return DefaultCurrencyCode
}

// TaxType is one row of the tax-type table. Flags holds every boolean
// attribute of the row (is_stoppage, is_withholding, ...).
type TaxType struct {
	Code  string
	Name  string
	Flags map[string]bool
}

// Flag reports whether the named flag is set.
func (t TaxType) Flag(name string) bool {
	return t.Flags[name]
}

// TaxTable looks up tax types by category code.
type TaxTable interface {
	TaxType(code string) (TaxType, bool)
}

// TaxTypes is a TaxTable backed by a map. The nil value is an empty table.
type TaxTypes map[string]TaxType

// TaxType implements TaxTable.
func (t TaxTypes) TaxType(code string) (TaxType, bool) {
	tt, ok := t[code]
	return tt, ok
}

// Codes returns the table's codes in ascending order.
func (t TaxTypes) Codes() []string {
	codes := make([]string, 0, len(t))
	for code := range t {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Tables bundles both reference tables.
type Tables struct {
	Currencies Currencies
	TaxTypes   TaxTypes
}

// ReadCurrencies decodes a JSON array of {currencyId, code, name} objects.
func ReadCurrencies(r io.Reader) (Currencies, error) {
	var rows []Currency
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("refdata: decoding currencies: %w", err)
	}
	table := make(Currencies, len(rows))
	for _, row := range rows {
		table[row.ID] = row
	}
	return table, nil
}

// ReadTaxTypes decodes the tax-type table. Both a bare JSON array and the
// {"data": [...]} envelope are accepted. Rows without a code are skipped.
func ReadTaxTypes(r io.Reader) (TaxTypes, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("refdata: decoding tax types: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(raw, &rows); err != nil {
		var envelope struct {
			Data []map[string]interface{} `json:"data"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("refdata: decoding tax types: %w", err)
		}
		rows = envelope.Data
	}

	table := make(TaxTypes, len(rows))
	for _, row := range rows {
		tt := taxTypeFromRow(row)
		if tt.Code == "" {
			continue
		}
		table[tt.Code] = tt
	}
	return table, nil
}

func taxTypeFromRow(row map[string]interface{}) TaxType {
	tt := TaxType{Flags: make(map[string]bool)}
	for k, v := range row {
		switch k {
		case "code":
			tt.Code = fmt.Sprint(v)
		case "name":
			tt.Name = fmt.Sprint(v)
		default:
			if b, ok := v.(bool); ok {
				tt.Flags[k] = b
			}
		}
	}
	return tt
}

// WriteCurrencies encodes the table in the format read by ReadCurrencies,
// ordered by id.
func WriteCurrencies(w io.Writer, c Currencies) error {
	ids := make([]int, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	rows := make([]Currency, 0, len(ids))
	for _, id := range ids {
		row := c[id]
		row.ID = id
		rows = append(rows, row)
	}
	return json.NewEncoder(w).Encode(rows)
}

// WriteTaxTypes encodes the table in the format read by ReadTaxTypes,
// ordered by code. Flags become boolean fields of each row.
func WriteTaxTypes(w io.Writer, t TaxTypes) error {
	rows := make([]map[string]interface{}, 0, len(t))
	for _, code := range t.Codes() {
		tt := t[code]
		row := make(map[string]interface{}, len(tt.Flags)+2)
		for name, set := range tt.Flags {
			row[name] = set
		}
		row["code"] = code
		row["name"] = tt.Name
		rows = append(rows, row)
	}
	return json.NewEncoder(w).Encode(rows)
}
