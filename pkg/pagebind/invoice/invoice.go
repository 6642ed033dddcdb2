// Package invoice derives the display fields of an invoice record so that a
// template can address them with plain keys: formatted totals, tax totals,
// the amount in words and per-line display values.
package invoice

import (
	"math"
	"strings"

	"github.com/benjaminschreck/go-pagebind/pkg/pagebind"
	"github.com/benjaminschreck/go-pagebind/pkg/pagebind/format"
	"github.com/benjaminschreck/go-pagebind/pkg/pagebind/refdata"
	"github.com/benjaminschreck/go-pagebind/pkg/pagebind/tax"
)

// Options controls where Enrich finds its inputs.
type Options struct {
	// CurrencyKey is the key path of the currency id. Defaults to "currencyId".
	CurrencyKey string
	// ItemsKey is the key of the line item array. Defaults to "invoiceItems".
	ItemsKey string
}

func (o Options) withDefaults() Options {
	if o.CurrencyKey == "" {
		o.CurrencyKey = pagebind.DefaultCurrencyKey
	}
	if o.ItemsKey == "" {
		o.ItemsKey = tax.ItemsKey
	}
	return o
}

// Enrich returns a copy of record with display fields added. Line items are
// copied too, and each gains its own display fields; numeric line fields
// such as unitPrice and total are replaced by their formatted text. The
// input record is not modified. Missing data yields empty or zero displays.
func Enrich(record map[string]interface{}, refs refdata.Tables, opts Options) map[string]interface{} {
	opts = opts.withDefaults()

	out := make(map[string]interface{}, len(record)+24)
	for k, v := range record {
		out[k] = v
	}

	ctx := format.Context{
		CurrencyID: currencyID(pagebind.Resolve(record, opts.CurrencyKey)),
		Currencies: refs.Currencies,
	}
	money := func(v interface{}) string {
		return format.CurrencyWithCode(v, ctx)
	}
	items := tax.ItemsFromRecord(record, opts.ItemsKey)

	// customer
	out["name"] = text(pagebind.Resolve(record, "customer.name"))
	out["address"] = text(pagebind.Resolve(record, "customer.address"))
	out["phone"] = text(pagebind.Resolve(record, "customer.phone"))
	out["taxOffice"] = text(pagebind.Resolve(record, "customer.taxOffice"))
	out["taxNumber"] = text(pagebind.Resolve(record, "customer.vknTckn"))

	out["invoiceNo"] = text(record["invoiceNo"])
	out["dispatchNo"] = text(record["dispatchNo"])
	out["outgoingAddress"] = text(record["outgoingAddress"])
	out["orderInfo"] = text(record["orderInfo"])

	for _, key := range []string{"dateOfIssue", "maturityDate", "actualDispatchDate", "orderDate"} {
		out[key] = format.Date(record[key])
	}

	out["subTotal"] = money(record["lineExtensionAmount"])
	out["totalAmount"] = money(record["payableAmount"])
	out["totalDiscount"] = money(record["allowanceTotalAmount"])
	out["totalStoppage"] = money(tax.SumByFlag(items, refs.TaxTypes, tax.FlagStoppage))
	out["totalAccommodationTax"] = money(tax.SumByCodes(items, tax.AccommodationCode))
	out["totalVat"] = money(tax.SumByCodes(items, tax.VATCode))
	out["totalExciseDuty"] = money(tax.SumByCodes(items, tax.ExciseDutyCodes...))
	out["totalCommunicationTax"] = money(tax.SumByCodes(items, tax.CommunicationCodes[0]))
	out["totalWithholdingTax"] = money(tax.WithholdingTotal(items))
	out["totalWithText"] = format.Words(record["payableAmount"], ctx)

	if rows, ok := record[opts.ItemsKey].([]interface{}); ok {
		enriched := make([]interface{}, len(rows))
		for i, raw := range rows {
			row, ok := raw.(map[string]interface{})
			if !ok {
				enriched[i] = raw
				continue
			}
			enriched[i] = enrichLine(row, ctx)
		}
		out[opts.ItemsKey] = enriched
	}
	return out
}

func enrichLine(row map[string]interface{}, ctx format.Context) map[string]interface{} {
	out := make(map[string]interface{}, len(row)+12)
	for k, v := range row {
		out[k] = v
	}
	item := tax.ItemFromRow(row)

	out["name"] = text(pagebind.Resolve(row, "product.name"))
	out["code"] = text(pagebind.Resolve(row, "product.stockCode"))
	out["description"] = text(row["description"])
	out["quantity"] = format.Quantity(text(row["quantity"]), text(pagebind.Resolve(row, "unitType.name")))
	out["unitPrice"] = format.CurrencyWithCode(row["unitPrice"], ctx)
	out["discount"] = format.Percent(row["discount"])
	out["exciseDuty"] = tax.PercentForCodes(item, tax.ExciseDutyCodes...)
	out["vatRate"] = tax.FirstPercent(item)
	out["communication"] = tax.PercentForCodes(item, tax.CommunicationCodes...)
	out["accomodation"] = tax.PercentForCodes(item, tax.AccommodationCode)
	out["withholdingTaxId"] = tax.WithholdingInfo(item, ctx)
	out["total"] = format.CurrencyWithCode(row["total"], ctx)
	return out
}

// text treats the string spellings of a missing value as missing.
func text(v interface{}) string {
	s := format.Stringify(v)
	switch strings.TrimSpace(s) {
	case "None", "null", "undefined":
		return ""
	}
	return s
}

func currencyID(v interface{}) int {
	n, ok := format.ToNumber(v)
	if !ok || n < 1 || n > math.MaxInt32 || n != math.Trunc(n) {
		return refdata.DefaultCurrencyID
	}
	return int(n)
}
