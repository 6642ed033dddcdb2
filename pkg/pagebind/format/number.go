package format

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/benjaminschreck/go-pagebind/pkg/pagebind/refdata"
)

const (
	zeroAmount  = "0,00"
	zeroPercent = "%0"
)

// ToNumber converts numeric types and numeric strings to float64.
// ok is false for nil, non-numeric input, NaN and infinities.
func ToNumber(val interface{}) (f float64, ok bool) {
	switch v := val.(type) {
	case nil:
		return 0, false
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Stringify renders a raw value the way it is shown when no formatter applies.
// nil becomes the empty string; floats use the shortest decimal form.
func Stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", v)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// groupThousands inserts sep between every three digits of an unsigned
// integer string.
func groupThousands(digits string, sep rune) string {
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteRune(sep)
		}
		b.WriteRune(d)
	}
	return b.String()
}

// Currency formats an amount with '.' grouping, ',' decimals and two
// fraction digits. Missing or non-numeric input yields "0,00". Negative
// amounts get a leading '-' unless they round to zero.
func Currency(value interface{}) string {
	amount, ok := ToNumber(value)
	if !ok {
		return zeroAmount
	}

	fixed := strconv.FormatFloat(math.Abs(amount), 'f', 2, 64)
	intPart, decPart, _ := strings.Cut(fixed, ".")
	result := groupThousands(intPart, '.') + "," + decPart

	if amount < 0 && result != zeroAmount {
		result = "-" + result
	}
	return result
}

// CurrencyWithCode formats the amount and appends the short code of the
// context's currency, falling back to refdata.DefaultCurrencyCode.
func CurrencyWithCode(value interface{}, ctx Context) string {
	return Currency(value) + " " + CurrencyCode(ctx)
}

// CurrencyCode returns the short code of the context's currency.
func CurrencyCode(ctx Context) string {
	if cur, ok := ctx.lookup(); ok && cur.Code != "" {
		return cur.Code
	}
	return refdata.DefaultCurrencyCode
}

// Percent renders "%<value>" for a non-zero numeric value and "%0" otherwise.
func Percent(value interface{}) string {
	rate, ok := ToNumber(value)
	if !ok || rate == 0 {
		return zeroPercent
	}
	return "%" + strconv.FormatFloat(rate, 'f', -1, 64)
}

// Quantity joins a quantity with its unit name, e.g. "3 Adet".
func Quantity(quantity interface{}, unit string) string {
	q := Stringify(quantity)
	if unit == "" {
		return q
	}
	return q + " " + unit
}
