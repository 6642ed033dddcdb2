package format

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	defaultUnitName = "lira"
	subunitDefault  = "kuruş"
	subunitGeneric  = "cent"
	zeroWord        = "sıfır"
	negativeWord    = "eksi"
)

var (
	unitWords = [...]string{"", "bir", "iki", "üç", "dört", "beş", "altı", "yedi", "sekiz", "dokuz"}
	teenWords = [...]string{"on", "onbir", "oniki", "onüç", "ondört", "onbeş", "onaltı", "onyedi", "onsekiz", "ondokuz"}
	tenWords  = [...]string{"", "", "yirmi", "otuz", "kırk", "elli", "altmış", "yetmiş", "seksen", "doksan"}

	// magnitudeWords are indexed by the power of 1000.
	magnitudeWords = [...]string{"", "bin", "milyon", "milyar"}
)

// hundredsWords reads 0..999 with no interior spaces. Zero reads as "".
func hundredsWords(n int64) string {
	switch {
	case n <= 0:
		return ""
	case n < 10:
		return unitWords[n]
	case n < 20:
		return teenWords[n-10]
	case n < 100:
		return tenWords[n/10] + unitWords[n%10]
	}

	h := "yüz"
	if n/100 > 1 {
		h = unitWords[n/100] + h
	}
	return h + hundredsWords(n%100)
}

// Cardinal reads a non-negative integer in Turkish. Words inside a
// magnitude group are concatenated; successive groups are separated by a
// single space. ok is false for negative numbers and for numbers beyond
// the magnitude table.
func Cardinal(n int64) (string, bool) {
	if n < 0 {
		return "", false
	}
	if n == 0 {
		return zeroWord, true
	}

	var groups []string
	for i := len(magnitudeWords) - 1; i >= 0; i-- {
		scale := int64(math.Pow(1000, float64(i)))
		group := n / scale
		if i == len(magnitudeWords)-1 && group >= 1000 {
			return "", false
		}
		group %= 1000
		if group == 0 {
			continue
		}
		if i == 1 && group == 1 {
			groups = append(groups, magnitudeWords[1])
			continue
		}
		groups = append(groups, hundredsWords(group)+magnitudeWords[i])
	}
	return strings.Join(groups, " "), true
}

// UnitName returns the lower-cased currency name for ctx, or "lira".
func UnitName(ctx Context) string {
	cur, ok := ctx.lookup()
	if !ok || strings.TrimSpace(cur.Name) == "" {
		return defaultUnitName
	}
	// Casers are stateful, so one is built per call.
	return cases.Lower(language.Turkish).String(strings.TrimSpace(cur.Name))
}

// Words reads an amount in words followed by the currency name, e.g.
// 165.5 -> "yüzaltmışbeş lira elli kuruş". The fraction is rounded to two
// places and omitted when zero; its unit is "kuruş" for the default currency
// and "cent" for any other. Unreadable input yields "sıfır <unit>".
func Words(value interface{}, ctx Context) string {
	unit := UnitName(ctx)
	fallback := zeroWord + " " + unit

	amount, ok := ToNumber(value)
	if !ok {
		return fallback
	}

	magnitude := math.Abs(amount)
	whole := math.Floor(magnitude)
	frac := int64(math.Round((magnitude - whole) * 100))
	if frac == 100 {
		whole++
		frac = 0
	}
	if whole > math.MaxInt64/2 {
		return fallback
	}

	text, ok := Cardinal(int64(whole))
	if !ok {
		return fallback
	}
	result := text + " " + unit

	if frac > 0 {
		fracText, _ := Cardinal(frac)
		subunit := subunitGeneric
		if ctx.Currency() == 1 {
			subunit = subunitDefault
		}
		result += " " + fracText + " " + subunit
	}

	if amount < 0 && (whole > 0 || frac > 0) {
		result = negativeWord + " " + result
	}
	return result
}
