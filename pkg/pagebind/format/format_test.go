package format

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode"

	"github.com/benjaminschreck/go-pagebind/pkg/pagebind/refdata"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{name: "thousands", value: 1234.5, want: "1.234,50"},
		{name: "nil", value: nil, want: "0,00"},
		{name: "zero", value: 0, want: "0,00"},
		{name: "small", value: 7, want: "7,00"},
		{name: "millions", value: 1234567.891, want: "1.234.567,89"},
		{name: "exact thousand", value: 1000, want: "1.000,00"},
		{name: "numeric string", value: "2500.75", want: "2.500,75"},
		{name: "padded string", value: " 12 ", want: "12,00"},
		{name: "json number", value: json.Number("99.999"), want: "100,00"},
		{name: "non numeric string", value: "abc", want: "0,00"},
		{name: "bool", value: true, want: "0,00"},
		{name: "negative", value: -1234.5, want: "-1.234,50"},
		{name: "negative rounds to zero", value: -0.001, want: "0,00"},
		{name: "int64", value: int64(987654321), want: "987.654.321,00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.value); got != tt.want {
				t.Errorf("Currency(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestCurrencyWithCode(t *testing.T) {
	table := refdata.Currencies{
		1: {ID: 1, Code: "TRY", Name: "Türk Lirası"},
		2: {ID: 2, Code: "USD", Name: "Dolar"},
	}

	tests := []struct {
		name string
		ctx  Context
		want string
	}{
		{name: "default id", ctx: Context{Currencies: table}, want: "1.234,50 TRY"},
		{name: "usd", ctx: Context{CurrencyID: 2, Currencies: table}, want: "1.234,50 USD"},
		{name: "unknown id", ctx: Context{CurrencyID: 42, Currencies: table}, want: "1.234,50 TRY"},
		{name: "no table", ctx: Context{CurrencyID: 2}, want: "1.234,50 TRY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrencyWithCode(1234.5, tt.ctx); got != tt.want {
				t.Errorf("CurrencyWithCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		value interface{}
		want  string
	}{
		{value: 18, want: "%18"},
		{value: 18.0, want: "%18"},
		{value: 0.5, want: "%0.5"},
		{value: "20", want: "%20"},
		{value: 0, want: "%0"},
		{value: nil, want: "%0"},
		{value: "", want: "%0"},
		{value: "n/a", want: "%0"},
	}

	for _, tt := range tests {
		if got := Percent(tt.value); got != tt.want {
			t.Errorf("Percent(%#v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{name: "plain date", value: "2024-03-05", want: "05.03.2024"},
		{name: "utc timestamp", value: "2024-03-05T10:15:00Z", want: "05.03.2024"},
		{name: "offset timestamp", value: "2024-12-31T23:59:59+03:00", want: "31.12.2024"},
		{name: "fractional seconds", value: "2023-01-09T08:00:00.123Z", want: "09.01.2023"},
		{name: "space separated", value: "2024-03-05 10:15", want: "05.03.2024"},
		{name: "time value", value: time.Date(2022, 7, 1, 0, 0, 0, 0, time.UTC), want: "01.07.2022"},
		{name: "nil", value: nil, want: ""},
		{name: "empty", value: "", want: ""},
		{name: "garbage", value: "yesterday", want: ""},
		{name: "invalid day", value: "2024-02-30", want: ""},
		{name: "number", value: 20240305, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Date(tt.value); got != tt.want {
				t.Errorf("Date(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestCardinal(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "sıfır"},
		{5, "beş"},
		{10, "on"},
		{19, "ondokuz"},
		{40, "kırk"},
		{99, "doksandokuz"},
		{100, "yüz"},
		{165, "yüzaltmışbeş"},
		{300, "üçyüz"},
		{1000, "bin"},
		{1001, "bin bir"},
		{2024, "ikibin yirmidört"},
		{15750, "onbeşbin yediyüzelli"},
		{1000000, "birmilyon"},
		{1234567, "birmilyon ikiyüzotuzdörtbin beşyüzaltmışyedi"},
		{2000000000, "ikimilyar"},
	}

	for _, tt := range tests {
		got, ok := Cardinal(tt.n)
		if !ok || got != tt.want {
			t.Errorf("Cardinal(%d) = %q, %v; want %q", tt.n, got, ok, tt.want)
		}
	}

	if _, ok := Cardinal(-1); ok {
		t.Error("Cardinal(-1) should fail")
	}
	if _, ok := Cardinal(1_000_000_000_000); ok {
		t.Error("Cardinal(1e12) should fail")
	}
}

func TestWords(t *testing.T) {
	table := refdata.Currencies{
		1: {ID: 1, Code: "TRY", Name: "TÜRK LİRASI"},
		2: {ID: 2, Code: "USD", Name: "Dolar"},
	}

	tests := []struct {
		name  string
		value interface{}
		ctx   Context
		want  string
	}{
		{name: "whole amount", value: 165, ctx: Context{CurrencyID: 1}, want: "yüzaltmışbeş lira"},
		{name: "zero", value: 0, ctx: Context{}, want: "sıfır lira"},
		{name: "nil", value: nil, ctx: Context{}, want: "sıfır lira"},
		{name: "garbage", value: "x", ctx: Context{}, want: "sıfır lira"},
		{name: "kuruş", value: 12.5, ctx: Context{}, want: "oniki lira elli kuruş"},
		{name: "cent", value: 12.05, ctx: Context{CurrencyID: 2, Currencies: table}, want: "oniki dolar beş cent"},
		{name: "turkish casing", value: 3, ctx: Context{CurrencyID: 1, Currencies: table}, want: "üç türk lirası"},
		{name: "fraction carry", value: 9.999, ctx: Context{}, want: "on lira"},
		{name: "negative", value: -2, ctx: Context{}, want: "eksi iki lira"},
		{name: "too large", value: 5e12, ctx: Context{}, want: "sıfır lira"},
		{name: "numeric string", value: "1500.25", ctx: Context{}, want: "bin beşyüz lira yirmibeş kuruş"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Words(tt.value, tt.ctx); got != tt.want {
				t.Errorf("Words(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestWordsHasNoDigitsAndIsDeterministic(t *testing.T) {
	first := Words(165, Context{CurrencyID: 1})
	for i := 0; i < 10; i++ {
		if got := Words(165, Context{CurrencyID: 1}); got != first {
			t.Fatalf("run %d: %q != %q", i, got, first)
		}
	}
	for _, r := range first {
		if unicode.IsDigit(r) || unicode.IsUpper(r) {
			t.Fatalf("Words(165) = %q contains a digit or upper-case letter", first)
		}
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		value interface{}
		want  string
	}{
		{nil, ""},
		{"x", "x"},
		{165.0, "165"},
		{12.5, "12.5"},
		{1000000.0, "1000000"},
		{42, "42"},
		{uint8(7), "7"},
		{true, "true"},
		{json.Number("3.10"), "3.10"},
	}

	for _, tt := range tests {
		if got := Stringify(tt.value); got != tt.want {
			t.Errorf("Stringify(%#v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestQuantity(t *testing.T) {
	if got := Quantity(3, "Adet"); got != "3 Adet" {
		t.Errorf("Quantity() = %q", got)
	}
	if got := Quantity(2.5, ""); got != "2.5" {
		t.Errorf("Quantity() = %q", got)
	}
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	want := []string{NameCurrency, NameCurrencyWithCode, NameDate, NamePercent, NameText, NameWords}
	if got := strings.Join(r.Names(), ","); got != strings.Join(want, ",") {
		t.Fatalf("Names() = %v, want %v", r.Names(), want)
	}

	ctx := Context{}
	if got := r.Apply(NameCurrency, 1234.5, ctx); got != "1.234,50" {
		t.Errorf("Apply(currency) = %q", got)
	}
	if got := r.Apply("", 12.5, ctx); got != "12.5" {
		t.Errorf("Apply(\"\") = %q", got)
	}
	if got := r.Apply("unknown", "raw", ctx); got != "raw" {
		t.Errorf("Apply(unknown) = %q", got)
	}

	if err := r.Register("", func(interface{}, Context) string { return "" }); err == nil {
		t.Error("Register with empty name should fail")
	}
	if err := r.Register("nilfn", nil); err == nil {
		t.Error("Register with nil formatter should fail")
	}

	if err := r.Register("boom", func(interface{}, Context) string { panic("boom") }); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if got := r.Apply("boom", 7, ctx); got != "7" {
		t.Errorf("panicking formatter should degrade to raw value, got %q", got)
	}

	clone := r.Clone()
	_ = clone.Register("upper", func(v interface{}, _ Context) string { return strings.ToUpper(Stringify(v)) })
	if _, ok := r.Lookup("upper"); ok {
		t.Error("Register on clone leaked into original")
	}

	if len(NewRegistry().Names()) != 0 {
		t.Error("NewRegistry() should be empty")
	}
}

func TestRegistryConcurrentUse(t *testing.T) {
	r := DefaultRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = r.Register("f", func(v interface{}, _ Context) string { return Stringify(v) })
			_ = r.Apply(NameWords, i*100, Context{})
		}(i)
	}
	wg.Wait()
}
