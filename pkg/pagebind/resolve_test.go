package pagebind

import "testing"

type customerMap map[string]interface{}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		record interface{}
		path   string
		want   interface{}
	}{
		{
			name:   "nested field",
			record: map[string]interface{}{"customer": map[string]interface{}{"name": "Acme"}},
			path:   "customer.name",
			want:   "Acme",
		},
		{
			name:   "null intermediate",
			record: map[string]interface{}{"customer": nil},
			path:   "customer.name",
			want:   nil,
		},
		{
			name:   "intermediate is not a mapping",
			record: map[string]interface{}{"customer": "Acme"},
			path:   "customer.name",
			want:   nil,
		},
		{
			name:   "missing key",
			record: TemplateData{"a": 1},
			path:   "b",
			want:   nil,
		},
		{
			name:   "top level",
			record: TemplateData{"invoiceNo": "INV-1"},
			path:   "invoiceNo",
			want:   "INV-1",
		},
		{
			name:   "string map miss is nil",
			record: map[string]interface{}{"m": map[string]string{"a": "x"}},
			path:   "m.b",
			want:   nil,
		},
		{
			name:   "string map hit",
			record: map[string]interface{}{"m": map[string]string{"a": "x"}},
			path:   "m.a",
			want:   "x",
		},
		{
			name:   "named map type",
			record: map[string]interface{}{"c": customerMap{"name": "Beta"}},
			path:   "c.name",
			want:   "Beta",
		},
		{
			name:   "no index segments",
			record: map[string]interface{}{"items": []interface{}{"a"}},
			path:   "items.0",
			want:   nil,
		},
		{
			name:   "empty path",
			record: TemplateData{"": "x"},
			path:   "",
			want:   nil,
		},
		{
			name:   "nil record",
			record: nil,
			path:   "a",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.record, tt.path)
			if got != tt.want {
				t.Errorf("Resolve(%v, %q) = %#v, want %#v", tt.record, tt.path, got, tt.want)
			}
		})
	}
}

func TestResolveKeepsNonScalarValues(t *testing.T) {
	items := []interface{}{map[string]interface{}{"a": 1}}
	got := Resolve(TemplateData{"data": map[string]interface{}{"items": items}}, "data.items")
	rows, ok := got.([]interface{})
	if !ok || len(rows) != 1 {
		t.Fatalf("expected the items slice, got %#v", got)
	}
}
