package pagebind

import (
	"reflect"
	"strings"
)

// TemplateData is the data record a template is bound against.
type TemplateData map[string]interface{}

// Resolve follows a dot-separated key path through nested mappings.
// It returns nil as soon as a segment is missing or the current value is
// not a mapping. Index segments are not supported: "items.0" looks up the
// key "0".
func Resolve(record interface{}, path string) interface{} {
	if path == "" {
		return nil
	}

	current := record
	for _, segment := range strings.Split(path, ".") {
		next, ok := lookupField(current, segment)
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

func lookupField(current interface{}, field string) (interface{}, bool) {
	switch v := current.(type) {
	case nil:
		return nil, false
	case TemplateData:
		val, ok := v[field]
		return val, ok
	case map[string]interface{}:
		val, ok := v[field]
		return val, ok
	case map[string]string:
		val, ok := v[field]
		return val, ok
	case map[string]float64:
		val, ok := v[field]
		return val, ok
	case map[string]int:
		val, ok := v[field]
		return val, ok
	case map[string]bool:
		val, ok := v[field]
		return val, ok
	}

	rv := reflect.ValueOf(current)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String || rv.IsNil() {
		return nil, false
	}
	val := rv.MapIndex(reflect.ValueOf(field).Convert(rv.Type().Key()))
	if !val.IsValid() {
		return nil, false
	}
	return val.Interface(), true
}

// toRows converts the value found at a table key into row records.
// ok is false when the value is not an array.
func toRows(v interface{}) (rows []interface{}, ok bool) {
	switch s := v.(type) {
	case nil:
		return nil, false
	case []interface{}:
		return s, true
	case []map[string]interface{}:
		rows = make([]interface{}, len(s))
		for i := range s {
			rows[i] = s[i]
		}
		return rows, true
	case []TemplateData:
		rows = make([]interface{}, len(s))
		for i := range s {
			rows[i] = s[i]
		}
		return rows, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	rows = make([]interface{}, rv.Len())
	for i := range rows {
		rows[i] = rv.Index(i).Interface()
	}
	return rows, true
}
