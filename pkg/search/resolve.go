package search

import (
	"reflect"
	"strings"
)

// Resolve walks record along a dotted path and returns the value at the end
// of it. Each segment selects a struct field (by exact name, then by json
// tag, then case-insensitively) or a string-keyed map entry. Pointers and
// interfaces are followed along the way. The second return is false when any
// segment is missing, unexported, or sits behind a nil pointer.
func Resolve(record any, path string) (any, bool) {
	v := reflect.ValueOf(record)
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			return nil, false
		}
		var ok bool
		v, ok = step(v, seg)
		if !ok {
			return nil, false
		}
	}
	v = indirect(v)
	if !v.IsValid() {
		return nil, false
	}
	return v.Interface(), true
}

func step(v reflect.Value, seg string) (reflect.Value, bool) {
	v = indirect(v)
	if !v.IsValid() {
		return reflect.Value{}, false
	}
	switch v.Kind() {
	case reflect.Struct:
		return structField(v, seg)
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		key := reflect.ValueOf(seg).Convert(v.Type().Key())
		mv := v.MapIndex(key)
		if !mv.IsValid() {
			return reflect.Value{}, false
		}
		return mv, true
	default:
		return reflect.Value{}, false
	}
}

func structField(v reflect.Value, seg string) (reflect.Value, bool) {
	t := v.Type()
	if f, ok := t.FieldByName(seg); ok && f.IsExported() {
		fv, err := v.FieldByIndexErr(f.Index)
		if err != nil {
			return reflect.Value{}, false
		}
		return fv, true
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if jsonName(f) == seg || strings.EqualFold(f.Name, seg) {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// jsonName extracts the field name from a json struct tag, if any.
func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}
	if i := strings.Index(tag, ","); i >= 0 {
		tag = tag[:i]
	}
	return tag
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}
