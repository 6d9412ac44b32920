package backend

import (
	"fmt"
	"net/url"
	"reflect"
)

// BuildParams converts a filter map into query parameters. Nil and empty
// values are dropped; slices and arrays add the key once per element.
func BuildParams(in map[string]any) url.Values {
	out := url.Values{}
	for key, value := range in {
		addParam(out, key, reflect.ValueOf(value))
	}
	return out
}

func addParam(out url.Values, key string, v reflect.Value) {
	if !v.IsValid() {
		return
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return
		}
		addParam(out, key, v.Elem())
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			addParam(out, key, v.Index(i))
		}
	default:
		s := fmt.Sprint(v.Interface())
		if s == "" {
			return
		}
		out.Add(key, s)
	}
}
