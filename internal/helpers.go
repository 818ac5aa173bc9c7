package internal

import (
	"reflect"
	"strconv"
)

// Value returns the value stored under key with Request.Set, or the zero value.
func Value[T any](r *Request, key any) T {
	if v, ok := r.Get(key).(T); ok {
		return v
	}
	var zero T
	return zero
}

// Param returns the typed route parameter, or the zero value.
func Param[T ~string | ~int | ~int64 | ~float64 | ~bool](r *Request, name string) T {
	v, _ := convertParam[T](r.Param(name))
	return v
}

// Query returns the typed query parameter, or the zero value.
func Query[T ~string | ~int | ~int64 | ~float64 | ~bool](r *Request, name string) T {
	v, _ := convertParam[T](r.Query.Get(name))
	return v
}

// QueryDefault returns defaultValue when the parameter is empty or malformed.
func QueryDefault[T ~string | ~int | ~int64 | ~float64 | ~bool](r *Request, name string, defaultValue T) T {
	raw := r.Query.Get(name)
	if raw == "" {
		return defaultValue
	}
	v, ok := convertParam[T](raw)
	if !ok {
		return defaultValue
	}
	return v
}

// convertParam parses raw by the underlying kind of T, so named types such as
// `type userID string` convert too.
func convertParam[T ~string | ~int | ~int64 | ~float64 | ~bool](raw string) (T, bool) {
	var zero T
	rv := reflect.ValueOf(&zero).Elem()
	switch rv.Kind() {
	case reflect.String:
		rv.SetString(raw)
	case reflect.Int, reflect.Int64:
		v, err := strconv.ParseInt(raw, 10, rv.Type().Bits())
		if err != nil {
			return zero, false
		}
		rv.SetInt(v)
	case reflect.Float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return zero, false
		}
		rv.SetFloat(v)
	case reflect.Bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return zero, false
		}
		rv.SetBool(v)
	default:
		return zero, false
	}
	return zero, true
}
