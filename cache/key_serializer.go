package cache

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// KeySeparator joins the segments of a cache key.
const KeySeparator = "::"

// KeySerializer builds stable cache keys from a method name and arguments.
type KeySerializer interface {
	SerializeKey(method string, args ...any) string
}

// NewDefaultKeySerializer returns a serializer without a namespace.
func NewDefaultKeySerializer() KeySerializer {
	return &keySerializer{}
}

// NewNamespacedKeySerializer returns a serializer that prefixes every key
// with namespace, so one CacheService can hold several memos.
func NewNamespacedKeySerializer(namespace string) KeySerializer {
	return &keySerializer{namespace: namespace}
}

// Prefix returns the key prefix shared by every key built for method, for
// use with CacheService.DeleteByPrefix.
func Prefix(s KeySerializer, method string) string {
	return s.SerializeKey(method) + KeySeparator
}

type keySerializer struct {
	namespace string
}

func (s *keySerializer) SerializeKey(method string, args ...any) string {
	parts := make([]string, 0, len(args)+2)
	if s.namespace != "" {
		parts = append(parts, s.namespace)
	}
	parts = append(parts, method)
	for _, arg := range args {
		parts = append(parts, serializeValue(reflect.ValueOf(arg)))
	}
	return strings.Join(parts, KeySeparator)
}

func serializeValue(rv reflect.Value) string {
	if !rv.IsValid() {
		return "nil"
	}
	switch rv.Kind() {
	case reflect.Func:
		if rv.IsNil() {
			return "nil"
		}
		return fmt.Sprintf("func:%#x", rv.Pointer())
	case reflect.Chan:
		return fmt.Sprintf("chan:%#x", rv.Pointer())
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return "nil"
		}
		return serializeValue(rv.Elem())
	case reflect.Slice:
		if rv.IsNil() {
			return "slice:nil"
		}
		return "slice" + serializeElems(rv)
	case reflect.Array:
		return "array" + serializeElems(rv)
	case reflect.Map:
		if rv.IsNil() {
			return "map:nil"
		}
		pairs := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			pairs = append(pairs, serializeValue(iter.Key())+"="+serializeValue(iter.Value()))
		}
		sort.Strings(pairs)
		return fmt.Sprintf("map[%d]:{%s}", len(pairs), strings.Join(pairs, ","))
	case reflect.Struct:
		rt := rv.Type()
		parts := make([]string, 0, rv.NumField())
		for i := 0; i < rv.NumField(); i++ {
			if f := rt.Field(i); f.IsExported() {
				parts = append(parts, f.Name+":"+serializeValue(rv.Field(i)))
			}
		}
		return "struct:{" + strings.Join(parts, ",") + "}"
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return fmt.Sprintf("%v", rv.Interface())
	}
	if rv.CanInterface() {
		if data, err := json.Marshal(rv.Interface()); err == nil {
			return "json:" + string(data)
		}
	}
	return "fallback:" + rv.Type().String()
}

func serializeElems(rv reflect.Value) string {
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = serializeValue(rv.Index(i))
	}
	return fmt.Sprintf("[%d]:{%s}", len(parts), strings.Join(parts, ","))
}
