package store

import (
	"fmt"
	"reflect"
)

// Identifiable is implemented by entities that expose a stable identity.
type Identifiable interface {
	Identity() string
}

// IdentityFunc returns the identity of an item.
type IdentityFunc[T any] func(T) string

// IdentityOf extracts the identity of v, either through Identifiable or from an
// exported ID field. The identity must not change when field values change.
func IdentityOf(v any) (string, error) {
	if v == nil {
		return "", fmt.Errorf("no identity for nil")
	}
	if id, ok := v.(Identifiable); ok {
		return id.Identity(), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return "", fmt.Errorf("no identity for nil %T", v)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return fmt.Sprintf("%v", v), nil
	}

	for _, fieldName := range []string{"ID", "Id", "Identity"} {
		field := rv.FieldByName(fieldName)
		if field.IsValid() && field.CanInterface() {
			return fmt.Sprintf("%v", field.Interface()), nil
		}
	}
	return "", fmt.Errorf("no ID field found in %T", v)
}

// DefaultIdentity adapts IdentityOf to an IdentityFunc. Items without an
// identity map to the empty string and are never found by IndexOf.
func DefaultIdentity[T any](item T) string {
	id, err := IdentityOf(item)
	if err != nil {
		return ""
	}
	return id
}
