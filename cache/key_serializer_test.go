package cache

import (
	"strings"
	"testing"
)

func joinKey(parts ...string) string {
	return strings.Join(parts, KeySeparator)
}

func TestKeySerializer_Values(t *testing.T) {
	serializer := NewDefaultKeySerializer()
	value := 42

	type link struct {
		Name   string
		Detail bool
		secret string
	}

	tests := []struct {
		name   string
		method string
		args   []any
		want   string
	}{
		{name: "no args", method: "LinksOf", want: "LinksOf"},
		{name: "basic types", method: "Get", args: []any{1, "customer", true, 2.5}, want: joinKey("Get", "1", "customer", "true", "2.5")},
		{name: "nil", method: "Get", args: []any{nil}, want: joinKey("Get", "nil")},
		{name: "pointer", method: "Get", args: []any{&value}, want: joinKey("Get", "42")},
		{name: "nil pointer", method: "Get", args: []any{(*int)(nil)}, want: joinKey("Get", "nil")},
		{name: "slice", method: "Get", args: []any{[]string{"a", "b"}}, want: joinKey("Get", "slice[2]:{a,b}")},
		{name: "nil slice", method: "Get", args: []any{[]string(nil)}, want: joinKey("Get", "slice:nil")},
		{name: "array", method: "Get", args: []any{[2]int{1, 2}}, want: joinKey("Get", "array[2]:{1,2}")},
		{name: "map sorted", method: "Get", args: []any{map[string]int{"b": 2, "a": 1}}, want: joinKey("Get", "map[2]:{a=1,b=2}")},
		{name: "struct exported fields", method: "Get", args: []any{link{Name: "orders", Detail: true, secret: "x"}}, want: joinKey("Get", "struct:{Name:orders,Detail:true}")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := serializer.SerializeKey(tt.method, tt.args...); got != tt.want {
				t.Errorf("SerializeKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeySerializer_FunctionsAndChannels(t *testing.T) {
	serializer := NewDefaultKeySerializer()
	fn := func() {}
	ch := make(chan int)

	k1 := serializer.SerializeKey("Get", fn)
	if k1 != serializer.SerializeKey("Get", fn) {
		t.Error("function keys should be stable within a process")
	}
	if !strings.HasPrefix(k1, joinKey("Get", "func:")) {
		t.Errorf("expected func: prefix, got %q", k1)
	}
	if k := serializer.SerializeKey("Get", ch); !strings.HasPrefix(k, joinKey("Get", "chan:")) {
		t.Errorf("expected chan: prefix, got %q", k)
	}
}

func TestNamespacedKeySerializer(t *testing.T) {
	serializer := NewNamespacedKeySerializer("catalog")

	key := serializer.SerializeKey("LinksOf", "customer")
	if key != "catalog::LinksOf::customer" {
		t.Errorf("unexpected key %q", key)
	}

	prefix := Prefix(serializer, "LinksOf")
	if prefix != "catalog::LinksOf::" {
		t.Errorf("unexpected prefix %q", prefix)
	}
	if !strings.HasPrefix(key, prefix) {
		t.Errorf("key %q should start with prefix %q", key, prefix)
	}
	if strings.HasPrefix(serializer.SerializeKey("LinksOfAll", "x"), prefix) {
		t.Error("prefix must not match other methods sharing a name prefix")
	}
}

func BenchmarkKeySerializer(b *testing.B) {
	serializer := NewNamespacedKeySerializer("catalog")
	args := []any{"customer", []int{1, 2, 3}, map[string]int{"depth": 1}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		serializer.SerializeKey("LinksOf", args...)
	}
}
