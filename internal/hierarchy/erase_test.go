package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"java.util.Comparator", "java.util.Comparator"},
		{"java.util.Comparator<java.lang.String>", "java.util.Comparator"},
		{"java.util.Map<java.lang.String, java.util.List<java.lang.Integer>>", "java.util.Map"},
		{"com.acme.Outer<T>.Inner<U>", "com.acme.Outer.Inner"},
		{"example.com/cmp.Comparator[string]", "example.com/cmp.Comparator"},
		{"example.com/kv.Store[string, map[string]int]", "example.com/kv.Store"},
		{"  com.acme.Padded  ", "com.acme.Padded"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Erase(tt.in))
		})
	}
}

func TestErase_SameContractForDifferentArguments(t *testing.T) {
	assert.Equal(t, Erase("java.util.List<java.lang.String>"), Erase("java.util.List<java.lang.Integer>"))
}
