package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToKey(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "string", in: "abc", want: "abc"},
		{name: "bytes", in: []byte("abc"), want: "abc"},
		{name: "int64", in: int64(10), want: "10"},
		{name: "uint64", in: uint64(10), want: "10"},
		{name: "integral float", in: float64(10), want: "10"},
		{name: "fraction", in: 2.5, want: "2.5"},
		{name: "bool", in: true, want: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToKey(tt.in))
		})
	}
}

func TestToKeys(t *testing.T) {
	assert.Nil(t, ToKeys(nil))
	assert.Equal(t, []string{"1", "x"}, ToKeys([]any{uint64(1), nil, "x"}))
	assert.Equal(t, []string{"a", "b"}, ToKeys([]string{"a", "b"}))
	assert.Equal(t, []string{"7"}, ToKeys(7))
}
