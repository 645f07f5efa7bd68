package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTruthy(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"null", Null, false},
		{"false", Boolean(false), false},
		{"true", Boolean(true), true},
		{"empty string", String(""), false},
		{"non-empty string", String("x"), true},
		{"zero", Number(0), false},
		{"non-zero", Number(1), true},
		{"empty array", Array(nil), false},
		{"non-empty array", Array([]Value{Number(1)}), true},
		{"empty object", Object(map[string]Value{}), false},
		{"non-empty object", Object(map[string]Value{"a": Number(1)}), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.v.IsTruthy())
		})
	}
}

func TestToString(t *testing.T) {
	assert.Equal(t, "", Null.ToString())
	assert.Equal(t, "hi", String("hi").ToString())
	assert.Equal(t, "true", Boolean(true).ToString())
	assert.Equal(t, "3", Number(3).ToString())
	assert.Equal(t, "3.5", Number(3.5).ToString())
}

func TestStructEqual(t *testing.T) {
	assert.True(t, StructEqual(Number(1), Number(1)))
	assert.False(t, StructEqual(Number(1), Number(2)))
	assert.False(t, StructEqual(Number(1), String("1")))
	assert.True(t, StructEqual(Array([]Value{Number(1), String("a")}), Array([]Value{Number(1), String("a")})))
	assert.False(t, StructEqual(Array([]Value{Number(1)}), Array([]Value{Number(2)})))
}
