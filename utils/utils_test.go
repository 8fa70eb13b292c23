package utils

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsInRange(t *testing.T) {
	assert.True(t, IsInRange(1, 1, 3))
	assert.True(t, IsInRange(1.5, 2.0, 2.0))
	assert.False(t, IsInRange[int64](0, -1, 10))
}

func TestIntBounds(t *testing.T) {
	lo, hi, ok := IntBounds(reflect.Uint8)
	assert.True(t, ok)
	assert.Equal(t, int64(0), lo)
	assert.Equal(t, int64(255), hi)

	_, _, ok = IntBounds(reflect.String)
	assert.False(t, ok)
}

func TestUnpack2(t *testing.T) {
	a, b := Unpack2([]string{"1", "2", "3"})
	assert.Equal(t, "1", a)
	assert.Equal(t, "2", b)

	a, b = Unpack2([]string{"x"})
	assert.Equal(t, "x", a)
	assert.Empty(t, b)
}
