package utils

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{"resnet", "resnet"},
		{int64(125), "125"},
		{88.005407, "88.005407"},
		{1e-7, "0.0000001"},
		{math.NaN(), ""},
		{true, "true"},
		{json.Number("12"), "12"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.in), "%v", tt.in)
	}
}

func TestToInt64Ok(t *testing.T) {
	n, ok := ToInt64Ok(12.0)
	assert.True(t, ok)
	assert.Equal(t, int64(12), n)

	_, ok = ToInt64Ok(12.5)
	assert.False(t, ok)

	_, ok = ToInt64Ok(math.Inf(1))
	assert.False(t, ok)

	n, ok = ToInt64Ok(" 7 ")
	assert.True(t, ok)
	assert.Equal(t, int64(7), n)
}

func TestToFloat64Ok(t *testing.T) {
	f, ok := ToFloat64Ok("3.25")
	assert.True(t, ok)
	assert.Equal(t, 3.25, f)

	_, ok = ToFloat64Ok("vgg")
	assert.False(t, ok)

	f, ok = ToFloat64Ok(int64(4))
	assert.True(t, ok)
	assert.Equal(t, 4.0, f)
}

func TestToBoolOk(t *testing.T) {
	b, ok := ToBoolOk("TRUE")
	assert.True(t, ok)
	assert.True(t, b)

	b, ok = ToBoolOk(0.0)
	assert.True(t, ok)
	assert.False(t, b)

	_, ok = ToBoolOk("maybe")
	assert.False(t, ok)
}
