package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoiseRangeAndDeterminism(t *testing.T) {
	a := NewNoise(42)
	b := NewNoise(42)
	assert.Equal(t, int64(42), a.Seed())

	for i := 0; i < 100; i++ {
		x, y, z := float64(i)*0.37, float64(i)*0.11, float64(i)*0.73

		v := a.Noise2D(x, y)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
		assert.Equal(t, v, b.Noise2D(x, y), "одинаковый сид даёт одинаковый шум")

		w := a.Noise3D(x, y, z)
		assert.GreaterOrEqual(t, w, 0.0)
		assert.LessOrEqual(t, w, 1.0)
	}
}
