package block

import (
	"testing"

	"github.com/annel0/voxel-light/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockAirPredicates(t *testing.T) {
	pal := DefaultPalette()
	air := NewAirBlock()
	var absent *Block

	for _, b := range []*Block{&air, absent} {
		assert.False(t, b.IsSolid(), "воздух не должен быть твёрдым")
		assert.False(t, b.IsOpaque(pal), "воздух не должен быть непрозрачным")
		assert.False(t, b.IsTransparent(pal), "воздух не должен быть прозрачным")
		assert.False(t, b.IsAOCaster(pal, CasterPolicySolid))
		assert.True(t, b.IsLightCaster(pal, CasterPolicySolid), "через воздух свет проходит")
		assert.Equal(t, AirColorIndex, b.ColorIndex())
	}

	def := NewBlock()
	assert.False(t, def.IsSolid(), "блок по умолчанию — воздух")
}

func TestBlockSolidPredicatesExclusive(t *testing.T) {
	pal := DefaultPalette()

	for idx := 0; idx < int(AirColorIndex); idx++ {
		b := NewColorBlock(uint8(idx))
		require.True(t, b.IsSolid())
		assert.NotEqual(t, b.IsOpaque(pal), b.IsTransparent(pal),
			"цвет %d: opaque и transparent должны быть взаимоисключающими", idx)
	}

	glass := NewColorBlock(ColorGlass)
	assert.True(t, glass.IsTransparent(pal))
	assert.False(t, glass.IsAOCaster(pal, CasterPolicyOpaque))
	assert.True(t, glass.IsLightCaster(pal, CasterPolicyOpaque))
	assert.True(t, glass.IsAOCaster(pal, CasterPolicySolid))
	assert.False(t, glass.IsLightCaster(pal, CasterPolicySolid))

	stone := NewColorBlock(ColorStone)
	assert.True(t, stone.IsOpaque(pal))
	assert.True(t, stone.IsOpaque(nil), "без палитры твёрдый блок непрозрачен")
	assert.False(t, stone.IsLightCaster(pal, CasterPolicyOpaque))
}

func TestBlockEquality(t *testing.T) {
	a, b := NewAirBlock(), NewAirBlock()
	red, red2, stone := NewColorBlock(ColorRedLamp), NewColorBlock(ColorRedLamp), NewColorBlock(ColorStone)

	assert.True(t, a.Equal(&b))
	assert.True(t, a.Equal(nil))
	assert.False(t, a.Equal(&red))
	assert.False(t, red.Equal(&a))
	assert.True(t, red.Equal(&red2))
	assert.False(t, red.Equal(&stone))

	cp := red.Copy()
	cp.SetColorIndex(ColorStone)
	assert.Equal(t, ColorRedLamp, red.ColorIndex(), "копия не должна влиять на оригинал")
}

func TestBlockEmission(t *testing.T) {
	pal := DefaultPalette()

	lamp := NewColorBlock(ColorWhiteLamp)
	assert.Equal(t, [3]uint8{15, 15, 15}, lamp.Emission(pal))
	assert.True(t, lamp.IsLightSource(pal))

	stone := NewColorBlock(ColorStone)
	assert.False(t, stone.IsLightSource(pal))
	assert.False(t, lamp.IsLightSource(nil))
}

func TestAwareBlockFaceTargets(t *testing.T) {
	pool := vec.NewPool()
	stone := NewColorBlock(ColorStone)
	shape := vec.Vec3{X: 3, Y: 5, Z: 2}

	cases := []struct {
		face vec.Face
		want *vec.Vec3
	}{
		{vec.FaceLeft, &vec.Vec3{X: 2, Y: 5, Z: 2}},
		{vec.FaceRight, &vec.Vec3{X: 4, Y: 5, Z: 2}},
		{vec.FaceTop, &vec.Vec3{X: 3, Y: 6, Z: 2}},
		{vec.FaceDown, &vec.Vec3{X: 3, Y: 4, Z: 2}},
		{vec.FaceFront, &vec.Vec3{X: 3, Y: 5, Z: 3}},
		{vec.FaceBack, &vec.Vec3{X: 3, Y: 5, Z: 1}},
		{vec.Face(6), nil},
		{vec.FaceNone, nil},
	}

	for _, tc := range cases {
		ab := NewAwareBlock(pool, &stone, &shape, nil, tc.face)
		if tc.want == nil {
			assert.Nil(t, ab.ShapeTargetPos, "грань %d: цель должна отсутствовать", tc.face)
			assert.Equal(t, vec.FaceNone, ab.Face)
		} else {
			require.NotNil(t, ab.ShapeTargetPos, "грань %s", tc.face)
			assert.Equal(t, *tc.want, *ab.ShapeTargetPos, "грань %s", tc.face)
		}
		ab.Release()
	}

	noShape := NewAwareBlock(pool, &stone, nil, nil, vec.FaceTop)
	assert.Nil(t, noShape.ShapeTargetPos, "без позиции фигуры цели нет")
}

func TestAwareBlockSetFaceAndCopy(t *testing.T) {
	pool := vec.NewPool()
	lamp := NewColorBlock(ColorRedLamp)
	shape := vec.Vec3{X: 3, Y: 5, Z: 2}
	chunk := vec.Vec3{X: 1, Y: 0, Z: -1}

	ab := NewAwareBlock(pool, &lamp, &shape, &chunk, vec.FaceTop)
	require.NotNil(t, ab.ShapeTargetPos)

	// Позиции скопированы, а не разделены с вызывающим
	shape.X = 100
	assert.Equal(t, 3, ab.ShapePos.X)

	ab.SetTouchedFace(vec.FaceBack)
	assert.Equal(t, vec.Vec3{X: 3, Y: 5, Z: 1}, *ab.ShapeTargetPos)

	cp := ab.Copy()
	assert.NotSame(t, ab.ShapePos, cp.ShapePos)
	assert.NotSame(t, ab.ChunkPos, cp.ChunkPos)
	assert.NotSame(t, ab.ShapeTargetPos, cp.ShapeTargetPos)
	assert.Equal(t, *ab.ShapeTargetPos, *cp.ShapeTargetPos)
	assert.True(t, ab.Block.Equal(&cp.Block))

	cp.SetTouchedFace(vec.FaceLeft)
	assert.Equal(t, vec.Vec3{X: 3, Y: 5, Z: 1}, *ab.ShapeTargetPos, "изменение копии не должно менять оригинал")

	ab.SetTouchedFace(vec.Face(9))
	assert.Nil(t, ab.ShapeTargetPos)

	before := pool.Available()
	cp.Release()
	assert.Equal(t, before+3, pool.Available(), "Release должен вернуть три вектора в пул")
	assert.Nil(t, cp.ShapePos)
}

func TestParsePalette(t *testing.T) {
	data := []byte(`
colors:
  - index: 0
    name: stone
    rgb: [128, 128, 128]
  - index: 10
    name: torch
    rgb: [255, 200, 80]
    emission: [14, 10, 4]
  - index: 11
    name: ice
    rgb: [180, 220, 255]
    transparent: true
`)
	pal, err := ParsePalette(data)
	require.NoError(t, err)
	assert.Equal(t, 3, pal.Len())
	assert.Equal(t, [3]uint8{14, 10, 4}, pal.Emission(10))
	assert.True(t, pal.IsTransparent(11))
	assert.False(t, pal.IsTransparent(0))

	entry, ok := pal.Get(10)
	require.True(t, ok)
	assert.Equal(t, "torch", entry.Name)

	_, err = ParsePalette([]byte("colors:\n  - index: 255\n    name: bad\n"))
	assert.Error(t, err, "индекс воздуха недопустим")

	_, err = ParsePalette([]byte("colors:\n  - index: 1\n    emission: [16, 0, 0]\n"))
	assert.Error(t, err, "свечение больше 15 недопустимо")

	_, err = ParsePalette([]byte("colors:\n  - index: 1\n    rgb: [1, 2]\n"))
	assert.Error(t, err)
}

func TestParseCasterPolicy(t *testing.T) {
	p, err := ParseCasterPolicy("Solid")
	require.NoError(t, err)
	assert.Equal(t, CasterPolicySolid, p)

	p, err = ParseCasterPolicy("")
	require.NoError(t, err)
	assert.Equal(t, CasterPolicyOpaque, p)

	_, err = ParseCasterPolicy("glass")
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestShippedPaletteMatchesDefault(t *testing.T) {
	pal, err := LoadPalette("../../../assets/palette.yaml")
	require.NoError(t, err)

	def := DefaultPalette()
	assert.Equal(t, def.Len(), pal.Len())
	for i := 0; i < int(AirColorIndex); i++ {
		idx := uint8(i)
		want, wok := def.Get(idx)
		got, gok := pal.Get(idx)
		require.Equal(t, wok, gok, "цвет %d", idx)
		assert.Equal(t, want, got, "цвет %d", idx)
	}

	_, err = LoadPalette("missing.yaml")
	assert.Error(t, err)
}
