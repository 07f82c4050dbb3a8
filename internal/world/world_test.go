package world

import (
	"errors"
	"testing"

	"github.com/annel0/voxel-light/internal/vec"
	"github.com/annel0/voxel-light/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldAddLinksNeighbors(t *testing.T) {
	w := NewWorld()
	center := NewChunk(vec.Vec3{})
	require.NoError(t, w.AddChunk(center))

	var around []*Chunk
	for _, f := range vec.Faces {
		unit, _ := f.UnitVector()
		n := NewChunk(unit)
		require.NoError(t, w.AddChunk(n))
		around = append(around, n)
	}

	for i, f := range vec.Faces {
		assert.Same(t, around[i], center.Neighbor(f), "сосед по грани %v", f)
		assert.Same(t, center, around[i].Neighbor(f.Opposite()), "обратная ссылка по грани %v", f)
	}
	assert.Equal(t, 7, w.ChunkCount())

	err := w.AddChunk(NewChunk(vec.Vec3{}))
	assert.True(t, errors.Is(err, ErrChunkExists))
	assert.Error(t, w.AddChunk(nil))
}

func TestWorldRemoveUnlinks(t *testing.T) {
	w := NewWorld()
	a := NewChunk(vec.Vec3{})
	b := NewChunk(vec.Vec3{Y: 1})
	require.NoError(t, w.AddChunk(a))
	require.NoError(t, w.AddChunk(b))
	require.Same(t, b, a.Neighbor(vec.FaceTop))

	removed, former := w.RemoveChunk(vec.Vec3{Y: 1})
	assert.Same(t, b, removed)
	assert.Same(t, a, former[vec.FaceDown], "бывший сосед возвращается по своей грани")
	assert.Nil(t, former[vec.FaceTop])
	assert.Nil(t, a.Neighbor(vec.FaceTop))
	assert.Nil(t, b.Neighbor(vec.FaceDown))
	assert.Nil(t, w.Chunk(vec.Vec3{Y: 1}))

	again, none := w.RemoveChunk(vec.Vec3{Y: 1})
	assert.Nil(t, again, "повторное удаление ничего не возвращает")
	assert.Equal(t, [vec.FaceCount]*Chunk{}, none)
}

func TestWorldChunksOrdered(t *testing.T) {
	w := NewWorld()
	coords := []vec.Vec3{{X: 1, Y: 1}, {Z: 1}, {X: 1}, {}, {Y: 1}}
	for _, c := range coords {
		require.NoError(t, w.AddChunk(NewChunk(c)))
	}

	got := make([]vec.Vec3, 0, len(coords))
	for _, c := range w.Chunks() {
		got = append(got, c.Coords)
	}
	assert.Equal(t, []vec.Vec3{{}, {X: 1}, {Z: 1}, {Y: 1}, {X: 1, Y: 1}}, got)
}

func TestWorldGlobalAccess(t *testing.T) {
	w := NewWorld()
	require.NoError(t, w.AddChunk(NewChunk(vec.Vec3{X: -1, Y: 0, Z: 0})))

	global := vec.Vec3{X: -3, Y: 5, Z: 7}
	c, local := w.ChunkAt(global)
	require.NotNil(t, c)
	assert.Equal(t, vec.Vec3{X: -1}, c.Coords)
	assert.Equal(t, vec.Vec3{X: 13, Y: 5, Z: 7}, local)

	c.SetLight(local, NewLightValue(0, 4, 0, 0))
	assert.Equal(t, uint8(4), w.Light(global).Get(ChannelRed))

	missing := w.GetBlock(vec.Vec3{X: 100})
	assert.False(t, missing.IsSolid(), "незагруженный чанк читается как воздух")
	assert.Equal(t, LightValue(0), w.Light(vec.Vec3{X: 100}))
}

func TestWorldSetBlockEdits(t *testing.T) {
	w := NewWorld()
	require.NoError(t, w.AddChunk(NewChunk(vec.Vec3{})))
	pos := vec.Vec3{X: 2, Y: 3, Z: 4}

	edit, err := w.SetBlock(pos, block.NewColorBlock(block.ColorStone))
	require.NoError(t, err)
	assert.Equal(t, EditPlace, edit.Kind)
	assert.Equal(t, pos, edit.Pos)
	assert.Same(t, w.Chunk(vec.Vec3{}), edit.Chunk)

	edit, err = w.SetBlock(pos, block.NewColorBlock(block.ColorStone))
	require.NoError(t, err)
	assert.Equal(t, EditNone, edit.Kind)

	edit, err = w.SetBlock(pos, block.NewColorBlock(block.ColorRedLamp))
	require.NoError(t, err)
	assert.Equal(t, EditRecolor, edit.Kind)
	assert.Equal(t, block.ColorStone, edit.Before.ColorIndex())

	edit, err = w.SetBlock(pos, block.NewAirBlock())
	require.NoError(t, err)
	assert.Equal(t, EditRemove, edit.Kind)

	_, err = w.SetBlock(vec.Vec3{Y: 40}, block.NewColorBlock(block.ColorStone))
	assert.True(t, errors.Is(err, ErrChunkNotLoaded))
}

func TestClassifyEdit(t *testing.T) {
	air := block.NewAirBlock()
	stone := block.NewColorBlock(block.ColorStone)
	glass := block.NewColorBlock(block.ColorGlass)

	assert.Equal(t, EditNone, ClassifyEdit(air, air))
	assert.Equal(t, EditNone, ClassifyEdit(glass, glass))
	assert.Equal(t, EditPlace, ClassifyEdit(air, glass))
	assert.Equal(t, EditRemove, ClassifyEdit(stone, air))
	assert.Equal(t, EditRecolor, ClassifyEdit(stone, glass))

	assert.Equal(t, "recolor", EditRecolor.String())
	assert.Equal(t, "none", EditKind(42).String())
}

func TestGeneratorDeterministic(t *testing.T) {
	coords := vec.Vec3{X: 1, Y: 0, Z: -2}
	a := NewWorldGenerator(99).GenerateChunk(coords)
	b := NewWorldGenerator(99).GenerateChunk(coords)

	assert.Equal(t, a.Blocks(), b.Blocks(), "один сид даёт одинаковые чанки")
	assert.False(t, a.HasChanges(), "сгенерированный чанк не помечен изменённым")
	assert.False(t, a.HasLightChanges(), "генератор не считает освещённость")

	solid := 0
	for _, c := range a.Blocks() {
		if c != block.AirColorIndex {
			solid++
		}
	}
	assert.Greater(t, solid, 0, "у поверхностного чанка есть земля")
}

func TestGeneratorSkyIsEmpty(t *testing.T) {
	sky := NewWorldGenerator(7).GenerateChunk(vec.Vec3{Y: 5})
	for _, c := range sky.Blocks() {
		require.Equal(t, block.AirColorIndex, c, "высоко над поверхностью только воздух")
	}
}
