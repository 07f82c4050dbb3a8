package world

import (
	"testing"

	"github.com/annel0/voxel-light/internal/vec"
	"github.com/annel0/voxel-light/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkCreateAndGetBlock(t *testing.T) {
	chunk := NewChunk(vec.Vec3{X: 5, Y: -1, Z: 10})
	assert.Equal(t, vec.Vec3{X: 5, Y: -1, Z: 10}, chunk.Coords)

	pos := vec.Vec3{X: 3, Y: 4, Z: 5}
	b := chunk.GetBlock(pos)
	assert.False(t, b.IsSolid(), "новый чанк заполнен воздухом")

	prev := chunk.SetBlock(pos, block.NewColorBlock(block.ColorStone))
	assert.False(t, prev.IsSolid(), "предыдущий блок — воздух")

	b = chunk.GetBlock(pos)
	assert.Equal(t, block.ColorStone, b.ColorIndex())
	assert.True(t, chunk.HasChanges())

	chunk.ClearChanges()
	assert.False(t, chunk.HasChanges())
}

func TestChunkOutOfBounds(t *testing.T) {
	chunk := NewChunk(vec.Vec3{})
	outside := vec.Vec3{X: ChunkSize, Y: 0, Z: 0}

	assert.False(t, InBounds(outside))
	assert.False(t, InBounds(vec.Vec3{X: -1}))
	assert.Nil(t, chunk.BlockAt(outside))

	chunk.SetBlock(outside, block.NewColorBlock(block.ColorStone))
	assert.False(t, chunk.HasChanges(), "запись за границей игнорируется")

	chunk.SetLight(outside, NewLightValue(15, 15, 15, 15))
	assert.False(t, chunk.HasLightChanges())
	assert.Equal(t, LightValue(0), chunk.Light(outside))
}

func TestChunkIndexLayout(t *testing.T) {
	assert.Equal(t, 0, index(vec.Vec3{}))
	assert.Equal(t, 1, index(vec.Vec3{X: 1}))
	assert.Equal(t, 16, index(vec.Vec3{Z: 1}))
	assert.Equal(t, 256, index(vec.Vec3{Y: 1}))
	assert.Equal(t, ChunkVolume-1, index(vec.Vec3{X: 15, Y: 15, Z: 15}))
}

func TestChunkLightLevels(t *testing.T) {
	chunk := NewChunk(vec.Vec3{})
	pos := vec.Vec3{X: 1, Y: 2, Z: 3}

	chunk.SetLightLevel(pos, ChannelRed, 9)
	chunk.SetLightLevel(pos, ChannelAmbient, 15)
	assert.Equal(t, uint8(9), chunk.LightLevel(pos, ChannelRed))
	assert.Equal(t, uint8(15), chunk.LightLevel(pos, ChannelAmbient))
	assert.Equal(t, uint8(0), chunk.LightLevel(pos, ChannelBlue))
	assert.True(t, chunk.HasLightChanges())

	chunk.ClearLightChanges()
	assert.False(t, chunk.HasLightChanges())

	snap := chunk.SnapshotLight()
	chunk.ClearLight()
	assert.Equal(t, LightValue(0), chunk.Light(pos))
	assert.Equal(t, uint8(9), snap[index(pos)].Get(ChannelRed), "снимок не зависит от чанка")
}

func TestChunkResolveInside(t *testing.T) {
	chunk := NewChunk(vec.Vec3{})

	next, pos, ok := chunk.Resolve(vec.Vec3{X: 4, Y: 4, Z: 4}, vec.FaceTop)
	require.True(t, ok)
	assert.Same(t, chunk, next)
	assert.Equal(t, vec.Vec3{X: 4, Y: 5, Z: 4}, pos)

	_, _, ok = chunk.Resolve(vec.Vec3{}, vec.FaceNone)
	assert.False(t, ok)
}

func TestChunkResolveAcrossBorder(t *testing.T) {
	w := NewWorld()
	origin := NewChunk(vec.Vec3{})
	left := NewChunk(vec.Vec3{X: -1})
	require.NoError(t, w.AddChunk(origin))

	_, _, ok := origin.Resolve(vec.Vec3{X: 0, Y: 7, Z: 3}, vec.FaceLeft)
	assert.False(t, ok, "без соседа переход невозможен")

	require.NoError(t, w.AddChunk(left))
	next, pos, ok := origin.Resolve(vec.Vec3{X: 0, Y: 7, Z: 3}, vec.FaceLeft)
	require.True(t, ok)
	assert.Same(t, left, next)
	assert.Equal(t, vec.Vec3{X: 15, Y: 7, Z: 3}, pos)

	back, pos, ok := left.Resolve(pos, vec.FaceRight)
	require.True(t, ok)
	assert.Same(t, origin, back)
	assert.Equal(t, vec.Vec3{X: 0, Y: 7, Z: 3}, pos)
}

func TestForEachOnFace(t *testing.T) {
	for _, f := range vec.Faces {
		unit, _ := f.UnitVector()
		count := 0
		ForEachOnFace(f, func(local vec.Vec3) {
			count++
			assert.True(t, InBounds(local))
			assert.False(t, InBounds(local.Add(unit)), "клетка %v не лежит на грани %v", local, f)
		})
		assert.Equal(t, ChunkSize*ChunkSize, count)
	}

	count := 0
	ForEachLocal(func(vec.Vec3) { count++ })
	assert.Equal(t, ChunkVolume, count)
}

func TestChunkBlocksRoundTrip(t *testing.T) {
	chunk := NewChunk(vec.Vec3{})
	chunk.SetBlock(vec.Vec3{X: 1, Y: 1, Z: 1}, block.NewColorBlock(block.ColorRedLamp))
	chunk.SetBlock(vec.Vec3{X: 15, Y: 0, Z: 9}, block.NewColorBlock(block.ColorGlass))

	colors := chunk.Blocks()
	require.Len(t, colors, ChunkVolume)

	copyChunk := NewChunk(vec.Vec3{})
	require.True(t, copyChunk.LoadBlocks(colors))
	assert.Equal(t, colors, copyChunk.Blocks())

	assert.False(t, copyChunk.LoadBlocks(colors[:10]), "неверная длина отвергается")
}
