package world

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/annel0/voxel-light/internal/vec"
	"github.com/annel0/voxel-light/internal/world/block"
)

// ErrChunkNotLoaded возвращается при обращении к блоку незагруженного чанка
var ErrChunkNotLoaded = errors.New("chunk not loaded")

// ErrChunkExists возвращается при повторном добавлении чанка с теми же координатами
var ErrChunkExists = errors.New("chunk already exists")

// World хранит загруженные чанки и поддерживает связи между соседями
type World struct {
	chunks map[vec.Vec3]*Chunk // Чанки по координатам
	mu     sync.RWMutex        // Мьютекс для карты чанков
}

// NewWorld создаёт пустой мир
func NewWorld() *World {
	return &World{
		chunks: make(map[vec.Vec3]*Chunk),
	}
}

// AddChunk добавляет чанк и связывает его с уже загруженными соседями в обе стороны
func (w *World) AddChunk(c *Chunk) error {
	if c == nil {
		return fmt.Errorf("nil chunk")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.chunks[c.Coords]; exists {
		return fmt.Errorf("%w: %v", ErrChunkExists, c.Coords)
	}
	w.chunks[c.Coords] = c

	for _, f := range vec.Faces {
		unit, _ := f.UnitVector()
		if n, ok := w.chunks[c.Coords.Add(unit)]; ok {
			c.setNeighbor(f, n)
			n.setNeighbor(f.Opposite(), c)
		}
	}
	return nil
}

// RemoveChunk выгружает чанк и разрывает связи с соседями.
// Возвращает выгруженный чанк и его бывших соседей по граням: их освещение
// нужно обновить через lighting.Engine.UnlinkChunk.
func (w *World) RemoveChunk(coords vec.Vec3) (*Chunk, [vec.FaceCount]*Chunk) {
	var former [vec.FaceCount]*Chunk

	w.mu.Lock()
	defer w.mu.Unlock()

	c, ok := w.chunks[coords]
	if !ok {
		return nil, former
	}
	delete(w.chunks, coords)

	for _, f := range vec.Faces {
		if n := c.Neighbor(f); n != nil {
			former[f] = n
			n.setNeighbor(f.Opposite(), nil)
			c.setNeighbor(f, nil)
		}
	}
	return c, former
}

// Chunk возвращает чанк по координатам чанка
func (w *World) Chunk(coords vec.Vec3) *Chunk {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.chunks[coords]
}

// ChunkAt возвращает чанк, содержащий глобальную позицию блока, и локальные координаты в нём
func (w *World) ChunkAt(global vec.Vec3) (*Chunk, vec.Vec3) {
	return w.Chunk(global.ToChunkCoords()), global.LocalInChunk()
}

// Chunks возвращает все чанки в детерминированном порядке (по Y, Z, X)
func (w *World) Chunks() []*Chunk {
	w.mu.RLock()
	out := make([]*Chunk, 0, len(w.chunks))
	for _, c := range w.chunks {
		out = append(out, c)
	}
	w.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Coords, out[j].Coords
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.X < b.X
	})
	return out
}

// ChunkCount возвращает количество загруженных чанков
func (w *World) ChunkCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return len(w.chunks)
}

// GetBlock возвращает блок по глобальным координатам (воздух для незагруженных чанков)
func (w *World) GetBlock(global vec.Vec3) block.Block {
	c, local := w.ChunkAt(global)
	if c == nil {
		return block.NewAirBlock()
	}
	return c.GetBlock(local)
}

// Light возвращает освещённость блока по глобальным координатам
func (w *World) Light(global vec.Vec3) LightValue {
	c, local := w.ChunkAt(global)
	if c == nil {
		return 0
	}
	return c.Light(local)
}

// SetBlock применяет изменение блока и возвращает его описание для движка освещения
func (w *World) SetBlock(global vec.Vec3, b block.Block) (BlockEdit, error) {
	c, local := w.ChunkAt(global)
	if c == nil {
		return BlockEdit{}, fmt.Errorf("%w: block %v", ErrChunkNotLoaded, global)
	}

	prev := c.SetBlock(local, b)
	return BlockEdit{
		Kind:   ClassifyEdit(prev, b),
		Chunk:  c,
		Pos:    local,
		Before: prev,
		After:  b,
	}, nil
}
