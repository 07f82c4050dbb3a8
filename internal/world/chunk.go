package world

import (
	"sync"

	"github.com/annel0/voxel-light/internal/vec"
	"github.com/annel0/voxel-light/internal/world/block"
)

// Размеры чанка
const (
	ChunkSize   = 16
	ChunkVolume = ChunkSize * ChunkSize * ChunkSize
	chunkMask   = ChunkSize - 1
)

// Chunk представляет куб мира 16x16x16 блоков: цвета блоков, освещённость
// каждого блока и ссылки на шесть соседних чанков.
//
// Освещённость читается и пишется без блокировок: все проходы освещения
// выполняются в одном потоке изменения мира.
type Chunk struct {
	Coords vec.Vec3 // Координаты чанка в мире

	blocks    [ChunkVolume]block.Block
	light     [ChunkVolume]LightValue
	neighbors [vec.FaceCount]*Chunk

	ChangeCounter int // Счетчик изменений блоков
	lightChanges  int // Счетчик записей освещённости с последнего опроса

	Mu sync.RWMutex // Защищает блоки от конкурентного доступа извне
}

// NewChunk создаёт пустой (заполненный воздухом) чанк с указанными координатами
func NewChunk(coords vec.Vec3) *Chunk {
	c := &Chunk{Coords: coords}
	for i := range c.blocks {
		c.blocks[i] = block.NewAirBlock()
	}
	return c
}

// InBounds проверяет, лежат ли локальные координаты внутри чанка
func InBounds(local vec.Vec3) bool {
	return local.X >= 0 && local.X < ChunkSize &&
		local.Y >= 0 && local.Y < ChunkSize &&
		local.Z >= 0 && local.Z < ChunkSize
}

// index возвращает индекс в плоских массивах: y<<8 | z<<4 | x
func index(local vec.Vec3) int {
	return local.Y<<8 | local.Z<<4 | local.X
}

// GetBlock возвращает копию блока по локальным координатам
func (c *Chunk) GetBlock(local vec.Vec3) block.Block {
	if !InBounds(local) {
		return block.NewAirBlock()
	}

	c.Mu.RLock()
	defer c.Mu.RUnlock()
	return c.blocks[index(local)]
}

// BlockAt возвращает указатель на блок в хранилище чанка или nil вне границ.
// Только для чтения из потока изменения мира.
func (c *Chunk) BlockAt(local vec.Vec3) *block.Block {
	if !InBounds(local) {
		return nil
	}
	return &c.blocks[index(local)]
}

// SetBlock устанавливает блок и возвращает предыдущий
func (c *Chunk) SetBlock(local vec.Vec3, b block.Block) block.Block {
	if !InBounds(local) {
		return block.NewAirBlock()
	}

	c.Mu.Lock()
	defer c.Mu.Unlock()

	i := index(local)
	prev := c.blocks[i]
	c.blocks[i] = b
	c.ChangeCounter++
	return prev
}

// Light возвращает упакованную освещённость блока
func (c *Chunk) Light(local vec.Vec3) LightValue {
	if !InBounds(local) {
		return 0
	}
	return c.light[index(local)]
}

// LightLevel возвращает уровень одного канала
func (c *Chunk) LightLevel(local vec.Vec3, ch Channel) uint8 {
	return c.Light(local).Get(ch)
}

// SetLightLevel записывает уровень одного канала
func (c *Chunk) SetLightLevel(local vec.Vec3, ch Channel, level uint8) {
	if !InBounds(local) {
		return
	}
	i := index(local)
	c.light[i] = c.light[i].With(ch, level)
	c.lightChanges++
}

// SetLight записывает все каналы сразу
func (c *Chunk) SetLight(local vec.Vec3, v LightValue) {
	if !InBounds(local) {
		return
	}
	c.light[index(local)] = v
	c.lightChanges++
}

// ClearLight обнуляет освещённость всего чанка
func (c *Chunk) ClearLight() {
	c.light = [ChunkVolume]LightValue{}
	c.lightChanges++
}

// HasLightChanges возвращает true, если освещённость менялась с последнего ClearLightChanges.
// Генерация мешей опрашивает этот флаг после завершения проходов освещения.
func (c *Chunk) HasLightChanges() bool {
	return c.lightChanges > 0
}

// ClearLightChanges сбрасывает флаг изменения освещённости
func (c *Chunk) ClearLightChanges() {
	c.lightChanges = 0
}

// HasChanges возвращает true, если в чанке есть изменения блоков
func (c *Chunk) HasChanges() bool {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	return c.ChangeCounter > 0
}

// ClearChanges очищает счетчик изменений блоков
func (c *Chunk) ClearChanges() {
	c.Mu.Lock()
	defer c.Mu.Unlock()

	c.ChangeCounter = 0
}

// Neighbor возвращает соседний чанк по грани или nil, если сосед не связан
func (c *Chunk) Neighbor(f vec.Face) *Chunk {
	if !f.Valid() {
		return nil
	}
	return c.neighbors[f]
}

// HasNeighbor проверяет, связан ли сосед по грани
func (c *Chunk) HasNeighbor(f vec.Face) bool {
	return c.Neighbor(f) != nil
}

// setNeighbor связывает (или развязывает при nil) соседа по грани
func (c *Chunk) setNeighbor(f vec.Face, n *Chunk) {
	if f.Valid() {
		c.neighbors[f] = n
	}
}

// Resolve переходит от локальной позиции к соседней клетке по грани.
// Если клетка за границей чанка, переводит координаты в систему соседнего чанка;
// ok == false, когда соседний чанк не связан.
func (c *Chunk) Resolve(local vec.Vec3, f vec.Face) (*Chunk, vec.Vec3, bool) {
	unit, valid := f.UnitVector()
	if !valid {
		return nil, vec.Vec3{}, false
	}

	next := local.Add(unit)
	if InBounds(next) {
		return c, next, true
	}

	n := c.neighbors[f]
	if n == nil {
		return nil, vec.Vec3{}, false
	}
	return n, vec.Vec3{X: next.X & chunkMask, Y: next.Y & chunkMask, Z: next.Z & chunkMask}, true
}

// ForEachLocal обходит все локальные координаты чанка
func ForEachLocal(fn func(local vec.Vec3)) {
	for y := 0; y < ChunkSize; y++ {
		for z := 0; z < ChunkSize; z++ {
			for x := 0; x < ChunkSize; x++ {
				fn(vec.Vec3{X: x, Y: y, Z: z})
			}
		}
	}
}

// ForEachOnFace обходит клетки чанка, лежащие на указанной грани
func ForEachOnFace(f vec.Face, fn func(local vec.Vec3)) {
	unit, ok := f.UnitVector()
	if !ok {
		return
	}

	fixed := 0
	if unit.X+unit.Y+unit.Z > 0 {
		fixed = ChunkSize - 1
	}

	for a := 0; a < ChunkSize; a++ {
		for b := 0; b < ChunkSize; b++ {
			switch {
			case unit.X != 0:
				fn(vec.Vec3{X: fixed, Y: a, Z: b})
			case unit.Y != 0:
				fn(vec.Vec3{X: a, Y: fixed, Z: b})
			default:
				fn(vec.Vec3{X: a, Y: b, Z: fixed})
			}
		}
	}
}

// Blocks возвращает копию индексов цветов всех блоков в порядке index()
func (c *Chunk) Blocks() []uint8 {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	out := make([]uint8, ChunkVolume)
	for i := range c.blocks {
		out[i] = c.blocks[i].ColorIndex()
	}
	return out
}

// LoadBlocks заполняет блоки из индексов цветов (формат Blocks)
func (c *Chunk) LoadBlocks(colors []uint8) bool {
	if len(colors) != ChunkVolume {
		return false
	}

	c.Mu.Lock()
	defer c.Mu.Unlock()

	for i, idx := range colors {
		c.blocks[i] = block.NewColorBlock(idx)
	}
	c.ChangeCounter++
	return true
}

// SnapshotLight возвращает копию освещённости чанка
func (c *Chunk) SnapshotLight() [ChunkVolume]LightValue {
	return c.light
}
