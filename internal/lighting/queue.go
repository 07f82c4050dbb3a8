package lighting

import (
	"github.com/annel0/voxel-light/internal/vec"
	"github.com/annel0/voxel-light/internal/world"
)

// NoSource отмечает узел удаления, не связанный со снятым источником света
const NoSource uint8 = 255

// LightNode указывает клетку, которая должна передать свой свет соседям
type LightNode struct {
	Chunk *world.Chunk
	Pos   vec.Vec3
}

// LightRemovalNode указывает клетку, чей свет в каналах Mask больше не подтверждён.
// Prior хранит освещённость клетки до обнуления, Source — индекс цвета
// снятого блока-источника либо NoSource.
type LightRemovalNode struct {
	Chunk  *world.Chunk
	Pos    vec.Vec3
	Prior  world.LightValue
	Mask   world.ChannelMask
	Source uint8
}

// LightNodeQueue хранит клетки для распространения света.
// Порядок извлечения не влияет на итоговую освещённость.
type LightNodeQueue struct {
	q queue[LightNode]
}

// NewLightNodeQueue создаёт пустую очередь поверх пула
func NewLightNodeQueue(pool *NodePool[LightNode]) *LightNodeQueue {
	return &LightNodeQueue{q: newQueue(pool)}
}

// Push добавляет клетку. Возвращает false, если пул исчерпан.
func (q *LightNodeQueue) Push(c *world.Chunk, pos vec.Vec3) bool {
	return q.q.push(LightNode{Chunk: c, Pos: pos})
}

// Pop извлекает узел. Ссылку нужно вернуть через Recycle.
func (q *LightNodeQueue) Pop() (LightNode, NodeRef, bool) {
	return q.q.pop()
}

// Recycle возвращает извлечённый узел в пул
func (q *LightNodeQueue) Recycle(ref NodeRef) {
	q.q.pool.Recycle(ref)
}

// Free возвращает все оставшиеся узлы в пул
func (q *LightNodeQueue) Free() {
	q.q.free()
}

// Len возвращает число узлов в очереди
func (q *LightNodeQueue) Len() int {
	return q.q.size
}

// Empty проверяет, пуста ли очередь
func (q *LightNodeQueue) Empty() bool {
	return q.q.size == 0
}

// LightRemovalNodeQueue хранит клетки для удаления света
type LightRemovalNodeQueue struct {
	q queue[LightRemovalNode]
}

// NewLightRemovalNodeQueue создаёт пустую очередь удаления поверх пула
func NewLightRemovalNodeQueue(pool *NodePool[LightRemovalNode]) *LightRemovalNodeQueue {
	return &LightRemovalNodeQueue{q: newQueue(pool)}
}

// Push добавляет клетку для удаления каналов mask. Возвращает false, если пул исчерпан.
func (q *LightRemovalNodeQueue) Push(c *world.Chunk, pos vec.Vec3, prior world.LightValue, mask world.ChannelMask, source uint8) bool {
	return q.q.push(LightRemovalNode{Chunk: c, Pos: pos, Prior: prior, Mask: mask, Source: source})
}

// Pop извлекает узел. Ссылку нужно вернуть через Recycle.
func (q *LightRemovalNodeQueue) Pop() (LightRemovalNode, NodeRef, bool) {
	return q.q.pop()
}

// Recycle возвращает извлечённый узел в пул
func (q *LightRemovalNodeQueue) Recycle(ref NodeRef) {
	q.q.pool.Recycle(ref)
}

// Free возвращает все оставшиеся узлы в пул
func (q *LightRemovalNodeQueue) Free() {
	q.q.free()
}

// Len возвращает число узлов в очереди
func (q *LightRemovalNodeQueue) Len() int {
	return q.q.size
}

// Empty проверяет, пуста ли очередь
func (q *LightRemovalNodeQueue) Empty() bool {
	return q.q.size == 0
}
