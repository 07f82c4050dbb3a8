package world

import (
	"github.com/annel0/voxel-light/internal/vec"
	"github.com/annel0/voxel-light/internal/world/block"
)

// EditKind обозначает вид применённого изменения блока
type EditKind int

const (
	EditNone    EditKind = iota // Блок не изменился
	EditPlace                   // Воздух заменён твёрдым блоком
	EditRemove                  // Твёрдый блок заменён воздухом
	EditRecolor                 // Твёрдый блок сменил цвет
)

// String возвращает имя вида изменения
func (k EditKind) String() string {
	switch k {
	case EditPlace:
		return "place"
	case EditRemove:
		return "remove"
	case EditRecolor:
		return "recolor"
	default:
		return "none"
	}
}

// BlockEdit описывает уже применённое к чанку изменение блока.
// Решение о том, какие изменения происходят, принимает подсистема правок;
// движок освещения только переводит описание в начальные очереди.
type BlockEdit struct {
	Kind   EditKind
	Chunk  *Chunk
	Pos    vec.Vec3 // Локальные координаты в Chunk
	Before block.Block
	After  block.Block
}

// ClassifyEdit определяет вид изменения по блокам до и после
func ClassifyEdit(before, after block.Block) EditKind {
	switch {
	case before.Equal(&after):
		return EditNone
	case !before.IsSolid():
		return EditPlace
	case !after.IsSolid():
		return EditRemove
	default:
		return EditRecolor
	}
}
