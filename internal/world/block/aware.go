package block

import "github.com/annel0/voxel-light/internal/vec"

// AwareBlock описывает блок, привязанный к позиции в пространстве фигуры, позиции в чанке
// и последней затронутой грани. Используется при размещении блоков: по грани
// вычисляется целевая позиция соседней клетки. Состояние временное, не сохраняется.
type AwareBlock struct {
	Block          Block
	ShapePos       *vec.Vec3 // nil, если позиция не задана
	ChunkPos       *vec.Vec3
	ShapeTargetPos *vec.Vec3 // ShapePos + единичный вектор грани
	Face           vec.Face

	pool *vec.Pool
}

// NewAwareBlock копирует блок и позиции (через pool, может быть nil) и сразу вычисляет цель
func NewAwareBlock(pool *vec.Pool, b *Block, shapePos, chunkPos *vec.Vec3, face vec.Face) *AwareBlock {
	ab := &AwareBlock{
		Block:    b.Copy(),
		ShapePos: pool.Clone(shapePos),
		ChunkPos: pool.Clone(chunkPos),
		pool:     pool,
	}
	ab.SetTouchedFace(face)
	return ab
}

// normalizeFace приводит недопустимую грань к vec.FaceNone
func normalizeFace(f vec.Face) vec.Face {
	if !f.Valid() {
		return vec.FaceNone
	}
	return f
}

// SetTouchedFace запоминает грань и пересчитывает целевую позицию
func (ab *AwareBlock) SetTouchedFace(face vec.Face) {
	ab.Face = normalizeFace(face)

	unit, ok := face.UnitVector()
	if !ok || ab.ShapePos == nil {
		ab.pool.Put(ab.ShapeTargetPos)
		ab.ShapeTargetPos = nil
		return
	}

	target := ab.ShapePos.Add(unit)
	if ab.ShapeTargetPos == nil {
		ab.ShapeTargetPos = ab.pool.Get(target.X, target.Y, target.Z)
		return
	}
	*ab.ShapeTargetPos = target
}

// Copy возвращает глубокую копию: блок и все три вектора копируются
func (ab *AwareBlock) Copy() *AwareBlock {
	if ab == nil {
		return nil
	}
	return &AwareBlock{
		Block:          ab.Block,
		ShapePos:       ab.pool.Clone(ab.ShapePos),
		ChunkPos:       ab.pool.Clone(ab.ChunkPos),
		ShapeTargetPos: ab.pool.Clone(ab.ShapeTargetPos),
		Face:           ab.Face,
		pool:           ab.pool,
	}
}

// Release возвращает принадлежащие блоку векторы в пул
func (ab *AwareBlock) Release() {
	if ab == nil {
		return
	}
	ab.pool.Put(ab.ShapePos)
	ab.pool.Put(ab.ChunkPos)
	ab.pool.Put(ab.ShapeTargetPos)
	ab.ShapePos, ab.ChunkPos, ab.ShapeTargetPos = nil, nil, nil
}
