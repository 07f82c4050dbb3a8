package block

// AirColorIndex — индекс цвета, обозначающий отсутствие блока (воздух)
const AirColorIndex uint8 = 255

// Block описывает один воксель: индекс цвета в палитре или воздух.
// Все предикаты допускают nil-получатель: отсутствующий блок считается воздухом.
type Block struct {
	colorIndex uint8
}

// NewBlock создаёт блок по умолчанию (воздух)
func NewBlock() Block {
	return Block{colorIndex: AirColorIndex}
}

// NewAirBlock создаёт воздух
func NewAirBlock() Block {
	return Block{colorIndex: AirColorIndex}
}

// NewColorBlock создаёт блок с указанным индексом цвета
func NewColorBlock(colorIndex uint8) Block {
	return Block{colorIndex: colorIndex}
}

// Copy возвращает копию блока. Для nil возвращает воздух.
func (b *Block) Copy() Block {
	if b == nil {
		return NewAirBlock()
	}
	return *b
}

// ColorIndex возвращает индекс цвета (AirColorIndex для воздуха и nil)
func (b *Block) ColorIndex() uint8 {
	if b == nil {
		return AirColorIndex
	}
	return b.colorIndex
}

// SetColorIndex меняет индекс цвета
func (b *Block) SetColorIndex(colorIndex uint8) {
	if b == nil {
		return
	}
	b.colorIndex = colorIndex
}

// Equal сравнивает блоки: два воздуха равны, воздух и твёрдый блок не равны
func (b *Block) Equal(other *Block) bool {
	bAir, oAir := !b.IsSolid(), !other.IsSolid()
	if bAir || oAir {
		return bAir == oAir
	}
	return b.colorIndex == other.colorIndex
}

// IsSolid возвращает true, если блок не воздух
func (b *Block) IsSolid() bool {
	return b != nil && b.colorIndex != AirColorIndex
}

// IsOpaque возвращает true для твёрдого непрозрачного блока.
// Без палитры все твёрдые блоки считаются непрозрачными.
func (b *Block) IsOpaque(p Palette) bool {
	if !b.IsSolid() {
		return false
	}
	if p == nil {
		return true
	}
	return !p.IsTransparent(b.colorIndex)
}

// IsTransparent возвращает true для твёрдого прозрачного блока
func (b *Block) IsTransparent(p Palette) bool {
	if !b.IsSolid() || p == nil {
		return false
	}
	return p.IsTransparent(b.colorIndex)
}

// IsAOCaster возвращает true, если блок затеняет соседнюю геометрию (ambient occlusion)
func (b *Block) IsAOCaster(p Palette, policy CasterPolicy) bool {
	if policy == CasterPolicySolid {
		return b.IsSolid()
	}
	return b.IsOpaque(p)
}

// IsLightCaster возвращает true, если свет может пройти через блок
func (b *Block) IsLightCaster(p Palette, policy CasterPolicy) bool {
	if policy == CasterPolicySolid {
		return !b.IsSolid()
	}
	return !b.IsOpaque(p)
}

// Emission возвращает собственное свечение блока по каналам R, G, B (0..15)
func (b *Block) Emission(p Palette) [3]uint8 {
	if !b.IsSolid() || p == nil {
		return [3]uint8{}
	}
	return p.Emission(b.colorIndex)
}

// IsLightSource возвращает true, если блок излучает хотя бы в одном канале
func (b *Block) IsLightSource(p Palette) bool {
	e := b.Emission(p)
	return e[0] > 0 || e[1] > 0 || e[2] > 0
}
