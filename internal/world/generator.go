package world

import (
	"math/rand"

	"github.com/annel0/voxel-light/internal/util"
	"github.com/annel0/voxel-light/internal/vec"
	"github.com/annel0/voxel-light/internal/world/block"
)

// WorldGenerator заполняет чанки ландшафтом по карте высот Перлина,
// добавляя пещеры, стеклянные вкрапления и светильники.
type WorldGenerator struct {
	Seed        int64   // Сид для генерации шума
	NoiseScale  float64 // Масштаб шума высоты
	CaveScale   float64 // Масштаб шума пещер
	BaseHeight  int     // Средняя высота поверхности в блоках
	Amplitude   int     // Разброс высоты поверхности
	CaveCutoff  float64 // Порог шума, выше которого выкапывается пещера
	LampDensity float64 // Вероятность светильника на клетку поверхности
	GlassChance float64 // Вероятность стекла вместо камня

	noise *util.Noise
}

// NewWorldGenerator создаёт новый генератор мира
func NewWorldGenerator(seed int64) *WorldGenerator {
	return &WorldGenerator{
		Seed:        seed,
		NoiseScale:  0.05, // Настройка сглаженности ландшафта
		CaveScale:   0.12,
		BaseHeight:  12,
		Amplitude:   10,
		CaveCutoff:  0.72,
		LampDensity: 0.01,
		GlassChance: 0.02,
		noise:       util.NewNoise(seed),
	}
}

// GenerateChunk генерирует чанк по его координатам. Освещённость не вычисляется.
func (wg *WorldGenerator) GenerateChunk(coords vec.Vec3) *Chunk {
	chunk := NewChunk(coords)

	// Для каждого чанка создаем уникальный сид на основе глобального сида и координат
	chunkSeed := wg.Seed + int64(coords.X*31) + int64(coords.Y*17) + int64(coords.Z*13)
	rng := rand.New(rand.NewSource(chunkSeed))

	origin := coords.Mul(ChunkSize)
	lamps := []uint8{block.ColorRedLamp, block.ColorGreenLamp, block.ColorBlueLamp, block.ColorWhiteLamp}

	for z := 0; z < ChunkSize; z++ {
		for x := 0; x < ChunkSize; x++ {
			gx, gz := origin.X+x, origin.Z+z
			h := wg.BaseHeight + int(float64(wg.Amplitude)*(wg.noise.Noise2D(float64(gx)*wg.NoiseScale, float64(gz)*wg.NoiseScale)-0.5)*2)

			for y := 0; y < ChunkSize; y++ {
				gy := origin.Y + y
				local := vec.Vec3{X: x, Y: y, Z: z}

				var color uint8
				switch {
				case gy > h:
					// Над поверхностью изредка стоят светильники
					if gy == h+1 && rng.Float64() < wg.LampDensity {
						chunk.SetBlock(local, block.NewColorBlock(lamps[rng.Intn(len(lamps))]))
					}
					continue
				case gy == h:
					color = block.ColorGrass
				case gy > h-3:
					color = block.ColorDirt
				default:
					color = block.ColorStone
				}

				if gy < h && wg.noise.Noise3D(float64(gx)*wg.CaveScale, float64(gy)*wg.CaveScale, float64(gz)*wg.CaveScale) > wg.CaveCutoff {
					continue // пещера
				}
				if color == block.ColorStone && rng.Float64() < wg.GlassChance {
					color = block.ColorGlass
				}
				chunk.SetBlock(local, block.NewColorBlock(color))
			}
		}
	}

	chunk.ClearChanges()
	return chunk
}
